// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package main

import (
	"fmt"
	"runtime/debug"

	"github.com/spf13/cobra"
)

// Version is set at link time with -ldflags "-X main.Version=...".
var Version string

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Report the version of this executable.",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		v := Version
		if v == "" {
			if info, ok := debug.ReadBuildInfo(); ok {
				v = info.Main.Version
			} else {
				v = "(unknown version)"
			}
		}
		fmt.Fprintln(cmd.OutOrStdout(), "shatb", v)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
