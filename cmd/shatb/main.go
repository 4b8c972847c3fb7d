// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Command shatb is the command line front end of the SHA accelerator test
// bench: it computes reference digests, prints register maps and runs random
// messages through the register driver against a behavioral or simulated
// accelerator.
package main

import (
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var rootCmd = &cobra.Command{
	Use:           "shatb",
	Short:         "SHA accelerator test bench.",
	Long:          "A reference model, register driver and clocked simulator for SHA-1/SHA-2 hardware accelerators.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setupLog(getFlag(cmd, "verbose"), getFlag(cmd, "debug"))
	},
}

func setupLog(verbose, debug bool) {
	tty := term.IsTerminal(int(os.Stderr.Fd()))
	log.SetOutput(os.Stderr)
	log.SetFormatter(&log.TextFormatter{
		ForceColors:      tty,
		DisableColors:    !tty,
		DisableTimestamp: tty,
		FullTimestamp:    !tty,
	})
	switch {
	case debug:
		log.SetLevel(log.DebugLevel)
	case verbose:
		log.SetLevel(log.InfoLevel)
	default:
		log.SetLevel(log.WarnLevel)
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "shatb:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "increase logging verbosity")
	rootCmd.PersistentFlags().Bool("debug", false, "log every driver operation")
}
