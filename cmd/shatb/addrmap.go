// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package main

import (
	"fmt"
	"io"

	"github.com/db47h/shatb/regmap"
	"github.com/spf13/cobra"
)

var addrmapCmd = &cobra.Command{
	Use:   "addrmap",
	Short: "Print the register address map of an accelerator.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := regmap.New(regmap.Config{
			DataWidth:   getInt(cmd, "data-width"),
			ByteAlign:   getFlag(cmd, "byte-align"),
			BlockWidth:  getInt(cmd, "block-width"),
			DigestWidth: getInt(cmd, "digest-width"),
		})
		if err != nil {
			return err
		}
		return printMap(cmd.OutOrStdout(), m)
	},
}

func printMap(w io.Writer, m *regmap.Map) error {
	cfg := m.Config()
	digits := (cfg.AddrWidth + 3) / 4
	fmt.Fprintf(w, "data width %d, %d lanes, address width %d\n", cfg.DataWidth, m.Lanes(), cfg.AddrWidth)
	for _, r := range []regmap.Region{regmap.Control, regmap.Block, regmap.Digest} {
		for i, a := range m.Addresses(r) {
			if _, err := fmt.Fprintf(w, "0x%0*x  %-6s %d\n", digits, a, r, i); err != nil {
				return err
			}
		}
	}
	return nil
}

func init() {
	addrmapCmd.Flags().Int("data-width", 32, "register width in bits: 8, 16, 32 or 64")
	addrmapCmd.Flags().Bool("byte-align", false, "byte addresses instead of 32 bits word addresses")
	addrmapCmd.Flags().Int("block-width", 512, "block width in bits: 512 or 1024")
	addrmapCmd.Flags().Int("digest-width", 256, "digest width in bits")
	rootCmd.AddCommand(addrmapCmd)
}
