// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package main

import (
	"encoding/hex"
	"fmt"
	"io"

	"github.com/db47h/shatb/hashmodel"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var digestCmd = &cobra.Command{
	Use:   "digest [flags] MESSAGE",
	Short: "Compute the reference digest of a message.",
	Long: `Compute the digest of MESSAGE with the reference model. With --blocks,
print the padded blocks and the hash value after each block. With --rounds,
print the working variables after every round.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := hashConfig(cmd)
		if err != nil {
			return err
		}
		msg := []byte(args[0])
		if getFlag(cmd, "hex") {
			if msg, err = hex.DecodeString(args[0]); err != nil {
				return errors.Wrap(err, "message")
			}
		}
		eng, err := hashmodel.New(cfg)
		if err != nil {
			return err
		}
		return printDigest(cmd.OutOrStdout(), eng, msg, getFlag(cmd, "blocks"), getFlag(cmd, "rounds"))
	},
}

func printDigest(w io.Writer, eng *hashmodel.Engine, msg []byte, blocks, rounds bool) error {
	d := eng.Process(msg)
	if blocks {
		inter := eng.IntermediateDigests()
		for i, b := range eng.Blocks() {
			fmt.Fprintf(w, "block %d: %s\n", i, hex.EncodeToString(b))
			if i < len(inter) {
				fmt.Fprintf(w, "  hash: %s\n", inter[i])
			}
		}
	}
	if rounds {
		for _, rs := range eng.RoundComputations() {
			fmt.Fprintf(w, "%3d %3d  %s\n", rs.Block, rs.Round, rs)
		}
	}
	_, err := fmt.Fprintln(w, d)
	return err
}

func init() {
	hashFlags(digestCmd)
	digestCmd.Flags().Bool("hex", false, "MESSAGE is hex encoded")
	digestCmd.Flags().Bool("blocks", false, "print padded blocks and intermediate digests")
	digestCmd.Flags().Bool("rounds", false, "print the working variables after every round")
	rootCmd.AddCommand(digestCmd)
}
