// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package main

import (
	"fmt"
	"os"

	"github.com/db47h/shatb/hashmodel"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// Get an expected flag, or exit if an error arises.
func getFlag(cmd *cobra.Command, flag string) bool {
	r, err := cmd.Flags().GetBool(flag)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	return r
}

func getInt(cmd *cobra.Command, flag string) int {
	r, err := cmd.Flags().GetInt(flag)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	return r
}

func getInt64(cmd *cobra.Command, flag string) int64 {
	r, err := cmd.Flags().GetInt64(flag)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	return r
}

func getString(cmd *cobra.Command, flag string) string {
	r, err := cmd.Flags().GetString(flag)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	return r
}

// hashFlags registers the --alg and --width flags.
func hashFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("alg", "a", "sha256", "hash algorithm: sha1, sha256 or sha512")
	cmd.Flags().IntP("width", "w", 0, "digest width in bits (0 for the full width)")
}

func hashConfig(cmd *cobra.Command) (hashmodel.Config, error) {
	alg, err := hashmodel.ParseAlgorithm(getString(cmd, "alg"))
	if err != nil {
		return hashmodel.Config{}, err
	}
	cfg := hashmodel.Config{Algorithm: alg, DigestWidth: getInt(cmd, "width")}
	// validate now rather than on first use
	if _, err = hashmodel.NewCore(cfg); err != nil {
		return cfg, errors.Wrap(err, "hash configuration")
	}
	return cfg, nil
}
