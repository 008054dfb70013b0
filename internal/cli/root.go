// SPDX-License-Identifier: AGPL-3.0-or-later

/*

Flag Frenzy - Flag Frenzy is a Go-based CLI that exhaustively type-checks combinations of Cargo feature flags for every package in a workspace.

Copyright (C) 2025  Bartek Kus

This program is free software licensed under the terms of the GNU AGPL v3 or later.

See https://www.gnu.org/licenses/ for license details.

*/

// Package cli wires together the flag-frenzy root Cobra command and global
// CLI options.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/TheBevyFlock/flag-frenzy/internal/cli/commands"
)

// NewRootCommand constructs the flag-frenzy root Cobra command.
func NewRootCommand() *cobra.Command {
	version := os.Getenv("FLAG_FRENZY_VERSION")
	if version == "" {
		version = "0.0.0-dev"
	}

	cmd := &cobra.Command{
		Use:           "flag-frenzy",
		Short:         "flag-frenzy – exhaustive Cargo feature-combination checker",
		Long:          "flag-frenzy enumerates every allowed combination of feature flags for each package in a Cargo workspace and type-checks each one, catching bugs that only appear under specific feature subsets.",
		SilenceUsage:  true, // don't dump usage on user errors
		SilenceErrors: true, // centralize error printing in main()
	}

	// Global flags - registered in lexicographic order for deterministic
	// help output.
	cmd.PersistentFlags().BoolP("verbose", "v", false, "enable verbose output")

	// Version command – simple and explicit.
	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version number of flag-frenzy",
		Run: func(cmd *cobra.Command, args []string) {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "flag-frenzy version %s\n", version)
		},
	})

	cmd.AddCommand(commands.NewCheckCommand())

	return cmd
}
