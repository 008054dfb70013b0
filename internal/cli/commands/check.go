// SPDX-License-Identifier: AGPL-3.0-or-later

/*

Flag Frenzy - Flag Frenzy is a Go-based CLI that exhaustively type-checks combinations of Cargo feature flags for every package in a workspace.

Copyright (C) 2025  Bartek Kus

This program is free software licensed under the terms of the GNU AGPL v3 or later.

See https://www.gnu.org/licenses/ for license details.

*/

// Package commands implements the flag-frenzy subcommands.
package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/TheBevyFlock/flag-frenzy/internal/ansi"
	"github.com/TheBevyFlock/flag-frenzy/internal/checker"
	"github.com/TheBevyFlock/flag-frenzy/internal/chunk"
	"github.com/TheBevyFlock/flag-frenzy/internal/combos"
	"github.com/TheBevyFlock/flag-frenzy/internal/config"
	"github.com/TheBevyFlock/flag-frenzy/internal/intern"
	"github.com/TheBevyFlock/flag-frenzy/internal/manifest"
	"github.com/TheBevyFlock/flag-frenzy/internal/reports"
	"github.com/TheBevyFlock/flag-frenzy/pkg/executil"
	"github.com/TheBevyFlock/flag-frenzy/pkg/logging"
)

// NewCheckCommand returns the `flag-frenzy check` command.
func NewCheckCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Type-check every allowed feature combination of each workspace package",
		Long:  "Enumerate every allowed combination of feature flags for each package in the workspace, run `cargo check` against each one, and report the combinations that fail to compile.",
		RunE:  runCheck,
	}

	// Registered in lexicographic order for deterministic help output.
	cmd.Flags().Int("chunk", 0, "index of the chunk of packages to check (requires --total-chunks)")
	cmd.Flags().String("color", "always", "color mode: always or never")
	cmd.Flags().String("config", "./config", "path to the config folder")
	cmd.Flags().Bool("dry-run", false, "enumerate and print combinations without invoking cargo")
	cmd.Flags().String("manifest-path", "", "path to Cargo.toml (default: discovered via `cargo locate-project`)")
	cmd.Flags().StringP("package", "p", "", "check a single package instead of the whole workspace")
	cmd.Flags().String("report", "", "write a YAML failure report to this path")
	cmd.Flags().Int("total-chunks", 0, "total number of chunks the workspace is split into")

	return cmd
}

// checkOptions holds the resolved flag values of one `check` invocation.
type checkOptions struct {
	manifestPath string
	configDir    string
	pkg          string
	chunk        int
	totalChunks  int
	chunked      bool
	color        ansi.Color
	dryRun       bool
	report       string
	verbose      bool
}

// resolveCheckOptions reads and cross-validates the command's flags.
func resolveCheckOptions(cmd *cobra.Command) (checkOptions, error) {
	var opts checkOptions
	var err error

	opts.manifestPath, _ = cmd.Flags().GetString("manifest-path")
	opts.configDir, _ = cmd.Flags().GetString("config")
	opts.pkg, _ = cmd.Flags().GetString("package")
	opts.chunk, _ = cmd.Flags().GetInt("chunk")
	opts.totalChunks, _ = cmd.Flags().GetInt("total-chunks")
	opts.dryRun, _ = cmd.Flags().GetBool("dry-run")
	opts.report, _ = cmd.Flags().GetString("report")
	opts.verbose, _ = cmd.Flags().GetBool("verbose")

	colorMode, _ := cmd.Flags().GetString("color")
	choice, err := ansi.ParseColorChoice(colorMode)
	if err != nil {
		return checkOptions{}, err
	}
	opts.color = ansi.FromColorChoice(choice)

	chunkSet := cmd.Flags().Changed("chunk")
	totalSet := cmd.Flags().Changed("total-chunks")
	if chunkSet != totalSet {
		return checkOptions{}, errors.New("--chunk and --total-chunks must be given together")
	}
	opts.chunked = chunkSet

	if opts.chunked && opts.pkg != "" {
		return checkOptions{}, errors.New("--package and --chunk are mutually exclusive")
	}

	return opts, nil
}

func runCheck(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	opts, err := resolveCheckOptions(cmd)
	if err != nil {
		return err
	}

	logger := logging.NewLogger(opts.verbose)
	runner := executil.NewRunner()
	out := cmd.OutOrStdout()

	if opts.manifestPath == "" {
		opts.manifestPath, err = manifest.LocateManifest(ctx, runner)
		if err != nil {
			return fmt.Errorf("failed to locate workspace manifest: %w", err)
		}
		logger.Debug("located workspace manifest", logging.NewField("path", opts.manifestPath))
	}

	cfg, err := config.LoadConfig(opts.configDir)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to load config: %w", err)
		}
		// No config folder means no rules and no overrides.
		logger.Debug("config folder not found, using defaults", logging.NewField("path", opts.configDir))
		cfg = config.NewWorkspaceConfig(nil, config.CrateSchema{})
	}

	man, err := manifest.LoadManifest(ctx, runner, opts.manifestPath)
	if err != nil {
		return fmt.Errorf("failed to load workspace metadata: %w", err)
	}

	packages, err := selectPackages(man.Packages, opts, cfg)
	if err != nil {
		return err
	}

	var failures []reports.Failure
	totalCombos := 0

	for _, pkg := range packages {
		pkgFailures, count, err := checkPackage(ctx, out, runner, logger, opts, cfg, pkg)
		if err != nil {
			return err
		}

		failures = append(failures, pkgFailures...)
		totalCombos += count
	}

	printSummary(out, opts, len(packages), totalCombos, failures)

	if opts.report != "" {
		report := reports.Report{
			ManifestPath: opts.manifestPath,
			Packages:     len(packages),
			Combinations: totalCombos,
			Failures:     failures,
		}
		if err := reports.WriteYAMLAtomic(opts.report, report); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
	}

	if len(failures) > 0 {
		return fmt.Errorf("%d feature combination(s) failed to compile", len(failures))
	}

	return nil
}

// selectPackages narrows the workspace down to the packages this worker
// checks: a single package, one chunk, or everything sorted by name.
func selectPackages(packages []manifest.Package, opts checkOptions, cfg *config.WorkspaceConfig) ([]manifest.Package, error) {
	if opts.pkg != "" {
		for _, pkg := range packages {
			if pkg.Name == opts.pkg {
				return []manifest.Package{pkg}, nil
			}
		}
		return nil, fmt.Errorf("package %q not found in workspace", opts.pkg)
	}

	// Name order keeps the chunker's stable size sort deterministic across
	// workers.
	sort.Slice(packages, func(i, j int) bool {
		return packages[i].Name < packages[j].Name
	})

	if opts.chunked {
		return chunk.SelectChunk(opts.totalChunks, opts.chunk, packages, cfg)
	}

	return packages, nil
}

// checkPackage runs the filtered combination pipeline for one package,
// checking each combination unless dry-run is set. Failing combinations are
// collected, not fatal.
func checkPackage(ctx context.Context, out io.Writer, runner executil.Runner, logger logging.Logger, opts checkOptions, cfg *config.WorkspaceConfig, pkg manifest.Package) ([]reports.Failure, int, error) {
	c := opts.color
	cfgView := cfg.Get(pkg.Name)

	storage := intern.InternFeatures(pkg.Features, cfgView.SkipOptionalDeps())
	n := storage.Len()

	maxK := n
	if limit, ok := cfgView.MaxComboSize(); ok && limit < maxK {
		maxK = limit
	}
	if maxK < 0 {
		maxK = 0
	}

	estimate, err := combos.EstimateCombos(uint64(n), uint64(maxK))
	if err != nil {
		return nil, 0, fmt.Errorf("estimating combinations for package %q (%d features, max combo size %d): %w; lower max_combo_size for this package", pkg.Name, n, maxK, err)
	}

	fmt.Fprintf(out, "%s%sChecking package %s with %d features, up to %s combinations.%s\n", c.Bold, c.Info, pkg.Name, n, estimate, c.Reset)

	pipeline, err := combos.NewFeatureCombos(storage, cfgView)
	if err != nil {
		return nil, 0, fmt.Errorf("compiling rules for package %q: %w", pkg.Name, err)
	}

	var failures []reports.Failure
	count := 0

	for {
		combo, ok := pipeline.Next()
		if !ok {
			break
		}

		names := combos.ResolveNames(combo, storage)
		sort.Strings(names)
		list := strings.Join(names, ",")
		count++

		if opts.dryRun {
			fmt.Fprintf(out, "  %s[%s]%s\n", c.Dim, list, c.Reset)
			continue
		}

		fmt.Fprintf(out, "Checking %s with features %s\n", pkg.Name, list)

		result, err := checker.CheckWithFeatures(ctx, runner, pkg.Name, opts.manifestPath, names)
		if err != nil {
			return nil, 0, err
		}

		if !result.Success() {
			logger.Debug("check failed", logging.NewField("package", pkg.Name), logging.NewField("features", list), logging.NewField("exit_code", result.ExitCode))
			failures = append(failures, reports.Failure{Package: pkg.Name, Features: names})

			fmt.Fprintf(out, "%sCheck failed for %s with features %s%s\n", c.Error, pkg.Name, list, c.Reset)
			if len(result.Stderr) > 0 {
				fmt.Fprintf(out, "%s%s%s\n", c.Dim, strings.TrimRight(string(result.Stderr), "\n"), c.Reset)
			}
		}
	}

	return failures, count, nil
}

// printSummary emits the end-of-run report.
func printSummary(out io.Writer, opts checkOptions, packages, totalCombos int, failures []reports.Failure) {
	c := opts.color

	fmt.Fprintln(out)

	if len(failures) == 0 {
		verb := "passed"
		if opts.dryRun {
			verb = "enumerated"
		}
		fmt.Fprintf(out, "%s%d combination(s) across %d package(s) %s.%s\n", c.Success, totalCombos, packages, verb, c.Reset)
		return
	}

	fmt.Fprintf(out, "%s%d combination(s) failed:%s\n", c.Error, len(failures), c.Reset)
	for _, failure := range failures {
		fmt.Fprintf(out, "%s  %s with features %s%s\n", c.Error, failure.Package, strings.Join(failure.Features, ","), c.Reset)
	}
}
