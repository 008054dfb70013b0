// SPDX-License-Identifier: AGPL-3.0-or-later

/*

Flag Frenzy - Flag Frenzy is a Go-based CLI that exhaustively type-checks combinations of Cargo feature flags for every package in a workspace.

Copyright (C) 2025  Bartek Kus

This program is free software licensed under the terms of the GNU AGPL v3 or later.

See https://www.gnu.org/licenses/ for license details.

*/

package config

// WorkspaceConfig holds the configuration of every crate plus the global
// defaults supplied by global.toml.
type WorkspaceConfig struct {
	crates map[string]CrateConfig

	maxComboSize     *int
	skipOptionalDeps *bool
}

// NewWorkspaceConfig builds a WorkspaceConfig from per-crate configuration
// and the global defaults. Rules in the global schema are ignored; the
// loader rejects them before they get here.
func NewWorkspaceConfig(crates map[string]CrateConfig, global CrateSchema) *WorkspaceConfig {
	if crates == nil {
		crates = map[string]CrateConfig{}
	}

	return &WorkspaceConfig{
		crates:           crates,
		maxComboSize:     global.MaxComboSize,
		skipOptionalDeps: global.SkipOptionalDeps,
	}
}

// Get returns the configuration view for a crate. Unknown names get a view
// backed only by the global defaults.
func (w *WorkspaceConfig) Get(name string) Config {
	cfg := Config{workspace: w}
	if crate, ok := w.crates[name]; ok {
		cfg.crate = &crate
	}
	return cfg
}

// CrateConfig is the configuration of a single crate.
type CrateConfig struct {
	maxComboSize     *int
	skipOptionalDeps *bool
	rules            []RuleSchema
}

// CrateConfigFromSchema converts a decoded schema into a CrateConfig.
func CrateConfigFromSchema(schema CrateSchema) CrateConfig {
	return CrateConfig{
		maxComboSize:     schema.MaxComboSize,
		skipOptionalDeps: schema.SkipOptionalDeps,
		rules:            schema.Rules,
	}
}

// Config is a view over one crate's configuration combined with the
// workspace's global defaults.
type Config struct {
	workspace *WorkspaceConfig
	crate     *CrateConfig
}

// MaxComboSize returns the combination size limit, falling back from the
// crate to the global default. ok is false when neither defines one.
func (c Config) MaxComboSize() (int, bool) {
	if c.crate != nil && c.crate.maxComboSize != nil {
		return *c.crate.maxComboSize, true
	}
	if c.workspace != nil && c.workspace.maxComboSize != nil {
		return *c.workspace.maxComboSize, true
	}
	return 0, false
}

// SkipOptionalDeps returns whether optional-dependency features are skipped,
// falling back from the crate to the global default. Defaults to false.
func (c Config) SkipOptionalDeps() bool {
	if c.crate != nil && c.crate.skipOptionalDeps != nil {
		return *c.crate.skipOptionalDeps
	}
	if c.workspace != nil && c.workspace.skipOptionalDeps != nil {
		return *c.workspace.skipOptionalDeps
	}
	return false
}

// Rules returns the crate's rules. Rules are never inherited from the global
// defaults; unknown crates get none.
func (c Config) Rules() []RuleSchema {
	if c.crate == nil {
		return nil
	}
	return c.crate.rules
}
