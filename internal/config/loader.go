// SPDX-License-Identifier: AGPL-3.0-or-later

/*

Flag Frenzy - Flag Frenzy is a Go-based CLI that exhaustively type-checks combinations of Cargo feature flags for every package in a workspace.

Copyright (C) 2025  Bartek Kus

This program is free software licensed under the terms of the GNU AGPL v3 or later.

See https://www.gnu.org/licenses/ for license details.

*/

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// tomlExt is the only extension the loader considers.
const tomlExt = ".toml"

// globalName is the base name of the defaults-only configuration file.
const globalName = "global"

// LoadConfig loads all crate configuration within a folder.
//
// Only regular files with a .toml extension are loaded; symlinks,
// directories, and other extensions are skipped. Each file configures the
// crate named by its base name. global.toml is special-cased: it cannot
// contain rules, and its remaining values become the defaults for every
// other crate.
func LoadConfig(folder string) (*WorkspaceConfig, error) {
	entries, err := os.ReadDir(folder)
	if err != nil {
		return nil, fmt.Errorf("reading config folder: %w", err)
	}

	var global CrateSchema
	crates := map[string]CrateConfig{}

	for _, entry := range entries {
		name := entry.Name()

		// Only plain TOML files configure crates. Symlinks are skipped; if
		// the need arises, following them can be implemented.
		if !entry.Type().IsRegular() || !strings.HasSuffix(name, tomlExt) {
			continue
		}

		path := filepath.Join(folder, name)
		name = strings.TrimSuffix(name, tomlExt)

		if name == "" {
			return nil, fmt.Errorf("%w: config file %q cannot be named %q because the name determines the affected package", ErrInvalidConfig, path, tomlExt)
		}

		schema, err := loadFile(path)
		if err != nil {
			return nil, err
		}

		if name == globalName {
			if len(schema.Rules) > 0 {
				return nil, fmt.Errorf("%w: %q cannot define rules, as they would not be inherited", ErrInvalidConfig, path)
			}

			global = schema
			continue
		}

		crates[name] = CrateConfigFromSchema(schema)
	}

	return NewWorkspaceConfig(crates, global), nil
}

// loadFile decodes one configuration file, rejecting unknown keys.
func loadFile(path string) (CrateSchema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return CrateSchema{}, fmt.Errorf("reading %q: %w", path, err)
	}

	var schema CrateSchema
	md, err := toml.Decode(string(data), &schema)
	if err != nil {
		return CrateSchema{}, fmt.Errorf("%w: parsing %q: %v", ErrInvalidConfig, path, err)
	}

	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, key := range undecoded {
			keys[i] = key.String()
		}
		return CrateSchema{}, fmt.Errorf("%w: %q contains unknown keys: %s", ErrInvalidConfig, path, strings.Join(keys, ", "))
	}

	for i := range schema.Rules {
		if err := schema.Rules[i].Validate(); err != nil {
			return CrateSchema{}, fmt.Errorf("rule %d of %q: %w", i, path, err)
		}
	}

	return schema, nil
}
