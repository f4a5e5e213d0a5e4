// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// config_cmd.go - Configuration command handler for the studio CLI.
//
// Handles "studio config":
//   studio config                 Show the active configuration
//   studio config show            Same
//   studio config path            Print the config file path
//   studio config set KEY VALUE   Set one key and save
//
// Settable keys:
//   default_model, backend.base_url, backend.api_key,
//   storage.thread_dir, storage.library_path, ui.theme, ui.syntax_theme
package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/brightfold/studio-tui/internal/config"
)

// HandleConfig runs the config subcommands.
func HandleConfig(cfg *config.Config, args Args) int {
	switch args.Subcommand {
	case "", "show":
		// String() redacts the API key.
		fmt.Println(cfg.String())
		return 0

	case "path":
		dir, err := config.ConfigDir()
		if err != nil {
			return fail(err)
		}
		fmt.Println(filepath.Join(dir, "config.toml"))
		return 0

	case "set":
		return configSet(cfg, args.ConfigKey, args.ConfigVal)

	default:
		fmt.Fprintln(os.Stderr, "Usage: studio config [show|path|set KEY VALUE]")
		return 1
	}
}

// configSet updates one key, validates, and saves the result.
func configSet(cfg *config.Config, key, value string) int {
	if key == "" || value == "" {
		fmt.Fprintln(os.Stderr, "Usage: studio config set KEY VALUE")
		return 1
	}

	switch key {
	case "default_model", "model":
		cfg.DefaultModel = value
	case "backend.base_url":
		cfg.Backend.BaseURL = value
	case "backend.api_key":
		cfg.Backend.APIKey = value
	case "storage.thread_dir":
		cfg.Storage.ThreadDir = value
	case "storage.library_path":
		cfg.Storage.LibraryPath = value
	case "ui.theme":
		cfg.UI.Theme = value
	case "ui.syntax_theme":
		cfg.UI.SyntaxTheme = value
	default:
		fmt.Fprintf(os.Stderr, "Unknown config key: %s\n", key)
		return 1
	}

	if err := cfg.Validate(); err != nil {
		return fail(err)
	}
	if err := config.Save(cfg); err != nil {
		return fail(err)
	}
	fmt.Printf("Set %s = %s\n", key, value)
	return 0
}
