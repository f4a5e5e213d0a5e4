// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// status.go - System status command handler for the studio CLI.
//
// Handles "studio status", which reports backend reachability, the
// configured model, and local storage counts.
package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/brightfold/studio-tui/internal/config"
	"github.com/brightfold/studio-tui/internal/storage"
	"github.com/brightfold/studio-tui/internal/ui/styles"
)

// statusProbeTimeout bounds the backend reachability check.
const statusProbeTimeout = 5 * time.Second

// HandleStatus prints backend and storage status.
func HandleStatus(cfg *config.Config, args Args) int {
	ok := true

	fmt.Println("studio status")
	fmt.Println()

	// Backend reachability via the model inventory endpoint.
	client := newClient(cfg, args.Model)
	ctx, cancel := context.WithTimeout(context.Background(), statusProbeTimeout)
	models, err := client.ListModels(ctx)
	cancel()
	if err != nil {
		fmt.Printf("  %s backend %s unreachable\n", styles.StatusIndicators.Error, cfg.Backend.BaseURL)
		ok = false
	} else {
		fmt.Printf("  %s backend %s (%d models)\n", styles.StatusIndicators.Success, cfg.Backend.BaseURL, len(models))
	}
	fmt.Printf("  %s model %s\n", styles.StatusIndicators.Info, cfg.DefaultModel)

	// Thread storage.
	store, err := openStore(cfg)
	if err != nil {
		fmt.Printf("  %s threads: %v\n", styles.StatusIndicators.Error, err)
		ok = false
	} else {
		fmt.Printf("  %s threads: %d in %s\n", styles.StatusIndicators.Success, len(store.List()), store.BaseDir())
	}

	// Results library.
	library, err := openLibrary(cfg)
	if err != nil {
		fmt.Printf("  %s library: %v\n", styles.StatusIndicators.Error, err)
		ok = false
	} else {
		defer library.Close()
		results, rerr := library.ListResults()
		artifacts, aerr := library.ListArtifacts()
		if rerr != nil || aerr != nil {
			fmt.Printf("  %s library: unreadable\n", styles.StatusIndicators.Error)
			ok = false
		} else {
			fmt.Printf("  %s library: %d results, %d artifacts\n", styles.StatusIndicators.Success, len(results), len(artifacts))
		}
	}

	if !ok {
		return 1
	}
	return 0
}

// =============================================================================
// STORAGE OPENERS
// =============================================================================

// openStore opens the thread store at the configured or default path.
func openStore(cfg *config.Config) (*storage.ThreadStore, error) {
	if cfg.Storage.ThreadDir != "" {
		return storage.NewThreadStoreWithDir(cfg.Storage.ThreadDir)
	}
	return storage.NewThreadStore()
}

// openLibrary opens the results library at the configured or default path.
func openLibrary(cfg *config.Config) (*storage.Library, error) {
	path := cfg.Storage.LibraryPath
	if path == "" {
		var err error
		path, err = storage.DefaultLibraryPath()
		if err != nil {
			return nil, err
		}
	}
	return storage.OpenLibrary(path)
}

// fail prints an error line to stderr and returns 1, for handlers with a
// single failure path.
func fail(err error) int {
	fmt.Fprintln(os.Stderr, "Error:", err)
	return 1
}
