// studio - terminal client for the Brightfold marketing toolkit.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/brightfold/studio-tui/internal/api"
	"github.com/brightfold/studio-tui/internal/cli"
	"github.com/brightfold/studio-tui/internal/config"
	"github.com/brightfold/studio-tui/internal/storage"
	"github.com/brightfold/studio-tui/internal/tools"
	"github.com/brightfold/studio-tui/internal/ui/chat"
)

// Version information (set at build time)
var (
	Version   = "0.2.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// watchDebounce coalesces bursts of thread-file events from other
// instances into one reload.
const watchDebounce = 300 * time.Millisecond

func init() {
	cli.Version = Version
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate
}

func main() {
	cmd, args := cli.Parse()

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(1)
	}

	switch cmd {
	case cli.CmdTUI:
		os.Exit(runTUI(cfg, args))
	case cli.CmdAsk:
		os.Exit(cli.HandleAsk(cfg, args))
	case cli.CmdChat:
		os.Exit(cli.HandleChat(cfg, args))
	case cli.CmdStatus:
		os.Exit(cli.HandleStatus(cfg, args))
	case cli.CmdConfig:
		os.Exit(cli.HandleConfig(cfg, args))
	case cli.CmdModels:
		os.Exit(cli.HandleModels(cfg, args))
	case cli.CmdResults:
		os.Exit(cli.HandleResults(cfg, args))
	case cli.CmdExport:
		os.Exit(cli.HandleExport(cfg, args))
	case cli.CmdVersion:
		cli.PrintVersion()
	case cli.CmdHelp:
		cli.PrintHelp()
	default:
		cli.PrintHelp()
		os.Exit(1)
	}
}

// =============================================================================
// CONFIGURATION
// =============================================================================

// loadConfig loads the configuration and unseals an encrypted API key
// when a passphrase is available.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	if config.IsEncrypted(cfg.Backend.APIKey) {
		passphrase := os.Getenv("STUDIO_PASSPHRASE")
		if passphrase == "" {
			return nil, fmt.Errorf("the stored API key is encrypted; set STUDIO_PASSPHRASE to unlock it")
		}
		dir, err := config.ConfigDir()
		if err != nil {
			return nil, err
		}
		box, err := config.OpenSecretBox(passphrase, dir)
		if err != nil {
			return nil, err
		}
		if err := cfg.UnsealAPIKey(box); err != nil {
			return nil, fmt.Errorf("failed to decrypt the API key: %w", err)
		}
	}
	return cfg, nil
}

// =============================================================================
// TUI
// =============================================================================

// appModel is the tea.Model root wrapping the conversation view.
type appModel struct {
	chat chat.Model
}

func (a appModel) Init() tea.Cmd {
	return a.chat.Init()
}

func (a appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	m, cmd := a.chat.Update(msg)
	a.chat = m
	return a, cmd
}

func (a appModel) View() string {
	return a.chat.View()
}

func runTUI(cfg *config.Config, args cli.Args) int {
	if args.Model != "" {
		cfg.DefaultModel = args.Model
	}

	store, err := openStore(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open thread storage: %v\n", err)
		return 1
	}
	if cfg.Storage.MaxThreads > 0 {
		store.MaxThreads = cfg.Storage.MaxThreads
	}

	library, err := openLibrary(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open the results library: %v\n", err)
		return 1
	}
	defer library.Close()

	client := api.NewClientWithConfig(&api.ClientConfig{
		BaseURL:           cfg.Backend.BaseURL,
		APIKey:            cfg.Backend.APIKey,
		DefaultModel:      cfg.DefaultModel,
		ChatTimeout:       cfg.ChatTimeout(),
		ToolTimeout:       cfg.ToolTimeout(),
		RequestsPerSecond: cfg.Backend.RequestsPerSecond,
	})

	view := chat.NewModel(chat.Deps{
		Config:  cfg,
		Client:  client,
		Catalog: tools.NewCatalog(),
		Store:   store,
		Library: library,
	})

	p := tea.NewProgram(
		appModel{chat: view},
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	// Mirror thread changes made by other instances into the running UI.
	if cfg.Storage.WatchThreads {
		watcher, err := storage.NewThreadWatcher(store, watchDebounce, func([]string) {
			p.Send(chat.ThreadsChangedMsg{})
		})
		if err == nil {
			if werr := watcher.Watch(); werr == nil {
				defer watcher.Close()
			}
		}
	}

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running studio: %v\n", err)
		return 1
	}
	return 0
}

// openStore opens the configured thread store and loads it.
func openStore(cfg *config.Config) (*storage.ThreadStore, error) {
	if cfg.Storage.ThreadDir != "" {
		return storage.NewThreadStoreWithDir(cfg.Storage.ThreadDir)
	}
	return storage.NewThreadStore()
}

// openLibrary opens the configured results library.
func openLibrary(cfg *config.Config) (*storage.Library, error) {
	if cfg.Storage.LibraryPath != "" {
		return storage.OpenLibrary(cfg.Storage.LibraryPath)
	}
	path, err := storage.DefaultLibraryPath()
	if err != nil {
		return nil, err
	}
	return storage.OpenLibrary(path)
}
