// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// library_cmd.go - Library and export command handlers for the studio CLI.
//
// Handles:
//   studio models                    List backend models
//   studio results [delete <id>]     List or delete saved tool results
//   studio export <thread-id>        Export a thread (--format md|json)
package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/brightfold/studio-tui/internal/api"
	"github.com/brightfold/studio-tui/internal/config"
	"github.com/brightfold/studio-tui/internal/util"
)

// HandleModels lists the backend's model inventory.
func HandleModels(cfg *config.Config, args Args) int {
	client := newClient(cfg, args.Model)
	ctx, cancel := context.WithTimeout(context.Background(), statusProbeTimeout)
	defer cancel()

	models, err := client.ListModels(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, api.UserMessage(err))
		return 1
	}
	if args.JSON {
		return printJSON(models)
	}
	for _, id := range models {
		marker := "  "
		if id == cfg.DefaultModel {
			marker = "* "
		}
		fmt.Println(marker + id)
	}
	return 0
}

// HandleResults lists or deletes saved tool results.
func HandleResults(cfg *config.Config, args Args) int {
	library, err := openLibrary(cfg)
	if err != nil {
		return fail(err)
	}
	defer library.Close()

	if args.Subcommand == "delete" {
		if len(args.Raw) < 2 {
			fmt.Fprintln(os.Stderr, "Usage: studio results delete <id>")
			return 1
		}
		id := args.Raw[1]
		if err := library.DeleteResult(id); err != nil {
			return fail(err)
		}
		fmt.Println("Deleted result " + id)
		return 0
	}

	results, err := library.ListResults()
	if err != nil {
		return fail(err)
	}
	if args.JSON {
		return printJSON(results)
	}
	if len(results) == 0 {
		fmt.Println("The results library is empty.")
		return 0
	}
	for _, res := range results {
		fmt.Printf("%s  %-22s %s\n", res.CreatedAt.Format("2006-01-02 15:04"), res.ToolName, res.ID)
		if res.Summary != "" {
			fmt.Println("    " + res.Summary)
		}
	}
	return 0
}

// HandleExport writes one thread to a file in markdown or JSON.
func HandleExport(cfg *config.Config, args Args) int {
	if args.Subcommand == "" {
		fmt.Fprintln(os.Stderr, "Usage: studio export <thread-id> [--format md|json]")
		return 1
	}

	store, err := openStore(cfg)
	if err != nil {
		return fail(err)
	}

	format := "md"
	for i, raw := range args.Raw {
		if raw == "--format" && i+1 < len(args.Raw) {
			format = strings.ToLower(args.Raw[i+1])
		}
		if v, ok := strings.CutPrefix(raw, "--format="); ok {
			format = strings.ToLower(v)
		}
	}

	id := args.Subcommand
	var data []byte
	switch format {
	case "json":
		data, err = store.ExportJSON(id)
	case "md", "markdown":
		format = "md"
		var md string
		md, err = store.ExportMarkdown(id)
		data = []byte(md)
	default:
		fmt.Fprintf(os.Stderr, "Unknown export format: %s\n", format)
		return 1
	}
	if err != nil {
		return fail(err)
	}

	path := "thread-" + id + "." + format
	if err := util.AtomicWriteFile(path, data, 0o644); err != nil {
		return fail(err)
	}
	fmt.Println("Exported to " + path)
	return 0
}
