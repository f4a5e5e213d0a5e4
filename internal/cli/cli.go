// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// cli.go - CLI parsing and command dispatch for studio.
package cli

import (
	"fmt"
	"os"
	"runtime"
	"strings"
)

// Version information (can be overridden at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command represents the CLI command to execute.
type Command int

const (
	CmdTUI Command = iota
	CmdAsk
	CmdChat
	CmdStatus
	CmdConfig
	CmdModels
	CmdResults
	CmdExport
	CmdVersion
	CmdHelp
)

// Args holds parsed CLI arguments.
type Args struct {
	// Global flags
	Quiet   bool
	Verbose bool
	Model   string
	JSON    bool

	// Command-specific
	Query      string
	ConfigKey  string
	ConfigVal  string
	Subcommand string

	// Raw args remaining after flag parsing
	Raw []string
}

const usageText = `studio - terminal client for the Brightfold marketing toolkit

Studio is a conversational client for the Brightfold backend. It detects
tool-style requests (website scans, personas, brand foundations, ICPs) in
plain language, collects any missing parameters, and keeps every thread
on disk.

Usage:
  studio                     Start the TUI (default)
  studio ask "question"      Ask a single question and print the reply
  studio chat                Interactive REPL without the full TUI
  studio status, s           Show backend and storage status
  studio config [show|set]   Configuration
  studio models              List backend models
  studio results             List saved tool results
  studio export <thread-id>  Export a thread (--format md|json)
  studio version             Show version information
  studio help                Show this help

Flags:
  -m, --model NAME    Use a specific model (overrides config)
  --json              Machine-readable output where supported
  -q, --quiet         Minimal output
  -v, --verbose       Verbose output

Examples:
  studio ask "what makes a strong value proposition?"
  studio ask --model studio-chat-large "rewrite this tagline: ..."
  studio chat
  studio config set backend.base_url http://127.0.0.1:8780
  studio export 1a2b3c --format json
`

// Parse reads os.Args and returns the command to run with its arguments.
func Parse() (Command, Args) {
	return parseArgs(os.Args[1:])
}

// parseArgs is the testable core of Parse.
func parseArgs(argv []string) (Command, Args) {
	remaining, args := parseGlobalFlags(argv)

	if len(remaining) == 0 {
		return CmdTUI, args
	}

	cmd := strings.ToLower(remaining[0])
	remaining = remaining[1:]
	args.Raw = remaining

	switch cmd {
	case "tui":
		return CmdTUI, args

	case "ask":
		args.Query = strings.Join(remaining, " ")
		return CmdAsk, args

	case "chat":
		return CmdChat, args

	case "status", "s":
		return CmdStatus, args

	case "config":
		if len(remaining) > 0 {
			args.Subcommand = remaining[0]
		}
		if len(remaining) > 1 {
			args.ConfigKey = remaining[1]
		}
		if len(remaining) > 2 {
			args.ConfigVal = strings.Join(remaining[2:], " ")
		}
		return CmdConfig, args

	case "models":
		return CmdModels, args

	case "results":
		if len(remaining) > 0 {
			args.Subcommand = remaining[0]
		}
		return CmdResults, args

	case "export":
		if len(remaining) > 0 {
			args.Subcommand = remaining[0]
		}
		return CmdExport, args

	case "version", "--version", "-V":
		return CmdVersion, args

	case "help", "--help", "-h":
		return CmdHelp, args
	}

	// Unknown word: treat the whole line as an ask query, which keeps
	// `studio how do I ...` working.
	args.Query = strings.TrimSpace(cmd + " " + strings.Join(remaining, " "))
	return CmdAsk, args
}

// parseGlobalFlags strips the flags every command accepts.
func parseGlobalFlags(argv []string) ([]string, Args) {
	var args Args
	var remaining []string

	for i := 0; i < len(argv); i++ {
		switch argv[i] {
		case "-q", "--quiet":
			args.Quiet = true
		case "-v", "--verbose":
			args.Verbose = true
		case "--json":
			args.JSON = true
		case "-m", "--model":
			if i+1 < len(argv) {
				i++
				args.Model = argv[i]
			}
		default:
			if v, ok := strings.CutPrefix(argv[i], "--model="); ok {
				args.Model = v
				continue
			}
			remaining = append(remaining, argv[i])
		}
	}
	return remaining, args
}

// PrintHelp writes the usage text to stdout.
func PrintHelp() {
	fmt.Print(usageText)
}

// PrintVersion writes version information to stdout.
func PrintVersion() {
	fmt.Printf("studio %s\n", Version)
	fmt.Printf("  commit:  %s\n", GitCommit)
	fmt.Printf("  built:   %s\n", BuildDate)
	fmt.Printf("  runtime: %s %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
}
