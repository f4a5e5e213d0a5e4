// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli implements the command-line surface of studio: argument
// parsing, the one-shot ask command, a line-oriented REPL, and the
// status, config, models, results, and export handlers.
//
// The TUI is the default when no command is given; everything here is
// for scripted or quick interactive use. Handlers take the loaded
// configuration and parsed Args and return a process exit code.
package cli
