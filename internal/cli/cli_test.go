// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"testing"
)

func TestParseArgs_DefaultIsTUI(t *testing.T) {
	cmd, _ := parseArgs(nil)
	if cmd != CmdTUI {
		t.Fatalf("no args should launch the TUI, got %v", cmd)
	}
}

func TestParseArgs_Ask(t *testing.T) {
	cmd, args := parseArgs([]string{"ask", "what", "is", "an", "ICP?"})
	if cmd != CmdAsk {
		t.Fatalf("cmd = %v, want CmdAsk", cmd)
	}
	if args.Query != "what is an ICP?" {
		t.Fatalf("query = %q", args.Query)
	}
}

func TestParseArgs_GlobalFlagsAnywhere(t *testing.T) {
	cmd, args := parseArgs([]string{"ask", "--model", "studio-chat-large", "--json", "hello"})
	if cmd != CmdAsk {
		t.Fatalf("cmd = %v, want CmdAsk", cmd)
	}
	if args.Model != "studio-chat-large" {
		t.Fatalf("model = %q", args.Model)
	}
	if !args.JSON {
		t.Fatal("expected JSON flag")
	}
	if args.Query != "hello" {
		t.Fatalf("query = %q", args.Query)
	}
}

func TestParseArgs_ModelEquals(t *testing.T) {
	_, args := parseArgs([]string{"--model=studio-chat-small", "chat"})
	if args.Model != "studio-chat-small" {
		t.Fatalf("model = %q", args.Model)
	}
}

func TestParseArgs_ConfigSet(t *testing.T) {
	cmd, args := parseArgs([]string{"config", "set", "backend.base_url", "http://localhost:9000"})
	if cmd != CmdConfig {
		t.Fatalf("cmd = %v, want CmdConfig", cmd)
	}
	if args.Subcommand != "set" || args.ConfigKey != "backend.base_url" {
		t.Fatalf("subcommand/key = %q/%q", args.Subcommand, args.ConfigKey)
	}
	if args.ConfigVal != "http://localhost:9000" {
		t.Fatalf("value = %q", args.ConfigVal)
	}
}

func TestParseArgs_Export(t *testing.T) {
	cmd, args := parseArgs([]string{"export", "1a2b3c", "--format", "json"})
	if cmd != CmdExport {
		t.Fatalf("cmd = %v, want CmdExport", cmd)
	}
	if args.Subcommand != "1a2b3c" {
		t.Fatalf("subcommand = %q", args.Subcommand)
	}
}

func TestParseArgs_BareQuestionFallsBackToAsk(t *testing.T) {
	cmd, args := parseArgs([]string{"how", "do", "I", "position", "this?"})
	if cmd != CmdAsk {
		t.Fatalf("cmd = %v, want CmdAsk fallback", cmd)
	}
	if args.Query != "how do I position this?" {
		t.Fatalf("query = %q", args.Query)
	}
}

func TestParseArgs_StatusAlias(t *testing.T) {
	if cmd, _ := parseArgs([]string{"s"}); cmd != CmdStatus {
		t.Fatalf("cmd = %v, want CmdStatus", cmd)
	}
}
