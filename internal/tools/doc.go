// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package tools implements the tool catalog, intent detection, parameter
// collection, and execution against the studio backend.
//
// # Flow
//
// An utterance runs through the Detector's ordered trigger patterns; the
// first match wins. A match missing required parameters becomes a
// PendingRequest and a form collects the rest. Complete invocations go to
// the Executor, which calls the tool's backend endpoint and builds the
// durable ToolResult with a synthesized summary.
//
// Detection is pure: no match is a valid outcome that routes the message
// to ordinary conversation instead.
package tools
