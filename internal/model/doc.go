// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for threads, messages, tool
// results, and code artifacts.
//
// # Key Types
//
//   - Thread: one conversation with an ordered, append-only message history
//   - Message: single turn with role, content, and optional reasoning segment
//   - ToolResult: durable record of a successful tool invocation
//   - CodeArtifact: a code snippet explicitly saved by the user
//   - Role: message role enumeration (user, assistant)
//
// # Usage
//
// Create a thread and append a turn:
//
//	thr := model.NewThread()
//	thr.Append(model.NewUserMessage("Scan https://example.com"))
package model
