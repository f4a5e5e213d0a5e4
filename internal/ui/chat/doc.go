// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat implements the conversation view: the Bubble Tea model that
// ties input, detection, parameter collection, tool execution, and the
// conversational responder together.
//
// The view is a small state machine. StateIdle accepts input; a submitted
// utterance either matches a tool (moving through StateCollectingParams
// and StateExecuting) or falls through to the backend responder
// (StateResponding). Exactly one action is in flight at a time; sends
// while busy are rejected with a status line, never queued.
//
// All failures surface as ordinary assistant messages in the thread, so
// the conversation keeps its continuity and the view never stays stuck in
// a loading state.
package chat
