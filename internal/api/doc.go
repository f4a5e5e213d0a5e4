// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api provides the HTTP client for the studio backend.
//
// The backend exposes three surfaces the client wraps:
//
//   - POST /chat: text generation over the full message history
//   - POST /tools/{slug}: tool-specific analysis endpoints
//   - GET /models: available model identifiers
//
// All failures are translated into the ClientError taxonomy so callers can
// render category-appropriate guidance in the conversation. Requests are
// rate limited client-side.
package api
