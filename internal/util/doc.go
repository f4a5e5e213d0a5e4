// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides small shared helpers for the studio application.
//
// String Utilities:
//   - TruncateRunes: UTF-8 safe truncation with ellipsis
//   - TruncateWidth: display-width aware truncation for terminal columns
//   - NormalizeUtterance: canonical form of user input for trigger matching
//
// File Operations:
//   - AtomicWriteFile: crash-safe file writing with fsync
package util
