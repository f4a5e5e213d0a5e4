// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage provides thread persistence and the results library for
// the studio application.
//
// # Key Types
//
//   - ThreadStore: owns all threads; every mutation updates the in-memory
//     and durable copy together
//   - Library: SQLite-backed store for tool results and code artifacts
//   - ThreadWatcher: fsnotify observer for external thread-file changes
//
// # Usage
//
// Open the store and append to the active thread:
//
//	store, err := storage.NewThreadStore()
//	err = store.Load()
//	err = store.Append(store.ActiveID(), msg)
//
// # Storage Location
//
// Threads are one JSON file each under ~/.studio/threads/, with the
// active thread id in a sidecar file. Tool results and code artifacts
// live in ~/.studio/library.db.
package storage
