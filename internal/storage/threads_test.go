// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/brightfold/studio-tui/internal/model"
)

func newTestStore(t *testing.T) *ThreadStore {
	t.Helper()
	store, err := NewThreadStoreWithDir(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	return store
}

// =============================================================================
// ROUND TRIP
// =============================================================================

func TestThreadStore_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	store, err := NewThreadStoreWithDir(dir)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}

	thr, err := store.CreateThread()
	if err != nil {
		t.Fatalf("CreateThread failed: %v", err)
	}

	const n = 5
	for i := 0; i < n; i++ {
		var msg *model.Message
		if i%2 == 0 {
			msg = model.NewUserMessage(fmt.Sprintf("user message %d", i))
		} else {
			msg = model.NewAssistantMessage(fmt.Sprintf("assistant reply %d", i), "studio-chat-small")
			msg.Reasoning = "thought about it"
		}
		if err := store.Append(thr.ID, msg); err != nil {
			t.Fatalf("Append %d failed: %v", i, err)
		}
	}

	// Reload through a fresh store, as a process restart would.
	reloaded, err := NewThreadStoreWithDir(dir)
	if err != nil {
		t.Fatalf("Failed to reopen store: %v", err)
	}
	if err := reloaded.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	got, ok := reloaded.Get(thr.ID)
	if !ok {
		t.Fatal("Thread missing after reload")
	}
	if got.MessageCount() != n {
		t.Fatalf("Expected %d messages, got %d", n, got.MessageCount())
	}
	for i, msg := range got.Messages {
		orig := thr.Messages[i]
		if msg.ID != orig.ID || msg.Role != orig.Role || msg.Content != orig.Content {
			t.Errorf("Message %d changed: got %+v, want %+v", i, msg, orig)
		}
		if msg.ModelID != orig.ModelID || msg.Reasoning != orig.Reasoning {
			t.Errorf("Message %d lost optional fields: %+v", i, msg)
		}
		if msg.Timestamp.IsZero() {
			t.Errorf("Message %d lost timestamp", i)
		}
	}
}

// =============================================================================
// ACTIVE THREAD
// =============================================================================

func TestThreadStore_NewThreadBecomesActiveAndSurvivesReload(t *testing.T) {
	dir := t.TempDir()
	store, _ := NewThreadStoreWithDir(dir)

	first, _ := store.CreateThread()
	store.Append(first.ID, model.NewUserMessage("older thread"))

	second, err := store.CreateThread()
	if err != nil {
		t.Fatalf("CreateThread failed: %v", err)
	}
	if store.ActiveID() != second.ID {
		t.Errorf("New thread should be active, got %s", store.ActiveID())
	}
	if second.MessageCount() != 0 {
		t.Errorf("New thread should be empty, got %d messages", second.MessageCount())
	}

	reloaded, _ := NewThreadStoreWithDir(dir)
	if err := reloaded.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if reloaded.ActiveID() != second.ID {
		t.Errorf("Active thread id not restored: got %s, want %s", reloaded.ActiveID(), second.ID)
	}
}

func TestThreadStore_DeleteActivePromotesNewest(t *testing.T) {
	store := newTestStore(t)

	first, _ := store.CreateThread()
	store.Append(first.ID, model.NewUserMessage("keep me"))
	second, _ := store.CreateThread()

	if err := store.DeleteThread(second.ID); err != nil {
		t.Fatalf("DeleteThread failed: %v", err)
	}
	if store.ActiveID() != first.ID {
		t.Errorf("Expected surviving thread active, got %s", store.ActiveID())
	}
	if _, ok := store.Get(second.ID); ok {
		t.Error("Deleted thread still present")
	}
}

func TestThreadStore_StaleActiveSidecar_FallsBack(t *testing.T) {
	dir := t.TempDir()
	store, _ := NewThreadStoreWithDir(dir)
	thr, _ := store.CreateThread()

	os.WriteFile(filepath.Join(dir, activeFileName), []byte("thr_gone"), 0644)

	reloaded, _ := NewThreadStoreWithDir(dir)
	reloaded.Load()
	if reloaded.ActiveID() != thr.ID {
		t.Errorf("Expected fallback to newest thread, got %q", reloaded.ActiveID())
	}
}

// =============================================================================
// ERROR PATHS
// =============================================================================

func TestThreadStore_AppendUnknownThread(t *testing.T) {
	store := newTestStore(t)
	err := store.Append("thr_missing", model.NewUserMessage("x"))
	if !errors.Is(err, ErrThreadNotFound) {
		t.Errorf("Expected ErrThreadNotFound, got %v", err)
	}
}

func TestThreadStore_DeleteUnknownThread(t *testing.T) {
	store := newTestStore(t)
	if err := store.DeleteThread("thr_missing"); !errors.Is(err, ErrThreadNotFound) {
		t.Errorf("Expected ErrThreadNotFound, got %v", err)
	}
}

func TestThreadStore_Load_SkipsCorrupted(t *testing.T) {
	dir := t.TempDir()
	store, _ := NewThreadStoreWithDir(dir)
	thr, _ := store.CreateThread()
	store.Append(thr.ID, model.NewUserMessage("good thread"))

	os.WriteFile(filepath.Join(dir, "thr_bad.json"), []byte("{not json"), 0644)

	reloaded, _ := NewThreadStoreWithDir(dir)
	if err := reloaded.Load(); err != nil {
		t.Fatalf("Load should skip corrupted files: %v", err)
	}
	if len(reloaded.List()) != 1 {
		t.Errorf("Expected 1 thread, got %d", len(reloaded.List()))
	}
}

func TestThreadStore_Load_AttachesMissingMessageIDs(t *testing.T) {
	dir := t.TempDir()
	raw := `{
		"id": "thr_abc",
		"name": "Imported",
		"messages": [{"role": "user", "content": "no id here", "timestamp": "2025-01-01T00:00:00Z"}],
		"created_at": "2025-01-01T00:00:00Z",
		"last_updated": "2025-01-01T00:00:00Z"
	}`
	os.WriteFile(filepath.Join(dir, "thr_abc.json"), []byte(raw), 0644)

	store, _ := NewThreadStoreWithDir(dir)
	store.Load()
	thr, ok := store.Get("thr_abc")
	if !ok {
		t.Fatal("Imported thread missing")
	}
	if thr.Messages[0].ID == "" {
		t.Error("Expected generated ID on load")
	}
}

// =============================================================================
// LISTING AND SEARCH
// =============================================================================

func TestThreadStore_List_MostRecentFirst(t *testing.T) {
	store := newTestStore(t)

	first, _ := store.CreateThread()
	second, _ := store.CreateThread()
	store.Append(first.ID, model.NewUserMessage("bump"))

	metas := store.List()
	if len(metas) != 2 {
		t.Fatalf("Expected 2 threads, got %d", len(metas))
	}
	if metas[0].ID != first.ID || metas[1].ID != second.ID {
		t.Errorf("Unexpected order: %s then %s", metas[0].ID, metas[1].ID)
	}
}

func TestThreadStore_Search(t *testing.T) {
	store := newTestStore(t)

	a, _ := store.CreateThread()
	store.Append(a.ID, model.NewUserMessage("plan the newsletter campaign"))
	b, _ := store.CreateThread()
	store.Append(b.ID, model.NewUserMessage("website copy review"))

	results := store.Search("newsletter")
	if len(results) != 1 || results[0].ID != a.ID {
		t.Errorf("Unexpected search results: %v", results)
	}

	if got := store.Search(""); len(got) != 2 {
		t.Errorf("Empty query should return all, got %d", len(got))
	}
}

func TestThreadStore_Rename(t *testing.T) {
	store := newTestStore(t)
	thr, _ := store.CreateThread()

	if err := store.Rename(thr.ID, "Q3 campaign"); err != nil {
		t.Fatalf("Rename failed: %v", err)
	}
	got, _ := store.Get(thr.ID)
	if got.Name != "Q3 campaign" {
		t.Errorf("Unexpected name: %q", got.Name)
	}
}

func TestThreadStore_ExportMarkdown(t *testing.T) {
	store := newTestStore(t)
	thr, _ := store.CreateThread()
	store.Append(thr.ID, model.NewUserMessage("hello"))
	store.Append(thr.ID, model.NewAssistantMessage("hi back", "m1"))

	md, err := store.ExportMarkdown(thr.ID)
	if err != nil {
		t.Fatalf("ExportMarkdown failed: %v", err)
	}
	for _, want := range []string{"**You**", "**Studio**", "hello", "hi back"} {
		if !strings.Contains(md, want) {
			t.Errorf("Export missing %q", want)
		}
	}
}
