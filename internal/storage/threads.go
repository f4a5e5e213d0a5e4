// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage provides thread persistence and the results library for
// the studio application.
package storage

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/brightfold/studio-tui/internal/model"
	"github.com/brightfold/studio-tui/internal/util"
)

// =============================================================================
// ERRORS
// =============================================================================

// ErrThreadNotFound is returned when a thread doesn't exist.
// Use errors.Is(err, ErrThreadNotFound) to check for this error.
var ErrThreadNotFound = &StoreError{Message: "thread not found"}

// StoreError represents a thread-store error.
// It implements the error interface and can be compared using errors.Is.
type StoreError struct {
	Message string
}

// Error implements the error interface.
func (e *StoreError) Error() string {
	return e.Message
}

// Is implements errors.Is support for comparing store errors.
func (e *StoreError) Is(target error) bool {
	t, ok := target.(*StoreError)
	if !ok {
		return false
	}
	return e.Message == t.Message
}

// =============================================================================
// THREAD METADATA
// =============================================================================

// ThreadMeta contains metadata for listing threads without loading bodies.
type ThreadMeta struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	CreatedAt    time.Time `json:"created_at"`
	LastUpdated  time.Time `json:"last_updated"`
	MessageCount int       `json:"message_count"`
	Preview      string    `json:"preview"`
}

// =============================================================================
// THREAD STORE
// =============================================================================

// activeFileName is the sidecar recording the selected thread across runs.
const activeFileName = "active_thread.id"

// ThreadStore owns all threads. Every mutation updates the in-memory copy
// and the durable copy together, so the two never diverge: threads live as
// one JSON file each under the base directory, plus a sidecar holding the
// active thread id.
//
// Safe for concurrent use.
type ThreadStore struct {
	baseDir string

	mu       sync.Mutex
	threads  map[string]*model.Thread
	activeID string

	// MaxThreads limits stored threads (0 = unlimited).
	MaxThreads int
}

// NewThreadStore creates a store under ~/.studio/threads.
func NewThreadStore() (*ThreadStore, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	return NewThreadStoreWithDir(filepath.Join(homeDir, ".studio", "threads"))
}

// NewThreadStoreWithDir creates a store with a custom directory.
func NewThreadStoreWithDir(baseDir string) (*ThreadStore, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, err
	}
	return &ThreadStore{
		baseDir:    baseDir,
		threads:    make(map[string]*model.Thread),
		MaxThreads: 100,
	}, nil
}

// BaseDir returns the directory threads are stored under.
func (s *ThreadStore) BaseDir() string {
	return s.baseDir
}

// =============================================================================
// LOAD
// =============================================================================

// Load reads every thread file and the active-thread sidecar from disk,
// replacing the in-memory state. Corrupted files are skipped rather than
// failing the whole load. Messages stored without IDs get one attached.
func (s *ThreadStore) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	s.threads = make(map[string]*model.Thread)
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(s.baseDir, entry.Name()))
		if err != nil {
			continue
		}
		var thr model.Thread
		if err := json.Unmarshal(data, &thr); err != nil || thr.ID == "" {
			continue // Skip corrupted files
		}
		for _, msg := range thr.Messages {
			msg.EnsureID()
		}
		s.threads[thr.ID] = &thr
	}

	s.activeID = s.readActiveID()
	return nil
}

// readActiveID reads the sidecar, falling back to the most recent thread
// when the sidecar is missing or points at a deleted thread.
func (s *ThreadStore) readActiveID() string {
	data, err := os.ReadFile(filepath.Join(s.baseDir, activeFileName))
	if err == nil {
		id := strings.TrimSpace(string(data))
		if _, ok := s.threads[id]; ok {
			return id
		}
	}

	var newest string
	var newestTime time.Time
	for id, thr := range s.threads {
		if thr.LastUpdated.After(newestTime) {
			newest, newestTime = id, thr.LastUpdated
		}
	}
	return newest
}

// =============================================================================
// MUTATIONS
// =============================================================================

// CreateThread makes a new empty thread, sets it active, and persists both
// immediately so a reload restores the same active thread.
func (s *ThreadStore) CreateThread() (*model.Thread, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	thr := model.NewThread()
	s.threads[thr.ID] = thr
	if err := s.persist(thr); err != nil {
		delete(s.threads, thr.ID)
		return nil, err
	}
	if err := s.setActiveLocked(thr.ID); err != nil {
		return nil, err
	}

	if s.MaxThreads > 0 {
		s.enforceLimitLocked()
	}
	return thr, nil
}

// Append adds a message to a thread, mirroring the change to disk.
func (s *ThreadStore) Append(threadID string, msg *model.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	thr, ok := s.threads[threadID]
	if !ok {
		return ErrThreadNotFound
	}
	thr.Append(msg)
	return s.persist(thr)
}

// ReplaceMessages swaps a thread's full message history, used by editing
// flows. The replacement is persisted atomically.
func (s *ThreadStore) ReplaceMessages(threadID string, messages []*model.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	thr, ok := s.threads[threadID]
	if !ok {
		return ErrThreadNotFound
	}
	thr.Messages = messages
	thr.LastUpdated = time.Now()
	return s.persist(thr)
}

// Rename sets an explicit thread name.
func (s *ThreadStore) Rename(threadID, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	thr, ok := s.threads[threadID]
	if !ok {
		return ErrThreadNotFound
	}
	thr.Rename(name)
	return s.persist(thr)
}

// DeleteThread removes a thread from memory and disk. Deleting the active
// thread promotes the most recently updated survivor.
func (s *ThreadStore) DeleteThread(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.threads[id]; !ok {
		return ErrThreadNotFound
	}
	if err := os.Remove(s.filePath(id)); err != nil && !os.IsNotExist(err) {
		return err
	}
	delete(s.threads, id)

	if s.activeID == id {
		return s.setActiveLocked(s.newestIDLocked())
	}
	return nil
}

// SetActive selects a thread and persists the selection.
func (s *ThreadStore) SetActive(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.threads[id]; !ok {
		return ErrThreadNotFound
	}
	return s.setActiveLocked(id)
}

// setActiveLocked writes the sidecar. Caller holds s.mu.
func (s *ThreadStore) setActiveLocked(id string) error {
	s.activeID = id
	return util.AtomicWriteFile(filepath.Join(s.baseDir, activeFileName), []byte(id), 0644)
}

// =============================================================================
// QUERIES
// =============================================================================

// Get returns a thread by ID.
func (s *ThreadStore) Get(id string) (*model.Thread, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	thr, ok := s.threads[id]
	return thr, ok
}

// Active returns the selected thread, or nil when none exists.
func (s *ThreadStore) Active() *model.Thread {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.threads[s.activeID]
}

// ActiveID returns the selected thread's id.
func (s *ThreadStore) ActiveID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeID
}

// List returns metadata for all threads, most recently updated first.
func (s *ThreadStore) List() []ThreadMeta {
	s.mu.Lock()
	defer s.mu.Unlock()

	metas := make([]ThreadMeta, 0, len(s.threads))
	for _, thr := range s.threads {
		metas = append(metas, threadMeta(thr))
	}
	sort.Slice(metas, func(i, j int) bool {
		return metas[i].LastUpdated.After(metas[j].LastUpdated)
	})
	return metas
}

// Search finds threads whose name or message content contains the query,
// case-insensitive. Most recently updated first.
func (s *ThreadStore) Search(query string) []ThreadMeta {
	all := s.List()
	if query == "" {
		return all
	}

	query = strings.ToLower(query)
	var results []ThreadMeta
	for _, meta := range all {
		if strings.Contains(strings.ToLower(meta.Name), query) ||
			strings.Contains(strings.ToLower(meta.Preview), query) {
			results = append(results, meta)
			continue
		}
		if thr, ok := s.Get(meta.ID); ok && threadContains(thr, query) {
			results = append(results, meta)
		}
	}
	return results
}

func threadContains(thr *model.Thread, loweredQuery string) bool {
	for _, msg := range thr.Messages {
		if strings.Contains(strings.ToLower(msg.Content), loweredQuery) {
			return true
		}
	}
	return false
}

func threadMeta(thr *model.Thread) ThreadMeta {
	preview := ""
	for _, msg := range thr.Messages {
		if msg.Role == model.RoleUser && !msg.IsEmpty() {
			preview = util.TruncateRunes(msg.Content, 80)
			break
		}
	}
	return ThreadMeta{
		ID:           thr.ID,
		Name:         thr.Name,
		CreatedAt:    thr.CreatedAt,
		LastUpdated:  thr.LastUpdated,
		MessageCount: thr.MessageCount(),
		Preview:      preview,
	}
}

// =============================================================================
// EXPORT
// =============================================================================

// ExportMarkdown renders a thread as Markdown with role labels and
// timestamps.
func (s *ThreadStore) ExportMarkdown(id string) (string, error) {
	thr, ok := s.Get(id)
	if !ok {
		return "", ErrThreadNotFound
	}

	var sb strings.Builder
	sb.WriteString("# " + thr.Name + "\n\n")
	sb.WriteString("Created: " + thr.CreatedAt.Format(time.RFC3339) + "\n\n")
	sb.WriteString("---\n\n")

	for _, msg := range thr.Messages {
		sb.WriteString("**" + msg.Role.DisplayName() + "** (" + msg.Timestamp.Format("15:04") + "):\n\n")
		sb.WriteString(msg.Content)
		if msg.Reasoning != "" {
			sb.WriteString("\n\n<details><summary>Reasoning</summary>\n\n" + msg.Reasoning + "\n\n</details>")
		}
		sb.WriteString("\n\n---\n\n")
	}
	return sb.String(), nil
}

// ExportJSON renders a thread as pretty-printed JSON.
func (s *ThreadStore) ExportJSON(id string) ([]byte, error) {
	thr, ok := s.Get(id)
	if !ok {
		return nil, ErrThreadNotFound
	}
	return json.MarshalIndent(thr, "", "  ")
}

// =============================================================================
// HELPERS
// =============================================================================

// persist writes one thread file atomically. Caller holds s.mu.
func (s *ThreadStore) persist(thr *model.Thread) error {
	data, err := json.MarshalIndent(thr, "", "  ")
	if err != nil {
		return err
	}
	// RELIABILITY: Atomic write with fsync prevents data loss on crash
	return util.AtomicWriteFile(s.filePath(thr.ID), data, 0644)
}

func (s *ThreadStore) filePath(id string) string {
	return filepath.Join(s.baseDir, id+".json")
}

// newestIDLocked returns the most recently updated thread id. Caller holds
// s.mu.
func (s *ThreadStore) newestIDLocked() string {
	var newest string
	var newestTime time.Time
	for id, thr := range s.threads {
		if thr.LastUpdated.After(newestTime) {
			newest, newestTime = id, thr.LastUpdated
		}
	}
	return newest
}

// enforceLimitLocked removes the oldest threads past MaxThreads. Caller
// holds s.mu.
func (s *ThreadStore) enforceLimitLocked() {
	if len(s.threads) <= s.MaxThreads {
		return
	}

	type aged struct {
		id      string
		updated time.Time
	}
	all := make([]aged, 0, len(s.threads))
	for id, thr := range s.threads {
		all = append(all, aged{id, thr.LastUpdated})
	}
	sort.Slice(all, func(i, j int) bool { return all[i].updated.Before(all[j].updated) })

	excess := len(all) - s.MaxThreads
	for i := 0; i < excess; i++ {
		if all[i].id == s.activeID {
			continue
		}
		os.Remove(s.filePath(all[i].id))
		delete(s.threads, all[i].id)
	}
}
