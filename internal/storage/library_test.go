// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brightfold/studio-tui/internal/model"
)

func newTestLibrary(t *testing.T) *Library {
	t.Helper()
	lib, err := OpenLibrary(filepath.Join(t.TempDir(), "library.db"))
	require.NoError(t, err)
	t.Cleanup(func() { lib.Close() })
	return lib
}

// =============================================================================
// TOOL RESULTS
// =============================================================================

func TestLibrary_SaveAndGetResult(t *testing.T) {
	lib := newTestLibrary(t)

	res := model.NewToolResult("Website Intelligence",
		json.RawMessage(`{"categories":["saas"]}`), "One category found.")
	res.URL = "https://example.com"
	res.ShareURL = "studio://results/" + res.ID

	require.NoError(t, lib.SaveResult(res))

	got, err := lib.GetResult(res.ID)
	require.NoError(t, err)
	assert.Equal(t, res.ID, got.ID)
	assert.Equal(t, res.ToolName, got.ToolName)
	assert.Equal(t, res.URL, got.URL)
	assert.Equal(t, res.Summary, got.Summary)
	assert.Equal(t, res.ShareURL, got.ShareURL)
	assert.JSONEq(t, string(res.Content), string(got.Content))
}

func TestLibrary_ListResults_MostRecentFirst(t *testing.T) {
	lib := newTestLibrary(t)

	older := model.NewToolResult("Website Intelligence", json.RawMessage(`{}`), "older")
	newer := model.NewToolResult("ICP Builder", json.RawMessage(`{}`), "newer")
	newer.CreatedAt = older.CreatedAt.Add(1000)

	require.NoError(t, lib.SaveResult(older))
	require.NoError(t, lib.SaveResult(newer))

	results, err := lib.ListResults()
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, newer.ID, results[0].ID)
	assert.Equal(t, older.ID, results[1].ID)
}

func TestLibrary_DeleteResult(t *testing.T) {
	lib := newTestLibrary(t)

	res := model.NewToolResult("Website Intelligence", json.RawMessage(`{}`), "x")
	require.NoError(t, lib.SaveResult(res))
	require.NoError(t, lib.DeleteResult(res.ID))

	_, err := lib.GetResult(res.ID)
	assert.ErrorIs(t, err, ErrResultNotFound)
	assert.ErrorIs(t, lib.DeleteResult(res.ID), ErrResultNotFound)
}

// =============================================================================
// CODE ARTIFACTS
// =============================================================================

func TestLibrary_SaveAndListArtifacts(t *testing.T) {
	lib := newTestLibrary(t)

	art := model.NewCodeArtifact("SELECT 1;", "sql", "Sanity query")
	art.Description = "from the chat"
	require.NoError(t, lib.SaveArtifact(art))

	artifacts, err := lib.ListArtifacts()
	require.NoError(t, err)
	require.Len(t, artifacts, 1)
	assert.Equal(t, art.Code, artifacts[0].Code)
	assert.Equal(t, art.Language, artifacts[0].Language)
	assert.Equal(t, art.Description, artifacts[0].Description)
}

func TestLibrary_DeleteArtifact(t *testing.T) {
	lib := newTestLibrary(t)

	art := model.NewCodeArtifact("print(1)", "python", "Snippet")
	require.NoError(t, lib.SaveArtifact(art))
	require.NoError(t, lib.DeleteArtifact(art.ID))
	assert.ErrorIs(t, lib.DeleteArtifact(art.ID), ErrArtifactNotFound)

	_, err := lib.GetArtifact(art.ID)
	assert.ErrorIs(t, err, ErrArtifactNotFound)
}

// =============================================================================
// PERSISTENCE ACROSS REOPEN
// =============================================================================

func TestLibrary_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "library.db")

	lib, err := OpenLibrary(path)
	require.NoError(t, err)
	res := model.NewToolResult("Brand Foundation", json.RawMessage(`{"pillars":[]}`), "done")
	require.NoError(t, lib.SaveResult(res))
	require.NoError(t, lib.Close())

	reopened, err := OpenLibrary(path)
	require.NoError(t, err)
	defer reopened.Close()

	got, err := reopened.GetResult(res.ID)
	require.NoError(t, err)
	assert.Equal(t, "done", got.Summary)
}
