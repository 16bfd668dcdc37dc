// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/study-shelf/pkg/types"
)

// --- test helpers ---

func testStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(types.StoreConfig{DataDir: t.TempDir(), MaxResults: 20})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	// Advance a fake clock one second per call so ordering is deterministic.
	clock := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	s.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}
	return s
}

func save(t *testing.T, s *Store, res types.Resource) *types.Resource {
	t.Helper()
	saved, err := s.Save(context.Background(), res)
	require.NoError(t, err)
	return saved
}

// --- tests ---

func TestNewStore_CreatesDatabase(t *testing.T) {
	s := testStore(t)
	_, err := os.Stat(s.Path())
	assert.NoError(t, err)
}

func TestSave_AssignsIDAndDefaults(t *testing.T) {
	s := testStore(t)
	saved := save(t, s, types.Resource{
		Type:    "book",
		Title:   "Structure and Interpretation of Computer Programs",
		Authors: []string{"Harold Abelson", "Gerald Jay Sussman"},
		Tags:    []string{"Lisp", "  Computer Science ", "lisp"},
	})

	assert.Len(t, saved.ID, 36)
	assert.Equal(t, types.StatusNotStarted, saved.Status)
	assert.Equal(t, []string{"computer-science", "lisp"}, saved.Tags)
	assert.False(t, saved.CreatedAt.IsZero())

	got, err := s.Get(context.Background(), saved.ID)
	require.NoError(t, err)
	assert.Equal(t, saved.Title, got.Title)
	assert.Equal(t, saved.Authors, got.Authors)
	assert.Equal(t, saved.Tags, got.Tags)
	assert.True(t, saved.CreatedAt.Equal(got.CreatedAt))
}

func TestSave_Validation(t *testing.T) {
	s := testStore(t)
	_, err := s.Save(context.Background(), types.Resource{Type: "book"})
	assert.Error(t, err)
	_, err = s.Save(context.Background(), types.Resource{Title: "No type"})
	assert.Error(t, err)
}

func TestSave_SameIdentifierUpdates(t *testing.T) {
	s := testStore(t)
	first := save(t, s, types.Resource{Type: "paper", Title: "Draft title", Identifier: "10.1000/xyz"})
	second := save(t, s, types.Resource{Type: "paper", Title: "Final title", Identifier: "10.1000/xyz"})

	assert.Equal(t, first.ID, second.ID)
	assert.True(t, first.CreatedAt.Equal(second.CreatedAt))
	assert.True(t, second.UpdatedAt.After(first.UpdatedAt))

	all, err := s.List(context.Background(), ListOptions{})
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "Final title", all[0].Title)
}

func TestSave_SameIdentifierKeepsStudyState(t *testing.T) {
	ctx := context.Background()
	s := testStore(t)
	first := save(t, s, types.Resource{
		Type: "book", Title: "Dental Anatomy", Identifier: "9780136042594",
		Notes: "chapter 3 first", Tags: []string{"anatomy"},
	})
	_, err := s.UpdateProgress(ctx, first.ID, types.StatusCompleted, 100)
	require.NoError(t, err)

	again := save(t, s, types.Resource{
		Type: "book", Title: "Dental Anatomy, 2nd ed.", Identifier: "9780136042594",
		Status: types.StatusNotStarted, Tags: []string{"Exam Prep"},
	})
	assert.Equal(t, first.ID, again.ID)
	assert.Equal(t, types.StatusCompleted, again.Status)
	assert.Equal(t, 100, again.Progress)
	assert.Equal(t, "chapter 3 first", again.Notes)
	assert.Equal(t, []string{"anatomy", "exam-prep"}, again.Tags)

	got, err := s.Get(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "Dental Anatomy, 2nd ed.", got.Title)
	assert.Equal(t, types.StatusCompleted, got.Status)
	assert.Equal(t, []string{"anatomy", "exam-prep"}, got.Tags)

	// Explicit study state on the new record wins.
	reset := save(t, s, types.Resource{
		Type: "book", Title: "Dental Anatomy", Identifier: "9780136042594",
		Status: types.StatusInProgress, Progress: 10, Notes: "rereading",
	})
	assert.Equal(t, types.StatusInProgress, reset.Status)
	assert.Equal(t, 10, reset.Progress)
	assert.Equal(t, "rereading", reset.Notes)
}

func TestGet_CorruptAuthors(t *testing.T) {
	s := testStore(t)
	saved := save(t, s, types.Resource{Type: "book", Title: "Broken", Authors: []string{"A"}})
	_, err := s.db.Exec(`UPDATE resources SET authors = '{not json' WHERE id = ?`, saved.ID)
	require.NoError(t, err)

	_, err = s.Get(context.Background(), saved.ID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decoding authors")

	_, err = s.List(context.Background(), ListOptions{})
	assert.Error(t, err)
}

func TestSave_SameIdentifierDifferentType(t *testing.T) {
	s := testStore(t)
	a := save(t, s, types.Resource{Type: "paper", Title: "A", Identifier: "1234567890"})
	b := save(t, s, types.Resource{Type: "book", Title: "B", Identifier: "1234567890"})
	assert.NotEqual(t, a.ID, b.ID)
}

func TestGet_NotFound(t *testing.T) {
	s := testStore(t)
	_, err := s.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDelete(t *testing.T) {
	s := testStore(t)
	saved := save(t, s, types.Resource{Type: "article", Title: "Gone soon", Tags: []string{"temp"}})

	require.NoError(t, s.Delete(context.Background(), saved.ID))
	_, err := s.Get(context.Background(), saved.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	tags, err := s.Tags(context.Background())
	require.NoError(t, err)
	assert.Empty(t, tags, "tags cascade with the resource")

	assert.ErrorIs(t, s.Delete(context.Background(), saved.ID), ErrNotFound)
}

func TestSetTags(t *testing.T) {
	s := testStore(t)
	saved := save(t, s, types.Resource{Type: "youtube", Title: "Lecture 1", Tags: []string{"old"}})

	tags, err := s.SetTags(context.Background(), saved.ID, []string{"Machine Learning", "machine_learning", "Go"})
	require.NoError(t, err)
	assert.Equal(t, []string{"go", "machine-learning"}, tags)

	got, err := s.Get(context.Background(), saved.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"go", "machine-learning"}, got.Tags)

	_, err = s.SetTags(context.Background(), "missing", []string{"x"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateProgress(t *testing.T) {
	tests := []struct {
		name         string
		status       types.StudyStatus
		percent      int
		wantStatus   types.StudyStatus
		wantProgress int
	}{
		{"partial derives in-progress", "", 40, types.StatusInProgress, 40},
		{"zero derives not-started", "", 0, types.StatusNotStarted, 0},
		{"hundred completes", types.StatusInProgress, 100, types.StatusCompleted, 100},
		{"over hundred clamps", "", 150, types.StatusCompleted, 100},
		{"negative clamps", types.StatusInProgress, -5, types.StatusInProgress, 0},
		{"completed sets hundred", types.StatusCompleted, 10, types.StatusCompleted, 100},
		{"explicit status kept", types.StatusNotStarted, 30, types.StatusNotStarted, 30},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := testStore(t)
			saved := save(t, s, types.Resource{Type: "book", Title: "Progress"})

			got, err := s.UpdateProgress(context.Background(), saved.ID, tt.status, tt.percent)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, got.Status)
			assert.Equal(t, tt.wantProgress, got.Progress)
		})
	}
}

func TestUpdateProgress_NotFound(t *testing.T) {
	s := testStore(t)
	_, err := s.UpdateProgress(context.Background(), "missing", "", 10)
	assert.ErrorIs(t, err, ErrNotFound)
}

func seedList(t *testing.T, s *Store) {
	t.Helper()
	save(t, s, types.Resource{Type: "book", Title: "Clean Code", Tags: []string{"craft"}})
	save(t, s, types.Resource{Type: "paper", Title: "Attention Is All You Need", Tags: []string{"ml", "nlp"}})
	save(t, s, types.Resource{Type: "youtube", Title: "Neural Networks: Zero to Hero", Tags: []string{"ml"}, Status: types.StatusInProgress})
	save(t, s, types.Resource{Type: "article", Title: "100% Go_Routines", Tags: []string{"go"}})
}

func TestList(t *testing.T) {
	tests := []struct {
		name       string
		opts       ListOptions
		wantTitles []string
	}{
		{"all newest first", ListOptions{}, []string{"100% Go_Routines", "Neural Networks: Zero to Hero", "Attention Is All You Need", "Clean Code"}},
		{"by type", ListOptions{Type: "book"}, []string{"Clean Code"}},
		{"by tag", ListOptions{Tag: "ML"}, []string{"Neural Networks: Zero to Hero", "Attention Is All You Need"}},
		{"by status", ListOptions{Status: types.StatusInProgress}, []string{"Neural Networks: Zero to Hero"}},
		{"title substring case-insensitive", ListOptions{Title: "attention"}, []string{"Attention Is All You Need"}},
		{"title with LIKE metacharacters", ListOptions{Title: "100%"}, []string{"100% Go_Routines"}},
		{"underscore is literal", ListOptions{Title: "o_R"}, []string{"100% Go_Routines"}},
		{"max results", ListOptions{MaxResults: 2}, []string{"100% Go_Routines", "Neural Networks: Zero to Hero"}},
		{"combined filters", ListOptions{Tag: "ml", Type: "paper"}, []string{"Attention Is All You Need"}},
		{"no match", ListOptions{Tag: "cooking"}, nil},
	}

	s := testStore(t)
	seedList(t, s)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.List(context.Background(), tt.opts)
			require.NoError(t, err)

			var titles []string
			for _, r := range got {
				titles = append(titles, r.Title)
			}
			assert.Equal(t, tt.wantTitles, titles)
		})
	}
}

func TestTags(t *testing.T) {
	s := testStore(t)
	seedList(t, s)

	tags, err := s.Tags(context.Background())
	require.NoError(t, err)
	require.Len(t, tags, 4)
	assert.Equal(t, TagCount{Tag: "ml", Label: "Ml", Count: 2}, tags[0])
	assert.Equal(t, "craft", tags[1].Tag)
}

func TestExportYAML(t *testing.T) {
	s := testStore(t)
	seedList(t, s)

	var buf bytes.Buffer
	require.NoError(t, s.ExportYAML(context.Background(), &buf, ListOptions{Tag: "ml"}))

	var got []types.Resource
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got, 2)
	assert.Equal(t, []string{"ml"}, got[0].Tags)
}

func TestExportJSON_Empty(t *testing.T) {
	s := testStore(t)

	var buf bytes.Buffer
	require.NoError(t, s.ExportJSON(context.Background(), &buf, ListOptions{}))
	assert.JSONEq(t, "[]", buf.String())
}

func TestExportFile(t *testing.T) {
	s := testStore(t)
	seedList(t, s)

	path, err := s.ExportFile(context.Background(), FormatJSON, ListOptions{Type: "book"})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var got []types.Resource
	require.NoError(t, json.Unmarshal(data, &got))
	require.Len(t, got, 1)
	assert.Equal(t, "Clean Code", got[0].Title)

	_, err = s.ExportFile(context.Background(), "xml", ListOptions{})
	assert.Error(t, err)
}

func TestExportTOML(t *testing.T) {
	s := testStore(t)
	seedList(t, s)

	var buf bytes.Buffer
	require.NoError(t, s.Export(context.Background(), &buf, FormatTOML, ListOptions{Type: "paper"}))

	var doc tomlDocument
	require.NoError(t, toml.Unmarshal(buf.Bytes(), &doc))
	require.Len(t, doc.Resources, 1)
	assert.Equal(t, "Attention Is All You Need", doc.Resources[0].Title)
	assert.Equal(t, []string{"ml", "nlp"}, doc.Resources[0].Tags)
}

func TestParseExportFormat(t *testing.T) {
	for _, f := range []string{"yaml", "json", "toml"} {
		got, err := ParseExportFormat(f)
		require.NoError(t, err)
		assert.Equal(t, ExportFormat(f), got)
	}
	_, err := ParseExportFormat("xml")
	assert.Error(t, err)
}

func TestNormalizeTag(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Go", "go"},
		{"  Machine   Learning ", "machine-learning"},
		{"machine_learning", "machine-learning"},
		{"C++", "c++"},
		{"Node.js", "node.js"},
		{"--Rust--", "rust"},
		{"ＡＢＣ", "abc"},
		{"Straße", "strasse"},
		{"#!?", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeTag(tt.in))
		})
	}
}

func TestResolveID(t *testing.T) {
	s := testStore(t)
	a := save(t, s, types.Resource{ID: "abc11111-0000-0000-0000-000000000000", Type: "book", Title: "A"})
	save(t, s, types.Resource{ID: "abc22222-0000-0000-0000-000000000000", Type: "book", Title: "B"})

	id, err := s.ResolveID(context.Background(), "abc1")
	require.NoError(t, err)
	assert.Equal(t, a.ID, id)

	id, err = s.ResolveID(context.Background(), a.ID)
	require.NoError(t, err)
	assert.Equal(t, a.ID, id)

	_, err = s.ResolveID(context.Background(), "abc")
	assert.ErrorIs(t, err, ErrAmbiguousID)

	_, err = s.ResolveID(context.Background(), "zzz")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.ResolveID(context.Background(), "  ")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.ResolveID(context.Background(), "%")
	assert.ErrorIs(t, err, ErrNotFound, "LIKE wildcards are literal")
}
