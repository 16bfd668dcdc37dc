// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store persists saved study resources in SQLite.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/study-shelf/pkg/types"
)

const (
	dbFile            = "study-shelf.db"
	defaultMaxResults = 50

	// timeLayout is fixed-width so stored timestamps sort lexically.
	timeLayout = "2006-01-02T15:04:05.000000000Z07:00"
)

var (
	// ErrNotFound is returned when no resource has the requested id.
	ErrNotFound = errors.New("resource not found")

	// ErrAmbiguousID is returned when an id prefix matches several resources.
	ErrAmbiguousID = errors.New("ambiguous resource id")
)

// Store manages the resource database.
type Store struct {
	db         *sql.DB
	dataDir    string
	maxResults int
	now        func() time.Time
}

// NewStore opens or creates the database at dataDir/study-shelf.db and
// creates the schema if it does not exist.
func NewStore(cfg types.StoreConfig) (*Store, error) {
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(cfg.DataDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}

	s := &Store{
		db:         db,
		dataDir:    cfg.DataDir,
		maxResults: maxResults,
		now:        func() time.Time { return time.Now().UTC() },
	}

	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string {
	return filepath.Join(s.dataDir, dbFile)
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS resources (
			id TEXT PRIMARY KEY,
			type TEXT NOT NULL,
			title TEXT NOT NULL,
			authors TEXT,
			url TEXT,
			identifier TEXT,
			description TEXT,
			publisher TEXT,
			published TEXT,
			thumbnail_url TEXT,
			status TEXT NOT NULL,
			progress INTEGER NOT NULL DEFAULT 0,
			notes TEXT,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS resource_tags (
			resource_id TEXT NOT NULL REFERENCES resources(id) ON DELETE CASCADE,
			tag TEXT NOT NULL,
			PRIMARY KEY (resource_id, tag)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_resources_type ON resources(type)`,
		`CREATE INDEX IF NOT EXISTS idx_resources_identifier ON resources(type, identifier)`,
		`CREATE INDEX IF NOT EXISTS idx_resource_tags_tag ON resource_tags(tag)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Save inserts or updates res and returns the stored record. A resource
// without an ID gets a new UUID, unless a resource of the same type with
// the same identifier already exists. In that case the existing record is
// refreshed: its study progress and notes survive unless res sets them,
// and res's tags are added to the existing ones. Tags are normalized.
func (s *Store) Save(ctx context.Context, res types.Resource) (*types.Resource, error) {
	if res.Title == "" {
		return nil, fmt.Errorf("resource has no title")
	}
	if res.Type == "" {
		return nil, fmt.Errorf("resource has no type")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	now := s.now()
	res.UpdatedAt = now

	if res.ID == "" && res.Identifier != "" {
		if err := mergeExisting(ctx, tx, &res); err != nil {
			return nil, err
		}
	}
	if res.ID == "" {
		res.ID = uuid.NewString()
	}
	if res.CreatedAt.IsZero() {
		res.CreatedAt = now
	}
	if res.Status == "" {
		res.Status = types.StatusNotStarted
	}
	res.Progress = clampProgress(res.Progress)
	res.Tags = NormalizeTags(res.Tags)

	authorsJSON, err := json.Marshal(res.Authors)
	if err != nil {
		return nil, fmt.Errorf("encoding authors: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO resources (id, type, title, authors, url, identifier, description,
			publisher, published, thumbnail_url, status, progress, notes, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			type=excluded.type, title=excluded.title, authors=excluded.authors,
			url=excluded.url, identifier=excluded.identifier, description=excluded.description,
			publisher=excluded.publisher, published=excluded.published,
			thumbnail_url=excluded.thumbnail_url, status=excluded.status,
			progress=excluded.progress, notes=excluded.notes, updated_at=excluded.updated_at`,
		res.ID, res.Type, res.Title, string(authorsJSON), res.URL, res.Identifier, res.Description,
		res.Publisher, res.Published, res.ThumbnailURL, string(res.Status), res.Progress, res.Notes,
		formatTime(res.CreatedAt), formatTime(res.UpdatedAt),
	)
	if err != nil {
		return nil, fmt.Errorf("upserting resource: %w", err)
	}

	if err := replaceTags(ctx, tx, res.ID, res.Tags); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing resource: %w", err)
	}
	return &res, nil
}

// Get returns the resource with the given id.
func (s *Store) Get(ctx context.Context, id string) (*types.Resource, error) {
	row := s.db.QueryRowContext(ctx, selectResource+` WHERE r.id = ?`, id)
	res, err := scanResource(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("loading resource %s: %w", id, err)
	}

	tags, err := s.loadTags(ctx, []string{id})
	if err != nil {
		return nil, err
	}
	res.Tags = tags[id]
	return res, nil
}

// Delete removes a resource and its tags.
func (s *Store) Delete(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM resources WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting resource %s: %w", id, err)
	}
	return requireAffected(result, id)
}

// SetTags replaces the tags on a resource and returns the normalized set.
func (s *Store) SetTags(ctx context.Context, id string, tags []string) ([]string, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		`UPDATE resources SET updated_at = ? WHERE id = ?`, formatTime(s.now()), id)
	if err != nil {
		return nil, fmt.Errorf("touching resource %s: %w", id, err)
	}
	if err := requireAffected(result, id); err != nil {
		return nil, err
	}

	normalized := NormalizeTags(tags)
	if err := replaceTags(ctx, tx, id, normalized); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing tags: %w", err)
	}
	return normalized, nil
}

// UpdateProgress records study progress. The percentage is clamped to
// [0, 100]. Reaching 100 marks the resource completed and marking it
// completed sets 100. An empty status is derived from the percentage.
func (s *Store) UpdateProgress(ctx context.Context, id string, status types.StudyStatus, percent int) (*types.Resource, error) {
	percent = clampProgress(percent)
	switch {
	case percent == 100 || status == types.StatusCompleted:
		status, percent = types.StatusCompleted, 100
	case status == "" && percent == 0:
		status = types.StatusNotStarted
	case status == "":
		status = types.StatusInProgress
	}

	result, err := s.db.ExecContext(ctx,
		`UPDATE resources SET status = ?, progress = ?, updated_at = ? WHERE id = ?`,
		string(status), percent, formatTime(s.now()), id)
	if err != nil {
		return nil, fmt.Errorf("updating progress for %s: %w", id, err)
	}
	if err := requireAffected(result, id); err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

func requireAffected(result sql.Result, id string) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

// mergeExisting folds the stored record sharing res's type and identifier
// into res. A fresh record (not started, no progress) does not reset the
// stored study state.
func mergeExisting(ctx context.Context, tx *sql.Tx, res *types.Resource) error {
	var (
		id, createdAt, status string
		progress              int
		notes                 sql.NullString
	)
	err := tx.QueryRowContext(ctx,
		`SELECT id, created_at, status, progress, notes FROM resources WHERE type = ? AND identifier = ?`,
		res.Type, res.Identifier,
	).Scan(&id, &createdAt, &status, &progress, &notes)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("checking for existing resource: %w", err)
	}

	res.ID = id
	res.CreatedAt = parseTime(createdAt)
	if res.Progress == 0 && (res.Status == "" || res.Status == types.StatusNotStarted) {
		res.Status = types.StudyStatus(status)
		res.Progress = progress
	}
	if res.Notes == "" {
		res.Notes = notes.String
	}

	rows, err := tx.QueryContext(ctx, `SELECT tag FROM resource_tags WHERE resource_id = ?`, id)
	if err != nil {
		return fmt.Errorf("loading existing tags: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var tag string
		if err := rows.Scan(&tag); err != nil {
			return fmt.Errorf("scanning existing tag: %w", err)
		}
		res.Tags = append(res.Tags, tag)
	}
	return rows.Err()
}

func replaceTags(ctx context.Context, tx *sql.Tx, id string, tags []string) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM resource_tags WHERE resource_id = ?`, id); err != nil {
		return fmt.Errorf("clearing tags: %w", err)
	}
	if len(tags) == 0 {
		return nil
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT OR IGNORE INTO resource_tags (resource_id, tag) VALUES (?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing tag insert: %w", err)
	}
	defer stmt.Close()

	for _, tag := range tags {
		if _, err := stmt.ExecContext(ctx, id, tag); err != nil {
			return fmt.Errorf("inserting tag %s: %w", tag, err)
		}
	}
	return nil
}

func clampProgress(p int) int {
	return min(max(p, 0), 100)
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) time.Time {
	t, _ := time.Parse(timeLayout, s)
	return t
}
