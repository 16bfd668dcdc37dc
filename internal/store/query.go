// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pdiddy/study-shelf/pkg/types"
)

// ListOptions filters resource listings. Zero values match everything.
type ListOptions struct {
	// Type filters by plugin id.
	Type string

	// Tag filters by a topic tag. It is normalized before matching.
	Tag string

	// Status filters by study status.
	Status types.StudyStatus

	// Title matches a case-insensitive substring of the title.
	Title string

	// MaxResults limits result count. Zero uses the store default.
	MaxResults int
}

const selectResource = `SELECT r.id, r.type, r.title, r.authors, r.url, r.identifier,
	r.description, r.publisher, r.published, r.thumbnail_url, r.status,
	r.progress, r.notes, r.created_at, r.updated_at
	FROM resources r`

// List returns resources matching opts, most recently updated first.
func (s *Store) List(ctx context.Context, opts ListOptions) ([]types.Resource, error) {
	maxResults := opts.MaxResults
	if maxResults <= 0 {
		maxResults = s.maxResults
	}

	var (
		qb   strings.Builder
		args []any
	)
	qb.WriteString(selectResource)
	qb.WriteString(` WHERE 1=1`)

	if opts.Type != "" {
		qb.WriteString(` AND r.type = ?`)
		args = append(args, opts.Type)
	}
	if opts.Status != "" {
		qb.WriteString(` AND r.status = ?`)
		args = append(args, string(opts.Status))
	}
	if opts.Title != "" {
		qb.WriteString(` AND r.title LIKE ? ESCAPE '\'`)
		args = append(args, "%"+escapeLike(opts.Title)+"%")
	}
	if tag := NormalizeTag(opts.Tag); tag != "" {
		qb.WriteString(` AND EXISTS (SELECT 1 FROM resource_tags t WHERE t.resource_id = r.id AND t.tag = ?)`)
		args = append(args, tag)
	}

	qb.WriteString(` ORDER BY r.updated_at DESC, r.id LIMIT ?`)
	args = append(args, maxResults)

	rows, err := s.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("querying resources: %w", err)
	}
	defer rows.Close()

	var (
		results []types.Resource
		ids     []string
	)
	for rows.Next() {
		res, err := scanResource(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning resource: %w", err)
		}
		results = append(results, *res)
		ids = append(ids, res.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating resources: %w", err)
	}

	tags, err := s.loadTags(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range results {
		results[i].Tags = tags[results[i].ID]
	}
	return results, nil
}

// ResolveID expands an id prefix, such as the short form shown by list,
// to the full resource id.
func (s *Store) ResolveID(ctx context.Context, prefix string) (string, error) {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return "", fmt.Errorf("%w: empty id", ErrNotFound)
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id FROM resources WHERE id LIKE ? ESCAPE '\' ORDER BY id LIMIT 2`, escapeLike(prefix)+"%")
	if err != nil {
		return "", fmt.Errorf("resolving id %s: %w", prefix, err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return "", fmt.Errorf("scanning id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return "", err
	}

	switch len(ids) {
	case 0:
		return "", fmt.Errorf("%w: %s", ErrNotFound, prefix)
	case 1:
		return ids[0], nil
	default:
		return "", fmt.Errorf("%w: %s", ErrAmbiguousID, prefix)
	}
}

// TagCount is a tag with the number of resources carrying it.
type TagCount struct {
	Tag   string `json:"tag" yaml:"tag"`
	Label string `json:"label" yaml:"label"`
	Count int    `json:"count" yaml:"count"`
}

// Tags returns every tag in use, most used first.
func (s *Store) Tags(ctx context.Context) ([]TagCount, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT tag, count(*) FROM resource_tags GROUP BY tag ORDER BY count(*) DESC, tag`)
	if err != nil {
		return nil, fmt.Errorf("querying tags: %w", err)
	}
	defer rows.Close()

	var out []TagCount
	for rows.Next() {
		var tc TagCount
		if err := rows.Scan(&tc.Tag, &tc.Count); err != nil {
			return nil, fmt.Errorf("scanning tag: %w", err)
		}
		tc.Label = displayTitle(tc.Tag)
		out = append(out, tc)
	}
	return out, rows.Err()
}

func (s *Store) loadTags(ctx context.Context, ids []string) (map[string][]string, error) {
	out := make(map[string][]string, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT resource_id, tag FROM resource_tags WHERE resource_id IN (`+placeholders+`) ORDER BY tag`, args...)
	if err != nil {
		return nil, fmt.Errorf("loading tags: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id, tag string
		if err := rows.Scan(&id, &tag); err != nil {
			return nil, fmt.Errorf("scanning tag: %w", err)
		}
		out[id] = append(out[id], tag)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanResource(row scanner) (*types.Resource, error) {
	var (
		res                   types.Resource
		status                string
		authorsJSON           sql.NullString
		url, identifier, desc sql.NullString
		publisher, published  sql.NullString
		thumbnail, notes      sql.NullString
		createdAt, updatedAt  string
	)
	err := row.Scan(&res.ID, &res.Type, &res.Title, &authorsJSON, &url, &identifier,
		&desc, &publisher, &published, &thumbnail, &status,
		&res.Progress, &notes, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	if authorsJSON.Valid && authorsJSON.String != "" {
		if err := json.Unmarshal([]byte(authorsJSON.String), &res.Authors); err != nil {
			return nil, fmt.Errorf("decoding authors of %s: %w", res.ID, err)
		}
	}
	res.URL = url.String
	res.Identifier = identifier.String
	res.Description = desc.String
	res.Publisher = publisher.String
	res.Published = published.String
	res.ThumbnailURL = thumbnail.String
	res.Notes = notes.String
	res.Status = types.StudyStatus(status)
	res.CreatedAt = parseTime(createdAt)
	res.UpdatedAt = parseTime(updatedAt)
	return &res, nil
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
