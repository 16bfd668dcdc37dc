// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"fmt"
	"time"
)

// StudyStatus tracks how far a user has progressed through a resource.
type StudyStatus string

const (
	StatusNotStarted StudyStatus = "not-started"
	StatusInProgress StudyStatus = "in-progress"
	StatusCompleted  StudyStatus = "completed"
)

// ParseStudyStatus validates a status string from the CLI or storage.
func ParseStudyStatus(s string) (StudyStatus, error) {
	switch st := StudyStatus(s); st {
	case StatusNotStarted, StatusInProgress, StatusCompleted:
		return st, nil
	default:
		return "", fmt.Errorf("unknown study status %q (want not-started, in-progress, or completed)", s)
	}
}

// Resource is a saved study item: a video, book, paper, or article.
type Resource struct {
	// ID is a UUID assigned when the resource is first saved.
	ID string `json:"id" yaml:"id" toml:"id"`

	// Type is the plugin id that produced the resource (e.g. "paper").
	Type string `json:"type" yaml:"type" toml:"type"`

	Title   string   `json:"title" yaml:"title" toml:"title"`
	Authors []string `json:"authors,omitempty" yaml:"authors,omitempty" toml:"authors,omitempty"`

	// URL is the canonical link for the resource.
	URL string `json:"url,omitempty" yaml:"url,omitempty" toml:"url,omitempty"`

	// Identifier is the type-specific id (video id, DOI, ISBN, arXiv id).
	Identifier string `json:"identifier,omitempty" yaml:"identifier,omitempty" toml:"identifier,omitempty"`

	Description  string `json:"description,omitempty" yaml:"description,omitempty" toml:"description,omitempty"`
	Publisher    string `json:"publisher,omitempty" yaml:"publisher,omitempty" toml:"publisher,omitempty"`
	Published    string `json:"published,omitempty" yaml:"published,omitempty" toml:"published,omitempty"`
	ThumbnailURL string `json:"thumbnail_url,omitempty" yaml:"thumbnail_url,omitempty" toml:"thumbnail_url,omitempty"`

	// Tags are the user's topics, normalized by the store.
	Tags []string `json:"tags,omitempty" yaml:"tags,omitempty" toml:"tags,omitempty"`

	Status StudyStatus `json:"status" yaml:"status" toml:"status"`

	// Progress is a completion percentage between 0 and 100.
	Progress int `json:"progress" yaml:"progress" toml:"progress"`

	Notes string `json:"notes,omitempty" yaml:"notes,omitempty" toml:"notes,omitempty"`

	CreatedAt time.Time `json:"created_at" yaml:"created_at" toml:"created_at"`
	UpdatedAt time.Time `json:"updated_at" yaml:"updated_at" toml:"updated_at"`
}
