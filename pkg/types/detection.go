// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for study-shelf: detection
// candidates produced by the detection engine, saved study resources, and
// the configuration of each stage.
package types

import (
	"fmt"
	"strings"
)

// Confidence is an ordered classification certainty level. Ordering is by
// Score, never by the string value.
type Confidence string

const (
	ConfidenceDefinite Confidence = "definite"
	ConfidenceHigh     Confidence = "high"
	ConfidenceMedium   Confidence = "medium"
	ConfidenceLow      Confidence = "low"
)

// ConfidenceScores maps each level to its numeric score.
var ConfidenceScores = map[Confidence]int{
	ConfidenceDefinite: 100,
	ConfidenceHigh:     80,
	ConfidenceMedium:   50,
	ConfidenceLow:      20,
}

// Score returns the numeric score for c. Unknown levels score 0.
func (c Confidence) Score() int {
	return ConfidenceScores[c]
}

// AtLeast reports whether c scores at or above floor.
func (c Confidence) AtLeast(floor Confidence) bool {
	return c.Score() >= floor.Score()
}

// ParseConfidence converts a config or flag value into a Confidence.
func ParseConfidence(s string) (Confidence, error) {
	c := Confidence(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := ConfidenceScores[c]; !ok {
		return "", fmt.Errorf("unknown confidence level %q (want definite, high, medium, or low)", s)
	}
	return c, nil
}

// InputType classifies what kind of string produced a detection. It is
// informational and does not affect ranking.
type InputType string

const (
	InputURL         InputType = "url"
	InputIdentifier  InputType = "identifier"
	InputSearchQuery InputType = "search-query"
	InputTitle       InputType = "title"
)

// DetectionContext carries what a detector extracted from the input.
type DetectionContext struct {
	// ExtractedID is the normalized identifier pulled from the input
	// (a YouTube video id, a bare DOI, a cleaned ISBN).
	ExtractedID string `json:"extracted_id,omitempty" yaml:"extracted_id,omitempty"`

	// MatchedPattern names the sub-pattern that fired (e.g. "doi", "isbn-13").
	MatchedPattern string `json:"matched_pattern,omitempty" yaml:"matched_pattern,omitempty"`

	// Metadata holds auxiliary data such as a heuristic score.
	Metadata map[string]any `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// DetectionResult is one candidate classification of a raw input string.
// Results are created fresh per detection call and never modified by the
// engine afterwards.
type DetectionResult struct {
	// PluginID identifies the resource plugin that handles this candidate.
	PluginID string `json:"plugin_id" yaml:"plugin_id"`

	// DisplayName is a human label (e.g. "YouTube Video").
	DisplayName string `json:"display_name" yaml:"display_name"`

	Confidence Confidence `json:"confidence" yaml:"confidence"`
	InputType  InputType  `json:"input_type" yaml:"input_type"`

	Context *DetectionContext `json:"context,omitempty" yaml:"context,omitempty"`
}

// ExtractedID returns the extracted identifier, or "" when none was set.
func (r DetectionResult) ExtractedID() string {
	if r.Context == nil {
		return ""
	}
	return r.Context.ExtractedID
}

// MatchedPattern returns the sub-pattern that fired, or "".
func (r DetectionResult) MatchedPattern() string {
	if r.Context == nil {
		return ""
	}
	return r.Context.MatchedPattern
}

// Meta returns the metadata value for key, or nil.
func (r DetectionResult) Meta(key string) any {
	if r.Context == nil || r.Context.Metadata == nil {
		return nil
	}
	return r.Context.Metadata[key]
}
