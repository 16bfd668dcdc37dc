// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package detect

import (
	"regexp"
	"strings"
)

// InputCategory is a coarse classification of raw input.
type InputCategory string

const (
	CategoryURL        InputCategory = "url"
	CategoryIdentifier InputCategory = "identifier"
	CategoryText       InputCategory = "text"
)

var (
	httpPrefix     = regexp.MustCompile(`(?i)^https?://`)
	doiShape       = regexp.MustCompile(`^10\.\d{4,}/`)
	isbn13Shape    = regexp.MustCompile(`^97[89]\d{10}$`)
	isbn10Shape    = regexp.MustCompile(`^\d{9}[\dXx]$`)
	bareVideoShape = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)
	isbnSeparators = regexp.MustCompile(`[-\s]`)
)

// CategorizeInput classifies input as a URL, a structured identifier
// (DOI, ISBN, or an 11-character video-id shape), or free text. It is
// independent of any engine or registered detector.
func CategorizeInput(input string) InputCategory {
	s := strings.TrimSpace(input)
	if httpPrefix.MatchString(s) {
		return CategoryURL
	}
	if doiShape.MatchString(s) {
		return CategoryIdentifier
	}
	cleaned := isbnSeparators.ReplaceAllString(s, "")
	if isbn13Shape.MatchString(cleaned) || isbn10Shape.MatchString(cleaned) {
		return CategoryIdentifier
	}
	if bareVideoShape.MatchString(s) {
		return CategoryIdentifier
	}
	return CategoryText
}
