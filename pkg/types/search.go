// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// SearchResult is a candidate returned by a search-type plugin before the
// user confirms it. GetDetails turns it into a full Resource.
type SearchResult struct {
	// Identifier is the source's native id (DOI, arXiv id, PMID, Google
	// Books volume id).
	Identifier string `json:"identifier" yaml:"identifier"`

	Title   string   `json:"title" yaml:"title"`
	Authors []string `json:"authors,omitempty" yaml:"authors,omitempty"`

	// Published is the publication date as reported by the source.
	Published string `json:"published,omitempty" yaml:"published,omitempty"`

	// Source identifies the backend that produced the result
	// (e.g. "crossref", "arxiv", "pubmed", "google-books").
	Source string `json:"source" yaml:"source"`
}
