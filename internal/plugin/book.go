// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package plugin

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/pdiddy/study-shelf/internal/detect"
	"github.com/pdiddy/study-shelf/internal/httputil"
	"github.com/pdiddy/study-shelf/pkg/types"
)

// googleBooksAPIBase is the Google Books volumes endpoint. Declared as a
// var so tests can substitute an httptest server.
var googleBooksAPIBase = "https://www.googleapis.com/books/v1/volumes"

// Book resolves books through the Google Books API.
type Book struct {
	client     *httputil.Client
	apiKey     string
	maxResults int
}

// NewBook returns the book plugin.
func NewBook(client *httputil.Client, cfg types.PluginConfig) *Book {
	maxResults := cfg.MaxSearchResults
	if maxResults <= 0 {
		maxResults = defaultMaxSearchResults
	}
	return &Book{client: client, apiKey: cfg.GoogleBooksAPIKey, maxResults: maxResults}
}

func (p *Book) ID() string           { return "book" }
func (p *Book) Name() string         { return "Book" }
func (p *Book) InputKind() InputKind { return KindSearch }

// Validate accepts ISBN-shaped input and free text of at least three characters.
func (p *Book) Validate(input string) bool {
	return isISBN(input) || len(strings.TrimSpace(input)) >= 3
}

// isbnShaped reports whether a cleaned string has the digit layout of an
// ISBN, regardless of checksum.
func isbnShaped(cleaned string) bool {
	if len(cleaned) != 10 && len(cleaned) != 13 {
		return false
	}
	for i, r := range cleaned {
		if r >= '0' && r <= '9' {
			continue
		}
		if r == 'X' && i == 9 && len(cleaned) == 10 {
			continue
		}
		return false
	}
	return true
}

func isISBN(s string) bool {
	cleaned := detect.CleanISBN(s)
	return (len(cleaned) == 13 && detect.ValidISBN13(cleaned)) || (len(cleaned) == 10 && detect.ValidISBN10(cleaned))
}

// Google Books JSON structures.
type volumeList struct {
	Items []volume `json:"items"`
}

type volume struct {
	ID         string     `json:"id"`
	VolumeInfo volumeInfo `json:"volumeInfo"`
}

type volumeInfo struct {
	Title               string   `json:"title"`
	Subtitle            string   `json:"subtitle"`
	Authors             []string `json:"authors"`
	Publisher           string   `json:"publisher"`
	PublishedDate       string   `json:"publishedDate"`
	Description         string   `json:"description"`
	InfoLink            string   `json:"infoLink"`
	IndustryIdentifiers []struct {
		Type       string `json:"type"`
		Identifier string `json:"identifier"`
	} `json:"industryIdentifiers"`
	ImageLinks struct {
		Thumbnail string `json:"thumbnail"`
	} `json:"imageLinks"`
}

// Search queries Google Books. ISBN input is searched with the isbn:
// qualifier.
func (p *Book) Search(ctx context.Context, query string) ([]types.SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("empty query")
	}
	vols, err := p.search(ctx, bookQuery(query))
	if err != nil {
		return nil, err
	}
	results := make([]types.SearchResult, 0, len(vols))
	for _, v := range vols {
		results = append(results, types.SearchResult{
			Identifier: v.ID,
			Title:      v.VolumeInfo.fullTitle(),
			Authors:    v.VolumeInfo.Authors,
			Published:  v.VolumeInfo.PublishedDate,
			Source:     "google-books",
		})
	}
	return results, nil
}

// GetDetails fetches a volume by id. An ISBN identifier is first resolved
// to its volume through search.
func (p *Book) GetDetails(ctx context.Context, r types.SearchResult) (*types.Resource, error) {
	id := strings.TrimSpace(r.Identifier)
	if id == "" {
		return nil, fmt.Errorf("search result has no identifier")
	}

	if cleaned := detect.CleanISBN(id); isbnShaped(cleaned) {
		vols, err := p.search(ctx, "isbn:"+cleaned)
		if err != nil {
			return nil, err
		}
		if len(vols) == 0 {
			return nil, fmt.Errorf("%w for ISBN %s", ErrNoResults, cleaned)
		}
		return vols[0].resource(), nil
	}

	var v volume
	if err := p.client.GetJSON(ctx, p.withKey(googleBooksAPIBase+"/"+url.PathEscape(id), nil), &v); err != nil {
		return nil, fmt.Errorf("Google Books lookup: %w", err)
	}
	return v.resource(), nil
}

func (p *Book) search(ctx context.Context, q string) ([]volume, error) {
	params := url.Values{}
	params.Set("q", q)
	params.Set("maxResults", strconv.Itoa(min(p.maxResults, 40)))
	var list volumeList
	if err := p.client.GetJSON(ctx, p.withKey(googleBooksAPIBase, params), &list); err != nil {
		return nil, fmt.Errorf("Google Books search: %w", err)
	}
	return list.Items, nil
}

func (p *Book) withKey(base string, params url.Values) string {
	if params == nil {
		params = url.Values{}
	}
	if p.apiKey != "" {
		params.Set("key", p.apiKey)
	}
	if len(params) == 0 {
		return base
	}
	return base + "?" + params.Encode()
}

// bookQuery adds the isbn: qualifier to ISBN input.
func bookQuery(query string) string {
	if isISBN(query) {
		return "isbn:" + detect.CleanISBN(query)
	}
	return query
}

func (vi volumeInfo) fullTitle() string {
	if vi.Subtitle == "" {
		return vi.Title
	}
	return vi.Title + ": " + vi.Subtitle
}

func (v volume) resource() *types.Resource {
	vi := v.VolumeInfo
	res := &types.Resource{
		Type:         "book",
		Identifier:   v.ID,
		Title:        vi.fullTitle(),
		Authors:      vi.Authors,
		URL:          vi.InfoLink,
		Description:  vi.Description,
		Publisher:    vi.Publisher,
		Published:    vi.PublishedDate,
		ThumbnailURL: strings.Replace(vi.ImageLinks.Thumbnail, "http://", "https://", 1),
		Status:       types.StatusNotStarted,
	}
	// Prefer the ISBN-13 as the identifier when Google reports one.
	for _, ii := range vi.IndustryIdentifiers {
		if ii.Type == "ISBN_13" {
			res.Identifier = ii.Identifier
			break
		}
	}
	return res
}
