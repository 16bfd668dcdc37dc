// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package plugin

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/pdiddy/study-shelf/internal/httputil"
	"github.com/pdiddy/study-shelf/pkg/types"
)

// Article resolves generic web pages by reading their title and Open
// Graph metadata.
type Article struct {
	client *httputil.Client
}

// NewArticle returns the article plugin.
func NewArticle(client *httputil.Client) *Article {
	return &Article{client: client}
}

func (p *Article) ID() string           { return "article" }
func (p *Article) Name() string         { return "Article" }
func (p *Article) InputKind() InputKind { return KindURL }

// Validate accepts absolute http(s) URLs.
func (p *Article) Validate(input string) bool {
	u, err := url.Parse(strings.TrimSpace(input))
	return err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// FetchFromURL downloads the page and extracts its metadata. The page
// title falls back to the URL when the document has none.
func (p *Article) FetchFromURL(ctx context.Context, rawURL string) (*types.Resource, error) {
	if !p.Validate(rawURL) {
		return nil, fmt.Errorf("not an http(s) URL: %q", rawURL)
	}
	body, err := p.client.Get(ctx, rawURL, "text/html")
	if err != nil {
		return nil, fmt.Errorf("fetching page: %w", err)
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parsing page: %w", err)
	}

	res := &types.Resource{
		Type:         p.ID(),
		URL:          rawURL,
		Title:        firstNonEmpty(meta(doc, "og:title"), strings.TrimSpace(doc.Find("title").First().Text()), rawURL),
		Description:  firstNonEmpty(meta(doc, "og:description"), meta(doc, "description")),
		Publisher:    meta(doc, "og:site_name"),
		Published:    meta(doc, "article:published_time"),
		ThumbnailURL: meta(doc, "og:image"),
		Status:       types.StatusNotStarted,
	}
	if res.Publisher == "" {
		if u, err := url.Parse(rawURL); err == nil {
			res.Publisher = strings.TrimPrefix(u.Hostname(), "www.")
		}
	}
	if author := meta(doc, "author"); author != "" {
		res.Authors = []string{author}
	}
	return res, nil
}

// meta returns the content of the first <meta> whose property or name is key.
func meta(doc *goquery.Document, key string) string {
	sel := doc.Find(fmt.Sprintf(`meta[property=%q], meta[name=%q]`, key, key)).First()
	content, _ := sel.Attr("content")
	return strings.TrimSpace(content)
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
