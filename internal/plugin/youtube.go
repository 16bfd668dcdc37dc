// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package plugin

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/pdiddy/study-shelf/internal/detect"
	"github.com/pdiddy/study-shelf/internal/httputil"
	"github.com/pdiddy/study-shelf/pkg/types"
)

// oembedBase is the YouTube oEmbed endpoint. Declared as a var so tests
// can substitute an httptest server.
var oembedBase = "https://www.youtube.com/oembed"

const youtubeWatchBase = "https://www.youtube.com/watch?v="

// YouTube resolves videos, shorts, and playlists through oEmbed.
type YouTube struct {
	client   *httputil.Client
	detector *detect.YouTubeDetector
}

// NewYouTube returns the YouTube plugin.
func NewYouTube(client *httputil.Client) *YouTube {
	return &YouTube{client: client, detector: detect.NewYouTubeDetector()}
}

func (p *YouTube) ID() string           { return "youtube" }
func (p *YouTube) Name() string         { return "YouTube" }
func (p *YouTube) InputKind() InputKind { return KindURL }

// Validate accepts any input the YouTube detector recognizes.
func (p *YouTube) Validate(input string) bool {
	return p.detector.Detect(input) != nil
}

type oembedResponse struct {
	Title        string `json:"title"`
	AuthorName   string `json:"author_name"`
	AuthorURL    string `json:"author_url"`
	ThumbnailURL string `json:"thumbnail_url"`
	ProviderName string `json:"provider_name"`
}

// FetchFromURL looks up title, channel, and thumbnail for a YouTube link.
// Videos and shorts are normalized to a canonical watch URL and other
// scheme-less links get https:// prepended. Channels have no
// oEmbed representation and resolve to a record holding just the link.
func (p *YouTube) FetchFromURL(ctx context.Context, rawURL string) (*types.Resource, error) {
	det := p.detector.Detect(rawURL)
	if det == nil {
		return nil, fmt.Errorf("not a YouTube link: %q", rawURL)
	}
	id := det.ExtractedID()
	contentType, _ := det.Meta("contentType").(string)
	link := strings.TrimSpace(rawURL)
	switch {
	case contentType == detect.ContentVideo || contentType == detect.ContentShorts || contentType == detect.ContentVideoID:
		link = youtubeWatchBase + id
	case !strings.Contains(link, "://"):
		link = "https://" + link
	}

	res := &types.Resource{
		Type:       p.ID(),
		URL:        link,
		Identifier: id,
		Publisher:  "YouTube",
		Status:     types.StatusNotStarted,
	}
	if contentType == detect.ContentChannel {
		res.Title = id
		return res, nil
	}

	q := url.Values{}
	q.Set("url", link)
	q.Set("format", "json")

	var oe oembedResponse
	if err := p.client.GetJSON(ctx, oembedBase+"?"+q.Encode(), &oe); err != nil {
		return nil, fmt.Errorf("oEmbed lookup: %w", err)
	}
	res.Title = oe.Title
	res.ThumbnailURL = oe.ThumbnailURL
	if oe.AuthorName != "" {
		res.Authors = []string{oe.AuthorName}
	}
	return res, nil
}
