// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package detect

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/pdiddy/study-shelf/pkg/types"
)

const (
	articlePluginID    = "article"
	articleDisplayName = "Article"
)

// knownPlatforms are publishing hosts that lift an article URL to high.
var knownPlatforms = []string{
	"medium.com",
	"dev.to",
	"substack.com",
	"wikipedia.org",
}

// platformHostParts lift any hostname containing them.
var platformHostParts = []string{"blog.", "news.", "docs."}

// bareDomain matches "example.com/path" with no protocol.
var bareDomain = regexp.MustCompile(`^(?:www\.)?[A-Za-z0-9](?:[A-Za-z0-9-]*[A-Za-z0-9])?(?:\.[A-Za-z0-9](?:[A-Za-z0-9-]*[A-Za-z0-9])?)*\.[A-Za-z]{2,}(?:[/?#]\S*)?$`)

// ArticleDetector is the catch-all for URLs no more specific detector
// claims. It has the lowest priority.
type ArticleDetector struct{}

// NewArticleDetector returns the article detector.
func NewArticleDetector() *ArticleDetector { return &ArticleDetector{} }

func (d *ArticleDetector) ID() string    { return articlePluginID }
func (d *ArticleDetector) Priority() int { return PriorityArticle }

// Detect reports medium for any valid http(s) URL, high on a known
// publishing platform, and medium with needsProtocol for a bare domain.
func (d *ArticleDetector) Detect(input string) *types.DetectionResult {
	s := strings.TrimSpace(input)
	if s == "" {
		return nil
	}

	if httpPrefix.MatchString(s) {
		u, err := url.Parse(s)
		if err != nil || u.Host == "" {
			return nil
		}
		host := strings.ToLower(u.Hostname())
		meta := map[string]any{"hostname": host}
		if isKnownPlatform(host) {
			return newResult(articlePluginID, articleDisplayName, types.ConfidenceHigh, types.InputURL, s, "known-platform", meta)
		}
		return newResult(articlePluginID, articleDisplayName, types.ConfidenceMedium, types.InputURL, s, "url", meta)
	}

	if bareDomain.MatchString(s) {
		return newResult(articlePluginID, articleDisplayName, types.ConfidenceMedium, types.InputURL, s, "bare-domain",
			map[string]any{"needsProtocol": true, "hostname": hostOf(s)})
	}
	return nil
}

func isKnownPlatform(host string) bool {
	if hostMatches(host, knownPlatforms) {
		return true
	}
	for _, part := range platformHostParts {
		if strings.Contains(host, part) {
			return true
		}
	}
	return false
}

// WithProtocol returns the input as a usable URL, prefixing https:// when
// the detection flagged it as a bare domain.
func WithProtocol(input string, r types.DetectionResult) string {
	s := strings.TrimSpace(input)
	if needs, _ := r.Meta("needsProtocol").(bool); needs {
		return "https://" + s
	}
	return s
}
