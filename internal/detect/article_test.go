// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package detect

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/study-shelf/pkg/types"
)

func TestArticleDetect(t *testing.T) {
	tests := []struct {
		name          string
		input         string
		wantConf      types.Confidence
		wantPattern   string
		needsProtocol bool
	}{
		{"generic url", "https://example.com/post/42", types.ConfidenceMedium, "url", false},
		{"http url", "http://example.org", types.ConfidenceMedium, "url", false},
		{"medium", "https://medium.com/@someone/notes-on-dentin", types.ConfidenceHigh, "known-platform", false},
		{"substack subdomain", "https://writer.substack.com/p/post", types.ConfidenceHigh, "known-platform", false},
		{"wikipedia", "https://en.wikipedia.org/wiki/Dentin", types.ConfidenceHigh, "known-platform", false},
		{"dev.to", "https://dev.to/someone/post", types.ConfidenceHigh, "known-platform", false},
		{"blog host", "https://blog.example.com/entry", types.ConfidenceHigh, "known-platform", false},
		{"docs host", "https://docs.example.com/guide", types.ConfidenceHigh, "known-platform", false},
		{"localhost with port", "http://localhost:8080/notes", types.ConfidenceMedium, "url", false},
		{"single-label host", "https://intranet/wiki/page", types.ConfidenceMedium, "url", false},
		{"bare domain", "example.com/some-article", types.ConfidenceMedium, "bare-domain", true},
		{"bare www", "www.example.co.uk", types.ConfidenceMedium, "bare-domain", true},
	}
	d := NewArticleDetector()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := d.Detect(tt.input)
			require.NotNil(t, got)
			assert.Equal(t, "article", got.PluginID)
			assert.Equal(t, types.InputURL, got.InputType)
			assert.Equal(t, tt.wantConf, got.Confidence)
			assert.Equal(t, tt.wantPattern, got.MatchedPattern())
			if tt.needsProtocol {
				assert.Equal(t, true, got.Meta("needsProtocol"))
			} else {
				assert.Nil(t, got.Meta("needsProtocol"))
			}
		})
	}
}

func TestArticleDetectNoMatch(t *testing.T) {
	d := NewArticleDetector()
	for _, in := range []string{
		"",
		"not a url",
		"http:///no-host",
		"10.1038/s41586-020-2649-2",
		"2301.07041",
		"ftp://example.com/file",
	} {
		assert.Nil(t, d.Detect(in), "input %q", in)
	}
}

func TestWithProtocol(t *testing.T) {
	d := NewArticleDetector()

	bare := d.Detect("example.com/some-article")
	require.NotNil(t, bare)
	assert.Equal(t, "https://example.com/some-article", WithProtocol(" example.com/some-article ", *bare))

	full := d.Detect("https://example.com/a")
	require.NotNil(t, full)
	assert.Equal(t, "https://example.com/a", WithProtocol("https://example.com/a", *full))
}
