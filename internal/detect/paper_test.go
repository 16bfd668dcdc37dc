// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package detect

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/study-shelf/pkg/types"
)

func TestPaperDetectStructured(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		wantConf    types.Confidence
		wantID      string
		wantPattern string
		wantType    types.InputType
	}{
		{"doi", "10.1038/s41586-020-2649-2", types.ConfidenceDefinite, "10.1038/s41586-020-2649-2", "doi", types.InputIdentifier},
		{"doi prefixed", "doi: 10.1000/xyz123", types.ConfidenceDefinite, "10.1000/xyz123", "doi", types.InputIdentifier},
		{"doi url", "https://doi.org/10.1038/s41586-020-2649-2", types.ConfidenceDefinite, "10.1038/s41586-020-2649-2", "doi-url", types.InputURL},
		{"dx doi url", "http://dx.doi.org/10.1016/j.joen.2020.01.001", types.ConfidenceDefinite, "10.1016/j.joen.2020.01.001", "doi-url", types.InputURL},
		{"pmid bare", "12345678", types.ConfidenceDefinite, "12345678", "pmid", types.InputIdentifier},
		{"pmid prefixed", "PMID: 1234567", types.ConfidenceDefinite, "1234567", "pmid", types.InputIdentifier},
		{"pubmed url", "https://pubmed.ncbi.nlm.nih.gov/31234567/", types.ConfidenceDefinite, "31234567", "pubmed-url", types.InputURL},
		{"arxiv", "2301.07041", types.ConfidenceDefinite, "2301.07041", "arxiv", types.InputIdentifier},
		{"arxiv prefixed versioned", "arXiv:2301.07041v2", types.ConfidenceDefinite, "2301.07041v2", "arxiv", types.InputIdentifier},
		{"arxiv url", "https://arxiv.org/abs/2301.07041", types.ConfidenceDefinite, "2301.07041", "arxiv-url", types.InputURL},
		{"arxiv pdf url", "https://arxiv.org/pdf/2301.12345v1", types.ConfidenceDefinite, "2301.12345v1", "arxiv-url", types.InputURL},
		{"academic domain", "https://www.nature.com/articles/s41586-020-2649-2", types.ConfidenceHigh, "https://www.nature.com/articles/s41586-020-2649-2", "academic-url", types.InputURL},
		{"academic subdomain", "https://onlinelibrary.wiley.com/toc/13652591/current", types.ConfidenceHigh, "https://onlinelibrary.wiley.com/toc/13652591/current", "academic-url", types.InputURL},
	}
	d := NewPaperDetector()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := d.Detect(tt.input)
			require.NotNil(t, got)
			assert.Equal(t, "paper", got.PluginID)
			assert.Equal(t, tt.wantConf, got.Confidence)
			assert.Equal(t, tt.wantID, got.ExtractedID())
			assert.Equal(t, tt.wantPattern, got.MatchedPattern())
			assert.Equal(t, tt.wantType, got.InputType)
		})
	}
}

func TestPaperTitleScore(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  int
	}{
		// 13 words (+15 +10), 7 keywords capped at 30, colon, capped at 75.
		{"systematic review title", "Randomized controlled trial of pulp capping materials in primary molars: a systematic review", 75},
		// 7 words (+15), "study" (+10).
		{"short study title", "A study of fluoride varnish in children", 40},
		// 5 words (+15), "caries" (+10), et al (+20).
		{"et al citation", "Smith et al. 2019 caries", 60},
		{"two words", "hello world", 15},
		// 7 words (+15), "comparison" "effect" "endodontic" inside longer words (+30), colon (+10).
		{"keyword inflections", "A comparison of effects: studies in endodontics", 70},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PaperTitleScore(tt.input))
		})
	}
}

func TestPaperDetectHeuristic(t *testing.T) {
	d := NewPaperDetector()

	got := d.Detect("Randomized controlled trial of pulp capping materials in primary molars: a systematic review")
	require.NotNil(t, got)
	assert.Equal(t, types.ConfidenceMedium, got.Confidence)
	assert.Equal(t, types.InputSearchQuery, got.InputType)
	assert.Equal(t, "heuristic-title", got.MatchedPattern())
	assert.Equal(t, 75, got.Meta("score"))

	low := d.Detect("A study of fluoride varnish in children")
	require.NotNil(t, low)
	assert.Equal(t, types.ConfidenceLow, low.Confidence)

	assert.Nil(t, d.Detect("hello world"), "below threshold")
	assert.Nil(t, d.Detect("pulp"), "too short")
	assert.Nil(t, d.Detect("https://example.com/a study of clinical trial outcomes"), "contains a scheme")
}

func TestPaperDetectAll(t *testing.T) {
	d := NewPaperDetector()

	t.Run("structured suppresses heuristic", func(t *testing.T) {
		got := d.DetectAll("https://doi.org/10.1038/s41586-020-2649-2")
		require.Len(t, got, 1)
		assert.Equal(t, "doi-url", got[0].MatchedPattern())
	})

	t.Run("academic url when no identifier", func(t *testing.T) {
		got := d.DetectAll("https://www.researchgate.net/publication/some-title")
		require.Len(t, got, 1)
		assert.Equal(t, "academic-url", got[0].MatchedPattern())
		assert.Equal(t, types.ConfidenceHigh, got[0].Confidence)
	})

	t.Run("heuristic only", func(t *testing.T) {
		got := d.DetectAll("Smith et al. 2019 caries")
		require.Len(t, got, 1)
		assert.Equal(t, "heuristic-title", got[0].MatchedPattern())
		assert.Equal(t, types.ConfidenceMedium, got[0].Confidence)
	})

	t.Run("nothing", func(t *testing.T) {
		assert.Empty(t, d.DetectAll("  "))
		assert.Empty(t, d.DetectAll("ok"))
	})
}
