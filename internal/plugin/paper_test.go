// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package plugin

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/study-shelf/pkg/types"
)

const sampleCrossRefWork = `{
  "status": "ok",
  "message": {
    "DOI": "10.1038/nature12373",
    "URL": "http://dx.doi.org/10.1038/nature12373",
    "title": ["Nanometre-scale thermometry in a living cell"],
    "container-title": ["Nature"],
    "publisher": "Springer Science and Business Media LLC",
    "author": [
      {"given": "G.", "family": "Kucsko"},
      {"name": "Quantum Sensing Group"}
    ],
    "issued": {"date-parts": [[2013, 7, 31]]}
  }
}`

const sampleCrossRefList = `{
  "status": "ok",
  "message": {
    "items": [
      {"DOI": "10.1000/first", "title": ["First Match"], "issued": {"date-parts": [[2020]]}},
      {"DOI": "10.1000/second", "title": ["Second Match"], "issued": {"date-parts": [[2019, 3]]}}
    ]
  }
}`

const sampleArxivFeed = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <entry>
    <title>Attention Is All
      You Need</title>
    <summary>  The dominant sequence transduction models...  </summary>
    <published>2017-06-12T17:57:34Z</published>
    <author><name>Ashish Vaswani</name></author>
    <author><name>Noam Shazeer</name></author>
  </entry>
</feed>`

const samplePubMed = `{
  "result": {
    "uids": ["12345678"],
    "12345678": {
      "title": "Pulpotomy outcomes in primary molars.",
      "fulljournalname": "Journal of Dentistry",
      "pubdate": "2019 Mar",
      "authors": [{"name": "Smith J"}, {"name": "Doe A"}]
    }
  }
}`

func TestPaperSearch_DOI(t *testing.T) {
	var gotPath, gotMailto string
	ts := serve(t, &crossrefAPIBase, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotMailto = r.URL.Query().Get("mailto")
		w.Write([]byte(sampleCrossRefWork))
	})
	p := NewPaper(testClient(ts), types.PluginConfig{CrossRefMailto: "me@example.com"})

	results, err := p.Search(context.Background(), "doi:10.1038/nature12373")
	require.NoError(t, err)
	require.Len(t, results, 1)

	assert.Equal(t, "/10.1038/nature12373", gotPath)
	assert.Equal(t, "me@example.com", gotMailto)
	assert.Equal(t, "10.1038/nature12373", results[0].Identifier)
	assert.Equal(t, "doi", results[0].Source)
	assert.Equal(t, "2013-07-31", results[0].Published)
}

func TestPaperGetDetails_DOI(t *testing.T) {
	ts := serve(t, &crossrefAPIBase, func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(sampleCrossRefWork))
	})

	res, err := NewPaper(testClient(ts), types.PluginConfig{}).GetDetails(context.Background(), types.SearchResult{Identifier: "10.1038/nature12373"})
	require.NoError(t, err)

	assert.Equal(t, "paper", res.Type)
	assert.Equal(t, "Nanometre-scale thermometry in a living cell", res.Title)
	assert.Equal(t, []string{"G. Kucsko", "Quantum Sensing Group"}, res.Authors)
	assert.Equal(t, "Nature", res.Publisher)
	assert.Equal(t, "http://dx.doi.org/10.1038/nature12373", res.URL)
	assert.Equal(t, types.StatusNotStarted, res.Status)
}

func TestPaperSearch_Bibliographic(t *testing.T) {
	var gotQuery, gotRows string
	ts := serve(t, &crossrefAPIBase, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("query.bibliographic")
		gotRows = r.URL.Query().Get("rows")
		w.Write([]byte(sampleCrossRefList))
	})
	p := NewPaper(testClient(ts), types.PluginConfig{MaxSearchResults: 3})

	results, err := p.Search(context.Background(), "thermometry in living cells")
	require.NoError(t, err)

	assert.Equal(t, "thermometry in living cells", gotQuery)
	assert.Equal(t, "3", gotRows)
	require.Len(t, results, 2)
	assert.Equal(t, "10.1000/first", results[0].Identifier)
	assert.Equal(t, "2020", results[0].Published)
	assert.Equal(t, "2019-03", results[1].Published)
	assert.Equal(t, "crossref", results[1].Source)
}

func TestPaperGetDetails_Arxiv(t *testing.T) {
	var gotID string
	ts := serve(t, &arxivAPIBase, func(w http.ResponseWriter, r *http.Request) {
		gotID = r.URL.Query().Get("id_list")
		w.Write([]byte(sampleArxivFeed))
	})

	res, err := NewPaper(testClient(ts), types.PluginConfig{}).GetDetails(context.Background(), types.SearchResult{Identifier: "arXiv:1706.03762"})
	require.NoError(t, err)

	assert.Equal(t, "1706.03762", gotID)
	assert.Equal(t, "Attention Is All You Need", res.Title)
	assert.Equal(t, []string{"Ashish Vaswani", "Noam Shazeer"}, res.Authors)
	assert.Equal(t, "2017-06-12", res.Published)
	assert.Equal(t, "https://arxiv.org/abs/1706.03762", res.URL)
	assert.Equal(t, "The dominant sequence transduction models...", res.Description)
}

func TestPaperGetDetails_ArxivEmptyFeed(t *testing.T) {
	ts := serve(t, &arxivAPIBase, func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`<feed xmlns="http://www.w3.org/2005/Atom"></feed>`))
	})

	_, err := NewPaper(testClient(ts), types.PluginConfig{}).GetDetails(context.Background(), types.SearchResult{Identifier: "1706.03762"})
	assert.ErrorIs(t, err, ErrNoResults)
}

func TestPaperGetDetails_PubMed(t *testing.T) {
	ts := serve(t, &pubmedAPIBase, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "pubmed", r.URL.Query().Get("db"))
		assert.Equal(t, "12345678", r.URL.Query().Get("id"))
		w.Write([]byte(samplePubMed))
	})

	res, err := NewPaper(testClient(ts), types.PluginConfig{}).GetDetails(context.Background(), types.SearchResult{Identifier: "PMID: 12345678"})
	require.NoError(t, err)

	assert.Equal(t, "Pulpotomy outcomes in primary molars.", res.Title)
	assert.Equal(t, "Journal of Dentistry", res.Publisher)
	assert.Equal(t, "2019 Mar", res.Published)
	assert.Equal(t, []string{"Smith J", "Doe A"}, res.Authors)
	assert.Equal(t, "https://pubmed.ncbi.nlm.nih.gov/12345678/", res.URL)
}

func TestPaperGetDetails_AcademicLinkOnly(t *testing.T) {
	p := NewPaper(nil, types.PluginConfig{})
	res, err := p.GetDetails(context.Background(), types.SearchResult{Identifier: "https://www.researchgate.net/publication/123"})
	require.NoError(t, err)
	assert.Equal(t, "https://www.researchgate.net/publication/123", res.URL)
	assert.Equal(t, "https://www.researchgate.net/publication/123", res.Title)
}

func TestPaperSearch_HTTPError(t *testing.T) {
	ts := serve(t, &crossrefAPIBase, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := NewPaper(testClient(ts), types.PluginConfig{}).Search(context.Background(), "10.1000/missing")
	assert.Error(t, err)
}
