// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package plugin

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/pdiddy/study-shelf/internal/detect"
	"github.com/pdiddy/study-shelf/internal/httputil"
	"github.com/pdiddy/study-shelf/pkg/types"
)

// Base URLs for paper metadata. Declared as vars so tests can substitute
// httptest servers.
var (
	crossrefAPIBase = "https://api.crossref.org/works"
	arxivAPIBase    = "https://export.arxiv.org/api/query"
	pubmedAPIBase   = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils/esummary.fcgi"
)

const (
	doiResolverBase = "https://doi.org/"
	arxivAbsBase    = "https://arxiv.org/abs/"
	pubmedBase      = "https://pubmed.ncbi.nlm.nih.gov/"

	defaultMaxSearchResults = 10
)

// Paper resolves research papers through CrossRef, arXiv, and PubMed.
type Paper struct {
	client     *httputil.Client
	detector   *detect.PaperDetector
	mailto     string
	maxResults int
}

// NewPaper returns the paper plugin.
func NewPaper(client *httputil.Client, cfg types.PluginConfig) *Paper {
	maxResults := cfg.MaxSearchResults
	if maxResults <= 0 {
		maxResults = defaultMaxSearchResults
	}
	return &Paper{
		client:     client,
		detector:   detect.NewPaperDetector(),
		mailto:     cfg.CrossRefMailto,
		maxResults: maxResults,
	}
}

func (p *Paper) ID() string           { return "paper" }
func (p *Paper) Name() string         { return "Research Paper" }
func (p *Paper) InputKind() InputKind { return KindSearch }

// Validate accepts identifiers, academic links, and free-text queries of
// at least three characters.
func (p *Paper) Validate(input string) bool {
	return p.detector.Detect(input) != nil || len(strings.TrimSpace(input)) >= 3
}

// Search returns the matching work for a DOI, arXiv id, or PMID, and a
// CrossRef bibliographic search for anything else.
func (p *Paper) Search(ctx context.Context, query string) ([]types.SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("empty query")
	}

	if kind, id := p.classify(query); kind != "" {
		res, err := p.lookup(ctx, kind, id)
		if err != nil {
			return nil, err
		}
		return []types.SearchResult{toSearchResult(res, kind)}, nil
	}

	q := url.Values{}
	q.Set("query.bibliographic", query)
	q.Set("rows", strconv.Itoa(p.maxResults))
	if p.mailto != "" {
		q.Set("mailto", p.mailto)
	}
	var cr crossrefListResponse
	if err := p.client.GetJSON(ctx, crossrefAPIBase+"?"+q.Encode(), &cr); err != nil {
		return nil, fmt.Errorf("CrossRef search: %w", err)
	}

	results := make([]types.SearchResult, 0, len(cr.Message.Items))
	for _, w := range cr.Message.Items {
		res := w.resource()
		results = append(results, toSearchResult(res, "crossref"))
	}
	return results, nil
}

// GetDetails fetches the full record for a search result. Identifiers that
// are not a DOI, arXiv id, or PMID (such as academic URLs) resolve to a
// record holding just the link.
func (p *Paper) GetDetails(ctx context.Context, r types.SearchResult) (*types.Resource, error) {
	kind, id := p.classify(r.Identifier)
	if kind == "" {
		title := r.Title
		if title == "" {
			title = r.Identifier
		}
		return &types.Resource{
			Type:    p.ID(),
			Title:   title,
			Authors: r.Authors,
			URL:     r.Identifier,
			Status:  types.StatusNotStarted,
		}, nil
	}
	return p.lookup(ctx, kind, id)
}

// classify maps an identifier to "doi", "arxiv", or "pubmed" and its
// normalized form. It returns "" for anything else.
func (p *Paper) classify(s string) (string, string) {
	det := p.detector.Detect(s)
	if det == nil {
		return "", ""
	}
	switch det.MatchedPattern() {
	case "doi", "doi-url":
		return "doi", det.ExtractedID()
	case "arxiv", "arxiv-url":
		return "arxiv", det.ExtractedID()
	case "pmid", "pubmed-url":
		return "pubmed", det.ExtractedID()
	default:
		return "", ""
	}
}

func (p *Paper) lookup(ctx context.Context, kind, id string) (*types.Resource, error) {
	switch kind {
	case "doi":
		return p.fetchCrossRef(ctx, id)
	case "arxiv":
		return p.fetchArxiv(ctx, id)
	case "pubmed":
		return p.fetchPubMed(ctx, id)
	default:
		return nil, fmt.Errorf("unsupported identifier kind %q", kind)
	}
}

func toSearchResult(res *types.Resource, source string) types.SearchResult {
	return types.SearchResult{
		Identifier: res.Identifier,
		Title:      res.Title,
		Authors:    res.Authors,
		Published:  res.Published,
		Source:     source,
	}
}

// CrossRef API JSON structures.
type crossrefResponse struct {
	Message crossrefWork `json:"message"`
}

type crossrefListResponse struct {
	Message struct {
		Items []crossrefWork `json:"items"`
	} `json:"message"`
}

type crossrefWork struct {
	DOI            string           `json:"DOI"`
	URL            string           `json:"URL"`
	Title          []string         `json:"title"`
	ContainerTitle []string         `json:"container-title"`
	Publisher      string           `json:"publisher"`
	Abstract       string           `json:"abstract"`
	Author         []crossrefAuthor `json:"author"`
	Issued         crossrefDate     `json:"issued"`
}

type crossrefAuthor struct {
	Given  string `json:"given"`
	Family string `json:"family"`
	Name   string `json:"name"`
}

type crossrefDate struct {
	DateParts [][]int `json:"date-parts"`
}

func (w crossrefWork) resource() *types.Resource {
	res := &types.Resource{
		Type:        "paper",
		Identifier:  w.DOI,
		URL:         w.URL,
		Description: strings.TrimSpace(w.Abstract),
		Publisher:   w.Publisher,
		Status:      types.StatusNotStarted,
	}
	if res.URL == "" && w.DOI != "" {
		res.URL = doiResolverBase + w.DOI
	}
	if len(w.Title) > 0 {
		res.Title = strings.TrimSpace(w.Title[0])
	}
	if len(w.ContainerTitle) > 0 {
		res.Publisher = w.ContainerTitle[0]
	}
	for _, a := range w.Author {
		name := strings.TrimSpace(a.Given + " " + a.Family)
		if name == "" {
			name = a.Name
		}
		if name != "" {
			res.Authors = append(res.Authors, name)
		}
	}
	res.Published = w.Issued.format()
	return res
}

// format renders date-parts as YYYY, YYYY-MM, or YYYY-MM-DD.
func (d crossrefDate) format() string {
	if len(d.DateParts) == 0 || len(d.DateParts[0]) == 0 {
		return ""
	}
	parts := d.DateParts[0]
	switch len(parts) {
	case 1:
		return fmt.Sprintf("%04d", parts[0])
	case 2:
		return fmt.Sprintf("%04d-%02d", parts[0], parts[1])
	default:
		return fmt.Sprintf("%04d-%02d-%02d", parts[0], parts[1], parts[2])
	}
}

// fetchCrossRef retrieves work metadata for a DOI.
func (p *Paper) fetchCrossRef(ctx context.Context, doi string) (*types.Resource, error) {
	apiURL := crossrefAPIBase + "/" + url.PathEscape(doi)
	if p.mailto != "" {
		apiURL += "?mailto=" + url.QueryEscape(p.mailto)
	}
	var cr crossrefResponse
	if err := p.client.GetJSON(ctx, apiURL, &cr); err != nil {
		return nil, fmt.Errorf("CrossRef lookup: %w", err)
	}
	res := cr.Message.resource()
	if res.Identifier == "" {
		res.Identifier = doi
	}
	return res, nil
}

// arXiv Atom feed XML structures.
type arxivFeed struct {
	Entries []arxivEntry `xml:"entry"`
}

type arxivEntry struct {
	Title     string        `xml:"title"`
	Summary   string        `xml:"summary"`
	Published string        `xml:"published"`
	Authors   []arxivAuthor `xml:"author"`
}

type arxivAuthor struct {
	Name string `xml:"name"`
}

// fetchArxiv retrieves preprint metadata from the arXiv API.
func (p *Paper) fetchArxiv(ctx context.Context, id string) (*types.Resource, error) {
	body, err := p.client.Get(ctx, arxivAPIBase+"?id_list="+url.QueryEscape(id), "application/atom+xml")
	if err != nil {
		return nil, fmt.Errorf("arXiv lookup: %w", err)
	}
	var feed arxivFeed
	if err := xml.Unmarshal(body, &feed); err != nil {
		return nil, fmt.Errorf("parsing arXiv response: %w", err)
	}
	if len(feed.Entries) == 0 {
		return nil, fmt.Errorf("%w for arXiv ID %s", ErrNoResults, id)
	}

	entry := feed.Entries[0]
	res := &types.Resource{
		Type:        "paper",
		Identifier:  id,
		URL:         arxivAbsBase + id,
		Title:       strings.Join(strings.Fields(entry.Title), " "),
		Description: strings.TrimSpace(entry.Summary),
		Publisher:   "arXiv",
		Status:      types.StatusNotStarted,
	}
	for _, a := range entry.Authors {
		res.Authors = append(res.Authors, strings.TrimSpace(a.Name))
	}
	if len(entry.Published) >= 10 {
		res.Published = entry.Published[:10]
	}
	return res, nil
}

type pubmedSummary struct {
	Title           string `json:"title"`
	FullJournalName string `json:"fulljournalname"`
	PubDate         string `json:"pubdate"`
	Authors         []struct {
		Name string `json:"name"`
	} `json:"authors"`
}

// fetchPubMed retrieves article metadata from the NCBI esummary endpoint.
func (p *Paper) fetchPubMed(ctx context.Context, pmid string) (*types.Resource, error) {
	q := url.Values{}
	q.Set("db", "pubmed")
	q.Set("id", pmid)
	q.Set("retmode", "json")

	var resp struct {
		Result map[string]json.RawMessage `json:"result"`
	}
	if err := p.client.GetJSON(ctx, pubmedAPIBase+"?"+q.Encode(), &resp); err != nil {
		return nil, fmt.Errorf("PubMed lookup: %w", err)
	}
	raw, ok := resp.Result[pmid]
	if !ok {
		return nil, fmt.Errorf("%w for PMID %s", ErrNoResults, pmid)
	}
	var s pubmedSummary
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("parsing PubMed summary: %w", err)
	}

	res := &types.Resource{
		Type:       "paper",
		Identifier: pmid,
		URL:        pubmedBase + pmid + "/",
		Title:      strings.TrimSpace(s.Title),
		Publisher:  s.FullJournalName,
		Published:  s.PubDate,
		Status:     types.StatusNotStarted,
	}
	for _, a := range s.Authors {
		res.Authors = append(res.Authors, a.Name)
	}
	return res, nil
}
