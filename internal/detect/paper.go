// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package detect

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/pdiddy/study-shelf/pkg/types"
)

const (
	paperPluginID    = "paper"
	paperDisplayName = "Research Paper"
)

// Paper heuristic tuning. Scores are capped at paperMaxScore so a title
// guess never looks as strong as a structured identifier.
const (
	paperMinLength      = 10
	paperBaseScore      = 15
	paperWordBonus      = 15 // 5–20 words
	paperFocusWordBonus = 10 // 8–15 words, stacks with paperWordBonus
	paperKeywordPoints  = 10
	paperKeywordCap     = 30
	paperColonBonus     = 10
	paperEtAlBonus      = 20
	paperMaxScore       = 75
	paperMediumScore    = 55
	paperLowScore       = 35
)

var (
	// doiPattern matches bare DOIs: "10.1145/1234567.1234568".
	doiPattern       = regexp.MustCompile(`^10\.\d{4,9}/\S+$`)
	doiPrefixPattern = regexp.MustCompile(`(?i)^doi:\s*(10\.\d{4,9}/\S+)$`)
	doiURLPattern    = regexp.MustCompile(`(?i)^(?:https?://)?(?:dx\.)?doi\.org/(10\.\d{4,9}/\S+)$`)

	pmidPattern      = regexp.MustCompile(`(?i)^(?:PMID:?\s*)?(\d{7,8})$`)
	pubmedURLPattern = regexp.MustCompile(`(?i)^(?:https?://)?(?:www\.)?(?:pubmed\.ncbi\.nlm\.nih\.gov/|ncbi\.nlm\.nih\.gov/pubmed/)(\d{1,9})`)

	// arxivPattern matches "2301.07041", "arXiv:2301.07041", "2301.07041v2".
	arxivPattern    = regexp.MustCompile(`(?i)^(?:arXiv:)?(\d{4}\.\d{4,5}(?:v\d+)?)$`)
	arxivURLPattern = regexp.MustCompile(`(?i)^(?:https?://)?(?:www\.|export\.)?arxiv\.org/(?:abs|pdf)/(\d{4}\.\d{4,5}(?:v\d+)?)`)

	etAlPattern = regexp.MustCompile(`(?i)\bet\s+al\b`)
)

// academicDomains are hosts whose URLs are papers even without a
// recognizable identifier. Subdomains match too.
var academicDomains = []string{
	"doi.org",
	"pubmed.ncbi.nlm.nih.gov",
	"ncbi.nlm.nih.gov",
	"arxiv.org",
	"researchgate.net",
	"academia.edu",
	"scholar.google.com",
	"semanticscholar.org",
	"biorxiv.org",
	"medrxiv.org",
	"sciencedirect.com",
	"springer.com",
	"nature.com",
	"wiley.com",
	"tandfonline.com",
	"sagepub.com",
	"jamanetwork.com",
	"thelancet.com",
	"nejm.org",
	"bmj.com",
	"plos.org",
	"frontiersin.org",
	"mdpi.com",
	"ieee.org",
	"acm.org",
	"jstor.org",
	"cell.com",
	"oup.com",
	"cambridge.org",
	"quintpub.com",
}

// paperKeywords are clinical and academic terms that suggest a paper title.
var paperKeywords = []string{
	"study",
	"trial",
	"randomized",
	"randomised",
	"controlled",
	"systematic review",
	"meta-analysis",
	"clinical",
	"cohort",
	"case report",
	"patients",
	"outcomes",
	"efficacy",
	"evaluation",
	"comparison",
	"comparative",
	"in vitro",
	"in vivo",
	"retrospective",
	"prospective",
	"assessment",
	"effect",
	"analysis",
	"dental",
	"endodontic",
	"periodontal",
	"orthodontic",
	"caries",
	"pulp",
	"primary",
	"permanent",
	"molars",
}

// PaperDetector recognizes research papers by DOI, PubMed id, arXiv id,
// academic domain, or a title-shaped free-text heuristic.
type PaperDetector struct{}

// NewPaperDetector returns the research paper detector.
func NewPaperDetector() *PaperDetector { return &PaperDetector{} }

func (d *PaperDetector) ID() string    { return paperPluginID }
func (d *PaperDetector) Priority() int { return PriorityPaper }

// Detect returns the first match in order: DOI, PubMed, arXiv, academic
// URL, heuristic title.
func (d *PaperDetector) Detect(input string) *types.DetectionResult {
	s := strings.TrimSpace(input)
	if s == "" {
		return nil
	}
	if r := detectDOI(s); r != nil {
		return r
	}
	if r := detectPubMed(s); r != nil {
		return r
	}
	if r := detectArxiv(s); r != nil {
		return r
	}
	if r := detectAcademicURL(s); r != nil {
		return r
	}
	return detectPaperTitle(s)
}

// DetectAll returns every structured match that fires. The heuristic
// title suggestion is included only when no structured match fired.
func (d *PaperDetector) DetectAll(input string) []types.DetectionResult {
	s := strings.TrimSpace(input)
	if s == "" {
		return nil
	}

	var out []types.DetectionResult
	for _, fn := range []func(string) *types.DetectionResult{detectDOI, detectPubMed, detectArxiv} {
		if r := fn(s); r != nil {
			out = append(out, *r)
		}
	}
	if len(out) == 0 {
		if r := detectAcademicURL(s); r != nil {
			out = append(out, *r)
		}
	}
	if len(out) == 0 {
		if r := detectPaperTitle(s); r != nil {
			out = append(out, *r)
		}
	}
	return out
}

func detectDOI(s string) *types.DetectionResult {
	if doiPattern.MatchString(s) {
		return newResult(paperPluginID, paperDisplayName, types.ConfidenceDefinite, types.InputIdentifier, s, "doi", nil)
	}
	if m := doiPrefixPattern.FindStringSubmatch(s); m != nil {
		return newResult(paperPluginID, paperDisplayName, types.ConfidenceDefinite, types.InputIdentifier, m[1], "doi", nil)
	}
	if m := doiURLPattern.FindStringSubmatch(s); m != nil {
		doi := m[1]
		if unescaped, err := url.PathUnescape(doi); err == nil {
			doi = unescaped
		}
		return newResult(paperPluginID, paperDisplayName, types.ConfidenceDefinite, types.InputURL, doi, "doi-url", nil)
	}
	return nil
}

func detectPubMed(s string) *types.DetectionResult {
	if m := pmidPattern.FindStringSubmatch(s); m != nil {
		return newResult(paperPluginID, paperDisplayName, types.ConfidenceDefinite, types.InputIdentifier, m[1], "pmid", nil)
	}
	if m := pubmedURLPattern.FindStringSubmatch(s); m != nil {
		return newResult(paperPluginID, paperDisplayName, types.ConfidenceDefinite, types.InputURL, m[1], "pubmed-url", nil)
	}
	return nil
}

func detectArxiv(s string) *types.DetectionResult {
	if m := arxivPattern.FindStringSubmatch(s); m != nil {
		return newResult(paperPluginID, paperDisplayName, types.ConfidenceDefinite, types.InputIdentifier, m[1], "arxiv", nil)
	}
	if m := arxivURLPattern.FindStringSubmatch(s); m != nil {
		return newResult(paperPluginID, paperDisplayName, types.ConfidenceDefinite, types.InputURL, m[1], "arxiv-url", nil)
	}
	return nil
}

func detectAcademicURL(s string) *types.DetectionResult {
	host := hostOf(s)
	if host == "" || !hostMatches(host, academicDomains) {
		return nil
	}
	return newResult(paperPluginID, paperDisplayName, types.ConfidenceHigh, types.InputURL, s, "academic-url",
		map[string]any{"hostname": host})
}

func detectPaperTitle(s string) *types.DetectionResult {
	if strings.Contains(s, "://") || len(s) < paperMinLength {
		return nil
	}
	score := PaperTitleScore(s)
	var conf types.Confidence
	switch {
	case score >= paperMediumScore:
		conf = types.ConfidenceMedium
	case score >= paperLowScore:
		conf = types.ConfidenceLow
	default:
		return nil
	}
	return newResult(paperPluginID, paperDisplayName, conf, types.InputSearchQuery, s, "heuristic-title",
		map[string]any{"score": score})
}

// PaperTitleScore rates how much s looks like a paper title, 0 to 75.
func PaperTitleScore(s string) int {
	score := paperBaseScore

	words := len(strings.Fields(s))
	if words >= 5 && words <= 20 {
		score += paperWordBonus
	}
	if words >= 8 && words <= 15 {
		score += paperFocusWordBonus
	}

	lower := strings.ToLower(s)
	score += min(countKeywords(lower, paperKeywords)*paperKeywordPoints, paperKeywordCap)

	if strings.Contains(s, ":") {
		score += paperColonBonus
	}
	if etAlPattern.MatchString(s) {
		score += paperEtAlBonus
	}
	return min(score, paperMaxScore)
}
