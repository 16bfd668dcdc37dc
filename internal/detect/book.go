// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package detect

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/pdiddy/study-shelf/pkg/types"
)

const (
	bookPluginID    = "book"
	bookDisplayName = "Book"
)

// Book heuristic tuning. Titles from free text are never definite, so the
// score is capped at bookMaxScore.
const (
	bookMinLength       = 3
	bookBaseScore       = 20
	bookWordBonus       = 15 // 2–7 words
	bookFocusWordBonus  = 10 // 3–5 words, stacks with bookWordBonus
	bookTitleCaseBonus  = 10
	bookKeywordBonus    = 15
	bookQuotedBonus     = 20
	bookAuthorshipBonus = 15
	bookMaxScore        = 80
	bookMediumScore     = 60
	bookLowScore        = 35
)

// ISBN formats reported in Metadata["isbnFormat"].
const (
	ISBN13 = "isbn-13"
	ISBN10 = "isbn-10"
)

var (
	isbnPrefix        = regexp.MustCompile(`(?i)^isbn(?:-1[03])?:?\s*`)
	googleBooksURL    = regexp.MustCompile(`(?i)^(?:https?://)?books\.google\.com/books\?(?:\S*&)?id=([A-Za-z0-9_-]+)`)
	quotedTitle       = regexp.MustCompile(`^["“'‘].+["”'’]$`)
	authorshipPattern = regexp.MustCompile(`\b[Bb]y\s+[A-Z][A-Za-z.'-]+`)
)

// bookKeywords are textbook-ish terms; one match earns the bonus.
var bookKeywords = []string{
	"edition",
	"handbook",
	"textbook",
	"manual",
	"guide",
	"principles",
	"introduction",
	"fundamentals",
	"essentials",
	"atlas",
	"companion",
	"anatomy",
	"physiology",
	"pathology",
	"pharmacology",
	"histology",
	"dentistry",
	"endodontics",
	"orthodontics",
	"periodontics",
	"prosthodontics",
	"oral surgery",
}

// BookDetector recognizes books by ISBN, Google Books URL, or a
// title-shaped free-text heuristic.
type BookDetector struct{}

// NewBookDetector returns the book detector.
func NewBookDetector() *BookDetector { return &BookDetector{} }

func (d *BookDetector) ID() string    { return bookPluginID }
func (d *BookDetector) Priority() int { return PriorityBook }

// Detect returns the first match in order: ISBN, Google Books URL,
// heuristic title. An ISBN whose checksum fails is still reported at high
// confidence since it is more likely a typo than a non-match.
func (d *BookDetector) Detect(input string) *types.DetectionResult {
	s := strings.TrimSpace(input)
	if s == "" {
		return nil
	}
	if r := detectISBN(s); r != nil {
		return r
	}
	if m := googleBooksURL.FindStringSubmatch(s); m != nil {
		return newResult(bookPluginID, bookDisplayName, types.ConfidenceDefinite, types.InputURL, m[1], "google-books-url", nil)
	}
	return detectBookTitle(s)
}

func detectISBN(s string) *types.DetectionResult {
	cleaned := CleanISBN(s)

	var format string
	var valid bool
	switch {
	case isbn13Shape.MatchString(cleaned):
		format, valid = ISBN13, ValidISBN13(cleaned)
	case isbn10Shape.MatchString(cleaned):
		format, valid = ISBN10, ValidISBN10(cleaned)
	default:
		return nil
	}

	conf := types.ConfidenceHigh
	if valid {
		conf = types.ConfidenceDefinite
	}
	return newResult(bookPluginID, bookDisplayName, conf, types.InputIdentifier, cleaned, format,
		map[string]any{"isbnValid": valid, "isbnFormat": format})
}

// CleanISBN strips an optional "ISBN" label, dashes, and spaces, and
// upper-cases a trailing X check digit.
func CleanISBN(s string) string {
	s = isbnPrefix.ReplaceAllString(strings.TrimSpace(s), "")
	return strings.ToUpper(isbnSeparators.ReplaceAllString(s, ""))
}

// ValidISBN13 checks the mod-10 checksum of a 13-digit ISBN. Weights
// alternate 1,3 across the first 12 digits.
func ValidISBN13(isbn string) bool {
	if len(isbn) != 13 {
		return false
	}
	sum := 0
	for i := 0; i < 12; i++ {
		d := isbn[i] - '0'
		if d > 9 {
			return false
		}
		w := 1
		if i%2 == 1 {
			w = 3
		}
		sum += int(d) * w
	}
	check := (10 - sum%10) % 10
	return int(isbn[12]-'0') == check
}

// ValidISBN10 checks the mod-11 checksum of a 10-character ISBN, where a
// final X stands for 10.
func ValidISBN10(isbn string) bool {
	if len(isbn) != 10 {
		return false
	}
	sum := 0
	for i := 0; i < 9; i++ {
		d := isbn[i] - '0'
		if d > 9 {
			return false
		}
		sum += int(d) * (10 - i)
	}
	switch last := isbn[9]; {
	case last == 'X' || last == 'x':
		sum += 10
	case last >= '0' && last <= '9':
		sum += int(last - '0')
	default:
		return false
	}
	return sum%11 == 0
}

func detectBookTitle(s string) *types.DetectionResult {
	if strings.Contains(s, "://") || len(s) < bookMinLength {
		return nil
	}
	score := BookTitleScore(s)
	var conf types.Confidence
	switch {
	case score >= bookMediumScore:
		conf = types.ConfidenceMedium
	case score >= bookLowScore:
		conf = types.ConfidenceLow
	default:
		return nil
	}
	return newResult(bookPluginID, bookDisplayName, conf, types.InputTitle, s, "heuristic-title",
		map[string]any{"score": score})
}

// BookTitleScore rates how much s looks like a book title, 0 to 80.
func BookTitleScore(s string) int {
	score := bookBaseScore

	words := strings.Fields(s)
	n := len(words)
	if n >= 2 && n <= 7 {
		score += bookWordBonus
	}
	if n >= 3 && n <= 5 {
		score += bookFocusWordBonus
	}

	capitalized := 0
	for _, w := range words {
		if startsUpper(w) {
			capitalized++
		}
	}
	if n > 0 && capitalized*2 > n {
		score += bookTitleCaseBonus
	}

	if countKeywords(s, bookKeywords) > 0 {
		score += bookKeywordBonus
	}
	if quotedTitle.MatchString(s) {
		score += bookQuotedBonus
	}
	if authorshipPattern.MatchString(s) {
		score += bookAuthorshipBonus
	}
	return min(score, bookMaxScore)
}

// startsUpper reports whether the first letter of w, skipping leading
// quotes and punctuation, is upper case.
func startsUpper(w string) bool {
	for _, r := range w {
		if unicode.IsLetter(r) {
			return unicode.IsUpper(r)
		}
		if unicode.IsDigit(r) {
			return false
		}
	}
	return false
}
