// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

var tagFolder = cases.Fold()

// NormalizeTag returns the canonical form of a topic tag: NFKC-normalized,
// case-folded, with runs of whitespace and underscores collapsed to a
// single hyphen. Characters other than letters, digits, hyphens, dots,
// and plus signs are dropped.
func NormalizeTag(tag string) string {
	tag = norm.NFKC.String(strings.TrimSpace(tag))
	tag = tagFolder.String(tag)

	var b strings.Builder
	pendingHyphen := false
	for _, r := range tag {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '.' || r == '+':
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
		case unicode.IsSpace(r) || r == '_' || r == '-':
			pendingHyphen = true
		}
	}
	return b.String()
}

// NormalizeTags normalizes, de-duplicates, and sorts tags. Tags that
// normalize to the empty string are dropped.
func NormalizeTags(tags []string) []string {
	seen := make(map[string]bool, len(tags))
	var out []string
	for _, t := range tags {
		n := NormalizeTag(t)
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// displayTitle title-cases a normalized tag for table headers.
func displayTitle(tag string) string {
	return cases.Title(language.Und).String(strings.ReplaceAll(tag, "-", " "))
}
