// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package detect

import (
	"net/url"
	"strings"
)

// countKeywords returns how many distinct keywords occur in s as
// case-insensitive substrings, so "effects" counts for "effect".
func countKeywords(s string, keywords []string) int {
	lower := strings.ToLower(s)
	n := 0
	for _, k := range keywords {
		if strings.Contains(lower, k) {
			n++
		}
	}
	return n
}

// hostOf returns the lowercased hostname of s, accepting inputs with or
// without a scheme. It returns "" when s does not parse as a URL with a host.
func hostOf(s string) string {
	if strings.ContainsAny(s, " \t\n") {
		return ""
	}
	raw := s
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Hostname())
}

// hostMatches reports whether host equals one of domains or is a subdomain of one.
func hostMatches(host string, domains []string) bool {
	for _, d := range domains {
		if host == d || strings.HasSuffix(host, "."+d) {
			return true
		}
	}
	return false
}
