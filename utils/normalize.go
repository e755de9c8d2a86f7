package utils

import (
	"regexp"
	"strings"
)

var nameStripRe = regexp.MustCompile(`[^a-z0-9 ]+`)

// NormalizeName lowercases a food name and strips everything outside
// [a-z0-9 ]. Idempotent: normalizing an already-normalized name is a no-op.
func NormalizeName(s string) string {
	return nameStripRe.ReplaceAllString(strings.ToLower(s), "")
}

// NormalizeQuery is the looser normalization used for external-lookup cache
// keys: lowercase and trim only, so the query sent upstream keeps its
// punctuation.
func NormalizeQuery(s string) string {
	return strings.TrimSpace(strings.ToLower(s))
}
