package utils

import "strings"

// SanitizeUTF8 strips invalid byte sequences so raw LLM output can be stored
// in postgres text columns without encoding errors.
func SanitizeUTF8(s string) string {
	return strings.ToValidUTF8(s, "")
}

// UniqueStrings deduplicates while preserving first-seen order.
func UniqueStrings(items []string) []string {
	seen := make(map[string]struct{}, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		if _, ok := seen[item]; ok {
			continue
		}
		seen[item] = struct{}{}
		out = append(out, item)
	}
	return out
}
