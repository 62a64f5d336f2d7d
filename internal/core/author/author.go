// Package author holds the author reference data attached to book images.
package author

import (
	"sort"
	"strings"
)

// Author represents the person credited for a book's images.
type Author struct {
	ID        int64    `json:"id"`
	Name      string   `json:"name"`
	Link      string   `json:"link"`
	Countries []string `json:"countries"`
	Age       *int16   `json:"age"`
}

// Global field names for validation
const (
	FieldName      = "name"
	FieldLink      = "link"
	FieldCountries = "countries"
)

// ParseCountryList splits the stored CSV country column into uppercase
// ISO-3166-1 alpha-2 codes. Blank entries are dropped; an empty column
// yields an empty (non-nil) slice.
func ParseCountryList(csv string) []string {
	parts := strings.Split(csv, ",")
	codes := make([]string, 0, len(parts))
	for _, part := range parts {
		code := strings.ToUpper(strings.TrimSpace(part))
		if code != "" {
			codes = append(codes, code)
		}
	}
	return codes
}

// JoinCountryList normalizes a country set back into its stored CSV form:
// uppercased, deduplicated, sorted.
func JoinCountryList(codes []string) string {
	seen := make(map[string]struct{}, len(codes))
	normalized := make([]string, 0, len(codes))
	for _, code := range codes {
		c := strings.ToUpper(strings.TrimSpace(code))
		if c == "" {
			continue
		}
		if _, found := seen[c]; found {
			continue
		}
		seen[c] = struct{}{}
		normalized = append(normalized, c)
	}
	sort.Strings(normalized)
	return strings.Join(normalized, ",")
}
