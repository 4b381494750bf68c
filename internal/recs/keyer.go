package recs

import (
	"sort"
	"strings"
	"time"
	"unicode"
)

// CachePrefix scopes every recommendation cache line in the shared store.
const CachePrefix = "CITYSENSE_EVENTS_CACHE_"

// MakeKey derives the cache key for one (city, interest-set, day) scope.
// Key identity is independent of interest selection order and of city casing
// or whitespace, and rotates at local midnight.
func MakeKey(city string, interests []string, now time.Time) string {
	normalized := make([]string, 0, len(interests))
	for _, interest := range interests {
		normalized = append(normalized, strings.ToLower(strings.TrimSpace(interest)))
	}
	sort.Strings(normalized)

	day := now.Format("2006-01-02")
	return CachePrefix + day + "_" + stripWhitespace(strings.ToLower(city)) + "_" + strings.Join(normalized, ",")
}

func stripWhitespace(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}
