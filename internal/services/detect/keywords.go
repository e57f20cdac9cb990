package detect

import (
	"sort"
	"strings"
)

// stopWords are filler terms excluded from metric-label keywords.
var stopWords = map[string]struct{}{
	"the": {}, "and": {}, "for": {}, "with": {}, "from": {}, "that": {},
	"this": {}, "have": {}, "been": {}, "were": {}, "will": {}, "your": {},
	"about": {}, "into": {}, "over": {}, "more": {}, "than": {}, "their": {},
	"total": {}, "count": {}, "daily": {},
}

const maxKeywords = 10

// ExtractKeywords pulls ranked keywords out of a metric label: lower-cased
// words longer than 3 characters, minus stop words, ordered by frequency
// (ties broken alphabetically for determinism), top 10.
func ExtractKeywords(label string) []string {
	words := strings.FieldsFunc(strings.ToLower(label), func(r rune) bool {
		return !('a' <= r && r <= 'z') && !('0' <= r && r <= '9')
	})

	freq := make(map[string]int)
	for _, w := range words {
		if len(w) <= 3 {
			continue
		}
		if _, skip := stopWords[w]; skip {
			continue
		}
		freq[w]++
	}
	if len(freq) == 0 {
		return nil
	}

	out := make([]string, 0, len(freq))
	for w := range freq {
		out = append(out, w)
	}
	sort.Slice(out, func(i, j int) bool {
		if freq[out[i]] != freq[out[j]] {
			return freq[out[i]] > freq[out[j]]
		}
		return out[i] < out[j]
	})
	if len(out) > maxKeywords {
		out = out[:maxKeywords]
	}
	return out
}
