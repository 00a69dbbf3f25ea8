package summarizer

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"gamerec/internal/domain"
)

// FrequencySummarizer describes a catalog by its most frequent genres and developers.
type FrequencySummarizer struct {
	genreSplitter *regexp.Regexp
}

// NewFrequencySummarizer creates a frequency-based catalog summarizer.
func NewFrequencySummarizer() *FrequencySummarizer {
	return &FrequencySummarizer{
		genreSplitter: regexp.MustCompile(`[,;/|]`),
	}
}

// Summarize returns a one-line overview of the catalog.
func (s *FrequencySummarizer) Summarize(items []domain.Item, maxEntries int) (string, error) {
	if maxEntries <= 0 {
		maxEntries = 5
	}
	genres := map[string]int{}
	developers := map[string]int{}
	for _, it := range items {
		seen := map[string]struct{}{}
		for _, g := range s.genreSplitter.Split(it.Genres, -1) {
			g = strings.ToLower(strings.TrimSpace(g))
			if g == "" {
				continue
			}
			// a genre repeated within one item counts once
			if _, ok := seen[g]; ok {
				continue
			}
			seen[g] = struct{}{}
			genres[g]++
		}
		if d := strings.TrimSpace(it.Developer); d != "" {
			developers[strings.ToLower(d)]++
		}
	}

	out := fmt.Sprintf("%d games", len(items))
	if len(items) == 1 {
		out = "1 game"
	}
	if top := topEntries(genres, maxEntries); top != "" {
		out += " · top genres: " + top
	}
	if top := topEntries(developers, maxEntries); top != "" {
		out += " · top developers: " + top
	}
	return out, nil
}

func topEntries(freq map[string]int, limit int) string {
	type pair struct {
		key   string
		count int
	}
	pairs := make([]pair, 0, len(freq))
	for k, v := range freq {
		pairs = append(pairs, pair{k, v})
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].count != pairs[j].count {
			return pairs[i].count > pairs[j].count
		}
		return pairs[i].key < pairs[j].key
	})
	if limit > len(pairs) {
		limit = len(pairs)
	}
	parts := make([]string, 0, limit)
	for _, p := range pairs[:limit] {
		parts = append(parts, fmt.Sprintf("%s (%d)", p.key, p.count))
	}
	return strings.Join(parts, ", ")
}
