package store

import (
	"slices"
	"sort"
	"strings"

	"cmdref/model"

	"github.com/sahilm/fuzzy"
)

// SearchText is the string a listing is fuzzy-matched against.
func SearchText(l *model.Listing) string {
	return l.Command() + " " + l.Description() + " " + strings.Join(l.Tags(), " ")
}

// Search fuzzy-matches query against every listing, best match first.
// An empty query returns everything in stored order.
func (s *Store) Search(query string) []*model.Listing {
	all := s.List()
	if strings.TrimSpace(query) == "" {
		return all
	}
	return Filter(all, query)
}

// Filter fuzzy-matches query against listings, best match first.
func Filter(listings []*model.Listing, query string) []*model.Listing {
	targets := make([]string, len(listings))
	for i, l := range listings {
		targets[i] = SearchText(l)
	}

	matches := fuzzy.Find(query, targets)
	out := make([]*model.Listing, len(matches))
	for i, m := range matches {
		out[i] = listings[m.Index]
	}
	return out
}

// WithTag returns the listings carrying tag, in stored order.
func (s *Store) WithTag(tag string) []*model.Listing {
	var out []*model.Listing
	for _, key := range s.order {
		l := s.listings[key]
		if slices.Contains(l.Tags(), tag) {
			out = append(out, l.Clone())
		}
	}
	return out
}

type TagCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Tags counts the listings carrying each tag. A tag repeated on one listing
// counts once.
func (s *Store) Tags() []TagCount {
	counts := make(map[string]int)
	for _, l := range s.listings {
		seen := make(map[string]bool)
		for _, tag := range l.Tags() {
			if !seen[tag] {
				seen[tag] = true
				counts[tag]++
			}
		}
	}

	out := make([]TagCount, 0, len(counts))
	for name, n := range counts {
		out = append(out, TagCount{Name: name, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
