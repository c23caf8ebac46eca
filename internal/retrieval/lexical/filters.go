package lexical

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/prodexhq/prodex/internal/domain"
	"github.com/prodexhq/prodex/internal/retrieval/keywords"
)

// Filter is a single rule-based stage of the chain. Apply reports whether the
// query structurally matched the stage; a match short-circuits the chain.
type Filter interface {
	Name() string
	Apply(query string, items []domain.Item) ([]domain.Item, bool)
}

// priceFallbackLimit is the slice of the catalog returned when a price
// pattern matched but filtered everything out. Degradation, not an error.
const priceFallbackLimit = 5

// scoreCap bounds the bag-of-words stage to the best-scoring items.
const scoreCap = 10

// Price patterns, French and English. The number capture tolerates a decimal
// part with either separator ("19,99" and "19.99").
var (
	lessThanRe = regexp.MustCompile(
		`(?:moins de|less than|under|below|cheaper than|inférieur|en dessous|< ?)\D*?(\d+(?:[.,]\d+)?)`)
	greaterThanRe = regexp.MustCompile(
		`(?:plus de|more than|\bover\b|\babove\b|supérieur|au[- ]dessus|> ?)\D*?(\d+(?:[.,]\d+)?)`)
	betweenRe = regexp.MustCompile(
		`(?:entre|between)\D*?(\d+(?:[.,]\d+)?)\D*?(\d+(?:[.,]\d+)?)`)
)

// PriceFilter matches numeric price constraints: "moins de 20", "more than
// 50", "entre 10 et 30". Tried in less-than, greater-than, between order.
type PriceFilter struct{}

func (PriceFilter) Name() string { return "price" }

// Apply short-circuits on the first price pattern with a parseable number.
// An empty filtered set degrades to the head of the catalog instead of an
// empty result. Unparseable captures count as "pattern did not match".
func (PriceFilter) Apply(query string, items []domain.Item) ([]domain.Item, bool) {
	q := strings.ToLower(query)

	if m := lessThanRe.FindStringSubmatch(q); m != nil {
		if max, ok := parseAmount(m[1]); ok {
			return keepOrHead(items, func(it domain.Item) bool { return it.Price < max }), true
		}
	}

	if m := greaterThanRe.FindStringSubmatch(q); m != nil {
		if min, ok := parseAmount(m[1]); ok {
			return keepOrHead(items, func(it domain.Item) bool { return it.Price > min }), true
		}
	}

	if m := betweenRe.FindStringSubmatch(q); m != nil {
		lo, okLo := parseAmount(m[1])
		hi, okHi := parseAmount(m[2])
		if okLo && okHi {
			if lo > hi {
				lo, hi = hi, lo
			}
			return keepOrHead(items, func(it domain.Item) bool {
				return it.Price >= lo && it.Price <= hi
			}), true
		}
	}

	return nil, false
}

func parseAmount(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func keepOrHead(items []domain.Item, pred func(domain.Item) bool) []domain.Item {
	kept := make([]domain.Item, 0, len(items))
	for _, it := range items {
		if pred(it) {
			kept = append(kept, it)
		}
	}
	if len(kept) == 0 {
		return domain.Head(items, priceFallbackLimit)
	}
	return kept
}

// CategoryFilter matches when the query mentions any category present in the
// catalog, and returns every item of that exact category, including a
// single-item set, with no fallback substitution.
type CategoryFilter struct{}

func (CategoryFilter) Name() string { return "category" }

func (CategoryFilter) Apply(query string, items []domain.Item) ([]domain.Item, bool) {
	q := strings.ToLower(query)

	seen := make(map[string]struct{})
	for _, it := range items {
		cat := it.Category
		if cat == "" {
			continue
		}
		if _, dup := seen[cat]; dup {
			continue
		}
		seen[cat] = struct{}{}

		if !strings.Contains(q, strings.ToLower(cat)) {
			continue
		}

		matched := make([]domain.Item, 0, len(items))
		for _, cand := range items {
			if cand.Category == cat {
				matched = append(matched, cand)
			}
		}
		return matched, true
	}

	return nil, false
}

// KeywordFilter keeps items whose name contains any query keyword as a
// case-insensitive substring. Matches only when the result is non-empty.
type KeywordFilter struct {
	Extractor *keywords.Extractor
}

func (KeywordFilter) Name() string { return "keyword" }

func (f KeywordFilter) Apply(query string, items []domain.Item) ([]domain.Item, bool) {
	kws := f.Extractor.Extract(query)
	if len(kws) == 0 {
		return nil, false
	}

	matched := make([]domain.Item, 0, len(items))
	for _, it := range items {
		name := strings.ToLower(it.Name)
		for _, kw := range kws {
			if strings.Contains(name, kw) {
				matched = append(matched, it)
				break
			}
		}
	}
	if len(matched) == 0 {
		return nil, false
	}
	return matched, true
}

// ScoreFilter ranks the catalog by bag-of-words overlap with the query and
// keeps positive scores, best first, catalog order on ties.
type ScoreFilter struct {
	Extractor *keywords.Extractor
}

func (ScoreFilter) Name() string { return "score" }

func (f ScoreFilter) Apply(query string, items []domain.Item) ([]domain.Item, bool) {
	kws := f.Extractor.Extract(query)

	type scored struct {
		item  domain.Item
		score int
	}
	ranked := make([]scored, 0, len(items))
	for _, it := range items {
		if s := Overlap(kws, it); s > 0 {
			ranked = append(ranked, scored{item: it, score: s})
		}
	}
	if len(ranked) == 0 {
		return nil, false
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score > ranked[j].score
	})

	result := make([]domain.Item, 0, scoreCap)
	for i, s := range ranked {
		if i == scoreCap {
			break
		}
		result = append(result, s.item)
	}
	return result, true
}

// Overlap counts the query keywords appearing as substrings of the item's
// name and category. The standalone bag-of-words relevance score.
func Overlap(queryKeywords []string, item domain.Item) int {
	text := item.SearchText()
	score := 0
	for _, kw := range queryKeywords {
		if strings.Contains(text, kw) {
			score++
		}
	}
	return score
}
