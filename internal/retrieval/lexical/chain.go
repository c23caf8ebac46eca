// Package lexical implements the rule-based retrieval path: an ordered chain
// of filters over in-memory catalog items. Pure, no I/O, never fails.
package lexical

import (
	"fmt"

	"github.com/prodexhq/prodex/internal/domain"
	"github.com/prodexhq/prodex/internal/retrieval/keywords"
)

// FallbackStage is the stage name reported when no filter matched.
const FallbackStage = "fallback"

// fallbackLimit is the slice of the catalog returned when nothing matched.
const fallbackLimit = 15

// Chain applies filters in priority order; the first structural match wins.
type Chain struct {
	filters []Filter
}

// NewChain creates a filter chain with the given order.
func NewChain(filters []Filter) *Chain {
	return &Chain{filters: filters}
}

// DefaultFilters returns the default priority order: price, category,
// keyword, bag-of-words score. The order is a policy choice; config may
// rearrange it.
func DefaultFilters(ex *keywords.Extractor) []Filter {
	return []Filter{
		PriceFilter{},
		CategoryFilter{},
		KeywordFilter{Extractor: ex},
		ScoreFilter{Extractor: ex},
	}
}

// FiltersByName builds a filter list from stage names, for config-driven
// ordering. Unknown names are an error at startup, not at query time.
func FiltersByName(names []string, ex *keywords.Extractor) ([]Filter, error) {
	filters := make([]Filter, 0, len(names))
	for _, name := range names {
		switch name {
		case "price":
			filters = append(filters, PriceFilter{})
		case "category":
			filters = append(filters, CategoryFilter{})
		case "keyword":
			filters = append(filters, KeywordFilter{Extractor: ex})
		case "score":
			filters = append(filters, ScoreFilter{Extractor: ex})
		default:
			return nil, fmt.Errorf("unknown lexical filter %q", name)
		}
	}
	return filters, nil
}

// Filter runs the chain and returns the selected items together with the name
// of the stage that matched. Never empty unless the catalog itself is empty.
func (c *Chain) Filter(query string, items []domain.Item) ([]domain.Item, string) {
	for _, f := range c.filters {
		if result, ok := f.Apply(query, items); ok {
			return result, f.Name()
		}
	}
	return domain.Head(items, fallbackLimit), FallbackStage
}
