package domain

import (
	"fmt"
	"strings"
)

// Item is a catalog product. The retrieval engine only reads items supplied
// per call; lifecycle and persistence belong to the catalog collaborator.
type Item struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Price       float64 `json:"price"`
	Category    string  `json:"category,omitempty"`
	Stock       int     `json:"stock"`
}

// IndexText builds the text representation used for embedding and indexing.
func (i Item) IndexText() string {
	return strings.TrimSpace(fmt.Sprintf("%s %s %s", i.Name, i.Category, i.Description))
}

// SearchText is the shorter representation used for lexical relevance scoring.
func (i Item) SearchText() string {
	return strings.ToLower(i.Name + " " + i.Category)
}

// Head returns the first n items, or all of them when fewer exist.
// The engine's fallbacks are all "first N of the catalog, original order".
func Head(items []Item, n int) []Item {
	if len(items) <= n {
		return items
	}
	return items[:n]
}
