// Package keywords extracts search keywords from free-text queries.
package keywords

import (
	"strings"
	"unicode/utf8"
)

// minTokenLen is the shortest token worth keeping; one and two letter
// fragments carry no signal for catalog matching.
const minTokenLen = 3

// separators the tokenizer splits on, besides whitespace.
const separators = ",.?!;:\n\r"

// DefaultStopWords merges French and English function words with generic
// request verbs ("show me", "je cherche") that say nothing about the product.
// The exact list is tuning material, not a contract.
func DefaultStopWords() []string {
	return []string{
		// French function words
		"les", "une", "des", "aux", "que", "qui", "quoi", "quel", "est",
		"sont", "pour", "dans", "sur", "avec", "sans", "par", "mon", "ton",
		"son", "mes", "tes", "ses",
		// French request verbs
		"veux", "cherche", "recommande", "propose", "donne", "montre", "trouve",
		// English function words
		"the", "and", "for", "with", "that", "this", "are", "was", "you",
		"not", "but", "from", "have", "what", "which", "can",
		// English request verbs
		"want", "show", "find", "give", "need", "looking", "recommend",
	}
}

// Extractor tokenizes text and strips stop-words.
// The zero value is unusable; construct with New.
type Extractor struct {
	stopWords map[string]struct{}
}

// New creates an extractor with the given stop-word set.
// An empty list means no stop-word filtering.
func New(stopWords []string) *Extractor {
	set := make(map[string]struct{}, len(stopWords))
	for _, w := range stopWords {
		set[strings.ToLower(w)] = struct{}{}
	}
	return &Extractor{stopWords: set}
}

// Extract returns the lowercase keywords of text, first-seen order, no
// duplicates. Never fails; empty or all-stop-word input yields an empty slice.
func (e *Extractor) Extract(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return r == ' ' || r == '\t' || strings.ContainsRune(separators, r)
	})

	seen := make(map[string]struct{}, len(fields))
	keywords := make([]string, 0, len(fields))
	for _, tok := range fields {
		if utf8.RuneCountInString(tok) < minTokenLen {
			continue
		}
		if _, stop := e.stopWords[tok]; stop {
			continue
		}
		if _, dup := seen[tok]; dup {
			continue
		}
		seen[tok] = struct{}{}
		keywords = append(keywords, tok)
	}
	return keywords
}
