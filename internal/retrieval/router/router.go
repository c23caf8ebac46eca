// Package router classifies queries and dispatches them to the lexical or
// semantic retrieval path.
package router

import (
	"context"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/prodexhq/prodex/internal/domain"
	"github.com/prodexhq/prodex/internal/domain/strategy"
	"github.com/prodexhq/prodex/internal/metrics"
	"github.com/prodexhq/prodex/internal/retrieval/lexical"
)

// SemanticFilter is the consumer interface for the vector retrieval path.
type SemanticFilter interface {
	Filter(ctx context.Context, query string, items []domain.Item) []domain.Item
}

// priceVocabRe detects price-operator vocabulary, French and English.
// Any hit means the rule-based chain can answer faster and more precisely
// than a vector search.
var priceVocabRe = regexp.MustCompile(
	`moins\s+de|plus\s+de|entre.*et|less\s+than|more\s+than|between.*and|under|over|below|above|[<>€$]|prix|price|co[uû]te?|cost`)

// stockVocab flags availability questions; structural, not semantic.
var stockVocab = []string{"stock", "disponible", "available"}

// Router selects a retrieval strategy per query. When no semantic path is
// configured it routes everything lexical; a single call always produces a
// usable result.
type Router struct {
	chain    *lexical.Chain
	semantic SemanticFilter // nil when vector collaborators are absent
	logger   *zap.Logger
}

// New creates a router. semantic may be nil (vector path disabled).
func New(chain *lexical.Chain, semantic SemanticFilter, logger *zap.Logger) *Router {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Router{chain: chain, semantic: semantic, logger: logger}
}

// Retrieve classifies the query, runs one strategy, and returns the selected
// items with the strategy that produced them. Never fails: the lexical chain
// has no failure modes, and the semantic path degrades internally.
func (r *Router) Retrieve(ctx context.Context, query string, items []domain.Item) ([]domain.Item, strategy.Strategy) {
	start := time.Now()

	selected := r.classify(query, items)
	var result []domain.Item

	switch selected {
	case strategy.Vector:
		result = r.semantic.Filter(ctx, query, items)
	default:
		var stage string
		result, stage = r.chain.Filter(query, items)
		if stage == lexical.FallbackStage {
			metrics.RetrievalFallbacksTotal.WithLabelValues(stage).Inc()
		}
		r.logger.Debug("Lexical retrieval",
			zap.String("stage", stage),
			zap.Int("results", len(result)),
		)
	}

	metrics.RetrievalRequestsTotal.WithLabelValues(string(selected)).Inc()
	metrics.RetrievalDuration.WithLabelValues(string(selected)).Observe(time.Since(start).Seconds())

	r.logger.Info("Retrieval completed",
		zap.String("strategy", string(selected)),
		zap.Int("catalog_size", len(items)),
		zap.Int("results", len(result)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return result, selected
}

// classify picks the strategy on structural query features. Price, category,
// and stock vocabulary all mean the rule-based filters apply; everything else
// is a semantic question, provided a semantic path exists.
func (r *Router) classify(query string, items []domain.Item) strategy.Strategy {
	if r.semantic == nil {
		return strategy.Lexical
	}

	q := strings.ToLower(query)

	if priceVocabRe.MatchString(q) {
		return strategy.Lexical
	}

	for _, it := range items {
		if it.Category == "" {
			continue
		}
		if strings.Contains(q, strings.ToLower(it.Category)) {
			return strategy.Lexical
		}
	}

	for _, w := range stockVocab {
		if strings.Contains(q, w) {
			return strategy.Lexical
		}
	}

	return strategy.Vector
}
