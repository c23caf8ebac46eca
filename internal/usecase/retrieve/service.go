// Package retrieve orchestrates catalog lookup and query routing for the
// retrieval API.
package retrieve

import (
	"context"
	"fmt"

	"github.com/prodexhq/prodex/internal/domain"
	"github.com/prodexhq/prodex/internal/domain/strategy"
)

// Result is the outcome of one retrieval request.
type Result struct {
	Items       []domain.Item
	Strategy    strategy.Strategy
	CatalogSize int
}

// Service handles retrieval requests.
type Service struct {
	catalog   CatalogSource
	retriever Retriever
}

// New creates a retrieval service.
func New(catalog CatalogSource, retriever Retriever) *Service {
	return &Service{catalog: catalog, retriever: retriever}
}

// Retrieve ranks the relevant items for a query. When items is nil the
// stored catalog is used; an explicit empty slice means an empty catalog.
func (s *Service) Retrieve(ctx context.Context, query string, items []domain.Item) (Result, error) {
	if items == nil {
		stored, err := s.catalog.List(ctx)
		if err != nil {
			return Result{}, fmt.Errorf("load catalog: %w", err)
		}
		items = stored
	}

	ranked, strat := s.retriever.Retrieve(ctx, query, items)
	return Result{
		Items:       ranked,
		Strategy:    strat,
		CatalogSize: len(items),
	}, nil
}
