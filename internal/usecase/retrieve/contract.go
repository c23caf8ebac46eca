package retrieve

import (
	"context"

	"github.com/prodexhq/prodex/internal/domain"
	"github.com/prodexhq/prodex/internal/domain/strategy"
)

// CatalogSource supplies the product catalog when a request carries no
// inline items.
type CatalogSource interface {
	List(ctx context.Context) ([]domain.Item, error)
}

// Retriever routes a query to the lexical or semantic path and returns
// the relevant items plus the strategy it chose.
type Retriever interface {
	Retrieve(ctx context.Context, query string, items []domain.Item) ([]domain.Item, strategy.Strategy)
}
