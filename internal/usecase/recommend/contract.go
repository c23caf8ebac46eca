package recommend

import (
	"context"

	"github.com/prodexhq/prodex/internal/domain"
	"github.com/prodexhq/prodex/internal/usecase/retrieve"
)

// Retriever narrows the retrieval service to what recommendations need.
type Retriever interface {
	Retrieve(ctx context.Context, query string, items []domain.Item) (retrieve.Result, error)
}

// Generator produces an answer from an assembled prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}
