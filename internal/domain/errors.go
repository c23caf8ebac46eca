package domain

import "errors"

var (
	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
	// ErrVectorStoreUnavailable signals an unreachable vector store.
	ErrVectorStoreUnavailable = errors.New("vector store unavailable")
	// ErrCollectionMissing signals an absent vector collection that could not be created.
	ErrCollectionMissing = errors.New("vector collection missing")
	// ErrCatalogUnavailable signals a catalog source failure.
	ErrCatalogUnavailable = errors.New("catalog unavailable")
	// ErrGeneratorUnavailable signals an answer generator failure.
	ErrGeneratorUnavailable = errors.New("answer generator unavailable")
)
