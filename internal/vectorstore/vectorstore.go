// Package vectorstore defines the contract the retrieval engine requires
// from an external nearest-neighbor store.
package vectorstore

import "context"

// DistanceCosine is the similarity metric every prodex collection uses.
const DistanceCosine = "Cosine"

// Store is the vector store consumed by the semantic retrieval path.
// Implementations must make CreateCollection and Upsert idempotent: concurrent
// first calls race on check-then-create, and concurrent indexing of the same
// item issues duplicate upserts by id.
type Store interface {
	// CollectionExists reports whether the named collection is present.
	CollectionExists(ctx context.Context, name string) (bool, error)

	// CreateCollection creates a collection for vectors of the given size.
	// Creating an existing collection is a no-op, not an error.
	CreateCollection(ctx context.Context, name string, vectorSize int, distance string) error

	// Upsert inserts or overwrites a point by id.
	Upsert(ctx context.Context, collection string, id int, vector []float32, payload map[string]any) error

	// Search returns the ids of the topK nearest neighbors, most similar
	// first. An unreachable store yields an empty slice, not an error; the
	// engine's fallback contract depends on it.
	Search(ctx context.Context, collection string, vector []float32, topK int) ([]int, error)

	// DeleteCollection removes a collection. Administrative only; never
	// called on the query-serving path.
	DeleteCollection(ctx context.Context, name string) error
}
