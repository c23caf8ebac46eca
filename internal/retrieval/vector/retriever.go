// Package vector implements the semantic retrieval path: embed the query,
// lazily index the catalog into the vector store, rank by nearest neighbor.
package vector

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/prodexhq/prodex/internal/domain"
	"github.com/prodexhq/prodex/internal/metrics"
	"github.com/prodexhq/prodex/internal/vectorstore"
)

// defaultTopK bounds both the neighbor search and the degraded fallback slice.
const defaultTopK = 10

// Retriever ranks catalog items by semantic similarity to the query.
// Every failure on this path degrades to a deterministic catalog slice;
// callers never observe an error.
type Retriever struct {
	embed      domain.Embedder
	store      vectorstore.Store
	cache      *IndexCache
	collection string
	topK       int
	logger     *zap.Logger
}

// Config holds Retriever dependencies and tuning.
type Config struct {
	Embedder   domain.Embedder
	Store      vectorstore.Store
	Cache      *IndexCache
	Collection string // vector collection name, e.g. "products"
	TopK       int    // neighbors to request; defaults to 10
	Logger     *zap.Logger
}

// New creates a semantic retriever.
func New(cfg Config) *Retriever {
	topK := cfg.TopK
	if topK <= 0 {
		topK = defaultTopK
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	cache := cfg.Cache
	if cache == nil {
		cache = NewIndexCache()
	}
	return &Retriever{
		embed:      cfg.Embedder,
		store:      cfg.Store,
		cache:      cache,
		collection: cfg.Collection,
		topK:       topK,
		logger:     logger,
	}
}

// Filter returns the items most similar to the query, best match first.
// Embedding failures, an unreachable store, and empty neighbor sets all
// degrade silently to the head of the catalog.
func (r *Retriever) Filter(ctx context.Context, query string, items []domain.Item) []domain.Item {
	result, err := r.filter(ctx, query, items)
	if err != nil {
		r.logger.Warn("Semantic retrieval degraded to catalog head",
			zap.Error(err),
			zap.Int("catalog_size", len(items)),
		)
		metrics.RetrievalFallbacksTotal.WithLabelValues("semantic").Inc()
		return domain.Head(items, r.topK)
	}
	return result
}

func (r *Retriever) filter(ctx context.Context, query string, items []domain.Item) ([]domain.Item, error) {
	queryRes, err := r.embed.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	if err := r.ensureCollection(ctx, len(queryRes.Embedding)); err != nil {
		return nil, err
	}

	if err := r.indexMissing(ctx, items); err != nil {
		return nil, err
	}

	ids, err := r.store.Search(ctx, r.collection, queryRes.Embedding, r.topK)
	if err != nil {
		return nil, fmt.Errorf("search neighbors: %w", err)
	}

	result := mapByID(ids, items)
	if len(result) == 0 {
		metrics.RetrievalFallbacksTotal.WithLabelValues("semantic").Inc()
		return domain.Head(items, r.topK), nil
	}
	return result, nil
}

// ensureCollection creates the collection on first use. The check-then-create
// sequence races across concurrent first calls; CreateCollection treats
// "already exists" as success, so the race is harmless.
func (r *Retriever) ensureCollection(ctx context.Context, vectorSize int) error {
	exists, err := r.store.CollectionExists(ctx, r.collection)
	if err != nil {
		return fmt.Errorf("check collection: %w", err)
	}
	if exists {
		return nil
	}
	if err := r.store.CreateCollection(ctx, r.collection, vectorSize, vectorstore.DistanceCosine); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrCollectionMissing, err)
	}
	r.logger.Info("Created vector collection",
		zap.String("collection", r.collection),
		zap.Int("vector_size", vectorSize),
	)
	return nil
}

// indexMissing embeds and upserts every item not yet in the cache.
// Once recorded, an item is never refreshed; if its text changes, the
// collection silently serves the old vector (see IndexCache.Stale).
func (r *Retriever) indexMissing(ctx context.Context, items []domain.Item) error {
	indexed := 0
	for _, it := range items {
		if r.cache.Has(it.ID) {
			continue
		}

		text := it.IndexText()
		res, err := r.embed.Embed(ctx, text)
		if err != nil {
			return fmt.Errorf("embed item %d: %w", it.ID, err)
		}

		payload := map[string]any{
			"name":     it.Name,
			"price":    it.Price,
			"category": it.Category,
			"stock":    it.Stock,
		}
		if err := r.store.Upsert(ctx, r.collection, it.ID, res.Embedding, payload); err != nil {
			return fmt.Errorf("upsert item %d: %w", it.ID, err)
		}

		r.cache.Record(it.ID, res.Embedding, text)
		indexed++
	}

	if indexed > 0 {
		metrics.IndexedItemsTotal.Add(float64(indexed))
		r.logger.Info("Indexed catalog items into vector store",
			zap.Int("count", indexed),
			zap.String("collection", r.collection),
		)
	}
	return nil
}

// ReindexStale forces re-embedding of items whose text changed since they
// were indexed. Administrative; the query path never calls it.
func (r *Retriever) ReindexStale(ctx context.Context, items []domain.Item) (int, error) {
	stale := r.cache.Stale(items)
	if len(stale) == 0 {
		return 0, nil
	}
	r.cache.Forget(stale)

	staleSet := make(map[int]struct{}, len(stale))
	for _, id := range stale {
		staleSet[id] = struct{}{}
	}
	subset := make([]domain.Item, 0, len(stale))
	for _, it := range items {
		if _, ok := staleSet[it.ID]; ok {
			subset = append(subset, it)
		}
	}

	if err := r.indexMissing(ctx, subset); err != nil {
		return 0, fmt.Errorf("reindex stale items: %w", err)
	}
	return len(subset), nil
}

// mapByID maps neighbor ids back to items, preserving the ranking order.
// Ids unknown to the supplied catalog are dropped.
func mapByID(ids []int, items []domain.Item) []domain.Item {
	byID := make(map[int]domain.Item, len(items))
	for _, it := range items {
		byID[it.ID] = it
	}

	result := make([]domain.Item, 0, len(ids))
	for _, id := range ids {
		if it, ok := byID[id]; ok {
			result = append(result, it)
		}
	}
	return result
}
