// Package catalog persists the product catalog as a single JSON document
// in the key-value store.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/prodexhq/prodex/internal/db"
	"github.com/prodexhq/prodex/internal/domain"
)

var catalogKey = domain.KeyPrefix + "catalog"

// store is the consumer interface for the catalog (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}

// Repo implements usecase/retrieve.CatalogSource.
type Repo struct {
	store store
}

// New creates a catalog repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// List returns every catalog item in stored order. A missing key is an
// empty catalog, not an error.
func (r *Repo) List(ctx context.Context) ([]domain.Item, error) {
	raw, err := r.store.Get(ctx, catalogKey)
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get %s: %w: %w", catalogKey, domain.ErrCatalogUnavailable, err)
	}

	var items []domain.Item
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("unmarshal catalog: %w: %w", domain.ErrCatalogUnavailable, err)
	}
	return items, nil
}

// Replace overwrites the stored catalog with the given items.
func (r *Repo) Replace(ctx context.Context, items []domain.Item) error {
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("marshal catalog: %w", err)
	}
	if err := r.store.Set(ctx, catalogKey, data); err != nil {
		return fmt.Errorf("set %s: %w", catalogKey, err)
	}
	return nil
}
