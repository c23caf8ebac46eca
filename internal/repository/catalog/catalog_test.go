package catalog

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/prodexhq/prodex/internal/db"
	"github.com/prodexhq/prodex/internal/domain"
)

type mockKVStore struct {
	getFn func(ctx context.Context, key string) ([]byte, error)
	setFn func(ctx context.Context, key string, value []byte) error
}

func (m *mockKVStore) Get(ctx context.Context, key string) ([]byte, error) {
	if m.getFn != nil {
		return m.getFn(ctx, key)
	}
	return nil, db.ErrKeyNotFound
}

func (m *mockKVStore) Set(ctx context.Context, key string, value []byte) error {
	if m.setFn != nil {
		return m.setFn(ctx, key, value)
	}
	return nil
}

func TestList_ReturnsStoredOrder(t *testing.T) {
	ms := &mockKVStore{getFn: func(_ context.Context, key string) ([]byte, error) {
		if key != "prodex:catalog" {
			t.Errorf("unexpected key %q", key)
		}
		return []byte(`[{"id":1,"name":"Book A"},{"id":2,"name":"Console X"}]`), nil
	}}
	repo := New(ms)

	items, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 2 || items[0].Name != "Book A" || items[1].ID != 2 {
		t.Errorf("unexpected items: %+v", items)
	}
}

func TestList_MissingKeyIsEmptyCatalog(t *testing.T) {
	repo := New(&mockKVStore{})

	items, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("expected empty catalog, got %+v", items)
	}
}

func TestList_StoreErrorWrapsCatalogUnavailable(t *testing.T) {
	ms := &mockKVStore{getFn: func(_ context.Context, _ string) ([]byte, error) {
		return nil, errors.New("connection refused")
	}}
	repo := New(ms)

	_, err := repo.List(context.Background())
	if !errors.Is(err, domain.ErrCatalogUnavailable) {
		t.Errorf("expected ErrCatalogUnavailable, got %v", err)
	}
}

func TestList_MalformedJSONWrapsCatalogUnavailable(t *testing.T) {
	ms := &mockKVStore{getFn: func(_ context.Context, _ string) ([]byte, error) {
		return []byte("not json"), nil
	}}
	repo := New(ms)

	_, err := repo.List(context.Background())
	if !errors.Is(err, domain.ErrCatalogUnavailable) {
		t.Errorf("expected ErrCatalogUnavailable, got %v", err)
	}
}

func TestReplace_RoundTrips(t *testing.T) {
	var stored []byte
	ms := &mockKVStore{setFn: func(_ context.Context, _ string, value []byte) error {
		stored = value
		return nil
	}}
	repo := New(ms)

	want := []domain.Item{{ID: 7, Name: "Mug", Price: 8, Category: "Kitchen", Stock: 3}}
	if err := repo.Replace(context.Background(), want); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ms.getFn = func(_ context.Context, _ string) ([]byte, error) { return stored, nil }
	got, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("round trip = %+v, want %+v", got, want)
	}
}
