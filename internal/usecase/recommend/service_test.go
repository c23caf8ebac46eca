package recommend

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/prodexhq/prodex/internal/domain"
	"github.com/prodexhq/prodex/internal/domain/strategy"
	"github.com/prodexhq/prodex/internal/usecase/retrieve"
)

type mockRetriever struct {
	result retrieve.Result
	err    error
}

func (m *mockRetriever) Retrieve(_ context.Context, _ string, _ []domain.Item) (retrieve.Result, error) {
	return m.result, m.err
}

type mockGenerator struct {
	answer    string
	err       error
	gotPrompt string
	calls     int
}

func (m *mockGenerator) Generate(_ context.Context, prompt string) (string, error) {
	m.calls++
	m.gotPrompt = prompt
	if m.err != nil {
		return "", m.err
	}
	return m.answer, nil
}

func testItems() []domain.Item {
	return []domain.Item{
		{ID: 1, Name: "Book A", Price: 15, Category: "Books"},
		{ID: 2, Name: "Console X", Price: 450, Category: "Gaming"},
	}
}

func TestRecommend_GroundsPromptOnRetrievedItems(t *testing.T) {
	ret := &mockRetriever{result: retrieve.Result{
		Items:       testItems(),
		Strategy:    strategy.Lexical,
		CatalogSize: 10,
	}}
	gen := &mockGenerator{answer: "• Book A (15€)"}
	svc := New(ret, gen)

	res, err := svc.Recommend(context.Background(), "un livre pas cher")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Answer != "• Book A (15€)" {
		t.Errorf("answer = %q", res.Answer)
	}
	if res.Found != 2 || res.Total != 10 {
		t.Errorf("found/total = %d/%d, want 2/10", res.Found, res.Total)
	}
	if res.Strategy != strategy.Lexical {
		t.Errorf("strategy = %s", res.Strategy)
	}

	for _, want := range []string{
		"[Produits trouvés: 2/10]",
		"- Book A | 15€ | Books",
		"- Console X | 450€ | Gaming",
		"Question client : un livre pas cher",
	} {
		if !strings.Contains(gen.gotPrompt, want) {
			t.Errorf("prompt missing %q:\n%s", want, gen.gotPrompt)
		}
	}
}

func TestRecommend_EmptyCatalogSkipsGenerator(t *testing.T) {
	ret := &mockRetriever{result: retrieve.Result{Strategy: strategy.Lexical}}
	gen := &mockGenerator{}
	svc := New(ret, gen)

	res, err := svc.Recommend(context.Background(), "anything")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gen.calls != 0 {
		t.Errorf("generator called %d times, want 0", gen.calls)
	}
	if !strings.Contains(res.Answer, "Aucun produit disponible") {
		t.Errorf("answer = %q", res.Answer)
	}
}

func TestRecommend_RetrieverErrorPropagates(t *testing.T) {
	ret := &mockRetriever{err: domain.ErrCatalogUnavailable}
	svc := New(ret, &mockGenerator{})

	_, err := svc.Recommend(context.Background(), "q")
	if !errors.Is(err, domain.ErrCatalogUnavailable) {
		t.Errorf("expected ErrCatalogUnavailable, got %v", err)
	}
}

func TestRecommend_GeneratorErrorPropagates(t *testing.T) {
	ret := &mockRetriever{result: retrieve.Result{
		Items:       testItems(),
		CatalogSize: 2,
	}}
	gen := &mockGenerator{err: domain.ErrGeneratorUnavailable}
	svc := New(ret, gen)

	_, err := svc.Recommend(context.Background(), "q")
	if !errors.Is(err, domain.ErrGeneratorUnavailable) {
		t.Errorf("expected ErrGeneratorUnavailable, got %v", err)
	}
}

func TestBuildProductContext_CapsAtTwenty(t *testing.T) {
	items := make([]domain.Item, 30)
	for i := range items {
		items[i] = domain.Item{ID: i, Name: "Item", Price: 1, Category: "C"}
	}

	lines := strings.Count(BuildProductContext(items), "\n")
	if lines != 20 {
		t.Errorf("context lines = %d, want 20", lines)
	}
}

func TestBuildProductContext_MissingCategoryDefaults(t *testing.T) {
	got := BuildProductContext([]domain.Item{{Name: "Mug", Price: 8}})
	if !strings.Contains(got, "| Autre") {
		t.Errorf("context = %q, want default category Autre", got)
	}
}
