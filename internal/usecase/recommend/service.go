// Package recommend grounds a chat completion on the retrieved catalog
// slice and returns the assistant's answer.
package recommend

import (
	"context"
	"fmt"
	"strings"

	"github.com/prodexhq/prodex/internal/domain"
	"github.com/prodexhq/prodex/internal/domain/strategy"
)

// contextLimit bounds how many retrieved items enter the prompt.
const contextLimit = 20

// Result is the outcome of one recommendation request.
type Result struct {
	Answer   string
	Strategy strategy.Strategy
	Found    int
	Total    int
}

// Service handles recommendation requests.
type Service struct {
	retriever Retriever
	generator Generator
}

// New creates a recommendation service.
func New(retriever Retriever, generator Generator) *Service {
	return &Service{retriever: retriever, generator: generator}
}

// Recommend retrieves the relevant items for the message, assembles a
// grounded prompt, and asks the generator for an answer. An empty catalog
// short-circuits with a canned reply and no generator call.
func (s *Service) Recommend(ctx context.Context, message string) (Result, error) {
	res, err := s.retriever.Retrieve(ctx, message, nil)
	if err != nil {
		return Result{}, fmt.Errorf("retrieve products: %w", err)
	}

	if res.CatalogSize == 0 {
		return Result{
			Answer:   "Aucun produit disponible dans la base de données.",
			Strategy: res.Strategy,
		}, nil
	}

	prompt := BuildPrompt(message, res.Items, res.CatalogSize)

	answer, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		return Result{}, fmt.Errorf("generate answer: %w", err)
	}

	return Result{
		Answer:   answer,
		Strategy: res.Strategy,
		Found:    len(res.Items),
		Total:    res.CatalogSize,
	}, nil
}

// BuildPrompt assembles the grounded prompt sent to the generator.
func BuildPrompt(message string, items []domain.Item, catalogSize int) string {
	var b strings.Builder

	b.WriteString("Tu es un assistant e-commerce expert.\n\n")
	fmt.Fprintf(&b, "[Produits trouvés: %d/%d]\n", len(items), catalogSize)
	b.WriteString("Produits pertinents sélectionnés :\n")
	b.WriteString(BuildProductContext(items))
	b.WriteString("\n")
	fmt.Fprintf(&b, "Question client : %s\n\n", message)
	b.WriteString("Instructions :\n")
	b.WriteString("- Réponds en français, si la question est en anglais réponds en anglais\n")
	b.WriteString("- Utilise UNIQUEMENT les produits listés ci-dessus\n")
	b.WriteString("- Format : • Nom (Prix€)\n")
	b.WriteString("- Si filtre de prix, vérifie bien le prix de chaque produit\n")
	b.WriteString("- Maximum 5 lignes\n\n")
	b.WriteString("Réponse :")

	return b.String()
}

// BuildProductContext renders one line per item, capped at contextLimit.
func BuildProductContext(items []domain.Item) string {
	var b strings.Builder
	for _, it := range domain.Head(items, contextLimit) {
		category := it.Category
		if category == "" {
			category = "Autre"
		}
		fmt.Fprintf(&b, "- %s | %.0f€ | %s\n", it.Name, it.Price, category)
	}
	return b.String()
}
