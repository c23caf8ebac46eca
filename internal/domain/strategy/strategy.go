package strategy

// Strategy is the retrieval strategy selected per query.
type Strategy string

// Retrieval strategy constants.
const (
	// Lexical runs the rule-based filter chain, no external calls.
	Lexical Strategy = "lexical"
	// Vector embeds the query and searches the vector store.
	Vector Strategy = "vector"
	// Hybrid routes between lexical and vector per query.
	Hybrid Strategy = "hybrid"
)

// IsValid checks if the strategy is one of the supported values.
func (s Strategy) IsValid() bool {
	return s == Lexical || s == Vector || s == Hybrid
}
