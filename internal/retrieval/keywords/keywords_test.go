package keywords

import (
	"reflect"
	"strings"
	"testing"
)

func TestExtract_Basic(t *testing.T) {
	e := New(DefaultStopWords())
	got := e.Extract("Je cherche une console de gaming pas chère")
	want := []string{"console", "gaming", "pas", "chère"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Extract() = %v, want %v", got, want)
	}
}

func TestExtract_DropsShortTokens(t *testing.T) {
	e := New(nil)
	got := e.Extract("a de tv ok abc")
	want := []string{"abc"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Extract() = %v, want %v", got, want)
	}
}

func TestExtract_SplitsOnPunctuation(t *testing.T) {
	e := New(nil)
	got := e.Extract("books,games.consoles?toys!more;items:here\nlast")
	want := []string{"books", "games", "consoles", "toys", "more", "items", "here", "last"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Extract() = %v, want %v", got, want)
	}
}

func TestExtract_DeduplicatesPreservingOrder(t *testing.T) {
	e := New(nil)
	got := e.Extract("gaming console gaming CONSOLE gaming")
	want := []string{"gaming", "console"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Extract() = %v, want %v", got, want)
	}
}

func TestExtract_EmptyInput(t *testing.T) {
	e := New(DefaultStopWords())
	if got := e.Extract(""); len(got) != 0 {
		t.Errorf("Extract(\"\") = %v, want empty", got)
	}
	if got := e.Extract("   \n\t  "); len(got) != 0 {
		t.Errorf("Extract(whitespace) = %v, want empty", got)
	}
}

func TestExtract_AllStopWords(t *testing.T) {
	e := New(DefaultStopWords())
	if got := e.Extract("que veux montre trouve"); len(got) != 0 {
		t.Errorf("Extract(stop words only) = %v, want empty", got)
	}
}

// Extraction is idempotent on its own output: re-extracting the joined
// keywords must not drop, reorder, or duplicate anything.
func TestExtract_Idempotent(t *testing.T) {
	e := New(DefaultStopWords())
	inputs := []string{
		"Je veux un jeu de stratégie pour la console",
		"show me cheap gaming laptops under 500",
		"livre, formation; console: gaming!",
	}
	for _, in := range inputs {
		first := e.Extract(in)
		second := e.Extract(strings.Join(first, " "))
		if !reflect.DeepEqual(first, second) {
			t.Errorf("Extract not idempotent for %q: %v != %v", in, first, second)
		}
	}
}
