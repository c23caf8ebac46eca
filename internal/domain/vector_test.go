package domain

import (
	"math"
	"testing"
)

func TestCosineSimilarity_SelfIsOne(t *testing.T) {
	v := []float32{0.3, -1.2, 4.5, 0.001}
	got := CosineSimilarity(v, v)
	if math.Abs(got-1.0) > 1e-9 {
		t.Errorf("self similarity = %v, want 1.0", got)
	}
}

func TestCosineSimilarity_LengthMismatchIsZero(t *testing.T) {
	a := []float32{1, 2, 3}
	b := []float32{1, 2}
	if got := CosineSimilarity(a, b); got != 0.0 {
		t.Errorf("mismatched lengths = %v, want exactly 0.0", got)
	}
}

func TestCosineSimilarity_ZeroNormIsZero(t *testing.T) {
	a := []float32{0, 0, 0}
	b := []float32{1, 2, 3}
	if got := CosineSimilarity(a, b); got != 0.0 {
		t.Errorf("zero norm = %v, want 0.0", got)
	}
}

func TestCosineSimilarity_Orthogonal(t *testing.T) {
	a := []float32{1, 0}
	b := []float32{0, 1}
	if got := CosineSimilarity(a, b); math.Abs(got) > 1e-9 {
		t.Errorf("orthogonal vectors = %v, want 0", got)
	}
}

func TestCosineSimilarity_Opposite(t *testing.T) {
	a := []float32{1, 1}
	b := []float32{-1, -1}
	if got := CosineSimilarity(a, b); math.Abs(got+1.0) > 1e-9 {
		t.Errorf("opposite vectors = %v, want -1", got)
	}
}

func TestCosineSimilarity_EmptyIsZero(t *testing.T) {
	if got := CosineSimilarity(nil, nil); got != 0.0 {
		t.Errorf("empty vectors = %v, want 0.0", got)
	}
}

func TestHead(t *testing.T) {
	items := []Item{{ID: 1}, {ID: 2}, {ID: 3}}
	if got := Head(items, 2); len(got) != 2 || got[0].ID != 1 {
		t.Errorf("Head(3 items, 2) = %v", got)
	}
	if got := Head(items, 10); len(got) != 3 {
		t.Errorf("Head(3 items, 10) = %v, want all 3", got)
	}
	if got := Head(nil, 5); len(got) != 0 {
		t.Errorf("Head(nil, 5) = %v, want empty", got)
	}
}

func TestItem_IndexText(t *testing.T) {
	it := Item{Name: "Book A", Category: "Books", Description: "A classic."}
	want := "Book A Books A classic."
	if got := it.IndexText(); got != want {
		t.Errorf("IndexText() = %q, want %q", got, want)
	}

	bare := Item{Name: "Book A"}
	if got := bare.IndexText(); got != "Book A" {
		t.Errorf("IndexText() without category = %q, want %q", got, "Book A")
	}
}
