package traits

import (
	"math"
	"testing"
)

func TestCosineIdenticalVectors(t *testing.T) {
	v := Vector{1.0, 0.5, 0.8, 0.2, 0.9}
	got := Cosine(v, v)
	if math.Abs(got-1.0) > 1e-9 {
		t.Fatalf("expected 1.0, got %f", got)
	}
}

func TestCosineIsSymmetric(t *testing.T) {
	a := Vector{0.8, 0.1, 0.6, 0.3}
	b := Vector{0.2, 0.9, 0.4, 0.7}
	if Cosine(a, b) != Cosine(b, a) {
		t.Fatalf("expected symmetric result, got %f and %f", Cosine(a, b), Cosine(b, a))
	}
}

func TestCosineOrthogonalVectors(t *testing.T) {
	a := Vector{1.0, 0.0, 0.0}
	b := Vector{0.0, 1.0, 0.0}
	got := Cosine(a, b)
	if math.Abs(got) > 1e-9 {
		t.Fatalf("expected 0, got %f", got)
	}
}

func TestCosineOppositeVectors(t *testing.T) {
	a := Vector{1.0, 0.5, 0.8}
	b := Vector{-1.0, -0.5, -0.8}
	got := Cosine(a, b)
	if math.Abs(got+1.0) > 1e-9 {
		t.Fatalf("expected -1.0, got %f", got)
	}
}

func TestCosineLengthMismatchReturnsZero(t *testing.T) {
	a := Vector{1.0, 0.5, 0.8}
	b := Vector{1.0, 0.5}
	if got := Cosine(a, b); got != 0 {
		t.Fatalf("expected exactly 0 on length mismatch, got %f", got)
	}
}

func TestCosineZeroVectorReturnsZero(t *testing.T) {
	zero := Vector{0, 0, 0}
	other := Vector{1.0, 0.5, 0.8}
	if got := Cosine(zero, other); got != 0 {
		t.Fatalf("expected 0 for zero vector, got %f", got)
	}
	if got := Cosine(zero, zero); got != 0 {
		t.Fatalf("expected 0 for two zero vectors, got %f", got)
	}
}

func TestCombineEndpoints(t *testing.T) {
	a := Vector{1.0, 0.2, 0.7}
	b := Vector{0.0, 0.9, 0.3}

	all, err := Combine(a, b, 1.0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := range a {
		if all[i] != a[i] {
			t.Fatalf("alpha=1.0 index %d: expected %f, got %f", i, a[i], all[i])
		}
	}

	none, err := Combine(a, b, 0.0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := range b {
		if none[i] != b[i] {
			t.Fatalf("alpha=0.0 index %d: expected %f, got %f", i, b[i], none[i])
		}
	}
}

func TestCombineBlends(t *testing.T) {
	a := Vector{1.0, 1.0}
	b := Vector{0.0, 0.0}
	got, err := Combine(a, b, 0.8)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := range got {
		if math.Abs(got[i]-0.8) > 1e-9 {
			t.Fatalf("expected 0.8 at index %d, got %f", i, got[i])
		}
	}
}

func TestCombineLengthMismatch(t *testing.T) {
	if _, err := Combine(Vector{1}, Vector{1, 2}, 0.5); err == nil {
		t.Fatal("expected error on length mismatch")
	}
}
