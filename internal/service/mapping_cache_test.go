package service

import (
	"context"
	"testing"

	"whichcharacter/internal/traits"
)

func TestMemoryMappingCacheRoundTrip(t *testing.T) {
	cache := NewMemoryMappingCache()
	ctx := context.Background()

	if _, ok := cache.Get(ctx, "movie", "inception"); ok {
		t.Fatal("expected miss on empty cache")
	}

	cache.Set(ctx, "movie", "inception", traits.Vector{0.1, 0.2})
	v, ok := cache.Get(ctx, "movie", "inception")
	if !ok {
		t.Fatal("expected hit after set")
	}
	if v[0] != 0.1 || v[1] != 0.2 {
		t.Fatalf("unexpected vector: %v", v)
	}

	// La clave incluye la categoria.
	if _, ok := cache.Get(ctx, "song", "inception"); ok {
		t.Fatal("expected miss for other category")
	}

	cache.Delete(ctx, "movie", "inception")
	if _, ok := cache.Get(ctx, "movie", "inception"); ok {
		t.Fatal("expected miss after delete")
	}
}
