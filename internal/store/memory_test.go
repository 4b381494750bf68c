package store

import (
	"context"
	"sort"
	"testing"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	if _, ok, _ := s.Get(ctx, "missing"); ok {
		t.Fatal("expected miss for unknown key")
	}

	if err := s.Set(ctx, "a", "1"); err != nil {
		t.Fatalf("Set returned error: %v", err)
	}

	value, ok, err := s.Get(ctx, "a")
	if err != nil || !ok {
		t.Fatalf("Get(a) = %q, %t, %v", value, ok, err)
	}
	if value != "1" {
		t.Errorf("expected value 1, got %q", value)
	}

	// Set replaces
	if err := s.Set(ctx, "a", "2"); err != nil {
		t.Fatalf("Set returned error: %v", err)
	}
	value, _, _ = s.Get(ctx, "a")
	if value != "2" {
		t.Errorf("expected replaced value 2, got %q", value)
	}
}

func TestMemoryStoreRemoveAndKeys(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	for _, key := range []string{"x", "y", "z"} {
		if err := s.Set(ctx, key, key); err != nil {
			t.Fatalf("Set(%q) returned error: %v", key, err)
		}
	}

	if err := s.Remove(ctx, "y"); err != nil {
		t.Fatalf("Remove returned error: %v", err)
	}
	// Removing an absent key is not an error
	if err := s.Remove(ctx, "y"); err != nil {
		t.Fatalf("Remove of absent key returned error: %v", err)
	}

	keys, err := s.Keys(ctx)
	if err != nil {
		t.Fatalf("Keys returned error: %v", err)
	}
	sort.Strings(keys)
	if len(keys) != 2 || keys[0] != "x" || keys[1] != "z" {
		t.Errorf("expected keys [x z], got %v", keys)
	}
}
