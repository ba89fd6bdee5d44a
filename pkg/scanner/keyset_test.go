package scanner

import (
	"fmt"
	"testing"
)

func TestKeySetBasics(t *testing.T) {
	set := NewKeySet()
	if set.Contains("a") {
		t.Error("empty set should not contain anything")
	}
	set.Add("a")
	if !set.Contains("a") {
		t.Error("added key missing")
	}
	set.Remove("a")
	if set.Contains("a") {
		t.Error("removed key still present")
	}
}

func TestBoundedKeySetClearsWholesale(t *testing.T) {
	set := NewBoundedKeySet(10)
	for i := 0; i < 10; i++ {
		if cleared := set.Add(fmt.Sprintf("k%d", i)); cleared {
			t.Fatalf("unexpected clear at %d entries", i)
		}
	}
	if set.Len() != 10 {
		t.Fatalf("expected 10 entries, got %d", set.Len())
	}

	// The 11th Add hits the bound and resets everything first.
	if cleared := set.Add("overflow"); !cleared {
		t.Error("expected wholesale clear at the bound")
	}
	if set.Len() != 1 {
		t.Errorf("expected only the new key after the clear, got %d", set.Len())
	}
	if !set.Contains("overflow") {
		t.Error("new key must survive the clear")
	}
	if set.Contains("k0") {
		t.Error("old keys must be gone after the clear")
	}
}

func TestKeySetDrain(t *testing.T) {
	set := NewKeySet()
	set.Add("a")
	set.Add("b")

	keys := set.Drain()
	if len(keys) != 2 {
		t.Fatalf("expected 2 drained keys, got %d", len(keys))
	}
	if set.Len() != 0 {
		t.Errorf("set should be empty after drain, has %d", set.Len())
	}
	if set.Drain() != nil {
		t.Error("draining an empty set should return nil")
	}
}
