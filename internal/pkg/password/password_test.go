package password

import (
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestHasher_HashAndCompare(t *testing.T) {
	h := NewHasher(bcrypt.MinCost)

	hash, err := h.Hash("dave123")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}
	if hash == "dave123" {
		t.Fatalf("expected password to be hashed")
	}
	if !h.Compare("dave123", hash) {
		t.Fatalf("expected matching password to compare true")
	}
	if h.Compare("wrong", hash) {
		t.Fatalf("expected wrong password to compare false")
	}
}

func TestHasher_Salted(t *testing.T) {
	h := NewHasher(bcrypt.MinCost)

	a, _ := h.Hash("same")
	b, _ := h.Hash("same")
	if a == b {
		t.Fatalf("expected different hashes for the same password")
	}
}

func TestNewHasher_CostFallback(t *testing.T) {
	if got := NewHasher(0).cost; got != bcrypt.DefaultCost {
		t.Fatalf("expected default cost, got %d", got)
	}
	if got := NewHasher(bcrypt.MaxCost + 1).cost; got != bcrypt.DefaultCost {
		t.Fatalf("expected default cost, got %d", got)
	}
}
