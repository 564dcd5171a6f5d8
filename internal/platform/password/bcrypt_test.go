package password

import (
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestHasher_RoundTrip(t *testing.T) {
	h := Hasher{Cost: bcrypt.MinCost}

	hash, err := h.Hash("horned-frogs")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if hash == "horned-frogs" {
		t.Fatalf("hash must not equal plain text")
	}
	if err := h.Compare(hash, "horned-frogs"); err != nil {
		t.Fatalf("compare: %v", err)
	}
	if err := h.Compare(hash, "wrong-pass"); !errors.Is(err, ErrMismatch) {
		t.Fatalf("expected ErrMismatch, got %v", err)
	}
}

func TestHasher_RejectsShortPassword(t *testing.T) {
	if _, err := (Hasher{Cost: bcrypt.MinCost}).Hash("short"); err == nil {
		t.Fatalf("expected short password to be rejected")
	}
}
