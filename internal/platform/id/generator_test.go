package id

import (
	"testing"

	"github.com/google/uuid"
)

func TestTokenGenerator_UniqueHex(t *testing.T) {
	gen := NewTokenGenerator(16)
	seen := make(map[string]struct{}, 64)
	for i := 0; i < 64; i++ {
		v, err := gen.NewID()
		if err != nil {
			t.Fatalf("new id: %v", err)
		}
		if len(v) != 32 {
			t.Fatalf("expected 32 hex chars, got %d (%s)", len(v), v)
		}
		if _, dup := seen[v]; dup {
			t.Fatalf("duplicate token %s", v)
		}
		seen[v] = struct{}{}
	}
}

func TestTokenGenerator_MinimumSize(t *testing.T) {
	v, err := NewTokenGenerator(4).NewID()
	if err != nil {
		t.Fatalf("new id: %v", err)
	}
	if len(v) != 32 {
		t.Fatalf("expected size to be raised to 16 bytes, got %d chars", len(v))
	}
}

func TestUUIDGenerator_Parses(t *testing.T) {
	v, err := NewUUIDGenerator().NewID()
	if err != nil {
		t.Fatalf("new id: %v", err)
	}
	if _, err := uuid.Parse(v); err != nil {
		t.Fatalf("expected valid uuid, got %q: %v", v, err)
	}
}

func TestSequence_Exhausts(t *testing.T) {
	seq := NewSequence("a", "b")
	for _, want := range []string{"a", "b"} {
		got, err := seq.NewID()
		if err != nil || got != want {
			t.Fatalf("got=%q err=%v want=%q", got, err, want)
		}
	}
	if _, err := seq.NewID(); err == nil {
		t.Fatalf("expected exhausted sequence error")
	}
}
