package id

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"github.com/google/uuid"
)

// Generator creates opaque IDs suitable for external references.
type Generator interface {
	NewID() (string, error)
}

// TokenGenerator returns hex strings with the given number of random bytes.
type TokenGenerator struct {
	size int
}

func NewTokenGenerator(size int) *TokenGenerator {
	if size < 16 {
		size = 16
	}
	return &TokenGenerator{size: size}
}

func (g *TokenGenerator) NewID() (string, error) {
	buf := make([]byte, g.size)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}

	return hex.EncodeToString(buf), nil
}

type UUIDGenerator struct{}

func NewUUIDGenerator() *UUIDGenerator {
	return &UUIDGenerator{}
}

func (g *UUIDGenerator) NewID() (string, error) {
	v, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("generate uuid: %w", err)
	}
	return v.String(), nil
}

// Sequence replays a fixed list of IDs; tests use it for deterministic tokens.
type Sequence struct {
	values []string
	next   int
}

func NewSequence(values ...string) *Sequence {
	return &Sequence{values: append([]string(nil), values...)}
}

func (s *Sequence) NewID() (string, error) {
	if s.next >= len(s.values) {
		return "", fmt.Errorf("id sequence exhausted after %d values", len(s.values))
	}
	v := s.values[s.next]
	s.next++
	return v, nil
}
