package usecase

import (
	"sync"
	"testing"
	"time"

	"github.com/riskibarqy/frogcrew/internal/domain/position"
	"github.com/riskibarqy/frogcrew/internal/domain/roster"
	"github.com/riskibarqy/frogcrew/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/frogcrew/internal/platform/logging"
)

// fixedNow is after both seeded games.
var fixedNow = time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)

type fakeHasher struct{}

func (fakeHasher) Hash(plain string) (string, error) { return "hash:" + plain, nil }

func seedSnapshot(t *testing.T) roster.Snapshot {
	t.Helper()
	snap, err := memory.DefaultSeed().Build(fakeHasher{}.Hash)
	if err != nil {
		t.Fatalf("build seed: %v", err)
	}
	return snap
}

func newSeededStore(t *testing.T, persister roster.Persister) *memory.Store {
	t.Helper()
	return memory.NewStore(seedSnapshot(t), persister, logging.NewNop())
}

func newEmptyStore() *memory.Store {
	return memory.NewStore(roster.Snapshot{}, nil, logging.NewNop())
}

type recordedEvents struct {
	mu        sync.Mutex
	committed []position.Position
	rejected  []string
	issued    int
	failed    int
	submitted int
}

func (e *recordedEvents) AssignmentCommitted(p position.Position) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.committed = append(e.committed, p)
}

func (e *recordedEvents) AssignmentRejected(reason string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.rejected = append(e.rejected, reason)
}

func (e *recordedEvents) AvailabilitySubmitted(bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.submitted++
}

func (e *recordedEvents) InvitationsIssued(count int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.issued += count
}

func (e *recordedEvents) NotificationFailed() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.failed++
}
