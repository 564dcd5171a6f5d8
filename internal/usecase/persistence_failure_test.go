package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/riskibarqy/frogcrew/internal/domain/game"
	"github.com/riskibarqy/frogcrew/internal/infrastructure/repository/snapshot"
	rostermock "github.com/riskibarqy/frogcrew/internal/mocks/domain/roster"
	"github.com/riskibarqy/frogcrew/internal/platform/logging"
	"github.com/riskibarqy/frogcrew/internal/platform/resilience"
)

func TestFailedSaveLeavesStateUnchanged(t *testing.T) {
	ctx := context.Background()
	persister := rostermock.NewPersister(t)
	persister.On("Save", mock.Anything, mock.Anything).Return(errors.New("disk full")).Once()

	store := newSeededStore(t, persister)
	assignments := NewAssignmentService(store, game.DefaultRules(), nil, nil, logging.NewNop())

	_, err := assignments.Assign(ctx, AssignInput{GameID: 1, UserID: 4, Position: "AUDIO"})
	if err == nil {
		t.Fatalf("expected save failure")
	}
	if PublicMessage(err) != "" {
		t.Fatalf("storage failures must not expose a public message, got %q", PublicMessage(err))
	}

	g, err := NewGameService(store, logging.NewNop()).Get(ctx, 1)
	if err != nil {
		t.Fatalf("get game: %v", err)
	}
	if len(g.CrewedMembers) != 2 {
		t.Fatalf("expected rollback to keep 2 crew, got %d", len(g.CrewedMembers))
	}
	if store.Version() != 0 {
		t.Fatalf("expected version 0 after rollback, got %d", store.Version())
	}

	// The crewed-user sequence allocation was discarded with the failed write.
	persister.On("Save", mock.Anything, mock.Anything).Return(nil).Once()
	a, err := assignments.Assign(ctx, AssignInput{GameID: 1, UserID: 4, Position: "AUDIO"})
	if err != nil {
		t.Fatalf("assign after recovery: %v", err)
	}
	if a.CrewedUserID != 3 {
		t.Fatalf("expected crewed user id 3, got %d", a.CrewedUserID)
	}
}

func TestOpenCircuitMapsToDependencyUnavailable(t *testing.T) {
	ctx := context.Background()
	persister := rostermock.NewPersister(t)
	persister.On("Save", mock.Anything, mock.Anything).Return(errors.New("connection refused")).Once()

	guarded := snapshot.Guard(persister, resilience.CircuitBreakerConfig{
		Enabled:          true,
		FailureThreshold: 1,
		OpenTimeout:      time.Minute,
		HalfOpenMaxReq:   1,
	}, "test", logging.NewNop())
	store := newSeededStore(t, guarded)
	svc := NewScheduleService(store, logging.NewNop())

	if _, err := svc.Create(ctx, CreateScheduleInput{Sport: "Hockey", Season: "2025-2026"}); err == nil {
		t.Fatalf("expected first save to fail")
	}

	_, err := svc.Create(ctx, CreateScheduleInput{Sport: "Hockey", Season: "2025-2026"})
	if !errors.Is(err, ErrDependencyUnavailable) {
		t.Fatalf("expected dependency unavailable once the circuit opens, got %v", err)
	}
	if got := PublicMessage(err); got != "Storage is temporarily unavailable" {
		t.Fatalf("unexpected message %q", got)
	}
}
