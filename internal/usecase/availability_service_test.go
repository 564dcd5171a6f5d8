package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/riskibarqy/frogcrew/internal/platform/logging"
)

func TestAvailabilityService_Submit(t *testing.T) {
	ctx := context.Background()
	events := &recordedEvents{}
	svc := NewAvailabilityService(newSeededStore(t, nil), events, logging.NewNop())
	svc.now = func() time.Time { return fixedNow }

	rec, err := svc.Submit(ctx, SubmitAvailabilityInput{UserID: 3, GameID: 1, Available: true, Comment: "  can stay late "})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if rec.Comment != "can stay late" || !rec.SubmittedAt.Equal(fixedNow) {
		t.Fatalf("unexpected record %+v", rec)
	}
	if events.submitted != 1 {
		t.Fatalf("expected one submitted event, got %d", events.submitted)
	}

	got, found, err := svc.Get(ctx, 3, 1)
	if err != nil || !found {
		t.Fatalf("get: found=%v err=%v", found, err)
	}
	if !got.Available {
		t.Fatalf("expected available record, got %+v", got)
	}

	if _, found, err := svc.Get(ctx, 4, 1); err != nil || found {
		t.Fatalf("expected no record for user 4, found=%v err=%v", found, err)
	}
}

func TestAvailabilityService_SubmitRejects(t *testing.T) {
	tests := []struct {
		name   string
		input  SubmitAvailabilityInput
		target error
	}{
		{name: "unknown user", input: SubmitAvailabilityInput{UserID: 40, GameID: 1}, target: ErrNotFound},
		{name: "unknown game", input: SubmitAvailabilityInput{UserID: 1, GameID: 40}, target: ErrNotFound},
		{name: "long comment", input: SubmitAvailabilityInput{UserID: 1, GameID: 1, Comment: strings.Repeat("x", 501)}, target: ErrInvalidInput},
		{name: "long accented comment", input: SubmitAvailabilityInput{UserID: 1, GameID: 1, Comment: strings.Repeat("é", 501)}, target: ErrInvalidInput},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			events := &recordedEvents{}
			svc := NewAvailabilityService(newSeededStore(t, nil), events, logging.NewNop())

			if _, err := svc.Submit(context.Background(), tc.input); !errors.Is(err, tc.target) {
				t.Fatalf("expected %v, got %v", tc.target, err)
			}
			if events.submitted != 0 {
				t.Fatalf("rejected submit should not emit an event")
			}
		})
	}
}

func TestAvailabilityService_CommentLimitCountsCharacters(t *testing.T) {
	svc := NewAvailabilityService(newSeededStore(t, nil), nil, logging.NewNop())

	comment := strings.Repeat("é", 500)
	rec, err := svc.Submit(context.Background(), SubmitAvailabilityInput{UserID: 4, GameID: 1, Available: false, Comment: comment})
	if err != nil {
		t.Fatalf("expected a 500 character comment to be accepted, got %v", err)
	}
	if rec.Comment != comment {
		t.Fatalf("comment was altered")
	}
}

func TestAvailabilityService_Listings(t *testing.T) {
	ctx := context.Background()
	svc := NewAvailabilityService(newSeededStore(t, nil), nil, logging.NewNop())

	for _, in := range []SubmitAvailabilityInput{
		{UserID: 1, GameID: 1, Available: true},
		{UserID: 3, GameID: 1, Available: false},
		{UserID: 3, GameID: 2, Available: true},
	} {
		if _, err := svc.Submit(ctx, in); err != nil {
			t.Fatalf("submit %+v: %v", in, err)
		}
	}

	byGame, err := svc.ListByGame(ctx, 1)
	if err != nil {
		t.Fatalf("list by game: %v", err)
	}
	if len(byGame) != 2 {
		t.Fatalf("expected 2 records for game 1, got %d", len(byGame))
	}

	byUser, err := svc.ListByUser(ctx, 3)
	if err != nil {
		t.Fatalf("list by user: %v", err)
	}
	if len(byUser) != 2 {
		t.Fatalf("expected 2 records for user 3, got %d", len(byUser))
	}

	if _, err := svc.ListByGame(ctx, 99); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found game, got %v", err)
	}
	if _, err := svc.ListByUser(ctx, 99); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found user, got %v", err)
	}
}
