package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/riskibarqy/frogcrew/internal/domain/availability"
	"github.com/riskibarqy/frogcrew/internal/domain/roster"
	"github.com/riskibarqy/frogcrew/internal/platform/logging"
)

const maxAvailabilityCommentLength = 500

type SubmitAvailabilityInput struct {
	UserID    int64
	GameID    int64
	Available bool
	Comment   string
}

type AvailabilityService struct {
	store  roster.Store
	events Events
	logger *logging.Logger
	now    func() time.Time
}

func NewAvailabilityService(store roster.Store, events Events, logger *logging.Logger) *AvailabilityService {
	if logger == nil {
		logger = logging.Default()
	}
	return &AvailabilityService{
		store:  store,
		events: eventsOrNoop(events),
		logger: logger,
		now:    time.Now,
	}
}

// Submit records a member's answer for a game. Each pair answers once; a
// second submission is a conflict and the first record stays.
func (s *AvailabilityService) Submit(ctx context.Context, input SubmitAvailabilityInput) (availability.Record, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AvailabilityService.Submit",
		attrGameID.Int64(input.GameID), attrUserID.Int64(input.UserID))
	defer span.End()

	comment := strings.TrimSpace(input.Comment)
	if utf8.RuneCountInString(comment) > maxAvailabilityCommentLength {
		return availability.Record{}, fmt.Errorf("%w: comment must be at most %d characters", ErrInvalidInput, maxAvailabilityCommentLength)
	}

	record := availability.Record{
		UserID:      input.UserID,
		GameID:      input.GameID,
		Available:   input.Available,
		Comment:     comment,
		SubmittedAt: s.now().UTC(),
	}
	err := s.store.Update(ctx, func(ctx context.Context, repos roster.Repositories) error {
		if _, err := getMember(ctx, repos, input.UserID); err != nil {
			return err
		}
		if _, err := getGame(ctx, repos, input.GameID); err != nil {
			return err
		}
		if err := repos.Availability().Insert(ctx, record); err != nil {
			return fmt.Errorf("insert availability: %w", err)
		}
		return nil
	})
	if err != nil {
		return availability.Record{}, classify(err)
	}

	s.events.AvailabilitySubmitted(record.Available)
	s.logger.InfoContext(ctx, "availability submitted",
		"user_id", record.UserID,
		"game_id", record.GameID,
		"available", record.Available,
	)
	return record, nil
}

// Get reports found=false when the member has not answered for the game.
func (s *AvailabilityService) Get(ctx context.Context, userID, gameID int64) (availability.Record, bool, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AvailabilityService.Get")
	defer span.End()

	var (
		out   availability.Record
		found bool
	)
	err := s.store.View(ctx, func(ctx context.Context, repos roster.Repositories) error {
		rec, ok, err := repos.Availability().Get(ctx, userID, gameID)
		if err != nil {
			return fmt.Errorf("get availability: %w", err)
		}
		out, found = rec, ok
		return nil
	})
	return out, found, classify(err)
}

func (s *AvailabilityService) List(ctx context.Context) ([]availability.Record, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AvailabilityService.List")
	defer span.End()

	var out []availability.Record
	err := s.store.View(ctx, func(ctx context.Context, repos roster.Repositories) error {
		records, err := repos.Availability().List(ctx)
		if err != nil {
			return fmt.Errorf("list availability: %w", err)
		}
		out = records
		return nil
	})
	return out, classify(err)
}

func (s *AvailabilityService) ListByGame(ctx context.Context, gameID int64) ([]availability.Record, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AvailabilityService.ListByGame")
	defer span.End()

	var out []availability.Record
	err := s.store.View(ctx, func(ctx context.Context, repos roster.Repositories) error {
		if _, err := getGame(ctx, repos, gameID); err != nil {
			return err
		}
		records, err := repos.Availability().ListByGame(ctx, gameID)
		if err != nil {
			return fmt.Errorf("list availability by game: %w", err)
		}
		out = records
		return nil
	})
	return out, classify(err)
}

func (s *AvailabilityService) ListByUser(ctx context.Context, userID int64) ([]availability.Record, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AvailabilityService.ListByUser")
	defer span.End()

	var out []availability.Record
	err := s.store.View(ctx, func(ctx context.Context, repos roster.Repositories) error {
		if _, err := getMember(ctx, repos, userID); err != nil {
			return err
		}
		records, err := repos.Availability().ListByUser(ctx, userID)
		if err != nil {
			return fmt.Errorf("list availability by user: %w", err)
		}
		out = records
		return nil
	})
	return out, classify(err)
}
