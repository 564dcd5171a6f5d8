package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/riskibarqy/frogcrew/internal/domain/roster"
	"github.com/riskibarqy/frogcrew/internal/domain/schedule"
	"github.com/riskibarqy/frogcrew/internal/platform/logging"
)

type CreateScheduleInput struct {
	Sport  string
	Season string
}

type ScheduleService struct {
	store  roster.Store
	logger *logging.Logger
}

func NewScheduleService(store roster.Store, logger *logging.Logger) *ScheduleService {
	if logger == nil {
		logger = logging.Default()
	}
	return &ScheduleService{store: store, logger: logger}
}

func (s *ScheduleService) List(ctx context.Context) ([]schedule.Schedule, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScheduleService.List")
	defer span.End()

	var out []schedule.Schedule
	err := s.store.View(ctx, func(ctx context.Context, repos roster.Repositories) error {
		items, err := repos.Schedules().List(ctx)
		if err != nil {
			return fmt.Errorf("list schedules: %w", err)
		}
		out = items
		return nil
	})
	return out, classify(err)
}

func (s *ScheduleService) Get(ctx context.Context, id int64) (schedule.Schedule, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScheduleService.Get")
	defer span.End()

	var out schedule.Schedule
	err := s.store.View(ctx, func(ctx context.Context, repos roster.Repositories) error {
		item, err := getSchedule(ctx, repos, id)
		out = item
		return err
	})
	return out, classify(err)
}

// Create rejects a second schedule for the same sport and season.
func (s *ScheduleService) Create(ctx context.Context, input CreateScheduleInput) (schedule.Schedule, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScheduleService.Create")
	defer span.End()

	item := schedule.Schedule{
		Sport:  strings.TrimSpace(input.Sport),
		Season: strings.TrimSpace(input.Season),
	}
	if err := item.Validate(); err != nil {
		return schedule.Schedule{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	err := s.store.Update(ctx, func(ctx context.Context, repos roster.Repositories) error {
		existing, err := repos.Schedules().List(ctx)
		if err != nil {
			return fmt.Errorf("list schedules: %w", err)
		}
		for _, e := range existing {
			if strings.EqualFold(e.Sport, item.Sport) && strings.EqualFold(e.Season, item.Season) {
				return fmt.Errorf("%w: schedule for %s %s already exists", ErrConflict, item.Sport, item.Season)
			}
		}
		item.ID = repos.NextID(roster.SeqSchedule)
		if err := repos.Schedules().Create(ctx, item); err != nil {
			return fmt.Errorf("create schedule: %w", err)
		}
		return nil
	})
	if err != nil {
		return schedule.Schedule{}, classify(err)
	}

	s.logger.InfoContext(ctx, "schedule created", "schedule_id", item.ID, "sport", item.Sport, "season", item.Season)
	return item, nil
}

func getSchedule(ctx context.Context, repos roster.Repositories, id int64) (schedule.Schedule, error) {
	if id <= 0 {
		return schedule.Schedule{}, fmt.Errorf("%w: schedule id must be positive", ErrInvalidInput)
	}
	item, exists, err := repos.Schedules().GetByID(ctx, id)
	if err != nil {
		return schedule.Schedule{}, fmt.Errorf("get schedule: %w", err)
	}
	if !exists {
		return schedule.Schedule{}, fmt.Errorf("%w: Could not find schedule with id %d", ErrNotFound, id)
	}
	return item, nil
}
