package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/riskibarqy/frogcrew/internal/domain/game"
	"github.com/riskibarqy/frogcrew/internal/domain/position"
	"github.com/riskibarqy/frogcrew/internal/domain/roster"
	"github.com/riskibarqy/frogcrew/internal/platform/logging"
)

type CreateGameInput struct {
	ScheduleID        int64
	Sport             string
	GameDate          string
	GameStart         string
	Venue             string
	Opponent          string
	RequiredPositions []string
}

// UpdateGameInput edits only the non-nil fields. Status and crew are
// changed through Publish and AssignmentService.
type UpdateGameInput struct {
	ScheduleID        *int64
	Sport             *string
	GameDate          *string
	GameStart         *string
	Venue             *string
	Opponent          *string
	RequiredPositions *[]string
}

type GameService struct {
	store  roster.Store
	logger *logging.Logger
}

func NewGameService(store roster.Store, logger *logging.Logger) *GameService {
	if logger == nil {
		logger = logging.Default()
	}
	return &GameService{store: store, logger: logger}
}

// List returns every game, or only the games of scheduleID when it is set.
func (s *GameService) List(ctx context.Context, scheduleID int64) ([]game.Game, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.GameService.List")
	defer span.End()

	var out []game.Game
	err := s.store.View(ctx, func(ctx context.Context, repos roster.Repositories) error {
		var err error
		if scheduleID > 0 {
			if _, err := getSchedule(ctx, repos, scheduleID); err != nil {
				return err
			}
			out, err = repos.Games().ListBySchedule(ctx, scheduleID)
		} else {
			out, err = repos.Games().List(ctx)
		}
		if err != nil {
			return fmt.Errorf("list games: %w", err)
		}
		return nil
	})
	return out, classify(err)
}

func (s *GameService) Get(ctx context.Context, gameID int64) (game.Game, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.GameService.Get")
	defer span.End()

	var out game.Game
	err := s.store.View(ctx, func(ctx context.Context, repos roster.Repositories) error {
		g, err := getGame(ctx, repos, gameID)
		out = g
		return err
	})
	return out, classify(err)
}

// Create stores a DRAFT game with an empty crew.
func (s *GameService) Create(ctx context.Context, input CreateGameInput) (game.Game, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.GameService.Create")
	defer span.End()

	g := game.Game{
		ScheduleID:    input.ScheduleID,
		Sport:         strings.TrimSpace(input.Sport),
		GameDate:      strings.TrimSpace(input.GameDate),
		GameStart:     strings.TrimSpace(input.GameStart),
		Venue:         strings.TrimSpace(input.Venue),
		Opponent:      strings.TrimSpace(input.Opponent),
		Status:        game.StatusDraft,
		CrewedMembers: []game.Assignment{},
	}
	if missing := game.MissingFields(g); len(missing) > 0 {
		return game.Game{}, fmt.Errorf("%w: missing required fields: %s", ErrInvalidInput, strings.Join(missing, ", "))
	}
	required, err := position.ParseSet(input.RequiredPositions)
	if err != nil {
		return game.Game{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	g.RequiredPositions = required

	err = s.store.Update(ctx, func(ctx context.Context, repos roster.Repositories) error {
		if g.ScheduleID > 0 {
			if _, err := getSchedule(ctx, repos, g.ScheduleID); err != nil {
				return err
			}
		}
		g.ID = repos.NextID(roster.SeqGame)
		if err := g.Validate(); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		if err := repos.Games().Create(ctx, g); err != nil {
			return fmt.Errorf("create game: %w", err)
		}
		return nil
	})
	if err != nil {
		return game.Game{}, classify(err)
	}

	s.logger.InfoContext(ctx, "game created", "game_id", g.ID, "schedule_id", g.ScheduleID)
	return g, nil
}

func (s *GameService) Update(ctx context.Context, gameID int64, input UpdateGameInput) (game.Game, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.GameService.Update")
	defer span.End()

	var required []position.Position
	if input.RequiredPositions != nil {
		parsed, err := position.ParseSet(*input.RequiredPositions)
		if err != nil {
			return game.Game{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		required = parsed
	}

	var out game.Game
	err := s.store.Update(ctx, func(ctx context.Context, repos roster.Repositories) error {
		g, err := getGame(ctx, repos, gameID)
		if err != nil {
			return err
		}

		if input.ScheduleID != nil {
			if *input.ScheduleID > 0 {
				if _, err := getSchedule(ctx, repos, *input.ScheduleID); err != nil {
					return err
				}
			}
			g.ScheduleID = *input.ScheduleID
		}
		setTrimmed(&g.Sport, input.Sport)
		setTrimmed(&g.GameDate, input.GameDate)
		setTrimmed(&g.GameStart, input.GameStart)
		setTrimmed(&g.Venue, input.Venue)
		setTrimmed(&g.Opponent, input.Opponent)
		if input.RequiredPositions != nil {
			for _, a := range g.CrewedMembers {
				if !position.Contains(required, a.Position) {
					return fmt.Errorf("%w: position %s is crewed and cannot be removed from required positions", ErrConflict, a.Position)
				}
			}
			g.RequiredPositions = required
		}

		if g.IsPublished() {
			if missing := game.MissingFields(g); len(missing) > 0 {
				return fmt.Errorf("%w: published game cannot clear %s", ErrInvalidInput, strings.Join(missing, ", "))
			}
		}
		if err := g.Validate(); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		if err := repos.Games().Update(ctx, g); err != nil {
			return fmt.Errorf("update game: %w", err)
		}
		out = g
		return nil
	})
	return out, classify(err)
}

// Publish moves a DRAFT game to PUBLISHED. A published game is returned
// unchanged and nothing is written.
func (s *GameService) Publish(ctx context.Context, gameID int64) (game.Game, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.GameService.Publish", attrGameID.Int64(gameID))
	defer span.End()

	var (
		out     game.Game
		changed bool
	)
	err := s.store.View(ctx, func(ctx context.Context, repos roster.Repositories) error {
		g, err := getGame(ctx, repos, gameID)
		out = g
		return err
	})
	if err != nil {
		return game.Game{}, classify(err)
	}
	if out.IsPublished() {
		return out, nil
	}

	err = s.store.Update(ctx, func(ctx context.Context, repos roster.Repositories) error {
		g, err := getGame(ctx, repos, gameID)
		if err != nil {
			return err
		}
		changed, err = game.Publish(&g)
		if err != nil {
			return err
		}
		if !changed {
			out = g
			return nil
		}
		if err := repos.Games().Update(ctx, g); err != nil {
			return fmt.Errorf("update game: %w", err)
		}
		out = g
		return nil
	})
	if err != nil {
		return game.Game{}, classify(err)
	}

	if changed {
		s.logger.InfoContext(ctx, "game published", "game_id", gameID, "crew_count", len(out.CrewedMembers))
	}
	return out, nil
}

// Delete removes a DRAFT game together with its assignments and availability.
func (s *GameService) Delete(ctx context.Context, gameID int64) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.GameService.Delete")
	defer span.End()

	err := s.store.Update(ctx, func(ctx context.Context, repos roster.Repositories) error {
		g, err := getGame(ctx, repos, gameID)
		if err != nil {
			return err
		}
		if err := game.CheckDeletable(g); err != nil {
			return err
		}
		if err := repos.Availability().DeleteByGame(ctx, gameID); err != nil {
			return fmt.Errorf("delete availability: %w", err)
		}
		if err := repos.Games().Delete(ctx, gameID); err != nil {
			return fmt.Errorf("delete game: %w", err)
		}
		return nil
	})
	if err != nil {
		return classify(err)
	}

	s.logger.InfoContext(ctx, "game deleted", "game_id", gameID)
	return nil
}

func getGame(ctx context.Context, repos roster.Repositories, gameID int64) (game.Game, error) {
	if gameID <= 0 {
		return game.Game{}, fmt.Errorf("%w: game id must be positive", ErrInvalidInput)
	}
	g, exists, err := repos.Games().GetByID(ctx, gameID)
	if err != nil {
		return game.Game{}, fmt.Errorf("get game: %w", err)
	}
	if !exists {
		return game.Game{}, fmt.Errorf("%w: Could not find game with id %d", ErrNotFound, gameID)
	}
	return g, nil
}

func setTrimmed(dst *string, src *string) {
	if src != nil {
		*dst = strings.TrimSpace(*src)
	}
}
