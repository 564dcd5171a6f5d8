package usecase

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/riskibarqy/frogcrew/internal/domain/availability"
	"github.com/riskibarqy/frogcrew/internal/domain/crewmember"
	"github.com/riskibarqy/frogcrew/internal/domain/game"
	"github.com/riskibarqy/frogcrew/internal/domain/position"
	"github.com/riskibarqy/frogcrew/internal/domain/roster"
	"github.com/riskibarqy/frogcrew/internal/platform/cache"
	"github.com/riskibarqy/frogcrew/internal/platform/logging"
)

type AssignInput struct {
	GameID         int64
	UserID         int64
	Position       string
	ReportTime     string
	ReportLocation string
}

// CrewList is the printable crew sheet of one game.
type CrewList struct {
	GameID        int64             `json:"gameId"`
	GameDate      string            `json:"gameDate"`
	GameStart     string            `json:"gameStart"`
	Venue         string            `json:"venue"`
	Opponent      string            `json:"opponent"`
	Status        game.Status       `json:"status"`
	CrewedMembers []game.Assignment `json:"crewedMembers"`
}

type AssignmentService struct {
	store  roster.Store
	rules  game.Rules
	cache  *cache.Store
	events Events
	logger *logging.Logger
}

// NewAssignmentService builds the service; readCache may be nil to disable
// crew list caching.
func NewAssignmentService(
	store roster.Store,
	rules game.Rules,
	readCache *cache.Store,
	events Events,
	logger *logging.Logger,
) *AssignmentService {
	if logger == nil {
		logger = logging.Default()
	}

	return &AssignmentService{
		store:  store,
		rules:  rules,
		cache:  readCache,
		events: eventsOrNoop(events),
		logger: logger,
	}
}

// EligibleCandidates lists members qualified for rawPosition who are not
// already crewing the game and, when gating is on, have not declined it.
func (s *AssignmentService) EligibleCandidates(ctx context.Context, gameID int64, rawPosition string) ([]crewmember.Member, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AssignmentService.EligibleCandidates",
		attrGameID.Int64(gameID), attrPosition.String(rawPosition))
	defer span.End()

	p, err := position.Parse(rawPosition)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	var out []crewmember.Member
	err = s.store.View(ctx, func(ctx context.Context, repos roster.Repositories) error {
		g, err := getGame(ctx, repos, gameID)
		if err != nil {
			return err
		}
		members, err := repos.Crew().ListMembers(ctx)
		if err != nil {
			return fmt.Errorf("list crew members: %w", err)
		}
		lookup, err := availabilityLookup(ctx, repos, gameID)
		if err != nil {
			return err
		}
		out = s.rules.EligibleCandidates(g, members, p, lookup)
		return nil
	})
	return out, classify(err)
}

// Assign places one member on one position of a game.
func (s *AssignmentService) Assign(ctx context.Context, input AssignInput) (game.Assignment, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AssignmentService.Assign",
		attrGameID.Int64(input.GameID), attrUserID.Int64(input.UserID), attrPosition.String(input.Position))
	defer span.End()

	draft, err := parseAssignInput(input)
	if err != nil {
		s.events.AssignmentRejected(rejectionReason(err))
		return game.Assignment{}, err
	}

	var out game.Assignment
	err = s.store.Update(ctx, func(ctx context.Context, repos roster.Repositories) error {
		g, err := getGame(ctx, repos, input.GameID)
		if err != nil {
			return err
		}
		a, err := s.assign(ctx, repos, &g, input.UserID, draft)
		if err != nil {
			return err
		}
		if err := repos.Games().Update(ctx, g); err != nil {
			return fmt.Errorf("update game: %w", err)
		}
		out = a
		return nil
	})
	if err != nil {
		err = classify(err)
		s.events.AssignmentRejected(rejectionReason(err))
		return game.Assignment{}, err
	}

	s.events.AssignmentCommitted(out.Position)
	s.logger.InfoContext(ctx, "crew member assigned",
		"game_id", out.GameID,
		"user_id", out.UserID,
		"position", out.Position,
		"crewed_user_id", out.CrewedUserID,
	)
	return out, nil
}

// AssignBulk applies every input to gameID in one transaction. The first
// failure discards all of them.
func (s *AssignmentService) AssignBulk(ctx context.Context, gameID int64, inputs []AssignInput) (game.Game, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AssignmentService.AssignBulk", attrGameID.Int64(gameID))
	defer span.End()

	if len(inputs) == 0 {
		return game.Game{}, fmt.Errorf("%w: at least one assignment is required", ErrInvalidInput)
	}
	drafts := make([]game.Assignment, len(inputs))
	for i, in := range inputs {
		in.GameID = gameID
		draft, err := parseAssignInput(in)
		if err != nil {
			return game.Game{}, err
		}
		drafts[i] = draft
	}

	var out game.Game
	err := s.store.Update(ctx, func(ctx context.Context, repos roster.Repositories) error {
		g, err := getGame(ctx, repos, gameID)
		if err != nil {
			return err
		}
		for i, in := range inputs {
			if _, err := s.assign(ctx, repos, &g, in.UserID, drafts[i]); err != nil {
				s.logger.WarnContext(ctx, "bulk assignment rejected",
					"game_id", gameID,
					"index", i,
					"user_id", in.UserID,
					"error", err,
				)
				return err
			}
		}
		if err := repos.Games().Update(ctx, g); err != nil {
			return fmt.Errorf("update game: %w", err)
		}
		out = g
		return nil
	})
	if err != nil {
		err = classify(err)
		s.events.AssignmentRejected(rejectionReason(err))
		return game.Game{}, err
	}

	for _, a := range out.CrewedMembers[len(out.CrewedMembers)-len(inputs):] {
		s.events.AssignmentCommitted(a.Position)
	}
	s.logger.InfoContext(ctx, "crew schedule assigned", "game_id", gameID, "count", len(inputs))
	return out, nil
}

// Remove drops the assignment with crewedUserID from the game.
func (s *AssignmentService) Remove(ctx context.Context, gameID, crewedUserID int64) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.AssignmentService.Remove",
		attrGameID.Int64(gameID), attrCrewedUserID.Int64(crewedUserID))
	defer span.End()

	var removed game.Assignment
	err := s.store.Update(ctx, func(ctx context.Context, repos roster.Repositories) error {
		g, err := getGame(ctx, repos, gameID)
		if err != nil {
			return err
		}
		removed, err = game.Remove(&g, crewedUserID)
		if err != nil {
			return fmt.Errorf("%w: Could not find assignment with id %d", ErrNotFound, crewedUserID)
		}
		if err := repos.Games().Update(ctx, g); err != nil {
			return fmt.Errorf("update game: %w", err)
		}
		return nil
	})
	if err != nil {
		return classify(err)
	}

	s.logger.InfoContext(ctx, "assignment removed",
		"game_id", gameID,
		"crewed_user_id", crewedUserID,
		"user_id", removed.UserID,
	)
	return nil
}

// CrewList is served from the read cache keyed by store version, so any
// committed write makes older entries unreachable.
func (s *AssignmentService) CrewList(ctx context.Context, gameID int64) (CrewList, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AssignmentService.CrewList")
	defer span.End()

	if s.cache == nil {
		return s.loadCrewList(ctx, gameID)
	}

	key := crewListCacheKey(s.store.Version(), gameID)
	value, err := s.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		return s.loadCrewList(ctx, gameID)
	})
	if err != nil {
		return CrewList{}, err
	}
	list, ok := value.(CrewList)
	if !ok {
		return s.loadCrewList(ctx, gameID)
	}
	list.CrewedMembers = slices.Clone(list.CrewedMembers)
	return list, nil
}

func (s *AssignmentService) loadCrewList(ctx context.Context, gameID int64) (CrewList, error) {
	var out CrewList
	err := s.store.View(ctx, func(ctx context.Context, repos roster.Repositories) error {
		g, err := getGame(ctx, repos, gameID)
		if err != nil {
			return err
		}
		out = CrewList{
			GameID:        g.ID,
			GameDate:      g.GameDate,
			GameStart:     g.GameStart,
			Venue:         g.Venue,
			Opponent:      g.Opponent,
			Status:        g.Status,
			CrewedMembers: g.CrewedMembers,
		}
		if out.CrewedMembers == nil {
			out.CrewedMembers = []game.Assignment{}
		}
		return nil
	})
	return out, classify(err)
}

// assign runs the rules for one member against g inside an Update.
func (s *AssignmentService) assign(ctx context.Context, repos roster.Repositories, g *game.Game, userID int64, draft game.Assignment) (game.Assignment, error) {
	member, err := getMember(ctx, repos, userID)
	if err != nil {
		return game.Assignment{}, err
	}
	lookup, err := availabilityLookup(ctx, repos, g.ID)
	if err != nil {
		return game.Assignment{}, err
	}
	draft.CrewedUserID = repos.NextID(roster.SeqCrewedUser)
	return s.rules.Assign(g, member, draft, lookup)
}

func parseAssignInput(input AssignInput) (game.Assignment, error) {
	if input.UserID <= 0 {
		return game.Assignment{}, fmt.Errorf("%w: user id must be positive", ErrInvalidInput)
	}
	p, err := position.Parse(input.Position)
	if err != nil {
		return game.Assignment{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	reportTime := strings.TrimSpace(input.ReportTime)
	if reportTime != "" {
		if _, err := time.Parse(game.TimeLayout, reportTime); err != nil {
			return game.Assignment{}, fmt.Errorf("%w: invalid report time %q, expected HH:MM", ErrInvalidInput, input.ReportTime)
		}
	}
	return game.Assignment{
		Position:       p,
		ReportTime:     reportTime,
		ReportLocation: strings.TrimSpace(input.ReportLocation),
	}, nil
}

// availabilityLookup snapshots the game's ledger for the rules engine.
func availabilityLookup(ctx context.Context, repos roster.Repositories, gameID int64) (game.AvailabilityLookup, error) {
	records, err := repos.Availability().ListByGame(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("list availability: %w", err)
	}
	byUser := make(map[int64]availability.Record, len(records))
	for _, r := range records {
		byUser[r.UserID] = r
	}
	return func(userID int64) (bool, bool) {
		r, ok := byUser[userID]
		return r.Available, ok
	}, nil
}

func crewListCacheKey(version uint64, gameID int64) string {
	return "crewlist:" + strconv.FormatUint(version, 10) + ":" + strconv.FormatInt(gameID, 10)
}
