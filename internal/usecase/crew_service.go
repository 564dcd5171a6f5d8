package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/frogcrew/internal/domain/crewmember"
	"github.com/riskibarqy/frogcrew/internal/domain/game"
	"github.com/riskibarqy/frogcrew/internal/domain/position"
	"github.com/riskibarqy/frogcrew/internal/domain/roster"
	"github.com/riskibarqy/frogcrew/internal/platform/logging"
	"github.com/riskibarqy/frogcrew/internal/platform/password"
)

// PasswordHasher is satisfied by password.Hasher.
type PasswordHasher interface {
	Hash(plain string) (string, error)
}

// CreateCrewMemberInput is the admin payload for adding a crew member
// without an invitation.
type CreateCrewMemberInput struct {
	FirstName   string
	LastName    string
	Email       string
	PhoneNumber string
	Password    string
	Role        string
	Positions   []string
	Experience  string
}

type CrewService struct {
	store  roster.Store
	hasher PasswordHasher
	logger *logging.Logger
	now    func() time.Time
}

func NewCrewService(store roster.Store, hasher PasswordHasher, logger *logging.Logger) *CrewService {
	if logger == nil {
		logger = logging.Default()
	}
	if hasher == nil {
		hasher = password.Hasher{}
	}

	return &CrewService{
		store:  store,
		hasher: hasher,
		logger: logger,
		now:    time.Now,
	}
}

func (s *CrewService) List(ctx context.Context) ([]crewmember.Member, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.CrewService.List")
	defer span.End()

	var out []crewmember.Member
	err := s.store.View(ctx, func(ctx context.Context, repos roster.Repositories) error {
		members, err := repos.Crew().ListMembers(ctx)
		if err != nil {
			return fmt.Errorf("list crew members: %w", err)
		}
		out = members
		return nil
	})
	return out, classify(err)
}

func (s *CrewService) Get(ctx context.Context, userID int64) (crewmember.Member, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.CrewService.Get")
	defer span.End()

	var out crewmember.Member
	err := s.store.View(ctx, func(ctx context.Context, repos roster.Repositories) error {
		member, err := getMember(ctx, repos, userID)
		out = member
		return err
	})
	return out, classify(err)
}

func (s *CrewService) Create(ctx context.Context, input CreateCrewMemberInput) (crewmember.Member, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.CrewService.Create")
	defer span.End()

	member, role, err := buildMember(memberFields{
		FirstName:   input.FirstName,
		LastName:    input.LastName,
		Email:       input.Email,
		PhoneNumber: input.PhoneNumber,
		Positions:   input.Positions,
		Experience:  input.Experience,
		Role:        input.Role,
	})
	if err != nil {
		return crewmember.Member{}, err
	}
	hash, err := hashPassword(s.hasher, input.Password)
	if err != nil {
		return crewmember.Member{}, err
	}

	err = s.store.Update(ctx, func(ctx context.Context, repos roster.Repositories) error {
		if _, exists, err := repos.Crew().GetUserByEmail(ctx, member.Email); err != nil {
			return fmt.Errorf("get user by email: %w", err)
		} else if exists {
			return fmt.Errorf("%w: email=%s", crewmember.ErrEmailTaken, member.Email)
		}

		member.UserID = repos.NextID(roster.SeqUser)
		user := crewmember.User{ID: member.UserID, Email: member.Email, PasswordHash: hash, Role: role}
		if err := repos.Crew().Create(ctx, user, member); err != nil {
			return fmt.Errorf("create crew member: %w", err)
		}
		return nil
	})
	if err != nil {
		return crewmember.Member{}, classify(err)
	}

	s.logger.InfoContext(ctx, "crew member created", "user_id", member.UserID, "role", role)
	return member, nil
}

// Delete removes the member and their availability. Members holding an
// assignment on an upcoming game cannot be deleted; past assignments keep
// the denormalized name.
func (s *CrewService) Delete(ctx context.Context, userID int64) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.CrewService.Delete")
	defer span.End()

	err := s.store.Update(ctx, func(ctx context.Context, repos roster.Repositories) error {
		if _, err := getMember(ctx, repos, userID); err != nil {
			return err
		}
		games, err := repos.Games().List(ctx)
		if err != nil {
			return fmt.Errorf("list games: %w", err)
		}
		if g, ok := game.UpcomingAssignment(games, userID, s.now().UTC()); ok {
			return fmt.Errorf("%w: user=%d game=%d", game.ErrHasUpcomingGames, userID, g.ID)
		}
		if err := repos.Availability().DeleteByUser(ctx, userID); err != nil {
			return fmt.Errorf("delete availability: %w", err)
		}
		if err := repos.Crew().Delete(ctx, userID); err != nil {
			return fmt.Errorf("delete crew member: %w", err)
		}
		return nil
	})
	if err != nil {
		return classify(err)
	}

	s.logger.InfoContext(ctx, "crew member deleted", "user_id", userID)
	return nil
}

func getMember(ctx context.Context, repos roster.Repositories, userID int64) (crewmember.Member, error) {
	if userID <= 0 {
		return crewmember.Member{}, fmt.Errorf("%w: user id must be positive", ErrInvalidInput)
	}
	member, exists, err := repos.Crew().GetMember(ctx, userID)
	if err != nil {
		return crewmember.Member{}, fmt.Errorf("get crew member: %w", err)
	}
	if !exists {
		return crewmember.Member{}, fmt.Errorf("%w: Could not find user with id %d", ErrNotFound, userID)
	}
	return member, nil
}

type memberFields struct {
	FirstName   string
	LastName    string
	Email       string
	PhoneNumber string
	Positions   []string
	Experience  string
	Role        string
}

// buildMember validates profile fields shared by admin create and redeem.
// UserID is left for the caller to allocate.
func buildMember(in memberFields) (crewmember.Member, crewmember.Role, error) {
	firstName := strings.TrimSpace(in.FirstName)
	lastName := strings.TrimSpace(in.LastName)
	if firstName == "" {
		return crewmember.Member{}, "", fmt.Errorf("%w: first name is required", ErrInvalidInput)
	}
	if lastName == "" {
		return crewmember.Member{}, "", fmt.Errorf("%w: last name is required", ErrInvalidInput)
	}

	email, err := crewmember.NormalizeEmail(in.Email)
	if err != nil {
		return crewmember.Member{}, "", fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	positions, err := position.ParseSet(in.Positions)
	if err != nil {
		return crewmember.Member{}, "", fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if len(positions) == 0 {
		return crewmember.Member{}, "", fmt.Errorf("%w: at least one position is required", ErrInvalidInput)
	}

	experience, err := crewmember.ParseExperience(in.Experience)
	if err != nil {
		return crewmember.Member{}, "", fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	role := crewmember.Role(strings.ToUpper(strings.TrimSpace(in.Role)))
	if role == "" {
		role = crewmember.RoleCrewMember
	}
	if !role.Valid() {
		return crewmember.Member{}, "", fmt.Errorf("%w: invalid role %q", ErrInvalidInput, in.Role)
	}

	return crewmember.Member{
		FirstName:   firstName,
		LastName:    lastName,
		Email:       email,
		PhoneNumber: strings.TrimSpace(in.PhoneNumber),
		Positions:   positions,
		Experience:  experience,
	}, role, nil
}

func hashPassword(hasher PasswordHasher, plain string) (string, error) {
	if len(plain) < password.MinLength {
		return "", fmt.Errorf("%w: password must be at least %d characters", ErrInvalidInput, password.MinLength)
	}
	hash, err := hasher.Hash(plain)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return hash, nil
}
