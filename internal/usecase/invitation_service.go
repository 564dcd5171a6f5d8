package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/riskibarqy/frogcrew/internal/domain/crewmember"
	"github.com/riskibarqy/frogcrew/internal/domain/invitation"
	"github.com/riskibarqy/frogcrew/internal/domain/roster"
	idgen "github.com/riskibarqy/frogcrew/internal/platform/id"
	"github.com/riskibarqy/frogcrew/internal/platform/logging"
	"github.com/riskibarqy/frogcrew/internal/platform/password"
)

const defaultNotifyWorkers = 4

// RedeemInput is the profile an invitee fills in. The email comes from
// the invitation.
type RedeemInput struct {
	FirstName   string
	LastName    string
	PhoneNumber string
	Password    string
	Positions   []string
	Experience  string
}

type InvitationOptions struct {
	// BaseURL is the account-creation page; the token is added as a query param.
	BaseURL       string
	NotifyWorkers int
}

type InvitationService struct {
	store    roster.Store
	tokens   idgen.Generator
	ids      idgen.Generator
	hasher   PasswordHasher
	notifier invitation.Notifier
	events   Events
	opts     InvitationOptions
	logger   *logging.Logger
	now      func() time.Time

	poolOnce sync.Once
	pool     *ants.Pool
	inflight sync.WaitGroup
}

func NewInvitationService(
	store roster.Store,
	tokens idgen.Generator,
	ids idgen.Generator,
	hasher PasswordHasher,
	notifier invitation.Notifier,
	events Events,
	opts InvitationOptions,
	logger *logging.Logger,
) *InvitationService {
	if logger == nil {
		logger = logging.Default()
	}
	if tokens == nil {
		tokens = idgen.NewTokenGenerator(16)
	}
	if ids == nil {
		ids = idgen.NewUUIDGenerator()
	}
	if hasher == nil {
		hasher = password.Hasher{}
	}
	if opts.NotifyWorkers <= 0 {
		opts.NotifyWorkers = defaultNotifyWorkers
	}

	return &InvitationService{
		store:    store,
		tokens:   tokens,
		ids:      ids,
		hasher:   hasher,
		notifier: notifier,
		events:   eventsOrNoop(events),
		opts:     opts,
		logger:   logger,
		now:      time.Now,
	}
}

// Issue creates one invitation per address. The batch fails as a whole when
// any address is malformed, repeated, or already registered.
func (s *InvitationService) Issue(ctx context.Context, emails []string) ([]invitation.Invitation, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.InvitationService.Issue", attrInvitees.Int(len(emails)))
	defer span.End()

	normalized, err := normalizeInviteEmails(emails)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	issued := make([]invitation.Invitation, 0, len(normalized))
	for _, email := range normalized {
		token, err := s.tokens.NewID()
		if err != nil {
			return nil, fmt.Errorf("generate invitation token: %w", err)
		}
		id, err := s.ids.NewID()
		if err != nil {
			return nil, fmt.Errorf("generate invitation id: %w", err)
		}
		issued = append(issued, invitation.Invitation{ID: id, Email: email, Token: token, CreatedAt: now})
	}

	err = s.store.Update(ctx, func(ctx context.Context, repos roster.Repositories) error {
		var registered []string
		for _, inv := range issued {
			_, exists, err := repos.Crew().GetUserByEmail(ctx, inv.Email)
			if err != nil {
				return fmt.Errorf("get user by email: %w", err)
			}
			if exists {
				registered = append(registered, inv.Email)
			}
		}
		if len(registered) > 0 {
			return &Error{
				Kind:    ErrConflict,
				Message: "Some email addresses are already registered",
				Cause:   fmt.Errorf("registered: %s", strings.Join(registered, ", ")),
			}
		}
		for _, inv := range issued {
			if err := repos.Invitations().Create(ctx, inv); err != nil {
				return fmt.Errorf("create invitation: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, classify(err)
	}

	s.events.InvitationsIssued(len(issued))
	s.logger.InfoContext(ctx, "invitations issued", "count", len(issued))
	s.notifyAll(ctx, issued)
	return issued, nil
}

// notifyAll queues one notification per invitation on the service's worker
// pool and returns without waiting. The sends outlive the request: they run
// on a context that keeps its values but not its cancellation. Failures are
// logged and counted only.
func (s *InvitationService) notifyAll(ctx context.Context, issued []invitation.Invitation) {
	if s.notifier == nil || len(issued) == 0 {
		return
	}

	pool := s.notifyPool(ctx)
	if pool == nil {
		s.events.NotificationFailed()
		return
	}

	detached := context.WithoutCancel(ctx)
	for _, inv := range issued {
		s.inflight.Add(1)
		if err := pool.Submit(func() {
			defer s.inflight.Done()
			s.notifyOne(detached, inv)
		}); err != nil {
			s.inflight.Done()
			s.logger.WarnContext(ctx, "submit invitation notification failed", "invitation_id", inv.ID, "error", err)
			s.events.NotificationFailed()
		}
	}
}

func (s *InvitationService) notifyPool(ctx context.Context) *ants.Pool {
	s.poolOnce.Do(func() {
		pool, err := ants.NewPool(s.opts.NotifyWorkers)
		if err != nil {
			s.logger.WarnContext(ctx, "create notify pool failed", "error", err)
			return
		}
		s.pool = pool
	})
	return s.pool
}

// Close waits for queued notifications until ctx is done, then stops the
// worker pool. Notifications still queued at that point are dropped.
func (s *InvitationService) Close(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.inflight.Wait()
		close(done)
	}()

	var err error
	select {
	case <-done:
	case <-ctx.Done():
		err = fmt.Errorf("wait for invitation notifications: %w", ctx.Err())
	}

	s.poolOnce.Do(func() {})
	if s.pool != nil {
		s.pool.Release()
	}
	return err
}

func (s *InvitationService) notifyOne(ctx context.Context, inv invitation.Invitation) {
	if err := s.notifier.NotifyInvitation(ctx, inv, inv.Link(s.opts.BaseURL)); err != nil {
		s.events.NotificationFailed()
		s.logger.WarnContext(ctx, "invitation notification failed",
			"invitation_id", inv.ID,
			"email", inv.Email,
			"error", err,
		)
	}
}

// Validate reports whether token can still be redeemed.
func (s *InvitationService) Validate(ctx context.Context, token string) (invitation.Invitation, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.InvitationService.Validate")
	defer span.End()

	var out invitation.Invitation
	err := s.store.View(ctx, func(ctx context.Context, repos roster.Repositories) error {
		inv, err := redeemableInvitation(ctx, repos, token)
		out = inv
		return err
	})
	return out, classify(err)
}

// Redeem creates the CREW_MEMBER account for an invitation and marks the
// token used, in one transaction.
func (s *InvitationService) Redeem(ctx context.Context, token string, input RedeemInput) (crewmember.Member, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.InvitationService.Redeem")
	defer span.End()

	token = strings.TrimSpace(token)
	if token == "" {
		return crewmember.Member{}, classify(invitation.ErrTokenUnknown)
	}
	inv, err := s.Validate(ctx, token)
	if err != nil {
		return crewmember.Member{}, err
	}

	built, _, err := buildMember(memberFields{
		FirstName:   input.FirstName,
		LastName:    input.LastName,
		Email:       inv.Email,
		PhoneNumber: input.PhoneNumber,
		Positions:   input.Positions,
		Experience:  input.Experience,
		Role:        string(crewmember.RoleCrewMember),
	})
	if err != nil {
		return crewmember.Member{}, err
	}
	hash, err := hashPassword(s.hasher, input.Password)
	if err != nil {
		return crewmember.Member{}, err
	}

	var member crewmember.Member
	err = s.store.Update(ctx, func(ctx context.Context, repos roster.Repositories) error {
		// The token may have been redeemed while the password was hashing.
		if _, err := redeemableInvitation(ctx, repos, token); err != nil {
			return err
		}

		if _, exists, err := repos.Crew().GetUserByEmail(ctx, built.Email); err != nil {
			return fmt.Errorf("get user by email: %w", err)
		} else if exists {
			return fmt.Errorf("%w: email=%s", crewmember.ErrEmailTaken, built.Email)
		}

		built.UserID = repos.NextID(roster.SeqUser)
		user := crewmember.User{ID: built.UserID, Email: built.Email, PasswordHash: hash, Role: crewmember.RoleCrewMember}
		if err := repos.Crew().Create(ctx, user, built); err != nil {
			return fmt.Errorf("create crew member: %w", err)
		}
		if err := repos.Invitations().MarkUsed(ctx, token, s.now().UTC()); err != nil {
			return fmt.Errorf("mark invitation used: %w", err)
		}
		member = built
		return nil
	})
	if err != nil {
		return crewmember.Member{}, classify(err)
	}

	s.logger.InfoContext(ctx, "invitation redeemed", "user_id", member.UserID)
	return member, nil
}

func (s *InvitationService) List(ctx context.Context) ([]invitation.Invitation, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.InvitationService.List")
	defer span.End()

	var out []invitation.Invitation
	err := s.store.View(ctx, func(ctx context.Context, repos roster.Repositories) error {
		items, err := repos.Invitations().List(ctx)
		if err != nil {
			return fmt.Errorf("list invitations: %w", err)
		}
		out = items
		return nil
	})
	return out, classify(err)
}

func redeemableInvitation(ctx context.Context, repos roster.Repositories, token string) (invitation.Invitation, error) {
	inv, exists, err := repos.Invitations().GetByToken(ctx, strings.TrimSpace(token))
	if err != nil {
		return invitation.Invitation{}, fmt.Errorf("get invitation: %w", err)
	}
	if !exists {
		return invitation.Invitation{}, invitation.ErrTokenUnknown
	}
	if err := inv.Redeemable(); err != nil {
		return invitation.Invitation{}, err
	}
	return inv, nil
}

func normalizeInviteEmails(emails []string) ([]string, error) {
	if len(emails) == 0 {
		return nil, fmt.Errorf("%w: at least one email address is required", ErrInvalidInput)
	}
	out := make([]string, 0, len(emails))
	seen := make(map[string]struct{}, len(emails))
	for _, raw := range emails {
		email, err := crewmember.NormalizeEmail(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		if _, dup := seen[email]; dup {
			return nil, fmt.Errorf("%w: email %s appears more than once", ErrConflict, email)
		}
		seen[email] = struct{}{}
		out = append(out, email)
	}
	return out, nil
}
