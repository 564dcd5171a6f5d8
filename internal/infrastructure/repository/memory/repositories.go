package memory

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/riskibarqy/frogcrew/internal/domain/availability"
	"github.com/riskibarqy/frogcrew/internal/domain/crewmember"
	"github.com/riskibarqy/frogcrew/internal/domain/game"
	"github.com/riskibarqy/frogcrew/internal/domain/invitation"
	"github.com/riskibarqy/frogcrew/internal/domain/roster"
	"github.com/riskibarqy/frogcrew/internal/domain/schedule"
)

type repositories struct {
	st       *state
	readOnly bool
}

func (r *repositories) Crew() crewmember.Repository           { return &CrewRepository{r} }
func (r *repositories) Games() game.Repository                { return &GameRepository{r} }
func (r *repositories) Availability() availability.Repository { return &AvailabilityRepository{r} }
func (r *repositories) Invitations() invitation.Repository    { return &InvitationRepository{r} }
func (r *repositories) Schedules() schedule.Repository        { return &ScheduleRepository{r} }

func (r *repositories) NextID(seq roster.Sequence) int64 {
	if r.readOnly {
		return 0
	}
	r.st.seq[seq]++
	return r.st.seq[seq]
}

func (r *repositories) writable() error {
	if r.readOnly {
		return errReadOnly
	}
	return nil
}

type CrewRepository struct{ tx *repositories }

func (r *CrewRepository) ListMembers(_ context.Context) ([]crewmember.Member, error) {
	out := make([]crewmember.Member, 0, len(r.tx.st.memberOrder))
	for _, id := range r.tx.st.memberOrder {
		out = append(out, r.tx.st.members[id])
	}
	return out, nil
}

func (r *CrewRepository) GetMember(_ context.Context, userID int64) (crewmember.Member, bool, error) {
	m, ok := r.tx.st.members[userID]
	return m, ok, nil
}

func (r *CrewRepository) GetUser(_ context.Context, userID int64) (crewmember.User, bool, error) {
	u, ok := r.tx.st.users[userID]
	return u, ok, nil
}

func (r *CrewRepository) GetUserByEmail(_ context.Context, email string) (crewmember.User, bool, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	for _, u := range r.tx.st.users {
		if strings.EqualFold(u.Email, email) {
			return u, true, nil
		}
	}
	return crewmember.User{}, false, nil
}

func (r *CrewRepository) Create(ctx context.Context, user crewmember.User, member crewmember.Member) error {
	if err := r.tx.writable(); err != nil {
		return err
	}
	if user.ID <= 0 || user.ID != member.UserID {
		return fmt.Errorf("user id mismatch: user=%d member=%d", user.ID, member.UserID)
	}
	if _, exists := r.tx.st.users[user.ID]; exists {
		return fmt.Errorf("user %d already exists", user.ID)
	}
	if _, taken, _ := r.GetUserByEmail(ctx, user.Email); taken {
		return fmt.Errorf("%w: %s", crewmember.ErrEmailTaken, user.Email)
	}

	r.tx.st.users[user.ID] = user
	r.tx.st.members[member.UserID] = member
	r.tx.st.memberOrder = append(r.tx.st.memberOrder, member.UserID)
	return nil
}

func (r *CrewRepository) Delete(_ context.Context, userID int64) error {
	if err := r.tx.writable(); err != nil {
		return err
	}
	delete(r.tx.st.users, userID)
	delete(r.tx.st.members, userID)
	r.tx.st.memberOrder = slices.DeleteFunc(r.tx.st.memberOrder, func(id int64) bool { return id == userID })
	return nil
}

type GameRepository struct{ tx *repositories }

func (r *GameRepository) List(_ context.Context) ([]game.Game, error) {
	out := make([]game.Game, 0, len(r.tx.st.gameOrder))
	for _, id := range r.tx.st.gameOrder {
		out = append(out, r.tx.st.games[id].Clone())
	}
	return out, nil
}

func (r *GameRepository) ListBySchedule(ctx context.Context, scheduleID int64) ([]game.Game, error) {
	all, _ := r.List(ctx)
	return slices.DeleteFunc(all, func(g game.Game) bool { return g.ScheduleID != scheduleID }), nil
}

func (r *GameRepository) GetByID(_ context.Context, gameID int64) (game.Game, bool, error) {
	g, ok := r.tx.st.games[gameID]
	if !ok {
		return game.Game{}, false, nil
	}
	return g.Clone(), true, nil
}

func (r *GameRepository) Create(_ context.Context, g game.Game) error {
	if err := r.tx.writable(); err != nil {
		return err
	}
	if _, exists := r.tx.st.games[g.ID]; exists {
		return fmt.Errorf("game %d already exists", g.ID)
	}
	r.tx.st.games[g.ID] = g.Clone()
	r.tx.st.gameOrder = append(r.tx.st.gameOrder, g.ID)
	return nil
}

func (r *GameRepository) Update(_ context.Context, g game.Game) error {
	if err := r.tx.writable(); err != nil {
		return err
	}
	if _, exists := r.tx.st.games[g.ID]; !exists {
		return fmt.Errorf("game %d does not exist", g.ID)
	}
	r.tx.st.games[g.ID] = g.Clone()
	return nil
}

func (r *GameRepository) Delete(_ context.Context, gameID int64) error {
	if err := r.tx.writable(); err != nil {
		return err
	}
	delete(r.tx.st.games, gameID)
	r.tx.st.gameOrder = slices.DeleteFunc(r.tx.st.gameOrder, func(id int64) bool { return id == gameID })
	return nil
}

type AvailabilityRepository struct{ tx *repositories }

func (r *AvailabilityRepository) List(_ context.Context) ([]availability.Record, error) {
	return r.filter(func(availability.Record) bool { return true }), nil
}

func (r *AvailabilityRepository) ListByGame(_ context.Context, gameID int64) ([]availability.Record, error) {
	return r.filter(func(rec availability.Record) bool { return rec.GameID == gameID }), nil
}

func (r *AvailabilityRepository) ListByUser(_ context.Context, userID int64) ([]availability.Record, error) {
	return r.filter(func(rec availability.Record) bool { return rec.UserID == userID }), nil
}

func (r *AvailabilityRepository) filter(keep func(availability.Record) bool) []availability.Record {
	out := make([]availability.Record, 0)
	for _, key := range r.tx.st.availOrder {
		if rec := r.tx.st.availability[key]; keep(rec) {
			out = append(out, rec)
		}
	}
	return out
}

func (r *AvailabilityRepository) Get(_ context.Context, userID, gameID int64) (availability.Record, bool, error) {
	rec, ok := r.tx.st.availability[availability.Key{UserID: userID, GameID: gameID}]
	return rec, ok, nil
}

func (r *AvailabilityRepository) Insert(_ context.Context, rec availability.Record) error {
	if err := r.tx.writable(); err != nil {
		return err
	}
	if _, exists := r.tx.st.availability[rec.Key()]; exists {
		return fmt.Errorf("%w: user=%d game=%d", availability.ErrAlreadySubmitted, rec.UserID, rec.GameID)
	}
	r.tx.st.availability[rec.Key()] = rec
	r.tx.st.availOrder = append(r.tx.st.availOrder, rec.Key())
	return nil
}

func (r *AvailabilityRepository) DeleteByGame(_ context.Context, gameID int64) error {
	return r.deleteWhere(func(k availability.Key) bool { return k.GameID == gameID })
}

func (r *AvailabilityRepository) DeleteByUser(_ context.Context, userID int64) error {
	return r.deleteWhere(func(k availability.Key) bool { return k.UserID == userID })
}

func (r *AvailabilityRepository) deleteWhere(match func(availability.Key) bool) error {
	if err := r.tx.writable(); err != nil {
		return err
	}
	r.tx.st.availOrder = slices.DeleteFunc(r.tx.st.availOrder, func(k availability.Key) bool {
		if match(k) {
			delete(r.tx.st.availability, k)
			return true
		}
		return false
	})
	return nil
}

type InvitationRepository struct{ tx *repositories }

func (r *InvitationRepository) List(_ context.Context) ([]invitation.Invitation, error) {
	out := make([]invitation.Invitation, 0, len(r.tx.st.inviteOrder))
	for _, token := range r.tx.st.inviteOrder {
		out = append(out, r.tx.st.invitations[token])
	}
	return out, nil
}

func (r *InvitationRepository) GetByToken(_ context.Context, token string) (invitation.Invitation, bool, error) {
	inv, ok := r.tx.st.invitations[token]
	return inv, ok, nil
}

func (r *InvitationRepository) Create(_ context.Context, inv invitation.Invitation) error {
	if err := r.tx.writable(); err != nil {
		return err
	}
	if _, exists := r.tx.st.invitations[inv.Token]; exists {
		return fmt.Errorf("invitation token collision")
	}
	r.tx.st.invitations[inv.Token] = inv
	r.tx.st.inviteOrder = append(r.tx.st.inviteOrder, inv.Token)
	return nil
}

func (r *InvitationRepository) MarkUsed(_ context.Context, token string, at time.Time) error {
	if err := r.tx.writable(); err != nil {
		return err
	}
	inv, ok := r.tx.st.invitations[token]
	if !ok {
		return invitation.ErrTokenUnknown
	}
	if inv.Used {
		return invitation.ErrTokenUsed
	}
	inv.Used = true
	inv.UsedAt = &at
	r.tx.st.invitations[token] = inv
	return nil
}

type ScheduleRepository struct{ tx *repositories }

func (r *ScheduleRepository) List(_ context.Context) ([]schedule.Schedule, error) {
	out := make([]schedule.Schedule, 0, len(r.tx.st.schedOrder))
	for _, id := range r.tx.st.schedOrder {
		out = append(out, r.tx.st.schedules[id])
	}
	return out, nil
}

func (r *ScheduleRepository) GetByID(_ context.Context, id int64) (schedule.Schedule, bool, error) {
	s, ok := r.tx.st.schedules[id]
	return s, ok, nil
}

func (r *ScheduleRepository) Create(_ context.Context, s schedule.Schedule) error {
	if err := r.tx.writable(); err != nil {
		return err
	}
	if _, exists := r.tx.st.schedules[s.ID]; exists {
		return fmt.Errorf("schedule %d already exists", s.ID)
	}
	r.tx.st.schedules[s.ID] = s
	r.tx.st.schedOrder = append(r.tx.st.schedOrder, s.ID)
	return nil
}
