package game

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/frogcrew/internal/domain/crewmember"
	"github.com/riskibarqy/frogcrew/internal/domain/position"
)

var (
	ErrPositionFilled        = errors.New("position already filled for this game")
	ErrMemberAlreadyAssigned = errors.New("crew member already assigned to this game")
	ErrMemberNotQualified    = errors.New("crew member is not qualified for this position")
	ErrMemberUnavailable     = errors.New("crew member is unavailable for this game")
	ErrAssignmentNotFound    = errors.New("assignment not found")
	ErrGamePublished         = errors.New("cannot delete a published game")
	ErrMissingRequiredFields = errors.New("missing required fields")
	ErrHasUpcomingGames      = errors.New("crew member has upcoming game assignments")
)

// AvailabilityLookup reports whether userID answered for the game and what.
type AvailabilityLookup func(userID int64) (available bool, answered bool)

// Rules stores assignment policy parameters.
type Rules struct {
	// GateOnAvailability excludes members who explicitly answered "unavailable".
	GateOnAvailability bool
}

func DefaultRules() Rules {
	return Rules{GateOnAvailability: true}
}

// CheckEligible reports why m cannot take p on g, or nil.
func (r Rules) CheckEligible(g Game, m crewmember.Member, p position.Position, lookup AvailabilityLookup) error {
	if !m.Qualified(p) {
		return fmt.Errorf("%w: user=%d position=%s", ErrMemberNotQualified, m.UserID, p)
	}
	if _, ok := g.AssignmentFor(m.UserID); ok {
		return fmt.Errorf("%w: user=%d game=%d", ErrMemberAlreadyAssigned, m.UserID, g.ID)
	}
	if r.GateOnAvailability && lookup != nil {
		if available, answered := lookup(m.UserID); answered && !available {
			return fmt.Errorf("%w: user=%d game=%d", ErrMemberUnavailable, m.UserID, g.ID)
		}
	}
	return nil
}

// EligibleCandidates filters members, keeping input order.
func (r Rules) EligibleCandidates(g Game, members []crewmember.Member, p position.Position, lookup AvailabilityLookup) []crewmember.Member {
	out := make([]crewmember.Member, 0, len(members))
	for _, m := range members {
		if r.CheckEligible(g, m, p, lookup) == nil {
			out = append(out, m)
		}
	}
	return out
}

// Assign appends a to g after checking both per-game uniqueness rules.
// GameID, UserID, Position and FullName on a are overwritten from g and m.
func (r Rules) Assign(g *Game, m crewmember.Member, a Assignment, lookup AvailabilityLookup) (Assignment, error) {
	if a.CrewedUserID <= 0 {
		return Assignment{}, fmt.Errorf("crewed user id is required")
	}
	if held, ok := g.AssignmentAt(a.Position); ok {
		return Assignment{}, fmt.Errorf("%w: game=%d position=%s held by user=%d", ErrPositionFilled, g.ID, a.Position, held.UserID)
	}
	if err := r.CheckEligible(*g, m, a.Position, lookup); err != nil {
		return Assignment{}, err
	}

	a.GameID = g.ID
	a.UserID = m.UserID
	a.FullName = m.FullName()
	a.ReportTime = strings.TrimSpace(a.ReportTime)
	a.ReportLocation = strings.TrimSpace(a.ReportLocation)
	g.CrewedMembers = append(g.CrewedMembers, a)
	return a, nil
}

func Remove(g *Game, crewedUserID int64) (Assignment, error) {
	for i, a := range g.CrewedMembers {
		if a.CrewedUserID != crewedUserID {
			continue
		}
		g.CrewedMembers = append(g.CrewedMembers[:i:i], g.CrewedMembers[i+1:]...)
		return a, nil
	}
	return Assignment{}, fmt.Errorf("%w: game=%d crewedUserId=%d", ErrAssignmentNotFound, g.ID, crewedUserID)
}

// MissingFields lists which publish-required fields are blank.
func MissingFields(g Game) []string {
	var missing []string
	for _, f := range []struct {
		name  string
		value string
	}{
		{"sport", g.Sport},
		{"gameDate", g.GameDate},
		{"gameStart", g.GameStart},
		{"venue", g.Venue},
	} {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	return missing
}

// Publish moves g to PUBLISHED. Publishing twice is a no-op (changed=false).
func Publish(g *Game) (changed bool, err error) {
	if missing := MissingFields(*g); len(missing) > 0 {
		return false, fmt.Errorf("%w: %s", ErrMissingRequiredFields, strings.Join(missing, ", "))
	}
	if g.IsPublished() {
		return false, nil
	}
	g.Status = StatusPublished
	return true, nil
}

func CheckDeletable(g Game) error {
	if g.IsPublished() {
		return fmt.Errorf("%w: game=%d", ErrGamePublished, g.ID)
	}
	return nil
}

// UpcomingAssignment returns the first upcoming game holding userID.
func UpcomingAssignment(games []Game, userID int64, now time.Time) (Game, bool) {
	for _, g := range games {
		if !g.IsUpcoming(now) {
			continue
		}
		if _, ok := g.AssignmentFor(userID); ok {
			return g, true
		}
	}
	return Game{}, false
}
