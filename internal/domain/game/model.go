package game

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/riskibarqy/frogcrew/internal/domain/position"
)

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

type Status string

const (
	StatusDraft     Status = "DRAFT"
	StatusPublished Status = "PUBLISHED"
)

// Assignment binds one crew member to one position on one game.
type Assignment struct {
	CrewedUserID   int64             `json:"crewedUserId"`
	UserID         int64             `json:"userId"`
	GameID         int64             `json:"gameId"`
	Position       position.Position `json:"position"`
	FullName       string            `json:"fullName"`
	ReportTime     string            `json:"reportTime"`
	ReportLocation string            `json:"reportLocation"`
}

// Game is a scheduled event. CrewedMembers keeps assignment order.
type Game struct {
	ID                int64               `json:"gameId"`
	ScheduleID        int64               `json:"scheduleId,omitempty"`
	Sport             string              `json:"sport"`
	GameDate          string              `json:"gameDate"`
	GameStart         string              `json:"gameStart"`
	Venue             string              `json:"venue"`
	Opponent          string              `json:"opponent"`
	Status            Status              `json:"status"`
	RequiredPositions []position.Position `json:"requiredPositions"`
	CrewedMembers     []Assignment        `json:"crewedMembers"`
}

// StartsAt combines GameDate and GameStart in UTC. A missing or malformed
// start time falls back to midnight of GameDate.
func (g Game) StartsAt() (time.Time, bool) {
	day, err := time.ParseInLocation(DateLayout, strings.TrimSpace(g.GameDate), time.UTC)
	if err != nil {
		return time.Time{}, false
	}
	clock, err := time.Parse(TimeLayout, strings.TrimSpace(g.GameStart))
	if err != nil {
		return day, true
	}
	return day.Add(time.Duration(clock.Hour())*time.Hour + time.Duration(clock.Minute())*time.Minute), true
}

func (g Game) IsUpcoming(now time.Time) bool {
	start, ok := g.StartsAt()
	return ok && start.After(now)
}

func (g Game) IsPublished() bool {
	return g.Status == StatusPublished
}

func (g Game) AssignmentFor(userID int64) (Assignment, bool) {
	for _, a := range g.CrewedMembers {
		if a.UserID == userID {
			return a, true
		}
	}
	return Assignment{}, false
}

func (g Game) AssignmentAt(p position.Position) (Assignment, bool) {
	for _, a := range g.CrewedMembers {
		if a.Position == p {
			return a, true
		}
	}
	return Assignment{}, false
}

// OpenPositions returns required positions nobody holds yet.
func (g Game) OpenPositions() []position.Position {
	out := make([]position.Position, 0, len(g.RequiredPositions))
	for _, p := range g.RequiredPositions {
		if _, taken := g.AssignmentAt(p); !taken {
			out = append(out, p)
		}
	}
	return out
}

// Clone deep-copies the slices so a transaction can mutate freely.
func (g Game) Clone() Game {
	out := g
	out.RequiredPositions = slices.Clone(g.RequiredPositions)
	out.CrewedMembers = slices.Clone(g.CrewedMembers)
	return out
}

func (g Game) Validate() error {
	if g.ID <= 0 {
		return fmt.Errorf("game id is required")
	}
	if g.Status != StatusDraft && g.Status != StatusPublished {
		return fmt.Errorf("invalid game status: %s", g.Status)
	}
	if date := strings.TrimSpace(g.GameDate); date != "" {
		if _, err := time.Parse(DateLayout, date); err != nil {
			return fmt.Errorf("invalid game date %q, expected YYYY-MM-DD", g.GameDate)
		}
	}
	if start := strings.TrimSpace(g.GameStart); start != "" {
		if _, err := time.Parse(TimeLayout, start); err != nil {
			return fmt.Errorf("invalid game start %q, expected HH:MM", g.GameStart)
		}
	}
	for _, p := range g.RequiredPositions {
		if !p.Valid() {
			return fmt.Errorf("%w: %s", position.ErrUnknownPosition, p)
		}
	}
	return nil
}
