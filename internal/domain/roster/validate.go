package roster

import (
	"errors"
	"fmt"
	"time"

	"github.com/riskibarqy/frogcrew/internal/domain/position"
)

var ErrInvalidSnapshot = errors.New("invalid roster snapshot")

// Validate checks what the use cases rely on but a loaded or imported file
// cannot guarantee: unique ids, per-game position and member uniqueness,
// and assignments that point at members. Assignments on past games may keep
// a member that was deleted since; upcoming games may not.
func (s Snapshot) Validate(now time.Time) error {
	var problems []error
	fail := func(format string, args ...any) {
		problems = append(problems, fmt.Errorf(format, args...))
	}

	users := make(map[int64]bool, len(s.Users))
	maxUser := s.Sequences[SeqUser]
	for _, u := range s.Users {
		if u.ID <= 0 {
			fail("user %q has no id", u.Email)
			continue
		}
		if users[u.ID] {
			fail("user id %d is duplicated", u.ID)
		}
		users[u.ID] = true
		maxUser = max(maxUser, u.ID)
	}

	members := make(map[int64]bool, len(s.Members))
	for _, m := range s.Members {
		if members[m.UserID] {
			fail("crew member %d is duplicated", m.UserID)
		}
		if !users[m.UserID] {
			fail("crew member %d has no user", m.UserID)
		}
		members[m.UserID] = true
	}

	games := make(map[int64]bool, len(s.Games))
	crewed := make(map[int64]int64)
	for _, g := range s.Games {
		if err := g.Validate(); err != nil {
			fail("game %d: %w", g.ID, err)
			continue
		}
		if games[g.ID] {
			fail("game id %d is duplicated", g.ID)
		}
		games[g.ID] = true

		upcoming := g.IsUpcoming(now)
		positions := make(map[position.Position]bool, len(g.CrewedMembers))
		holders := make(map[int64]bool, len(g.CrewedMembers))
		for _, a := range g.CrewedMembers {
			if a.CrewedUserID <= 0 {
				fail("game %d: assignment for user %d has no crewedUserId", g.ID, a.UserID)
			} else if other, dup := crewed[a.CrewedUserID]; dup {
				fail("game %d: crewedUserId %d is already used on game %d", g.ID, a.CrewedUserID, other)
			} else {
				crewed[a.CrewedUserID] = g.ID
			}
			if a.GameID != 0 && a.GameID != g.ID {
				fail("game %d: assignment %d names game %d", g.ID, a.CrewedUserID, a.GameID)
			}
			if !a.Position.Valid() {
				fail("game %d: %w: %s", g.ID, position.ErrUnknownPosition, a.Position)
			} else if positions[a.Position] {
				fail("game %d: position %s is assigned more than once", g.ID, a.Position)
			}
			positions[a.Position] = true

			if holders[a.UserID] {
				fail("game %d: user %d is assigned more than once", g.ID, a.UserID)
			}
			holders[a.UserID] = true

			switch {
			case a.UserID <= 0 || a.UserID > maxUser:
				fail("game %d: assignment %d names unknown user %d", g.ID, a.CrewedUserID, a.UserID)
			case upcoming && !members[a.UserID]:
				fail("game %d: upcoming assignment %d names removed crew member %d", g.ID, a.CrewedUserID, a.UserID)
			}
		}
	}

	if len(problems) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidSnapshot, errors.Join(problems...))
}
