package game

import (
	"errors"
	"testing"
	"time"

	"github.com/riskibarqy/frogcrew/internal/domain/crewmember"
	"github.com/riskibarqy/frogcrew/internal/domain/position"
)

func member(id int64, positions ...position.Position) crewmember.Member {
	return crewmember.Member{
		UserID:    id,
		FirstName: "First",
		LastName:  "Last",
		Email:     "crew@tcu.edu",
		Positions: positions,
	}
}

func draftGame() Game {
	return Game{
		ID:        1,
		Sport:     "Football",
		GameDate:  "2026-11-07",
		GameStart: "18:00",
		Venue:     "Amon G. Carter",
		Opponent:  "Baylor",
		Status:    StatusDraft,
	}
}

func TestRules_Assign(t *testing.T) {
	rules := DefaultRules()

	tests := []struct {
		name      string
		setup     func(*Game)
		member    crewmember.Member
		position  position.Position
		lookup    AvailabilityLookup
		targetErr error
	}{
		{
			name:     "assigns qualified member",
			setup:    func(*Game) {},
			member:   member(1, position.Camera),
			position: position.Camera,
		},
		{
			name: "position already filled",
			setup: func(g *Game) {
				g.CrewedMembers = []Assignment{{CrewedUserID: 9, UserID: 2, GameID: 1, Position: position.Camera}}
			},
			member:    member(1, position.Camera),
			position:  position.Camera,
			targetErr: ErrPositionFilled,
		},
		{
			name: "member already holds another position",
			setup: func(g *Game) {
				g.CrewedMembers = []Assignment{{CrewedUserID: 9, UserID: 1, GameID: 1, Position: position.Director}}
			},
			member:    member(1, position.Camera, position.Director),
			position:  position.Camera,
			targetErr: ErrMemberAlreadyAssigned,
		},
		{
			name:      "not qualified",
			setup:     func(*Game) {},
			member:    member(1, position.Audio),
			position:  position.Camera,
			targetErr: ErrMemberNotQualified,
		},
		{
			name:      "explicitly unavailable",
			setup:     func(*Game) {},
			member:    member(1, position.Camera),
			position:  position.Camera,
			lookup:    func(int64) (bool, bool) { return false, true },
			targetErr: ErrMemberUnavailable,
		},
		{
			name:     "no answer keeps member eligible",
			setup:    func(*Game) {},
			member:   member(1, position.Camera),
			position: position.Camera,
			lookup:   func(int64) (bool, bool) { return false, false },
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			g := draftGame()
			tc.setup(&g)
			before := len(g.CrewedMembers)

			got, err := rules.Assign(&g, tc.member, Assignment{
				CrewedUserID:   100,
				Position:       tc.position,
				ReportTime:     "10:00",
				ReportLocation: "CONTROL ROOM",
			}, tc.lookup)

			if tc.targetErr != nil {
				if !errors.Is(err, tc.targetErr) {
					t.Fatalf("expected %v, got %v", tc.targetErr, err)
				}
				if len(g.CrewedMembers) != before {
					t.Fatalf("failed assign must not mutate crew")
				}
				return
			}
			if err != nil {
				t.Fatalf("assign: %v", err)
			}
			if got.GameID != g.ID || got.UserID != tc.member.UserID || got.FullName != "First Last" {
				t.Fatalf("unexpected assignment %+v", got)
			}
			if len(g.CrewedMembers) != before+1 {
				t.Fatalf("expected one more crewed member, got %d", len(g.CrewedMembers))
			}
		})
	}
}

func TestRules_AvailabilityGateDisabled(t *testing.T) {
	rules := Rules{GateOnAvailability: false}
	g := draftGame()
	unavailable := func(int64) (bool, bool) { return false, true }

	if err := rules.CheckEligible(g, member(1, position.Camera), position.Camera, unavailable); err != nil {
		t.Fatalf("expected eligible with gate disabled, got %v", err)
	}
}

func TestRules_EligibleCandidates(t *testing.T) {
	g := draftGame()
	g.CrewedMembers = []Assignment{{CrewedUserID: 1, UserID: 3, Position: position.Director}}
	members := []crewmember.Member{
		member(1, position.Camera),
		member(2, position.Audio),
		member(3, position.Camera, position.Director),
		member(4, position.Camera),
	}
	lookup := func(userID int64) (bool, bool) {
		if userID == 4 {
			return false, true
		}
		return true, userID == 1
	}

	got := DefaultRules().EligibleCandidates(g, members, position.Camera, lookup)
	if len(got) != 1 || got[0].UserID != 1 {
		t.Fatalf("unexpected candidates %+v", got)
	}
}

func TestRemove(t *testing.T) {
	g := draftGame()
	g.CrewedMembers = []Assignment{
		{CrewedUserID: 1, UserID: 1, Position: position.Camera},
		{CrewedUserID: 2, UserID: 2, Position: position.Director},
	}

	removed, err := Remove(&g, 1)
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	if removed.UserID != 1 || len(g.CrewedMembers) != 1 || g.CrewedMembers[0].CrewedUserID != 2 {
		t.Fatalf("unexpected crew after remove: %+v", g.CrewedMembers)
	}
	if _, err := Remove(&g, 1); !errors.Is(err, ErrAssignmentNotFound) {
		t.Fatalf("expected ErrAssignmentNotFound, got %v", err)
	}
}

func TestPublish(t *testing.T) {
	g := draftGame()
	g.Venue = " "
	if _, err := Publish(&g); !errors.Is(err, ErrMissingRequiredFields) {
		t.Fatalf("expected ErrMissingRequiredFields, got %v", err)
	}
	if g.Status != StatusDraft {
		t.Fatalf("status must stay DRAFT on failed publish")
	}

	g.Venue = "Amon G. Carter"
	changed, err := Publish(&g)
	if err != nil || !changed || g.Status != StatusPublished {
		t.Fatalf("publish: changed=%v err=%v status=%s", changed, err, g.Status)
	}

	changed, err = Publish(&g)
	if err != nil || changed {
		t.Fatalf("second publish should be a no-op, changed=%v err=%v", changed, err)
	}

	if err := CheckDeletable(g); !errors.Is(err, ErrGamePublished) {
		t.Fatalf("expected ErrGamePublished, got %v", err)
	}
}

func TestUpcomingAssignment(t *testing.T) {
	now := time.Date(2026, 11, 7, 12, 0, 0, 0, time.UTC)
	later := draftGame()
	later.CrewedMembers = []Assignment{{CrewedUserID: 1, UserID: 7, Position: position.Camera}}

	past := draftGame()
	past.ID = 2
	past.GameDate = "2026-11-01"
	past.CrewedMembers = []Assignment{{CrewedUserID: 2, UserID: 8, Position: position.Camera}}

	if g, ok := UpcomingAssignment([]Game{later, past}, 7, now); !ok || g.ID != 1 {
		t.Fatalf("expected upcoming game 1 for user 7")
	}
	if _, ok := UpcomingAssignment([]Game{later, past}, 8, now); ok {
		t.Fatalf("past assignment must not count as upcoming")
	}

	sameDayEarlier := later
	sameDayEarlier.GameStart = "09:00"
	if sameDayEarlier.IsUpcoming(now) {
		t.Fatalf("game that already started today must not be upcoming")
	}
}
