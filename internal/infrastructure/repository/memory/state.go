package memory

import (
	"maps"
	"slices"

	"github.com/riskibarqy/frogcrew/internal/domain/availability"
	"github.com/riskibarqy/frogcrew/internal/domain/crewmember"
	"github.com/riskibarqy/frogcrew/internal/domain/game"
	"github.com/riskibarqy/frogcrew/internal/domain/invitation"
	"github.com/riskibarqy/frogcrew/internal/domain/roster"
	"github.com/riskibarqy/frogcrew/internal/domain/schedule"
)

// state is immutable once published by the store; updates work on a clone.
type state struct {
	users        map[int64]crewmember.User
	members      map[int64]crewmember.Member
	memberOrder  []int64
	games        map[int64]game.Game
	gameOrder    []int64
	availability map[availability.Key]availability.Record
	availOrder   []availability.Key
	invitations  map[string]invitation.Invitation
	inviteOrder  []string
	schedules    map[int64]schedule.Schedule
	schedOrder   []int64
	seq          map[roster.Sequence]int64
}

func newState(snap roster.Snapshot) *state {
	st := &state{
		users:        make(map[int64]crewmember.User, len(snap.Users)),
		members:      make(map[int64]crewmember.Member, len(snap.Members)),
		games:        make(map[int64]game.Game, len(snap.Games)),
		availability: make(map[availability.Key]availability.Record, len(snap.Availability)),
		invitations:  make(map[string]invitation.Invitation, len(snap.Invitations)),
		schedules:    make(map[int64]schedule.Schedule, len(snap.Schedules)),
		seq:          make(map[roster.Sequence]int64, 4),
	}

	for _, u := range snap.Users {
		st.users[u.ID] = u
	}
	for _, m := range snap.Members {
		if _, ok := st.members[m.UserID]; !ok {
			st.memberOrder = append(st.memberOrder, m.UserID)
		}
		st.members[m.UserID] = m
	}
	for _, g := range snap.Games {
		if _, ok := st.games[g.ID]; !ok {
			st.gameOrder = append(st.gameOrder, g.ID)
		}
		g = g.Clone()
		for i := range g.CrewedMembers {
			if g.CrewedMembers[i].GameID == 0 {
				g.CrewedMembers[i].GameID = g.ID
			}
		}
		st.games[g.ID] = g
	}
	for _, r := range snap.Availability {
		if _, ok := st.availability[r.Key()]; ok {
			continue
		}
		st.availability[r.Key()] = r
		st.availOrder = append(st.availOrder, r.Key())
	}
	for _, inv := range snap.Invitations {
		if _, ok := st.invitations[inv.Token]; !ok {
			st.inviteOrder = append(st.inviteOrder, inv.Token)
		}
		st.invitations[inv.Token] = inv
	}
	for _, s := range snap.Schedules {
		if _, ok := st.schedules[s.ID]; !ok {
			st.schedOrder = append(st.schedOrder, s.ID)
		}
		st.schedules[s.ID] = s
	}

	maps.Copy(st.seq, snap.Sequences)
	st.raiseSequences()
	return st
}

// raiseSequences keeps every counter at or above the largest ID in use, so a
// hand-edited snapshot without sequences still allocates fresh IDs.
func (st *state) raiseSequences() {
	bump := func(seq roster.Sequence, id int64) {
		if id > st.seq[seq] {
			st.seq[seq] = id
		}
	}
	for id := range st.users {
		bump(roster.SeqUser, id)
	}
	for id, g := range st.games {
		bump(roster.SeqGame, id)
		for _, a := range g.CrewedMembers {
			bump(roster.SeqCrewedUser, a.CrewedUserID)
		}
	}
	for id := range st.schedules {
		bump(roster.SeqSchedule, id)
	}
}

func (st *state) clone() *state {
	out := &state{
		users:        maps.Clone(st.users),
		members:      maps.Clone(st.members),
		memberOrder:  slices.Clone(st.memberOrder),
		games:        make(map[int64]game.Game, len(st.games)),
		gameOrder:    slices.Clone(st.gameOrder),
		availability: maps.Clone(st.availability),
		availOrder:   slices.Clone(st.availOrder),
		invitations:  maps.Clone(st.invitations),
		inviteOrder:  slices.Clone(st.inviteOrder),
		schedules:    maps.Clone(st.schedules),
		schedOrder:   slices.Clone(st.schedOrder),
		seq:          maps.Clone(st.seq),
	}
	for id, g := range st.games {
		out.games[id] = g.Clone()
	}
	return out
}

func (st *state) snapshot() roster.Snapshot {
	snap := roster.Snapshot{
		Users:        make([]crewmember.User, 0, len(st.users)),
		Members:      make([]crewmember.Member, 0, len(st.memberOrder)),
		Games:        make([]game.Game, 0, len(st.gameOrder)),
		Availability: make([]availability.Record, 0, len(st.availOrder)),
		Invitations:  make([]invitation.Invitation, 0, len(st.inviteOrder)),
		Schedules:    make([]schedule.Schedule, 0, len(st.schedOrder)),
		Sequences:    maps.Clone(st.seq),
	}

	userIDs := slices.Sorted(maps.Keys(st.users))
	for _, id := range userIDs {
		snap.Users = append(snap.Users, st.users[id])
	}
	for _, id := range st.memberOrder {
		snap.Members = append(snap.Members, st.members[id])
	}
	for _, id := range st.gameOrder {
		snap.Games = append(snap.Games, st.games[id].Clone())
	}
	for _, key := range st.availOrder {
		snap.Availability = append(snap.Availability, st.availability[key])
	}
	for _, token := range st.inviteOrder {
		snap.Invitations = append(snap.Invitations, st.invitations[token])
	}
	for _, id := range st.schedOrder {
		snap.Schedules = append(snap.Schedules, st.schedules[id])
	}
	return snap
}
