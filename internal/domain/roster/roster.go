// Package roster defines the unit of persistence for the crew scheduling
// state and the transactional store that use cases run against.
package roster

import (
	"context"

	"github.com/riskibarqy/frogcrew/internal/domain/availability"
	"github.com/riskibarqy/frogcrew/internal/domain/crewmember"
	"github.com/riskibarqy/frogcrew/internal/domain/game"
	"github.com/riskibarqy/frogcrew/internal/domain/invitation"
	"github.com/riskibarqy/frogcrew/internal/domain/schedule"
)

// Sequence names a monotonic ID counter persisted with the snapshot.
type Sequence string

const (
	SeqUser       Sequence = "user"
	SeqGame       Sequence = "game"
	SeqCrewedUser Sequence = "crewedUser"
	SeqSchedule   Sequence = "schedule"
)

// Snapshot is the whole persisted state. Persisters load and save it as one unit.
type Snapshot struct {
	Users        []crewmember.User       `json:"users"`
	Members      []crewmember.Member     `json:"crewmember"`
	Games        []game.Game             `json:"games"`
	Availability []availability.Record   `json:"availability"`
	Invitations  []invitation.Invitation `json:"invitations"`
	Schedules    []schedule.Schedule     `json:"schedules"`
	Sequences    map[Sequence]int64      `json:"sequences"`
}

func (s Snapshot) Empty() bool {
	return len(s.Users) == 0 && len(s.Members) == 0 && len(s.Games) == 0 &&
		len(s.Availability) == 0 && len(s.Invitations) == 0 && len(s.Schedules) == 0
}

// Repositories is the view of the store inside one View or Update call.
type Repositories interface {
	Crew() crewmember.Repository
	Games() game.Repository
	Availability() availability.Repository
	Invitations() invitation.Repository
	Schedules() schedule.Repository
	// NextID allocates from seq. Allocations are discarded with a failed Update.
	NextID(seq Sequence) int64
}

// Store runs use case callbacks against the roster. Update callbacks are
// serialized; a callback or save error leaves the store unchanged.
type Store interface {
	View(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) error
	Update(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) error
	// Version increases after every committed Update.
	Version() uint64
}

// Persister is the durable side of the store.
type Persister interface {
	// Load returns found=false when nothing has been saved yet.
	Load(ctx context.Context) (Snapshot, bool, error)
	Save(ctx context.Context, snap Snapshot) error
}
