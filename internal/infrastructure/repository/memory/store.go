package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/riskibarqy/frogcrew/internal/domain/roster"
	"github.com/riskibarqy/frogcrew/internal/platform/logging"
)

var errReadOnly = errors.New("write attempted inside a read-only view")

// Store holds the roster in memory and flushes every committed Update
// through a roster.Persister before making it visible.
type Store struct {
	writeMu   sync.Mutex
	current   atomic.Pointer[state]
	version   atomic.Uint64
	persister roster.Persister
	logger    *logging.Logger
}

// NewStore starts from snap without loading from the persister.
func NewStore(snap roster.Snapshot, persister roster.Persister, logger *logging.Logger) *Store {
	if persister == nil {
		persister = NopPersister{}
	}
	if logger == nil {
		logger = logging.Default()
	}

	s := &Store{persister: persister, logger: logger}
	s.current.Store(newState(snap))
	return s
}

// Open loads the last saved snapshot. loaded is false for a fresh backend.
func Open(ctx context.Context, persister roster.Persister, logger *logging.Logger) (store *Store, loaded bool, err error) {
	if persister == nil {
		persister = NopPersister{}
	}
	snap, found, err := persister.Load(ctx)
	if err != nil {
		return nil, false, fmt.Errorf("load roster snapshot: %w", err)
	}
	if err := snap.Validate(time.Now().UTC()); err != nil {
		return nil, false, err
	}
	return NewStore(snap, persister, logger), found, nil
}

func (s *Store) View(ctx context.Context, fn func(ctx context.Context, repos roster.Repositories) error) error {
	return fn(ctx, &repositories{st: s.current.Load(), readOnly: true})
}

// Update runs fn against a private copy of the state. The copy replaces the
// current state only when fn and the persister both succeed.
func (s *Store) Update(ctx context.Context, fn func(ctx context.Context, repos roster.Repositories) error) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	draft := s.current.Load().clone()
	if err := fn(ctx, &repositories{st: draft}); err != nil {
		return err
	}

	if err := s.persister.Save(ctx, draft.snapshot()); err != nil {
		s.logger.WarnContext(ctx, "roster save failed, mutation discarded", "error", err)
		return fmt.Errorf("save roster snapshot: %w", err)
	}

	s.current.Store(draft)
	s.version.Add(1)
	return nil
}

func (s *Store) Version() uint64 {
	return s.version.Load()
}

// Snapshot returns a copy of the committed state.
func (s *Store) Snapshot() roster.Snapshot {
	return s.current.Load().snapshot()
}

// Replace swaps in snap wholesale and persists it, e.g. for an import.
// An invalid snapshot leaves the store untouched.
func (s *Store) Replace(ctx context.Context, snap roster.Snapshot) error {
	if err := snap.Validate(time.Now().UTC()); err != nil {
		return err
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	next := newState(snap)
	if err := s.persister.Save(ctx, next.snapshot()); err != nil {
		return fmt.Errorf("save roster snapshot: %w", err)
	}
	s.current.Store(next)
	s.version.Add(1)
	return nil
}

// NopPersister keeps nothing; used for the in-memory backend.
type NopPersister struct{}

func (NopPersister) Load(context.Context) (roster.Snapshot, bool, error) {
	return roster.Snapshot{}, false, nil
}

func (NopPersister) Save(context.Context, roster.Snapshot) error {
	return nil
}
