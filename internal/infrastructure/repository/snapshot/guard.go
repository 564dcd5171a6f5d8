package snapshot

import (
	"context"

	"github.com/riskibarqy/frogcrew/internal/domain/roster"
	"github.com/riskibarqy/frogcrew/internal/platform/logging"
	"github.com/riskibarqy/frogcrew/internal/platform/resilience"
)

// GuardedPersister trips a circuit breaker around a remote persister so a
// dead backend fails fast with resilience.ErrCircuitOpen.
type GuardedPersister struct {
	next    roster.Persister
	breaker *resilience.CircuitBreaker
}

func Guard(next roster.Persister, cfg resilience.CircuitBreakerConfig, name string, logger *logging.Logger) *GuardedPersister {
	if logger == nil {
		logger = logging.Default()
	}
	breaker := resilience.NewCircuitBreaker(cfg)
	breaker.OnStateChange(func(from, to resilience.CircuitState) {
		logger.Warn("persister circuit state changed", "persister", name, "from", string(from), "to", string(to))
	})
	return &GuardedPersister{next: next, breaker: breaker}
}

func (g *GuardedPersister) Load(ctx context.Context) (roster.Snapshot, bool, error) {
	var (
		snap  roster.Snapshot
		found bool
	)
	err := g.breaker.Execute(ctx, func(ctx context.Context) error {
		var err error
		snap, found, err = g.next.Load(ctx)
		return err
	})
	if err != nil {
		return roster.Snapshot{}, false, err
	}
	return snap, found, nil
}

func (g *GuardedPersister) Save(ctx context.Context, snap roster.Snapshot) error {
	return g.breaker.Execute(ctx, func(ctx context.Context) error {
		return g.next.Save(ctx, snap)
	})
}

func (g *GuardedPersister) State() resilience.CircuitState {
	return g.breaker.State()
}
