package app

import (
	"context"
	"fmt"

	"github.com/riskibarqy/frogcrew/internal/config"
	"github.com/riskibarqy/frogcrew/internal/domain/roster"
	"github.com/riskibarqy/frogcrew/internal/infrastructure/repository/jsonfile"
	"github.com/riskibarqy/frogcrew/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/frogcrew/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/frogcrew/internal/infrastructure/repository/s3"
	"github.com/riskibarqy/frogcrew/internal/infrastructure/repository/snapshot"
	"github.com/riskibarqy/frogcrew/internal/infrastructure/repository/sqlite"
	"github.com/riskibarqy/frogcrew/internal/platform/logging"
	"github.com/riskibarqy/frogcrew/internal/platform/password"
	"github.com/riskibarqy/frogcrew/internal/platform/resilience"
)

// OpenPersister builds the snapshot persister selected by STORE_BACKEND.
// Remote backends are wrapped in a circuit breaker. The returned close
// function releases connections and is never nil.
func OpenPersister(ctx context.Context, cfg config.Config, logger *logging.Logger) (roster.Persister, func() error, error) {
	if logger == nil {
		logger = logging.Default()
	}
	nopClose := func() error { return nil }
	breaker := resilience.CircuitBreakerConfig{
		Enabled:          cfg.StoreCircuitEnabled,
		FailureThreshold: cfg.StoreCircuitFailureCount,
		OpenTimeout:      cfg.StoreCircuitOpenTimeout,
		HalfOpenMaxReq:   cfg.StoreCircuitHalfOpenMaxReq,
	}

	switch cfg.StoreBackend {
	case "", config.StoreMemory:
		return memory.NopPersister{}, nopClose, nil
	case config.StoreJSONFile:
		return jsonfile.NewPersister(cfg.StoreJSONPath), nopClose, nil
	case config.StoreSQLite:
		p, err := sqlite.Open(ctx, cfg.StoreSQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return p, p.Close, nil
	case config.StorePostgres:
		db, err := openPostgres(ctx, cfg, logger)
		if err != nil {
			return nil, nil, err
		}
		p := postgres.NewRosterPersister(db, cfg.ServiceName)
		return snapshot.Guard(p, breaker, config.StorePostgres, logger), db.Close, nil
	case config.StoreS3:
		p, err := s3.New(ctx, s3.Config{
			Bucket:          cfg.StoreS3Bucket,
			Region:          cfg.StoreS3Region,
			Endpoint:        cfg.StoreS3Endpoint,
			Key:             cfg.StoreS3Key,
			PathStyle:       cfg.StoreS3PathStyle,
			AccessKeyID:     cfg.StoreS3AccessKeyID,
			SecretAccessKey: cfg.StoreS3SecretAccessKey,
		})
		if err != nil {
			return nil, nil, err
		}
		return snapshot.Guard(p, breaker, config.StoreS3, logger), nopClose, nil
	default:
		return nil, nil, fmt.Errorf("unsupported store backend %q", cfg.StoreBackend)
	}
}

// OpenStore loads the roster through the configured persister and seeds it
// when nothing has been saved yet and SEED_ENABLED=true.
func OpenStore(ctx context.Context, cfg config.Config, logger *logging.Logger) (*memory.Store, func() error, error) {
	if logger == nil {
		logger = logging.Default()
	}

	persister, closePersister, err := OpenPersister(ctx, cfg, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s persister: %w", cfg.StoreBackend, err)
	}

	store, loaded, err := memory.Open(ctx, persister, logger)
	if err != nil {
		_ = closePersister()
		return nil, nil, err
	}
	logger.Info("roster store opened", "backend", cfg.StoreBackend, "loaded", loaded)

	if !loaded && cfg.SeedEnabled {
		if err := SeedStore(ctx, store, cfg.SeedFile); err != nil {
			_ = closePersister()
			return nil, nil, err
		}
		logger.Info("roster seeded", "seed_file", cfg.SeedFile)
	}

	return store, closePersister, nil
}

// SeedStore replaces the store content with the seed roster. An empty path
// uses the built-in demo roster.
func SeedStore(ctx context.Context, store *memory.Store, path string) error {
	seed := memory.DefaultSeed()
	if path != "" {
		var err error
		if seed, err = memory.LoadSeedFile(path); err != nil {
			return fmt.Errorf("load seed file: %w", err)
		}
	}

	snap, err := seed.Build(password.Hasher{}.Hash)
	if err != nil {
		return fmt.Errorf("build seed roster: %w", err)
	}
	if err := store.Replace(ctx, snap); err != nil {
		return fmt.Errorf("store seed roster: %w", err)
	}
	return nil
}
