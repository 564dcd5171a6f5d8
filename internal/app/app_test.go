package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/riskibarqy/frogcrew/internal/config"
	"github.com/riskibarqy/frogcrew/internal/domain/roster"
	"github.com/riskibarqy/frogcrew/internal/infrastructure/notify"
	"github.com/riskibarqy/frogcrew/internal/infrastructure/repository/jsonfile"
	"github.com/riskibarqy/frogcrew/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/frogcrew/internal/infrastructure/repository/sqlite"
	"github.com/riskibarqy/frogcrew/internal/platform/logging"
	"github.com/riskibarqy/frogcrew/internal/usecase"
)

func testConfig(t *testing.T) config.Config {
	t.Helper()
	return config.Config{
		AppEnv:                     config.EnvDev,
		ServiceName:                "frogcrew-test",
		HTTPAddr:                   "127.0.0.1:0",
		ReadTimeout:                time.Second,
		WriteTimeout:               time.Second,
		StoreBackend:               config.StoreMemory,
		StoreJSONPath:              filepath.Join(t.TempDir(), "roster.json"),
		StoreSQLitePath:            filepath.Join(t.TempDir(), "roster.db"),
		StoreCircuitFailureCount:   5,
		StoreCircuitOpenTimeout:    time.Second,
		StoreCircuitHalfOpenMaxReq: 1,
		SeedEnabled:                true,
		CacheEnabled:               true,
		CacheTTL:                   time.Minute,
		AvailabilityGating:         true,
		NotifyTimeout:              time.Second,
		NotifyWorkers:              2,
		InviteBaseURL:              "http://localhost:5173/register",
		MetricsEnabled:             true,
	}
}

func TestOpenPersister_Backends(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		backend string
		check   func(t *testing.T, p any)
	}{
		{backend: config.StoreMemory, check: func(t *testing.T, p any) {
			if _, ok := p.(memory.NopPersister); !ok {
				t.Fatalf("expected NopPersister, got %T", p)
			}
		}},
		{backend: config.StoreJSONFile, check: func(t *testing.T, p any) {
			if _, ok := p.(*jsonfile.Persister); !ok {
				t.Fatalf("expected jsonfile persister, got %T", p)
			}
		}},
		{backend: config.StoreSQLite, check: func(t *testing.T, p any) {
			if _, ok := p.(*sqlite.Persister); !ok {
				t.Fatalf("expected sqlite persister, got %T", p)
			}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.backend, func(t *testing.T) {
			cfg := testConfig(t)
			cfg.StoreBackend = tt.backend

			p, closeFn, err := OpenPersister(ctx, cfg, logging.NewNop())
			if err != nil {
				t.Fatalf("open persister: %v", err)
			}
			defer func() { _ = closeFn() }()
			tt.check(t, p)
		})
	}

	cfg := testConfig(t)
	cfg.StoreBackend = "redis"
	if _, _, err := OpenPersister(ctx, cfg, logging.NewNop()); err == nil {
		t.Fatalf("expected error for unknown backend")
	}
}

func TestOpenStore_SeedsOnlyWhenEmpty(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t)
	cfg.StoreBackend = config.StoreJSONFile

	store, closeFn, err := OpenStore(ctx, cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	_ = closeFn()
	if got := len(store.Snapshot().Users); got != 4 {
		t.Fatalf("expected seeded users, got %d", got)
	}

	// A second open must load the saved roster instead of reseeding it.
	cfg.SeedEnabled = false
	reopened, closeFn, err := OpenStore(ctx, cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("reopen store: %v", err)
	}
	defer func() { _ = closeFn() }()
	if got := len(reopened.Snapshot().Games); got != 2 {
		t.Fatalf("expected persisted games, got %d", got)
	}
}

func TestOpenStore_SeedDisabledStartsEmpty(t *testing.T) {
	cfg := testConfig(t)
	cfg.SeedEnabled = false

	store, closeFn, err := OpenStore(context.Background(), cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer func() { _ = closeFn() }()
	if !store.Snapshot().Empty() {
		t.Fatalf("expected empty roster")
	}
}

func TestSeedStore_MissingFile(t *testing.T) {
	store := memory.NewStore(roster.Snapshot{}, nil, logging.NewNop())
	if err := SeedStore(context.Background(), store, filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatalf("expected error for missing seed file")
	}
}

func TestNewNotifier(t *testing.T) {
	cfg := testConfig(t)

	n, err := NewNotifier(cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("new notifier: %v", err)
	}
	if _, ok := n.(*notify.LogNotifier); !ok {
		t.Fatalf("expected log notifier when disabled, got %T", n)
	}

	cfg.NotifyEnabled = true
	cfg.NotifyWebhookURL = "https://relay.example/hooks/invite"
	n, err = NewNotifier(cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("new notifier: %v", err)
	}
	if _, ok := n.(*notify.WebhookNotifier); !ok {
		t.Fatalf("expected webhook notifier, got %T", n)
	}

	cfg.NotifyWebhookURL = "ftp://relay.example"
	if _, err := NewNotifier(cfg, logging.NewNop()); err == nil {
		t.Fatalf("expected invalid webhook url error")
	}
}

func TestNew_ServesSeededRosterAndMetrics(t *testing.T) {
	a, err := New(context.Background(), testConfig(t), logging.NewNop())
	if err != nil {
		t.Fatalf("new app: %v", err)
	}

	rec := httptest.NewRecorder()
	a.Server.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/games/1/crew", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	a.Server.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "frogcrew_http_requests_total") {
		t.Fatalf("expected metrics exposition, got %d", rec.Code)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := a.Shutdown(ctx); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
}

func TestNewServices_AppliesGatingFlag(t *testing.T) {
	cfg := testConfig(t)
	store := memory.NewStore(roster.Snapshot{}, nil, logging.NewNop())
	if err := SeedStore(context.Background(), store, ""); err != nil {
		t.Fatalf("seed: %v", err)
	}
	ctx := context.Background()

	// Dwayne Johnson (user 4) declines game 1, then is offered for AUDIO.
	cfg.AvailabilityGating = false
	services := NewServices(store, cfg, nil, nil, nil, logging.NewNop())
	if _, err := services.Availability.Submit(ctx, usecase.SubmitAvailabilityInput{UserID: 4, GameID: 1, Available: false}); err != nil {
		t.Fatalf("submit availability: %v", err)
	}
	open, err := services.Assignments.EligibleCandidates(ctx, 1, "AUDIO")
	if err != nil {
		t.Fatalf("candidates: %v", err)
	}
	if len(open) != 1 {
		t.Fatalf("expected declined member listed without gating, got %d", len(open))
	}

	cfg.AvailabilityGating = true
	gated, err := NewServices(store, cfg, nil, nil, nil, logging.NewNop()).Assignments.EligibleCandidates(ctx, 1, "AUDIO")
	if err != nil {
		t.Fatalf("candidates: %v", err)
	}
	if len(gated) != 0 {
		t.Fatalf("expected declined member filtered with gating, got %d", len(gated))
	}
}
