package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/sourcegraph/conc"

	"github.com/riskibarqy/frogcrew/internal/config"
	"github.com/riskibarqy/frogcrew/internal/domain/game"
	"github.com/riskibarqy/frogcrew/internal/domain/invitation"
	"github.com/riskibarqy/frogcrew/internal/domain/roster"
	"github.com/riskibarqy/frogcrew/internal/infrastructure/notify"
	"github.com/riskibarqy/frogcrew/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/frogcrew/internal/interfaces/httpapi"
	"github.com/riskibarqy/frogcrew/internal/observability"
	"github.com/riskibarqy/frogcrew/internal/platform/cache"
	idgen "github.com/riskibarqy/frogcrew/internal/platform/id"
	"github.com/riskibarqy/frogcrew/internal/platform/logging"
	"github.com/riskibarqy/frogcrew/internal/platform/password"
	"github.com/riskibarqy/frogcrew/internal/platform/resilience"
	"github.com/riskibarqy/frogcrew/internal/usecase"
)

const invitationTokenBytes = 16

// App owns the HTTP server and everything it needs to shut down cleanly.
type App struct {
	Server  *http.Server
	Store   *memory.Store
	Metrics *observability.Metrics

	cache          *cache.Store
	invitations    *usecase.InvitationService
	closePersister func() error
	stop           context.CancelFunc
	background     conc.WaitGroup
	logger         *logging.Logger
}

func New(ctx context.Context, cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.HTTPAddr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	store, closePersister, err := OpenStore(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	var metrics *observability.Metrics
	var events usecase.Events
	if cfg.MetricsEnabled {
		metrics = observability.NewMetrics()
		events = metrics
	}

	notifier, err := NewNotifier(cfg, logger)
	if err != nil {
		_ = closePersister()
		return nil, err
	}

	var readCache *cache.Store
	if cfg.CacheEnabled {
		readCache = cache.NewStore(cfg.CacheTTL)
	}

	services := NewServices(store, cfg, readCache, notifier, events, logger)
	handler := httpapi.NewHandler(services, logger.Named("httpapi"))

	opts := httpapi.RouterOptions{
		Logger:             logger,
		SwaggerEnabled:     cfg.SwaggerEnabled,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		AdminKeyEnabled:    cfg.AdminKeyEnabled,
		AdminKey:           cfg.AdminKey,
	}
	if metrics != nil {
		opts.Metrics = metrics
		opts.MetricsHandler = metrics.Handler()
	}

	bgCtx, stop := context.WithCancel(context.Background())
	a := &App{
		Server: &http.Server{
			Addr:         cfg.HTTPAddr,
			Handler:      httpapi.NewRouter(handler, opts),
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
		},
		Store:          store,
		Metrics:        metrics,
		cache:          readCache,
		invitations:    services.Invitations,
		closePersister: closePersister,
		stop:           stop,
		logger:         logger,
	}
	if readCache != nil {
		a.background.Go(func() { a.sweepCache(bgCtx, cfg.CacheTTL) })
	}

	return a, nil
}

// NewServices wires the use cases over store. readCache, notifier and events
// may be nil.
func NewServices(
	store roster.Store,
	cfg config.Config,
	readCache *cache.Store,
	notifier invitation.Notifier,
	events usecase.Events,
	logger *logging.Logger,
) httpapi.Services {
	hasher := password.Hasher{}
	rules := game.DefaultRules()
	rules.GateOnAvailability = cfg.AvailabilityGating

	return httpapi.Services{
		Crew:         usecase.NewCrewService(store, hasher, logger),
		Games:        usecase.NewGameService(store, logger),
		Schedules:    usecase.NewScheduleService(store, logger),
		Assignments:  usecase.NewAssignmentService(store, rules, readCache, events, logger),
		Availability: usecase.NewAvailabilityService(store, events, logger),
		Invitations: usecase.NewInvitationService(
			store,
			idgen.NewTokenGenerator(invitationTokenBytes),
			idgen.NewUUIDGenerator(),
			hasher,
			notifier,
			events,
			usecase.InvitationOptions{
				BaseURL:       cfg.InviteBaseURL,
				NotifyWorkers: cfg.NotifyWorkers,
			},
			logger,
		),
	}
}

// NewNotifier returns the webhook notifier when NOTIFY_ENABLED=true and a
// log-only notifier otherwise.
func NewNotifier(cfg config.Config, logger *logging.Logger) (invitation.Notifier, error) {
	if !cfg.NotifyEnabled {
		return notify.NewLogNotifier(logger), nil
	}

	notifier, err := notify.NewWebhookNotifier(notify.WebhookConfig{
		URL:            cfg.NotifyWebhookURL,
		Token:          cfg.NotifyToken,
		Timeout:        cfg.NotifyTimeout,
		CircuitBreaker: resilience.DefaultCircuitBreakerConfig(),
	}, logger.Named("notify"))
	if err != nil {
		return nil, err
	}
	return notifier, nil
}

func (a *App) sweepCache(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := a.cache.Sweep(); n > 0 {
				a.logger.Debug("cache swept", "evicted", n)
			}
		}
	}
}

// Shutdown drains the HTTP server, waits for queued invitation
// notifications, stops background loops and closes the persister.
func (a *App) Shutdown(ctx context.Context) error {
	errServer := a.Server.Shutdown(ctx)
	errNotify := a.invitations.Close(ctx)
	a.stop()
	a.background.Wait()
	errPersister := a.closePersister()
	return errors.Join(errServer, errNotify, errPersister)
}
