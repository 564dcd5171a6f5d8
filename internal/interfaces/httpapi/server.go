package httpapi

import (
	"net/http"

	"github.com/riskibarqy/frogcrew/internal/platform/logging"
)

// RouterOptions carries the transport settings resolved from config.
type RouterOptions struct {
	Logger             *logging.Logger
	SwaggerEnabled     bool
	CORSAllowedOrigins []string
	AdminKeyEnabled    bool
	AdminKey           string
	// Metrics and MetricsHandler are both nil when metrics are disabled.
	Metrics        HTTPObserver
	MetricsHandler http.Handler
}

func NewRouter(handler *Handler, opts RouterOptions) http.Handler {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Default()
	}

	mux := http.NewServeMux()
	registerSystemRoutes(mux, handler, opts)
	registerReadRoutes(mux, handler)
	registerWriteRoutes(mux, handler, adminGuard(opts))

	return RequestTracing(RequestLogging(logger, CORS(opts.CORSAllowedOrigins, recoverPanic(logger, RequestMetrics(opts.Metrics, mux)))))
}

// adminGuard returns the wrapper applied to admin-only routes.
func adminGuard(opts RouterOptions) func(http.HandlerFunc) http.Handler {
	if !opts.AdminKeyEnabled {
		return func(h http.HandlerFunc) http.Handler { return h }
	}
	return func(h http.HandlerFunc) http.Handler {
		return RequireAdminKey(opts.AdminKey, h)
	}
}

func recoverPanic(logger *logging.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, span := startSpan(r.Context(), "httpapi.recoverPanic")
		defer span.End()

		defer func() {
			if rec := recover(); rec != nil {
				logger.ErrorContext(ctx, "panic recovered", "panic", rec, "path", r.URL.Path)
				writeInternalError(ctx, w)
			}
		}()
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
