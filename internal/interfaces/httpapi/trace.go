package httpapi

import (
	"context"
	"net/http"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const apiTracerName = "frogcrew/internal/interfaces/httpapi"

var noopSpan = trace.SpanFromContext(context.Background())

// Path values copied onto handler spans. Invitation tokens are secrets and
// never leave the request.
var spanPathValues = []struct {
	param string
	key   attribute.Key
}{
	{param: "gameID", key: "frogcrew.game_id"},
	{param: "userID", key: "frogcrew.user_id"},
	{param: "crewedUserID", key: "frogcrew.crewed_user_id"},
	{param: "scheduleID", key: "frogcrew.schedule_id"},
	{param: "position", key: "frogcrew.position"},
}

func startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	parent := trace.SpanFromContext(ctx)
	if !parent.SpanContext().IsValid() {
		// Untraced request (health, metrics, docs): no standalone root spans.
		return ctx, noopSpan
	}
	if !shouldCreateHTTPAPISpan(name) {
		return ctx, noopSpan
	}
	return otel.GetTracerProvider().Tracer(apiTracerName).Start(ctx, name)
}

// startHandlerSpan renames the server span after the matched route, so
// /v1/games/1/crew and /v1/games/2/crew share one span name, and tags the
// handler span with the ids from the path.
func startHandlerSpan(r *http.Request, name string) (context.Context, trace.Span) {
	route := routeName(r)
	if route != "" {
		server := trace.SpanFromContext(r.Context())
		server.SetName(route)
		server.SetAttributes(attribute.String("http.route", routePath(r.Pattern)))
	}

	ctx, span := startSpan(r.Context(), name)
	if !span.IsRecording() {
		return ctx, span
	}
	attrs := make([]attribute.KeyValue, 0, len(spanPathValues))
	for _, pv := range spanPathValues {
		if v := strings.TrimSpace(r.PathValue(pv.param)); v != "" {
			attrs = append(attrs, pv.key.String(v))
		}
	}
	span.SetAttributes(attrs...)
	return ctx, span
}

func routeName(r *http.Request) string {
	if r.Pattern == "" {
		return ""
	}
	if strings.HasPrefix(r.Pattern, "/") {
		return r.Method + " " + r.Pattern
	}
	return r.Pattern
}

// routePath drops the method from a ServeMux pattern.
func routePath(pattern string) string {
	if _, path, ok := strings.Cut(pattern, " "); ok {
		return path
	}
	return pattern
}

func shouldCreateHTTPAPISpan(name string) bool {
	return strings.HasPrefix(name, "httpapi.Handler.")
}
