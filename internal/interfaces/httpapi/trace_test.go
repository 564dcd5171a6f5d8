package httpapi

import (
	"context"
	"net/http"
	"testing"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func useSpanRecorder(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()

	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	previous := otel.GetTracerProvider()
	otel.SetTracerProvider(provider)
	t.Cleanup(func() {
		otel.SetTracerProvider(previous)
		_ = provider.Shutdown(context.Background())
	})
	return recorder
}

func endedSpan(t *testing.T, recorder *tracetest.SpanRecorder, name string) sdktrace.ReadOnlySpan {
	t.Helper()

	var names []string
	for _, span := range recorder.Ended() {
		if span.Name() == name {
			return span
		}
		names = append(names, span.Name())
	}
	t.Fatalf("span %q not recorded, got %v", name, names)
	return nil
}

func spanAttr(span sdktrace.ReadOnlySpan, key attribute.Key) (string, bool) {
	for _, kv := range span.Attributes() {
		if kv.Key == key {
			return kv.Value.Emit(), true
		}
	}
	return "", false
}

func TestShouldCreateHTTPAPISpan(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want bool
	}{
		{name: "handler span", in: "httpapi.Handler.AssignCrewMember", want: true},
		{name: "request validation", in: "httpapi.Handler.validateRequest", want: true},
		{name: "middleware span", in: "httpapi.RequireAdminKey", want: false},
		{name: "helper span", in: "httpapi.writeError", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := shouldCreateHTTPAPISpan(tt.in)
			if got != tt.want {
				t.Fatalf("shouldCreateHTTPAPISpan(%q)=%v want=%v", tt.in, got, tt.want)
			}
		})
	}
}

func TestRouteName(t *testing.T) {
	tests := []struct {
		name      string
		method    string
		pattern   string
		wantName  string
		wantRoute string
	}{
		{name: "method pattern", method: http.MethodGet, pattern: "GET /v1/games/{gameID}/crew", wantName: "GET /v1/games/{gameID}/crew", wantRoute: "/v1/games/{gameID}/crew"},
		{name: "path only pattern", method: http.MethodPost, pattern: "/v1/availability", wantName: "POST /v1/availability", wantRoute: "/v1/availability"},
		{name: "unmatched", method: http.MethodGet, pattern: "", wantName: "", wantRoute: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := http.NewRequest(tt.method, "/", nil)
			if err != nil {
				t.Fatalf("new request: %v", err)
			}
			r.Pattern = tt.pattern

			if got := routeName(r); got != tt.wantName {
				t.Fatalf("routeName=%q want=%q", got, tt.wantName)
			}
			if got := routePath(tt.pattern); got != tt.wantRoute {
				t.Fatalf("routePath=%q want=%q", got, tt.wantRoute)
			}
		})
	}
}

func TestRouter_SpansNamedAfterRoute(t *testing.T) {
	recorder := useSpanRecorder(t)
	router := newTestRouter(t, RouterOptions{})

	res := doRequest(t, router, http.MethodGet, "/v1/games/1/candidates/AUDIO", "", nil)
	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", res.Code, res.Body.Message)
	}

	endedSpan(t, recorder, "GET /v1/games/{gameID}/candidates/{position}")

	handler := endedSpan(t, recorder, "httpapi.Handler.ListCandidates")
	if got, _ := spanAttr(handler, "frogcrew.game_id"); got != "1" {
		t.Fatalf("expected game_id 1, got %q", got)
	}
	if got, _ := spanAttr(handler, "frogcrew.position"); got != "AUDIO" {
		t.Fatalf("expected position AUDIO, got %q", got)
	}

	endedSpan(t, recorder, "usecase.AssignmentService.EligibleCandidates")
}

func TestRouter_InvitationTokenNotTagged(t *testing.T) {
	recorder := useSpanRecorder(t)
	router := newTestRouter(t, RouterOptions{})

	doRequest(t, router, http.MethodGet, "/v1/invitations/secret-token", "", nil)

	endedSpan(t, recorder, "GET /v1/invitations/{token}")
	handler := endedSpan(t, recorder, "httpapi.Handler.ValidateInvitation")
	for _, kv := range handler.Attributes() {
		if kv.Value.Emit() == "secret-token" {
			t.Fatalf("handler span carries the invitation token in %s", kv.Key)
		}
	}
}

func TestRouter_HealthzNotTraced(t *testing.T) {
	recorder := useSpanRecorder(t)
	router := newTestRouter(t, RouterOptions{})

	res := doRequest(t, router, http.MethodGet, "/healthz", "", nil)
	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.Code)
	}
	if spans := recorder.Ended(); len(spans) != 0 {
		t.Fatalf("expected no spans for /healthz, got %d (first %q)", len(spans), spans[0].Name())
	}
}
