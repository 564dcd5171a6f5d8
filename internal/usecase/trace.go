package usecase

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const usecaseTracerName = "frogcrew/internal/usecase"

var usecaseNoopSpan = trace.SpanFromContext(context.Background())

var (
	attrGameID       = attribute.Key("frogcrew.game_id")
	attrUserID       = attribute.Key("frogcrew.user_id")
	attrCrewedUserID = attribute.Key("frogcrew.crewed_user_id")
	attrPosition     = attribute.Key("frogcrew.position")
	attrInvitees     = attribute.Key("frogcrew.invitees")
)

// startUsecaseSpan only opens a child span; calls outside a traced request
// stay span-free.
func startUsecaseSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	if strings.TrimSpace(name) == "" {
		return ctx, usecaseNoopSpan
	}
	parent := trace.SpanFromContext(ctx)
	if !parent.SpanContext().IsValid() {
		return ctx, usecaseNoopSpan
	}
	return otel.GetTracerProvider().Tracer(usecaseTracerName).Start(ctx, name, trace.WithAttributes(attrs...))
}
