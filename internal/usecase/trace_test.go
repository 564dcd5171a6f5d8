package usecase

import (
	"context"
	"testing"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/riskibarqy/frogcrew/internal/domain/game"
	"github.com/riskibarqy/frogcrew/internal/platform/logging"
)

func useSpanRecorder(t *testing.T) (*tracetest.SpanRecorder, *sdktrace.TracerProvider) {
	t.Helper()

	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	previous := otel.GetTracerProvider()
	otel.SetTracerProvider(provider)
	t.Cleanup(func() {
		otel.SetTracerProvider(previous)
		_ = provider.Shutdown(context.Background())
	})
	return recorder, provider
}

func TestAssignmentService_AssignSpanCarriesIDs(t *testing.T) {
	recorder, provider := useSpanRecorder(t)
	ctx, request := provider.Tracer("test").Start(context.Background(), "POST /v1/games/{gameID}/assignments")

	svc := NewAssignmentService(newSeededStore(t, nil), game.DefaultRules(), nil, nil, logging.NewNop())
	if _, err := svc.Assign(ctx, AssignInput{GameID: 1, UserID: 4, Position: "AUDIO"}); err != nil {
		t.Fatalf("assign: %v", err)
	}
	request.End()

	var assign sdktrace.ReadOnlySpan
	for _, span := range recorder.Ended() {
		if span.Name() == "usecase.AssignmentService.Assign" {
			assign = span
		}
	}
	if assign == nil {
		t.Fatalf("expected an Assign span, got %d spans", len(recorder.Ended()))
	}
	if assign.Parent().SpanID() != request.SpanContext().SpanID() {
		t.Fatalf("expected Assign span under the request span")
	}

	want := map[attribute.Key]string{
		attrGameID:   "1",
		attrUserID:   "4",
		attrPosition: "AUDIO",
	}
	got := make(map[attribute.Key]string, len(assign.Attributes()))
	for _, kv := range assign.Attributes() {
		got[kv.Key] = kv.Value.Emit()
	}
	for key, value := range want {
		if got[key] != value {
			t.Fatalf("expected %s=%q, got %q", key, value, got[key])
		}
	}
}

func TestGameService_PublishOutsideRequestOpensNoSpan(t *testing.T) {
	recorder, _ := useSpanRecorder(t)

	svc := NewGameService(newSeededStore(t, nil), logging.NewNop())
	if _, err := svc.Publish(context.Background(), 1); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if spans := recorder.Ended(); len(spans) != 0 {
		t.Fatalf("expected no spans without a parent, got %d (first %q)", len(spans), spans[0].Name())
	}
}
