package observability

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/riskibarqy/frogcrew/internal/domain/position"
)

func TestMetrics_DomainCounters(t *testing.T) {
	m := NewMetrics()

	m.AssignmentCommitted(position.Camera)
	m.AssignmentCommitted(position.Camera)
	m.AssignmentRejected("conflict")
	m.AvailabilitySubmitted(false)
	m.InvitationsIssued(3)
	m.InvitationsIssued(0)
	m.NotificationFailed()

	if got := testutil.ToFloat64(m.assignments.WithLabelValues("CAMERA")); got != 2 {
		t.Fatalf("expected 2 CAMERA assignments, got %v", got)
	}
	if got := testutil.ToFloat64(m.assignmentRejects.WithLabelValues("conflict")); got != 1 {
		t.Fatalf("expected 1 conflict, got %v", got)
	}
	if got := testutil.ToFloat64(m.availability.WithLabelValues("false")); got != 1 {
		t.Fatalf("expected 1 unavailable answer, got %v", got)
	}
	if got := testutil.ToFloat64(m.invitations); got != 3 {
		t.Fatalf("expected 3 invitations, got %v", got)
	}
	if got := testutil.ToFloat64(m.notifyFailures); got != 1 {
		t.Fatalf("expected 1 notify failure, got %v", got)
	}
}

func TestMetrics_HandlerExposesHTTPSeries(t *testing.T) {
	m := NewMetrics()
	m.ObserveHTTPRequest("GET /v1/games/{gameID}", http.MethodGet, 404, 12*time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	body, _ := io.ReadAll(rec.Body)
	want := `frogcrew_http_requests_total{method="GET",route="GET /v1/games/{gameID}",status="404"} 1`
	if !strings.Contains(string(body), want) {
		t.Fatalf("expected %q in exposition:\n%s", want, body)
	}
	if !strings.Contains(string(body), "frogcrew_http_request_duration_seconds_count") {
		t.Fatalf("expected latency histogram in exposition")
	}
}
