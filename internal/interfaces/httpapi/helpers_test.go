package httpapi

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	sonic "github.com/bytedance/sonic"

	"github.com/riskibarqy/frogcrew/internal/domain/game"
	"github.com/riskibarqy/frogcrew/internal/infrastructure/repository/memory"
	idgen "github.com/riskibarqy/frogcrew/internal/platform/id"
	"github.com/riskibarqy/frogcrew/internal/platform/logging"
	"github.com/riskibarqy/frogcrew/internal/usecase"
)

const testAdminKey = "letmein"

type plainHasher struct{}

func (plainHasher) Hash(plain string) (string, error) { return "hash:" + plain, nil }

type testResponse struct {
	Code int
	Body envelopeBody
}

type envelopeBody struct {
	Success    bool   `json:"success"`
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
	Data       any    `json:"data"`
}

func newTestRouter(t *testing.T, opts RouterOptions) http.Handler {
	t.Helper()

	snap, err := memory.DefaultSeed().Build(plainHasher{}.Hash)
	if err != nil {
		t.Fatalf("build seed: %v", err)
	}
	store := memory.NewStore(snap, nil, logging.NewNop())
	logger := logging.NewNop()

	handler := NewHandler(Services{
		Crew:         usecase.NewCrewService(store, plainHasher{}, logger),
		Games:        usecase.NewGameService(store, logger),
		Schedules:    usecase.NewScheduleService(store, logger),
		Assignments:  usecase.NewAssignmentService(store, game.DefaultRules(), nil, nil, logger),
		Availability: usecase.NewAvailabilityService(store, nil, logger),
		Invitations: usecase.NewInvitationService(
			store,
			idgen.NewSequence("tok-1", "tok-2"),
			idgen.NewSequence("inv-1", "inv-2"),
			plainHasher{},
			nil,
			nil,
			usecase.InvitationOptions{},
			logger,
		),
	}, logger)

	opts.Logger = logger
	return NewRouter(handler, opts)
}

func doRequest(t *testing.T, h http.Handler, method, path, body string, headers map[string]string) testResponse {
	t.Helper()

	req := httptest.NewRequest(method, path, bytes.NewReader([]byte(body)))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var out envelopeBody
	if err := sonic.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("%s %s: unmarshal body %q: %v", method, path, rec.Body.String(), err)
	}
	return testResponse{Code: rec.Code, Body: out}
}

func dataMap(t *testing.T, resp testResponse) map[string]any {
	t.Helper()
	m, ok := resp.Body.Data.(map[string]any)
	if !ok {
		t.Fatalf("expected object data, got %T (%v)", resp.Body.Data, resp.Body.Data)
	}
	return m
}

func dataList(t *testing.T, resp testResponse) []any {
	t.Helper()
	list, ok := resp.Body.Data.([]any)
	if !ok {
		t.Fatalf("expected list data, got %T (%v)", resp.Body.Data, resp.Body.Data)
	}
	return list
}
