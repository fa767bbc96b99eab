package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/urmzd/butler/pkg/auth"
	"github.com/urmzd/butler/pkg/command"
	"github.com/urmzd/butler/pkg/device"
	"github.com/urmzd/butler/pkg/device/schema"
	"github.com/urmzd/butler/pkg/ratelimit"
)

type apiStub struct {
	name      string
	link      *device.Link
	statusErr error
	execErr   error
}

func (s *apiStub) Name() string                         { return s.name }
func (s *apiStub) Link() *device.Link                   { return s.link }
func (s *apiStub) Connect(ctx context.Context) error    { return nil }
func (s *apiStub) Disconnect(ctx context.Context) error { return nil }

func (s *apiStub) Status(ctx context.Context) (device.State, error) {
	if s.statusErr != nil {
		return nil, s.statusErr
	}
	return device.State{"on": true}, nil
}

func (s *apiStub) Execute(ctx context.Context, cmd string, params device.Params) error {
	return s.execErr
}

func testRouter(t *testing.T, secret string, stubs ...*apiStub) *Router {
	t.Helper()
	log := zerolog.Nop()
	adapters := make([]device.Adapter, len(stubs))
	for i, s := range stubs {
		adapters[i] = s
	}
	registry := device.NewRegistry(log, time.Second, adapters...)
	authSvc := auth.NewService(auth.Config{WebhookSecret: secret}, log, log)
	orch := command.NewOrchestrator(authSvc, ratelimit.New(100, time.Minute), registry, log)
	return NewRouter(registry, orch, authSvc, schema.NewValidator())
}

func do(r *Router, method, path, body string, header map[string]string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range header {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.Handler().ServeHTTP(w, req)
	return w
}

func newStub(name string) *apiStub {
	return &apiStub{name: name, link: device.NewLink()}
}

func TestHealth_OKAndDegraded(t *testing.T) {
	lights := newStub("lights")
	r := testRouter(t, "", lights)

	w := do(r, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	lights.statusErr = context.DeadlineExceeded
	w = do(r, http.MethodGet, "/api/v1/health", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestStatus_ReportsEveryAdapter(t *testing.T) {
	r := testRouter(t, "", newStub("lights"), newStub("tv"))

	w := do(r, http.MethodGet, "/api/v1/status", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Devices map[string]device.StatusResult `json:"devices"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Devices, 2)
}

func TestExecute_SchemaRejectsBadParams(t *testing.T) {
	lights := newStub("lights")
	r := testRouter(t, "", lights)

	w := do(r, http.MethodPost, "/api/v1/device/lights/set_brightness",
		`{"room":"kitchen","brightness":150}`, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestExecute_UnknownDevice(t *testing.T) {
	r := testRouter(t, "", newStub("lights"))

	w := do(r, http.MethodPost, "/api/v1/device/thermostat/on", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestExecute_Success(t *testing.T) {
	r := testRouter(t, "", newStub("tv"))

	w := do(r, http.MethodPost, "/api/v1/device/tv/on", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestEvent_SecretGate(t *testing.T) {
	r := testRouter(t, "topsecret", newStub("lights"))
	body := `{"caller":{"id":1},"kind":"text","free_text":"включи свет"}`

	w := do(r, http.MethodPost, "/api/v1/event", body, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(r, http.MethodPost, "/api/v1/event", body,
		map[string]string{"X-Webhook-Secret": "topsecret"})
	require.Equal(t, http.StatusOK, w.Code)

	var out command.Outcome
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	assert.True(t, out.Success)
}

func TestSessions_IssueAndRevoke(t *testing.T) {
	r := testRouter(t, "", newStub("lights"))

	w := do(r, http.MethodPost, "/api/v1/sessions", `{"caller":{"id":42}}`, nil)
	require.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)

	w = do(r, http.MethodDelete, "/api/v1/sessions/"+resp.Token, "", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = do(r, http.MethodDelete, "/api/v1/sessions/"+resp.Token, "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSecurityStats(t *testing.T) {
	r := testRouter(t, "", newStub("lights"))

	w := do(r, http.MethodGet, "/api/v1/security/stats", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var stats auth.Stats
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.Zero(t, stats.ActiveSessions)
}
