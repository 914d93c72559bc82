package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dennisdiepolder/monti/dashboard/internal/service"
	"github.com/dennisdiepolder/monti/dashboard/internal/settings"
	"github.com/dennisdiepolder/monti/dashboard/internal/store"
	"github.com/dennisdiepolder/monti/dashboard/internal/types"
	"github.com/dennisdiepolder/monti/dashboard/internal/views"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAPI(t *testing.T, opts service.Options) http.Handler {
	t.Helper()
	f, err := store.DefaultFixtures()
	require.NoError(t, err)
	st := store.New(f)
	opts.Logger = zerolog.Nop()
	svc := service.New(st, opts)
	v := views.New(views.FromServices(svc), nil)
	return NewHandler(st, svc, v, settings.NewStore(zerolog.Nop()), zerolog.Nop()).Routes()
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestListAndGet(t *testing.T) {
	h := newTestAPI(t, service.Options{})

	rec := do(t, h, http.MethodGet, "/agents", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	agents := decode[[]types.Agent](t, rec)
	assert.Len(t, agents, 8)

	rec = do(t, h, http.MethodGet, "/agents/2", "")
	require.Equal(t, http.StatusOK, rec.Code)
	agent := decode[types.Agent](t, rec)
	assert.Equal(t, "Michael Chen", agent.Name)
	assert.Contains(t, rec.Body.String(), `"Id":2`)
}

func TestNotFoundResponses(t *testing.T) {
	h := newTestAPI(t, service.Options{})

	for _, path := range []string{"/agents/999", "/queues/abc", "/calls/0"} {
		rec := do(t, h, http.MethodGet, path, "")
		assert.Equal(t, http.StatusNotFound, rec.Code, path)
	}

	rec := do(t, h, http.MethodGet, "/agents/999", "")
	assert.JSONEq(t, `{"error":"Agent not found"}`, rec.Body.String())

	rec = do(t, h, http.MethodDelete, "/metrics/999", "")
	assert.JSONEq(t, `{"error":"Metric not found"}`, rec.Body.String())

	rec = do(t, h, http.MethodGet, "/nothing", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateUpdateDeleteLifecycle(t *testing.T) {
	h := newTestAPI(t, service.Options{})

	rec := do(t, h, http.MethodPost, "/queues", `{"name":"VIP","priority":9,"waitingCalls":40}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[types.Queue](t, rec)
	assert.Equal(t, 6, created.ID)
	assert.Zero(t, created.WaitingCalls)
	assert.Equal(t, []int{}, created.Agents)
	assert.Contains(t, rec.Body.String(), `"agents":[]`)

	rec = do(t, h, http.MethodGet, "/queues/6", "")
	assert.Contains(t, rec.Body.String(), `"agents":[]`)

	rec = do(t, h, http.MethodPatch, "/queues/6", `{"waitingCalls":3}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := decode[types.Queue](t, rec)
	assert.Equal(t, 3, updated.WaitingCalls)
	assert.Equal(t, "VIP", updated.Name)
	assert.Equal(t, 9, updated.Priority)

	rec = do(t, h, http.MethodDelete, "/queues/6", "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, h, http.MethodGet, "/queues/6", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPatchEmptyAgentList(t *testing.T) {
	h := newTestAPI(t, service.Options{})

	rec := do(t, h, http.MethodPatch, "/queues/1", `{"agents":[]}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"agents":[]`)

	rec = do(t, h, http.MethodGet, "/queues/1", "")
	assert.Contains(t, rec.Body.String(), `"agents":[]`)
}

func TestPatchClearsNullableField(t *testing.T) {
	h := newTestAPI(t, service.Options{})

	rec := do(t, h, http.MethodPatch, "/agents/2", `{"status":"online","currentCall":null}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	agent := decode[types.Agent](t, rec)
	assert.Equal(t, types.AgentOnline, agent.Status)
	assert.Nil(t, agent.CurrentCall)
	assert.Equal(t, "Michael Chen", agent.Name)
}

func TestValidationAndBadJSON(t *testing.T) {
	h := newTestAPI(t, service.Options{})

	rec := do(t, h, http.MethodPost, "/agents", `{"name":"X","status":"sleeping"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "status")

	rec = do(t, h, http.MethodPatch, "/calls/1", `{"duration":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodGet, "/views/agents?order=sideways", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodGet, "/views/queues?sort=color", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "sort")
}

func TestCancelledRequest(t *testing.T) {
	h := newTestAPI(t, service.Options{Latency: service.Latency{GetAll: time.Second}})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	req := httptest.NewRequest(http.MethodGet, "/agents", nil).WithContext(ctx)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestViews(t *testing.T) {
	h := newTestAPI(t, service.Options{})

	rec := do(t, h, http.MethodGet, "/views/agents?status=online", "")
	require.Equal(t, http.StatusOK, rec.Code)
	agents := decode[views.AgentsPage](t, rec)
	require.Len(t, agents.Items, 3)
	assert.Equal(t, 1, agents.Items[0].ID)
	assert.Equal(t, 8, agents.Stats.Total)

	rec = do(t, h, http.MethodGet, "/views/agents?status=all", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[views.AgentsPage](t, rec).Items, 8)

	rec = do(t, h, http.MethodGet, "/views/calls?status=completed&queue=Customer+Support&direction=all", "")
	require.Equal(t, http.StatusOK, rec.Code)
	calls := decode[views.CallsPage](t, rec)
	assert.Equal(t, 2, calls.Filtered)
	assert.Equal(t, "Showing 2 of 10 calls", calls.Summary)

	rec = do(t, h, http.MethodGet, "/views/queues?sort=priority&order=desc", "")
	require.Equal(t, http.StatusOK, rec.Code)
	queues := decode[views.QueuesPage](t, rec)
	assert.Equal(t, "Technical Support", queues.Items[0].Name)

	rec = do(t, h, http.MethodGet, "/views/dashboard", "")
	require.Equal(t, http.StatusOK, rec.Code)
	dash := decode[views.DashboardPage](t, rec)
	assert.Equal(t, 29, dash.Headline.WaitingCalls)

	rec = do(t, h, http.MethodGet, "/views/analytics?range=7d", "")
	require.Equal(t, http.StatusOK, rec.Code)
	analytics := decode[views.AnalyticsPage](t, rec)
	assert.Equal(t, views.Range7d, analytics.Range)

	rec = do(t, h, http.MethodGet, "/views/analytics?range=forever", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSettingsRoutes(t *testing.T) {
	h := newTestAPI(t, service.Options{})

	rec := do(t, h, http.MethodGet, "/settings", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, settings.Defaults(), decode[settings.Settings](t, rec))

	rec = do(t, h, http.MethodPut, "/settings", `{"timezone":"UTC"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "UTC", decode[settings.Settings](t, rec).Timezone)

	rec = do(t, h, http.MethodPut, "/settings", `{"timezone":"Nowhere/Special"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodPost, "/settings/reset", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "America/New_York", decode[settings.Settings](t, rec).Timezone)
}

type changeLog []types.Change

func (l *changeLog) Publish(c types.Change) { *l = append(*l, c) }

func TestAdminReset(t *testing.T) {
	var changes changeLog
	h := newTestAPI(t, service.Options{Notifier: &changes})

	rec := do(t, h, http.MethodDelete, "/agents/1", "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, h, http.MethodPost, "/admin/reset", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[map[string]any](t, rec)
	assert.Equal(t, "store reset", body["message"])

	rec = do(t, h, http.MethodGet, "/agents/1", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	// one delete, then one reset per entity kind
	require.Len(t, changes, 5)
	kinds := map[types.Kind]bool{}
	for _, c := range changes[1:] {
		assert.Equal(t, types.ActionReset, c.Action)
		kinds[c.Entity] = true
	}
	assert.Len(t, kinds, 4)
	agents, ok := changes[1].Record.([]types.Agent)
	require.True(t, ok)
	assert.Len(t, agents, 8)
}
