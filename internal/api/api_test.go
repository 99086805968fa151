package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/pdie/internal/api/handlers"
	"github.com/wonny/pdie/internal/contracts"
	"github.com/wonny/pdie/internal/engineconfig"
	"github.com/wonny/pdie/internal/feed"
	"github.com/wonny/pdie/internal/portfolio"
	"github.com/wonny/pdie/pkg/config"
	"github.com/wonny/pdie/pkg/redis"
)

type testEnv struct {
	router http.Handler
	hub    *Hub
}

func testConfig() *config.Config {
	return &config.Config{
		Port:           "0",
		Env:            "development",
		MetricsEnabled: true,
		API:            config.APIConfig{RateLimitRPS: 0},
	}
}

func newTestEnv(t *testing.T, cfg *config.Config) *testEnv {
	t.Helper()

	analyzer, err := portfolio.NewAnalyzer(engineconfig.Default(), nil)
	require.NoError(t, err)
	svc := portfolio.NewService(analyzer, feed.NewSynthetic(30, 6, 42), nil)

	client, err := redis.New(context.Background(), config.RedisConfig{Enabled: false})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	hub := NewHub(nil)
	go hub.Run(ctx)

	router := NewRouter(cfg, Deps{
		Portfolio: handlers.NewPortfolioHandler(svc, redis.NewCache(client, "pdie"), redis.NewRateLimiter(client, "pdie"), nil),
		Health:    handlers.NewHealthHandler(svc, nil),
		Hub:       hub,
	})
	return &testEnv{router: router, hub: hub}
}

func (e *testEnv) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t, testConfig())

	rec := env.do(t, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, rec.Code)

	body := decode[map[string]interface{}](t, rec)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, engineconfig.DefaultEngineID, body["engine_id"])
	assert.NotEmpty(t, body["config_hash"])
}

func TestPortfolioEndpoints(t *testing.T) {
	env := newTestEnv(t, testConfig())

	rec := env.do(t, http.MethodGet, "/api/portfolio/snapshot", "")
	require.Equal(t, http.StatusOK, rec.Code)
	snap := decode[contracts.PortfolioSnapshot](t, rec)
	assert.Equal(t, 6, snap.Week)
	require.Len(t, snap.Rows, 30)
	for i := 1; i < len(snap.Rows); i++ {
		assert.GreaterOrEqual(t, snap.Rows[i-1].Score, snap.Rows[i].Score)
	}

	rec = env.do(t, http.MethodGet, "/api/portfolio/kpis", "")
	require.Equal(t, http.StatusOK, rec.Code)
	kpis := decode[contracts.PortfolioKPIs](t, rec)
	assert.Equal(t, 30, kpis.Monitored)
	assert.Equal(t, 30, kpis.HighCount+kpis.MediumCount+kpis.LowCount)
	assert.Equal(t, snap.KPIs, kpis)

	rec = env.do(t, http.MethodGet, "/api/portfolio/queue", "")
	require.Equal(t, http.StatusOK, rec.Code)
	queue := decode[[]contracts.CaseQueueItem](t, rec)
	assert.Len(t, queue, kpis.HighCount)
	for _, item := range queue {
		assert.Equal(t, "Phone call + In-app notification", item.Channel)
	}
}

func TestGetCustomer(t *testing.T) {
	env := newTestEnv(t, testConfig())

	rec := env.do(t, http.MethodGet, "/api/customers/C001", "")
	require.Equal(t, http.StatusOK, rec.Code)
	view := decode[contracts.CustomerView](t, rec)
	assert.Equal(t, "C001", view.Result.CustomerID)
	assert.Equal(t, 6, view.Result.Week)
	assert.Len(t, view.Drivers, 3)
	assert.Len(t, view.History, 6)
	assert.NotEmpty(t, view.Recommendation.Action)

	rec = env.do(t, http.MethodGet, "/api/customers/C001?week=2", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2, decode[contracts.CustomerView](t, rec).Result.Week)

	tests := []struct {
		path string
		code int
	}{
		{"/api/customers/C001?week=abc", http.StatusBadRequest},
		{"/api/customers/C001?week=0", http.StatusBadRequest},
		{"/api/customers/C001?week=99", http.StatusNotFound},
		{"/api/customers/C999", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.code, env.do(t, http.MethodGet, tt.path, "").Code)
		})
	}
}

func TestSimulate(t *testing.T) {
	env := newTestEnv(t, testConfig())

	rec := env.do(t, http.MethodPost, "/api/impact/simulate", "")
	require.Equal(t, http.StatusOK, rec.Code)
	run := decode[contracts.ImpactRun](t, rec)
	assert.NotEmpty(t, run.RunID)
	assert.Equal(t, engineconfig.DefaultImpactParams(), run.Report.Params)

	rec = env.do(t, http.MethodPost, "/api/impact/simulate", `{"weekly_capacity": 0}`)
	require.Equal(t, http.StatusOK, rec.Code)
	run = decode[contracts.ImpactRun](t, rec)
	assert.Equal(t, 0, run.Report.Allocation.Contacted)
	assert.Equal(t, 0.60, run.Report.Params.AcceptanceRate)

	tests := []struct {
		name string
		body string
	}{
		{"out of range", `{"lgd": 2}`},
		{"negative capacity", `{"weekly_capacity": -5}`},
		{"unknown field", `{"capacity": 10}`},
		{"malformed", `{"lgd":`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(t, http.MethodPost, "/api/impact/simulate", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
		})
	}

	assert.Equal(t, http.StatusMethodNotAllowed, env.do(t, http.MethodGet, "/api/impact/simulate", "").Code)
}

func TestMetricsEndpoint(t *testing.T) {
	env := newTestEnv(t, testConfig())
	env.do(t, http.MethodGet, "/health", "")

	rec := env.do(t, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "pdie_http_requests_total")

	cfg := testConfig()
	cfg.MetricsEnabled = false
	assert.Equal(t, http.StatusNotFound, newTestEnv(t, cfg).do(t, http.MethodGet, "/metrics", "").Code)
}

func TestRateLimit(t *testing.T) {
	cfg := testConfig()
	cfg.API.RateLimitRPS = 0.001
	cfg.API.RateLimitBurst = 1
	env := newTestEnv(t, cfg)

	assert.Equal(t, http.StatusOK, env.do(t, http.MethodGet, "/api/portfolio/kpis", "").Code)
	rec := env.do(t, http.MethodGet, "/api/portfolio/kpis", "")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("Retry-After"))

	// health is outside the limited subrouter
	assert.Equal(t, http.StatusOK, env.do(t, http.MethodGet, "/health", "").Code)
}

func TestStream(t *testing.T) {
	env := newTestEnv(t, testConfig())
	srv := httptest.NewServer(env.router)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/stream"
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	defer conn.Close()

	require.Eventually(t, func() bool { return env.hub.Clients() == 1 }, 2*time.Second, 10*time.Millisecond)

	env.hub.Publish("snapshot", map[string]int{"week": 12})

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var ev Event
	require.NoError(t, conn.ReadJSON(&ev))
	assert.Equal(t, "snapshot", ev.Kind)
	assert.Equal(t, map[string]interface{}{"week": float64(12)}, ev.Data)
}

func TestStreamClient_Wants(t *testing.T) {
	c := &streamClient{}
	assert.True(t, c.wants("snapshot"))

	c.sub = subscription{Kinds: []string{"queue"}}
	assert.True(t, c.wants("queue"))
	assert.False(t, c.wants("snapshot"))
}
