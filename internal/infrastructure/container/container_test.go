package container

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/alchemorsel/personalization/internal/infrastructure/config"
	"github.com/alchemorsel/personalization/internal/infrastructure/http/server"
	"github.com/alchemorsel/personalization/internal/ports/inbound"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"
	"go.uber.org/zap/zaptest"
)

func TestModule_Validates(t *testing.T) {
	require.NoError(t, fx.ValidateApp(WithConfigFile(""), Module))
}

func inMemory(cfg *config.Config) *config.Config {
	cfg.Database.Driver = "sqlite"
	cfg.Database.Database = ":memory:"
	cfg.Database.SeedDemoData = true
	cfg.Cache.Provider = "memory"
	cfg.Features.EnableLLMReranking = false
	cfg.Features.WatchConfig = false
	return cfg
}

func TestModule_ServesDemoData(t *testing.T) {
	var srv *server.Server

	app := fxtest.New(t,
		WithConfigFile(""),
		ConfigModule,
		LoggerModule,
		DatabaseModule,
		CacheModule,
		MonitoringModule,
		RepositoryModule,
		ServiceModule,
		HTTPModule,
		fx.Decorate(inMemory),
		fx.Replace(zaptest.NewLogger(t)),
		fx.Populate(&srv),
	)
	app.RequireStart()
	defer app.RequireStop()

	do := func(method, path, body string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		req.RemoteAddr = "192.0.2.1:1234"
		srv.Handler().ServeHTTP(rec, req)
		return rec
	}

	rec := do(http.MethodPost, "/api/v1/recommendations", `{"email":"demo@alchemorsel.com"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var recs inbound.RecommendResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&recs))
	assert.Equal(t, "deterministic", recs.Source)
	assert.Equal(t, 3, recs.Requested)
	require.Len(t, recs.Recommendations, 3)
	for _, r := range recs.Recommendations {
		assert.NotContains(t, r.Allergens, "peanut")
		assert.NotEqual(t, "OUT_OF_STOCK", r.Inventory.Status)
		assert.NotEmpty(t, r.Rationale)
	}

	rec = do(http.MethodPost, "/api/v1/recommendations/feedback",
		`{"recommendationId":"`+recs.Recommendations[0].RecommendationID.String()+`","userId":"`+recs.UserID.String()+`","action":"ACCEPT"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = do(http.MethodGet, "/api/v1/users/"+recs.UserID.String()+"/goal-alignment", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var report inbound.AlignmentReportDTO
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&report))
	assert.Equal(t, "LEAN_MUSCLE", report.Goal)
	assert.Equal(t, 1, report.SampleCount)
	assert.False(t, report.UsedFallbackData)

	rec = do(http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}
