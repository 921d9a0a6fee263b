package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/MotWakorb/guidearr/internal/app/dispatcharr"
	"github.com/MotWakorb/guidearr/internal/app/guide"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupRouter(t *testing.T, gen *guide.Generation) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger = zap.NewNop()
	pageTitle = "Test Guide"
	refresher = guide.NewRefresher(nil, guide.NewStore(), guide.Options{PageTitle: pageTitle})
	if gen != nil {
		refresher.Store().Swap(gen)
	}

	r := gin.New()
	r.GET("/", GetGuidePage)
	r.GET("/print", GetPrintPage)
	r.GET("/health", GetHealth)
	r.GET("/api/guide/current", GetCurrentProgram)
	r.GET("/api/guide/next", GetNextProgram)
	r.GET("/api/guide/grid", GetGridProjection)
	return r
}

func liveGeneration() *guide.Generation {
	return &guide.Generation{
		Groups: map[int64]string{10: "Local"},
		Logos:  map[int64]dispatcharr.Logo{},
		Channels: []dispatcharr.Channel{
			{ID: 1, Name: "News", ChannelNumber: "2", GroupID: 10, TvgID: "CH1"},
		},
		Index: guide.NewProgramIndex([]dispatcharr.Program{
			{TvgID: "CH1", Title: "Evening News",
				StartTime: "2026-01-02T18:00:00Z", EndTime: "2026-01-02T19:00:00Z"},
			{TvgID: "CH1", Title: "Late Show",
				StartTime: "2026-01-02T19:00:00Z", EndTime: "2026-01-02T20:00:00Z"},
		}),
		HTML: "<html>guide body</html>",
	}
}

func get(r *gin.Engine, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	return w
}

func TestGetGuidePageServesArtifact(t *testing.T) {
	r := setupRouter(t, liveGeneration())

	w := get(r, "/")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "<html>guide body</html>", w.Body.String())
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
}

func TestGetGuidePageBeforeBoot(t *testing.T) {
	r := setupRouter(t, nil)
	assert.Equal(t, http.StatusServiceUnavailable, get(r, "/").Code)
}

func TestGetHealthDegradedAfterFailure(t *testing.T) {
	gen := liveGeneration()
	gen.LastError = "upstream down"
	r := setupRouter(t, gen)

	w := get(r, "/health")
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "degraded", body["status"])
	assert.Equal(t, "upstream down", body["error"])
	assert.Equal(t, float64(1), body["channels"])
}

func TestGetCurrentProgram(t *testing.T) {
	r := setupRouter(t, liveGeneration())

	w := get(r, "/api/guide/current?ch=CH1&t=2026-01-02T18:30:00Z")
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Evening News", body["title"])

	// outside any program
	assert.Equal(t, http.StatusNoContent, get(r, "/api/guide/current?ch=CH1&t=2026-01-02T21:00:00Z").Code)
	// missing channel key
	assert.Equal(t, http.StatusBadRequest, get(r, "/api/guide/current").Code)
}

func TestGetNextProgram(t *testing.T) {
	r := setupRouter(t, liveGeneration())

	w := get(r, "/api/guide/next?ch=CH1&t=2026-01-02T18:30:00Z")
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Late Show", body["title"])

	assert.Equal(t, http.StatusNoContent, get(r, "/api/guide/next?ch=CH1&t=2026-01-02T19:30:00Z").Code)
}

func TestGetGridProjection(t *testing.T) {
	r := setupRouter(t, liveGeneration())

	w := get(r, "/api/guide/grid?start=2026-01-02T18:00:00Z&hours=2")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		WindowStart string             `json:"window_start"`
		WindowEnd   string             `json:"window_end"`
		Timeline    guide.Timeline     `json:"timeline"`
		Rows        []guide.ChannelRow `json:"rows"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))

	assert.Equal(t, "2026-01-02T18:00:00Z", body.WindowStart)
	assert.Equal(t, "2026-01-02T20:00:00Z", body.WindowEnd)
	// ceil(120/30)+1 boundaries
	assert.Len(t, body.Timeline.SlotLabels, 5)
	require.Len(t, body.Rows, 1)
	assert.Len(t, body.Rows[0].Blocks, 2)
}

func TestGetGridProjectionValidation(t *testing.T) {
	r := setupRouter(t, liveGeneration())

	assert.Equal(t, http.StatusBadRequest, get(r, "/api/guide/grid?start=garbage").Code)
	assert.Equal(t, http.StatusBadRequest, get(r, "/api/guide/grid?hours=99").Code)
	assert.Equal(t, http.StatusBadRequest, get(r, "/api/guide/grid?offset=abc").Code)
}

func TestGetPrintPageFiltersGroups(t *testing.T) {
	r := setupRouter(t, liveGeneration())

	w := get(r, "/print?groups=local")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "News")

	w = get(r, "/print?groups=nothing")
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "News")
}
