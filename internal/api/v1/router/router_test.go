package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"urlintel/internal/api/v1/handler"
	"urlintel/internal/api/v1/middleware"
	"urlintel/internal/log"
	"urlintel/internal/model"
)

type panickingAnalyzer struct{}

func (panickingAnalyzer) Analyze(context.Context, string) (*model.AnalysisResponse, error) {
	panic("analyzer exploded")
}

func (panickingAnalyzer) CheckConnectivity(context.Context, string) (*model.ConnectivityReport, error) {
	return &model.ConnectivityReport{URL: "https://example.com", Reachable: true, Message: "URL is accessible"}, nil
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	prev := log.Logger
	log.Logger = zaptest.NewLogger(t)
	t.Cleanup(func() { log.Logger = prev })
	return New(handler.New(panickingAnalyzer{}, "test"))
}

func TestRoutes(t *testing.T) {
	r := newTestRouter(t)

	tests := []struct {
		method   string
		path     string
		body     string
		expected int
	}{
		{method: http.MethodGet, path: "/", expected: http.StatusOK},
		{method: http.MethodGet, path: "/health", expected: http.StatusOK},
		{method: http.MethodGet, path: "/test-get?url=https://example.com", expected: http.StatusOK},
		{method: http.MethodPost, path: "/test-connectivity", body: `{"url":"https://example.com"}`, expected: http.StatusOK},
		{method: http.MethodGet, path: "/analyze", expected: http.StatusMethodNotAllowed},
		{method: http.MethodGet, path: "/does-not-exist", expected: http.StatusNotFound},
		{method: http.MethodGet, path: "/metrics", expected: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)

			assert.Equal(t, tt.expected, rec.Code)
			assert.NotEmpty(t, rec.Header().Get(middleware.RequestIDHeader))
		})
	}
}

func TestPanicBecomesJSONError(t *testing.T) {
	r := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/analyze", strings.NewReader(`{"url":"https://example.com"}`))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	var body map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, float64(http.StatusInternalServerError), body["status_code"])
}

func TestMetricsRouter(t *testing.T) {
	rec := httptest.NewRecorder()
	NewMetricsRouter().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}
