package debug

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestPprofServerRoutes(t *testing.T) {
	srv := NewPprofServer("127.0.0.1:0")

	tests := []struct {
		path     string
		expected int
	}{
		{path: "/debug/pprof/", expected: http.StatusOK},
		{path: "/debug/pprof/goroutine?debug=1", expected: http.StatusOK},
		{path: "/analyze", expected: http.StatusNotFound},
	}

	for _, tt := range tests {
		rec := httptest.NewRecorder()
		srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))
		if rec.Code != tt.expected {
			t.Errorf("GET %s = %d, want %d", tt.path, rec.Code, tt.expected)
		}
	}
}
