package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap/zaptest"
	"urlintel/internal/errs"
	"urlintel/internal/log"
	"urlintel/internal/model"
	"urlintel/pkg/response"
)

type stubAnalyzer struct {
	result *model.AnalysisResponse
	report *model.ConnectivityReport
	err    error
	gotURL string
	called int
}

func (s *stubAnalyzer) Analyze(_ context.Context, rawURL string) (*model.AnalysisResponse, error) {
	s.called++
	s.gotURL = rawURL
	return s.result, s.err
}

func (s *stubAnalyzer) CheckConnectivity(_ context.Context, rawURL string) (*model.ConnectivityReport, error) {
	s.called++
	s.gotURL = rawURL
	return s.report, s.err
}

func useTestLogger(t *testing.T) {
	t.Helper()
	prev := log.Logger
	log.Logger = zaptest.NewLogger(t)
	t.Cleanup(func() { log.Logger = prev })
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) response.ErrorBody {
	t.Helper()
	var body response.ErrorBody
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode error body: %v", err)
	}
	return body
}

func TestAnalyzePage(t *testing.T) {
	useTestLogger(t)

	title := "Example Domain"
	stub := &stubAnalyzer{result: &model.AnalysisResponse{
		URL:     "https://example.com",
		Content: model.ContentReport{Title: &title},
		Technology: model.TechnologyReport{
			Technologies: []string{},
			Frameworks:   []string{},
		},
	}}
	h := New(stub, "test")

	req := httptest.NewRequest(http.MethodPost, "/analyze", strings.NewReader(`{"url": "https://example.com"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.AnalyzePage(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if stub.gotURL != "https://example.com" {
		t.Errorf("analyzed %q, want https://example.com", stub.gotURL)
	}

	var got model.AnalysisResponse
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if got.Content.Title == nil || *got.Content.Title != title {
		t.Errorf("title = %v, want %q", got.Content.Title, title)
	}
}

func TestAnalyzePageErrors(t *testing.T) {
	useTestLogger(t)

	tests := []struct {
		name          string
		body          string
		err           error
		expectedCode  int
		expectedField string
		expectCall    bool
	}{
		{
			name:          "Malformed JSON",
			body:          `{"url":`,
			expectedCode:  http.StatusBadRequest,
			expectedField: "url",
		},
		{
			name:          "Invalid URL",
			body:          `{"url": "ftp://example.com"}`,
			err:           &errs.AppError{Kind: errs.InvalidURL, Field: "url", Message: "url must be an absolute http:// or https:// URL"},
			expectedCode:  http.StatusBadRequest,
			expectedField: "url",
			expectCall:    true,
		},
		{
			name:         "Unreachable",
			body:         `{"url": "https://nonexistent.invalid"}`,
			err:          &errs.AppError{Kind: errs.Unreachable, Message: "the target URL could not be reached"},
			expectedCode: http.StatusBadGateway,
			expectCall:   true,
		},
		{
			name:         "Timeout",
			body:         `{"url": "https://slow.example.com"}`,
			err:          &errs.AppError{Kind: errs.Timeout, Message: "the target URL did not respond in time"},
			expectedCode: http.StatusGatewayTimeout,
			expectCall:   true,
		},
		{
			name:         "Recoverable kind leaked",
			body:         `{"url": "https://example.com"}`,
			err:          &errs.AppError{Kind: errs.ParseFailed, Message: "parse HTML"},
			expectedCode: http.StatusInternalServerError,
			expectCall:   true,
		},
		{
			name:         "Unclassified",
			body:         `{"url": "https://example.com"}`,
			err:          errors.New("boom"),
			expectedCode: http.StatusInternalServerError,
			expectCall:   true,
		},
		{
			name:         "Body too large",
			body:         `{"url": "` + strings.Repeat("a", maxRequestBody) + `"}`,
			expectedCode: http.StatusRequestEntityTooLarge,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stub := &stubAnalyzer{err: tt.err}
			h := New(stub, "test")

			req := httptest.NewRequest(http.MethodPost, "/analyze", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			h.AnalyzePage(rec, req)

			if rec.Code != tt.expectedCode {
				t.Fatalf("status = %d, want %d", rec.Code, tt.expectedCode)
			}
			body := decodeError(t, rec)
			if body.StatusCode != tt.expectedCode {
				t.Errorf("status_code = %d, want %d", body.StatusCode, tt.expectedCode)
			}
			if body.Field != tt.expectedField {
				t.Errorf("field = %q, want %q", body.Field, tt.expectedField)
			}
			if (stub.called > 0) != tt.expectCall {
				t.Errorf("analyzer called = %v, want %v", stub.called > 0, tt.expectCall)
			}
		})
	}
}

func TestAnalyzePageGet(t *testing.T) {
	useTestLogger(t)

	stub := &stubAnalyzer{result: &model.AnalysisResponse{URL: "https://example.com/a?b=c"}}
	h := New(stub, "test")

	req := httptest.NewRequest(http.MethodGet, "/analyze-get?url=https%3A%2F%2Fexample.com%2Fa%3Fb%3Dc", nil)
	rec := httptest.NewRecorder()
	h.AnalyzePageGet(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if stub.gotURL != "https://example.com/a?b=c" {
		t.Errorf("analyzed %q, want the decoded query value", stub.gotURL)
	}
}

func TestConnectivityHandlers(t *testing.T) {
	useTestLogger(t)

	report := &model.ConnectivityReport{URL: "https://example.com", Reachable: true, StatusCode: 200, Message: "URL is accessible"}

	t.Run("POST body", func(t *testing.T) {
		stub := &stubAnalyzer{report: report}
		rec := httptest.NewRecorder()
		New(stub, "test").TestConnectivity(rec, httptest.NewRequest(http.MethodPost, "/test-connectivity", strings.NewReader(`{"url":"https://example.com"}`)))

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
		}
		var got model.ConnectivityReport
		if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if !got.Reachable || got.StatusCode != 200 {
			t.Errorf("report = %+v", got)
		}
	})

	t.Run("GET query missing url", func(t *testing.T) {
		stub := &stubAnalyzer{err: &errs.AppError{Kind: errs.InvalidURL, Field: "url", Message: "url is required"}}
		rec := httptest.NewRecorder()
		New(stub, "test").TestGet(rec, httptest.NewRequest(http.MethodGet, "/test-get", nil))

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
		}
		if body := decodeError(t, rec); body.Field != "url" {
			t.Errorf("field = %q, want url", body.Field)
		}
	})
}

func TestHealthCheck(t *testing.T) {
	rec := httptest.NewRecorder()
	New(&stubAnalyzer{}, "test").HealthCheck(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	var got map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got["status"] != "healthy" || got["service"] != ServiceName {
		t.Errorf("health = %v", got)
	}
	if _, ok := got["timestamp"]; !ok {
		t.Error("timestamp missing")
	}
}

func TestRoot(t *testing.T) {
	rec := httptest.NewRecorder()
	New(&stubAnalyzer{}, "1.2.3").Root(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	var got serviceInfo
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Version != "1.2.3" {
		t.Errorf("version = %q, want 1.2.3", got.Version)
	}
	if _, ok := got.Endpoints["POST /analyze"]; !ok {
		t.Errorf("endpoints = %v, missing POST /analyze", got.Endpoints)
	}
}
