package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"
	"urlintel/internal/errs"
	"urlintel/internal/log"
	"urlintel/internal/model"
	"urlintel/pkg/response"
)

const (
	ServiceName    = "urlintel"
	maxRequestBody = 1 << 20
)

// PageAnalyzer is the analysis pipeline as seen by the HTTP layer.
type PageAnalyzer interface {
	Analyze(ctx context.Context, rawURL string) (*model.AnalysisResponse, error)
	CheckConnectivity(ctx context.Context, rawURL string) (*model.ConnectivityReport, error)
}

type Handler struct {
	analyzer PageAnalyzer
	version  string
}

func New(analyzer PageAnalyzer, version string) *Handler {
	return &Handler{analyzer: analyzer, version: version}
}

type serviceInfo struct {
	Service     string            `json:"service"`
	Version     string            `json:"version"`
	Description string            `json:"description"`
	Endpoints   map[string]string `json:"endpoints"`
	Example     exampleRequest    `json:"example"`
}

type exampleRequest struct {
	Method string                `json:"method"`
	Path   string                `json:"path"`
	Body   model.AnalysisRequest `json:"body"`
}

type healthStatus struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Service   string    `json:"service"`
}

// Root describes the service and its endpoints.
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	response.Success(w, serviceInfo{
		Service:     ServiceName,
		Version:     h.version,
		Description: "Fetches a URL and reports on its security, performance, content, technology and domain registration",
		Endpoints: map[string]string{
			"POST /analyze":           "Analyze the URL in the JSON body",
			"GET /analyze-get":        "Analyze the URL in the url query parameter",
			"POST /test-connectivity": "Check whether the URL in the JSON body answers",
			"GET /test-get":           "Check whether the URL in the url query parameter answers",
			"GET /health":             "Liveness check",
		},
		Example: exampleRequest{
			Method: http.MethodPost,
			Path:   "/analyze",
			Body:   model.AnalysisRequest{URL: "https://example.com"},
		},
	})
}

// HealthCheck reports liveness only; no dependency is probed.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	response.Success(w, healthStatus{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
		Service:   ServiceName,
	})
}

func (h *Handler) AnalyzePage(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeRequest(w, r)
	if !ok {
		return
	}
	h.analyze(w, r, req.URL)
}

// AnalyzePageGet runs the same analysis with the URL taken from the query string.
func (h *Handler) AnalyzePageGet(w http.ResponseWriter, r *http.Request) {
	h.analyze(w, r, r.URL.Query().Get("url"))
}

func (h *Handler) TestConnectivity(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeRequest(w, r)
	if !ok {
		return
	}
	h.connectivity(w, r, req.URL)
}

func (h *Handler) TestGet(w http.ResponseWriter, r *http.Request) {
	h.connectivity(w, r, r.URL.Query().Get("url"))
}

func (h *Handler) analyze(w http.ResponseWriter, r *http.Request, rawURL string) {
	result, err := h.analyzer.Analyze(r.Context(), rawURL)
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.Success(w, result)
}

func (h *Handler) connectivity(w http.ResponseWriter, r *http.Request, rawURL string) {
	report, err := h.analyzer.CheckConnectivity(r.Context(), rawURL)
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.Success(w, report)
}

func decodeRequest(w http.ResponseWriter, r *http.Request) (model.AnalysisRequest, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)

	var req model.AnalysisRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			response.Error(w, http.StatusRequestEntityTooLarge, "request body too large")
			return req, false
		}
		response.FieldError(w, http.StatusBadRequest, "url", `invalid request body, send a JSON object with a "url" field`)
		return req, false
	}
	return req, true
}

// writeError maps pipeline errors onto HTTP statuses. Only fatal kinds leave
// the service layer; anything else reaching here is a bug and becomes a 500.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var appErr *errs.AppError
	if !errors.As(err, &appErr) || !appErr.Kind.Fatal() {
		log.Logger.Error("unexpected analysis error", zap.String("path", r.URL.Path), zap.Error(err))
		response.Error(w, http.StatusInternalServerError, "an unexpected error occurred")
		return
	}

	switch appErr.Kind {
	case errs.InvalidURL:
		response.FieldError(w, http.StatusBadRequest, appErr.Field, appErr.Message)
	case errs.Unreachable:
		response.Error(w, http.StatusBadGateway, appErr.Message)
	case errs.Timeout:
		response.Error(w, http.StatusGatewayTimeout, appErr.Message)
	default:
		log.Logger.Error("unexpected analysis error",
			zap.String("path", r.URL.Path),
			zap.String("kind", appErr.Kind.String()),
			zap.Error(err),
		)
		response.Error(w, http.StatusInternalServerError, "an unexpected error occurred")
	}
}
