package response

import (
	"bytes"
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
	"urlintel/internal/log"
)

// ErrorBody is the JSON document returned for every failed request.
type ErrorBody struct {
	Status     string `json:"status"`
	StatusCode int    `json:"status_code"`
	Message    string `json:"message"`
	Field      string `json:"field,omitempty"`
}

// JSON writes payload with the given status. The payload is encoded before
// anything is written so an encoding failure can still produce a 500.
func JSON(w http.ResponseWriter, statusCode int, payload any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(payload); err != nil {
		log.Logger.Error("failed to encode JSON response", zap.Error(err))
		http.Error(w, `{"status":"Internal Server Error","status_code":500,"message":"failed to encode response"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if _, err := buf.WriteTo(w); err != nil {
		log.Logger.Warn("failed to write response", zap.Error(err))
	}
}

func Success(w http.ResponseWriter, payload any) {
	JSON(w, http.StatusOK, payload)
}

func Error(w http.ResponseWriter, statusCode int, message string) {
	FieldError(w, statusCode, "", message)
}

// FieldError is Error for failures caused by one request field.
func FieldError(w http.ResponseWriter, statusCode int, field, message string) {
	JSON(w, statusCode, ErrorBody{
		Status:     http.StatusText(statusCode),
		StatusCode: statusCode,
		Message:    message,
		Field:      field,
	})
}
