package middleware

import (
	"net/http"
	"time"

	"go.uber.org/zap"
	"urlintel/internal/log"
	"urlintel/internal/util"
)

type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (rec *statusRecorder) WriteHeader(code int) {
	rec.statusCode = code
	rec.ResponseWriter.WriteHeader(code)
}

// Logging writes one structured line per request. It expects RequestID to run first.
func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		rec := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rec, r)

		fields := []zap.Field{
			zap.String("request_id", RequestIDFromContext(r.Context())),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("ip", util.GetClientIPAddress(r)),
			zap.Int("status", rec.statusCode),
			zap.Duration("duration", time.Since(start)),
		}
		if rec.statusCode >= http.StatusInternalServerError {
			log.Logger.Warn("HTTP Request", fields...)
			return
		}
		log.Logger.Info("HTTP Request", fields...)
	})
}
