package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"go.uber.org/zap"
)

// RecoverPanic turns a panic in next into a call to errorHandler and an
// error log with the stack.
func RecoverPanic(logger *zap.Logger, errorHandler func(http.ResponseWriter, *http.Request, error), next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				w.Header().Set("Connection", "close")

				logger.Error("panic recovered",
					zap.Any("error", rec),
					zap.ByteString("stack", debug.Stack()),
					zap.String("request_id", w.Header().Get(RequestIDHeader)),
					zap.String("method", r.Method),
					zap.String("url", r.URL.String()),
					zap.String("remote_addr", r.RemoteAddr),
				)

				errorHandler(w, r, fmt.Errorf("panic: %v", rec))
			}
		}()

		next.ServeHTTP(w, r)
	})
}
