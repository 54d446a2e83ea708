package debug

import (
	"errors"
	"net/http"
	"net/http/pprof"
	"time"

	"go.uber.org/zap"
	"urlintel/internal/log"
)

// NewPprofServer returns a server exposing the runtime profiles under
// /debug/pprof/ on its own mux, so they never leak onto the public API.
func NewPprofServer(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)

	return &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
}

// StartPprof serves profiles on addr in the background until srv is shut down.
func StartPprof(srv *http.Server) {
	go func() {
		log.Logger.Info("pprof listening", zap.String("host", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Logger.Error("pprof failed", zap.Error(err))
		}
	}()
}
