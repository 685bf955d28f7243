package insights

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"
)

func NewProbes(port int, isReady func() bool) *Impl {
	router := mux.NewRouter()
	probes := &Impl{
		router:  router,
		isReady: isReady,
		server: &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           router,
			ReadHeaderTimeout: readHeaderTimeout,
		},
	}

	router.HandleFunc(livenessPath, probes.liveness).Methods(http.MethodGet)
	router.HandleFunc(readinessPath, probes.readiness).Methods(http.MethodGet)
	return probes
}

// Router exposes the probes router so other handlers can share its server.
func (probes *Impl) Router() *mux.Router {
	return probes.router
}

func (probes *Impl) ListenAndServe() {
	go func() {
		log.Info().Str("addr", probes.server.Addr).Msg("Probes listening")
		if err := probes.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("Probes stopped unexpectedly")
		}
	}()
}

func (probes *Impl) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()
	return probes.server.Shutdown(ctx)
}

func (probes *Impl) liveness(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

func (probes *Impl) readiness(w http.ResponseWriter, _ *http.Request) {
	if probes.isReady != nil && !probes.isReady() {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("NOT READY"))
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}
