package insights

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
)

const (
	livenessPath      = "/healthz"
	readinessPath     = "/readyz"
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 5 * time.Second
)

type Probes interface {
	Router() *mux.Router
	ListenAndServe()
	Shutdown(ctx context.Context) error
}

type Impl struct {
	router  *mux.Router
	server  *http.Server
	isReady func() bool
}
