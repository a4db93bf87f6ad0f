package web

import (
	"context"
	"net/http"
	"time"

	"walletclient/pkg/log"
)

// Start blocks serving until the server is shut down.
func Start(server *http.Server) {
	log.Infow("starting an http server", "address", server.Addr)
	if err := server.ListenAndServe(); err != nil {
		// cannot panic, because this probably is an intentional close
		log.Infow("shutting down the http server", "address", server.Addr, "message", err.Error())
	}
}

func Shutdown(server *http.Server, shutdownTimeout time.Duration) {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Errorw("failed to shutdown the http server", "address", server.Addr, "error", err.Error())
		return
	}
	log.Infow("http server stopped", "address", server.Addr)
}
