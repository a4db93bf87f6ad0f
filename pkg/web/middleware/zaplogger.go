package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/middleware"

	"walletclient/pkg/log"
)

const requestIDHeader = "X-Request-Id"

// ZapLogger puts a request scoped logger into the context and writes one
// line per request once the handler returned.
func ZapLogger(next http.Handler) http.Handler {
	fn := func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor) // save a response status

		logger := log.Default()
		if id := r.Header.Get(requestIDHeader); id != "" {
			logger = logger.With("requestId", id)
			ww.Header().Set(requestIDHeader, id)
		}
		logCtx := log.ToContext(r.Context(), logger)

		next.ServeHTTP(ww, r.WithContext(logCtx))

		logger = log.ExtractLogger(logCtx) // update the logger for the current request
		fields := []interface{}{
			"method", r.Method,
			"status", ww.Status(),
			"ip", r.RemoteAddr,
			"latency", time.Since(start),
		}
		if ww.Status() >= http.StatusInternalServerError {
			logger.Warnw(r.Host+r.RequestURI, fields...)
			return
		}
		logger.Infow(r.Host+r.RequestURI, fields...)
	}
	return http.HandlerFunc(fn)
}
