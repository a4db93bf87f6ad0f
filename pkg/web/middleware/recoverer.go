package middleware

import (
	"net/http"

	"github.com/go-chi/render"

	"walletclient/pkg/log"
	"walletclient/pkg/protocol"
)

type internalError struct {
	Code    int         `json:"code,omitempty"`
	Kind    string      `json:"kind,omitempty"`
	Message interface{} `json:"message,omitempty"`
}

type internalErrorResponse struct {
	Error *internalError `json:"error,omitempty"`
}

// Recoverer turns a handler panic into an unknown protocol error.
func Recoverer(next http.Handler) http.Handler {
	fn := func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rvr := recover(); rvr != nil {
				log.ExtractLogger(r.Context()).Errorw("handler panicked", "panic", rvr)
				render.Status(r, protocol.CodeUnknown)
				render.JSON(w, r, &internalErrorResponse{
					Error: &internalError{
						Code:    protocol.CodeUnknown,
						Kind:    string(protocol.KindUnknown),
						Message: http.StatusText(protocol.CodeUnknown),
					},
				})
			}
		}()

		next.ServeHTTP(w, r)
	}
	return http.HandlerFunc(fn)
}
