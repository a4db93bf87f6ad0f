package web

import (
	"net/http"

	"github.com/go-chi/render"
	"github.com/pkg/errors"

	"walletclient/pkg/log"
	"walletclient/pkg/protocol"
)

type webError struct {
	Code    int         `json:"code,omitempty"`
	Kind    string      `json:"kind,omitempty"`
	Message interface{} `json:"message,omitempty"`
}

type webErrorResponse struct {
	Error *webError `json:"error,omitempty"`
}

// RenderError renders error in JSON format. A *protocol.Error sets the
// response status, anything else is a 500.
func RenderError(w http.ResponseWriter, r *http.Request, err error) {
	log.AddFields(r.Context(), "error", err.Error()) // log the rendered error

	// prepare the error to render
	webErr := &webError{Message: err.Error()}
	status := http.StatusInternalServerError

	cause := errors.Cause(err)
	respErr, ok := cause.(*protocol.Error)
	if ok {
		webErr.Code = respErr.Code
		webErr.Kind = string(respErr.Kind)
		webErr.Message = respErr.Message
		status = respErr.Code
		if respErr.Internal != nil { // log the internal error
			log.AddFields(r.Context(), "internal", respErr.Internal.Error())
		}
	}

	render.Status(r, status)
	render.JSON(w, r, &webErrorResponse{Error: webErr})
}

// RenderResult renders result as the whole JSON body.
func RenderResult(w http.ResponseWriter, r *http.Request, result interface{}) {
	render.JSON(w, r, result)
}
