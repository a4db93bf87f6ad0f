package dispatch

import (
	"context"
	"net/http"

	"walletclient/pkg/protocol"
)

// Options carries the optional parts of a request.
type Options struct {
	// Params are stringified into the query: bools, numbers, strings and
	// string/int lists (as repeated keys). Nil values are skipped.
	Params  map[string]interface{}
	Headers map[string]string
}

// Doer is the transport; *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

type Service interface {
	Dispatch(ctx context.Context, method, path string, body interface{}, opts *Options) (*protocol.Response, error)
}
