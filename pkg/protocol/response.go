// Package protocol holds the envelope every public client operation returns:
// a *Response on success or an *Error on failure.
package protocol

import (
	"bytes"
	"encoding/json"

	"github.com/pkg/errors"
)

// Response is a successful call outcome. Data is the verbatim body as
// json.RawMessage when it comes straight from the transport, or a typed value
// once an operation has decoded and enriched it.
type Response struct {
	Status     int         `json:"status"`
	StatusText string      `json:"statusText"`
	Data       interface{} `json:"data"`
}

// Raw returns the payload bytes when Data still holds the transport body.
func (r *Response) Raw() json.RawMessage {
	if r == nil {
		return nil
	}
	switch v := r.Data.(type) {
	case json.RawMessage:
		return v
	case []byte:
		return v
	default:
		return nil
	}
}

// IsEmpty reports whether the payload carries no data at all.
func (r *Response) IsEmpty() bool {
	if r == nil || r.Data == nil {
		return true
	}
	raw := r.Raw()
	if raw == nil {
		return false
	}
	switch string(bytes.TrimSpace(raw)) {
	case "", "null", "{}", "[]", `""`:
		return true
	}
	return false
}

// Decode unmarshals the raw payload into v.
func (r *Response) Decode(v interface{}) error {
	raw := r.Raw()
	if len(raw) == 0 {
		return errors.New("empty payload")
	}
	return errors.Wrap(json.Unmarshal(raw, v), "failed to decode a payload")
}
