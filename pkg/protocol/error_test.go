package protocol

import (
	"io"
	"net/http"
	"testing"

	"github.com/pkg/errors"
)

func TestTransport_KeepsStatusCode(t *testing.T) {
	err := Transport(http.StatusNotFound, "")
	if err.Code != http.StatusNotFound {
		t.Errorf("wrong code, expected: %d, have: %d", http.StatusNotFound, err.Code)
	}
	if err.Message != "Not Found" {
		t.Errorf("expected status text as the message, have: %q", err.Message)
	}
	if !IsTransport(err) {
		t.Error("expected a transport failure")
	}
}

func TestUnknown_KeepsCause(t *testing.T) {
	err := Unknown(io.ErrUnexpectedEOF)
	if err.Code != CodeUnknown || err.Kind != KindUnknown {
		t.Errorf("unexpected error: %v", err)
	}
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Error("the cause must be reachable through Unwrap")
	}
}

func TestFromError(t *testing.T) {
	if FromError(nil) != nil {
		t.Error("nil must stay nil")
	}

	perr := BadRequest("empty %s provided", "path")
	if got := FromError(errors.Wrap(perr, "failed to dispatch")); got != perr {
		t.Errorf("expected the wrapped protocol error back, have: %v", got)
	}

	got := FromError(errors.New("boom"))
	if !IsUnknown(got) || got.Code != CodeUnknown {
		t.Errorf("foreign errors must become unknown, have: %v", got)
	}
}

func TestError_Error(t *testing.T) {
	const expected = "502 bad-response: wallet list is missing"
	if s := BadResponse("wallet list is missing").Error(); s != expected {
		t.Errorf("expected: %s, have: %s", expected, s)
	}
}

func TestPredicates(t *testing.T) {
	tests := []struct {
		err  error
		kind Kind
	}{
		{BadRequest("x"), KindBadRequest},
		{BadResponse("x"), KindBadResponse},
		{Transport(503, "x"), KindTransport},
		{Unknown(nil), KindUnknown},
		{NotImplemented("x"), KindNotImplemented},
	}
	for _, tt := range tests {
		if !IsKind(tt.err, tt.kind) {
			t.Errorf("%v is not of kind %s", tt.err, tt.kind)
		}
		if IsKind(errors.New(tt.err.Error()), tt.kind) {
			t.Errorf("plain error matched kind %s", tt.kind)
		}
	}
}
