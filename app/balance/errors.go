package balance

import (
	"fmt"

	"github.com/pkg/errors"

	"walletclient/pkg/node"
)

// FetchError is returned by GetBalances. Unreachable is set when the node
// connection could not be established or broke down.
type FetchError struct {
	Address     string
	Denom       string
	Unreachable bool
	Err         error
}

func (e *FetchError) Error() string {
	what := "balances"
	if e.Denom != "" {
		what = e.Denom + " balance"
	}
	return fmt.Sprintf("failed to fetch %s of %s: %s", what, e.Address, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

func newFetchError(address, denom string, err error) *FetchError {
	return &FetchError{
		Address:     address,
		Denom:       denom,
		Unreachable: errors.Is(err, node.ErrUnreachable),
		Err:         err,
	}
}
