// Package node talks to a Tendermint/CometBFT RPC endpoint and runs bank
// module queries through abci_query.
package node

import (
	"context"
	"encoding/hex"
	"net/http"
	"strings"

	"github.com/ethereum/go-ethereum/rpc"
	"github.com/pkg/errors"
)

const (
	methodABCIQuery = "abci_query"
	methodStatus    = "status"

	pathBalance     = "/cosmos.bank.v1beta1.Query/Balance"
	pathAllBalances = "/cosmos.bank.v1beta1.Query/AllBalances"

	// latest height; 64-bit integers travel as strings on this RPC
	latestHeight = "0"
)

// ErrUnreachable marks failures where the node could not be talked to at all.
var ErrUnreachable = errors.New("node is unreachable")

// ErrBadResponse marks node answers that could not be understood.
var ErrBadResponse = errors.New("malformed node response")

// QueryError is returned when the node answered an abci query with a non-zero code.
type QueryError struct {
	Path      string
	Code      uint32
	Codespace string
	Log       string
}

func (e *QueryError) Error() string {
	return "abci query " + e.Path + " failed: " + e.Codespace + " " + e.Log
}

// IsNodeError reports whether err is an answer from the node rather than a
// connectivity problem.
func IsNodeError(err error) bool {
	cause := errors.Cause(err)
	if _, ok := cause.(*QueryError); ok {
		return true
	}
	_, ok := cause.(rpc.Error)
	return ok
}

type Client struct {
	rpc *rpc.Client
	url string
}

type Status struct {
	Network string
	Height  string
}

type abciQueryResult struct {
	Response struct {
		Code      uint32 `json:"code"`
		Log       string `json:"log"`
		Value     []byte `json:"value"`
		Height    string `json:"height"`
		Codespace string `json:"codespace"`
	} `json:"response"`
}

type statusResult struct {
	NodeInfo struct {
		Network string `json:"network"`
	} `json:"node_info"`
	SyncInfo struct {
		LatestBlockHeight string `json:"latest_block_height"`
	} `json:"sync_info"`
}

// Dial connects to rawurl and checks the node answers a status call.
// http(s) endpoints use httpClient when it is not nil.
func Dial(ctx context.Context, rawurl string, httpClient *http.Client) (*Client, error) {
	var (
		rpcClient *rpc.Client
		err       error
	)
	if strings.HasPrefix(rawurl, "http://") || strings.HasPrefix(rawurl, "https://") {
		if httpClient == nil {
			httpClient = http.DefaultClient
		}
		rpcClient, err = rpc.DialHTTPWithClient(rawurl, httpClient)
	} else {
		rpcClient, err = rpc.DialContext(ctx, rawurl)
	}
	if err != nil {
		return nil, errors.Wrap(unreachable(err), "failed to dial the node")
	}

	c := &Client{rpc: rpcClient, url: rawurl}
	if _, err = c.Status(ctx); err != nil {
		rpcClient.Close()
		return nil, err
	}
	return c, nil
}

func (c *Client) URL() string {
	return c.url
}

func (c *Client) Close() {
	c.rpc.Close()
}

func (c *Client) Status(ctx context.Context) (*Status, error) {
	res := new(statusResult)
	if err := c.rpc.CallContext(ctx, res, methodStatus); err != nil {
		return nil, errors.Wrap(classify(err), "failed to get node status")
	}
	return &Status{Network: res.NodeInfo.Network, Height: res.SyncInfo.LatestBlockHeight}, nil
}

// Balance returns the balance of a single denomination. The node reports a
// zero amount for denominations the address does not hold.
func (c *Client) Balance(ctx context.Context, address, denom string) (*Coin, error) {
	value, err := c.query(ctx, pathBalance, EncodeBalanceRequest(address, denom))
	if err != nil {
		return nil, err
	}
	coin, err := DecodeBalanceResponse(value)
	if err != nil {
		return nil, badResponse(err)
	}
	if coin.Denom == "" {
		coin.Denom = denom
	}
	if coin.Amount == "" {
		coin.Amount = "0"
	}
	if coin.Denom != denom {
		return nil, badResponse(errors.Errorf("node returned %s balance for a %s query", coin.Denom, denom))
	}
	return coin, nil
}

// AllBalances returns every balance the address holds in node order,
// following pagination until the last page.
func (c *Client) AllBalances(ctx context.Context, address string) ([]*Coin, error) {
	var (
		result []*Coin
		key    []byte
	)
	for {
		value, err := c.query(ctx, pathAllBalances, EncodeAllBalancesRequest(address, key))
		if err != nil {
			return nil, err
		}
		page, err := DecodeAllBalancesResponse(value)
		if err != nil {
			return nil, badResponse(err)
		}
		result = append(result, page.Balances...)
		if len(page.NextKey) == 0 {
			return result, nil
		}
		key = page.NextKey
	}
}

func (c *Client) query(ctx context.Context, path string, data []byte) ([]byte, error) {
	res := new(abciQueryResult)
	if err := c.rpc.CallContext(ctx, res, methodABCIQuery, path, hex.EncodeToString(data), latestHeight, false); err != nil {
		return nil, errors.Wrapf(classify(err), "failed to run %s", path)
	}
	if res.Response.Code != 0 {
		return nil, &QueryError{
			Path:      path,
			Code:      res.Response.Code,
			Codespace: res.Response.Codespace,
			Log:       res.Response.Log,
		}
	}
	return res.Response.Value, nil
}

// classify keeps node answers and caller cancellation as they are and marks
// everything else unreachable.
func classify(err error) error {
	if IsNodeError(err) || errors.Is(err, context.Canceled) {
		return err
	}
	return unreachable(err)
}

type unreachableError struct {
	err error
}

func (e *unreachableError) Error() string { return ErrUnreachable.Error() + ": " + e.err.Error() }

func (e *unreachableError) Unwrap() error { return e.err }

func (e *unreachableError) Is(target error) bool { return target == ErrUnreachable }

func unreachable(err error) error {
	return &unreachableError{err: err}
}

type badResponseError struct {
	err error
}

func (e *badResponseError) Error() string { return ErrBadResponse.Error() + ": " + e.err.Error() }

func (e *badResponseError) Unwrap() error { return e.err }

func (e *badResponseError) Is(target error) bool { return target == ErrBadResponse }

func badResponse(err error) error {
	return &badResponseError{err: err}
}
