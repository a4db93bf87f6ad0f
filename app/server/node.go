package server

import (
	"encoding/hex"
	"encoding/json"
	"net/http"
	"strconv"
	"sync"

	"github.com/go-chi/render"

	"walletclient/pkg/log"
	"walletclient/pkg/node"
)

const (
	rpcErrParse          = -32700
	rpcErrMethodNotFound = -32601
	rpcErrInvalidParams  = -32602

	// sdk ErrInvalidAddress
	codeInvalidAddress = 7
)

// Node answers the Tendermint RPC calls the balance fetcher makes: status
// and bank module abci queries.
type Node struct {
	Network string
	Height  uint64
	// PageSize splits all balances answers into pages; 0 means one page.
	PageSize int

	mu       sync.RWMutex
	balances map[string][]*node.Coin
	failing  map[string]string
	queries  int
}

func NewNode(network string) *Node {
	return &Node{
		Network:  network,
		Height:   1,
		balances: map[string][]*node.Coin{},
		failing:  map[string]string{},
	}
}

// SetBalances replaces the balances held by address.
func (n *Node) SetBalances(address string, coins ...*node.Coin) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.balances[address] = coins
}

// Fail makes every query about address answer with an error carrying msg.
func (n *Node) Fail(address, msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.failing[address] = msg
}

// Queries returns the number of abci queries served.
func (n *Node) Queries() int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.queries
}

type rpcRequest struct {
	Version string            `json:"jsonrpc"`
	ID      json.RawMessage   `json:"id"`
	Method  string            `json:"method"`
	Params  []json.RawMessage `json:"params"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type rpcResponse struct {
	Version string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  interface{}     `json:"result,omitempty"`
	Error   *rpcError       `json:"error,omitempty"`
}

type abciResponse struct {
	Code      uint32 `json:"code"`
	Log       string `json:"log"`
	Value     []byte `json:"value"`
	Height    string `json:"height"`
	Codespace string `json:"codespace"`
}

func (n *Node) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	req := new(rpcRequest)
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		render.JSON(w, r, &rpcResponse{Version: "2.0", Error: &rpcError{Code: rpcErrParse, Message: err.Error()}})
		return
	}
	log.AddFields(r.Context(), "rpc", req.Method)

	resp := &rpcResponse{Version: "2.0", ID: req.ID}
	switch req.Method {
	case "status":
		resp.Result = n.status()
	case "abci_query":
		result, err := n.abciQuery(req.Params)
		if err != nil {
			resp.Error = err
		} else {
			resp.Result = map[string]interface{}{"response": result}
		}
	default:
		resp.Error = &rpcError{Code: rpcErrMethodNotFound, Message: "Method not found"}
	}
	render.JSON(w, r, resp)
}

func (n *Node) status() interface{} {
	return map[string]interface{}{
		"node_info": map[string]string{"network": n.Network},
		"sync_info": map[string]string{"latest_block_height": strconv.FormatUint(n.Height, 10)},
	}
}

func (n *Node) abciQuery(params []json.RawMessage) (*abciResponse, *rpcError) {
	var path, data string
	if len(params) < 2 ||
		json.Unmarshal(params[0], &path) != nil ||
		json.Unmarshal(params[1], &data) != nil {
		return nil, &rpcError{Code: rpcErrInvalidParams, Message: "path and data are required"}
	}
	raw, err := hex.DecodeString(data)
	if err != nil {
		return nil, &rpcError{Code: rpcErrInvalidParams, Message: "data must be hex encoded"}
	}

	n.mu.Lock()
	n.queries++
	n.mu.Unlock()

	n.mu.RLock()
	defer n.mu.RUnlock()

	height := strconv.FormatUint(n.Height, 10)
	switch path {
	case "/cosmos.bank.v1beta1.Query/Balance":
		address, denom, err := node.DecodeBalanceRequest(raw)
		if err != nil {
			return nil, &rpcError{Code: rpcErrInvalidParams, Message: err.Error()}
		}
		if msg, ok := n.failing[address]; ok {
			return n.failure(msg, height), nil
		}
		coin := &node.Coin{Denom: denom, Amount: "0"}
		for _, c := range n.balances[address] {
			if c.Denom == denom {
				coin = c
			}
		}
		return &abciResponse{Value: node.EncodeBalanceResponse(coin), Height: height}, nil

	case "/cosmos.bank.v1beta1.Query/AllBalances":
		address, key, err := node.DecodeAllBalancesRequest(raw)
		if err != nil {
			return nil, &rpcError{Code: rpcErrInvalidParams, Message: err.Error()}
		}
		if msg, ok := n.failing[address]; ok {
			return n.failure(msg, height), nil
		}
		return &abciResponse{Value: node.EncodeAllBalancesResponse(n.page(address, key)), Height: height}, nil
	}

	return &abciResponse{Code: 6, Codespace: "sdk", Log: "unknown query path " + path, Height: height}, nil
}

func (n *Node) failure(msg, height string) *abciResponse {
	return &abciResponse{Code: codeInvalidAddress, Codespace: "sdk", Log: msg, Height: height}
}

// page returns the page of address balances starting at key, the decimal
// offset handed out as the previous next key.
func (n *Node) page(address string, key []byte) *node.BalancesPage {
	coins := n.balances[address]
	offset := 0
	if len(key) > 0 {
		offset, _ = strconv.Atoi(string(key))
	}
	from, to := bounds(len(coins), offset, n.PageSize)

	p := &node.BalancesPage{Balances: coins[from:to], Total: uint64(len(coins))}
	if to < len(coins) {
		p.NextKey = []byte(strconv.Itoa(to))
	}
	return p
}
