package query

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"sync"
	"testing"
	"time"

	"walletclient/app/balance"
	"walletclient/app/config"
	"walletclient/app/dispatch"
	"walletclient/app/models"
	"walletclient/pkg/address"
	"walletclient/pkg/node"
	"walletclient/pkg/protocol"
)

const (
	addrMain = "thasa1qypqxpq9qcrsszg2pvxq6rs0zqg3yyc53hyw3l"
	addrSave = "thasa1z5tpwxqergd3c8g7ruszzg3rysjjvfegxjsqef"
)

type fakeDispatcher struct {
	mu    sync.Mutex
	calls []string
	opts  []*dispatch.Options
	body  string
	err   error
}

func (d *fakeDispatcher) Dispatch(
	ctx context.Context, method, path string, body interface{}, opts *dispatch.Options,
) (*protocol.Response, error) {
	d.mu.Lock()
	d.calls = append(d.calls, method+" "+path)
	d.opts = append(d.opts, opts)
	d.mu.Unlock()

	if d.err != nil {
		return nil, d.err
	}
	return &protocol.Response{Status: http.StatusOK, StatusText: "OK", Data: json.RawMessage(d.body)}, nil
}

type fakeBalances struct {
	mu       sync.Mutex
	calls    int
	balances map[string][]*models.Balance
	delay    map[string]time.Duration
	err      error
}

func (b *fakeBalances) GetBalances(ctx context.Context, addr string, denoms []string) ([]*models.Balance, error) {
	b.mu.Lock()
	b.calls++
	b.mu.Unlock()

	if d := b.delay[addr]; d > 0 {
		time.Sleep(d)
	}
	if b.err != nil {
		return nil, b.err
	}
	// hand out copies, the caller owns the result
	var result []*models.Balance
	for _, bal := range b.balances[addr] {
		cp := *bal
		result = append(result, &cp)
	}
	return result, nil
}

func newTestManager(d *fakeDispatcher, b *fakeBalances) *Manager {
	return &Manager{Dispatcher: d, Balances: b, Validator: address.NewValidator(address.DefaultPrefix)}
}

func testBalances() *fakeBalances {
	return &fakeBalances{
		balances: map[string][]*models.Balance{
			addrMain: {{Denom: "uthasa", Amount: "2500000"}},
			addrSave: {{Denom: "uthasa", Amount: "1"}, {Denom: "uatom", Amount: "7"}},
		},
		// the first wallet finishes last
		delay: map[string]time.Duration{addrMain: 30 * time.Millisecond},
	}
}

func TestFetchWalletByAddress_WithBalances(t *testing.T) {
	d := &fakeDispatcher{body: `{"address":"` + addrMain + `","nickname":"main","isMain":true}`}
	b := testBalances()
	m := newTestManager(d, b)

	resp, err := m.FetchWalletByAddress(context.Background(), addrMain, true)
	if err != nil {
		t.Fatalf("FetchWalletByAddress: %v", err)
	}
	if resp.Status != http.StatusOK {
		t.Errorf("unexpected status: %d", resp.Status)
	}
	if len(d.calls) != 1 || d.calls[0] != "GET /v1/query/wallet/"+addrMain {
		t.Errorf("unexpected calls: %v", d.calls)
	}

	wallet, ok := resp.Data.(*models.Wallet)
	if !ok {
		t.Fatalf("unexpected data type: %T", resp.Data)
	}
	if wallet.Address != addrMain || wallet.Nickname != "main" || !wallet.IsMain {
		t.Errorf("unexpected wallet: %+v", wallet)
	}
	if len(wallet.Balances) != 1 || wallet.Balances[0].Amount != "2500000" {
		t.Errorf("unexpected balances: %+v", wallet.Balances)
	}
}

func TestFetchWalletByAddress_WithoutBalances(t *testing.T) {
	d := &fakeDispatcher{body: `{"address":"` + addrMain + `"}`}
	b := testBalances()
	m := newTestManager(d, b)

	resp, err := m.FetchWalletByAddress(context.Background(), addrMain, false)
	if err != nil {
		t.Fatalf("FetchWalletByAddress: %v", err)
	}
	if b.calls != 0 {
		t.Errorf("balances were not requested, calls: %d", b.calls)
	}
	if wallet := resp.Data.(*models.Wallet); wallet.Balances != nil {
		t.Errorf("expected no balances, have: %+v", wallet.Balances)
	}
}

func TestFetchWalletByAddress_MalformedAddress(t *testing.T) {
	d := &fakeDispatcher{body: `{}`}
	b := testBalances()
	m := newTestManager(d, b)

	for _, addr := range []string{"", "thasa1invalid", "cosmos1qypqxpq9qcrsszg2pvxq6rs0zqg3yyc5lzv7xu"} {
		_, err := m.FetchWalletByAddress(context.Background(), addr, true)
		if !protocol.IsBadRequest(err) {
			t.Errorf("%q: expected a bad request, have: %v", addr, err)
		}
	}
	if len(d.calls) != 0 || b.calls != 0 {
		t.Errorf("expected no network calls, have: %d backend, %d node", len(d.calls), b.calls)
	}
}

func TestFetchWalletByAddress_EmptyPayload(t *testing.T) {
	for _, body := range []string{`null`, `{}`, ``} {
		m := newTestManager(&fakeDispatcher{body: body}, testBalances())

		_, err := m.FetchWalletByAddress(context.Background(), addrMain, true)
		var perr *protocol.Error
		if !errors.As(err, &perr) || perr.Kind != protocol.KindBadResponse || perr.Code != http.StatusBadGateway {
			t.Errorf("%q: expected a bad response, have: %v", body, err)
		}
	}
}

func TestFetchWalletByAddress_TransportFailure(t *testing.T) {
	d := &fakeDispatcher{err: protocol.Transport(http.StatusNotFound, "wallet not found")}
	m := newTestManager(d, testBalances())

	_, err := m.FetchWalletByAddress(context.Background(), addrMain, true)
	var perr *protocol.Error
	if !errors.As(err, &perr) || perr.Code != http.StatusNotFound || perr.Message != "wallet not found" {
		t.Errorf("the dispatcher error must pass through, have: %v", err)
	}
}

func TestFetchMyWallets_MergesByIndex(t *testing.T) {
	d := &fakeDispatcher{body: `{"wallets":[{"address":"` + addrMain + `"},{"address":"` + addrSave + `"}]}`}
	b := testBalances()
	m := newTestManager(d, b)

	resp, err := m.FetchMyWallets(context.Background(),
		models.WalletFields{IncludeBalances: true, IncludeNickname: true},
		models.WalletFilter{})
	if err != nil {
		t.Fatalf("FetchMyWallets: %v", err)
	}

	wallets := resp.Data.([]*models.Wallet)
	if len(wallets) != 2 || b.calls != 2 {
		t.Fatalf("expected 2 wallets and 2 balance calls, have: %d, %d", len(wallets), b.calls)
	}
	for i, addr := range []string{addrMain, addrSave} {
		if wallets[i].Address != addr {
			t.Errorf("wallet %d: expected %s, have: %s", i, addr, wallets[i].Address)
		}
		if !reflect.DeepEqual(wallets[i].Balances, b.balances[addr]) {
			t.Errorf("wallet %d got balances of another wallet: %+v", i, wallets[i].Balances)
		}
	}

	params := d.opts[0].Params
	if params["includeNickname"] != true || params["includeIds"] != false || params["mainWallet"] != false {
		t.Errorf("unexpected params: %v", params)
	}
}

func TestFetchMyWallets_Idempotent(t *testing.T) {
	d := &fakeDispatcher{body: `{"wallets":[{"address":"` + addrMain + `"},{"address":"` + addrSave + `"}]}`}
	m := newTestManager(d, testBalances())
	fields := models.WalletFields{IncludeBalances: true}

	first, err := m.FetchMyWallets(context.Background(), fields, models.WalletFilter{})
	if err != nil {
		t.Fatalf("FetchMyWallets: %v", err)
	}
	second, err := m.FetchMyWallets(context.Background(), fields, models.WalletFilter{})
	if err != nil {
		t.Fatalf("FetchMyWallets: %v", err)
	}
	if !reflect.DeepEqual(first.Data, second.Data) {
		t.Error("repeated calls with unchanged sources must return equal data")
	}
}

func TestFetchMyWallets_MissingWallets(t *testing.T) {
	for _, body := range []string{`{}`, `{"wallets":null}`, `{"items":[]}`, `[]`} {
		m := newTestManager(&fakeDispatcher{body: body}, testBalances())

		_, err := m.FetchMyWallets(context.Background(), models.WalletFields{}, models.WalletFilter{})
		if !protocol.IsBadResponse(err) {
			t.Errorf("%s: expected a bad response, have: %v", body, err)
		}
	}
}

func TestFetchMyWallets_EmptyList(t *testing.T) {
	b := testBalances()
	m := newTestManager(&fakeDispatcher{body: `{"wallets":[]}`}, b)

	resp, err := m.FetchMyWallets(context.Background(), models.WalletFields{IncludeBalances: true}, models.WalletFilter{})
	if err != nil {
		t.Fatalf("FetchMyWallets: %v", err)
	}
	if wallets := resp.Data.([]*models.Wallet); len(wallets) != 0 {
		t.Errorf("expected no wallets, have: %d", len(wallets))
	}
	if b.calls != 0 {
		t.Errorf("expected no balance calls, have: %d", b.calls)
	}
}

func TestFetchMyWallets_BalanceFailure(t *testing.T) {
	tests := []struct {
		name string
		err  error
		kind protocol.Kind
		code int
	}{
		{
			name: "unreachable",
			err:  &balance.FetchError{Address: addrMain, Unreachable: true, Err: node.ErrUnreachable},
			kind: protocol.KindUnknown,
			code: http.StatusInternalServerError,
		},
		{
			name: "node error",
			err:  &balance.FetchError{Address: addrMain, Denom: "uthasa", Err: &node.QueryError{Code: 7}},
			kind: protocol.KindTransport,
			code: http.StatusBadGateway,
		},
		{
			name: "mismatched answer",
			err: &balance.FetchError{Address: addrMain, Denom: "uatom",
				Err: errors.Join(node.ErrBadResponse, errors.New("node returned ujuno balance for a uatom query"))},
			kind: protocol.KindBadResponse,
			code: http.StatusBadGateway,
		},
		{
			name: "canceled",
			err:  &balance.FetchError{Address: addrMain, Err: context.Canceled},
			kind: protocol.KindUnknown,
			code: http.StatusInternalServerError,
		},
		{
			name: "deadline",
			err:  &balance.FetchError{Address: addrMain, Err: context.DeadlineExceeded},
			kind: protocol.KindUnknown,
			code: http.StatusInternalServerError,
		},
		{
			name: "other",
			err:  &balance.FetchError{Address: addrMain, Err: errors.New("boom")},
			kind: protocol.KindUnknown,
			code: http.StatusInternalServerError,
		},
	}
	for _, tt := range tests {
		d := &fakeDispatcher{body: `{"wallets":[{"address":"` + addrMain + `"},{"address":"` + addrSave + `"}]}`}
		b := testBalances()
		b.err = tt.err
		m := newTestManager(d, b)

		resp, err := m.FetchMyWallets(context.Background(), models.WalletFields{IncludeBalances: true}, models.WalletFilter{})
		if resp != nil {
			t.Errorf("%s: no partial result expected", tt.name)
		}
		var perr *protocol.Error
		if !errors.As(err, &perr) {
			t.Fatalf("%s: expected a protocol error, have: %v", tt.name, err)
		}
		if perr.Kind != tt.kind || perr.Code != tt.code {
			t.Errorf("%s: expected %s %d, have: %v", tt.name, tt.kind, tt.code, perr)
		}
		if !errors.Is(err, tt.err) {
			t.Errorf("%s: the fetch error must be kept as the cause", tt.name)
		}
	}
}

// newBlockingNode answers status and holds every abci query until the
// request is abandoned or the test ends.
func newBlockingNode(t *testing.T) *httptest.Server {
	t.Helper()
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			ID     json.RawMessage `json:"id"`
			Method string          `json:"method"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if req.Method == "abci_query" {
			select {
			case <-r.Context().Done():
			case <-release:
			}
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"jsonrpc": "2.0",
			"id":      req.ID,
			"result": map[string]interface{}{
				"node_info": map[string]string{"network": "thasa-test-1"},
				"sync_info": map[string]string{"latest_block_height": "1"},
			},
		})
	}))
	t.Cleanup(func() {
		close(release)
		srv.Close()
	})
	return srv
}

func TestFetchWalletByAddress_CallerCanceled(t *testing.T) {
	srv := newBlockingNode(t)
	balances := balance.NewManager(config.Chain{NodeURL: srv.URL, Timeout: 5 * time.Second}, nil)
	defer balances.Close()

	d := &fakeDispatcher{body: `{"address":"` + addrMain + `"}`}
	m := &Manager{Dispatcher: d, Balances: balances, Validator: address.NewValidator(address.DefaultPrefix)}

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(50*time.Millisecond, cancel)

	_, err := m.FetchWalletByAddress(ctx, addrMain, true)
	var perr *protocol.Error
	if !errors.As(err, &perr) {
		t.Fatalf("expected a protocol error, have: %v", err)
	}
	if perr.Kind != protocol.KindUnknown || perr.Code != http.StatusInternalServerError {
		t.Errorf("expected unknown 500, have: %v", perr)
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("the cancellation must be kept as the cause, have: %v", err)
	}
}

func TestFetchMyWallets_InvalidFilter(t *testing.T) {
	d := &fakeDispatcher{body: `{"wallets":[]}`}
	m := newTestManager(d, testBalances())

	filters := []models.WalletFilter{
		{Limit: -1},
		{Offset: -5},
		{Addresses: []string{addrMain, "thasa1nope"}},
	}
	for _, filter := range filters {
		_, err := m.FetchMyWallets(context.Background(), models.WalletFields{}, filter)
		if !protocol.IsBadRequest(err) {
			t.Errorf("%+v: expected a bad request, have: %v", filter, err)
		}
	}
	if len(d.calls) != 0 {
		t.Errorf("expected no backend calls, have: %v", d.calls)
	}
}

func TestFetchMyAccount(t *testing.T) {
	d := &fakeDispatcher{body: `{"id":"u-1","email":"demo@example.com","walletAccount":{"address":"` + addrSave + `"}}`}
	b := testBalances()
	m := newTestManager(d, b)

	resp, err := m.FetchMyAccount(context.Background(), models.AccountFields{IncludeBalances: true})
	if err != nil {
		t.Fatalf("FetchMyAccount: %v", err)
	}
	account := resp.Data.(*models.Account)
	if account.Email != "demo@example.com" || account.WalletAccount.Address != addrSave {
		t.Errorf("unexpected account: %+v", account)
	}
	if len(account.WalletAccount.Balances) != 2 || account.WalletAccount.Balances[1].Denom != "uatom" {
		t.Errorf("unexpected balances: %+v", account.WalletAccount.Balances)
	}
	if d.opts[0].Params["includeWalletAccount"] != true {
		t.Errorf("the wallet account must be requested, params: %v", d.opts[0].Params)
	}
}

func TestFetchMyAccount_MissingWalletAccount(t *testing.T) {
	for _, body := range []string{`{"id":"u-1"}`, `{"id":"u-1","walletAccount":null}`, `{"walletAccount":{}}`} {
		b := testBalances()
		m := newTestManager(&fakeDispatcher{body: body}, b)

		_, err := m.FetchMyAccount(context.Background(), models.AccountFields{IncludeBalances: true})
		if !protocol.IsBadResponse(err) {
			t.Errorf("%s: expected a bad response, have: %v", body, err)
		}
		if b.calls != 0 {
			t.Errorf("%s: no balance call expected", body)
		}
	}
}
