package query

import (
	"context"
	"net/http"
	"net/url"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"walletclient/app/balance"
	"walletclient/app/dispatch"
	"walletclient/app/models"
	"walletclient/pkg/address"
	"walletclient/pkg/log"
	"walletclient/pkg/node"
	"walletclient/pkg/protocol"
)

const (
	pathMyWallets = "/v1/query/my/wallets"
	pathMyAccount = "/v1/query/my/account"
	pathWallet    = "/v1/query/wallet/"
)

type Manager struct {
	Dispatcher dispatch.Service
	Balances   balance.Service
	Validator  *address.Validator
}

func (m *Manager) FetchMyWallets(
	ctx context.Context, fields models.WalletFields, filter models.WalletFilter,
) (*protocol.Response, error) {
	log.AddFields(ctx, "fields", fields, "filter", filter)

	if err := filter.Validate(m.Validator); err != nil {
		return nil, protocol.BadRequest("%s", err)
	}

	params := fields.Params()
	for k, v := range filter.Params() {
		params[k] = v
	}
	resp, err := m.Dispatcher.Dispatch(ctx, http.MethodGet, pathMyWallets, nil, &dispatch.Options{Params: params})
	if err != nil {
		return nil, protocol.FromError(err)
	}

	list := new(models.WalletList)
	if err := resp.Decode(list); err != nil {
		return nil, protocol.BadResponse("unexpected wallets payload").SetInternal(err)
	}
	if list.Wallets == nil {
		return nil, protocol.BadResponse("wallet list is missing in the response")
	}
	wallets := *list.Wallets
	for i, w := range wallets {
		if w == nil || w.Address == "" {
			return nil, protocol.BadResponse("wallet %d has no address", i)
		}
	}

	if fields.IncludeBalances {
		if err := m.attachBalances(ctx, wallets, fields.Denoms); err != nil {
			return nil, err
		}
	}

	return &protocol.Response{Status: resp.Status, StatusText: resp.StatusText, Data: wallets}, nil
}

func (m *Manager) FetchMyAccount(ctx context.Context, fields models.AccountFields) (*protocol.Response, error) {
	log.AddFields(ctx, "fields", fields)

	resp, err := m.Dispatcher.Dispatch(ctx, http.MethodGet, pathMyAccount, nil, &dispatch.Options{Params: fields.Params()})
	if err != nil {
		return nil, protocol.FromError(err)
	}

	account := new(models.Account)
	if err := resp.Decode(account); err != nil {
		return nil, protocol.BadResponse("unexpected account payload").SetInternal(err)
	}
	if account.WalletAccount == nil || account.WalletAccount.Address == "" {
		return nil, protocol.BadResponse("wallet account is missing in the response")
	}

	if fields.IncludeBalances {
		balances, err := m.Balances.GetBalances(ctx, account.WalletAccount.Address, fields.Denoms)
		if err != nil {
			return nil, balanceError(err)
		}
		account.WalletAccount.Balances = balances
	}

	return &protocol.Response{Status: resp.Status, StatusText: resp.StatusText, Data: account}, nil
}

func (m *Manager) FetchWalletByAddress(
	ctx context.Context, addr string, includeBalances bool,
) (*protocol.Response, error) {
	log.AddFields(ctx, "address", addr)

	// never reach the network with a malformed address
	if !m.Validator.IsValid(addr) {
		return nil, protocol.BadRequest("invalid wallet address %q provided", addr)
	}

	resp, err := m.Dispatcher.Dispatch(ctx, http.MethodGet, pathWallet+url.PathEscape(addr), nil, nil)
	if err != nil {
		return nil, protocol.FromError(err)
	}
	if resp.IsEmpty() {
		return nil, protocol.BadResponse("empty wallet payload for %s", addr)
	}

	wallet := new(models.Wallet)
	if err := resp.Decode(wallet); err != nil {
		return nil, protocol.BadResponse("unexpected wallet payload").SetInternal(err)
	}

	if includeBalances {
		balances, err := m.Balances.GetBalances(ctx, addr, nil)
		if err != nil {
			return nil, balanceError(err)
		}
		wallet.Balances = balances
	}

	return &protocol.Response{Status: resp.Status, StatusText: resp.StatusText, Data: wallet}, nil
}

// attachBalances fetches balances of every wallet concurrently and, once all
// of them succeeded, writes them back by index. wallets must not be shared
// with anything else while this runs.
func (m *Manager) attachBalances(ctx context.Context, wallets []*models.Wallet, denoms []string) error {
	balances := make([][]*models.Balance, len(wallets))

	g, gctx := errgroup.WithContext(ctx)
	for i, w := range wallets {
		i, addr := i, w.Address
		g.Go(func() error {
			b, err := m.Balances.GetBalances(gctx, addr, denoms)
			if err != nil {
				return err
			}
			balances[i] = b
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return balanceError(err)
	}

	for i := range wallets {
		wallets[i].Balances = balances[i]
	}
	return nil
}

// balanceError maps a fetcher failure onto the protocol error contract.
func balanceError(err error) *protocol.Error {
	var ferr *balance.FetchError
	if !errors.As(err, &ferr) {
		return protocol.FromError(err)
	}
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return protocol.Unknown(err)
	case ferr.Unreachable:
		return protocol.NewError(protocol.CodeUnknown, protocol.KindUnknown, "chain node is unreachable").SetInternal(err)
	case errors.Is(err, node.ErrBadResponse):
		return protocol.BadResponse("%s", ferr.Error()).SetInternal(err)
	case node.IsNodeError(ferr.Err):
		return protocol.Transport(protocol.CodeBadGateway, ferr.Error()).SetInternal(err)
	}
	return protocol.Unknown(err)
}
