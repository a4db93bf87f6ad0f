package transaction

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"walletclient/app/dispatch"
	"walletclient/app/models"
	"walletclient/pkg/address"
	"walletclient/pkg/log"
	"walletclient/pkg/protocol"
)

const (
	pathHistory     = "/v1/transaction/history"
	pathTransaction = "/v1/transaction/"
)

type Manager struct {
	Dispatcher dispatch.Service
	Validator  *address.Validator
}

func (m *Manager) History(ctx context.Context, filter *models.TransactionHistoryFilter) (*protocol.Response, error) {
	if filter == nil {
		return nil, protocol.BadRequest("no filter provided")
	}
	log.AddFields(ctx, "filter", filter)

	if err := filter.Validate(m.Validator); err != nil {
		return nil, protocol.BadRequest("%s", err)
	}
	return m.Dispatcher.Dispatch(ctx, http.MethodGet, pathHistory, nil, &dispatch.Options{Params: filter.Params()})
}

func (m *Manager) GetTransaction(ctx context.Context, hash string) (*protocol.Response, error) {
	log.AddFields(ctx, "hash", hash)

	if err := models.ValidateTxHash(hash); err != nil {
		return nil, protocol.BadRequest("%s", err)
	}
	// the backend keys transactions by the upper-case hash without prefix
	hash = strings.ToUpper(strings.TrimPrefix(strings.ToLower(hash), "0x"))
	return m.Dispatcher.Dispatch(ctx, http.MethodGet, pathTransaction+url.PathEscape(hash), nil, nil)
}
