package query

import (
	"context"

	"walletclient/app/models"
	"walletclient/pkg/protocol"
)

// Service aggregates wallet metadata from the backend with balances read
// from the chain node. Data of a successful response is []*models.Wallet,
// *models.Account or *models.Wallet respectively.
type Service interface {
	FetchMyWallets(ctx context.Context, fields models.WalletFields, filter models.WalletFilter) (*protocol.Response, error)
	FetchMyAccount(ctx context.Context, fields models.AccountFields) (*protocol.Response, error)
	FetchWalletByAddress(ctx context.Context, address string, includeBalances bool) (*protocol.Response, error)
}
