package transaction

import (
	"context"

	"walletclient/app/models"
	"walletclient/pkg/protocol"
)

type Service interface {
	History(ctx context.Context, filter *models.TransactionHistoryFilter) (*protocol.Response, error)
	GetTransaction(ctx context.Context, hash string) (*protocol.Response, error)
}
