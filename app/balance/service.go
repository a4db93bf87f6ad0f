package balance

import (
	"context"

	"walletclient/app/models"
	"walletclient/pkg/node"
)

type Service interface {
	// GetBalances returns every balance of address when denoms is empty, or
	// exactly one entry per denom with result[i].Denom == denoms[i].
	GetBalances(ctx context.Context, address string, denoms []string) ([]*models.Balance, error)
}

// Node is the part of *node.Client the fetcher uses.
type Node interface {
	Balance(ctx context.Context, address, denom string) (*node.Coin, error)
	AllBalances(ctx context.Context, address string) ([]*node.Coin, error)
	Close()
}

type Dialer func(ctx context.Context, url string) (Node, error)
