package commands

import (
	"context"

	"walletclient/app/auth"
	"walletclient/app/balance"
	"walletclient/app/config"
	"walletclient/app/dispatch"
	"walletclient/app/models"
	"walletclient/app/query"
	"walletclient/app/transaction"
	"walletclient/pkg/address"
	"walletclient/pkg/metrics"
)

// walletClient wires the client services from a config.
type walletClient struct {
	Credentials *models.Credentials
	Metrics     *metrics.Collector
	Validator   *address.Validator

	Balances    *balance.Manager
	Query       query.Service
	Auth        auth.Service
	Transaction transaction.Service
}

func newWalletClient(cfg *config.Config) (*walletClient, error) {
	collector := metrics.NewCollector()
	validator := address.NewValidator(cfg.Chain.Prefix)

	dispatcher, err := dispatch.NewManager(cfg.Server, collector)
	if err != nil {
		return nil, err
	}
	balances := balance.NewManager(cfg.Chain, collector)

	c := &walletClient{
		Metrics:   collector,
		Validator: validator,
		Balances:  balances,
		Query: &query.Manager{
			Dispatcher: dispatcher,
			Balances:   balances,
			Validator:  validator,
		},
		Auth: &auth.Manager{Dispatcher: dispatcher},
		Transaction: &transaction.Manager{
			Dispatcher: dispatcher,
			Validator:  validator,
		},
	}
	if cfg.Auth.Email != "" {
		c.Credentials = &models.Credentials{Email: cfg.Auth.Email, Password: cfg.Auth.Password}
	}
	return c, nil
}

// login opens a backend session when credentials are configured. Without
// them the backend decides whether the call is allowed.
func (c *walletClient) login(ctx context.Context) error {
	if c.Credentials == nil {
		return nil
	}
	_, err := c.Auth.Login(ctx, c.Credentials)
	return err
}

func (c *walletClient) Close() {
	c.Balances.Close()
}
