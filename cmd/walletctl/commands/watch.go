package commands

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"walletclient/app/models"
	"walletclient/pkg/log"
	"walletclient/pkg/web"
)

const serverShutdownTimeout = 10 * time.Second

func watchCmd() *cobra.Command {
	var (
		interval    time.Duration
		metricsAddr string
		denoms      []string
	)
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Poll your wallets and balances, exposing client metrics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if interval <= 0 {
				return errors.New("interval must be positive")
			}
			if metricsAddr == "" {
				metricsAddr = cfg.Metrics.Addr
			}

			ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if metricsAddr != "" {
				mux := http.NewServeMux()
				mux.Handle("/metrics", client.Metrics.Handler())
				srv := &http.Server{Addr: metricsAddr, Handler: mux}
				go web.Start(srv)
				defer web.Shutdown(srv, serverShutdownTimeout)
			}

			fields := models.WalletFields{IncludeBalances: true, Denoms: models.Denoms(denoms)}
			ticker := time.NewTicker(interval)
			defer ticker.Stop()
			for {
				poll(ctx, fields)

				select {
				case <-ctx.Done():
					return nil
				case <-ticker.C:
				}
			}
		},
	}
	cmd.Flags().DurationVar(&interval, "interval", time.Minute, "poll interval")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "serve /metrics on this address (default metrics.addr)")
	cmd.Flags().StringSliceVar(&denoms, "denom", nil, "only these denominations (default all held)")
	return cmd
}

// poll logs one snapshot of the caller's wallets. Failures are logged and
// retried on the next tick.
func poll(ctx context.Context, fields models.WalletFields) {
	logger := log.ExtractLogger(ctx)

	if err := client.login(ctx); err != nil {
		logger.Warnw("failed to log in", "error", err.Error())
		return
	}
	resp, err := client.Query.FetchMyWallets(ctx, fields, models.WalletFilter{})
	if err != nil {
		logger.Warnw("failed to fetch wallets", "error", err.Error())
		return
	}

	for _, w := range resp.Data.([]*models.Wallet) {
		logger.Infow("wallet", "address", w.Address, "balances", humanize(w.Balances))
	}
}
