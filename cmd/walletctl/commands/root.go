package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"walletclient/app/config"
	"walletclient/pkg/log"
	"walletclient/pkg/protocol"
)

var (
	configPath string
	human      bool

	cfg    *config.Config
	client *walletClient
)

func Execute() error {
	root := &cobra.Command{
		Use:           "walletctl",
		Short:         "Query wallets, accounts and on-chain balances",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if cfg, err = config.Load(configPath); err != nil {
				return err
			}
			log.ConfigureLogger(cfg.Logging)

			client, err = newWalletClient(cfg)
			return err
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if client != nil {
				client.Close()
			}
			_ = log.Default().Sync() // flush the logger
		},
	}

	root.PersistentFlags().StringVar(&configPath, "config", config.DefaultConfigPath, "config file, empty to use WALLET_* env only")
	root.PersistentFlags().BoolVar(&human, "human", false, "render amounts in display units")

	root.AddCommand(
		walletsCmd(), accountCmd(), walletCmd(), balancesCmd(), validateCmd(),
		sessionCmd(), historyCmd(), txCmd(), watchCmd(), devserverCmd(),
	)

	err := root.Execute()
	if err != nil {
		printError(err)
	}
	return err
}

// commandContext returns a context carrying a logger for one command run.
func commandContext(cmd *cobra.Command) context.Context {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return log.ToContext(ctx, log.Default().With("command", cmd.Name()))
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return errors.Wrap(enc.Encode(v), "failed to write output")
}

// printError writes protocol errors as JSON and anything else as text.
func printError(err error) {
	var perr *protocol.Error
	if !errors.As(err, &perr) {
		fmt.Fprintln(os.Stderr, "error:", err)
		return
	}
	enc := json.NewEncoder(os.Stderr)
	enc.SetIndent("", "  ")
	_ = enc.Encode(map[string]interface{}{
		"code":    perr.Code,
		"kind":    perr.Kind,
		"message": perr.Message,
	})
}
