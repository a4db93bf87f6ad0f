package commands

import (
	"github.com/spf13/cobra"

	"walletclient/app/models"
)

func sessionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "session",
		Short: "Log in with the configured credentials and show the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd)
			if err := client.login(ctx); err != nil {
				return err
			}
			resp, err := client.Auth.Session(ctx)
			if err != nil {
				return err
			}
			return printJSON(resp)
		},
	}
}

func historyCmd() *cobra.Command {
	filter := new(models.TransactionHistoryFilter)
	cmd := &cobra.Command{
		Use:   "history <address>",
		Short: "List transactions of an address",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd)
			if err := client.login(ctx); err != nil {
				return err
			}

			filter.Address = args[0]
			resp, err := client.Transaction.History(ctx, filter)
			if err != nil {
				return err
			}
			return printJSON(resp)
		},
	}
	cmd.Flags().Uint64Var(&filter.After, "after", 0, "only transactions above this block height")
	cmd.Flags().IntVar(&filter.Limit, "limit", 0, "page size, 0 for no limit")
	cmd.Flags().IntVar(&filter.Offset, "offset", 0, "page offset")
	return cmd
}

func txCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tx <hash>",
		Short: "Show a transaction by hash",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd)
			if err := client.login(ctx); err != nil {
				return err
			}
			resp, err := client.Transaction.GetTransaction(ctx, args[0])
			if err != nil {
				return err
			}
			return printJSON(resp)
		},
	}
}
