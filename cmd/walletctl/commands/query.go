package commands

import (
	"github.com/spf13/cobra"

	"walletclient/app/models"
)

func walletsCmd() *cobra.Command {
	var (
		fields models.WalletFields
		filter models.WalletFilter
		denoms []string
	)
	cmd := &cobra.Command{
		Use:   "wallets",
		Short: "List your wallets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd)
			if err := client.login(ctx); err != nil {
				return err
			}

			fields.Denoms = models.Denoms(denoms)
			resp, err := client.Query.FetchMyWallets(ctx, fields, filter)
			if err != nil {
				return err
			}
			return printJSON(humanize(resp.Data))
		},
	}
	cmd.Flags().BoolVar(&fields.IncludeBalances, "balances", false, "attach on-chain balances")
	cmd.Flags().StringSliceVar(&denoms, "denom", nil, "only these denominations (default all held)")
	cmd.Flags().BoolVar(&fields.IncludeNickname, "nickname", true, "include wallet nicknames")
	cmd.Flags().BoolVar(&fields.IncludeIdentifiers, "ids", false, "include wallet and user ids")
	cmd.Flags().BoolVar(&filter.MainOnly, "main", false, "only the main wallet")
	cmd.Flags().StringSliceVar(&filter.Addresses, "address", nil, "only these addresses")
	cmd.Flags().IntVar(&filter.Limit, "limit", 0, "page size, 0 for no limit")
	cmd.Flags().IntVar(&filter.Offset, "offset", 0, "page offset")
	return cmd
}

func accountCmd() *cobra.Command {
	var (
		fields models.AccountFields
		denoms []string
	)
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Show your account and its main wallet",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd)
			if err := client.login(ctx); err != nil {
				return err
			}

			fields.Denoms = models.Denoms(denoms)
			resp, err := client.Query.FetchMyAccount(ctx, fields)
			if err != nil {
				return err
			}
			return printJSON(humanize(resp.Data))
		},
	}
	cmd.Flags().BoolVar(&fields.IncludeBalances, "balances", false, "attach on-chain balances")
	cmd.Flags().StringSliceVar(&denoms, "denom", nil, "only these denominations (default all held)")
	return cmd
}

func walletCmd() *cobra.Command {
	var includeBalances bool
	cmd := &cobra.Command{
		Use:   "wallet <address>",
		Short: "Look a wallet up by address",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := client.Query.FetchWalletByAddress(commandContext(cmd), args[0], includeBalances)
			if err != nil {
				return err
			}
			return printJSON(humanize(resp.Data))
		},
	}
	cmd.Flags().BoolVar(&includeBalances, "balances", false, "attach on-chain balances")
	return cmd
}
