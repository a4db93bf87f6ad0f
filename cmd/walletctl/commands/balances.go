package commands

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"walletclient/app/models"
	"walletclient/pkg/amount"
	"walletclient/pkg/protocol"
)

func balancesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "balances <address> [denom...]",
		Short: "Read balances straight from the chain node",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			addr := args[0]
			if !client.Validator.IsValid(addr) {
				return protocol.BadRequest("invalid wallet address %q provided", addr)
			}

			balances, err := client.Balances.GetBalances(commandContext(cmd), addr, models.Denoms(args[1:]))
			if err != nil {
				return err
			}
			return printJSON(humanize(balances))
		},
	}
}

func validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <address>",
		Short: "Check an address against the configured prefix",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !client.Validator.IsValid(args[0]) {
				return errors.Errorf("%s is not a valid %s address", args[0], client.Validator.Prefix)
			}
			fmt.Println("valid")
			return nil
		},
	}
}

// humanize rewrites balance amounts to display units when --human is set.
// Amounts that cannot be converted are left as they are.
func humanize(data interface{}) interface{} {
	if !human {
		return data
	}

	var balances [][]*models.Balance
	switch v := data.(type) {
	case []*models.Balance:
		balances = append(balances, v)
	case *models.Wallet:
		balances = append(balances, v.Balances)
	case []*models.Wallet:
		for _, w := range v {
			balances = append(balances, w.Balances)
		}
	case *models.Account:
		if v.WalletAccount != nil {
			balances = append(balances, v.WalletAccount.Balances)
		}
	}

	for _, list := range balances {
		for _, b := range list {
			if display, err := amount.ToDisplay(b.Amount, cfg.Chain.Decimals); err == nil {
				b.Amount = display
			}
		}
	}
	return data
}
