package server

import (
	"walletclient/app/models"
	"walletclient/pkg/node"
)

// Demo data served by the devserver command.
const (
	DemoEmail    = "demo@example.com"
	DemoPassword = "demo"
	DemoDenom    = "uthasa"

	demoUserID      = "u-1"
	demoMainAddress = "thasa1qypqxpq9qcrsszg2pvxq6rs0zqg3yyc53hyw3l"
	demoSaveAddress = "thasa1z5tpwxqergd3c8g7ruszzg3rysjjvfegxjsqef"
	demoPeerAddress = "thasa142424242424242424242424242424242ntnyvl"
)

// Seed fills store and n with one demo user owning two wallets.
func Seed(store *Store, n *Node) {
	store.AddUser(&User{
		Account: models.Account{
			ID:       demoUserID,
			Email:    DemoEmail,
			Username: "demo",
		},
		Password: DemoPassword,
	})

	store.AddWallet(&models.Wallet{
		ID: "w-1", UserID: demoUserID, Address: demoMainAddress, Nickname: "main", IsMain: true,
	})
	store.AddWallet(&models.Wallet{
		ID: "w-2", UserID: demoUserID, Address: demoSaveAddress, Nickname: "savings",
	})

	store.AddTransaction(&models.Transaction{
		Hash:        "9F2C4D5E6A7B8C9D0E1F2A3B4C5D6E7F8091A2B3C4D5E6F708192A3B4C5D6E7F",
		Height:      42,
		FromAddress: demoPeerAddress,
		ToAddress:   demoMainAddress,
		Amount:      []*models.Balance{{Denom: DemoDenom, Amount: "2500000"}},
		Memo:        "welcome",
	})

	if n != nil {
		n.SetBalances(demoMainAddress,
			&node.Coin{Denom: "ibc/27394FB092D2ECCD56123C74F36E4C1F926001CEADA9CA97EA622B25F41E5EB2", Amount: "17"},
			&node.Coin{Denom: DemoDenom, Amount: "2500000"},
		)
		n.SetBalances(demoSaveAddress, &node.Coin{Denom: DemoDenom, Amount: "1000000000"})
	}
}
