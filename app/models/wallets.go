package models

import (
	"strings"

	"github.com/pkg/errors"

	"walletclient/pkg/address"
)

// Balance is one denomination held by an address. Amount stays a base-unit
// integer string and is never converted to floating point.
type Balance struct {
	Denom  string `json:"denom"`
	Amount string `json:"amount"`
}

// Wallet is a wallet record served by the metadata service. Balances are
// attached client-side after the record has been fetched.
type Wallet struct {
	ID       string     `json:"id,omitempty"`
	UserID   string     `json:"userId,omitempty"`
	Address  string     `json:"address"`
	Nickname string     `json:"nickname,omitempty"`
	IsMain   bool       `json:"isMain,omitempty"`
	Balances []*Balance `json:"balances,omitempty"`
}

// WalletList is the metadata payload of a wallets query. Wallets is a pointer
// so a missing field can be told apart from an empty list.
type WalletList struct {
	Wallets *[]*Wallet `json:"wallets"`
}

// WalletFields selects what a wallets query returns.
type WalletFields struct {
	IncludeNickname    bool
	IncludeIdentifiers bool
	IncludeBalances    bool
	Denoms             []string // empty means every denomination held
}

func (f *WalletFields) Params() map[string]interface{} {
	return map[string]interface{}{
		"includeNickname": f.IncludeNickname,
		"includeIds":      f.IncludeIdentifiers,
	}
}

// WalletFilter narrows a wallets query.
type WalletFilter struct {
	MainOnly  bool
	Addresses []string
	Limit     int
	Offset    int
}

func (f *WalletFilter) Validate(validator *address.Validator) error {
	if f.Limit < 0 {
		return errors.New("limit must not be negative")
	}
	if f.Offset < 0 {
		return errors.New("offset must not be negative")
	}
	for _, addr := range f.Addresses {
		if !validator.IsValid(addr) {
			return errors.Errorf("invalid wallet address %q provided", addr)
		}
	}
	return nil
}

func (f *WalletFilter) Params() map[string]interface{} {
	params := map[string]interface{}{
		"mainWallet": f.MainOnly,
	}
	if len(f.Addresses) > 0 {
		params["addresses"] = f.Addresses
	}
	if f.Limit > 0 {
		params["limit"] = f.Limit
	}
	if f.Offset > 0 {
		params["offset"] = f.Offset
	}
	return params
}

// Denoms trims and drops empty denominations, keeping the order given.
func Denoms(denoms []string) []string {
	var result []string
	for _, d := range denoms {
		if d = strings.TrimSpace(d); d != "" {
			result = append(result, d)
		}
	}
	return result
}
