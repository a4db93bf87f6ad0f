package models

import (
	"strings"

	"github.com/pkg/errors"

	"walletclient/pkg/address"
)

type TransactionHistoryFilter struct {
	Address string
	After   uint64 // block height
	Limit   int
	Offset  int
}

func (f *TransactionHistoryFilter) Validate(validator *address.Validator) error {
	if f.Address == "" {
		return errEmpty("address")
	}
	if !validator.IsValid(f.Address) {
		return errors.Errorf("invalid address %q provided", f.Address)
	}
	if f.Limit < 0 || f.Offset < 0 {
		return errors.New("limit and offset must not be negative")
	}
	return nil
}

func (f *TransactionHistoryFilter) Params() map[string]interface{} {
	params := map[string]interface{}{
		"address": f.Address,
	}
	if f.After > 0 {
		params["after"] = f.After
	}
	if f.Limit > 0 {
		params["limit"] = f.Limit
	}
	if f.Offset > 0 {
		params["offset"] = f.Offset
	}
	return params
}

// ValidateTxHash checks a hex encoded sha256 transaction hash.
func ValidateTxHash(hash string) error {
	if hash == "" {
		return errEmpty("tx hash")
	}
	h := strings.TrimPrefix(strings.ToLower(hash), "0x")
	if len(h) != 64 {
		return errors.New("tx hash must be 32 bytes hex encoded")
	}
	for _, c := range h {
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return errors.New("tx hash must be 32 bytes hex encoded")
		}
	}
	return nil
}

// Transaction is a transfer as served by the transaction history endpoints.
type Transaction struct {
	Hash        string     `json:"hash"`
	Height      uint64     `json:"height"`
	FromAddress string     `json:"fromAddress"`
	ToAddress   string     `json:"toAddress"`
	Amount      []*Balance `json:"amount"`
	Memo        string     `json:"memo,omitempty"`
}

type TransactionHistory struct {
	Transactions []*Transaction `json:"transactions"`
	Total        int            `json:"total"`
}
