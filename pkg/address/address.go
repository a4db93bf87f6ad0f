// Package address checks chain account addresses encoded with bech32.
package address

import (
	"strings"

	"github.com/btcsuite/btcd/btcutil/bech32"
)

const (
	// DefaultPrefix is the human-readable part of account addresses on the chain.
	DefaultPrefix = "thasa"

	accountLen  = 20
	contractLen = 32
)

// Validator checks addresses against a fixed human-readable prefix. An empty
// Prefix accepts any prefix.
type Validator struct {
	Prefix string
}

func NewValidator(prefix string) *Validator {
	return &Validator{Prefix: strings.ToLower(strings.TrimSpace(prefix))}
}

// IsValid reports whether address decodes as a bech32 account or contract
// address with the validator's prefix. It never panics.
func (v *Validator) IsValid(address string) bool {
	hrp, data, err := bech32.Decode(address)
	if err != nil {
		return false
	}
	if v != nil && v.Prefix != "" && hrp != v.Prefix {
		return false
	}

	payload, err := bech32.ConvertBits(data, 5, 8, false)
	if err != nil {
		return false
	}
	return len(payload) == accountLen || len(payload) == contractLen
}

// IsValid checks address with the default chain prefix.
func IsValid(address string) bool {
	return defaultValidator.IsValid(address)
}

var defaultValidator = NewValidator(DefaultPrefix)
