package amount

import (
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// ToDisplay converts a base-unit integer amount (e.g. uthasa) into its
// display unit by shifting the decimal point. The input is never routed
// through floating point.
func ToDisplay(value string, decimals uint8) (string, error) {
	num, err := decimal.NewFromString(value)
	if err != nil {
		return "", errors.Wrapf(err, "invalid amount %q", value)
	}
	return num.Shift(-int32(decimals)).String(), nil
}

// ToBase is the inverse of ToDisplay; fractional base units are rejected.
func ToBase(value string, decimals uint8) (string, error) {
	num, err := decimal.NewFromString(value)
	if err != nil {
		return "", errors.Wrapf(err, "invalid amount %q", value)
	}
	base := num.Shift(int32(decimals))
	if !base.Equal(base.Truncate(0)) {
		return "", errors.Errorf("amount %s has more than %d decimals", value, decimals)
	}
	return base.String(), nil
}

// IsValid reports whether value is a non-negative integer amount.
func IsValid(value string) bool {
	num, err := decimal.NewFromString(value)
	if err != nil {
		return false
	}
	return !num.IsNegative() && num.Equal(num.Truncate(0))
}
