package node

import (
	"github.com/pkg/errors"
	"google.golang.org/protobuf/encoding/protowire"
)

// Coin is a cosmos.base.v1beta1.Coin.
type Coin struct {
	Denom  string
	Amount string
}

// BalancesPage is one page of a QueryAllBalancesResponse.
type BalancesPage struct {
	Balances []*Coin
	NextKey  []byte
	Total    uint64
}

// field numbers of the bank query messages
const (
	fieldAddress    protowire.Number = 1
	fieldDenom      protowire.Number = 2
	fieldPagination protowire.Number = 2

	fieldBalance  protowire.Number = 1
	fieldBalances protowire.Number = 1

	fieldCoinDenom  protowire.Number = 1
	fieldCoinAmount protowire.Number = 2

	fieldPageKey   protowire.Number = 1
	fieldNextKey   protowire.Number = 1
	fieldPageTotal protowire.Number = 2
)

func appendString(b []byte, num protowire.Number, s string) []byte {
	if s == "" {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendString(b, s)
}

func appendBytes(b []byte, num protowire.Number, v []byte) []byte {
	if len(v) == 0 {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, v)
}

func appendVarint(b []byte, num protowire.Number, v uint64) []byte {
	if v == 0 {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, v)
}

// walk calls fn for every length-delimited or varint field of a message and
// skips the rest.
func walk(b []byte, fn func(num protowire.Number, bytes []byte, varint uint64) error) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return errors.Wrap(protowire.ParseError(n), "failed to read a field tag")
		}
		b = b[n:]

		switch typ {
		case protowire.BytesType:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return errors.Wrap(protowire.ParseError(n), "failed to read a bytes field")
			}
			if err := fn(num, v, 0); err != nil {
				return err
			}
			b = b[n:]
		case protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return errors.Wrap(protowire.ParseError(n), "failed to read a varint field")
			}
			if err := fn(num, nil, v); err != nil {
				return err
			}
			b = b[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return errors.Wrap(protowire.ParseError(n), "failed to skip a field")
			}
			b = b[n:]
		}
	}
	return nil
}

func EncodeCoin(c *Coin) []byte {
	var b []byte
	b = appendString(b, fieldCoinDenom, c.Denom)
	return appendString(b, fieldCoinAmount, c.Amount)
}

func DecodeCoin(b []byte) (*Coin, error) {
	coin := new(Coin)
	err := walk(b, func(num protowire.Number, v []byte, _ uint64) error {
		switch num {
		case fieldCoinDenom:
			coin.Denom = string(v)
		case fieldCoinAmount:
			coin.Amount = string(v)
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to decode a coin")
	}
	return coin, nil
}

// EncodeBalanceRequest builds a QueryBalanceRequest.
func EncodeBalanceRequest(address, denom string) []byte {
	var b []byte
	b = appendString(b, fieldAddress, address)
	return appendString(b, fieldDenom, denom)
}

func DecodeBalanceRequest(b []byte) (address, denom string, err error) {
	err = walk(b, func(num protowire.Number, v []byte, _ uint64) error {
		switch num {
		case fieldAddress:
			address = string(v)
		case fieldDenom:
			denom = string(v)
		}
		return nil
	})
	return address, denom, errors.Wrap(err, "failed to decode a balance request")
}

func EncodeBalanceResponse(c *Coin) []byte {
	if c == nil {
		return nil
	}
	return appendBytes(nil, fieldBalance, EncodeCoin(c))
}

// DecodeBalanceResponse reads a QueryBalanceResponse; a missing balance
// decodes as an empty coin.
func DecodeBalanceResponse(b []byte) (*Coin, error) {
	coin := new(Coin)
	err := walk(b, func(num protowire.Number, v []byte, _ uint64) error {
		if num != fieldBalance {
			return nil
		}
		c, err := DecodeCoin(v)
		if err != nil {
			return err
		}
		coin = c
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to decode a balance response")
	}
	return coin, nil
}

// EncodeAllBalancesRequest builds a QueryAllBalancesRequest, with a page key
// when continuing a previous page.
func EncodeAllBalancesRequest(address string, key []byte) []byte {
	b := appendString(nil, fieldAddress, address)
	if len(key) > 0 {
		b = appendBytes(b, fieldPagination, appendBytes(nil, fieldPageKey, key))
	}
	return b
}

func DecodeAllBalancesRequest(b []byte) (address string, key []byte, err error) {
	err = walk(b, func(num protowire.Number, v []byte, _ uint64) error {
		switch num {
		case fieldAddress:
			address = string(v)
		case fieldPagination:
			return walk(v, func(num protowire.Number, v []byte, _ uint64) error {
				if num == fieldPageKey {
					key = append([]byte(nil), v...)
				}
				return nil
			})
		}
		return nil
	})
	return address, key, errors.Wrap(err, "failed to decode an all balances request")
}

func EncodeAllBalancesResponse(page *BalancesPage) []byte {
	var b []byte
	for _, c := range page.Balances {
		b = protowire.AppendTag(b, fieldBalances, protowire.BytesType)
		b = protowire.AppendBytes(b, EncodeCoin(c))
	}
	var p []byte
	p = appendBytes(p, fieldNextKey, page.NextKey)
	p = appendVarint(p, fieldPageTotal, page.Total)
	return appendBytes(b, fieldPagination, p)
}

func DecodeAllBalancesResponse(b []byte) (*BalancesPage, error) {
	page := new(BalancesPage)
	err := walk(b, func(num protowire.Number, v []byte, _ uint64) error {
		switch num {
		case fieldBalances:
			c, err := DecodeCoin(v)
			if err != nil {
				return err
			}
			page.Balances = append(page.Balances, c)
		case fieldPagination:
			return walk(v, func(num protowire.Number, v []byte, x uint64) error {
				switch num {
				case fieldNextKey:
					page.NextKey = append([]byte(nil), v...)
				case fieldPageTotal:
					page.Total = x
				}
				return nil
			})
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to decode an all balances response")
	}
	return page, nil
}
