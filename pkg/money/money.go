// Package money converts between minor units (centavos) stored in the
// database and the decimal amounts exchanged with clients.
package money

import (
	"encoding/json"
	"errors"

	"github.com/shopspring/decimal"
)

var (
	// ErrNegative is returned for amounts below zero.
	ErrNegative = errors.New("amount must not be negative")
	// ErrOutOfRange is returned for amounts whose minor units do not fit in an int64.
	ErrOutOfRange = errors.New("amount is too large")
)

var hundred = decimal.NewFromInt(100)

// ToDecimal converts minor units to a decimal amount.
func ToDecimal(cents int64) decimal.Decimal {
	return decimal.New(cents, -2)
}

// FromDecimal rounds d half away from zero to two places and returns minor units.
func FromDecimal(d decimal.Decimal) (int64, error) {
	if d.IsNegative() {
		return 0, ErrNegative
	}
	scaled := d.Round(2).Mul(hundred)
	if !scaled.BigInt().IsInt64() {
		return 0, ErrOutOfRange
	}
	return scaled.IntPart(), nil
}

// Parse reads a decimal string such as "150" or "12.5" into minor units.
func Parse(s string) (int64, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, err
	}
	return FromDecimal(d)
}

// JSON renders minor units as a JSON number with two decimal places.
func JSON(cents int64) json.Number {
	return json.Number(ToDecimal(cents).StringFixed(2))
}
