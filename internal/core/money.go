// Package core provides money parsing and handling utilities.
//
// This file contains functions for parsing monetary amounts from strings
// and rendering them with a fixed number of decimal places.
package core

import (
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

// MoneyPlaces is the number of decimal places used when printing amounts.
const MoneyPlaces = 2

// ParseMoney converts a decimal string to an exact decimal amount.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators and keeps
// every fractional digit; rounding is left to the caller. Zero is allowed,
// signs are not. Returns ErrInvalidAmount for anything else.
//
// Examples:
//
//	ParseMoney("12.34")  -> 12.34, nil
//	ParseMoney("12,34")  -> 12.34, nil
//	ParseMoney("0")      -> 0, nil
//	ParseMoney("-1")     -> 0, ErrInvalidAmount
func ParseMoney(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ",", ".")
	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		return decimal.Zero, ErrInvalidAmount
	}
	if parts[0] == "" && (len(parts) == 1 || parts[1] == "") {
		return decimal.Zero, ErrInvalidAmount
	}
	for _, part := range parts {
		for _, r := range part {
			if !unicode.IsDigit(r) {
				return decimal.Zero, ErrInvalidAmount
			}
		}
	}
	if parts[0] == "" {
		s = "0" + s
	}
	if strings.HasSuffix(s, ".") {
		s = strings.TrimSuffix(s, ".")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	return d, nil
}

// FormatMoney renders an amount with MoneyPlaces decimals, e.g. "12.30".
func FormatMoney(d decimal.Decimal) string {
	return d.StringFixed(MoneyPlaces)
}
