// Package core provides money parsing and handling utilities.
//
// This file contains functions for parsing user-entered amounts and for the
// two-decimal display rounding used in remarks and ROI figures.
package core

import (
	"math"
	"math/big"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount converts a decimal string to a float amount.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators and an
// optional sign. Negative values are allowed. Returns ErrInvalidAmount for
// empty, non-numeric or non-finite input.
//
// Examples:
//   ParseAmount("12.34") -> 12.34, nil
//   ParseAmount("-5,5")  -> -5.5, nil
//   ParseAmount("abc")   -> 0, ErrInvalidAmount
func ParseAmount(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}
	if strings.Count(s, ",") == 1 && !strings.Contains(s, ".") {
		s = strings.Replace(s, ",", ".", 1)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || !finite(v) {
		return 0, ErrInvalidAmount
	}
	return v, nil
}

// FormatAmount renders v with exactly two decimals, rounding half away from
// zero on the exact binary value of v: 1.005 is stored as 1.00499999... and
// renders as "1.00".
func FormatAmount(v float64) string {
	return exactDecimal(v).StringFixed(2)
}

// exactDecimal returns the exact value of v. A float64 is mant * 2^exp, and
// for exp < 0 that equals mant * 5^-exp / 10^-exp.
func exactDecimal(v float64) decimal.Decimal {
	if !finite(v) {
		return decimal.Zero
	}
	frac, exp := math.Frexp(v)
	mant := big.NewInt(int64(frac * (1 << 53)))
	exp -= 53
	if exp >= 0 {
		return decimal.NewFromBigInt(mant.Lsh(mant, uint(exp)), 0)
	}
	pow := new(big.Int).Exp(big.NewInt(5), big.NewInt(int64(-exp)), nil)
	return decimal.NewFromBigInt(mant.Mul(mant, pow), int32(exp))
}

// Round2 rounds v to two decimal places, half away from zero.
func Round2(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return f
}
