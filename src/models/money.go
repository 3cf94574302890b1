package models

import "github.com/shopspring/decimal"

// Monetary values are fixed-point with two decimal places. They are held as
// decimals in Go and as integer minor units (pence) in storage, so balance
// updates can be applied as exact integer increments.

// ToMinorUnits converts a decimal amount to integer minor units, rounding
// half away from zero at two decimal places.
func ToMinorUnits(d decimal.Decimal) int64 {
	return d.Round(2).Shift(2).IntPart()
}

// FromMinorUnits converts integer minor units back to a decimal amount.
func FromMinorUnits(m int64) decimal.Decimal {
	return decimal.New(m, -2)
}
