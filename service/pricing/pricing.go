// Package pricing holds the single depreciation law applied after every
// completed marketplace transaction.
package pricing

import (
	"math"

	"bookmarket/model"
)

// depreciationFactor is the 10% reduction applied once per transaction.
const depreciationFactor = 0.90

// Depreciate returns the price after one depreciation step, rounded to
// cents (half away from zero). Rounding is fixed here so that repeated
// depreciation stays representable and test expectations stay exact.
func Depreciate(price float64) float64 {
	return Round(price * depreciationFactor)
}

// Round normalizes a currency amount to 2 decimal places.
func Round(amount float64) float64 {
	return math.Round(amount*100) / 100
}

// StatusAfter decides the book status once a transaction has depreciated the
// price and adjusted the quantity. A price at or below zero discontinues the
// book permanently; a quantity of zero with a positive price only marks it
// sold, so a future sell-back can reopen it.
func StatusAfter(newPrice float64, quantity int64) model.BookStatus {
	if newPrice <= 0 {
		return model.BookDiscontinued
	}
	if quantity <= 0 {
		return model.BookSold
	}
	return model.BookAvailable
}
