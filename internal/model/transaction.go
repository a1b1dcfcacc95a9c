package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// RawTransaction is one record of the input dataset.
type RawTransaction struct {
	Amount      decimal.NullDecimal // negative = expense, positive = income; !Valid when malformed
	Description string
	TransDate   string // unparsed, as found in the dataset
}

// IsExpense reports whether the record is an outgoing charge.
func (t RawTransaction) IsExpense() bool {
	return t.Amount.Valid && t.Amount.Decimal.IsNegative()
}

// Expense is an outgoing charge enriched with its chart anchors.
type Expense struct {
	ID          string          // stable identity used to key chart elements
	Amount      decimal.Decimal // always positive
	Description string
	Date        time.Time // zero when the raw date could not be parsed
	Week        int       // ordinal of the week bucket, in order of first encounter
	FocusX      float64
	FocusY      float64
}

// HasDate reports whether the expense carries a parsed date.
func (e Expense) HasDate() bool {
	return !e.Date.IsZero()
}

// AmountFloat returns the amount as a float64 for scale computations.
func (e Expense) AmountFloat() float64 {
	return e.Amount.InexactFloat64()
}
