package model

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestRawTransactionIsExpense(t *testing.T) {
	tests := []struct {
		name   string
		amount decimal.NullDecimal
		want   bool
	}{
		{"negative", decimal.NewNullDecimal(decimal.RequireFromString("-4.50")), true},
		{"positive", decimal.NewNullDecimal(decimal.RequireFromString("30")), false},
		{"zero", decimal.NewNullDecimal(decimal.Zero), false},
		{"invalid", decimal.NullDecimal{}, false},
	}
	for _, tt := range tests {
		txn := RawTransaction{Amount: tt.amount}
		assert.Equal(t, tt.want, txn.IsExpense(), tt.name)
	}
}

func TestExpenseHasDate(t *testing.T) {
	assert.False(t, Expense{}.HasDate())
	assert.True(t, Expense{Date: time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC)}.HasDate())
}

func TestExpenseAmountFloat(t *testing.T) {
	e := Expense{Amount: decimal.RequireFromString("127.50")}
	assert.InDelta(t, 127.5, e.AmountFloat(), 1e-9)
}
