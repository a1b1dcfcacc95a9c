package transform

import (
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/spendbubbles/internal/model"
)

func raw(amount, desc, date string) model.RawTransaction {
	return model.RawTransaction{
		Amount:      decimal.NewNullDecimal(decimal.RequireFromString(amount)),
		Description: desc,
		TransDate:   date,
	}
}

func opts() Options {
	o := DefaultOptions()
	o.Location = time.UTC
	return o
}

func band(weekday time.Weekday) float64 {
	return 20 + float64(weekday)*410.0/7
}

func TestTransform_SingleExpense(t *testing.T) {
	res := Transform([]model.RawTransaction{
		raw("-50", "X", "2023-01-02"),
		raw("30", "Y", "2023-01-03"),
	}, opts())

	require.Len(t, res.Expenses, 1)
	e := res.Expenses[0]
	assert.Equal(t, "50.00", e.Amount.StringFixed(2))
	assert.Equal(t, "X", e.Description)
	assert.True(t, e.Date.Equal(time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, time.Monday, e.Date.Weekday())
	assert.InDelta(t, band(time.Monday), e.FocusX, 1e-9)
	assert.Zero(t, e.FocusY)
	assert.Zero(t, e.Week)
	assert.Equal(t, "20230102_X_50.00", e.ID)
}

func TestTransform_FiltersNonExpenses(t *testing.T) {
	var input []model.RawTransaction
	for i := -10; i <= 10; i++ {
		input = append(input, raw(fmt.Sprintf("%d.25", i), fmt.Sprintf("row %d", i), "2023-03-01"))
	}
	input = append(input, raw("0", "zero", "2023-03-01"))
	input = append(input, model.RawTransaction{Description: "malformed", TransDate: "2023-03-01"})

	res := Transform(input, opts())

	// Rows -10.25 through -1.25 are the only charges.
	require.Len(t, res.Expenses, 10)
	for _, e := range res.Expenses {
		assert.True(t, e.Amount.IsPositive(), "amount %s must be positive", e.Amount)
		assert.NotEqual(t, "zero", e.Description)
		assert.NotEqual(t, "malformed", e.Description)
	}
}

func TestTransform_SameWeekSharesRow(t *testing.T) {
	res := Transform([]model.RawTransaction{
		raw("-10", "later week", "2023-01-09"),
		raw("-20", "monday", "2023-01-02"),
		raw("-30", "wednesday", "2023-01-04"),
		raw("-40", "third week", "2023-01-17"),
	}, opts())

	require.Len(t, res.Expenses, 4)
	got := make(map[string]model.Expense)
	for _, e := range res.Expenses {
		got[e.Description] = e
	}

	// First week encountered gets row 0.
	assert.Zero(t, got["later week"].FocusY)
	assert.InDelta(t, 100.0, got["monday"].FocusY, 1e-9)
	assert.InDelta(t, got["monday"].FocusY, got["wednesday"].FocusY, 1e-9)
	assert.InDelta(t, 200.0, got["third week"].FocusY, 1e-9)
	assert.Greater(t, got["third week"].FocusY, got["monday"].FocusY)

	// Flattened in bucket order, then input order.
	assert.Equal(t, "later week", res.Expenses[0].Description)
	assert.Equal(t, "monday", res.Expenses[1].Description)
	assert.Equal(t, "wednesday", res.Expenses[2].Description)
	assert.Equal(t, "third week", res.Expenses[3].Description)

	assert.InDelta(t, band(time.Wednesday), got["wednesday"].FocusX, 1e-9)
}

func TestTransform_Buckets(t *testing.T) {
	res := Transform([]model.RawTransaction{
		raw("-20", "a", "2023-01-02"),
		raw("-30.50", "b", "2023-01-04"),
		raw("-5", "c", "2023-01-10"),
	}, opts())

	require.Len(t, res.Buckets, 2)
	assert.Equal(t, 0, res.Buckets[0].Index)
	assert.True(t, res.Buckets[0].Start.Equal(time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 2, res.Buckets[0].Count)
	assert.Equal(t, "50.50", res.Buckets[0].Total.StringFixed(2))
	assert.Equal(t, 1, res.Buckets[1].Count)
	assert.True(t, res.Buckets[1].Start.Equal(time.Date(2023, 1, 8, 0, 0, 0, 0, time.UTC)))
}

func TestTransform_WeekStartMonday(t *testing.T) {
	o := opts()
	o.WeekStart = time.Monday
	res := Transform([]model.RawTransaction{
		raw("-1", "sunday", "2023-01-01"),
		raw("-2", "monday", "2023-01-02"),
	}, o)

	require.Len(t, res.Expenses, 2)
	assert.Zero(t, res.Expenses[0].FocusY)
	assert.InDelta(t, 100.0, res.Expenses[1].FocusY, 1e-9)

	// With Sunday weeks the two share a bucket.
	res = Transform([]model.RawTransaction{
		raw("-1", "sunday", "2023-01-01"),
		raw("-2", "monday", "2023-01-02"),
	}, opts())
	assert.Zero(t, res.Expenses[1].FocusY)
}

func TestTransform_AmountDomain(t *testing.T) {
	res := Transform([]model.RawTransaction{
		raw("-1", "a", "2023-01-02"),
		raw("-100", "b", "2023-01-02"),
		raw("-10", "c", "2023-01-02"),
		raw("500", "income ignored", "2023-01-02"),
	}, opts())

	lo, hi := res.Amounts.Domain()
	assert.InDelta(t, 1.0, lo, 1e-9)
	assert.InDelta(t, 100.0, hi, 1e-9)
	assert.InDelta(t, 0.5, res.Amounts.Scale(10), 1e-9)
}

func TestTransform_DegenerateDomain(t *testing.T) {
	res := Transform([]model.RawTransaction{
		raw("-20", "a", "2023-01-02"),
		raw("-20", "b", "2023-01-05"),
	}, opts())

	assert.True(t, res.Amounts.Degenerate())
	for _, e := range res.Expenses {
		assert.InDelta(t, 0.5, res.Amounts.Scale(e.AmountFloat()), 1e-9)
	}
}

func TestTransform_InvalidDate(t *testing.T) {
	res := Transform([]model.RawTransaction{
		raw("-5", "good", "2023-01-03"),
		raw("-7", "bad", "not a date"),
		raw("-9", "also bad", ""),
	}, opts())

	require.Len(t, res.Expenses, 3)
	bad := res.Expenses[1]
	assert.Equal(t, "bad", bad.Description)
	assert.False(t, bad.HasDate())
	assert.InDelta(t, 20.0, bad.FocusX, 1e-9)
	assert.InDelta(t, 100.0, bad.FocusY, 1e-9)
	assert.Equal(t, "invalid_BAD_7.00", bad.ID)

	// Unparseable dates share one bucket.
	assert.InDelta(t, bad.FocusY, res.Expenses[2].FocusY, 1e-9)
	require.Len(t, res.Buckets, 2)
	assert.True(t, res.Buckets[1].Start.IsZero())
}

func TestTransform_Empty(t *testing.T) {
	for _, input := range [][]model.RawTransaction{nil, {}} {
		res := Transform(input, opts())
		assert.Empty(t, res.Expenses)
		assert.Empty(t, res.Buckets)
		assert.True(t, res.Amounts.Degenerate())
	}
}

func TestTransform_OnlyIncome(t *testing.T) {
	res := Transform([]model.RawTransaction{raw("12", "salary", "2023-01-02")}, opts())
	assert.Empty(t, res.Expenses)
}

func TestTransform_Idempotent(t *testing.T) {
	input := []model.RawTransaction{
		raw("-4.50", "Coffee", "2023-01-02"),
		raw("-4.50", "Coffee", "2023-01-02"),
		raw("-120", "Groceries", "01/07/2023"),
		raw("2000", "Salary", "2023-01-05"),
		raw("-60", "Fuel", "2023-01-12"),
	}

	first := Transform(input, opts())
	second := Transform(input, opts())

	require.Equal(t, len(first.Expenses), len(second.Expenses))
	for i := range first.Expenses {
		a, b := first.Expenses[i], second.Expenses[i]
		assert.Equal(t, a.ID, b.ID)
		assert.True(t, a.Amount.Equal(b.Amount))
		assert.Equal(t, a.Description, b.Description)
		assert.True(t, a.Date.Equal(b.Date))
		assert.Equal(t, a.Week, b.Week)
		assert.InDelta(t, a.FocusX, b.FocusX, 0)
		assert.InDelta(t, a.FocusY, b.FocusY, 0)
	}
	assert.Equal(t, first.Amounts, second.Amounts)
}

func TestTransform_UniqueIDs(t *testing.T) {
	res := Transform([]model.RawTransaction{
		raw("-4.50", "Coffee", "2023-01-02"),
		raw("-4.50", "Coffee", "2023-01-02"),
		raw("-4.50", "Coffee", "2023-01-02"),
	}, opts())

	require.Len(t, res.Expenses, 3)
	assert.Equal(t, "20230102_COFFEE_4.50", res.Expenses[0].ID)
	assert.Equal(t, "20230102_COFFEE_4.50-2", res.Expenses[1].ID)
	assert.Equal(t, "20230102_COFFEE_4.50-3", res.Expenses[2].ID)
}

func TestTransform_DoesNotMutateInput(t *testing.T) {
	input := []model.RawTransaction{raw("-8", "Lunch", "2023-01-02")}
	Transform(input, opts())
	assert.Equal(t, "-8", input[0].Amount.Decimal.String())
}
