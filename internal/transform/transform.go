// Package transform turns raw transactions into positioned expense records.
package transform

import (
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/spendbubbles/internal/id"
	"github.com/cleared-dev/spendbubbles/internal/model"
	"github.com/cleared-dev/spendbubbles/internal/scale"
)

const daysPerWeek = 7

// Margin is the space kept free around the chart area.
type Margin struct {
	Left, Right, Top, Bottom float64
}

// Options control how expenses are anchored on the canvas.
type Options struct {
	Width      float64
	Margin     Margin
	RowSpacing float64
	WeekStart  time.Weekday
	Location   *time.Location // used to parse dates; nil means time.Local
	Logger     *slog.Logger
}

// DefaultOptions matches a 450 wide canvas with 20 unit margins.
func DefaultOptions() Options {
	return Options{
		Width:      450,
		Margin:     Margin{Left: 20, Right: 20, Top: 20, Bottom: 20},
		RowSpacing: 100,
		WeekStart:  time.Sunday,
	}
}

// Bucket summarises one calendar week of expenses.
type Bucket struct {
	Index int
	Start time.Time // zero for the bucket holding unparseable dates
	Count int
	Total decimal.Decimal
}

// Result is the output of Transform. Its scales are built fresh per call.
type Result struct {
	Expenses []model.Expense
	Buckets  []Bucket
	Amounts  scale.Log
	Days     scale.Band
}

// Transform keeps the outgoing charges of raw, inverts their sign, buckets
// them by week and assigns every record its focus anchors. Records come out
// in bucket order, then in input order within a bucket.
func Transform(raw []model.RawTransaction, opts Options) Result {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	loc := opts.Location
	if loc == nil {
		loc = time.Local
	}

	days := scale.NewBand(daysPerWeek, opts.Margin.Left, opts.Width-opts.Margin.Right)

	// Filter + map.
	var mapped []model.Expense
	for i, r := range raw {
		if !r.IsExpense() {
			if !r.Amount.Valid {
				logger.Debug("skipping record with malformed amount", "row", i, "description", r.Description)
			}
			continue
		}
		date, ok := ParseDate(r.TransDate, loc)
		if !ok {
			logger.Debug("unparseable transaction date", "row", i, "date", r.TransDate)
		}
		mapped = append(mapped, model.Expense{
			Amount:      r.Amount.Decimal.Neg(),
			Description: r.Description,
			Date:        date,
		})
	}

	result := Result{Days: days}
	if len(mapped) == 0 {
		return result
	}
	result.Amounts = amountDomain(mapped)

	// Group by week start, in order of first encounter.
	type group struct {
		bucket  Bucket
		members []model.Expense
	}
	var groups []*group
	byWeek := make(map[int64]*group)
	var undated *group
	for _, e := range mapped {
		var g *group
		if e.HasDate() {
			start := WeekStart(e.Date, opts.WeekStart)
			g = byWeek[start.Unix()]
			if g == nil {
				g = &group{bucket: Bucket{Start: start}}
				byWeek[start.Unix()] = g
				groups = append(groups, g)
			}
		} else {
			if undated == nil {
				undated = &group{}
				groups = append(groups, undated)
			}
			g = undated
		}
		g.members = append(g.members, e)
	}

	// Position + flatten.
	expenses := make([]model.Expense, 0, len(mapped))
	keys := make([]string, 0, len(mapped))
	for row, g := range groups {
		g.bucket.Index = row
		g.bucket.Total = decimal.Zero
		for _, e := range g.members {
			e.Week = row
			e.FocusY = float64(row) * opts.RowSpacing
			if e.HasDate() {
				e.FocusX = days.At(int(e.Date.Weekday()))
			} else {
				start, _ := days.Range()
				e.FocusX = start
			}
			g.bucket.Count++
			g.bucket.Total = g.bucket.Total.Add(e.Amount)
			expenses = append(expenses, e)
			keys = append(keys, id.ExpenseKey(e.Date, e.Description, e.Amount))
		}
		result.Buckets = append(result.Buckets, g.bucket)
	}
	for i, k := range id.Dedupe(keys) {
		expenses[i].ID = k
	}

	result.Expenses = expenses
	logger.Debug("transformed dataset", "records", len(raw), "expenses", len(expenses), "weeks", len(groups))
	return result
}

func amountDomain(expenses []model.Expense) scale.Log {
	lo, hi := expenses[0].Amount, expenses[0].Amount
	for _, e := range expenses[1:] {
		if e.Amount.LessThan(lo) {
			lo = e.Amount
		}
		if e.Amount.GreaterThan(hi) {
			hi = e.Amount
		}
	}
	return scale.NewLog(lo.InexactFloat64(), hi.InexactFloat64())
}
