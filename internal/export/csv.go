// Package export writes the laid-out chart as a flat CSV table.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/spendbubbles/internal/model"
	"github.com/cleared-dev/spendbubbles/internal/render"
)

// Header is the CSV header for layout exports.
const Header = "id,date,description,amount,week,focus_x,focus_y,x,y,fill"

const (
	numFields  = 10
	dateFormat = "2006-01-02"
	colID      = 0
	colDate    = 1
	colDesc    = 2
	colAmount  = 3
	colWeek    = 4
	colFocusX  = 5
	colFocusY  = 6
	colX       = 7
	colY       = 8
	colFill    = 9
)

// Row is one expense with the position and colour it was drawn at.
type Row struct {
	Expense    model.Expense
	X, Y       float64
	Positioned bool
	Fill       string
}

// Rows joins expenses with their circles on canvas. Expenses without a
// circle are exported unpositioned.
func Rows(expenses []model.Expense, canvas *render.Canvas) []Row {
	rows := make([]Row, len(expenses))
	for i, e := range expenses {
		rows[i] = Row{Expense: e}
		if c, ok := canvas.Get(e.ID); ok {
			rows[i].X, rows[i].Y = c.X, c.Y
			rows[i].Positioned = c.Positioned
			rows[i].Fill = c.Fill
		}
	}
	return rows
}

// Write writes rows to w (including header).
func Write(w io.Writer, rows []Row) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(strings.Split(Header, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, row := range rows {
		if err := cw.Write(MarshalRow(row)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// Read reads rows back from a layout export.
func Read(r io.Reader) ([]Row, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading layout CSV: %w", err)
	}

	if len(records) == 0 {
		return nil, nil
	}

	// Skip header row.
	var rows []Row
	for i, rec := range records[1:] {
		row, err := UnmarshalRow(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// MarshalRow converts a Row to a CSV record. Unparsed dates and unpositioned
// coordinates are left empty.
func MarshalRow(row Row) []string {
	rec := make([]string, numFields)
	e := row.Expense
	rec[colID] = e.ID
	if e.HasDate() {
		rec[colDate] = e.Date.Format(dateFormat)
	}
	rec[colDesc] = e.Description
	rec[colAmount] = e.Amount.StringFixed(2)
	rec[colWeek] = strconv.Itoa(e.Week)
	rec[colFocusX] = formatFloat(e.FocusX)
	rec[colFocusY] = formatFloat(e.FocusY)
	if row.Positioned {
		rec[colX] = formatFloat(row.X)
		rec[colY] = formatFloat(row.Y)
	}
	rec[colFill] = row.Fill
	return rec
}

// UnmarshalRow converts a CSV record to a Row.
func UnmarshalRow(rec []string) (Row, error) {
	if len(rec) != numFields {
		return Row{}, fmt.Errorf("expected %d fields, got %d", numFields, len(rec))
	}

	var date time.Time
	if rec[colDate] != "" {
		var err error
		date, err = time.Parse(dateFormat, rec[colDate])
		if err != nil {
			return Row{}, fmt.Errorf("parsing date %q: %w", rec[colDate], err)
		}
	}

	amount, err := decimal.NewFromString(rec[colAmount])
	if err != nil {
		return Row{}, fmt.Errorf("parsing amount %q: %w", rec[colAmount], err)
	}

	week, err := strconv.Atoi(rec[colWeek])
	if err != nil {
		return Row{}, fmt.Errorf("parsing week %q: %w", rec[colWeek], err)
	}

	floats := make(map[int]float64, 4)
	for _, col := range []int{colFocusX, colFocusY, colX, colY} {
		if rec[col] == "" {
			continue
		}
		f, err := strconv.ParseFloat(rec[col], 64)
		if err != nil {
			return Row{}, fmt.Errorf("parsing %s %q: %w", strings.Split(Header, ",")[col], rec[col], err)
		}
		floats[col] = f
	}

	return Row{
		Expense: model.Expense{
			ID:          rec[colID],
			Amount:      amount,
			Description: rec[colDesc],
			Date:        date,
			Week:        week,
			FocusX:      floats[colFocusX],
			FocusY:      floats[colFocusY],
		},
		X:          floats[colX],
		Y:          floats[colY],
		Positioned: rec[colX] != "" && rec[colY] != "",
		Fill:       rec[colFill],
	}, nil
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', 2, 64)
}
