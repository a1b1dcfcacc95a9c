package importer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/spendbubbles/internal/model"
)

// JSONParser reads an array of {"Amount", "Description", "Trans Date"}
// objects. Fields of the wrong type never fail the document: a bad amount
// becomes an invalid NullDecimal and bad strings become empty.
type JSONParser struct{}

type jsonRecord struct {
	Amount      json.RawMessage `json:"Amount"`
	Description json.RawMessage `json:"Description"`
	TransDate   json.RawMessage `json:"Trans Date"`
}

// Format returns the parser name.
func (p *JSONParser) Format() string { return "json" }

// Parse decodes the dataset. An empty document or null yields no records.
func (p *JSONParser) Parse(r io.Reader) ([]model.RawTransaction, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading JSON dataset: %w", err)
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil, nil
	}

	var rows []json.RawMessage
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("decoding JSON dataset: %w", err)
	}

	txns := make([]model.RawTransaction, 0, len(rows))
	for _, row := range rows {
		var rec jsonRecord
		if err := json.Unmarshal(row, &rec); err != nil {
			// Not an object: keep a placeholder that the expense filter drops.
			txns = append(txns, model.RawTransaction{})
			continue
		}
		txns = append(txns, model.RawTransaction{
			Amount:      parseAmount(rec.Amount),
			Description: parseString(rec.Description),
			TransDate:   parseString(rec.TransDate),
		})
	}
	return txns, nil
}

// parseAmount accepts JSON numbers and numeric strings.
func parseAmount(raw json.RawMessage) decimal.NullDecimal {
	s := strings.TrimSpace(string(raw))
	if s == "" || s == "null" {
		return decimal.NullDecimal{}
	}
	if strings.HasPrefix(s, `"`) {
		var str string
		if err := json.Unmarshal(raw, &str); err != nil {
			return decimal.NullDecimal{}
		}
		s = strings.TrimSpace(str)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(d)
}

// parseString returns a JSON string's value, or the literal text of any
// other scalar.
func parseString(raw json.RawMessage) string {
	s := strings.TrimSpace(string(raw))
	if s == "" || s == "null" {
		return ""
	}
	var str string
	if err := json.Unmarshal(raw, &str); err == nil {
		return str
	}
	return s
}
