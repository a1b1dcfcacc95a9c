package importer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONParser_Parse(t *testing.T) {
	in := `[
		{"Amount": -50, "Description": "X", "Trans Date": "2023-01-02"},
		{"Amount": 30, "Description": "Y", "Trans Date": "2023-01-03"}
	]`
	txns, err := (&JSONParser{}).Parse(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, txns, 2)

	assert.True(t, txns[0].Amount.Valid)
	assert.Equal(t, "-50", txns[0].Amount.Decimal.String())
	assert.Equal(t, "X", txns[0].Description)
	assert.Equal(t, "2023-01-02", txns[0].TransDate)
	assert.True(t, txns[0].IsExpense())
	assert.False(t, txns[1].IsExpense())
}

func TestJSONParser_DecimalPrecision(t *testing.T) {
	txns, err := (&JSONParser{}).Parse(strings.NewReader(`[{"Amount": -0.1}, {"Amount": -0.2}]`))
	require.NoError(t, err)
	sum := txns[0].Amount.Decimal.Add(txns[1].Amount.Decimal)
	assert.Equal(t, "-0.30", sum.StringFixed(2))
	assert.Equal(t, "-0.3", sum.String())
}

func TestJSONParser_LenientFields(t *testing.T) {
	in := `[
		{"Amount": "-12.00", "Description": "string amount", "Trans Date": "2023-01-14"},
		{"Amount": "n/a", "Description": "bad amount", "Trans Date": "2023-01-18"},
		{"Amount": null, "Description": "null amount"},
		{"Description": 42, "Trans Date": 20230101},
		{"Amount": true},
		7,
		null
	]`
	txns, err := (&JSONParser{}).Parse(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, txns, 7)

	assert.True(t, txns[0].Amount.Valid)
	assert.Equal(t, "-12", txns[0].Amount.Decimal.String())

	assert.False(t, txns[1].Amount.Valid)
	assert.Equal(t, "bad amount", txns[1].Description)

	assert.False(t, txns[2].Amount.Valid)
	assert.Empty(t, txns[2].TransDate)

	assert.False(t, txns[3].Amount.Valid)
	assert.Equal(t, "42", txns[3].Description)
	assert.Equal(t, "20230101", txns[3].TransDate)

	assert.False(t, txns[4].Amount.Valid)
	assert.False(t, txns[5].IsExpense())
	assert.False(t, txns[6].IsExpense())
}

func TestJSONParser_Empty(t *testing.T) {
	for _, in := range []string{"", "   \n", "null", "[]"} {
		txns, err := (&JSONParser{}).Parse(strings.NewReader(in))
		require.NoError(t, err, "input %q", in)
		assert.Empty(t, txns, "input %q", in)
	}
}

func TestJSONParser_NotAnArray(t *testing.T) {
	_, err := (&JSONParser{}).Parse(strings.NewReader(`{"Amount": -1}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decoding JSON dataset")
}

func TestJSONParser_Format(t *testing.T) {
	assert.Equal(t, "json", (&JSONParser{}).Format())
}
