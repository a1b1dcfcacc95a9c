package transform

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseDate_Layouts(t *testing.T) {
	want := time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC)
	inputs := []string{
		"2023-01-02",
		"01/02/2023",
		"1/2/2023",
		"2023/01/02",
		"Jan 2, 2023",
		"January 2, 2023",
		"2 Jan 2023",
		" 2023-01-02 ",
	}
	for _, in := range inputs {
		got, ok := ParseDate(in, time.UTC)
		assert.True(t, ok, "input %q", in)
		assert.True(t, want.Equal(got), "input %q: got %s", in, got)
	}
}

func TestParseDate_WithTime(t *testing.T) {
	got, ok := ParseDate("2023-01-02T15:04:05Z", time.UTC)
	assert.True(t, ok)
	assert.Equal(t, 15, got.Hour())

	got, ok = ParseDate("2023-01-02 08:30:00", time.UTC)
	assert.True(t, ok)
	assert.Equal(t, 8, got.Hour())
}

func TestParseDate_Malformed(t *testing.T) {
	for _, in := range []string{"", "   ", "yesterday", "2023-13-45", "02-01-2023x"} {
		got, ok := ParseDate(in, time.UTC)
		assert.False(t, ok, "input %q", in)
		assert.True(t, got.IsZero(), "input %q", in)
	}
}

func TestParseDate_Location(t *testing.T) {
	loc := time.FixedZone("UTC-8", -8*60*60)
	got, ok := ParseDate("2023-01-02", loc)
	assert.True(t, ok)
	assert.Equal(t, time.Monday, got.Weekday())
	assert.Equal(t, loc, got.Location())
}

func TestWeekStart(t *testing.T) {
	wed := time.Date(2023, 1, 4, 13, 30, 0, 0, time.UTC)

	assert.True(t, WeekStart(wed, time.Sunday).Equal(time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)))
	assert.True(t, WeekStart(wed, time.Monday).Equal(time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC)))

	sun := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	assert.True(t, WeekStart(sun, time.Sunday).Equal(sun))
	assert.True(t, WeekStart(sun, time.Monday).Equal(time.Date(2022, 12, 26, 0, 0, 0, 0, time.UTC)))
}

func TestParseWeekday(t *testing.T) {
	tests := []struct {
		in   string
		want time.Weekday
		ok   bool
	}{
		{"sunday", time.Sunday, true},
		{"Monday", time.Monday, true},
		{"sat", time.Saturday, true},
		{"THU", time.Thursday, true},
		{"", time.Sunday, false},
		{"mo", time.Sunday, false},
		{"funday", time.Sunday, false},
	}
	for _, tt := range tests {
		got, ok := ParseWeekday(tt.in)
		assert.Equal(t, tt.ok, ok, "input %q", tt.in)
		assert.Equal(t, tt.want, got, "input %q", tt.in)
	}
}
