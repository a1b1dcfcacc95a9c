// Package scale maps data values onto chart coordinates and colours.
package scale

import "math"

// Band maps the ordinals 0..n-1 onto n equal-width bands spanning [start, stop].
type Band struct {
	n     int
	start float64
	stop  float64
}

// NewBand creates a band scale with n bands over [start, stop].
func NewBand(n int, start, stop float64) Band {
	return Band{n: n, start: start, stop: stop}
}

// Step returns the distance between the starts of adjacent bands.
func (b Band) Step() float64 {
	if b.n <= 0 {
		return 0
	}
	return (b.stop - b.start) / float64(b.n)
}

// Bandwidth returns the width of each band.
func (b Band) Bandwidth() float64 { return b.Step() }

// At returns the start of band i. Ordinals outside the domain map to the
// range start.
func (b Band) At(i int) float64 {
	if i < 0 || i >= b.n {
		return b.start
	}
	return b.start + b.Step()*float64(i)
}

// Range returns the output interval.
func (b Band) Range() (start, stop float64) { return b.start, b.stop }

// Log interpolates in log space from [min, max] onto [0, 1].
//
// A degenerate domain (min == max, including the zero value) maps every
// input to 0.5.
type Log struct {
	min float64
	max float64
}

// NewLog creates a log scale over [lo, hi].
func NewLog(lo, hi float64) Log {
	return Log{min: lo, max: hi}
}

// Domain returns the input interval.
func (l Log) Domain() (lo, hi float64) { return l.min, l.max }

// Degenerate reports whether every input maps to the same output.
func (l Log) Degenerate() bool {
	return l.min == l.max || l.min <= 0 || l.max <= 0
}

// Scale maps x to [0, 1]. Values are not clamped, but non-positive inputs
// return 0 rather than NaN.
func (l Log) Scale(x float64) float64 {
	if l.Degenerate() {
		return 0.5
	}
	if x <= 0 || math.IsNaN(x) {
		return 0
	}
	lo, hi := math.Log(l.min), math.Log(l.max)
	return (math.Log(x) - lo) / (hi - lo)
}
