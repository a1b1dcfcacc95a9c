package scale

import (
	"fmt"
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Ramp interpolates in RGB between evenly spaced colour stops.
type Ramp struct {
	stops []colorful.Color
}

// NewRamp builds a ramp from hex colour stops such as "#53cf8d".
func NewRamp(hexStops ...string) (Ramp, error) {
	if len(hexStops) == 0 {
		return Ramp{}, fmt.Errorf("ramp needs at least one colour stop")
	}
	stops := make([]colorful.Color, len(hexStops))
	for i, h := range hexStops {
		c, err := colorful.Hex(h)
		if err != nil {
			return Ramp{}, fmt.Errorf("parsing colour stop %q: %w", h, err)
		}
		stops[i] = c
	}
	return Ramp{stops: stops}, nil
}

// At returns the colour at t as lowercase hex. t is clamped to [0, 1]; NaN
// maps to the first stop.
func (r Ramp) At(t float64) string {
	if len(r.stops) == 0 {
		return "#000000"
	}
	if math.IsNaN(t) || t <= 0 {
		return r.stops[0].Hex()
	}
	last := len(r.stops) - 1
	if t >= 1 || last == 0 {
		return r.stops[last].Hex()
	}
	pos := t * float64(last)
	i := int(pos)
	return r.stops[i].BlendRgb(r.stops[i+1], pos-float64(i)).Clamped().Hex()
}
