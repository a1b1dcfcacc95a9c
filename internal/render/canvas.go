package render

import (
	"bufio"
	"encoding/xml"
	"fmt"
	"html"
	"io"
	"math"
	"strconv"
	"sync"
)

// Circle is one chart element on the canvas.
type Circle struct {
	Key         string
	Title       string
	X, Y        float64
	Positioned  bool // false until the layout writes coordinates
	Radius      float64
	Fill        string
	Stroke      string
	FillOpacity float64
	StrokeWidth float64
}

// Canvas is a keyed collection of circles that serialises to SVG. It is
// safe for concurrent use.
type Canvas struct {
	width   float64
	height  float64
	mu      sync.RWMutex
	order   []string
	circles map[string]*Circle
}

// NewCanvas creates an empty canvas.
func NewCanvas(width, height float64) *Canvas {
	return &Canvas{
		width:   width,
		height:  height,
		circles: make(map[string]*Circle),
	}
}

// Size returns the canvas dimensions.
func (c *Canvas) Size() (width, height float64) { return c.width, c.height }

// Enter adds circle under circle.Key. It reports false if the key is taken.
func (c *Canvas) Enter(circle Circle) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.circles[circle.Key]; ok {
		return false
	}
	c.circles[circle.Key] = &circle
	c.order = append(c.order, circle.Key)
	return true
}

// Remove deletes the circle under key.
func (c *Canvas) Remove(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.circles[key]; !ok {
		return false
	}
	delete(c.circles, key)
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	return true
}

// Get returns a copy of the circle under key.
func (c *Canvas) Get(key string) (Circle, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	circle, ok := c.circles[key]
	if !ok {
		return Circle{}, false
	}
	return *circle, true
}

// Keys returns circle keys in insertion order.
func (c *Canvas) Keys() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	keys := make([]string, len(c.order))
	copy(keys, c.order)
	return keys
}

// Len returns the number of circles.
func (c *Canvas) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.circles)
}

// Paint sets fill and stroke colour of the circle under key.
func (c *Canvas) Paint(key, fill, stroke string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if circle, ok := c.circles[key]; ok {
		circle.Fill = fill
		circle.Stroke = stroke
	}
}

// SetTitle sets the tooltip text of the circle under key.
func (c *Canvas) SetTitle(key, title string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if circle, ok := c.circles[key]; ok {
		circle.Title = title
	}
}

// Move sets the centre of the circle under key.
func (c *Canvas) Move(key string, x, y float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if circle, ok := c.circles[key]; ok {
		circle.X, circle.Y = x, y
		circle.Positioned = true
	}
}

// Snapshot copies all circles in insertion order.
func (c *Canvas) Snapshot() []Circle {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Circle, 0, len(c.order))
	for _, k := range c.order {
		out = append(out, *c.circles[k])
	}
	return out
}

// WriteSVG writes the canvas as a standalone SVG document. Circles that
// have not been positioned are written without cx/cy.
func (c *Canvas) WriteSVG(w io.Writer) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, `<svg xmlns="http://www.w3.org/2000/svg" width="%s" height="%s" viewBox="0 0 %s %s">`+"\n",
		num(c.width), num(c.height), num(c.width), num(c.height))
	for _, circle := range c.Snapshot() {
		bw.WriteString("  <circle")
		if circle.Positioned {
			fmt.Fprintf(bw, ` cx="%s" cy="%s"`, num(circle.X), num(circle.Y))
		}
		fmt.Fprintf(bw, ` r="%s" fill="%s" stroke="%s" fill-opacity="%s" stroke-width="%s"`,
			num(circle.Radius), html.EscapeString(circle.Fill), html.EscapeString(circle.Stroke), num(circle.FillOpacity), num(circle.StrokeWidth))
		if circle.Title == "" {
			bw.WriteString("/>\n")
			continue
		}
		bw.WriteString("><title>")
		if err := xml.EscapeText(bw, []byte(circle.Title)); err != nil {
			return fmt.Errorf("escaping title of %s: %w", circle.Key, err)
		}
		bw.WriteString("</title></circle>\n")
	}
	bw.WriteString("</svg>\n")
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("writing svg: %w", err)
	}
	return nil
}

// num formats a coordinate with at most two decimals.
func num(f float64) string {
	return strconv.FormatFloat(math.Round(f*100)/100, 'f', -1, 64)
}
