// Package render reconciles expense records with canvas circles and lays
// them out with a force simulation.
package render

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cleared-dev/spendbubbles/internal/force"
	"github.com/cleared-dev/spendbubbles/internal/model"
	"github.com/cleared-dev/spendbubbles/internal/scale"
)

// Style fixes the look of every circle.
type Style struct {
	Radius      float64
	FillOpacity float64
	StrokeWidth float64
	Colors      []string // ramp stops from smallest to largest amount
}

// DefaultStyle returns radius 5 circles on a green → amber → red ramp.
func DefaultStyle() Style {
	return Style{
		Radius:      5,
		FillOpacity: 0.25,
		StrokeWidth: 2,
		Colors:      []string{"#53cf8d", "#f7d283", "#c85151"},
	}
}

// Physics configures the layout simulation.
type Physics struct {
	Strength      float64 // many-body strength; negative repels
	Alpha         float64 // initial energy
	AlphaMin      float64
	AlphaDecay    float64 // per-tick cooling rate; zero keeps the ~300 tick schedule
	VelocityDecay float64
	// UseFocusPositioning pulls circles towards their weekday/week anchors.
	UseFocusPositioning bool
	// TickInterval paces ticks; zero runs to quiescence as fast as possible.
	TickInterval time.Duration
}

// DefaultPhysics returns the bubble chart simulation settings.
func DefaultPhysics() Physics {
	return Physics{
		Strength:      -1,
		Alpha:         0.9,
		AlphaMin:      force.DefaultAlphaMin,
		AlphaDecay:    force.DefaultAlphaDecay,
		VelocityDecay: force.DefaultVelocityDecay,
	}
}

var (
	// ErrEmptyKey is returned by Render for an expense without an ID.
	ErrEmptyKey = errors.New("expense has no key")
	// ErrDuplicateKey is returned by Render when two expenses share an ID.
	ErrDuplicateKey = errors.New("duplicate expense key")
)

// TickFunc observes the canvas after each simulation step.
type TickFunc func(tick int, canvas *Canvas)

// Renderer owns a canvas and the layout currently animating it.
type Renderer struct {
	canvas  *Canvas
	style   Style
	physics Physics
	ramp    scale.Ramp
	logger  *slog.Logger

	mu      sync.Mutex
	current *Layout
	hooks   []TickFunc
}

// NewRenderer creates a Renderer drawing onto canvas.
func NewRenderer(canvas *Canvas, style Style, physics Physics, logger *slog.Logger) (*Renderer, error) {
	ramp, err := scale.NewRamp(style.Colors...)
	if err != nil {
		return nil, fmt.Errorf("building colour ramp: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Renderer{
		canvas:  canvas,
		style:   style,
		physics: physics,
		ramp:    ramp,
		logger:  logger,
	}, nil
}

// Canvas returns the output sink.
func (r *Renderer) Canvas() *Canvas { return r.canvas }

// OnTick registers fn to run after every tick of subsequent layouts.
func (r *Renderer) OnTick(fn TickFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.hooks = append(r.hooks, fn)
}

// Color returns the fill for an amount under the given amount scale.
func (r *Renderer) Color(amounts scale.Log, amount float64) string {
	return r.ramp.At(amounts.Scale(amount))
}

// Render stops any in-flight layout, reconciles the canvas with expenses
// (exit, enter, update) and starts a new layout over them. The returned
// Layout runs until it settles, is stopped, or ctx is cancelled.
//
// Every expense needs a non-empty ID unique within expenses; otherwise Render
// returns an error and leaves the canvas and any running layout untouched.
func (r *Renderer) Render(ctx context.Context, expenses []model.Expense, amounts scale.Log) (*Layout, error) {
	if err := checkKeys(expenses); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.current != nil {
		r.current.Stop()
		_ = r.current.Wait()
		r.current = nil
	}

	keys := r.reconcile(expenses, amounts)
	nodes := make([]*force.Node, len(keys))
	for i, k := range keys {
		n := force.NewNode()
		if c, ok := r.canvas.Get(k); ok && c.Positioned {
			n.X, n.Y = c.X, c.Y
		}
		nodes[i] = n
	}

	sim := r.simulation(nodes, expenses)
	hooks := append([]TickFunc(nil), r.hooks...)

	ctx, cancel := context.WithCancel(ctx)
	layout := &Layout{
		cancel: cancel,
		done:   make(chan struct{}),
		forces: sim.ForceNames(),
	}
	r.current = layout

	go func() {
		defer close(layout.done)
		err := sim.Run(ctx, r.physics.TickInterval, func(tick int) {
			for i, n := range nodes {
				r.canvas.Move(keys[i], n.X, n.Y)
			}
			layout.ticks.Store(int64(tick))
			for _, fn := range hooks {
				fn(tick, r.canvas)
			}
		})
		layout.err = err
		if err != nil && !errors.Is(err, context.Canceled) {
			r.logger.Warn("layout interrupted", "error", err, "ticks", layout.Ticks())
			return
		}
		r.logger.Debug("layout finished", "ticks", layout.Ticks(), "nodes", len(nodes), "settled", err == nil)
	}()

	return layout, nil
}

// checkKeys rejects expense sets that cannot map one-to-one onto circles.
func checkKeys(expenses []model.Expense) error {
	seen := make(map[string]int, len(expenses))
	for i, e := range expenses {
		if e.ID == "" {
			return fmt.Errorf("expense %d (%q): %w", i, e.Description, ErrEmptyKey)
		}
		if j, ok := seen[e.ID]; ok {
			return fmt.Errorf("expenses %d and %d share key %q: %w", j, i, e.ID, ErrDuplicateKey)
		}
		seen[e.ID] = i
	}
	return nil
}

// Stop cancels the in-flight layout, if any, and waits for it to exit.
func (r *Renderer) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.current != nil {
		r.current.Stop()
		_ = r.current.Wait()
		r.current = nil
	}
}

// reconcile makes the canvas hold exactly one circle per expense and returns
// the expense keys in order.
func (r *Renderer) reconcile(expenses []model.Expense, amounts scale.Log) []string {
	keys := make([]string, len(expenses))
	want := make(map[string]bool, len(expenses))
	for i, e := range expenses {
		keys[i] = e.ID
		want[e.ID] = true
	}

	var exited, entered int
	for _, k := range r.canvas.Keys() {
		if !want[k] {
			r.canvas.Remove(k)
			exited++
		}
	}

	for _, e := range expenses {
		if r.canvas.Enter(Circle{
			Key:         e.ID,
			Radius:      r.style.Radius,
			FillOpacity: r.style.FillOpacity,
			StrokeWidth: r.style.StrokeWidth,
		}) {
			entered++
		}
		color := r.Color(amounts, e.AmountFloat())
		r.canvas.Paint(e.ID, color, color)
		r.canvas.SetTitle(e.ID, e.Description)
	}

	r.logger.Debug("reconciled canvas", "exit", exited, "enter", entered, "update", len(expenses)-entered)
	return keys
}

func (r *Renderer) simulation(nodes []*force.Node, expenses []model.Expense) *force.Simulation {
	width, height := r.canvas.Size()
	sim := force.New(nodes).
		Force("center", force.NewCenter(width/2, height/2)).
		Force("charge", force.NewManyBody(r.physics.Strength)).
		Force("collide", force.NewCollide(r.style.Radius))

	if r.physics.UseFocusPositioning {
		sim.Force("x", force.NewX(func(i int) float64 { return expenses[i].FocusX })).
			Force("y", force.NewY(func(i int) float64 { return expenses[i].FocusY }))
	}

	if r.physics.AlphaMin > 0 {
		sim.SetAlphaMin(r.physics.AlphaMin)
	}
	if r.physics.AlphaDecay > 0 {
		sim.SetAlphaDecay(r.physics.AlphaDecay)
	}
	if r.physics.VelocityDecay > 0 {
		sim.SetVelocityDecay(r.physics.VelocityDecay)
	}
	return sim.SetAlpha(r.physics.Alpha)
}

// Layout is a handle on one running simulation.
type Layout struct {
	cancel context.CancelFunc
	done   chan struct{}
	ticks  atomic.Int64
	forces []string
	err    error
}

// Stop cancels the layout. It does not wait for the tick loop to exit.
func (l *Layout) Stop() { l.cancel() }

// Wait blocks until the layout settles or is cancelled. It returns nil once
// the simulation has cooled, or the context error that stopped it.
func (l *Layout) Wait() error {
	<-l.done
	return l.err
}

// Done is closed when the tick loop exits.
func (l *Layout) Done() <-chan struct{} { return l.done }

// Ticks returns the number of completed ticks.
func (l *Layout) Ticks() int { return int(l.ticks.Load()) }

// Forces lists the forces acting in this layout.
func (l *Layout) Forces() []string { return l.forces }
