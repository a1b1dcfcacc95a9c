// Package force is an iterative force-directed layout solver.
//
// Each tick cools the simulation's alpha towards its target, lets every
// registered force adjust node velocities, then moves nodes by their damped
// velocities. The solver stops once alpha falls below alphaMin.
package force

import (
	"context"
	"math"
	"time"
)

const (
	DefaultAlphaMin      = 0.001
	DefaultVelocityDecay = 0.6
	initialRadius        = 10.0
)

// DefaultAlphaDecay cools alpha from 1 to alphaMin in about 300 ticks.
var DefaultAlphaDecay = 1 - math.Pow(DefaultAlphaMin, 1.0/300)

var initialAngle = math.Pi * (3 - math.Sqrt(5))

// Node is a simulated particle. A NaN X or Y marks an unplaced node.
type Node struct {
	Index  int
	X, Y   float64
	VX, VY float64
}

// NewNode returns an unplaced node.
func NewNode() *Node {
	return &Node{X: math.NaN(), Y: math.NaN()}
}

// Force adjusts node velocities (or positions) once per tick.
type Force interface {
	Initialize(nodes []*Node, random func() float64)
	Apply(alpha float64)
}

type namedForce struct {
	name  string
	force Force
}

// Simulation holds nodes, forces and the cooling schedule.
type Simulation struct {
	nodes         []*Node
	forces        []namedForce
	alpha         float64
	alphaMin      float64
	alphaDecay    float64
	velocityDecay float64
	random        *lcg
	ticks         int
}

// New creates a simulation over nodes with alpha 1 and default decay.
// Unplaced nodes are arranged on a phyllotaxis spiral.
func New(nodes []*Node) *Simulation {
	s := &Simulation{
		alpha:         1,
		alphaMin:      DefaultAlphaMin,
		alphaDecay:    DefaultAlphaDecay,
		velocityDecay: DefaultVelocityDecay,
		random:        newLCG(),
	}
	s.SetNodes(nodes)
	return s
}

// SetNodes replaces the node set and re-initializes every force.
func (s *Simulation) SetNodes(nodes []*Node) *Simulation {
	s.nodes = nodes
	s.placeNodes()
	for _, f := range s.forces {
		f.force.Initialize(s.nodes, s.random.next)
	}
	return s
}

// Nodes returns the simulated nodes.
func (s *Simulation) Nodes() []*Node { return s.nodes }

// Force registers f under name, replacing any force with the same name.
// A nil f removes the force.
func (s *Simulation) Force(name string, f Force) *Simulation {
	for i, nf := range s.forces {
		if nf.name != name {
			continue
		}
		if f == nil {
			s.forces = append(s.forces[:i], s.forces[i+1:]...)
			return s
		}
		s.forces[i].force = f
		f.Initialize(s.nodes, s.random.next)
		return s
	}
	if f != nil {
		s.forces = append(s.forces, namedForce{name: name, force: f})
		f.Initialize(s.nodes, s.random.next)
	}
	return s
}

// ForceNames lists registered forces in application order.
func (s *Simulation) ForceNames() []string {
	names := make([]string, len(s.forces))
	for i, nf := range s.forces {
		names[i] = nf.name
	}
	return names
}

// Alpha returns the current energy.
func (s *Simulation) Alpha() float64 { return s.alpha }

// SetAlpha sets the current energy.
func (s *Simulation) SetAlpha(alpha float64) *Simulation {
	s.alpha = alpha
	return s
}

// SetAlphaMin sets the energy below which the simulation stops.
func (s *Simulation) SetAlphaMin(v float64) *Simulation {
	s.alphaMin = v
	return s
}

// SetAlphaDecay sets the per-tick cooling rate.
func (s *Simulation) SetAlphaDecay(v float64) *Simulation {
	s.alphaDecay = v
	return s
}

// SetVelocityDecay sets the factor velocities are multiplied by every tick.
func (s *Simulation) SetVelocityDecay(v float64) *Simulation {
	s.velocityDecay = v
	return s
}

// Ticks returns how many ticks have run.
func (s *Simulation) Ticks() int { return s.ticks }

// Settled reports whether alpha has dropped below alphaMin.
func (s *Simulation) Settled() bool { return s.alpha < s.alphaMin }

// Tick advances the simulation by one step.
func (s *Simulation) Tick() {
	s.alpha -= s.alpha * s.alphaDecay
	for _, f := range s.forces {
		f.force.Apply(s.alpha)
	}
	for _, n := range s.nodes {
		n.VX *= s.velocityDecay
		n.VY *= s.velocityDecay
		n.X += n.VX
		n.Y += n.VY
	}
	s.ticks++
}

// Run ticks until the simulation settles or ctx is cancelled, calling
// onTick after every step. A positive interval paces ticks like animation
// frames; zero runs them back to back. A simulation without nodes returns
// immediately.
func (s *Simulation) Run(ctx context.Context, interval time.Duration, onTick func(tick int)) error {
	if len(s.nodes) == 0 {
		return ctx.Err()
	}

	var frames <-chan time.Time
	if interval > 0 {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		frames = ticker.C
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		s.Tick()
		if onTick != nil {
			onTick(s.ticks)
		}
		if s.Settled() {
			return nil
		}
		if frames == nil {
			continue
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-frames:
		}
	}
}

func (s *Simulation) placeNodes() {
	for i, n := range s.nodes {
		n.Index = i
		if math.IsNaN(n.X) || math.IsNaN(n.Y) {
			radius := initialRadius * math.Sqrt(0.5+float64(i))
			angle := float64(i) * initialAngle
			n.X = radius * math.Cos(angle)
			n.Y = radius * math.Sin(angle)
		}
		if math.IsNaN(n.VX) || math.IsNaN(n.VY) {
			n.VX, n.VY = 0, 0
		}
	}
}

// lcg is a deterministic linear congruential generator so layouts are
// reproducible run to run.
type lcg struct {
	state uint64
}

const (
	lcgA = 1664525
	lcgC = 1013904223
	lcgM = 4294967296
)

func newLCG() *lcg { return &lcg{state: 1} }

func (r *lcg) next() float64 {
	r.state = (lcgA*r.state + lcgC) % lcgM
	return float64(r.state) / lcgM
}

func jiggle(random func() float64) float64 {
	return (random() - 0.5) * 1e-6
}
