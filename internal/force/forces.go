package force

import "math"

// Center translates all nodes so their mean position sits at (X, Y).
type Center struct {
	X, Y     float64
	Strength float64
	nodes    []*Node
}

// NewCenter returns a centering force with strength 1.
func NewCenter(x, y float64) *Center {
	return &Center{X: x, Y: y, Strength: 1}
}

func (c *Center) Initialize(nodes []*Node, _ func() float64) { c.nodes = nodes }

func (c *Center) Apply(float64) {
	n := len(c.nodes)
	if n == 0 {
		return
	}
	var sx, sy float64
	for _, node := range c.nodes {
		sx += node.X
		sy += node.Y
	}
	sx = (sx/float64(n) - c.X) * c.Strength
	sy = (sy/float64(n) - c.Y) * c.Strength
	for _, node := range c.nodes {
		node.X -= sx
		node.Y -= sy
	}
}

// ManyBody applies a mutual force between every pair of nodes. A negative
// strength repels, a positive one attracts.
type ManyBody struct {
	Strength     float64
	DistanceMin2 float64
	DistanceMax2 float64
	nodes        []*Node
	random       func() float64
}

// NewManyBody returns a pairwise force with the given strength.
func NewManyBody(strength float64) *ManyBody {
	return &ManyBody{Strength: strength, DistanceMin2: 1, DistanceMax2: math.Inf(1)}
}

func (m *ManyBody) Initialize(nodes []*Node, random func() float64) {
	m.nodes = nodes
	m.random = random
}

func (m *ManyBody) Apply(alpha float64) {
	for _, node := range m.nodes {
		for _, other := range m.nodes {
			if other == node {
				continue
			}
			x := other.X - node.X
			y := other.Y - node.Y
			l := x*x + y*y
			if l >= m.DistanceMax2 {
				continue
			}
			if x == 0 {
				x = jiggle(m.random)
				l += x * x
			}
			if y == 0 {
				y = jiggle(m.random)
				l += y * y
			}
			if l < m.DistanceMin2 {
				l = math.Sqrt(m.DistanceMin2 * l)
			}
			w := m.Strength * alpha / l
			node.VX += x * w
			node.VY += y * w
		}
	}
}

// Collide pushes apart nodes whose circles of Radius overlap, anticipating
// their next positions from current velocities.
type Collide struct {
	Radius     float64
	Strength   float64
	Iterations int
	nodes      []*Node
	random     func() float64
}

// NewCollide returns a collision force for circles of radius r.
func NewCollide(r float64) *Collide {
	return &Collide{Radius: r, Strength: 1, Iterations: 1}
}

func (c *Collide) Initialize(nodes []*Node, random func() float64) {
	c.nodes = nodes
	c.random = random
}

func (c *Collide) Apply(float64) {
	// Every node has the same radius, so overlap is split evenly.
	r := 2 * c.Radius
	const share = 0.5
	for k := 0; k < c.Iterations; k++ {
		for i, node := range c.nodes {
			xi := node.X + node.VX
			yi := node.Y + node.VY
			for _, other := range c.nodes[i+1:] {
				x := xi - other.X - other.VX
				y := yi - other.Y - other.VY
				l := x*x + y*y
				if l >= r*r {
					continue
				}
				if x == 0 {
					x = jiggle(c.random)
					l += x * x
				}
				if y == 0 {
					y = jiggle(c.random)
					l += y * y
				}
				d := math.Sqrt(l)
				f := (r - d) / d * c.Strength
				x *= f
				y *= f
				node.VX += x * share
				node.VY += y * share
				other.VX -= x * (1 - share)
				other.VY -= y * (1 - share)
			}
		}
	}
}

// Position pulls each node towards a per-node target on one axis.
type Position struct {
	Axis     Axis
	Target   func(i int) float64
	Strength float64

	nodes     []*Node
	targets   []float64
	strengths []float64
}

// Axis selects the coordinate a Position force acts on.
type Axis int

const (
	AxisX Axis = iota
	AxisY
)

// NewX pulls nodes horizontally towards target(i) with strength 0.1.
func NewX(target func(i int) float64) *Position {
	return &Position{Axis: AxisX, Target: target, Strength: 0.1}
}

// NewY pulls nodes vertically towards target(i) with strength 0.1.
func NewY(target func(i int) float64) *Position {
	return &Position{Axis: AxisY, Target: target, Strength: 0.1}
}

// Initialize caches targets. A NaN target leaves its node unaffected.
func (p *Position) Initialize(nodes []*Node, _ func() float64) {
	p.nodes = nodes
	p.targets = make([]float64, len(nodes))
	p.strengths = make([]float64, len(nodes))
	for i := range nodes {
		t := p.Target(i)
		if math.IsNaN(t) {
			continue
		}
		p.targets[i] = t
		p.strengths[i] = p.Strength
	}
}

func (p *Position) Apply(alpha float64) {
	for i, node := range p.nodes {
		k := p.strengths[i] * alpha
		if p.Axis == AxisX {
			node.VX += (p.targets[i] - node.X) * k
		} else {
			node.VY += (p.targets[i] - node.Y) * k
		}
	}
}
