package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/cleared-dev/spendbubbles/internal/render"
	"github.com/cleared-dev/spendbubbles/internal/transform"
)

// FileName is the conventional config file name.
const FileName = "spendbubbles.yaml"

// Config represents the top-level spendbubbles.yaml configuration.
type Config struct {
	Canvas     CanvasConfig     `yaml:"canvas"`
	Style      StyleConfig      `yaml:"style"`
	Layout     LayoutConfig     `yaml:"layout"`
	Simulation SimulationConfig `yaml:"simulation"`
}

// CanvasConfig sizes the output.
type CanvasConfig struct {
	Width  float64      `yaml:"width"`
	Height float64      `yaml:"height"`
	Margin MarginConfig `yaml:"margin"`
}

// MarginConfig keeps weekday bands off the canvas edges.
type MarginConfig struct {
	Left   float64 `yaml:"left"`
	Right  float64 `yaml:"right"`
	Top    float64 `yaml:"top"`
	Bottom float64 `yaml:"bottom"`
}

// StyleConfig controls how every circle is drawn.
type StyleConfig struct {
	Radius      float64  `yaml:"radius"`
	FillOpacity float64  `yaml:"fill_opacity"`
	StrokeWidth float64  `yaml:"stroke_width"`
	Colors      []string `yaml:"colors"` // smallest → largest amount
}

// LayoutConfig controls week bucketing and anchors.
type LayoutConfig struct {
	RowSpacing float64 `yaml:"row_spacing"`
	WeekStart  string  `yaml:"week_start"` // e.g. "sunday", "monday"
	Timezone   string  `yaml:"timezone"`   // IANA name; empty = local
}

// SimulationConfig tunes the force layout.
type SimulationConfig struct {
	Strength            float64       `yaml:"strength"`
	Alpha               float64       `yaml:"alpha"`
	AlphaMin            float64       `yaml:"alpha_min"`
	AlphaDecay          float64       `yaml:"alpha_decay"`
	VelocityDecay       float64       `yaml:"velocity_decay"`
	UseFocusPositioning bool          `yaml:"use_focus_positioning"`
	TickInterval        time.Duration `yaml:"tick_interval"`
}

// Load reads a spendbubbles.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

// LoadOrDefault reads path if it exists and falls back to Default otherwise.
// An empty path always returns Default.
func LoadOrDefault(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}
	cfg, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns the stock 450×450 bubble chart settings.
func Default() *Config {
	style := render.DefaultStyle()
	physics := render.DefaultPhysics()
	return &Config{
		Canvas: CanvasConfig{
			Width:  450,
			Height: 450,
			Margin: MarginConfig{Left: 20, Right: 20, Top: 20, Bottom: 20},
		},
		Style: StyleConfig{
			Radius:      style.Radius,
			FillOpacity: style.FillOpacity,
			StrokeWidth: style.StrokeWidth,
			Colors:      style.Colors,
		},
		Layout: LayoutConfig{
			RowSpacing: 100,
			WeekStart:  "sunday",
		},
		Simulation: SimulationConfig{
			Strength:      physics.Strength,
			Alpha:         physics.Alpha,
			AlphaMin:      physics.AlphaMin,
			AlphaDecay:    physics.AlphaDecay,
			VelocityDecay: physics.VelocityDecay,
		},
	}
}

// Validate checks the settings that would make a chart meaningless.
func (c *Config) Validate() error {
	var errs []error
	if c.Canvas.Width <= 0 || c.Canvas.Height <= 0 {
		errs = append(errs, fmt.Errorf("canvas size must be positive, got %gx%g", c.Canvas.Width, c.Canvas.Height))
	}
	if c.Canvas.Margin.Left+c.Canvas.Margin.Right >= c.Canvas.Width {
		errs = append(errs, fmt.Errorf("horizontal margins %g+%g leave no room on a %g wide canvas",
			c.Canvas.Margin.Left, c.Canvas.Margin.Right, c.Canvas.Width))
	}
	if c.Style.Radius <= 0 {
		errs = append(errs, fmt.Errorf("radius must be positive, got %g", c.Style.Radius))
	}
	if len(c.Style.Colors) == 0 {
		errs = append(errs, errors.New("at least one colour is required"))
	}
	if _, ok := transform.ParseWeekday(c.Layout.WeekStart); !ok {
		errs = append(errs, fmt.Errorf("unknown week_start %q", c.Layout.WeekStart))
	}
	if c.Layout.Timezone != "" {
		if _, err := time.LoadLocation(c.Layout.Timezone); err != nil {
			errs = append(errs, fmt.Errorf("timezone: %w", err))
		}
	}
	if c.Simulation.Alpha <= 0 {
		errs = append(errs, fmt.Errorf("simulation alpha must be positive, got %g", c.Simulation.Alpha))
	}
	if c.Simulation.AlphaDecay < 0 || c.Simulation.AlphaDecay >= 1 {
		errs = append(errs, fmt.Errorf("alpha_decay must be in [0, 1), got %g", c.Simulation.AlphaDecay))
	}
	if c.Simulation.TickInterval < 0 {
		errs = append(errs, fmt.Errorf("tick_interval must not be negative, got %s", c.Simulation.TickInterval))
	}
	return errors.Join(errs...)
}

// TransformOptions converts the layout settings for the transform stage.
func (c *Config) TransformOptions() (transform.Options, error) {
	weekStart, ok := transform.ParseWeekday(c.Layout.WeekStart)
	if !ok {
		return transform.Options{}, fmt.Errorf("unknown week_start %q", c.Layout.WeekStart)
	}
	loc := time.Local
	if c.Layout.Timezone != "" {
		var err error
		loc, err = time.LoadLocation(c.Layout.Timezone)
		if err != nil {
			return transform.Options{}, fmt.Errorf("loading timezone: %w", err)
		}
	}
	return transform.Options{
		Width: c.Canvas.Width,
		Margin: transform.Margin{
			Left:   c.Canvas.Margin.Left,
			Right:  c.Canvas.Margin.Right,
			Top:    c.Canvas.Margin.Top,
			Bottom: c.Canvas.Margin.Bottom,
		},
		RowSpacing: c.Layout.RowSpacing,
		WeekStart:  weekStart,
		Location:   loc,
	}, nil
}

// RenderStyle converts the style settings for the renderer.
func (c *Config) RenderStyle() render.Style {
	return render.Style{
		Radius:      c.Style.Radius,
		FillOpacity: c.Style.FillOpacity,
		StrokeWidth: c.Style.StrokeWidth,
		Colors:      c.Style.Colors,
	}
}

// Physics converts the simulation settings for the renderer.
func (c *Config) Physics() render.Physics {
	return render.Physics{
		Strength:            c.Simulation.Strength,
		Alpha:               c.Simulation.Alpha,
		AlphaMin:            c.Simulation.AlphaMin,
		AlphaDecay:          c.Simulation.AlphaDecay,
		VelocityDecay:       c.Simulation.VelocityDecay,
		UseFocusPositioning: c.Simulation.UseFocusPositioning,
		TickInterval:        c.Simulation.TickInterval,
	}
}
