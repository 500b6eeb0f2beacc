// Package config provides configuration loading and access for the scene.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"image/color"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all scene configuration parameters.
type Config struct {
	Screen     ScreenConfig     `yaml:"screen"`
	Scene      SceneConfig      `yaml:"scene"`
	Transition TransitionConfig `yaml:"transition"`
	Needles    GroupConfig      `yaml:"needles"`
	Ornaments  GroupConfig      `yaml:"ornaments"`
	Star       StarConfig       `yaml:"star"`
	Camera     CameraConfig     `yaml:"camera"`
	Background BackgroundConfig `yaml:"background"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// Vec3Config is a 3D vector in config files.
type Vec3Config struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	Z float64 `yaml:"z"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int    `yaml:"width"`
	Height    int    `yaml:"height"`
	TargetFPS int    `yaml:"target_fps"`
	Title     string `yaml:"title"`
}

// SceneConfig holds the tree and scatter volume dimensions.
type SceneConfig struct {
	ParticleCount int     `yaml:"particle_count"` // Number of needles
	OrnamentCount int     `yaml:"ornament_count"`
	TreeHeight    float64 `yaml:"tree_height"`
	TreeRadius    float64 `yaml:"tree_radius"` // Cone radius at the base
	ScatterRadius float64 `yaml:"scatter_radius"`
	OffsetY       float64 `yaml:"offset_y"` // Render-only vertical offset of the whole scene
}

// TransitionConfig holds the easing parameters shared by all groups.
type TransitionConfig struct {
	BaseSmoothing     float64 `yaml:"base_smoothing"`
	SettleEpsilon     float64 `yaml:"settle_epsilon"`
	FaceAxisThreshold float64 `yaml:"face_axis_threshold"`
	SpinThreshold     float64 `yaml:"spin_threshold"`
	SpinRate          float64 `yaml:"spin_rate"`
}

// SwatchConfig is one weighted palette entry.
type SwatchConfig struct {
	Color  string  `yaml:"color"`
	Weight float64 `yaml:"weight"`
}

// GroupConfig holds generation and animation parameters for a particle group.
type GroupConfig struct {
	Rate float64 `yaml:"rate"` // Easing rate per second

	// Generation
	ScatterMultiplier  float64        `yaml:"scatter_multiplier"`
	RadiusJitterMin    float64        `yaml:"radius_jitter_min"`
	RadiusJitterMax    float64        `yaml:"radius_jitter_max"`
	Spiral             float64        `yaml:"spiral"`       // Azimuth turns per unit height (radians)
	SpiralPhase        float64        `yaml:"spiral_phase"` // Offset so groups interleave
	ScaleMin           float64        `yaml:"scale_min"`
	ScaleMax           float64        `yaml:"scale_max"`
	RandomBaseRotation bool           `yaml:"random_base_rotation"`
	Palette            []SwatchConfig `yaml:"palette"`

	// Idle motion, scaled by (1 - form factor)
	IdleAmpY  float64 `yaml:"idle_amp_y"`
	IdleFreqY float64 `yaml:"idle_freq_y"`
	IdleAmpX  float64 `yaml:"idle_amp_x"`
	IdleFreqX float64 `yaml:"idle_freq_x"`

	Tumble   Vec3Config `yaml:"tumble"`    // Angular rate scaled by (1 - form factor)
	Spin     Vec3Config `yaml:"spin"`      // Constant angular rate
	FaceAxis bool       `yaml:"face_axis"` // Look at the tree axis once formed past the threshold
}

// StarConfig holds the crowning star parameters.
type StarConfig struct {
	Start          Vec3Config `yaml:"start"`
	Scattered      Vec3Config `yaml:"scattered"`
	ApexOffset     float64    `yaml:"apex_offset"` // Height above the cone apex when formed
	InitialScale   float64    `yaml:"initial_scale"`
	ScatteredScale float64    `yaml:"scattered_scale"`
	FormedScale    float64    `yaml:"formed_scale"`
	LerpRate       float64    `yaml:"lerp_rate"`
	SpinRate       float64    `yaml:"spin_rate"`
	WobbleFreq     float64    `yaml:"wobble_freq"`
	WobbleAmp      float64    `yaml:"wobble_amp"`
	FloatSpeed     float64    `yaml:"float_speed"`
	FloatAmp       float64    `yaml:"float_amp"`
	Size           float64    `yaml:"size"`
	Color          string     `yaml:"color"`
}

// CameraConfig holds orbit camera defaults and limits.
type CameraConfig struct {
	Position         Vec3Config `yaml:"position"`
	Fov              float64    `yaml:"fov"`
	MinDistance      float64    `yaml:"min_distance"`
	MaxDistance      float64    `yaml:"max_distance"`
	MinPolar         float64    `yaml:"min_polar"`
	MaxPolar         float64    `yaml:"max_polar"`
	AutoRotateSpeed  float64    `yaml:"auto_rotate_speed"`
	OrbitSensitivity float64    `yaml:"orbit_sensitivity"`
	ZoomStep         float64    `yaml:"zoom_step"`
}

// BackgroundConfig holds the clear color and starfield parameters.
type BackgroundConfig struct {
	Color      string  `yaml:"color"`
	StarCount  int     `yaml:"star_count"`
	StarRadius float64 `yaml:"star_radius"`
	StarDepth  float64 `yaml:"star_depth"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow         float64 `yaml:"stats_window"`
	PerfCollectorWindow int     `yaml:"perf_collector_window"`
	SpreadSample        int     `yaml:"spread_sample"`
}

// Palette is a parsed weighted color palette.
type Palette struct {
	Colors  []color.RGBA
	Weights []float64
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	NeedlePalette   Palette
	OrnamentPalette Palette
	StarColor       color.RGBA
	BackgroundColor color.RGBA
	StarFormedY     float64 // Cone apex plus apex offset
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Defaults returns a fresh copy of the embedded defaults.
func Defaults() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults invalid: %v", err))
	}
	return cfg
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	cfg.computeDerived()

	return cfg, nil
}

// Validate reports configuration that cannot produce a scene.
func (c *Config) Validate() error {
	var errs []error
	s := c.Scene
	if s.ParticleCount < 0 {
		errs = append(errs, fmt.Errorf("scene.particle_count must be >= 0, got %d", s.ParticleCount))
	}
	if s.OrnamentCount < 0 {
		errs = append(errs, fmt.Errorf("scene.ornament_count must be >= 0, got %d", s.OrnamentCount))
	}
	if s.TreeHeight <= 0 {
		errs = append(errs, fmt.Errorf("scene.tree_height must be > 0, got %g", s.TreeHeight))
	}
	if s.TreeRadius <= 0 {
		errs = append(errs, fmt.Errorf("scene.tree_radius must be > 0, got %g", s.TreeRadius))
	}
	if s.ScatterRadius <= 0 {
		errs = append(errs, fmt.Errorf("scene.scatter_radius must be > 0, got %g", s.ScatterRadius))
	}

	t := c.Transition
	if t.BaseSmoothing < 0 || t.BaseSmoothing > 1 {
		errs = append(errs, fmt.Errorf("transition.base_smoothing must be in [0,1], got %g", t.BaseSmoothing))
	}
	if t.SettleEpsilon < 0 {
		errs = append(errs, fmt.Errorf("transition.settle_epsilon must be >= 0, got %g", t.SettleEpsilon))
	}
	if t.SpinRate < 0 {
		errs = append(errs, fmt.Errorf("transition.spin_rate must be >= 0, got %g", t.SpinRate))
	}

	errs = append(errs, c.Needles.validate("needles")...)
	errs = append(errs, c.Ornaments.validate("ornaments")...)

	if c.Star.LerpRate < 0 {
		errs = append(errs, fmt.Errorf("star.lerp_rate must be >= 0, got %g", c.Star.LerpRate))
	}
	if _, err := ParseHexColor(c.Star.Color); err != nil {
		errs = append(errs, fmt.Errorf("star.color: %w", err))
	}
	if _, err := ParseHexColor(c.Background.Color); err != nil {
		errs = append(errs, fmt.Errorf("background.color: %w", err))
	}
	if c.Camera.MinDistance <= 0 || c.Camera.MaxDistance < c.Camera.MinDistance {
		errs = append(errs, fmt.Errorf("camera distance range [%g,%g] is invalid", c.Camera.MinDistance, c.Camera.MaxDistance))
	}

	return errors.Join(errs...)
}

func (g *GroupConfig) validate(name string) []error {
	var errs []error
	if g.Rate < 0 {
		errs = append(errs, fmt.Errorf("%s.rate must be >= 0, got %g", name, g.Rate))
	}
	if g.ScatterMultiplier <= 0 {
		errs = append(errs, fmt.Errorf("%s.scatter_multiplier must be > 0, got %g", name, g.ScatterMultiplier))
	}
	if g.RadiusJitterMin < 0 || g.RadiusJitterMax < g.RadiusJitterMin {
		errs = append(errs, fmt.Errorf("%s radius jitter range [%g,%g] is invalid", name, g.RadiusJitterMin, g.RadiusJitterMax))
	}
	if g.ScaleMin <= 0 || g.ScaleMax < g.ScaleMin {
		errs = append(errs, fmt.Errorf("%s scale range [%g,%g] is invalid", name, g.ScaleMin, g.ScaleMax))
	}
	if len(g.Palette) == 0 {
		errs = append(errs, fmt.Errorf("%s.palette is empty", name))
	}
	var total float64
	for i, sw := range g.Palette {
		if _, err := ParseHexColor(sw.Color); err != nil {
			errs = append(errs, fmt.Errorf("%s.palette[%d]: %w", name, i, err))
		}
		if sw.Weight < 0 {
			errs = append(errs, fmt.Errorf("%s.palette[%d].weight must be >= 0, got %g", name, i, sw.Weight))
		}
		total += sw.Weight
	}
	if len(g.Palette) > 0 && total <= 0 {
		errs = append(errs, fmt.Errorf("%s.palette weights sum to %g", name, total))
	}
	return errs
}

// computeDerived calculates values derived from loaded config.
// Validate must have passed.
func (c *Config) computeDerived() {
	c.Derived.NeedlePalette = c.Needles.palette()
	c.Derived.OrnamentPalette = c.Ornaments.palette()
	c.Derived.StarColor, _ = ParseHexColor(c.Star.Color)
	c.Derived.BackgroundColor, _ = ParseHexColor(c.Background.Color)
	c.Derived.StarFormedY = c.Scene.TreeHeight/2 + c.Star.ApexOffset
}

func (g *GroupConfig) palette() Palette {
	p := Palette{
		Colors:  make([]color.RGBA, len(g.Palette)),
		Weights: make([]float64, len(g.Palette)),
	}
	for i, sw := range g.Palette {
		p.Colors[i], _ = ParseHexColor(sw.Color)
		p.Weights[i] = sw.Weight
	}
	return p
}

// ParseHexColor parses "#RRGGBB" or "#RRGGBBAA" into an opaque-by-default color.
func ParseHexColor(s string) (color.RGBA, error) {
	hex := strings.TrimPrefix(s, "#")
	if len(hex) != 6 && len(hex) != 8 {
		return color.RGBA{}, fmt.Errorf("color %q: want #RRGGBB or #RRGGBBAA", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("color %q: %w", s, err)
	}
	if len(hex) == 6 {
		v = v<<8 | 0xFF
	}
	return color.RGBA{
		R: uint8(v >> 24),
		G: uint8(v >> 16),
		B: uint8(v >> 8),
		A: uint8(v),
	}, nil
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
