// Package components defines ECS components for the scene.
package components

import (
	"image/color"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/evergreen/config"
)

// TreeState is the single external input driving the scene.
type TreeState uint8

const (
	Scattered TreeState = iota // Dispersed cloud
	Formed                     // Assembled tree
)

// String returns the display name for a TreeState.
func (s TreeState) String() string {
	if s == Formed {
		return "formed"
	}
	return "scattered"
}

// Toggle returns the opposite state.
func (s TreeState) Toggle() TreeState {
	if s == Formed {
		return Scattered
	}
	return Formed
}

// Target returns the form factor the state eases toward.
func (s TreeState) Target() float64 {
	if s == Formed {
		return 1
	}
	return 0
}

// GroupKind identifies a particle population.
type GroupKind uint8

const (
	Needles GroupKind = iota
	Ornaments
	NumGroups
)

// String returns the display name for a GroupKind.
func (k GroupKind) String() string {
	switch k {
	case Needles:
		return "needles"
	case Ornaments:
		return "ornaments"
	}
	return "unknown"
}

// GroupConfig returns the configuration section for the kind.
func (k GroupKind) GroupConfig(cfg *config.Config) *config.GroupConfig {
	if k == Ornaments {
		return &cfg.Ornaments
	}
	return &cfg.Needles
}

// Palette returns the parsed palette for the kind.
func (k GroupKind) Palette(cfg *config.Config) config.Palette {
	if k == Ornaments {
		return cfg.Derived.OrnamentPalette
	}
	return cfg.Derived.NeedlePalette
}

// Particle is the immutable per-instance data produced once by the generator.
type Particle struct {
	ScatterPosition r3.Vec
	TreePosition    r3.Vec
	BaseRotation    r3.Vec // Euler XYZ
	Scale           float64
	Color           color.RGBA
}

// Group identifies a particle group entity and carries its parameters.
type Group struct {
	Kind   GroupKind
	Params config.GroupConfig
}

// Form is the per-group animation state.
type Form struct {
	Factor        float64 // 0 = scattered, 1 = tree
	Target        float64
	Rate          float64
	BaseSmoothing float64
	SettleEpsilon float64
}

// Settled reports whether the factor sits exactly on its target.
func (f *Form) Settled() bool {
	return f.Factor == f.Target
}

// Geometry holds the generated particles of a group. Read-only after creation.
type Geometry struct {
	Particles []Particle
}

// Spin is the slow whole-group rotation around the vertical axis.
type Spin struct {
	Angle     float64
	Rate      float64 // rad/s
	Threshold float64 // form factor above which the angle accumulates
}

// Star holds the crowning star's lerp state.
type Star struct {
	Position r3.Vec
	Scale    float64
	SpinY    float64
	WobbleZ  float64
	Bob      float64 // Vertical float offset applied to output only
}
