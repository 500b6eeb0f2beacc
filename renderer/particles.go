package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/evergreen/components"
)

// Needle capsule dimensions in local units, before instance scale.
const (
	needleRadius     = 0.05
	needleHalfLength = 0.2
)

// instanceCache holds world-space draw data for one batch.
// It is rebuilt only when the batch was written, re-colored or re-framed.
type instanceCache struct {
	starts []rl.Vector3
	ends   []rl.Vector3 // capsules only
	radii  []float32
	colors []rl.Color

	frame        float64
	colorVersion uint64
	valid        bool
}

// stale consumes the batch's dirty flag and reports whether the cache
// must be rebuilt.
func (c *instanceCache) stale(b *components.Batch) bool {
	dirty := b.Consume()
	if c.valid && !dirty && b.Frame == c.frame && b.ColorVersion == c.colorVersion && len(c.starts) == b.Len() {
		return false
	}
	c.frame = b.Frame
	c.colorVersion = b.ColorVersion
	c.valid = true
	return true
}

func (c *instanceCache) resize(n int, capsules bool) {
	c.starts = resizeVec(c.starts, n)
	if capsules {
		c.ends = resizeVec(c.ends, n)
	}
	if cap(c.radii) < n {
		c.radii = make([]float32, n)
		c.colors = make([]rl.Color, n)
	}
	c.radii = c.radii[:n]
	c.colors = c.colors[:n]
}

// syncNeedles rebuilds capsule endpoints from the needle batch.
func (c *instanceCache) syncNeedles(b *components.Batch, offsetY float64) {
	if !c.stale(b) {
		return
	}
	c.resize(b.Len(), true)
	for i := range c.starts {
		w := b.World(i)
		c.starts[i] = toVec(w.Apply(r3.Vec{Y: -needleHalfLength}), offsetY)
		c.ends[i] = toVec(w.Apply(r3.Vec{Y: needleHalfLength}), offsetY)
		c.radii[i] = float32(needleRadius * w.Scale)
		c.colors[i] = toColor(b.Colors[i])
	}
}

// syncSpheres rebuilds sphere centers from an ornament batch.
func (c *instanceCache) syncSpheres(b *components.Batch, offsetY float64) {
	if !c.stale(b) {
		return
	}
	c.resize(b.Len(), false)
	for i := range c.starts {
		w := b.World(i)
		c.starts[i] = toVec(w.Position, offsetY)
		c.radii[i] = float32(w.Scale)
		c.colors[i] = toColor(b.Colors[i])
	}
}

func (c *instanceCache) drawCapsules() {
	for i := range c.starts {
		rl.DrawCapsule(c.starts[i], c.ends[i], c.radii[i], 4, 1, c.colors[i])
	}
}

func (c *instanceCache) drawSpheres() {
	for i := range c.starts {
		rl.DrawSphereEx(c.starts[i], c.radii[i], 8, 10, c.colors[i])
	}
}

func resizeVec(s []rl.Vector3, n int) []rl.Vector3 {
	if cap(s) < n {
		return make([]rl.Vector3, n)
	}
	return s[:n]
}

func toVec(v r3.Vec, offsetY float64) rl.Vector3 {
	return rl.Vector3{X: float32(v.X), Y: float32(v.Y + offsetY), Z: float32(v.Z)}
}
