package systems

import (
	"fmt"
	"image/color"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/evergreen/components"
	"github.com/pthm-cable/evergreen/config"
)

// Generate produces count particles for a group. The only source of
// randomness is rng, so a fixed seed reproduces the same set.
//
// Called once per group when the scene is built. Regenerating would reshuffle
// particle identity mid-animation.
func Generate(count int, kind components.GroupKind, cfg *config.Config, rng *rand.Rand) []components.Particle {
	if count < 0 {
		panic(fmt.Sprintf("systems: negative particle count %d for %s", count, kind))
	}

	gc := kind.GroupConfig(cfg)
	palette := kind.Palette(cfg)
	scatterRadius := cfg.Scene.ScatterRadius * gc.ScatterMultiplier

	particles := make([]components.Particle, count)
	for i := range particles {
		p := &particles[i]
		p.ScatterPosition = sampleSphere(rng, scatterRadius)
		p.TreePosition = sampleCone(rng, cfg.Scene.TreeHeight, cfg.Scene.TreeRadius, gc)
		if gc.RandomBaseRotation {
			p.BaseRotation = r3.Vec{
				X: (rng.Float64() - 0.5) * 0.5,
				Y: rng.Float64() * 2 * math.Pi,
				Z: (rng.Float64() - 0.5) * 0.5,
			}
		}
		p.Scale = gc.ScaleMin + rng.Float64()*(gc.ScaleMax-gc.ScaleMin)
		p.Color = pickColor(rng, palette)
	}
	return particles
}

// sampleSphere returns a point uniformly distributed inside a ball.
// The cube root compensates for shell volume growing with r^2.
func sampleSphere(rng *rand.Rand, radius float64) r3.Vec {
	r := math.Cbrt(rng.Float64()) * radius
	theta := rng.Float64() * 2 * math.Pi
	phi := math.Acos(2*rng.Float64() - 1)

	sinPhi, cosPhi := math.Sincos(phi)
	sinTheta, cosTheta := math.Sincos(theta)
	return r3.Vec{
		X: r * sinPhi * cosTheta,
		Y: r * sinPhi * sinTheta,
		Z: r * cosPhi,
	}
}

// sampleCone returns a point near the surface of a cone centered vertically
// on the origin, apex at the top. Azimuth follows a spiral in height.
func sampleCone(rng *rand.Rand, height, baseRadius float64, gc *config.GroupConfig) r3.Vec {
	hNorm := rng.Float64()
	y := hNorm*height - height/2
	coneR := (1 - hNorm) * baseRadius

	angle := hNorm*gc.Spiral + gc.SpiralPhase + rng.Float64()*2*math.Pi
	r := coneR * (gc.RadiusJitterMin + rng.Float64()*(gc.RadiusJitterMax-gc.RadiusJitterMin))

	sin, cos := math.Sincos(angle)
	return r3.Vec{X: cos * r, Y: y, Z: sin * r}
}

// pickColor makes a weighted choice from the palette.
func pickColor(rng *rand.Rand, p config.Palette) color.RGBA {
	var total float64
	for _, w := range p.Weights {
		total += w
	}
	x := rng.Float64() * total
	for i, w := range p.Weights {
		if x < w {
			return p.Colors[i]
		}
		x -= w
	}
	return p.Colors[len(p.Colors)-1]
}

// Colors returns the particle colors in index order.
func Colors(particles []components.Particle) []color.RGBA {
	out := make([]color.RGBA, len(particles))
	for i := range particles {
		out[i] = particles[i].Color
	}
	return out
}
