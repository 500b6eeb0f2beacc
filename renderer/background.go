package renderer

import (
	"math"
	"math/rand"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/evergreen/config"
)

// BackgroundRenderer clears to the scene color and draws a distant starfield.
type BackgroundRenderer struct {
	clear  rl.Color
	points []rl.Vector3
	shades []rl.Color
}

// NewBackgroundRenderer scatters the starfield in a shell between radius
// and radius+depth. The layout is fixed by seed.
func NewBackgroundRenderer(cfg *config.BackgroundConfig, clear rl.Color, seed int64) *BackgroundRenderer {
	rng := rand.New(rand.NewSource(seed))
	b := &BackgroundRenderer{
		clear:  clear,
		points: make([]rl.Vector3, cfg.StarCount),
		shades: make([]rl.Color, cfg.StarCount),
	}

	for i := range b.points {
		r := cfg.StarRadius + rng.Float64()*cfg.StarDepth
		theta := rng.Float64() * 2 * math.Pi
		phi := math.Acos(2*rng.Float64() - 1)
		sinPhi := math.Sin(phi)
		b.points[i] = rl.Vector3{
			X: float32(r * sinPhi * math.Cos(theta)),
			Y: float32(r * math.Cos(phi)),
			Z: float32(r * sinPhi * math.Sin(theta)),
		}

		// Greyscale, dimmer with distance
		v := uint8(120 + 135*(1-(r-cfg.StarRadius)/math.Max(cfg.StarDepth, 1))*rng.Float64())
		b.shades[i] = rl.Color{R: v, G: v, B: v, A: 255}
	}
	return b
}

// Clear fills the frame with the background color. Call before BeginMode3D.
func (b *BackgroundRenderer) Clear() {
	rl.ClearBackground(b.clear)
}

// Draw renders the starfield. Call inside BeginMode3D.
func (b *BackgroundRenderer) Draw() {
	for i, p := range b.points {
		rl.DrawPoint3D(p, b.shades[i])
	}
}

// Len returns the number of background stars.
func (b *BackgroundRenderer) Len() int {
	return len(b.points)
}
