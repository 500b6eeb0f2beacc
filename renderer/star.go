package renderer

import (
	"image/color"

	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/evergreen/components"
)

// octahedronSigns lists the eight faces by the sign of their normal.
var octahedronSigns = [8][3]float64{
	{1, 1, 1}, {1, 1, -1}, {1, -1, 1}, {1, -1, -1},
	{-1, 1, 1}, {-1, 1, -1}, {-1, -1, 1}, {-1, -1, -1},
}

// StarRenderer draws the crowning star as an octahedron.
type StarRenderer struct {
	size  float64
	color rl.Color
	glow  rl.Color
}

// NewStarRenderer creates a star renderer for a star of the given radius.
func NewStarRenderer(size float64, c color.RGBA) *StarRenderer {
	return &StarRenderer{
		size:  size,
		color: toColor(c),
		glow:  rl.Color{R: c.R, G: c.G, B: c.B, A: 40},
	}
}

// Draw renders the star from its single-instance batch.
func (s *StarRenderer) Draw(b *components.Batch, offsetY float64) {
	if !b.Mounted() || !b.Written() {
		return
	}
	b.Consume()
	t := b.World(0)

	for _, sign := range octahedronSigns {
		x := toVec(t.Apply(r3.Vec{X: sign[0] * s.size}), offsetY)
		y := toVec(t.Apply(r3.Vec{Y: sign[1] * s.size}), offsetY)
		z := toVec(t.Apply(r3.Vec{Z: sign[2] * s.size}), offsetY)
		// Counter-clockwise seen from outside
		if sign[0]*sign[1]*sign[2] < 0 {
			y, z = z, y
		}
		rl.DrawTriangle3D(x, y, z, s.color)
	}

	center := toVec(t.Position, offsetY)
	rl.DrawSphereEx(center, float32(s.size*t.Scale*1.6), 6, 8, s.glow)
}

func toColor(c color.RGBA) rl.Color {
	return rl.Color{R: c.R, G: c.G, B: c.B, A: c.A}
}
