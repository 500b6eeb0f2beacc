package components

import (
	"image/color"
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

func vecClose(a, b r3.Vec, tol float64) bool {
	return math.Abs(a.X-b.X) < tol && math.Abs(a.Y-b.Y) < tol && math.Abs(a.Z-b.Z) < tol
}

func TestEulerXYZSingleAxis(t *testing.T) {
	// 90 degrees about Y maps +X to -Z
	q := EulerXYZ(r3.Vec{Y: math.Pi / 2})
	got := rotate(q, r3.Vec{X: 1})
	if !vecClose(got, r3.Vec{Z: -1}, 1e-9) {
		t.Errorf("rotate(+X) = %v, want (0,0,-1)", got)
	}
}

func TestEulerXYZOrder(t *testing.T) {
	// Intrinsic XYZ: rotate about Z first in the local frame, then Y, then X
	e := r3.Vec{X: math.Pi / 2, Z: math.Pi / 2}
	q := EulerXYZ(e)
	// Rz(90) maps +X to +Y, then Rx(90) maps +Y to +Z
	got := rotate(q, r3.Vec{X: 1})
	if !vecClose(got, r3.Vec{Z: 1}, 1e-9) {
		t.Errorf("rotate(+X) = %v, want (0,0,1)", got)
	}
}

func TestFaceTowardAxis(t *testing.T) {
	tests := []struct {
		name string
		pos  r3.Vec
	}{
		{"on +x", r3.Vec{X: 3, Y: 1}},
		{"on -z", r3.Vec{Z: -2, Y: -4}},
		{"diagonal", r3.Vec{X: 1.5, Y: 2, Z: 1.5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target := r3.Vec{Y: tt.pos.Y}
			q := FaceToward(tt.pos, target, Up)

			forward := rotate(q, r3.Vec{Z: 1})
			want := r3.Unit(r3.Sub(target, tt.pos))
			if !vecClose(forward, want, 1e-9) {
				t.Errorf("local +Z = %v, want %v", forward, want)
			}
			upAxis := rotate(q, r3.Vec{Y: 1})
			if !vecClose(upAxis, Up, 1e-9) {
				t.Errorf("local +Y = %v, want up", upAxis)
			}
		})
	}
}

func TestFaceTowardDegenerate(t *testing.T) {
	// Position on the axis itself: must still produce a unit quaternion
	q := FaceToward(r3.Vec{Y: 2}, r3.Vec{Y: 2}, Up)
	n := q.Real*q.Real + q.Imag*q.Imag + q.Jmag*q.Jmag + q.Kmag*q.Kmag
	if math.Abs(n-1) > 1e-9 || math.IsNaN(n) {
		t.Errorf("|q|^2 = %v, want 1", n)
	}
}

func TestMatrixTranslationAndScale(t *testing.T) {
	tr := Transform{Position: r3.Vec{X: 1, Y: 2, Z: 3}, Rotation: Identity, Scale: 2}
	m := tr.Matrix()
	if m[12] != 1 || m[13] != 2 || m[14] != 3 || m[15] != 1 {
		t.Errorf("translation column = %v, want (1,2,3,1)", m[12:16])
	}
	if m[0] != 2 || m[5] != 2 || m[10] != 2 {
		t.Errorf("diagonal = (%v,%v,%v), want 2", m[0], m[5], m[10])
	}
}

func TestApplyMatchesMatrix(t *testing.T) {
	tr := Transform{
		Position: r3.Vec{X: -1, Y: 0.5, Z: 4},
		Rotation: EulerXYZ(r3.Vec{X: 0.3, Y: 1.2, Z: -0.7}),
		Scale:    0.75,
	}
	local := r3.Vec{X: 0.2, Y: -0.4, Z: 1}
	got := tr.Apply(local)

	m := tr.Matrix()
	want := r3.Vec{
		X: float64(m[0])*local.X + float64(m[4])*local.Y + float64(m[8])*local.Z + float64(m[12]),
		Y: float64(m[1])*local.X + float64(m[5])*local.Y + float64(m[9])*local.Z + float64(m[13]),
		Z: float64(m[2])*local.X + float64(m[6])*local.Y + float64(m[10])*local.Z + float64(m[14]),
	}
	if !vecClose(got, want, 1e-5) {
		t.Errorf("Apply = %v, matrix = %v", got, want)
	}
}

func TestBatchVersioning(t *testing.T) {
	var b Batch
	if b.Mounted() {
		t.Fatal("zero batch should not be mounted")
	}

	colors := []color.RGBA{{R: 1}, {G: 2}, {B: 3}}
	b.Mount(colors)
	if !b.Mounted() || b.Len() != 3 {
		t.Fatalf("mounted=%v len=%d, want true 3", b.Mounted(), b.Len())
	}
	if b.ColorVersion != 1 {
		t.Errorf("ColorVersion = %d, want 1", b.ColorVersion)
	}
	if b.Written() || b.Dirty() {
		t.Error("fresh batch should be neither written nor dirty")
	}

	b.MarkWritten()
	if b.Version != 1 || !b.Dirty() {
		t.Errorf("after write: version=%d dirty=%v", b.Version, b.Dirty())
	}
	if !b.Consume() {
		t.Error("Consume should report the pending write")
	}
	if b.Consume() {
		t.Error("second Consume should report nothing")
	}

	b.Unmount()
	if b.Mounted() {
		t.Error("batch still mounted after Unmount")
	}
}

func TestBatchWorldAppliesFrame(t *testing.T) {
	var b Batch
	b.Mount([]color.RGBA{{}})
	b.Transforms[0] = Transform{Position: r3.Vec{X: 2}, Rotation: Identity, Scale: 1}

	b.Frame = math.Pi / 2
	w := b.World(0)
	if !vecClose(w.Position, r3.Vec{Z: -2}, 1e-9) {
		t.Errorf("world position = %v, want (0,0,-2)", w.Position)
	}
	// Local transform is untouched
	if b.Transforms[0].Position != (r3.Vec{X: 2}) {
		t.Errorf("local transform mutated: %v", b.Transforms[0].Position)
	}
}
