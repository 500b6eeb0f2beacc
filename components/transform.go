package components

import (
	"math"

	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"
)

// Up is the world vertical axis.
var Up = r3.Vec{Y: 1}

// Identity is the identity rotation.
var Identity = quat.Number{Real: 1}

// Transform is a per-instance pose: translation, orientation and uniform scale.
type Transform struct {
	Position r3.Vec
	Rotation quat.Number // unit quaternion
	Scale    float64
}

// Matrix returns the column-major 4x4 matrix T*R*S, the layout of
// rl.Matrix for hosts that upload instance matrices (DrawMeshInstanced).
// The bundled renderer places capsules and spheres with Apply instead.
func (t Transform) Matrix() [16]float32 {
	w, x, y, z := t.Rotation.Real, t.Rotation.Imag, t.Rotation.Jmag, t.Rotation.Kmag
	s := t.Scale

	m00 := 1 - 2*(y*y+z*z)
	m01 := 2 * (x*y - w*z)
	m02 := 2 * (x*z + w*y)
	m10 := 2 * (x*y + w*z)
	m11 := 1 - 2*(x*x+z*z)
	m12 := 2 * (y*z - w*x)
	m20 := 2 * (x*z - w*y)
	m21 := 2 * (y*z + w*x)
	m22 := 1 - 2*(x*x+y*y)

	return [16]float32{
		float32(m00 * s), float32(m10 * s), float32(m20 * s), 0,
		float32(m01 * s), float32(m11 * s), float32(m21 * s), 0,
		float32(m02 * s), float32(m12 * s), float32(m22 * s), 0,
		float32(t.Position.X), float32(t.Position.Y), float32(t.Position.Z), 1,
	}
}

// Apply maps a point from the instance's local space into its parent space.
func (t Transform) Apply(local r3.Vec) r3.Vec {
	p := rotate(t.Rotation, r3.Scale(t.Scale, local))
	return r3.Add(p, t.Position)
}

// rotate applies the unit quaternion q to p.
func rotate(q quat.Number, p r3.Vec) r3.Vec {
	return r3.Rotation(q).Rotate(p)
}

// AxisAngle returns the rotation of angle radians around a unit axis.
func AxisAngle(axis r3.Vec, angle float64) quat.Number {
	s, c := math.Sincos(angle / 2)
	return quat.Number{Real: c, Imag: axis.X * s, Jmag: axis.Y * s, Kmag: axis.Z * s}
}

// EulerXYZ converts intrinsic X-then-Y-then-Z Euler angles to a quaternion.
func EulerXYZ(e r3.Vec) quat.Number {
	qx := AxisAngle(r3.Vec{X: 1}, e.X)
	qy := AxisAngle(r3.Vec{Y: 1}, e.Y)
	qz := AxisAngle(r3.Vec{Z: 1}, e.Z)
	return quat.Mul(quat.Mul(qx, qy), qz)
}

// FaceToward returns the orientation whose local +Z axis points from
// position toward target, with local +Y kept as close to up as possible.
func FaceToward(position, target, up r3.Vec) quat.Number {
	z := r3.Sub(target, position)
	if r3.Norm2(z) == 0 {
		z.Z = 1
	}
	z = r3.Unit(z)

	x := r3.Cross(up, z)
	if r3.Norm2(x) == 0 {
		// up and z are parallel; nudge z off the axis
		if math.Abs(up.Z) == 1 {
			z.X += 1e-4
		} else {
			z.Z += 1e-4
		}
		z = r3.Unit(z)
		x = r3.Cross(up, z)
	}
	x = r3.Unit(x)
	y := r3.Cross(z, x)

	return fromBasis(x, y, z)
}

// fromBasis converts an orthonormal basis (matrix columns) to a quaternion.
func fromBasis(x, y, z r3.Vec) quat.Number {
	m00, m01, m02 := x.X, y.X, z.X
	m10, m11, m12 := x.Y, y.Y, z.Y
	m20, m21, m22 := x.Z, y.Z, z.Z

	trace := m00 + m11 + m22
	var q quat.Number
	switch {
	case trace > 0:
		s := 0.5 / math.Sqrt(trace+1)
		q = quat.Number{Real: 0.25 / s, Imag: (m21 - m12) * s, Jmag: (m02 - m20) * s, Kmag: (m10 - m01) * s}
	case m00 > m11 && m00 > m22:
		s := 2 * math.Sqrt(1+m00-m11-m22)
		q = quat.Number{Real: (m21 - m12) / s, Imag: 0.25 * s, Jmag: (m01 + m10) / s, Kmag: (m02 + m20) / s}
	case m11 > m22:
		s := 2 * math.Sqrt(1+m11-m00-m22)
		q = quat.Number{Real: (m02 - m20) / s, Imag: (m01 + m10) / s, Jmag: 0.25 * s, Kmag: (m12 + m21) / s}
	default:
		s := 2 * math.Sqrt(1+m22-m00-m11)
		q = quat.Number{Real: (m10 - m01) / s, Imag: (m02 + m20) / s, Jmag: (m12 + m21) / s, Kmag: 0.25 * s}
	}
	return q
}

// Lerp blends a toward b. Exact at both endpoints.
func Lerp(a, b r3.Vec, t float64) r3.Vec {
	return r3.Add(r3.Scale(1-t, a), r3.Scale(t, b))
}
