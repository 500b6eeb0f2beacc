package components

import (
	"image/color"

	"gonum.org/v1/gonum/num/quat"
)

// Batch is the dense, index-aligned output of one group, written by the pose
// solver and read by the rendering collaborator once per frame.
//
// A batch is mounted when its consumer exists. Systems skip unmounted
// batches entirely for that frame.
type Batch struct {
	Transforms []Transform
	Colors     []color.RGBA

	// Frame is the group's yaw around the vertical axis, applied on top of
	// every transform.
	Frame float64

	Version      uint64 // bumped on every transform write
	ColorVersion uint64 // bumped when colors are (re)assigned

	dirty   bool
	mounted bool
}

// Mount allocates the transform buffer and assigns the static colors.
func (b *Batch) Mount(colors []color.RGBA) {
	if cap(b.Transforms) >= len(colors) {
		b.Transforms = b.Transforms[:len(colors)]
	} else {
		b.Transforms = make([]Transform, len(colors))
	}
	b.Colors = append(b.Colors[:0], colors...)
	b.ColorVersion++
	b.mounted = true
}

// Unmount releases the consumer. Buffers are kept for a later Mount.
func (b *Batch) Unmount() {
	b.mounted = false
	b.dirty = false
}

// Mounted reports whether a consumer is attached.
func (b *Batch) Mounted() bool {
	return b.mounted
}

// Len returns the number of instances.
func (b *Batch) Len() int {
	return len(b.Transforms)
}

// Written reports whether transforms have been produced at least once.
func (b *Batch) Written() bool {
	return b.Version > 0
}

// MarkWritten records that the transforms changed this frame.
func (b *Batch) MarkWritten() {
	b.Version++
	b.dirty = true
}

// Dirty reports whether transforms changed since the last Consume.
func (b *Batch) Dirty() bool {
	return b.dirty
}

// Consume clears the dirty flag and reports whether it was set.
func (b *Batch) Consume() bool {
	d := b.dirty
	b.dirty = false
	return d
}

// FrameRotation returns the group-frame yaw as a quaternion.
func (b *Batch) FrameRotation() quat.Number {
	return AxisAngle(Up, b.Frame)
}

// World returns instance i with the group frame applied.
func (b *Batch) World(i int) Transform {
	t := b.Transforms[i]
	if b.Frame == 0 {
		return t
	}
	q := b.FrameRotation()
	return Transform{
		Position: rotate(q, t.Position),
		Rotation: quat.Mul(q, t.Rotation),
		Scale:    t.Scale,
	}
}
