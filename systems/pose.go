package systems

import (
	"math"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/evergreen/components"
	"github.com/pthm-cable/evergreen/config"
)

// poseScratch is the work item reused for every particle of one group.
type poseScratch struct {
	pos   r3.Vec
	euler r3.Vec
}

// PoseSolver computes per-particle transforms for one group.
// Each group owns its solver so scratch state never aliases across groups.
type PoseSolver struct {
	FaceThreshold float64

	scratch    poseScratch
	lastFactor float64
	solved     bool
}

// Solve writes one transform per particle into out.
//
// Position blends scatter to tree by factor, plus idle sway whose amplitude
// fades with (1 - factor). Rotation tumbles while scattered. Groups that face
// the tree axis switch to a look-at orientation once factor passes the
// threshold; this is a hard switch, not a blend.
func (s *PoseSolver) Solve(params *config.GroupConfig, factor, elapsed float64, particles []components.Particle, out []components.Transform) {
	idle := 1 - factor
	facing := params.FaceAxis && factor > s.FaceThreshold
	sc := &s.scratch

	for i := range particles {
		p := &particles[i]
		phase := float64(i)

		sc.pos = components.Lerp(p.ScatterPosition, p.TreePosition, factor)
		sc.pos.Y += math.Sin(elapsed*params.IdleFreqY+phase) * params.IdleAmpY * idle
		if params.IdleAmpX != 0 {
			sc.pos.X += math.Cos(elapsed*params.IdleFreqX+phase) * params.IdleAmpX * idle
		}

		t := &out[i]
		t.Position = sc.pos
		t.Scale = p.Scale
		if facing {
			t.Rotation = components.FaceToward(sc.pos, r3.Vec{Y: sc.pos.Y}, components.Up)
			continue
		}
		sc.euler = r3.Vec{
			X: p.BaseRotation.X + elapsed*(idle*params.Tumble.X+params.Spin.X),
			Y: p.BaseRotation.Y + elapsed*(idle*params.Tumble.Y+params.Spin.Y),
			Z: p.BaseRotation.Z + elapsed*(idle*params.Tumble.Z+params.Spin.Z),
		}
		t.Rotation = components.EulerXYZ(sc.euler)
	}

	s.lastFactor = factor
	s.solved = true
}

// settled reports whether recomputing would reproduce the previous output.
// Holds only when fully formed on both frames and nothing spins with time.
func (s *PoseSolver) settled(params *config.GroupConfig, factor float64) bool {
	if !s.solved || factor != 1 || s.lastFactor != 1 {
		return false
	}
	return params.Spin == (config.Vec3Config{})
}

// PoseStats reports what the pose system did in one update.
type PoseStats struct {
	Solved  int // groups recomputed
	Skipped int // groups left untouched because they were settled
	Written int // transforms written
}

// PoseSystem recomputes the transform buffer of every mounted group.
type PoseSystem struct {
	filter  *ecs.Filter4[components.Group, components.Form, components.Geometry, components.Batch]
	solvers [components.NumGroups]PoseSolver
}

// NewPoseSystem creates a new pose system.
func NewPoseSystem(w *ecs.World, faceThreshold float64) *PoseSystem {
	s := &PoseSystem{
		filter: ecs.NewFilter4[components.Group, components.Form, components.Geometry, components.Batch](w),
	}
	for i := range s.solvers {
		s.solvers[i].FaceThreshold = faceThreshold
	}
	return s
}

// Invalidate forces every group to be recomputed on the next update.
func (s *PoseSystem) Invalidate() {
	for i := range s.solvers {
		s.solvers[i].solved = false
	}
}

// Update writes transforms for all mounted groups and marks their batches dirty.
func (s *PoseSystem) Update(elapsed float64) PoseStats {
	var stats PoseStats
	query := s.filter.Query()
	for query.Next() {
		group, form, geom, batch := query.Get()
		if !batch.Mounted() || batch.Len() != len(geom.Particles) {
			continue
		}

		solver := &s.solvers[group.Kind]
		if batch.Written() && solver.settled(&group.Params, form.Factor) {
			stats.Skipped++
			continue
		}

		solver.Solve(&group.Params, form.Factor, elapsed, geom.Particles, batch.Transforms)
		batch.MarkWritten()
		stats.Solved++
		stats.Written += len(geom.Particles)
	}
	return stats
}

// SpinSystem accumulates the slow whole-group yaw once a group is nearly formed.
type SpinSystem struct {
	filter *ecs.Filter3[components.Form, components.Spin, components.Batch]
}

// NewSpinSystem creates a new spin system.
func NewSpinSystem(w *ecs.World) *SpinSystem {
	return &SpinSystem{
		filter: ecs.NewFilter3[components.Form, components.Spin, components.Batch](w),
	}
}

// Update advances the group frames of all mounted groups.
func (s *SpinSystem) Update(delta float64) {
	query := s.filter.Query()
	for query.Next() {
		form, spin, batch := query.Get()
		if !batch.Mounted() {
			continue
		}
		AdvanceSpin(spin, form.Factor, delta)
		batch.Frame = spin.Angle
	}
}

// AdvanceSpin adds delta*rate to the spin angle while factor exceeds the threshold.
func AdvanceSpin(spin *components.Spin, factor, delta float64) {
	if factor <= spin.Threshold || !(delta > 0) {
		return
	}
	spin.Angle = normalizeHeading(spin.Angle + delta*spin.Rate)
}
