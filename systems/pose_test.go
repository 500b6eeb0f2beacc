package systems

import (
	"math"
	"math/rand"
	"testing"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/evergreen/components"
	"github.com/pthm-cable/evergreen/config"
)

func solveOnce(t *testing.T, kind components.GroupKind, factor, elapsed float64) ([]components.Particle, []components.Transform) {
	t.Helper()
	cfg := config.Defaults()
	particles := Generate(64, kind, cfg, rand.New(rand.NewSource(5)))
	out := make([]components.Transform, len(particles))
	solver := PoseSolver{FaceThreshold: cfg.Transition.FaceAxisThreshold}
	solver.Solve(kind.GroupConfig(cfg), factor, elapsed, particles, out)
	return particles, out
}

func TestSolveEndpoints(t *testing.T) {
	// At factor 1 idle motion is gone: positions equal the tree positions exactly
	particles, out := solveOnce(t, components.Needles, 1, 12.3)
	for i := range particles {
		if out[i].Position != particles[i].TreePosition {
			t.Fatalf("particle %d at %v, want tree position %v", i, out[i].Position, particles[i].TreePosition)
		}
		if out[i].Scale != particles[i].Scale {
			t.Fatalf("particle %d scale %v, want %v", i, out[i].Scale, particles[i].Scale)
		}
	}

	// At factor 0 positions stay within the idle amplitude of the scatter position
	cfg := config.Defaults()
	particles, out = solveOnce(t, components.Needles, 0, 3.7)
	maxOff := math.Hypot(cfg.Needles.IdleAmpX, cfg.Needles.IdleAmpY) + 1e-9
	for i := range particles {
		if d := r3.Norm(r3.Sub(out[i].Position, particles[i].ScatterPosition)); d > maxOff {
			t.Fatalf("particle %d drifted %v from scatter position, max %v", i, d, maxOff)
		}
	}
}

func TestSolveIdlePhaseVariesByIndex(t *testing.T) {
	particles, out := solveOnce(t, components.Ornaments, 0, 1)
	// Offsets from the scatter position differ across particles
	first := out[0].Position.Y - particles[0].ScatterPosition.Y
	distinct := false
	for i := 1; i < len(particles); i++ {
		off := out[i].Position.Y - particles[i].ScatterPosition.Y
		if math.Abs(off-first) > 1e-6 {
			distinct = true
			break
		}
	}
	if !distinct {
		t.Error("all particles share the same idle offset")
	}
}

func TestSolveFaceAxisThreshold(t *testing.T) {
	tests := []struct {
		name   string
		factor float64
		facing bool
	}{
		{"below threshold tumbles", 0.5, false},
		{"above threshold faces axis", 0.51, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, out := solveOnce(t, components.Needles, tt.factor, 2)
			for i, tr := range out {
				if math.Hypot(tr.Position.X, tr.Position.Z) < 1e-6 {
					continue
				}
				forward := r3.Rotation(tr.Rotation).Rotate(r3.Vec{Z: 1})
				inward := r3.Unit(r3.Vec{X: -tr.Position.X, Z: -tr.Position.Z})
				aligned := math.Abs(r3.Dot(forward, inward)-1) < 1e-9
				if aligned != tt.facing {
					t.Fatalf("particle %d aligned=%v, want %v", i, aligned, tt.facing)
				}
			}
		})
	}
}

func TestSolveOrnamentsNeverFaceAxis(t *testing.T) {
	cfg := config.Defaults()
	_, out := solveOnce(t, components.Ornaments, 1, 2)
	// Constant spin: rotation is Euler(t*0.5, t*0.3, 0)
	want := components.EulerXYZ(r3.Vec{X: 2 * cfg.Ornaments.Spin.X, Y: 2 * cfg.Ornaments.Spin.Y})
	if out[0].Rotation != want {
		t.Errorf("ornament rotation = %v, want %v", out[0].Rotation, want)
	}
}

func newPoseWorld(t *testing.T, kind components.GroupKind, factor float64) (*ecs.World, ecs.Entity, *PoseSystem) {
	t.Helper()
	cfg := config.Defaults()
	w := ecs.NewWorld()
	mapper := ecs.NewMap4[components.Group, components.Form, components.Geometry, components.Batch](w)

	particles := Generate(32, kind, cfg, rand.New(rand.NewSource(2)))
	group := components.Group{Kind: kind, Params: *kind.GroupConfig(cfg)}
	form := components.Form{Factor: factor, Target: factor}
	geom := components.Geometry{Particles: particles}
	var batch components.Batch
	batch.Mount(Colors(particles))

	e := mapper.NewEntity(&group, &form, &geom, &batch)
	return w, e, NewPoseSystem(w, cfg.Transition.FaceAxisThreshold)
}

func TestPoseSystemSkipsSettledNeedles(t *testing.T) {
	w, e, sys := newPoseWorld(t, components.Needles, 1)
	batches := ecs.NewMap[components.Batch](w)

	stats := sys.Update(1)
	if stats.Solved != 1 || stats.Written != 32 {
		t.Fatalf("first update: %+v, want one solved group", stats)
	}
	before := append([]components.Transform(nil), batches.Get(e).Transforms...)
	version := batches.Get(e).Version

	stats = sys.Update(5)
	if stats.Skipped != 1 {
		t.Errorf("second update: %+v, want one skipped group", stats)
	}
	if batches.Get(e).Version != version {
		t.Error("version changed on a skipped frame")
	}

	// Recomputing must agree with the skipped output
	var fresh PoseSystem
	fresh.solvers[components.Needles].FaceThreshold = sys.solvers[components.Needles].FaceThreshold
	out := make([]components.Transform, len(before))
	geoms := ecs.NewMap[components.Geometry](w)
	groups := ecs.NewMap[components.Group](w)
	fresh.solvers[components.Needles].Solve(&groups.Get(e).Params, 1, 5, geoms.Get(e).Particles, out)
	for i := range out {
		if out[i] != before[i] {
			t.Fatalf("transform %d differs after skip: %v vs %v", i, out[i], before[i])
		}
	}
}

func TestPoseSystemAlwaysSolvesSpinningOrnaments(t *testing.T) {
	_, _, sys := newPoseWorld(t, components.Ornaments, 1)
	sys.Update(1)
	stats := sys.Update(2)
	if stats.Solved != 1 || stats.Skipped != 0 {
		t.Errorf("stats = %+v, want ornaments recomputed", stats)
	}
}

func TestPoseSystemSkipsUnmounted(t *testing.T) {
	w, e, sys := newPoseWorld(t, components.Needles, 0.2)
	batches := ecs.NewMap[components.Batch](w)
	batches.Get(e).Unmount()

	stats := sys.Update(1)
	if stats.Solved != 0 || stats.Skipped != 0 {
		t.Errorf("stats = %+v, want nothing done", stats)
	}
	if batches.Get(e).Written() {
		t.Error("unmounted batch was written")
	}
}

func TestSpinThreshold(t *testing.T) {
	cfg := config.Defaults()

	tests := []struct {
		name   string
		factor float64
		spins  bool
	}{
		{"nearly formed spins", 0.9, true},
		{"half formed holds", 0.5, false},
		{"at threshold holds", 0.8, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spin := components.Spin{Rate: cfg.Transition.SpinRate, Threshold: cfg.Transition.SpinThreshold}
			const frames = 60
			for i := 0; i < frames; i++ {
				AdvanceSpin(&spin, tt.factor, 1.0/60)
			}
			want := 0.0
			if tt.spins {
				want = cfg.Transition.SpinRate // one second of spin
			}
			if math.Abs(spin.Angle-want) > 1e-9 {
				t.Errorf("angle = %v, want %v", spin.Angle, want)
			}
		})
	}
}

func TestSpinIgnoresNonPositiveDelta(t *testing.T) {
	spin := components.Spin{Rate: 0.1, Threshold: 0.8}
	AdvanceSpin(&spin, 1, -3)
	AdvanceSpin(&spin, 1, 0)
	if spin.Angle != 0 {
		t.Errorf("angle = %v, want 0", spin.Angle)
	}
}
