package systems

import (
	"math"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/evergreen/components"
	"github.com/pthm-cable/evergreen/config"
)

// NewStar returns the star at its configured starting point.
func NewStar(cfg *config.Config) components.Star {
	return components.Star{
		Position: vec(cfg.Star.Start),
		Scale:    cfg.Star.InitialScale,
	}
}

// StarTargets returns the position and scale the star lerps toward in state.
func StarTargets(cfg *config.Config, state components.TreeState) (r3.Vec, float64) {
	if state == components.Formed {
		return r3.Vec{Y: cfg.Derived.StarFormedY}, cfg.Star.FormedScale
	}
	return vec(cfg.Star.Scattered), cfg.Star.ScatteredScale
}

// StepStar lerps the star toward its state target at a fixed rate and
// advances its spin, wobble and float bob.
func StepStar(star *components.Star, cfg *config.Config, elapsed, delta float64, state components.TreeState) {
	sc := &cfg.Star
	target, scale := StarTargets(cfg, state)

	alpha := clamp01(delta * sc.LerpRate)
	star.Position = components.Lerp(star.Position, target, alpha)
	star.Scale += (scale - star.Scale) * alpha

	star.SpinY = normalizeHeading(star.SpinY + delta*sc.SpinRate)
	star.WobbleZ = math.Sin(elapsed*sc.WobbleFreq) * sc.WobbleAmp
	star.Bob = math.Sin(elapsed*sc.FloatSpeed) * sc.FloatAmp
}

// StarTransform returns the star's output pose.
func StarTransform(star *components.Star) components.Transform {
	pos := star.Position
	pos.Y += star.Bob
	return components.Transform{
		Position: pos,
		Rotation: components.EulerXYZ(r3.Vec{Y: star.SpinY, Z: star.WobbleZ}),
		Scale:    star.Scale,
	}
}

// StarSystem moves the crowning star independently of the particle groups.
type StarSystem struct {
	filter *ecs.Filter2[components.Star, components.Batch]
	cfg    *config.Config
}

// NewStarSystem creates a new star system.
func NewStarSystem(w *ecs.World, cfg *config.Config) *StarSystem {
	return &StarSystem{
		filter: ecs.NewFilter2[components.Star, components.Batch](w),
		cfg:    cfg,
	}
}

// Update steps every mounted star and writes its single transform.
func (s *StarSystem) Update(elapsed, delta float64, state components.TreeState) {
	query := s.filter.Query()
	for query.Next() {
		star, batch := query.Get()
		if !batch.Mounted() || batch.Len() != 1 {
			continue
		}
		StepStar(star, s.cfg, elapsed, delta, state)
		batch.Transforms[0] = StarTransform(star)
		batch.MarkWritten()
	}
}

func vec(v config.Vec3Config) r3.Vec {
	return r3.Vec{X: v.X, Y: v.Y, Z: v.Z}
}
