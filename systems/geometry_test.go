package systems

import (
	"math"
	"math/rand"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/evergreen/components"
	"github.com/pthm-cable/evergreen/config"
)

func TestGenerateBounds(t *testing.T) {
	cfg := config.Defaults()
	rng := rand.New(rand.NewSource(7))

	tests := []struct {
		kind  components.GroupKind
		count int
	}{
		{components.Needles, cfg.Scene.ParticleCount},
		{components.Ornaments, cfg.Scene.OrnamentCount},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			gc := tt.kind.GroupConfig(cfg)
			maxScatter := cfg.Scene.ScatterRadius * gc.ScatterMultiplier
			halfH := cfg.Scene.TreeHeight / 2

			particles := Generate(tt.count, tt.kind, cfg, rng)
			if len(particles) != tt.count {
				t.Fatalf("got %d particles, want %d", len(particles), tt.count)
			}

			for i, p := range particles {
				if n := r3.Norm(p.ScatterPosition); n > maxScatter+1e-9 {
					t.Fatalf("particle %d scatter radius %v > %v", i, n, maxScatter)
				}
				if y := p.TreePosition.Y; y < -halfH || y > halfH {
					t.Fatalf("particle %d tree y %v outside [%v,%v]", i, y, -halfH, halfH)
				}
				// Horizontal radius never exceeds the jittered cone radius at that height
				hNorm := (p.TreePosition.Y + halfH) / cfg.Scene.TreeHeight
				maxR := (1-hNorm)*cfg.Scene.TreeRadius*gc.RadiusJitterMax + 1e-9
				if r := math.Hypot(p.TreePosition.X, p.TreePosition.Z); r > maxR {
					t.Fatalf("particle %d cone radius %v > %v", i, r, maxR)
				}
				if p.Scale < gc.ScaleMin || p.Scale >= gc.ScaleMax && gc.ScaleMax > gc.ScaleMin {
					t.Fatalf("particle %d scale %v outside [%v,%v)", i, p.Scale, gc.ScaleMin, gc.ScaleMax)
				}
			}
		})
	}
}

func TestGenerateDeterministic(t *testing.T) {
	cfg := config.Defaults()

	a := Generate(500, components.Needles, cfg, rand.New(rand.NewSource(42)))
	b := Generate(500, components.Needles, cfg, rand.New(rand.NewSource(42)))
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("particle %d differs between identical seeds: %+v vs %+v", i, a[i], b[i])
		}
	}

	c := Generate(500, components.Needles, cfg, rand.New(rand.NewSource(43)))
	same := 0
	for i := range a {
		if a[i].ScatterPosition == c[i].ScatterPosition {
			same++
		}
	}
	if same == len(a) {
		t.Error("different seeds produced identical scatter positions")
	}
}

func TestGenerateOrnamentsSitOnSurface(t *testing.T) {
	cfg := config.Defaults()
	particles := Generate(200, components.Ornaments, cfg, rand.New(rand.NewSource(1)))

	halfH := cfg.Scene.TreeHeight / 2
	for i, p := range particles {
		hNorm := (p.TreePosition.Y + halfH) / cfg.Scene.TreeHeight
		want := (1 - hNorm) * cfg.Scene.TreeRadius * 0.9
		got := math.Hypot(p.TreePosition.X, p.TreePosition.Z)
		if math.Abs(got-want) > 1e-9 {
			t.Fatalf("ornament %d radius %v, want %v", i, got, want)
		}
		if p.BaseRotation != (r3.Vec{}) {
			t.Fatalf("ornament %d has base rotation %v, want zero", i, p.BaseRotation)
		}
	}
}

func TestGenerateScatterIsVolumetric(t *testing.T) {
	// Uniform in volume: the fraction inside half the radius is (1/2)^3
	cfg := config.Defaults()
	particles := Generate(20000, components.Needles, cfg, rand.New(rand.NewSource(3)))

	inner := 0
	for _, p := range particles {
		if r3.Norm(p.ScatterPosition) < cfg.Scene.ScatterRadius/2 {
			inner++
		}
	}
	frac := float64(inner) / float64(len(particles))
	if math.Abs(frac-0.125) > 0.015 {
		t.Errorf("inner-half fraction = %v, want ~0.125", frac)
	}
}

func TestGenerateColorWeights(t *testing.T) {
	cfg := config.Defaults()
	particles := Generate(10000, components.Needles, cfg, rand.New(rand.NewSource(9)))

	deep := cfg.Derived.NeedlePalette.Colors[0]
	n := 0
	for _, p := range particles {
		if p.Color == deep {
			n++
		}
	}
	frac := float64(n) / float64(len(particles))
	if math.Abs(frac-0.7) > 0.03 {
		t.Errorf("deep green fraction = %v, want ~0.7", frac)
	}
}

func TestGenerateNegativeCountPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for negative count")
		}
	}()
	Generate(-1, components.Needles, config.Defaults(), rand.New(rand.NewSource(1)))
}

func TestGenerateZeroCount(t *testing.T) {
	particles := Generate(0, components.Ornaments, config.Defaults(), rand.New(rand.NewSource(1)))
	if len(particles) != 0 {
		t.Errorf("got %d particles, want 0", len(particles))
	}
}
