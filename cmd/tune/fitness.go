package main

import (
	"math"
	"sync"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/evergreen/components"
	"github.com/pthm-cable/evergreen/config"
	"github.com/pthm-cable/evergreen/game"
	"github.com/pthm-cable/evergreen/systems"
)

// Targets are the desired durations, in seconds, of one toggle.
type Targets struct {
	Needles   float64 // needles fully formed
	Ornaments float64 // ornaments fully formed
	Star      float64 // star within starTolerance of the apex
	Release   float64 // every group fully scattered again
	MinLead   float64 // ornaments must trail needles by at least this much
}

// starTolerance is the distance at which the star counts as arrived. Its lerp
// never lands exactly.
const starTolerance = 0.05

// timing holds the measured durations of one gather and release cycle.
// A duration equal to the cap means the event never happened.
type timing struct {
	needles   float64
	ornaments float64
	star      float64
	release   float64
}

// FitnessEvaluator runs headless scenes and scores their timing.
type FitnessEvaluator struct {
	params     *ParamVector
	configPath string
	targets    Targets
	frameRates []float64
	maxSeconds float64

	mu          sync.Mutex
	lastTiming  timing
	bestFitness float64
}

// NewFitnessEvaluator creates a new evaluator. Each parameter vector is scored
// at every frame rate so the result holds on slow and fast displays alike.
func NewFitnessEvaluator(params *ParamVector, configPath string, targets Targets, frameRates []float64, maxSeconds float64) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:      params,
		configPath:  configPath,
		targets:     targets,
		frameRates:  frameRates,
		maxSeconds:  maxSeconds,
		bestFitness: math.Inf(1),
	}
}

// LastTiming returns the frame-rate averaged timing from the most recent evaluation.
func (fe *FitnessEvaluator) LastTiming() timing {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastTiming
}

// Evaluate computes fitness for a raw parameter vector (lower = better).
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	results := make([]timing, len(fe.frameRates))
	var wg sync.WaitGroup
	for i, fps := range fe.frameRates {
		wg.Add(1)
		go func(idx int, fps float64) {
			defer wg.Done()
			results[idx] = fe.measure(x, 1/fps)
		}(i, fps)
	}
	wg.Wait()

	var fitness float64
	var avg timing
	for _, r := range results {
		fitness += fe.score(r)
		avg.needles += r.needles
		avg.ornaments += r.ornaments
		avg.star += r.star
		avg.release += r.release
	}
	n := float64(len(results))
	fitness /= n
	avg.needles /= n
	avg.ornaments /= n
	avg.star /= n
	avg.release /= n

	fe.mu.Lock()
	fe.lastTiming = avg
	if fitness < fe.bestFitness {
		fe.bestFitness = fitness
	}
	fe.mu.Unlock()

	return fitness
}

// score is the squared timing error plus a penalty when the ornaments do not
// trail the needles.
func (fe *FitnessEvaluator) score(r timing) float64 {
	t := fe.targets
	sq := func(v float64) float64 { return v * v }

	s := sq(r.needles-t.Needles) + sq(r.ornaments-t.Ornaments) + sq(r.star-t.Star) + sq(r.release-t.Release)
	if lead := r.ornaments - r.needles; lead < t.MinLead {
		s += 10 * sq(t.MinLead-lead)
	}
	return s
}

// measure builds a minimal scene with the parameters applied and times one
// gather followed by one release at a fixed frame delta.
func (fe *FitnessEvaluator) measure(x []float64, dt float64) timing {
	capped := timing{fe.maxSeconds, fe.maxSeconds, fe.maxSeconds, fe.maxSeconds}

	cfg, err := config.Load(fe.configPath)
	if err != nil {
		return capped
	}
	fe.params.ApplyToConfig(cfg, x)
	// Form factors do not depend on particle count
	cfg.Scene.ParticleCount = 1
	cfg.Scene.OrnamentCount = 1

	g, err := game.New(game.Options{Config: cfg, Seed: 1})
	if err != nil {
		return capped
	}
	defer g.Unload()
	g.MountAll()

	out := capped
	maxFrames := int(fe.maxSeconds / dt)
	apex, _ := systems.StarTargets(cfg, components.Formed)

	g.SetState(components.Formed)
	var now float64
	for f := 1; f <= maxFrames; f++ {
		now += dt
		g.Tick(now, dt)
		t := float64(f) * dt
		if out.needles == fe.maxSeconds && g.Form(components.Needles) == 1 {
			out.needles = t
		}
		if out.ornaments == fe.maxSeconds && g.Form(components.Ornaments) == 1 {
			out.ornaments = t
		}
		if out.star == fe.maxSeconds && r3.Norm(r3.Sub(g.Star().Position, apex)) < starTolerance {
			out.star = t
		}
		if out.needles < fe.maxSeconds && out.ornaments < fe.maxSeconds && out.star < fe.maxSeconds {
			break
		}
	}

	g.SetState(components.Scattered)
	for f := 1; f <= maxFrames; f++ {
		now += dt
		g.Tick(now, dt)
		if g.Form(components.Needles) == 0 && g.Form(components.Ornaments) == 0 {
			out.release = float64(f) * dt
			break
		}
	}
	return out
}
