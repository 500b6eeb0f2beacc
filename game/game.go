package game

import (
	"fmt"
	"image/color"
	"log/slog"
	"math/rand"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/evergreen/components"
	"github.com/pthm-cable/evergreen/config"
	"github.com/pthm-cable/evergreen/systems"
	"github.com/pthm-cable/evergreen/telemetry"
)

// Game holds the complete scene state.
type Game struct {
	cfg     *config.Config
	world   *ecs.World
	rng     *rand.Rand
	rngSeed int64

	// Entity mappers
	groupMapper *ecs.Map5[
		components.Group,
		components.Form,
		components.Geometry,
		components.Batch,
		components.Spin,
	]
	starMapper *ecs.Map2[components.Star, components.Batch]

	// Individual component mappers for lookups
	groupMap *ecs.Map[components.Group]
	formMap  *ecs.Map[components.Form]
	geomMap  *ecs.Map[components.Geometry]
	batchMap *ecs.Map[components.Batch]
	spinMap  *ecs.Map[components.Spin]
	starMap  *ecs.Map[components.Star]

	groups [components.NumGroups]ecs.Entity
	star   ecs.Entity

	// Systems
	transition *systems.TransitionSystem
	pose       *systems.PoseSystem
	spin       *systems.SpinSystem
	starSystem *systems.StarSystem

	// State
	state   components.TreeState
	tick    int32
	elapsed float64

	// Telemetry
	collector        *telemetry.Collector
	perfCollector    *telemetry.PerfCollector
	bookmarkDetector *telemetry.BookmarkDetector
	outputManager    *telemetry.OutputManager
	statsCallback    func(telemetry.WindowStats)
	logStats         bool
	snapshotDir      string
	spreadBuf        []float64
}

// New builds the scene: one entity per particle group plus the star.
// Particles are generated here, once; the seed fully determines them.
func New(opts Options) (*Game, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Cfg()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	world := ecs.NewWorld()
	g := &Game{
		cfg:     cfg,
		world:   world,
		rng:     rand.New(rand.NewSource(opts.Seed)),
		rngSeed: opts.Seed,
		state:   opts.State,
		groupMapper: ecs.NewMap5[
			components.Group,
			components.Form,
			components.Geometry,
			components.Batch,
			components.Spin,
		](world),
		starMapper: ecs.NewMap2[components.Star, components.Batch](world),
		groupMap:   ecs.NewMap[components.Group](world),
		formMap:    ecs.NewMap[components.Form](world),
		geomMap:    ecs.NewMap[components.Geometry](world),
		batchMap:   ecs.NewMap[components.Batch](world),
		spinMap:    ecs.NewMap[components.Spin](world),
		starMap:    ecs.NewMap[components.Star](world),
	}
	g.logStats = opts.LogStats
	g.snapshotDir = opts.SnapshotDir
	g.statsCallback = opts.StatsCallback

	g.transition = systems.NewTransitionSystem(world)
	g.pose = systems.NewPoseSystem(world, cfg.Transition.FaceAxisThreshold)
	g.spin = systems.NewSpinSystem(world)
	g.starSystem = systems.NewStarSystem(world, cfg)

	g.groups[components.Needles] = g.spawnGroup(components.Needles, cfg.Scene.ParticleCount)
	g.groups[components.Ornaments] = g.spawnGroup(components.Ornaments, cfg.Scene.OrnamentCount)
	g.star = g.spawnStar()

	// Telemetry
	statsWindow := opts.StatsWindowSec
	if statsWindow <= 0 {
		statsWindow = cfg.Telemetry.StatsWindow
	}
	g.collector = telemetry.NewCollector(statsWindow)
	g.perfCollector = telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow)
	g.bookmarkDetector = telemetry.NewBookmarkDetector(cfg.Transition.FaceAxisThreshold, cfg.Transition.SpinThreshold)

	om, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, err
	}
	g.outputManager = om
	if err := om.WriteConfig(cfg); err != nil {
		slog.Error("failed to write config", "error", err)
	}

	slog.Info("scene ready",
		"seed", opts.Seed,
		"needles", cfg.Scene.ParticleCount,
		"ornaments", cfg.Scene.OrnamentCount,
		"state", g.state.String(),
	)
	return g, nil
}

// spawnGroup creates a particle group entity with freshly generated geometry.
func (g *Game) spawnGroup(kind components.GroupKind, count int) ecs.Entity {
	tc := &g.cfg.Transition
	params := *kind.GroupConfig(g.cfg)

	group := components.Group{Kind: kind, Params: params}
	form := components.Form{
		Target:        g.state.Target(),
		Rate:          params.Rate,
		BaseSmoothing: tc.BaseSmoothing,
		SettleEpsilon: tc.SettleEpsilon,
	}
	geom := components.Geometry{Particles: systems.Generate(count, kind, g.cfg, g.rng)}
	batch := components.Batch{}
	spin := components.Spin{Rate: tc.SpinRate, Threshold: tc.SpinThreshold}

	return g.groupMapper.NewEntity(&group, &form, &geom, &batch, &spin)
}

// spawnStar creates the star entity.
func (g *Game) spawnStar() ecs.Entity {
	star := systems.NewStar(g.cfg)
	batch := components.Batch{}
	return g.starMapper.NewEntity(&star, &batch)
}

// Tick advances the scene by one host frame. elapsed is the host clock in
// seconds, delta the time since the previous frame. Negative or NaN inputs
// are treated as zero.
func (g *Game) Tick(elapsed, delta float64) {
	elapsed = systems.SanitizeTime(elapsed)
	delta = systems.SanitizeTime(delta)
	g.elapsed = elapsed

	g.perfCollector.StartTick()

	// 1. Ease form factors toward the current state
	g.perfCollector.StartPhase(telemetry.PhaseTransition)
	g.transition.Update(delta, g.state)

	// 2. Recompute per-particle transforms
	g.perfCollector.StartPhase(telemetry.PhasePose)
	stats := g.pose.Update(elapsed)

	// 3. Group frame spin
	g.perfCollector.StartPhase(telemetry.PhaseSpin)
	g.spin.Update(delta)

	// 4. Star
	g.perfCollector.StartPhase(telemetry.PhaseStar)
	g.starSystem.Update(elapsed, delta, g.state)

	g.tick++

	// 5. Telemetry
	g.perfCollector.StartPhase(telemetry.PhaseTelemetry)
	g.collector.RecordFrame(stats.Solved, stats.Skipped, stats.Written)
	g.checkBookmarks()
	g.flushTelemetry()

	g.perfCollector.EndTick()
}

// SetState sets the external state. Form factors are not reset: groups
// ease from wherever they are toward the new target.
func (g *Game) SetState(s components.TreeState) {
	if s == g.state {
		return
	}
	g.state = s
	g.collector.RecordToggle()
	g.emitBookmark(g.bookmarkDetector.RecordToggle(g.tick, g.elapsed, s))
}

// Toggle flips the external state.
func (g *Game) Toggle() {
	g.SetState(g.state.Toggle())
}

// State returns the current external state.
func (g *Game) State() components.TreeState {
	return g.state
}

// Mount attaches a consumer to a group: allocates its transform buffer and
// writes the per-instance colors.
func (g *Game) Mount(kind components.GroupKind) {
	if kind >= components.NumGroups {
		return
	}
	e := g.groups[kind]
	geom := g.geomMap.Get(e)
	g.batchMap.Get(e).Mount(systems.Colors(geom.Particles))
}

// Unmount detaches a group's consumer. The group is skipped until remounted.
func (g *Game) Unmount(kind components.GroupKind) {
	if kind >= components.NumGroups {
		return
	}
	g.batchMap.Get(g.groups[kind]).Unmount()
}

// MountStar attaches the star's consumer.
func (g *Game) MountStar() {
	g.batchMap.Get(g.star).Mount([]color.RGBA{g.cfg.Derived.StarColor})
}

// UnmountStar detaches the star's consumer.
func (g *Game) UnmountStar() {
	g.batchMap.Get(g.star).Unmount()
}

// MountAll mounts every group and the star.
func (g *Game) MountAll() {
	for kind := components.GroupKind(0); kind < components.NumGroups; kind++ {
		g.Mount(kind)
	}
	g.MountStar()
}

// Output returns a group's batch. The host reads it after Tick returns.
func (g *Game) Output(kind components.GroupKind) *components.Batch {
	if kind >= components.NumGroups {
		return nil
	}
	return g.batchMap.Get(g.groups[kind])
}

// Form returns a group's current form factor.
func (g *Game) Form(kind components.GroupKind) float64 {
	if kind >= components.NumGroups {
		return 0
	}
	return g.formMap.Get(g.groups[kind]).Factor
}

// Count returns the number of particles in a group.
func (g *Game) Count(kind components.GroupKind) int {
	if kind >= components.NumGroups {
		return 0
	}
	return len(g.geomMap.Get(g.groups[kind]).Particles)
}

// Star returns a copy of the star's state.
func (g *Game) Star() components.Star {
	return *g.starMap.Get(g.star)
}

// StarOutput returns the star's single-instance batch.
func (g *Game) StarOutput() *components.Batch {
	return g.batchMap.Get(g.star)
}

// Ticks returns the number of frames processed.
func (g *Game) Ticks() int32 {
	return g.tick
}

// Elapsed returns the host clock of the last frame.
func (g *Game) Elapsed() float64 {
	return g.elapsed
}

// Seed returns the seed the geometry was generated from.
func (g *Game) Seed() int64 {
	return g.rngSeed
}

// Config returns the scene configuration.
func (g *Game) Config() *config.Config {
	return g.cfg
}

// RecordFrame records wall-clock frame timing for graphics mode.
func (g *Game) RecordFrame() {
	g.perfCollector.RecordFrame()
}

// Unload closes output files.
func (g *Game) Unload() {
	if err := g.outputManager.Close(); err != nil {
		slog.Error("failed to close output", "error", err)
	}
}
