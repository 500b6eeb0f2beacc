package game

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/pthm-cable/evergreen/components"
	"github.com/pthm-cable/evergreen/telemetry"
)

// flushTelemetry checks if the stats window should be flushed and writes its outputs.
func (g *Game) flushTelemetry() {
	if !g.collector.ShouldFlush(g.elapsed) {
		return
	}

	stats := g.collector.Flush(g.tick, g.elapsed, g.sample())
	perfStats := g.perfCollector.Stats()

	if g.statsCallback != nil {
		g.statsCallback(stats)
	}

	if g.logStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	if err := g.outputManager.WriteTelemetry(stats); err != nil {
		slog.Error("failed to write telemetry", "error", err)
	}
	if err := g.outputManager.WritePerf(perfStats, stats.WindowEndTick); err != nil {
		slog.Error("failed to write perf", "error", err)
	}
}

// checkBookmarks compares group forms against the previous frame.
func (g *Game) checkBookmarks() {
	var forms [components.NumGroups]telemetry.GroupForm
	for kind, e := range g.groups {
		form := g.formMap.Get(e)
		forms[kind] = telemetry.GroupForm{
			Kind:     components.GroupKind(kind),
			Factor:   form.Factor,
			Target:   form.Target,
			FaceAxis: g.groupMap.Get(e).Params.FaceAxis,
		}
	}
	for _, bm := range g.bookmarkDetector.Check(g.tick, g.elapsed, forms[:]) {
		g.emitBookmark(bm)
	}
}

// emitBookmark logs, records and optionally snapshots a bookmark.
func (g *Game) emitBookmark(bm telemetry.Bookmark) {
	if g.logStats {
		bm.LogBookmark()
	}
	if err := g.outputManager.WriteBookmark(bm); err != nil {
		slog.Error("failed to write bookmark", "error", err)
	}
	if g.snapshotDir != "" {
		g.saveSnapshot(&bm)
	}
}

// sample captures the scene state for a stats window.
func (g *Game) sample() telemetry.Sample {
	needles := g.groups[components.Needles]
	ornaments := g.groups[components.Ornaments]
	star := g.starMap.Get(g.star)

	return telemetry.Sample{
		State:        g.state,
		NeedleForm:   g.formMap.Get(needles).Factor,
		OrnamentForm: g.formMap.Get(ornaments).Factor,
		NeedleSpin:   g.spinMap.Get(needles).Angle,
		OrnamentSpin: g.spinMap.Get(ornaments).Angle,
		StarY:        star.Position.Y,
		StarScale:    star.Scale,
		Spread:       g.sampleSpread(),
	}
}

// sampleSpread collects the distance from the tree axis of the first
// needles in the batch. Empty until the needles have been written.
func (g *Game) sampleSpread() []float64 {
	batch := g.batchMap.Get(g.groups[components.Needles])
	g.spreadBuf = g.spreadBuf[:0]
	if !batch.Written() {
		return g.spreadBuf
	}

	n := min(batch.Len(), g.cfg.Telemetry.SpreadSample)
	for i := 0; i < n; i++ {
		p := batch.Transforms[i].Position
		g.spreadBuf = append(g.spreadBuf, math.Hypot(p.X, p.Z))
	}
	return g.spreadBuf
}

// SaveSnapshot writes the current state to the snapshot directory.
func (g *Game) SaveSnapshot(dir string) (string, error) {
	return telemetry.SaveSnapshot(g.createSnapshot(nil), dir)
}

// saveSnapshot creates and saves a snapshot to disk.
func (g *Game) saveSnapshot(bookmark *telemetry.Bookmark) {
	path, err := telemetry.SaveSnapshot(g.createSnapshot(bookmark), g.snapshotDir)
	if err != nil {
		slog.Error("failed to save snapshot", "error", err)
		return
	}
	slog.Info("snapshot saved", "path", path, "tick", g.tick)
}

// createSnapshot builds a snapshot from the current state.
func (g *Game) createSnapshot(bookmark *telemetry.Bookmark) *telemetry.Snapshot {
	snapshot := &telemetry.Snapshot{
		Version:  telemetry.SnapshotVersion,
		RNGSeed:  g.rngSeed,
		Tick:     g.tick,
		Elapsed:  g.elapsed,
		State:    g.state.String(),
		Bookmark: bookmark,
	}

	for kind, e := range g.groups {
		form := g.formMap.Get(e)
		batch := g.batchMap.Get(e)
		snapshot.Groups = append(snapshot.Groups, telemetry.GroupState{
			Kind:    components.GroupKind(kind).String(),
			Count:   len(g.geomMap.Get(e).Particles),
			Mounted: batch.Mounted(),
			Factor:  form.Factor,
			Target:  form.Target,
			Spin:    g.spinMap.Get(e).Angle,
			Version: batch.Version,
		})
	}

	star := g.starMap.Get(g.star)
	snapshot.Star = telemetry.StarState{
		X:     star.Position.X,
		Y:     star.Position.Y,
		Z:     star.Position.Z,
		Scale: star.Scale,
		SpinY: star.SpinY,
	}
	return snapshot
}

// Restore resumes from a snapshot taken of a scene built with the same
// seed and counts. Mount state is taken from the snapshot.
func (g *Game) Restore(s *telemetry.Snapshot) error {
	if s.RNGSeed != g.rngSeed {
		return fmt.Errorf("snapshot seed %d does not match scene seed %d", s.RNGSeed, g.rngSeed)
	}
	if len(s.Groups) != len(g.groups) {
		return fmt.Errorf("snapshot has %d groups, want %d", len(s.Groups), len(g.groups))
	}
	for kind, gs := range s.Groups {
		k := components.GroupKind(kind)
		if gs.Kind != k.String() || gs.Count != g.Count(k) {
			return fmt.Errorf("snapshot group %d is %s x%d, scene has %s x%d", kind, gs.Kind, gs.Count, k, g.Count(k))
		}
		if !(gs.Factor >= 0 && gs.Factor <= 1) {
			return fmt.Errorf("snapshot %s factor %v outside [0,1]", gs.Kind, gs.Factor)
		}
		if gs.Target != 0 && gs.Target != 1 {
			return fmt.Errorf("snapshot %s target %v is neither 0 nor 1", gs.Kind, gs.Target)
		}
	}

	switch s.State {
	case components.Formed.String():
		g.state = components.Formed
	case components.Scattered.String():
		g.state = components.Scattered
	default:
		return fmt.Errorf("snapshot state %q unknown", s.State)
	}

	for kind, gs := range s.Groups {
		k := components.GroupKind(kind)
		e := g.groups[kind]
		form := g.formMap.Get(e)
		form.Factor = gs.Factor
		form.Target = gs.Target
		g.spinMap.Get(e).Angle = gs.Spin

		if gs.Mounted {
			g.Mount(k)
		} else {
			g.Unmount(k)
		}
		g.batchMap.Get(e).Frame = gs.Spin
	}

	star := g.starMap.Get(g.star)
	star.Position.X, star.Position.Y, star.Position.Z = s.Star.X, s.Star.Y, s.Star.Z
	star.Scale = s.Star.Scale
	star.SpinY = s.Star.SpinY

	g.pose.Invalidate()
	g.tick = s.Tick
	g.elapsed = s.Elapsed

	slog.Info("snapshot restored", "tick", s.Tick, "state", s.State)
	return nil
}
