package game

import (
	"fmt"
	"io"
	"time"

	"github.com/pthm-cable/evergreen/components"
	"github.com/pthm-cable/evergreen/telemetry"
)

// logWriter is the destination for log output.
var logWriter io.Writer

// SetLogWriter sets the log output destination.
func SetLogWriter(w io.Writer) {
	logWriter = w
}

// Logf writes a formatted log message.
func Logf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if logWriter != nil {
		fmt.Fprintln(logWriter, msg)
	} else {
		fmt.Println(msg)
	}
}

// LogPerfStats logs per-phase tick timing.
func (g *Game) LogPerfStats() {
	stats := g.perfCollector.Stats()
	Logf("=== Perf @ Tick %d | FPS: %.0f ===", g.tick, stats.FPS)
	Logf("Avg tick: %s (min %s, max %s)",
		stats.AvgTickDuration.Round(time.Microsecond),
		stats.MinTickDuration.Round(time.Microsecond),
		stats.MaxTickDuration.Round(time.Microsecond))

	for ph := telemetry.PhaseTransition; ph <= telemetry.PhaseTelemetry; ph++ {
		Logf("  %-12s %10s  %5.1f%%", ph, stats.PhaseAvg[ph].Round(time.Microsecond), stats.PhasePct[ph])
	}
	Logf("")
}

// LogSceneState logs every group's animation state.
func (g *Game) LogSceneState() {
	Logf("=== Tick %d (%.2fs) state=%s ===", g.tick, g.elapsed, g.state)

	for kind, e := range g.groups {
		form := g.formMap.Get(e)
		batch := g.batchMap.Get(e)
		status := "settled"
		if !form.Settled() {
			status = fmt.Sprintf("easing to %g", form.Target)
		}
		Logf("%-10s x%-5d form=%.4f (%s) spin=%.3f mounted=%v writes=%d",
			components.GroupKind(kind), len(g.geomMap.Get(e).Particles),
			form.Factor, status, g.spinMap.Get(e).Angle, batch.Mounted(), batch.Version)
	}

	star := g.starMap.Get(g.star)
	Logf("star       pos=(%.2f, %.2f, %.2f) scale=%.3f spin=%.3f",
		star.Position.X, star.Position.Y, star.Position.Z, star.Scale, star.SpinY)
	Logf("")
}
