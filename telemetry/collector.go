package telemetry

import "github.com/pthm-cable/evergreen/components"

// Sample is the scene state captured when a window is flushed.
type Sample struct {
	State        components.TreeState
	NeedleForm   float64
	OrnamentForm float64
	NeedleSpin   float64
	OrnamentSpin float64
	StarY        float64
	StarScale    float64
	Spread       []float64 // Needle radial distances from the tree axis
}

// Collector accumulates frame events within time windows and produces WindowStats.
// Windows are measured in elapsed seconds since frame deltas vary.
type Collector struct {
	windowDurationSec float64

	// Current window tracking
	windowStartTick    int32
	windowStartElapsed float64

	// Event counters for current window
	frames  int
	toggles int
	solved  int
	skipped int
	written int
}

// NewCollector creates a new stats collector.
// windowDurationSec: how long each stats window lasts in scene seconds.
func NewCollector(windowDurationSec float64) *Collector {
	if windowDurationSec <= 0 {
		windowDurationSec = 1
	}
	return &Collector{windowDurationSec: windowDurationSec}
}

// RecordFrame records the pose work done in one frame.
func (c *Collector) RecordFrame(solved, skipped, written int) {
	c.frames++
	c.solved += solved
	c.skipped += skipped
	c.written += written
}

// RecordToggle records an external state change.
func (c *Collector) RecordToggle() {
	c.toggles++
}

// ShouldFlush returns true if the current window has ended.
func (c *Collector) ShouldFlush(elapsed float64) bool {
	return elapsed-c.windowStartElapsed >= c.windowDurationSec
}

// Flush produces WindowStats for the current window and resets counters.
func (c *Collector) Flush(tick int32, elapsed float64, s Sample) WindowStats {
	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   tick,
		Elapsed:         elapsed,
		State:           s.State.String(),
		Frames:          c.frames,
		Toggles:         c.toggles,
		Solved:          c.solved,
		Skipped:         c.skipped,
		Written:         c.written,
		NeedleForm:      s.NeedleForm,
		OrnamentForm:    s.OrnamentForm,
		NeedleSpin:      s.NeedleSpin,
		OrnamentSpin:    s.OrnamentSpin,
		StarY:           s.StarY,
		StarScale:       s.StarScale,
	}
	stats.SpreadMean, stats.SpreadP10, stats.SpreadP50, stats.SpreadP90 = ComputeSpreadStats(s.Spread)

	c.windowStartTick = tick
	c.windowStartElapsed = elapsed
	c.frames = 0
	c.toggles = 0
	c.solved = 0
	c.skipped = 0
	c.written = 0

	return stats
}
