package game

import (
	"github.com/pthm-cable/evergreen/components"
	"github.com/pthm-cable/evergreen/config"
	"github.com/pthm-cable/evergreen/telemetry"
)

// DT is the fixed frame delta used by headless hosts.
const DT = 1.0 / 60.0

// Options holds configuration for scene initialization.
type Options struct {
	Config *config.Config // nil = config.Cfg()
	Seed   int64
	State  components.TreeState // initial external state

	LogStats       bool
	StatsWindowSec float64 // 0 = use config
	SnapshotDir    string  // snapshot on every bookmark when set
	OutputDir      string  // CSV output when set

	StatsCallback func(telemetry.WindowStats)
}
