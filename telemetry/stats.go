package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for a time window.
type WindowStats struct {
	WindowStartTick int32   `csv:"-"`
	WindowEndTick   int32   `csv:"window_end"`
	Elapsed         float64 `csv:"elapsed"`
	State           string  `csv:"state"`

	// Events during window
	Frames  int `csv:"frames"`
	Toggles int `csv:"toggles"`
	Solved  int `csv:"solved_groups"`
	Skipped int `csv:"skipped_groups"`
	Written int `csv:"transforms_written"`

	// Group state at window end
	NeedleForm   float64 `csv:"needle_form"`
	OrnamentForm float64 `csv:"ornament_form"`
	NeedleSpin   float64 `csv:"needle_spin"`
	OrnamentSpin float64 `csv:"ornament_spin"`
	StarY        float64 `csv:"star_y"`
	StarScale    float64 `csv:"star_scale"`

	// Needle distance from the tree axis (sampled at window end)
	SpreadMean float64 `csv:"spread_mean"`
	SpreadP10  float64 `csv:"spread_p10"`
	SpreadP50  float64 `csv:"spread_p50"`
	SpreadP90  float64 `csv:"spread_p90"`
}

// ComputeSpreadStats calculates mean and percentiles of radial distances.
func ComputeSpreadStats(values []float64) (mean, p10, p50, p90 float64) {
	if len(values) == 0 {
		return 0, 0, 0, 0
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	mean = stat.Mean(sorted, nil)
	p10 = stat.Quantile(0.10, stat.Empirical, sorted, nil)
	p50 = stat.Quantile(0.50, stat.Empirical, sorted, nil)
	p90 = stat.Quantile(0.90, stat.Empirical, sorted, nil)
	return mean, p10, p50, p90
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_start", int(s.WindowStartTick)),
		slog.Int("window_end", int(s.WindowEndTick)),
		slog.Float64("elapsed", s.Elapsed),
		slog.String("state", s.State),
		slog.Int("frames", s.Frames),
		slog.Int("toggles", s.Toggles),
		slog.Int("solved_groups", s.Solved),
		slog.Int("skipped_groups", s.Skipped),
		slog.Int("transforms_written", s.Written),
		slog.Float64("needle_form", s.NeedleForm),
		slog.Float64("ornament_form", s.OrnamentForm),
		slog.Float64("needle_spin", s.NeedleSpin),
		slog.Float64("ornament_spin", s.OrnamentSpin),
		slog.Float64("star_y", s.StarY),
		slog.Float64("star_scale", s.StarScale),
		slog.Float64("spread_mean", s.SpreadMean),
		slog.Float64("spread_p50", s.SpreadP50),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEndTick,
		"elapsed", s.Elapsed,
		"state", s.State,
		"frames", s.Frames,
		"toggles", s.Toggles,
		"needle_form", s.NeedleForm,
		"ornament_form", s.OrnamentForm,
		"star_y", s.StarY,
		"spread_mean", s.SpreadMean,
		"spread_p10", s.SpreadP10,
		"spread_p90", s.SpreadP90,
		"skipped_groups", s.Skipped,
	)
}
