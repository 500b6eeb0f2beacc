package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gocarina/gocsv"
	"gonum.org/v1/gonum/optimize"

	"github.com/pthm-cable/evergreen/config"
)

// evalRow is one line of tune_log.csv.
type evalRow struct {
	Eval          int     `csv:"eval"`
	Fitness       float64 `csv:"fitness"`
	NeedleRate    float64 `csv:"needle_rate"`
	OrnamentRate  float64 `csv:"ornament_rate"`
	BaseSmoothing float64 `csv:"base_smoothing"`
	StarLerpRate  float64 `csv:"star_lerp_rate"`
	NeedlesSec    float64 `csv:"needles_sec"`
	OrnamentsSec  float64 `csv:"ornaments_sec"`
	StarSec       float64 `csv:"star_sec"`
	ReleaseSec    float64 `csv:"release_sec"`
}

// formatDuration formats a duration as HH:MM:SS or MM:SS for shorter durations.
func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second

	if h > 0 {
		return fmt.Sprintf("%dh%02dm%02ds", h, m, s)
	}
	return fmt.Sprintf("%dm%02ds", m, s)
}

func main() {
	configPath := flag.String("config", "", "Base config YAML file (empty = use defaults)")
	needles := flag.Float64("needles", 2.0, "Target seconds for needles to fully form")
	ornaments := flag.Float64("ornaments", 3.0, "Target seconds for ornaments to fully form")
	star := flag.Float64("star", 2.5, "Target seconds for the star to reach the apex")
	release := flag.Float64("release", 3.0, "Target seconds to fully scatter again")
	minLead := flag.Float64("min-lead", 0.5, "Minimum seconds the ornaments trail the needles")
	maxSeconds := flag.Float64("max-seconds", 30, "Cap on simulated seconds per phase")
	maxEvals := flag.Int("max-evals", 300, "Maximum number of evaluations")
	population := flag.Int("population", 0, "CMA-ES population size (0 = auto)")
	outputDir := flag.String("output", "", "Output directory for results")
	flag.Parse()

	if *outputDir == "" {
		log.Fatal("--output is required")
	}
	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		log.Fatalf("failed to create output directory: %v", err)
	}

	// Scene construction logs are noise here
	slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))

	baseCfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	params := NewParamVector()
	targets := Targets{
		Needles:   *needles,
		Ornaments: *ornaments,
		Star:      *star,
		Release:   *release,
		MinLead:   *minLead,
	}
	frameRates := []float64{30, 60, 144}
	evaluator := NewFitnessEvaluator(params, *configPath, targets, frameRates, *maxSeconds)

	dim := params.Dim()
	initX := params.Normalize(params.Clamp(params.ExtractFromConfig(baseCfg)))

	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			return evaluator.Evaluate(params.Denormalize(x))
		},
	}

	settings := &optimize.Settings{
		FuncEvaluations: *maxEvals,
		Concurrent:      0,
	}

	popSize := *population
	if popSize == 0 {
		popSize = 4 + int(3.0*float64(dim)/2.0)
	}

	method := &optimize.CmaEsChol{
		InitStepSize: 0.3,
		Population:   popSize,
	}

	logPath := filepath.Join(*outputDir, "tune_log.csv")
	logFile, err := os.Create(logPath)
	if err != nil {
		log.Fatalf("failed to create log file: %v", err)
	}
	defer logFile.Close()

	evalCount := 0
	bestFitness := 1e9
	var bestParams []float64
	startTime := time.Now()

	originalFunc := problem.Func
	problem.Func = func(x []float64) float64 {
		fitness := originalFunc(x)
		evalCount++

		clamped := params.Clamp(params.Denormalize(x))
		if fitness < bestFitness {
			bestFitness = fitness
			bestParams = append(bestParams[:0], clamped...)
		}

		tm := evaluator.LastTiming()
		row := []evalRow{{
			Eval:          evalCount,
			Fitness:       fitness,
			NeedleRate:    clamped[0],
			OrnamentRate:  clamped[1],
			BaseSmoothing: clamped[2],
			StarLerpRate:  clamped[3],
			NeedlesSec:    tm.needles,
			OrnamentsSec:  tm.ornaments,
			StarSec:       tm.star,
			ReleaseSec:    tm.release,
		}}
		if evalCount == 1 {
			err = gocsv.Marshal(row, logFile)
		} else {
			err = gocsv.MarshalWithoutHeaders(row, logFile)
		}
		if err != nil {
			log.Printf("failed to log eval %d: %v", evalCount, err)
		}

		elapsed := time.Since(startTime)
		remaining := time.Duration(*maxEvals-evalCount) * (elapsed / time.Duration(evalCount))
		fmt.Printf("Eval %d/%d: needles=%.2fs ornaments=%.2fs star=%.2fs release=%.2fs fitness=%.4f (best=%.4f) | elapsed: %s, ETA: %s\n",
			evalCount, *maxEvals, tm.needles, tm.ornaments, tm.star, tm.release, fitness, bestFitness,
			formatDuration(elapsed), formatDuration(remaining))

		return fitness
	}

	fmt.Printf("Starting CMA-ES tuning with %d parameters, population=%d, max_evals=%d\n",
		dim, popSize, *maxEvals)
	fmt.Printf("Frame rates per evaluation: %v\n", frameRates)

	result, err := optimize.Minimize(problem, initX, settings, method)
	if err != nil {
		log.Printf("tuning ended: %v", err)
	}

	if bestParams == nil {
		bestParams = params.Clamp(params.Denormalize(result.X))
	}

	fmt.Printf("\nTuning complete after %d evaluations in %s\n", evalCount, formatDuration(time.Since(startTime)))
	fmt.Printf("Best fitness: %.6f\n", bestFitness)

	fmt.Println("\nBest parameters:")
	for i, spec := range params.Specs {
		fmt.Printf("  %s: %.6f\n", spec.Path, bestParams[i])
	}

	params.ApplyToConfig(baseCfg, bestParams)
	configOutPath := filepath.Join(*outputDir, "best_config.yaml")
	if err := baseCfg.WriteYAML(configOutPath); err != nil {
		log.Printf("failed to write best config: %v", err)
	} else {
		fmt.Printf("\nBest config saved to: %s\n", configOutPath)
	}
}
