// Package main searches for the spatial index cell size that minimises
// per-tick query work over headless autopilot runs.
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gonum.org/v1/gonum/optimize"

	"github.com/pthm-cable/scroller/config"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Base config YAML file (empty = use defaults)")
	maxTicks := flag.Int("max-ticks", 6000, "Ticks per run (cap)")
	seeds := flag.Int("seeds", 3, "Number of autopilot seeds per evaluation")
	maxEvals := flag.Int("max-evals", 30, "Maximum number of evaluations")
	minCell := flag.Int("min-cell", 50, "Smallest cell size considered")
	maxCell := flag.Int("max-cell", 5000, "Largest cell size considered")
	cellWeight := flag.Float64("cell-weight", 4, "Cost of visiting a cell relative to testing one candidate")
	sweep := flag.Bool("sweep", false, "Measure every candidate instead of searching")
	outputDir := flag.String("output", "", "Output directory for results")
	flag.Parse()

	if *outputDir == "" {
		log.Fatal("--output is required")
	}
	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		log.Fatalf("failed to create output directory: %v", err)
	}

	// Game runs log through slog; keep only problems.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})))

	baseCfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	space := NewCellSpace(baseCfg.World.Size, *minCell, *maxCell)
	if space.Len() == 0 {
		log.Fatalf("no cell size in [%d, %d] divides world size %d", *minCell, *maxCell, baseCfg.World.Size)
	}

	evalSeeds := make([]int64, *seeds)
	for i := range evalSeeds {
		evalSeeds[i] = int64(i*1000 + 42)
	}
	evaluator := NewCostEvaluator(baseCfg, int32(*maxTicks), evalSeeds, *cellWeight)

	logPath := filepath.Join(*outputDir, "tune_log.csv")
	logFile, err := os.Create(logPath)
	if err != nil {
		log.Fatalf("failed to create log file: %v", err)
	}
	defer logFile.Close()

	logWriter := csv.NewWriter(logFile)
	defer logWriter.Flush()
	logWriter.Write([]string{"eval", "cell_size", "cost", "cells_per_tick", "candidates_per_tick", "hits_per_tick", "false_positive_ratio"})

	evalCount := 0
	best := Measurement{Cost: math.Inf(1)}
	startTime := time.Now()

	measure := func(cellSize int) float64 {
		m, err := evaluator.Evaluate(cellSize)
		if err != nil {
			log.Printf("cell size %d: %v", cellSize, err)
			return math.Inf(1)
		}
		evalCount++
		if m.Cost < best.Cost {
			best = m
		}

		logWriter.Write([]string{
			strconv.Itoa(evalCount),
			strconv.Itoa(m.CellSize),
			fmt.Sprintf("%.3f", m.Cost),
			fmt.Sprintf("%.3f", m.CellsPerTick),
			fmt.Sprintf("%.3f", m.CandsPerTick),
			fmt.Sprintf("%.3f", m.HitsPerTick),
			fmt.Sprintf("%.4f", m.FalsePositive),
		})
		logWriter.Flush()

		fmt.Printf("Eval %d: cell=%d cost=%.1f cells=%.1f candidates=%.1f fp=%.2f (best=%d) | elapsed: %s\n",
			evalCount, m.CellSize, m.Cost, m.CellsPerTick, m.CandsPerTick, m.FalsePositive,
			best.CellSize, time.Since(startTime).Round(time.Second))
		return m.Cost
	}

	if *sweep {
		fmt.Printf("Sweeping %d cell sizes, seeds=%d, ticks per run=%d\n", space.Len(), *seeds, *maxTicks)
		for _, c := range space.Sizes {
			measure(c)
		}
	} else {
		problem := optimize.Problem{
			Func: func(x []float64) float64 {
				return measure(space.Snap(x[0]))
			},
		}
		settings := &optimize.Settings{
			FuncEvaluations: *maxEvals,
			Concurrent:      0, // Sequential evaluation
		}
		initX := []float64{space.Normalize(baseCfg.World.CellSize)}

		fmt.Printf("Searching %d cell sizes, max_evals=%d, seeds=%d, ticks per run=%d\n",
			space.Len(), *maxEvals, *seeds, *maxTicks)
		if _, err := optimize.Minimize(problem, initX, settings, &optimize.NelderMead{}); err != nil {
			log.Printf("optimization ended: %v", err)
		}
	}

	if math.IsInf(best.Cost, 1) {
		log.Fatal("no successful evaluation")
	}

	fmt.Printf("\nDone after %d evaluations in %s\n", evalCount, time.Since(startTime).Round(time.Second))
	fmt.Printf("Best cell size: %d (cost %.1f per tick, false positives %.0f%%)\n",
		best.CellSize, best.Cost, 100*best.FalsePositive)

	bestCfg, err := ApplyToConfig(baseCfg, best.CellSize)
	if err != nil {
		log.Fatalf("failed to apply best cell size: %v", err)
	}
	configOutPath := filepath.Join(*outputDir, "best_config.yaml")
	if err := bestCfg.WriteYAML(configOutPath); err != nil {
		log.Printf("failed to write best config: %v", err)
	} else {
		fmt.Printf("Best config saved to: %s\n", configOutPath)
	}
}
