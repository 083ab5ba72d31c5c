// Command ensemble generates an ensemble of perturbed earth models
// around a reference velocity-depth profile and writes one JSON document
// per accepted variant.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math/rand/v2"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/tremor-data/forward.report/internal/config"
	"github.com/tremor-data/forward.report/internal/earthmodel"
	"github.com/tremor-data/forward.report/internal/units"
)

var (
	modelPath  = flag.String("model", "", "Reference profile file (depth vp vs rho columns)")
	configPath = flag.String("config", "", "Optional tuning config JSON")
	count      = flag.Int("count", 10, "Number of accepted variants to generate")
	errDepth   = flag.Float64("err-depth", -1, "Fractional depth uncertainty (overrides config)")
	errVel     = flag.Float64("err-vel", -1, "Fractional velocity uncertainty (overrides config)")
	depthLimit = flag.Float64("depth-limit-km", -1, "Depth limit in km (overrides config)")
	seed       = flag.Uint64("seed", 0, "Random seed (0 = non-deterministic)")
	timeout    = flag.Duration("timeout", 10*time.Minute, "Watchdog for the rejection loop")
	outDir     = flag.String("out", ".", "Output directory for variant JSON files")
)

type variantDoc struct {
	RunID string                   `json:"run_id"`
	Index int                      `json:"index"`
	Model *earthmodel.LayeredModel `json:"model"`
}

func main() {
	flag.Parse()
	if *modelPath == "" {
		log.Fatal("missing required -model flag")
	}

	cfg := config.EmptyTuningConfig()
	if *configPath != "" {
		var err error
		cfg, err = config.LoadTuningConfig(*configPath)
		if err != nil {
			log.Fatalf("load config: %v", err)
		}
	}

	pcfg := cfg.PerturbConfig()
	if *errDepth >= 0 {
		pcfg.ErrDepth = *errDepth
	}
	if *errVel >= 0 {
		pcfg.ErrVelocity = *errVel
	}
	if *depthLimit >= 0 {
		pcfg.DepthLimit = units.KmToM(*depthLimit)
	}

	ref, err := earthmodel.LoadProfile(*modelPath)
	if err != nil {
		log.Fatalf("load reference profile: %v", err)
	}

	var src rand.Source
	if *seed != 0 {
		src = rand.NewPCG(*seed, *seed)
	}

	gen := earthmodel.NewGenerator(earthmodel.NewPerturber(pcfg, src))
	gen.CostThreshold = cfg.GetAcceptCost()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	start := time.Now()
	variants, err := gen.Generate(ctx, ref, *count)
	if err != nil {
		log.Fatalf("generate ensemble: %v", err)
	}

	runID := uuid.New().String()
	for i, v := range variants {
		doc := variantDoc{RunID: runID, Index: i, Model: v}
		data, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			log.Fatalf("marshal variant %d: %v", i, err)
		}
		path := filepath.Join(*outDir, fmt.Sprintf("earthmodel_%s_%03d.json", runID, i))
		if err := os.WriteFile(path, data, 0o644); err != nil {
			log.Fatalf("write variant %d: %v", i, err)
		}
	}

	log.Printf("run %s: wrote %d variants to %s in %s",
		runID, len(variants), *outDir, time.Since(start).Round(time.Millisecond))
}
