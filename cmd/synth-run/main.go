// Command synth-run is a smoke driver against a travel-time store: it
// loads a station/target description, queries phase arrivals for a trial
// source and prints per-target taper windows.
package main

import (
	"encoding/json"
	"flag"
	"log"
	"os"

	"github.com/tremor-data/forward.report/internal/config"
	"github.com/tremor-data/forward.report/internal/faultsource"
	"github.com/tremor-data/forward.report/internal/gfstore"
	"github.com/tremor-data/forward.report/internal/synth"
	"github.com/tremor-data/forward.report/internal/units"
)

var (
	storePath   = flag.String("store", "", "Travel-time store (sqlite)")
	configPath  = flag.String("config", "", "Optional tuning config JSON")
	targetsPath = flag.String("targets", "", "Station list JSON")
	earthModel  = flag.String("earthmodel", "local", "Earth model name for store lookup")
	srcLat      = flag.Float64("lat", 0, "Trial source latitude (deg)")
	srcLon      = flag.Float64("lon", 0, "Trial source longitude (deg)")
	srcDepthKm  = flag.Float64("depth-km", 10, "Trial source depth (km)")
)

type stationFile struct {
	Channels []string              `json:"channels"`
	Stations []faultsource.Station `json:"stations"`
}

func main() {
	flag.Parse()
	if *storePath == "" || *targetsPath == "" {
		log.Fatal("missing required -store or -targets flag")
	}

	cfg := config.EmptyTuningConfig()
	if *configPath != "" {
		var err error
		cfg, err = config.LoadTuningConfig(*configPath)
		if err != nil {
			log.Fatalf("load config: %v", err)
		}
	}

	data, err := os.ReadFile(*targetsPath)
	if err != nil {
		log.Fatalf("read station list: %v", err)
	}
	var sf stationFile
	if err := json.Unmarshal(data, &sf); err != nil {
		log.Fatalf("parse station list: %v", err)
	}
	if len(sf.Channels) == 0 {
		sf.Channels = []string{gfstore.ChannelTransverse, gfstore.ChannelVertical}
	}

	store, err := gfstore.Open(*storePath)
	if err != nil {
		log.Fatalf("open travel-time store: %v", err)
	}
	defer store.Close()

	targets := faultsource.InitTargets(sf.Stations, sf.Channels,
		*earthModel, cfg.GetSampleRate(), []int{0})
	if len(targets) == 0 {
		log.Fatal("no targets resolved from station list")
	}

	src := &faultsource.RectangularSource{
		Lat:   *srcLat,
		Lon:   *srcLon,
		Depth: units.KmToM(*srcDepthKm),
	}
	taper := cfg.ArrivalTaper()

	for i := range targets {
		tgt := &targets[i]
		arrival, err := synth.ArrivalTime(store, src, tgt)
		if err != nil {
			log.Printf("%s: %v", tgt, err)
			continue
		}
		win := taper.Taperer(arrival)
		log.Printf("%s dist=%.1fkm arrival=%.2fs window=[%.2f %.2f %.2f %.2f]",
			tgt, units.MToKm(tgt.DistanceTo(src)), arrival,
			win.TA, win.TB, win.TC, win.TD)
	}
}
