// cmd/vertisim runs a vertiport network simulation, either as a single
// run or as a sweep over an increasing demand count.
//
// Usage:
//
//	go run ./cmd/vertisim -aircraft aircraft.json -vertiports vertiports.json \
//	        -demands demands.json -stations stations.json -params params.json
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/goforj/godump"
	"golang.org/x/sync/errgroup"

	vlog "github.com/nimbusfleet/vertisim/log"
	vrand "github.com/nimbusfleet/vertisim/rand"
	"github.com/nimbusfleet/vertisim/sim"
	"github.com/nimbusfleet/vertisim/util"
)

var (
	aircraftPath   = flag.String("aircraft", "", "path to the aircraft-info JSON table")
	vertiportsPath = flag.String("vertiports", "", "path to the initial vertiport-network JSON")
	demandsPath    = flag.String("demands", "", "path to the demand-list JSON")
	stationsPath   = flag.String("stations", "", "path to the max-station-time JSON table")
	paramsPath     = flag.String("params", "", "path to the scalar-parameters JSON")

	sweepStart = flag.Int("sweep-start", 0, "first demand count of a sweep (0 disables sweeping)")
	sweepEnd   = flag.Int("sweep-end", 0, "last demand count of a sweep, inclusive")
	sweepStep  = flag.Int("sweep-step", 1, "demand-count increment between sweep runs")
	nWorkers   = flag.Int("nworkers", 4, "number of concurrent sweep workers")
	capacity   = flag.Int("capacity", 4, "aircraft seat capacity, for the cost reducer (4, 8 or 12)")

	dump     = flag.Bool("dump", false, "pretty-print the final world and cost summary")
	logLevel = flag.String("loglevel", "info", "log level: debug, info, warn, error")
	logDir   = flag.String("logdir", "", "directory for log files (default: per-OS config dir, or ./vertisim-logs for a sweep)")
)

func main() {
	flag.Parse()

	lg := vlog.New(*sweepEnd > *sweepStart, *logLevel, *logDir)

	if *aircraftPath == "" || *vertiportsPath == "" || *demandsPath == "" || *stationsPath == "" || *paramsPath == "" {
		fmt.Fprintln(os.Stderr, "aircraft, vertiports, demands, stations and params are all required")
		flag.PrintDefaults()
		os.Exit(1)
	}

	aircraftInfo, table, paramsSpec, e := loadStaticInputs(*aircraftPath, *stationsPath, *paramsPath)
	if e.HaveErrors() {
		e.PrintErrors(lg)
		os.Exit(1)
	}

	var e2 util.ErrorLogger
	params := paramsSpec.ToParams(&e2)
	if e2.HaveErrors() {
		e2.PrintErrors(lg)
		os.Exit(1)
	}

	if *sweepEnd <= *sweepStart {
		runOnce(aircraftInfo, table, &params, lg)
		return
	}

	runSweep(aircraftInfo, table, &params, lg)
}

func loadStaticInputs(aircraftPath, stationsPath, paramsPathArg string) (map[int]sim.AircraftPerformance, *sim.MaxStationTimeTable, sim.ParamsSpec, *util.ErrorLogger) {
	var e util.ErrorLogger

	aircraftInfo, err := loadAircraftInfoCached(aircraftPath, &e)
	if err != nil {
		e.Error(err)
	}

	sf, err := os.Open(stationsPath)
	if err != nil {
		e.Error(err)
		return aircraftInfo, nil, sim.ParamsSpec{}, &e
	}
	defer sf.Close()
	table := sim.LoadMaxStationTimeTable(sf, &e)

	pf, err := os.Open(paramsPathArg)
	if err != nil {
		e.Error(err)
		return aircraftInfo, table, sim.ParamsSpec{}, &e
	}
	defer pf.Close()
	var paramsSpec sim.ParamsSpec
	if err := util.UnmarshalJSON(pf, &paramsSpec); err != nil {
		e.Error(err)
	}

	return aircraftInfo, table, paramsSpec, &e
}

// loadAircraftInfoCached loads the aircraft-info table at aircraftPath,
// consulting a local disk cache keyed by the table's file name first. A
// sweep is typically run repeatedly against the same aircraft-info file
// while vertiport or demand inputs are iterated on, so caching the
// parsed-and-type-checked table saves re-doing that work each run. A
// cache entry is used only if it postdates the source file's own mtime.
func loadAircraftInfoCached(aircraftPath string, e *util.ErrorLogger) (map[int]sim.AircraftPerformance, error) {
	fi, err := os.Stat(aircraftPath)
	if err != nil {
		return nil, err
	}

	cacheKey := filepath.Join("aircraft-info", filepath.Base(aircraftPath)+".cache")

	var cached map[int]sim.AircraftPerformance
	if cachedAt, err := util.CacheRetrieveObject(cacheKey, &cached); err == nil && cachedAt.After(fi.ModTime()) {
		return cached, nil
	}

	af, err := os.Open(aircraftPath)
	if err != nil {
		return nil, err
	}
	defer af.Close()

	table, err := sim.LoadAircraftInfo(af, e)
	if err != nil {
		return nil, err
	}

	// Best-effort: a cache write or cull failure doesn't invalidate the
	// table we just parsed.
	util.CacheStoreObject(cacheKey, table)
	util.CacheCullObjects(64 << 20)

	return table, nil
}

func loadWorld(aircraftInfo map[int]sim.AircraftPerformance, e *util.ErrorLogger) *sim.World {
	vf, err := os.Open(*vertiportsPath)
	if err != nil {
		e.Error(err)
		return nil
	}
	defer vf.Close()

	df, err := os.Open(*demandsPath)
	if err != nil {
		e.Error(err)
		return nil
	}
	defer df.Close()

	return sim.LoadWorld(vf, df, aircraftInfo, e)
}

func runOnce(aircraftInfo map[int]sim.AircraftPerformance, table *sim.MaxStationTimeTable, params *sim.Params, lg *vlog.Logger) {
	var e util.ErrorLogger
	w := loadWorld(aircraftInfo, &e)
	if e.HaveErrors() {
		e.PrintErrors(lg)
		os.Exit(1)
	}

	result := sim.Run(w, params, table, lg, nil)
	report(w, result, *capacity)
}

// runSweep runs one simulation per demand count in
// [sweepStart, sweepEnd] stepping by sweepStep, each against its own deep
// copy (sim.Snapshot) of the initial world, which is loaded once, so sweep
// points don't share state.
// Workers are bounded by nWorkers via an errgroup-managed semaphore.
func runSweep(aircraftInfo map[int]sim.AircraftPerformance, table *sim.MaxStationTimeTable, params *sim.Params, lg *vlog.Logger) {
	var baseErr util.ErrorLogger
	base := loadWorld(aircraftInfo, &baseErr)
	if baseErr.HaveErrors() {
		baseErr.PrintErrors(lg)
		os.Exit(1)
	}

	var eg errgroup.Group
	sem := make(chan struct{}, *nWorkers)
	var anyFatal util.AtomicBool

	for n := *sweepStart; n <= *sweepEnd; n += *sweepStep {
		n := n
		eg.Go(func() error {
			sem <- struct{}{}
			defer func() { <-sem }()

			w := sim.Snapshot(base)
			r := vrand.New()
			r.Seed(int64(n))
			demands := sim.GenerateDemandSchedule(w, &r, n, params.StartTime, params.EndTime, nextDemandID(w))
			w.Demands = append(w.Demands, demands...)
			w.Reindex()

			result := sim.Run(w, params, table, lg, nil)
			if len(result.Messages) > 0 {
				anyFatal.Store(true)
			}
			lg.Infof("sweep point %d demands: %d messages, final epoch %d", n, len(result.Messages), result.FinalEpoch)
			report(w, result, *capacity)
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		lg.Errorf("sweep failed: %v", err)
		os.Exit(1)
	}
	if anyFatal.Load() {
		lg.Warnf("sweep included one or more points that hit a fatal condition")
	}
}

func nextDemandID(w *sim.World) int {
	max := 0
	for _, d := range w.Demands {
		if d.ID > max {
			max = d.ID
		}
	}
	return max + 1
}

func report(w *sim.World, result sim.Result, capacity int) {
	if len(result.Messages) > 0 {
		fmt.Printf("aborted at epoch %d: %v\n", result.FinalEpoch, result.Messages)
		return
	}

	cost := sim.ComputeCost(w, capacity)
	satisfiedPct, satisfied := sim.SatisfiedDemandCount(w)
	flights := sim.NumberOfFlights(w)

	fmt.Printf("completed at epoch %d\n", result.FinalEpoch)
	fmt.Printf("  satisfied: %.1f%% (%d/%d)\n", satisfiedPct, satisfied, len(w.Demands))
	fmt.Printf("  mean flight delay: %.2f h\n", sim.MeanFlightDelayHours(w))
	fmt.Printf("  mean flight hours: %.2f h\n", sim.MeanFlightHours(w))
	fmt.Printf("  flights: %d\n", flights)
	fmt.Printf("  cost: total=%.2f per_demand=%.2f per_aircraft=%.2f\n",
		cost.TotalCost, cost.CostPerDemand, cost.CostPerAircraft)

	if *dump {
		godump.Dump(w)
		godump.Dump(cost)
	}
}
