// sim/config.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package sim

import (
	"io"

	"github.com/nimbusfleet/vertisim/util"
)

// checkAndUnmarshal reads all of r, type-checks the raw JSON against T
// under the hierarchy frame name (catching misspelled or unexpected
// fields that a plain Unmarshal would silently ignore) and flags any
// duplicate object keys, then decodes it into out. Problems found by
// either check are accumulated in e but do not by themselves prevent
// the decode from being attempted.
func checkAndUnmarshal[T any](r io.Reader, name string, out *T, e *util.ErrorLogger) error {
	b, err := io.ReadAll(r)
	if err != nil {
		return err
	}

	e.Push(name)
	util.CheckJSON[T](b, e)
	for _, dup := range util.FindDuplicateJSONKeys(b) {
		e.ErrorString("duplicate key %q at %q", dup.Key, dup.Path)
	}
	e.Pop()

	return util.UnmarshalJSONBytes(b, out)
}

// AircraftInfoSpec is the JSON-serializable form of one aircraft-info table
// row, keyed by db_id by the caller.
type AircraftInfoSpec struct {
	ClimbSpeedKt     float32 `json:"climb_speed_kt"`
	ClimbRateFPM     float32 `json:"climb_rate_fpm"`
	CruiseAltitudeFt float32 `json:"cruise_altitude_ft"`
	CruiseSpeedKt    float32 `json:"cruise_speed_kt"`
	DescentSpeedKt   float32 `json:"descent_speed_kt"`
	DescentRateFPM   float32 `json:"descent_rate_fpm"`
	Capacity         int     `json:"capacity"`
}

// PadSpec is the JSON-serializable form of an initial Pad.
type PadSpec struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// AircraftSpec is the JSON-serializable form of an initial Aircraft. All
// aircraft in the initial world start ready, on the ground, with no
// schedule and no onboard demands, per the external-interface contract.
type AircraftSpec struct {
	ID int `json:"id"`
	DB int `json:"db_id"`
}

// VertiportSpec is the JSON-serializable form of an initial Vertiport.
type VertiportSpec struct {
	ID       int            `json:"id"`
	Name     string         `json:"name"`
	Position [2]float32     `json:"position"`
	Capacity int            `json:"capacity"`
	Pads     []PadSpec      `json:"pads"`
	Aircraft []AircraftSpec `json:"aircraft"`
}

// DemandSpec is the JSON-serializable form of an initial Demand.
type DemandSpec struct {
	ID            int   `json:"id"`
	OriginID      int   `json:"origin_id"`
	DestinationID int   `json:"destination_id"`
	StartTime     int64 `json:"start_time"`
}

// StationCurveSpec is one (arrival_rate, max_seconds) interpolation point
// for a single considered_capacity curve.
type StationCurveSpec struct {
	Rate       float64 `json:"arrival_rate"`
	MaxSeconds float64 `json:"max_seconds"`
}

// ParamsSpec is the JSON-serializable form of Params; Mode is spelled out
// as one of the four strings ModeFromString accepts.
type ParamsSpec struct {
	LandingOccupationTime   int64  `json:"landing_occupation_time"`
	TakeoffOccupationTime   int64  `json:"takeoff_occupation_time"`
	BatterySwapTime         int64  `json:"battery_swap_time"`
	BoardTimePerPassenger   int64  `json:"board_time_per_passenger"`
	DeboardTimePerPassenger int64  `json:"deboard_time_per_passenger"`
	HoldingDuration         int64  `json:"holding_duration"`
	MaximumWaitTime         int64  `json:"maximum_wait_time"`
	Mode                    string `json:"mode"`
	StartTime               int64  `json:"start_time"`
	EndTime                 int64  `json:"end_time"`
	TimeStep                int64  `json:"time_step"`
}

// ToParams validates and converts spec into a Params, reporting problems
// through e rather than returning an error, so a caller loading several
// scalar fields at once can accumulate every problem before failing.
func (spec ParamsSpec) ToParams(e *util.ErrorLogger) Params {
	mode, ok := ModeFromString(spec.Mode)
	if !ok {
		e.ErrorString("%q is not a recognized departure policy mode", spec.Mode)
	}
	if spec.EndTime < spec.StartTime {
		e.Error(ErrEndBeforeStart)
	}
	if spec.TimeStep <= 0 {
		e.ErrorString("time_step must be positive, got %d", spec.TimeStep)
	}

	return Params{
		LandingOccupationTime:   spec.LandingOccupationTime,
		TakeoffOccupationTime:   spec.TakeoffOccupationTime,
		BatterySwapTime:         spec.BatterySwapTime,
		BoardTimePerPassenger:   spec.BoardTimePerPassenger,
		DeboardTimePerPassenger: spec.DeboardTimePerPassenger,
		HoldingDuration:         spec.HoldingDuration,
		MaximumWaitTime:         spec.MaximumWaitTime,
		Mode:                    mode,
		StartTime:               spec.StartTime,
		EndTime:                 spec.EndTime,
		TimeStep:                spec.TimeStep,
	}
}

// LoadAircraftInfo reads a db_id -> AircraftInfoSpec table from r.
func LoadAircraftInfo(r io.Reader, e *util.ErrorLogger) (map[int]AircraftPerformance, error) {
	var specs map[int]AircraftInfoSpec
	if err := checkAndUnmarshal(r, "aircraft-info", &specs, e); err != nil {
		return nil, err
	}
	table := make(map[int]AircraftPerformance, len(specs))
	for id, s := range specs {
		table[id] = AircraftPerformance{
			ClimbSpeedKt:     s.ClimbSpeedKt,
			ClimbRateFPM:     s.ClimbRateFPM,
			CruiseAltitudeFt: s.CruiseAltitudeFt,
			CruiseSpeedKt:    s.CruiseSpeedKt,
			DescentSpeedKt:   s.DescentSpeedKt,
			DescentRateFPM:   s.DescentRateFPM,
			Capacity:         s.Capacity,
		}
	}
	return table, nil
}

// LoadWorld reads an ordered list of VertiportSpec and a list of
// DemandSpec, cross-checks them against aircraftInfo, and returns a fully
// indexed World. All reported problems are accumulated in e. Once both
// inputs decode, a non-nil World is returned even if validation found
// problems, so a caller inspecting e.HaveErrors() can still look at what
// was parsed; if either input cannot be read or decoded, nil is returned.
func LoadWorld(vertiportsR, demandsR io.Reader, aircraftInfo map[int]AircraftPerformance, e *util.ErrorLogger) *World {
	var vertiportSpecs []VertiportSpec
	if err := checkAndUnmarshal(vertiportsR, "vertiports", &vertiportSpecs, e); err != nil {
		e.Error(err)
		return nil
	}
	var demandSpecs []DemandSpec
	if err := checkAndUnmarshal(demandsR, "demands", &demandSpecs, e); err != nil {
		e.Error(err)
		return nil
	}

	w := &World{AircraftInfo: aircraftInfo}
	seenVertiport := make(map[int]bool)

	for _, vs := range vertiportSpecs {
		e.Push(vs.Name)

		if seenVertiport[vs.ID] {
			e.Error(ErrDuplicateVertiportID)
		}
		seenVertiport[vs.ID] = true

		v := &Vertiport{ID: vs.ID, Name: vs.Name, Position: vs.Position, Capacity: vs.Capacity}
		seenPad := make(map[int]bool)
		for _, ps := range vs.Pads {
			if seenPad[ps.ID] {
				e.ErrorString("duplicate pad id %d", ps.ID)
			}
			seenPad[ps.ID] = true
			v.Pads = append(v.Pads, &Pad{ID: ps.ID, Name: ps.Name, Status: PadReady})
		}

		seenAircraft := make(map[int]bool)
		for _, as := range vs.Aircraft {
			if seenAircraft[as.ID] {
				e.Error(ErrDuplicateAircraftID)
			}
			seenAircraft[as.ID] = true

			perf, ok := aircraftInfo[as.DB]
			if !ok {
				e.Error(ErrUnknownAircraftDBID)
				continue
			}
			v.AddAircraft(&Aircraft{ID: as.ID, DBID: as.DB, Status: AircraftReady, Capacity: perf.Capacity})
		}

		w.Vertiports = append(w.Vertiports, v)
		e.Pop()
	}

	w.Reindex()

	seenDemand := make(map[int]bool)
	for _, ds := range demandSpecs {
		e.Push("demand")

		if seenDemand[ds.ID] {
			e.Error(ErrDuplicateDemandID)
		}
		seenDemand[ds.ID] = true

		if ds.OriginID == ds.DestinationID {
			e.Error(ErrSameOriginDestination)
		}
		if w.VertiportByID(ds.OriginID) == nil {
			e.Error(ErrUnknownOriginVertiport)
		}
		if w.VertiportByID(ds.DestinationID) == nil {
			e.Error(ErrUnknownDestVertiport)
		}

		w.Demands = append(w.Demands, &Demand{
			ID:            ds.ID,
			OriginID:      ds.OriginID,
			DestinationID: ds.DestinationID,
			StartTime:     ds.StartTime,
		})

		e.Pop()
	}

	w.Reindex()
	return w
}

// LoadMaxStationTimeTable reads a considered_capacity -> curve table from r.
func LoadMaxStationTimeTable(r io.Reader, e *util.ErrorLogger) *MaxStationTimeTable {
	var specs map[int][]StationCurveSpec
	if err := checkAndUnmarshal(r, "max-station-time", &specs, e); err != nil {
		e.Error(err)
		return nil
	}

	curves := make(map[int][]StationTimePoint, len(specs))
	for capacity, points := range specs {
		if len(points) == 0 {
			e.Error(ErrEmptyMaxStationCurve)
			continue
		}
		pts := make([]StationTimePoint, len(points))
		for i, p := range points {
			pts[i] = StationTimePoint{Rate: p.Rate, MaxSeconds: p.MaxSeconds}
		}
		curves[capacity] = pts
	}
	return NewMaxStationTimeTable(curves)
}
