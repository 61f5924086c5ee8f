// sim/sim_test.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package sim

import "testing"

// TestRunTrivialHopSingleDemand reproduces the literal end-to-end scenario:
// two vertiports 10nm apart, one demand, one aircraft, mode capacity. The
// demand must end up satisfied well before end_time.
func TestRunTrivialHopSingleDemand(t *testing.T) {
	origin := &Vertiport{ID: 1, Position: [2]float32{0, 0}, Capacity: 1}
	origin.Pads = []*Pad{{ID: 1, Status: PadReady}}
	dest := &Vertiport{ID: 2, Position: [2]float32{10, 0}, Capacity: 1}
	dest.Pads = []*Pad{{ID: 2, Status: PadReady}}

	// Instance capacity is 1 (not the 12 of the performance table) so a
	// single demand fills the aircraft and the capacity predicate departs
	// it; a 12-seat instance never satisfies capacity_flag with only one
	// demand aboard (see TestRunModeCapacityStallsUnderLoadedAircraft).
	aircraft := &Aircraft{ID: 1, DBID: 1, Status: AircraftReady, Capacity: 1}
	origin.AddAircraft(aircraft)

	d := &Demand{ID: 1, OriginID: origin.ID, DestinationID: dest.ID, StartTime: 0}

	w := &World{
		Vertiports: []*Vertiport{origin, dest},
		Demands:    []*Demand{d},
		AircraftInfo: map[int]AircraftPerformance{
			1: {ClimbSpeedKt: 113, DescentSpeedKt: 113, CruiseSpeedKt: 120,
				ClimbRateFPM: 1000, DescentRateFPM: 1000, CruiseAltitudeFt: 1500, Capacity: 12},
		},
	}
	w.Reindex()

	params := &Params{
		LandingOccupationTime:   180,
		TakeoffOccupationTime:   120,
		BatterySwapTime:         300,
		BoardTimePerPassenger:   60,
		DeboardTimePerPassenger: 60,
		HoldingDuration:         600,
		MaximumWaitTime:         1200,
		Mode:                    ModeCapacity,
		StartTime:               0,
		EndTime:                 3600,
		TimeStep:                30,
	}

	table := NewMaxStationTimeTable(nil)
	result := Run(w, params, table, nil, nil)

	if len(result.Messages) != 0 {
		t.Fatalf("unexpected fatal messages: %v", result.Messages)
	}
	if d.Status != DemandSatisfied {
		t.Fatalf("demand status = %v, want satisfied", d.Status)
	}
	if dest.AircraftByID(aircraft.ID) == nil {
		t.Fatalf("expected the aircraft to have relocated to the destination")
	}
}

// TestRunModeCapacityStallsUnderLoadedAircraft reproduces scenario 2: under
// mode capacity, a single demand in a 12-seat aircraft never triggers
// departure, so the demand is still in_aircraft at end_time.
func TestRunModeCapacityStallsUnderLoadedAircraft(t *testing.T) {
	origin := &Vertiport{ID: 1, Position: [2]float32{0, 0}, Capacity: 1}
	origin.Pads = []*Pad{{ID: 1, Status: PadReady}}
	dest := &Vertiport{ID: 2, Position: [2]float32{10, 0}, Capacity: 1}
	dest.Pads = []*Pad{{ID: 2, Status: PadReady}}

	aircraft := &Aircraft{ID: 1, DBID: 1, Status: AircraftReady, Capacity: 12}
	origin.AddAircraft(aircraft)

	d := &Demand{ID: 1, OriginID: origin.ID, DestinationID: dest.ID, StartTime: 0}

	w := &World{
		Vertiports: []*Vertiport{origin, dest},
		Demands:    []*Demand{d},
		AircraftInfo: map[int]AircraftPerformance{
			1: {ClimbSpeedKt: 113, DescentSpeedKt: 113, CruiseSpeedKt: 120,
				ClimbRateFPM: 1000, DescentRateFPM: 1000, CruiseAltitudeFt: 1500, Capacity: 12},
		},
	}
	w.Reindex()

	params := &Params{
		LandingOccupationTime: 180, TakeoffOccupationTime: 120, BatterySwapTime: 300,
		BoardTimePerPassenger: 60, DeboardTimePerPassenger: 60, HoldingDuration: 600,
		MaximumWaitTime: 1200, Mode: ModeCapacity, StartTime: 0, EndTime: 1800, TimeStep: 30,
	}

	table := NewMaxStationTimeTable(nil)
	result := Run(w, params, table, nil, nil)

	if len(result.Messages) != 0 {
		t.Fatalf("unexpected fatal messages: %v", result.Messages)
	}
	if d.Status != DemandInAircraft {
		t.Fatalf("demand status = %v, want in_aircraft (capacity never reached)", d.Status)
	}
}
