// sim/maxstation_test.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package sim

import (
	"math"
	"testing"
)

func TestMaxStationTimeTableInterpolation(t *testing.T) {
	table := NewMaxStationTimeTable(map[int][]StationTimePoint{
		1: {{Rate: 0, MaxSeconds: 600}, {Rate: 10, MaxSeconds: 60}},
	})

	if v := table.Lookup(1, 5); v != 330 {
		t.Errorf("Lookup(1, 5) = %v, want 330", v)
	}
	if v := table.Lookup(1, -5); v != 600 {
		t.Errorf("Lookup(1, -5) = %v, want 600 (clamped low)", v)
	}
	if v := table.Lookup(1, 50); v != 60 {
		t.Errorf("Lookup(1, 50) = %v, want 60 (clamped high)", v)
	}
}

func TestMaxStationTimeTableMissingCurve(t *testing.T) {
	table := NewMaxStationTimeTable(map[int][]StationTimePoint{})
	if v := table.Lookup(3, 5); !math.IsInf(v, 1) {
		t.Errorf("Lookup for missing curve = %v, want +Inf", v)
	}
}

func TestMaxStationTimeCongestionAdaptive(t *testing.T) {
	table := NewMaxStationTimeTable(map[int][]StationTimePoint{
		1: {{Rate: 0, MaxSeconds: 600}, {Rate: 10, MaxSeconds: 60}},
	})

	v := &Vertiport{ID: 1, Capacity: 1}
	// One resident aircraft occupying the only stand; residual = 0.
	v.AddAircraft(&Aircraft{ID: 1, Status: AircraftReady})

	// No arrivals yet: rate 0 does not exceed residual 0, so uncapped.
	if got := v.MaxStationTime(table, 0, 0); !math.IsInf(got, 1) {
		t.Errorf("MaxStationTime with no arrivals = %v, want +Inf", got)
	}

	// A burst of arrivals within the window pushes rate above residual.
	for i := 0; i < 5; i++ {
		v.ArrivingEpochs = append(v.ArrivingEpochs, int64(i))
	}
	got := v.MaxStationTime(table, 10, 0)
	if math.IsInf(got, 1) {
		t.Errorf("expected a finite cap once rate exceeds residual capacity")
	}
}
