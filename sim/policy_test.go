// sim/policy_test.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package sim

import "testing"

func TestModeFromString(t *testing.T) {
	cases := map[string]Mode{
		"capacity":         ModeCapacity,
		"capacity_station": ModeCapacityStation,
		"wait":             ModeWait,
		"station_wait":     ModeStationWait,
	}
	for s, want := range cases {
		got, ok := ModeFromString(s)
		if !ok || got != want {
			t.Errorf("ModeFromString(%q) = %v, %v; want %v, true", s, got, ok, want)
		}
	}
	if _, ok := ModeFromString("bogus"); ok {
		t.Errorf("ModeFromString(bogus) should report ok=false")
	}
}

func TestMayLeave(t *testing.T) {
	full := leaveFlags{capacity: true}
	waiting := leaveFlags{wait: true}
	stalled := leaveFlags{stationTime: true}
	none := leaveFlags{}

	if !mayLeave(ModeCapacity, full) {
		t.Errorf("capacity mode should leave when full")
	}
	if mayLeave(ModeCapacity, waiting) {
		t.Errorf("capacity mode should ignore wait")
	}
	if !mayLeave(ModeCapacityStation, stalled) {
		t.Errorf("capacity_station mode should leave on station-time stall")
	}
	if !mayLeave(ModeWait, waiting) {
		t.Errorf("wait mode should leave on wait expiry")
	}
	if !mayLeave(ModeStationWait, stalled) || !mayLeave(ModeStationWait, waiting) || !mayLeave(ModeStationWait, full) {
		t.Errorf("station_wait mode should leave on any of the three flags")
	}
	if mayLeave(ModeStationWait, none) {
		t.Errorf("station_wait mode should not leave with no flags set")
	}
}

func TestComputeLeaveFlagsCapacity(t *testing.T) {
	a := &Aircraft{Capacity: 2, Demands: []int{1, 2}}
	w := &World{}
	fl := computeLeaveFlags(a, w, 1e9, 1200)
	if !fl.capacity {
		t.Errorf("expected capacity flag true when demands == capacity")
	}
}

func TestComputeLeaveFlagsWaitUsesMaxDelay(t *testing.T) {
	d1 := &Demand{ID: 1, DelayedAt: DelayCounters{FlightDelay: 100}}
	d2 := &Demand{ID: 2, DelayedAt: DelayCounters{FlightDelay: 500}}
	w := &World{Demands: []*Demand{d1, d2}}
	w.Reindex()

	a := &Aircraft{Capacity: 4, Demands: []int{1, 2}}
	fl := computeLeaveFlags(a, w, 1e9, 300)
	if !fl.wait {
		t.Errorf("expected wait flag true since max delay 500 >= 300")
	}
}

func TestRebalanceDestinationPicksMostEmpty(t *testing.T) {
	origin := &Vertiport{ID: 1, Capacity: 5}
	origin.AddAircraft(&Aircraft{ID: 1, Status: AircraftReady})

	crowded := &Vertiport{ID: 2, Capacity: 5}
	for i := 0; i < 4; i++ {
		crowded.AddAircraft(&Aircraft{ID: i + 10, Status: AircraftReady})
	}

	empty := &Vertiport{ID: 3, Capacity: 5}

	w := &World{Vertiports: []*Vertiport{origin, crowded, empty}}

	got := rebalanceDestination(w, origin)
	if got != empty {
		t.Errorf("rebalanceDestination picked %v, want the emptier vertiport", got)
	}
}
