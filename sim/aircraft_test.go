// sim/aircraft_test.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package sim

import (
	"math"
	"testing"
)

func basicParams() *Params {
	return &Params{
		LandingOccupationTime:   180,
		TakeoffOccupationTime:   120,
		BatterySwapTime:         300,
		BoardTimePerPassenger:   60,
		DeboardTimePerPassenger: 60,
		HoldingDuration:         600,
		MaximumWaitTime:         1200,
		Mode:                    ModeCapacity,
		TimeStep:                30,
	}
}

func twoVertiportWorldWithPerf() (*World, *Vertiport, *Vertiport) {
	origin := &Vertiport{ID: 1, Position: [2]float32{0, 0}, Capacity: 1}
	origin.Pads = []*Pad{{ID: 1, Status: PadReady}}
	origin.Reindex()
	dest := &Vertiport{ID: 2, Position: [2]float32{10, 0}, Capacity: 1}
	dest.Pads = []*Pad{{ID: 2, Status: PadReady}}
	dest.Reindex()

	w := &World{
		Vertiports: []*Vertiport{origin, dest},
		AircraftInfo: map[int]AircraftPerformance{
			1: {ClimbSpeedKt: 113, DescentSpeedKt: 113, CruiseSpeedKt: 120,
				ClimbRateFPM: 1000, DescentRateFPM: 1000, CruiseAltitudeFt: 1500, Capacity: 12},
		},
	}
	w.Reindex()
	return w, origin, dest
}

func TestStepLeaveDepartsWhenFullUnderCapacityMode(t *testing.T) {
	w, origin, dest := twoVertiportWorldWithPerf()
	a := &Aircraft{ID: 1, DBID: 1, Status: AircraftOccupied, Capacity: 1, Demands: []int{1}, DestinationID: dest.ID}
	origin.AddAircraft(a)

	params := basicParams()
	StepAircraft(w, origin, a, params, math.Inf(1), nil, nil, 0)

	if a.Status != AircraftTakeoff {
		t.Fatalf("status = %v, want takeoff", a.Status)
	}
	if origin.Pads[0].Status != PadTakeoff || origin.Pads[0].OccupiedAircraft != a.ID {
		t.Errorf("pad not acquired: %+v", origin.Pads[0])
	}
	if a.ScheduleByType(PhaseTakeoff) == nil {
		t.Errorf("expected a takeoff schedule entry")
	}
}

func TestStepLeaveStallsWithoutCapacity(t *testing.T) {
	w, origin, dest := twoVertiportWorldWithPerf()
	a := &Aircraft{ID: 1, DBID: 1, Status: AircraftOccupied, Capacity: 4, Demands: []int{}, DestinationID: dest.ID}
	origin.AddAircraft(a)

	params := basicParams()
	StepAircraft(w, origin, a, params, math.Inf(1), nil, nil, 0)

	if a.Status != AircraftOccupied {
		t.Fatalf("status = %v, want unchanged occupied (capacity flag false)", a.Status)
	}
}

func TestStepLeaveBoardingTimeGuardedDecrement(t *testing.T) {
	a := &Aircraft{ID: 1, Status: AircraftReady, BoardingTime: 10}
	w := &World{}
	v := &Vertiport{ID: 1}
	v.AddAircraft(a)

	params := basicParams()
	params.TimeStep = 30

	// An overshoot below zero must not be clamped back to zero: it stays
	// negative, which keeps stepLeave's `a.BoardingTime > 0` guard clear
	// but is never itself re-zeroed.
	StepAircraft(w, v, a, params, math.Inf(1), nil, nil, 0)
	if a.BoardingTime != -20 {
		t.Errorf("BoardingTime = %d, want -20 (unclamped overshoot)", a.BoardingTime)
	}

	a.BoardingTime = 0
	StepAircraft(w, v, a, params, math.Inf(1), nil, nil, 30)
	if a.BoardingTime != 0 {
		t.Errorf("BoardingTime = %d, want to stay at 0 once reached (guarded decrement)", a.BoardingTime)
	}
}

func TestStepArrivalLandsWhenPadReady(t *testing.T) {
	w, origin, dest := twoVertiportWorldWithPerf()
	a := &Aircraft{ID: 1, DBID: 1, Status: AircraftCruise, OriginID: origin.ID, DestinationID: dest.ID,
		ScheduleList: []ScheduleEntry{{Type: PhaseCruise, T0: 0, Tf: 300}}}
	origin.AddAircraft(a)

	params := basicParams()
	stepArrival(w, origin, a, params, nil, 300)

	if a.Status != AircraftLanding {
		t.Fatalf("status = %v, want landing", a.Status)
	}
	if origin.AircraftByID(a.ID) != nil {
		t.Errorf("aircraft should have moved out of origin's resident list")
	}
	if dest.AircraftByID(a.ID) != a {
		t.Errorf("aircraft should be (the same pointer) resident at destination")
	}
	if len(dest.ArrivingEpochs) != 1 || dest.ArrivingEpochs[0] != 300 {
		t.Errorf("ArrivingEpochs = %v, want [300]", dest.ArrivingEpochs)
	}
}

func TestStepArrivalHoldsWhenNoPad(t *testing.T) {
	w, origin, dest := twoVertiportWorldWithPerf()
	dest.Pads[0].Status = PadTakeoff // busy

	a := &Aircraft{ID: 1, DBID: 1, Status: AircraftCruise, OriginID: origin.ID, DestinationID: dest.ID,
		ScheduleList: []ScheduleEntry{{Type: PhaseCruise, T0: 0, Tf: 300}}}
	origin.AddAircraft(a)

	params := basicParams()
	stepArrival(w, origin, a, params, nil, 300)

	if a.Status != AircraftHolding {
		t.Fatalf("status = %v, want holding", a.Status)
	}
	if origin.AircraftByID(a.ID) != a {
		t.Errorf("a holding aircraft stays resident at its origin (cruise leg's vertiport) until admitted")
	}
	if len(dest.HoldingAircrafts) != 1 || dest.HoldingAircrafts[0] != a.ID {
		t.Errorf("expected aircraft enqueued in destination's holding queue")
	}
}

func TestStepHoldingViolationIndependentOfAdmission(t *testing.T) {
	w, origin, dest := twoVertiportWorldWithPerf()
	dest.Pads[0].Status = PadReady

	a := &Aircraft{ID: 1, DBID: 1, Status: AircraftHolding, OriginID: origin.ID, DestinationID: dest.ID,
		ScheduleList: []ScheduleEntry{{Type: PhaseHolding, T0: 0, Tf: 100}}}
	origin.AddAircraft(a)
	dest.HoldingAircrafts = []int{a.ID}

	// currentEpoch is already past holding.Tf: the violation must be
	// flagged even though the aircraft is immediately admitted since its
	// pad is free and it is at the head of the queue.
	res := stepHolding(w, origin, a, basicParams(), nil, 150)

	if !res.HoldingViolation {
		t.Errorf("expected HoldingViolation true")
	}
	if a.Status != AircraftLanding {
		t.Errorf("status = %v, want landing (admission still succeeds)", a.Status)
	}
	if dest.AircraftByID(a.ID) != a {
		t.Errorf("expected aircraft moved to destination")
	}
}

func TestStepHoldingSuperViolation(t *testing.T) {
	w, origin, dest := twoVertiportWorldWithPerf()
	dest.Pads[0].Status = PadTakeoff // stays busy: no admission this tick

	a := &Aircraft{ID: 1, DBID: 1, Status: AircraftHolding, OriginID: origin.ID, DestinationID: dest.ID,
		ScheduleList: []ScheduleEntry{{Type: PhaseHolding, T0: 0, Tf: 100}}}
	origin.AddAircraft(a)
	dest.HoldingAircrafts = []int{a.ID}

	// 2*(holding.Tf-holding.T0) = 200; currentEpoch-holding.Tf = 210 > 200.
	res := stepHolding(w, origin, a, basicParams(), nil, 310)

	if !res.HoldingViolation || !res.SuperHoldingViolation {
		t.Errorf("expected both violation flags set, got %+v", res)
	}
}

func TestStepHoldingFIFOBlocksNonHead(t *testing.T) {
	w, origin, dest := twoVertiportWorldWithPerf()
	dest.Pads[0].Status = PadReady

	head := &Aircraft{ID: 1, DBID: 1, Status: AircraftHolding, OriginID: origin.ID, DestinationID: dest.ID,
		ScheduleList: []ScheduleEntry{{Type: PhaseHolding, T0: 0, Tf: 1000}}}
	second := &Aircraft{ID: 2, DBID: 1, Status: AircraftHolding, OriginID: origin.ID, DestinationID: dest.ID,
		ScheduleList: []ScheduleEntry{{Type: PhaseHolding, T0: 0, Tf: 1000}}}
	origin.AddAircraft(head)
	origin.AddAircraft(second)
	dest.HoldingAircrafts = []int{head.ID, second.ID}

	stepHolding(w, origin, second, basicParams(), nil, 50)

	if second.Status != AircraftHolding {
		t.Errorf("second aircraft should remain holding behind the queue head")
	}
	if dest.AircraftByID(second.ID) != nil {
		t.Errorf("second aircraft must not have been admitted out of FIFO order")
	}
}

func TestCommitLandingMovesPointerNotCopy(t *testing.T) {
	origin := &Vertiport{ID: 1}
	dest := &Vertiport{ID: 2}
	dest.Pads = []*Pad{{ID: 1, Status: PadReady}}
	dest.Reindex()

	a := &Aircraft{ID: 1, FlightHours: 3.5}
	origin.AddAircraft(a)

	commitLanding(origin, dest, a, dest.Pads[0], 500, 180)

	if dest.AircraftByID(1) != a {
		t.Fatalf("expected the exact same *Aircraft pointer moved, not a copy")
	}
	if origin.AircraftByID(1) != nil {
		t.Errorf("origin should no longer hold the aircraft")
	}
}
