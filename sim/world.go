// sim/world.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// Package sim implements the discrete-event physics and scheduling core
// for a vertiport network: matching demands to aircraft, deciding when an
// aircraft departs, and driving it through takeoff, climb, cruise, landing
// (or holding) and turnaround while enforcing pad and stand capacity.
package sim

import (
	gomath "math"

	smath "github.com/nimbusfleet/vertisim/math"
)

// PadStatus is the state of a takeoff/landing pad.
type PadStatus int

const (
	PadReady PadStatus = iota
	PadTakeoff
	PadLanding
)

func (s PadStatus) String() string {
	switch s {
	case PadReady:
		return "ready"
	case PadTakeoff:
		return "takeoff"
	case PadLanding:
		return "landing"
	default:
		return "unknown"
	}
}

// Pad is a shared takeoff/landing surface; exclusive to one aircraft while
// non-ready.
type Pad struct {
	ID               int
	Name             string
	Status           PadStatus
	OccupiedAircraft int // aircraft id, 0 if none
}

// Vertiport is a terminal with bounded stand capacity and a small number
// of pads. Entity lookups by id are backed by maintained indices rather
// than scans over Pads/Aircrafts, which stay around only to fix the
// iteration order the tick driver must replay.
type Vertiport struct {
	ID       int
	Name     string
	Position [2]float32 // (x_nm, y_nm)
	Capacity int        // max stands

	Pads      []*Pad      // declared order; pad selection scans this order
	Aircrafts []*Aircraft // resident aircraft, insertion order

	padIndex      map[int]*Pad
	aircraftIndex map[int]*Aircraft

	// HoldingAircrafts is an ordered, FIFO sequence of aircraft ids
	// currently holding to land here; only the head may be admitted.
	HoldingAircrafts []int

	// ArrivingEpochs is an append-only record of absolute arrival epochs,
	// used to compute the recent arrival rate for the congestion-adaptive
	// max station time.
	ArrivingEpochs []int64
}

// Reindex (re)builds v's id->entity indices from Pads/Aircrafts. Callers
// that construct a Vertiport by hand (loaders, tests, deep copies) must
// call this once before using PadByID/AircraftByID.
func (v *Vertiport) Reindex() {
	v.padIndex = make(map[int]*Pad, len(v.Pads))
	for _, p := range v.Pads {
		v.padIndex[p.ID] = p
	}
	v.aircraftIndex = make(map[int]*Aircraft, len(v.Aircrafts))
	for _, a := range v.Aircrafts {
		v.aircraftIndex[a.ID] = a
	}
}

// PadByID returns the pad with the given id, or nil.
func (v *Vertiport) PadByID(id int) *Pad {
	return v.padIndex[id]
}

// AircraftByID returns the resident aircraft with the given id, or nil.
func (v *Vertiport) AircraftByID(id int) *Aircraft {
	return v.aircraftIndex[id]
}

// AddAircraft appends a to v.Aircrafts and indexes it.
func (v *Vertiport) AddAircraft(a *Aircraft) {
	v.Aircrafts = append(v.Aircrafts, a)
	if v.aircraftIndex == nil {
		v.aircraftIndex = make(map[int]*Aircraft)
	}
	v.aircraftIndex[a.ID] = a
}

// RemoveAircraft deletes the aircraft with the given id from v.Aircrafts,
// preserving the relative order of the rest.
func (v *Vertiport) RemoveAircraft(id int) *Aircraft {
	a, ok := v.aircraftIndex[id]
	if !ok {
		return nil
	}
	for i, c := range v.Aircrafts {
		if c.ID == id {
			v.Aircrafts = append(v.Aircrafts[:i], v.Aircrafts[i+1:]...)
			break
		}
	}
	delete(v.aircraftIndex, id)
	return a
}

// HoldingPosition returns the index of aircraft id in the holding queue,
// or -1 if it is not currently holding here. The holding queue is always
// short (bounded by pad contention), so a scan here does not violate the
// no-linear-scan-in-the-hot-path rule the entity indices above exist for.
func (v *Vertiport) HoldingPosition(id int) int {
	for i, hid := range v.HoldingAircrafts {
		if hid == id {
			return i
		}
	}
	return -1
}

// RemoveFromHoldingQueue deletes aircraft id from the holding queue.
func (v *Vertiport) RemoveFromHoldingQueue(id int) {
	if i := v.HoldingPosition(id); i >= 0 {
		v.HoldingAircrafts = append(v.HoldingAircrafts[:i], v.HoldingAircrafts[i+1:]...)
	}
}

// Distance returns the 2D great-circle-equivalent Euclidean distance, in
// nautical miles, between v and other.
func (v *Vertiport) Distance(other *Vertiport) float32 {
	return smath.Distance2f(v.Position, other.Position)
}

// AircraftStatus is the state of an aircraft's flight-cycle state machine.
type AircraftStatus int

const (
	AircraftReady AircraftStatus = iota
	AircraftOccupied
	AircraftTakeoff
	AircraftClimb
	AircraftCruise
	AircraftHolding
	AircraftLanding
	AircraftTurnaround
)

func (s AircraftStatus) String() string {
	switch s {
	case AircraftReady:
		return "ready"
	case AircraftOccupied:
		return "occupied"
	case AircraftTakeoff:
		return "takeoff"
	case AircraftClimb:
		return "climb"
	case AircraftCruise:
		return "cruise"
	case AircraftHolding:
		return "holding"
	case AircraftLanding:
		return "landing"
	case AircraftTurnaround:
		return "turnaround"
	default:
		return "unknown"
	}
}

// occupiesStand reports whether an aircraft in this status consumes one
// unit of vertiport stand capacity.
func (s AircraftStatus) occupiesStand() bool {
	switch s {
	case AircraftReady, AircraftOccupied, AircraftTurnaround, AircraftLanding:
		return true
	default:
		return false
	}
}

// PhaseType tags the kind of a ScheduleEntry.
type PhaseType int

const (
	PhaseTakeoff PhaseType = iota
	PhaseClimb
	PhaseCruise
	PhaseHolding
	PhaseLanding
	PhaseTurnaround
)

func (p PhaseType) String() string {
	switch p {
	case PhaseTakeoff:
		return "takeoff"
	case PhaseClimb:
		return "climb"
	case PhaseCruise:
		return "cruise"
	case PhaseHolding:
		return "holding"
	case PhaseLanding:
		return "landing"
	case PhaseTurnaround:
		return "turnaround"
	default:
		return "unknown"
	}
}

// ScheduleEntry is one phase of an aircraft's flight cycle. Distance is 0
// for non-flying phases.
type ScheduleEntry struct {
	Type     PhaseType
	T0, Tf   int64 // absolute epoch seconds
	Distance float32
}

// AircraftPerformance is the aircraft-info-table row resolved by an
// aircraft's DBID: climb/cruise/descent parameters and seat capacity.
type AircraftPerformance struct {
	ClimbSpeedKt     float32
	ClimbRateFPM     float32
	CruiseAltitudeFt float32
	CruiseSpeedKt    float32
	DescentSpeedKt   float32
	DescentRateFPM   float32
	Capacity         int
}

// Aircraft is an electric VTOL vehicle cycling through the flight-state
// machine of the tick driver.
type Aircraft struct {
	ID   int
	DBID int // resolves into the aircraft-info table

	OriginID, DestinationID int // 0 means "none"

	Status       AircraftStatus
	ScheduleList []ScheduleEntry
	Demands      []int // onboard demand ids
	Capacity     int

	PadID int // 0 means "none"

	FlightHours      float64
	HoldingViolation bool

	TimeOnVertiport int64 // seconds since becoming ready/occupied here
	BoardingTime    int64 // seconds still required to finish boarding
}

// ScheduleByType returns the most recent schedule entry of the given type,
// or nil if none exists in the current flight cycle.
func (a *Aircraft) ScheduleByType(t PhaseType) *ScheduleEntry {
	for i := len(a.ScheduleList) - 1; i >= 0; i-- {
		if a.ScheduleList[i].Type == t {
			return &a.ScheduleList[i]
		}
	}
	return nil
}

// DemandStatus is the lifecycle state of a Demand.
type DemandStatus int

const (
	DemandScheduled DemandStatus = iota
	DemandInAircraft
	DemandAirborne
	DemandSatisfied
	DemandUnsuccessful
)

func (s DemandStatus) String() string {
	switch s {
	case DemandScheduled:
		return "scheduled"
	case DemandInAircraft:
		return "in_aircraft"
	case DemandAirborne:
		return "airborne"
	case DemandSatisfied:
		return "satisfied"
	case DemandUnsuccessful:
		return "unsuccessful"
	default:
		return "unknown"
	}
}

// DelayCounters is the fixed-key stall-time accumulator carried by every
// demand. Every field but FlightDelay counts ticks spent stalled in the
// named condition; FlightDelay is elapsed wall-seconds since StartTime
// while the demand has not yet landed.
type DelayCounters struct {
	FindingAircraft  int64
	BeforeTakeoff    int64
	BeforeTurnaround int64
	BeforeLanding    int64
	FlightDelay      int64
}

// Demand is a single passenger transport request from an origin to a
// destination vertiport, arriving at StartTime.
type Demand struct {
	ID                      int
	OriginID, DestinationID int
	StartTime               int64

	Status    DemandStatus
	CarrierID int // aircraft id, 0 if none
	DelayedAt DelayCounters
}

// World is everything the tick driver evolves: the vertiport network, the
// fleet, and the demand list. Vertiports is iterated in input order, which
// the tick driver must replay for determinism; id lookups go through the
// indices built by Reindex instead of scanning it.
type World struct {
	Vertiports []*Vertiport
	Demands    []*Demand

	// AircraftInfo maps an aircraft's DBID to its performance parameters.
	AircraftInfo map[int]AircraftPerformance

	vertiportIndex map[int]*Vertiport
	demandIndex    map[int]*Demand
}

// Reindex (re)builds w's id->entity indices, and those of every vertiport
// it holds. Loaders and deep copies must call this before use.
func (w *World) Reindex() {
	w.vertiportIndex = make(map[int]*Vertiport, len(w.Vertiports))
	for _, v := range w.Vertiports {
		w.vertiportIndex[v.ID] = v
		v.Reindex()
	}
	w.demandIndex = make(map[int]*Demand, len(w.Demands))
	for _, d := range w.Demands {
		w.demandIndex[d.ID] = d
	}
}

// VertiportByID returns the vertiport with the given id, or nil.
func (w *World) VertiportByID(id int) *Vertiport {
	return w.vertiportIndex[id]
}

// DemandByID returns the demand with the given id, or nil.
func (w *World) DemandByID(id int) *Demand {
	return w.demandIndex[id]
}

// finite reports whether f is neither NaN nor an infinity.
func finite(f float64) bool { return !gomath.IsNaN(f) && !gomath.IsInf(f, 0) }
