// sim/policy.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package sim

// Mode is the closed set of departure-policy variants: each one is a
// different boolean combination of the three leave predicates.
type Mode int

const (
	ModeCapacity Mode = iota
	ModeCapacityStation
	ModeWait
	ModeStationWait
)

func (m Mode) String() string {
	switch m {
	case ModeCapacity:
		return "capacity"
	case ModeCapacityStation:
		return "capacity_station"
	case ModeWait:
		return "wait"
	case ModeStationWait:
		return "station_wait"
	default:
		return "unknown"
	}
}

// ModeFromString parses the four canonical mode names; ok is false for
// anything else, including legacy aliases, which callers should reject
// rather than guess at.
func ModeFromString(s string) (Mode, bool) {
	switch s {
	case "capacity":
		return ModeCapacity, true
	case "capacity_station":
		return ModeCapacityStation, true
	case "wait":
		return ModeWait, true
	case "station_wait":
		return ModeStationWait, true
	default:
		return 0, false
	}
}

// Params collects the scalar parameters the core reads as configuration:
// occupation/turnaround durations, the wait thresholds, the departure
// policy mode, and the run's time bounds.
type Params struct {
	LandingOccupationTime   int64
	TakeoffOccupationTime   int64
	BatterySwapTime         int64
	BoardTimePerPassenger   int64
	DeboardTimePerPassenger int64
	HoldingDuration         int64
	MaximumWaitTime         int64
	Mode                    Mode
	StartTime               int64
	EndTime                 int64
	TimeStep                int64
}

// leaveFlags are the three boolean predicates §4.4 combines per mode.
type leaveFlags struct {
	capacity    bool
	wait        bool
	stationTime bool
}

func computeLeaveFlags(a *Aircraft, w *World, maxStationTime float64, maximumWaitTime int64) leaveFlags {
	fl := leaveFlags{capacity: len(a.Demands) == a.Capacity}

	var maxDelay int64
	for _, did := range a.Demands {
		if d := w.DemandByID(did); d != nil && d.DelayedAt.FlightDelay > maxDelay {
			maxDelay = d.DelayedAt.FlightDelay
		}
	}
	fl.wait = maxDelay >= maximumWaitTime
	fl.stationTime = float64(a.TimeOnVertiport) > maxStationTime

	return fl
}

// mayLeave evaluates the departure policy for aircraft a, which must
// already be known to be in {ready, occupied} with no boarding left.
func mayLeave(mode Mode, fl leaveFlags) bool {
	switch mode {
	case ModeCapacity:
		return fl.capacity
	case ModeCapacityStation:
		return fl.capacity || fl.stationTime
	case ModeWait:
		return fl.capacity || fl.wait
	case ModeStationWait:
		return fl.capacity || fl.stationTime || fl.wait
	default:
		return fl.capacity
	}
}

// rebalanceDestination implements the single rebalancing rule: when an
// aircraft with no destination is chosen to leave, it is sent to the
// vertiport, other than origin, with the most currently-empty stands
// (ties broken by first-encountered in w.Vertiports).
func rebalanceDestination(w *World, origin *Vertiport) *Vertiport {
	var best *Vertiport
	bestEmpty := -1
	for _, v := range w.Vertiports {
		if v.ID == origin.ID {
			continue
		}
		empty := v.Capacity - v.OccupiedCapacity()
		if empty > bestEmpty {
			bestEmpty = empty
			best = v
		}
	}
	return best
}
