// sim/aircraft.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package sim

import vlog "github.com/nimbusfleet/vertisim/log"

// StepResult carries the side effects of advancing one aircraft by one
// tick that the tick driver needs to aggregate across the whole tick:
// whether the aircraft now counts toward the holding-violation ratio, and
// whether it just raised a fatal super-holding violation.
type StepResult struct {
	HoldingViolation      bool
	SuperHoldingViolation bool
}

// StepAircraft advances aircraft a, currently resident at v, by one tick.
// maxStationTime is v's congestion-adaptive station-time cap for this
// tick, computed once per vertiport by the caller (RunTick) rather than
// recomputed per aircraft, so that every aircraft at v sees the same cap
// regardless of how many of its vertiport-mates have already departed
// this tick. StepAircraft may relocate a to another vertiport (on a
// landing admission) and may append to w's entities; it never reorders
// v.Aircrafts beyond removing a.
func StepAircraft(w *World, v *Vertiport, a *Aircraft, params *Params, maxStationTime float64, logger *vlog.Logger, events *EventStream, currentEpoch int64) StepResult {
	var res StepResult

	// Only ever decremented while still nonzero: once it lands on exactly
	// zero it stays there, but an overshoot below zero (boarding_time
	// smaller than time_step) is never clamped back up, matching the
	// source's guarded decrement. Both this and the time_on_vertiport
	// bookkeeping below run before the state machine so that stepLeave
	// evaluates the departure policy against this tick's already-updated
	// values, matching the source's per-tick ordering.
	if a.BoardingTime != 0 {
		a.BoardingTime -= params.TimeStep
	}
	switch a.Status {
	case AircraftReady, AircraftOccupied, AircraftTurnaround:
		a.TimeOnVertiport++
	}

	switch a.Status {
	case AircraftReady, AircraftOccupied:
		stepLeave(w, v, a, params, maxStationTime, logger, events, currentEpoch)

	case AircraftTakeoff:
		if entry := a.ScheduleByType(PhaseTakeoff); entry != nil && currentEpoch >= entry.Tf {
			releasePad(v, a)
			a.Status = AircraftClimb
			a.TimeOnVertiport = 0
		}

	case AircraftClimb:
		if entry := a.ScheduleByType(PhaseClimb); entry != nil && currentEpoch >= entry.Tf {
			a.Status = AircraftCruise
		}

	case AircraftCruise:
		if entry := a.ScheduleByType(PhaseCruise); entry != nil && currentEpoch >= entry.Tf {
			stepArrival(w, v, a, params, events, currentEpoch)
		}

	case AircraftHolding:
		res = stepHolding(w, v, a, params, events, currentEpoch)

	case AircraftLanding:
		if entry := a.ScheduleByType(PhaseLanding); entry != nil && currentEpoch >= entry.Tf {
			stepTurnaround(w, v, a, params, currentEpoch)
		}

	case AircraftTurnaround:
		if entry := a.ScheduleByType(PhaseTurnaround); entry != nil && currentEpoch >= entry.Tf {
			stepReady(a, currentEpoch)
		}
	}

	if a.HoldingViolation {
		res.HoldingViolation = true
		events.postIfSet(Event{Type: AircraftHoldingViolationEvent, Epoch: currentEpoch, VertiportID: v.ID, AircraftID: a.ID})
	}

	return res
}

// stepLeave evaluates the departure policy and either departs a (acquiring
// an origin pad and building its departure schedule) or, if no pad is
// ready, stalls it and accrues before_takeoff on every onboard demand.
func stepLeave(w *World, v *Vertiport, a *Aircraft, params *Params, maxStationTime float64, logger *vlog.Logger, events *EventStream, currentEpoch int64) {
	if a.BoardingTime > 0 {
		return
	}

	fl := computeLeaveFlags(a, w, maxStationTime, params.MaximumWaitTime)
	if !mayLeave(params.Mode, fl) {
		return
	}

	pad := v.ReadyPad()
	if pad == nil {
		for _, did := range a.Demands {
			if d := w.DemandByID(did); d != nil {
				d.DelayedAt.BeforeTakeoff++
			}
		}
		return
	}

	if a.DestinationID == 0 {
		dest := rebalanceDestination(w, v)
		if dest == nil {
			return
		}
		a.DestinationID = dest.ID
	}

	destination := w.VertiportByID(a.DestinationID)
	perf := w.AircraftInfo[a.DBID]

	entries, clamped := buildDepartureSchedule(perf, v, destination, currentEpoch, params.TakeoffOccupationTime)
	if clamped {
		logger.Warnf("negative cruise distance clamped to 0 for aircraft %d (%s -> %s)", a.ID, v.Name, destination.Name)
	}
	a.ScheduleList = append(a.ScheduleList, entries...)

	pad.Status = PadTakeoff
	pad.OccupiedAircraft = a.ID
	a.PadID = pad.ID
	a.OriginID = v.ID
	a.Status = AircraftTakeoff

	for _, did := range a.Demands {
		if d := w.DemandByID(did); d != nil {
			d.Status = DemandAirborne
		}
	}

	events.postIfSet(Event{Type: AircraftDepartedEvent, Epoch: currentEpoch, VertiportID: v.ID, AircraftID: a.ID})
}

// releasePad frees the pad currently held by a.
func releasePad(v *Vertiport, a *Aircraft) {
	if pad := v.PadByID(a.PadID); pad != nil {
		pad.Status = PadReady
		pad.OccupiedAircraft = 0
	}
	a.PadID = 0
}

// stepArrival handles the cruise -> {landing, holding} transition: it
// records the arrival, then attempts a landing-pad admission at the
// destination.
func stepArrival(w *World, v *Vertiport, a *Aircraft, params *Params, events *EventStream, currentEpoch int64) {
	destination := w.VertiportByID(a.DestinationID)
	if destination == nil {
		return
	}
	destination.ArrivingEpochs = append(destination.ArrivingEpochs, currentEpoch)

	pad := destination.ReadyPad()
	if pad != nil && destination.admitHolding(a.ID, pad) {
		commitLanding(v, destination, a, pad, currentEpoch, params.LandingOccupationTime)
		events.postIfSet(Event{Type: AircraftLandedEvent, Epoch: currentEpoch, VertiportID: destination.ID, AircraftID: a.ID})
		return
	}

	a.ScheduleList = append(a.ScheduleList, ScheduleEntry{
		Type: PhaseHolding,
		T0:   currentEpoch,
		Tf:   currentEpoch + params.HoldingDuration,
	})
	destination.HoldingAircrafts = append(destination.HoldingAircrafts, a.ID)
	a.Status = AircraftHolding
	events.postIfSet(Event{Type: AircraftHoldingEvent, Epoch: currentEpoch, VertiportID: destination.ID, AircraftID: a.ID})
}

// stepHolding evaluates the (sticky) holding-violation and (fatal)
// super-holding conditions first, against the still-untruncated holding
// entry, then separately retries landing admission: the two are not
// mutually exclusive, an aircraft can be marked violating and admitted to
// land in the very same tick.
func stepHolding(w *World, v *Vertiport, a *Aircraft, params *Params, events *EventStream, currentEpoch int64) StepResult {
	var res StepResult

	holding := a.ScheduleByType(PhaseHolding)
	if holding != nil && currentEpoch >= holding.Tf {
		a.HoldingViolation = true
		res.HoldingViolation = true
		if currentEpoch-holding.Tf > 2*(holding.Tf-holding.T0) {
			res.SuperHoldingViolation = true
		}
	}

	for _, did := range a.Demands {
		if d := w.DemandByID(did); d != nil {
			d.DelayedAt.BeforeLanding++
		}
	}

	destination := w.VertiportByID(a.DestinationID)
	if destination == nil {
		return res
	}

	pad := destination.ReadyPad()
	if pad != nil && destination.admitHolding(a.ID, pad) {
		if holding != nil {
			holding.Tf = currentEpoch
		}
		destination.RemoveFromHoldingQueue(a.ID)
		commitLanding(v, destination, a, pad, currentEpoch, params.LandingOccupationTime)
		events.postIfSet(Event{Type: AircraftLandedEvent, Epoch: currentEpoch, VertiportID: destination.ID, AircraftID: a.ID})
	}

	return res
}

// commitLanding moves a from origin to destination (move semantics, not a
// copy) and puts it into the landing state on the newly-acquired pad.
func commitLanding(origin, destination *Vertiport, a *Aircraft, pad *Pad, currentEpoch, landingOccupationTime int64) {
	entry := buildLandingSchedule(a, currentEpoch, landingOccupationTime)
	a.ScheduleList = append(a.ScheduleList, entry)

	pad.Status = PadLanding
	pad.OccupiedAircraft = a.ID
	a.PadID = pad.ID
	a.Status = AircraftLanding

	origin.RemoveAircraft(a.ID)
	destination.AddAircraft(a)
}

// stepTurnaround handles the landing -> turnaround transition: releases
// the pad, satisfies onboard demands, and schedules the post-landing
// battery swap / deboarding.
func stepTurnaround(w *World, v *Vertiport, a *Aircraft, params *Params, currentEpoch int64) {
	releasePad(v, a)

	for _, did := range a.Demands {
		if d := w.DemandByID(did); d != nil {
			d.Status = DemandSatisfied
		}
	}

	turnaround := params.BatterySwapTime
	if deboard := params.DeboardTimePerPassenger * int64(len(a.Demands)); deboard > turnaround {
		turnaround = deboard
	}

	a.ScheduleList = append(a.ScheduleList, ScheduleEntry{
		Type: PhaseTurnaround,
		T0:   currentEpoch,
		Tf:   currentEpoch + turnaround,
	})
	a.Status = AircraftTurnaround
}

// stepReady handles the turnaround -> ready transition: accumulates
// flight hours over the whole preceding flight cycle and resets it.
func stepReady(a *Aircraft, currentEpoch int64) {
	takeoff := a.ScheduleByType(PhaseTakeoff)
	turnaround := a.ScheduleByType(PhaseTurnaround)
	if takeoff != nil && turnaround != nil {
		a.FlightHours += float64(turnaround.T0-takeoff.T0) / 3600
	}

	a.ScheduleList = nil
	a.Demands = nil
	a.OriginID = 0
	a.DestinationID = 0
	a.Status = AircraftReady
}
