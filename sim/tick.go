// sim/tick.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package sim

import vlog "github.com/nimbusfleet/vertisim/log"

// holdingViolationFraction is the share of the tick's observed aircraft
// that must be in a sticky holding violation to abort the run.
const holdingViolationFraction = 0.1

// RunTick advances the world by one time_step, processing demands first
// and then each vertiport's aircraft in vertiport list order, aircraft in
// list order within it. It returns the fatal condition messages raised
// during this tick, if any; a non-empty result means the caller should
// stop after this tick. events may be nil.
func RunTick(w *World, params *Params, table *MaxStationTimeTable, logger *vlog.Logger, events *EventStream, currentEpoch int64) []string {
	DispatchDemands(w, params, events, currentEpoch)

	var (
		totalAircraft     int
		holdingViolations int
		superHolding      bool
	)

	for _, v := range w.Vertiports {
		totalAircraft += len(v.Aircrafts)

		// occupied_capacity, arrival_rate and max_station_time are computed
		// once per vertiport here rather than per aircraft inside stepLeave:
		// an earlier aircraft's occupied->takeoff transition this same tick
		// must not lower the cap seen by a later aircraft at the same
		// vertiport.
		maxStationTime := v.MaxStationTime(table, currentEpoch, params.StartTime)

		// Aircraft can join v.Aircrafts mid-loop (an earlier vertiport's
		// cruising aircraft landing here) and are processed the same tick,
		// per the iteration-order guarantee in the tick-synchronous model.
		// A landing commit leaving v removes the current index's element,
		// so the index is held back one step to avoid skipping its
		// replacement.
		for i := 0; i < len(v.Aircrafts); i++ {
			a := v.Aircrafts[i]

			res := StepAircraft(w, v, a, params, maxStationTime, logger, events, currentEpoch)
			if res.HoldingViolation {
				holdingViolations++
			}
			if res.SuperHoldingViolation {
				superHolding = true
			}

			if i >= len(v.Aircrafts) || v.Aircrafts[i] != a {
				i--
			}
		}
	}

	var msgs []string
	if totalAircraft > 0 && float64(holdingViolations) >= holdingViolationFraction*float64(totalAircraft) {
		msgs = append(msgs, "too much holding violations")
	}
	if superHolding {
		msgs = append(msgs, "Too long holding violation")
	}
	for _, msg := range msgs {
		events.postIfSet(Event{Type: FatalConditionEvent, Epoch: currentEpoch, Message: msg})
	}
	return msgs
}
