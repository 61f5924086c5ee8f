// sim/resources.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package sim

import gomath "math"

// arrivalRateWindow is the lookback window, in seconds, over which a
// vertiport's recent arrival rate is computed.
const arrivalRateWindow int64 = 3600

// OccupiedCapacity counts resident aircraft that consume a stand: ready,
// occupied, turnaround and landing aircraft. Airborne and holding aircraft
// do not count.
func (v *Vertiport) OccupiedCapacity() int {
	n := 0
	for _, a := range v.Aircrafts {
		if a.Status.occupiesStand() {
			n++
		}
	}
	return n
}

// ReadyPad returns the first pad in declared order whose status is ready,
// or nil if every pad is busy.
func (v *Vertiport) ReadyPad() *Pad {
	for _, p := range v.Pads {
		if p.Status == PadReady {
			return p
		}
	}
	return nil
}

// ArrivalRate returns the recent-arrival rate at currentEpoch: the count of
// ArrivingEpochs strictly within (currentEpoch-window, currentEpoch),
// scaled up if the run has not yet covered a full window. startEpoch is
// the simulation's start_time.
func (v *Vertiport) ArrivalRate(currentEpoch, startEpoch int64) float64 {
	if currentEpoch == startEpoch {
		return 0
	}
	lower := currentEpoch - arrivalRateWindow
	count := 0
	for _, e := range v.ArrivingEpochs {
		if e > lower && e < currentEpoch {
			count++
		}
	}
	elapsed := currentEpoch - startEpoch
	if elapsed >= arrivalRateWindow || elapsed <= 0 {
		return float64(count)
	}
	return float64(count) * float64(arrivalRateWindow) / float64(elapsed)
}

// MaxStationTime returns the congestion-adaptive cap on time_on_vertiport
// for v at currentEpoch: +Inf unless the arrival rate exceeds the residual
// capacity, in which case it is read from table at considered_capacity =
// capacity - occupied_capacity + 1, interpolated by arrival rate.
func (v *Vertiport) MaxStationTime(table *MaxStationTimeTable, currentEpoch, startEpoch int64) float64 {
	occupied := v.OccupiedCapacity()
	residual := v.Capacity - occupied
	rate := v.ArrivalRate(currentEpoch, startEpoch)
	if rate <= float64(residual) {
		return gomath.Inf(1)
	}
	return table.Lookup(residual+1, rate)
}

// admitHolding reports whether the aircraft at the head of v's holding
// queue (or a fresh arrival not yet in the queue) may take pad. An aircraft
// queued behind the head is refused; an aircraft not in the queue at all is
// admitted whether or not others are queued.
func (v *Vertiport) admitHolding(aircraftID int, pad *Pad) bool {
	if pad == nil {
		return false
	}
	pos := v.HoldingPosition(aircraftID)
	return pos <= 0
}
