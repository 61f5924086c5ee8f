// sim/dispatch.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package sim

// DispatchDemands runs one tick of the demand dispatcher (C3) over every
// demand in w.Demands, in list order. It mutates demand and aircraft state
// in place; it never reorders or removes entries from w.Demands. events
// may be nil.
func DispatchDemands(w *World, params *Params, events *EventStream, currentEpoch int64) {
	waitPolicy := params.Mode == ModeWait || params.Mode == ModeStationWait

	for _, d := range w.Demands {
		if d.Status != DemandScheduled {
			continue
		}

		if waitPolicy && d.DelayedAt.FlightDelay > params.MaximumWaitTime {
			// Terminal: unlike the source, a same-tick match below never
			// overwrites this once it's set.
			d.Status = DemandUnsuccessful
			events.postIfSet(Event{Type: DemandUnsuccessfulEvent, Epoch: currentEpoch, DemandID: d.ID})
			continue
		}

		if currentEpoch > d.StartTime {
			if matchDemand(w, d, params) {
				events.postIfSet(Event{Type: DemandMatchedEvent, Epoch: currentEpoch, DemandID: d.ID, AircraftID: d.CarrierID})
			} else {
				d.DelayedAt.FindingAircraft++
			}
		}

		if d.Status == DemandScheduled || d.Status == DemandInAircraft {
			delay := currentEpoch - d.StartTime
			if delay < 0 {
				delay = 0
			}
			d.DelayedAt.FlightDelay = delay
		}
	}
}

// matchDemand attempts Pass A (join an aircraft already committed to d's
// destination) then Pass B (claim a ready aircraft) at d's origin vertiport.
func matchDemand(w *World, d *Demand, params *Params) bool {
	origin := w.VertiportByID(d.OriginID)
	if origin == nil {
		return false
	}

	for _, a := range origin.Aircrafts {
		if a.DestinationID != d.DestinationID {
			continue
		}
		if a.Status != AircraftReady && a.Status != AircraftOccupied {
			continue
		}
		if len(a.Demands) >= a.Capacity {
			continue
		}
		a.Demands = append(a.Demands, d.ID)
		a.BoardingTime += params.BoardTimePerPassenger
		d.Status = DemandInAircraft
		d.CarrierID = a.ID
		return true
	}

	for _, a := range origin.Aircrafts {
		if a.Status != AircraftReady {
			continue
		}
		a.OriginID = d.OriginID
		a.DestinationID = d.DestinationID
		a.Demands = append(a.Demands, d.ID)
		a.Status = AircraftOccupied
		a.BoardingTime += params.BoardTimePerPassenger
		d.Status = DemandInAircraft
		d.CarrierID = a.ID
		return true
	}

	return false
}
