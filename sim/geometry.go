// sim/geometry.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package sim

import gomath "math"

// feetPerMinuteToKnots converts a climb/descent rate given in ft/min into
// the knots of ground speed it bleeds off of the airframe's indicated
// airspeed; kept as a named constant so the bit pattern survives refactors
// unchanged (replay-sensitive).
const feetPerMinuteToKnots = 0.00987473

// climbProfile returns the duration (s), ground speed (kt) and distance
// (nm) of the climb phase for the given performance parameters.
func climbProfile(perf AircraftPerformance) (duration, groundSpeed, distance float64) {
	duration = (float64(perf.CruiseAltitudeFt) / float64(perf.ClimbRateFPM)) * 60
	speedSq := float64(perf.ClimbSpeedKt)*float64(perf.ClimbSpeedKt) -
		float64(perf.ClimbRateFPM)*feetPerMinuteToKnots*float64(perf.ClimbRateFPM)*feetPerMinuteToKnots
	if speedSq < 0 {
		speedSq = 0
	}
	groundSpeed = gomath.Sqrt(speedSq)
	distance = (duration / 3600) * groundSpeed
	return
}

// cruiseDuration returns the duration (s) of the cruise phase connecting
// two vertiports total nm apart, given a climb distance that is mirrored
// on both the departure and arrival ends. Per the open question on
// negative cruise distances (short hops shorter than twice the climb
// distance), the duration is clamped to zero rather than going negative.
func cruiseDuration(totalDistance, climbDistance float64, cruiseSpeedKt float64) (cruiseDistance, duration float64, clamped bool) {
	cruiseDistance = totalDistance - 2*climbDistance
	if cruiseDistance < 0 {
		clamped = true
		cruiseDistance = 0
	}
	duration = (cruiseDistance / cruiseSpeedKt) * 3600
	return
}

// buildDepartureSchedule returns the {takeoff, climb, cruise} schedule
// entries for an aircraft leaving origin for destination at t0.
func buildDepartureSchedule(perf AircraftPerformance, origin, destination *Vertiport, t0 int64, takeoffOccupationTime int64) ([]ScheduleEntry, bool) {
	entries := make([]ScheduleEntry, 0, 3)

	entries = append(entries, ScheduleEntry{Type: PhaseTakeoff, T0: t0, Tf: t0 + takeoffOccupationTime})
	t0 += takeoffOccupationTime

	climbDur, climbSpeed, climbDist := climbProfile(perf)
	climbTf := t0 + int64(gomath.Round(climbDur))
	entries = append(entries, ScheduleEntry{Type: PhaseClimb, T0: t0, Tf: climbTf, Distance: float32(climbDist)})
	t0 = climbTf
	_ = climbSpeed

	total := float64(origin.Distance(destination))
	cruiseDist, cruiseDur, clamped := cruiseDuration(total, climbDist, float64(perf.CruiseSpeedKt))
	cruiseTf := t0 + int64(gomath.Round(cruiseDur))
	entries = append(entries, ScheduleEntry{Type: PhaseCruise, T0: t0, Tf: cruiseTf, Distance: float32(cruiseDist)})

	return entries, clamped
}

// buildLandingSchedule returns the single landing-phase entry for an
// aircraft about to occupy a pad at its destination. If the aircraft went
// straight from cruise to landing (no holding), the phase starts at the
// cruise phase's recorded end; otherwise (it held first) it starts now.
func buildLandingSchedule(a *Aircraft, currentEpoch, landingOccupationTime int64) ScheduleEntry {
	t0 := currentEpoch
	if holding := a.ScheduleByType(PhaseHolding); holding == nil {
		if cruise := a.ScheduleByType(PhaseCruise); cruise != nil {
			t0 = cruise.Tf
		}
	}
	return ScheduleEntry{Type: PhaseLanding, T0: t0, Tf: t0 + landingOccupationTime}
}
