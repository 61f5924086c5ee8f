// sim/cost.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package sim

import gomath "math"

// flightHourBreakpoints are the flight-hour x-coordinates shared by every
// per-capacity operating cost curve below.
var flightHourBreakpoints = []float64{
	0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 1,
	2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16, 17, 18,
}

// costPerFlightHour4Pax, costPerFlightHour8Pax and costPerFlightHour12Pax
// are dollars-per-flight-hour at the matching flightHourBreakpoints index,
// for the three seat capacities the cost model was fit to.
var (
	costPerFlightHour4Pax = []float64{
		3799, 1960.9, 1348.1, 1041.7, 857.9, 735.4, 647.9, 582.2, 531.1, 490.3,
		306.4, 245.1, 214.5, 196.1, 183.9, 175.1, 168.6, 163.5, 159.4, 156, 153.2, 150.9, 148.9, 147.15, 145.6, 144.2, 143,
	}
	costPerFlightHour8Pax = []float64{
		7381, 3781, 2581, 1981, 1622, 1382, 1210, 1082, 982, 902,
		542, 422.1, 362, 326, 302, 285, 272, 262, 254, 247, 242, 237, 233, 230, 227, 224, 222,
	}
	costPerFlightHour12Pax = []float64{
		10811, 5516, 3751, 2868, 2339, 1986, 1734, 1544, 1397, 1280,
		750, 574.1, 486, 433, 397, 372, 353, 339, 327, 317, 309, 302, 297, 291, 287, 283, 280,
	}
)

// costCurveForCapacity returns the operating cost curve for a given seat
// capacity, or nil if the capacity was not one of the ones the cost model
// was fit to. Only 4, 8 and 12 are supported; a CostSummary for any other
// capacity reports zero cost, which callers should treat as "undefined"
// rather than "free".
func costCurveForCapacity(capacity int) []float64 {
	switch capacity {
	case 4:
		return costPerFlightHour4Pax
	case 8:
		return costPerFlightHour8Pax
	case 12:
		return costPerFlightHour12Pax
	default:
		return nil
	}
}

// interpLinear does a clamped-at-the-ends linear interpolation of y over
// points (xs[i], ys[i]), xs assumed sorted ascending.
func interpLinear(x float64, xs, ys []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	if x <= xs[0] {
		return ys[0]
	}
	if x >= xs[len(xs)-1] {
		return ys[len(ys)-1]
	}
	for i := 1; i < len(xs); i++ {
		if x <= xs[i] {
			t := (x - xs[i-1]) / (xs[i] - xs[i-1])
			return ys[i-1] + t*(ys[i]-ys[i-1])
		}
	}
	return ys[len(ys)-1]
}

// CostSummary is the total and per-unit operating cost of a completed run,
// derived by interpolating each aircraft's accumulated flight hours
// against a capacity-specific dollars-per-flight-hour curve.
type CostSummary struct {
	TotalCost       float64
	CostPerDemand   float64
	CostPerAircraft float64
}

// ComputeCost reduces w's aircraft flight hours into a CostSummary for the
// given seat capacity. It returns a zero CostSummary if capacity is not one
// of the curves the cost model supports. If no demand was satisfied or the
// network has no aircraft, only TotalCost is set and the per-demand and
// per-aircraft costs are zero.
func ComputeCost(w *World, capacity int) CostSummary {
	costCurve := costCurveForCapacity(capacity)
	if costCurve == nil {
		return CostSummary{}
	}

	var total float64
	var numAircraft int
	for _, v := range w.Vertiports {
		numAircraft += len(v.Aircrafts)
		for _, a := range v.Aircrafts {
			rate := interpLinear(a.FlightHours, flightHourBreakpoints, costCurve)
			total += a.FlightHours * rate
		}
	}

	_, satisfied := SatisfiedDemandCount(w)
	if satisfied == 0 || numAircraft == 0 {
		return CostSummary{TotalCost: total}
	}

	return CostSummary{
		TotalCost:       total,
		CostPerDemand:   total / float64(satisfied),
		CostPerAircraft: total / float64(numAircraft),
	}
}

// SatisfiedDemandCount returns the percentage and raw count of demands in
// w.Demands whose Status is DemandSatisfied.
func SatisfiedDemandCount(w *World) (percent float64, count int) {
	if len(w.Demands) == 0 {
		return 0, 0
	}
	for _, d := range w.Demands {
		if d.Status == DemandSatisfied {
			count++
		}
	}
	return 100 * float64(count) / float64(len(w.Demands)), count
}

// MeanFlightDelayHours returns the mean FlightDelay, in hours, across every
// demand with Status DemandSatisfied. It returns NaN if there are none,
// matching the source's behavior of averaging an empty list.
func MeanFlightDelayHours(w *World) float64 {
	var sum float64
	var n int
	for _, d := range w.Demands {
		if d.Status == DemandSatisfied {
			sum += float64(d.DelayedAt.FlightDelay)
			n++
		}
	}
	if n == 0 {
		return gomath.NaN()
	}
	return sum / float64(n) / 3600
}

// MeanFlightHours returns the mean accumulated FlightHours across every
// aircraft in the network. It returns NaN if the network has no aircraft.
func MeanFlightHours(w *World) float64 {
	var sum float64
	var n int
	for _, v := range w.Vertiports {
		for _, a := range v.Aircrafts {
			sum += a.FlightHours
			n++
		}
	}
	if n == 0 {
		return gomath.NaN()
	}
	return sum / float64(n)
}

// NumberOfFlights returns the total count of arrivals recorded across the
// network, summing each vertiport's ArrivingEpochs. An arrival is recorded
// when a cruise phase ends, whether the aircraft then lands or holds.
func NumberOfFlights(w *World) int {
	var total int
	for _, v := range w.Vertiports {
		total += len(v.ArrivingEpochs)
	}
	return total
}
