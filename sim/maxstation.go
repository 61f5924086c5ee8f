// sim/maxstation.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package sim

import (
	gomath "math"
	"strconv"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/iancoleman/orderedmap"
)

// StationTimePoint is one (arrival_rate, max_seconds) sample of a
// considered-capacity curve.
type StationTimePoint struct {
	Rate       float64
	MaxSeconds float64
}

// MaxStationTimeTable is the congestion-adaptive cap on time_on_vertiport,
// keyed by considered capacity and interpolated by arrival rate. It is
// supplied externally (an opaque collaborator per the spec). Curves are
// held in an orderedmap.OrderedMap keyed by capacity and looked up by key;
// keys are inserted in the iteration order of the map passed to
// NewMaxStationTimeTable, which Go leaves undefined. Interpolation assumes
// each curve is sorted ascending by rate; neither NewMaxStationTimeTable
// nor LoadMaxStationTimeTable sorts or checks it.
type MaxStationTimeTable struct {
	curves *orderedmap.OrderedMap
	cache  *lru.Cache[stationCacheKey, float64]
}

type stationCacheKey struct {
	consideredCapacity int
	rate               float64
}

// NewMaxStationTimeTable builds a table from considered_capacity -> curve,
// memoizing repeated (capacity, rate) interpolation lookups, since a long
// run re-evaluates the same handful of congestion points every tick.
func NewMaxStationTimeTable(curves map[int][]StationTimePoint) *MaxStationTimeTable {
	om := orderedmap.New()
	for capacity, curve := range curves {
		om.Set(strconv.Itoa(capacity), curve)
	}
	cache, _ := lru.New[stationCacheKey, float64](256)
	return &MaxStationTimeTable{curves: om, cache: cache}
}

// Lookup returns the linearly-interpolated max station time for the given
// considered capacity at the given arrival rate, clamping to the nearest
// endpoint outside the curve's domain. +Inf is returned if no curve exists
// for consideredCapacity, which effectively disables the cap.
func (t *MaxStationTimeTable) Lookup(consideredCapacity int, rate float64) float64 {
	key := stationCacheKey{consideredCapacity, rate}
	if v, ok := t.cache.Get(key); ok {
		return v
	}

	raw, ok := t.curves.Get(strconv.Itoa(consideredCapacity))
	if !ok {
		return gomath.Inf(1)
	}
	curve, ok := raw.([]StationTimePoint)
	if !ok || len(curve) == 0 {
		return gomath.Inf(1)
	}

	v := interpolateStationCurve(curve, rate)
	t.cache.Add(key, v)
	return v
}

// interpolateStationCurve assumes curve is sorted ascending by Rate.
func interpolateStationCurve(curve []StationTimePoint, rate float64) float64 {
	if rate <= curve[0].Rate {
		return curve[0].MaxSeconds
	}
	last := curve[len(curve)-1]
	if rate >= last.Rate {
		return last.MaxSeconds
	}
	for i := 1; i < len(curve); i++ {
		lo, hi := curve[i-1], curve[i]
		if rate <= hi.Rate {
			if hi.Rate == lo.Rate {
				return lo.MaxSeconds
			}
			frac := (rate - lo.Rate) / (hi.Rate - lo.Rate)
			return lo.MaxSeconds + frac*(hi.MaxSeconds-lo.MaxSeconds)
		}
	}
	return last.MaxSeconds
}
