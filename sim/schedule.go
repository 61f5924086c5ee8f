// sim/schedule.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package sim

import (
	"sort"

	vrand "github.com/nimbusfleet/vertisim/rand"
)

// GenerateDemandSchedule produces count demands with random origin,
// destination and start_time uniformly distributed over
// [startTime, endTime), sorted by start_time ascending. Origin and
// destination are always distinct vertiports, chosen from w.Vertiports by
// index. ids are assigned sequentially starting at firstID.
func GenerateDemandSchedule(w *World, r *vrand.Rand, count int, startTime, endTime int64, firstID int) []*Demand {
	if len(w.Vertiports) < 2 || count <= 0 {
		return nil
	}

	duration := endTime - startTime
	demands := make([]*Demand, count)

	for i := 0; i < count; i++ {
		originIdx := r.Intn(len(w.Vertiports))
		destIdx := r.Intn(len(w.Vertiports))
		for destIdx == originIdx {
			destIdx = r.Intn(len(w.Vertiports))
		}

		startOffset := int64(r.Float64() * float64(duration))
		if duration > 0 && startOffset >= duration {
			// Float64 can return exactly 1.
			startOffset = duration - 1
		}

		demands[i] = &Demand{
			ID:            firstID + i,
			OriginID:      w.Vertiports[originIdx].ID,
			DestinationID: w.Vertiports[destIdx].ID,
			StartTime:     startTime + startOffset,
		}
	}

	sort.Slice(demands, func(i, j int) bool { return demands[i].StartTime < demands[j].StartTime })
	return demands
}
