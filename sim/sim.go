// sim/sim.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package sim

import vlog "github.com/nimbusfleet/vertisim/log"

// Result is the outcome of a full simulation run: the mutated world, the
// fatal messages raised (empty on nominal completion), and the last epoch
// the tick driver processed.
type Result struct {
	World      *World
	Messages   []string
	FinalEpoch int64
}

// Run iterates ticks of time_step seconds from params.StartTime to
// params.EndTime inclusive, stopping early the instant a tick raises a
// fatal message. w is mutated in place; Result.World aliases it. events
// may be nil if no observer needs tick-level detail.
func Run(w *World, params *Params, table *MaxStationTimeTable, logger *vlog.Logger, events *EventStream) Result {
	var epoch int64
	for epoch = params.StartTime; epoch <= params.EndTime; epoch += params.TimeStep {
		msgs := RunTick(w, params, table, logger, events, epoch)
		if len(msgs) > 0 {
			return Result{World: w, Messages: msgs, FinalEpoch: epoch}
		}
	}
	return Result{World: w, FinalEpoch: epoch - params.TimeStep}
}
