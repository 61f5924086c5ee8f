// sim/snapshot_test.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package sim

import (
	"bytes"
	"testing"
)

func sampleWorld() *World {
	v1 := &Vertiport{ID: 1, Capacity: 2}
	v1.Pads = []*Pad{{ID: 1, Status: PadReady}}
	a := &Aircraft{ID: 1, DBID: 1, Status: AircraftReady, Capacity: 4}
	v1.AddAircraft(a)
	v2 := &Vertiport{ID: 2, Capacity: 2}
	v2.ArrivingEpochs = []int64{100, 250, 400}

	w := &World{
		Vertiports:   []*Vertiport{v1, v2},
		Demands:      []*Demand{{ID: 1, OriginID: 1, DestinationID: 2, StartTime: 0}},
		AircraftInfo: map[int]AircraftPerformance{1: {Capacity: 4}},
	}
	w.Reindex()
	return w
}

func TestSnapshotIsIndependentCopy(t *testing.T) {
	w := sampleWorld()
	cp := Snapshot(w)

	if cp == w {
		t.Fatalf("expected a distinct *World")
	}
	if cp.VertiportByID(1) == w.VertiportByID(1) {
		t.Errorf("expected vertiports to be independently allocated")
	}

	// mutating the copy must not affect the original
	cp.VertiportByID(1).AircraftByID(1).Status = AircraftTakeoff
	if w.VertiportByID(1).AircraftByID(1).Status != AircraftReady {
		t.Errorf("snapshot copy aliased the original aircraft")
	}

	if cp.DemandByID(1) == nil {
		t.Errorf("expected the copy's index rebuilt by Reindex")
	}
}

func TestCheckpointRoundTrip(t *testing.T) {
	w := sampleWorld()

	var buf bytes.Buffer
	if err := WriteCheckpoint(&buf, w); err != nil {
		t.Fatalf("WriteCheckpoint: %v", err)
	}

	restored, err := ReadCheckpoint(&buf)
	if err != nil {
		t.Fatalf("ReadCheckpoint: %v", err)
	}

	if len(restored.Vertiports) != len(w.Vertiports) {
		t.Fatalf("vertiport count = %d, want %d", len(restored.Vertiports), len(w.Vertiports))
	}
	if restored.VertiportByID(1) == nil || restored.VertiportByID(1).AircraftByID(1) == nil {
		t.Fatalf("expected vertiport 1 and its aircraft to round-trip")
	}
	if restored.DemandByID(1) == nil {
		t.Fatalf("expected demand 1 to round-trip")
	}

	got := restored.VertiportByID(2).ArrivingEpochs
	want := []int64{100, 250, 400}
	if len(got) != len(want) {
		t.Fatalf("ArrivingEpochs = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("ArrivingEpochs[%d] = %d, want %d", i, got[i], want[i])
		}
	}
}
