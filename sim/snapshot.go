// sim/snapshot.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package sim

import (
	"io"

	"github.com/brunoga/deep"
	"github.com/klauspost/compress/zstd"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/nimbusfleet/vertisim/util"
)

// Snapshot returns a deep, independent copy of w. The sweep runner takes
// one of the base world per sweep point so concurrent runs never share
// mutable vertiport or aircraft state.
func Snapshot(w *World) *World {
	cp := deep.MustCopy(w)
	cp.Reindex()
	return cp
}

// WriteCheckpoint msgpack-encodes and zstd-compresses w to dst, for
// resuming a long sweep run after an interruption. ArrivingEpochs is an
// append-only, monotonically nondecreasing record, so it delta-encodes
// to mostly-small deltas before the general-purpose zstd pass, the same
// way a vice weather fetch delta-encodes its timestamp series before
// compressing it.
func WriteCheckpoint(dst io.Writer, w *World) error {
	cp := Snapshot(w)
	for _, v := range cp.Vertiports {
		v.ArrivingEpochs = util.DeltaEncode(v.ArrivingEpochs)
	}

	zw, err := zstd.NewWriter(dst)
	if err != nil {
		return err
	}
	if err := msgpack.NewEncoder(zw).Encode(cp); err != nil {
		zw.Close()
		return err
	}
	return zw.Close()
}

// ReadCheckpoint decodes a checkpoint written by WriteCheckpoint,
// delta-decodes each vertiport's ArrivingEpochs back to absolute epochs,
// and reindexes the result before returning.
func ReadCheckpoint(src io.Reader) (*World, error) {
	zr, err := zstd.NewReader(src)
	if err != nil {
		return nil, err
	}
	defer zr.Close()

	var w World
	if err := msgpack.NewDecoder(zr).Decode(&w); err != nil {
		return nil, err
	}
	for _, v := range w.Vertiports {
		v.ArrivingEpochs = util.DeltaDecode(v.ArrivingEpochs)
	}
	w.Reindex()
	return &w, nil
}
