// rand/rand.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// Package rand provides a small, deterministic PCG32-based random number
// generator. The demand-schedule generator needs a source that gives
// byte-identical sequences across runs for a given seed; math/rand's
// algorithm is not specified to be stable across Go versions, so we carry
// our own.
package rand

const (
	pcg32State      = 0x853c49e6748fea9b
	pcg32Increment  = 0xda3e39cb94b95bdb
	pcg32Multiplier = 0x5851f42d4c957f2d
)

// PCG32 is a small, fast, statistically solid PRNG with 64 bits of state.
type PCG32 struct {
	State     uint64
	Increment uint64
}

func NewPCG32() PCG32 {
	return PCG32{pcg32State, pcg32Increment}
}

func (p *PCG32) Seed(state, sequence uint64) {
	p.Increment = (sequence << 1) | 1
	p.State = (state+p.Increment)*pcg32Multiplier + p.Increment
}

func (p *PCG32) Random() uint32 {
	oldState := p.State
	p.State = oldState*pcg32Multiplier + p.Increment

	xorShifted := uint32(((oldState >> 18) ^ oldState) >> 27)
	rot := uint32(oldState >> 59)
	return (xorShifted >> rot) | (xorShifted << ((-rot) & 31))
}

func (p *PCG32) Bounded(bound uint32) uint32 {
	if bound == 0 {
		return 0
	}
	threshold := -bound % bound
	for {
		r := p.Random()
		if r >= threshold {
			return r % bound
		}
	}
}

// Rand is a per-instance random source; a simulator run holds its own Rand
// so that two concurrent sweep workers never share, and therefore never
// race on, generator state.
type Rand struct {
	PCG32
}

// New returns a new Rand seeded from a fixed default state; callers that
// care about reproducibility should call Seed explicitly.
func New() Rand {
	return Rand{PCG32: NewPCG32()}
}

func (r *Rand) Seed(s int64) {
	r.PCG32.Seed(uint64(s), pcg32Increment)
}

func (r *Rand) Intn(n int) int {
	return int(r.Bounded(uint32(n)))
}

func (r *Rand) Float64() float64 {
	return float64(r.Random()) / (1<<32 - 1)
}
