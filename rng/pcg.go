// Package rng implements the PCG32 generator used for per-pixel random
// streams. The generator is a plain value type so an image-sized buffer of
// streams can persist across frames without per-pixel allocations.
package rng

const (
	pcgMultiplier = 6364136223846793005
	pcgIncrement  = 1442695040888963407
)

// PCG32 is a permuted-congruential generator (XSH-RR variant) with a
// 64-bit state and a per-stream increment. The zero value is NOT a valid
// generator; use New.
type PCG32 struct {
	state uint64
	inc   uint64
}

// New creates a generator for an independent stream. Two generators with
// different stream ids produce uncorrelated sequences even for equal seeds.
func New(seed, stream uint64) PCG32 {
	g := PCG32{inc: stream<<1 | 1}
	g.state = g.inc + seed
	g.state = g.state*pcgMultiplier + g.inc
	return g
}

// Uint32 advances the stream and returns the next 32 random bits.
func (g *PCG32) Uint32() uint32 {
	old := g.state
	g.state = old*pcgMultiplier + g.inc

	xorshifted := uint32(((old >> 18) ^ old) >> 27)
	rot := uint32(old >> 59)
	return xorshifted>>rot | xorshifted<<((-rot)&31)
}

// Float32 returns a uniform value in [0, 1).
func (g *PCG32) Float32() float32 {
	// 24 mantissa bits keep the result strictly below 1.
	return float32(g.Uint32()>>8) * (1.0 / (1 << 24))
}
