package restir

// Params holds the tunable constants of the three resampling stages. The
// defaults encode a bias/variance trade-off validated empirically; change
// them deliberately, not casually.
type Params struct {
	// Log2NumCandidates sets the per-pixel candidate count for initial
	// resampling to 2^Log2NumCandidates.
	Log2NumCandidates uint32

	// TemporalHistoryFactor caps how much history the previous frame's
	// reservoir may inject: its sample count is clamped to
	// TemporalHistoryFactor * the current reservoir's count.
	TemporalHistoryFactor uint32

	// SpatialTrials is the number of neighbor reuse attempts per pixel.
	SpatialTrials int

	// SpatialRadius is the maximum neighbor disk radius in pixels.
	SpatialRadius float32

	// DepthThreshold rejects a spatial neighbor whose view depth differs
	// from the receiver's by more than this fraction.
	DepthThreshold float32

	// NormalThreshold rejects a spatial neighbor whose shading normal's
	// dot product with the receiver's falls below this value.
	NormalThreshold float32
}

// DefaultParams returns the stock stage tuning.
func DefaultParams() Params {
	return Params{
		Log2NumCandidates:     5,
		TemporalHistoryFactor: 20,
		SpatialTrials:         5,
		SpatialRadius:         20,
		DepthThreshold:        0.1,
		NormalThreshold:       0.9,
	}
}

// NumCandidates returns the per-pixel candidate count.
func (p Params) NumCandidates() uint32 {
	return 1 << p.Log2NumCandidates
}
