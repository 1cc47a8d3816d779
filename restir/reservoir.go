// Package restir implements the reservoir data structure and weighting
// rules for spatiotemporal resampled direct lighting. A reservoir is a
// fixed-size stochastic summary of the best light sample observed in a
// weighted candidate stream; reservoirs are merged across frames and
// across neighboring pixels to share sampling work.
package restir

import (
	"fmt"
	"math"
)

// Reservoir performs streaming weighted reservoir sampling over candidates
// of type T. After any prefix of the stream has been folded in via Update,
// the held sample is distributed proportionally to the weights seen so far.
//
// One reservoir exists per pixel per buffer slot; it is mutated only
// through Update during a single resampling pass and read-only afterwards.
type Reservoir[T any] struct {
	sample      T
	sumWeights  float32
	numSamples  uint32
	recPDFValue float32
}

// Initialize resets the reservoir to its empty state. The held sample is
// unspecified until the first accepted Update.
func (r *Reservoir[T]) Initialize() {
	r.sumWeights = 0
	r.numSamples = 0
	r.recPDFValue = 0
}

// Update folds one candidate into the stream. The candidate replaces the
// held sample with probability weight/sumWeights, decided by the caller
// supplied uniform value u in [0,1). Returns whether the candidate was
// accepted.
//
// A negative or NaN weight is a contract violation and panics: it signals
// a bug in the weighting math upstream, not a runtime condition.
func (r *Reservoir[T]) Update(sample T, weight, u float32) bool {
	if weight < 0 || weight != weight {
		panic(fmt.Sprintf("restir: invalid reservoir weight %f", weight))
	}

	r.sumWeights += weight
	r.numSamples++

	if u < weight/r.sumWeights {
		r.sample = sample
		return true
	}
	return false
}

// Sample returns the surviving candidate. Undefined before the first
// accepted Update.
func (r *Reservoir[T]) Sample() T {
	return r.sample
}

// SumWeights returns the running sum of stream weights.
func (r *Reservoir[T]) SumWeights() float32 {
	return r.sumWeights
}

// NumSamples returns the number of candidates folded in so far.
func (r *Reservoir[T]) NumSamples() uint32 {
	return r.numSamples
}

// SetNumSamples overrides the candidate count. The temporal and spatial
// stages use this to apply history capping, deliberately trading exact
// counting for bounded weight growth.
func (r *Reservoir[T]) SetNumSamples(n uint32) {
	r.numSamples = n
}

// CalcRecPDFValue computes the RIS estimate of 1/pdf for the surviving
// sample: (sumWeights / numSamples) / targetDensity. The reservoir does not
// store target densities, so the caller passes the surviving sample's
// (re-)evaluated density. A zero density or an empty reservoir yields
// exactly zero; a non-finite intermediate is clamped to zero rather than
// poisoning downstream shading.
func (r *Reservoir[T]) CalcRecPDFValue(targetDensity float32) {
	if targetDensity <= 0 || r.numSamples == 0 {
		r.recPDFValue = 0
		return
	}

	v := (r.sumWeights / float32(r.numSamples)) / targetDensity
	if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) || v < 0 {
		v = 0
	}
	r.recPDFValue = v
}

// RecPDFValue returns the last computed reciprocal-PDF estimate.
func (r *Reservoir[T]) RecPDFValue() float32 {
	return r.recPDFValue
}

// SetRecPDFValue overrides the reciprocal-PDF estimate. Used to zero out a
// reservoir whose surviving sample failed the visibility test.
func (r *Reservoir[T]) SetRecPDFValue(v float32) {
	r.recPDFValue = v
}

// Combine merges a neighbor reservoir into a copy of self, the reuse rule
// shared by the temporal and spatial stages. Self acts as a direct,
// high-confidence seed (copied whole when its reciprocal-PDF estimate is
// positive); the neighbor contributes a single streamed candidate carrying
// weight neighborDensity * neighbor.recPDFValue * cappedCount, where
// neighborDensity is the neighbor sample's target density re-evaluated at
// self's surface point and cappedCount bounds the neighbor's history.
//
// The combined count is set to the sum of both (capped) counts. This
// approximates, rather than exactly tracks, the number of underlying
// candidates; the approximation is what keeps stale history from dominating
// indefinitely. Note that capping makes the operation order-dependent.
//
// The caller recomputes the reciprocal-PDF estimate afterwards.
func Combine[T any](self, neighbor *Reservoir[T], neighborDensity float32, cappedCount uint32, u float32) Reservoir[T] {
	var combined Reservoir[T]
	combined.Initialize()
	if self.recPDFValue > 0 {
		combined = *self
	}

	weight := neighborDensity * neighbor.recPDFValue * float32(cappedCount)
	combined.Update(neighbor.sample, weight, u)
	combined.SetNumSamples(self.numSamples + cappedCount)

	return combined
}
