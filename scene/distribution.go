package scene

// Distribution1D is a discrete sampling table over non-negative importance
// values. Each level of the light hierarchy (instance, geometry instance,
// primitive) owns its own table; there are no shared global registries.
type Distribution1D struct {
	cdf      []float32
	integral float32
}

// NewDistribution1D builds a cumulative table from raw importance values.
// Zero-importance entries are valid and are never selected.
func NewDistribution1D(importance []float32) Distribution1D {
	cdf := make([]float32, len(importance))
	var sum float32
	for i, v := range importance {
		sum += v
		cdf[i] = sum
	}
	return Distribution1D{cdf: cdf, integral: sum}
}

// Integral returns the un-normalized total importance.
func (d Distribution1D) Integral() float32 {
	return d.integral
}

// Prob returns the selection probability of entry i.
func (d Distribution1D) Prob(i int) float32 {
	if d.integral <= 0 || i < 0 || i >= len(d.cdf) {
		return 0
	}
	lo := float32(0)
	if i > 0 {
		lo = d.cdf[i-1]
	}
	return (d.cdf[i] - lo) / d.integral
}

// Sample maps a uniform value in [0,1) to an entry index together with its
// selection probability and a remapped uniform value. The remapped value is
// the position of u within the selected entry's span, rescaled back to
// [0,1), so one input uniform can drive a whole hierarchy of tables.
func (d Distribution1D) Sample(u float32) (index int, prob float32, uRemapped float32) {
	if d.integral <= 0 || len(d.cdf) == 0 {
		return -1, 0, u
	}

	target := u * d.integral
	// Binary search for the first entry whose cumulative value exceeds target.
	lo, hi := 0, len(d.cdf)-1
	for lo < hi {
		mid := (lo + hi) / 2
		if d.cdf[mid] <= target {
			lo = mid + 1
		} else {
			hi = mid
		}
	}

	prev := float32(0)
	if lo > 0 {
		prev = d.cdf[lo-1]
	}
	span := d.cdf[lo] - prev
	if span <= 0 {
		// Floating point landed on a zero-importance boundary; walk forward
		// to the owning entry.
		for lo < len(d.cdf)-1 && span <= 0 {
			lo++
			prev = d.cdf[lo-1]
			span = d.cdf[lo] - prev
		}
		if span <= 0 {
			return -1, 0, u
		}
	}

	uRemapped = (target - prev) / span
	if uRemapped >= 1 {
		uRemapped = 0.99999994 // largest float32 below 1
	}
	return lo, span / d.integral, uRemapped
}
