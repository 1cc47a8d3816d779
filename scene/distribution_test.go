package scene

import (
	"math"
	"testing"

	"github.com/glint-render/glint/rng"
)

func TestDistributionProbabilities(t *testing.T) {
	d := NewDistribution1D([]float32{1, 0, 3, 4})

	if d.Integral() != 8 {
		t.Fatalf("integral = %f, want 8", d.Integral())
	}

	wantProbs := []float32{0.125, 0, 0.375, 0.5}
	for i, want := range wantProbs {
		if got := d.Prob(i); math.Abs(float64(got-want)) > 1e-6 {
			t.Errorf("Prob(%d) = %f, want %f", i, got, want)
		}
	}
}

func TestDistributionSampleFrequencies(t *testing.T) {
	d := NewDistribution1D([]float32{1, 0, 3, 4})
	g := rng.New(7, 0)

	const n = 80000
	counts := make([]int, 4)
	for i := 0; i < n; i++ {
		idx, prob, u := d.Sample(g.Float32())
		if idx < 0 {
			t.Fatal("sample failed on non-empty distribution")
		}
		if prob <= 0 {
			t.Fatalf("selected entry %d with non-positive probability %f", idx, prob)
		}
		if u < 0 || u >= 1 {
			t.Fatalf("remapped uniform %f out of [0,1)", u)
		}
		counts[idx]++
	}

	if counts[1] != 0 {
		t.Errorf("zero-importance entry selected %d times", counts[1])
	}

	for i, want := range []float64{0.125, 0, 0.375, 0.5} {
		got := float64(counts[i]) / n
		if math.Abs(got-want) > 0.01 {
			t.Errorf("entry %d frequency %f, want %f", i, got, want)
		}
	}
}

func TestDistributionRemappedUniformIsUniform(t *testing.T) {
	// The remapped value must itself be uniform so that it can drive the
	// next hierarchy level.
	d := NewDistribution1D([]float32{2, 6})
	g := rng.New(21, 1)

	const n = 50000
	const buckets = 10
	var counts [buckets]int
	for i := 0; i < n; i++ {
		_, _, u := d.Sample(g.Float32())
		counts[int(u*buckets)]++
	}

	expected := float64(n) / buckets
	for b, c := range counts {
		if math.Abs(float64(c)-expected) > expected*0.1 {
			t.Errorf("remapped bucket %d count %d deviates from %f", b, c, expected)
		}
	}
}

func TestDistributionDegenerate(t *testing.T) {
	empty := NewDistribution1D(nil)
	if idx, _, _ := empty.Sample(0.5); idx != -1 {
		t.Errorf("empty distribution sampled index %d", idx)
	}

	zeros := NewDistribution1D([]float32{0, 0, 0})
	if idx, _, _ := zeros.Sample(0.5); idx != -1 {
		t.Errorf("all-zero distribution sampled index %d", idx)
	}
}
