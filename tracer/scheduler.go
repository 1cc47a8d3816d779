package tracer

import (
	"math"
	"time"
)

// BlockScheduler splits a frame into horizontal row blocks, one per worker.
type BlockScheduler interface {
	// Schedule returns the block height assigned to each of numWorkers
	// workers, summing to frameH. lastTimes carries each worker's
	// processing time for its previous assignment (nil or zeroes on the
	// first frame).
	Schedule(numWorkers int, frameH uint32, lastTimes []time.Duration) []uint32
}

// NaiveScheduler assigns every worker an equal share of rows.
type naiveScheduler struct{}

func NewNaiveScheduler() BlockScheduler {
	return naiveScheduler{}
}

func (naiveScheduler) Schedule(numWorkers int, frameH uint32, _ []time.Duration) []uint32 {
	assignment := make([]uint32, numWorkers)
	per := frameH / uint32(numWorkers)
	for i := range assignment {
		assignment[i] = per
	}
	assignment[0] += frameH - per*uint32(numWorkers)
	return assignment
}

// The feedback scheduler assumes the volume of tracing work between two
// subsequent frames is approximately the same: each worker's next share is
// proportional to its measured rows-per-time throughput, so slow rows
// (complex image regions) end up in smaller blocks.
type feedbackScheduler struct {
	blockAssignment []uint32
}

func NewFeedbackScheduler() BlockScheduler {
	return &feedbackScheduler{}
}

func (sch *feedbackScheduler) Schedule(numWorkers int, frameH uint32, lastTimes []time.Duration) []uint32 {
	// First schedule, worker count changed, or no usable feedback: equal split.
	if len(sch.blockAssignment) != numWorkers || len(lastTimes) != numWorkers || !usable(lastTimes) {
		sch.blockAssignment = NewNaiveScheduler().Schedule(numWorkers, frameH, nil)
		return sch.blockAssignment
	}

	// Estimate each worker's throughput from the previous frame:
	// share_i = (blockH_i / time_i) / sum_j(blockH_j / time_j)
	var total float64
	for i := range lastTimes {
		total += float64(sch.blockAssignment[i]) / float64(lastTimes[i])
	}

	scaler := float64(frameH) / total
	var scheduledRows uint32
	for i := range lastTimes {
		rate := float64(sch.blockAssignment[i]) / float64(lastTimes[i])
		sch.blockAssignment[i] = uint32(math.Max(1.0, math.Floor(rate*scaler)))
		scheduledRows += sch.blockAssignment[i]
	}

	// Rounding may leave rows unassigned (or over-assigned); settle the
	// difference on the first worker.
	if scheduledRows <= frameH {
		sch.blockAssignment[0] += frameH - scheduledRows
	} else {
		sch.blockAssignment = NewNaiveScheduler().Schedule(numWorkers, frameH, nil)
	}

	return sch.blockAssignment
}

func usable(times []time.Duration) bool {
	for _, t := range times {
		if t <= 0 {
			return false
		}
	}
	return true
}
