package tracer

import (
	"testing"
	"time"
)

func TestNaiveSchedulerSplitsEvenly(t *testing.T) {
	assignment := NewNaiveScheduler().Schedule(4, 102, nil)

	var total uint32
	for _, h := range assignment {
		total += h
	}
	if total != 102 {
		t.Fatalf("assigned rows sum to %d, want 102", total)
	}
	// 102 = 25*4 + 2 leftover rows on worker 0.
	if assignment[0] != 27 {
		t.Errorf("worker 0 rows = %d, want 27", assignment[0])
	}
	for i := 1; i < 4; i++ {
		if assignment[i] != 25 {
			t.Errorf("worker %d rows = %d, want 25", i, assignment[i])
		}
	}
}

func TestFeedbackSchedulerFirstFrameEqual(t *testing.T) {
	sch := NewFeedbackScheduler()
	assignment := sch.Schedule(2, 100, nil)
	if assignment[0] != 50 || assignment[1] != 50 {
		t.Fatalf("first frame assignment %v, want equal split", assignment)
	}
}

func TestFeedbackSchedulerShiftsRowsToFasterWorker(t *testing.T) {
	sch := NewFeedbackScheduler()
	sch.Schedule(2, 100, nil)

	// Worker 1 processed its 50 rows four times faster than worker 0.
	assignment := sch.Schedule(2, 100, []time.Duration{
		400 * time.Millisecond,
		100 * time.Millisecond,
	})

	var total uint32
	for _, h := range assignment {
		total += h
	}
	if total != 100 {
		t.Fatalf("assigned rows sum to %d, want 100", total)
	}
	if assignment[1] <= assignment[0] {
		t.Errorf("faster worker got %d rows vs %d; expected more", assignment[1], assignment[0])
	}
	// Throughput ratio 1:4 puts worker 1 near 80 rows.
	if assignment[1] < 75 || assignment[1] > 85 {
		t.Errorf("faster worker rows = %d, want ~80", assignment[1])
	}
}

func TestFeedbackSchedulerWorkerCountChange(t *testing.T) {
	sch := NewFeedbackScheduler()
	sch.Schedule(2, 100, nil)

	assignment := sch.Schedule(4, 100, []time.Duration{time.Second, time.Second})
	if len(assignment) != 4 {
		t.Fatalf("assignment length %d, want 4", len(assignment))
	}
	var total uint32
	for _, h := range assignment {
		total += h
	}
	if total != 100 {
		t.Fatalf("assigned rows sum to %d, want 100", total)
	}
}
