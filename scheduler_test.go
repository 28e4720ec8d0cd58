package avoir

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestRunTasksStreamsAllResults(t *testing.T) {
	tasks := []task{
		{id: 1, kind: taskBase, run: func(ctx context.Context) (any, error) { return "a", nil }},
		{id: 2, kind: taskCommodity, run: func(ctx context.Context) (any, error) { return "b", nil }},
		{id: 3, kind: taskCrypto, run: func(ctx context.Context) (any, error) { return nil, errors.New("boom") }},
	}

	got := make(map[int]taskResult)
	runTasks(context.Background(), tasks, time.Second, func(r taskResult) { got[r.id] = r })

	if len(got) != 3 {
		t.Fatalf("collected %d results, want 3", len(got))
	}
	if got[1].value != "a" || !got[1].ok() {
		t.Errorf("task 1 result = %+v", got[1])
	}
	if got[3].ok() {
		t.Errorf("task 3 should have failed, got %+v", got[3])
	}
}

func TestRunTasksEmpty(t *testing.T) {
	start := time.Now()
	runTasks(context.Background(), nil, time.Second, func(taskResult) {
		t.Error("sink called with no tasks")
	})
	if time.Since(start) > 100*time.Millisecond {
		t.Error("runTasks did not return immediately with no tasks")
	}
}

// Completed tasks are merged even when a sibling never finishes, and the
// call returns within the budget plus at most one slice.
func TestRunTasksAbandonsPendingAtDeadline(t *testing.T) {
	budget := 300 * time.Millisecond
	tasks := []task{
		{id: 1, kind: taskBase, run: func(ctx context.Context) (any, error) { return "fast", nil }},
		{id: 2, kind: taskCommodity, run: func(ctx context.Context) (any, error) {
			<-ctx.Done() // hangs until the cycle context is cancelled
			return nil, ctx.Err()
		}},
	}

	var got []taskResult
	start := time.Now()
	runTasks(context.Background(), tasks, budget, func(r taskResult) { got = append(got, r) })
	elapsed := time.Since(start)

	if elapsed > budget+2*sliceInterval {
		t.Errorf("runTasks took %v, want at most %v", elapsed, budget+2*sliceInterval)
	}

	fast := 0
	for _, r := range got {
		if r.id == 1 && r.ok() {
			fast++
		}
	}
	if fast != 1 {
		t.Errorf("fast task result not streamed before the deadline: %+v", got)
	}
}

// Even a pre-spent budget grants one slice, so near-instant tasks land.
func TestRunTasksZeroBudgetStillTriesOnce(t *testing.T) {
	tasks := []task{
		{id: 1, kind: taskBase, run: func(ctx context.Context) (any, error) { return "quick", nil }},
	}

	var got []taskResult
	runTasks(context.Background(), tasks, 0, func(r taskResult) { got = append(got, r) })

	if len(got) != 1 || !got[0].ok() {
		t.Errorf("instant task not collected with a zero budget: %+v", got)
	}
}
