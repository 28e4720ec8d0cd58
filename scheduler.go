package avoir

import (
	"context"
	"log"
	"time"
)

// taskKind tags a scheduled provider call with the merge path its result
// takes.
type taskKind int

const (
	taskBase taskKind = iota
	taskCommodity
	taskCrypto
	taskCryptoBatch
)

func (k taskKind) String() string {
	switch k {
	case taskBase:
		return "base"
	case taskCommodity:
		return "commodity"
	case taskCrypto:
		return "crypto"
	case taskCryptoBatch:
		return "crypto_batch"
	}
	return "unknown"
}

// taskMeta carries the provider-specific key of a task, used by the merger
// to route the value and by logs to name the failure.
type taskMeta struct {
	commodity Commodity
	symbol    string // crypto ticker for taskCrypto
	base      string // fiat currency for taskCrypto
	assets    int    // asset count for taskCryptoBatch
}

// task is one unit of work within a refresh cycle: a single provider call.
type task struct {
	id   int
	kind taskKind
	meta taskMeta
	run  func(ctx context.Context) (any, error)
}

// taskResult is the outcome of one task. Exactly one result is produced per
// task; failures are captured here instead of aborting sibling tasks.
type taskResult struct {
	id    int
	kind  taskKind
	meta  taskMeta
	value any
	err   error
}

func (r taskResult) ok() bool { return r.err == nil }

// sliceInterval is the short polling interval used to periodically re-check
// the global deadline while tasks are in flight.
const sliceInterval = 200 * time.Millisecond

// runTasks fans the tasks out concurrently and streams each result to sink
// as it completes, merging partial results even if the cycle is later cut
// short. It returns when every task completed or when the deadline passed,
// whichever comes first; pending tasks are then abandoned and their contexts
// cancelled. Even when the budget is already spent on entry, one slice is
// still waited so fast-resolving tasks get a chance to land.
func runTasks(ctx context.Context, tasks []task, globalTimeout time.Duration, sink func(taskResult)) {
	if len(tasks) == 0 {
		return
	}

	cctx, cancel := context.WithTimeout(ctx, globalTimeout)
	defer cancel()

	results := make(chan taskResult, len(tasks))
	for _, t := range tasks {
		go func(t task) {
			value, err := t.run(cctx)
			results <- taskResult{id: t.id, kind: t.kind, meta: t.meta, value: value, err: err}
		}(t)
	}

	deadline := time.Now().Add(globalTimeout)
	timer := time.NewTimer(sliceInterval)
	defer timer.Stop()

	pending := len(tasks)
	for pending > 0 {
		select {
		case r := <-results:
			pending--
			sink(r)
		case <-timer.C:
		}

		if pending > 0 && time.Now().After(deadline) {
			log.Printf("rate refresh budget (%v) exhausted, abandoning %d pending fetches", globalTimeout, pending)
			return
		}

		if !timer.Stop() {
			select {
			case <-timer.C:
			default:
			}
		}
		timer.Reset(sliceInterval)
	}
}
