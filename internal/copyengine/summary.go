package copyengine

import (
	"sync"
	"time"
)

// Outcome is the overall result of a run.
type Outcome string

// Outcome constants.
const (
	// OutcomeSuccess means every task succeeded.
	OutcomeSuccess Outcome = "success"
	// OutcomePartialFailure means at least one task failed and at least one succeeded.
	OutcomePartialFailure Outcome = "partial_failure"
	// OutcomeFailure means every task failed.
	OutcomeFailure Outcome = "failure"
)

// Summary is the final report of one run. Built once after all tasks resolve;
// immutable thereafter.
type Summary struct {
	TotalFiles  int
	Succeeded   int
	Failed      []*TaskResult // arrival order, not planner order
	Cancelled   int
	BytesCopied int64
	Elapsed     time.Duration

	// Cumulative read/write time across all copies, for the bottleneck hint.
	ReadTime  time.Duration
	WriteTime time.Duration
}

// Outcome classifies the run. Cancelled tasks are neither successes nor
// failures; a run with only cancellations and successes still counts as a
// success for exit-code purposes.
func (s *Summary) Outcome() Outcome {
	switch {
	case len(s.Failed) == 0:
		return OutcomeSuccess
	case s.Succeeded == 0:
		return OutcomeFailure
	default:
		return OutcomePartialFailure
	}
}

// Throughput returns the average transfer rate in bytes per second.
// Verification time is included in Elapsed, so enabling --verify visibly
// lowers this number rather than hiding its cost.
func (s *Summary) Throughput() float64 {
	if s.Elapsed <= 0 {
		return 0
	}

	return float64(s.BytesCopied) / s.Elapsed.Seconds()
}

// Bottleneck reports which side of the copy dominated I/O time:
// "source", "destination", or "balanced".
func (s *Summary) Bottleneck() string {
	total := s.ReadTime + s.WriteTime
	if total == 0 {
		return "balanced"
	}

	const dominantShare = 0.60

	switch {
	case float64(s.ReadTime)/float64(total) > dominantShare:
		return "source"
	case float64(s.WriteTime)/float64(total) > dominantShare:
		return "destination"
	default:
		return "balanced"
	}
}

// resultCollector accumulates one TaskResult per task in arrival order.
// Workers hand ownership of each result to the collector; nothing reads the
// collected results until the pool has drained.
type resultCollector struct {
	mu          sync.Mutex
	succeeded   int
	cancelled   int
	failed      []*TaskResult
	bytesCopied int64
	readTime    time.Duration
	writeTime   time.Duration
}

func newResultCollector() *resultCollector {
	return &resultCollector{failed: make([]*TaskResult, 0)}
}

func (c *resultCollector) add(result *TaskResult) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.bytesCopied += result.BytesCopied

	switch {
	case result.Status == StatusSuccess:
		c.succeeded++
	case result.Status == StatusCancelled:
		c.cancelled++
	case result.Status.Failed():
		c.failed = append(c.failed, result)
	}
}

func (c *resultCollector) addTiming(read, write time.Duration) {
	c.mu.Lock()
	c.readTime += read
	c.writeTime += write
	c.mu.Unlock()
}

// summary builds the immutable run summary. Call only after the worker pool
// has fully drained.
func (c *resultCollector) summary(totalFiles int, elapsed time.Duration) *Summary {
	c.mu.Lock()
	defer c.mu.Unlock()

	return &Summary{
		TotalFiles:  totalFiles,
		Succeeded:   c.succeeded,
		Failed:      c.failed,
		Cancelled:   c.cancelled,
		BytesCopied: c.bytesCopied,
		Elapsed:     elapsed,
		ReadTime:    c.readTime,
		WriteTime:   c.writeTime,
	}
}
