package admin

import (
	"math"
	"time"
)

// timeoutProcessor evaluates call deadlines against a clock captured at
// construction, so one sweep sees a single consistent notion of now even
// while wall time keeps moving underneath it.
//
// The expiry decision is a swappable function: production compares
// deadlines, tests swap in decisions that force-expire specific calls
// without disturbing evaluation order.
type timeoutProcessor struct {
	now     time.Time
	expired func(c *call) bool
}

// timeoutProcessorFactory builds the processor for one sweep. The client
// holds a factory rather than a processor so every sweep runs against a
// fresh clock.
type timeoutProcessorFactory func(now time.Time) *timeoutProcessor

func newTimeoutProcessor(now time.Time) *timeoutProcessor {
	p := &timeoutProcessor{now: now}
	p.expired = p.deadlinePassed
	return p
}

// deadlinePassed is the production expiry decision: a deadline at or before
// the sweep clock has expired.
func (p *timeoutProcessor) deadlinePassed(c *call) bool {
	return !c.deadline.After(p.now)
}

// expire fails every expired call through fail with a timeout error naming
// the stage the calls were stuck in (msg) and the elapsed and permitted
// durations. Calls are evaluated in slice order; terminal calls are
// skipped. Returns the number of calls expired.
func (p *timeoutProcessor) expire(calls []*call, msg string, fail func(*call, error)) int {
	n := 0
	for _, c := range calls {
		if c.state.terminal() || !p.expired(c) {
			continue
		}
		fail(c, &TimeoutError{
			Name:    c.name,
			Msg:     msg,
			Elapsed: p.now.Sub(c.createdAt),
			Limit:   c.timeout,
		})
		n++
	}
	return n
}

// remainingMs clamps deadline minus now (both Unix milliseconds) into an
// int32, saturating at the int32 range instead of overflowing. A deadline
// exactly at now yields 0. The result feeds the wire request's timeout_ms
// field, which is int32 by protocol.
func remainingMs(nowMs, deadlineMs int64) int32 {
	d := deadlineMs - nowMs
	switch {
	case d >= math.MaxInt32:
		return math.MaxInt32
	case d <= math.MinInt32:
		return math.MinInt32
	default:
		return int32(d)
	}
}
