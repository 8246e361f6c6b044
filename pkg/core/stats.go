package core

import "sync/atomic"

// Counters are the two process-wide observability counters spec'd in
// §5/§6: total primitive intersection tests and total ray bounces. Both are
// incremented with relaxed ordering on the hot path and read only at render
// end, so a plain atomic.Uint64 pair (no locks) is sufficient.
var (
	intersectionTests atomic.Uint64
	rayBounces        atomic.Uint64
)

// RecordIntersectionTest increments the global intersection-test counter.
// Every primitive Hit call increments this exactly once.
func RecordIntersectionTest() {
	intersectionTests.Add(1)
}

// RecordBounce increments the global ray-bounce counter. The integrator
// increments this once per trace call whose ray hits a surface.
func RecordBounce() {
	rayBounces.Add(1)
}

// IntersectionTestCount returns the total intersection tests performed so far.
func IntersectionTestCount() uint64 {
	return intersectionTests.Load()
}

// BounceCount returns the total ray bounces performed so far.
func BounceCount() uint64 {
	return rayBounces.Load()
}

// ResetCounters zeroes both counters. Used between independent renders (e.g.
// in tests) so counts don't leak across runs.
func ResetCounters() {
	intersectionTests.Store(0)
	rayBounces.Store(0)
}

// Logger is satisfied by *log.Logger and by a no-op logger; components that
// want to report progress take one of these rather than reaching for a
// package-level logger.
type Logger interface {
	Printf(format string, args ...interface{})
}
