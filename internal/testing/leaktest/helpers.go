// Package leaktest verifies that code under test does not leave goroutines running.
// SSE streams, the worker pool and the pgx pool all start goroutines that must end
// with their owner.
package leaktest

import (
	"runtime"
	"strings"
	"testing"
	"time"
)

// DefaultSettle is how long Check waits for goroutines to exit before failing
const DefaultSettle = 2 * time.Second

const pollInterval = 10 * time.Millisecond

// maxDumpBytes bounds the goroutine dump attached to a failure
const maxDumpBytes = 16 << 10

// Checker records a goroutine baseline and compares against it later
type Checker struct {
	t        testing.TB
	baseline int
	settle   time.Duration
}

// New records the current goroutine count as the baseline
func New(t testing.TB) *Checker {
	t.Helper()
	return &Checker{t: t, baseline: stableCount(), settle: DefaultSettle}
}

// WithSettle overrides how long Check waits for goroutines to exit
func (c *Checker) WithSettle(d time.Duration) *Checker {
	c.settle = d
	return c
}

// Check fails the test when more than tolerance goroutines above the baseline are
// still running once the settle period is over.
func (c *Checker) Check(tolerance int) {
	c.t.Helper()

	deadline := time.Now().Add(c.settle)
	current := runtime.NumGoroutine()
	for current > c.baseline+tolerance && time.Now().Before(deadline) {
		time.Sleep(pollInterval)
		current = runtime.NumGoroutine()
	}
	if current <= c.baseline+tolerance {
		return
	}

	c.t.Errorf("goroutine leak: baseline=%d current=%d tolerance=%d\n%s",
		c.baseline, current, tolerance, dump())
}

// Verify checks for leaks when the test finishes
func Verify(t testing.TB, tolerance int) {
	t.Helper()
	c := New(t)
	t.Cleanup(func() { c.Check(tolerance) })
}

// Run executes fn and fails the test if it left any goroutine behind
func Run(t testing.TB, fn func()) {
	t.Helper()
	c := New(t)
	fn()
	c.Check(0)
}

// stableCount waits briefly for goroutines from earlier tests to wind down
func stableCount() int {
	prev := runtime.NumGoroutine()
	for i := 0; i < 5; i++ {
		time.Sleep(pollInterval)
		n := runtime.NumGoroutine()
		if n == prev {
			return n
		}
		prev = n
	}
	return prev
}

func dump() string {
	buf := make([]byte, maxDumpBytes)
	n := runtime.Stack(buf, true)
	out := string(buf[:n])
	if n == len(buf) {
		out += "\n... truncated"
	}
	return strings.TrimSpace(out)
}
