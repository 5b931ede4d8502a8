// Package stats implements the process-wide counters and scoped timers
// described for every hashing, walking, packing, unpacking, download and
// upload operation in the snapshot engine.
package stats

import (
	"fmt"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/tc-cache/tc-cache/internal/pretty"
)

const microsInSec = 1_000_000.0

// Counter accumulates a monotonic byte count and a cumulative duration,
// both updated with sequentially consistent atomics.
type Counter struct {
	bytes  atomic.Uint64
	micros atomic.Uint64
}

// IncBytes adds n to the byte count.
func (c *Counter) IncBytes(n uint64) {
	c.bytes.Add(n)
}

// IncTime adds d to the cumulative duration.
func (c *Counter) IncTime(d time.Duration) {
	c.micros.Add(uint64(d.Microseconds()))
}

// Bytes returns the current byte count.
func (c *Counter) Bytes() uint64 {
	return c.bytes.Load()
}

// Micros returns the current cumulative duration in microseconds.
func (c *Counter) Micros() uint64 {
	return c.micros.Load()
}

// IsEmpty reports whether the counter has recorded no bytes.
func (c *Counter) IsEmpty() bool {
	return c.Bytes() == 0
}

// Timer is a scoped handle returned by Counter.Timer; call Stop on every
// exit path (a deferred call is the idiomatic form) to record elapsed time.
type Timer struct {
	start   time.Time
	counter *Counter
}

// Timer starts a new scoped timer against this counter.
func (c *Counter) Timer() *Timer {
	return &Timer{start: time.Now(), counter: c}
}

// AddBytes records n additional bytes against the timer's counter.
func (t *Timer) AddBytes(n uint64) {
	t.counter.IncBytes(n)
}

// Stop records the elapsed time since the timer was created.
func (t *Timer) Stop() {
	t.counter.IncTime(time.Since(t.start))
}

// DivideBy divides the recorded duration by n, approximating wall-clock
// cost for work that ran across n worker goroutines.
func (c *Counter) DivideBy(n int) {
	if n <= 0 {
		return
	}

	for {
		old := c.micros.Load()
		if c.micros.CompareAndSwap(old, old/uint64(n)) {
			return
		}
	}
}

func (c *Counter) String() string {
	numBytes := float64(c.Bytes())
	micros := float64(c.Micros())
	secs := micros / microsInSec

	bytesPerSec := numBytes
	if c.Micros() != 0 {
		bytesPerSec = numBytes / secs
	}

	return fmt.Sprintf("took %.2fs - %s/s", secs, pretty.Bytes(uint64(bytesPerSec)))
}

// Stats is the process-wide set of named counters.
type Stats struct {
	Hashing    Counter
	Walking    Counter
	Packing    Counter
	Unpacking  Counter
	Download   Counter
	Upload     Counter
	numWorkers int
}

var current = &Stats{numWorkers: runtime.GOMAXPROCS(0)}

// Current returns the process-wide Stats singleton.
func Current() *Stats {
	return current
}

// SetWorkerCount records how many walker workers are in use, used to
// divide the hashing counter's reported time to approximate wall-clock cost.
func (s *Stats) SetWorkerCount(n int) {
	if n > 0 {
		s.numWorkers = n
	}
}

// String renders the non-empty counters as a human-readable summary.
func (s *Stats) String() string {
	out := ""

	if !s.Hashing.IsEmpty() {
		s.Hashing.DivideBy(s.numWorkers)
		out += fmt.Sprintf("hashing: %s; ", &s.Hashing)
	}

	if !s.Walking.IsEmpty() {
		out += fmt.Sprintf("walking: %s; ", &s.Walking)
	}

	if !s.Packing.IsEmpty() {
		out += fmt.Sprintf("packing: %s; ", &s.Packing)
	}

	if !s.Unpacking.IsEmpty() {
		out += fmt.Sprintf("unpacking: %s; ", &s.Unpacking)
	}

	if !s.Download.IsEmpty() {
		out += fmt.Sprintf("download: %s; ", &s.Download)
	}

	if !s.Upload.IsEmpty() {
		out += fmt.Sprintf("upload: %s; ", &s.Upload)
	}

	return out
}
