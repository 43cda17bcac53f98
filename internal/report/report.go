// Package report implements the sampler callback that turns simulation state
// into observable samples at a fixed step interval.
package report

import (
	"fmt"

	"github.com/san-kum/mdwatch/internal/observe"
	"github.com/san-kum/mdwatch/internal/sample"
)

// Frame is the per-step view of simulation state a driver hands to its
// reporters.
type Frame interface {
	observe.Source
	Step() int
	Time() float64
}

// Sink receives a frame once per integration step.
type Sink interface {
	Report(f Frame)
}

// Broadcaster forwards one sample to every connected client. Broadcasting
// must never block and is a no-op with zero clients.
type Broadcaster interface {
	Broadcast(s sample.Sample)
}

// Reporter samples the configured observables every interval steps and hands
// the result to a broadcaster. It never mutates simulation state; delivery is
// best-effort.
type Reporter struct {
	interval int
	set      *observe.Set
	b        Broadcaster
}

// New validates the configuration and returns a reporter. The first report
// lands on step == interval, then every interval steps after.
func New(interval int, set *observe.Set, b Broadcaster) (*Reporter, error) {
	if interval <= 0 {
		return nil, fmt.Errorf("report interval must be positive, got %d", interval)
	}
	if set == nil || set.Len() == 0 {
		return nil, fmt.Errorf("at least one observable is required")
	}
	if b == nil {
		return nil, fmt.Errorf("broadcaster must not be nil")
	}
	return &Reporter{interval: interval, set: set, b: b}, nil
}

// Labels maps the reported canonical names to display labels.
func (r *Reporter) Labels() map[string]string { return r.set.Labels() }

// Interval returns the configured report interval in steps.
func (r *Reporter) Interval() int { return r.interval }

// Report implements Sink. Steps that are not multiples of the interval
// return without touching the frame.
func (r *Reporter) Report(f Frame) {
	step := f.Step()
	if step <= 0 || step%r.interval != 0 {
		return
	}
	r.b.Broadcast(sample.Sample{
		Step:   step,
		Time:   f.Time(),
		Values: r.set.Read(f),
	})
}
