package sim

import (
	"context"
	"fmt"
	"math"
	"math/rand"

	"github.com/san-kum/mdwatch/internal/report"
)

// Driver advances a system with velocity Verlet and invokes every attached
// reporter once per step, after the step completes. Steps are numbered from
// 1, so a reporter with interval I first fires at step I.
type Driver struct {
	sys System
	cfg Config

	pos []float64
	vel []float64
	frc []float64

	pe   float64
	step int
	time float64

	dof       int
	totalMass float64

	reporters []report.Sink
	frame     Frame
}

func NewDriver(sys System, cfg Config) (*Driver, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	n := sys.NumParticles()
	if n <= 0 {
		return nil, fmt.Errorf("system %q has no particles", sys.Name())
	}
	masses := sys.Masses()
	if len(masses) != n {
		return nil, fmt.Errorf("system %q: %d masses for %d particles", sys.Name(), len(masses), n)
	}

	d := &Driver{
		sys: sys,
		cfg: cfg,
		pos: sys.InitialPositions(cfg.Box),
		vel: make([]float64, 3*n),
		frc: make([]float64, 3*n),
		// Center-of-mass motion is removed, so 3 degrees of freedom go away.
		dof: 3*n - 3,
	}
	if len(d.pos) != 3*n {
		return nil, fmt.Errorf("system %q: initial positions have length %d, want %d", sys.Name(), len(d.pos), 3*n)
	}
	for _, m := range masses {
		d.totalMass += m
	}

	d.initVelocities()
	d.pe = sys.Forces(d.pos, cfg.Box, d.frc)
	return d, nil
}

// initVelocities draws a Maxwell-Boltzmann distribution at the configured
// temperature and removes center-of-mass drift.
func (d *Driver) initVelocities() {
	if d.cfg.Temperature == 0 {
		return
	}
	rng := rand.New(rand.NewSource(d.cfg.Seed))
	masses := d.sys.Masses()
	for i, m := range masses {
		sigma := math.Sqrt(KB * d.cfg.Temperature / m)
		for k := 0; k < 3; k++ {
			d.vel[3*i+k] = sigma * rng.NormFloat64()
		}
	}

	var p [3]float64
	for i, m := range masses {
		for k := 0; k < 3; k++ {
			p[k] += m * d.vel[3*i+k]
		}
	}
	for i := range masses {
		for k := 0; k < 3; k++ {
			d.vel[3*i+k] -= p[k] / d.totalMass
		}
	}
}

// AddReporter attaches a reporter invoked once per step.
func (d *Driver) AddReporter(r report.Sink) {
	d.reporters = append(d.reporters, r)
}

// Step returns the index of the last completed step.
func (d *Driver) Step() int { return d.step }

// Time returns the simulation clock in ps.
func (d *Driver) Time() float64 { return d.time }

// Frame returns a read-only view of the current state.
func (d *Driver) Frame() *Frame {
	d.frame = Frame{d: d, step: d.step, time: d.time}
	return &d.frame
}

// Run advances the simulation by the given number of steps. It may be called
// repeatedly; step numbering continues across calls.
func (d *Driver) Run(ctx context.Context, steps int) error {
	if steps <= 0 {
		return fmt.Errorf("steps must be positive, got %d", steps)
	}

	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		d.advance()
		d.step++
		d.time += d.cfg.Dt

		if math.IsNaN(d.pe) || math.IsInf(d.pe, 0) {
			return SimError{Step: d.step, Time: d.time, Message: "potential energy is not finite"}
		}

		f := d.Frame()
		for _, r := range d.reporters {
			r.Report(f)
		}
	}
	return nil
}

// advance performs one velocity Verlet step. Forces for the current
// positions are already in d.frc on entry and on exit.
func (d *Driver) advance() {
	dt := d.cfg.Dt
	masses := d.sys.Masses()

	for i, m := range masses {
		for k := 0; k < 3; k++ {
			j := 3*i + k
			d.vel[j] += 0.5 * dt * d.frc[j] / m
			d.pos[j] += dt * d.vel[j]
		}
	}

	d.pe = d.sys.Forces(d.pos, d.cfg.Box, d.frc)

	for i, m := range masses {
		for k := 0; k < 3; k++ {
			j := 3*i + k
			d.vel[j] += 0.5 * dt * d.frc[j] / m
		}
	}
}
