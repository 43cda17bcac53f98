// Package sim is the demo simulation driver the reporter attaches to. It is
// deliberately small: two toy systems and one integrator, just enough to
// produce live energy and temperature streams. Units follow the molecular
// convention: nm, ps, g/mol, kJ/mol, K.
package sim

import "fmt"

// KB is the Boltzmann constant in kJ/(mol·K).
const KB = 0.00831451

// avogadroMilli converts (g/mol)/nm^3 to g/mL.
const avogadroMilli = 602.214076

// System supplies forces and potential energy for a particle configuration.
type System interface {
	Name() string
	NumParticles() int
	// Masses returns per-particle masses in g/mol.
	Masses() []float64
	// InitialPositions places the particles inside the box.
	InitialPositions(box [3]float64) []float64
	// Forces writes forces into f (length 3N) and returns the potential
	// energy of the configuration.
	Forces(pos []float64, box [3]float64, f []float64) float64
}

// Config holds the integration parameters for a driver.
type Config struct {
	Dt          float64    // time step, ps
	Box         [3]float64 // orthorhombic box edges, nm
	Temperature float64    // initial velocity distribution, K
	Seed        int64
}

func (c Config) validate() error {
	if c.Dt <= 0 {
		return fmt.Errorf("dt must be positive, got %f", c.Dt)
	}
	for _, edge := range c.Box {
		if edge <= 0 {
			return fmt.Errorf("box edges must be positive, got %v", c.Box)
		}
	}
	if c.Temperature < 0 {
		return fmt.Errorf("temperature must not be negative, got %f", c.Temperature)
	}
	return nil
}

// SimError marks a step at which integration produced an invalid state.
type SimError struct {
	Step    int
	Time    float64
	Message string
}

func (e SimError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): %s", e.Step, e.Time, e.Message)
}
