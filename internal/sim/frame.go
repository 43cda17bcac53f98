package sim

// Frame is the read-only per-step view handed to reporters. Kinetic energy
// is computed on first access so steps nobody samples stay cheap; potential
// energy falls out of the force evaluation the integrator already did.
type Frame struct {
	d    *Driver
	step int
	time float64

	ke      float64
	keValid bool
}

func (f *Frame) Step() int     { return f.step }
func (f *Frame) Time() float64 { return f.time }

func (f *Frame) KineticEnergy() float64 {
	if !f.keValid {
		ke := 0.0
		masses := f.d.sys.Masses()
		for i, m := range masses {
			for k := 0; k < 3; k++ {
				v := f.d.vel[3*i+k]
				ke += 0.5 * m * v * v
			}
		}
		f.ke = ke
		f.keValid = true
	}
	return f.ke
}

func (f *Frame) PotentialEnergy() float64 { return f.d.pe }

// Temperature derives the instantaneous kinetic temperature,
// T = 2·KE / (dof·kB).
func (f *Frame) Temperature() float64 {
	if f.d.dof <= 0 {
		return 0
	}
	return 2 * f.KineticEnergy() / (float64(f.d.dof) * KB)
}

// Volume returns the box volume in nm^3.
func (f *Frame) Volume() float64 {
	box := f.d.cfg.Box
	return box[0] * box[1] * box[2]
}

// Density returns the mass density in g/mL.
func (f *Frame) Density() float64 {
	return f.d.totalMass / (f.Volume() * avogadroMilli)
}
