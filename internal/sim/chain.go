package sim

import "math"

// HarmonicChain is a linear chain of particles joined by harmonic bonds.
// With a small enough dt its total energy is conserved, which makes it the
// system of choice for stream correctness tests.
type HarmonicChain struct {
	n      int
	k      float64 // bond force constant, kJ/(mol·nm^2)
	r0     float64 // equilibrium bond length, nm
	masses []float64
}

func NewHarmonicChain(n int) *HarmonicChain {
	masses := make([]float64, n)
	for i := range masses {
		masses[i] = 12.011 // g/mol
	}
	return &HarmonicChain{
		n:      n,
		k:      1000,
		r0:     0.15,
		masses: masses,
	}
}

func (hc *HarmonicChain) Name() string      { return "chain" }
func (hc *HarmonicChain) NumParticles() int { return hc.n }
func (hc *HarmonicChain) Masses() []float64 { return hc.masses }

// InitialPositions lays the chain out along x, centered in the box.
func (hc *HarmonicChain) InitialPositions(box [3]float64) []float64 {
	pos := make([]float64, 3*hc.n)
	span := float64(hc.n-1) * hc.r0
	x0 := (box[0] - span) / 2
	for i := 0; i < hc.n; i++ {
		pos[3*i] = x0 + float64(i)*hc.r0
		pos[3*i+1] = box[1] / 2
		pos[3*i+2] = box[2] / 2
	}
	return pos
}

func (hc *HarmonicChain) Forces(pos []float64, box [3]float64, f []float64) float64 {
	for j := range f {
		f[j] = 0
	}

	pe := 0.0
	for i := 0; i < hc.n-1; i++ {
		var d [3]float64
		r2 := 0.0
		for k := 0; k < 3; k++ {
			d[k] = pos[3*(i+1)+k] - pos[3*i+k]
			r2 += d[k] * d[k]
		}
		r := math.Sqrt(r2)
		if r == 0 {
			continue
		}

		stretch := r - hc.r0
		pe += 0.5 * hc.k * stretch * stretch
		fr := -hc.k * stretch / r
		for k := 0; k < 3; k++ {
			f[3*(i+1)+k] += fr * d[k]
			f[3*i+k] -= fr * d[k]
		}
	}
	return pe
}
