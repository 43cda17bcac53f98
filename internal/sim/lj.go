package sim

import "math"

// LennardJones is a truncated LJ gas with minimum-image periodic boundaries.
// Defaults approximate argon.
type LennardJones struct {
	n       int
	epsilon float64 // kJ/mol
	sigma   float64 // nm
	cutoff  float64 // nm
	masses  []float64
}

func NewLennardJones(n int) *LennardJones {
	masses := make([]float64, n)
	for i := range masses {
		masses[i] = 39.948 // argon, g/mol
	}
	return &LennardJones{
		n:       n,
		epsilon: 0.9977,
		sigma:   0.3405,
		cutoff:  1.0,
		masses:  masses,
	}
}

func (lj *LennardJones) Name() string      { return "lj" }
func (lj *LennardJones) NumParticles() int { return lj.n }
func (lj *LennardJones) Masses() []float64 { return lj.masses }

// InitialPositions places particles on a cubic lattice filling the box.
func (lj *LennardJones) InitialPositions(box [3]float64) []float64 {
	cells := int(math.Ceil(math.Cbrt(float64(lj.n))))
	pos := make([]float64, 3*lj.n)
	i := 0
	for cx := 0; cx < cells && i < lj.n; cx++ {
		for cy := 0; cy < cells && i < lj.n; cy++ {
			for cz := 0; cz < cells && i < lj.n; cz++ {
				pos[3*i] = (float64(cx) + 0.5) * box[0] / float64(cells)
				pos[3*i+1] = (float64(cy) + 0.5) * box[1] / float64(cells)
				pos[3*i+2] = (float64(cz) + 0.5) * box[2] / float64(cells)
				i++
			}
		}
	}
	return pos
}

func (lj *LennardJones) Forces(pos []float64, box [3]float64, f []float64) float64 {
	for j := range f {
		f[j] = 0
	}

	rc2 := lj.cutoff * lj.cutoff
	sig2 := lj.sigma * lj.sigma
	pe := 0.0

	for i := 0; i < lj.n; i++ {
		for j := i + 1; j < lj.n; j++ {
			var d [3]float64
			r2 := 0.0
			for k := 0; k < 3; k++ {
				d[k] = pos[3*i+k] - pos[3*j+k]
				d[k] -= box[k] * math.Round(d[k]/box[k])
				r2 += d[k] * d[k]
			}
			if r2 > rc2 || r2 == 0 {
				continue
			}

			sr6 := sig2 / r2
			sr6 = sr6 * sr6 * sr6
			sr12 := sr6 * sr6

			pe += 4 * lj.epsilon * (sr12 - sr6)
			fr := 24 * lj.epsilon * (2*sr12 - sr6) / r2
			for k := 0; k < 3; k++ {
				f[3*i+k] += fr * d[k]
				f[3*j+k] -= fr * d[k]
			}
		}
	}
	return pe
}
