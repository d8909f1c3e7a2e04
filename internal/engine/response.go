package engine

import (
	"fmt"
	"math"
)

// Internal forces follow the usual beam convention: shear is the sum of
// vertical forces left of the section (upward positive), moment is sagging
// positive and deflection is reported downward positive.

// macaulay returns <x-a>^n.
func macaulay(x, a float64, n int) float64 {
	if x <= a {
		return 0
	}
	d := x - a
	switch n {
	case 1:
		return d
	case 2:
		return d * d
	case 4:
		d2 := d * d
		return d2 * d2
	}
	return math.Pow(d, float64(n))
}

func (s *Solution) inRange(x float64) error {
	if !(x >= 0) || x > s.length {
		return fieldErr(ErrOutOfRangeSample, "x", x)
	}
	return nil
}

func (s *Solution) shear(x float64) float64 {
	q := s.Model.Load
	return s.EndForces[idx(NodeI, locV)] + q.W*(macaulay(x, q.X1, 1)-macaulay(x, q.X2, 1))
}

func (s *Solution) moment(x float64) float64 {
	q := s.Model.Load
	v0 := s.EndForces[idx(NodeI, locV)]
	m0 := s.EndForces[idx(NodeI, locTheta)]
	return -m0 + v0*x + q.W*(macaulay(x, q.X1, 2)-macaulay(x, q.X2, 2))/2
}

// deflection integrates M/EI twice from node i, starting from the solved
// displacement and rotation there.
func (s *Solution) deflection(x float64) float64 {
	q := s.Model.Load
	v0 := s.EndForces[idx(NodeI, locV)]
	m0 := s.EndForces[idx(NodeI, locTheta)]
	vi := s.Displacements[idx(NodeI, locV)]
	ti := s.Displacements[idx(NodeI, locTheta)]

	x2 := x * x
	curv := -m0*x2/2 + v0*x2*x/6 + q.W*(macaulay(x, q.X1, 4)-macaulay(x, q.X2, 4))/24
	return -(vi + ti*x + curv/s.ei)
}

// Shear returns V(x) in N.
func (s *Solution) Shear(x float64) (float64, error) {
	if err := s.inRange(x); err != nil {
		return 0, err
	}
	return s.shear(x), nil
}

// Moment returns M(x) in N*m.
func (s *Solution) Moment(x float64) (float64, error) {
	if err := s.inRange(x); err != nil {
		return 0, err
	}
	return s.moment(x), nil
}

// Deflection returns the downward displacement at x in m.
func (s *Solution) Deflection(x float64) (float64, error) {
	if err := s.inRange(x); err != nil {
		return 0, err
	}
	return s.deflection(x), nil
}

// Extremes holds the peak absolute values of the response and where they occur.
type Extremes struct {
	MaxShear      float64 // N
	AtShear       float64 // m
	MaxMoment     float64 // N*m
	AtMoment      float64 // m
	MaxDeflection float64 // m
	AtDeflection  float64 // m
}

func (s *Solution) Extremes() Extremes {
	var e Extremes
	q := s.Model.Load
	l := s.length

	// V is piecewise linear: its peaks sit on segment ends.
	kinks := []float64{0, q.X1, q.X2, l}
	for _, x := range kinks {
		if v := math.Abs(s.shear(x)); v > e.MaxShear {
			e.MaxShear, e.AtShear = v, x
		}
	}

	// M peaks on segment ends or where V crosses zero under the load.
	cands := kinks
	if q.W != 0 {
		x0 := q.X1 - s.EndForces[idx(NodeI, locV)]/q.W
		if x0 > q.X1 && x0 < q.X2 {
			cands = append(cands, x0)
		}
	}
	for _, x := range cands {
		if m := math.Abs(s.moment(x)); m > e.MaxMoment {
			e.MaxMoment, e.AtMoment = m, x
		}
	}

	e.AtDeflection, e.MaxDeflection = peak(func(x float64) float64 {
		return math.Abs(s.deflection(x))
	}, 0, l, l/2)
	return e
}

const (
	peakStations = 64
	goldenIters  = 80
)

// peak maximises f over [lo, hi]: a coarse scan brackets the best station,
// golden-section search refines it. hint is always evaluated as a candidate.
func peak(f func(float64) float64, lo, hi, hint float64) (at, val float64) {
	at, val = hint, f(hint)
	h := (hi - lo) / peakStations
	best := 0
	bestVal := math.Inf(-1)
	for i := 0; i <= peakStations; i++ {
		if v := f(lo + float64(i)*h); v > bestVal {
			best, bestVal = i, v
		}
	}
	if bestVal > val {
		at, val = lo+float64(best)*h, bestVal
	}

	a := math.Max(lo, lo+float64(best-1)*h)
	b := math.Min(hi, lo+float64(best+1)*h)
	invPhi := (math.Sqrt(5) - 1) / 2
	c := b - invPhi*(b-a)
	d := a + invPhi*(b-a)
	fc, fd := f(c), f(d)
	for i := 0; i < goldenIters && b-a > 1e-15*(hi-lo); i++ {
		if fc > fd {
			b, d, fd = d, c, fc
			c = b - invPhi*(b-a)
			fc = f(c)
		} else {
			a, c, fc = c, d, fd
			d = a + invPhi*(b-a)
			fd = f(d)
		}
	}
	for _, x := range [2]float64{c, d} {
		if v := f(x); v > val {
			at, val = x, v
		}
	}
	return at, val
}

// crossValidate rejects non-finite responses and compares a pin-pin,
// full-span solution with the textbook closed form. Other configurations
// have no closed form to check against.
func (s *Solution) crossValidate(e Extremes) error {
	vals := append([]float64{e.MaxShear, e.MaxMoment, e.MaxDeflection}, s.Displacements[:]...)
	for _, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: response is not finite", ErrInconsistent)
		}
	}

	m := s.Model
	q := m.Load
	l := s.length
	canonical := q.X1 == 0 && q.X2 == l
	for _, n := range [2]NodeID{NodeI, NodeJ} {
		canonical = canonical && m.restraint(n, DY) && !m.restraint(n, RZ)
	}
	if !canonical || q.W == 0 {
		return nil
	}

	w := -q.W
	checks := []struct {
		name      string
		got, want float64
	}{
		{"Mmax", e.MaxMoment, math.Abs(w) * l * l / 8},
		{"deltaMax", e.MaxDeflection, math.Abs(5 * w * l * l * l * l / (384 * s.ei))},
		{"Ri", s.Reaction(NodeI, DY), w * l / 2},
		{"Rj", s.Reaction(NodeJ, DY), w * l / 2},
		{"thetaI", s.Rotation(NodeI), -w * l * l * l / (24 * s.ei)},
		{"thetaJ", s.Rotation(NodeJ), w * l * l * l / (24 * s.ei)},
	}
	for _, c := range checks {
		if relErr(c.got, c.want) > closedFormTol {
			return fmt.Errorf("%w: %s = %g, closed form %g", ErrInconsistent, c.name, c.got, c.want)
		}
	}
	return nil
}

const closedFormTol = 1e-9

func relErr(got, want float64) float64 {
	if want == 0 {
		return math.Abs(got)
	}
	return math.Abs(got-want) / math.Abs(want)
}
