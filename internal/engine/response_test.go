package engine

import (
	"errors"
	"math"
	"testing"
)

func TestResponseMatchesClosedForm(t *testing.T) {
	cases := []struct{ l, w, e, i float64 }{
		{6, 1e4, 210e9, 8e-4},
		{10, 1e4, 210e9, 8e-4},
		{1, 1, 1, 1},
		{12.5, 37e3, 30e9, 3.2e-3},
		{0.4, 250, 70e9, 1.1e-7},
	}
	for _, c := range cases {
		m := SimplySupported(c.l, NewMaterial(c.e, 0.3, 0), CrossSection{A: 0.01, I: c.i}, -c.w)
		sol, err := Solve(m)
		if err != nil {
			t.Fatalf("solve %+v: %v", c, err)
		}
		ext := sol.Extremes()
		near(t, "Mmax", ext.MaxMoment, c.w*c.l*c.l/8, 1e-9)
		near(t, "deltaMax", ext.MaxDeflection, 5*c.w*math.Pow(c.l, 4)/(384*c.e*c.i), 1e-9)
		near(t, "Vmax", ext.MaxShear, c.w*c.l/2, 1e-9)
		if math.Abs(ext.AtMoment-c.l/2) > 1e-9*c.l {
			t.Fatalf("Mmax expected at midspan, got x=%g", ext.AtMoment)
		}

		for k := 0; k <= 20; k++ {
			x := c.l * float64(k) / 20
			want := c.w * x / (24 * c.e * c.i) * (c.l*c.l*c.l - 2*c.l*x*x + x*x*x)
			got, _ := sol.Deflection(x)
			if math.Abs(got-want) > 1e-9*ext.MaxDeflection {
				t.Fatalf("delta(%g): got %g, want %g", x, got, want)
			}
			mw := c.w*c.l/2*x - c.w*x*x/2
			mg, _ := sol.Moment(x)
			if math.Abs(mg-mw) > 1e-9*ext.MaxMoment {
				t.Fatalf("M(%g): got %g, want %g", x, mg, mw)
			}
		}
		if err := sol.crossValidate(ext); err != nil {
			t.Fatalf("cross validation: %v", err)
		}
	}
}

func TestShearIsLinear(t *testing.T) {
	l, w := 8.0, 12e3
	sol, _ := Solve(steelBeam(l, w))

	v0, _ := sol.Shear(0)
	vl, _ := sol.Shear(l)
	near(t, "V(0)", v0, w*l/2, 1e-12)
	near(t, "V(L)", vl, -w*l/2, 1e-12)

	for k := 0; k <= 16; k++ {
		x := l * float64(k) / 16
		v, _ := sol.Shear(x)
		if math.Abs(v-(w*l/2-w*x)) > 1e-9*w*l {
			t.Fatalf("V(%g) = %g is off the line", x, v)
		}
	}

	// Integrating V over the span recovers M(L) - M(0) = 0.
	const n = 1000
	h := l / n
	var integral float64
	for k := 0; k < n; k++ {
		a, _ := sol.Shear(float64(k) * h)
		b, _ := sol.Shear(float64(k+1) * h)
		integral += (a + b) * h / 2
	}
	m0, _ := sol.Moment(0)
	ml, _ := sol.Moment(l)
	if math.Abs(integral-(ml-m0)) > 1e-9*w*l*l || math.Abs(ml-m0) > 1e-9*w*l*l {
		t.Fatalf("integral of V %g, moment change %g", integral, ml-m0)
	}
}

func TestDeflectionSymmetric(t *testing.T) {
	l := 7.3
	sol, _ := Solve(steelBeam(l, 9e3))
	for k := 0; k <= 50; k++ {
		x := l * float64(k) / 50
		a, _ := sol.Deflection(x)
		b, _ := sol.Deflection(l - x)
		if math.Abs(a-b) > 1e-12*sol.Extremes().MaxDeflection+1e-18 {
			t.Fatalf("delta(%g)=%g but delta(L-x)=%g", x, a, b)
		}
	}
}

func TestMonotonicSensitivity(t *testing.T) {
	base := BeamSpec{LengthM: 6, WKNm: 10, EGPa: 210, IM4: 8e-4, AM2: 0.02}
	delta := func(b BeamSpec) float64 {
		r, err := Analyze(b)
		if err != nil {
			t.Fatalf("analyze %+v: %v", b, err)
		}
		return r.DeltaMaxMM
	}
	d0 := delta(base)

	stiffer := base
	stiffer.IM4 *= 1.1
	stronger := base
	stronger.EGPa *= 1.1
	heavier := base
	heavier.WKNm *= 1.1
	longer := base
	longer.LengthM *= 1.1

	if delta(stiffer) >= d0 || delta(stronger) >= d0 {
		t.Fatalf("increasing I or E must reduce deflection")
	}
	if delta(heavier) <= d0 || delta(longer) <= d0 {
		t.Fatalf("increasing w or L must increase deflection")
	}
}

func TestSampleOutOfRange(t *testing.T) {
	sol, _ := Solve(steelBeam(6, 1e4))
	for _, x := range []float64{-1e-9, 7, math.NaN(), math.Inf(1)} {
		if _, err := sol.Moment(x); !errors.Is(err, ErrOutOfRangeSample) {
			t.Fatalf("x=%g: expected ErrOutOfRangeSample, got %v", x, err)
		}
	}
	if _, err := sol.Deflection(6); err != nil {
		t.Fatalf("x=L must be accepted: %v", err)
	}
}

func TestPartialLoadEquilibrium(t *testing.T) {
	l, w := 6.0, 1e4
	m := steelBeam(l, w)
	m.Load = DistributedLoad{W: -w, X1: 1, X2: 3}
	sol, err := Solve(m)
	if err != nil {
		t.Fatalf("solve: %v", err)
	}
	total := w * 2
	ri := sol.Reaction(NodeI, DY)
	rj := sol.Reaction(NodeJ, DY)
	near(t, "sum of reactions", ri+rj, total, 1e-12)
	// Moments about node i: resultant acts at x = 2.
	near(t, "Rj", rj, total*2/l, 1e-12)

	ml, _ := sol.Moment(l)
	if math.Abs(ml) > 1e-9*w*l*l {
		t.Fatalf("pinned end must carry no moment, got %g", ml)
	}
	dl, _ := sol.Deflection(l)
	if math.Abs(dl) > 1e-12 {
		t.Fatalf("support must not move, got %g", dl)
	}

	ext := sol.Extremes()
	// Shear crosses zero under the load at x = 1 + Ri/w.
	near(t, "x of Mmax", ext.AtMoment, 1+ri/w, 1e-12)
	if err := sol.crossValidate(ext); err != nil {
		t.Fatalf("partial loads skip closed-form validation: %v", err)
	}
}

func TestPeakFindsInteriorMaximum(t *testing.T) {
	at, v := peak(func(x float64) float64 { return -(x - 0.3) * (x - 0.3) }, 0, 1, 0.5)
	if math.Abs(at-0.3) > 1e-7 || math.Abs(v) > 1e-14 {
		t.Fatalf("expected peak at 0.3, got %g (%g)", at, v)
	}
}
