package engine

import (
	"encoding/json"
	"math"

	"gopkg.in/yaml.v3"
)

// Fixed unit factors between the engineering units at the boundary and SI.
const (
	PaPerGPa = 1e9
	NPerKN   = 1e3
	MMPerM   = 1e3
)

// Defaults applied to fields missing from a decoded beam.
const (
	DefaultEGPa = 210.0
	DefaultIM4  = 8e-4
	DefaultAM2  = 0.02

	steelPoisson = 0.3
	steelDensity = 7850.0
)

// BeamSpec describes one simply-supported beam in engineering units.
// W is the downward load intensity.
type BeamSpec struct {
	LengthM    float64 `json:"L_m" yaml:"L_m"`
	WKNm       float64 `json:"w_kN_m" yaml:"w_kN_m"`
	EGPa       float64 `json:"E_GPa" yaml:"E_GPa"`
	IM4        float64 `json:"I_m4" yaml:"I_m4"`
	AM2        float64 `json:"A_m2" yaml:"A_m2"`
	LimitRatio float64 `json:"limit_L_over" yaml:"limit_L_over"`
}

// DefaultBeamSpec returns a spec whose optional fields hold their defaults.
func DefaultBeamSpec() BeamSpec {
	return BeamSpec{
		EGPa:       DefaultEGPa,
		IM4:        DefaultIM4,
		AM2:        DefaultAM2,
		LimitRatio: DefaultRatio,
	}
}

// UnmarshalJSON fills omitted optional fields with defaults. Fields present
// in the document are kept as given, zero included.
func (b *BeamSpec) UnmarshalJSON(data []byte) error {
	type plain BeamSpec
	p := plain(DefaultBeamSpec())
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*b = BeamSpec(p)
	return nil
}

// UnmarshalYAML applies the same defaults as UnmarshalJSON.
func (b *BeamSpec) UnmarshalYAML(node *yaml.Node) error {
	type plain BeamSpec
	p := plain(DefaultBeamSpec())
	if err := node.Decode(&p); err != nil {
		return err
	}
	*b = BeamSpec(p)
	return nil
}

func (b BeamSpec) ratio() float64 {
	if b.LimitRatio == 0 {
		return DefaultRatio
	}
	return b.LimitRatio
}

// Model converts the spec to SI and builds the pin-pin model.
func (b BeamSpec) Model() (Model, error) {
	mat := NewMaterial(b.EGPa*PaPerGPa, steelPoisson, steelDensity)
	sec := CrossSection{A: b.AM2, I: b.IM4}
	m := SimplySupported(b.LengthM, mat, sec, -b.WKNm*NPerKN)
	if err := m.Validate(); err != nil {
		return Model{}, err
	}
	return m, nil
}

// CheckResult is the per-beam outcome in engineering units.
type CheckResult struct {
	LengthM    float64 `json:"L_m"`
	WKNm       float64 `json:"w_kN_m"`
	EGPa       float64 `json:"E_GPa"`
	IM4        float64 `json:"I_m4"`
	AM2        float64 `json:"A_m2"`
	LimitRatio float64 `json:"limit_L_over"`

	MmaxKNm    float64 `json:"Mmax_kNm"`
	VmaxKN     float64 `json:"Vmax_kN"`
	ReactionKN float64 `json:"reaction_kN"`
	DeltaMaxMM float64 `json:"delta_max_mm"`
	LimitMM    float64 `json:"limit_mm"`
	OK         bool    `json:"check_ok"`
}

// Analyze solves one beam and checks its deflection.
func Analyze(b BeamSpec) (CheckResult, error) {
	sol, ext, err := b.solve()
	if err != nil {
		return CheckResult{}, err
	}
	chk, err := CheckDeflection(ext.MaxDeflection, sol.Length(), b.ratio())
	if err != nil {
		return CheckResult{}, err
	}
	return CheckResult{
		LengthM:    b.LengthM,
		WKNm:       b.WKNm,
		EGPa:       b.EGPa,
		IM4:        b.IM4,
		AM2:        b.AM2,
		LimitRatio: b.ratio(),
		MmaxKNm:    ext.MaxMoment / NPerKN,
		VmaxKN:     ext.MaxShear / NPerKN,
		ReactionKN: sol.Reaction(NodeI, DY) / NPerKN,
		DeltaMaxMM: ext.MaxDeflection * MMPerM,
		LimitMM:    chk.Limit * MMPerM,
		OK:         chk.OK,
	}, nil
}

// solve builds, solves and cross-validates the beam. Every public entry
// point goes through it so sampled responses get the same checks as Analyze.
func (b BeamSpec) solve() (*Solution, Extremes, error) {
	if r := b.LimitRatio; r < 0 || math.IsNaN(r) || math.IsInf(r, 0) {
		return nil, Extremes{}, fieldErr(ErrInvalidRatio, "limit_L_over", r)
	}
	m, err := b.Model()
	if err != nil {
		return nil, Extremes{}, err
	}
	sol, err := Solve(m)
	if err != nil {
		return nil, Extremes{}, err
	}
	ext := sol.Extremes()
	if err := sol.crossValidate(ext); err != nil {
		return nil, Extremes{}, err
	}
	return sol, ext, nil
}

// Point is the response at one station, in engineering units.
type Point struct {
	X            float64 `json:"x_m"`
	ShearKN      float64 `json:"V_kN"`
	MomentKNm    float64 `json:"M_kNm"`
	DeflectionMM float64 `json:"delta_mm"`
}

func (s *Solution) point(x float64) Point {
	return Point{
		X:            x,
		ShearKN:      s.shear(x) / NPerKN,
		MomentKNm:    s.moment(x) / NPerKN,
		DeflectionMM: s.deflection(x) * MMPerM,
	}
}

// Sample evaluates V, M and deflection at x (m from the left support).
func Sample(b BeamSpec, x float64) (Point, error) {
	sol, _, err := b.solve()
	if err != nil {
		return Point{}, err
	}
	if err := sol.inRange(x); err != nil {
		return Point{}, err
	}
	return sol.point(x), nil
}

// Stations samples n+1 equally spaced points from 0 to L inclusive.
func Stations(b BeamSpec, n int) ([]Point, error) {
	if n < 1 {
		n = 1
	}
	sol, _, err := b.solve()
	if err != nil {
		return nil, err
	}
	l := sol.Length()
	pts := make([]Point, n+1)
	for i := range pts {
		x := l * float64(i) / float64(n)
		if i == n {
			x = l
		}
		pts[i] = sol.point(x)
	}
	return pts, nil
}
