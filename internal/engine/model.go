package engine

import "math"

// NodeID names one end of the member.
type NodeID int

const (
	NodeI NodeID = iota
	NodeJ
)

func (n NodeID) String() string {
	if n == NodeJ {
		return "j"
	}
	return "i"
}

type Node struct {
	ID NodeID
	X  float64 // m
}

// Material holds the elastic constants of the member. Density is carried for
// completeness, statics never reads it.
type Material struct {
	E       float64 // Pa
	G       float64 // Pa
	Density float64 // kg/m^3
}

// NewMaterial derives the shear modulus from E and Poisson's ratio.
func NewMaterial(e, poisson, density float64) Material {
	return Material{E: e, G: e / (2 * (1 + poisson)), Density: density}
}

type CrossSection struct {
	A float64 // m^2
	I float64 // m^4, about the bending axis
}

// Member is the single straight prismatic element between nodes i and j.
type Member struct {
	I, J     Node
	Material Material
	Section  CrossSection
}

// Length is the distance from node i to node j. Node j must lie past node i.
func (m Member) Length() float64 {
	return m.J.X - m.I.X
}

func (m Member) validate() error {
	if l := m.Length(); !(l > 0) || math.IsInf(l, 0) {
		return fieldErr(ErrInvalidGeometry, "L", l)
	}
	if e := m.Material.E; !(e > 0) || math.IsInf(e, 0) {
		return fieldErr(ErrInvalidMaterial, "E", e)
	}
	if i := m.Section.I; !(i > 0) || math.IsInf(i, 0) {
		return fieldErr(ErrInvalidMaterial, "I", i)
	}
	if a := m.Section.A; !(a > 0) || math.IsInf(a, 0) {
		return fieldErr(ErrInvalidMaterial, "A", a)
	}
	return nil
}

// DOF is one of the six nodal degrees of freedom.
type DOF int

const (
	DX DOF = iota
	DY
	DZ
	RX
	RY
	RZ
	numDOF
)

var dofNames = [numDOF]string{"DX", "DY", "DZ", "RX", "RY", "RZ"}

func (d DOF) String() string {
	if d < 0 || d >= numDOF {
		return "DOF(?)"
	}
	return dofNames[d]
}

// Restraints marks which DOFs of a node are held.
type Restraints [numDOF]bool

type Support struct {
	Node       NodeID
	Restrained Restraints
}

// Pinned holds all translations and leaves rotations free.
func Pinned(n NodeID) Support {
	return Support{Node: n, Restrained: Restraints{DX: true, DY: true, DZ: true}}
}

// Roller holds the transverse translations only.
func Roller(n NodeID) Support {
	return Support{Node: n, Restrained: Restraints{DY: true, DZ: true}}
}

func Fixed(n NodeID) Support {
	var r Restraints
	for d := range r {
		r[d] = true
	}
	return Support{Node: n, Restrained: r}
}

// DistributedLoad is a uniform line load along global Y between X1 and X2,
// measured from node i. W is signed: negative acts downward.
type DistributedLoad struct {
	W  float64 // N/m
	X1 float64 // m
	X2 float64 // m
}

// FullSpan spreads w over the whole member.
func FullSpan(w, length float64) DistributedLoad {
	return DistributedLoad{W: w, X1: 0, X2: length}
}

func (q DistributedLoad) validate(length float64) error {
	if math.IsNaN(q.W) || math.IsInf(q.W, 0) {
		return fieldErr(ErrInvalidLoad, "w", q.W)
	}
	if !(q.X1 >= 0) || q.X1 > length {
		return fieldErr(ErrInvalidLoad, "x1", q.X1)
	}
	if !(q.X2 <= length) || q.X2 <= q.X1 {
		return fieldErr(ErrInvalidLoad, "x2", q.X2)
	}
	return nil
}

// Model is the complete input of one solve.
type Model struct {
	Member   Member
	Supports [2]Support
	Load     DistributedLoad
}

// SimplySupported builds the pin-pin model loaded over its full span.
func SimplySupported(length float64, mat Material, sec CrossSection, w float64) Model {
	return Model{
		Member: Member{
			I:        Node{ID: NodeI, X: 0},
			J:        Node{ID: NodeJ, X: length},
			Material: mat,
			Section:  sec,
		},
		Supports: [2]Support{Pinned(NodeI), Pinned(NodeJ)},
		Load:     FullSpan(w, length),
	}
}

func (m Model) Validate() error {
	if err := m.Member.validate(); err != nil {
		return err
	}
	return m.Load.validate(m.Member.Length())
}

// restraint reports whether DOF d of node n is held by any support.
func (m Model) restraint(n NodeID, d DOF) bool {
	for _, s := range m.Supports {
		if s.Node == n && s.Restrained[d] {
			return true
		}
	}
	return false
}
