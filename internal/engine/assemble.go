package engine

import "math"

// The member is analysed in its own plane: axial translation, transverse
// translation and in-plane rotation at each end.
var planar = [3]DOF{DX, DY, RZ}

const elemDOF = 2 * len(planar)

// Local positions inside a node block.
const (
	locU = iota
	locV
	locTheta
)

// Vector and Matrix are indexed by (node, planar DOF) through idx.
type (
	Vector [elemDOF]float64
	Matrix [elemDOF][elemDOF]float64
)

func idx(n NodeID, local int) int {
	return int(n)*len(planar) + local
}

// Stiffness returns the Euler-Bernoulli frame stiffness matrix of the member.
func Stiffness(m Member) (Matrix, error) {
	var k Matrix
	if err := m.validate(); err != nil {
		return k, err
	}
	l := m.Length()
	e, a, i := m.Material.E, m.Section.A, m.Section.I

	ea := e * a / l
	ui, uj := idx(NodeI, locU), idx(NodeJ, locU)
	k[ui][ui], k[ui][uj] = ea, -ea
	k[uj][ui], k[uj][uj] = -ea, ea

	ei := e * i
	bend := [4][4]float64{
		{12, 6 * l, -12, 6 * l},
		{6 * l, 4 * l * l, -6 * l, 2 * l * l},
		{-12, -6 * l, 12, -6 * l},
		{6 * l, 2 * l * l, -6 * l, 4 * l * l},
	}
	at := [4]int{idx(NodeI, locV), idx(NodeI, locTheta), idx(NodeJ, locV), idx(NodeJ, locTheta)}
	c := ei / (l * l * l)
	for r := range bend {
		for s := range bend[r] {
			k[at[r]][at[s]] = c * bend[r][s]
		}
	}
	return k, nil
}

// NodalLoads converts the distributed load into consistent nodal forces and
// moments. A full-span load uses the fixed-end table (wL/2, wL^2/12); a partial
// one is integrated against the Hermite shape functions.
func NodalLoads(m Member, q DistributedLoad) (Vector, error) {
	var f Vector
	if err := m.validate(); err != nil {
		return f, err
	}
	l := m.Length()
	if err := q.validate(l); err != nil {
		return f, err
	}

	vi, ti := idx(NodeI, locV), idx(NodeI, locTheta)
	vj, tj := idx(NodeJ, locV), idx(NodeJ, locTheta)

	if q.X1 == 0 && q.X2 == l {
		f[vi] = q.W * l / 2
		f[ti] = q.W * l * l / 12
		f[vj] = q.W * l / 2
		f[tj] = -q.W * l * l / 12
		return f, nil
	}

	// Two Gauss points integrate a constant times a cubic exactly.
	half := (q.X2 - q.X1) / 2
	mid := (q.X1 + q.X2) / 2
	g := half / math.Sqrt(3)
	for _, x := range [2]float64{mid - g, mid + g} {
		n := hermite(x/l, l)
		f[vi] += half * q.W * n[0]
		f[ti] += half * q.W * n[1]
		f[vj] += half * q.W * n[2]
		f[tj] += half * q.W * n[3]
	}
	return f, nil
}

// hermite evaluates the cubic beam shape functions at xi = x/L.
func hermite(xi, l float64) [4]float64 {
	xi2 := xi * xi
	xi3 := xi2 * xi
	return [4]float64{
		1 - 3*xi2 + 2*xi3,
		l * (xi - 2*xi2 + xi3),
		3*xi2 - 2*xi3,
		l * (xi3 - xi2),
	}
}

func (k *Matrix) mulVec(d Vector) Vector {
	var out Vector
	for r := range k {
		var s float64
		for c := range k[r] {
			s += k[r][c] * d[c]
		}
		out[r] = s
	}
	return out
}
