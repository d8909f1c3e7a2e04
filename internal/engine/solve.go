package engine

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// maxCondition bounds the condition number of the reduced stiffness matrix.
// Beyond it the supports leave a rigid-body mode.
const maxCondition = 1e12

// Solution is the solved state of one model. It is never mutated after Solve
// returns, so its response functions may be sampled concurrently.
type Solution struct {
	Model         Model
	Displacements Vector // nodal u, v, theta
	Reactions     Vector // support reactions, zero at free DOFs
	EndForces     Vector // member end forces, K*d minus equivalent nodal loads

	length float64
	ei     float64
}

// Solve assembles the member, partitions it into free and restrained DOFs and
// solves K_ff * d_f = F_f by Cholesky factorisation.
func Solve(m Model) (*Solution, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	k, err := Stiffness(m.Member)
	if err != nil {
		return nil, err
	}
	f, err := NodalLoads(m.Member, m.Load)
	if err != nil {
		return nil, err
	}

	var restrained [elemDOF]bool
	var free []int
	for _, n := range [2]NodeID{NodeI, NodeJ} {
		for loc, d := range planar {
			at := idx(n, loc)
			restrained[at] = m.restraint(n, d)
			if !restrained[at] {
				free = append(free, at)
			}
		}
	}

	var d Vector
	if len(free) > 0 {
		df, err := solveReduced(&k, f, free)
		if err != nil {
			return nil, err
		}
		for r, at := range free {
			d[at] = df[r]
		}
	}

	kd := k.mulVec(d)
	s := &Solution{
		Model:         m,
		Displacements: d,
		length:        m.Member.Length(),
		ei:            m.Member.Material.E * m.Member.Section.I,
	}
	for at := range kd {
		s.EndForces[at] = kd[at] - f[at]
		if restrained[at] {
			s.Reactions[at] = s.EndForces[at]
		}
	}
	return s, nil
}

func solveReduced(k *Matrix, f Vector, free []int) ([]float64, error) {
	n := len(free)
	kff := mat.NewSymDense(n, nil)
	rhs := mat.NewVecDense(n, nil)
	for r, ar := range free {
		for c := r; c < n; c++ {
			kff.SetSym(r, c, k[ar][free[c]])
		}
		rhs.SetVec(r, f[ar])
	}

	var chol mat.Cholesky
	if ok := chol.Factorize(kff); !ok {
		return nil, fmt.Errorf("%w: reduced stiffness is not positive definite", ErrSingularSystem)
	}
	if c := chol.Cond(); c > maxCondition {
		return nil, fmt.Errorf("%w: condition number %.3g", ErrSingularSystem, c)
	}
	var d mat.VecDense
	if err := chol.SolveVecTo(&d, rhs); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSingularSystem, err)
	}
	return d.RawVector().Data, nil
}

// Reaction returns the support reaction of node n along DOF d. DZ, RX and RY
// lie outside the plane of bending and always read zero.
func (s *Solution) Reaction(n NodeID, d DOF) float64 {
	for loc, pd := range planar {
		if pd == d {
			return s.Reactions[idx(n, loc)]
		}
	}
	return 0
}

// Rotation returns the solved end rotation of node n (counter-clockwise positive).
func (s *Solution) Rotation(n NodeID) float64 {
	return s.Displacements[idx(n, locTheta)]
}

func (s *Solution) Length() float64 { return s.length }
