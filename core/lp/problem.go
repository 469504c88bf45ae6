// Package lp assembles linear programs and hands them to gonum's simplex
// implementation. The solver is treated as an opaque dependency: models
// declare bounded variables, linear constraints and a linear objective, and
// read back the optimal point.
package lp

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/convex/lp"
)

// ErrInfeasible indicates the program has no feasible solution.
var ErrInfeasible = errors.New("lp infeasible")

// ErrUnbounded indicates the objective can decrease without bound.
var ErrUnbounded = errors.New("lp unbounded")

const tol = 1e-7

// Var indexes a decision variable within a Problem.
type Var int

// Term is a coefficient applied to a variable inside a constraint.
type Term struct {
	Var  Var
	Coef float64
}

type constraint struct {
	terms []Term
	rhs   float64
}

// Problem is a minimization program over nonnegative variables with
// optional upper bounds, equality constraints and <= constraints.
type Problem struct {
	obj []float64
	ub  []float64
	eqs []constraint
	les []constraint
}

// New returns an empty problem.
func New() *Problem { return &Problem{} }

// AddVar declares a variable with bounds [0, ub] and the given objective
// coefficient. Pass math.Inf(1) for an unbounded variable.
func (p *Problem) AddVar(ub, objCoef float64) Var {
	p.obj = append(p.obj, objCoef)
	p.ub = append(p.ub, ub)
	return Var(len(p.obj) - 1)
}

// AddEq adds the constraint Σ terms = rhs.
func (p *Problem) AddEq(rhs float64, terms ...Term) {
	p.eqs = append(p.eqs, constraint{terms: terms, rhs: rhs})
}

// AddLe adds the constraint Σ terms <= rhs.
func (p *Problem) AddLe(rhs float64, terms ...Term) {
	p.les = append(p.les, constraint{terms: terms, rhs: rhs})
}

// NumVars returns the number of declared variables.
func (p *Problem) NumVars() int { return len(p.obj) }

// Solution holds the optimal point of a solved problem.
type Solution struct {
	Objective float64
	values    []float64
}

// Value returns the optimal value of v.
func (s Solution) Value(v Var) float64 { return s.values[v] }

// solveSimplex points to the function used to solve the standard-form LP.
// It can be overridden in tests to simulate solver failures.
var solveSimplex = lp.Simplex

// Solve converts the problem to standard form and runs the simplex solver.
func (p *Problem) Solve() (Solution, error) {
	n := len(p.obj)
	if n == 0 {
		return Solution{}, errors.New("lp: no variables")
	}

	// Inequality rows: explicit <= constraints, upper bounds, and
	// nonnegativity (Convert treats variables as free).
	nIneq := len(p.les) + n
	for _, ub := range p.ub {
		if !math.IsInf(ub, 1) {
			nIneq++
		}
	}

	g := mat.NewDense(nIneq, n, nil)
	h := make([]float64, nIneq)
	row := 0
	for _, c := range p.les {
		for _, t := range c.terms {
			g.Set(row, int(t.Var), g.At(row, int(t.Var))+t.Coef)
		}
		h[row] = c.rhs
		row++
	}
	for i, ub := range p.ub {
		if !math.IsInf(ub, 1) {
			g.Set(row, i, 1)
			h[row] = ub
			row++
		}
	}
	for i := 0; i < n; i++ {
		g.Set(row, i, -1)
		h[row] = 0
		row++
	}

	var a *mat.Dense
	var b []float64
	if len(p.eqs) > 0 {
		a = mat.NewDense(len(p.eqs), n, nil)
		b = make([]float64, len(p.eqs))
		for i, c := range p.eqs {
			for _, t := range c.terms {
				a.Set(i, int(t.Var), a.At(i, int(t.Var))+t.Coef)
			}
			b[i] = c.rhs
		}
	}

	c := make([]float64, n)
	copy(c, p.obj)

	var cStd []float64
	var aStd mat.Matrix
	var bStd []float64
	if a != nil {
		cStd, aStd, bStd = lp.Convert(c, g, h, a, b)
	} else {
		cStd, aStd, bStd = lp.Convert(c, g, h, nil, nil)
	}

	opt, sol, err := solveSimplex(cStd, aStd, bStd, tol, nil)
	if err != nil {
		switch {
		case errors.Is(err, lp.ErrInfeasible):
			return Solution{}, ErrInfeasible
		case errors.Is(err, lp.ErrUnbounded):
			return Solution{}, ErrUnbounded
		default:
			return Solution{}, fmt.Errorf("lp solve: %w", err)
		}
	}

	// Convert splits each free variable x into x+ - x-; recover the
	// original variables from the first 2n standard-form components.
	values := make([]float64, n)
	for i := 0; i < n; i++ {
		values[i] = sol[i] - sol[n+i]
		if values[i] < 0 && values[i] > -tol {
			values[i] = 0
		}
	}
	return Solution{Objective: opt, values: values}, nil
}
