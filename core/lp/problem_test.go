package lp

import (
	"errors"
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestSolveEqualityAndUpperBound(t *testing.T) {
	// minimize x + 2y  s.t.  x + y = 10, 0 <= x <= 4, y >= 0
	p := New()
	x := p.AddVar(4, 1)
	y := p.AddVar(math.Inf(1), 2)
	p.AddEq(10, Term{Var: x, Coef: 1}, Term{Var: y, Coef: 1})

	sol, err := p.Solve()
	if err != nil {
		t.Fatalf("solve: %v", err)
	}
	if got := sol.Value(x); math.Abs(got-4) > 1e-6 {
		t.Errorf("x = %v, want 4", got)
	}
	if got := sol.Value(y); math.Abs(got-6) > 1e-6 {
		t.Errorf("y = %v, want 6", got)
	}
	if math.Abs(sol.Objective-16) > 1e-6 {
		t.Errorf("objective = %v, want 16", sol.Objective)
	}
}

func TestSolveInequality(t *testing.T) {
	// minimize -x  s.t.  2x <= 10  ->  x = 5
	p := New()
	x := p.AddVar(math.Inf(1), -1)
	p.AddLe(10, Term{Var: x, Coef: 2})

	sol, err := p.Solve()
	if err != nil {
		t.Fatalf("solve: %v", err)
	}
	if got := sol.Value(x); math.Abs(got-5) > 1e-6 {
		t.Errorf("x = %v, want 5", got)
	}
}

func TestSolveInfeasible(t *testing.T) {
	// x <= 1 but x = 5 required.
	p := New()
	x := p.AddVar(1, 1)
	p.AddEq(5, Term{Var: x, Coef: 1})

	_, err := p.Solve()
	if !errors.Is(err, ErrInfeasible) {
		t.Fatalf("expected ErrInfeasible, got %v", err)
	}
}

func TestSolveUnbounded(t *testing.T) {
	p := New()
	p.AddVar(math.Inf(1), -1)

	_, err := p.Solve()
	if !errors.Is(err, ErrUnbounded) {
		t.Fatalf("expected ErrUnbounded, got %v", err)
	}
}

func TestSolveNoVariables(t *testing.T) {
	if _, err := New().Solve(); err == nil {
		t.Fatal("expected error for empty problem")
	}
}

func TestSolveWrapsSolverError(t *testing.T) {
	orig := solveSimplex
	defer func() { solveSimplex = orig }()
	solveSimplex = func(c []float64, A mat.Matrix, b []float64, tol float64, initialBasic []int) (float64, []float64, error) {
		return 0, nil, errors.New("numerical breakdown")
	}

	p := New()
	x := p.AddVar(1, 1)
	p.AddEq(1, Term{Var: x, Coef: 1})
	_, err := p.Solve()
	if err == nil || errors.Is(err, ErrInfeasible) || errors.Is(err, ErrUnbounded) {
		t.Fatalf("expected wrapped solver error, got %v", err)
	}
}
