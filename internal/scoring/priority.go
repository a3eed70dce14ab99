package scoring

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/Lehoufi/AHP/internal/apperr"
)

// Method names the algorithm that produced a priority vector.
type Method string

const (
	MethodEigenvector   Method = "eigenvector"
	MethodGeometricMean Method = "geometric_mean"
)

// Options controls the power iteration.
type Options struct {
	MaxIterations int     `json:"max_iterations"`
	Tolerance     float64 `json:"tolerance"`
	// Fallback switches to the geometric mean of rows when the iteration
	// does not converge.
	Fallback bool `json:"fallback"`
}

// DefaultOptions returns 100 iterations, 1e-10 tolerance, fallback enabled.
func DefaultOptions() Options {
	return Options{MaxIterations: 100, Tolerance: 1e-10, Fallback: true}
}

// Validate rejects settings the iteration cannot run with.
func (o Options) Validate() error {
	if o.MaxIterations < 1 {
		return apperr.Validation("max iterations must be at least 1, got %d", o.MaxIterations)
	}
	if !(o.Tolerance > 0) {
		return apperr.Validation("tolerance must be positive, got %v", o.Tolerance)
	}
	return nil
}

// PriorityVector is the normalised weight of each sibling, in group order.
type PriorityVector struct {
	Weights    []float64 `json:"weights"`
	Method     Method    `json:"method"`
	Iterations int       `json:"iterations"`
	Converged  bool      `json:"converged"`
}

// Sum returns the total weight; 1 within floating tolerance.
func (p PriorityVector) Sum() float64 { return floats.Sum(p.Weights) }

// Eigenvector estimates the principal eigenvector by power iteration: start
// uniform, multiply by m and renormalise by the sum until the largest change
// of any component drops below opts.Tolerance.
//
// On non-convergence it returns the last estimate together with a
// *NumericError carrying the same vector.
func Eigenvector(m mat.Matrix, opts Options) (PriorityVector, error) {
	n, err := squareDim(m)
	if err != nil {
		return PriorityVector{}, err
	}
	if n == 1 {
		return PriorityVector{Weights: []float64{1}, Method: MethodEigenvector, Converged: true}, nil
	}
	if err := checkPositive(m); err != nil {
		return PriorityVector{}, err
	}

	seed := make([]float64, n)
	for i := range seed {
		seed[i] = 1 / float64(n)
	}
	v := mat.NewVecDense(n, seed)
	next := mat.NewVecDense(n, nil)

	for it := 1; it <= opts.MaxIterations; it++ {
		next.MulVec(m, v)
		next.ScaleVec(1/mat.Sum(next), next)
		delta := floats.Distance(next.RawVector().Data, v.RawVector().Data, math.Inf(1))
		v.CopyVec(next)
		if delta < opts.Tolerance {
			return PriorityVector{
				Weights:    copyVec(v),
				Method:     MethodEigenvector,
				Iterations: it,
				Converged:  true,
			}, nil
		}
	}

	degraded := PriorityVector{
		Weights:    copyVec(v),
		Method:     MethodEigenvector,
		Iterations: opts.MaxIterations,
	}
	return degraded, &NumericError{
		Reason:     fmt.Sprintf("power iteration did not converge in %d iterations", opts.MaxIterations),
		Vector:     copyVec(v),
		Iterations: opts.MaxIterations,
	}
}

// GeometricMean approximates the priority vector by the normalised geometric
// mean of each row. It matches the eigenvector for consistent matrices and
// differs slightly otherwise.
func GeometricMean(m mat.Matrix) (PriorityVector, error) {
	n, err := squareDim(m)
	if err != nil {
		return PriorityVector{}, err
	}
	if err := checkPositive(m); err != nil {
		return PriorityVector{}, err
	}
	w := make([]float64, n)
	for i := range w {
		w[i] = stat.GeometricMean(mat.Row(nil, i, m), nil)
	}
	floats.Scale(1/floats.Sum(w), w)
	return PriorityVector{Weights: w, Method: MethodGeometricMean, Converged: true}, nil
}

// Priorities computes the eigenvector and, when allowed, falls back to the
// geometric mean if the iteration does not converge.
func Priorities(m mat.Matrix, opts Options) (PriorityVector, error) {
	pv, err := Eigenvector(m, opts)
	if err == nil {
		return pv, nil
	}
	var ne *NumericError
	if opts.Fallback && errors.As(err, &ne) && ne.NotConverged() {
		return GeometricMean(m)
	}
	return pv, err
}

func squareDim(m mat.Matrix) (int, error) {
	r, c := m.Dims()
	if r != c || r < 1 {
		return 0, apperr.Validation("comparison matrix must be square and non-empty, got %dx%d", r, c)
	}
	return r, nil
}

func checkPositive(m mat.Matrix) error {
	r, c := m.Dims()
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			if v := m.At(i, j); !(v > 0) || math.IsInf(v, 0) {
				return &NumericError{Reason: fmt.Sprintf("non-positive entry %v at (%d,%d)", v, i, j)}
			}
		}
	}
	return nil
}

func copyVec(v *mat.VecDense) []float64 {
	out := make([]float64, v.Len())
	for i := range out {
		out[i] = v.AtVec(i)
	}
	return out
}
