// Package judgment holds pairwise comparison matrices over one sibling group.
//
// Only the upper triangle (row < col) is set by the user; the lower triangle
// is always the reciprocal. Values keep full precision; rounding for display
// is a read-only projection (PlainTable).
package judgment

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/Lehoufi/AHP/internal/apperr"
)

// Sentinel errors for judgment input. All of them are validation errors.
var (
	ErrDimension      = fmt.Errorf("%w: matrix dimension must be at least 1", apperr.ErrValidation)
	ErrSelfComparison = fmt.Errorf("%w: an element cannot be compared with itself", apperr.ErrValidation)
	ErrDerivedCell    = fmt.Errorf("%w: only cells with row < col can be set", apperr.ErrValidation)
	ErrOutOfRange     = fmt.Errorf("%w: cell out of range", apperr.ErrValidation)
	ErrNonPositive    = fmt.Errorf("%w: judgment must be a positive finite number", apperr.ErrValidation)
	ErrOffScale       = fmt.Errorf("%w: judgment is not on the 1-9 scale", apperr.ErrValidation)
	ErrNoReciprocal   = fmt.Errorf("%w: judgment has no finite reciprocal", apperr.ErrValidation)
)

// Judgment is one independently settable cell.
type Judgment struct {
	Row   int     `json:"row"`
	Col   int     `json:"col"`
	Value float64 `json:"value"`
}

// Matrix is a square reciprocal comparison matrix. It implements mat.Matrix.
type Matrix struct {
	data *mat.Dense
}

var _ mat.Matrix = (*Matrix)(nil)

// New returns the n×n matrix of equal judgments.
func New(n int) (*Matrix, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrDimension, n)
	}
	data := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			data.Set(i, j, 1)
		}
	}
	return &Matrix{data: data}, nil
}

// FromJudgments builds an n×n matrix and applies every judgment. Either all
// judgments are valid and applied or an error is returned.
func FromJudgments(n int, judgments []Judgment) (*Matrix, error) {
	m, err := New(n)
	if err != nil {
		return nil, err
	}
	for _, j := range judgments {
		if err := m.Set(j.Row, j.Col, j.Value); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Dim returns n.
func (m *Matrix) Dim() int {
	n, _ := m.data.Dims()
	return n
}

// Dims implements mat.Matrix.
func (m *Matrix) Dims() (r, c int) { return m.data.Dims() }

// At implements mat.Matrix.
func (m *Matrix) At(i, j int) float64 { return m.data.At(i, j) }

// T implements mat.Matrix.
func (m *Matrix) T() mat.Matrix { return mat.Transpose{Matrix: m} }

// Set stores value at (row, col) and its reciprocal at (col, row).
func (m *Matrix) Set(row, col int, value float64) error {
	if err := m.checkCell(row, col); err != nil {
		return err
	}
	if value <= 0 || math.IsNaN(value) || math.IsInf(value, 0) {
		return fmt.Errorf("%w: got %v", ErrNonPositive, value)
	}
	inv := 1 / value
	if math.IsInf(inv, 0) {
		return fmt.Errorf("%w: got %v", ErrNoReciprocal, value)
	}
	m.data.Set(row, col, value)
	m.data.Set(col, row, inv)
	return nil
}

func (m *Matrix) checkCell(row, col int) error {
	n := m.Dim()
	switch {
	case row < 0 || col < 0 || row >= n || col >= n:
		return fmt.Errorf("%w: (%d,%d) in %dx%d", ErrOutOfRange, row, col, n, n)
	case row == col:
		return ErrSelfComparison
	case row > col:
		return fmt.Errorf("%w: got (%d,%d)", ErrDerivedCell, row, col)
	}
	return nil
}

// Clone returns an independent copy.
func (m *Matrix) Clone() *Matrix {
	return &Matrix{data: mat.DenseCopyOf(m.data)}
}

// Dense returns a copy as a gonum matrix.
func (m *Matrix) Dense() *mat.Dense { return mat.DenseCopyOf(m.data) }

// Table returns the full-precision n×n table.
func (m *Matrix) Table() [][]float64 {
	n := m.Dim()
	out := make([][]float64, n)
	for i := range out {
		out[i] = mat.Row(nil, i, m.data)
	}
	return out
}

// PlainTable returns the table rounded to two decimals for display.
func (m *Matrix) PlainTable() [][]float64 {
	out := m.Table()
	for _, row := range out {
		for j, v := range row {
			// Large values have no fractional digits to drop.
			if v < 1e15 {
				row[j] = math.Round(v*100) / 100
			}
		}
	}
	return out
}

// Upper returns every independently settable cell in row-major order.
func (m *Matrix) Upper() []Judgment {
	n := m.Dim()
	out := make([]Judgment, 0, n*(n-1)/2)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			out = append(out, Judgment{Row: i, Col: j, Value: m.data.At(i, j)})
		}
	}
	return out
}

// OffScale returns the settable cells whose value is not on the 1-9 scale.
func (m *Matrix) OffScale() []Judgment {
	var out []Judgment
	for _, j := range m.Upper() {
		if !OnScale(j.Value) {
			out = append(out, j)
		}
	}
	return out
}
