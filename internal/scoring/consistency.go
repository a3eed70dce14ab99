package scoring

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// DefaultConsistencyThreshold is the conventional upper bound for an
// acceptable consistency ratio.
const DefaultConsistencyThreshold = 0.10

// MaxConsistencySize is the largest group covered by the random index table.
const MaxConsistencySize = 10

// randomIndex is Saaty's random consistency index, indexed by n.
var randomIndex = [MaxConsistencySize + 1]float64{
	0, 0, 0, 0.58, 0.90, 1.12, 1.24, 1.32, 1.41, 1.45, 1.49,
}

// RandomIndex returns RI(n) for 1 <= n <= MaxConsistencySize.
func RandomIndex(n int) (float64, error) {
	if n < 1 || n > MaxConsistencySize {
		return 0, &UnsupportedSizeError{N: n}
	}
	return randomIndex[n], nil
}

// Consistency is the outcome of a consistency check. It is advisory: an
// unacceptable ratio never blocks aggregation.
type Consistency struct {
	N           int     `json:"n"`
	LambdaMax   float64 `json:"lambda_max"`
	Index       float64 `json:"consistency_index"`
	RandomIndex float64 `json:"random_index"`
	Ratio       float64 `json:"consistency_ratio"`
	Threshold   float64 `json:"threshold"`
	Acceptable  bool    `json:"acceptable"`
}

// CheckConsistency estimates λmax as the mean of (M·w)_i / w_i and derives
// CI = (λmax - n) / (n - 1) and CR = CI / RI(n). Groups of one or two are
// consistent by construction.
func CheckConsistency(m mat.Matrix, w []float64, threshold float64) (Consistency, error) {
	n, err := squareDim(m)
	if err != nil {
		return Consistency{}, err
	}
	if len(w) != n {
		return Consistency{}, fmt.Errorf("priority vector has %d weights for a %dx%d matrix", len(w), n, n)
	}
	ri, err := RandomIndex(n)
	if err != nil {
		return Consistency{}, err
	}

	c := Consistency{N: n, LambdaMax: 1, RandomIndex: ri, Threshold: threshold}
	if n > 1 {
		mw := mat.NewVecDense(n, nil)
		mw.MulVec(m, mat.NewVecDense(n, append([]float64(nil), w...)))
		var sum float64
		for i := 0; i < n; i++ {
			if !(w[i] > 0) {
				return Consistency{}, &NumericError{Reason: fmt.Sprintf("zero weight at %d", i)}
			}
			sum += mw.AtVec(i) / w[i]
		}
		c.LambdaMax = sum / float64(n)
		// Rounding can put λmax a hair below n for consistent judgments.
		c.Index = max(0, (c.LambdaMax-float64(n))/float64(n-1))
	}
	if ri > 0 {
		c.Ratio = c.Index / ri
	}
	c.Acceptable = c.Ratio <= threshold
	return c, nil
}
