package judgment

import (
	"fmt"
	"math"
)

// Scale is the fundamental 1-9 importance scale.
var Scale = []float64{1, 2, 3, 4, 5, 6, 7, 8, 9}

// ScaleLabels names the odd points of the scale; even points are intermediate.
var ScaleLabels = map[int]string{
	1: "equal importance",
	3: "moderate importance",
	5: "strong importance",
	7: "very strong importance",
	9: "extreme importance",
}

const scaleTolerance = 1e-9

// OnScale reports whether v is one of 1..9 or a reciprocal 1/2..1/9.
func OnScale(v float64) bool {
	if v <= 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return false
	}
	if v < 1 {
		v = 1 / v
	}
	r := math.Round(v)
	return r >= 1 && r <= 9 && math.Abs(v-r) < scaleTolerance*r
}

// CheckScale returns ErrOffScale when v is not on the scale.
func CheckScale(v float64) error {
	if !OnScale(v) {
		return fmt.Errorf("%w: got %v", ErrOffScale, v)
	}
	return nil
}
