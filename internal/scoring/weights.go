package scoring

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/Lehoufi/AHP/internal/apperr"
)

// WeightTolerance bounds how far a local priority vector may sum from 1.
const WeightTolerance = 1e-6

// ValidateWeights checks that weights sum to 1.0 and none are negative.
func ValidateWeights(w []float64) error {
	if len(w) == 0 {
		return apperr.Validation("empty weight vector")
	}
	for _, v := range w {
		if v < 0 || math.IsNaN(v) {
			return apperr.Validation("negative weight: %f", v)
		}
	}
	if sum := floats.Sum(w); math.Abs(sum-1.0) > WeightTolerance {
		return apperr.Validation("weights sum to %.6f, must sum to 1.0", sum)
	}
	return nil
}
