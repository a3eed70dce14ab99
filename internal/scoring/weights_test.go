package scoring

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Lehoufi/AHP/internal/apperr"
)

func TestValidateWeights(t *testing.T) {
	assert.NoError(t, ValidateWeights([]float64{0.25, 0.25, 0.5}))
	assert.NoError(t, ValidateWeights([]float64{1}))
	assert.NoError(t, ValidateWeights([]float64{1.0 / 3, 1.0 / 3, 1.0 / 3}))

	tests := map[string][]float64{
		"empty":    nil,
		"negative": {1.2, -0.2},
		"nan":      {math.NaN(), 1},
		"sum low":  {0.4, 0.4},
		"sum high": {0.6, 0.6},
	}
	for name, w := range tests {
		t.Run(name, func(t *testing.T) {
			assert.ErrorIs(t, ValidateWeights(w), apperr.ErrValidation)
		})
	}
}
