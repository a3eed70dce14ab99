package scoring

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func ranked(name string, values map[uuid.UUID]float64) RankedAlternative {
	r := RankedAlternative{Name: name}
	for id, v := range values {
		r.Score += v
		r.Contributions = append(r.Contributions, Contribution{ParentID: id, Global: v})
	}
	return r
}

func TestComputeFrontier(t *testing.T) {
	cost, comfort := uuid.New(), uuid.New()

	ranking := []RankedAlternative{
		ranked("cheap", map[uuid.UUID]float64{cost: 0.5, comfort: 0.1}),
		ranked("comfy", map[uuid.UUID]float64{cost: 0.1, comfort: 0.3}),
		ranked("worse", map[uuid.UUID]float64{cost: 0.05, comfort: 0.05}),
	}
	frontier := ComputeFrontier(ranking)

	assert.Len(t, frontier, 2)
	assert.Equal(t, "cheap", frontier[0].Name)
	assert.Equal(t, "comfy", frontier[1].Name)
}

func TestComputeFrontierMissingCountsAsZero(t *testing.T) {
	cost, comfort := uuid.New(), uuid.New()

	ranking := []RankedAlternative{
		ranked("both", map[uuid.UUID]float64{cost: 0.3, comfort: 0.3}),
		ranked("one", map[uuid.UUID]float64{cost: 0.3}),
	}
	frontier := ComputeFrontier(ranking)

	assert.Len(t, frontier, 1)
	assert.Equal(t, "both", frontier[0].Name)
}

func TestComputeFrontierEqualPointsKept(t *testing.T) {
	cost := uuid.New()

	ranking := []RankedAlternative{
		ranked("a", map[uuid.UUID]float64{cost: 0.5}),
		ranked("b", map[uuid.UUID]float64{cost: 0.5}),
	}
	assert.Len(t, ComputeFrontier(ranking), 2)
}

func TestComputeFrontierTrivial(t *testing.T) {
	assert.Empty(t, ComputeFrontier(nil))
	one := []RankedAlternative{{Name: "only"}}
	assert.Equal(t, one, ComputeFrontier(one))
}
