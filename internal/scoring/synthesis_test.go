package scoring

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Lehoufi/AHP/internal/apperr"
	"github.com/Lehoufi/AHP/internal/hierarchy"
)

// twoCriteriaTree builds Goal -> A, B with alternatives X and Y under both.
func twoCriteriaTree(t *testing.T) (*hierarchy.Tree, *hierarchy.Node, *hierarchy.Node) {
	t.Helper()
	tree := hierarchy.New("Pick")
	crit, err := tree.AddChildren(tree.Root().ID, []string{"A", "B"})
	require.NoError(t, err)
	_, err = tree.FinalizeLeaves([]string{"X", "Y"})
	require.NoError(t, err)
	return tree, crit[0], crit[1]
}

func TestSynthesizeTwoLevels(t *testing.T) {
	tree, a, b := twoCriteriaTree(t)

	local := map[uuid.UUID][]float64{
		tree.Root().ID: {0.75, 0.25},
		a.ID:           {2.0 / 3, 1.0 / 3},
		b.ID:           {1.0 / 3, 2.0 / 3},
	}
	s, err := Synthesize(tree, local)
	require.NoError(t, err)

	require.Len(t, s.Ranking, 2)
	assert.Equal(t, "X", s.Ranking[0].Name)
	assert.Equal(t, 1, s.Ranking[0].Rank)
	assert.InDelta(t, 0.583, s.Ranking[0].Score, 0.001)
	assert.Equal(t, "Y", s.Ranking[1].Name)
	assert.Equal(t, 2, s.Ranking[1].Rank)
	assert.InDelta(t, 0.417, s.Ranking[1].Score, 0.001)

	assert.InDelta(t, 0.75, s.Global[a.ID], 1e-12)
	assert.InDelta(t, 0.25, s.Global[b.ID], 1e-12)
	assert.Equal(t, "X", s.Best().Name)

	x := s.Ranking[0]
	require.Len(t, x.Contributions, 2)
	assert.Equal(t, "A", x.Contributions[0].Parent)
	assert.InDelta(t, 0.5, x.Contributions[0].Global, 1e-12)
	assert.InDelta(t, 2.0/3, x.Contributions[0].Local, 1e-12)
	assert.InDelta(t, 0.25/3, x.Contributions[1].Global, 1e-12)
}

func TestSynthesizeScoresSumToOne(t *testing.T) {
	tree := hierarchy.New("Car")
	crit, err := tree.AddChildren(tree.Root().ID, []string{"Cost", "Comfort"})
	require.NoError(t, err)
	sub, err := tree.AddChildren(crit[1].ID, []string{"Space", "Noise", "Seats"})
	require.NoError(t, err)
	_, err = tree.FinalizeLeaves([]string{"Civic", "Golf", "Model 3"})
	require.NoError(t, err)

	local := map[uuid.UUID][]float64{
		tree.Root().ID: {0.4, 0.6},
		crit[0].ID:     {0.5, 0.3, 0.2},
		crit[1].ID:     {0.2, 0.5, 0.3},
		sub[0].ID:      {0.1, 0.3, 0.6},
		sub[1].ID:      {0.6, 0.3, 0.1},
		sub[2].ID:      {1.0 / 3, 1.0 / 3, 1.0 / 3},
	}
	s, err := Synthesize(tree, local)
	require.NoError(t, err)

	var total float64
	for i, r := range s.Ranking {
		total += r.Score
		assert.Equal(t, i+1, r.Rank)
		var contrib float64
		for _, c := range r.Contributions {
			contrib += c.Global
		}
		assert.InDelta(t, r.Score, contrib, 1e-12)
		if i > 0 {
			assert.GreaterOrEqual(t, s.Ranking[i-1].Score, r.Score)
		}
	}
	assert.InDelta(t, 1.0, total, 1e-9)
	assert.Len(t, s.Scores(), 3)
}

func TestSynthesizeMissingGroups(t *testing.T) {
	tree, a, b := twoCriteriaTree(t)

	_, err := Synthesize(tree, map[uuid.UUID][]float64{
		tree.Root().ID: {0.5, 0.5},
		a.ID:           {0.5, 0.5},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperr.ErrIncompleteData)

	var ie *IncompleteDataError
	require.ErrorAs(t, err, &ie)
	require.Len(t, ie.Groups, 1)
	assert.Equal(t, b.ID, ie.Groups[0].ParentID)
	assert.Equal(t, "B", ie.Groups[0].Parent)
	assert.Equal(t, 2, ie.Groups[0].Level)
}

func TestSynthesizeWrongLength(t *testing.T) {
	tree, a, b := twoCriteriaTree(t)

	_, err := Synthesize(tree, map[uuid.UUID][]float64{
		tree.Root().ID: {0.5, 0.5},
		a.ID:           {0.5, 0.5},
		b.ID:           {1},
	})
	assert.ErrorIs(t, err, apperr.ErrIncompleteData)
}

func TestSynthesizeRejectsUnnormalisedVector(t *testing.T) {
	tree, a, b := twoCriteriaTree(t)

	_, err := Synthesize(tree, map[uuid.UUID][]float64{
		tree.Root().ID: {0.5, 0.6},
		a.ID:           {0.5, 0.5},
		b.ID:           {0.5, 0.5},
	})
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestSynthesizeNotFrozen(t *testing.T) {
	tree := hierarchy.New("Pick")
	_, err := tree.AddChildren(tree.Root().ID, []string{"A", "B"})
	require.NoError(t, err)

	_, err = Synthesize(tree, map[uuid.UUID][]float64{tree.Root().ID: {0.5, 0.5}})
	assert.ErrorIs(t, err, apperr.ErrIncompleteData)
	var ie *IncompleteDataError
	require.ErrorAs(t, err, &ie)
	assert.NotEmpty(t, ie.Reason)
}

func TestSynthesizeStableTies(t *testing.T) {
	tree, a, b := twoCriteriaTree(t)

	s, err := Synthesize(tree, map[uuid.UUID][]float64{
		tree.Root().ID: {0.5, 0.5},
		a.ID:           {0.5, 0.5},
		b.ID:           {0.5, 0.5},
	})
	require.NoError(t, err)
	assert.Equal(t, "X", s.Ranking[0].Name)
	assert.Equal(t, "Y", s.Ranking[1].Name)
	assert.InDelta(t, 0.5, s.Ranking[0].Score, 1e-12)
}
