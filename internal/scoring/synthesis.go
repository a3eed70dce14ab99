package scoring

import (
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/Lehoufi/AHP/internal/hierarchy"
)

// Contribution is one occurrence of an alternative under a leaf criterion.
type Contribution struct {
	ParentID uuid.UUID `json:"parent_id"`
	Parent   string    `json:"parent"`
	Local    float64   `json:"local"`
	Global   float64   `json:"global"`
}

// RankedAlternative is the synthesised score of one distinct alternative.
// Contributions sum to Score.
type RankedAlternative struct {
	Rank          int            `json:"rank"`
	Name          string         `json:"name"`
	Score         float64        `json:"score"`
	Contributions []Contribution `json:"contributions"`
}

// Synthesis is the result of aggregating a fully judged hierarchy.
type Synthesis struct {
	Ranking []RankedAlternative `json:"ranking"`
	// Global holds the weight of every node relative to the goal.
	Global map[uuid.UUID]float64 `json:"global"`
}

// Synthesize combines local priority vectors, keyed by the parent node of each
// sibling group, into one score per distinct alternative name.
//
// The goal weighs 1 and every other node weighs its parent's global weight
// times its local weight. An alternative's score is the sum over every leaf
// criterion it appears under; scores are then renormalised to sum to 1 and
// ranked descending with ties kept in first-seen order.
func Synthesize(tree *hierarchy.Tree, local map[uuid.UUID][]float64) (*Synthesis, error) {
	groups := tree.Groups()

	var missing []GroupRef
	for _, g := range groups {
		w, ok := local[g.Parent.ID]
		if !ok || len(w) != len(g.Children) {
			missing = append(missing, GroupRef{Level: g.Level, ParentID: g.Parent.ID, Parent: g.Parent.Name})
			continue
		}
		if err := ValidateWeights(w); err != nil {
			return nil, fmt.Errorf("group %q: %w", g.Parent.Name, err)
		}
	}
	if len(missing) > 0 {
		return nil, &IncompleteDataError{Groups: missing}
	}
	if !tree.Frozen() {
		return nil, &IncompleteDataError{Reason: "alternatives have not been added"}
	}

	global := map[uuid.UUID]float64{tree.Root().ID: 1}
	// Groups are ordered top-down, so a parent's weight is always known.
	for _, g := range groups {
		pw := global[g.Parent.ID]
		for i, child := range g.Children {
			global[child.ID] = pw * local[g.Parent.ID][i]
		}
	}

	index := make(map[string]int)
	var ranking []RankedAlternative
	var total float64
	tree.Walk(func(n *hierarchy.Node) {
		if n.Role != hierarchy.RoleAlternative {
			return
		}
		i, ok := index[n.Name]
		if !ok {
			i = len(ranking)
			index[n.Name] = i
			ranking = append(ranking, RankedAlternative{Name: n.Name})
		}
		gw := global[n.ID]
		ranking[i].Score += gw
		ranking[i].Contributions = append(ranking[i].Contributions, Contribution{
			ParentID: n.Parent.ID,
			Parent:   n.Parent.Name,
			Local:    local[n.Parent.ID][indexOf(n)],
			Global:   gw,
		})
		total += gw
	})
	if len(ranking) == 0 || !(total > 0) {
		return nil, &IncompleteDataError{Reason: "no weighted alternatives"}
	}

	for i := range ranking {
		ranking[i].Score /= total
		for j := range ranking[i].Contributions {
			ranking[i].Contributions[j].Global /= total
		}
	}
	sort.SliceStable(ranking, func(i, j int) bool {
		return ranking[i].Score > ranking[j].Score
	})
	for i := range ranking {
		ranking[i].Rank = i + 1
	}
	return &Synthesis{Ranking: ranking, Global: global}, nil
}

// Best returns the top-ranked alternative.
func (s *Synthesis) Best() RankedAlternative { return s.Ranking[0] }

// Scores returns the ranked scores keyed by alternative name.
func (s *Synthesis) Scores() map[string]float64 {
	out := make(map[string]float64, len(s.Ranking))
	for _, r := range s.Ranking {
		out[r.Name] = r.Score
	}
	return out
}

func indexOf(n *hierarchy.Node) int {
	for i, c := range n.Parent.Children {
		if c == n {
			return i
		}
	}
	return -1
}
