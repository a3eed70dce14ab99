package scoring

import "github.com/google/uuid"

// ComputeFrontier returns the Pareto-optimal alternatives of a ranking, in
// rank order. Each leaf criterion is one dimension and the alternative's
// global contribution under it is the value; an alternative missing under a
// criterion counts as zero there.
// O(n^2) dominance check.
func ComputeFrontier(ranking []RankedAlternative) []RankedAlternative {
	if len(ranking) <= 1 {
		return ranking
	}

	var dims []uuid.UUID
	seen := make(map[uuid.UUID]bool)
	points := make([]map[uuid.UUID]float64, len(ranking))
	for i, r := range ranking {
		points[i] = make(map[uuid.UUID]float64, len(r.Contributions))
		for _, c := range r.Contributions {
			points[i][c.ParentID] = c.Global
			if !seen[c.ParentID] {
				seen[c.ParentID] = true
				dims = append(dims, c.ParentID)
			}
		}
	}

	var frontier []RankedAlternative
	for i := range ranking {
		dominated := false
		for j := range ranking {
			if i == j {
				continue
			}
			if dominates(points[j], points[i], dims) {
				dominated = true
				break
			}
		}
		if !dominated {
			frontier = append(frontier, ranking[i])
		}
	}
	return frontier
}

// dominates returns true if a is >= b under every criterion and > under at
// least one.
func dominates(a, b map[uuid.UUID]float64, dims []uuid.UUID) bool {
	strictly := false
	for _, d := range dims {
		if a[d] < b[d] {
			return false
		}
		if a[d] > b[d] {
			strictly = true
		}
	}
	return strictly
}
