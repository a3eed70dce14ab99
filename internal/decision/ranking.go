package decision

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/Lehoufi/AHP/internal/judgment"
	"github.com/Lehoufi/AHP/internal/scoring"
)

// Ranking is the synthesised order of the alternatives.
type Ranking struct {
	Alternatives []scoring.RankedAlternative `json:"alternatives"`
	// Frontier holds the alternatives no other alternative beats under
	// every leaf criterion.
	Frontier []scoring.RankedAlternative `json:"frontier"`
	// Degraded is set when some group's vector is an unconverged estimate.
	Degraded bool `json:"degraded"`

	Global map[uuid.UUID]float64 `json:"-"`
}

// degradable reports whether err carries a usable unconverged estimate.
func degradable(err error) bool {
	var ne *scoring.NumericError
	return errors.As(err, &ne) && ne.NotConverged()
}

// localVectors computes the priority vector of every judged group. Groups
// without a matrix are left out for Synthesize to report.
func (d *Decision) localVectors() (map[uuid.UUID][]float64, bool, error) {
	local := make(map[uuid.UUID][]float64)
	degraded := false
	for _, g := range d.Groups() {
		if !g.Judged {
			continue
		}
		pv, err := d.PriorityVectorFor(g.Key)
		switch {
		case err == nil:
		case degradable(err):
			degraded = true
		default:
			return nil, false, err
		}
		local[g.Key.Parent] = pv.Weights
	}
	return local, degraded, nil
}

// RankedAlternatives synthesises the hierarchy into one score per distinct
// alternative. It fails with *scoring.IncompleteDataError until every group
// is judged and the alternatives are in place.
func (d *Decision) RankedAlternatives() (*Ranking, error) {
	local, degraded, err := d.localVectors()
	if err != nil {
		return nil, err
	}
	s, err := scoring.Synthesize(d.tree, local)
	if err != nil {
		return nil, err
	}
	return &Ranking{
		Alternatives: s.Ranking,
		Frontier:     scoring.ComputeFrontier(s.Ranking),
		Degraded:     degraded,
		Global:       s.Global,
	}, nil
}

// GroupReport is the full picture of one sibling group.
type GroupReport struct {
	GroupInfo
	Matrix      [][]float64             `json:"matrix,omitempty"`
	OffScale    []judgment.Judgment     `json:"off_scale,omitempty"`
	Priorities  *scoring.PriorityVector `json:"priorities,omitempty"`
	Consistency *scoring.Consistency    `json:"consistency,omitempty"`
	// Computable is false when no random index exists for the group size.
	Computable bool   `json:"consistency_computable"`
	Error      string `json:"error,omitempty"`
}

// Report gathers every group's matrix, priorities and consistency together
// with the ranking, or the reason there is none yet.
type Report struct {
	ID           uuid.UUID     `json:"id"`
	Title        string        `json:"title"`
	Frozen       bool          `json:"frozen"`
	Groups       []GroupReport `json:"groups"`
	Inconsistent int           `json:"inconsistent_groups"`

	Ranking    *Ranking           `json:"ranking,omitempty"`
	Incomplete []scoring.GroupRef `json:"incomplete,omitempty"`
	Reason     string             `json:"reason,omitempty"`
}

// Report never fails. Problems with individual groups or with the ranking
// are recorded in the report itself.
func (d *Decision) Report() *Report {
	r := &Report{ID: d.ID, Title: d.Title, Frozen: d.Frozen()}
	for _, g := range d.Groups() {
		gr := GroupReport{GroupInfo: g}
		if g.Judged {
			d.fillGroup(&gr)
			if gr.Consistency != nil && !gr.Consistency.Acceptable {
				r.Inconsistent++
			}
		}
		r.Groups = append(r.Groups, gr)
	}

	ranking, err := d.RankedAlternatives()
	var ie *scoring.IncompleteDataError
	switch {
	case err == nil:
		r.Ranking = ranking
	case errors.As(err, &ie):
		r.Incomplete = ie.Groups
		r.Reason = ie.Error()
	default:
		r.Reason = err.Error()
	}
	return r
}

func (d *Decision) fillGroup(gr *GroupReport) {
	m, err := d.Matrix(gr.Key)
	if err != nil {
		gr.Error = err.Error()
		return
	}
	gr.Matrix = m.PlainTable()
	gr.OffScale = m.OffScale()

	pv, err := scoring.Priorities(m, d.settings.Priority)
	if err != nil {
		gr.Error = err.Error()
		if !degradable(err) {
			return
		}
	}
	gr.Priorities = &pv

	c, err := scoring.CheckConsistency(m, pv.Weights, d.settings.ConsistencyThreshold)
	if err != nil {
		if gr.Error == "" {
			gr.Error = err.Error()
		}
		return
	}
	gr.Consistency = &c
	gr.Computable = true
}

// GroupReport describes one sibling group. An unjudged group reports its
// members only.
func (d *Decision) GroupReport(key GroupKey) (*GroupReport, error) {
	for _, g := range d.Groups() {
		if g.Key != key {
			continue
		}
		gr := &GroupReport{GroupInfo: g}
		if g.Judged {
			d.fillGroup(gr)
		}
		return gr, nil
	}
	_, err := d.group(key)
	if err == nil {
		err = fmt.Errorf("%w: %s", ErrGroupNotFound, key)
	}
	return nil, err
}
