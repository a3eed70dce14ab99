package decision

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/Lehoufi/AHP/internal/apperr"
	"github.com/Lehoufi/AHP/internal/hierarchy"
	"github.com/Lehoufi/AHP/internal/judgment"
)

// MatrixSnapshot is the settable triangle of one judged group.
type MatrixSnapshot struct {
	Key       GroupKey            `json:"key"`
	Dim       int                 `json:"dim"`
	Judgments []judgment.Judgment `json:"judgments"`
}

// Snapshot is the serialisable state of a decision. Restore(Snapshot())
// yields an equivalent decision.
type Snapshot struct {
	ID       uuid.UUID          `json:"id"`
	Title    string             `json:"title"`
	Frozen   bool               `json:"frozen"`
	Tree     hierarchy.NodeSpec `json:"tree"`
	Matrices []MatrixSnapshot   `json:"matrices"`
}

// Snapshot captures the decision. Matrices are listed in group order.
func (d *Decision) Snapshot() Snapshot {
	s := Snapshot{
		ID:       d.ID,
		Title:    d.Title,
		Frozen:   d.tree.Frozen(),
		Tree:     d.tree.Spec(),
		Matrices: []MatrixSnapshot{},
	}
	for _, g := range d.Groups() {
		m, ok := d.matrices[g.Key]
		if !ok {
			continue
		}
		s.Matrices = append(s.Matrices, MatrixSnapshot{Key: g.Key, Dim: m.Dim(), Judgments: m.Upper()})
	}
	return s
}

// Restore rebuilds a decision from a snapshot. Every matrix must belong to an
// existing group of the right size.
func Restore(s Snapshot, settings Settings) (*Decision, error) {
	if s.ID == uuid.Nil {
		return nil, apperr.Validation("snapshot has no id")
	}
	tree, err := hierarchy.FromSpec(s.Tree, s.Frozen)
	if err != nil {
		return nil, fmt.Errorf("restore hierarchy: %w", err)
	}
	d := &Decision{
		ID:       s.ID,
		Title:    s.Title,
		tree:     tree,
		matrices: make(map[GroupKey]*judgment.Matrix, len(s.Matrices)),
		settings: settings,
	}
	for _, ms := range s.Matrices {
		parent, err := d.group(ms.Key)
		if err != nil {
			return nil, fmt.Errorf("restore matrix %s: %w", ms.Key, err)
		}
		if ms.Dim != len(parent.Children) {
			return nil, apperr.Validation("matrix %s has dim %d, group has %d members", ms.Key, ms.Dim, len(parent.Children))
		}
		if _, dup := d.matrices[ms.Key]; dup {
			return nil, apperr.Validation("matrix %s appears twice", ms.Key)
		}
		m, err := judgment.FromJudgments(ms.Dim, ms.Judgments)
		if err != nil {
			return nil, fmt.Errorf("restore matrix %s: %w", ms.Key, err)
		}
		d.matrices[ms.Key] = m
	}
	return d, nil
}
