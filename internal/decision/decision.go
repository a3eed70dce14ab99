// Package decision is the aggregate root of one AHP analysis: a hierarchy and
// the comparison matrices of its sibling groups.
//
// Matrices are keyed by group and survive until a structural edit touches the
// group. Adding children to a node drops that node's matrix; removing a node
// drops its former sibling group's matrix and every matrix owned by the
// removed subtree.
//
// A Decision is not safe for concurrent use. The API layer loads, edits and
// saves it under an optimistic version check.
package decision

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/Lehoufi/AHP/internal/apperr"
	"github.com/Lehoufi/AHP/internal/hierarchy"
	"github.com/Lehoufi/AHP/internal/judgment"
	"github.com/Lehoufi/AHP/internal/scoring"
)

var (
	// ErrGroupNotFound is returned for a key that names no sibling group.
	ErrGroupNotFound = fmt.Errorf("%w: sibling group", apperr.ErrNotFound)

	// ErrLevelMismatch is returned when a key's level disagrees with its parent.
	ErrLevelMismatch = fmt.Errorf("%w: group level does not match parent", apperr.ErrValidation)
)

// GroupKey identifies a sibling group by the level of its members and the ID
// of their parent. Names are not unique across the tree, IDs are.
type GroupKey struct {
	Level  int       `json:"level"`
	Parent uuid.UUID `json:"parent_id"`
}

func (k GroupKey) String() string { return fmt.Sprintf("%d/%s", k.Level, k.Parent) }

// Settings controls the numeric engine for one decision.
type Settings struct {
	Priority             scoring.Options
	ConsistencyThreshold float64
	// StrictScale rejects judgments that are not on the 1-9 scale.
	StrictScale bool
}

// DefaultSettings returns the engine defaults.
func DefaultSettings() Settings {
	return Settings{
		Priority:             scoring.DefaultOptions(),
		ConsistencyThreshold: scoring.DefaultConsistencyThreshold,
	}
}

// Validate rejects settings the engine cannot run with.
func (s Settings) Validate() error {
	if err := s.Priority.Validate(); err != nil {
		return err
	}
	if !(s.ConsistencyThreshold > 0) || s.ConsistencyThreshold > 1 {
		return apperr.Validation("consistency threshold must be in (0, 1], got %v", s.ConsistencyThreshold)
	}
	return nil
}

// Decision couples a hierarchy with the judgments made over it.
type Decision struct {
	ID    uuid.UUID
	Title string

	tree     *hierarchy.Tree
	matrices map[GroupKey]*judgment.Matrix
	settings Settings
}

// New starts a decision whose hierarchy holds only the goal.
func New(title, goal string, settings Settings) *Decision {
	return &Decision{
		ID:       uuid.New(),
		Title:    title,
		tree:     hierarchy.New(goal),
		matrices: make(map[GroupKey]*judgment.Matrix),
		settings: settings,
	}
}

// Settings returns the engine settings in use.
func (d *Decision) Settings() Settings { return d.settings }

// Root returns the goal node.
func (d *Decision) Root() *hierarchy.Node { return d.tree.Root() }

// Frozen reports whether the alternatives have been added.
func (d *Decision) Frozen() bool { return d.tree.Frozen() }

// Find looks a node up by ID.
func (d *Decision) Find(id uuid.UUID) (*hierarchy.Node, error) { return d.tree.Find(id) }

// Alternatives returns the distinct alternative names.
func (d *Decision) Alternatives() []string { return d.tree.Alternatives() }

// AddChildren adds criteria or subcriteria under parentID. The parent's
// group changes shape, so its matrix is dropped.
func (d *Decision) AddChildren(parentID uuid.UUID, names []string) ([]*hierarchy.Node, error) {
	created, err := d.tree.AddChildren(parentID, names)
	if err != nil {
		return nil, err
	}
	parent := created[0].Parent
	delete(d.matrices, GroupKey{Level: parent.Level + 1, Parent: parent.ID})
	return created, nil
}

// RemoveNode removes a node and its subtree and returns the removed IDs.
func (d *Decision) RemoveNode(id uuid.UUID) ([]uuid.UUID, error) {
	n, err := d.tree.Find(id)
	if err != nil {
		return nil, err
	}
	// Captured before the tree clears the back-reference.
	parent := n.Parent
	level := n.Level

	removed, err := d.tree.RemoveNode(id)
	if err != nil {
		return nil, err
	}
	delete(d.matrices, GroupKey{Level: level, Parent: parent.ID})

	gone := make(map[uuid.UUID]bool, len(removed))
	for _, r := range removed {
		gone[r] = true
	}
	for k := range d.matrices {
		if gone[k.Parent] {
			delete(d.matrices, k)
		}
	}
	return removed, nil
}

// FinalizeLeaves adds the alternatives under every leaf and freezes the
// hierarchy. Only former leaves gain groups, and leaves own no matrix.
func (d *Decision) FinalizeLeaves(names []string) (int, error) {
	return d.tree.FinalizeLeaves(names)
}

// GroupInfo describes one sibling group.
type GroupInfo struct {
	Key      GroupKey    `json:"key"`
	Parent   string      `json:"parent"`
	Children []string    `json:"children"`
	ChildIDs []uuid.UUID `json:"child_ids"`
	// Judged is true once a matrix exists or the group has a single member.
	Judged bool `json:"judged"`
}

// Groups lists every sibling group top-down.
func (d *Decision) Groups() []GroupInfo {
	groups := d.tree.Groups()
	out := make([]GroupInfo, 0, len(groups))
	for _, g := range groups {
		key := GroupKey{Level: g.Level, Parent: g.Parent.ID}
		ids := make([]uuid.UUID, len(g.Children))
		for i, c := range g.Children {
			ids[i] = c.ID
		}
		_, judged := d.matrices[key]
		out = append(out, GroupInfo{
			Key:      key,
			Parent:   g.Parent.Name,
			Children: g.Parent.ChildNames(),
			ChildIDs: ids,
			Judged:   judged || len(g.Children) == 1,
		})
	}
	return out
}

// group resolves a key to the parent node owning it.
func (d *Decision) group(key GroupKey) (*hierarchy.Node, error) {
	parent, err := d.tree.Find(key.Parent)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrGroupNotFound, key)
	}
	if parent.IsLeaf() {
		return nil, fmt.Errorf("%w: %q has no children", ErrGroupNotFound, parent.Name)
	}
	if parent.Level+1 != key.Level {
		return nil, fmt.Errorf("%w: children of %q are at level %d, not %d",
			ErrLevelMismatch, parent.Name, parent.Level+1, key.Level)
	}
	return parent, nil
}

func (d *Decision) checkScale(value float64) error {
	if !d.settings.StrictScale {
		return nil
	}
	return judgment.CheckScale(value)
}

// SetJudgment records one pairwise comparison. A group without a matrix
// starts from equal judgments.
func (d *Decision) SetJudgment(key GroupKey, row, col int, value float64) error {
	parent, err := d.group(key)
	if err != nil {
		return err
	}
	if err := d.checkScale(value); err != nil {
		return err
	}
	m, ok := d.matrices[key]
	if !ok {
		if m, err = judgment.New(len(parent.Children)); err != nil {
			return err
		}
	}
	if err := m.Set(row, col, value); err != nil {
		return err
	}
	d.matrices[key] = m
	return nil
}

// SubmitJudgments replaces the group's matrix. Cells not listed are equal
// judgments. Nothing changes unless every judgment is valid.
func (d *Decision) SubmitJudgments(key GroupKey, judgments []judgment.Judgment) error {
	parent, err := d.group(key)
	if err != nil {
		return err
	}
	for _, j := range judgments {
		if err := d.checkScale(j.Value); err != nil {
			return fmt.Errorf("cell (%d,%d): %w", j.Row, j.Col, err)
		}
	}
	m, err := judgment.FromJudgments(len(parent.Children), judgments)
	if err != nil {
		return err
	}
	d.matrices[key] = m
	return nil
}

// Matrix returns a copy of the group's matrix. A single-member group is
// judged implicitly; any other group without a matrix is incomplete.
func (d *Decision) Matrix(key GroupKey) (*judgment.Matrix, error) {
	parent, err := d.group(key)
	if err != nil {
		return nil, err
	}
	if m, ok := d.matrices[key]; ok {
		return m.Clone(), nil
	}
	if len(parent.Children) == 1 {
		return judgment.New(1)
	}
	return nil, &scoring.IncompleteDataError{
		Groups: []scoring.GroupRef{{Level: key.Level, ParentID: parent.ID, Parent: parent.Name}},
	}
}

// PriorityVectorFor computes the group's local priorities. When the power
// iteration does not converge and the fallback is off, the degraded vector is
// returned together with a *scoring.NumericError.
func (d *Decision) PriorityVectorFor(key GroupKey) (scoring.PriorityVector, error) {
	m, err := d.Matrix(key)
	if err != nil {
		return scoring.PriorityVector{}, err
	}
	return scoring.Priorities(m, d.settings.Priority)
}

// ConsistencyFor checks the group's judgments. Groups larger than the random
// index table yield a *scoring.UnsupportedSizeError.
func (d *Decision) ConsistencyFor(key GroupKey) (scoring.Consistency, error) {
	m, err := d.Matrix(key)
	if err != nil {
		return scoring.Consistency{}, err
	}
	pv, err := scoring.Priorities(m, d.settings.Priority)
	if err != nil && !degradable(err) {
		return scoring.Consistency{}, err
	}
	return scoring.CheckConsistency(m, pv.Weights, d.settings.ConsistencyThreshold)
}
