// Package hierarchy models the AHP decision tree: a goal, its criteria and
// subcriteria, and the alternatives replicated under every leaf criterion.
//
// # Lifecycle
//
// A tree is built with AddChildren and RemoveNode, then FinalizeLeaves appends
// the alternatives under every leaf and freezes it. A frozen tree rejects
// further additions; removals stay possible as long as no criterion is left
// without children.
//
// # Thread Safety
//
// Tree is not safe for concurrent use. Callers serialise edits.
package hierarchy

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// DefaultGoalName names the root when none is given.
const DefaultGoalName = "Goal"

// Role is the position of a node in the decision hierarchy.
type Role string

const (
	RoleGoal         Role = "goal"
	RoleCriterion    Role = "criterion"
	RoleSubcriterion Role = "subcriterion"
	RoleAlternative  Role = "alternative"
)

// Node is one element of the hierarchy. Children order is significant: it is
// the row and column order of the sibling group's comparison matrix.
type Node struct {
	ID       uuid.UUID
	Name     string
	Level    int
	Role     Role
	Children []*Node

	// Parent is a non-owning back-reference; nil for the goal.
	Parent *Node
}

// IsLeaf reports whether the node has no children.
func (n *Node) IsLeaf() bool { return len(n.Children) == 0 }

// ChildNames returns the names of the node's children in order.
func (n *Node) ChildNames() []string {
	names := make([]string, len(n.Children))
	for i, c := range n.Children {
		names[i] = c.Name
	}
	return names
}

// Group is the set of children of one parent, compared against each other.
// Level is the level of the children.
type Group struct {
	Level    int
	Parent   *Node
	Children []*Node
}

// Tree owns the hierarchy rooted at the goal.
type Tree struct {
	root   *Node
	index  map[uuid.UUID]*Node
	frozen bool
}

// New creates a tree holding only the goal.
func New(goal string) *Tree {
	goal = strings.TrimSpace(goal)
	if goal == "" {
		goal = DefaultGoalName
	}
	root := &Node{ID: uuid.New(), Name: goal, Level: 0, Role: RoleGoal}
	return &Tree{
		root:  root,
		index: map[uuid.UUID]*Node{root.ID: root},
	}
}

// Root returns the goal node.
func (t *Tree) Root() *Node { return t.root }

// Frozen reports whether FinalizeLeaves has run.
func (t *Tree) Frozen() bool { return t.frozen }

// Len returns the number of nodes in the tree.
func (t *Tree) Len() int { return len(t.index) }

// Find looks a node up by ID.
func (t *Tree) Find(id uuid.UUID) (*Node, error) {
	n, ok := t.index[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNodeNotFound, id)
	}
	return n, nil
}

// AddChildren appends one child per name under parentID and returns the new
// nodes. Names are trimmed and must be unique within the resulting group.
func (t *Tree) AddChildren(parentID uuid.UUID, names []string) ([]*Node, error) {
	if t.frozen {
		return nil, ErrFrozen
	}
	parent, err := t.Find(parentID)
	if err != nil {
		return nil, err
	}
	if parent.Role == RoleAlternative {
		return nil, ErrAlternativeParent
	}
	clean, err := cleanNames(names, parent.ChildNames())
	if err != nil {
		return nil, err
	}

	role := RoleSubcriterion
	if parent.Level == 0 {
		role = RoleCriterion
	}
	created := make([]*Node, 0, len(clean))
	for _, name := range clean {
		created = append(created, t.attach(parent, name, role))
	}
	return created, nil
}

// RemoveNode detaches a node and its subtree, returning the IDs of every
// removed node in pre-order, starting with id itself.
func (t *Tree) RemoveNode(id uuid.UUID) ([]uuid.UUID, error) {
	n, err := t.Find(id)
	if err != nil {
		return nil, err
	}
	if n.Parent == nil {
		return nil, ErrRootRemoval
	}
	if t.frozen && len(n.Parent.Children) == 1 {
		return nil, ErrLastChild
	}

	siblings := n.Parent.Children
	for i, c := range siblings {
		if c == n {
			n.Parent.Children = append(siblings[:i:i], siblings[i+1:]...)
			break
		}
	}

	var removed []uuid.UUID
	walk(n, func(x *Node) {
		removed = append(removed, x.ID)
		delete(t.index, x.ID)
	})
	n.Parent = nil
	return removed, nil
}

// FinalizeLeaves appends one alternative per name under every current leaf and
// freezes the tree. It returns the number of alternative nodes created.
func (t *Tree) FinalizeLeaves(names []string) (int, error) {
	if t.frozen {
		return 0, ErrFrozen
	}
	clean, err := cleanNames(names, nil)
	if err != nil {
		return 0, err
	}

	var leaves []*Node
	walk(t.root, func(n *Node) {
		if n.IsLeaf() {
			leaves = append(leaves, n)
		}
	})
	created := 0
	for _, leaf := range leaves {
		for _, name := range clean {
			t.attach(leaf, name, RoleAlternative)
			created++
		}
	}
	t.frozen = true
	return created, nil
}

// Groups enumerates every sibling group top-down: level by level, and within
// a level in tree order. The order is stable for a given tree.
func (t *Tree) Groups() []Group {
	var groups []Group
	queue := []*Node{t.root}
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		if n.IsLeaf() {
			continue
		}
		groups = append(groups, Group{Level: n.Level + 1, Parent: n, Children: n.Children})
		queue = append(queue, n.Children...)
	}
	return groups
}

// Alternatives returns the distinct alternative names in first-seen order.
func (t *Tree) Alternatives() []string {
	seen := make(map[string]bool)
	var names []string
	t.Walk(func(n *Node) {
		if n.Role == RoleAlternative && !seen[n.Name] {
			seen[n.Name] = true
			names = append(names, n.Name)
		}
	})
	return names
}

// Walk visits every node in pre-order.
func (t *Tree) Walk(fn func(*Node)) { walk(t.root, fn) }

func (t *Tree) attach(parent *Node, name string, role Role) *Node {
	n := &Node{
		ID:     uuid.New(),
		Name:   name,
		Level:  parent.Level + 1,
		Role:   role,
		Parent: parent,
	}
	parent.Children = append(parent.Children, n)
	t.index[n.ID] = n
	return n
}

func walk(n *Node, fn func(*Node)) {
	fn(n)
	for _, c := range n.Children {
		walk(c, fn)
	}
}

// cleanNames trims names and checks them against each other and against the
// names already present in the group.
func cleanNames(names, existing []string) ([]string, error) {
	if len(names) == 0 {
		return nil, ErrNoNames
	}
	seen := make(map[string]bool, len(names)+len(existing))
	for _, e := range existing {
		seen[e] = true
	}
	clean := make([]string, 0, len(names))
	for _, raw := range names {
		name := strings.TrimSpace(raw)
		if name == "" {
			return nil, ErrEmptyName
		}
		if seen[name] {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateName, name)
		}
		seen[name] = true
		clean = append(clean, name)
	}
	return clean, nil
}
