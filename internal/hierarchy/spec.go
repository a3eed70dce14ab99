package hierarchy

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/Lehoufi/AHP/internal/apperr"
)

// NodeSpec is the serialisable form of a subtree. Levels and roles are not
// stored; they follow from the position in the tree and the frozen flag.
type NodeSpec struct {
	ID       uuid.UUID  `json:"id"`
	Name     string     `json:"name"`
	Children []NodeSpec `json:"children,omitempty"`
}

// Spec returns the serialisable form of the whole tree.
func (t *Tree) Spec() NodeSpec { return specOf(t.root) }

func specOf(n *Node) NodeSpec {
	s := NodeSpec{ID: n.ID, Name: n.Name}
	for _, c := range n.Children {
		s.Children = append(s.Children, specOf(c))
	}
	return s
}

// FromSpec rebuilds a tree. In a frozen tree every leaf below the goal is an
// alternative; otherwise there are no alternatives yet.
func FromSpec(spec NodeSpec, frozen bool) (*Tree, error) {
	t := &Tree{index: make(map[uuid.UUID]*Node), frozen: frozen}
	root, err := t.build(spec, nil)
	if err != nil {
		return nil, err
	}
	t.root = root
	if frozen && root.IsLeaf() {
		return nil, apperr.Validation("frozen hierarchy has no alternatives")
	}
	return t, nil
}

func (t *Tree) build(spec NodeSpec, parent *Node) (*Node, error) {
	if spec.ID == uuid.Nil {
		return nil, apperr.Validation("node %q has no id", spec.Name)
	}
	if _, dup := t.index[spec.ID]; dup {
		return nil, apperr.Validation("node id %s appears twice", spec.ID)
	}
	n := &Node{ID: spec.ID, Name: spec.Name, Parent: parent}
	if parent != nil {
		n.Level = parent.Level + 1
	}
	n.Role = t.roleFor(n, len(spec.Children) == 0)
	t.index[n.ID] = n

	names := make([]string, len(spec.Children))
	for i, c := range spec.Children {
		names[i] = c.Name
	}
	if len(names) > 0 {
		if _, err := cleanNames(names, nil); err != nil {
			return nil, fmt.Errorf("children of %q: %w", spec.Name, err)
		}
	}
	for _, cs := range spec.Children {
		child, err := t.build(cs, n)
		if err != nil {
			return nil, err
		}
		n.Children = append(n.Children, child)
	}
	return n, nil
}

func (t *Tree) roleFor(n *Node, leaf bool) Role {
	switch {
	case n.Level == 0:
		return RoleGoal
	case t.frozen && leaf:
		return RoleAlternative
	case n.Level == 1:
		return RoleCriterion
	default:
		return RoleSubcriterion
	}
}
