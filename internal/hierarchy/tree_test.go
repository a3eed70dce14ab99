package hierarchy

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Lehoufi/AHP/internal/apperr"
)

// carTree builds Goal -> [Cost, Comfort], Comfort -> [Space, Noise].
func carTree(t *testing.T) (*Tree, map[string]*Node) {
	t.Helper()
	tree := New("Pick a car")
	crit, err := tree.AddChildren(tree.Root().ID, []string{"Cost", "Comfort"})
	require.NoError(t, err)
	sub, err := tree.AddChildren(crit[1].ID, []string{"Space", "Noise"})
	require.NoError(t, err)
	return tree, map[string]*Node{
		"Cost": crit[0], "Comfort": crit[1], "Space": sub[0], "Noise": sub[1],
	}
}

func TestNewDefaultsGoalName(t *testing.T) {
	tree := New("  ")
	assert.Equal(t, DefaultGoalName, tree.Root().Name)
	assert.Equal(t, 0, tree.Root().Level)
	assert.Equal(t, RoleGoal, tree.Root().Role)
	assert.Nil(t, tree.Root().Parent)
	assert.Equal(t, 1, tree.Len())
}

func TestAddChildren(t *testing.T) {
	tree, nodes := carTree(t)

	assert.Equal(t, []string{"Cost", "Comfort"}, tree.Root().ChildNames())
	assert.Equal(t, 1, nodes["Cost"].Level)
	assert.Equal(t, RoleCriterion, nodes["Cost"].Role)
	assert.Equal(t, 2, nodes["Space"].Level)
	assert.Equal(t, RoleSubcriterion, nodes["Space"].Role)
	assert.Same(t, nodes["Comfort"], nodes["Space"].Parent)
	assert.Equal(t, 5, tree.Len())
}

func TestAddChildrenValidation(t *testing.T) {
	tests := []struct {
		name  string
		names []string
		want  error
	}{
		{"no names", nil, ErrNoNames},
		{"empty name", []string{"Safety", " "}, ErrEmptyName},
		{"duplicate in request", []string{"Safety", "Safety"}, ErrDuplicateName},
		{"duplicate of existing sibling", []string{"Cost"}, ErrDuplicateName},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree, _ := carTree(t)
			before := tree.Len()
			_, err := tree.AddChildren(tree.Root().ID, tt.names)
			assert.ErrorIs(t, err, tt.want)
			assert.ErrorIs(t, err, apperr.ErrValidation)
			assert.Equal(t, before, tree.Len(), "failed edit must not mutate")
		})
	}

	t.Run("unknown parent", func(t *testing.T) {
		tree, _ := carTree(t)
		_, err := tree.AddChildren(uuid.New(), []string{"X"})
		assert.ErrorIs(t, err, ErrNodeNotFound)
		assert.ErrorIs(t, err, apperr.ErrValidation)
	})

	t.Run("same name in another group is fine", func(t *testing.T) {
		tree, nodes := carTree(t)
		_, err := tree.AddChildren(nodes["Cost"].ID, []string{"Space"})
		assert.NoError(t, err)
	})
}

func TestRemoveNode(t *testing.T) {
	tree, nodes := carTree(t)

	removed, err := tree.RemoveNode(nodes["Comfort"].ID)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{nodes["Comfort"].ID, nodes["Space"].ID, nodes["Noise"].ID}, removed)
	assert.Equal(t, []string{"Cost"}, tree.Root().ChildNames())
	assert.Equal(t, 2, tree.Len())

	_, err = tree.Find(nodes["Space"].ID)
	assert.ErrorIs(t, err, ErrNodeNotFound)
}

func TestRemoveNodeErrors(t *testing.T) {
	tree, _ := carTree(t)

	_, err := tree.RemoveNode(tree.Root().ID)
	assert.ErrorIs(t, err, ErrRootRemoval)

	_, err = tree.RemoveNode(uuid.New())
	assert.ErrorIs(t, err, ErrNodeNotFound)
}

func TestFinalizeLeaves(t *testing.T) {
	tree, nodes := carTree(t)

	created, err := tree.FinalizeLeaves([]string{"Sedan", " Van "})
	require.NoError(t, err)
	// Leaves are Cost, Space and Noise.
	assert.Equal(t, 6, created)
	assert.True(t, tree.Frozen())
	assert.Equal(t, []string{"Sedan", "Van"}, nodes["Cost"].ChildNames())
	assert.Equal(t, []string{"Sedan", "Van"}, nodes["Noise"].ChildNames())
	assert.Equal(t, 3, nodes["Space"].Children[0].Level)
	assert.Equal(t, RoleAlternative, nodes["Space"].Children[0].Role)
	assert.Equal(t, []string{"Sedan", "Van"}, tree.Alternatives())
}

func TestFinalizeLeavesOnBareGoal(t *testing.T) {
	tree := New("")
	created, err := tree.FinalizeLeaves([]string{"A", "B"})
	require.NoError(t, err)
	assert.Equal(t, 2, created)
	assert.Equal(t, RoleAlternative, tree.Root().Children[0].Role)
}

func TestFrozenTree(t *testing.T) {
	tree, nodes := carTree(t)
	_, err := tree.FinalizeLeaves([]string{"Sedan", "Van"})
	require.NoError(t, err)

	_, err = tree.FinalizeLeaves([]string{"Truck"})
	assert.ErrorIs(t, err, ErrFrozen)

	_, err = tree.AddChildren(nodes["Cost"].ID, []string{"Fuel"})
	assert.ErrorIs(t, err, ErrFrozen)

	_, err = tree.AddChildren(nodes["Cost"].Children[0].ID, []string{"Trim"})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	// Removing one of two alternatives is allowed, the last one is not.
	_, err = tree.RemoveNode(nodes["Cost"].Children[1].ID)
	require.NoError(t, err)
	_, err = tree.RemoveNode(nodes["Cost"].Children[0].ID)
	assert.ErrorIs(t, err, ErrLastChild)
}

func TestFinalizeLeavesValidation(t *testing.T) {
	tree, _ := carTree(t)
	_, err := tree.FinalizeLeaves([]string{"A", "A"})
	assert.ErrorIs(t, err, ErrDuplicateName)
	assert.False(t, tree.Frozen())

	_, err = tree.FinalizeLeaves(nil)
	assert.ErrorIs(t, err, ErrNoNames)
}

func TestGroupsOrder(t *testing.T) {
	tree, nodes := carTree(t)
	_, err := tree.FinalizeLeaves([]string{"Sedan", "Van"})
	require.NoError(t, err)

	groups := tree.Groups()
	require.Len(t, groups, 5)

	var parents []string
	var levels []int
	for _, g := range groups {
		parents = append(parents, g.Parent.Name)
		levels = append(levels, g.Level)
	}
	assert.Equal(t, []string{"Pick a car", "Cost", "Comfort", "Space", "Noise"}, parents)
	assert.Equal(t, []int{1, 2, 2, 3, 3}, levels)
	assert.Same(t, nodes["Comfort"], groups[2].Parent)
	assert.Len(t, groups[2].Children, 2)

	// Deterministic across calls.
	again := tree.Groups()
	for i := range groups {
		assert.Equal(t, groups[i].Parent.ID, again[i].Parent.ID)
	}
}

func TestSpecRoundTrip(t *testing.T) {
	tree, _ := carTree(t)
	_, err := tree.FinalizeLeaves([]string{"Sedan", "Van"})
	require.NoError(t, err)

	rebuilt, err := FromSpec(tree.Spec(), true)
	require.NoError(t, err)
	assert.Equal(t, tree.Len(), rebuilt.Len())
	assert.Equal(t, tree.Spec(), rebuilt.Spec())
	assert.True(t, rebuilt.Frozen())

	var roles []Role
	rebuilt.Walk(func(n *Node) { roles = append(roles, n.Role) })
	assert.Equal(t, []Role{
		RoleGoal,
		RoleCriterion, RoleAlternative, RoleAlternative,
		RoleCriterion,
		RoleSubcriterion, RoleAlternative, RoleAlternative,
		RoleSubcriterion, RoleAlternative, RoleAlternative,
	}, roles)
}

func TestFromSpecRejectsMalformed(t *testing.T) {
	id := uuid.New()
	_, err := FromSpec(NodeSpec{ID: id, Name: "Goal", Children: []NodeSpec{
		{ID: uuid.New(), Name: "A"}, {ID: uuid.New(), Name: "A"},
	}}, false)
	assert.ErrorIs(t, err, ErrDuplicateName)

	_, err = FromSpec(NodeSpec{ID: id, Name: "Goal", Children: []NodeSpec{{ID: id, Name: "A"}}}, false)
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = FromSpec(NodeSpec{ID: id, Name: "Goal"}, true)
	assert.ErrorIs(t, err, apperr.ErrValidation)
}
