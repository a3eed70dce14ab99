package hierarchy

import (
	"fmt"

	"github.com/Lehoufi/AHP/internal/apperr"
)

// Sentinel errors for structural edits. All of them are validation errors.
var (
	// ErrFrozen is returned when adding nodes after FinalizeLeaves.
	ErrFrozen = fmt.Errorf("%w: hierarchy is frozen", apperr.ErrValidation)

	// ErrNodeNotFound is returned when an ID does not resolve to a node of the tree.
	ErrNodeNotFound = fmt.Errorf("%w: node", apperr.ErrNotFound)

	// ErrEmptyName is returned for a blank node name.
	ErrEmptyName = fmt.Errorf("%w: empty name", apperr.ErrValidation)

	// ErrDuplicateName is returned when a name repeats within one sibling group.
	ErrDuplicateName = fmt.Errorf("%w: duplicate name in sibling group", apperr.ErrValidation)

	// ErrNoNames is returned when an edit supplies no names at all.
	ErrNoNames = fmt.Errorf("%w: no names given", apperr.ErrValidation)

	// ErrAlternativeParent is returned when adding children below an alternative.
	ErrAlternativeParent = fmt.Errorf("%w: alternatives cannot have children", apperr.ErrValidation)

	// ErrRootRemoval is returned when removing the goal.
	ErrRootRemoval = fmt.Errorf("%w: the goal cannot be removed", apperr.ErrValidation)

	// ErrLastChild is returned when removing the only child of a node in a
	// frozen tree, which would leave a criterion without alternatives.
	ErrLastChild = fmt.Errorf("%w: cannot remove the only child of a frozen node", apperr.ErrValidation)
)
