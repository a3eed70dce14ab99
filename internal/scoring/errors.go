package scoring

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/Lehoufi/AHP/internal/apperr"
)

// NumericError reports a priority computation that failed. When the power
// iteration ran out of iterations, Vector holds the last (degraded) estimate.
type NumericError struct {
	Reason     string
	Vector     []float64
	Iterations int
}

func (e *NumericError) Error() string {
	return fmt.Sprintf("numeric error: %s", e.Reason)
}

// Is matches apperr.ErrNumeric.
func (e *NumericError) Is(target error) bool { return target == apperr.ErrNumeric }

// NotConverged reports whether the error carries a degraded estimate.
func (e *NumericError) NotConverged() bool { return e.Vector != nil }

// UnsupportedSizeError reports a group too large for the random index table.
type UnsupportedSizeError struct {
	N int
}

func (e *UnsupportedSizeError) Error() string {
	return fmt.Sprintf("unsupported size: no random index for n=%d (max %d)", e.N, MaxConsistencySize)
}

// Is matches apperr.ErrUnsupportedSize.
func (e *UnsupportedSizeError) Is(target error) bool { return target == apperr.ErrUnsupportedSize }

// GroupRef identifies a sibling group in error reports.
type GroupRef struct {
	Level    int       `json:"level"`
	ParentID uuid.UUID `json:"parent_id"`
	Parent   string    `json:"parent"`
}

// IncompleteDataError lists the sibling groups that still lack judgments.
type IncompleteDataError struct {
	Groups []GroupRef
	Reason string
}

func (e *IncompleteDataError) Error() string {
	if len(e.Groups) == 0 {
		return fmt.Sprintf("incomplete data: %s", e.Reason)
	}
	parts := make([]string, len(e.Groups))
	for i, g := range e.Groups {
		parts[i] = fmt.Sprintf("%q (level %d)", g.Parent, g.Level)
	}
	return fmt.Sprintf("incomplete data: %d group(s) not judged: %s", len(e.Groups), strings.Join(parts, ", "))
}

// Is matches apperr.ErrIncompleteData.
func (e *IncompleteDataError) Is(target error) bool { return target == apperr.ErrIncompleteData }
