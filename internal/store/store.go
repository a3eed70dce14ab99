package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/Lehoufi/AHP/internal/decision"
	"github.com/Lehoufi/AHP/internal/scoring"
)

var (
	// ErrConflict is returned when an update carries a stale version.
	ErrConflict = errors.New("decision was modified concurrently")
	// ErrNotFound is returned when updating or deleting a missing decision.
	ErrNotFound = errors.New("decision not found")
)

// DecisionRecord is a persisted decision. Version increases by one on every
// successful update.
type DecisionRecord struct {
	ID        uuid.UUID         `json:"id"`
	Title     string            `json:"title"`
	Version   int               `json:"version"`
	Frozen    bool              `json:"frozen"`
	Snapshot  decision.Snapshot `json:"snapshot"`
	CreatedBy string            `json:"created_by,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DecisionFilter narrows ListDecisions.
type DecisionFilter struct {
	CreatedBy string
	Frozen    *bool
	Limit     int
	Offset    int
}

// RankingRecord is one computed ranking, kept as history.
type RankingRecord struct {
	ID              uuid.UUID                   `json:"id"`
	DecisionID      uuid.UUID                   `json:"decision_id"`
	DecisionVersion int                         `json:"decision_version"`
	Ranking         []scoring.RankedAlternative `json:"ranking"`
	Frontier        []string                    `json:"frontier"`
	Degraded        bool                        `json:"degraded"`
	RequestedBy     string                      `json:"requested_by,omitempty"`
	CreatedAt       time.Time                   `json:"created_at"`
}

type Store interface {
	CreateDecision(ctx context.Context, d *DecisionRecord) error
	// GetDecision returns nil, nil when the decision does not exist.
	GetDecision(ctx context.Context, id uuid.UUID) (*DecisionRecord, error)
	ListDecisions(ctx context.Context, filter DecisionFilter) ([]*DecisionRecord, error)
	// UpdateDecision saves d if d.Version is still current and bumps it.
	UpdateDecision(ctx context.Context, d *DecisionRecord) error
	DeleteDecision(ctx context.Context, id uuid.UUID) error

	CreateRanking(ctx context.Context, r *RankingRecord) error
	ListRankings(ctx context.Context, decisionID uuid.UUID, limit int) ([]*RankingRecord, error)

	Close() error
}

// NewDecisionRecord wraps a fresh decision for CreateDecision.
func NewDecisionRecord(d *decision.Decision, createdBy string) *DecisionRecord {
	return &DecisionRecord{
		ID:        d.ID,
		Title:     d.Title,
		Frozen:    d.Frozen(),
		Snapshot:  d.Snapshot(),
		CreatedBy: createdBy,
	}
}

// Decision restores the domain aggregate from the record.
func (r *DecisionRecord) Decision(settings decision.Settings) (*decision.Decision, error) {
	return decision.Restore(r.Snapshot, settings)
}

// Apply copies the state of d into the record ahead of UpdateDecision.
func (r *DecisionRecord) Apply(d *decision.Decision) {
	r.Title = d.Title
	r.Frozen = d.Frozen()
	r.Snapshot = d.Snapshot()
}
