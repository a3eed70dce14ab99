package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore keeps decisions in process. It is used when no database is
// configured and mirrors the version semantics of PostgresStore.
type MemoryStore struct {
	mu        sync.RWMutex
	decisions map[uuid.UUID]*DecisionRecord
	rankings  map[uuid.UUID][]*RankingRecord
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		decisions: make(map[uuid.UUID]*DecisionRecord),
		rankings:  make(map[uuid.UUID][]*RankingRecord),
	}
}

func (s *MemoryStore) Close() error { return nil }

// clone deep-copies a record through JSON so callers never share snapshot
// slices with the store.
func clone[T any](v *T) (*T, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	out := new(T)
	if err := json.Unmarshal(raw, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *MemoryStore) CreateDecision(_ context.Context, d *DecisionRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	if _, exists := s.decisions[d.ID]; exists {
		return fmt.Errorf("decision %s already exists", d.ID)
	}
	stored, err := clone(d)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	stored.Version = 1
	stored.CreatedAt = now
	stored.UpdatedAt = now
	s.decisions[d.ID] = stored

	d.Version, d.CreatedAt, d.UpdatedAt = 1, now, now
	return nil
}

func (s *MemoryStore) GetDecision(_ context.Context, id uuid.UUID) (*DecisionRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	d, ok := s.decisions[id]
	if !ok {
		return nil, nil
	}
	return clone(d)
}

func (s *MemoryStore) ListDecisions(_ context.Context, filter DecisionFilter) ([]*DecisionRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*DecisionRecord
	for _, d := range s.decisions {
		if filter.CreatedBy != "" && d.CreatedBy != filter.CreatedBy {
			continue
		}
		if filter.Frozen != nil && d.Frozen != *filter.Frozen {
			continue
		}
		c, err := clone(d)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	if filter.Offset >= len(out) {
		return nil, nil
	}
	out = out[filter.Offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *MemoryStore) UpdateDecision(_ context.Context, d *DecisionRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.decisions[d.ID]
	if !ok {
		return ErrNotFound
	}
	if current.Version != d.Version {
		return fmt.Errorf("%w: have version %d, stored %d", ErrConflict, d.Version, current.Version)
	}
	stored, err := clone(d)
	if err != nil {
		return err
	}
	stored.Version++
	stored.CreatedAt = current.CreatedAt
	stored.UpdatedAt = time.Now().UTC()
	s.decisions[d.ID] = stored

	d.Version = stored.Version
	d.CreatedAt = stored.CreatedAt
	d.UpdatedAt = stored.UpdatedAt
	return nil
}

func (s *MemoryStore) DeleteDecision(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.decisions[id]; !ok {
		return ErrNotFound
	}
	delete(s.decisions, id)
	delete(s.rankings, id)
	return nil
}

func (s *MemoryStore) CreateRanking(_ context.Context, r *RankingRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.decisions[r.DecisionID]; !ok {
		return ErrNotFound
	}
	r.ID = uuid.New()
	r.CreatedAt = time.Now().UTC()
	stored, err := clone(r)
	if err != nil {
		return err
	}
	s.rankings[r.DecisionID] = append(s.rankings[r.DecisionID], stored)
	return nil
}

func (s *MemoryStore) ListRankings(_ context.Context, decisionID uuid.UUID, limit int) ([]*RankingRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 20
	}
	history := s.rankings[decisionID]
	var out []*RankingRecord
	// Newest first.
	for i := len(history) - 1; i >= 0 && len(out) < limit; i-- {
		c, err := clone(history[i])
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}
