package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS ahp_decisions (
		id UUID PRIMARY KEY,
		title TEXT NOT NULL DEFAULT '',
		version INTEGER NOT NULL DEFAULT 1,
		frozen BOOLEAN NOT NULL DEFAULT FALSE,
		snapshot JSONB NOT NULL,
		created_by TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS ahp_rankings (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		decision_id UUID NOT NULL REFERENCES ahp_decisions(id) ON DELETE CASCADE,
		decision_version INTEGER NOT NULL,
		ranking JSONB NOT NULL,
		frontier JSONB NOT NULL,
		degraded BOOLEAN NOT NULL DEFAULT FALSE,
		requested_by TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS ahp_rankings_decision_idx ON ahp_rankings (decision_id, created_at DESC)`,
}

// EnsureSchema creates the tables if they do not exist.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	for _, q := range schema {
		if _, err := s.pool.Exec(ctx, q); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

const decisionColumns = `id, title, version, frozen, snapshot, created_by, created_at, updated_at`

func (s *PostgresStore) CreateDecision(ctx context.Context, d *DecisionRecord) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	snapshotJSON, err := json.Marshal(d.Snapshot)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	return s.pool.QueryRow(ctx, `
		INSERT INTO ahp_decisions (id, title, version, frozen, snapshot, created_by)
		VALUES ($1, $2, 1, $3, $4, $5)
		RETURNING version, created_at, updated_at`,
		d.ID, d.Title, d.Frozen, snapshotJSON, d.CreatedBy,
	).Scan(&d.Version, &d.CreatedAt, &d.UpdatedAt)
}

func (s *PostgresStore) GetDecision(ctx context.Context, id uuid.UUID) (*DecisionRecord, error) {
	d, err := scanDecision(s.pool.QueryRow(ctx, `
		SELECT `+decisionColumns+`
		FROM ahp_decisions WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return d, err
}

func (s *PostgresStore) ListDecisions(ctx context.Context, filter DecisionFilter) ([]*DecisionRecord, error) {
	query := `SELECT ` + decisionColumns + ` FROM ahp_decisions WHERE 1=1`
	args := []interface{}{}
	n := 0

	if filter.CreatedBy != "" {
		n++
		query += fmt.Sprintf(" AND created_by = $%d", n)
		args = append(args, filter.CreatedBy)
	}
	if filter.Frozen != nil {
		n++
		query += fmt.Sprintf(" AND frozen = $%d", n)
		args = append(args, *filter.Frozen)
	}

	query += " ORDER BY updated_at DESC"

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	n++
	query += fmt.Sprintf(" LIMIT $%d", n)
	args = append(args, limit)

	if filter.Offset > 0 {
		n++
		query += fmt.Sprintf(" OFFSET $%d", n)
		args = append(args, filter.Offset)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*DecisionRecord
	for rows.Next() {
		d, err := scanDecision(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (s *PostgresStore) UpdateDecision(ctx context.Context, d *DecisionRecord) error {
	snapshotJSON, err := json.Marshal(d.Snapshot)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var current int
	err = tx.QueryRow(ctx, `SELECT version FROM ahp_decisions WHERE id = $1 FOR UPDATE`, d.ID).Scan(&current)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("lock decision: %w", err)
	}
	if current != d.Version {
		return fmt.Errorf("%w: have version %d, stored %d", ErrConflict, d.Version, current)
	}

	err = tx.QueryRow(ctx, `
		UPDATE ahp_decisions SET
			title = $2, frozen = $3, snapshot = $4,
			version = version + 1, updated_at = now()
		WHERE id = $1
		RETURNING version, updated_at`,
		d.ID, d.Title, d.Frozen, snapshotJSON,
	).Scan(&d.Version, &d.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update decision: %w", err)
	}
	return tx.Commit(ctx)
}

func (s *PostgresStore) DeleteDecision(ctx context.Context, id uuid.UUID) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM ahp_decisions WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) CreateRanking(ctx context.Context, r *RankingRecord) error {
	rankingJSON, err := json.Marshal(r.Ranking)
	if err != nil {
		return fmt.Errorf("marshal ranking: %w", err)
	}
	frontierJSON, err := json.Marshal(r.Frontier)
	if err != nil {
		return fmt.Errorf("marshal frontier: %w", err)
	}
	return s.pool.QueryRow(ctx, `
		INSERT INTO ahp_rankings (decision_id, decision_version, ranking, frontier, degraded, requested_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`,
		r.DecisionID, r.DecisionVersion, rankingJSON, frontierJSON, r.Degraded, r.RequestedBy,
	).Scan(&r.ID, &r.CreatedAt)
}

func (s *PostgresStore) ListRankings(ctx context.Context, decisionID uuid.UUID, limit int) ([]*RankingRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.pool.Query(ctx, `
		SELECT id, decision_id, decision_version, ranking, frontier, degraded, requested_by, created_at
		FROM ahp_rankings WHERE decision_id = $1
		ORDER BY created_at DESC
		LIMIT $2`, decisionID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*RankingRecord
	for rows.Next() {
		r := &RankingRecord{}
		var rankingJSON, frontierJSON []byte
		var requestedBy sql.NullString
		if err := rows.Scan(&r.ID, &r.DecisionID, &r.DecisionVersion, &rankingJSON, &frontierJSON,
			&r.Degraded, &requestedBy, &r.CreatedAt); err != nil {
			return nil, err
		}
		if requestedBy.Valid {
			r.RequestedBy = requestedBy.String
		}
		if err := json.Unmarshal(rankingJSON, &r.Ranking); err != nil {
			return nil, fmt.Errorf("decode ranking %s: %w", r.ID, err)
		}
		if err := json.Unmarshal(frontierJSON, &r.Frontier); err != nil {
			return nil, fmt.Errorf("decode frontier %s: %w", r.ID, err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func scanDecision(row pgx.Row) (*DecisionRecord, error) {
	d := &DecisionRecord{}
	var snapshotJSON []byte
	var createdBy sql.NullString
	if err := row.Scan(&d.ID, &d.Title, &d.Version, &d.Frozen, &snapshotJSON, &createdBy,
		&d.CreatedAt, &d.UpdatedAt); err != nil {
		return nil, err
	}
	if createdBy.Valid {
		d.CreatedBy = createdBy.String
	}
	if err := json.Unmarshal(snapshotJSON, &d.Snapshot); err != nil {
		return nil, fmt.Errorf("decode snapshot %s: %w", d.ID, err)
	}
	return d, nil
}
