package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/samirrijal/motospirit/internal/core/domain"
)

// RouteHistoryRepo implements ports.RouteHistoryRepository.
type RouteHistoryRepo struct {
	db *DB
}

func NewRouteHistoryRepo(db *DB) *RouteHistoryRepo { return &RouteHistoryRepo{db: db} }

// Add inserts the summary and trims older entries in one batch.
func (r *RouteHistoryRepo) Add(ctx context.Context, s *domain.RouteSummary, keep int) error {
	doc, err := json.Marshal(s)
	if err != nil {
		return err
	}

	batch := &pgx.Batch{}
	batch.Queue(`
		INSERT INTO route_history (id, origin, summary, created_at) VALUES ($1, $2, $3, $4)
	`, s.ID, s.Origin, doc, s.CreatedAt)
	batch.Queue(`
		DELETE FROM route_history
		WHERE id NOT IN (SELECT id FROM route_history ORDER BY created_at DESC LIMIT $1)
	`, keep)

	br := r.db.Pool.SendBatch(ctx, batch)
	defer br.Close()
	for i := 0; i < batch.Len(); i++ {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("batch exec: %w", err)
		}
	}
	return nil
}

func (r *RouteHistoryRepo) List(ctx context.Context, limit int) ([]domain.RouteSummary, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT summary FROM route_history ORDER BY created_at DESC LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.RouteSummary, 0, limit)
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return nil, err
		}
		var s domain.RouteSummary
		if err := json.Unmarshal(doc, &s); err != nil {
			// Unreadable entries are skipped, not fatal.
			continue
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
