package postgres

import (
	"context"

	"github.com/samirrijal/motospirit/internal/core/domain"
)

// AnalysisRepo implements ports.AnalysisRepository.
type AnalysisRepo struct {
	db *DB
}

func NewAnalysisRepo(db *DB) *AnalysisRepo { return &AnalysisRepo{db: db} }

func (r *AnalysisRepo) Insert(ctx context.Context, a *domain.MaintenanceAnalysis) error {
	_, err := r.db.Pool.Exec(ctx, `
		INSERT INTO maintenance_analyses (id, bike_id, text, created_at) VALUES ($1, $2, $3, $4)
	`, a.ID, a.BikeID, a.Text, a.CreatedAt)
	return err
}

func (r *AnalysisRepo) LatestByBike(ctx context.Context, bikeID string) (*domain.MaintenanceAnalysis, error) {
	var a domain.MaintenanceAnalysis
	err := r.db.Pool.QueryRow(ctx, `
		SELECT id, bike_id, text, created_at FROM maintenance_analyses
		WHERE bike_id = $1 ORDER BY created_at DESC LIMIT 1
	`, bikeID).Scan(&a.ID, &a.BikeID, &a.Text, &a.CreatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	return &a, nil
}
