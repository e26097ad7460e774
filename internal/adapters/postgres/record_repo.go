package postgres

import (
	"context"

	"github.com/samirrijal/motospirit/internal/core/domain"
)

// MaintenanceRepo implements ports.MaintenanceRepository.
type MaintenanceRepo struct {
	db *DB
}

func NewMaintenanceRepo(db *DB) *MaintenanceRepo { return &MaintenanceRepo{db: db} }

func (r *MaintenanceRepo) Insert(ctx context.Context, m *domain.MaintenanceRecord) error {
	_, err := r.db.Pool.Exec(ctx, `
		INSERT INTO maintenance_records (id, bike_id, date, type, description, mileage, cost, receipt_image, created_at)
		VALUES ($1, $2, $3::date, $4, $5, $6, $7, NULLIF($8, ''), $9)
	`, m.ID, m.BikeID, m.Date, m.Type, m.Description, m.Mileage, m.Cost, m.ReceiptImage, m.CreatedAt)
	return err
}

func (r *MaintenanceRepo) ListByBike(ctx context.Context, bikeID string) ([]domain.MaintenanceRecord, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT id, bike_id, to_char(date, 'YYYY-MM-DD'), type, description, mileage, cost,
		       COALESCE(receipt_image, ''), created_at
		FROM maintenance_records WHERE bike_id = $1
		ORDER BY date DESC, created_at DESC
	`, bikeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recs []domain.MaintenanceRecord
	for rows.Next() {
		var m domain.MaintenanceRecord
		if err := rows.Scan(&m.ID, &m.BikeID, &m.Date, &m.Type, &m.Description,
			&m.Mileage, &m.Cost, &m.ReceiptImage, &m.CreatedAt); err != nil {
			return nil, err
		}
		recs = append(recs, m)
	}
	return recs, rows.Err()
}

func (r *MaintenanceRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM maintenance_records WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// FuelRepo implements ports.FuelRepository.
type FuelRepo struct {
	db *DB
}

func NewFuelRepo(db *DB) *FuelRepo { return &FuelRepo{db: db} }

func (r *FuelRepo) Insert(ctx context.Context, f *domain.FuelRecord) error {
	_, err := r.db.Pool.Exec(ctx, `
		INSERT INTO fuel_records (id, bike_id, date, mileage, liters, cost, receipt_image, created_at)
		VALUES ($1, $2, $3::date, $4, $5, $6, NULLIF($7, ''), $8)
	`, f.ID, f.BikeID, f.Date, f.Mileage, f.Liters, f.Cost, f.ReceiptImage, f.CreatedAt)
	return err
}

func (r *FuelRepo) ListByBike(ctx context.Context, bikeID string) ([]domain.FuelRecord, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT id, bike_id, to_char(date, 'YYYY-MM-DD'), mileage, liters, cost,
		       COALESCE(receipt_image, ''), created_at
		FROM fuel_records WHERE bike_id = $1
		ORDER BY mileage DESC, created_at DESC
	`, bikeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recs []domain.FuelRecord
	for rows.Next() {
		var f domain.FuelRecord
		if err := rows.Scan(&f.ID, &f.BikeID, &f.Date, &f.Mileage, &f.Liters, &f.Cost,
			&f.ReceiptImage, &f.CreatedAt); err != nil {
			return nil, err
		}
		recs = append(recs, f)
	}
	return recs, rows.Err()
}

func (r *FuelRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM fuel_records WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
