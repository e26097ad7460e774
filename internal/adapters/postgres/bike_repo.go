package postgres

import (
	"context"

	"github.com/samirrijal/motospirit/internal/core/domain"
)

// BikeRepo implements ports.BikeRepository.
type BikeRepo struct {
	db *DB
}

func NewBikeRepo(db *DB) *BikeRepo { return &BikeRepo{db: db} }

const bikeColumns = `id, brand, model, year, COALESCE(vin, ''), mileage, COALESCE(image, ''), created_at`

func (r *BikeRepo) Create(ctx context.Context, b *domain.Motorcycle) error {
	_, err := r.db.Pool.Exec(ctx, `
		INSERT INTO bikes (id, brand, model, year, vin, mileage, image, created_at)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6, NULLIF($7, ''), $8)
	`, b.ID, b.Brand, b.Model, b.Year, b.VIN, b.Mileage, b.Image, b.CreatedAt)
	return err
}

func (r *BikeRepo) Update(ctx context.Context, b *domain.Motorcycle) error {
	tag, err := r.db.Pool.Exec(ctx, `
		UPDATE bikes
		SET brand = $2, model = $3, year = $4, vin = NULLIF($5, ''), mileage = $6, image = NULLIF($7, '')
		WHERE id = $1
	`, b.ID, b.Brand, b.Model, b.Year, b.VIN, b.Mileage, b.Image)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *BikeRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM bikes WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *BikeRepo) GetByID(ctx context.Context, id string) (*domain.Motorcycle, error) {
	var b domain.Motorcycle
	err := r.db.Pool.QueryRow(ctx, `SELECT `+bikeColumns+` FROM bikes WHERE id = $1`, id).
		Scan(&b.ID, &b.Brand, &b.Model, &b.Year, &b.VIN, &b.Mileage, &b.Image, &b.CreatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	return &b, nil
}

func (r *BikeRepo) List(ctx context.Context) ([]domain.Motorcycle, error) {
	rows, err := r.db.Pool.Query(ctx, `SELECT `+bikeColumns+` FROM bikes ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bikes []domain.Motorcycle
	for rows.Next() {
		var b domain.Motorcycle
		if err := rows.Scan(&b.ID, &b.Brand, &b.Model, &b.Year, &b.VIN, &b.Mileage, &b.Image, &b.CreatedAt); err != nil {
			return nil, err
		}
		bikes = append(bikes, b)
	}
	return bikes, rows.Err()
}

// RaiseMileage only ever moves the odometer forward.
func (r *BikeRepo) RaiseMileage(ctx context.Context, id string, mileage int) (bool, error) {
	tag, err := r.db.Pool.Exec(ctx, `
		UPDATE bikes SET mileage = $2 WHERE id = $1 AND mileage < $2
	`, id, mileage)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
