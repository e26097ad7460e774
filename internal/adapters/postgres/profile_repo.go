package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/samirrijal/motospirit/internal/core/domain"
)

// ProfileRepo stores the single rider profile as a JSON document.
type ProfileRepo struct {
	db *DB
}

func NewProfileRepo(db *DB) *ProfileRepo { return &ProfileRepo{db: db} }

func (r *ProfileRepo) Get(ctx context.Context) (*domain.Profile, error) {
	var doc []byte
	err := r.db.Pool.QueryRow(ctx, `SELECT doc FROM profile WHERE id = 1`).Scan(&doc)
	if err != nil {
		return nil, notFound(err)
	}
	var p domain.Profile
	if err := json.Unmarshal(doc, &p); err != nil {
		return nil, fmt.Errorf("decode profile: %w", err)
	}
	return &p, nil
}

func (r *ProfileRepo) Save(ctx context.Context, p *domain.Profile) error {
	doc, err := json.Marshal(p)
	if err != nil {
		return err
	}
	_, err = r.db.Pool.Exec(ctx, `
		INSERT INTO profile (id, doc, updated_at) VALUES (1, $1, $2)
		ON CONFLICT (id) DO UPDATE SET doc = EXCLUDED.doc, updated_at = EXCLUDED.updated_at
	`, doc, p.UpdatedAt)
	return err
}
