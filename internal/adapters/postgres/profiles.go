package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/tucancha/court-booking/internal/domain"
)

func (r *Repository) GetProfile(ctx context.Context, id uuid.UUID) (*domain.Profile, error) {
	var p domain.Profile
	err := r.pool.QueryRow(ctx, `
		SELECT id, role, full_name, email, phone FROM profiles WHERE id = $1
	`, id).Scan(&p.ID, &p.Role, &p.FullName, &p.Email, &p.Phone)
	if err == pgx.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// EnsureProfile creates the row on a user's first authenticated contact and
// leaves an existing one untouched.
func (r *Repository) EnsureProfile(ctx context.Context, p domain.Profile) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO profiles (id, role, full_name, email, phone)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO NOTHING
	`, p.ID, p.Role, p.FullName, p.Email, p.Phone)
	return err
}

func (r *Repository) UpdateProfile(ctx context.Context, p domain.Profile) error {
	result, err := r.pool.Exec(ctx, `
		UPDATE profiles SET full_name = $2, email = $3, phone = $4 WHERE id = $1
	`, p.ID, p.FullName, p.Email, p.Phone)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
