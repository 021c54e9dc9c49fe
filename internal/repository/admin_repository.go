package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/clinic-identity/internal/domain"
)

const adminColumns = `a.id, a.global_id, a.user_id, a.email, a.phone, a.password_hash, a.created_at, a.updated_at`

type adminRepository struct {
	pool *pgxpool.Pool
}

// NewAdminRepository returns a Postgres-backed implementation.
func NewAdminRepository(pool *pgxpool.Pool) AdminRepository {
	return &adminRepository{pool: pool}
}

func (r *adminRepository) getOne(ctx context.Context, where string, arg any) (*domain.AdminProfile, error) {
	// Joining users enforces the soft-delete predicate on every read.
	query := `
        SELECT ` + adminColumns + `
        FROM admin_profiles a
        JOIN users u ON u.id = a.user_id AND u.deleted_at IS NULL
        WHERE ` + where

	var admin domain.AdminProfile
	if err := r.pool.QueryRow(ctx, query, arg).Scan(
		&admin.ID,
		&admin.GlobalID,
		&admin.UserID,
		&admin.Email,
		&admin.Phone,
		&admin.PasswordHash,
		&admin.CreatedAt,
		&admin.UpdatedAt,
	); err != nil {
		return nil, mapReadError(err)
	}
	return &admin, nil
}

func (r *adminRepository) GetByEmail(ctx context.Context, email string) (*domain.AdminProfile, error) {
	return r.getOne(ctx, "a.email=$1", email)
}

func (r *adminRepository) GetByUserID(ctx context.Context, userID int64) (*domain.AdminProfile, error) {
	return r.getOne(ctx, "a.user_id=$1", userID)
}

func (r *adminRepository) GetByGlobalID(ctx context.Context, globalID string) (*domain.AdminProfile, error) {
	return r.getOne(ctx, "a.global_id=$1", globalID)
}
