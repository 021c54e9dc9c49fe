package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/clinic-identity/internal/domain"
)

const userColumns = `id, global_id, first_name, last_name, role, gender, language, date_of_birth, national_id, created_at, updated_at, deleted_at`

type userRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository returns a Postgres-backed implementation.
func NewUserRepository(pool *pgxpool.Pool) UserRepository {
	return &userRepository{pool: pool}
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	const query = `
        SELECT ` + userColumns + `
        FROM users WHERE id=$1 AND deleted_at IS NULL`

	var user domain.User
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&user.ID,
		&user.GlobalID,
		&user.FirstName,
		&user.LastName,
		&user.Role,
		&user.Gender,
		&user.Language,
		&user.DateOfBirth,
		&user.NationalID,
		&user.CreatedAt,
		&user.UpdatedAt,
		&user.DeletedAt,
	); err != nil {
		return nil, mapReadError(err)
	}
	return &user, nil
}

func (r *userRepository) GetByNationalID(ctx context.Context, nationalID string) (*domain.User, error) {
	const query = `
        SELECT ` + userColumns + `
        FROM users WHERE national_id=$1 AND deleted_at IS NULL`

	var user domain.User
	if err := r.pool.QueryRow(ctx, query, nationalID).Scan(
		&user.ID,
		&user.GlobalID,
		&user.FirstName,
		&user.LastName,
		&user.Role,
		&user.Gender,
		&user.Language,
		&user.DateOfBirth,
		&user.NationalID,
		&user.CreatedAt,
		&user.UpdatedAt,
		&user.DeletedAt,
	); err != nil {
		return nil, mapReadError(err)
	}
	return &user, nil
}
