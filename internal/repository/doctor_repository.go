package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/clinic-identity/internal/domain"
)

const doctorColumns = `d.id, d.global_id, d.user_id, d.email, d.phone, d.password_hash, d.speciality, d.is_approved, d.created_at, d.updated_at`

type doctorRepository struct {
	pool *pgxpool.Pool
}

// NewDoctorRepository returns a Postgres-backed implementation.
func NewDoctorRepository(pool *pgxpool.Pool) DoctorRepository {
	return &doctorRepository{pool: pool}
}

func (r *doctorRepository) getOne(ctx context.Context, where string, arg any) (*domain.DoctorProfile, error) {
	query := `
        SELECT ` + doctorColumns + `
        FROM doctor_profiles d
        JOIN users u ON u.id = d.user_id AND u.deleted_at IS NULL
        WHERE ` + where

	var doctor domain.DoctorProfile
	if err := r.pool.QueryRow(ctx, query, arg).Scan(
		&doctor.ID,
		&doctor.GlobalID,
		&doctor.UserID,
		&doctor.Email,
		&doctor.Phone,
		&doctor.PasswordHash,
		&doctor.Speciality,
		&doctor.IsApproved,
		&doctor.CreatedAt,
		&doctor.UpdatedAt,
	); err != nil {
		return nil, mapReadError(err)
	}
	return &doctor, nil
}

func (r *doctorRepository) GetByEmail(ctx context.Context, email string) (*domain.DoctorProfile, error) {
	return r.getOne(ctx, "d.email=$1", email)
}

func (r *doctorRepository) GetByUserID(ctx context.Context, userID int64) (*domain.DoctorProfile, error) {
	return r.getOne(ctx, "d.user_id=$1", userID)
}

func (r *doctorRepository) GetByGlobalID(ctx context.Context, globalID string) (*domain.DoctorProfile, error) {
	return r.getOne(ctx, "d.global_id=$1", globalID)
}

func (r *doctorRepository) Approve(ctx context.Context, globalID string) (*domain.DoctorProfile, error) {
	const query = `
        UPDATE doctor_profiles d
        SET is_approved=TRUE, updated_at=NOW()
        FROM users u
        WHERE d.global_id=$1 AND u.id = d.user_id AND u.deleted_at IS NULL
        RETURNING ` + doctorColumns

	var doctor domain.DoctorProfile
	if err := r.pool.QueryRow(ctx, query, globalID).Scan(
		&doctor.ID,
		&doctor.GlobalID,
		&doctor.UserID,
		&doctor.Email,
		&doctor.Phone,
		&doctor.PasswordHash,
		&doctor.Speciality,
		&doctor.IsApproved,
		&doctor.CreatedAt,
		&doctor.UpdatedAt,
	); err != nil {
		return nil, mapReadError(err)
	}
	return &doctor, nil
}
