package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/clinic-identity/internal/domain"
)

const patientColumns = `p.id, p.global_id, p.user_id, p.address, p.job, p.created_at, p.updated_at`

type patientRepository struct {
	pool *pgxpool.Pool
}

// NewPatientRepository returns a Postgres-backed implementation.
func NewPatientRepository(pool *pgxpool.Pool) PatientRepository {
	return &patientRepository{pool: pool}
}

func (r *patientRepository) getOne(ctx context.Context, where string, arg any) (*domain.PatientProfile, error) {
	query := `
        SELECT ` + patientColumns + `
        FROM patient_profiles p
        JOIN users u ON u.id = p.user_id AND u.deleted_at IS NULL
        WHERE ` + where

	var patient domain.PatientProfile
	if err := r.pool.QueryRow(ctx, query, arg).Scan(
		&patient.ID,
		&patient.GlobalID,
		&patient.UserID,
		&patient.Address,
		&patient.Job,
		&patient.CreatedAt,
		&patient.UpdatedAt,
	); err != nil {
		return nil, mapReadError(err)
	}
	return &patient, nil
}

func (r *patientRepository) GetByUserID(ctx context.Context, userID int64) (*domain.PatientProfile, error) {
	return r.getOne(ctx, "p.user_id=$1", userID)
}

func (r *patientRepository) GetByGlobalID(ctx context.Context, globalID string) (*domain.PatientProfile, error) {
	return r.getOne(ctx, "p.global_id=$1", globalID)
}
