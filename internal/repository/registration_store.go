package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/clinic-identity/internal/domain"
)

type registrationStore struct {
	pool *pgxpool.Pool
}

// NewRegistrationStore returns the Postgres-backed transactional writer.
func NewRegistrationStore(pool *pgxpool.Pool) RegistrationStore {
	return &registrationStore{pool: pool}
}

// CreateUserWithProfile inserts the user row and its role profile in a
// single transaction. Any failure, including a unique-constraint
// violation that slipped past the pre-checks, rolls both inserts back.
func (s *registrationStore) CreateUserWithProfile(ctx context.Context, user *domain.User, profile domain.Profile) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if err := insertUser(ctx, tx, user); err != nil {
		return mapWriteError(err)
	}
	if err := insertProfile(ctx, tx, user.ID, profile); err != nil {
		return mapWriteError(err)
	}

	return tx.Commit(ctx)
}

func insertUser(ctx context.Context, tx pgx.Tx, user *domain.User) error {
	const query = `
        INSERT INTO users (global_id, first_name, last_name, role, gender, language, date_of_birth, national_id)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
        RETURNING id, created_at, updated_at`

	return tx.QueryRow(ctx, query,
		user.GlobalID,
		user.FirstName,
		user.LastName,
		user.Role,
		user.Gender,
		user.Language,
		user.DateOfBirth,
		user.NationalID,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
}

func insertProfile(ctx context.Context, tx pgx.Tx, userID int64, profile domain.Profile) error {
	switch p := profile.(type) {
	case *domain.AdminProfile:
		const query = `
            INSERT INTO admin_profiles (global_id, user_id, email, phone, password_hash)
            VALUES ($1,$2,$3,$4,$5)
            RETURNING id, created_at, updated_at`
		p.UserID = userID
		return tx.QueryRow(ctx, query,
			p.GlobalID, p.UserID, p.Email, p.Phone, p.PasswordHash,
		).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	case *domain.DoctorProfile:
		const query = `
            INSERT INTO doctor_profiles (global_id, user_id, email, phone, password_hash, speciality, is_approved)
            VALUES ($1,$2,$3,$4,$5,$6,$7)
            RETURNING id, created_at, updated_at`
		p.UserID = userID
		return tx.QueryRow(ctx, query,
			p.GlobalID, p.UserID, p.Email, p.Phone, p.PasswordHash, p.Speciality, p.IsApproved,
		).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	case *domain.PatientProfile:
		const query = `
            INSERT INTO patient_profiles (global_id, user_id, address, job)
            VALUES ($1,$2,$3,$4)
            RETURNING id, created_at, updated_at`
		p.UserID = userID
		return tx.QueryRow(ctx, query,
			p.GlobalID, p.UserID, p.Address, p.Job,
		).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	default:
		return fmt.Errorf("unsupported profile type %T", profile)
	}
}
