package repository

import (
	"context"
	"errors"

	"github.com/spec-kit/clinic-identity/internal/domain"
)

// Sentinel errors returned by every store implementation. The
// duplicate variants cover both the service pre-checks and
// unique-constraint violations surfaced at commit time.
var (
	ErrNotFound            = errors.New("record not found")
	ErrDuplicateNationalID = errors.New("national id already registered")
	ErrDuplicateEmail      = errors.New("email already registered")
	ErrDuplicatePhone      = errors.New("phone already registered")
)

// UserRepository reads root identity records. All lookups apply the
// soft-delete predicate.
type UserRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByNationalID(ctx context.Context, nationalID string) (*domain.User, error)
}

// AdminRepository reads admin profiles.
type AdminRepository interface {
	GetByEmail(ctx context.Context, email string) (*domain.AdminProfile, error)
	GetByUserID(ctx context.Context, userID int64) (*domain.AdminProfile, error)
	GetByGlobalID(ctx context.Context, globalID string) (*domain.AdminProfile, error)
}

// DoctorRepository reads doctor profiles and owns the single mutation
// this core allows on them: the approval transition.
type DoctorRepository interface {
	GetByEmail(ctx context.Context, email string) (*domain.DoctorProfile, error)
	GetByUserID(ctx context.Context, userID int64) (*domain.DoctorProfile, error)
	GetByGlobalID(ctx context.Context, globalID string) (*domain.DoctorProfile, error)
	Approve(ctx context.Context, globalID string) (*domain.DoctorProfile, error)
}

// PatientRepository reads patient profiles.
type PatientRepository interface {
	GetByUserID(ctx context.Context, userID int64) (*domain.PatientProfile, error)
	GetByGlobalID(ctx context.Context, globalID string) (*domain.PatientProfile, error)
}

// RegistrationStore creates a user and its role profile in one
// transaction. On success the user's ID and the profile's ID and
// UserID are populated. Both rows are written or neither is.
type RegistrationStore interface {
	CreateUserWithProfile(ctx context.Context, user *domain.User, profile domain.Profile) error
}
