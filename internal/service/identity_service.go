package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/clinic-identity/internal/domain"
	"github.com/spec-kit/clinic-identity/internal/events"
	"github.com/spec-kit/clinic-identity/internal/repository"
	apperrors "github.com/spec-kit/clinic-identity/pkg/util/errorutil"
)

// IdentityService serves read-only lookups for collaborating services
// plus the single doctor approval transition.
type IdentityService struct {
	users      repository.UserRepository
	admins     repository.AdminRepository
	doctors    repository.DoctorRepository
	patients   repository.PatientRepository
	dispatcher events.Dispatcher
}

// IdentityDependencies encapsulates repositories for lookups.
type IdentityDependencies struct {
	UserRepo    repository.UserRepository
	AdminRepo   repository.AdminRepository
	DoctorRepo  repository.DoctorRepository
	PatientRepo repository.PatientRepository
	Dispatcher  events.Dispatcher
}

// NewIdentityService builds the service.
func NewIdentityService(deps IdentityDependencies) *IdentityService {
	return &IdentityService{
		users:      deps.UserRepo,
		admins:     deps.AdminRepo,
		doctors:    deps.DoctorRepo,
		patients:   deps.PatientRepo,
		dispatcher: deps.Dispatcher,
	}
}

func mapLookup[T any](record *T, err error, resource string) (*T, error) {
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound(resource, nil)
		}
		return nil, apperrors.MapError(err)
	}
	return record, nil
}

// GetUser returns the root identity by internal id.
func (s *IdentityService) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	return mapLookup(user, err, "user")
}

// GetAdminByUserID returns the admin profile owned by the given user.
func (s *IdentityService) GetAdminByUserID(ctx context.Context, userID int64) (*domain.AdminProfile, error) {
	admin, err := s.admins.GetByUserID(ctx, userID)
	return mapLookup(admin, err, "admin")
}

// GetDoctorByUserID returns the doctor profile owned by the given user.
func (s *IdentityService) GetDoctorByUserID(ctx context.Context, userID int64) (*domain.DoctorProfile, error) {
	doctor, err := s.doctors.GetByUserID(ctx, userID)
	return mapLookup(doctor, err, "doctor")
}

// GetAdminByGlobalID returns the admin profile by external id.
func (s *IdentityService) GetAdminByGlobalID(ctx context.Context, globalID string) (*domain.AdminProfile, error) {
	admin, err := s.admins.GetByGlobalID(ctx, globalID)
	return mapLookup(admin, err, "admin")
}

// GetDoctorByGlobalID returns the doctor profile by external id.
func (s *IdentityService) GetDoctorByGlobalID(ctx context.Context, globalID string) (*domain.DoctorProfile, error) {
	doctor, err := s.doctors.GetByGlobalID(ctx, globalID)
	return mapLookup(doctor, err, "doctor")
}

// GetPatientByGlobalID returns the patient profile by external id.
func (s *IdentityService) GetPatientByGlobalID(ctx context.Context, globalID string) (*domain.PatientProfile, error) {
	patient, err := s.patients.GetByGlobalID(ctx, globalID)
	return mapLookup(patient, err, "patient")
}

// ApproveDoctor transitions a doctor to approved. The transition is
// one-way and idempotent: approving an approved doctor changes
// nothing and emits no event.
func (s *IdentityService) ApproveDoctor(ctx context.Context, globalID string) (*domain.DoctorProfile, error) {
	current, err := s.GetDoctorByGlobalID(ctx, globalID)
	if err != nil {
		return nil, err
	}
	if current.IsApproved {
		return current, nil
	}

	approved, err := s.doctors.Approve(ctx, globalID)
	doctor, err := mapLookup(approved, err, "doctor")
	if err != nil {
		return nil, err
	}

	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventDoctorApproved,
			Timestamp: time.Now(),
			Payload: events.DoctorApprovedPayload{
				ProfileGlobalID: doctor.GlobalID,
				Speciality:      doctor.Speciality,
			},
		})
	}
	return doctor, nil
}
