package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/clinic-identity/internal/auth"
	"github.com/spec-kit/clinic-identity/internal/config"
	"github.com/spec-kit/clinic-identity/internal/domain"
	"github.com/spec-kit/clinic-identity/internal/events"
	"github.com/spec-kit/clinic-identity/internal/nationalid"
	"github.com/spec-kit/clinic-identity/internal/observability"
	"github.com/spec-kit/clinic-identity/internal/repository"
	apperrors "github.com/spec-kit/clinic-identity/pkg/util/errorutil"
)

// RegistrationService creates a root user plus exactly one role
// profile per call. The write is a single transaction: both rows land
// or neither does.
type RegistrationService struct {
	users      repository.UserRepository
	admins     repository.AdminRepository
	doctors    repository.DoctorRepository
	store      repository.RegistrationStore
	dispatcher events.Dispatcher
	metrics    *observability.Metrics
	bcryptCost int
}

// RegistrationDependencies encapsulates collaborators for the service.
type RegistrationDependencies struct {
	UserRepo   repository.UserRepository
	AdminRepo  repository.AdminRepository
	DoctorRepo repository.DoctorRepository
	Store      repository.RegistrationStore
	Dispatcher events.Dispatcher
	Metrics    *observability.Metrics
}

// NewRegistrationService builds the service.
func NewRegistrationService(cfg config.Config, deps RegistrationDependencies) *RegistrationService {
	return &RegistrationService{
		users:      deps.UserRepo,
		admins:     deps.AdminRepo,
		doctors:    deps.DoctorRepo,
		store:      deps.Store,
		dispatcher: deps.Dispatcher,
		metrics:    deps.Metrics,
		bcryptCost: cfg.Auth.BcryptCost,
	}
}

// CreateAdminInput carries admin registration fields.
type CreateAdminInput struct {
	FirstName  string
	LastName   string
	Language   domain.Language
	NationalID string
	Email      string
	Phone      string
	Password   string
}

// CreateDoctorInput carries doctor registration fields. PreApproved is
// honored only when the transport layer verified a privileged caller.
type CreateDoctorInput struct {
	FirstName   string
	LastName    string
	Language    domain.Language
	NationalID  string
	Email       string
	Phone       string
	Password    string
	Speciality  string
	PreApproved bool
}

// CreatePatientInput carries patient registration fields. Patients
// hold no credentials.
type CreatePatientInput struct {
	FirstName  string
	LastName   string
	Language   domain.Language
	NationalID string
	Address    *string
	Job        *string
}

// RegistrationResult reports the created profile's external id.
type RegistrationResult struct {
	ProfileGlobalID string
	IsApproved      bool
}

// CreateAdmin registers an admin identity.
func (s *RegistrationService) CreateAdmin(ctx context.Context, input CreateAdminInput) (*RegistrationResult, error) {
	if err := s.precheckNationalID(ctx, input.NationalID); err != nil {
		return nil, err
	}
	if err := s.precheckStaffEmail(ctx, input.Email, domain.RoleAdmin); err != nil {
		return nil, err
	}

	demo, err := nationalid.Parse(input.NationalID)
	if err != nil {
		return nil, apperrors.NewInvalidNationalID()
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	user := newUser(input.FirstName, input.LastName, domain.RoleAdmin, input.Language, input.NationalID, demo)
	profile := &domain.AdminProfile{
		GlobalID:     uuid.NewString(),
		Email:        input.Email,
		Phone:        input.Phone,
		PasswordHash: hash,
	}

	if err := s.store.CreateUserWithProfile(ctx, user, profile); err != nil {
		return nil, mapRegistrationError(err)
	}

	s.publishRegistered(ctx, user, profile.GlobalID)
	return &RegistrationResult{ProfileGlobalID: profile.GlobalID}, nil
}

// CreateDoctor registers a doctor identity, unapproved unless a
// privileged caller marked it pre-approved.
func (s *RegistrationService) CreateDoctor(ctx context.Context, input CreateDoctorInput) (*RegistrationResult, error) {
	if err := s.precheckNationalID(ctx, input.NationalID); err != nil {
		return nil, err
	}
	if err := s.precheckStaffEmail(ctx, input.Email, domain.RoleDoctor); err != nil {
		return nil, err
	}

	demo, err := nationalid.Parse(input.NationalID)
	if err != nil {
		return nil, apperrors.NewInvalidNationalID()
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	user := newUser(input.FirstName, input.LastName, domain.RoleDoctor, input.Language, input.NationalID, demo)
	profile := &domain.DoctorProfile{
		GlobalID:     uuid.NewString(),
		Email:        input.Email,
		Phone:        input.Phone,
		PasswordHash: hash,
		Speciality:   input.Speciality,
		IsApproved:   input.PreApproved,
	}

	if err := s.store.CreateUserWithProfile(ctx, user, profile); err != nil {
		return nil, mapRegistrationError(err)
	}

	s.publishRegistered(ctx, user, profile.GlobalID)
	return &RegistrationResult{ProfileGlobalID: profile.GlobalID, IsApproved: profile.IsApproved}, nil
}

// CreatePatient registers a patient identity. No credential fields
// exist for this role.
func (s *RegistrationService) CreatePatient(ctx context.Context, input CreatePatientInput) (*RegistrationResult, error) {
	if err := s.precheckNationalID(ctx, input.NationalID); err != nil {
		return nil, err
	}

	demo, err := nationalid.Parse(input.NationalID)
	if err != nil {
		return nil, apperrors.NewInvalidNationalID()
	}

	user := newUser(input.FirstName, input.LastName, domain.RolePatient, input.Language, input.NationalID, demo)
	profile := &domain.PatientProfile{
		GlobalID: uuid.NewString(),
		Address:  input.Address,
		Job:      input.Job,
	}

	if err := s.store.CreateUserWithProfile(ctx, user, profile); err != nil {
		return nil, mapRegistrationError(err)
	}

	s.publishRegistered(ctx, user, profile.GlobalID)
	return &RegistrationResult{ProfileGlobalID: profile.GlobalID}, nil
}

func newUser(firstName, lastName string, role domain.Role, language domain.Language, nationalID string, demo nationalid.Demographics) *domain.User {
	if language == "" {
		language = domain.LanguageEnglish
	}
	return &domain.User{
		GlobalID:    uuid.NewString(),
		FirstName:   firstName,
		LastName:    lastName,
		Role:        role,
		Gender:      demo.Gender,
		Language:    language,
		DateOfBirth: demo.DateOfBirth,
		NationalID:  nationalID,
	}
}

// precheckNationalID narrows the duplicate window before the
// transaction; the users unique constraint remains the final arbiter.
func (s *RegistrationService) precheckNationalID(ctx context.Context, nationalID string) error {
	if _, err := s.users.GetByNationalID(ctx, nationalID); err == nil {
		return mapRegistrationError(repository.ErrDuplicateNationalID)
	} else if !errors.Is(err, repository.ErrNotFound) {
		return apperrors.MapError(err)
	}
	return nil
}

func (s *RegistrationService) precheckStaffEmail(ctx context.Context, email string, role domain.Role) error {
	var err error
	switch role {
	case domain.RoleAdmin:
		_, err = s.admins.GetByEmail(ctx, email)
	case domain.RoleDoctor:
		_, err = s.doctors.GetByEmail(ctx, email)
	default:
		return nil
	}
	if err == nil {
		return mapRegistrationError(repository.ErrDuplicateEmail)
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return apperrors.MapError(err)
	}
	return nil
}

func mapRegistrationError(err error) error {
	switch {
	case errors.Is(err, repository.ErrDuplicateNationalID):
		return apperrors.NewConflict("national id already registered", nil)
	case errors.Is(err, repository.ErrDuplicateEmail):
		return apperrors.NewConflict("email already registered", nil)
	case errors.Is(err, repository.ErrDuplicatePhone):
		return apperrors.NewConflict("phone already registered", nil)
	default:
		return apperrors.MapError(err)
	}
}

func (s *RegistrationService) publishRegistered(ctx context.Context, user *domain.User, profileGlobalID string) {
	s.metrics.RecordRegistration(string(user.Role))
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventUserRegistered,
		Timestamp: time.Now(),
		Payload: events.UserRegisteredPayload{
			UserGlobalID:    user.GlobalID,
			ProfileGlobalID: profileGlobalID,
			Role:            user.Role,
			Language:        user.Language,
			DisplayName:     user.DisplayName(),
		},
	})
}
