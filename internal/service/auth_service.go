package service

import (
	"context"
	"errors"
	"time"

	"github.com/spec-kit/clinic-identity/internal/auth"
	"github.com/spec-kit/clinic-identity/internal/config"
	"github.com/spec-kit/clinic-identity/internal/domain"
	"github.com/spec-kit/clinic-identity/internal/observability"
	"github.com/spec-kit/clinic-identity/internal/repository"
	apperrors "github.com/spec-kit/clinic-identity/pkg/util/errorutil"
)

// AuthService resolves staff logins and issues session credentials.
// Patients hold no credentials and can never resolve here.
type AuthService struct {
	users    repository.UserRepository
	admins   repository.AdminRepository
	doctors  repository.DoctorRepository
	tokenMgr *auth.TokenManager
	metrics  *observability.Metrics
}

// AuthDependencies encapsulates repo requirements for the auth service.
type AuthDependencies struct {
	UserRepo   repository.UserRepository
	AdminRepo  repository.AdminRepository
	DoctorRepo repository.DoctorRepository
	Metrics    *observability.Metrics
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	return &AuthService{
		users:    deps.UserRepo,
		admins:   deps.AdminRepo,
		doctors:  deps.DoctorRepo,
		tokenMgr: auth.NewTokenManager(cfg.Auth),
		metrics:  deps.Metrics,
	}
}

// LoginResult is the credential bundle returned on success.
type LoginResult struct {
	Role      domain.Role
	Name      string
	Language  domain.Language
	Token     string
	ExpiresAt time.Time
}

// Login resolves (email, password) against the admin table first, then
// the doctor table. Every failure mode collapses into the same
// invalid-credentials error so callers learn nothing about which email
// exists. Doctor approval state is deliberately not checked here.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	if admin, err := s.admins.GetByEmail(ctx, email); err == nil {
		if auth.ComparePassword(admin.PasswordHash, password) == nil {
			return s.issueFor(ctx, admin.UserID)
		}
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.MapError(err)
	}

	if doctor, err := s.doctors.GetByEmail(ctx, email); err == nil {
		if auth.ComparePassword(doctor.PasswordHash, password) == nil {
			return s.issueFor(ctx, doctor.UserID)
		}
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.MapError(err)
	}

	s.metrics.RecordLogin(false)
	return nil, apperrors.NewInvalidCredentials()
}

func (s *AuthService) issueFor(ctx context.Context, userID int64) (*LoginResult, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		// A credentialed profile without an owning active user means
		// the identity was tombstoned; treat it as a failed login.
		if errors.Is(err, repository.ErrNotFound) {
			s.metrics.RecordLogin(false)
			return nil, apperrors.NewInvalidCredentials()
		}
		return nil, apperrors.MapError(err)
	}

	token, expiresAt, err := s.tokenMgr.Issue(user)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	s.metrics.RecordLogin(true)
	return &LoginResult{
		Role:      user.Role,
		Name:      user.DisplayName(),
		Language:  user.Language,
		Token:     token,
		ExpiresAt: expiresAt,
	}, nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}
