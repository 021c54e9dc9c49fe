package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/clinic-identity/internal/config"
	"github.com/spec-kit/clinic-identity/internal/domain"
	"github.com/spec-kit/clinic-identity/internal/events"
	"github.com/spec-kit/clinic-identity/internal/observability"
	"github.com/spec-kit/clinic-identity/internal/repository"
	apperrors "github.com/spec-kit/clinic-identity/pkg/util/errorutil"
)

func testConfig() config.Config {
	return config.Config{
		Auth: config.AuthConfig{
			JWTSecret:             "test-secret",
			Issuer:                "clinic-identity",
			Audience:              "clinic-platform",
			AccessTokenTTLMinutes: 15,
			BcryptCost:            4,
		},
	}
}

type testEnv struct {
	store        *repository.MemoryStore
	registration *RegistrationService
	auth         *AuthService
	identity     *IdentityService
	dispatcher   events.Dispatcher
}

func newTestEnv() *testEnv {
	store := repository.NewMemoryStore()
	dispatcher := events.NewInMemoryDispatcher()
	metrics := observability.NewMetrics()
	cfg := testConfig()

	registration := NewRegistrationService(cfg, RegistrationDependencies{
		UserRepo:   store,
		AdminRepo:  store.Admins(),
		DoctorRepo: store.Doctors(),
		Store:      store,
		Dispatcher: dispatcher,
		Metrics:    metrics,
	})
	authSvc := NewAuthService(cfg, AuthDependencies{
		UserRepo:   store,
		AdminRepo:  store.Admins(),
		DoctorRepo: store.Doctors(),
		Metrics:    metrics,
	})
	identity := NewIdentityService(IdentityDependencies{
		UserRepo:    store,
		AdminRepo:   store.Admins(),
		DoctorRepo:  store.Doctors(),
		PatientRepo: store.Patients(),
		Dispatcher:  dispatcher,
	})

	return &testEnv{
		store:        store,
		registration: registration,
		auth:         authSvc,
		identity:     identity,
		dispatcher:   dispatcher,
	}
}

func doctorInput() CreateDoctorInput {
	return CreateDoctorInput{
		FirstName:  "Omar",
		LastName:   "Hassan",
		NationalID: "29001010000000",
		Email:      "omar.hassan@example.com",
		Phone:      "+201000000001",
		Password:   "s3cret-pass",
		Speciality: "Cardiology",
	}
}

func adminInput() CreateAdminInput {
	return CreateAdminInput{
		FirstName:  "Laila",
		LastName:   "Farouk",
		NationalID: "28505150000123",
		Email:      "laila.farouk@example.com",
		Phone:      "+201000000002",
		Password:   "admin-pass",
	}
}

func patientInput() CreatePatientInput {
	return CreatePatientInput{
		FirstName:  "Youssef",
		LastName:   "Adel",
		NationalID: "30103220000045",
	}
}

func domainErr(t *testing.T, err error) *apperrors.DomainError {
	t.Helper()
	var de *apperrors.DomainError
	require.True(t, errors.As(err, &de), "expected DomainError, got %v", err)
	return de
}

func TestCreateDoctorDerivesDemographics(t *testing.T) {
	env := newTestEnv()

	result, err := env.registration.CreateDoctor(context.Background(), doctorInput())
	require.NoError(t, err)
	assert.NotEmpty(t, result.ProfileGlobalID)
	assert.False(t, result.IsApproved)

	user, err := env.store.GetByNationalID(context.Background(), "29001010000000")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleDoctor, user.Role)
	assert.Equal(t, domain.GenderFemale, user.Gender)
	assert.Equal(t, domain.LanguageEnglish, user.Language)
	assert.Equal(t, time.Date(1990, time.January, 1, 0, 0, 0, 0, time.UTC), user.DateOfBirth)
}

func TestCreateDoctorPreApproved(t *testing.T) {
	env := newTestEnv()

	input := doctorInput()
	input.PreApproved = true
	result, err := env.registration.CreateDoctor(context.Background(), input)
	require.NoError(t, err)
	assert.True(t, result.IsApproved)
}

func TestCreateDoctorStoresHashedPassword(t *testing.T) {
	env := newTestEnv()

	_, err := env.registration.CreateDoctor(context.Background(), doctorInput())
	require.NoError(t, err)

	doctor, err := env.store.Doctors().GetByEmail(context.Background(), "omar.hassan@example.com")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret-pass", doctor.PasswordHash)
	assert.NotEmpty(t, doctor.PasswordHash)
}

func TestDuplicateNationalIDConflicts(t *testing.T) {
	env := newTestEnv()

	_, err := env.registration.CreateDoctor(context.Background(), doctorInput())
	require.NoError(t, err)

	second := adminInput()
	second.NationalID = "29001010000000"
	_, err = env.registration.CreateAdmin(context.Background(), second)

	de := domainErr(t, err)
	assert.Equal(t, "CONFLICT", de.Code)
	assert.Equal(t, 409, de.HTTPStatus)
	assert.Equal(t, 1, env.store.UserCount())
}

func TestDuplicateEmailConflicts(t *testing.T) {
	env := newTestEnv()

	_, err := env.registration.CreateDoctor(context.Background(), doctorInput())
	require.NoError(t, err)

	second := doctorInput()
	second.NationalID = "30103220000045"
	second.Phone = "+201000000099"
	_, err = env.registration.CreateDoctor(context.Background(), second)

	de := domainErr(t, err)
	assert.Equal(t, "CONFLICT", de.Code)
	assert.Equal(t, 1, env.store.UserCount())
}

func TestInvalidNationalIDAbortsBeforeWrite(t *testing.T) {
	env := newTestEnv()

	input := doctorInput()
	input.NationalID = "40001010000000"
	_, err := env.registration.CreateDoctor(context.Background(), input)

	de := domainErr(t, err)
	assert.Equal(t, "INVALID_NATIONAL_ID", de.Code)
	assert.Equal(t, 400, de.HTTPStatus)
	assert.Equal(t, 0, env.store.UserCount())
	assert.Equal(t, 0, env.store.ProfileCount(domain.RoleDoctor))
}

func TestProfileInsertFailureLeavesNoRows(t *testing.T) {
	env := newTestEnv()
	env.store.ProfileInsertErr = errors.New("simulated storage failure")

	_, err := env.registration.CreateAdmin(context.Background(), adminInput())
	require.Error(t, err)

	assert.Equal(t, 0, env.store.UserCount())
	assert.Equal(t, 0, env.store.ProfileCount(domain.RoleAdmin))
}

func TestCreatePatientTouchesOnlyPatientTable(t *testing.T) {
	env := newTestEnv()

	result, err := env.registration.CreatePatient(context.Background(), patientInput())
	require.NoError(t, err)
	assert.NotEmpty(t, result.ProfileGlobalID)

	assert.Equal(t, 1, env.store.ProfileCount(domain.RolePatient))
	assert.Equal(t, 0, env.store.ProfileCount(domain.RoleAdmin))
	assert.Equal(t, 0, env.store.ProfileCount(domain.RoleDoctor))
}

func TestRegistrationPublishesEvent(t *testing.T) {
	env := newTestEnv()

	var captured []events.Event
	env.dispatcher.Subscribe(events.EventUserRegistered, func(_ context.Context, e events.Event) error {
		captured = append(captured, e)
		return nil
	})

	result, err := env.registration.CreatePatient(context.Background(), patientInput())
	require.NoError(t, err)

	require.Len(t, captured, 1)
	payload, ok := captured[0].Payload.(events.UserRegisteredPayload)
	require.True(t, ok)
	assert.Equal(t, domain.RolePatient, payload.Role)
	assert.Equal(t, result.ProfileGlobalID, payload.ProfileGlobalID)
	assert.Equal(t, "Youssef Adel", payload.DisplayName)
}

func TestApproveDoctorTransition(t *testing.T) {
	env := newTestEnv()

	result, err := env.registration.CreateDoctor(context.Background(), doctorInput())
	require.NoError(t, err)

	var approvals int
	env.dispatcher.Subscribe(events.EventDoctorApproved, func(context.Context, events.Event) error {
		approvals++
		return nil
	})

	doctor, err := env.identity.ApproveDoctor(context.Background(), result.ProfileGlobalID)
	require.NoError(t, err)
	assert.True(t, doctor.IsApproved)
	assert.Equal(t, 1, approvals)

	// Approved is terminal; a second call is a no-op.
	doctor, err = env.identity.ApproveDoctor(context.Background(), result.ProfileGlobalID)
	require.NoError(t, err)
	assert.True(t, doctor.IsApproved)
	assert.Equal(t, 1, approvals)
}

func TestApproveUnknownDoctorNotFound(t *testing.T) {
	env := newTestEnv()

	_, err := env.identity.ApproveDoctor(context.Background(), "b2f9c6fe-1111-2222-3333-444455556666")
	de := domainErr(t, err)
	assert.Equal(t, "NOT_FOUND", de.Code)
}

func TestIdentityLookups(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	created, err := env.registration.CreateDoctor(ctx, doctorInput())
	require.NoError(t, err)

	doctor, err := env.identity.GetDoctorByGlobalID(ctx, created.ProfileGlobalID)
	require.NoError(t, err)

	user, err := env.identity.GetUser(ctx, doctor.UserID)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleDoctor, user.Role)

	byUser, err := env.identity.GetDoctorByUserID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, doctor.GlobalID, byUser.GlobalID)

	_, err = env.identity.GetUser(ctx, 9999)
	de := domainErr(t, err)
	assert.Equal(t, "NOT_FOUND", de.Code)

	_, err = env.identity.GetPatientByGlobalID(ctx, "0c9e2ab4-0000-0000-0000-000000000000")
	de = domainErr(t, err)
	assert.Equal(t, "NOT_FOUND", de.Code)
}
