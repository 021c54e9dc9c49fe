package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/clinic-identity/internal/api/http"
	"github.com/spec-kit/clinic-identity/internal/api/http/handlers"
	"github.com/spec-kit/clinic-identity/internal/auth"
	"github.com/spec-kit/clinic-identity/internal/config"
	"github.com/spec-kit/clinic-identity/internal/events"
	"github.com/spec-kit/clinic-identity/internal/observability"
	"github.com/spec-kit/clinic-identity/internal/repository"
	"github.com/spec-kit/clinic-identity/internal/service"
)

func newTestApp(t *testing.T) (*fiber.App, *repository.MemoryStore) {
	t.Helper()

	store := repository.NewMemoryStore()
	dispatcher := events.NewInMemoryDispatcher()
	metrics := observability.NewMetrics()
	cfg := config.Config{
		Auth: config.AuthConfig{
			JWTSecret:             "test-secret",
			Issuer:                "clinic-identity",
			Audience:              "clinic-platform",
			AccessTokenTTLMinutes: 15,
			BcryptCost:            4,
		},
	}

	registration := service.NewRegistrationService(cfg, service.RegistrationDependencies{
		UserRepo:   store,
		AdminRepo:  store.Admins(),
		DoctorRepo: store.Doctors(),
		Store:      store,
		Dispatcher: dispatcher,
		Metrics:    metrics,
	})
	authService := service.NewAuthService(cfg, service.AuthDependencies{
		UserRepo:   store,
		AdminRepo:  store.Admins(),
		DoctorRepo: store.Doctors(),
		Metrics:    metrics,
	})
	identityService := service.NewIdentityService(service.IdentityDependencies{
		UserRepo:    store,
		AdminRepo:   store.Admins(),
		DoctorRepo:  store.Doctors(),
		PatientRepo: store.Patients(),
		Dispatcher:  dispatcher,
	})

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, zap.NewNop(), metrics, 0)
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler("test", "test", nil, nil),
		Identity:       handlers.NewIdentityHandler(registration, identityService),
		Auth:           handlers.NewAuthHandler(authService),
		AuthMiddleware: auth.NewAuthMiddleware(authService.TokenManager(), store),
	})
	return app, store
}

func doJSON(t *testing.T, app *fiber.App, method, path string, payload any) (*http.Response, map[string]any) {
	t.Helper()

	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, body)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	decoded := map[string]any{}
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &decoded))
	}
	return resp, decoded
}

func doctorPayload() map[string]any {
	return map[string]any{
		"first_name":  "Omar",
		"last_name":   "Hassan",
		"national_id": "29001010000000",
		"email":       "omar.hassan@example.com",
		"phone":       "+201000000001",
		"password":    "s3cret-pass",
		"speciality":  "Cardiology",
	}
}

func TestCreateDoctorEndpoint(t *testing.T) {
	app, _ := newTestApp(t)

	resp, body := doJSON(t, app, http.MethodPost, "/identity/doctors", doctorPayload())
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "doctor created", body["message"])
	assert.NotEmpty(t, body["id"])
	assert.Equal(t, false, body["is_approved"])
}

func TestCreateDoctorRejectsMalformedNationalID(t *testing.T) {
	app, store := newTestApp(t)

	payload := doctorPayload()
	payload["national_id"] = "12345"
	resp, body := doJSON(t, app, http.MethodPost, "/identity/doctors", payload)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	errBody, ok := body["error"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "VALIDATION_FAILED", errBody["code"])
	assert.Equal(t, 0, store.UserCount())
}

func TestAnonymousDoctorPreApprovalIgnored(t *testing.T) {
	app, _ := newTestApp(t)

	payload := doctorPayload()
	payload["pre_approved"] = true
	resp, body := doJSON(t, app, http.MethodPost, "/identity/doctors", payload)

	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, false, body["is_approved"])
}

func TestDuplicateRegistrationConflict(t *testing.T) {
	app, store := newTestApp(t)

	resp, _ := doJSON(t, app, http.MethodPost, "/identity/doctors", doctorPayload())
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, body := doJSON(t, app, http.MethodPost, "/identity/doctors", doctorPayload())
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	errBody, ok := body["error"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "CONFLICT", errBody["code"])
	assert.Equal(t, 1, store.UserCount())
}

func TestLoginEndpointShapes(t *testing.T) {
	app, _ := newTestApp(t)

	resp, _ := doJSON(t, app, http.MethodPost, "/identity/doctors", doctorPayload())
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, body := doJSON(t, app, http.MethodPost, "/auth/login", map[string]any{
		"email":    "omar.hassan@example.com",
		"password": "s3cret-pass",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "DOCTOR", body["role"])
	assert.Equal(t, "Omar Hassan", body["name"])
	assert.NotEmpty(t, body["token"])

	resp, body = doJSON(t, app, http.MethodPost, "/auth/login", map[string]any{
		"email":    "omar.hassan@example.com",
		"password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	errBody, ok := body["error"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "INVALID_CREDENTIALS", errBody["code"])
	assert.Equal(t, "Invalid credentials", errBody["message"])
}

func TestApproveRequiresPrivilegedToken(t *testing.T) {
	app, _ := newTestApp(t)

	resp, body := doJSON(t, app, http.MethodPost, "/identity/doctors", doctorPayload())
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	doctorID, _ := body["id"].(string)

	// Anonymous caller is rejected before reaching the service.
	resp, _ = doJSON(t, app, http.MethodPost, "/identity/doctors/"+doctorID+"/approve", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestGetPatientByGlobalID(t *testing.T) {
	app, _ := newTestApp(t)

	resp, body := doJSON(t, app, http.MethodPost, "/identity/patients", map[string]any{
		"first_name":  "Youssef",
		"last_name":   "Adel",
		"national_id": "30103220000045",
		"address":     "12 Nile St",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	patientID, _ := body["id"].(string)

	resp, body = doJSON(t, app, http.MethodGet, "/identity/patients/"+patientID, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, patientID, body["global_id"])
	assert.Equal(t, "12 Nile St", body["address"])

	resp, _ = doJSON(t, app, http.MethodGet, "/identity/patients/3e1f0000-0000-0000-0000-000000000000", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
