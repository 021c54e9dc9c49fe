package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/clinic-identity/internal/config"
	"github.com/spec-kit/clinic-identity/internal/domain"
)

func testAuthConfig() config.AuthConfig {
	return config.AuthConfig{
		JWTSecret:             "test-secret",
		Issuer:                "clinic-identity",
		Audience:              "clinic-platform",
		AccessTokenTTLMinutes: 15,
		BcryptCost:            4,
	}
}

func testUser() *domain.User {
	return &domain.User{
		ID:         42,
		GlobalID:   "8d5e7c1a-3f7b-4a2e-9a6d-0b1c2d3e4f5a",
		FirstName:  "Mona",
		LastName:   "Said",
		Role:       domain.RoleDoctor,
		NationalID: "29001010000000",
	}
}

func TestIssueAndParseRoundTrip(t *testing.T) {
	tm := NewTokenManager(testAuthConfig())

	token, exp, err := tm.Issue(testUser())
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), exp, 5*time.Second)

	claims, err := tm.Parse(token)
	require.NoError(t, err)

	id, err := claims.SubjectID()
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)
	assert.Equal(t, "8d5e7c1a-3f7b-4a2e-9a6d-0b1c2d3e4f5a", claims.GlobalID)
	assert.Equal(t, "29001010000000", claims.NationalID)
	assert.Equal(t, domain.RoleDoctor, claims.Role)
}

func TestParseRejectsWrongIssuer(t *testing.T) {
	issuing := testAuthConfig()
	token, _, err := NewTokenManager(issuing).Issue(testUser())
	require.NoError(t, err)

	verifying := testAuthConfig()
	verifying.Issuer = "some-other-issuer"
	_, err = NewTokenManager(verifying).Parse(token)
	assert.Error(t, err)
}

func TestParseRejectsWrongAudience(t *testing.T) {
	token, _, err := NewTokenManager(testAuthConfig()).Issue(testUser())
	require.NoError(t, err)

	verifying := testAuthConfig()
	verifying.Audience = "different-audience"
	_, err = NewTokenManager(verifying).Parse(token)
	assert.Error(t, err)
}

func TestParseRejectsWrongSecret(t *testing.T) {
	token, _, err := NewTokenManager(testAuthConfig()).Issue(testUser())
	require.NoError(t, err)

	verifying := testAuthConfig()
	verifying.JWTSecret = "attacker-secret"
	_, err = NewTokenManager(verifying).Parse(token)
	assert.Error(t, err)
}

func TestParseRejectsExpiredToken(t *testing.T) {
	cfg := testAuthConfig()
	tm := NewTokenManager(cfg)
	tm.ttl = -time.Minute

	token, _, err := tm.Issue(testUser())
	require.NoError(t, err)

	_, err = NewTokenManager(cfg).Parse(token)
	assert.Error(t, err)
}

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("s3cret-pass", 4)
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret-pass", hash)

	assert.NoError(t, ComparePassword(hash, "s3cret-pass"))
	assert.Error(t, ComparePassword(hash, "wrong-pass"))
}
