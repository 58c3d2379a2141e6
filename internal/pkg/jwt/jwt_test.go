package jwt

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/workforce-analytics-go/internal/domain/employee"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testProfile() employee.EmployeeProfile {
	return employee.EmployeeProfile{
		ID:         "0192f0a4-0000-7000-8000-000000000001",
		Name:       "Ayu Lestari",
		EmployeeID: "EMP-001",
		Branch:     "Jakarta",
		Role:       employee.RoleManager,
	}
}

func TestGenerateAccessToken_Claims(t *testing.T) {
	svc := NewJWTService("test-secret", time.Hour)

	token, expiresAt, err := svc.GenerateAccessToken(testProfile())
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.InDelta(t, time.Now().Add(time.Hour).Unix(), expiresAt, 5)

	decoded, err := svc.JWTAuth().Decode(token)
	require.NoError(t, err)

	claims, err := decoded.AsMap(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "0192f0a4-0000-7000-8000-000000000001", claims["user_id"])
	assert.Equal(t, "EMP-001", claims["employee_id"])
	assert.Equal(t, "manager", claims["role"])
	assert.Equal(t, "Jakarta", claims["branch"])
	assert.Equal(t, "access", claims["type"])
}

func TestSSEToken_RoundTrip(t *testing.T) {
	svc := NewJWTService("test-secret", time.Hour)

	token, expiresIn, err := svc.GenerateSSEToken("user-1")
	require.NoError(t, err)
	assert.Equal(t, 300, expiresIn)

	userID, err := svc.ValidateSSEToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)
}

func TestValidateSSEToken_RejectsAccessToken(t *testing.T) {
	svc := NewJWTService("test-secret", time.Hour)

	access, _, err := svc.GenerateAccessToken(testProfile())
	require.NoError(t, err)

	_, err = svc.ValidateSSEToken(access)
	assert.Error(t, err)
}

func TestValidateSSEToken_RejectsExpired(t *testing.T) {
	svc := NewJWTService("test-secret", time.Hour)
	svc.now = func() time.Time { return time.Now().Add(-time.Hour) }

	token, _, err := svc.GenerateSSEToken("user-1")
	require.NoError(t, err)

	_, err = svc.ValidateSSEToken(token)
	assert.Error(t, err)
}

func TestValidateSSEToken_RejectsOtherSecret(t *testing.T) {
	issuer := NewJWTService("secret-a", time.Hour)
	verifier := NewJWTService("secret-b", time.Hour)

	token, _, err := issuer.GenerateSSEToken("user-1")
	require.NoError(t, err)

	_, err = verifier.ValidateSSEToken(token)
	assert.Error(t, err)
}

func TestRevokeToken(t *testing.T) {
	svc := NewJWTService("test-secret", time.Hour)
	now := time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	assert.False(t, svc.IsTokenRevoked("a"))

	svc.RevokeToken("a", now.Add(time.Minute).Unix())
	assert.True(t, svc.IsTokenRevoked("a"))

	// expired entries are swept on the next revocation
	now = now.Add(2 * time.Minute)
	svc.RevokeToken("b", now.Add(time.Minute).Unix())
	assert.False(t, svc.IsTokenRevoked("a"))
	assert.True(t, svc.IsTokenRevoked("b"))
}
