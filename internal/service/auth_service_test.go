package service_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"invoicedesk/internal/config"
	"invoicedesk/internal/domain"
	"invoicedesk/internal/service"
)

var testJWT = config.JWTConfig{Secret: "test-secret", Issuer: "invoicedesk"}

func signToken(t *testing.T, method jwt.SigningMethod, key interface{}, claims service.Claims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return s
}

func validClaims() service.Claims {
	return service.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "invoicedesk",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		TenantID: uuid.New(),
		UserID:   uuid.New(),
		Email:    "clerk@acme.example",
		Role:     domain.RoleMember,
	}
}

func TestAuthService_ValidateToken(t *testing.T) {
	svc := service.NewAuthService(testJWT)
	claims := validClaims()

	got, err := svc.ValidateToken(signToken(t, jwt.SigningMethodHS256, []byte("test-secret"), claims))

	require.NoError(t, err)
	assert.Equal(t, claims.TenantID, got.TenantID)
	assert.Equal(t, claims.UserID, got.UserID)
	assert.Equal(t, domain.RoleMember, got.Role)
}

func TestAuthService_ValidateToken_Rejects(t *testing.T) {
	svc := service.NewAuthService(testJWT)

	expired := validClaims()
	expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))

	wrongIssuer := validClaims()
	wrongIssuer.Issuer = "someone-else"

	noExpiry := validClaims()
	noExpiry.ExpiresAt = nil

	noTenant := validClaims()
	noTenant.TenantID = uuid.Nil

	tests := []struct {
		name  string
		token string
	}{
		{"wrong secret", signToken(t, jwt.SigningMethodHS256, []byte("other"), validClaims())},
		{"expired", signToken(t, jwt.SigningMethodHS256, []byte("test-secret"), expired)},
		{"wrong issuer", signToken(t, jwt.SigningMethodHS256, []byte("test-secret"), wrongIssuer)},
		{"no expiry", signToken(t, jwt.SigningMethodHS256, []byte("test-secret"), noExpiry)},
		{"no tenant", signToken(t, jwt.SigningMethodHS256, []byte("test-secret"), noTenant)},
		{"unsigned", signToken(t, jwt.SigningMethodNone, jwt.UnsafeAllowNoneSignatureType, validClaims())},
		{"garbage", "not.a.token"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.ValidateToken(tt.token)
			assert.Error(t, err)
		})
	}
}
