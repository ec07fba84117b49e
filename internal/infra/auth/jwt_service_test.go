package auth

import (
	"strings"
	"testing"
	"time"

	"accounts/config"
	domainerrors "accounts/internal/domain/errors"
	"accounts/internal/domain/service"
	"accounts/internal/errors"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test_access_secret_key_very_long_for_testing"

func newTestConfig(secret string, ttl time.Duration) *config.Config {
	return &config.Config{
		SecretKey: config.SecretKeyConfig{Access: secret},
		Auth:      &config.AuthConfig{TokenTTL: ttl},
	}
}

func newTestJWTService(t *testing.T, secret string) service.TokenService {
	t.Helper()

	svc, err := NewJWTService(newTestConfig(secret, time.Hour))
	require.NoError(t, err)

	return svc
}

func TestJWTService_IssueAndValidate(t *testing.T) {
	svc := newTestJWTService(t, testSecret)

	token, err := svc.IssueToken("test", 1, "USER")
	require.NoError(t, err)
	assert.Len(t, strings.Split(token, "."), 3)
	assert.False(t, strings.HasPrefix(token, service.BearerScheme))

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "test", claims.Username())
	assert.Equal(t, 1, claims.UserID)
	assert.Equal(t, "USER", claims.Role)
	require.NotNil(t, claims.IssuedAt)
	require.NotNil(t, claims.ExpiresAt)
	assert.Equal(t, time.Hour, claims.ExpiresAt.Sub(claims.IssuedAt.Time))
}

func TestJWTService_ValidateStripsBearerPrefix(t *testing.T) {
	svc := newTestJWTService(t, testSecret)

	token, err := svc.IssueToken("test", 9, "ADMIN")
	require.NoError(t, err)

	claims, err := svc.ValidateToken(service.BearerScheme + token)
	require.NoError(t, err)
	assert.Equal(t, 9, claims.UserID)
}

func TestJWTService_ClaimNames(t *testing.T) {
	svc := newTestJWTService(t, testSecret)

	token, err := svc.IssueToken("test", 3, "USER")
	require.NoError(t, err)

	parsed := jwt.MapClaims{}
	_, _, err = jwt.NewParser().ParseUnverified(token, parsed)
	require.NoError(t, err)

	assert.Equal(t, "test", parsed["sub"])
	assert.EqualValues(t, 3, parsed["userID"])
	assert.Equal(t, "USER", parsed["role"])
	assert.Contains(t, parsed, "iat")
	assert.Contains(t, parsed, "exp")
}

func TestJWTService_WrongSecret(t *testing.T) {
	issuer := newTestJWTService(t, testSecret)
	verifier := newTestJWTService(t, "a_completely_different_secret")

	token, err := issuer.IssueToken("test", 1, "USER")
	require.NoError(t, err)

	claims, err := verifier.ValidateToken(token)
	require.Error(t, err)
	assert.Nil(t, claims)
	assert.True(t, errors.Is(err, domainerrors.ErrTokenInvalid))
}

func TestJWTService_TamperedSignature(t *testing.T) {
	svc := newTestJWTService(t, testSecret)

	token, err := svc.IssueToken("test", 1, "USER")
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	sig := []byte(parts[2])
	if sig[0] == 'A' {
		sig[0] = 'B'
	} else {
		sig[0] = 'A'
	}
	tampered := strings.Join([]string{parts[0], parts[1], string(sig)}, ".")

	claims, err := svc.ValidateToken(tampered)
	require.Error(t, err)
	assert.Nil(t, claims)
	assert.True(t, errors.Is(err, domainerrors.ErrTokenInvalid))
}

func TestJWTService_TamperedPayload(t *testing.T) {
	svc := newTestJWTService(t, testSecret)

	userToken, err := svc.IssueToken("test", 1, "USER")
	require.NoError(t, err)
	adminToken, err := svc.IssueToken("test", 1, "ADMIN")
	require.NoError(t, err)

	userParts := strings.Split(userToken, ".")
	adminParts := strings.Split(adminToken, ".")
	spliced := strings.Join([]string{userParts[0], adminParts[1], userParts[2]}, ".")

	_, err = svc.ValidateToken(spliced)
	assert.Error(t, err)
}

func TestJWTService_RejectsOtherAlgorithms(t *testing.T) {
	svc := newTestJWTService(t, testSecret)
	claims := &service.Claims{
		UserID:           1,
		Role:             "ADMIN",
		RegisteredClaims: jwt.RegisteredClaims{Subject: "test"},
	}

	hs384, err := jwt.NewWithClaims(jwt.SigningMethodHS384, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	for name, token := range map[string]string{"HS384": hs384, "none": none} {
		t.Run(name, func(t *testing.T) {
			parsed, err := svc.ValidateToken(token)
			require.Error(t, err)
			assert.Nil(t, parsed)
		})
	}
}

func TestJWTService_Malformed(t *testing.T) {
	svc := newTestJWTService(t, testSecret)

	for _, token := range []string{"", "Bearer ", "clearly-not-a-jwt-token-format", "a.b.c", "Bearer a.b"} {
		t.Run(token, func(t *testing.T) {
			claims, err := svc.ValidateToken(token)
			require.Error(t, err)
			assert.Nil(t, claims)
			assert.True(t, errors.Is(err, domainerrors.ErrTokenInvalid))
		})
	}
}

func TestJWTService_Expired(t *testing.T) {
	past := time.Now().Add(-2 * time.Hour)
	issuer := newJWTService(testSecret, time.Hour, func() time.Time { return past })
	verifier := newJWTService(testSecret, time.Hour, time.Now)

	token, err := issuer.IssueToken("test", 1, "USER")
	require.NoError(t, err)

	_, err = verifier.ValidateToken(token)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "token is expired")
}

func TestJWTService_ZeroTTLOmitsExpiry(t *testing.T) {
	svc := newJWTService(testSecret, 0, time.Now)

	token, err := svc.IssueToken("test", 1, "USER")
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Nil(t, claims.ExpiresAt)
}

func TestJWTService_EmptySecret(t *testing.T) {
	svc, err := NewJWTService(newTestConfig("", time.Hour))
	require.Error(t, err)
	assert.Nil(t, svc)
	assert.Contains(t, err.Error(), "jwt secret must be provided")

	svc, err = NewJWTService(nil)
	require.Error(t, err)
	assert.Nil(t, svc)
}

func TestJWTService_RequiresIdentityClaims(t *testing.T) {
	svc := newTestJWTService(t, testSecret)
	exp := jwt.NewNumericDate(time.Now().Add(time.Hour))

	tests := map[string]jwt.Claims{
		"foreign claims only": jwt.MapClaims{"foo": "bar", "exp": exp.Unix()},
		"no subject":          &service.Claims{UserID: 1, Role: "USER", RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: exp}},
		"no user id":          &service.Claims{Role: "USER", RegisteredClaims: jwt.RegisteredClaims{Subject: "test", ExpiresAt: exp}},
		"no role":             &service.Claims{UserID: 1, RegisteredClaims: jwt.RegisteredClaims{Subject: "test", ExpiresAt: exp}},
	}

	for name, claims := range tests {
		t.Run(name, func(t *testing.T) {
			token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
			require.NoError(t, err)

			parsed, err := svc.ValidateToken(service.BearerScheme + token)
			require.Error(t, err)
			assert.Nil(t, parsed)
			assert.True(t, errors.Is(err, domainerrors.ErrTokenInvalid))
		})
	}
}

func TestJWTService_RequiresExpiryWhenTTLSet(t *testing.T) {
	svc := newTestJWTService(t, testSecret)
	claims := &service.Claims{UserID: 1, Role: "USER", RegisteredClaims: jwt.RegisteredClaims{Subject: "test"}}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	parsed, err := svc.ValidateToken(token)
	require.Error(t, err)
	assert.Nil(t, parsed)
	assert.True(t, errors.Is(err, domainerrors.ErrTokenInvalid))

	parsed, err = newJWTService(testSecret, 0, time.Now).ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, 1, parsed.UserID)
}
