package auth

import (
	"strings"
	"time"

	"accounts/config"
	domainerrors "accounts/internal/domain/errors"
	"accounts/internal/domain/service"
	"accounts/internal/errors"

	"github.com/golang-jwt/jwt/v5"
)

// jwtService is a concrete implementation of the TokenService interface using HS256 JWTs.
type jwtService struct {
	secret []byte        // Symmetric signing key; never logged.
	ttl    time.Duration // Token lifetime; zero issues tokens without exp.
	parser *jwt.Parser
	now    func() time.Time
}

// NewJWTService is the constructor for jwtService.
func NewJWTService(cfg *config.Config) (service.TokenService, error) {
	if cfg == nil || cfg.SecretKey.Access == "" {
		return nil, errors.New("jwt secret must be provided")
	}

	var ttl time.Duration
	if cfg.Auth != nil {
		ttl = cfg.Auth.TokenTTL
	}

	return newJWTService(cfg.SecretKey.Access, ttl, time.Now), nil
}

func newJWTService(secret string, ttl time.Duration, now func() time.Time) *jwtService {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(now),
	}
	if ttl > 0 {
		opts = append(opts, jwt.WithExpirationRequired())
	}

	return &jwtService{
		secret: []byte(secret),
		ttl:    ttl,
		parser: jwt.NewParser(opts...),
		now:    now,
	}
}

// IssueToken signs {sub, userID, role, iat[, exp]} with HS256.
func (s *jwtService) IssueToken(username string, userID int, role string) (string, error) {
	issuedAt := s.now()
	claims := &service.Claims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  username,
			IssuedAt: jwt.NewNumericDate(issuedAt),
		},
	}
	if s.ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(issuedAt.Add(s.ttl))
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", errors.Wrap(err, "failed to sign token")
	}

	return signed, nil
}

// ValidateToken strips an optional "Bearer " prefix, then verifies algorithm, signature and
// registered claims in a single pass.
func (s *jwtService) ValidateToken(tokenString string) (*service.Claims, error) {
	tokenString = strings.TrimPrefix(tokenString, service.BearerScheme)
	if tokenString == "" {
		return nil, domainerrors.ErrTokenInvalid.WrapMessage("empty token")
	}

	claims := &service.Claims{}
	token, err := s.parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenSignatureInvalid
		}

		return s.secret, nil
	})
	if err != nil {
		return nil, errors.Wrap(domainerrors.ErrTokenInvalid, err.Error())
	}
	if !token.Valid {
		return nil, domainerrors.ErrTokenInvalid.WrapMessage("token is not valid")
	}
	if claims.Subject == "" || claims.UserID <= 0 || claims.Role == "" {
		return nil, domainerrors.ErrTokenInvalid.WrapMessage("token is missing identity claims")
	}

	return claims, nil
}
