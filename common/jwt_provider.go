package common

import (
	"errors"
	"fmt"
	"time"

	"go-rbac-api/domain"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type JwtProviderConfig interface {
	AccessTokenExpiresIn() time.Duration
	AccessTokenSecret() string
	RefreshTokenExpiresIn() time.Duration
	RefreshTokenSecret() string
	TokenIssuer() string
}

// JWTProvider issues and verifies HS256 tokens. Access and refresh tokens are
// signed with different secrets and carry their kind in the typ claim.
type JWTProvider struct {
	cfg JwtProviderConfig
	now func() time.Time
}

func NewJWTProvider(cfg JwtProviderConfig) *JWTProvider {
	return &JWTProvider{cfg: cfg, now: time.Now}
}

func (j *JWTProvider) settings(tokenType domain.TokenType) (secret string, ttl time.Duration, err error) {
	switch tokenType {
	case domain.TokenTypeAccess:
		secret, ttl = j.cfg.AccessTokenSecret(), j.cfg.AccessTokenExpiresIn()
		if secret == "" {
			return "", 0, domain.ErrConfiguration.WithReason("JWT_SECRET is not set")
		}
	case domain.TokenTypeRefresh:
		secret, ttl = j.cfg.RefreshTokenSecret(), j.cfg.RefreshTokenExpiresIn()
		if secret == "" {
			return "", 0, domain.ErrConfiguration.WithReason("JWT_REFRESH_SECRET is not set")
		}
	default:
		return "", 0, errors.New("invalid token type")
	}
	return secret, ttl, nil
}

// Generate signs a token of the given kind for userID.
func (j *JWTProvider) Generate(tokenType domain.TokenType, userID string) (string, error) {
	secret, ttl, err := j.settings(tokenType)
	if err != nil {
		return "", err
	}

	now := j.now()
	claims := domain.JwtClaims{
		Typ: tokenType.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    j.cfg.TokenIssuer(),
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// Verify checks signature, expiry and kind, returning the claims.
// A missing secret is reported as ErrConfiguration, anything else as ErrInvalidToken.
func (j *JWTProvider) Verify(tokenType domain.TokenType, tokenStr string) (*domain.JwtClaims, error) {
	secret, _, err := j.settings(tokenType)
	if err != nil {
		return nil, err
	}
	if tokenStr == "" {
		return nil, domain.ErrInvalidToken.WithReason("token is empty")
	}

	claims := &domain.JwtClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(j.now),
	)
	if err != nil {
		return nil, domain.ErrInvalidToken.WithWrap(err)
	}
	if !token.Valid {
		return nil, domain.ErrInvalidToken
	}
	if claims.Typ != tokenType.String() {
		return nil, domain.ErrInvalidToken.WithReasonf("expected %s token", tokenType)
	}
	if claims.Subject == "" {
		return nil, domain.ErrInvalidToken.WithReason("token has no subject")
	}
	return claims, nil
}
