package common

import (
	"testing"
	"time"

	"go-rbac-api/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type tokenConfig struct {
	accessSecret  string
	refreshSecret string
}

func (c tokenConfig) AccessTokenExpiresIn() time.Duration  { return 15 * time.Minute }
func (c tokenConfig) AccessTokenSecret() string            { return c.accessSecret }
func (c tokenConfig) RefreshTokenExpiresIn() time.Duration { return 24 * time.Hour }
func (c tokenConfig) RefreshTokenSecret() string           { return c.refreshSecret }
func (c tokenConfig) TokenIssuer() string                  { return "test" }

func newTestProvider() *JWTProvider {
	return NewJWTProvider(tokenConfig{accessSecret: "access-secret", refreshSecret: "refresh-secret"})
}

func TestJWTProvider_RoundTrip(t *testing.T) {
	p := newTestProvider()

	for _, typ := range []domain.TokenType{domain.TokenTypeAccess, domain.TokenTypeRefresh} {
		t.Run(typ.String(), func(t *testing.T) {
			token, err := p.Generate(typ, "user-1")
			require.NoError(t, err)

			claims, err := p.Verify(typ, token)
			require.NoError(t, err)
			assert.Equal(t, "user-1", claims.Subject)
			assert.Equal(t, typ.String(), claims.Typ)
			assert.Equal(t, "test", claims.Issuer)
		})
	}
}

func TestJWTProvider_TokenKindsAreIsolated(t *testing.T) {
	p := newTestProvider()

	access, err := p.Generate(domain.TokenTypeAccess, "user-1")
	require.NoError(t, err)
	refresh, err := p.Generate(domain.TokenTypeRefresh, "user-1")
	require.NoError(t, err)

	_, err = p.Verify(domain.TokenTypeRefresh, access)
	assert.True(t, HasErrorID(err, domain.ErrInvalidToken.ID()))

	_, err = p.Verify(domain.TokenTypeAccess, refresh)
	assert.True(t, HasErrorID(err, domain.ErrInvalidToken.ID()))
}

func TestJWTProvider_SameSecretStillChecksKind(t *testing.T) {
	p := NewJWTProvider(tokenConfig{accessSecret: "shared", refreshSecret: "shared"})

	refresh, err := p.Generate(domain.TokenTypeRefresh, "user-1")
	require.NoError(t, err)

	_, err = p.Verify(domain.TokenTypeAccess, refresh)
	assert.True(t, HasErrorID(err, domain.ErrInvalidToken.ID()))
}

func TestJWTProvider_Expiry(t *testing.T) {
	p := newTestProvider()
	issued := time.Now()
	p.now = func() time.Time { return issued }

	token, err := p.Generate(domain.TokenTypeAccess, "user-1")
	require.NoError(t, err)

	p.now = func() time.Time { return issued.Add(14 * time.Minute) }
	_, err = p.Verify(domain.TokenTypeAccess, token)
	assert.NoError(t, err)

	p.now = func() time.Time { return issued.Add(16 * time.Minute) }
	_, err = p.Verify(domain.TokenTypeAccess, token)
	assert.True(t, HasErrorID(err, domain.ErrInvalidToken.ID()))
}

func TestJWTProvider_MissingSecret(t *testing.T) {
	p := NewJWTProvider(tokenConfig{refreshSecret: "refresh-secret"})

	_, err := p.Generate(domain.TokenTypeAccess, "user-1")
	assert.True(t, HasErrorID(err, domain.ErrConfiguration.ID()))

	_, err = p.Verify(domain.TokenTypeAccess, "anything")
	assert.True(t, HasErrorID(err, domain.ErrConfiguration.ID()))

	_, err = p.Generate(domain.TokenTypeRefresh, "user-1")
	assert.NoError(t, err)
}

func TestJWTProvider_Tampered(t *testing.T) {
	p := newTestProvider()
	other := NewJWTProvider(tokenConfig{accessSecret: "other", refreshSecret: "other-refresh"})

	forged, err := other.Generate(domain.TokenTypeAccess, "user-1")
	require.NoError(t, err)

	_, err = p.Verify(domain.TokenTypeAccess, forged)
	assert.True(t, HasErrorID(err, domain.ErrInvalidToken.ID()))

	_, err = p.Verify(domain.TokenTypeAccess, "")
	assert.True(t, HasErrorID(err, domain.ErrInvalidToken.ID()))

	_, err = p.Verify(domain.TokenTypeAccess, "not.a.jwt")
	assert.True(t, HasErrorID(err, domain.ErrInvalidToken.ID()))
}
