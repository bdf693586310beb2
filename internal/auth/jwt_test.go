// AngelaMos | 2026
// jwt_test.go

package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lestrrat-go/jwx/v3/jwa"
	"github.com/lestrrat-go/jwx/v3/jwk"
	"github.com/lestrrat-go/jwx/v3/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/spendledger/internal/config"
	"github.com/carterperez-dev/spendledger/internal/core"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func newTestManager(t *testing.T, ttl time.Duration) *TokenManager {
	t.Helper()
	manager, err := NewTokenManager(config.AuthConfig{
		JWTSecret: testSecret,
		TokenTTL:  ttl,
	})
	require.NoError(t, err)
	return manager
}

func TestNewTokenManagerShortSecret(t *testing.T) {
	_, err := NewTokenManager(config.AuthConfig{
		JWTSecret: "too-short",
		TokenTTL:  time.Hour,
	})
	assert.Error(t, err)
}

func TestWebTokenRoundTrip(t *testing.T) {
	manager := newTestManager(t, time.Hour)
	userID := uuid.New().String()

	token, err := manager.CreateWebToken(userID)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	subject, err := manager.VerifyWebToken(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, userID, subject)
}

func TestVerifyWebTokenWrongSecret(t *testing.T) {
	minting := newTestManager(t, time.Hour)
	token, err := minting.CreateWebToken(uuid.New().String())
	require.NoError(t, err)

	verifying, err := NewTokenManager(config.AuthConfig{
		JWTSecret: "ffffffffffffffffffffffffffffffff",
		TokenTTL:  time.Hour,
	})
	require.NoError(t, err)

	_, err = verifying.VerifyWebToken(context.Background(), token)
	assert.ErrorIs(t, err, core.ErrTokenInvalid)
}

func TestVerifyWebTokenExpired(t *testing.T) {
	manager := newTestManager(t, -time.Minute)
	token, err := manager.CreateWebToken(uuid.New().String())
	require.NoError(t, err)

	_, err = manager.VerifyWebToken(context.Background(), token)
	assert.ErrorIs(t, err, core.ErrTokenExpired)
}

func TestVerifyWebTokenGarbage(t *testing.T) {
	manager := newTestManager(t, time.Hour)

	for _, token := range []string{
		"",
		"not.a.jwt",
		"eyJhbGciOiJub25lIn0.e30.",
	} {
		_, err := manager.VerifyWebToken(context.Background(), token)
		assert.ErrorIs(t, err, core.ErrTokenInvalid, "token %q", token)
	}
}

// Tokens signed with the right key but the wrong shape are rejected: a
// missing or foreign token_type claim, an absent subject, or a subject that
// is not a user ID.
func TestVerifyWebTokenClaimShape(t *testing.T) {
	manager := newTestManager(t, time.Hour)

	key, err := jwk.Import([]byte(testSecret))
	require.NoError(t, err)
	require.NoError(t, key.Set(jwk.AlgorithmKey, jwa.HS256()))

	sign := func(t *testing.T, builder *jwt.Builder) string {
		t.Helper()
		token, err := builder.Build()
		require.NoError(t, err)
		signed, err := jwt.Sign(token, jwt.WithKey(jwa.HS256(), key))
		require.NoError(t, err)
		return string(signed)
	}

	now := time.Now()

	cases := []struct {
		name    string
		builder *jwt.Builder
	}{
		{
			"missing token_type",
			jwt.NewBuilder().
				Subject(uuid.New().String()).
				IssuedAt(now).
				Expiration(now.Add(time.Hour)),
		},
		{
			"foreign token_type",
			jwt.NewBuilder().
				Subject(uuid.New().String()).
				IssuedAt(now).
				Expiration(now.Add(time.Hour)).
				Claim("token_type", "refresh"),
		},
		{
			"missing subject",
			jwt.NewBuilder().
				IssuedAt(now).
				Expiration(now.Add(time.Hour)).
				Claim("token_type", TokenTypeWeb),
		},
		{
			"malformed subject",
			jwt.NewBuilder().
				Subject("not-a-uuid").
				IssuedAt(now).
				Expiration(now.Add(time.Hour)).
				Claim("token_type", TokenTypeWeb),
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := manager.VerifyWebToken(
				context.Background(),
				sign(t, tc.builder),
			)
			assert.ErrorIs(t, err, core.ErrTokenInvalid)
		})
	}
}
