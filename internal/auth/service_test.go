// AngelaMos | 2026
// service_test.go

package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/spendledger/internal/core"
)

type fakeUserProvider struct {
	byEmail   map[string]*UserInfo
	createErr error
}

func (f *fakeUserProvider) GetByEmail(
	ctx context.Context,
	email string,
) (*UserInfo, error) {
	user, ok := f.byEmail[email]
	if !ok {
		return nil, core.ErrNotFound
	}
	return user, nil
}

func (f *fakeUserProvider) Create(
	ctx context.Context,
	email, passwordHash, name string,
) (*UserInfo, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	if _, exists := f.byEmail[email]; exists {
		return nil, core.ErrDuplicateKey
	}
	user := &UserInfo{
		ID:           uuid.New().String(),
		Email:        email,
		Name:         name,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now(),
	}
	f.byEmail[email] = user
	return user, nil
}

func newTestService(t *testing.T, users *fakeUserProvider) *Service {
	t.Helper()
	return NewService(newTestManager(t, time.Hour), users)
}

func seedUser(t *testing.T, email, password string) *fakeUserProvider {
	t.Helper()
	hash, err := core.HashPassword(password)
	require.NoError(t, err)
	return &fakeUserProvider{byEmail: map[string]*UserInfo{
		email: {
			ID:           uuid.New().String(),
			Email:        email,
			Name:         "Angela",
			PasswordHash: hash,
			CreatedAt:    time.Now(),
		},
	}}
}

func TestLogin(t *testing.T) {
	users := seedUser(t, "angela@example.com", "hunter2hunter2")
	svc := newTestService(t, users)

	t.Run("valid credentials", func(t *testing.T) {
		resp, err := svc.Login(context.Background(), LoginRequest{
			Email:    "angela@example.com",
			Password: "hunter2hunter2",
		})
		require.NoError(t, err)
		assert.Equal(t, "angela@example.com", resp.User.Email)
		assert.Equal(t, "Bearer", resp.Token.TokenType)
		assert.NotEmpty(t, resp.Token.AccessToken)
		assert.Equal(t, 3600, resp.Token.ExpiresIn)

		// The minted token round-trips through verification.
		subject, err := svc.tokens.VerifyWebToken(
			context.Background(),
			resp.Token.AccessToken,
		)
		require.NoError(t, err)
		assert.Equal(t, resp.User.ID, subject)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login(context.Background(), LoginRequest{
			Email:    "angela@example.com",
			Password: "wrong",
		})
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	// Unknown accounts fail with the same error as a bad password.
	t.Run("unknown email", func(t *testing.T) {
		_, err := svc.Login(context.Background(), LoginRequest{
			Email:    "nobody@example.com",
			Password: "hunter2hunter2",
		})
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestRegister(t *testing.T) {
	t.Run("new account", func(t *testing.T) {
		users := &fakeUserProvider{byEmail: map[string]*UserInfo{}}
		svc := newTestService(t, users)

		resp, err := svc.Register(context.Background(), RegisterRequest{
			Email:    "new@example.com",
			Password: "a-long-enough-password",
			Name:     "New User",
		})
		require.NoError(t, err)
		assert.Equal(t, "new@example.com", resp.User.Email)
		assert.NotEmpty(t, resp.Token.AccessToken)

		// The stored hash verifies against the original password.
		stored := users.byEmail["new@example.com"]
		require.NotNil(t, stored)
		valid, err := core.VerifyPassword("a-long-enough-password", stored.PasswordHash)
		require.NoError(t, err)
		assert.True(t, valid)
	})

	t.Run("duplicate email", func(t *testing.T) {
		users := seedUser(t, "taken@example.com", "hunter2hunter2")
		svc := newTestService(t, users)

		_, err := svc.Register(context.Background(), RegisterRequest{
			Email:    "taken@example.com",
			Password: "another-password",
			Name:     "Impostor",
		})
		assert.ErrorIs(t, err, ErrEmailExists)
	})
}
