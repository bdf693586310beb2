// AngelaMos | 2026
// guard_test.go

package group

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/spendledger/internal/core"
	"github.com/carterperez-dev/spendledger/internal/middleware"
)

type fakeOwnerLookup struct {
	owners map[string]string
	err    error
}

func (f *fakeOwnerLookup) GetOwner(
	ctx context.Context,
	groupID string,
) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	owner, ok := f.owners[groupID]
	if !ok {
		return "", core.ErrNotFound
	}
	return owner, nil
}

func assertUnauthorized(t *testing.T, err error) {
	t.Helper()
	var appErr *core.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, http.StatusUnauthorized, appErr.Status)
}

func TestGuardWeb(t *testing.T) {
	ownerID := uuid.New().String()
	groupID := uuid.New().String()
	guard := NewGuard(&fakeOwnerLookup{
		owners: map[string]string{groupID: ownerID},
	})

	t.Run("owner allowed", func(t *testing.T) {
		err := guard.Authorize(context.Background(), &middleware.AuthContext{
			Source: middleware.SourceWeb,
			UserID: ownerID,
		}, groupID)
		assert.NoError(t, err)
	})

	t.Run("non-owner rejected", func(t *testing.T) {
		err := guard.Authorize(context.Background(), &middleware.AuthContext{
			Source: middleware.SourceWeb,
			UserID: uuid.New().String(),
		}, groupID)
		assertUnauthorized(t, err)
	})

	t.Run("absent group is not found", func(t *testing.T) {
		err := guard.Authorize(context.Background(), &middleware.AuthContext{
			Source: middleware.SourceWeb,
			UserID: ownerID,
		}, uuid.New().String())

		var appErr *core.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, http.StatusNotFound, appErr.Status)
	})

	t.Run("lookup failure surfaces", func(t *testing.T) {
		broken := NewGuard(&fakeOwnerLookup{err: errors.New("store offline")})
		err := broken.Authorize(context.Background(), &middleware.AuthContext{
			Source: middleware.SourceWeb,
			UserID: ownerID,
		}, groupID)

		require.Error(t, err)
		assert.False(t, core.IsAppError(err))
	})
}

func TestGuardChat(t *testing.T) {
	groupID := uuid.New().String()
	// Chat authorization never consults the owner store.
	guard := NewGuard(&fakeOwnerLookup{err: errors.New("must not be called")})

	t.Run("bound group allowed", func(t *testing.T) {
		err := guard.Authorize(context.Background(), &middleware.AuthContext{
			Source:  middleware.SourceChat,
			UserID:  uuid.New().String(),
			GroupID: groupID,
		}, groupID)
		assert.NoError(t, err)
	})

	t.Run("other group rejected", func(t *testing.T) {
		err := guard.Authorize(context.Background(), &middleware.AuthContext{
			Source:  middleware.SourceChat,
			UserID:  uuid.New().String(),
			GroupID: groupID,
		}, uuid.New().String())
		assertUnauthorized(t, err)
	})
}

func TestGuardNoPrincipal(t *testing.T) {
	guard := NewGuard(&fakeOwnerLookup{})

	t.Run("nil context", func(t *testing.T) {
		err := guard.Authorize(context.Background(), nil, uuid.New().String())
		assertUnauthorized(t, err)
	})

	t.Run("unknown source", func(t *testing.T) {
		err := guard.Authorize(context.Background(), &middleware.AuthContext{
			Source: "carrier-pigeon",
			UserID: uuid.New().String(),
		}, uuid.New().String())
		assertUnauthorized(t, err)
	})
}
