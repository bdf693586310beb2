// AngelaMos | 2026
// guard.go

package group

import (
	"context"
	"errors"
	"fmt"

	"github.com/carterperez-dev/spendledger/internal/core"
	"github.com/carterperez-dev/spendledger/internal/middleware"
)

// OwnerLookup resolves a group's owning user. The production implementation
// is Repository.GetOwner; tests substitute fakes.
type OwnerLookup interface {
	GetOwner(ctx context.Context, groupID string) (string, error)
}

// Guard authorizes an authenticated principal against a target group.
// Chat principals are pre-bound to exactly one group at credential
// verification time; web principals are checked against the group's owner
// on every call. Scope failures collapse to the same unauthorized class as
// authentication failures so callers cannot probe which check tripped.
type Guard struct {
	owners OwnerLookup
}

func NewGuard(owners OwnerLookup) *Guard {
	return &Guard{owners: owners}
}

func (g *Guard) Authorize(
	ctx context.Context,
	ac *middleware.AuthContext,
	groupID string,
) error {
	if ac == nil {
		return core.UnauthorizedError("")
	}

	switch ac.Source {
	case middleware.SourceChat:
		if ac.GroupID != groupID {
			return core.UnauthorizedError("")
		}
		return nil

	case middleware.SourceWeb:
		ownerID, err := g.owners.GetOwner(ctx, groupID)
		if err != nil {
			if errors.Is(err, core.ErrNotFound) {
				return core.NotFoundError("group")
			}
			return fmt.Errorf("authorize group: %w", err)
		}

		if ownerID != ac.UserID {
			return core.UnauthorizedError("")
		}
		return nil

	default:
		return core.UnauthorizedError("")
	}
}
