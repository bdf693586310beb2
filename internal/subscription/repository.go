// AngelaMos | 2026
// repository.go

package subscription

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/carterperez-dev/spendledger/internal/core"
)

type Repository interface {
	GetCurrent(ctx context.Context, userID string) (*Subscription, error)
	CreateIfAbsent(
		ctx context.Context,
		userID, tier, status string,
	) (*Subscription, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

// GetCurrent returns the user's latest subscription regardless of status;
// the enforcement gate decides what an inactive record means.
func (r *repository) GetCurrent(
	ctx context.Context,
	userID string,
) (*Subscription, error) {
	query := `
		SELECT id, user_id, tier, status,
		       current_period_start, current_period_end,
		       cancel_at_period_end, created_at, updated_at
		FROM subscriptions
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT 1`

	var sub Subscription
	err := r.db.GetContext(ctx, &sub, query, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get subscription: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get subscription: %w", err)
	}

	return &sub, nil
}

// CreateIfAbsent atomically provisions a subscription for a first-time user.
// Concurrent callers race on the user_id uniqueness constraint; the loser's
// insert is a no-op and the re-read below returns the winner's row, so both
// callers observe success.
func (r *repository) CreateIfAbsent(
	ctx context.Context,
	userID, tier, status string,
) (*Subscription, error) {
	insert := `
		INSERT INTO subscriptions (id, user_id, tier, status)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id) DO NOTHING`

	_, err := r.db.ExecContext(ctx, insert, uuid.New().String(), userID, tier, status)
	if err != nil {
		return nil, fmt.Errorf("provision subscription: %w", err)
	}

	sub, err := r.GetCurrent(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("provision subscription: %w", err)
	}

	return sub, nil
}
