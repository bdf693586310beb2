// AngelaMos | 2026
// service.go

package subscription

import (
	"context"
	"errors"
	"fmt"

	"github.com/carterperez-dev/spendledger/internal/core"
	"github.com/carterperez-dev/spendledger/internal/middleware"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// LoadOrProvision satisfies middleware.SubscriptionLoader. First-time users
// get a Free active subscription on the spot.
func (s *Service) LoadOrProvision(
	ctx context.Context,
	userID string,
) (*middleware.Subscription, error) {
	sub, err := s.repo.GetCurrent(ctx, userID)
	if errors.Is(err, core.ErrNotFound) {
		sub, err = s.repo.CreateIfAbsent(ctx, userID, TierFree, StatusActive)
	}
	if err != nil {
		return nil, fmt.Errorf("load subscription: %w", err)
	}

	return toGateSubscription(sub), nil
}

func (s *Service) GetForUser(
	ctx context.Context,
	userID string,
) (*Subscription, error) {
	return s.repo.GetCurrent(ctx, userID)
}

func toGateSubscription(sub *Subscription) *middleware.Subscription {
	return &middleware.Subscription{
		ID:                 sub.ID,
		UserID:             sub.UserID,
		Tier:               sub.Tier,
		Status:             sub.Status,
		CurrentPeriodStart: sub.CurrentPeriodStart,
		CurrentPeriodEnd:   sub.CurrentPeriodEnd,
		CancelAtPeriodEnd:  sub.CancelAtPeriodEnd,
	}
}
