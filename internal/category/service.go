// AngelaMos | 2026
// service.go

package category

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/carterperez-dev/spendledger/internal/subscription"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create enforces the per-group category quota and, for caller-defined
// categories, the custom-categories feature gate.
func (s *Service) Create(
	ctx context.Context,
	groupID, name, tier string,
	description *string,
	custom bool,
) (*Category, error) {
	if custom {
		if err := subscription.CheckFeatureAccess(
			tier,
			subscription.FeatureCustomCategories,
		); err != nil {
			return nil, subscription.LimitError(tier, err)
		}
	}

	count, err := s.repo.CountByGroup(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}

	if err := subscription.CheckLimit(
		tier,
		subscription.ResourceCategories,
		count,
	); err != nil {
		return nil, subscription.LimitError(tier, err)
	}

	c := &Category{
		ID:          uuid.New().String(),
		GroupID:     groupID,
		Name:        name,
		Description: description,
		Custom:      custom,
	}

	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}

	return c, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (*Category, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListByGroup(
	ctx context.Context,
	groupID string,
) ([]Category, error) {
	return s.repo.ListByGroup(ctx, groupID)
}

func (s *Service) Update(
	ctx context.Context,
	id, name string,
	description *string,
) (*Category, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	c.Name = name
	c.Description = description

	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}

	return c, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
