// AngelaMos | 2026
// service.go

package budget

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

func (s *Service) Create(
	ctx context.Context,
	groupID, categoryID, tier string,
	amount float64,
	periodYear, periodMonth *int,
) (*Budget, error) {
	count, err := s.repo.CountByGroup(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("create budget: %w", err)
	}

	if err := subscription.CheckLimit(
		tier,
		subscription.ResourceBudgets,
		count,
	); err != nil {
		return nil, subscription.LimitError(tier, err)
	}

	b := &Budget{
		ID:          uuid.New().String(),
		GroupID:     groupID,
		CategoryID:  categoryID,
		Amount:      amount,
		PeriodYear:  periodYear,
		PeriodMonth: periodMonth,
	}

	if err := s.repo.Create(ctx, b); err != nil {
		return nil, err
	}

	return b, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (*Budget, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListByGroup(
	ctx context.Context,
	groupID string,
) ([]Budget, error) {
	return s.repo.ListByGroup(ctx, groupID)
}

func (s *Service) Update(
	ctx context.Context,
	id string,
	amount float64,
	periodYear, periodMonth *int,
) (*Budget, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	b.Amount = amount
	b.PeriodYear = periodYear
	b.PeriodMonth = periodMonth

	if err := s.repo.Update(ctx, b); err != nil {
		return nil, err
	}

	return b, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
