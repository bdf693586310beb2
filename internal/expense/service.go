// AngelaMos | 2026
// service.go

package expense

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/carterperez-dev/spendledger/internal/subscription"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create enforces the per-month entry quota for the group's calendar month.
func (s *Service) Create(
	ctx context.Context,
	groupID, categoryID, createdBy, tier string,
	price float64,
	product string,
) (*Expense, error) {
	count, err := s.repo.CountForMonth(ctx, groupID, time.Now())
	if err != nil {
		return nil, fmt.Errorf("create expense: %w", err)
	}

	if err := subscription.CheckLimit(
		tier,
		subscription.ResourceExpensesMonthly,
		count,
	); err != nil {
		return nil, subscription.LimitError(tier, err)
	}

	e := &Expense{
		ID:         uuid.New().String(),
		GroupID:    groupID,
		CategoryID: categoryID,
		Price:      price,
		Product:    product,
		CreatedBy:  createdBy,
	}

	if err := s.repo.Create(ctx, e); err != nil {
		return nil, err
	}

	return e, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (*Expense, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListByGroup(
	ctx context.Context,
	groupID string,
	limit, offset int,
) ([]Expense, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.ListByGroup(ctx, groupID, limit, offset)
}

func (s *Service) Update(
	ctx context.Context,
	id, categoryID string,
	price float64,
	product string,
) (*Expense, error) {
	e, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	e.Price = price
	e.Product = product
	e.CategoryID = categoryID

	if err := s.repo.Update(ctx, e); err != nil {
		return nil, err
	}

	return e, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// Export returns every entry in the window for CSV serialization. Gated by
// the export_data feature.
func (s *Service) Export(
	ctx context.Context,
	groupID, tier string,
	from, to time.Time,
) ([]Expense, error) {
	if err := subscription.CheckFeatureAccess(
		tier,
		subscription.FeatureExportData,
	); err != nil {
		return nil, subscription.LimitError(tier, err)
	}

	return s.repo.ListInWindow(ctx, groupID, from, to)
}

type Report struct {
	GroupID string          `json:"group_id"`
	From    time.Time       `json:"from"`
	To      time.Time       `json:"to"`
	Total   float64         `json:"total"`
	ByCat   []CategoryTotal `json:"by_category"`
}

// Report aggregates spending by category. Gated by advanced_reports.
func (s *Service) Report(
	ctx context.Context,
	groupID, tier string,
	from, to time.Time,
) (*Report, error) {
	if err := subscription.CheckFeatureAccess(
		tier,
		subscription.FeatureAdvancedReports,
	); err != nil {
		return nil, subscription.LimitError(tier, err)
	}

	totals, err := s.repo.TotalsByCategory(ctx, groupID, from, to)
	if err != nil {
		return nil, err
	}

	var total float64
	for _, t := range totals {
		total += t.Total
	}

	return &Report{
		GroupID: groupID,
		From:    from,
		To:      to,
		Total:   total,
		ByCat:   totals,
	}, nil
}
