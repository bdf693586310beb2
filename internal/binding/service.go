// AngelaMos | 2026
// service.go

package binding

import (
	"context"

	"github.com/google/uuid"

	"github.com/carterperez-dev/spendledger/internal/middleware"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(
	ctx context.Context,
	groupID, platform, platformUID, boundBy string,
) (*ChatBinding, error) {
	b := &ChatBinding{
		ID:          uuid.New().String(),
		GroupID:     groupID,
		Platform:    platform,
		PlatformUID: platformUID,
		Status:      StatusActive,
		BoundBy:     boundBy,
	}

	if err := s.repo.Create(ctx, b); err != nil {
		return nil, err
	}

	return b, nil
}

func (s *Service) Get(ctx context.Context, id string) (*ChatBinding, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) ListByGroup(
	ctx context.Context,
	groupID string,
) ([]ChatBinding, error) {
	return s.repo.ListByGroup(ctx, groupID)
}

func (s *Service) Revoke(ctx context.Context, id string) error {
	return s.repo.Revoke(ctx, id)
}

// GetBinding satisfies middleware.BindingStore.
func (s *Service) GetBinding(
	ctx context.Context,
	id string,
) (*middleware.ChatBinding, error) {
	b, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	return &middleware.ChatBinding{
		ID:        b.ID,
		GroupID:   b.GroupID,
		BoundBy:   b.BoundBy,
		Status:    b.Status,
		RevokedAt: b.RevokedAt,
	}, nil
}
