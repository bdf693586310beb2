// AngelaMos | 2026
// service.go

package group

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/carterperez-dev/spendledger/internal/core"
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
	ownerID, name, tier string,
) (*Group, error) {
	count, err := s.repo.CountByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("create group: %w", err)
	}

	if err := subscription.CheckLimit(
		tier,
		subscription.ResourceGroups,
		count,
	); err != nil {
		return nil, subscription.LimitError(tier, err)
	}

	g := &Group{
		ID:      uuid.New().String(),
		Name:    name,
		OwnerID: ownerID,
	}

	if err := s.repo.Create(ctx, g); err != nil {
		return nil, err
	}

	return g, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (*Group, error) {
	return s.repo.GetByID(ctx, id)
}

// GetOwner satisfies OwnerLookup for the scope guard.
func (s *Service) GetOwner(ctx context.Context, id string) (string, error) {
	return s.repo.GetOwner(ctx, id)
}

func (s *Service) ListForUser(
	ctx context.Context,
	userID string,
) ([]Group, error) {
	return s.repo.ListForUser(ctx, userID)
}

func (s *Service) Rename(
	ctx context.Context,
	id, name string,
) (*Group, error) {
	return s.repo.UpdateName(ctx, id, name)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) AddMember(
	ctx context.Context,
	groupID, userID, tier string,
) error {
	count, err := s.repo.CountMembers(ctx, groupID)
	if err != nil {
		return fmt.Errorf("add member: %w", err)
	}

	if err := subscription.CheckLimit(
		tier,
		subscription.ResourceMembersPerGroup,
		count,
	); err != nil {
		return subscription.LimitError(tier, err)
	}

	if err := s.repo.AddMember(ctx, groupID, userID); err != nil {
		if errors.Is(err, core.ErrDuplicateKey) {
			return core.DuplicateError("member")
		}
		return err
	}

	return nil
}

func (s *Service) RemoveMember(
	ctx context.Context,
	groupID, userID string,
) error {
	return s.repo.RemoveMember(ctx, groupID, userID)
}

func (s *Service) ListMembers(
	ctx context.Context,
	groupID string,
) ([]Member, error) {
	return s.repo.ListMembers(ctx, groupID)
}
