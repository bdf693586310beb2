// AngelaMos | 2026
// repository.go

package group

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"

	"github.com/carterperez-dev/spendledger/internal/core"
)

type Repository interface {
	Create(ctx context.Context, g *Group) error
	GetByID(ctx context.Context, id string) (*Group, error)
	GetOwner(ctx context.Context, id string) (string, error)
	ListForUser(ctx context.Context, userID string) ([]Group, error)
	UpdateName(ctx context.Context, id, name string) (*Group, error)
	Delete(ctx context.Context, id string) error
	CountByOwner(ctx context.Context, ownerID string) (int, error)

	AddMember(ctx context.Context, groupID, userID string) error
	RemoveMember(ctx context.Context, groupID, userID string) error
	ListMembers(ctx context.Context, groupID string) ([]Member, error)
	CountMembers(ctx context.Context, groupID string) (int, error)
}

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, g *Group) error {
	err := core.InTx(ctx, r.db, func(tx *sqlx.Tx) error {
		query := `
			INSERT INTO expense_groups (id, name, owner_id)
			VALUES ($1, $2, $3)
			RETURNING created_at, updated_at`

		if err := tx.GetContext(ctx, g, query, g.ID, g.Name, g.OwnerID); err != nil {
			return err
		}

		memberQuery := `
			INSERT INTO group_members (group_id, user_id)
			VALUES ($1, $2)`

		_, err := tx.ExecContext(ctx, memberQuery, g.ID, g.OwnerID)
		return err
	})
	if err != nil {
		if isDuplicateKeyError(err) {
			return fmt.Errorf("create group: %w", core.ErrDuplicateKey)
		}
		return fmt.Errorf("create group: %w", err)
	}

	return nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Group, error) {
	query := `
		SELECT id, name, owner_id, created_at, updated_at
		FROM expense_groups
		WHERE id = $1`

	var g Group
	err := r.db.GetContext(ctx, &g, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get group: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get group: %w", err)
	}

	return &g, nil
}

// GetOwner runs in its own short read transaction so the connection is
// released promptly whether or not the caller's authorization check passes.
func (r *repository) GetOwner(ctx context.Context, id string) (string, error) {
	var ownerID string

	err := core.InReadTx(ctx, r.db, func(tx *sqlx.Tx) error {
		query := `SELECT owner_id FROM expense_groups WHERE id = $1`
		return tx.GetContext(ctx, &ownerID, query, id)
	})
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("get group owner: %w", core.ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("get group owner: %w", err)
	}

	return ownerID, nil
}

func (r *repository) ListForUser(
	ctx context.Context,
	userID string,
) ([]Group, error) {
	query := `
		SELECT g.id, g.name, g.owner_id, g.created_at, g.updated_at
		FROM expense_groups g
		JOIN group_members m ON m.group_id = g.id
		WHERE m.user_id = $1
		ORDER BY g.created_at`

	groups := []Group{}
	if err := r.db.SelectContext(ctx, &groups, query, userID); err != nil {
		return nil, fmt.Errorf("list groups: %w", err)
	}

	return groups, nil
}

func (r *repository) UpdateName(
	ctx context.Context,
	id, name string,
) (*Group, error) {
	query := `
		UPDATE expense_groups
		SET name = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING id, name, owner_id, created_at, updated_at`

	var g Group
	err := r.db.GetContext(ctx, &g, query, id, name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("update group: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("update group: %w", err)
	}

	return &g, nil
}

func (r *repository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(
		ctx,
		`DELETE FROM expense_groups WHERE id = $1`,
		id,
	)
	if err != nil {
		return fmt.Errorf("delete group: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete group: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("delete group: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) CountByOwner(
	ctx context.Context,
	ownerID string,
) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM expense_groups WHERE owner_id = $1`

	if err := r.db.GetContext(ctx, &count, query, ownerID); err != nil {
		return 0, fmt.Errorf("count groups: %w", err)
	}

	return count, nil
}

func (r *repository) AddMember(
	ctx context.Context,
	groupID, userID string,
) error {
	query := `
		INSERT INTO group_members (group_id, user_id)
		VALUES ($1, $2)`

	_, err := r.db.ExecContext(ctx, query, groupID, userID)
	if err != nil {
		if isDuplicateKeyError(err) {
			return fmt.Errorf("add member: %w", core.ErrDuplicateKey)
		}
		return fmt.Errorf("add member: %w", err)
	}

	return nil
}

func (r *repository) RemoveMember(
	ctx context.Context,
	groupID, userID string,
) error {
	query := `
		DELETE FROM group_members
		WHERE group_id = $1 AND user_id = $2`

	result, err := r.db.ExecContext(ctx, query, groupID, userID)
	if err != nil {
		return fmt.Errorf("remove member: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("remove member: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("remove member: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) ListMembers(
	ctx context.Context,
	groupID string,
) ([]Member, error) {
	query := `
		SELECT group_id, user_id, joined_at
		FROM group_members
		WHERE group_id = $1
		ORDER BY joined_at`

	members := []Member{}
	if err := r.db.SelectContext(ctx, &members, query, groupID); err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}

	return members, nil
}

func (r *repository) CountMembers(
	ctx context.Context,
	groupID string,
) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM group_members WHERE group_id = $1`

	if err := r.db.GetContext(ctx, &count, query, groupID); err != nil {
		return 0, fmt.Errorf("count members: %w", err)
	}

	return count, nil
}

func isDuplicateKeyError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
