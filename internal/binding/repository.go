// AngelaMos | 2026
// repository.go

package binding

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
	Create(ctx context.Context, b *ChatBinding) error
	Get(ctx context.Context, id string) (*ChatBinding, error)
	ListByGroup(ctx context.Context, groupID string) ([]ChatBinding, error)
	Revoke(ctx context.Context, id string) error
}

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, b *ChatBinding) error {
	query := `
		INSERT INTO chat_bindings (id, group_id, platform, platform_uid, status, bound_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING bound_at`

	err := r.db.GetContext(ctx, &b.BoundAt, query,
		b.ID,
		b.GroupID,
		b.Platform,
		b.PlatformUID,
		b.Status,
		b.BoundBy,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return fmt.Errorf("create binding: %w", core.ErrDuplicateKey)
		}
		return fmt.Errorf("create binding: %w", err)
	}

	return nil
}

// Get runs in its own short read transaction; it sits on the hot path of
// every relay-authenticated request.
func (r *repository) Get(ctx context.Context, id string) (*ChatBinding, error) {
	var b ChatBinding

	err := core.InReadTx(ctx, r.db, func(tx *sqlx.Tx) error {
		query := `
			SELECT id, group_id, platform, platform_uid, status,
			       bound_by, bound_at, revoked_at
			FROM chat_bindings
			WHERE id = $1`

		return tx.GetContext(ctx, &b, query, id)
	})
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get binding: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get binding: %w", err)
	}

	return &b, nil
}

func (r *repository) ListByGroup(
	ctx context.Context,
	groupID string,
) ([]ChatBinding, error) {
	query := `
		SELECT id, group_id, platform, platform_uid, status,
		       bound_by, bound_at, revoked_at
		FROM chat_bindings
		WHERE group_id = $1
		ORDER BY bound_at`

	bindings := []ChatBinding{}
	if err := r.db.SelectContext(ctx, &bindings, query, groupID); err != nil {
		return nil, fmt.Errorf("list bindings: %w", err)
	}

	return bindings, nil
}

func (r *repository) Revoke(ctx context.Context, id string) error {
	query := `
		UPDATE chat_bindings
		SET status = $2, revoked_at = NOW()
		WHERE id = $1 AND revoked_at IS NULL`

	result, err := r.db.ExecContext(ctx, query, id, StatusRevoked)
	if err != nil {
		return fmt.Errorf("revoke binding: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("revoke binding: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("revoke binding: %w", core.ErrNotFound)
	}

	return nil
}

func isDuplicateKeyError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
