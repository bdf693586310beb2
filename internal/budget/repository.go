// AngelaMos | 2026
// repository.go

package budget

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/carterperez-dev/spendledger/internal/core"
)

type Repository interface {
	Create(ctx context.Context, b *Budget) error
	GetByID(ctx context.Context, id string) (*Budget, error)
	ListByGroup(ctx context.Context, groupID string) ([]Budget, error)
	Update(ctx context.Context, b *Budget) error
	Delete(ctx context.Context, id string) error
	CountByGroup(ctx context.Context, groupID string) (int, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, b *Budget) error {
	query := `
		INSERT INTO budgets (id, group_id, category_id, amount, period_year, period_month)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at`

	err := r.db.GetContext(ctx, b, query,
		b.ID,
		b.GroupID,
		b.CategoryID,
		b.Amount,
		b.PeriodYear,
		b.PeriodMonth,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return fmt.Errorf("create budget: %w", core.ErrDuplicateKey)
		}
		return fmt.Errorf("create budget: %w", err)
	}

	return nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Budget, error) {
	query := `
		SELECT id, group_id, category_id, amount, period_year, period_month,
		       created_at, updated_at
		FROM budgets
		WHERE id = $1`

	var b Budget
	err := r.db.GetContext(ctx, &b, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get budget: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get budget: %w", err)
	}

	return &b, nil
}

func (r *repository) ListByGroup(
	ctx context.Context,
	groupID string,
) ([]Budget, error) {
	query := `
		SELECT id, group_id, category_id, amount, period_year, period_month,
		       created_at, updated_at
		FROM budgets
		WHERE group_id = $1
		ORDER BY created_at`

	budgets := []Budget{}
	if err := r.db.SelectContext(ctx, &budgets, query, groupID); err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}

	return budgets, nil
}

func (r *repository) Update(ctx context.Context, b *Budget) error {
	query := `
		UPDATE budgets
		SET amount = $2, period_year = $3, period_month = $4, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	err := r.db.GetContext(ctx, &b.UpdatedAt, query,
		b.ID,
		b.Amount,
		b.PeriodYear,
		b.PeriodMonth,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("update budget: %w", core.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("update budget: %w", err)
	}

	return nil
}

func (r *repository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM budgets WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete budget: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete budget: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("delete budget: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) CountByGroup(
	ctx context.Context,
	groupID string,
) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM budgets WHERE group_id = $1`

	if err := r.db.GetContext(ctx, &count, query, groupID); err != nil {
		return 0, fmt.Errorf("count budgets: %w", err)
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
