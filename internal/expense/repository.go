// AngelaMos | 2026
// repository.go

package expense

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/carterperez-dev/spendledger/internal/core"
)

type Repository interface {
	Create(ctx context.Context, e *Expense) error
	GetByID(ctx context.Context, id string) (*Expense, error)
	ListByGroup(ctx context.Context, groupID string, limit, offset int) ([]Expense, error)
	ListInWindow(ctx context.Context, groupID string, from, to time.Time) ([]Expense, error)
	Update(ctx context.Context, e *Expense) error
	Delete(ctx context.Context, id string) error
	CountForMonth(ctx context.Context, groupID string, at time.Time) (int, error)
	TotalsByCategory(ctx context.Context, groupID string, from, to time.Time) ([]CategoryTotal, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, e *Expense) error {
	query := `
		INSERT INTO expense_entries (id, group_id, category_id, price, product, created_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at`

	err := r.db.GetContext(ctx, e, query,
		e.ID,
		e.GroupID,
		e.CategoryID,
		e.Price,
		e.Product,
		e.CreatedBy,
	)
	if err != nil {
		return fmt.Errorf("create expense: %w", err)
	}

	return nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Expense, error) {
	query := `
		SELECT id, group_id, category_id, price, product, created_by,
		       created_at, updated_at
		FROM expense_entries
		WHERE id = $1`

	var e Expense
	err := r.db.GetContext(ctx, &e, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get expense: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get expense: %w", err)
	}

	return &e, nil
}

func (r *repository) ListByGroup(
	ctx context.Context,
	groupID string,
	limit, offset int,
) ([]Expense, error) {
	query := `
		SELECT id, group_id, category_id, price, product, created_by,
		       created_at, updated_at
		FROM expense_entries
		WHERE group_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`

	expenses := []Expense{}
	err := r.db.SelectContext(ctx, &expenses, query, groupID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}

	return expenses, nil
}

func (r *repository) ListInWindow(
	ctx context.Context,
	groupID string,
	from, to time.Time,
) ([]Expense, error) {
	query := `
		SELECT id, group_id, category_id, price, product, created_by,
		       created_at, updated_at
		FROM expense_entries
		WHERE group_id = $1
		  AND created_at >= $2
		  AND created_at < $3
		ORDER BY created_at`

	expenses := []Expense{}
	err := r.db.SelectContext(ctx, &expenses, query, groupID, from, to)
	if err != nil {
		return nil, fmt.Errorf("list expenses in window: %w", err)
	}

	return expenses, nil
}

func (r *repository) Update(ctx context.Context, e *Expense) error {
	query := `
		UPDATE expense_entries
		SET price = $2, product = $3, category_id = $4, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	err := r.db.GetContext(ctx, &e.UpdatedAt, query,
		e.ID,
		e.Price,
		e.Product,
		e.CategoryID,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("update expense: %w", core.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("update expense: %w", err)
	}

	return nil
}

func (r *repository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(
		ctx,
		`DELETE FROM expense_entries WHERE id = $1`,
		id,
	)
	if err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("delete expense: %w", core.ErrNotFound)
	}

	return nil
}

// CountForMonth counts entries created in the calendar month containing at.
func (r *repository) CountForMonth(
	ctx context.Context,
	groupID string,
	at time.Time,
) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM expense_entries
		WHERE group_id = $1
		  AND created_at >= date_trunc('month', $2::timestamptz)
		  AND created_at <  date_trunc('month', $2::timestamptz) + interval '1 month'`

	var count int
	if err := r.db.GetContext(ctx, &count, query, groupID, at); err != nil {
		return 0, fmt.Errorf("count expenses: %w", err)
	}

	return count, nil
}

func (r *repository) TotalsByCategory(
	ctx context.Context,
	groupID string,
	from, to time.Time,
) ([]CategoryTotal, error) {
	query := `
		SELECT e.category_id,
		       c.name AS category_name,
		       COALESCE(SUM(e.price), 0) AS total,
		       COUNT(*) AS count
		FROM expense_entries e
		JOIN categories c ON c.id = e.category_id
		WHERE e.group_id = $1
		  AND e.created_at >= $2
		  AND e.created_at < $3
		GROUP BY e.category_id, c.name
		ORDER BY total DESC`

	totals := []CategoryTotal{}
	err := r.db.SelectContext(ctx, &totals, query, groupID, from, to)
	if err != nil {
		return nil, fmt.Errorf("category totals: %w", err)
	}

	return totals, nil
}
