// AngelaMos | 2026
// entity.go

package budget

import (
	"time"
)

type Budget struct {
	ID          string    `db:"id"`
	GroupID     string    `db:"group_id"`
	CategoryID  string    `db:"category_id"`
	Amount      float64   `db:"amount"`
	PeriodYear  *int      `db:"period_year"`
	PeriodMonth *int      `db:"period_month"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}
