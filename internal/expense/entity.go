// AngelaMos | 2026
// entity.go

package expense

import (
	"time"
)

type Expense struct {
	ID         string    `db:"id"`
	GroupID    string    `db:"group_id"`
	CategoryID string    `db:"category_id"`
	Price      float64   `db:"price"`
	Product    string    `db:"product"`
	CreatedBy  string    `db:"created_by"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
}

// CategoryTotal is one row of the per-category spending report.
type CategoryTotal struct {
	CategoryID   string  `db:"category_id"   json:"category_id"`
	CategoryName string  `db:"category_name" json:"category_name"`
	Total        float64 `db:"total"         json:"total"`
	Count        int     `db:"count"         json:"count"`
}
