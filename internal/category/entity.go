// AngelaMos | 2026
// entity.go

package category

import (
	"time"
)

type Category struct {
	ID          string    `db:"id"`
	GroupID     string    `db:"group_id"`
	Name        string    `db:"name"`
	Description *string   `db:"description"`
	Custom      bool      `db:"custom"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}
