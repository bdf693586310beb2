// AngelaMos | 2026
// entity.go

package subscription

import (
	"time"
)

type Subscription struct {
	ID                 string     `db:"id"`
	UserID             string     `db:"user_id"`
	Tier               string     `db:"tier"`
	Status             string     `db:"status"`
	CurrentPeriodStart *time.Time `db:"current_period_start"`
	CurrentPeriodEnd   *time.Time `db:"current_period_end"`
	CancelAtPeriodEnd  bool       `db:"cancel_at_period_end"`
	CreatedAt          time.Time  `db:"created_at"`
	UpdatedAt          time.Time  `db:"updated_at"`
}

const StatusActive = "active"
