// AngelaMos | 2026
// entity.go

package binding

import (
	"time"
)

const (
	StatusActive  = "active"
	StatusRevoked = "revoked"
)

// ChatBinding links a chat-platform identity to an expense group. Relay
// requests present the binding id as their credential scope.
type ChatBinding struct {
	ID          string     `db:"id"`
	GroupID     string     `db:"group_id"`
	Platform    string     `db:"platform"`
	PlatformUID string     `db:"platform_uid"`
	Status      string     `db:"status"`
	BoundBy     string     `db:"bound_by"`
	BoundAt     time.Time  `db:"bound_at"`
	RevokedAt   *time.Time `db:"revoked_at"`
}
