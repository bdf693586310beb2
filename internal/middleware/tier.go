// AngelaMos | 2026
// tier.go

package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/carterperez-dev/spendledger/internal/core"
)

const SubscriptionKey contextKey = "subscription"

// Subscription is the billing view the gate needs to decide pass or 402.
// Status is a two-state gate here: "active" passes, anything else blocks,
// whatever the billing reason behind it.
type Subscription struct {
	ID                 string
	UserID             string
	Tier               string
	Status             string
	CurrentPeriodStart *time.Time
	CurrentPeriodEnd   *time.Time
	CancelAtPeriodEnd  bool
}

func (s *Subscription) Active(now time.Time) bool {
	if s.Status != "active" {
		return false
	}
	if s.CurrentPeriodEnd != nil && s.CurrentPeriodEnd.Before(now) {
		return false
	}
	return true
}

// SubscriptionLoader resolves a principal's subscription, provisioning a
// free-tier record on first sight.
type SubscriptionLoader interface {
	LoadOrProvision(ctx context.Context, userID string) (*Subscription, error)
}

// SubscriptionGate loads the caller's subscription and blocks with 402 when
// it is inactive or past its billing period. Requests without an AuthContext
// (public paths) pass through untouched. The resolved subscription is placed
// in the request context for handler-level limit checks.
func SubscriptionGate(
	loader SubscriptionLoader,
	upgradeURL string,
) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authCtx := GetAuthContext(r.Context())
			if authCtx == nil {
				next.ServeHTTP(w, r)
				return
			}

			sub, err := loader.LoadOrProvision(r.Context(), authCtx.UserID)
			if err != nil {
				core.InternalServerError(w, err)
				return
			}

			if sub.Status != "active" {
				writePaymentRequired(w,
					"Subscription inactive",
					"Your subscription is not active. Please renew your subscription.",
					upgradeURL,
				)
				return
			}

			if sub.CurrentPeriodEnd != nil &&
				sub.CurrentPeriodEnd.Before(time.Now()) {
				writePaymentRequired(w,
					"Subscription expired",
					"Your subscription has expired. Please renew your subscription.",
					upgradeURL,
				)
				return
			}

			ctx := context.WithValue(r.Context(), SubscriptionKey, sub)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func GetSubscription(ctx context.Context) *Subscription {
	if sub, ok := ctx.Value(SubscriptionKey).(*Subscription); ok {
		return sub
	}
	return nil
}

type paymentRequiredBody struct {
	Error      string `json:"error"`
	Message    string `json:"message"`
	UpgradeURL string `json:"upgrade_url"`
}

func writePaymentRequired(w http.ResponseWriter, errStr, message, url string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusPaymentRequired)
	//nolint:errcheck // best-effort response write
	_ = json.NewEncoder(w).Encode(paymentRequiredBody{
		Error:      errStr,
		Message:    message,
		UpgradeURL: url,
	})
}
