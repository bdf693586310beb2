// AngelaMos | 2026
// tier_test.go

package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSubscriptionLoader struct {
	sub *Subscription
	err error
}

func (f *fakeSubscriptionLoader) LoadOrProvision(
	ctx context.Context,
	userID string,
) (*Subscription, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.sub, nil
}

func authedRequest(t *testing.T) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/v1/groups", nil)
	ctx := context.WithValue(req.Context(), AuthContextKey, &AuthContext{
		Source: SourceWeb,
		UserID: uuid.New().String(),
	})
	return req.WithContext(ctx)
}

func TestSubscriptionGateActivePasses(t *testing.T) {
	periodEnd := time.Now().Add(24 * time.Hour)
	loader := &fakeSubscriptionLoader{sub: &Subscription{
		Tier:             "personal",
		Status:           "active",
		CurrentPeriodEnd: &periodEnd,
	}}

	var got *Subscription
	gate := SubscriptionGate(loader, "/billing/upgrade")(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got = GetSubscription(r.Context())
			w.WriteHeader(http.StatusOK)
		}),
	)

	rec := httptest.NewRecorder()
	gate.ServeHTTP(rec, authedRequest(t))

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, got)
	assert.Equal(t, "personal", got.Tier)
}

func TestSubscriptionGateNoAuthContextPassesThrough(t *testing.T) {
	loader := &fakeSubscriptionLoader{err: errors.New("must not be called")}
	gate := SubscriptionGate(loader, "/billing/upgrade")(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}),
	)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	gate.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSubscriptionGateInactive(t *testing.T) {
	loader := &fakeSubscriptionLoader{sub: &Subscription{
		Tier:   "personal",
		Status: "canceled",
	}}

	gate := SubscriptionGate(loader, "/billing/upgrade")(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("handler must not run")
		}),
	)

	rec := httptest.NewRecorder()
	gate.ServeHTTP(rec, authedRequest(t))

	require.Equal(t, http.StatusPaymentRequired, rec.Code)

	var body paymentRequiredBody
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "Subscription inactive", body.Error)
	assert.Equal(t, "/billing/upgrade", body.UpgradeURL)
	assert.NotEmpty(t, body.Message)
}

// A subscription whose billing period lapsed yesterday still authenticates,
// but every gated request is blocked with 402 until it is renewed.
func TestSubscriptionGateExpiredPeriod(t *testing.T) {
	periodEnd := time.Now().Add(-24 * time.Hour)
	loader := &fakeSubscriptionLoader{sub: &Subscription{
		Tier:             "family",
		Status:           "active",
		CurrentPeriodEnd: &periodEnd,
	}}

	gate := SubscriptionGate(loader, "/billing/upgrade")(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("handler must not run")
		}),
	)

	rec := httptest.NewRecorder()
	gate.ServeHTTP(rec, authedRequest(t))

	require.Equal(t, http.StatusPaymentRequired, rec.Code)

	var body paymentRequiredBody
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "Subscription expired", body.Error)
	assert.Equal(t, "/billing/upgrade", body.UpgradeURL)
}

func TestSubscriptionGateLoaderFailure(t *testing.T) {
	loader := &fakeSubscriptionLoader{err: errors.New("store offline")}
	gate := SubscriptionGate(loader, "/billing/upgrade")(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("handler must not run")
		}),
	)

	rec := httptest.NewRecorder()
	gate.ServeHTTP(rec, authedRequest(t))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestSubscriptionActive(t *testing.T) {
	now := time.Now()
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	cases := []struct {
		name string
		sub  Subscription
		want bool
	}{
		{"active no period", Subscription{Status: "active"}, true},
		{
			"active within period",
			Subscription{Status: "active", CurrentPeriodEnd: &future},
			true,
		},
		{
			"active past period",
			Subscription{Status: "active", CurrentPeriodEnd: &past},
			false,
		},
		{"canceled", Subscription{Status: "canceled"}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.sub.Active(now))
		})
	}
}
