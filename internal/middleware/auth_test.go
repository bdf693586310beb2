// AngelaMos | 2026
// auth_test.go

package middleware

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/spendledger/internal/core"
)

type fakeVerifier struct {
	userID string
	err    error
}

func (f *fakeVerifier) VerifyWebToken(
	ctx context.Context,
	token string,
) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.userID, nil
}

type fakeBindingStore struct {
	binding *ChatBinding
	err     error
	calls   int
}

func (f *fakeBindingStore) GetBinding(
	ctx context.Context,
	id string,
) (*ChatBinding, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.binding, nil
}

var relaySecret = []byte("test-relay-secret")

func newGate(
	verifier TokenVerifier,
	store BindingStore,
	next http.Handler,
) http.Handler {
	return Authenticator(verifier, store, relaySecret)(next)
}

func captureContext(t *testing.T, got **AuthContext) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*got = GetAuthContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthenticatorBearerAccepted(t *testing.T) {
	userID := uuid.New().String()
	var got *AuthContext

	gate := newGate(
		&fakeVerifier{userID: userID},
		&fakeBindingStore{},
		captureContext(t, &got),
	)

	req := httptest.NewRequest(http.MethodGet, "/v1/groups", nil)
	req.Header.Set("Authorization", "Bearer some-token")
	rec := httptest.NewRecorder()

	gate.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, got)
	assert.Equal(t, SourceWeb, got.Source)
	assert.Equal(t, userID, got.UserID)
	assert.Empty(t, got.GroupID)
}

func TestAuthenticatorBearerRejected(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"expired", core.ErrTokenExpired, http.StatusUnauthorized},
		{"invalid", core.ErrTokenInvalid, http.StatusUnauthorized},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			gate := newGate(
				&fakeVerifier{err: tc.err},
				&fakeBindingStore{},
				http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					t.Fatal("handler must not run")
				}),
			)

			req := httptest.NewRequest(http.MethodGet, "/v1/groups", nil)
			req.Header.Set("Authorization", "Bearer bad-token")
			rec := httptest.NewRecorder()

			gate.ServeHTTP(rec, req)

			assert.Equal(t, tc.want, rec.Code)
		})
	}
}

// A request that carries an Authorization header is decided by the bearer
// strategy alone; relay headers on the same request are never consulted.
func TestAuthenticatorBearerIsDefinitive(t *testing.T) {
	store := &fakeBindingStore{}
	gate := newGate(
		&fakeVerifier{err: core.ErrTokenInvalid},
		store,
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("handler must not run")
		}),
	)

	body := `{"product":"coffee"}`
	req := httptest.NewRequest(
		http.MethodPost,
		"/v1/groups",
		strings.NewReader(body),
	)
	req.Header.Set("Authorization", "Bearer bad-token")
	req.Header.Set(
		HeaderRelaySignature,
		core.EncodeSignatureHeader(relaySecret, []byte(body)),
	)
	req.Header.Set(HeaderChatBinding, uuid.New().String())
	rec := httptest.NewRecorder()

	gate.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Zero(t, store.calls)
}

func activeBinding(id string) *ChatBinding {
	return &ChatBinding{
		ID:      id,
		GroupID: uuid.New().String(),
		BoundBy: uuid.New().String(),
		Status:  "active",
	}
}

func TestAuthenticatorRelayAccepted(t *testing.T) {
	bindingID := uuid.New().String()
	binding := activeBinding(bindingID)
	store := &fakeBindingStore{binding: binding}

	body := `{"price":4.5,"product":"coffee"}`
	var got *AuthContext
	var seenBody string

	gate := newGate(
		&fakeVerifier{},
		store,
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got = GetAuthContext(r.Context())
			raw, err := io.ReadAll(r.Body)
			require.NoError(t, err)
			seenBody = string(raw)
			w.WriteHeader(http.StatusOK)
		}),
	)

	req := httptest.NewRequest(
		http.MethodPost,
		"/v1/groups/"+binding.GroupID+"/expenses",
		strings.NewReader(body),
	)
	req.Header.Set(
		HeaderRelaySignature,
		core.EncodeSignatureHeader(relaySecret, []byte(body)),
	)
	req.Header.Set(HeaderChatBinding, bindingID)
	rec := httptest.NewRecorder()

	gate.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, got)
	assert.Equal(t, SourceChat, got.Source)
	assert.Equal(t, binding.BoundBy, got.UserID)
	assert.Equal(t, binding.GroupID, got.GroupID)

	// The handler sees the same bytes the signature covered.
	assert.Equal(t, body, seenBody)
}

func TestAuthenticatorRelayMutatedBody(t *testing.T) {
	bindingID := uuid.New().String()
	store := &fakeBindingStore{binding: activeBinding(bindingID)}

	body := []byte(`{"price":4.5,"product":"coffee"}`)
	sig := core.EncodeSignatureHeader(relaySecret, body)

	mutated := make([]byte, len(body))
	copy(mutated, body)
	mutated[10] ^= 0x01

	gate := newGate(
		&fakeVerifier{},
		store,
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("handler must not run")
		}),
	)

	req := httptest.NewRequest(
		http.MethodPost,
		"/v1/groups",
		strings.NewReader(string(mutated)),
	)
	req.Header.Set(HeaderRelaySignature, sig)
	req.Header.Set(HeaderChatBinding, bindingID)
	rec := httptest.NewRecorder()

	gate.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	// Signature fails before any store lookup.
	assert.Zero(t, store.calls)
}

func TestAuthenticatorRelayRevokedBinding(t *testing.T) {
	revokedAt := time.Now().Add(-time.Hour)

	cases := []struct {
		name    string
		binding *ChatBinding
	}{
		{
			"status revoked",
			&ChatBinding{Status: "revoked"},
		},
		{
			"revocation timestamp set",
			&ChatBinding{Status: "active", RevokedAt: &revokedAt},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store := &fakeBindingStore{binding: tc.binding}
			gate := newGate(
				&fakeVerifier{},
				store,
				http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					t.Fatal("handler must not run")
				}),
			)

			body := `{}`
			req := httptest.NewRequest(
				http.MethodPost,
				"/v1/groups",
				strings.NewReader(body),
			)
			req.Header.Set(
				HeaderRelaySignature,
				core.EncodeSignatureHeader(relaySecret, []byte(body)),
			)
			req.Header.Set(HeaderChatBinding, uuid.New().String())
			rec := httptest.NewRecorder()

			gate.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}

func TestAuthenticatorRelayMalformedBindingID(t *testing.T) {
	store := &fakeBindingStore{}
	gate := newGate(
		&fakeVerifier{},
		store,
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("handler must not run")
		}),
	)

	body := `{}`
	req := httptest.NewRequest(
		http.MethodPost,
		"/v1/groups",
		strings.NewReader(body),
	)
	req.Header.Set(
		HeaderRelaySignature,
		core.EncodeSignatureHeader(relaySecret, []byte(body)),
	)
	req.Header.Set(HeaderChatBinding, "definitely-not-a-uuid")
	rec := httptest.NewRecorder()

	gate.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Zero(t, store.calls)
}

func TestAuthenticatorRelayUnknownBinding(t *testing.T) {
	store := &fakeBindingStore{err: core.ErrNotFound}
	gate := newGate(
		&fakeVerifier{},
		store,
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("handler must not run")
		}),
	)

	body := `{}`
	req := httptest.NewRequest(
		http.MethodPost,
		"/v1/groups",
		strings.NewReader(body),
	)
	req.Header.Set(
		HeaderRelaySignature,
		core.EncodeSignatureHeader(relaySecret, []byte(body)),
	)
	req.Header.Set(HeaderChatBinding, uuid.New().String())
	rec := httptest.NewRecorder()

	gate.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticatorNoCredentials(t *testing.T) {
	store := &fakeBindingStore{}
	gate := newGate(
		&fakeVerifier{},
		store,
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("handler must not run")
		}),
	)

	req := httptest.NewRequest(http.MethodGet, "/v1/groups", nil)
	rec := httptest.NewRecorder()

	gate.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	// Rejection happens without any database work.
	assert.Zero(t, store.calls)
}

func TestAuthenticatorPublicPaths(t *testing.T) {
	gate := newGate(
		&fakeVerifier{err: core.ErrTokenInvalid},
		&fakeBindingStore{err: core.ErrNotFound},
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}),
	)

	for _, path := range []string{
		"/healthz",
		"/livez",
		"/readyz",
		"/version",
		"/v1/auth/login",
		"/v1/auth/register",
		"/openapi.json",
		"/docs/index.html",
	} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()

		gate.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code, "path %s", path)
	}
}

func TestExtractToken(t *testing.T) {
	cases := []struct {
		name   string
		header string
		want   string
	}{
		{"empty", "", ""},
		{"bearer", "Bearer abc123", "abc123"},
		{"case insensitive scheme", "bearer abc123", "abc123"},
		{"wrong scheme", "Basic abc123", ""},
		{"no token", "Bearer", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			assert.Equal(t, tc.want, ExtractToken(req))
		})
	}
}
