// AngelaMos | 2026
// auth.go

package middleware

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/carterperez-dev/spendledger/internal/core"
)

const (
	HeaderRelaySignature = "X-Relay-Signature"
	HeaderChatBinding    = "X-Chat-Binding"
)

const (
	AuthContextKey contextKey = "auth_context"
	UserIDKey      contextKey = "user_id"
)

// Source identifies which credential class authenticated a request.
type Source string

const (
	SourceWeb  Source = "web"
	SourceChat Source = "chat"
)

// AuthContext is the normalized principal attached to every authenticated
// request. GroupID is set only for chat-relay callers, which are pre-bound to
// a single expense group; web callers are checked per call instead.
type AuthContext struct {
	Source  Source
	UserID  string
	GroupID string
}

// TokenVerifier validates a web bearer token and returns the subject user id.
type TokenVerifier interface {
	VerifyWebToken(ctx context.Context, token string) (string, error)
}

// ChatBinding is the slice of a persisted binding record the verifier reads.
type ChatBinding struct {
	ID        string
	GroupID   string
	BoundBy   string
	Status    string
	RevokedAt *time.Time
}

func (b *ChatBinding) Usable() bool {
	return b.Status == "active" && b.RevokedAt == nil
}

// BindingStore looks up a chat binding by id. Implementations run the read in
// its own short transaction; not-found is reported as core.ErrNotFound.
type BindingStore interface {
	GetBinding(ctx context.Context, id string) (*ChatBinding, error)
}

// errNotPresented signals that a strategy's credential headers were absent,
// so the next strategy should be consulted. Any other error is a definitive
// rejection.
var errNotPresented = errors.New("credential not presented")

// CredentialStrategy authenticates one credential class. It may return a
// replacement request when verification had to consume the body.
type CredentialStrategy interface {
	Authenticate(r *http.Request) (*AuthContext, *http.Request, error)
}

type bearerStrategy struct {
	verifier TokenVerifier
}

func (s *bearerStrategy) Authenticate(
	r *http.Request,
) (*AuthContext, *http.Request, error) {
	token := ExtractToken(r)
	if token == "" {
		return nil, r, errNotPresented
	}

	// A presented bearer token is decided here; there is no fallback to the
	// relay strategy for a request that carried an Authorization header.
	userID, err := s.verifier.VerifyWebToken(r.Context(), token)
	if err != nil {
		return nil, r, err
	}

	return &AuthContext{Source: SourceWeb, UserID: userID}, r, nil
}

type relayStrategy struct {
	secret   []byte
	bindings BindingStore
}

func (s *relayStrategy) Authenticate(
	r *http.Request,
) (*AuthContext, *http.Request, error) {
	sig := r.Header.Get(HeaderRelaySignature)
	bindingID := r.Header.Get(HeaderChatBinding)
	if sig == "" || bindingID == "" {
		return nil, r, errNotPresented
	}

	// The signature covers the raw bytes, so the whole body is materialized
	// before any JSON decoding can happen.
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, r, core.BadRequestError("unable to read request body")
	}
	//nolint:errcheck // original body is fully consumed
	_ = r.Body.Close()

	if !core.VerifyBodySignature(s.secret, body, sig) {
		return nil, r, core.UnauthorizedError("")
	}

	if _, err := uuid.Parse(bindingID); err != nil {
		return nil, r, core.BadRequestError("invalid binding identifier")
	}

	binding, err := s.bindings.GetBinding(r.Context(), bindingID)
	if err != nil {
		// Absent binding and lookup failure collapse to unauthorized; the
		// caller learns nothing beyond the credential being rejected.
		return nil, r, core.UnauthorizedError("")
	}

	if !binding.Usable() {
		return nil, r, core.UnauthorizedError("")
	}

	r.Body = io.NopCloser(bytes.NewReader(body))
	r.ContentLength = int64(len(body))

	return &AuthContext{
		Source:  SourceChat,
		UserID:  binding.BoundBy,
		GroupID: binding.GroupID,
	}, r, nil
}

var publicPaths = map[string]struct{}{
	"/healthz":          {},
	"/livez":            {},
	"/readyz":           {},
	"/version":          {},
	"/v1/auth/login":    {},
	"/v1/auth/register": {},
	"/openapi.json":     {},
}

const docsPrefix = "/docs"

func IsPublicPath(path string) bool {
	if _, ok := publicPaths[path]; ok {
		return true
	}
	return strings.HasPrefix(path, docsPrefix)
}

// Authenticator builds the request gate: an ordered list of credential
// strategies, tried until one claims the request. Public paths bypass the
// gate entirely; a request no strategy claims is rejected without touching
// any store.
func Authenticator(
	verifier TokenVerifier,
	bindings BindingStore,
	relaySecret []byte,
) func(http.Handler) http.Handler {
	strategies := []CredentialStrategy{
		&bearerStrategy{verifier: verifier},
		&relayStrategy{secret: relaySecret, bindings: bindings},
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if IsPublicPath(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			for _, strategy := range strategies {
				authCtx, r2, err := strategy.Authenticate(r)
				if errors.Is(err, errNotPresented) {
					continue
				}
				if err != nil {
					handleAuthError(w, err)
					return
				}

				ctx := r2.Context()
				ctx = context.WithValue(ctx, AuthContextKey, authCtx)
				ctx = context.WithValue(ctx, UserIDKey, authCtx.UserID)

				next.ServeHTTP(w, r2.WithContext(ctx))
				return
			}

			core.JSONError(w, core.UnauthorizedError("missing credentials"))
		})
	}
}

func ExtractToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}

	return strings.TrimSpace(parts[1])
}

func handleAuthError(w http.ResponseWriter, err error) {
	if core.IsAppError(err) {
		core.JSONError(w, err)
		return
	}

	switch {
	case errors.Is(err, core.ErrTokenExpired):
		core.JSONError(w, core.TokenExpiredError())
	case errors.Is(err, core.ErrTokenInvalid):
		core.JSONError(w, core.TokenInvalidError())
	default:
		core.JSONError(w, core.TokenInvalidError())
	}
}

func GetAuthContext(ctx context.Context) *AuthContext {
	if ac, ok := ctx.Value(AuthContextKey).(*AuthContext); ok {
		return ac
	}
	return nil
}

func GetUserID(ctx context.Context) string {
	if id, ok := ctx.Value(UserIDKey).(string); ok {
		return id
	}
	return ""
}

func IsAuthenticated(ctx context.Context) bool {
	return GetUserID(ctx) != ""
}
