// AngelaMos | 2026
// handler.go

package binding

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/carterperez-dev/spendledger/internal/core"
	"github.com/carterperez-dev/spendledger/internal/middleware"
)

type Authorizer interface {
	Authorize(
		ctx context.Context,
		ac *middleware.AuthContext,
		groupID string,
	) error
}

type Handler struct {
	service   *Service
	guard     Authorizer
	validator *validator.Validate
}

func NewHandler(service *Service, guard Authorizer) *Handler {
	return &Handler{
		service:   service,
		guard:     guard,
		validator: validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/groups/{groupID}/bindings", func(r chi.Router) {
		r.Post("/", h.Create)
		r.Get("/", h.List)
		r.Delete("/{bindingID}", h.Revoke)
	})
}

type CreateBindingRequest struct {
	Platform    string `json:"platform"     validate:"required,oneof=telegram discord slack"`
	PlatformUID string `json:"platform_uid" validate:"required,min=1,max=255"`
}

type BindingResponse struct {
	ID          string     `json:"id"`
	GroupID     string     `json:"group_id"`
	Platform    string     `json:"platform"`
	PlatformUID string     `json:"platform_uid"`
	Status      string     `json:"status"`
	BoundBy     string     `json:"bound_by"`
	BoundAt     time.Time  `json:"bound_at"`
	RevokedAt   *time.Time `json:"revoked_at,omitempty"`
}

// Create binds a chat identity to the group. Only web principals may manage
// bindings; a relay must not be able to mint its own credentials.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	ac := middleware.GetAuthContext(r.Context())
	if ac == nil || ac.Source != middleware.SourceWeb {
		core.Unauthorized(w, "")
		return
	}

	groupID, ok := h.authorize(w, r)
	if !ok {
		return
	}

	var req CreateBindingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	b, err := h.service.Create(
		r.Context(),
		groupID,
		req.Platform,
		req.PlatformUID,
		ac.UserID,
	)
	if err != nil {
		if errors.Is(err, core.ErrDuplicateKey) {
			core.JSONError(w, core.DuplicateError("binding"))
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.Created(w, toResponse(b))
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	groupID, ok := h.authorize(w, r)
	if !ok {
		return
	}

	bindings, err := h.service.ListByGroup(r.Context(), groupID)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	out := make([]BindingResponse, 0, len(bindings))
	for i := range bindings {
		out = append(out, toResponse(&bindings[i]))
	}

	core.OK(w, out)
}

func (h *Handler) Revoke(w http.ResponseWriter, r *http.Request) {
	ac := middleware.GetAuthContext(r.Context())
	if ac == nil || ac.Source != middleware.SourceWeb {
		core.Unauthorized(w, "")
		return
	}

	groupID, ok := h.authorize(w, r)
	if !ok {
		return
	}

	bindingID := chi.URLParam(r, "bindingID")
	if _, err := uuid.Parse(bindingID); err != nil {
		core.BadRequest(w, "invalid binding identifier")
		return
	}

	b, err := h.service.Get(r.Context(), bindingID)
	if err != nil || b.GroupID != groupID {
		core.NotFound(w, "binding")
		return
	}

	if err := h.service.Revoke(r.Context(), bindingID); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "binding")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.NoContent(w)
}

func (h *Handler) authorize(
	w http.ResponseWriter,
	r *http.Request,
) (string, bool) {
	groupID := chi.URLParam(r, "groupID")
	if _, err := uuid.Parse(groupID); err != nil {
		core.BadRequest(w, "invalid group identifier")
		return "", false
	}

	ac := middleware.GetAuthContext(r.Context())
	if err := h.guard.Authorize(r.Context(), ac, groupID); err != nil {
		core.JSONError(w, err)
		return "", false
	}

	return groupID, true
}

func toResponse(b *ChatBinding) BindingResponse {
	return BindingResponse{
		ID:          b.ID,
		GroupID:     b.GroupID,
		Platform:    b.Platform,
		PlatformUID: b.PlatformUID,
		Status:      b.Status,
		BoundBy:     b.BoundBy,
		BoundAt:     b.BoundAt,
		RevokedAt:   b.RevokedAt,
	}
}
