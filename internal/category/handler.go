// AngelaMos | 2026
// handler.go

package category

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

// Authorizer is the group scope guard as handlers see it.
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
	r.Route("/groups/{groupID}/categories", func(r chi.Router) {
		r.Post("/", h.Create)
		r.Get("/", h.List)
		r.Put("/{categoryID}", h.Update)
		r.Delete("/{categoryID}", h.Delete)
	})
}

type CreateCategoryRequest struct {
	Name        string  `json:"name"        validate:"required,min=1,max=100"`
	Description *string `json:"description" validate:"omitempty,max=500"`
	Custom      bool    `json:"custom"`
}

type UpdateCategoryRequest struct {
	Name        string  `json:"name"        validate:"required,min=1,max=100"`
	Description *string `json:"description" validate:"omitempty,max=500"`
}

type CategoryResponse struct {
	ID          string    `json:"id"`
	GroupID     string    `json:"group_id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	Custom      bool      `json:"custom"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	groupID, ok := h.authorize(w, r)
	if !ok {
		return
	}

	sub := middleware.GetSubscription(r.Context())
	if sub == nil {
		core.Unauthorized(w, "")
		return
	}

	var req CreateCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	c, err := h.service.Create(
		r.Context(),
		groupID,
		req.Name,
		sub.Tier,
		req.Description,
		req.Custom,
	)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.Created(w, toResponse(c))
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	groupID, ok := h.authorize(w, r)
	if !ok {
		return
	}

	categories, err := h.service.ListByGroup(r.Context(), groupID)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	out := make([]CategoryResponse, 0, len(categories))
	for i := range categories {
		out = append(out, toResponse(&categories[i]))
	}

	core.OK(w, out)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	groupID, ok := h.authorize(w, r)
	if !ok {
		return
	}

	categoryID := chi.URLParam(r, "categoryID")
	if _, err := uuid.Parse(categoryID); err != nil {
		core.BadRequest(w, "invalid category identifier")
		return
	}

	var req UpdateCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	c, err := h.service.Update(
		r.Context(),
		categoryID,
		req.Name,
		req.Description,
	)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "category")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	if c.GroupID != groupID {
		core.NotFound(w, "category")
		return
	}

	core.OK(w, toResponse(c))
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	groupID, ok := h.authorize(w, r)
	if !ok {
		return
	}

	categoryID := chi.URLParam(r, "categoryID")
	if _, err := uuid.Parse(categoryID); err != nil {
		core.BadRequest(w, "invalid category identifier")
		return
	}

	c, err := h.service.GetByID(r.Context(), categoryID)
	if err != nil || c.GroupID != groupID {
		core.NotFound(w, "category")
		return
	}

	if err := h.service.Delete(r.Context(), categoryID); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "category")
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

func toResponse(c *Category) CategoryResponse {
	return CategoryResponse{
		ID:          c.ID,
		GroupID:     c.GroupID,
		Name:        c.Name,
		Description: c.Description,
		Custom:      c.Custom,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}
