// AngelaMos | 2026
// handler.go

package group

import (
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

type Handler struct {
	service   *Service
	guard     *Guard
	validator *validator.Validate
}

func NewHandler(service *Service, guard *Guard) *Handler {
	return &Handler{
		service:   service,
		guard:     guard,
		validator: validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/groups", func(r chi.Router) {
		r.Post("/", h.Create)
		r.Get("/", h.List)

		r.Route("/{groupID}", func(r chi.Router) {
			r.Get("/", h.Get)
			r.Put("/", h.Rename)
			r.Delete("/", h.Delete)

			r.Route("/members", func(r chi.Router) {
				r.Get("/", h.ListMembers)
				r.Post("/", h.AddMember)
				r.Delete("/{userID}", h.RemoveMember)
			})
		})
	})
}

type CreateGroupRequest struct {
	Name string `json:"name" validate:"required,min=1,max=100"`
}

type RenameGroupRequest struct {
	Name string `json:"name" validate:"required,min=1,max=100"`
}

type AddMemberRequest struct {
	UserID string `json:"user_id" validate:"required,uuid"`
}

type GroupResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	OwnerID   string    `json:"owner_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type MemberResponse struct {
	UserID   string    `json:"user_id"`
	JoinedAt time.Time `json:"joined_at"`
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	ac := middleware.GetAuthContext(r.Context())
	sub := middleware.GetSubscription(r.Context())
	if ac == nil || sub == nil {
		core.Unauthorized(w, "")
		return
	}

	var req CreateGroupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	g, err := h.service.Create(r.Context(), ac.UserID, req.Name, sub.Tier)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.Created(w, toResponse(g))
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	ac := middleware.GetAuthContext(r.Context())
	if ac == nil {
		core.Unauthorized(w, "")
		return
	}

	groups, err := h.service.ListForUser(r.Context(), ac.UserID)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	out := make([]GroupResponse, 0, len(groups))
	for i := range groups {
		out = append(out, toResponse(&groups[i]))
	}

	core.OK(w, out)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	groupID, ok := h.authorize(w, r)
	if !ok {
		return
	}

	g, err := h.service.GetByID(r.Context(), groupID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "group")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, toResponse(g))
}

func (h *Handler) Rename(w http.ResponseWriter, r *http.Request) {
	groupID, ok := h.authorize(w, r)
	if !ok {
		return
	}

	var req RenameGroupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	g, err := h.service.Rename(r.Context(), groupID, req.Name)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "group")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, toResponse(g))
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	groupID, ok := h.authorize(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), groupID); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "group")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.NoContent(w)
}

func (h *Handler) AddMember(w http.ResponseWriter, r *http.Request) {
	groupID, ok := h.authorize(w, r)
	if !ok {
		return
	}

	sub := middleware.GetSubscription(r.Context())
	if sub == nil {
		core.Unauthorized(w, "")
		return
	}

	var req AddMemberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	if err := h.service.AddMember(
		r.Context(),
		groupID,
		req.UserID,
		sub.Tier,
	); err != nil {
		core.JSONError(w, err)
		return
	}

	core.NoContent(w)
}

func (h *Handler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	groupID, ok := h.authorize(w, r)
	if !ok {
		return
	}

	userID := chi.URLParam(r, "userID")
	if _, err := uuid.Parse(userID); err != nil {
		core.BadRequest(w, "invalid user identifier")
		return
	}

	if err := h.service.RemoveMember(r.Context(), groupID, userID); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "member")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.NoContent(w)
}

func (h *Handler) ListMembers(w http.ResponseWriter, r *http.Request) {
	groupID, ok := h.authorize(w, r)
	if !ok {
		return
	}

	members, err := h.service.ListMembers(r.Context(), groupID)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	out := make([]MemberResponse, 0, len(members))
	for _, m := range members {
		out = append(out, MemberResponse{
			UserID:   m.UserID,
			JoinedAt: m.JoinedAt,
		})
	}

	core.OK(w, out)
}

// authorize parses the path group id and runs the scope guard. On failure it
// writes the error response and reports false.
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

func toResponse(g *Group) GroupResponse {
	return GroupResponse{
		ID:        g.ID,
		Name:      g.Name,
		OwnerID:   g.OwnerID,
		CreatedAt: g.CreatedAt,
		UpdatedAt: g.UpdatedAt,
	}
}
