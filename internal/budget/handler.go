// AngelaMos | 2026
// handler.go

package budget

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
	r.Route("/groups/{groupID}/budgets", func(r chi.Router) {
		r.Post("/", h.Create)
		r.Get("/", h.List)
		r.Put("/{budgetID}", h.Update)
		r.Delete("/{budgetID}", h.Delete)
	})
}

type CreateBudgetRequest struct {
	CategoryID  string  `json:"category_id"  validate:"required,uuid"`
	Amount      float64 `json:"amount"       validate:"required,gt=0"`
	PeriodYear  *int    `json:"period_year"  validate:"omitempty,min=2000,max=2100"`
	PeriodMonth *int    `json:"period_month" validate:"omitempty,min=1,max=12"`
}

type UpdateBudgetRequest struct {
	Amount      float64 `json:"amount"       validate:"required,gt=0"`
	PeriodYear  *int    `json:"period_year"  validate:"omitempty,min=2000,max=2100"`
	PeriodMonth *int    `json:"period_month" validate:"omitempty,min=1,max=12"`
}

type BudgetResponse struct {
	ID          string    `json:"id"`
	GroupID     string    `json:"group_id"`
	CategoryID  string    `json:"category_id"`
	Amount      float64   `json:"amount"`
	PeriodYear  *int      `json:"period_year,omitempty"`
	PeriodMonth *int      `json:"period_month,omitempty"`
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

	var req CreateBudgetRequest
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
		req.CategoryID,
		sub.Tier,
		req.Amount,
		req.PeriodYear,
		req.PeriodMonth,
	)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.Created(w, toResponse(b))
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	groupID, ok := h.authorize(w, r)
	if !ok {
		return
	}

	budgets, err := h.service.ListByGroup(r.Context(), groupID)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	out := make([]BudgetResponse, 0, len(budgets))
	for i := range budgets {
		out = append(out, toResponse(&budgets[i]))
	}

	core.OK(w, out)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	groupID, ok := h.authorize(w, r)
	if !ok {
		return
	}

	budgetID := chi.URLParam(r, "budgetID")
	if _, err := uuid.Parse(budgetID); err != nil {
		core.BadRequest(w, "invalid budget identifier")
		return
	}

	var req UpdateBudgetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	b, err := h.service.Update(
		r.Context(),
		budgetID,
		req.Amount,
		req.PeriodYear,
		req.PeriodMonth,
	)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "budget")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	if b.GroupID != groupID {
		core.NotFound(w, "budget")
		return
	}

	core.OK(w, toResponse(b))
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	groupID, ok := h.authorize(w, r)
	if !ok {
		return
	}

	budgetID := chi.URLParam(r, "budgetID")
	if _, err := uuid.Parse(budgetID); err != nil {
		core.BadRequest(w, "invalid budget identifier")
		return
	}

	b, err := h.service.GetByID(r.Context(), budgetID)
	if err != nil || b.GroupID != groupID {
		core.NotFound(w, "budget")
		return
	}

	if err := h.service.Delete(r.Context(), budgetID); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "budget")
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

func toResponse(b *Budget) BudgetResponse {
	return BudgetResponse{
		ID:          b.ID,
		GroupID:     b.GroupID,
		CategoryID:  b.CategoryID,
		Amount:      b.Amount,
		PeriodYear:  b.PeriodYear,
		PeriodMonth: b.PeriodMonth,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}
}
