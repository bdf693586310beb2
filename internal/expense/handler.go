// AngelaMos | 2026
// handler.go

package expense

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
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
	r.Route("/groups/{groupID}/expenses", func(r chi.Router) {
		r.Post("/", h.Create)
		r.Get("/", h.List)
		r.Get("/export", h.Export)
		r.Get("/report", h.Report)
		r.Put("/{expenseID}", h.Update)
		r.Delete("/{expenseID}", h.Delete)
	})
}

type CreateExpenseRequest struct {
	CategoryID string  `json:"category_id" validate:"required,uuid"`
	Price      float64 `json:"price"       validate:"required,gt=0"`
	Product    string  `json:"product"     validate:"required,min=1,max=255"`
}

type UpdateExpenseRequest struct {
	CategoryID string  `json:"category_id" validate:"required,uuid"`
	Price      float64 `json:"price"       validate:"required,gt=0"`
	Product    string  `json:"product"     validate:"required,min=1,max=255"`
}

type ExpenseResponse struct {
	ID         string    `json:"id"`
	GroupID    string    `json:"group_id"`
	CategoryID string    `json:"category_id"`
	Price      float64   `json:"price"`
	Product    string    `json:"product"`
	CreatedBy  string    `json:"created_by"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	groupID, ok := h.authorize(w, r)
	if !ok {
		return
	}

	ac := middleware.GetAuthContext(r.Context())
	sub := middleware.GetSubscription(r.Context())
	if ac == nil || sub == nil {
		core.Unauthorized(w, "")
		return
	}

	var req CreateExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	e, err := h.service.Create(
		r.Context(),
		groupID,
		req.CategoryID,
		ac.UserID,
		sub.Tier,
		req.Price,
		req.Product,
	)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.Created(w, toResponse(e))
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	groupID, ok := h.authorize(w, r)
	if !ok {
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	expenses, err := h.service.ListByGroup(r.Context(), groupID, limit, offset)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	out := make([]ExpenseResponse, 0, len(expenses))
	for i := range expenses {
		out = append(out, toResponse(&expenses[i]))
	}

	core.OK(w, out)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	groupID, ok := h.authorize(w, r)
	if !ok {
		return
	}

	expenseID := chi.URLParam(r, "expenseID")
	if _, err := uuid.Parse(expenseID); err != nil {
		core.BadRequest(w, "invalid expense identifier")
		return
	}

	var req UpdateExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	e, err := h.service.Update(
		r.Context(),
		expenseID,
		req.CategoryID,
		req.Price,
		req.Product,
	)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "expense")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	if e.GroupID != groupID {
		core.NotFound(w, "expense")
		return
	}

	core.OK(w, toResponse(e))
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	groupID, ok := h.authorize(w, r)
	if !ok {
		return
	}

	expenseID := chi.URLParam(r, "expenseID")
	if _, err := uuid.Parse(expenseID); err != nil {
		core.BadRequest(w, "invalid expense identifier")
		return
	}

	e, err := h.service.GetByID(r.Context(), expenseID)
	if err != nil || e.GroupID != groupID {
		core.NotFound(w, "expense")
		return
	}

	if err := h.service.Delete(r.Context(), expenseID); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "expense")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.NoContent(w)
}

// Export streams the window's entries as CSV.
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	groupID, ok := h.authorize(w, r)
	if !ok {
		return
	}

	sub := middleware.GetSubscription(r.Context())
	if sub == nil {
		core.Unauthorized(w, "")
		return
	}

	from, to, err := parseWindow(r)
	if err != nil {
		core.BadRequest(w, err.Error())
		return
	}

	expenses, err := h.service.Export(r.Context(), groupID, sub.Tier, from, to)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set(
		"Content-Disposition",
		fmt.Sprintf(`attachment; filename="expenses-%s.csv"`, groupID),
	)

	cw := csv.NewWriter(w)
	//nolint:errcheck // best-effort response write
	_ = cw.Write([]string{
		"id", "category_id", "price", "product", "created_by", "created_at",
	})

	for _, e := range expenses {
		//nolint:errcheck // best-effort response write
		_ = cw.Write([]string{
			e.ID,
			e.CategoryID,
			strconv.FormatFloat(e.Price, 'f', 2, 64),
			e.Product,
			e.CreatedBy,
			e.CreatedAt.Format(time.RFC3339),
		})
	}

	cw.Flush()
}

func (h *Handler) Report(w http.ResponseWriter, r *http.Request) {
	groupID, ok := h.authorize(w, r)
	if !ok {
		return
	}

	sub := middleware.GetSubscription(r.Context())
	if sub == nil {
		core.Unauthorized(w, "")
		return
	}

	from, to, err := parseWindow(r)
	if err != nil {
		core.BadRequest(w, err.Error())
		return
	}

	report, err := h.service.Report(r.Context(), groupID, sub.Tier, from, to)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, report)
}

// parseWindow reads optional from/to query parameters (RFC 3339), defaulting
// to the current calendar month.
func parseWindow(r *http.Request) (time.Time, time.Time, error) {
	now := time.Now()
	from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)

	if raw := r.URL.Query().Get("from"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return time.Time{}, time.Time{}, errors.New("invalid from timestamp")
		}
		from = parsed
	}

	if raw := r.URL.Query().Get("to"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return time.Time{}, time.Time{}, errors.New("invalid to timestamp")
		}
		to = parsed
	}

	if !from.Before(to) {
		return time.Time{}, time.Time{}, errors.New("from must precede to")
	}

	return from, to, nil
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

func toResponse(e *Expense) ExpenseResponse {
	return ExpenseResponse{
		ID:         e.ID,
		GroupID:    e.GroupID,
		CategoryID: e.CategoryID,
		Price:      e.Price,
		Product:    e.Product,
		CreatedBy:  e.CreatedBy,
		CreatedAt:  e.CreatedAt,
		UpdatedAt:  e.UpdatedAt,
	}
}
