// AngelaMos | 2026
// handler.go

package subscription

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/carterperez-dev/spendledger/internal/core"
	"github.com/carterperez-dev/spendledger/internal/middleware"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/subscriptions", func(r chi.Router) {
		r.Get("/me", h.GetMe)
		r.Get("/tiers", h.ListTiers)
	})
}

type SubscriptionResponse struct {
	ID                 string     `json:"id"`
	Tier               string     `json:"tier"`
	Status             string     `json:"status"`
	CurrentPeriodStart *time.Time `json:"current_period_start,omitempty"`
	CurrentPeriodEnd   *time.Time `json:"current_period_end,omitempty"`
	CancelAtPeriodEnd  bool       `json:"cancel_at_period_end"`
	CreatedAt          time.Time  `json:"created_at"`
}

type TierResponse struct {
	Name          string          `json:"name"`
	DisplayName   string          `json:"display_name"`
	MonthlyPrice  float64         `json:"monthly_price"`
	Limits        map[string]int  `json:"limits"`
	Features      map[string]bool `json:"features"`
	RetentionDays int             `json:"retention_days"`
}

func (h *Handler) GetMe(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		core.Unauthorized(w, "")
		return
	}

	sub, err := h.service.GetForUser(r.Context(), userID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "subscription")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, SubscriptionResponse{
		ID:                 sub.ID,
		Tier:               sub.Tier,
		Status:             sub.Status,
		CurrentPeriodStart: sub.CurrentPeriodStart,
		CurrentPeriodEnd:   sub.CurrentPeriodEnd,
		CancelAtPeriodEnd:  sub.CancelAtPeriodEnd,
		CreatedAt:          sub.CreatedAt,
	})
}

func (h *Handler) ListTiers(w http.ResponseWriter, r *http.Request) {
	tiers := make([]TierResponse, 0, len(tierOrder))
	for _, name := range tierOrder {
		info := Catalog[name]
		tiers = append(tiers, TierResponse{
			Name:          info.Name,
			DisplayName:   info.DisplayName,
			MonthlyPrice:  info.MonthlyPrice,
			Limits:        info.Limits,
			Features:      info.Features,
			RetentionDays: info.RetentionDays,
		})
	}

	core.OK(w, tiers)
}
