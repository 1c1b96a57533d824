package reportshandler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"thrive/internal/domain/auth"
	"thrive/internal/domain/reports"
	"thrive/internal/platform/metrics"
	"thrive/internal/platform/requestctx"
	"thrive/internal/transport/http/api"
	"thrive/internal/transport/http/middleware"
)

type Handler struct {
	Reports *reports.Service
	Metrics *metrics.Collector
}

func NewHandler(rpt *reports.Service, collector *metrics.Collector) *Handler {
	return &Handler{Reports: rpt, Metrics: collector}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.With(middleware.RequireAuth).Get("/reports/summary", h.HandleSummary)
	r.With(middleware.RequireRoles(auth.RoleAdmin)).Get("/metrics", h.HandleMetrics)
}

func (h *Handler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())

	summary, err := h.Reports.UserSummary(r.Context(), user.UserID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "internal_error", "failed to build summary", requestctx.GetRequestID(r.Context()))
		return
	}
	api.Success(w, summary, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) HandleMetrics(w http.ResponseWriter, r *http.Request) {
	api.Success(w, h.Metrics.Snapshot(), requestctx.GetRequestID(r.Context()))
}
