package developmenthandler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"thrive/internal/domain/auth"
	"thrive/internal/domain/development"
	"thrive/internal/domain/directory"
	"thrive/internal/domain/reports"
	"thrive/internal/platform/requestctx"
	"thrive/internal/transport/http/api"
	"thrive/internal/transport/http/middleware"
	"thrive/internal/transport/http/shared"
)

type Handler struct {
	Development *development.Service
	Directory   *directory.Service
	Reports     *reports.Service
}

func NewHandler(dev *development.Service, dir *directory.Service, rpt *reports.Service) *Handler {
	return &Handler{Development: dev, Directory: dir, Reports: rpt}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/development/goals", func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Get("/", h.HandleList)
		r.Post("/", h.HandleCreate)
		r.Get("/export", h.HandleExport)
		r.Get("/{goalID}", h.HandleGet)
		r.Patch("/{goalID}", h.HandleUpdate)
		r.Post("/{goalID}/comments", h.HandleAddComment)
	})
}

type createGoalRequest struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
	Category    string `json:"category" validate:"required,oneof=technical behavioral leadership language"`
	Priority    string `json:"priority" validate:"required,oneof=low medium high"`
	DueDate     string `json:"dueDate" validate:"required"`
}

type patchGoalRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Category    *string `json:"category"`
	Priority    *string `json:"priority"`
	Status      *string `json:"status"`
	Progress    *int    `json:"progress"`
	DueDate     *string `json:"dueDate"`
}

type commentRequest struct {
	Text string `json:"text" validate:"required"`
}

func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())

	var payload createGoalRequest
	issues, err := shared.DecodeAndValidate(r, &payload)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestctx.GetRequestID(r.Context()))
		return
	}
	if len(issues) > 0 {
		api.FailWithDetails(w, http.StatusBadRequest, "validation_error", "invalid goal", issues, requestctx.GetRequestID(r.Context()))
		return
	}

	dueDate, err := shared.ParseDate(payload.DueDate)
	if err != nil {
		api.FailWithDetails(w, http.StatusBadRequest, "validation_error", "invalid goal",
			[]shared.ValidationIssue{{Field: "dueDate", Reason: "must be RFC3339 or YYYY-MM-DD"}},
			requestctx.GetRequestID(r.Context()))
		return
	}

	goal, err := h.Development.AddGoal(r.Context(), user.UserID, development.NewGoal{
		Title:       payload.Title,
		Description: payload.Description,
		Category:    payload.Category,
		Priority:    payload.Priority,
		DueDate:     dueDate,
	})
	if err != nil {
		failDevelopment(w, r, err)
		return
	}
	api.Created(w, goal, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	goal, ok := h.authorizedGoal(w, r)
	if !ok {
		return
	}
	api.Success(w, goal, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	goal, ok := h.authorizedGoal(w, r)
	if !ok {
		return
	}

	var payload patchGoalRequest
	if _, err := shared.DecodeAndValidate(r, &payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestctx.GetRequestID(r.Context()))
		return
	}

	patch := development.Patch{
		Title:       payload.Title,
		Description: payload.Description,
		Category:    payload.Category,
		Priority:    payload.Priority,
		Status:      payload.Status,
		Progress:    payload.Progress,
	}
	if payload.DueDate != nil {
		dueDate, err := shared.ParseDate(*payload.DueDate)
		if err != nil || dueDate.IsZero() {
			api.FailWithDetails(w, http.StatusBadRequest, "validation_error", "invalid goal",
				[]shared.ValidationIssue{{Field: "dueDate", Reason: "must be RFC3339 or YYYY-MM-DD"}},
				requestctx.GetRequestID(r.Context()))
			return
		}
		patch.DueDate = &dueDate
	}

	updated, err := h.Development.UpdateGoal(r.Context(), goal.ID, patch)
	if err != nil {
		failDevelopment(w, r, err)
		return
	}
	api.Success(w, updated, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) HandleAddComment(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	goal, ok := h.authorizedGoal(w, r)
	if !ok {
		return
	}

	var payload commentRequest
	issues, err := shared.DecodeAndValidate(r, &payload)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestctx.GetRequestID(r.Context()))
		return
	}
	if len(issues) > 0 {
		api.FailWithDetails(w, http.StatusBadRequest, "validation_error", "invalid comment", issues, requestctx.GetRequestID(r.Context()))
		return
	}

	author, err := h.Directory.GetUser(r.Context(), user.UserID)
	if err != nil {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "user no longer exists", requestctx.GetRequestID(r.Context()))
		return
	}

	comment, err := h.Development.AddComment(r.Context(), goal.ID, author.ID, author.Name, payload.Text)
	if err != nil {
		failDevelopment(w, r, err)
		return
	}
	api.Created(w, comment, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	requested := r.URL.Query().Get("userId")

	var filter development.Filter
	switch user.Role {
	case auth.RoleAdmin:
		filter.OwnerID = requested
	case auth.RoleManager:
		reportsList, err := h.Directory.DirectReports(r.Context(), user.UserID)
		if err != nil {
			api.Fail(w, http.StatusInternalServerError, "internal_error", "failed to resolve team", requestctx.GetRequestID(r.Context()))
			return
		}
		visible := []string{user.UserID}
		for _, report := range reportsList {
			visible = append(visible, report.ID)
		}
		if requested != "" {
			if !contains(visible, requested) {
				api.Fail(w, http.StatusForbidden, "forbidden", "user is outside your team", requestctx.GetRequestID(r.Context()))
				return
			}
			filter.OwnerID = requested
		} else {
			filter.OwnerIDs = visible
		}
	default:
		if requested != "" && requested != user.UserID {
			api.Fail(w, http.StatusForbidden, "forbidden", "employees may only list their own goals", requestctx.GetRequestID(r.Context()))
			return
		}
		filter.OwnerID = user.UserID
	}

	goals, err := h.Development.ListGoals(r.Context(), filter)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "internal_error", "failed to list goals", requestctx.GetRequestID(r.Context()))
		return
	}
	api.Success(w, goals, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) HandleExport(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())

	pdf, err := h.Reports.DevelopmentPlanPDF(r.Context(), user.UserID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "internal_error", "failed to render plan", requestctx.GetRequestID(r.Context()))
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="development-plan.pdf"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(pdf)
}

// authorizedGoal loads the goal and enforces the access rule shared by the
// single-goal routes: owner, owner's direct manager, or admin.
func (h *Handler) authorizedGoal(w http.ResponseWriter, r *http.Request) (development.Goal, bool) {
	user, _ := middleware.GetUser(r.Context())
	goalID := chi.URLParam(r, "goalID")

	goal, err := h.Development.GetGoal(r.Context(), goalID)
	if err != nil {
		failDevelopment(w, r, err)
		return development.Goal{}, false
	}

	if user.Role == auth.RoleAdmin || goal.OwnerID == user.UserID {
		return goal, true
	}
	if user.Role == auth.RoleManager {
		manages, err := h.Directory.IsManagerOf(r.Context(), user.UserID, goal.OwnerID)
		if err == nil && manages {
			return goal, true
		}
	}
	api.Fail(w, http.StatusForbidden, "forbidden", "goal belongs to another user", requestctx.GetRequestID(r.Context()))
	return development.Goal{}, false
}

func failDevelopment(w http.ResponseWriter, r *http.Request, err error) {
	var verr *development.ValidationError
	switch {
	case errors.Is(err, development.ErrNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "goal not found", requestctx.GetRequestID(r.Context()))
	case errors.As(err, &verr):
		api.FailWithDetails(w, http.StatusBadRequest, "validation_error", "invalid goal",
			[]shared.ValidationIssue{{Field: verr.Field, Reason: verr.Reason}},
			requestctx.GetRequestID(r.Context()))
	default:
		api.Fail(w, http.StatusInternalServerError, "internal_error", "unexpected error", requestctx.GetRequestID(r.Context()))
	}
}

func contains(values []string, target string) bool {
	for _, value := range values {
		if value == target {
			return true
		}
	}
	return false
}
