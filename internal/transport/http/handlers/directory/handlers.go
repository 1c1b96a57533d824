package directoryhandler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"thrive/internal/domain/auth"
	"thrive/internal/domain/directory"
	"thrive/internal/platform/requestctx"
	"thrive/internal/transport/http/api"
	"thrive/internal/transport/http/middleware"
)

type Handler struct {
	Directory *directory.Service
}

func NewHandler(dir *directory.Service) *Handler {
	return &Handler{Directory: dir}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/directory", func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Get("/me", h.HandleMe)
		r.With(middleware.RequireRoles(auth.RoleAdmin)).Get("/users", h.HandleListUsers)
		r.Get("/users/{userID}", h.HandleGetUser)
	})
}

type profileResponse struct {
	User    directory.User   `json:"user"`
	Manager *directory.User  `json:"manager,omitempty"`
	Reports []directory.User `json:"directReports"`
}

func (h *Handler) HandleMe(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())

	profile, err := h.buildProfile(r, user.UserID)
	if err != nil {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "user no longer exists", requestctx.GetRequestID(r.Context()))
		return
	}
	api.Success(w, profile, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) HandleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.Directory.ListUsers(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "internal_error", "failed to list users", requestctx.GetRequestID(r.Context()))
		return
	}
	api.Success(w, users, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) HandleGetUser(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	targetID := chi.URLParam(r, "userID")

	target, err := h.Directory.GetUser(r.Context(), targetID)
	if err != nil {
		if errors.Is(err, directory.ErrNotFound) {
			api.Fail(w, http.StatusNotFound, "not_found", "user not found", requestctx.GetRequestID(r.Context()))
			return
		}
		api.Fail(w, http.StatusInternalServerError, "internal_error", "failed to load user", requestctx.GetRequestID(r.Context()))
		return
	}

	if !h.mayView(r, user, target) {
		api.Fail(w, http.StatusForbidden, "forbidden", "profile is not visible to you", requestctx.GetRequestID(r.Context()))
		return
	}

	profile, err := h.buildProfile(r, target.ID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "internal_error", "failed to load user", requestctx.GetRequestID(r.Context()))
		return
	}
	api.Success(w, profile, requestctx.GetRequestID(r.Context()))
}

// mayView: self, your own manager, your direct reports, or admin.
func (h *Handler) mayView(r *http.Request, caller auth.UserContext, target directory.User) bool {
	if caller.Role == auth.RoleAdmin || caller.UserID == target.ID {
		return true
	}
	if target.ManagerID == caller.UserID {
		return true
	}
	callerManager, err := h.Directory.ManagerID(r.Context(), caller.UserID)
	return err == nil && callerManager == target.ID
}

func (h *Handler) buildProfile(r *http.Request, userID string) (profileResponse, error) {
	user, err := h.Directory.GetUser(r.Context(), userID)
	if err != nil {
		return profileResponse{}, err
	}

	profile := profileResponse{User: user, Reports: []directory.User{}}
	if user.ManagerID != "" {
		if manager, err := h.Directory.GetUser(r.Context(), user.ManagerID); err == nil {
			profile.Manager = &manager
		}
	}
	reports, err := h.Directory.DirectReports(r.Context(), userID)
	if err == nil && reports != nil {
		profile.Reports = reports
	}
	return profile, nil
}
