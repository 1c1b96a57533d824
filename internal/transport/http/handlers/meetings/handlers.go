package meetingshandler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"thrive/internal/domain/auth"
	"thrive/internal/domain/directory"
	"thrive/internal/domain/meetings"
	"thrive/internal/platform/requestctx"
	"thrive/internal/transport/http/api"
	"thrive/internal/transport/http/middleware"
	"thrive/internal/transport/http/shared"
)

type Handler struct {
	Meetings  *meetings.Service
	Directory *directory.Service
}

func NewHandler(mtg *meetings.Service, dir *directory.Service) *Handler {
	return &Handler{Meetings: mtg, Directory: dir}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/meetings", func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Get("/", h.HandleList)
		r.Post("/", h.HandleSchedule)
		r.Get("/{meetingID}", h.HandleGet)
		r.Patch("/{meetingID}", h.HandleUpdate)
	})
}

type scheduleRequest struct {
	EmployeeID  string   `json:"employeeId"`
	ManagerID   string   `json:"managerId"`
	ScheduledAt string   `json:"scheduledAt" validate:"required"`
	Topics      []string `json:"topics"`
	Notes       string   `json:"notes"`
}

type patchMeetingRequest struct {
	ScheduledAt *string   `json:"scheduledAt"`
	Status      *string   `json:"status"`
	Notes       *string   `json:"notes"`
	Topics      *[]string `json:"topics"`
}

func (h *Handler) HandleSchedule(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())

	var payload scheduleRequest
	issues, err := shared.DecodeAndValidate(r, &payload)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestctx.GetRequestID(r.Context()))
		return
	}
	if len(issues) > 0 {
		api.FailWithDetails(w, http.StatusBadRequest, "validation_error", "invalid meeting", issues, requestctx.GetRequestID(r.Context()))
		return
	}

	scheduledAt, err := shared.ParseDate(payload.ScheduledAt)
	if err != nil {
		api.FailWithDetails(w, http.StatusBadRequest, "validation_error", "invalid meeting",
			[]shared.ValidationIssue{{Field: "scheduledAt", Reason: "must be RFC3339 or YYYY-MM-DD"}},
			requestctx.GetRequestID(r.Context()))
		return
	}

	employeeID, managerID := payload.EmployeeID, payload.ManagerID
	switch user.Role {
	case auth.RoleEmployee:
		if employeeID == "" {
			employeeID = user.UserID
		}
		if managerID == "" {
			managerID, err = h.Directory.ManagerID(r.Context(), employeeID)
			if err != nil || managerID == "" {
				api.FailWithDetails(w, http.StatusBadRequest, "validation_error", "invalid meeting",
					[]shared.ValidationIssue{{Field: "managerId", Reason: "no manager on record"}},
					requestctx.GetRequestID(r.Context()))
				return
			}
		}
	case auth.RoleManager:
		if managerID == "" {
			managerID = user.UserID
		}
	}

	if user.Role != auth.RoleAdmin && user.UserID != employeeID && user.UserID != managerID {
		api.Fail(w, http.StatusForbidden, "forbidden", "you must be a participant", requestctx.GetRequestID(r.Context()))
		return
	}

	meeting, err := h.Meetings.Schedule(r.Context(), meetings.ScheduleInput{
		EmployeeID:  employeeID,
		ManagerID:   managerID,
		ScheduledAt: scheduledAt,
		Topics:      payload.Topics,
		Notes:       payload.Notes,
	})
	if err != nil {
		failMeetings(w, r, err)
		return
	}
	api.Created(w, meeting, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	meeting, ok := h.authorizedMeeting(w, r)
	if !ok {
		return
	}
	api.Success(w, meeting, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	meeting, ok := h.authorizedMeeting(w, r)
	if !ok {
		return
	}

	var payload patchMeetingRequest
	if _, err := shared.DecodeAndValidate(r, &payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestctx.GetRequestID(r.Context()))
		return
	}

	patch := meetings.Patch{
		Status: payload.Status,
		Notes:  payload.Notes,
		Topics: payload.Topics,
	}
	if payload.ScheduledAt != nil {
		scheduledAt, err := shared.ParseDate(*payload.ScheduledAt)
		if err != nil || scheduledAt.IsZero() {
			api.FailWithDetails(w, http.StatusBadRequest, "validation_error", "invalid meeting",
				[]shared.ValidationIssue{{Field: "scheduledAt", Reason: "must be RFC3339 or YYYY-MM-DD"}},
				requestctx.GetRequestID(r.Context()))
			return
		}
		patch.ScheduledAt = &scheduledAt
	}

	updated, err := h.Meetings.UpdateMeeting(r.Context(), meeting.ID, patch)
	if err != nil {
		failMeetings(w, r, err)
		return
	}
	api.Success(w, updated, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())

	if user.Role == auth.RoleAdmin {
		participant := r.URL.Query().Get("participant")
		var (
			list []meetings.Meeting
			err  error
		)
		if participant == "" {
			list, err = h.Meetings.ListAllMeetings(r.Context())
		} else {
			list, err = h.Meetings.ListMeetings(r.Context(), participant)
		}
		if err != nil {
			api.Fail(w, http.StatusInternalServerError, "internal_error", "failed to list meetings", requestctx.GetRequestID(r.Context()))
			return
		}
		api.Success(w, list, requestctx.GetRequestID(r.Context()))
		return
	}

	list, err := h.Meetings.ListMeetings(r.Context(), user.UserID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "internal_error", "failed to list meetings", requestctx.GetRequestID(r.Context()))
		return
	}
	api.Success(w, list, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) authorizedMeeting(w http.ResponseWriter, r *http.Request) (meetings.Meeting, bool) {
	user, _ := middleware.GetUser(r.Context())
	meetingID := chi.URLParam(r, "meetingID")

	meeting, err := h.Meetings.GetMeeting(r.Context(), meetingID)
	if err != nil {
		failMeetings(w, r, err)
		return meetings.Meeting{}, false
	}
	if user.Role != auth.RoleAdmin && user.UserID != meeting.EmployeeID && user.UserID != meeting.ManagerID {
		api.Fail(w, http.StatusForbidden, "forbidden", "meeting belongs to other participants", requestctx.GetRequestID(r.Context()))
		return meetings.Meeting{}, false
	}
	return meeting, true
}

func failMeetings(w http.ResponseWriter, r *http.Request, err error) {
	var verr *meetings.ValidationError
	switch {
	case errors.Is(err, meetings.ErrNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "meeting not found", requestctx.GetRequestID(r.Context()))
	case errors.As(err, &verr):
		api.FailWithDetails(w, http.StatusBadRequest, "validation_error", "invalid meeting",
			[]shared.ValidationIssue{{Field: verr.Field, Reason: verr.Reason}},
			requestctx.GetRequestID(r.Context()))
	default:
		api.Fail(w, http.StatusInternalServerError, "internal_error", "unexpected error", requestctx.GetRequestID(r.Context()))
	}
}
