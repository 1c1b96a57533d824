package surveyhandler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"thrive/internal/domain/auth"
	"thrive/internal/domain/survey"
	"thrive/internal/platform/requestctx"
	"thrive/internal/transport/http/api"
	"thrive/internal/transport/http/middleware"
	"thrive/internal/transport/http/shared"
)

type Handler struct {
	Survey *survey.Service
}

func NewHandler(svc *survey.Service) *Handler {
	return &Handler{Survey: svc}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/survey", func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Get("/questions", h.HandleQuestions)
		r.Post("/responses", h.HandleSubmit)
		r.Get("/responses", h.HandleListResponses)
		r.With(middleware.RequireRoles(auth.RoleManager, auth.RoleAdmin)).
			Get("/summary", h.HandleSummary)
	})
}

type submitRequest struct {
	QuestionID string       `json:"questionId" validate:"required"`
	Value      survey.Value `json:"value"`
}

func (h *Handler) HandleQuestions(w http.ResponseWriter, r *http.Request) {
	questions, err := h.Survey.Questions(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "internal_error", "failed to list questions", requestctx.GetRequestID(r.Context()))
		return
	}
	api.Success(w, questions, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())

	var payload submitRequest
	issues, err := shared.DecodeAndValidate(r, &payload)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestctx.GetRequestID(r.Context()))
		return
	}
	if len(issues) > 0 {
		api.FailWithDetails(w, http.StatusBadRequest, "validation_error", "invalid response", issues, requestctx.GetRequestID(r.Context()))
		return
	}

	response, err := h.Survey.Submit(r.Context(), user.UserID, payload.QuestionID, payload.Value)
	if err != nil {
		var verr *survey.ValidationError
		switch {
		case errors.Is(err, survey.ErrQuestionNotFound):
			api.Fail(w, http.StatusNotFound, "not_found", "survey question not found", requestctx.GetRequestID(r.Context()))
		case errors.As(err, &verr):
			api.FailWithDetails(w, http.StatusBadRequest, "validation_error", "invalid response",
				[]shared.ValidationIssue{{Field: verr.Field, Reason: verr.Reason}},
				requestctx.GetRequestID(r.Context()))
		default:
			api.Fail(w, http.StatusInternalServerError, "internal_error", "failed to store response", requestctx.GetRequestID(r.Context()))
		}
		return
	}
	api.Created(w, response, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) HandleListResponses(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	requested := r.URL.Query().Get("userId")

	// Non-admins only ever see their own responses.
	filterUser := user.UserID
	if user.Role == auth.RoleAdmin {
		filterUser = requested
	} else if requested != "" && requested != user.UserID {
		api.Fail(w, http.StatusForbidden, "forbidden", "responses belong to another user", requestctx.GetRequestID(r.Context()))
		return
	}

	responses, err := h.Survey.ListResponses(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "internal_error", "failed to list responses", requestctx.GetRequestID(r.Context()))
		return
	}

	out := make([]survey.Response, 0, len(responses))
	for _, response := range responses {
		if filterUser == "" || response.UserID == filterUser {
			out = append(out, response)
		}
	}
	api.Success(w, out, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.Survey.Summary(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "internal_error", "failed to build summary", requestctx.GetRequestID(r.Context()))
		return
	}
	api.Success(w, summary, requestctx.GetRequestID(r.Context()))
}
