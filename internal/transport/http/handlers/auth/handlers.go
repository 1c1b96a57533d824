package authhandler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/pquerna/otp/totp"

	"thrive/internal/domain/auth"
	"thrive/internal/domain/directory"
	cryptoutil "thrive/internal/platform/crypto"
	"thrive/internal/platform/requestctx"
	"thrive/internal/transport/http/api"
	"thrive/internal/transport/http/middleware"
)

const sessionTTL = 8 * time.Hour

type Handler struct {
	Directory *directory.Service
	Sessions  auth.SessionStore
	Secret    string
	Crypto    *cryptoutil.Service
}

func NewHandler(dir *directory.Service, sessions auth.SessionStore, secret string, crypto *cryptoutil.Service) *Handler {
	return &Handler{Directory: dir, Sessions: sessions, Secret: secret, Crypto: crypto}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/auth/login", h.HandleLogin)
	r.Post("/auth/logout", h.HandleLogout)
	r.Post("/auth/refresh", h.HandleRefresh)
	r.Get("/auth/me", h.HandleMe)
	r.Post("/auth/mfa/setup", h.HandleMFASetup)
	r.Post("/auth/mfa/enable", h.HandleMFAEnable)
	r.Post("/auth/mfa/disable", h.HandleMFADisable)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	MFACode  string `json:"mfaCode"`
}

type mfaCodeRequest struct {
	Code string `json:"code"`
}

func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var payload loginRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestctx.GetRequestID(r.Context()))
		return
	}

	record, err := h.Directory.GetRecordByEmail(r.Context(), payload.Email)
	if err != nil {
		api.Fail(w, http.StatusUnauthorized, "invalid_credentials", "invalid credentials", requestctx.GetRequestID(r.Context()))
		return
	}
	if err := auth.CheckPassword(record.PasswordHash, payload.Password); err != nil {
		api.Fail(w, http.StatusUnauthorized, "invalid_credentials", "invalid credentials", requestctx.GetRequestID(r.Context()))
		return
	}

	if record.MFAEnabled {
		if payload.MFACode == "" {
			api.Fail(w, http.StatusUnauthorized, "mfa_required", "mfa code required", requestctx.GetRequestID(r.Context()))
			return
		}
		secret, err := h.mfaSecret(record)
		if err != nil || secret == "" || !totp.Validate(payload.MFACode, secret) {
			api.Fail(w, http.StatusUnauthorized, "mfa_invalid", "invalid mfa code", requestctx.GetRequestID(r.Context()))
			return
		}
	}

	token, err := h.issueSession(r, record)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "token_error", "failed to issue token", requestctx.GetRequestID(r.Context()))
		return
	}

	api.Success(w, map[string]any{
		"token": token,
		"user":  record.User,
		"areas": auth.VisibleAreas(record.Role),
	}, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if user, ok := middleware.GetUser(r.Context()); ok && user.SessionID != "" {
		if err := h.Sessions.Revoke(r.Context(), user.UserID, auth.HashToken(user.SessionID)); err != nil {
			slog.Warn("logout session revoke failed", "userId", user.UserID, "err", err)
		}
	}
	api.Success(w, map[string]string{"status": "logged_out"}, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestctx.GetRequestID(r.Context()))
		return
	}

	sessionID := uuid.NewString()
	expires := time.Now().Add(sessionTTL)
	if err := h.Sessions.Rotate(r.Context(), user.UserID, auth.HashToken(user.SessionID), auth.HashToken(sessionID), expires); err != nil {
		api.Fail(w, http.StatusInternalServerError, "session_error", "failed to rotate session", requestctx.GetRequestID(r.Context()))
		return
	}

	token, err := auth.GenerateToken(h.Secret, auth.Claims{UserID: user.UserID, Role: user.Role, SessionID: sessionID}, sessionTTL)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "token_error", "failed to issue token", requestctx.GetRequestID(r.Context()))
		return
	}
	api.Success(w, map[string]string{"token": token}, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) HandleMe(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestctx.GetRequestID(r.Context()))
		return
	}

	current, err := h.Directory.GetUser(r.Context(), user.UserID)
	if err != nil {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "user no longer exists", requestctx.GetRequestID(r.Context()))
		return
	}
	api.Success(w, map[string]any{
		"user":  current,
		"areas": auth.VisibleAreas(current.Role),
	}, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) HandleMFASetup(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestctx.GetRequestID(r.Context()))
		return
	}
	record, err := h.Directory.GetRecord(r.Context(), user.UserID)
	if err != nil {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "user no longer exists", requestctx.GetRequestID(r.Context()))
		return
	}

	key, err := totp.Generate(totp.GenerateOpts{Issuer: "Thrive", AccountName: record.Email})
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "mfa_error", "failed to generate mfa secret", requestctx.GetRequestID(r.Context()))
		return
	}

	secretEnc := []byte(key.Secret())
	if h.Crypto != nil && h.Crypto.Configured() {
		secretEnc, err = h.Crypto.EncryptString(key.Secret())
		if err != nil {
			api.Fail(w, http.StatusInternalServerError, "mfa_error", "failed to store mfa secret", requestctx.GetRequestID(r.Context()))
			return
		}
	}
	if err := h.Directory.SetMFASecret(r.Context(), user.UserID, secretEnc); err != nil {
		api.Fail(w, http.StatusInternalServerError, "mfa_error", "failed to store mfa secret", requestctx.GetRequestID(r.Context()))
		return
	}

	api.Success(w, map[string]string{
		"secret": key.Secret(),
		"url":    key.URL(),
	}, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) HandleMFAEnable(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestctx.GetRequestID(r.Context()))
		return
	}
	var payload mfaCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.Code == "" {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "mfa code required", requestctx.GetRequestID(r.Context()))
		return
	}

	record, err := h.Directory.GetRecord(r.Context(), user.UserID)
	if err != nil {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "user no longer exists", requestctx.GetRequestID(r.Context()))
		return
	}
	secret, err := h.mfaSecret(record)
	if err != nil || secret == "" {
		api.Fail(w, http.StatusBadRequest, "mfa_not_setup", "run mfa setup first", requestctx.GetRequestID(r.Context()))
		return
	}
	if !totp.Validate(payload.Code, secret) {
		api.Fail(w, http.StatusBadRequest, "mfa_invalid", "invalid mfa code", requestctx.GetRequestID(r.Context()))
		return
	}

	if err := h.Directory.SetMFAEnabled(r.Context(), user.UserID, true); err != nil {
		api.Fail(w, http.StatusInternalServerError, "mfa_error", "failed to enable mfa", requestctx.GetRequestID(r.Context()))
		return
	}
	api.Success(w, map[string]bool{"mfaEnabled": true}, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) HandleMFADisable(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestctx.GetRequestID(r.Context()))
		return
	}
	if err := h.Directory.SetMFAEnabled(r.Context(), user.UserID, false); err != nil {
		api.Fail(w, http.StatusInternalServerError, "mfa_error", "failed to disable mfa", requestctx.GetRequestID(r.Context()))
		return
	}
	api.Success(w, map[string]bool{"mfaEnabled": false}, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) issueSession(r *http.Request, record directory.Record) (string, error) {
	sessionID := uuid.NewString()
	expires := time.Now().Add(sessionTTL)
	if err := h.Sessions.Create(r.Context(), record.ID, auth.HashToken(sessionID), expires); err != nil {
		return "", err
	}
	return auth.GenerateToken(h.Secret, auth.Claims{UserID: record.ID, Role: record.Role, SessionID: sessionID}, sessionTTL)
}

func (h *Handler) mfaSecret(record directory.Record) (string, error) {
	if len(record.MFASecretEnc) == 0 {
		return "", errors.New("mfa secret not set")
	}
	if h.Crypto != nil && h.Crypto.Configured() {
		return h.Crypto.DecryptString(record.MFASecretEnc)
	}
	return string(record.MFASecretEnc), nil
}
