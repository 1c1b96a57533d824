package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"thrive/internal/domain/auth"
)

const testSecret = "test-secret"

func issueToken(t *testing.T, sessions auth.SessionStore) string {
	t.Helper()
	sessionID := "session-1"
	if sessions != nil {
		if err := sessions.Create(t.Context(), "u-ana", auth.HashToken(sessionID), time.Now().Add(time.Hour)); err != nil {
			t.Fatalf("create session: %v", err)
		}
	}
	token, err := auth.GenerateToken(testSecret, auth.Claims{UserID: "u-ana", Role: auth.RoleEmployee, SessionID: sessionID}, time.Hour)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	return token
}

func userProbe(t *testing.T) (http.Handler, *auth.UserContext) {
	t.Helper()
	var seen auth.UserContext
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if user, ok := GetUser(r.Context()); ok {
			seen = user
		}
		w.WriteHeader(http.StatusOK)
	})
	return handler, &seen
}

func TestAuthAttachesUser(t *testing.T) {
	sessions := auth.NewMemorySessionStore()
	probe, seen := userProbe(t)
	handler := Auth(testSecret, sessions)(probe)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+issueToken(t, sessions))
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if seen.UserID != "u-ana" || seen.Role != auth.RoleEmployee {
		t.Errorf("user = %+v, want u-ana employee", *seen)
	}
}

func TestAuthIgnoresBadTokens(t *testing.T) {
	cases := []struct {
		name   string
		header string
	}{
		{"none", ""},
		{"malformed", "Bearer not-a-token"},
		{"wrong scheme", "Basic abc"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			probe, seen := userProbe(t)
			handler := Auth(testSecret, nil)(probe)

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			handler.ServeHTTP(httptest.NewRecorder(), req)

			if seen.UserID != "" {
				t.Errorf("anonymous request got user %+v", *seen)
			}
		})
	}
}

func TestAuthRejectsRevokedSession(t *testing.T) {
	sessions := auth.NewMemorySessionStore()
	token := issueToken(t, sessions)
	if err := sessions.Revoke(t.Context(), "u-ana", auth.HashToken("session-1")); err != nil {
		t.Fatalf("revoke: %v", err)
	}

	probe, seen := userProbe(t)
	handler := Auth(testSecret, sessions)(probe)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if seen.UserID != "" {
		t.Error("revoked session must not authenticate")
	}
}
