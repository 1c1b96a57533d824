package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"thrive/internal/app/server"
	"thrive/internal/platform/config"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func testConfig() config.Config {
	return config.Config{
		Addr:               ":0",
		JWTSecret:          "test-secret",
		FrontendDir:        "frontend/dist",
		Environment:        "test",
		SeedUserPassword:   "Secret123!",
		EmailFrom:          "no-reply@test.local",
		MaxBodyBytes:       1048576,
		RateLimitPerMinute: 1000,
	}
}

func startServer(t *testing.T) *httptest.Server {
	t.Helper()
	app, err := server.New(context.Background(), testConfig())
	if err != nil {
		t.Fatalf("failed to start app: %v", err)
	}
	t.Cleanup(app.Close)

	ts := httptest.NewServer(app.Router)
	t.Cleanup(ts.Close)
	return ts
}

func doJSON(t *testing.T, client *http.Client, method, url, token string, body any) (int, envelope) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	res, err := client.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	defer res.Body.Close()

	var env envelope
	if err := json.NewDecoder(res.Body).Decode(&env); err != nil {
		t.Fatalf("decode %s %s: %v", method, url, err)
	}
	return res.StatusCode, env
}

func login(t *testing.T, client *http.Client, baseURL, email string) string {
	t.Helper()
	status, env := doJSON(t, client, http.MethodPost, baseURL+"/api/v1/auth/login", "", map[string]string{
		"email":    email,
		"password": "Secret123!",
	})
	if status != http.StatusOK {
		t.Fatalf("login %s: status %d", email, status)
	}
	var out struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(env.Data, &out); err != nil || out.Token == "" {
		t.Fatalf("login %s: no token in response", email)
	}
	return out.Token
}

func TestGoalLifecycleJourney(t *testing.T) {
	ts := startServer(t)
	client := ts.Client()
	anaToken := login(t, client, ts.URL, "ana@example.com")

	due := time.Now().AddDate(0, 3, 0).Format("2006-01-02")
	status, env := doJSON(t, client, http.MethodPost, ts.URL+"/api/v1/development/goals", anaToken, map[string]any{
		"title":    "Learn distributed tracing",
		"category": "technical",
		"priority": "medium",
		"dueDate":  due,
	})
	if status != http.StatusCreated {
		t.Fatalf("create goal: status %d", status)
	}

	var goal struct {
		ID          string  `json:"id"`
		Status      string  `json:"status"`
		Progress    int     `json:"progress"`
		CompletedAt *string `json:"completedAt"`
	}
	if err := json.Unmarshal(env.Data, &goal); err != nil {
		t.Fatalf("decode goal: %v", err)
	}
	if goal.Status != "planned" || goal.Progress != 0 {
		t.Fatalf("new goal = %+v, want planned at 0%%", goal)
	}

	goalURL := ts.URL + "/api/v1/development/goals/" + goal.ID

	// Complete it, then re-send completed: the timestamp must not move.
	status, env = doJSON(t, client, http.MethodPatch, goalURL, anaToken, map[string]any{"status": "completed", "progress": 100})
	if status != http.StatusOK {
		t.Fatalf("complete goal: status %d", status)
	}
	if err := json.Unmarshal(env.Data, &goal); err != nil {
		t.Fatalf("decode goal: %v", err)
	}
	if goal.CompletedAt == nil {
		t.Fatal("completedAt not set on first completion")
	}
	firstCompleted := *goal.CompletedAt

	status, env = doJSON(t, client, http.MethodPatch, goalURL, anaToken, map[string]any{"status": "completed"})
	if status != http.StatusOK {
		t.Fatalf("repeat completion: status %d", status)
	}
	if err := json.Unmarshal(env.Data, &goal); err != nil {
		t.Fatalf("decode goal: %v", err)
	}
	if goal.CompletedAt == nil || *goal.CompletedAt != firstCompleted {
		t.Fatal("completedAt changed on repeated completion")
	}

	// Terminal status rejects a different value.
	status, env = doJSON(t, client, http.MethodPatch, goalURL, anaToken, map[string]any{"status": "cancelled"})
	if status != http.StatusBadRequest || env.Error == nil || env.Error.Code != "validation_error" {
		t.Fatalf("cancel completed goal: status %d error %+v", status, env.Error)
	}

	// Comment carries the author name snapshot.
	status, env = doJSON(t, client, http.MethodPost, goalURL+"/comments", anaToken, map[string]string{"text": "Done ahead of schedule."})
	if status != http.StatusCreated {
		t.Fatalf("add comment: status %d", status)
	}
	var comment struct {
		UserName string `json:"userName"`
	}
	if err := json.Unmarshal(env.Data, &comment); err != nil || comment.UserName != "Ana Oliveira" {
		t.Fatalf("comment = %s, want author name snapshot", env.Data)
	}
}

func TestGoalValidationAndAccess(t *testing.T) {
	ts := startServer(t)
	client := ts.Client()
	anaToken := login(t, client, ts.URL, "ana@example.com")
	mariaToken := login(t, client, ts.URL, "maria@example.com")
	joaoToken := login(t, client, ts.URL, "joao@example.com")

	status, env := doJSON(t, client, http.MethodPost, ts.URL+"/api/v1/development/goals", anaToken, map[string]any{
		"category": "technical",
		"priority": "medium",
	})
	if status != http.StatusBadRequest || env.Error == nil || env.Error.Code != "validation_error" {
		t.Fatalf("missing title: status %d error %+v", status, env.Error)
	}

	// Seeded goal g-cert-cloud belongs to Ana. Maria is a peer, not her manager.
	seededURL := ts.URL + "/api/v1/development/goals/g-cert-cloud"
	status, _ = doJSON(t, client, http.MethodGet, seededURL, mariaToken, nil)
	if status != http.StatusForbidden {
		t.Fatalf("peer read: status %d, want 403", status)
	}
	status, _ = doJSON(t, client, http.MethodGet, seededURL, joaoToken, nil)
	if status != http.StatusOK {
		t.Fatalf("manager read: status %d, want 200", status)
	}

	status, _ = doJSON(t, client, http.MethodGet, ts.URL+"/api/v1/development/goals/"+"no-such-goal", anaToken, nil)
	if status != http.StatusNotFound {
		t.Fatalf("unknown goal: status %d, want 404", status)
	}

	// Manager listing covers the team; employee listing is always own.
	status, env = doJSON(t, client, http.MethodGet, ts.URL+"/api/v1/development/goals", joaoToken, nil)
	if status != http.StatusOK {
		t.Fatalf("manager list: status %d", status)
	}
	var goals []struct {
		UserID string `json:"userId"`
	}
	if err := json.Unmarshal(env.Data, &goals); err != nil {
		t.Fatalf("decode goals: %v", err)
	}
	if len(goals) < 2 {
		t.Fatalf("manager sees %d goals, want the seeded team plan", len(goals))
	}

	status, _ = doJSON(t, client, http.MethodGet, ts.URL+"/api/v1/development/goals?userId=u-ana", mariaToken, nil)
	if status != http.StatusForbidden {
		t.Fatalf("employee cross-listing: status %d, want 403", status)
	}
}

func TestSurveyJourney(t *testing.T) {
	ts := startServer(t)
	client := ts.Client()
	anaToken := login(t, client, ts.URL, "ana@example.com")
	joaoToken := login(t, client, ts.URL, "joao@example.com")

	status, env := doJSON(t, client, http.MethodGet, ts.URL+"/api/v1/survey/questions", anaToken, nil)
	if status != http.StatusOK {
		t.Fatalf("questions: status %d", status)
	}
	var questions []struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(env.Data, &questions); err != nil || len(questions) == 0 {
		t.Fatalf("expected the reference questionnaire, got %s", env.Data)
	}

	submit := func(body map[string]any) (int, envelope) {
		return doJSON(t, client, http.MethodPost, ts.URL+"/api/v1/survey/responses", anaToken, body)
	}

	// Same question twice: both rows survive.
	for range 2 {
		if status, _ := submit(map[string]any{"questionId": "q-satisfaction", "value": 4}); status != http.StatusCreated {
			t.Fatalf("submit scale: status %d", status)
		}
	}
	if status, _ = submit(map[string]any{"questionId": "comments", "value": "More pairing time."}); status != http.StatusCreated {
		t.Fatalf("submit comments: status %d", status)
	}
	if status, env = submit(map[string]any{"questionId": "q-satisfaction", "value": 9}); status != http.StatusBadRequest || env.Error.Code != "validation_error" {
		t.Fatalf("out-of-range scale: status %d error %+v", status, env.Error)
	}

	status, env = doJSON(t, client, http.MethodGet, ts.URL+"/api/v1/survey/responses", anaToken, nil)
	if status != http.StatusOK {
		t.Fatalf("list responses: status %d", status)
	}
	var responses []struct {
		QuestionID string `json:"questionId"`
	}
	if err := json.Unmarshal(env.Data, &responses); err != nil {
		t.Fatalf("decode responses: %v", err)
	}
	if len(responses) != 3 {
		t.Fatalf("responses = %d, want 3 appended rows", len(responses))
	}

	// Summary is manager/admin only.
	status, _ = doJSON(t, client, http.MethodGet, ts.URL+"/api/v1/survey/summary", anaToken, nil)
	if status != http.StatusForbidden {
		t.Fatalf("employee summary: status %d, want 403", status)
	}
	status, env = doJSON(t, client, http.MethodGet, ts.URL+"/api/v1/survey/summary", joaoToken, nil)
	if status != http.StatusOK {
		t.Fatalf("manager summary: status %d", status)
	}
	var summaries []struct {
		QuestionID string  `json:"questionId"`
		Average    float64 `json:"average"`
		Count      int     `json:"count"`
	}
	if err := json.Unmarshal(env.Data, &summaries); err != nil {
		t.Fatalf("decode summary: %v", err)
	}
	for _, s := range summaries {
		if s.QuestionID == "q-satisfaction" && (s.Count != 2 || s.Average != 4) {
			t.Fatalf("satisfaction summary = %+v, want count 2 average 4", s)
		}
	}
}

func TestMeetingJourney(t *testing.T) {
	ts := startServer(t)
	client := ts.Client()
	anaToken := login(t, client, ts.URL, "ana@example.com")
	joaoToken := login(t, client, ts.URL, "joao@example.com")

	scheduledAt := time.Now().Add(48 * time.Hour).Format(time.RFC3339)
	// Employee omits managerId: the directory fills it in. Blank topics drop.
	status, env := doJSON(t, client, http.MethodPost, ts.URL+"/api/v1/meetings", anaToken, map[string]any{
		"scheduledAt": scheduledAt,
		"topics":      []string{"Career path", "   ", "Certification"},
	})
	if status != http.StatusCreated {
		t.Fatalf("schedule: status %d (%+v)", status, env.Error)
	}
	var meeting struct {
		ID        string   `json:"id"`
		ManagerID string   `json:"managerId"`
		Status    string   `json:"status"`
		Topics    []string `json:"topics"`
	}
	if err := json.Unmarshal(env.Data, &meeting); err != nil {
		t.Fatalf("decode meeting: %v", err)
	}
	if meeting.ManagerID != "u-joao" {
		t.Fatalf("managerId = %q, want inferred u-joao", meeting.ManagerID)
	}
	if len(meeting.Topics) != 2 {
		t.Fatalf("topics = %v, want blanks dropped", meeting.Topics)
	}

	meetingURL := ts.URL + "/api/v1/meetings/" + meeting.ID

	// The manager marks it held; a later cancel must bounce, a repeat is fine.
	status, _ = doJSON(t, client, http.MethodPatch, meetingURL, joaoToken, map[string]any{"status": "held", "notes": "Reviewed goals."})
	if status != http.StatusOK {
		t.Fatalf("mark held: status %d", status)
	}
	status, env = doJSON(t, client, http.MethodPatch, meetingURL, joaoToken, map[string]any{"status": "cancelled"})
	if status != http.StatusBadRequest || env.Error.Code != "validation_error" {
		t.Fatalf("cancel held meeting: status %d error %+v", status, env.Error)
	}
	status, _ = doJSON(t, client, http.MethodPatch, meetingURL, joaoToken, map[string]any{"status": "held"})
	if status != http.StatusOK {
		t.Fatalf("repeat held: status %d", status)
	}

	// Listing is participant-scoped, newest first.
	later := time.Now().Add(96 * time.Hour).Format(time.RFC3339)
	status, env = doJSON(t, client, http.MethodPost, ts.URL+"/api/v1/meetings", anaToken, map[string]any{"scheduledAt": later})
	if status != http.StatusCreated {
		t.Fatalf("schedule second: status %d", status)
	}
	var second struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(env.Data, &second); err != nil {
		t.Fatalf("decode meeting: %v", err)
	}

	status, env = doJSON(t, client, http.MethodGet, ts.URL+"/api/v1/meetings", anaToken, nil)
	if status != http.StatusOK {
		t.Fatalf("list meetings: status %d", status)
	}
	var listed []struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(env.Data, &listed); err != nil {
		t.Fatalf("decode meetings: %v", err)
	}
	if len(listed) != 2 || listed[0].ID != second.ID {
		t.Fatalf("listing = %v, want newest scheduledAt first", listed)
	}

	// Maria is not a participant.
	mariaToken := login(t, client, ts.URL, "maria@example.com")
	status, _ = doJSON(t, client, http.MethodGet, meetingURL, mariaToken, nil)
	if status != http.StatusForbidden {
		t.Fatalf("non-participant read: status %d, want 403", status)
	}
}

func TestAuthAndRoleGating(t *testing.T) {
	ts := startServer(t)
	client := ts.Client()

	status, env := doJSON(t, client, http.MethodPost, ts.URL+"/api/v1/auth/login", "", map[string]string{
		"email":    "ana@example.com",
		"password": "wrong",
	})
	if status != http.StatusUnauthorized || env.Error.Code != "invalid_credentials" {
		t.Fatalf("bad password: status %d error %+v", status, env.Error)
	}

	anaToken := login(t, client, ts.URL, "ana@example.com")
	carlaToken := login(t, client, ts.URL, "carla@example.com")

	// Feature areas follow the live role.
	status, env = doJSON(t, client, http.MethodGet, ts.URL+"/api/v1/auth/me", anaToken, nil)
	if status != http.StatusOK {
		t.Fatalf("me: status %d", status)
	}
	var me struct {
		Areas []struct {
			Key string `json:"key"`
		} `json:"areas"`
	}
	if err := json.Unmarshal(env.Data, &me); err != nil {
		t.Fatalf("decode me: %v", err)
	}
	for _, area := range me.Areas {
		if area.Key == "team" {
			t.Fatal("team area leaked to employee")
		}
	}

	// Directory listing is admin only.
	status, _ = doJSON(t, client, http.MethodGet, ts.URL+"/api/v1/directory/users", anaToken, nil)
	if status != http.StatusForbidden {
		t.Fatalf("employee user list: status %d, want 403", status)
	}
	status, _ = doJSON(t, client, http.MethodGet, ts.URL+"/api/v1/directory/users", carlaToken, nil)
	if status != http.StatusOK {
		t.Fatalf("admin user list: status %d, want 200", status)
	}

	// Metrics snapshot is admin only.
	status, _ = doJSON(t, client, http.MethodGet, ts.URL+"/api/v1/metrics", anaToken, nil)
	if status != http.StatusForbidden {
		t.Fatalf("employee metrics: status %d, want 403", status)
	}
	status, _ = doJSON(t, client, http.MethodGet, ts.URL+"/api/v1/metrics", carlaToken, nil)
	if status != http.StatusOK {
		t.Fatalf("admin metrics: status %d, want 200", status)
	}

	// Logout revokes the session; the old token stops working. Repeat is 200.
	for range 2 {
		status, _ = doJSON(t, client, http.MethodPost, ts.URL+"/api/v1/auth/logout", anaToken, nil)
		if status != http.StatusOK {
			t.Fatalf("logout: status %d", status)
		}
	}
	status, _ = doJSON(t, client, http.MethodGet, ts.URL+"/api/v1/auth/me", anaToken, nil)
	if status != http.StatusUnauthorized {
		t.Fatalf("me after logout: status %d, want 401", status)
	}
}

func TestProfileAndReports(t *testing.T) {
	ts := startServer(t)
	client := ts.Client()
	anaToken := login(t, client, ts.URL, "ana@example.com")
	joaoToken := login(t, client, ts.URL, "joao@example.com")

	status, env := doJSON(t, client, http.MethodGet, ts.URL+"/api/v1/directory/me", joaoToken, nil)
	if status != http.StatusOK {
		t.Fatalf("profile: status %d", status)
	}
	var profile struct {
		User struct {
			ID string `json:"id"`
		} `json:"user"`
		DirectReports []struct {
			ID string `json:"id"`
		} `json:"directReports"`
	}
	if err := json.Unmarshal(env.Data, &profile); err != nil {
		t.Fatalf("decode profile: %v", err)
	}
	if profile.User.ID != "u-joao" || len(profile.DirectReports) != 2 {
		t.Fatalf("profile = %+v, want joao with 2 reports", profile)
	}

	status, env = doJSON(t, client, http.MethodGet, ts.URL+"/api/v1/reports/summary", anaToken, nil)
	if status != http.StatusOK {
		t.Fatalf("summary: status %d", status)
	}
	var summary struct {
		ActiveGoals int `json:"activeGoals"`
	}
	if err := json.Unmarshal(env.Data, &summary); err != nil {
		t.Fatalf("decode summary: %v", err)
	}
	if summary.ActiveGoals != 2 {
		t.Fatalf("activeGoals = %d, want the 2 seeded goals", summary.ActiveGoals)
	}

	// PDF export streams a real document, not the JSON envelope.
	req, err := http.NewRequest(http.MethodGet, ts.URL+"/api/v1/development/goals/export", nil)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Authorization", "Bearer "+anaToken)
	res, err := client.Do(req)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		t.Fatalf("export: status %d", res.StatusCode)
	}
	if ct := res.Header.Get("Content-Type"); ct != "application/pdf" {
		t.Fatalf("export content type = %q", ct)
	}
	head := make([]byte, 4)
	if _, err := io.ReadFull(res.Body, head); err != nil || string(head) != "%PDF" {
		t.Fatalf("export body starts with %q, want %%PDF", head)
	}
}
