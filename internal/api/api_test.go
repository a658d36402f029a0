package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/purpleschool/purpleschool/internal/app/progress"
	"github.com/purpleschool/purpleschool/internal/auth"
	"github.com/purpleschool/purpleschool/internal/domain"
	"github.com/purpleschool/purpleschool/internal/infra/store"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	eng := progress.NewEngine(store.NewMemory())
	eng.Load()
	return NewServer(eng, "test")
}

// ─── Health Check ───────────────────────────────────────────────────────────

func TestAPI_Health(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()

	srv.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
	}

	var body map[string]string
	json.NewDecoder(w.Body).Decode(&body)
	if body["status"] != "ok" {
		t.Errorf("status = %q, unexpected", body["status"])
	}
}

func TestAPI_Version(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest("GET", "/api/version", nil)
	w := httptest.NewRecorder()

	srv.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
	}

	var body map[string]string
	json.NewDecoder(w.Body).Decode(&body)
	if body["version"] != "test" {
		t.Errorf("version = %q, want \"test\"", body["version"])
	}
}

// ─── Progress /api/progress ─────────────────────────────────────────────────

func TestAPI_Summary_FreshState(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest("GET", "/api/progress/summary", nil)
	w := httptest.NewRecorder()

	srv.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	var snap domain.Snapshot
	json.NewDecoder(w.Body).Decode(&snap)
	if snap.CurrentXP != 0 || snap.CurrentLevel.ID != 1 {
		t.Errorf("fresh snapshot = %+v", snap)
	}
	if !snap.Loaded {
		t.Error("snapshot should report loaded")
	}
}

func TestAPI_AddXP(t *testing.T) {
	srv := newTestServer(t)

	body := `{"amount": 50, "source": "bonus"}`
	req := httptest.NewRequest("POST", "/api/progress/xp", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	srv.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body: %s", w.Code, w.Body.String())
	}

	var snap domain.Snapshot
	json.NewDecoder(w.Body).Decode(&snap)
	if snap.CurrentLevel.ID != 2 {
		t.Errorf("level = %d, want 2", snap.CurrentLevel.ID)
	}
}

func TestAPI_AddXP_NegativeRejected(t *testing.T) {
	srv := newTestServer(t)

	body := `{"amount": -10}`
	req := httptest.NewRequest("POST", "/api/progress/xp", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	srv.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}

func TestAPI_Question_UnlocksFirstMilestone(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest("POST", "/api/progress/question", nil)
	w := httptest.NewRecorder()

	srv.Handler().ServeHTTP(w, req)

	var snap domain.Snapshot
	json.NewDecoder(w.Body).Decode(&snap)
	if snap.Stats.QuestionsAsked != 1 {
		t.Errorf("questions = %d, want 1", snap.Stats.QuestionsAsked)
	}
	if len(snap.Achievements) != 1 {
		t.Errorf("achievements = %d, want 1", len(snap.Achievements))
	}
}

func TestAPI_Subject_EmptyRejected(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest("POST", "/api/progress/subject", strings.NewReader(`{"subject": ""}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	srv.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}

func TestAPI_SessionLifecycle(t *testing.T) {
	srv := newTestServer(t)
	h := srv.Handler()

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest("POST", "/api/progress/session/start", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("start: status = %d", w.Code)
	}

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest("GET", "/api/progress/summary", nil))
	var snap domain.Snapshot
	json.NewDecoder(w.Body).Decode(&snap)
	if !snap.SessionActive {
		t.Error("session should be active after start")
	}

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest("POST", "/api/progress/session/complete", nil))
	json.NewDecoder(w.Body).Decode(&snap)
	if snap.SessionActive {
		t.Error("session should be inactive after complete")
	}
	if snap.Stats.TotalStudySessions != 1 {
		t.Errorf("sessions = %d, want 1", snap.Stats.TotalStudySessions)
	}
}

func TestAPI_StreakStatus(t *testing.T) {
	srv := newTestServer(t)
	h := srv.Handler()

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest("POST", "/api/progress/streak", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("streak: status = %d", w.Code)
	}

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest("GET", "/api/progress/streak", nil))

	var status domain.StreakStatus
	json.NewDecoder(w.Body).Decode(&status)
	if status.Message == "" {
		t.Error("streak status should carry a message")
	}
}

// ─── Notification surface ───────────────────────────────────────────────────

func TestAPI_Achievements_MarkRead(t *testing.T) {
	srv := newTestServer(t)
	h := srv.Handler()

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest("POST", "/api/progress/question", nil))

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest("GET", "/api/achievements/", nil))

	var list struct {
		Achievements []domain.Achievement `json:"achievements"`
		Unread       int                  `json:"unread"`
	}
	json.NewDecoder(w.Body).Decode(&list)
	if list.Unread != 1 || len(list.Achievements) != 1 {
		t.Fatalf("unexpected list %+v", list)
	}

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest("POST", "/api/achievements/"+list.Achievements[0].ID+"/read", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("mark read: status = %d", w.Code)
	}

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest("POST", "/api/achievements/nope/read", nil))
	if w.Code != http.StatusNotFound {
		t.Errorf("unknown id: status = %d, want %d", w.Code, http.StatusNotFound)
	}
}

func TestAPI_Events_PeekAndDismiss(t *testing.T) {
	srv := newTestServer(t)
	h := srv.Handler()

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest("POST", "/api/progress/question", nil))

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest("GET", "/api/events/next", nil))

	var body struct {
		Event *domain.Event `json:"event"`
	}
	json.NewDecoder(w.Body).Decode(&body)
	if body.Event == nil || body.Event.Type != domain.EventAchievement {
		t.Fatalf("expected pending achievement event, got %+v", body.Event)
	}

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest("POST", "/api/events/dismiss", nil))

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest("GET", "/api/events/next", nil))
	body.Event = nil
	json.NewDecoder(w.Body).Decode(&body)
	if body.Event != nil {
		t.Errorf("queue should be empty, got %+v", body.Event)
	}
}

// ─── Auth proxy ─────────────────────────────────────────────────────────────

func TestAPI_Auth_NotConfigured(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest("POST", "/auth/login", strings.NewReader(`{"email":"a","password":"b"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	srv.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want %d", w.Code, http.StatusServiceUnavailable)
	}
}

func TestAPI_Auth_ProxiesLogin(t *testing.T) {
	remote := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/login" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Write([]byte(`{"token":"tok","user":{"name":"Ada"}}`))
	}))
	t.Cleanup(remote.Close)

	srv := newTestServer(t)
	srv.SetAccounts(auth.NewClient(remote.URL, store.NewMemory()))
	h := srv.Handler()

	req := httptest.NewRequest("POST", "/auth/login", strings.NewReader(`{"email":"a","password":"b"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body: %s", w.Code, w.Body.String())
	}

	var sess auth.Session
	json.NewDecoder(w.Body).Decode(&sess)
	if sess.Token != "tok" || sess.User.Name != "Ada" {
		t.Errorf("unexpected session %+v", sess)
	}

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest("GET", "/auth/session", nil))
	if !strings.Contains(w.Body.String(), "tok") {
		t.Errorf("session not retrievable: %s", w.Body.String())
	}
}

func TestAPI_Auth_RejectedMapsTo401(t *testing.T) {
	remote := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message":"Invalid email or password"}`))
	}))
	t.Cleanup(remote.Close)

	srv := newTestServer(t)
	srv.SetAccounts(auth.NewClient(remote.URL, store.NewMemory()))

	req := httptest.NewRequest("POST", "/auth/login", strings.NewReader(`{"email":"a","password":"wrong"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", w.Code, http.StatusUnauthorized)
	}
}

// ─── CORS ───────────────────────────────────────────────────────────────────

func TestAPI_CORS(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest("OPTIONS", "/api/progress/summary", nil)
	w := httptest.NewRecorder()

	srv.Handler().ServeHTTP(w, req)

	if w.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Error("CORS: Access-Control-Allow-Origin should be *")
	}
}
