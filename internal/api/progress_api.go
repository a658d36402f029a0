package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/purpleschool/purpleschool/internal/auth"
	"github.com/purpleschool/purpleschool/internal/domain"
)

// ─── Progress engine (/api/progress/*) ───────────────────────────────────────
// These endpoints back the dashboard: every UI interaction that affects XP,
// streaks or achievements lands here.

// --- /api/progress/summary ---

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.engine.Snapshot())
}

// --- /api/progress/xp ---

type addXPRequest struct {
	Amount int64  `json:"amount"`
	Source string `json:"source"`
}

func (s *Server) handleAddXP(w http.ResponseWriter, r *http.Request) {
	var req addXPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Source == "" {
		req.Source = "manual"
	}
	if err := s.engine.AddXP(req.Amount, req.Source); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, s.engine.Snapshot())
}

// --- /api/progress/question ---

func (s *Server) handleQuestion(w http.ResponseWriter, r *http.Request) {
	s.engine.RecordQuestionAsked()
	writeJSON(w, http.StatusOK, s.engine.Snapshot())
}

// --- /api/progress/subject ---

type subjectRequest struct {
	Subject string `json:"subject"`
}

func (s *Server) handleSubject(w http.ResponseWriter, r *http.Request) {
	var req subjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.engine.RecordSubjectEngagement(req.Subject); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, s.engine.Snapshot())
}

// --- /api/progress/session/* ---

func (s *Server) handleSessionStart(w http.ResponseWriter, r *http.Request) {
	s.engine.StartStudySession()
	writeJSON(w, http.StatusOK, map[string]string{"status": "started"})
}

func (s *Server) handleSessionTick(w http.ResponseWriter, r *http.Request) {
	s.engine.UpdateStudyTime()
	writeJSON(w, http.StatusOK, s.engine.Snapshot())
}

func (s *Server) handleSessionComplete(w http.ResponseWriter, r *http.Request) {
	s.engine.RecordSessionComplete()
	writeJSON(w, http.StatusOK, s.engine.Snapshot())
}

// --- /api/progress/streak ---

func (s *Server) handleStreak(w http.ResponseWriter, r *http.Request) {
	s.engine.UpdateStreak()
	writeJSON(w, http.StatusOK, s.engine.Snapshot())
}

func (s *Server) handleStreakStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.engine.StreakStatus())
}

// --- /api/progress/login and /api/progress/welcome ---

func (s *Server) handleDailyLogin(w http.ResponseWriter, r *http.Request) {
	s.engine.RecordDailyLogin()
	writeJSON(w, http.StatusOK, s.engine.Snapshot())
}

func (s *Server) handleWelcome(w http.ResponseWriter, r *http.Request) {
	s.engine.RecordLearnWelcome()
	writeJSON(w, http.StatusOK, s.engine.Snapshot())
}

// ─── Notification surface (/api/achievements, /api/events) ──────────────────

func (s *Server) handleAchievements(w http.ResponseWriter, r *http.Request) {
	snap := s.engine.Snapshot()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"achievements": snap.Achievements,
		"unread":       snap.UnreadCount,
	})
}

func (s *Server) handleMarkRead(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.engine.MarkAchievementRead(id); err != nil {
		if errors.Is(err, domain.ErrAchievementNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (s *Server) handleMarkAllRead(w http.ResponseWriter, r *http.Request) {
	s.engine.MarkAllRead()
	w.WriteHeader(http.StatusOK)
}

// The dashboard shows one celebration modal at a time: peek the head of the
// queue, render it, then dismiss it once the student closes the modal.

func (s *Server) handleNextEvent(w http.ResponseWriter, r *http.Request) {
	ev, ok := s.engine.NextEvent()
	if !ok {
		writeJSON(w, http.StatusOK, map[string]interface{}{"event": nil})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"event": ev})
}

func (s *Server) handleDismissEvent(w http.ResponseWriter, r *http.Request) {
	s.engine.DismissEvent()
	w.WriteHeader(http.StatusOK)
}

// ─── Account service proxy (/auth/*) ─────────────────────────────────────────

func (s *Server) handleAuthLogin(w http.ResponseWriter, r *http.Request) {
	if s.accounts == nil {
		writeError(w, http.StatusServiceUnavailable, "account service not configured")
		return
	}
	var creds auth.Credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	sess, err := s.accounts.Login(r.Context(), creds)
	if err != nil {
		writeAuthError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

func (s *Server) handleAuthRegister(w http.ResponseWriter, r *http.Request) {
	if s.accounts == nil {
		writeError(w, http.StatusServiceUnavailable, "account service not configured")
		return
	}
	var info auth.RegisterInfo
	if err := json.NewDecoder(r.Body).Decode(&info); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	sess, err := s.accounts.Register(r.Context(), info)
	if err != nil {
		writeAuthError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, sess)
}

func (s *Server) handleAuthLogout(w http.ResponseWriter, r *http.Request) {
	if s.accounts == nil {
		writeError(w, http.StatusServiceUnavailable, "account service not configured")
		return
	}
	if err := s.accounts.Logout(); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (s *Server) handleAuthSession(w http.ResponseWriter, r *http.Request) {
	if s.accounts == nil {
		writeError(w, http.StatusServiceUnavailable, "account service not configured")
		return
	}
	sess, ok := s.accounts.CurrentSession()
	if !ok {
		writeJSON(w, http.StatusOK, map[string]interface{}{"session": nil})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"session": sess})
}

func writeAuthError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrAuthRejected):
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, domain.ErrAuthUnavailable):
		writeError(w, http.StatusBadGateway, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}
