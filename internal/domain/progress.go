// Package domain — progress engine types.
// The progress engine drives engagement through XP, levels, streaks,
// achievements, and inactivity decay.
package domain

import "time"

// DateLayout is the calendar-date format used for all persisted date markers.
// Streaks, decay, and daily counters operate on calendar days, never wall-clock
// hours, so dates are stored as plain "YYYY-MM-DD" strings.
const DateLayout = "2006-01-02"

// ─── Level / XP Types ───────────────────────────────────────────────────────

// Phase groups consecutive levels for presentation.
const (
	PhaseFoundation = 1
	PhaseGrowth     = 2
	PhaseMastery    = 3
)

// Level is a named tier unlocked at a cumulative XP threshold.
type Level struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	Phase      int    `json:"phase"`
	PhaseName  string `json:"phase_name"`
	XPRequired int64  `json:"xp_required"`
	Icon       string `json:"icon"`
}

// LevelProgress describes position within the current level's XP span.
type LevelProgress struct {
	Percent     int   `json:"percent"` // 0–100
	XPIntoLevel int64 `json:"xp_into_level"`
	XPToNext    int64 `json:"xp_to_next"` // 0 at max level
}

// ─── Achievement Types ──────────────────────────────────────────────────────

// AchievementCategory names the activity counter an achievement tracks.
type AchievementCategory string

const (
	CatQuestions    AchievementCategory = "questions"
	CatStudyTime    AchievementCategory = "study_time"
	CatStreak       AchievementCategory = "streak"
	CatDailyLogin   AchievementCategory = "daily_login"
	CatSubjects     AchievementCategory = "subject_diversity"
	CatGeneral      AchievementCategory = "general"
	CatLearnWelcome AchievementCategory = "learn_welcome"
)

// Threshold defines a single milestone within a category.
// Trigger values are unique and ascending within each category's table.
type Threshold struct {
	Trigger  int    `json:"trigger"`
	Message  string `json:"message"`
	Icon     string `json:"icon"`
	XPReward int64  `json:"xp_reward"`
}

// Achievement records a crossed milestone. Created exactly once per threshold;
// immutable except for Read.
type Achievement struct {
	ID        string              `json:"id"`
	Category  AchievementCategory `json:"category"`
	Message   string              `json:"message"`
	Icon      string              `json:"icon"`
	CreatedAt time.Time           `json:"created_at"`
	Read      bool                `json:"read"`
	XPAwarded int64               `json:"xp_awarded,omitempty"`
}

// ─── Progress State ─────────────────────────────────────────────────────────

// ProgressState is the persisted state container, one per user profile.
// All mutation goes through the progress engine; HighestXPEver and
// HighestLevelID are monotonically non-decreasing, decay only ever lowers
// CurrentXP.
type ProgressState struct {
	CurrentXP      int64 `json:"current_xp"`
	HighestXPEver  int64 `json:"highest_xp_ever"`
	HighestLevelID int   `json:"highest_level_id"`

	LastActiveDate string `json:"last_active_date,omitempty"`
	LastDecayDate  string `json:"last_decay_date,omitempty"`

	QuestionsAsked     int      `json:"questions_asked"`
	StudyTimeMinutes   int      `json:"study_time_minutes"`
	CurrentStreakDays  int      `json:"current_streak_days"`
	TotalDaysActive    int      `json:"total_days_active"`
	TotalStudySessions int      `json:"total_study_sessions"`
	SubjectsEngaged    []string `json:"subjects_engaged,omitempty"`

	LastStudyDate   string `json:"last_study_date,omitempty"`
	LastLoginDate   string `json:"last_login_date,omitempty"`
	LastWelcomeDate string `json:"last_welcome_date,omitempty"`

	// SessionStart anchors study-time accounting. Nil when no session is
	// active; fractional-minute remainders carry over between ticks by
	// advancing the anchor in whole minutes only.
	SessionStart *time.Time `json:"session_start,omitempty"`
}

// HasSubject reports set membership in SubjectsEngaged.
func (s ProgressState) HasSubject(subject string) bool {
	for _, have := range s.SubjectsEngaged {
		if have == subject {
			return true
		}
	}
	return false
}

// ─── Derived View ───────────────────────────────────────────────────────────

// Stats is the counter block exposed to the UI.
type Stats struct {
	QuestionsAsked     int      `json:"questions_asked"`
	StudyTimeMinutes   int      `json:"study_time_minutes"`
	CurrentStreakDays  int      `json:"current_streak_days"`
	TotalDaysActive    int      `json:"total_days_active"`
	TotalStudySessions int      `json:"total_study_sessions"`
	SubjectsEngaged    []string `json:"subjects_engaged"`
	LastStudyDate      string   `json:"last_study_date,omitempty"`
}

// Snapshot is the read-only view the UI renders from. Recomputed from stored
// state on every access.
type Snapshot struct {
	CurrentXP       int64         `json:"current_xp"`
	CurrentLevel    Level         `json:"current_level"`
	NextLevel       *Level        `json:"next_level,omitempty"` // nil at max level
	Progress        LevelProgress `json:"progress"`
	HighestLevel    Level         `json:"highest_level"`
	Stats           Stats         `json:"stats"`
	Achievements    []Achievement `json:"achievements"` // most-recent-first
	UnreadCount     int           `json:"unread_count"`
	Loaded          bool          `json:"loaded"`
	SessionActive   bool          `json:"session_active"`
}

// StreakStatus is the dashboard streak message.
type StreakStatus struct {
	Message string `json:"message"`
	AtRisk  bool   `json:"at_risk"`
}

// ─── Notification Surface ───────────────────────────────────────────────────

// EventType categorizes queued UI events.
type EventType string

const (
	EventAchievement EventType = "achievement"
	EventLevelUp     EventType = "level_up"
)

// Event is a just-fired achievement or level-up the UI consumes one at a time.
type Event struct {
	Type        EventType    `json:"type"`
	Achievement *Achievement `json:"achievement,omitempty"`
	Level       *Level       `json:"level,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
}
