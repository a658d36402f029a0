// Package metrics provides Prometheus metrics for the progress engine —
// counters and gauges for XP, levels, achievements, streaks, and sessions.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ─── XP / Levels ────────────────────────────────────────────────────────────

// XPAwarded tracks total XP granted, by source tag.
var XPAwarded = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "purpleschool",
	Name:      "xp_awarded_total",
	Help:      "Total XP awarded.",
}, []string{"source"})

// XPDecayed tracks total XP removed by inactivity decay.
var XPDecayed = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "purpleschool",
	Name:      "xp_decayed_total",
	Help:      "Total XP removed by decay.",
})

// CurrentXP tracks the current XP balance.
var CurrentXP = promauto.NewGauge(prometheus.GaugeOpts{
	Namespace: "purpleschool",
	Name:      "xp_current",
	Help:      "Current XP balance.",
})

// CurrentLevel tracks the current level id.
var CurrentLevel = promauto.NewGauge(prometheus.GaugeOpts{
	Namespace: "purpleschool",
	Name:      "level_current",
	Help:      "Current level id.",
})

// LevelUps counts level-up events.
var LevelUps = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "purpleschool",
	Name:      "level_ups_total",
	Help:      "Total level-up events.",
})

// ─── Achievements / Activity ────────────────────────────────────────────────

// AchievementsUnlocked counts achievements by category.
var AchievementsUnlocked = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "purpleschool",
	Name:      "achievements_unlocked_total",
	Help:      "Total achievements unlocked.",
}, []string{"category"})

// StudyMinutes counts recorded study minutes.
var StudyMinutes = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "purpleschool",
	Name:      "study_minutes_total",
	Help:      "Total study minutes recorded.",
})

// QuestionsAsked counts recorded questions.
var QuestionsAsked = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "purpleschool",
	Name:      "questions_asked_total",
	Help:      "Total questions recorded.",
})

// StreakDays tracks the current streak length.
var StreakDays = promauto.NewGauge(prometheus.GaugeOpts{
	Namespace: "purpleschool",
	Name:      "streak_days_current",
	Help:      "Current consecutive-day streak.",
})

// PersistFailures counts best-effort persistence failures.
var PersistFailures = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "purpleschool",
	Name:      "persist_failures_total",
	Help:      "Total state persistence failures (engine degraded to memory-only).",
})
