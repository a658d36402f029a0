package progress

import (
	"math"

	"github.com/purpleschool/purpleschool/internal/domain"
)

// The level ladder: 12 levels across 3 phases. XP thresholds are cumulative
// and strictly increasing; level 1 starts at 0 so every XP value maps to
// exactly one level.

// AllLevels returns the full level table, ordered by id.
func AllLevels() []domain.Level {
	return []domain.Level{
		// ── Phase 1: Foundation — build your learning habit ────────────
		{ID: 1, Name: "Newcomer", Phase: domain.PhaseFoundation, PhaseName: "Foundation", XPRequired: 0, Icon: "🌱"},
		{ID: 2, Name: "Curious", Phase: domain.PhaseFoundation, PhaseName: "Foundation", XPRequired: 50, Icon: "🔍"},
		{ID: 3, Name: "Explorer", Phase: domain.PhaseFoundation, PhaseName: "Foundation", XPRequired: 125, Icon: "🧭"},
		{ID: 4, Name: "Learner", Phase: domain.PhaseFoundation, PhaseName: "Foundation", XPRequired: 250, Icon: "📘"},

		// ── Phase 2: Growth — develop competence ───────────────────────
		{ID: 5, Name: "Thinker", Phase: domain.PhaseGrowth, PhaseName: "Growth", XPRequired: 450, Icon: "💡"},
		{ID: 6, Name: "Achiever", Phase: domain.PhaseGrowth, PhaseName: "Growth", XPRequired: 700, Icon: "🎯"},
		{ID: 7, Name: "Scholar", Phase: domain.PhaseGrowth, PhaseName: "Growth", XPRequired: 1000, Icon: "📚"},
		{ID: 8, Name: "Specialist", Phase: domain.PhaseGrowth, PhaseName: "Growth", XPRequired: 1400, Icon: "🎓"},

		// ── Phase 3: Mastery — achieve consistency ─────────────────────
		{ID: 9, Name: "Expert", Phase: domain.PhaseMastery, PhaseName: "Mastery", XPRequired: 1900, Icon: "⭐"},
		{ID: 10, Name: "Mentor", Phase: domain.PhaseMastery, PhaseName: "Mastery", XPRequired: 2500, Icon: "🌟"},
		{ID: 11, Name: "Sage", Phase: domain.PhaseMastery, PhaseName: "Mastery", XPRequired: 3200, Icon: "🦉"},
		{ID: 12, Name: "Legend", Phase: domain.PhaseMastery, PhaseName: "Mastery", XPRequired: 4000, Icon: "👑"},
	}
}

var levels = AllLevels()

// LevelForXP returns the highest level whose XPRequired is <= xp.
func LevelForXP(xp int64) domain.Level {
	current := levels[0]
	for _, l := range levels {
		if xp < l.XPRequired {
			break
		}
		current = l
	}
	return current
}

// LevelByID returns the level with the given id, or the nearest valid level
// when id is out of range.
func LevelByID(id int) domain.Level {
	if id < 1 {
		return levels[0]
	}
	if id > len(levels) {
		return levels[len(levels)-1]
	}
	return levels[id-1]
}

// NextLevel returns the immediate successor, or nil at the max level.
func NextLevel(l domain.Level) *domain.Level {
	if l.ID >= len(levels) {
		return nil
	}
	next := levels[l.ID] // levels are 1-indexed by id
	return &next
}

// ProgressFor computes position within the current level's XP span.
// At max level, percent is always 100 and XPToNext is 0.
func ProgressFor(xp int64) domain.LevelProgress {
	current := LevelForXP(xp)
	next := NextLevel(current)
	into := xp - current.XPRequired

	if next == nil {
		return domain.LevelProgress{Percent: 100, XPIntoLevel: into, XPToNext: 0}
	}

	span := next.XPRequired - current.XPRequired
	pct := int(math.Round(float64(into) * 100 / float64(span)))
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	return domain.LevelProgress{Percent: pct, XPIntoLevel: into, XPToNext: next.XPRequired - xp}
}
