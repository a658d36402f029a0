package progress

import (
	"math"

	"github.com/purpleschool/purpleschool/internal/domain"
)

// DecayPolicy controls XP reduction during inactivity. No decay through the
// freeze window; past it, XP drops by DailyPercent per inactive day, capped
// at MaxPercent, and never demotes the user by more than one level in a
// single application.
type DecayPolicy struct {
	GraceDays    int
	FreezeDays   int
	DailyPercent float64
	MaxPercent   float64
}

// DefaultDecayPolicy returns the standard tuning: 3-day grace, 7-day freeze,
// 2% per day, 30% cap.
func DefaultDecayPolicy() DecayPolicy {
	return DecayPolicy{
		GraceDays:    3,
		FreezeDays:   7,
		DailyPercent: 0.02,
		MaxPercent:   0.30,
	}
}

// Apply evaluates decay for the given calendar date and returns the updated
// state plus the XP lost (0 when nothing changed). Applied at most once per
// day; a system date moving backward counts as zero inactive days.
// HighestXPEver and HighestLevelID are never touched.
func (p DecayPolicy) Apply(state domain.ProgressState, today string) (domain.ProgressState, int64) {
	if state.LastActiveDate == "" {
		return state, 0 // No activity yet — nothing to decay
	}

	daysSinceActive := daysBetween(state.LastActiveDate, today)
	if daysSinceActive < 0 {
		daysSinceActive = 0 // Clock anomaly
	}

	// Grace and freeze overlap intentionally: no decay through the freeze day.
	if daysSinceActive <= p.GraceDays {
		return state, 0
	}
	if daysSinceActive <= p.FreezeDays {
		return state, 0
	}

	if state.LastDecayDate == today {
		return state, 0 // Already applied today
	}

	daysOfDecay := daysSinceActive - p.FreezeDays
	pct := float64(daysOfDecay) * p.DailyPercent
	if pct > p.MaxPercent {
		pct = p.MaxPercent
	}

	loss := int64(math.Round(float64(state.CurrentXP) * pct))
	newXP := state.CurrentXP - loss
	if newXP < 0 {
		newXP = 0
	}

	// Decay may never demote by more than one level per application.
	oldLevel := LevelForXP(state.CurrentXP)
	if oldLevel.ID > 1 {
		floor := LevelByID(oldLevel.ID - 1).XPRequired
		if LevelForXP(newXP).ID < oldLevel.ID-1 {
			newXP = floor
		}
	}

	loss = state.CurrentXP - newXP
	state.CurrentXP = newXP
	state.LastDecayDate = today // Set even when XP was already 0
	return state, loss
}
