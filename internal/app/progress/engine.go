// Package progress implements the PurpleSchool progress engine.
// It converts raw learning activity — questions asked, minutes studied,
// daily logins, streaks, subject variety — into persisted XP, a derived
// level, unlocked achievements, and time-based decay during inactivity.
package progress

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/purpleschool/purpleschool/internal/domain"
	"github.com/purpleschool/purpleschool/internal/infra/metrics"
	"github.com/purpleschool/purpleschool/internal/infra/store"
)

// questionGuardWindow absorbs duplicate same-tick UI dispatches of a single
// question event. It is a dedup window, not a rate limit.
const questionGuardWindow = 100 * time.Millisecond

// Engine is the stateful API the UI consumes. Every operation runs to
// completion under the lock; persistence is best-effort and never surfaces
// an error to the caller.
type Engine struct {
	mu    sync.Mutex
	kv    store.KV
	clock func() time.Time
	decay DecayPolicy
	log   *logrus.Entry

	state        domain.ProgressState
	achievements []domain.Achievement // most-recent-first
	events       []domain.Event       // pending UI events, consumed one at a time
	loaded       bool
	degraded     bool // persistence failed; in-memory only for this session
	lastQuestion time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock injects the time source. The engine only ever needs "now" and
// the calendar date derived from it.
func WithClock(clock func() time.Time) Option {
	return func(e *Engine) { e.clock = clock }
}

// WithDecayPolicy overrides the decay tuning.
func WithDecayPolicy(p DecayPolicy) Option {
	return func(e *Engine) { e.decay = p }
}

// WithLogger sets the logger.
func WithLogger(l *logrus.Logger) Option {
	return func(e *Engine) { e.log = l.WithField("component", "progress") }
}

// NewEngine creates an engine over the given persistence port. Call Load
// before recording events.
func NewEngine(kv store.KV, opts ...Option) *Engine {
	e := &Engine{
		kv:    kv,
		clock: time.Now,
		decay: DefaultDecayPolicy(),
		log:   logrus.StandardLogger().WithField("component", "progress"),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ─── Lifecycle ──────────────────────────────────────────────────────────────

// Load reads persisted state and the achievement log, falling back to zero
// defaults on missing or malformed documents, then evaluates decay once.
// Idempotent; daily-gated operations are no-ops until Load has run.
func (e *Engine) Load() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.loaded {
		return
	}

	if data, found, err := e.kv.Load(store.KeyProgressState); err != nil {
		e.log.WithError(err).Warn("load progress state failed, starting fresh")
	} else if found {
		var st domain.ProgressState
		if err := json.Unmarshal(data, &st); err != nil {
			e.log.WithError(err).Warn("progress state corrupted, starting fresh")
		} else {
			e.state = st
		}
	}

	if data, found, err := e.kv.Load(store.KeyAchievementLog); err != nil {
		e.log.WithError(err).Warn("load achievement log failed, starting fresh")
	} else if found {
		var log []domain.Achievement
		if err := json.Unmarshal(data, &log); err != nil {
			e.log.WithError(err).Warn("achievement log corrupted, starting fresh")
		} else {
			e.achievements = log
		}
	}

	e.loaded = true
	metrics.CurrentXP.Set(float64(e.state.CurrentXP))
	metrics.CurrentLevel.Set(float64(LevelForXP(e.state.CurrentXP).ID))
	metrics.StreakDays.Set(float64(e.state.CurrentStreakDays))

	if loss := e.applyDecayLocked(); loss > 0 {
		e.log.WithField("xp_lost", loss).Info("inactivity decay applied on load")
	}
}

// Loaded reports whether persisted state has been read.
func (e *Engine) Loaded() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.loaded
}

// ─── Operations ─────────────────────────────────────────────────────────────

// AddXP grants XP, recomputes the level, and enqueues a level-up event when
// the level increased. Negative amounts are a caller bug and are rejected
// without mutating state.
func (e *Engine) AddXP(amount int64, source string) error {
	if amount < 0 {
		return fmt.Errorf("add xp %d from %q: %w", amount, source, domain.ErrNegativeXP)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.addXPLocked(amount, source)
	e.persistLocked()
	return nil
}

// RecordQuestionAsked increments the question counter and fires the
// questions detector. Bursts within the dedup window count once.
func (e *Engine) RecordQuestionAsked() {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.clock()
	if !e.lastQuestion.IsZero() && now.Sub(e.lastQuestion) < questionGuardWindow {
		return // duplicate UI dispatch
	}
	e.lastQuestion = now

	e.state.QuestionsAsked++
	metrics.QuestionsAsked.Inc()
	if th := CheckThreshold(domain.CatQuestions, e.state.QuestionsAsked); th != nil {
		e.unlockLocked(domain.CatQuestions, *th)
	}
	e.persistLocked()
}

// RecordSubjectEngagement adds a subject tag to the engaged set and fires
// the diversity detector. Known subjects are a no-op.
func (e *Engine) RecordSubjectEngagement(subject string) error {
	if subject == "" {
		return domain.ErrEmptySubject
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state.HasSubject(subject) {
		return nil
	}
	e.state.SubjectsEngaged = append(e.state.SubjectsEngaged, subject)
	if th := CheckThreshold(domain.CatSubjects, len(e.state.SubjectsEngaged)); th != nil {
		e.unlockLocked(domain.CatSubjects, *th)
	}
	e.persistLocked()
	return nil
}

// StartStudySession anchors study-time accounting at now.
func (e *Engine) StartStudySession() {
	e.mu.Lock()
	defer e.mu.Unlock()
	now := e.clock()
	e.state.SessionStart = &now
	e.persistLocked()
}

// UpdateStudyTime advances studied minutes from the session anchor.
// Fractional seconds carry over between ticks: the anchor moves forward in
// whole minutes only, so no partial minute is lost or double-counted.
// A no-op while no session is active.
func (e *Engine) UpdateStudyTime() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.updateStudyTimeLocked() {
		e.persistLocked()
	}
}

// RecordSessionComplete flushes any remaining whole minutes, counts the
// session, and clears the anchor. A no-op while idle.
func (e *Engine) RecordSessionComplete() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state.SessionStart == nil {
		return
	}
	e.updateStudyTimeLocked()
	e.state.TotalStudySessions++
	e.state.SessionStart = nil
	e.persistLocked()
}

// UpdateStreak extends or resets the consecutive-day streak. Repeated calls
// on the same calendar day are no-ops; a gap of more than one day resets
// the streak to 1.
func (e *Engine) UpdateStreak() {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.clock()
	today := dateOf(now)
	if e.state.LastStudyDate == today {
		return
	}

	streak := 1
	if e.state.LastStudyDate == dateOf(now.AddDate(0, 0, -1)) {
		streak = e.state.CurrentStreakDays + 1
	}
	e.state.CurrentStreakDays = streak
	e.state.LastStudyDate = today
	metrics.StreakDays.Set(float64(streak))

	if th := CheckThreshold(domain.CatStreak, streak); th != nil {
		e.unlockLocked(domain.CatStreak, *th)
	}
	e.persistLocked()
}

// RecordDailyLogin counts one active day per calendar date. A no-op until
// Load has run, so a first-paint double dispatch can never double count.
func (e *Engine) RecordDailyLogin() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.loaded {
		return
	}

	today := dateOf(e.clock())
	if e.state.LastLoginDate == today {
		return
	}
	e.state.LastLoginDate = today
	e.state.TotalDaysActive++

	if th := CheckThreshold(domain.CatDailyLogin, e.state.TotalDaysActive); th != nil {
		e.unlockLocked(domain.CatDailyLogin, *th)
	}
	e.persistLocked()
}

// RecordLearnWelcome grants the small once-per-day welcome award.
func (e *Engine) RecordLearnWelcome() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.loaded {
		return
	}

	today := dateOf(e.clock())
	if e.state.LastWelcomeDate == today {
		return
	}
	e.state.LastWelcomeDate = today
	e.unlockLocked(domain.CatLearnWelcome, WelcomeThreshold())
	e.persistLocked()
}

// ApplyDecay evaluates the decay policy for today. Applied at most once per
// calendar day; returns the XP lost.
func (e *Engine) ApplyDecay() int64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.applyDecayLocked()
}

// MarkAchievementRead flags a single achievement as read.
func (e *Engine) MarkAchievementRead(id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	for i := range e.achievements {
		if e.achievements[i].ID == id {
			e.achievements[i].Read = true
			e.persistLocked()
			return nil
		}
	}
	return fmt.Errorf("mark read %q: %w", id, domain.ErrAchievementNotFound)
}

// MarkAllRead flags every achievement as read.
func (e *Engine) MarkAllRead() {
	e.mu.Lock()
	defer e.mu.Unlock()
	for i := range e.achievements {
		e.achievements[i].Read = true
	}
	e.persistLocked()
}

// ─── Notification Surface ───────────────────────────────────────────────────

// NextEvent returns the oldest pending achievement/level-up event without
// consuming it.
func (e *Engine) NextEvent() (domain.Event, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.events) == 0 {
		return domain.Event{}, false
	}
	return e.events[0], true
}

// DismissEvent consumes the oldest pending event.
func (e *Engine) DismissEvent() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.events) > 0 {
		e.events = e.events[1:]
	}
}

// ─── Derived View ───────────────────────────────────────────────────────────

// Snapshot recomputes the read-only view from stored state. Never cached.
func (e *Engine) Snapshot() domain.Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	current := LevelForXP(e.state.CurrentXP)
	highestID := e.state.HighestLevelID
	if current.ID > highestID {
		highestID = current.ID
	}

	ach := make([]domain.Achievement, len(e.achievements))
	copy(ach, e.achievements)
	unread := 0
	for _, a := range ach {
		if !a.Read {
			unread++
		}
	}

	subjects := make([]string, len(e.state.SubjectsEngaged))
	copy(subjects, e.state.SubjectsEngaged)

	return domain.Snapshot{
		CurrentXP:     e.state.CurrentXP,
		CurrentLevel:  current,
		NextLevel:     NextLevel(current),
		Progress:      ProgressFor(e.state.CurrentXP),
		HighestLevel:  LevelByID(highestID),
		Stats: domain.Stats{
			QuestionsAsked:     e.state.QuestionsAsked,
			StudyTimeMinutes:   e.state.StudyTimeMinutes,
			CurrentStreakDays:  e.state.CurrentStreakDays,
			TotalDaysActive:    e.state.TotalDaysActive,
			TotalStudySessions: e.state.TotalStudySessions,
			SubjectsEngaged:    subjects,
			LastStudyDate:      e.state.LastStudyDate,
		},
		Achievements:  ach,
		UnreadCount:   unread,
		Loaded:        e.loaded,
		SessionActive: e.state.SessionStart != nil,
	}
}

// StreakStatus returns the dashboard streak message. The streak reads as
// "at risk" when the user is one or two days short of a full week.
func (e *Engine) StreakStatus() domain.StreakStatus {
	e.mu.Lock()
	defer e.mu.Unlock()

	switch 7 - e.state.CurrentStreakDays {
	case 1:
		return domain.StreakStatus{Message: "You're 1 day away from a 7-day streak. Keep it going!", AtRisk: true}
	case 2:
		return domain.StreakStatus{Message: "Just 2 more days to hit a 7-day streak!", AtRisk: true}
	}
	return domain.StreakStatus{
		Message: fmt.Sprintf("%d day streak! Keep the momentum going.", e.state.CurrentStreakDays),
	}
}

// ─── Internals ──────────────────────────────────────────────────────────────

// addXPLocked applies an XP grant and its level side effects. Caller holds
// the lock and persists afterwards.
func (e *Engine) addXPLocked(amount int64, source string) {
	prev := LevelForXP(e.state.CurrentXP)
	e.state.CurrentXP += amount
	next := LevelForXP(e.state.CurrentXP)

	if e.state.CurrentXP > e.state.HighestXPEver {
		e.state.HighestXPEver = e.state.CurrentXP
	}
	if next.ID > e.state.HighestLevelID {
		e.state.HighestLevelID = next.ID
	}
	now := e.clock()
	e.state.LastActiveDate = dateOf(now)
	e.state.LastDecayDate = "" // re-arm the decay eligibility window

	if next.ID > prev.ID {
		lvl := next
		e.events = append(e.events, domain.Event{Type: domain.EventLevelUp, Level: &lvl, CreatedAt: now})
		metrics.LevelUps.Inc()
		e.log.WithFields(logrus.Fields{"level": next.ID, "name": next.Name}).Info("level up")
	}

	metrics.XPAwarded.WithLabelValues(source).Add(float64(amount))
	metrics.CurrentXP.Set(float64(e.state.CurrentXP))
	metrics.CurrentLevel.Set(float64(next.ID))
}

// unlockLocked creates the achievement record for a crossed milestone,
// enqueues its event, and awards its XP synchronously in the same
// transaction.
func (e *Engine) unlockLocked(cat domain.AchievementCategory, th domain.Threshold) {
	now := e.clock()
	a := domain.Achievement{
		ID:        fmt.Sprintf("%d-%s", now.UnixMilli(), uuid.NewString()[:8]),
		Category:  cat,
		Message:   th.Message,
		Icon:      th.Icon,
		CreatedAt: now,
		XPAwarded: th.XPReward,
	}
	e.achievements = append([]domain.Achievement{a}, e.achievements...)

	ev := a
	e.events = append(e.events, domain.Event{Type: domain.EventAchievement, Achievement: &ev, CreatedAt: now})
	metrics.AchievementsUnlocked.WithLabelValues(string(cat)).Inc()
	e.log.WithFields(logrus.Fields{"category": cat, "trigger": th.Trigger}).Info("achievement unlocked")

	if th.XPReward > 0 {
		e.addXPLocked(th.XPReward, "achievement")
	}
}

// updateStudyTimeLocked reports whether any minutes were recorded.
func (e *Engine) updateStudyTimeLocked() bool {
	if e.state.SessionStart == nil {
		return false
	}
	now := e.clock()
	elapsed := now.Sub(*e.state.SessionStart)
	if elapsed < 0 {
		// Clock moved backward — re-anchor rather than corrupt the counter.
		e.state.SessionStart = &now
		return false
	}

	whole := int(elapsed / time.Minute)
	if whole == 0 {
		return false
	}

	prev := e.state.StudyTimeMinutes
	total := prev + whole
	for _, th := range CheckRange(domain.CatStudyTime, prev, total) {
		e.unlockLocked(domain.CatStudyTime, th)
	}
	e.state.StudyTimeMinutes = total

	anchor := e.state.SessionStart.Add(time.Duration(whole) * time.Minute)
	e.state.SessionStart = &anchor
	metrics.StudyMinutes.Add(float64(whole))
	return true
}

// applyDecayLocked evaluates decay for today and persists when state moved.
func (e *Engine) applyDecayLocked() int64 {
	today := dateOf(e.clock())
	next, loss := e.decay.Apply(e.state, today)
	if loss == 0 && next.LastDecayDate == e.state.LastDecayDate {
		return 0
	}
	e.state = next
	if loss > 0 {
		metrics.XPDecayed.Add(float64(loss))
		metrics.CurrentXP.Set(float64(e.state.CurrentXP))
		metrics.CurrentLevel.Set(float64(LevelForXP(e.state.CurrentXP).ID))
	}
	e.persistLocked()
	return loss
}

// persistLocked writes both documents best-effort. The first failure
// degrades the engine to in-memory-only for the rest of the session —
// a slow or broken backend must never surface to the caller.
func (e *Engine) persistLocked() {
	if e.degraded {
		return
	}

	stateJSON, err := json.Marshal(e.state)
	if err == nil {
		err = e.kv.Save(store.KeyProgressState, stateJSON)
	}
	if err == nil {
		var logJSON []byte
		if logJSON, err = json.Marshal(e.achievements); err == nil {
			err = e.kv.Save(store.KeyAchievementLog, logJSON)
		}
	}
	if err != nil {
		e.degraded = true
		metrics.PersistFailures.Inc()
		e.log.WithError(err).Warn("persistence failed, continuing in memory only")
	}
}
