package progress

import "github.com/purpleschool/purpleschool/internal/domain"

// Milestone tables per activity category. Trigger values are unique and
// ascending within each table; achievements fire at the exact instant a
// counter passes through a listed value, never retroactively.

// WelcomeXP is the fixed award for the once-per-day learn-page welcome.
const WelcomeXP = 2

// WelcomeThreshold is the synthetic milestone for the daily welcome award.
func WelcomeThreshold() domain.Threshold {
	return domain.Threshold{
		Trigger:  0,
		Message:  "Welcome back! Ready to learn something new?",
		Icon:     "👋",
		XPReward: WelcomeXP,
	}
}

// AllThresholds returns the full per-category milestone catalog.
func AllThresholds() map[domain.AchievementCategory][]domain.Threshold {
	return map[domain.AchievementCategory][]domain.Threshold{
		domain.CatQuestions: {
			{Trigger: 1, Message: "You asked your first question! Great start!", Icon: "🌱", XPReward: 5},
			{Trigger: 3, Message: "You asked 3 questions! Curiosity is your superpower.", Icon: "🌟", XPReward: 10},
			{Trigger: 5, Message: "5 questions in! You're really engaging with the material.", Icon: "🎯", XPReward: 15},
			{Trigger: 10, Message: "10 questions! You're on a learning roll!", Icon: "🚀", XPReward: 25},
			{Trigger: 25, Message: "25 questions! You're a curious learner!", Icon: "🧠", XPReward: 50},
			{Trigger: 50, Message: "50 questions! Knowledge seeker extraordinaire!", Icon: "👑", XPReward: 100},
		},
		domain.CatStudyTime: {
			{Trigger: 1, Message: "You studied for 1 minute! Every second counts.", Icon: "⏱️", XPReward: 5},
			{Trigger: 5, Message: "5 minutes of focused learning! Keep it up.", Icon: "📚", XPReward: 10},
			{Trigger: 10, Message: "10 minutes! Your brain is thanking you.", Icon: "🧠", XPReward: 15},
			{Trigger: 15, Message: "15 minutes of learning! Impressive focus!", Icon: "✨", XPReward: 20},
			{Trigger: 30, Message: "30 minutes! You're in the zone!", Icon: "🔥", XPReward: 40},
			{Trigger: 60, Message: "1 hour of learning! You're amazing!", Icon: "🏆", XPReward: 75},
		},
		domain.CatStreak: {
			{Trigger: 2, Message: "2-day streak! You're building a habit.", Icon: "🔥", XPReward: 10},
			{Trigger: 3, Message: "3 days in a row! Consistency is key.", Icon: "💪", XPReward: 15},
			{Trigger: 5, Message: "5-day streak! You're unstoppable!", Icon: "⚡", XPReward: 25},
			{Trigger: 7, Message: "A whole week! You're a learning machine!", Icon: "🎉", XPReward: 50},
			{Trigger: 14, Message: "Two weeks strong! Incredible dedication!", Icon: "🌟", XPReward: 100},
			{Trigger: 30, Message: "30-day streak! You're a legend!", Icon: "👑", XPReward: 250},
		},
		domain.CatDailyLogin: {
			{Trigger: 1, Message: "First day of your learning journey!", Icon: "🌅", XPReward: 5},
			{Trigger: 3, Message: "3 days of showing up! Keep coming back.", Icon: "📅", XPReward: 10},
			{Trigger: 7, Message: "A week of learning days! Wonderful habit.", Icon: "🗓️", XPReward: 25},
			{Trigger: 14, Message: "14 learning days! You belong here.", Icon: "🏅", XPReward: 50},
			{Trigger: 30, Message: "30 learning days! Truly dedicated.", Icon: "💎", XPReward: 100},
		},
		domain.CatSubjects: {
			{Trigger: 2, Message: "You explored a second subject! Variety feeds curiosity.", Icon: "🎨", XPReward: 15},
			{Trigger: 3, Message: "3 subjects explored! You're a well-rounded learner.", Icon: "🌈", XPReward: 30},
		},
	}
}

var thresholds = AllThresholds()

// CheckThreshold returns the milestone whose trigger exactly equals value,
// or nil. Use for counters that advance by exactly 1 per event.
func CheckThreshold(cat domain.AchievementCategory, value int) *domain.Threshold {
	for _, th := range thresholds[cat] {
		if th.Trigger == value {
			hit := th
			return &hit
		}
		if th.Trigger > value {
			break
		}
	}
	return nil
}

// CheckRange returns every milestone with trigger in (prev, current],
// ascending. Use for counters that can jump by more than 1 per update so
// no milestone is skipped.
func CheckRange(cat domain.AchievementCategory, prev, current int) []domain.Threshold {
	var hits []domain.Threshold
	for _, th := range thresholds[cat] {
		if th.Trigger > prev && th.Trigger <= current {
			hits = append(hits, th)
		}
		if th.Trigger > current {
			break
		}
	}
	return hits
}
