// ABOUTME: Achievement predicates evaluated over leaderboard progress.
// ABOUTME: Unlocks are recomputed on demand, never stored.
package models

// Achievement is a named milestone with a predicate over a participant's
// current standing and weigh-in history.
type Achievement struct {
	ID          string
	Title       string
	Description string
	Icon        string
	Criteria    func(entry LeaderboardEntry, history []WeightEntry) bool
}

// Achievements lists every milestone in display order.
var Achievements = []Achievement{
	{
		ID:          "first-weigh-in",
		Title:       "Getting Started",
		Description: "Logged your first weight",
		Icon:        "🎯",
		Criteria: func(_ LeaderboardEntry, history []WeightEntry) bool {
			return len(history) >= 1
		},
	},
	{
		ID:          "consistent-tracker",
		Title:       "Consistency Champion",
		Description: "7 weigh-ins logged",
		Icon:        "🔥",
		Criteria: func(_ LeaderboardEntry, history []WeightEntry) bool {
			return len(history) >= 7
		},
	},
	{
		ID:          "quarter-goal",
		Title:       "25% Progress",
		Description: "Reached 25% of your goal",
		Icon:        "🌟",
		Criteria: func(e LeaderboardEntry, _ []WeightEntry) bool {
			return e.PercentageToGoal >= 25
		},
	},
	{
		ID:          "halfway-hero",
		Title:       "Halfway Hero",
		Description: "Reached 50% of your goal",
		Icon:        "💪",
		Criteria: func(e LeaderboardEntry, _ []WeightEntry) bool {
			return e.PercentageToGoal >= 50
		},
	},
	{
		ID:          "goal-crusher",
		Title:       "Goal Crusher",
		Description: "Achieved your weight goal!",
		Icon:        "👑",
		Criteria: func(e LeaderboardEntry, _ []WeightEntry) bool {
			return e.PercentageToGoal >= 100
		},
	},
	{
		ID:          "big-loss",
		Title:       "Major Milestone",
		Description: "Lost 10kg or more",
		Icon:        "🏆",
		Criteria: func(e LeaderboardEntry, _ []WeightEntry) bool {
			return e.WeightLost >= 10
		},
	},
}

// Unlocked returns the achievements whose criteria the participant meets.
func Unlocked(entry LeaderboardEntry, history []WeightEntry) []Achievement {
	var unlocked []Achievement
	for _, a := range Achievements {
		if a.Criteria(entry, history) {
			unlocked = append(unlocked, a)
		}
	}
	return unlocked
}
