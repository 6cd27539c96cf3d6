package service

import (
	"time"

	errorvalues "github.com/tandemio/lingua/internal/error_values"
	"github.com/tandemio/lingua/pkg/dates"
	"github.com/tandemio/lingua/pkg/entity"
)

// Streak transition rules. All day comparisons use UTC calendar days,
// see pkg/dates.

const (
	// Points credited per day of global streak: day N pays 10*N.
	pointsPerStreakDay = 10

	defaultWeeklyGoalMinutes        = 150
	defaultMonthlyGoalConversations = 10
)

// advanceLanguageStreak applies one recorded activity to the per-language
// streak. Continuity is judged by calendar days: a second activity on the
// same day is a no-op for the counter, an activity on the next day extends
// the streak, anything later restarts it at 1. LastPracticeDate moves to
// now on every call.
func advanceLanguageStreak(sd *entity.StreakData, now time.Time) {
	switch {
	case dates.SameDay(sd.LastPracticeDate, now):
		// already counted today
	case dates.IsYesterday(sd.LastPracticeDate, now):
		sd.CurrentStreak++
	default:
		sd.CurrentStreak = 1
	}
	if sd.CurrentStreak > sd.LongestStreak {
		sd.LongestStreak = sd.CurrentStreak
	}
	sd.LastPracticeDate = now
}

// advanceGlobalStreak increments the user's cross-language streak the
// first time it is called on a given day and credits points scaled by the
// new streak length. Returns the points credited, 0 when the streak
// already advanced today. This path never resets the counter; lapsed
// streaks are zeroed on the read side, see staleStreak.
func advanceGlobalStreak(user *entity.User, now time.Time) int64 {
	if !dates.CalendarDate(user.Streak.LastUpdated).Before(dates.CalendarDate(now)) {
		return 0
	}
	user.Streak.Count++
	user.Streak.LastUpdated = now
	award := int64(pointsPerStreakDay * user.Streak.Count)
	user.Points += award
	return award
}

// staleStreak reports whether the global streak lapsed: more than one full
// calendar day passed since it last advanced.
func staleStreak(streak entity.UserStreak, now time.Time) bool {
	return dates.DaysBetween(streak.LastUpdated, now) > 1
}

// accumulateGoals folds one activity into the cumulative and goal
// counters. Vocabulary activities touch no counter here: vocabulary lists
// are owned by a separate subsystem.
func accumulateGoals(progress *entity.Progress, activityType string, minutes int) error {
	switch activityType {
	case entity.ActivityPractice:
		progress.PracticeMinutes += minutes
		progress.WeeklyGoal.Completion += minutes
	case entity.ActivityConversation:
		progress.ConversationsHeld++
		progress.MonthlyGoal.Completion++
	case entity.ActivityVocabulary:
	default:
		return errorvalues.ErrInvalidActivity
	}
	return nil
}
