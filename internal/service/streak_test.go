package service

import (
	"testing"
	"time"

	errorvalues "github.com/tandemio/lingua/internal/error_values"
	"github.com/tandemio/lingua/pkg/entity"
	"github.com/stretchr/testify/assert"
)

var noon = time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)

func TestAdvanceLanguageStreak(t *testing.T) {
	testCases := []struct {
		Desc            string
		Before          entity.StreakData
		ExpectedCurrent int
		ExpectedLongest int
	}{
		{
			Desc:            "first ever activity starts streak at 1",
			Before:          entity.StreakData{},
			ExpectedCurrent: 1,
			ExpectedLongest: 1,
		},
		{
			Desc: "second activity same day keeps counter",
			Before: entity.StreakData{
				CurrentStreak:    4,
				LongestStreak:    6,
				LastPracticeDate: noon.Add(-2 * time.Hour),
			},
			ExpectedCurrent: 4,
			ExpectedLongest: 6,
		},
		{
			Desc: "activity on next day extends streak",
			Before: entity.StreakData{
				CurrentStreak:    4,
				LongestStreak:    6,
				LastPracticeDate: noon.AddDate(0, 0, -1),
			},
			ExpectedCurrent: 5,
			ExpectedLongest: 6,
		},
		{
			Desc: "extending past record raises longest",
			Before: entity.StreakData{
				CurrentStreak:    6,
				LongestStreak:    6,
				LastPracticeDate: noon.AddDate(0, 0, -1),
			},
			ExpectedCurrent: 7,
			ExpectedLongest: 7,
		},
		{
			Desc: "two day gap restarts at 1, longest kept",
			Before: entity.StreakData{
				CurrentStreak:    9,
				LongestStreak:    9,
				LastPracticeDate: noon.AddDate(0, 0, -2),
			},
			ExpectedCurrent: 1,
			ExpectedLongest: 9,
		},
		{
			Desc: "late evening yesterday still counts as consecutive",
			Before: entity.StreakData{
				CurrentStreak:    2,
				LongestStreak:    3,
				LastPracticeDate: time.Date(2024, 6, 9, 23, 59, 0, 0, time.UTC),
			},
			ExpectedCurrent: 3,
			ExpectedLongest: 3,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.Desc, func(t *testing.T) {
			sd := tc.Before
			advanceLanguageStreak(&sd, noon)
			assert.Equal(t, tc.ExpectedCurrent, sd.CurrentStreak)
			assert.Equal(t, tc.ExpectedLongest, sd.LongestStreak)
			assert.Equal(t, noon, sd.LastPracticeDate)
			assert.GreaterOrEqual(t, sd.LongestStreak, sd.CurrentStreak)
		})
	}
}

func TestAdvanceGlobalStreak(t *testing.T) {
	t.Run("first advance of the day increments and pays points", func(t *testing.T) {
		user := entity.User{
			Streak: entity.UserStreak{Count: 1, LastUpdated: noon.AddDate(0, 0, -1)},
			Points: 10,
		}
		award := advanceGlobalStreak(&user, noon)
		assert.Equal(t, int64(20), award)
		assert.Equal(t, 2, user.Streak.Count)
		assert.Equal(t, noon, user.Streak.LastUpdated)
		assert.Equal(t, int64(30), user.Points)
	})
	t.Run("second advance same day is a no-op", func(t *testing.T) {
		user := entity.User{
			Streak: entity.UserStreak{Count: 2, LastUpdated: noon},
			Points: 30,
		}
		award := advanceGlobalStreak(&user, noon.Add(3*time.Hour))
		assert.Zero(t, award)
		assert.Equal(t, 2, user.Streak.Count)
		assert.Equal(t, noon, user.Streak.LastUpdated)
		assert.Equal(t, int64(30), user.Points)
	})
	t.Run("write path increments even after a gap", func(t *testing.T) {
		// Gaps are handled by the read-side reset, not here
		user := entity.User{
			Streak: entity.UserStreak{Count: 5, LastUpdated: noon.AddDate(0, 0, -4)},
			Points: 150,
		}
		award := advanceGlobalStreak(&user, noon)
		assert.Equal(t, int64(60), award)
		assert.Equal(t, 6, user.Streak.Count)
	})
	t.Run("brand new user goes zero to one", func(t *testing.T) {
		user := entity.User{}
		award := advanceGlobalStreak(&user, noon)
		assert.Equal(t, int64(10), award)
		assert.Equal(t, 1, user.Streak.Count)
		assert.Equal(t, int64(10), user.Points)
	})
}

func TestStaleStreak(t *testing.T) {
	testCases := []struct {
		Desc        string
		LastUpdated time.Time
		Stale       bool
	}{
		{"updated today", noon.Add(-time.Hour), false},
		{"updated yesterday", noon.AddDate(0, 0, -1), false},
		{"missed a full day", noon.AddDate(0, 0, -2), true},
		{"missed a week", noon.AddDate(0, 0, -7), true},
	}
	for _, tc := range testCases {
		t.Run(tc.Desc, func(t *testing.T) {
			assert.Equal(t, tc.Stale, staleStreak(entity.UserStreak{Count: 3, LastUpdated: tc.LastUpdated}, noon))
		})
	}
}

func TestAccumulateGoals(t *testing.T) {
	base := entity.Progress{
		PracticeMinutes:   100,
		ConversationsHeld: 3,
		WeeklyGoal:        entity.Goal{Target: 150, Completion: 40},
		MonthlyGoal:       entity.Goal{Target: 10, Completion: 3},
	}
	t.Run("practice adds minutes to both counters", func(t *testing.T) {
		p := base
		err := accumulateGoals(&p, entity.ActivityPractice, 25)
		assert.NoError(t, err)
		assert.Equal(t, 125, p.PracticeMinutes)
		assert.Equal(t, 65, p.WeeklyGoal.Completion)
		assert.Equal(t, 3, p.ConversationsHeld)
		assert.Equal(t, 3, p.MonthlyGoal.Completion)
	})
	t.Run("conversation increments both counters by one", func(t *testing.T) {
		p := base
		err := accumulateGoals(&p, entity.ActivityConversation, 0)
		assert.NoError(t, err)
		assert.Equal(t, 4, p.ConversationsHeld)
		assert.Equal(t, 4, p.MonthlyGoal.Completion)
		assert.Equal(t, 100, p.PracticeMinutes)
	})
	t.Run("vocabulary touches nothing", func(t *testing.T) {
		p := base
		err := accumulateGoals(&p, entity.ActivityVocabulary, 30)
		assert.NoError(t, err)
		assert.Equal(t, base, p)
	})
	t.Run("unknown activity rejected", func(t *testing.T) {
		p := base
		err := accumulateGoals(&p, "meditation", 5)
		assert.ErrorIs(t, err, errorvalues.ErrInvalidActivity)
	})
	t.Run("completions accumulate across calls without rollover", func(t *testing.T) {
		p := base
		for _, m := range []int{10, 20, 30} {
			assert.NoError(t, accumulateGoals(&p, entity.ActivityPractice, m))
		}
		assert.Equal(t, base.WeeklyGoal.Completion+60, p.WeeklyGoal.Completion)
		assert.Equal(t, base.PracticeMinutes+60, p.PracticeMinutes)
	})
}
