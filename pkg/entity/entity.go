package entity

import (
	"time"

	"github.com/google/uuid"
)

// Proficiency tiers a user can declare for a learning language.
const (
	LevelBeginner     = "beginner"
	LevelIntermediate = "intermediate"
	LevelAdvanced     = "advanced"
	LevelFluent       = "fluent"
)

// Activity types accepted by the progress engine.
const (
	ActivityPractice     = "practice"
	ActivityConversation = "conversation"
	ActivityVocabulary   = "vocabulary"
)

type UserStreak struct {
	Count       int       `json:"count"`
	LastUpdated time.Time `json:"last_updated"`
}

type User struct {
	ID           uuid.UUID
	Name         string
	PasswordHash string
	Streak       UserStreak
	Points       int64
}

// LanguagePreference is the user's declared proficiency for a language
// they study. Used to seed new Progress records.
type LanguagePreference struct {
	UserID   uuid.UUID `json:"uid"`
	Language string    `json:"language"`
	Level    string    `json:"level"`
}

type StreakData struct {
	CurrentStreak    int       `json:"current_streak"`
	LongestStreak    int       `json:"longest_streak"`
	LastPracticeDate time.Time `json:"last_practice_date"`
}

type Goal struct {
	Target     int `json:"target"`
	Completion int `json:"completion"`
}

// Progress aggregates learning statistics for one (user, language) pair.
// At most one record exists per pair; created lazily on first activity.
type Progress struct {
	ID                uuid.UUID  `json:"id"`
	UserID            uuid.UUID  `json:"uid"`
	Language          string     `json:"language"`
	CurrentLevel      string     `json:"current_level"`
	PracticeMinutes   int        `json:"practice_minutes"`
	ConversationsHeld int        `json:"conversations_held"`
	VocabCount        int        `json:"vocab_count"`
	StreakData        StreakData `json:"streak_data"`
	WeeklyGoal        Goal       `json:"weekly_goal"`
	MonthlyGoal       Goal       `json:"monthly_goal"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// LanguageSummary is the per-language slice of the streak dashboard.
type LanguageSummary struct {
	Language          string     `json:"language"`
	Level             string     `json:"level"`
	VocabCount        int        `json:"vocab_count"`
	ConversationsHeld int        `json:"conversations_held"`
	PracticeMinutes   int        `json:"practice_minutes"`
	StreakData        StreakData `json:"streak_data"`
	WeeklyGoal        Goal       `json:"weekly_goal"`
	MonthlyGoal       Goal       `json:"monthly_goal"`
}

type StreakView struct {
	Streak    UserStreak        `json:"streak"`
	Points    int64             `json:"points"`
	Languages []LanguageSummary `json:"languages"`
}
