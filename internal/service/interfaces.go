package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/tandemio/lingua/pkg/entity"
)

type RegisterRequest struct {
	Name     string `validate:"required,alphanum_underscore,min=3,max=100"`
	Password string `validate:"required,min=8,max=72"`
}

type RecordActivityRequest struct {
	Language     string `validate:"required,language_code"`
	ActivityType string `validate:"required,oneof=practice conversation vocabulary"`
	Minutes      int    `validate:"min=0"`
}

type SetLanguageRequest struct {
	Language string `validate:"required,language_code"`
	Level    string `validate:"required,oneof=beginner intermediate advanced fluent"`
}

// ActivityResult is what a recorded activity changed: the saved progress
// record, the user's global streak and points after the call, and the
// points credited by this call (0 when the streak already advanced today).
type ActivityResult struct {
	Progress        *entity.Progress
	Streak          entity.UserStreak
	Points          int64
	PointsAwarded   int64
	CreatedProgress bool
}

type UserServiceI interface {
	// Validates user's credentials, creates new row in database. Returns user's data with ID
	Register(ctx context.Context, req *RegisterRequest) (*entity.User, error)
	// Compares given credentials. If ok, give back user's data with ID.
	Login(ctx context.Context, name, password string) (*entity.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
	GetByName(ctx context.Context, name string) (*entity.User, error)
	DeleteAccount(ctx context.Context, id uuid.UUID, password string) error
	// Declares the user's proficiency for a language they study
	SetLanguageLevel(ctx context.Context, id uuid.UUID, req *SetLanguageRequest) error
	ListLanguages(ctx context.Context, id uuid.UUID) ([]entity.LanguagePreference, error)
}

type ProgressServiceI interface {
	// Records one learning activity: advances per-language and global
	// streaks, accumulates goal counters, credits points
	RecordActivity(ctx context.Context, uid uuid.UUID, req *RecordActivityRequest) (*ActivityResult, error)
	// Builds the streak dashboard. Lapsed global streaks (over one full
	// day without activity) are zeroed as a side effect of this read
	GetStreakView(ctx context.Context, uid uuid.UUID) (*entity.StreakView, error)
	// Returns the progress record for one language
	GetLanguageProgress(ctx context.Context, uid uuid.UUID, language string) (*entity.Progress, error)
}
