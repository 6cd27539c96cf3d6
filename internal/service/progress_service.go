package service

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	errorvalues "github.com/tandemio/lingua/internal/error_values"
	"github.com/tandemio/lingua/internal/repository"
	"github.com/tandemio/lingua/pkg/entity"
)

type ProgressService struct {
	usersRepo    repository.UsersRepositoryI
	progressRepo repository.ProgressRepositoryI
	locks        sync.Map
}

func NewProgressService(usersRepo repository.UsersRepositoryI, progressRepo repository.ProgressRepositoryI) *ProgressService {
	if usersRepo == nil || progressRepo == nil {
		log.Fatal("on progress service provided nil repos")
	}
	return &ProgressService{
		usersRepo:    usersRepo,
		progressRepo: progressRepo,
	}
}

// lockUser serializes streak updates per user. Progress and user rows are
// written without cross-entity transactions, so concurrent calls for one
// user could clobber each other's streak delta otherwise.
func (ps *ProgressService) lockUser(uid uuid.UUID) func() {
	v, _ := ps.locks.LoadOrStore(uid, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

func (ps *ProgressService) RecordActivity(ctx context.Context, uid uuid.UUID, req *RecordActivityRequest) (*ActivityResult, error) {
	err := validate.Struct(*req)
	if err != nil {
		if validationError, ok := err.(validator.ValidationErrors); ok {
			err = errorvalues.ErrInvalidInput
			for _, fieldErr := range validationError {
				err = errors.Join(err, fieldErr)
			}
			return nil, err
		}
		return nil, errors.New("validation unexpected error: " + err.Error())
	}
	unlock := ps.lockUser(uid)
	defer unlock()
	user, err := ps.usersRepo.FindByID(ctx, uid)
	if err != nil {
		if errors.Is(err, errorvalues.ErrUserNotFound) {
			return nil, err
		}
		return nil, errors.New("repository error: " + err.Error())
	}
	progress, created, err := ps.findOrCreateProgress(ctx, uid, req.Language)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	advanceLanguageStreak(&progress.StreakData, now)
	err = accumulateGoals(progress, req.ActivityType, req.Minutes)
	if err != nil {
		return nil, err
	}
	// Progress is written before the user row. A failure between the two
	// writes loses the global streak advance, never the recorded activity.
	err = ps.progressRepo.Save(ctx, progress)
	if err != nil {
		return nil, errors.New("repository error: " + err.Error())
	}
	awarded := advanceGlobalStreak(user, now)
	if awarded > 0 {
		err = ps.usersRepo.SaveStreak(ctx, uid, user.Streak, user.Points)
		if err != nil {
			return nil, errors.New("repository error: " + err.Error())
		}
	}
	return &ActivityResult{
		Progress:        progress,
		Streak:          user.Streak,
		Points:          user.Points,
		PointsAwarded:   awarded,
		CreatedProgress: created,
	}, nil
}

// findOrCreateProgress loads the record for (uid, language), lazily
// creating it on first activity. The declared proficiency seeds the level
// of a new record, beginner when the user never declared one.
func (ps *ProgressService) findOrCreateProgress(ctx context.Context, uid uuid.UUID, language string) (*entity.Progress, bool, error) {
	progress, err := ps.progressRepo.GetByUserAndLanguage(ctx, uid, language)
	if err == nil {
		return progress, false, nil
	}
	if !errors.Is(err, errorvalues.ErrProgressNotFound) {
		return nil, false, errors.New("repository error: " + err.Error())
	}
	level, err := ps.usersRepo.GetLanguageLevel(ctx, uid, language)
	if err != nil {
		if !errors.Is(err, errorvalues.ErrLevelNotSet) {
			return nil, false, errors.New("repository error: " + err.Error())
		}
		level = entity.LevelBeginner
	}
	progress, created, err := ps.progressRepo.FindOrCreate(ctx, &entity.Progress{
		UserID:       uid,
		Language:     language,
		CurrentLevel: level,
		WeeklyGoal:   entity.Goal{Target: defaultWeeklyGoalMinutes},
		MonthlyGoal:  entity.Goal{Target: defaultMonthlyGoalConversations},
	})
	if err != nil {
		if errors.Is(err, errorvalues.ErrUserNotFound) {
			return nil, false, err
		}
		return nil, false, errors.New("repository error: " + err.Error())
	}
	return progress, created, nil
}

func (ps *ProgressService) GetStreakView(ctx context.Context, uid uuid.UUID) (*entity.StreakView, error) {
	unlock := ps.lockUser(uid)
	defer unlock()
	user, err := ps.usersRepo.FindByID(ctx, uid)
	if err != nil {
		if errors.Is(err, errorvalues.ErrUserNotFound) {
			return nil, err
		}
		return nil, errors.New("repository error: " + err.Error())
	}
	// Lapsed streaks are zeroed here, on the read path. Note the
	// threshold differs from the write path on purpose: recording an
	// activity never resets the counter.
	now := time.Now()
	if user.Streak.Count != 0 && staleStreak(user.Streak, now) {
		user.Streak.Count = 0
		user.Streak.LastUpdated = now
		err = ps.usersRepo.SaveStreak(ctx, uid, user.Streak, user.Points)
		if err != nil {
			return nil, errors.New("repository error: " + err.Error())
		}
	}
	records, err := ps.progressRepo.ListByUser(ctx, uid)
	if err != nil {
		return nil, errors.New("repository error: " + err.Error())
	}
	view := entity.StreakView{
		Streak:    user.Streak,
		Points:    user.Points,
		Languages: make([]entity.LanguageSummary, 0, len(records)),
	}
	for _, p := range records {
		view.Languages = append(view.Languages, entity.LanguageSummary{
			Language:          p.Language,
			Level:             p.CurrentLevel,
			VocabCount:        p.VocabCount,
			ConversationsHeld: p.ConversationsHeld,
			PracticeMinutes:   p.PracticeMinutes,
			StreakData:        p.StreakData,
			WeeklyGoal:        p.WeeklyGoal,
			MonthlyGoal:       p.MonthlyGoal,
		})
	}
	return &view, nil
}

func (ps *ProgressService) GetLanguageProgress(ctx context.Context, uid uuid.UUID, language string) (*entity.Progress, error) {
	progress, err := ps.progressRepo.GetByUserAndLanguage(ctx, uid, language)
	if err != nil {
		if errors.Is(err, errorvalues.ErrProgressNotFound) {
			return nil, err
		}
		return nil, errors.New("repository error: " + err.Error())
	}
	return progress, nil
}
