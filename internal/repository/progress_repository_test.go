package repository_test

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v2"
	"github.com/stretchr/testify/assert"
	errorvalues "github.com/tandemio/lingua/internal/error_values"
	"github.com/tandemio/lingua/internal/repository"
	"github.com/tandemio/lingua/pkg/entity"
)

var progressTestColumns = []string{
	"id", "user_id", "language", "current_level", "practice_minutes", "conversations_held", "vocab_count",
	"current_streak", "longest_streak", "last_practice_date",
	"weekly_goal_minutes", "weekly_goal_completion", "monthly_goal_conversations", "monthly_goal_completion",
	"created_at", "updated_at",
}

// Column lists with embedded whitespace make full QuoteMeta patterns
// brittle, pgxmock matches unanchored so the tail of each query is enough.
var (
	getProgressQuery    = regexp.QuoteMeta(`FROM progress WHERE user_id = $1 AND language = $2;`)
	insertProgressQuery = regexp.QuoteMeta(`INSERT INTO progress (user_id, language, current_level, weekly_goal_minutes, monthly_goal_conversations)`)
	saveProgressQuery   = regexp.QuoteMeta(`UPDATE progress SET practice_minutes = $1, conversations_held = $2,`)
	listProgressQuery   = regexp.QuoteMeta(`FROM progress WHERE user_id = $1 ORDER BY language;`)
)

func sampleProgress(uid uuid.UUID, language string) *entity.Progress {
	now := time.Now()
	return &entity.Progress{
		ID:                uuid.New(),
		UserID:            uid,
		Language:          language,
		CurrentLevel:      entity.LevelBeginner,
		PracticeMinutes:   120,
		ConversationsHeld: 4,
		VocabCount:        37,
		StreakData:        entity.StreakData{CurrentStreak: 3, LongestStreak: 6, LastPracticeDate: now},
		WeeklyGoal:        entity.Goal{Target: 150, Completion: 45},
		MonthlyGoal:       entity.Goal{Target: 10, Completion: 4},
		CreatedAt:         now.AddDate(0, -1, 0),
		UpdatedAt:         now,
	}
}

func progressRow(p *entity.Progress) *pgxmock.Rows {
	return pgxmock.NewRows(progressTestColumns).AddRow(
		p.ID, p.UserID, p.Language, p.CurrentLevel, p.PracticeMinutes, p.ConversationsHeld, p.VocabCount,
		p.StreakData.CurrentStreak, p.StreakData.LongestStreak, p.StreakData.LastPracticeDate,
		p.WeeklyGoal.Target, p.WeeklyGoal.Completion, p.MonthlyGoal.Target, p.MonthlyGoal.Completion,
		p.CreatedAt, p.UpdatedAt,
	)
}

func TestGetProgressByUserAndLanguage(t *testing.T) {
	conn, err := pgxmock.NewPool()
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	repo := repository.NewProgressRepoWithConn(conn)
	uid := uuid.New()
	p := sampleProgress(uid, "es")
	t.Run("found", func(t *testing.T) {
		conn.ExpectQuery(getProgressQuery).
			WithArgs(uid, "es").
			WillReturnRows(progressRow(p))
		result, err := repo.GetByUserAndLanguage(ctx, uid, "es")
		assert.NoError(t, err)
		assert.Equal(t, *p, *result)
	})
	t.Run("not found", func(t *testing.T) {
		conn.ExpectQuery(getProgressQuery).
			WithArgs(uid, "es").
			WillReturnError(pgx.ErrNoRows)
		_, err := repo.GetByUserAndLanguage(ctx, uid, "es")
		assert.ErrorIs(t, err, errorvalues.ErrProgressNotFound)
	})
	t.Run("db error", func(t *testing.T) {
		conn.ExpectQuery(getProgressQuery).
			WithArgs(uid, "es").
			WillReturnError(errors.New("db error"))
		_, err := repo.GetByUserAndLanguage(ctx, uid, "es")
		assert.Error(t, err)
	})
}

func TestFindOrCreateProgress(t *testing.T) {
	conn, err := pgxmock.NewPool()
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	repo := repository.NewProgressRepoWithConn(conn)
	uid := uuid.New()
	defaults := &entity.Progress{
		UserID:       uid,
		Language:     "es",
		CurrentLevel: entity.LevelBeginner,
		WeeklyGoal:   entity.Goal{Target: 150},
		MonthlyGoal:  entity.Goal{Target: 10},
	}
	insertArgs := []interface{}{uid, "es", entity.LevelBeginner, 150, 10}
	existing := sampleProgress(uid, "es")
	t.Run("returns existing record", func(t *testing.T) {
		conn.ExpectQuery(getProgressQuery).
			WithArgs(uid, "es").
			WillReturnRows(progressRow(existing))
		result, created, err := repo.FindOrCreate(ctx, defaults)
		assert.NoError(t, err)
		assert.False(t, created)
		assert.Equal(t, *existing, *result)
	})
	t.Run("inserts when missing", func(t *testing.T) {
		conn.ExpectQuery(getProgressQuery).
			WithArgs(uid, "es").
			WillReturnError(pgx.ErrNoRows)
		fresh := sampleProgress(uid, "es")
		conn.ExpectQuery(insertProgressQuery).
			WithArgs(insertArgs...).
			WillReturnRows(progressRow(fresh))
		result, created, err := repo.FindOrCreate(ctx, defaults)
		assert.NoError(t, err)
		assert.True(t, created)
		assert.Equal(t, *fresh, *result)
	})
	t.Run("lost insert race re-reads the winner", func(t *testing.T) {
		conn.ExpectQuery(getProgressQuery).
			WithArgs(uid, "es").
			WillReturnError(pgx.ErrNoRows)
		conn.ExpectQuery(insertProgressQuery).
			WithArgs(insertArgs...).
			WillReturnError(&pgconn.PgError{Code: "23505"})
		conn.ExpectQuery(getProgressQuery).
			WithArgs(uid, "es").
			WillReturnRows(progressRow(existing))
		result, created, err := repo.FindOrCreate(ctx, defaults)
		assert.NoError(t, err)
		assert.False(t, created)
		assert.Equal(t, *existing, *result)
	})
	t.Run("fk violation maps to user not found", func(t *testing.T) {
		conn.ExpectQuery(getProgressQuery).
			WithArgs(uid, "es").
			WillReturnError(pgx.ErrNoRows)
		conn.ExpectQuery(insertProgressQuery).
			WithArgs(insertArgs...).
			WillReturnError(&pgconn.PgError{Code: "23503"})
		_, _, err := repo.FindOrCreate(ctx, defaults)
		assert.ErrorIs(t, err, errorvalues.ErrUserNotFound)
	})
	t.Run("db error", func(t *testing.T) {
		conn.ExpectQuery(getProgressQuery).
			WithArgs(uid, "es").
			WillReturnError(pgx.ErrNoRows)
		conn.ExpectQuery(insertProgressQuery).
			WithArgs(insertArgs...).
			WillReturnError(errors.New("db error"))
		_, _, err := repo.FindOrCreate(ctx, defaults)
		assert.Error(t, err)
	})
}

func TestSaveProgress(t *testing.T) {
	conn, err := pgxmock.NewPool()
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	repo := repository.NewProgressRepoWithConn(conn)
	p := sampleProgress(uuid.New(), "es")
	args := []interface{}{
		p.PracticeMinutes, p.ConversationsHeld,
		p.StreakData.CurrentStreak, p.StreakData.LongestStreak, p.StreakData.LastPracticeDate,
		p.WeeklyGoal.Completion, p.MonthlyGoal.Completion, p.ID,
	}
	t.Run("updated", func(t *testing.T) {
		conn.ExpectExec(saveProgressQuery).
			WithArgs(args...).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))
		err := repo.Save(ctx, p)
		assert.NoError(t, err)
	})
	t.Run("not found", func(t *testing.T) {
		conn.ExpectExec(saveProgressQuery).
			WithArgs(args...).
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))
		err := repo.Save(ctx, p)
		assert.ErrorIs(t, err, errorvalues.ErrProgressNotFound)
	})
	t.Run("db error", func(t *testing.T) {
		conn.ExpectExec(saveProgressQuery).
			WithArgs(args...).
			WillReturnError(errors.New("db error"))
		err := repo.Save(ctx, p)
		assert.Error(t, err)
	})
	t.Run("nil progress", func(t *testing.T) {
		err := repo.Save(ctx, nil)
		assert.Error(t, err)
	})
}

func TestListProgressByUser(t *testing.T) {
	conn, err := pgxmock.NewPool()
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	repo := repository.NewProgressRepoWithConn(conn)
	uid := uuid.New()
	t.Run("listed", func(t *testing.T) {
		es := sampleProgress(uid, "es")
		fr := sampleProgress(uid, "fr")
		rows := pgxmock.NewRows(progressTestColumns)
		for _, p := range []*entity.Progress{es, fr} {
			rows.AddRow(
				p.ID, p.UserID, p.Language, p.CurrentLevel, p.PracticeMinutes, p.ConversationsHeld, p.VocabCount,
				p.StreakData.CurrentStreak, p.StreakData.LongestStreak, p.StreakData.LastPracticeDate,
				p.WeeklyGoal.Target, p.WeeklyGoal.Completion, p.MonthlyGoal.Target, p.MonthlyGoal.Completion,
				p.CreatedAt, p.UpdatedAt,
			)
		}
		conn.ExpectQuery(listProgressQuery).
			WithArgs(uid).
			WillReturnRows(rows)
		records, err := repo.ListByUser(ctx, uid)
		assert.NoError(t, err)
		assert.Equal(t, []*entity.Progress{es, fr}, records)
	})
	t.Run("empty", func(t *testing.T) {
		conn.ExpectQuery(listProgressQuery).
			WithArgs(uid).
			WillReturnRows(pgxmock.NewRows(progressTestColumns))
		records, err := repo.ListByUser(ctx, uid)
		assert.NoError(t, err)
		assert.Empty(t, records)
	})
	t.Run("db error", func(t *testing.T) {
		conn.ExpectQuery(listProgressQuery).
			WithArgs(uid).
			WillReturnError(errors.New("db error"))
		_, err := repo.ListByUser(ctx, uid)
		assert.Error(t, err)
	})
}
