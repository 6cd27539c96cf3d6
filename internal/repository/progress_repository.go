package repository

import (
	"context"
	"errors"
	"log"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	errorvalues "github.com/tandemio/lingua/internal/error_values"
	"github.com/tandemio/lingua/pkg/cleanup"
	"github.com/tandemio/lingua/pkg/entity"
)

const progressColumns = `id, user_id, language, current_level, practice_minutes, conversations_held, vocab_count,
		current_streak, longest_streak, last_practice_date,
		weekly_goal_minutes, weekly_goal_completion, monthly_goal_conversations, monthly_goal_completion,
		created_at, updated_at`

type ProgressRepository struct {
	conn PgConnection
}

func NewProgressRepo(cfg DBConfig) *ProgressRepository {
	pool, err := pgxpool.New(context.Background(), cfg.ConnString())
	if err != nil {
		log.Fatal("creating connection for progressRepo error: " + err.Error())
	}
	err = pool.Ping(context.Background())
	if err != nil {
		log.Fatal("error while pinging connection for progressRepo: " + err.Error())
	}
	cleanup.Register(&cleanup.Job{
		Name: "closing pgxpool",
		F: func() error {
			pool.Close()
			return nil
		},
	})
	return &ProgressRepository{
		conn: pool,
	}
}

func NewProgressRepoWithConn(conn PgConnection) *ProgressRepository {
	err := conn.Ping(context.Background())
	if err != nil {
		log.Fatal("error while pinging connection for progressRepo: " + err.Error())
	}
	return &ProgressRepository{
		conn: conn,
	}
}

func scanProgress(row pgx.Row) (*entity.Progress, error) {
	var p entity.Progress
	err := row.Scan(
		&p.ID, &p.UserID, &p.Language, &p.CurrentLevel, &p.PracticeMinutes, &p.ConversationsHeld, &p.VocabCount,
		&p.StreakData.CurrentStreak, &p.StreakData.LongestStreak, &p.StreakData.LastPracticeDate,
		&p.WeeklyGoal.Target, &p.WeeklyGoal.Completion, &p.MonthlyGoal.Target, &p.MonthlyGoal.Completion,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (pr *ProgressRepository) GetByUserAndLanguage(ctx context.Context, uid uuid.UUID, language string) (*entity.Progress, error) {
	row := pr.conn.QueryRow(ctx, `SELECT `+progressColumns+` FROM progress WHERE user_id = $1 AND language = $2;`, uid, language)
	p, err := scanProgress(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errorvalues.ErrProgressNotFound
		}
		return nil, errors.New("getting progress error: " + err.Error())
	}
	return p, nil
}

// FindOrCreate returns the existing record for (defaults.UserID,
// defaults.Language) or inserts defaults. A concurrent insert losing the
// unique-violation race is resolved by re-reading the winner's row.
func (pr *ProgressRepository) FindOrCreate(ctx context.Context, defaults *entity.Progress) (*entity.Progress, bool, error) {
	p, err := pr.GetByUserAndLanguage(ctx, defaults.UserID, defaults.Language)
	if err == nil {
		return p, false, nil
	}
	if !errors.Is(err, errorvalues.ErrProgressNotFound) {
		return nil, false, err
	}
	row := pr.conn.QueryRow(ctx, `INSERT INTO progress (user_id, language, current_level, weekly_goal_minutes, monthly_goal_conversations)
		VALUES ($1, $2, $3, $4, $5) RETURNING `+progressColumns+`;`,
		defaults.UserID,
		defaults.Language,
		defaults.CurrentLevel,
		defaults.WeeklyGoal.Target,
		defaults.MonthlyGoal.Target,
	)
	p, err = scanProgress(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			// Unique violation: someone created the record first
			case "23505":
				p, err = pr.GetByUserAndLanguage(ctx, defaults.UserID, defaults.Language)
				if err != nil {
					return nil, false, err
				}
				return p, false, nil
			// FK violation
			case "23503":
				return nil, false, errorvalues.ErrUserNotFound
			}
		}
		return nil, false, errors.New("creating progress error: " + err.Error())
	}
	return p, true, nil
}

func (pr *ProgressRepository) Save(ctx context.Context, progress *entity.Progress) error {
	if progress == nil {
		return errors.New("progress is nil")
	}
	ct, err := pr.conn.Exec(ctx, `UPDATE progress SET practice_minutes = $1, conversations_held = $2,
		current_streak = $3, longest_streak = $4, last_practice_date = $5,
		weekly_goal_completion = $6, monthly_goal_completion = $7, updated_at = NOW() WHERE id = $8;`,
		progress.PracticeMinutes,
		progress.ConversationsHeld,
		progress.StreakData.CurrentStreak,
		progress.StreakData.LongestStreak,
		progress.StreakData.LastPracticeDate,
		progress.WeeklyGoal.Completion,
		progress.MonthlyGoal.Completion,
		progress.ID,
	)
	if err != nil {
		return errors.New("updating progress error: " + err.Error())
	}
	if ct.RowsAffected() == 0 {
		return errorvalues.ErrProgressNotFound
	}
	return nil
}

func (pr *ProgressRepository) ListByUser(ctx context.Context, uid uuid.UUID) ([]*entity.Progress, error) {
	records := make([]*entity.Progress, 0)
	rows, err := pr.conn.Query(ctx, `SELECT `+progressColumns+` FROM progress WHERE user_id = $1 ORDER BY language;`, uid)
	if err != nil {
		return nil, errors.New("listing progress by uid error: " + err.Error())
	}
	defer rows.Close()
	for rows.Next() {
		p, err := scanProgress(rows)
		if err != nil {
			return nil, errors.New("unmarshalling progress error: " + err.Error())
		}
		records = append(records, p)
	}
	if rows.Err() != nil {
		return nil, errors.New("unexpected error after scanning: " + rows.Err().Error())
	}
	return records, nil
}
