package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/tandemio/lingua/pkg/entity"
)

type UsersRepositoryI interface {
	// Creates new user in database
	Create(ctx context.Context, user *entity.User) error
	// Looks up user by name. Can be used for login
	FindByName(ctx context.Context, name string) (*entity.User, error)
	// Looks up user by uid. Can be used for authorization middleware
	FindByID(ctx context.Context, uid uuid.UUID) (*entity.User, error)
	// Persists the global streak and points counters of the user
	SaveStreak(ctx context.Context, uid uuid.UUID, streak entity.UserStreak, points int64) error
	// Deletes user
	Delete(ctx context.Context, uid uuid.UUID) error
	// Declares (or re-declares) the user's proficiency for a language
	SetLanguageLevel(ctx context.Context, pref *entity.LanguagePreference) error
	// Returns declared proficiency for a language, ErrLevelNotSet when absent
	GetLanguageLevel(ctx context.Context, uid uuid.UUID, language string) (string, error)
	// Lists all languages the user declared
	ListLanguages(ctx context.Context, uid uuid.UUID) ([]entity.LanguagePreference, error)
}

type ProgressRepositoryI interface {
	// Searches the progress record for (uid, language)
	GetByUserAndLanguage(ctx context.Context, uid uuid.UUID, language string) (*entity.Progress, error)
	// Returns existing progress for (defaults.UserID, defaults.Language) or
	// inserts defaults. Second result reports whether a new row was created
	FindOrCreate(ctx context.Context, defaults *entity.Progress) (*entity.Progress, bool, error)
	// Persists counters, streak fields and goal completions of the record
	Save(ctx context.Context, progress *entity.Progress) error
	// Lists all progress records owned by uid
	ListByUser(ctx context.Context, uid uuid.UUID) ([]*entity.Progress, error)
}

type DBConfig interface {
	ConnString() string
}

type PgConnection interface {
	Ping(ctx context.Context) error
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Begin(ctx context.Context) (pgx.Tx, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type PGCfg struct {
	Address  string
	Username string
	Password string
	DB       string
}

func (pgcfg *PGCfg) ConnString() string {
	return fmt.Sprintf("postgresql://%s:%s@%s/%s", pgcfg.Username, pgcfg.Password, pgcfg.Address, pgcfg.DB)
}
