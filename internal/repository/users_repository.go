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

type UsersRepository struct {
	conn PgConnection
}

func NewUsersRepo(cfg DBConfig) *UsersRepository {
	pool, err := pgxpool.New(context.Background(), cfg.ConnString())
	if err != nil {
		log.Fatal("creating connection for usersRepo error: " + err.Error())
	}
	err = pool.Ping(context.Background())
	if err != nil {
		log.Fatal("error while pinging connection for usersRepo: " + err.Error())
	}
	cleanup.Register(&cleanup.Job{
		Name: "closing pgxpool",
		F: func() error {
			pool.Close()
			return nil
		},
	})
	return &UsersRepository{
		conn: pool,
	}
}

func NewUsersRepoWithConn(conn PgConnection) *UsersRepository {
	err := conn.Ping(context.Background())
	if err != nil {
		log.Fatal("error while pinging connection for usersRepo: " + err.Error())
	}
	return &UsersRepository{
		conn: conn,
	}
}

func (ur *UsersRepository) Create(ctx context.Context, user *entity.User) error {
	if user == nil {
		return errors.New("user is nil")
	}
	_, err := ur.conn.Exec(ctx, `INSERT INTO users (name, password_hash) VALUES ($1, $2);`, user.Name, user.PasswordHash)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			// Unique violation
			case "23505":
				return errorvalues.ErrUserExists
			}
		}
		return errors.New("creating user db error: " + err.Error())
	}
	return nil
}

func (ur *UsersRepository) FindByName(ctx context.Context, name string) (*entity.User, error) {
	var user entity.User
	row := ur.conn.QueryRow(ctx, `SELECT id, name, password_hash, streak_count, streak_last_updated, points FROM users WHERE name = $1;`, name)
	if err := row.Scan(&user.ID, &user.Name, &user.PasswordHash, &user.Streak.Count, &user.Streak.LastUpdated, &user.Points); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errorvalues.ErrUserNotFound
		}
		return nil, errors.New("searching user by name error: " + err.Error())
	}
	return &user, nil
}

func (ur *UsersRepository) FindByID(ctx context.Context, uid uuid.UUID) (*entity.User, error) {
	var user entity.User
	row := ur.conn.QueryRow(ctx, `SELECT id, name, password_hash, streak_count, streak_last_updated, points FROM users WHERE id = $1;`, uid)
	if err := row.Scan(&user.ID, &user.Name, &user.PasswordHash, &user.Streak.Count, &user.Streak.LastUpdated, &user.Points); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errorvalues.ErrUserNotFound
		}
		return nil, errors.New("searching user by id error: " + err.Error())
	}
	return &user, nil
}

func (ur *UsersRepository) SaveStreak(ctx context.Context, uid uuid.UUID, streak entity.UserStreak, points int64) error {
	ct, err := ur.conn.Exec(ctx, `UPDATE users SET streak_count = $1, streak_last_updated = $2, points = $3 WHERE id = $4;`,
		streak.Count,
		streak.LastUpdated,
		points,
		uid,
	)
	if err != nil {
		return errors.New("updating user streak error: " + err.Error())
	}
	if ct.RowsAffected() == 0 {
		return errorvalues.ErrUserNotFound
	}
	return nil
}

func (ur *UsersRepository) Delete(ctx context.Context, uid uuid.UUID) error {
	ct, err := ur.conn.Exec(ctx, `DELETE FROM users WHERE id = $1;`, uid)
	if err != nil {
		return errors.New("deleting user error: " + err.Error())
	}
	if ct.RowsAffected() == 0 {
		return errorvalues.ErrUserNotFound
	}
	return nil
}

func (ur *UsersRepository) SetLanguageLevel(ctx context.Context, pref *entity.LanguagePreference) error {
	_, err := ur.conn.Exec(ctx, `INSERT INTO user_languages (user_id, language, level) VALUES ($1, $2, $3)
		ON CONFLICT (user_id, language) DO UPDATE SET level = EXCLUDED.level;`,
		pref.UserID,
		pref.Language,
		pref.Level,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			// FK violation
			case "23503":
				return errorvalues.ErrUserNotFound
			}
		}
		return errors.New("setting language level error: " + err.Error())
	}
	return nil
}

func (ur *UsersRepository) GetLanguageLevel(ctx context.Context, uid uuid.UUID, language string) (string, error) {
	var level string
	row := ur.conn.QueryRow(ctx, `SELECT level FROM user_languages WHERE user_id = $1 AND language = $2;`, uid, language)
	if err := row.Scan(&level); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", errorvalues.ErrLevelNotSet
		}
		return "", errors.New("getting language level error: " + err.Error())
	}
	return level, nil
}

func (ur *UsersRepository) ListLanguages(ctx context.Context, uid uuid.UUID) ([]entity.LanguagePreference, error) {
	prefs := make([]entity.LanguagePreference, 0)
	rows, err := ur.conn.Query(ctx, `SELECT user_id, language, level FROM user_languages WHERE user_id = $1 ORDER BY language;`, uid)
	if err != nil {
		return nil, errors.New("listing user languages error: " + err.Error())
	}
	defer rows.Close()
	for rows.Next() {
		p := entity.LanguagePreference{}
		err = rows.Scan(&p.UserID, &p.Language, &p.Level)
		if err != nil {
			return nil, errors.New("unmarshalling language preference error: " + err.Error())
		}
		prefs = append(prefs, p)
	}
	if rows.Err() != nil {
		return nil, errors.New("unexpected error after scanning: " + rows.Err().Error())
	}
	return prefs, nil
}
