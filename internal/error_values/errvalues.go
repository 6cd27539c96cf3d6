package errorvalues

import "errors"

var (
	ErrUserExists       = errors.New("such user already exists")
	ErrUserNotFound     = errors.New("user doesn't exists")
	ErrWrongCredentials = errors.New("wrong name or password")
	ErrInvalidToken     = errors.New("invalid token")

	ErrInvalidInput     = errors.New("invalid input")
	ErrProgressNotFound = errors.New("no progress for this language")
	ErrLevelNotSet      = errors.New("no declared level for this language")
	ErrInvalidActivity  = errors.New("unknown activity type")
)
