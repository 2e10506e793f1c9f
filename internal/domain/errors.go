package domain

import "errors"

var (
	ErrInvalidPoolSize        = errors.New("player pool must contain exactly 10 players")
	ErrInvalidWinnerSelection = errors.New("winning team must be 1 or 2")
	ErrPersistenceFailure     = errors.New("player update was not persisted")
	ErrPlayerNotFound         = errors.New("player not found")
)
