package storage

import (
	"context"
	"errors"
)

var (
	ErrNotFound = errors.New("storage: not found")
	ErrConflict = errors.New("storage: already exists")
)

// Repository is the settings store of the application: key/value settings,
// the live timers and the recent inputs list.
type Repository interface {
	GetSetting(ctx context.Context, key string) (string, error)
	PutSetting(ctx context.Context, key, value string) error
	DeleteSetting(ctx context.Context, key string) error

	CreateTimer(ctx context.Context, in TimerRecord) error
	GetTimer(ctx context.Context, id string) (TimerRecord, error)
	UpdateTimer(ctx context.Context, in TimerRecord) error
	DeleteTimer(ctx context.Context, id string) error
	ListTimers(ctx context.Context, filter TimerListFilter) ([]TimerRecord, error)
	// ReplaceTimers atomically swaps the stored timers for the given set.
	ReplaceTimers(ctx context.Context, in []TimerRecord) error

	// ListRecentInputs returns inputs newest first.
	ListRecentInputs(ctx context.Context, limit int) ([]string, error)
	ReplaceRecentInputs(ctx context.Context, inputs []string) error

	Close() error
}
