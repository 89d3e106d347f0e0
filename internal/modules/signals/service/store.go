package service

import (
	"context"
	"errors"

	"forex_bot/internal/models"
)

var (
	ErrNotFound          = errors.New("signal not found")
	ErrAlreadyResolved   = errors.New("signal already resolved")
	ErrInvalidTransition = errors.New("invalid status transition")
)

// Store persists signals. UpdateStatus must only apply to a PENDING signal
// and report false when the signal was not pending.
type Store interface {
	Insert(ctx context.Context, s models.Signal) (string, error)
	Get(ctx context.Context, id string) (models.Signal, error)
	UpdateStatus(ctx context.Context, id string, r models.Resolution) (bool, error)
	// QueryPending returns PENDING signals, newest first.
	QueryPending(ctx context.Context, limit int) ([]models.Signal, error)
}
