package service

import (
	"context"
	"fmt"
	"time"

	"forex_bot/internal/models"
)

// Lifecycle owns the status of stored signals: it creates them PENDING and
// moves each one to TP_HIT or SL_HIT at most once.
type Lifecycle struct {
	store Store
	now   func() time.Time
}

func NewLifecycle(store Store) *Lifecycle {
	return &Lifecycle{store: store, now: time.Now}
}

// WithClock replaces the creation clock, for tests.
func (l *Lifecycle) WithClock(now func() time.Time) *Lifecycle {
	l.now = now
	return l
}

func (l *Lifecycle) Create(ctx context.Context, c models.Candidate) (string, error) {
	if err := c.Validate(); err != nil {
		return "", fmt.Errorf("create signal: %w", err)
	}
	id, err := l.store.Insert(ctx, models.NewSignal(c, l.now()))
	if err != nil {
		return "", fmt.Errorf("create signal %s: %w", c.Pair, err)
	}
	return id, nil
}

func (l *Lifecycle) Get(ctx context.Context, id string) (models.Signal, error) {
	return l.store.Get(ctx, id)
}

// Resolve records the outcome of a pending signal. A signal that is already
// terminal is left untouched and ErrAlreadyResolved is returned.
func (l *Lifecycle) Resolve(ctx context.Context, id string, status models.Status, closePrice float64, resolvedAt time.Time) error {
	if !status.IsTerminal() {
		return fmt.Errorf("%w: %s -> %q", ErrInvalidTransition, models.StatusPending, status)
	}

	current, err := l.store.Get(ctx, id)
	if err != nil {
		return err
	}
	if current.Status.IsTerminal() {
		return ErrAlreadyResolved
	}

	updated, err := l.store.UpdateStatus(ctx, id, models.Resolution{
		Status:     status,
		ClosePrice: closePrice,
		ResolvedAt: resolvedAt,
	})
	if err != nil {
		return fmt.Errorf("resolve signal %s: %w", id, err)
	}
	if !updated {
		return ErrAlreadyResolved
	}
	return nil
}

// ListPending returns at most limit PENDING signals, newest first.
func (l *Lifecycle) ListPending(ctx context.Context, limit int) ([]models.Signal, error) {
	out, err := l.store.QueryPending(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list pending: %w", err)
	}
	return out, nil
}
