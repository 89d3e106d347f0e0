package service

import (
	"errors"
	"fmt"
	"time"

	"forex_bot/internal/models"
)

const (
	CycleGenerate = "generate"
	CycleCheck    = "check"
)

// ItemResult is the outcome of one pair (generation) or one signal (check).
type ItemResult struct {
	Key       string
	SignalID  string
	Direction models.Direction
	Status    models.Status
	Note      string
	Err       error
}

func (r ItemResult) Failed() bool { return r.Err != nil }

// Report collects every item of a cycle. A failed item never stops the cycle.
type Report struct {
	Cycle    string
	Started  time.Time
	Finished time.Time
	Items    []ItemResult
	// Skipped holds the reason when the whole cycle did not run.
	Skipped string
	// Err is set when the cycle could not start, e.g. the pending list failed.
	Err error
}

func (r *Report) add(item ItemResult) { r.Items = append(r.Items, item) }

func (r Report) Failed() int {
	n := 0
	for _, it := range r.Items {
		if it.Failed() {
			n++
		}
	}
	return n
}

func (r Report) Succeeded() int { return len(r.Items) - r.Failed() }

// Count returns how many items ended with status.
func (r Report) Count(status models.Status) int {
	n := 0
	for _, it := range r.Items {
		if it.Err == nil && it.Status == status {
			n++
		}
	}
	return n
}

// Errs joins the cycle error with every item error.
func (r Report) Errs() error {
	errs := make([]error, 0, len(r.Items)+1)
	if r.Err != nil {
		errs = append(errs, r.Err)
	}
	for _, it := range r.Items {
		if it.Err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", it.Key, it.Err))
		}
	}
	return errors.Join(errs...)
}

func (r Report) Duration() time.Duration { return r.Finished.Sub(r.Started) }
