// Package trigger abstracts the delayed-trigger service that wakes the
// engine when a reminder comes due.
package trigger

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Scheduler registers and removes delayed firing triggers. ScheduleAt returns
// an opaque ref the caller persists; Cancel takes the same ref back. Triggers
// deliver at-least-once, so firing must stay idempotent downstream.
type Scheduler interface {
	ScheduleAt(ctx context.Context, at time.Time, reminderID uuid.UUID) (string, error)
	Cancel(ctx context.Context, ref string) (bool, error)
}
