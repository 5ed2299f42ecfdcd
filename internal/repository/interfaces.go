package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"reminderd/internal/model"
)

// All repository interfaces in one file
type (
	// ReminderRepository handles reminder persistence.
	ReminderRepository interface {
		Create(ctx context.Context, reminder *model.Reminder) error
		Get(ctx context.Context, id uuid.UUID) (*model.Reminder, error)
		List(ctx context.Context, filter *model.ListRemindersFilter) ([]*model.Reminder, error)
		ListScheduledBetween(ctx context.Context, from, to time.Time) ([]*model.Reminder, error)
		// CompareAndSetStatus transitions a reminder from expected to next in a
		// single statement and reports whether the row was actually moved. A
		// false return means some other actor already changed the status.
		CompareAndSetStatus(ctx context.Context, id uuid.UUID, expected, next model.ReminderStatus) (bool, error)
		SetTriggerRef(ctx context.Context, id uuid.UUID, ref string) error
		CountByStatus(ctx context.Context) (map[model.ReminderStatus]int64, error)
		DeleteTerminalBefore(ctx context.Context, cutoff time.Time) (int64, error)
	}

	OutboxRepository interface {
		Create(ctx context.Context, event *model.OutboxEvent) error
		GetPendingEventsWithLock(ctx context.Context, limit int) ([]*model.OutboxEvent, error)
		BeginTx(ctx context.Context) (*sql.Tx, error)
		UpdateStatusTx(ctx context.Context, tx *sql.Tx, id uuid.UUID, status string, errorMessage *string, retryAt *time.Time) error
		DeleteProcessedBefore(ctx context.Context, before time.Time) (int64, error)
	}
)
