package worker

import (
	"context"
	"fmt"
	"time"

	"reminderd/internal/model"
	"reminderd/internal/repository"
	"reminderd/pkg/logger"
	"reminderd/pkg/metrics"
)

// RetentionWorker deletes terminal reminders and processed outbox rows older
// than the retention window, and refreshes the by-status gauge each pass.
type RetentionWorker struct {
	reminders     repository.ReminderRepository
	outbox        repository.OutboxRepository
	retentionDays int
	interval      time.Duration
	logger        *logger.Logger
	metrics       *metrics.Metrics
}

func NewRetentionWorker(
	reminders repository.ReminderRepository,
	outbox repository.OutboxRepository,
	retentionDays int,
	interval time.Duration,
	logger *logger.Logger,
	metrics *metrics.Metrics,
) *RetentionWorker {
	return &RetentionWorker{
		reminders:     reminders,
		outbox:        outbox,
		retentionDays: retentionDays,
		interval:      interval,
		logger:        logger,
		metrics:       metrics,
	}
}

func (w *RetentionWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.logger.Info("Starting retention worker")

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("Shutting down retention worker")
			return
		case <-ticker.C:
			if err := w.cleanup(ctx); err != nil {
				w.logger.Error(err, "Failed to run retention cleanup")
			}
			w.refreshGauges(ctx)
		}
	}
}

func (w *RetentionWorker) cleanup(ctx context.Context) error {
	cutoff := time.Now().AddDate(0, 0, -w.retentionDays)

	reminders, err := w.reminders.DeleteTerminalBefore(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("failed to delete terminal reminders: %w", err)
	}

	events, err := w.outbox.DeleteProcessedBefore(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("failed to delete processed events: %w", err)
	}

	if reminders > 0 || events > 0 {
		w.logger.Info("Retention cleanup done",
			"reminders_deleted", reminders,
			"events_deleted", events)
	}
	return nil
}

func (w *RetentionWorker) refreshGauges(ctx context.Context) {
	counts, err := w.reminders.CountByStatus(ctx)
	if err != nil {
		w.logger.Error(err, "Failed to count reminders by status")
		return
	}

	for _, status := range []model.ReminderStatus{
		model.ReminderStatusScheduled,
		model.ReminderStatusSending,
		model.ReminderStatusSent,
		model.ReminderStatusFailed,
		model.ReminderStatusCancelled,
	} {
		w.metrics.RemindersByStatus.WithLabelValues(string(status)).Set(float64(counts[status]))
	}
}
