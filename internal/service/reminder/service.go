package reminder

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"reminderd/internal/model"
	"reminderd/internal/parser"
	"reminderd/internal/repository"
	"reminderd/internal/trigger"
	"reminderd/pkg/chat"
	apperrors "reminderd/pkg/errors"
	"reminderd/pkg/logger"
	"reminderd/pkg/metrics"
)

const (
	DefaultListLimit = 50
	MaxListLimit     = 200
)

// Dispatcher sends one reminder and classifies the attempt.
type Dispatcher interface {
	Send(ctx context.Context, reminder *model.Reminder) chat.Outcome
}

// Service owns the reminder lifecycle: creation, the scheduled -> sending ->
// sent/failed state machine, cancellation and recurrence chaining. The only
// synchronization point is the storage-layer conditional status write; the
// service holds no in-memory state about in-flight reminders.
type Service struct {
	repo           repository.ReminderRepository
	outbox         repository.OutboxRepository
	scheduler      trigger.Scheduler
	dispatcher     Dispatcher
	chat           chat.Client
	defaultChannel string
	logger         *logger.Logger
	metrics        *metrics.Metrics

	// now is swappable so tests can pin the clock.
	now func() time.Time
}

func NewService(
	repo repository.ReminderRepository,
	outbox repository.OutboxRepository,
	scheduler trigger.Scheduler,
	dispatcher Dispatcher,
	chatClient chat.Client,
	defaultChannel string,
	logger *logger.Logger,
	metrics *metrics.Metrics,
) *Service {
	return &Service{
		repo:           repo,
		outbox:         outbox,
		scheduler:      scheduler,
		dispatcher:     dispatcher,
		chat:           chatClient,
		defaultChannel: defaultChannel,
		logger:         logger,
		metrics:        metrics,
		now:            time.Now,
	}
}

// CreateFromText composes the resolvers: free-form time, recurrence, target
// and channel text become a fully resolved reminder. Time is the only
// mandatory resolution; an unresolvable target falls back to broadcast and an
// unresolvable channel to the configured default.
func (s *Service) CreateFromText(ctx context.Context, req *model.CreateReminderRequest) (*model.Reminder, error) {
	now := s.now()

	scheduledTime, ok := parser.ParseTime(req.TimeText, now)
	if !ok {
		return nil, apperrors.NewMissingField("time")
	}

	recurrenceText := req.RecurrenceText
	if recurrenceText == "" {
		recurrenceText = req.TimeText
	}
	rule := parser.ParseRecurrence(recurrenceText)

	roster, err := s.chat.ResolveRoster(ctx)
	if err != nil {
		// Target resolution degrades to keyword-only matching; creation
		// stays available while the chat platform is down.
		s.logger.Warn(err, "Failed to resolve roster during create")
		roster = chat.Roster{}
	}
	target := parser.ParseMention(req.TargetText, roster)
	channel := parser.ParseChannel(req.ChannelText, s.defaultChannel)

	reminder := &model.Reminder{
		OwnerID:       req.OwnerID,
		Message:       req.Message,
		Target:        target,
		Channel:       channel,
		ScheduledTime: scheduledTime,
		Recurrence:    rule,
	}

	if err := s.Create(ctx, reminder); err != nil {
		return nil, err
	}
	return reminder, nil
}

// Create persists a resolved reminder in the scheduled state and registers
// its firing trigger.
func (s *Service) Create(ctx context.Context, reminder *model.Reminder) error {
	if reminder.OwnerID == "" {
		return apperrors.NewMissingField("owner_id")
	}
	if reminder.Message == "" {
		return apperrors.NewMissingField("message")
	}
	if reminder.ScheduledTime.IsZero() {
		return apperrors.NewMissingField("scheduled_time")
	}

	if reminder.Target.Kind == "" {
		reminder.Target = model.MentionTarget{Kind: model.TargetBroadcast}
	}
	if reminder.Channel == "" {
		reminder.Channel = s.defaultChannel
	}
	reminder.ScheduledTime = reminder.ScheduledTime.UTC()
	reminder.Status = model.ReminderStatusScheduled

	if err := s.repo.Create(ctx, reminder); err != nil {
		return fmt.Errorf("failed to create reminder: %w", err)
	}

	ref, err := s.scheduler.ScheduleAt(ctx, reminder.ScheduledTime, reminder.ID)
	if err != nil {
		// Without a trigger the reminder would sit scheduled forever, so
		// retire the record and report a definite failure to the caller.
		if _, cerr := s.repo.CompareAndSetStatus(ctx, reminder.ID,
			model.ReminderStatusScheduled, model.ReminderStatusCancelled); cerr != nil {
			s.logger.Error(cerr, "Failed to retire untriggered reminder", "reminder_id", reminder.ID.String())
		}
		return fmt.Errorf("failed to register trigger: %w", err)
	}
	s.metrics.TriggersScheduled.Inc()

	if err := s.repo.SetTriggerRef(ctx, reminder.ID, ref); err != nil {
		s.logger.Error(err, "Failed to store trigger ref", "reminder_id", reminder.ID.String())
	}
	reminder.DeliveryTriggerRef = ref

	s.metrics.RemindersCreated.Inc()
	s.emitEvent(ctx, model.EventReminderCreated, reminder, model.ReminderStatusScheduled)

	return nil
}

// Fire is invoked by the trigger collaborator, possibly more than once and
// concurrently for the same id. Exactly one invocation wins the conditional
// scheduled -> sending write; every other one is a stale no-op.
func (s *Service) Fire(ctx context.Context, id uuid.UUID) error {
	claimed, err := s.repo.CompareAndSetStatus(ctx, id,
		model.ReminderStatusScheduled, model.ReminderStatusSending)
	if err != nil {
		s.metrics.RemindersFired.WithLabelValues("error").Inc()
		return fmt.Errorf("failed to claim reminder: %w", err)
	}

	if !claimed {
		if _, err := s.repo.Get(ctx, id); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				s.metrics.RemindersFired.WithLabelValues("unknown").Inc()
				return apperrors.NewNotFound("reminder")
			}
			return fmt.Errorf("failed to get reminder: %w", err)
		}
		s.logger.Debug("Stale fire ignored", "reminder_id", id.String())
		s.metrics.RemindersFired.WithLabelValues("stale").Inc()
		return nil
	}

	reminder, err := s.repo.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get claimed reminder: %w", err)
	}

	if s.dispatcher.Send(ctx, reminder) == chat.OutcomeSuccess {
		s.settle(ctx, reminder, model.ReminderStatusSent)
		s.metrics.RemindersFired.WithLabelValues("sent").Inc()
		if reminder.Recurrence != nil {
			s.spawnNext(ctx, reminder)
		}
		return nil
	}

	// Dispatch failure is terminal: the reminder is recorded failed, never
	// retried, and recovery is a manual re-create by its owner.
	s.settle(ctx, reminder, model.ReminderStatusFailed)
	s.metrics.RemindersFired.WithLabelValues("failed").Inc()
	s.logger.Error(nil, "Reminder dispatch failed",
		"reminder_id", reminder.ID.String(),
		"channel", reminder.Channel)
	return nil
}

// settle records the dispatch verdict for a reminder the caller has claimed.
func (s *Service) settle(ctx context.Context, reminder *model.Reminder, status model.ReminderStatus) {
	if _, err := s.repo.CompareAndSetStatus(ctx, reminder.ID, model.ReminderStatusSending, status); err != nil {
		s.logger.Error(err, "Failed to settle reminder",
			"reminder_id", reminder.ID.String(),
			"status", string(status))
		return
	}
	reminder.Status = status

	eventType := model.EventReminderSent
	if status == model.ReminderStatusFailed {
		eventType = model.EventReminderFailed
	}
	s.emitEvent(ctx, eventType, reminder, status)
}

// spawnNext creates the following occurrence of a recurring reminder: a new
// independent record with the rule copied unchanged and parent_id linking
// back to the one that just fired.
func (s *Service) spawnNext(ctx context.Context, parent *model.Reminder) {
	rule := *parent.Recurrence
	child := &model.Reminder{
		OwnerID:       parent.OwnerID,
		Message:       parent.Message,
		Target:        parent.Target,
		Channel:       parent.Channel,
		ScheduledTime: parser.ComputeNextOccurrence(rule, parent.ScheduledTime),
		Recurrence:    &rule,
		ParentID:      &parent.ID,
	}

	if err := s.Create(ctx, child); err != nil {
		s.logger.Error(err, "Failed to spawn next occurrence", "parent_id", parent.ID.String())
		return
	}
	s.metrics.RemindersSpawned.Inc()
}

// Cancel retires a scheduled reminder. Trigger removal is best-effort; a
// reminder that already fired or was already cancelled reports as already
// handled.
func (s *Service) Cancel(ctx context.Context, id uuid.UUID) error {
	cancelled, err := s.repo.CompareAndSetStatus(ctx, id,
		model.ReminderStatusScheduled, model.ReminderStatusCancelled)
	if err != nil {
		return fmt.Errorf("failed to cancel reminder: %w", err)
	}

	if !cancelled {
		if _, err := s.repo.Get(ctx, id); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return apperrors.NewNotFound("reminder")
			}
			return fmt.Errorf("failed to get reminder: %w", err)
		}
		return apperrors.NewAlreadyTerminal("reminder")
	}

	reminder, err := s.repo.Get(ctx, id)
	if err != nil {
		s.logger.Error(err, "Failed to load cancelled reminder", "reminder_id", id.String())
		return nil
	}

	if reminder.DeliveryTriggerRef != "" {
		removed, err := s.scheduler.Cancel(ctx, reminder.DeliveryTriggerRef)
		if err != nil {
			s.logger.Warn(err, "Failed to remove trigger", "reminder_id", id.String())
		} else if removed {
			s.metrics.TriggersCancelled.Inc()
		}
	}

	s.emitEvent(ctx, model.EventReminderCancelled, reminder, model.ReminderStatusCancelled)
	return nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.Reminder, error) {
	reminder, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NewNotFound("reminder")
		}
		return nil, fmt.Errorf("failed to get reminder: %w", err)
	}
	return reminder, nil
}

// List returns reminders ascending by scheduled time. The limit is clamped
// to keep listings finite.
func (s *Service) List(ctx context.Context, filter *model.ListRemindersFilter) ([]*model.Reminder, error) {
	if filter.Limit <= 0 {
		filter.Limit = DefaultListLimit
	}
	if filter.Limit > MaxListLimit {
		filter.Limit = MaxListLimit
	}

	reminders, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list reminders: %w", err)
	}
	return reminders, nil
}

func (s *Service) emitEvent(ctx context.Context, eventType string, reminder *model.Reminder, status model.ReminderStatus) {
	payload, err := json.Marshal(model.ReminderEventPayload{
		ReminderID:    reminder.ID,
		OwnerID:       reminder.OwnerID,
		Channel:       reminder.Channel,
		Status:        status,
		ScheduledTime: reminder.ScheduledTime,
	})
	if err != nil {
		s.logger.Error(err, "Failed to marshal event payload", "event_type", eventType)
		return
	}

	if err := s.outbox.Create(ctx, &model.OutboxEvent{EventType: eventType, Payload: payload}); err != nil {
		s.logger.Error(err, "Failed to create outbox event", "event_type", eventType)
	}
}
