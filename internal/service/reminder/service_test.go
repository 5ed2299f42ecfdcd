package reminder

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reminderd/internal/model"
	"reminderd/pkg/chat"
	apperrors "reminderd/pkg/errors"
	"reminderd/pkg/logger"
	"reminderd/pkg/metrics"
)

type fakeReminderRepo struct {
	mu        sync.Mutex
	items     map[uuid.UUID]*model.Reminder
	lastLimit int
}

func newFakeReminderRepo() *fakeReminderRepo {
	return &fakeReminderRepo{items: make(map[uuid.UUID]*model.Reminder)}
}

func (f *fakeReminderRepo) Create(_ context.Context, r *model.Reminder) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	r.ID = uuid.New()
	r.CreatedAt = time.Now()
	r.UpdatedAt = time.Now()
	cp := *r
	f.items[r.ID] = &cp
	return nil
}

func (f *fakeReminderRepo) Get(_ context.Context, id uuid.UUID) (*model.Reminder, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.items[id]
	if !ok {
		return nil, fmt.Errorf("failed to get reminder: %w", sql.ErrNoRows)
	}
	cp := *r
	return &cp, nil
}

func (f *fakeReminderRepo) List(_ context.Context, filter *model.ListRemindersFilter) ([]*model.Reminder, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastLimit = filter.Limit

	var out []*model.Reminder
	for _, r := range f.items {
		if filter.OwnerID != "" && r.OwnerID != filter.OwnerID {
			continue
		}
		if filter.Status != nil && r.Status != *filter.Status {
			continue
		}
		cp := *r
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ScheduledTime.Before(out[j].ScheduledTime) })
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (f *fakeReminderRepo) ListScheduledBetween(_ context.Context, from, to time.Time) ([]*model.Reminder, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*model.Reminder
	for _, r := range f.items {
		if r.Status != model.ReminderStatusScheduled {
			continue
		}
		if r.ScheduledTime.Before(from) || !r.ScheduledTime.Before(to) {
			continue
		}
		cp := *r
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ScheduledTime.Before(out[j].ScheduledTime) })
	return out, nil
}

func (f *fakeReminderRepo) CompareAndSetStatus(_ context.Context, id uuid.UUID, expected, next model.ReminderStatus) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.items[id]
	if !ok || r.Status != expected {
		return false, nil
	}
	r.Status = next
	r.UpdatedAt = time.Now()
	return true, nil
}

func (f *fakeReminderRepo) SetTriggerRef(_ context.Context, id uuid.UUID, ref string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.items[id]
	if !ok {
		return fmt.Errorf("reminder not found")
	}
	r.DeliveryTriggerRef = ref
	return nil
}

func (f *fakeReminderRepo) CountByStatus(_ context.Context) (map[model.ReminderStatus]int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	counts := make(map[model.ReminderStatus]int64)
	for _, r := range f.items {
		counts[r.Status]++
	}
	return counts, nil
}

func (f *fakeReminderRepo) DeleteTerminalBefore(_ context.Context, cutoff time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var deleted int64
	for id, r := range f.items {
		switch r.Status {
		case model.ReminderStatusSent, model.ReminderStatusFailed, model.ReminderStatusCancelled:
			if r.UpdatedAt.Before(cutoff) {
				delete(f.items, id)
				deleted++
			}
		}
	}
	return deleted, nil
}

func (f *fakeReminderRepo) byStatus(status model.ReminderStatus) []*model.Reminder {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*model.Reminder
	for _, r := range f.items {
		if r.Status == status {
			cp := *r
			out = append(out, &cp)
		}
	}
	return out
}

type fakeOutboxRepo struct {
	mu     sync.Mutex
	events []*model.OutboxEvent
}

func (f *fakeOutboxRepo) Create(_ context.Context, event *model.OutboxEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	event.ID = uuid.New()
	event.Status = model.OutboxStatusPending
	f.events = append(f.events, event)
	return nil
}

func (f *fakeOutboxRepo) GetPendingEventsWithLock(_ context.Context, limit int) ([]*model.OutboxEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*model.OutboxEvent
	for _, e := range f.events {
		if e.Status == model.OutboxStatusPending || e.Status == model.OutboxStatusRetry {
			out = append(out, e)
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (f *fakeOutboxRepo) BeginTx(_ context.Context) (*sql.Tx, error) { return nil, nil }

func (f *fakeOutboxRepo) UpdateStatusTx(_ context.Context, _ *sql.Tx, id uuid.UUID, status string, errorMessage *string, retryAt *time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, e := range f.events {
		if e.ID == id {
			e.Status = model.OutboxStatus(status)
			e.ErrorMessage = errorMessage
			e.RetryAt = retryAt
		}
	}
	return nil
}

func (f *fakeOutboxRepo) DeleteProcessedBefore(_ context.Context, _ time.Time) (int64, error) {
	return 0, nil
}

func (f *fakeOutboxRepo) eventTypes() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	types := make([]string, 0, len(f.events))
	for _, e := range f.events {
		types = append(types, e.EventType)
	}
	return types
}

type scheduledTrigger struct {
	at         time.Time
	reminderID uuid.UUID
	ref        string
}

type fakeScheduler struct {
	mu        sync.Mutex
	err       error
	scheduled []scheduledTrigger
	cancelled []string
}

func (f *fakeScheduler) ScheduleAt(_ context.Context, at time.Time, reminderID uuid.UUID) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return "", f.err
	}
	ref := "trigger-" + reminderID.String()
	f.scheduled = append(f.scheduled, scheduledTrigger{at: at, reminderID: reminderID, ref: ref})
	return ref, nil
}

func (f *fakeScheduler) Cancel(_ context.Context, ref string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cancelled = append(f.cancelled, ref)
	return true, nil
}

type fakeDispatcher struct {
	mu      sync.Mutex
	outcome chat.Outcome
	calls   int
}

func (f *fakeDispatcher) Send(_ context.Context, _ *model.Reminder) chat.Outcome {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.outcome
}

func (f *fakeDispatcher) sends() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeChat struct {
	roster chat.Roster
	err    error
}

func (f *fakeChat) ResolveRoster(_ context.Context) (chat.Roster, error) {
	return f.roster, f.err
}

func (f *fakeChat) PostMessage(_ context.Context, _, _ string) (chat.Outcome, error) {
	return chat.OutcomeSuccess, nil
}

type testEnv struct {
	svc       *Service
	repo      *fakeReminderRepo
	outbox    *fakeOutboxRepo
	scheduler *fakeScheduler
	dispatch  *fakeDispatcher
	chat      *fakeChat
}

func newTestEnv() *testEnv {
	env := &testEnv{
		repo:      newFakeReminderRepo(),
		outbox:    &fakeOutboxRepo{},
		scheduler: &fakeScheduler{},
		dispatch:  &fakeDispatcher{outcome: chat.OutcomeSuccess},
		chat: &fakeChat{roster: chat.Roster{
			Users: []chat.Entity{
				{ID: "u1", Name: "alice"},
				{ID: "u2", Name: "bob", DisplayName: "Bobby"},
			},
			Roles: []chat.Entity{
				{ID: "r1", Name: "oncall"},
			},
		}},
	}

	log := logger.NewLogger(&logger.Config{Level: logger.ErrorLevel, Output: io.Discard})
	env.svc = NewService(env.repo, env.outbox, env.scheduler, env.dispatch, env.chat, "general", log, metrics.New("test"))
	return env
}

func (e *testEnv) createScheduled(t *testing.T, reminder *model.Reminder) *model.Reminder {
	t.Helper()
	require.NoError(t, e.svc.Create(context.Background(), reminder))
	return reminder
}

func TestCreateFromText(t *testing.T) {
	env := newTestEnv()
	now := time.Date(2024, 3, 11, 10, 0, 0, 0, time.UTC)
	env.svc.now = func() time.Time { return now }

	reminder, err := env.svc.CreateFromText(context.Background(), &model.CreateReminderRequest{
		OwnerID:     "owner-1",
		Message:     "standup notes",
		TimeText:    "in 1 hour",
		TargetText:  "@alice",
		ChannelText: "#ops",
	})
	require.NoError(t, err)

	assert.Equal(t, now.Add(time.Hour), reminder.ScheduledTime)
	assert.Equal(t, model.TargetUser, reminder.Target.Kind)
	assert.Equal(t, "alice", reminder.Target.RawName)
	assert.Equal(t, "ops", reminder.Channel)
	assert.Equal(t, model.ReminderStatusScheduled, reminder.Status)
	assert.Nil(t, reminder.Recurrence)
	assert.NotEmpty(t, reminder.DeliveryTriggerRef)

	require.Len(t, env.scheduler.scheduled, 1)
	assert.Equal(t, reminder.ID, env.scheduler.scheduled[0].reminderID)
	assert.Equal(t, reminder.ScheduledTime, env.scheduler.scheduled[0].at)

	assert.Equal(t, []string{model.EventReminderCreated}, env.outbox.eventTypes())
}

func TestCreateFromTextRecurrence(t *testing.T) {
	env := newTestEnv()
	now := time.Date(2024, 3, 11, 10, 0, 0, 0, time.UTC)
	env.svc.now = func() time.Time { return now }

	reminder, err := env.svc.CreateFromText(context.Background(), &model.CreateReminderRequest{
		OwnerID:        "owner-1",
		Message:        "water the plants",
		TimeText:       "tomorrow at 9",
		RecurrenceText: "every day",
	})
	require.NoError(t, err)

	require.NotNil(t, reminder.Recurrence)
	assert.Equal(t, model.FrequencyDaily, reminder.Recurrence.Frequency)
	assert.Equal(t, model.TargetBroadcast, reminder.Target.Kind)
	assert.Equal(t, "general", reminder.Channel)
}

func TestCreateFromTextRecurrenceFromTimeText(t *testing.T) {
	env := newTestEnv()
	now := time.Date(2024, 3, 11, 10, 0, 0, 0, time.UTC)
	env.svc.now = func() time.Time { return now }

	reminder, err := env.svc.CreateFromText(context.Background(), &model.CreateReminderRequest{
		OwnerID:  "owner-1",
		Message:  "weekly sync",
		TimeText: "every monday at 9",
	})
	require.NoError(t, err)

	require.NotNil(t, reminder.Recurrence)
	assert.Equal(t, model.FrequencyWeekly, reminder.Recurrence.Frequency)
	assert.Equal(t, []time.Weekday{time.Monday}, reminder.Recurrence.Byday)
}

func TestCreateFromTextMissingTime(t *testing.T) {
	env := newTestEnv()

	_, err := env.svc.CreateFromText(context.Background(), &model.CreateReminderRequest{
		OwnerID:  "owner-1",
		Message:  "buy milk",
		TimeText: "buy milk",
	})
	require.Error(t, err)

	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrMissingField, appErr.Code)
	assert.Equal(t, "time", appErr.Field)

	assert.Empty(t, env.scheduler.scheduled)
	assert.Empty(t, env.outbox.eventTypes())
}

func TestCreateFromTextRosterDown(t *testing.T) {
	env := newTestEnv()
	env.chat.err = fmt.Errorf("roster unavailable")
	now := time.Date(2024, 3, 11, 10, 0, 0, 0, time.UTC)
	env.svc.now = func() time.Time { return now }

	reminder, err := env.svc.CreateFromText(context.Background(), &model.CreateReminderRequest{
		OwnerID:    "owner-1",
		Message:    "deploy",
		TimeText:   "in 30 minutes",
		TargetText: "@alice",
	})
	require.NoError(t, err)
	assert.Equal(t, model.TargetBroadcast, reminder.Target.Kind)
}

func TestCreateStoresUTC(t *testing.T) {
	env := newTestEnv()
	jst := time.FixedZone("JST", 9*3600)

	reminder := env.createScheduled(t, &model.Reminder{
		OwnerID:       "owner-1",
		Message:       "local time",
		ScheduledTime: time.Date(2024, 3, 11, 18, 0, 0, 0, jst),
	})

	stored, err := env.svc.Get(context.Background(), reminder.ID)
	require.NoError(t, err)
	assert.Equal(t, time.UTC, stored.ScheduledTime.Location())
	assert.Equal(t, time.Date(2024, 3, 11, 9, 0, 0, 0, time.UTC), stored.ScheduledTime)
}

func TestCreateTriggerFailureRetiresReminder(t *testing.T) {
	env := newTestEnv()
	env.scheduler.err = fmt.Errorf("trigger service down")

	reminder := &model.Reminder{
		OwnerID:       "owner-1",
		Message:       "doomed",
		ScheduledTime: time.Now().Add(time.Hour),
	}
	err := env.svc.Create(context.Background(), reminder)
	require.Error(t, err)

	stored, err := env.repo.Get(context.Background(), reminder.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ReminderStatusCancelled, stored.Status)
}

func TestFireDispatchesOnce(t *testing.T) {
	env := newTestEnv()
	reminder := env.createScheduled(t, &model.Reminder{
		OwnerID:       "owner-1",
		Message:       "ship it",
		ScheduledTime: time.Now().Add(time.Hour),
	})

	require.NoError(t, env.svc.Fire(context.Background(), reminder.ID))

	stored, err := env.repo.Get(context.Background(), reminder.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ReminderStatusSent, stored.Status)
	assert.Equal(t, 1, env.dispatch.sends())

	// No recurrence, so no child record.
	assert.Empty(t, env.repo.byStatus(model.ReminderStatusScheduled))
	assert.Equal(t, []string{model.EventReminderCreated, model.EventReminderSent}, env.outbox.eventTypes())
}

func TestFireIdempotentSequential(t *testing.T) {
	env := newTestEnv()
	reminder := env.createScheduled(t, &model.Reminder{
		OwnerID:       "owner-1",
		Message:       "once only",
		ScheduledTime: time.Now().Add(time.Hour),
	})

	require.NoError(t, env.svc.Fire(context.Background(), reminder.ID))
	require.NoError(t, env.svc.Fire(context.Background(), reminder.ID))
	require.NoError(t, env.svc.Fire(context.Background(), reminder.ID))

	assert.Equal(t, 1, env.dispatch.sends())

	stored, err := env.repo.Get(context.Background(), reminder.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ReminderStatusSent, stored.Status)
}

func TestFireIdempotentConcurrent(t *testing.T) {
	env := newTestEnv()
	reminder := env.createScheduled(t, &model.Reminder{
		OwnerID:       "owner-1",
		Message:       "once only",
		ScheduledTime: time.Now().Add(time.Hour),
	})

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = env.svc.Fire(context.Background(), reminder.ID)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, env.dispatch.sends())
}

func TestFireUnknownReminder(t *testing.T) {
	env := newTestEnv()

	err := env.svc.Fire(context.Background(), uuid.New())
	require.Error(t, err)

	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrNotFound, appErr.Code)
	assert.Equal(t, 0, env.dispatch.sends())
}

func TestFireDispatchFailureIsTerminal(t *testing.T) {
	env := newTestEnv()
	env.dispatch.outcome = chat.OutcomeTransient

	reminder := env.createScheduled(t, &model.Reminder{
		OwnerID:       "owner-1",
		Message:       "flaky channel",
		ScheduledTime: time.Now().Add(time.Hour),
		Recurrence:    &model.RecurrenceRule{Frequency: model.FrequencyDaily},
	})

	require.NoError(t, env.svc.Fire(context.Background(), reminder.ID))

	stored, err := env.repo.Get(context.Background(), reminder.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ReminderStatusFailed, stored.Status)

	// Failure never spawns the next occurrence and is never retried.
	assert.Empty(t, env.repo.byStatus(model.ReminderStatusScheduled))
	require.NoError(t, env.svc.Fire(context.Background(), reminder.ID))
	assert.Equal(t, 1, env.dispatch.sends())
}

func TestFireSpawnsNextOccurrence(t *testing.T) {
	env := newTestEnv()

	// Wednesday 10:00 with a weekly-Monday rule rolls to the following Monday.
	scheduled := time.Date(2024, 1, 3, 10, 0, 0, 0, time.UTC)
	parent := env.createScheduled(t, &model.Reminder{
		OwnerID:       "owner-1",
		Message:       "weekly sync",
		Target:        model.MentionTarget{Kind: model.TargetRole, RawName: "oncall"},
		Channel:       "ops",
		ScheduledTime: scheduled,
		Recurrence:    &model.RecurrenceRule{Frequency: model.FrequencyWeekly, Byday: []time.Weekday{time.Monday}},
	})

	require.NoError(t, env.svc.Fire(context.Background(), parent.ID))

	children := env.repo.byStatus(model.ReminderStatusScheduled)
	require.Len(t, children, 1)
	child := children[0]

	assert.Equal(t, time.Date(2024, 1, 8, 10, 0, 0, 0, time.UTC), child.ScheduledTime)
	require.NotNil(t, child.ParentID)
	assert.Equal(t, parent.ID, *child.ParentID)
	assert.Equal(t, parent.OwnerID, child.OwnerID)
	assert.Equal(t, parent.Message, child.Message)
	assert.Equal(t, parent.Target, child.Target)
	assert.Equal(t, parent.Channel, child.Channel)
	require.NotNil(t, child.Recurrence)
	assert.Equal(t, *parent.Recurrence, *child.Recurrence)

	// Both the parent's trigger and the child's trigger were registered.
	require.Len(t, env.scheduler.scheduled, 2)
	assert.Equal(t, child.ScheduledTime, env.scheduler.scheduled[1].at)
}

func TestFireDailyChain(t *testing.T) {
	env := newTestEnv()

	scheduled := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	parent := env.createScheduled(t, &model.Reminder{
		OwnerID:       "owner-1",
		Message:       "morning checkin",
		ScheduledTime: scheduled,
		Recurrence:    &model.RecurrenceRule{Frequency: model.FrequencyDaily},
	})

	require.NoError(t, env.svc.Fire(context.Background(), parent.ID))

	children := env.repo.byStatus(model.ReminderStatusScheduled)
	require.Len(t, children, 1)
	assert.Equal(t, scheduled.AddDate(0, 0, 1), children[0].ScheduledTime)
	assert.Equal(t, parent.ID, *children[0].ParentID)
}

func TestCancel(t *testing.T) {
	env := newTestEnv()
	reminder := env.createScheduled(t, &model.Reminder{
		OwnerID:       "owner-1",
		Message:       "never mind",
		ScheduledTime: time.Now().Add(time.Hour),
	})

	require.NoError(t, env.svc.Cancel(context.Background(), reminder.ID))

	stored, err := env.repo.Get(context.Background(), reminder.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ReminderStatusCancelled, stored.Status)

	// Trigger removal is invoked with the stored ref.
	require.Len(t, env.scheduler.cancelled, 1)
	assert.Equal(t, stored.DeliveryTriggerRef, env.scheduler.cancelled[0])

	// Cancelled reminders never fire.
	require.NoError(t, env.svc.Fire(context.Background(), reminder.ID))
	assert.Equal(t, 0, env.dispatch.sends())
}

func TestCancelAlreadyHandled(t *testing.T) {
	env := newTestEnv()
	reminder := env.createScheduled(t, &model.Reminder{
		OwnerID:       "owner-1",
		Message:       "raced",
		ScheduledTime: time.Now().Add(time.Hour),
	})

	require.NoError(t, env.svc.Fire(context.Background(), reminder.ID))

	err := env.svc.Cancel(context.Background(), reminder.ID)
	require.Error(t, err)

	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrAlreadyTerminal, appErr.Code)

	// No backward transition: the reminder stays sent.
	stored, err := env.repo.Get(context.Background(), reminder.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ReminderStatusSent, stored.Status)
}

func TestCancelUnknownReminder(t *testing.T) {
	env := newTestEnv()

	err := env.svc.Cancel(context.Background(), uuid.New())
	require.Error(t, err)

	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrNotFound, appErr.Code)
}

func TestLifecycleEvents(t *testing.T) {
	env := newTestEnv()
	reminder := env.createScheduled(t, &model.Reminder{
		OwnerID:       "owner-1",
		Message:       "audited",
		ScheduledTime: time.Now().Add(time.Hour),
	})

	require.NoError(t, env.svc.Cancel(context.Background(), reminder.ID))

	assert.Equal(t, []string{model.EventReminderCreated, model.EventReminderCancelled}, env.outbox.eventTypes())
}

func TestListClampsLimit(t *testing.T) {
	env := newTestEnv()

	_, err := env.svc.List(context.Background(), &model.ListRemindersFilter{})
	require.NoError(t, err)
	assert.Equal(t, DefaultListLimit, env.repo.lastLimit)

	_, err = env.svc.List(context.Background(), &model.ListRemindersFilter{Limit: 1000})
	require.NoError(t, err)
	assert.Equal(t, MaxListLimit, env.repo.lastLimit)

	_, err = env.svc.List(context.Background(), &model.ListRemindersFilter{Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 10, env.repo.lastLimit)
}

func TestListFiltersByOwnerAndStatus(t *testing.T) {
	env := newTestEnv()
	env.createScheduled(t, &model.Reminder{
		OwnerID:       "owner-1",
		Message:       "first",
		ScheduledTime: time.Now().Add(2 * time.Hour),
	})
	second := env.createScheduled(t, &model.Reminder{
		OwnerID:       "owner-1",
		Message:       "second",
		ScheduledTime: time.Now().Add(time.Hour),
	})
	env.createScheduled(t, &model.Reminder{
		OwnerID:       "owner-2",
		Message:       "other owner",
		ScheduledTime: time.Now().Add(time.Hour),
	})

	require.NoError(t, env.svc.Cancel(context.Background(), second.ID))

	status := model.ReminderStatusScheduled
	out, err := env.svc.List(context.Background(), &model.ListRemindersFilter{OwnerID: "owner-1", Status: &status})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "first", out[0].Message)

	// Without a status filter the cancelled reminder is still listed,
	// ascending by scheduled time.
	all, err := env.svc.List(context.Background(), &model.ListRemindersFilter{OwnerID: "owner-1"})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "second", all[0].Message)
	assert.Equal(t, "first", all[1].Message)
}

func TestGetUnknownReminder(t *testing.T) {
	env := newTestEnv()

	_, err := env.svc.Get(context.Background(), uuid.New())
	require.Error(t, err)

	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrNotFound, appErr.Code)
}
