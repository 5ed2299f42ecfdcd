package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type OutboxStatus string

const (
	OutboxStatusPending   OutboxStatus = "pending"
	OutboxStatusRetry     OutboxStatus = "retry"
	OutboxStatusProcessed OutboxStatus = "processed"
	OutboxStatusFailed    OutboxStatus = "failed"
)

// Lifecycle event types relayed through the outbox.
const (
	EventReminderCreated   = "reminder.created"
	EventReminderSent      = "reminder.sent"
	EventReminderFailed    = "reminder.failed"
	EventReminderCancelled = "reminder.cancelled"
)

type OutboxEvent struct {
	ID           uuid.UUID       `db:"id" json:"id"`
	EventType    string          `db:"event_type" json:"event_type"`
	Payload      json.RawMessage `db:"payload" json:"payload"`
	Status       OutboxStatus    `db:"status" json:"status"`
	ErrorMessage *string         `db:"error_message" json:"error_message,omitempty"`
	RetryCount   int             `db:"retry_count" json:"retry_count"`
	RetryAt      *time.Time      `db:"retry_at" json:"retry_at,omitempty"`
	ProcessedAt  *time.Time      `db:"processed_at" json:"processed_at,omitempty"`
	CreatedAt    time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time       `db:"updated_at" json:"updated_at"`
}

// ReminderEventPayload is the JSON body of every reminder.* outbox event.
type ReminderEventPayload struct {
	ReminderID    uuid.UUID      `json:"reminder_id"`
	OwnerID       string         `json:"owner_id"`
	Channel       string         `json:"channel"`
	Status        ReminderStatus `json:"status"`
	ScheduledTime time.Time      `json:"scheduled_time"`
}
