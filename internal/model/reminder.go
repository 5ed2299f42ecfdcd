package model

import (
	"time"

	"github.com/google/uuid"
)

type ReminderStatus string

const (
	ReminderStatusScheduled ReminderStatus = "scheduled"
	ReminderStatusSending   ReminderStatus = "sending"
	ReminderStatusSent      ReminderStatus = "sent"
	ReminderStatusFailed    ReminderStatus = "failed"
	ReminderStatusCancelled ReminderStatus = "cancelled"
)

// IsValid reports whether s is one of the known lifecycle statuses.
func (s ReminderStatus) IsValid() bool {
	switch s {
	case ReminderStatusScheduled, ReminderStatusSending, ReminderStatusSent,
		ReminderStatusFailed, ReminderStatusCancelled:
		return true
	}
	return false
}

type TargetKind string

const (
	TargetBroadcast TargetKind = "broadcast"
	TargetHere      TargetKind = "here"
	TargetRole      TargetKind = "role"
	TargetUser      TargetKind = "user"
)

// MentionTarget is the resolved addressee of a reminder. RawName carries the
// canonical roster name for role/user targets and is empty for broadcast/here.
type MentionTarget struct {
	Kind    TargetKind `json:"kind"`
	RawName string     `json:"raw_name,omitempty"`
}

type Frequency string

const (
	FrequencyDaily   Frequency = "daily"
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"
)

// RecurrenceRule is the normalized repeat description. Byday is only
// meaningful for weekly rules and is kept sorted Sunday-first.
type RecurrenceRule struct {
	Frequency Frequency      `json:"frequency"`
	Byday     []time.Weekday `json:"byday,omitempty"`
}

type Reminder struct {
	ID                 uuid.UUID       `json:"id"`
	OwnerID            string          `json:"owner_id"`
	Message            string          `json:"message"`
	Target             MentionTarget   `json:"target"`
	Channel            string          `json:"channel"`
	ScheduledTime      time.Time       `json:"scheduled_time"`
	Recurrence         *RecurrenceRule `json:"recurrence,omitempty"`
	Status             ReminderStatus  `json:"status"`
	DeliveryTriggerRef string          `json:"delivery_trigger_ref,omitempty"`
	ParentID           *uuid.UUID      `json:"parent_id,omitempty"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}

type CreateReminderRequest struct {
	OwnerID        string `json:"owner_id" binding:"required"`
	Message        string `json:"message" binding:"required"`
	TimeText       string `json:"time_text"`
	TargetText     string `json:"target_text"`
	ChannelText    string `json:"channel_text"`
	RecurrenceText string `json:"recurrence_text"`
}

type FireTriggerRequest struct {
	ReminderID string `json:"reminder_id" binding:"required,uuid"`
}

type ListRemindersFilter struct {
	OwnerID string
	Status  *ReminderStatus
	Limit   int
}
