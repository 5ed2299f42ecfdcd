package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"reminderd/internal/model"
)

// reminderRow is the flat scan target for the reminders table. The model
// keeps the target and recurrence as nested types, so rows are converted
// explicitly in both directions.
type reminderRow struct {
	ID                 uuid.UUID      `db:"id"`
	OwnerID            string         `db:"owner_id"`
	Message            string         `db:"message"`
	TargetKind         string         `db:"target_kind"`
	TargetName         sql.NullString `db:"target_name"`
	Channel            string         `db:"channel"`
	ScheduledTime      time.Time      `db:"scheduled_time"`
	RecurrenceFreq     sql.NullString `db:"recurrence_freq"`
	RecurrenceByday    sql.NullString `db:"recurrence_byday"`
	Status             string         `db:"status"`
	DeliveryTriggerRef sql.NullString `db:"delivery_trigger_ref"`
	ParentID           *uuid.UUID     `db:"parent_id"`
	CreatedAt          time.Time      `db:"created_at"`
	UpdatedAt          time.Time      `db:"updated_at"`
}

const reminderColumns = `id, owner_id, message, target_kind, target_name, channel,
		   scheduled_time, recurrence_freq, recurrence_byday, status,
		   delivery_trigger_ref, parent_id, created_at, updated_at`

func (r *reminderRepository) Create(ctx context.Context, reminder *model.Reminder) error {
	query := `
		INSERT INTO reminders (
			id, owner_id, message, target_kind, target_name, channel,
			scheduled_time, recurrence_freq, recurrence_byday, status,
			delivery_trigger_ref, parent_id, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`
	reminder.ID = uuid.New()
	reminder.CreatedAt = time.Now()
	reminder.UpdatedAt = time.Now()

	var freq, byday sql.NullString
	if reminder.Recurrence != nil {
		freq = nullString(string(reminder.Recurrence.Frequency))
		byday = nullString(encodeByday(reminder.Recurrence.Byday))
	}

	_, err := r.db.ExecContext(ctx, query,
		reminder.ID,
		reminder.OwnerID,
		reminder.Message,
		string(reminder.Target.Kind),
		nullString(reminder.Target.RawName),
		reminder.Channel,
		reminder.ScheduledTime,
		freq,
		byday,
		string(reminder.Status),
		nullString(reminder.DeliveryTriggerRef),
		reminder.ParentID,
		reminder.CreatedAt,
		reminder.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create reminder: %w", err)
	}
	return nil
}

func (r *reminderRepository) Get(ctx context.Context, id uuid.UUID) (*model.Reminder, error) {
	query := `
		SELECT ` + reminderColumns + `
		FROM reminders
		WHERE id = $1
	`
	var row reminderRow
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		return nil, fmt.Errorf("failed to get reminder: %w", err)
	}
	return rowToReminder(&row)
}

func (r *reminderRepository) List(ctx context.Context, filter *model.ListRemindersFilter) ([]*model.Reminder, error) {
	query := `
		SELECT ` + reminderColumns + `
		FROM reminders
		WHERE 1 = 1
	`
	args := []interface{}{}
	argCount := 1

	if filter.OwnerID != "" {
		query += fmt.Sprintf(" AND owner_id = $%d", argCount)
		args = append(args, filter.OwnerID)
		argCount++
	}

	if filter.Status != nil {
		query += fmt.Sprintf(" AND status = $%d", argCount)
		args = append(args, string(*filter.Status))
		argCount++
	}

	query += " ORDER BY scheduled_time ASC"

	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argCount)
		args = append(args, filter.Limit)
	}

	var rows []*reminderRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list reminders: %w", err)
	}
	return rowsToReminders(rows)
}

func (r *reminderRepository) ListScheduledBetween(ctx context.Context, from, to time.Time) ([]*model.Reminder, error) {
	query := `
		SELECT ` + reminderColumns + `
		FROM reminders
		WHERE status = $1
		AND scheduled_time >= $2
		AND scheduled_time < $3
		ORDER BY scheduled_time ASC
	`
	var rows []*reminderRow
	err := r.db.SelectContext(ctx, &rows, query, string(model.ReminderStatusScheduled), from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list scheduled reminders: %w", err)
	}
	return rowsToReminders(rows)
}

func (r *reminderRepository) CompareAndSetStatus(ctx context.Context, id uuid.UUID, expected, next model.ReminderStatus) (bool, error) {
	query := `
		UPDATE reminders
		SET status = $3, updated_at = NOW()
		WHERE id = $1 AND status = $2
	`
	result, err := r.db.ExecContext(ctx, query, id, string(expected), string(next))
	if err != nil {
		return false, fmt.Errorf("failed to update reminder status: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rows > 0, nil
}

func (r *reminderRepository) SetTriggerRef(ctx context.Context, id uuid.UUID, ref string) error {
	query := `
		UPDATE reminders
		SET delivery_trigger_ref = $2, updated_at = NOW()
		WHERE id = $1
	`
	result, err := r.db.ExecContext(ctx, query, id, nullString(ref))
	if err != nil {
		return fmt.Errorf("failed to set trigger ref: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("reminder not found")
	}

	return nil
}

func (r *reminderRepository) CountByStatus(ctx context.Context) (map[model.ReminderStatus]int64, error) {
	query := `
		SELECT status, COUNT(*) AS count
		FROM reminders
		GROUP BY status
	`
	var rows []struct {
		Status string `db:"status"`
		Count  int64  `db:"count"`
	}
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("failed to count reminders: %w", err)
	}

	counts := make(map[model.ReminderStatus]int64, len(rows))
	for _, row := range rows {
		counts[model.ReminderStatus(row.Status)] = row.Count
	}
	return counts, nil
}

func (r *reminderRepository) DeleteTerminalBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	query := `
		DELETE FROM reminders
		WHERE status IN ('sent', 'failed', 'cancelled')
		AND updated_at < $1
	`
	result, err := r.db.ExecContext(ctx, query, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to delete terminal reminders: %w", err)
	}

	return result.RowsAffected()
}

func rowToReminder(row *reminderRow) (*model.Reminder, error) {
	reminder := &model.Reminder{
		ID:      row.ID,
		OwnerID: row.OwnerID,
		Message: row.Message,
		Target: model.MentionTarget{
			Kind:    model.TargetKind(row.TargetKind),
			RawName: row.TargetName.String,
		},
		Channel:            row.Channel,
		ScheduledTime:      row.ScheduledTime,
		Status:             model.ReminderStatus(row.Status),
		DeliveryTriggerRef: row.DeliveryTriggerRef.String,
		ParentID:           row.ParentID,
		CreatedAt:          row.CreatedAt,
		UpdatedAt:          row.UpdatedAt,
	}

	if row.RecurrenceFreq.Valid {
		byday, err := decodeByday(row.RecurrenceByday.String)
		if err != nil {
			return nil, fmt.Errorf("reminder %s: %w", row.ID, err)
		}
		reminder.Recurrence = &model.RecurrenceRule{
			Frequency: model.Frequency(row.RecurrenceFreq.String),
			Byday:     byday,
		}
	}

	return reminder, nil
}

func rowsToReminders(rows []*reminderRow) ([]*model.Reminder, error) {
	reminders := make([]*model.Reminder, 0, len(rows))
	for _, row := range rows {
		reminder, err := rowToReminder(row)
		if err != nil {
			return nil, err
		}
		reminders = append(reminders, reminder)
	}
	return reminders, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

var shortDayNames = [...]string{"sun", "mon", "tue", "wed", "thu", "fri", "sat"}

// encodeByday stores weekly by-day sets as a comma-joined list, e.g. "mon,fri".
func encodeByday(days []time.Weekday) string {
	if len(days) == 0 {
		return ""
	}
	parts := make([]string, 0, len(days))
	for _, d := range days {
		parts = append(parts, shortDayNames[int(d)%7])
	}
	return strings.Join(parts, ",")
}

func decodeByday(s string) ([]time.Weekday, error) {
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	days := make([]time.Weekday, 0, len(parts))
	for _, p := range parts {
		found := false
		for i, name := range shortDayNames {
			if name == p {
				days = append(days, time.Weekday(i))
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("unknown weekday %q", p)
		}
	}
	return days, nil
}
