package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const defaultTriggerKey = "reminderd:triggers"

type Config struct {
	URL          string
	Key          string
	MaxRetries   int
	RetryBackoff time.Duration
	PoolSize     int
	MinIdleConns int
}

// member is one pending trigger in the sorted set, scored by due time. Its
// serialized form doubles as the opaque ref handed back to callers, so a
// cancel is an exact ZREM of the original member.
type member struct {
	TriggerID  uuid.UUID `json:"trigger_id"`
	ReminderID uuid.UUID `json:"reminder_id"`
}

// Scheduler keeps delayed triggers in a Redis sorted set. A separate poller
// drains due members and calls back into the engine.
type Scheduler struct {
	client *redis.Client
	key    string
}

func NewScheduler(config Config) (*Scheduler, error) {
	opts, err := redis.ParseURL(config.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	// Configure connection pooling
	opts.MaxRetries = config.MaxRetries
	opts.MinRetryBackoff = config.RetryBackoff
	opts.PoolSize = config.PoolSize
	opts.MinIdleConns = config.MinIdleConns

	client := redis.NewClient(opts)

	// Test connection
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	key := config.Key
	if key == "" {
		key = defaultTriggerKey
	}

	return &Scheduler{client: client, key: key}, nil
}

func (s *Scheduler) ScheduleAt(ctx context.Context, at time.Time, reminderID uuid.UUID) (string, error) {
	ref, err := json.Marshal(member{TriggerID: uuid.New(), ReminderID: reminderID})
	if err != nil {
		return "", fmt.Errorf("failed to marshal trigger member: %w", err)
	}

	err = s.client.ZAdd(ctx, s.key, redis.Z{
		Score:  float64(at.Unix()),
		Member: string(ref),
	}).Err()
	if err != nil {
		return "", fmt.Errorf("failed to schedule trigger: %w", err)
	}

	return string(ref), nil
}

func (s *Scheduler) Cancel(ctx context.Context, ref string) (bool, error) {
	removed, err := s.client.ZRem(ctx, s.key, ref).Result()
	if err != nil {
		return false, fmt.Errorf("failed to cancel trigger: %w", err)
	}
	return removed > 0, nil
}

// Client exposes the underlying connection for readiness checks.
func (s *Scheduler) Client() *redis.Client {
	return s.client
}

func (s *Scheduler) Close() error {
	return s.client.Close()
}
