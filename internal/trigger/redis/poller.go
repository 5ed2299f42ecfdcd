package redis

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"reminderd/internal/model"
	"reminderd/pkg/logger"
	"reminderd/pkg/metrics"
)

type PollerConfig struct {
	FireURL       string
	BatchSize     int
	PollInterval  time.Duration
	RetryAttempts int
	RetryDelay    time.Duration
	HTTPTimeout   time.Duration
}

// Poller drains due triggers from the sorted set and reports each one to the
// engine's fire endpoint. Members are removed only after the engine accepts
// or permanently rejects the delivery, so a crash mid-flight redelivers.
type Poller struct {
	scheduler *Scheduler
	client    *http.Client
	config    PollerConfig
	logger    *logger.Logger
	metrics   *metrics.Metrics
}

func NewPoller(scheduler *Scheduler, config PollerConfig, logger *logger.Logger, metrics *metrics.Metrics) *Poller {
	if config.FireURL == "" {
		panic("FireURL must be set")
	}
	if config.BatchSize <= 0 {
		panic("BatchSize must be greater than 0")
	}
	if config.PollInterval <= 0 {
		panic("PollInterval must be greater than 0")
	}
	if config.RetryAttempts <= 0 {
		panic("RetryAttempts must be greater than 0")
	}
	if config.HTTPTimeout <= 0 {
		config.HTTPTimeout = 10 * time.Second
	}

	return &Poller{
		scheduler: scheduler,
		client:    &http.Client{Timeout: config.HTTPTimeout},
		config:    config,
		logger:    logger,
		metrics:   metrics,
	}
}

func (p *Poller) Start(ctx context.Context) {
	ticker := time.NewTicker(p.config.PollInterval)
	defer ticker.Stop()

	p.logger.Info("Starting trigger poller")

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("Shutting down trigger poller")
			return
		case <-ticker.C:
			if err := p.deliverDue(ctx); err != nil {
				p.logger.Error(err, "Failed to deliver due triggers")
			}
		}
	}
}

func (p *Poller) deliverDue(ctx context.Context) error {
	now := time.Now()
	entries, err := p.scheduler.client.ZRangeByScoreWithScores(ctx, p.scheduler.key, &redis.ZRangeBy{
		Min:   "-inf",
		Max:   strconv.FormatInt(now.Unix(), 10),
		Count: int64(p.config.BatchSize),
	}).Result()
	if err != nil {
		return fmt.Errorf("failed to fetch due triggers: %w", err)
	}

	for _, entry := range entries {
		ref, ok := entry.Member.(string)
		if !ok {
			continue
		}
		if err := p.deliver(ctx, ref, entry.Score); err != nil {
			p.logger.Error(err, "Failed to deliver trigger", "ref", ref)
			continue
		}
	}

	return nil
}

func (p *Poller) deliver(ctx context.Context, ref string, score float64) error {
	var m member
	if err := json.Unmarshal([]byte(ref), &m); err != nil {
		// An unparseable member can never be delivered; drop it.
		p.metrics.TriggerDeliveries.WithLabelValues("malformed").Inc()
		return p.remove(ctx, ref)
	}

	p.metrics.TriggerDeliveryDelay.Observe(time.Since(time.Unix(int64(score), 0)).Seconds())

	status, err := p.fire(ctx, m.ReminderID)
	if err != nil {
		// Network failures and 5xx responses leave the member in place
		// for the next tick.
		if status == 0 {
			p.metrics.TriggerDeliveries.WithLabelValues("error").Inc()
		} else {
			p.metrics.TriggerDeliveries.WithLabelValues("retry").Inc()
		}
		return err
	}

	if status >= 200 && status < 300 {
		p.metrics.TriggerDeliveries.WithLabelValues("delivered").Inc()
	} else {
		// The engine owns the verdict on stale or unknown ids; there is
		// nothing left to redeliver.
		p.metrics.TriggerDeliveries.WithLabelValues("rejected").Inc()
	}

	return p.remove(ctx, ref)
}

func (p *Poller) fire(ctx context.Context, reminderID uuid.UUID) (int, error) {
	body, err := json.Marshal(model.FireTriggerRequest{ReminderID: reminderID.String()})
	if err != nil {
		return 0, fmt.Errorf("failed to marshal fire request: %w", err)
	}

	var status int
	err = retry(p.config.RetryAttempts, p.config.RetryDelay, func() error {
		status = 0

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.config.FireURL, bytes.NewReader(body))
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := p.client.Do(req)
		if err != nil {
			return err
		}
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()

		status = resp.StatusCode
		if resp.StatusCode >= http.StatusInternalServerError {
			return fmt.Errorf("fire endpoint returned %d", resp.StatusCode)
		}
		return nil
	})

	return status, err
}

func (p *Poller) remove(ctx context.Context, ref string) error {
	if err := p.scheduler.client.ZRem(ctx, p.scheduler.key, ref).Err(); err != nil {
		return fmt.Errorf("failed to remove trigger: %w", err)
	}
	return nil
}

// Helper retry function
func retry(attempts int, delay time.Duration, fn func() error) error {
	var err error
	for i := 0; i < attempts; i++ {
		if err = fn(); err == nil {
			return nil
		}
		if i < attempts-1 {
			time.Sleep(delay)
		}
	}
	return err
}
