package digest

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"reminderd/internal/model"
	"reminderd/pkg/chat"
	"reminderd/pkg/logger"
)

// Lister is the slice of the reminder store the digest needs.
type Lister interface {
	ListScheduledBetween(ctx context.Context, from, to time.Time) ([]*model.Reminder, error)
}

// Service composes the morning digest: one summary message per channel
// listing every reminder still scheduled for the current day.
type Service struct {
	repo   Lister
	chat   chat.Client
	logger *logger.Logger

	// now is swappable so tests can pin the clock.
	now func() time.Time
}

func NewService(repo Lister, chatClient chat.Client, logger *logger.Logger) *Service {
	return &Service{
		repo:   repo,
		chat:   chatClient,
		logger: logger,
		now:    time.Now,
	}
}

// Run posts today's digest. A day with nothing scheduled posts nothing; a
// channel whose post fails is logged and skipped, never retried.
func (s *Service) Run(ctx context.Context) error {
	now := s.now().UTC()
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 1)

	reminders, err := s.repo.ListScheduledBetween(ctx, start, end)
	if err != nil {
		return fmt.Errorf("failed to list today's reminders: %w", err)
	}
	if len(reminders) == 0 {
		return nil
	}

	byChannel := make(map[string][]*model.Reminder)
	for _, r := range reminders {
		byChannel[r.Channel] = append(byChannel[r.Channel], r)
	}

	channels := make([]string, 0, len(byChannel))
	for ch := range byChannel {
		channels = append(channels, ch)
	}
	sort.Strings(channels)

	for _, ch := range channels {
		text := Format(byChannel[ch])
		if outcome, err := s.chat.PostMessage(ctx, ch, text); err != nil {
			s.logger.Error(err, "Failed to post digest",
				"channel", ch,
				"outcome", string(outcome))
		}
	}

	return nil
}

// Format renders one channel's digest, lines ordered by time of day.
func Format(reminders []*model.Reminder) string {
	var b strings.Builder
	b.WriteString("⏰ Today's reminders:")
	for _, r := range reminders {
		b.WriteString(fmt.Sprintf("\n%s — %s", r.ScheduledTime.Format("15:04"), r.Message))
	}
	return b.String()
}
