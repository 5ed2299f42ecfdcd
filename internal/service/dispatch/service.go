package dispatch

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"reminderd/internal/model"
	"reminderd/pkg/chat"
	"reminderd/pkg/logger"
	"reminderd/pkg/metrics"
)

// Service is the notification dispatcher. It resolves the reminder's target
// against the platform's current roster, formats the final text and posts it
// to the channel, classifying every attempt as success, transient or fatal.
type Service struct {
	chat    chat.Client
	logger  *logger.Logger
	metrics *metrics.Metrics
}

func NewService(chatClient chat.Client, logger *logger.Logger, metrics *metrics.Metrics) *Service {
	return &Service{
		chat:    chatClient,
		logger:  logger,
		metrics: metrics,
	}
}

// Send posts the reminder to its channel. The roster is fetched live on every
// call; an entity renamed or removed since create degrades to a plain-text
// mention rather than failing the dispatch.
func (s *Service) Send(ctx context.Context, reminder *model.Reminder) chat.Outcome {
	timer := prometheus.NewTimer(s.metrics.DispatchDuration)
	defer timer.ObserveDuration()

	mention := s.resolveMention(ctx, reminder.Target)
	text := FormatMessage(mention, reminder.Message)

	outcome, err := s.chat.PostMessage(ctx, reminder.Channel, text)
	if err != nil {
		s.logger.Error(err, "Failed to post reminder",
			"reminder_id", reminder.ID.String(),
			"channel", reminder.Channel,
			"outcome", string(outcome))
	}

	s.metrics.DispatchOutcomes.WithLabelValues(string(outcome)).Inc()
	return outcome
}

func (s *Service) resolveMention(ctx context.Context, target model.MentionTarget) string {
	switch target.Kind {
	case model.TargetBroadcast:
		return chat.MentionEveryone
	case model.TargetHere:
		return chat.MentionHere
	}

	roster, err := s.chat.ResolveRoster(ctx)
	if err != nil {
		s.logger.Warn(err, "Failed to resolve roster, using raw mention", "target", target.RawName)
		return "@" + target.RawName
	}

	switch target.Kind {
	case model.TargetRole:
		if role, ok := roster.FindRole(target.RawName); ok {
			return chat.MentionRole(role)
		}
	case model.TargetUser:
		if user, ok := roster.FindUser(target.RawName); ok {
			return chat.MentionUser(user)
		}
	}

	s.logger.Warn(nil, "Target missing from roster, using raw mention", "target", target.RawName)
	return "@" + target.RawName
}

// FormatMessage renders the delivered text for one reminder.
func FormatMessage(mention, message string) string {
	return fmt.Sprintf("%s ⏰ Reminder: %s", mention, message)
}
