package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all application metrics
type Metrics struct {
	// Reminder lifecycle metrics
	RemindersCreated  prometheus.Counter
	RemindersFired    *prometheus.CounterVec
	RemindersSpawned  prometheus.Counter
	DispatchOutcomes  *prometheus.CounterVec
	DispatchDuration  prometheus.Histogram
	RemindersByStatus *prometheus.GaugeVec

	// Trigger metrics
	TriggersScheduled    prometheus.Counter
	TriggersCancelled    prometheus.Counter
	TriggerDeliveries    *prometheus.CounterVec
	TriggerDeliveryDelay prometheus.Histogram

	// Outbox relay metrics
	OutboxEventsProcessed   prometheus.Counter
	OutboxEventsFailed      prometheus.Counter
	OutboxProcessingLatency prometheus.Histogram
	OutboxRetries           *prometheus.CounterVec
}

// NewMetrics creates and registers all application metrics
func NewMetrics(namespace, subsystem string) *Metrics {
	return &Metrics{
		RemindersCreated: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "reminders_created_total",
			Help:      "Total number of reminders created",
		}),
		RemindersFired: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "reminders_fired_total",
			Help:      "Total number of fire invocations by result",
		}, []string{"result"}),
		RemindersSpawned: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "reminders_spawned_total",
			Help:      "Total number of recurrence children created",
		}),
		DispatchOutcomes: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "dispatch_outcomes_total",
			Help:      "Total number of dispatch attempts by outcome",
		}, []string{"outcome"}),
		DispatchDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "dispatch_duration_seconds",
			Help:      "Time spent resolving and posting a notification",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		}),
		RemindersByStatus: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "reminders_by_status",
			Help:      "Current number of reminders per status",
		}, []string{"status"}),

		TriggersScheduled: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "triggers_scheduled_total",
			Help:      "Total number of delivery triggers registered",
		}),
		TriggersCancelled: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "triggers_cancelled_total",
			Help:      "Total number of delivery triggers removed before firing",
		}),
		TriggerDeliveries: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "trigger_deliveries_total",
			Help:      "Total number of trigger webhook deliveries by result",
		}, []string{"result"}),
		TriggerDeliveryDelay: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "trigger_delivery_delay_seconds",
			Help:      "Delay between a trigger's due time and its delivery",
			Buckets:   []float64{.1, .5, 1, 2.5, 5, 10, 30, 60, 300},
		}),

		OutboxEventsProcessed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "outbox_events_processed_total",
			Help:      "Total number of successfully relayed outbox events",
		}),
		OutboxEventsFailed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "outbox_events_failed_total",
			Help:      "Total number of outbox events that failed to relay",
		}),
		OutboxProcessingLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "outbox_processing_duration_seconds",
			Help:      "Time spent relaying outbox events",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		}),
		OutboxRetries: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "outbox_retry_attempts_total",
			Help:      "Total number of retry attempts for outbox events",
		}, []string{"event_type"}),
	}
}

// New creates an unregistered metric set, useful where the default registry
// must stay untouched (tests, secondary consumers).
func New(namespace string) *Metrics {
	return &Metrics{
		RemindersCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reminders_created_total",
			Help:      "Total number of reminders created",
		}),
		RemindersFired: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reminders_fired_total",
			Help:      "Total number of fire invocations by result",
		}, []string{"result"}),
		RemindersSpawned: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reminders_spawned_total",
			Help:      "Total number of recurrence children created",
		}),
		DispatchOutcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dispatch_outcomes_total",
			Help:      "Total number of dispatch attempts by outcome",
		}, []string{"outcome"}),
		DispatchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "dispatch_duration_seconds",
			Help:      "Time spent resolving and posting a notification",
		}),
		RemindersByStatus: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "reminders_by_status",
			Help:      "Current number of reminders per status",
		}, []string{"status"}),
		TriggersScheduled: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "triggers_scheduled_total",
			Help:      "Total number of delivery triggers registered",
		}),
		TriggersCancelled: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "triggers_cancelled_total",
			Help:      "Total number of delivery triggers removed before firing",
		}),
		TriggerDeliveries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "trigger_deliveries_total",
			Help:      "Total number of trigger webhook deliveries by result",
		}, []string{"result"}),
		TriggerDeliveryDelay: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "trigger_delivery_delay_seconds",
			Help:      "Delay between a trigger's due time and its delivery",
		}),
		OutboxEventsProcessed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "outbox_events_processed_total",
			Help:      "Total number of successfully relayed outbox events",
		}),
		OutboxEventsFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "outbox_events_failed_total",
			Help:      "Total number of outbox events that failed to relay",
		}),
		OutboxProcessingLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "outbox_processing_duration_seconds",
			Help:      "Time spent relaying outbox events",
		}),
		OutboxRetries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "outbox_retry_attempts_total",
			Help:      "Total number of retry attempts for outbox events",
		}, []string{"event_type"}),
	}
}
