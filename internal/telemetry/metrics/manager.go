package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Manager struct {
	// counters
	CounterRequests           *prometheus.CounterVec
	CounterRepsAdded          prometheus.Counter
	CounterRepsUndone         prometheus.Counter
	CounterSyncPushes         prometheus.Counter
	CounterSyncPushFailures   prometheus.Counter
	CounterRosterSnapshots    prometheus.Counter
	CounterFriendCompletions  prometheus.Counter
	CounterNotificationsSent  prometheus.Counter
	CounterHandleRequestPanic prometheus.Counter
	CounterRateLimitedReqs    prometheus.Counter

	// gauges
	GaugeRequests   prometheus.Gauge
	GaugeLifeSignal prometheus.Gauge

	// histograms
	HistogramRequestDuration prometheus.Histogram
}

func NewTestManager() *Manager {
	return NewManager("pushups", "test_server", prometheus.NewRegistry())
}

func NewManager(namespace, subsystem string, reg prometheus.Registerer) *Manager {
	factory := promauto.With(reg)

	counterRequests := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "request",
		Help:      "The total number of incoming requests",
	}, []string{"method", "status"})
	counterRepsAdded := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "reps_added",
		Help:      "The total number of repetition additions",
	})
	counterRepsUndone := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "reps_undone",
		Help:      "The total number of undone additions",
	})
	counterSyncPushes := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "sync_pushes",
		Help:      "The total number of member record uploads",
	})
	counterSyncPushFailures := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "sync_push_failures",
		Help:      "The total number of failed member record uploads",
	})
	counterRosterSnapshots := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "roster_snapshots",
		Help:      "The total number of received roster snapshots",
	})
	counterFriendCompletions := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "friend_completions",
		Help:      "The total number of detected friend goal completions",
	})
	counterNotificationsSent := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "notifications_sent",
		Help:      "The total number of sent notifications",
	})
	counterHandleRequestPanic := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "handle_request_panic",
		Help:      "The total number of serve request panics",
	})
	counterRateLimitedReqs := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "rate_limited_requests",
		Help:      "The total number of rate limited requests",
	})

	gaugeRequests := factory.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "current_requests",
		Help:      "Current number of requests served",
	})
	gaugeLifeSignal := factory.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "life_signal",
		Help:      "Shows whether the service is alive",
	})

	histRequestDuration := factory.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Buckets: []float64{
				0.0001, 0.0005, 0.001, 0.0025, 0.005,
				0.01, 0.025, 0.05, 0.1, 0.25, 0.5,
				1, 2.5, 5, 10, 60,
			},
			Name: "request_duration_seconds",
			Help: "Total duration of all requests",
		},
	)

	return &Manager{
		CounterRequests:           counterRequests,
		CounterRepsAdded:          counterRepsAdded,
		CounterRepsUndone:         counterRepsUndone,
		CounterSyncPushes:         counterSyncPushes,
		CounterSyncPushFailures:   counterSyncPushFailures,
		CounterRosterSnapshots:    counterRosterSnapshots,
		CounterFriendCompletions:  counterFriendCompletions,
		CounterNotificationsSent:  counterNotificationsSent,
		CounterHandleRequestPanic: counterHandleRequestPanic,
		CounterRateLimitedReqs:    counterRateLimitedReqs,
		GaugeRequests:             gaugeRequests,
		GaugeLifeSignal:           gaugeLifeSignal,
		HistogramRequestDuration:  histRequestDuration,
	}
}
