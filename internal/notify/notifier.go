package notify

import (
	"context"

	"github.com/beeegaf/pushup-tracker/internal/telemetry/metrics"

	log "github.com/sirupsen/logrus"
)

type Notification struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// Notifier delivers a notification to the user. Implementations are
// expected to be cheap to call and safe for concurrent use.
type Notifier interface {
	Notify(ctx context.Context, notification Notification) error
}

type Permission string

const (
	PermissionGranted Permission = "granted"
	PermissionDenied  Permission = "denied"
	PermissionDefault Permission = "default"
)

// PermissionFunc reports the current notification permission state.
// Permission is an external precondition, the dispatcher only checks
// it, it does not manage it.
type PermissionFunc func() Permission

// Dispatcher sends notifications fire-and-forget: delivery failures
// are logged and counted, never surfaced to the caller.
type Dispatcher struct {
	notifier       Notifier
	permission     PermissionFunc
	metricsManager *metrics.Manager
}

func NewDispatcher(
	notifier Notifier,
	permission PermissionFunc,
	metricsManager *metrics.Manager,
) *Dispatcher {
	if permission == nil {
		permission = func() Permission { return PermissionGranted }
	}
	return &Dispatcher{
		notifier:       notifier,
		permission:     permission,
		metricsManager: metricsManager,
	}
}

// Dispatch delivers the notification without blocking the caller.
// Nothing is sent unless permission is granted.
func (d *Dispatcher) Dispatch(ctx context.Context, notification Notification) {
	if d.permission() != PermissionGranted {
		log.Tracef("notification [%s] skipped, permission not granted", notification.Title)
		return
	}

	go func() {
		if err := d.notifier.Notify(context.WithoutCancel(ctx), notification); err != nil {
			log.Errorf("send notification [%s]: %s", notification.Title, err)
			return
		}
		if d.metricsManager != nil {
			d.metricsManager.CounterNotificationsSent.Inc()
		}
	}()
}
