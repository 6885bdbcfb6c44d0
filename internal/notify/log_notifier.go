package notify

import (
	"context"

	log "github.com/sirupsen/logrus"
)

// LogNotifier writes notifications to the service log. Used when no
// delivery webhook is configured.
type LogNotifier struct{}

func NewLogNotifier() *LogNotifier {
	return &LogNotifier{}
}

func (n *LogNotifier) Notify(_ context.Context, notification Notification) error {
	log.Infof("notification: [%s] %s", notification.Title, notification.Body)
	return nil
}
