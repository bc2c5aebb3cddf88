package metrics

import (
	"context"

	"github.com/sirupsen/logrus"
)

// RecordEvent records a custom event. Without an agent in ctx the event is
// written to the debug log instead.
func RecordEvent(ctx context.Context, eventName string, kvPairs map[string]interface{}) {
	if nr := ApplicationFromContext(ctx); nr != nil {
		nr.RecordCustomEvent(eventName, kvPairs)
		return
	}

	logrus.WithField("event", eventName).WithFields(kvPairs).Debug("custom event")
}
