package workers

import (
	"context"

	"github.com/MKhiriev/go-bank-sync/internal/logger"
	"github.com/MKhiriev/go-bank-sync/models"
)

// EventLog writes every bus event to the debug log.
type EventLog struct {
	events EventSubscriber
	logger *logger.Logger
}

func NewEventLog(events EventSubscriber, logger *logger.Logger) *EventLog {
	return &EventLog{events: events, logger: logger}
}

func (w *EventLog) Run(ctx context.Context) error {
	id := w.events.Subscribe(models.EventAll, func(_ context.Context, event models.Event) {
		w.logger.Debug().
			Str("type", string(event.Type)).
			Str("action", string(event.Action)).
			Str("collection", event.Collection).
			Str("document_id", event.DocumentID).
			Time("emitted_at", event.EmittedAt).
			Msg("sync event")
	})
	defer w.events.Unsubscribe(id)

	<-ctx.Done()
	return nil
}
