package workers

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-bank-sync/internal/logger"
	"github.com/MKhiriev/go-bank-sync/internal/service"
	"github.com/MKhiriev/go-bank-sync/models"
)

// RemoteChanges keeps the document cache coherent with writes made by other
// clients of the store. It listens to every watched collection through the
// sync service and drops the cached queries of a collection whenever a fresh
// snapshot of it arrives on the bus.
type RemoteChanges struct {
	sync        service.SyncService
	documents   service.DocumentService
	events      EventSubscriber
	collections []string
	logger      *logger.Logger
}

func NewRemoteChanges(sync service.SyncService, documents service.DocumentService, events EventSubscriber, collections []string, logger *logger.Logger) *RemoteChanges {
	return &RemoteChanges{
		sync:        sync,
		documents:   documents,
		events:      events,
		collections: collections,
		logger:      logger,
	}
}

func (w *RemoteChanges) Run(ctx context.Context) error {
	handlerIDs := make([]string, 0, len(w.collections))
	defer func() {
		for _, id := range handlerIDs {
			w.events.Unsubscribe(id)
		}
	}()

	for _, collection := range w.collections {
		handlerIDs = append(handlerIDs, w.events.Subscribe(models.EventType(collection), w.onEvent))
	}

	listenerIDs := make([]string, 0, len(w.collections))
	defer func() {
		for _, id := range listenerIDs {
			w.sync.Stop(id)
		}
	}()

	for _, collection := range w.collections {
		id, err := w.sync.WatchCollection(ctx, collection)
		if err != nil {
			return fmt.Errorf("watch %s: %w", collection, err)
		}
		listenerIDs = append(listenerIDs, id)
	}

	w.logger.Info().Str("func", "RemoteChanges.Run").Strs("collections", w.collections).Msg("watching remote changes")
	<-ctx.Done()
	return nil
}

func (w *RemoteChanges) onEvent(_ context.Context, event models.Event) {
	if event.Action != models.ActionSnapshot {
		return
	}

	dropped := w.documents.Invalidate(event.Collection)
	w.logger.Debug().
		Str("func", "RemoteChanges.onEvent").
		Str("collection", event.Collection).
		Int("dropped", dropped).
		Msg("cache invalidated by snapshot")
}
