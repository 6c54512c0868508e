package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MKhiriev/go-bank-sync/internal/service"
	"github.com/MKhiriev/go-bank-sync/models"
)

const (
	sseEventSnapshot = "snapshot"
	sseEventError    = "error"

	// streamBuffer bounds how far a listener may run ahead of a slow client.
	streamBuffer = 16
)

// streamEvent is one Server-Sent Event frame.
type streamEvent struct {
	name string
	data any
}

// watchDocument streams the addressed document. Each frame carries the whole
// document, or null once it is deleted.
func (h *Handler) watchDocument(w http.ResponseWriter, r *http.Request) {
	collection, id := chi.URLParam(r, paramCollection), chi.URLParam(r, paramID)
	ctx := r.Context()
	events := make(chan streamEvent, streamBuffer)

	listenerID, err := h.services.SubscriptionService.SubscribeToDocument(ctx, collection, id,
		func(doc *models.Document, err error) {
			if err != nil {
				offer(ctx, events, errorEvent(err))
				return
			}
			offer(ctx, events, streamEvent{name: sseEventSnapshot, data: doc})
		})
	if err != nil {
		h.writeError(w, r, "Handler.watchDocument", err)
		return
	}
	defer h.services.SubscriptionService.Unsubscribe(listenerID)

	h.stream(w, r, listenerID, events)
}

// watchCollection streams query snapshots of a collection. The query string
// takes the same where, orderBy and limit parameters as the list endpoint.
func (h *Handler) watchCollection(w http.ResponseWriter, r *http.Request) {
	collection := chi.URLParam(r, paramCollection)

	constraints, err := parseConstraints(r.URL.Query())
	if err != nil {
		h.writeError(w, r, "Handler.watchCollection", err)
		return
	}

	ctx := r.Context()
	events := make(chan streamEvent, streamBuffer)

	listenerID, err := h.services.SubscriptionService.SubscribeToCollection(ctx, collection, constraints,
		func(docs []models.Document, err error) {
			if err != nil {
				offer(ctx, events, errorEvent(err))
				return
			}
			if docs == nil {
				docs = []models.Document{}
			}
			offer(ctx, events, streamEvent{name: sseEventSnapshot, data: docs})
		})
	if err != nil {
		h.writeError(w, r, "Handler.watchCollection", err)
		return
	}
	defer h.services.SubscriptionService.Unsubscribe(listenerID)

	h.stream(w, r, listenerID, events)
}

// stream writes events until the client goes away.
func (h *Handler) stream(w http.ResponseWriter, r *http.Request, listenerID string, events <-chan streamEvent) {
	log := h.requestLogger(r)
	rc := http.NewResponseController(w)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Listener-ID", listenerID)
	w.WriteHeader(http.StatusOK)

	if err := rc.Flush(); err != nil {
		log.Err(err).Str("func", "Handler.stream").Msg(ErrStreamingUnsupported.Error())
		return
	}

	heartbeat := time.NewTicker(h.heartbeat)
	defer heartbeat.Stop()

	for {
		select {
		case <-r.Context().Done():
			log.Debug().Str("func", "Handler.stream").Str("listener_id", listenerID).Msg("client disconnected")
			return
		case <-heartbeat.C:
			if _, err := fmt.Fprint(w, ": ping\n\n"); err != nil {
				return
			}
		case event := <-events:
			if err := writeEvent(w, event); err != nil {
				log.Err(err).Str("func", "Handler.stream").Str("listener_id", listenerID).Msg("error writing event")
				return
			}
		}

		if err := rc.Flush(); err != nil {
			return
		}
	}
}

func writeEvent(w http.ResponseWriter, event streamEvent) error {
	data, err := json.Marshal(event.data)
	if err != nil {
		return fmt.Errorf("error encoding %s event: %w", event.name, err)
	}
	_, err = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.name, data)
	return err
}

func errorEvent(err error) streamEvent {
	return streamEvent{
		name: sseEventError,
		data: models.ErrorResponse{Error: err.Error(), Kind: string(service.KindOf(err))},
	}
}

// offer hands event to the stream loop unless the request is already gone.
func offer(ctx context.Context, events chan<- streamEvent, event streamEvent) {
	select {
	case events <- event:
	case <-ctx.Done():
	}
}
