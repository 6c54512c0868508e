package store

import (
	"context"
	"encoding/json"
	"errors"
	"slices"
	"sync"

	"github.com/MKhiriev/go-bank-sync/internal/logger"
	"github.com/MKhiriev/go-bank-sync/models"
)

// pollFunc re-reads the watched data. It returns a signature used to skip
// unchanged results and a deliver function that hands the data to the
// listener callback.
type pollFunc func(ctx context.Context) (signature string, deliver func(), err error)

// watchHub synthesizes real-time listeners for backends without native
// change streams. Every listener owns one goroutine; writers call notify
// after a successful commit and the goroutine re-polls. Kicks coalesce, so a
// burst of writes yields at most one extra poll per listener.
type watchHub struct {
	mu       sync.Mutex
	watchers map[*watcher]struct{}
	closed   bool
	wg       sync.WaitGroup
	logger   *logger.Logger
}

type watcher struct {
	collection string
	kick       chan struct{}
	stop       chan struct{}
	stopOnce   sync.Once
}

func newWatchHub(log *logger.Logger) *watchHub {
	return &watchHub{
		watchers: make(map[*watcher]struct{}),
		logger:   log,
	}
}

// watch registers a listener on collection. The first poll happens
// asynchronously right after registration.
func (h *watchHub) watch(ctx context.Context, collection string, poll pollFunc, fail func(error)) (Unsubscribe, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return nil, ErrClosed
	}

	w := &watcher{
		collection: collection,
		kick:       make(chan struct{}, 1),
		stop:       make(chan struct{}),
	}
	w.kick <- struct{}{}
	h.watchers[w] = struct{}{}

	h.wg.Add(1)
	go h.run(ctx, w, poll, fail)

	return func() { h.remove(w) }, nil
}

func (h *watchHub) run(ctx context.Context, w *watcher, poll pollFunc, fail func(error)) {
	defer h.wg.Done()
	defer h.remove(w)

	var last string
	delivered := false

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stop:
			return
		case <-w.kick:
		}

		signature, deliver, err := poll(ctx)
		if w.stopped() || ctx.Err() != nil {
			return
		}
		if err != nil {
			h.logger.Warn().Err(err).
				Str("func", "watchHub.run").
				Str("collection", w.collection).
				Msg("listener failed, stopping")
			fail(err)
			return
		}
		if delivered && signature == last {
			continue
		}

		last, delivered = signature, true
		deliver()
	}
}

// notify wakes every listener of the given collections.
func (h *watchHub) notify(collections ...string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for w := range h.watchers {
		if !slices.Contains(collections, w.collection) {
			continue
		}
		select {
		case w.kick <- struct{}{}:
		default:
		}
	}
}

func (h *watchHub) remove(w *watcher) {
	h.mu.Lock()
	delete(h.watchers, w)
	h.mu.Unlock()

	w.stopOnce.Do(func() { close(w.stop) })
}

// close stops every listener and waits for their goroutines to exit.
func (h *watchHub) close() {
	h.mu.Lock()
	h.closed = true
	watchers := make([]*watcher, 0, len(h.watchers))
	for w := range h.watchers {
		watchers = append(watchers, w)
	}
	h.mu.Unlock()

	for _, w := range watchers {
		h.remove(w)
	}
	h.wg.Wait()
}

// active returns the number of running listeners.
func (h *watchHub) active() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.watchers)
}

func (w *watcher) stopped() bool {
	select {
	case <-w.stop:
		return true
	default:
		return false
	}
}

// documentSignature fingerprints a result so unchanged polls are skipped.
func documentSignature(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}

// watchDocumentWith adapts a single-document getter to the hub.
func (h *watchHub) watchDocumentWith(ctx context.Context, collection string, get func(ctx context.Context) (models.Document, error), cb DocumentCallback) (Unsubscribe, error) {
	poll := func(ctx context.Context) (string, func(), error) {
		doc, err := get(ctx)
		switch {
		case err == nil:
			return documentSignature(doc), func() { cb(&doc, nil) }, nil
		case isNotFound(err):
			return "", func() { cb(nil, nil) }, nil
		default:
			return "", nil, err
		}
	}
	return h.watch(ctx, collection, poll, func(err error) { cb(nil, err) })
}

// watchQueryWith adapts a query runner to the hub.
func (h *watchHub) watchQueryWith(ctx context.Context, collection string, query func(ctx context.Context) ([]models.Document, error), cb QueryCallback) (Unsubscribe, error) {
	poll := func(ctx context.Context) (string, func(), error) {
		docs, err := query(ctx)
		if err != nil {
			return "", nil, err
		}
		return documentSignature(docs), func() { cb(docs, nil) }, nil
	}
	return h.watch(ctx, collection, poll, func(err error) { cb(nil, err) })
}

func isNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
