package workers

import (
	"context"
	"sync"

	"github.com/MKhiriev/go-bank-sync/internal/logger"
)

type Workers struct {
	workers []Worker
	logger  *logger.Logger
}

func NewWorkers(logger *logger.Logger, workers ...Worker) *Workers {
	return &Workers{
		workers: workers,
		logger:  logger,
	}
}

// Run starts every worker in its own goroutine and waits for all of them.
// A worker that fails is logged; the others keep running.
func (w *Workers) Run(ctx context.Context) {
	var wg sync.WaitGroup
	for _, worker := range w.workers {
		wg.Go(func() {
			if err := worker.Run(ctx); err != nil {
				w.logger.Err(err).Str("func", "Workers.Run").Msg("worker stopped with error")
			}
		})
	}
	wg.Wait()
}
