package server

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/MKhiriev/go-bank-sync/internal/config"
	"github.com/MKhiriev/go-bank-sync/internal/handler"
	"github.com/MKhiriev/go-bank-sync/internal/logger"
)

type server struct {
	httpServer *httpServer
	onShutdown []func()
	logger     *logger.Logger
}

// NewServer builds the HTTP server. onShutdown hooks run in order after the
// listener has stopped accepting requests.
func NewServer(handlers *handler.Handlers, cfg config.Server, logger *logger.Logger, onShutdown ...func()) (Server, error) {
	logger.Info().Msg("creating new server...")

	if handlers == nil || handlers.HTTP == nil || cfg.HTTPAddress == "" {
		return nil, errNoServersAreCreated
	}

	return &server{
		httpServer: newHTTPServer(handlers.HTTP.Init(), cfg, logger),
		onShutdown: onShutdown,
		logger:     logger,
	}, nil
}

func (s *server) RunServer() error {
	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGTERM,
		syscall.SIGINT,
		syscall.SIGQUIT,
	)
	defer stop()

	return s.run(ctx)
}

func (s *server) Shutdown() {
	s.httpServer.Shutdown()

	for _, hook := range s.onShutdown {
		hook()
	}
}

// run serves until ctx is done or the listener fails, then shuts everything
// down. The listener error, if any, is returned after the hooks have run.
func (s *server) run(ctx context.Context) error {
	serveErr := make(chan error, 1)

	s.logger.Info().Msg("Launching HTTP server")
	go func() {
		serveErr <- s.httpServer.RunServer()
	}()

	var err error
	select {
	case <-ctx.Done():
	case err = <-serveErr:
		s.logger.Err(err).Str("func", "server.run").Msg("HTTP server stopped unexpectedly")
	}

	s.Shutdown()

	if err != nil {
		return fmt.Errorf("http server: %w", err)
	}
	s.logger.Info().Msg("server Shutdown gracefully")
	return nil
}
