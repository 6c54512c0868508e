package http

import (
	"net/http"
	"time"

	"github.com/MKhiriev/go-bank-sync/internal/config"
	"github.com/MKhiriev/go-bank-sync/internal/logger"
	"github.com/MKhiriev/go-bank-sync/internal/service"
)

// defaultHeartbeat is the interval of keep-alive comments on event streams.
const defaultHeartbeat = 15 * time.Second

type Handler struct {
	services *service.Services

	requestTimeout time.Duration
	heartbeat      time.Duration

	logger *logger.Logger
}

func NewHandler(services *service.Services, cfg config.Server, logger *logger.Logger) *Handler {
	logger.Info().Dur("request_timeout", cfg.RequestTimeout).Msg("http handler created")
	return &Handler{
		services:       services,
		requestTimeout: cfg.RequestTimeout,
		heartbeat:      defaultHeartbeat,
		logger:         logger,
	}
}

// requestLogger returns the trace-scoped logger of r, falling back to the
// handler logger outside the middleware chain.
func (h *Handler) requestLogger(r *http.Request) *logger.Logger {
	return logger.FromContextOr(r.Context(), h.logger)
}
