package http

import (
	"errors"
	"net/http"

	"github.com/MKhiriev/go-bank-sync/internal/service"
	"github.com/MKhiriev/go-bank-sync/internal/store"
	"github.com/MKhiriev/go-bank-sync/internal/utils"
	"github.com/MKhiriev/go-bank-sync/models"
)

var kindStatusMap = map[service.Kind]int{
	service.KindNotFound: http.StatusNotFound,
	service.KindAuth:     http.StatusForbidden,
	service.KindConfig:   http.StatusServiceUnavailable,
	service.KindNetwork:  http.StatusBadGateway,
	service.KindInvalid:  http.StatusBadRequest,
}

var errorStatusMap = map[error]int{
	ErrInvalidJSON:          http.StatusBadRequest,
	ErrInvalidQueryParam:    http.StatusBadRequest,
	ErrResourceNotFound:     http.StatusNotFound,
	ErrStreamingUnsupported: http.StatusInternalServerError,

	store.ErrInvalidQuery: http.StatusBadRequest,
}

func statusFromError(err error) int {
	var serviceErr *service.Error
	if errors.As(err, &serviceErr) {
		if status, ok := kindStatusMap[serviceErr.Kind]; ok {
			return status
		}
	}

	for target, status := range errorStatusMap {
		if errors.Is(err, target) {
			return status
		}
	}
	return http.StatusInternalServerError
}

// writeError logs err with the request logger and answers with a JSON
// [models.ErrorResponse].
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, funcName string, err error) {
	status := statusFromError(err)

	log := h.requestLogger(r)
	event := log.Warn()
	if status >= http.StatusInternalServerError {
		event = log.Error()
	}
	event.Err(err).Str("func", funcName).Int("status", status).Msg("request failed")

	_, _ = utils.WriteJSON(w, models.ErrorResponse{Error: err.Error(), Kind: string(service.KindOf(err))}, status)
}
