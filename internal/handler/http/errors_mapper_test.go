package http

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/MKhiriev/go-bank-sync/internal/service"
	"github.com/MKhiriev/go-bank-sync/internal/store"
)

func TestStatusFromError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "not found", err: &service.Error{Kind: service.KindNotFound}, want: http.StatusNotFound},
		{name: "auth", err: &service.Error{Kind: service.KindAuth}, want: http.StatusForbidden},
		{name: "config", err: &service.Error{Kind: service.KindConfig}, want: http.StatusServiceUnavailable},
		{name: "network", err: &service.Error{Kind: service.KindNetwork}, want: http.StatusBadGateway},
		{name: "invalid", err: &service.Error{Kind: service.KindInvalid}, want: http.StatusBadRequest},
		{name: "wrapped service error", err: fmt.Errorf("ctx: %w", &service.Error{Kind: service.KindAuth}), want: http.StatusForbidden},
		{name: "bad json", err: fmt.Errorf("%w: eof", ErrInvalidJSON), want: http.StatusBadRequest},
		{name: "bad query param", err: ErrInvalidQueryParam, want: http.StatusBadRequest},
		{name: "missing resource", err: ErrResourceNotFound, want: http.StatusNotFound},
		{name: "invalid store query", err: store.ErrInvalidQuery, want: http.StatusBadRequest},
		{name: "unknown", err: errors.New("boom"), want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, statusFromError(tt.err))
		})
	}
}
