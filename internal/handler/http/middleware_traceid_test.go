package http

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-bank-sync/internal/logger"
)

func TestWithTraceID(t *testing.T) {
	tests := []struct {
		name          string
		header        string
		wantSame      bool
		wantGenerated bool
	}{
		{name: "incoming trace id is reused", header: "trace-42", wantSame: true},
		{name: "missing trace id is generated", wantGenerated: true},
		{name: "oversized trace id is replaced", header: strings.Repeat("x", maxTraceIDLength+1), wantGenerated: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := &Handler{logger: logger.Nop()}
			var ctxLogger *logger.Logger

			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				ctxLogger = logger.FromRequest(r)
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/api/version", nil)
			if tt.header != "" {
				req.Header.Set(traceIDHeader, tt.header)
			}
			rr := httptest.NewRecorder()
			h.withTraceID(next).ServeHTTP(rr, req)

			got := rr.Header().Get(traceIDHeader)
			require.NotEmpty(t, got)
			require.NotNil(t, ctxLogger)

			if tt.wantSame {
				assert.Equal(t, tt.header, got)
			}
			if tt.wantGenerated {
				_, err := uuid.Parse(got)
				assert.NoError(t, err)
			}
		})
	}
}

func TestWithTraceID_UniqueIDs(t *testing.T) {
	h := &Handler{logger: logger.Nop()}
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})
	seen := make(map[string]struct{})

	for range 50 {
		rr := httptest.NewRecorder()
		h.withTraceID(next).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

		id := rr.Header().Get(traceIDHeader)
		_, duplicate := seen[id]
		require.False(t, duplicate, "duplicate trace id %s", id)
		seen[id] = struct{}{}
	}
}
