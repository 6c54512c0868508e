// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoutes_MethodNotAllowed(t *testing.T) {
	tests := []struct {
		name      string
		method    string
		path      string
		wantAllow string
	}{
		{name: "version is read only", method: http.MethodPost, path: "/api/version", wantAllow: "GET"},
		{name: "settings", method: http.MethodDelete, path: "/api/settings", wantAllow: "GET, PATCH"},
		{name: "collection", method: http.MethodDelete, path: "/api/collections/accounts", wantAllow: "GET, POST"},
		{name: "document", method: http.MethodPost, path: "/api/collections/accounts/acc-1", wantAllow: "GET, PUT, PATCH, DELETE"},
		{name: "batch", method: http.MethodGet, path: "/api/batch", wantAllow: "POST"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, _ := newTestRouter(t)

			rr := doRequest(t, router, tt.method, tt.path, "")

			assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
			assert.Equal(t, tt.wantAllow, rr.Header().Get("Allow"))
			assert.Contains(t, rr.Body.String(), `"error"`)
		})
	}
}

func TestRoutes_NotFound(t *testing.T) {
	router, _ := newTestRouter(t)

	rr := doRequest(t, router, http.MethodGet, "/api/unknown", "")

	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Contains(t, rr.Body.String(), "/api/unknown")
}
