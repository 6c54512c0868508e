// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/MKhiriev/go-bank-sync/internal/utils"
	"github.com/MKhiriev/go-bank-sync/models"
)

// probedMethods are the methods checked when building the Allow header.
var probedMethods = []string{
	http.MethodGet,
	http.MethodPost,
	http.MethodPut,
	http.MethodPatch,
	http.MethodDelete,
}

// CheckHTTPMethod returns an [http.HandlerFunc] that is intended to be
// registered as the router's MethodNotAllowed handler via
// [chi.Mux.MethodNotAllowed].
//
// It answers with HTTP 405 and a JSON [models.ErrorResponse]. The Allow
// header lists every method the router would accept for the requested path;
// parameterised segments such as /api/collections/{collection}/{id} are
// resolved with [chi.Mux.Match], so the header is correct for concrete
// document paths too.
//
// Usage:
//
//	router := chi.NewRouter()
//	// ... register routes ...
//	router.MethodNotAllowed(CheckHTTPMethod(router))
func CheckHTTPMethod(router *chi.Mux) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		allowed := allowedMethods(router, r.URL.Path)
		if len(allowed) > 0 {
			w.Header().Set("Allow", strings.Join(allowed, ", "))
		}

		_, _ = utils.WriteJSON(w, models.ErrorResponse{
			Error: fmt.Sprintf("method %s is not allowed for %s", r.Method, r.URL.Path),
		}, http.StatusMethodNotAllowed)
	}
}

func allowedMethods(router *chi.Mux, path string) []string {
	var allowed []string
	for _, method := range probedMethods {
		if router.Match(chi.NewRouteContext(), method, path) {
			allowed = append(allowed, method)
		}
	}
	return allowed
}

func (h *Handler) notFound(w http.ResponseWriter, r *http.Request) {
	_, _ = utils.WriteJSON(w, models.ErrorResponse{
		Error: fmt.Sprintf("no route for %s %s", r.Method, r.URL.Path),
	}, http.StatusNotFound)
}
