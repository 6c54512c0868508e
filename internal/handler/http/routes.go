package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(h.withTraceID)
	router.Use(h.withLogging)
	router.Use(withGZip)

	// request/response routes
	router.Group(func(r chi.Router) {
		if h.requestTimeout > 0 {
			r.Use(middleware.Timeout(h.requestTimeout))
		}

		r.Get("/api/version", h.getServerVersion)

		r.Get("/api/users/{userID}", h.getUserProfile)
		r.Patch("/api/users/{userID}", h.updateUserProfile)
		r.Get("/api/users/{userID}/accounts", h.getUserAccounts)
		r.Get("/api/users/{userID}/transactions", h.getUserTransactions)

		r.Get("/api/admin/users", h.listUsers)
		r.Get("/api/admin/transactions", h.listAllTransactions)

		r.Get("/api/settings", h.getSettings)
		r.Patch("/api/settings", h.updateSettings)

		r.Get("/api/collections/{collection}", h.listDocuments)
		r.Post("/api/collections/{collection}", h.createDocument)
		r.Get("/api/collections/{collection}/{id}", h.getDocument)
		r.Put("/api/collections/{collection}/{id}", h.putDocument)
		r.Patch("/api/collections/{collection}/{id}", h.patchDocument)
		r.Delete("/api/collections/{collection}/{id}", h.deleteDocument)

		r.Post("/api/batch", h.batch)
	})

	// event streams live as long as the client stays connected
	router.Group(func(r chi.Router) {
		r.Get("/api/collections/{collection}/watch", h.watchCollection)
		r.Get("/api/collections/{collection}/{id}/watch", h.watchDocument)
	})

	router.MethodNotAllowed(CheckHTTPMethod(router))
	router.NotFound(h.notFound)

	return router
}
