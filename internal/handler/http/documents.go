package http

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MKhiriev/go-bank-sync/internal/utils"
	"github.com/MKhiriev/go-bank-sync/models"
)

const (
	paramCollection = "collection"
	paramID         = "id"
)

func (h *Handler) listDocuments(w http.ResponseWriter, r *http.Request) {
	collection := chi.URLParam(r, paramCollection)

	constraints, err := parseConstraints(r.URL.Query())
	if err != nil {
		h.writeError(w, r, "Handler.listDocuments", err)
		return
	}

	docs := h.services.DocumentService.List(r.Context(), collection, constraints...)
	_, _ = utils.WriteJSON(w, docs, http.StatusOK)
}

func (h *Handler) createDocument(w http.ResponseWriter, r *http.Request) {
	collection := chi.URLParam(r, paramCollection)

	fields, err := decodeFields(r)
	if err != nil {
		h.writeError(w, r, "Handler.createDocument", err)
		return
	}

	doc, err := h.services.DocumentService.Create(r.Context(), collection, fields)
	if err != nil {
		h.writeError(w, r, "Handler.createDocument", err)
		return
	}

	w.Header().Set("Location", "/api/collections/"+collection+"/"+doc.ID)
	_, _ = utils.WriteJSON(w, doc, http.StatusCreated)
}

func (h *Handler) getDocument(w http.ResponseWriter, r *http.Request) {
	collection, id := chi.URLParam(r, paramCollection), chi.URLParam(r, paramID)

	doc, err := h.services.DocumentService.Read(r.Context(), collection, id)
	if err != nil {
		h.writeError(w, r, "Handler.getDocument", err)
		return
	}
	if doc == nil {
		h.writeError(w, r, "Handler.getDocument", fmt.Errorf("%w: %s/%s", ErrResourceNotFound, collection, id))
		return
	}

	_, _ = utils.WriteJSON(w, doc, http.StatusOK)
}

// putDocument creates or overwrites the document under a caller chosen id.
func (h *Handler) putDocument(w http.ResponseWriter, r *http.Request) {
	collection, id := chi.URLParam(r, paramCollection), chi.URLParam(r, paramID)

	fields, err := decodeFields(r)
	if err != nil {
		h.writeError(w, r, "Handler.putDocument", err)
		return
	}

	doc, err := h.services.DocumentService.CreateWithID(r.Context(), collection, id, fields)
	if err != nil {
		h.writeError(w, r, "Handler.putDocument", err)
		return
	}

	_, _ = utils.WriteJSON(w, doc, http.StatusOK)
}

func (h *Handler) patchDocument(w http.ResponseWriter, r *http.Request) {
	collection, id := chi.URLParam(r, paramCollection), chi.URLParam(r, paramID)

	fields, err := decodeFields(r)
	if err != nil {
		h.writeError(w, r, "Handler.patchDocument", err)
		return
	}

	if err := h.services.DocumentService.Update(r.Context(), collection, id, fields); err != nil {
		h.writeError(w, r, "Handler.patchDocument", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) deleteDocument(w http.ResponseWriter, r *http.Request) {
	collection, id := chi.URLParam(r, paramCollection), chi.URLParam(r, paramID)

	if err := h.services.DocumentService.Delete(r.Context(), collection, id); err != nil {
		h.writeError(w, r, "Handler.deleteDocument", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) batch(w http.ResponseWriter, r *http.Request) {
	var request models.BatchRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		h.writeError(w, r, "Handler.batch", fmt.Errorf("%w: %w", ErrInvalidJSON, err))
		return
	}

	writes, err := h.services.DocumentService.Batch(r.Context(), request.Writes...)
	if err != nil {
		h.writeError(w, r, "Handler.batch", err)
		return
	}

	_, _ = utils.WriteJSON(w, models.BatchResponse{Writes: writes, Length: len(writes)}, http.StatusOK)
}

func decodeFields(r *http.Request) (models.Fields, error) {
	var fields models.Fields
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidJSON, err)
	}
	if fields == nil {
		fields = models.Fields{}
	}
	return fields, nil
}
