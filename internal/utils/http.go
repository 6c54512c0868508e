// Package utils provides general-purpose helpers shared by the transport
// layer.
package utils

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
)

// WriteJSON serializes data and writes it with the given status code and a
// "Content-Type: application/json" header.
//
// The body is encoded before anything is written, so an encoding failure
// still produces a clean 500 response. HTML characters are not escaped:
// document fields travel unchanged. It returns the number of body bytes
// written.
//
//	WriteJSON(w, docs, http.StatusOK)
//	WriteJSON(w, models.ErrorResponse{Error: "not found"}, http.StatusNotFound)
func WriteJSON(w http.ResponseWriter, data any, statusCode int) (int, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)

	if err := enc.Encode(data); err != nil {
		http.Error(w, "error writing data to JSON", http.StatusInternalServerError)
		return 0, fmt.Errorf("error writing data to JSON: %w", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	// drop the newline added by Encode
	return w.Write(bytes.TrimSuffix(buf.Bytes(), []byte("\n")))
}
