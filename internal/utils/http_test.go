package utils

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteJSON(t *testing.T) {
	tests := []struct {
		name     string
		data     any
		status   int
		wantBody string
	}{
		{name: "object", data: map[string]string{"id": "acc-1"}, status: http.StatusOK, wantBody: `{"id":"acc-1"}`},
		{name: "custom status", data: map[string]string{"error": "not found"}, status: http.StatusNotFound, wantBody: `{"error":"not found"}`},
		{name: "nil", data: nil, status: http.StatusOK, wantBody: `null`},
		{name: "empty slice", data: []int{}, status: http.StatusOK, wantBody: `[]`},
		{name: "html is not escaped", data: map[string]string{"memo": "<rent & bills>"}, status: http.StatusCreated, wantBody: `{"memo":"<rent & bills>"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()

			n, err := WriteJSON(w, tt.data, tt.status)

			require.NoError(t, err)
			assert.Equal(t, len(tt.wantBody), n)
			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
			assert.Equal(t, tt.wantBody, w.Body.String())
		})
	}
}

func TestWriteJSON_Unencodable(t *testing.T) {
	w := httptest.NewRecorder()

	_, err := WriteJSON(w, make(chan int), http.StatusOK)

	assert.Error(t, err)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
