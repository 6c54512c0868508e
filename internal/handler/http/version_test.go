package http

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MKhiriev/go-bank-sync/models"
)

func TestGetServerVersion(t *testing.T) {
	router, m := newTestRouter(t)
	m.appInfo.EXPECT().GetAppInfo(gomock.Any()).Return(models.AppInfo{
		Version:     "1.4.0",
		Environment: "production",
		Driver:      "firestore",
		BuildCommit: "abc123",
	})

	rr := doRequest(t, router, http.MethodGet, "/api/version", "")

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"version":"1.4.0","environment":"production","driver":"firestore","build_commit":"abc123"}`, rr.Body.String())
}
