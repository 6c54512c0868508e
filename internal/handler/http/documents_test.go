package http

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MKhiriev/go-bank-sync/internal/service"
	"github.com/MKhiriev/go-bank-sync/models"
)

func TestListDocuments(t *testing.T) {
	router, m := newTestRouter(t)

	m.documents.EXPECT().
		List(gomock.Any(), "transactions",
			models.Where("userId", models.OpEqual, "demo-user"),
			models.OrderBy("date", models.Desc),
			models.Limit(2),
		).
		Return([]models.Document{{ID: "tx-1", Fields: models.Fields{"amount": 10.0}}})

	rr := doRequest(t, router, http.MethodGet,
		"/api/collections/transactions?where=userId,==,demo-user&orderBy=date,desc&limit=2", "")

	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `[{"id":"tx-1","amount":10}]`, rr.Body.String())
}

func TestListDocuments_EmptyIsArray(t *testing.T) {
	router, m := newTestRouter(t)
	m.documents.EXPECT().List(gomock.Any(), "accounts").Return([]models.Document{})

	rr := doRequest(t, router, http.MethodGet, "/api/collections/accounts", "")

	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `[]`, rr.Body.String())
}

func TestListDocuments_BadQuery(t *testing.T) {
	router, _ := newTestRouter(t)

	rr := doRequest(t, router, http.MethodGet, "/api/collections/accounts?limit=-3", "")

	require.Equal(t, http.StatusBadRequest, rr.Code)
	var body models.ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Contains(t, body.Error, "limit")
}

func TestCreateDocument(t *testing.T) {
	created := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		body       string
		setup      func(m *testMocks)
		wantStatus int
		wantKind   string
	}{
		{
			name: "created",
			body: `{"name":"Travel","balance":0}`,
			setup: func(m *testMocks) {
				m.documents.EXPECT().
					Create(gomock.Any(), "accounts", models.Fields{"name": "Travel", "balance": 0.0}).
					Return(models.Document{ID: "acc-9", Fields: models.Fields{"name": "Travel", "createdAt": created}}, nil)
			},
			wantStatus: http.StatusCreated,
		},
		{
			name:       "invalid json",
			body:       `{"name":`,
			setup:      func(m *testMocks) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "store denied",
			body: `{"name":"Travel"}`,
			setup: func(m *testMocks) {
				m.documents.EXPECT().
					Create(gomock.Any(), "accounts", gomock.Any()).
					Return(models.Document{}, &service.Error{Kind: service.KindAuth, Op: "create", Message: "denied"})
			},
			wantStatus: http.StatusForbidden,
			wantKind:   string(service.KindAuth),
		},
		{
			name: "store unreachable",
			body: `{"name":"Travel"}`,
			setup: func(m *testMocks) {
				m.documents.EXPECT().
					Create(gomock.Any(), "accounts", gomock.Any()).
					Return(models.Document{}, &service.Error{Kind: service.KindNetwork, Op: "create", Message: "unavailable"})
			},
			wantStatus: http.StatusBadGateway,
			wantKind:   string(service.KindNetwork),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, m := newTestRouter(t)
			tt.setup(m)

			rr := doRequest(t, router, http.MethodPost, "/api/collections/accounts", tt.body)
			require.Equal(t, tt.wantStatus, rr.Code)

			if tt.wantStatus == http.StatusCreated {
				assert.Equal(t, "/api/collections/accounts/acc-9", rr.Header().Get("Location"))
				var doc models.Document
				require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &doc))
				assert.Equal(t, "acc-9", doc.ID)
				return
			}

			var body models.ErrorResponse
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
			assert.NotEmpty(t, body.Error)
			assert.Equal(t, tt.wantKind, body.Kind)
		})
	}
}

func TestGetDocument(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		router, m := newTestRouter(t)
		m.documents.EXPECT().Read(gomock.Any(), "users", "demo-user").
			Return(&models.Document{ID: "demo-user", Fields: models.Fields{"email": "demo@bank.test"}}, nil)

		rr := doRequest(t, router, http.MethodGet, "/api/collections/users/demo-user", "")

		require.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `{"id":"demo-user","email":"demo@bank.test"}`, rr.Body.String())
	})

	t.Run("absent", func(t *testing.T) {
		router, m := newTestRouter(t)
		m.documents.EXPECT().Read(gomock.Any(), "users", "ghost").Return(nil, nil)

		rr := doRequest(t, router, http.MethodGet, "/api/collections/users/ghost", "")

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("unconfigured store", func(t *testing.T) {
		router, m := newTestRouter(t)
		m.documents.EXPECT().Read(gomock.Any(), "users", "demo-user").
			Return(nil, &service.Error{Kind: service.KindConfig, Op: "read", Message: "not configured"})

		rr := doRequest(t, router, http.MethodGet, "/api/collections/users/demo-user", "")

		assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	})
}

func TestPutPatchDeleteDocument(t *testing.T) {
	router, m := newTestRouter(t)

	gomock.InOrder(
		m.documents.EXPECT().
			CreateWithID(gomock.Any(), "settings", "system", models.Fields{"maintenanceMode": true}).
			Return(models.Document{ID: "system", Fields: models.Fields{"maintenanceMode": true}}, nil),
		m.documents.EXPECT().
			Update(gomock.Any(), "settings", "system", models.Fields{"maintenanceMode": false}).
			Return(nil),
		m.documents.EXPECT().
			Delete(gomock.Any(), "settings", "system").
			Return(nil),
	)

	rr := doRequest(t, router, http.MethodPut, "/api/collections/settings/system", `{"maintenanceMode":true}`)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"id":"system","maintenanceMode":true}`, rr.Body.String())

	rr = doRequest(t, router, http.MethodPatch, "/api/collections/settings/system", `{"maintenanceMode":false}`)
	require.Equal(t, http.StatusNoContent, rr.Code)

	rr = doRequest(t, router, http.MethodDelete, "/api/collections/settings/system", "")
	require.Equal(t, http.StatusNoContent, rr.Code)
}

func TestPatchDocument_Missing(t *testing.T) {
	router, m := newTestRouter(t)
	m.documents.EXPECT().Update(gomock.Any(), "accounts", "nope", gomock.Any()).
		Return(&service.Error{Kind: service.KindNotFound, Op: "update", Message: "no such document"})

	rr := doRequest(t, router, http.MethodPatch, "/api/collections/accounts/nope", `{"balance":1}`)

	require.Equal(t, http.StatusNotFound, rr.Code)
	assert.Contains(t, rr.Body.String(), `"kind":"not_found"`)
}

func TestBatch(t *testing.T) {
	router, m := newTestRouter(t)

	m.documents.EXPECT().
		Batch(gomock.Any(),
			models.UpdateWrite("accounts", "demo-checking", models.Fields{"balance": 900.0}),
			models.SetWrite("transactions", "", models.Fields{"amount": 100.0}),
		).
		Return([]models.Write{
			models.UpdateWrite("accounts", "demo-checking", models.Fields{"balance": 900.0}),
			models.SetWrite("transactions", "generated", models.Fields{"amount": 100.0}),
		}, nil)

	rr := doRequest(t, router, http.MethodPost, "/api/batch", `{"writes":[
		{"kind":"update","collection":"accounts","id":"demo-checking","fields":{"balance":900}},
		{"kind":"set","collection":"transactions","fields":{"amount":100}}
	]}`)

	require.Equal(t, http.StatusOK, rr.Code)
	var resp models.BatchResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Length)
	assert.Equal(t, "generated", resp.Writes[1].ID)
}

func TestBatch_Rejected(t *testing.T) {
	router, m := newTestRouter(t)
	m.documents.EXPECT().Batch(gomock.Any()).
		Return(nil, &service.Error{Kind: service.KindInvalid, Op: "batch", Message: "no writes"})

	rr := doRequest(t, router, http.MethodPost, "/api/batch", `{"writes":[]}`)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
