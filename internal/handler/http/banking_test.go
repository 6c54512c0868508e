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

func TestGetUserProfile(t *testing.T) {
	tests := []struct {
		name       string
		user       *models.User
		err        error
		wantStatus int
	}{
		{name: "found", user: &models.User{ID: "demo-user", Email: "demo@bank.test", Role: models.RoleCustomer}, wantStatus: http.StatusOK},
		{name: "absent", wantStatus: http.StatusNotFound},
		{name: "denied", err: &service.Error{Kind: service.KindAuth, Message: "denied"}, wantStatus: http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, m := newTestRouter(t)
			m.banking.EXPECT().UserProfile(gomock.Any(), "demo-user").Return(tt.user, tt.err)

			rr := doRequest(t, router, http.MethodGet, "/api/users/demo-user", "")

			require.Equal(t, tt.wantStatus, rr.Code)
			if tt.user != nil {
				var got models.User
				require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
				assert.Equal(t, tt.user.Email, got.Email)
			}
		})
	}
}

func TestUpdateUserProfile(t *testing.T) {
	router, m := newTestRouter(t)
	m.banking.EXPECT().
		UpdateUserProfile(gomock.Any(), "demo-user", models.Fields{"phone": "+1-555-0100"}).
		Return(nil)

	rr := doRequest(t, router, http.MethodPatch, "/api/users/demo-user", `{"phone":"+1-555-0100"}`)

	assert.Equal(t, http.StatusNoContent, rr.Code)
}

func TestGetUserAccountsAndTransactions(t *testing.T) {
	router, m := newTestRouter(t)

	m.banking.EXPECT().Accounts(gomock.Any(), "demo-user").
		Return([]models.Account{{ID: "demo-checking", Balance: 1200}}, nil)
	m.banking.EXPECT().Transactions(gomock.Any(), "demo-user").
		Return(nil, nil)

	rr := doRequest(t, router, http.MethodGet, "/api/users/demo-user/accounts", "")
	require.Equal(t, http.StatusOK, rr.Code)
	var accounts []models.Account
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &accounts))
	require.Len(t, accounts, 1)
	assert.Equal(t, "demo-checking", accounts[0].ID)

	rr = doRequest(t, router, http.MethodGet, "/api/users/demo-user/transactions", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `[]`, rr.Body.String())
}

func TestGetUserAccounts_NetworkError(t *testing.T) {
	router, m := newTestRouter(t)
	m.banking.EXPECT().Accounts(gomock.Any(), "demo-user").
		Return(nil, &service.Error{Kind: service.KindNetwork, Message: "unavailable"})

	rr := doRequest(t, router, http.MethodGet, "/api/users/demo-user/accounts", "")

	assert.Equal(t, http.StatusBadGateway, rr.Code)
}

func TestAdminEndpoints(t *testing.T) {
	router, m := newTestRouter(t)

	m.banking.EXPECT().Users(gomock.Any()).Return([]models.User{{ID: "demo-admin", Role: models.RoleAdmin}})
	m.banking.EXPECT().AllTransactions(gomock.Any(), 0).Return(nil)
	m.banking.EXPECT().AllTransactions(gomock.Any(), 5).
		Return([]models.Transaction{{ID: "tx-1003", Date: time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)}})

	rr := doRequest(t, router, http.MethodGet, "/api/admin/users", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"demo-admin"`)

	rr = doRequest(t, router, http.MethodGet, "/api/admin/transactions", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `[]`, rr.Body.String())

	rr = doRequest(t, router, http.MethodGet, "/api/admin/transactions?limit=5", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"tx-1003"`)

	rr = doRequest(t, router, http.MethodGet, "/api/admin/transactions?limit=abc", "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestSettingsEndpoints(t *testing.T) {
	router, m := newTestRouter(t)

	m.banking.EXPECT().SystemSettings(gomock.Any()).
		Return(models.SystemSettings{DefaultCurrency: "USD", TransactionsPageLimit: 25})
	m.banking.EXPECT().UpdateSystemSettings(gomock.Any(), models.Fields{"maintenanceMode": true}).
		Return(&service.Error{Kind: service.KindConfig, Message: "not configured"})

	rr := doRequest(t, router, http.MethodGet, "/api/settings", "")
	require.Equal(t, http.StatusOK, rr.Code)
	var settings models.SystemSettings
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &settings))
	assert.Equal(t, 25, settings.TransactionsPageLimit)

	rr = doRequest(t, router, http.MethodPatch, "/api/settings", `{"maintenanceMode":true}`)
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
}
