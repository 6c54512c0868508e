package http

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MKhiriev/go-bank-sync/internal/config"
	"github.com/MKhiriev/go-bank-sync/internal/logger"
	"github.com/MKhiriev/go-bank-sync/internal/mock"
	"github.com/MKhiriev/go-bank-sync/internal/service"
)

type testMocks struct {
	documents     *mock.MockDocumentService
	subscriptions *mock.MockSubscriptionService
	banking       *mock.MockBankingService
	appInfo       *mock.MockAppInfoService
}

func newTestRouter(t *testing.T) (http.Handler, *testMocks) {
	t.Helper()
	ctrl := gomock.NewController(t)

	m := &testMocks{
		documents:     mock.NewMockDocumentService(ctrl),
		subscriptions: mock.NewMockSubscriptionService(ctrl),
		banking:       mock.NewMockBankingService(ctrl),
		appInfo:       mock.NewMockAppInfoService(ctrl),
	}

	h := NewHandler(&service.Services{
		DocumentService:     m.documents,
		SubscriptionService: m.subscriptions,
		BankingService:      m.banking,
		AppInfoService:      m.appInfo,
	}, config.Server{RequestTimeout: 5 * time.Second}, logger.Nop())

	return h.Init(), m
}

func doRequest(t *testing.T, router http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	require.NotEmpty(t, rr.Header().Get(traceIDHeader), "trace id middleware must run")
	return rr
}
