package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/ammerola/reorder-dashboard/internal/core/domain"
	"github.com/ammerola/reorder-dashboard/internal/core/services"
	"github.com/ammerola/reorder-dashboard/internal/handlers"
	"github.com/ammerola/reorder-dashboard/test/helpers"
	"github.com/ammerola/reorder-dashboard/test/mocks"
)

func TestDashboardHandler_GetDashboard(t *testing.T) {
	h := handlers.NewDashboardHandler(loadedDashboard(t, newGateway(t)), helpers.TestLogger())

	rec := httptest.NewRecorder()
	h.GetDashboard(rec, httptest.NewRequest(http.MethodGet, "/api/v1/dashboard", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var snap services.Snapshot
	decodeJSON(t, rec.Body, &snap)
	assert.Equal(t, "WH3", snap.Warehouse.ID)
	assert.Len(t, snap.Cards, 4)
	assert.Equal(t, 4, snap.Table.TotalCount)
	assert.Len(t, snap.Warehouses, 2)
	assert.Len(t, snap.Sync, 3)
}

func TestDashboardHandler_UpdateFilters(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		expectedStatus int
		errorMsg       string
		validate       func(*testing.T, services.Snapshot)
	}{
		{
			name:           "critical_only_and_sort",
			body:           `{"critical_only": true, "sort_by": "number_of_days", "sort_order": "desc", "page_size": 20}`,
			expectedStatus: http.StatusOK,
			validate: func(t *testing.T, snap services.Snapshot) {
				assert.True(t, snap.CriticalOnly)
				assert.Equal(t, services.SortSpec{Field: services.SortNumberOfDays, Descending: true}, snap.Sort)
				assert.Equal(t, 20, snap.Table.PageSize)
				require.Len(t, snap.Cards, 2)
				assert.Equal(t, "1001057", snap.Table.Rows[0].SKUCode)
			},
		},
		{
			name:           "table_filters",
			body:           `{"po_required_only": true}`,
			expectedStatus: http.StatusOK,
			validate: func(t *testing.T, snap services.Snapshot) {
				assert.True(t, snap.Filters.PORequiredOnly)
				assert.Equal(t, 2, snap.Table.TotalCount)
				assert.Len(t, snap.Cards, 4, "table filters leave the cards alone")
			},
		},
		{
			name:           "sort_order_only_keeps_field",
			body:           `{"sort_order": "desc"}`,
			expectedStatus: http.StatusOK,
			validate: func(t *testing.T, snap services.Snapshot) {
				assert.Equal(t, services.SortSpec{Field: services.SortNone, Descending: true}, snap.Sort)
			},
		},
		{
			name:           "unknown_sort_field",
			body:           `{"sort_by": "price"}`,
			expectedStatus: http.StatusBadRequest,
			errorMsg:       `cannot sort by "price"`,
		},
		{
			name:           "unsupported_page_size",
			body:           `{"page_size": 7}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "malformed_body",
			body:           `{"search":`,
			expectedStatus: http.StatusBadRequest,
			errorMsg:       "Invalid request body",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := handlers.NewDashboardHandler(loadedDashboard(t, newGateway(t)), helpers.TestLogger())

			rec := httptest.NewRecorder()
			h.UpdateFilters(rec, jsonRequest(http.MethodPut, "/api/v1/dashboard/filters", tt.body))

			require.Equal(t, tt.expectedStatus, rec.Code)
			if tt.errorMsg != "" {
				assert.Equal(t, tt.errorMsg, errorMessage(t, rec))
			}
			if tt.validate != nil {
				var snap services.Snapshot
				decodeJSON(t, rec.Body, &snap)
				tt.validate(t, snap)
			}
		})
	}
}

func TestDashboardHandler_SelectWarehouse(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		setupMocks     func(*mocks.MockReorderGateway)
		expectedStatus int
		errorMsg       string
	}{
		{
			name: "switches_and_loads",
			body: `{"warehouse": "WH4"}`,
			setupMocks: func(m *mocks.MockReorderGateway) {
				m.EXPECT().FetchDataset(gomock.Any(), "WH4").Return(helpers.CreateTestRecords(3), nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "unknown_warehouse",
			body:           `{"warehouse": "WH7"}`,
			expectedStatus: http.StatusBadRequest,
			errorMsg:       `unknown warehouse "WH7"`,
		},
		{
			name: "service_unreachable",
			body: `{"warehouse": "WH4"}`,
			setupMocks: func(m *mocks.MockReorderGateway) {
				m.EXPECT().FetchDataset(gomock.Any(), "WH4").Return(nil, errUnreachable)
			},
			expectedStatus: http.StatusServiceUnavailable,
			errorMsg:       "Failed to load reorder data",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gateway := newGateway(t)
			dashboard := loadedDashboard(t, gateway)
			if tt.setupMocks != nil {
				tt.setupMocks(gateway)
			}

			h := handlers.NewDashboardHandler(dashboard, helpers.TestLogger())
			rec := httptest.NewRecorder()
			h.SelectWarehouse(rec, jsonRequest(http.MethodPut, "/api/v1/dashboard/warehouse", tt.body))

			require.Equal(t, tt.expectedStatus, rec.Code)
			if tt.errorMsg != "" {
				assert.Equal(t, tt.errorMsg, errorMessage(t, rec))
				return
			}

			var snap services.Snapshot
			decodeJSON(t, rec.Body, &snap)
			assert.Equal(t, "WH4", snap.Warehouse.ID)
			assert.Equal(t, "Pinjore Warehouse", snap.Warehouse.Label)
			assert.Equal(t, 3, snap.Table.TotalCount)
		})
	}
}

func TestDashboardHandler_ReloadAndNotifications(t *testing.T) {
	gateway := newGateway(t)
	dashboard := loadedDashboard(t, gateway)
	gateway.EXPECT().FetchDataset(gomock.Any(), "WH3").
		Return(nil, &domain.ServerError{Op: "fetch dataset", StatusCode: 500, Message: "Warehouse data unavailable"})

	h := handlers.NewDashboardHandler(dashboard, helpers.TestLogger())

	rec := httptest.NewRecorder()
	h.Reload(rec, httptest.NewRequest(http.MethodPost, "/api/v1/dashboard/reload", nil))
	require.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Equal(t, "Warehouse data unavailable", errorMessage(t, rec))

	rec = httptest.NewRecorder()
	h.ListNotifications(rec, httptest.NewRequest(http.MethodGet, "/api/v1/notifications", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Notifications []domain.Notification `json:"notifications"`
	}
	decodeJSON(t, rec.Body, &body)
	require.Len(t, body.Notifications, 1)
	assert.Equal(t, domain.NotifyError, body.Notifications[0].Severity)
	assert.Equal(t, "Warehouse data unavailable", body.Notifications[0].Detail)

	id := body.Notifications[0].ID
	rec = serve("DELETE /api/v1/notifications/{id}", h.DismissNotification,
		httptest.NewRequest(http.MethodDelete, "/api/v1/notifications/"+id, nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = serve("DELETE /api/v1/notifications/{id}", h.DismissNotification,
		httptest.NewRequest(http.MethodDelete, "/api/v1/notifications/"+id, nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
