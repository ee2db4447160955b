package handlers_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/ammerola/reorder-dashboard/internal/core/domain"
	"github.com/ammerola/reorder-dashboard/internal/handlers"
	"github.com/ammerola/reorder-dashboard/test/helpers"
)

func TestSyncHandler_Trigger(t *testing.T) {
	gateway := newGateway(t)
	dashboard := loadedDashboard(t, gateway)
	h := handlers.NewSyncHandler(dashboard, helpers.TestLogger())

	release := make(chan struct{})
	gateway.EXPECT().SyncOrders(gomock.Any()).DoAndReturn(func(ctx context.Context) (*domain.OrderSyncResult, error) {
		<-release
		return &domain.OrderSyncResult{}, nil
	})

	trigger := func(kind string) *httptest.ResponseRecorder {
		return serve("POST /api/v1/sync/{kind}", h.Trigger,
			httptest.NewRequest(http.MethodPost, "/api/v1/sync/"+kind, nil))
	}

	rec := trigger("orders")
	require.Equal(t, http.StatusAccepted, rec.Code)
	var accepted map[string]string
	decodeJSON(t, rec.Body, &accepted)
	assert.Equal(t, "orders", accepted["kind"])
	assert.Equal(t, domain.SyncOrders.BusyMessage(), accepted["message"])

	rec = trigger("orders")
	assert.Equal(t, http.StatusConflict, rec.Code, "a second trigger while busy is dropped")

	rec = httptest.NewRecorder()
	h.GetStatus(rec, httptest.NewRequest(http.MethodGet, "/api/v1/sync", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var status handlers.SyncStatusResponse
	decodeJSON(t, rec.Body, &status)
	busy := map[domain.SyncKind]bool{}
	for _, op := range status.Operations {
		busy[op.Kind] = op.Busy
	}
	assert.Equal(t, map[domain.SyncKind]bool{
		domain.SyncInventory: false,
		domain.SyncOrders:    true,
		domain.SyncReorder:   false,
	}, busy)

	close(release)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, dashboard.WaitForSyncs(ctx))

	rec = trigger("backfill")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, `unknown sync kind "backfill"`, errorMessage(t, rec))
}
