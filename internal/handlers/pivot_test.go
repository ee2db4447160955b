package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/ammerola/reorder-dashboard/internal/adapters/spreadsheet"
	"github.com/ammerola/reorder-dashboard/internal/core/domain"
	"github.com/ammerola/reorder-dashboard/internal/core/services"
	"github.com/ammerola/reorder-dashboard/internal/handlers"
	"github.com/ammerola/reorder-dashboard/test/helpers"
)

func TestPivotHandler(t *testing.T) {
	gateway := newGateway(t)
	workbook := spreadsheet.NewWorkbook(helpers.TestLogger())
	pivots := services.NewPivotService(gateway, nil, nil, 0, helpers.TestLogger())
	h := handlers.NewPivotHandler(pivots, workbook, 1<<20, helpers.TestLogger())

	t.Run("latest_before_build", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.GetLatest(rec, httptest.NewRequest(http.MethodGet, "/api/v1/pivot", nil))
		assert.Equal(t, http.StatusNotFound, rec.Code)

		rec = httptest.NewRecorder()
		h.Export(rec, httptest.NewRequest(http.MethodGet, "/api/v1/pivot/export", nil))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("build_requires_file", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.Build(rec, multipartRequest(t, "/api/v1/pivot/sku-date", "", nil))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Please select a file to upload", errorMessage(t, rec))
	})

	t.Run("build_then_export", func(t *testing.T) {
		gateway.EXPECT().PivotSKUDate(gomock.Any(), "sales.xlsx", gomock.Any()).Return(&domain.PivotResult{
			Dates: []string{"2026-10-01", "null", "2026-10-02"},
			Data: []domain.PivotRow{
				{SKUCode: "1001003", Counts: map[string]int{"2026-10-01": 3, "2026-10-02": 1}, Total: 4, Average: 2},
			},
		}, nil)

		rec := httptest.NewRecorder()
		h.Build(rec, multipartRequest(t, "/api/v1/pivot/sku-date", "sales.xlsx", []byte("PK")))
		require.Equal(t, http.StatusOK, rec.Code)

		var built domain.PivotResult
		decodeJSON(t, rec.Body, &built)
		assert.Equal(t, []string{"2026-10-01", "2026-10-02"}, built.Dates)

		rec = httptest.NewRecorder()
		h.GetLatest(rec, httptest.NewRequest(http.MethodGet, "/api/v1/pivot", nil))
		require.Equal(t, http.StatusOK, rec.Code)

		rec = httptest.NewRecorder()
		h.Export(rec, httptest.NewRequest(http.MethodGet, "/api/v1/pivot/export", nil))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, `attachment; filename="SKU_Pivot.xlsx"`, rec.Header().Get("Content-Disposition"))

		rows, err := workbook.ReadRows(rec.Body.Bytes())
		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, []string{"SKU Code", "2026-10-01", "2026-10-02", "Grand Total", "Average"}, rows[0])
		assert.Equal(t, "1001003", rows[1][0])
		assert.Equal(t, "2.00", rows[1][4])
	})
}
