package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/ammerola/reorder-dashboard/internal/core/domain"
	"github.com/ammerola/reorder-dashboard/internal/core/services"
	"github.com/ammerola/reorder-dashboard/test/helpers"
	"github.com/ammerola/reorder-dashboard/test/mocks"
)

// loadedDashboard returns a dashboard holding the sample dataset for WH3
func loadedDashboard(t *testing.T, gateway *mocks.MockReorderGateway) *services.DashboardService {
	t.Helper()
	gateway.EXPECT().FetchDataset(gomock.Any(), "WH3").Return(helpers.SampleRecords(), nil)

	svc := services.NewDashboardService(gateway, nil, nil, services.DashboardConfig{
		Warehouses:       domain.DefaultWarehouses(),
		DefaultWarehouse: "WH3",
	}, helpers.TestLogger())
	require.NoError(t, svc.Reload(context.Background()))
	return svc
}

func newGateway(t *testing.T) *mocks.MockReorderGateway {
	return mocks.NewMockReorderGateway(gomock.NewController(t))
}

func decodeJSON(t *testing.T, body io.Reader, dest interface{}) {
	t.Helper()
	require.NoError(t, json.NewDecoder(body).Decode(dest))
}

func errorMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	decodeJSON(t, rec.Body, &body)
	return body["error"]
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

// multipartRequest builds a request with an optional "file" part
func multipartRequest(t *testing.T, target, filename string, content []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	if filename != "" {
		part, err := writer.CreateFormFile("file", filename)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	} else {
		require.NoError(t, writer.WriteField("note", "no file"))
	}
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, target, &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

// serve routes req through a mux so PathValue is populated
func serve(pattern string, handler http.HandlerFunc, req *http.Request) *httptest.ResponseRecorder {
	mux := http.NewServeMux()
	mux.HandleFunc(pattern, handler)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

var errUnreachable = &domain.NetworkError{Op: "fetch", Err: errors.New("connection refused")}
