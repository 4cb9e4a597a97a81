package dashboard

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	httperr "github.com/timely-lab/timely-admin/internal/core/errors"
	"github.com/timely-lab/timely-admin/internal/fetch"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	svc := newTestService(t, seedStore(t), fetch.Bounds{Default: 100, Max: 1000})
	r := gin.New()
	svc.RegisterRoutes(r)
	return r
}

func serve(r http.Handler, method, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func TestHandlers_BadRequests(t *testing.T) {
	tests := []struct {
		name     string
		target   string
		wantType string
	}{
		{name: "overview days", target: "/v1/overview?days=week", wantType: httperr.HttpInvalidQueryError},
		{name: "overview limit", target: "/v1/overview?limit=1.5", wantType: httperr.HttpInvalidQueryError},
		{name: "series collection", target: "/v1/series/tasks", wantType: httperr.HttpUnknownCollectionError},
		{name: "distribution field", target: "/v1/distribution/events", wantType: httperr.HttpInvalidQueryError},
		{name: "explore collection", target: "/v1/collections/secrets", wantType: httperr.HttpUnknownCollectionError},
		{name: "search limit", target: "/v1/users/search?q=ada&limit=all", wantType: httperr.HttpInvalidQueryError},
	}

	r := newTestRouter(t)
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			resp := serve(r, http.MethodGet, tc.target)

			require.Equal(t, http.StatusBadRequest, resp.Code)
			var body httperr.ErrorResponse
			require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
			require.Equal(t, tc.wantType, body.ErrorType)
		})
	}
}

func TestOverviewHandler(t *testing.T) {
	resp := serve(newTestRouter(t), http.MethodGet, "/v1/overview?days=2&limit=10")
	require.Equal(t, http.StatusOK, resp.Code)

	var body Overview
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	require.Equal(t, 10, body.Limit)
	require.Equal(t, 2, body.WindowDays)
	require.Len(t, body.Signups, 1)
	require.Equal(t, 2, body.Signups[0].Count)
	require.NotNil(t, body.Warnings)

	total, ok := body.KPIs.Get("total_users")
	require.True(t, ok)
	require.Equal(t, "4", total.String())
}

func TestOverviewHandler_ClampsParameters(t *testing.T) {
	resp := serve(newTestRouter(t), http.MethodGet, "/v1/overview?days=5000&limit=-3")
	require.Equal(t, http.StatusOK, resp.Code)

	var body Overview
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	require.Equal(t, 0, body.Limit)
	require.Equal(t, 90, body.WindowDays)
}

func TestSeriesAndDistributionHandlers(t *testing.T) {
	r := newTestRouter(t)

	resp := serve(r, http.MethodGet, "/v1/series/events?days=30")
	require.Equal(t, http.StatusOK, resp.Code)
	var series SeriesResult
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &series))
	require.Equal(t, "start", series.Field)
	require.Equal(t, 1, series.Total)

	resp = serve(r, http.MethodGet, "/v1/distribution/events?field=status")
	require.Equal(t, http.StatusOK, resp.Code)
	var dist DistributionResult
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &dist))
	require.Len(t, dist.Groups, 2)
}

func TestExploreAndSearchHandlers(t *testing.T) {
	r := newTestRouter(t)

	resp := serve(r, http.MethodGet, "/v1/collections/reports?limit=1")
	require.Equal(t, http.StatusOK, resp.Code)
	var page struct {
		Records []map[string]interface{} `json:"records"`
		Limit   int                      `json:"limit"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &page))
	require.Equal(t, 1, page.Limit)
	require.Len(t, page.Records, 1)
	require.Equal(t, "r1", page.Records[0]["id"])

	resp = serve(r, http.MethodGet, "/v1/users/search?q=ADA")
	require.Equal(t, http.StatusOK, resp.Code)
	var search struct {
		Matched int `json:"matched"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &search))
	require.Equal(t, 1, search.Matched)

	resp = serve(r, http.MethodGet, "/v1/collections")
	require.Equal(t, http.StatusOK, resp.Code)
	require.Contains(t, resp.Body.String(), `"timestamp_field":"start"`)
}

func TestRefreshHandler(t *testing.T) {
	resp := serve(newTestRouter(t), http.MethodPost, "/v1/refresh")
	require.Equal(t, http.StatusOK, resp.Code)
	require.JSONEq(t, `{"status":"refreshed"}`, resp.Body.String())
}
