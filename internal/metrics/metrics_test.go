package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEndpoint(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/", "/"},
		{"/api/v1/realty/contacts", "/api/v1/realty/contacts"},
		{"/api/v1/realty/contacts/42", "/api/v1/realty/contacts/:id"},
		{"/api/v1/realty/properties/7/images", "/api/v1/realty/properties/:id/images"},
		{"/api/v1/realty/properties/abc/images", "/api/v1/realty/properties/abc/images"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Endpoint(tt.path), tt.path)
	}
}

func scrape(t *testing.T) string {
	t.Helper()
	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	return string(body)
}

func TestPrometheusMiddlewareCountsRequests(t *testing.T) {
	h := PrometheusMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("short and stout"))
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/tea/9", nil))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/tea/10", nil))

	assert.Contains(t, scrape(t), `http_requests_total{endpoint="/tea/:id",method="GET",status_code="418"} 2`)
}

func TestHandlerExposesBusinessCollectors(t *testing.T) {
	RecordListingChange("image", "import")

	assert.Contains(t, scrape(t), `listing_changes_total{action="import",entity="image"} 1`)
}
