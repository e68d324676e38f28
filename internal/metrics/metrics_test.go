package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordHTTPRequest(t *testing.T) {
	before := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("GET", "/test-record", "200"))
	RecordHTTPRequest("GET", "/test-record", 200, 15*time.Millisecond)
	after := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("GET", "/test-record", "200"))
	if after-before != 1 {
		t.Fatalf("counter moved by %v, want 1", after-before)
	}
}

func TestRecordMutation(t *testing.T) {
	c := ListingMutations.WithLabelValues("venue", "delete", "not_found")
	before := testutil.ToFloat64(c)
	RecordMutation("venue", "delete", "not_found")
	if got := testutil.ToFloat64(c) - before; got != 1 {
		t.Fatalf("counter moved by %v, want 1", got)
	}
}

func TestMiddlewareUsesRoutePattern(t *testing.T) {
	e := echo.New()
	e.Use(Middleware())
	e.GET("/mw-venues/:id", func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusNotFound)
	})

	c := HTTPRequestsTotal.WithLabelValues(http.MethodGet, "/mw-venues/:id", "404")
	before := testutil.ToFloat64(c)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/mw-venues/7", nil))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if got := testutil.ToFloat64(c) - before; got != 1 {
		t.Fatalf("counter moved by %v, want 1", got)
	}
}
