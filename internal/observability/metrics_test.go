package observability

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
)

func scrape(t *testing.T, m *Metrics) string {
	t.Helper()
	rr := httptest.NewRecorder()
	m.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", rr.Code)
	}
	return rr.Body.String()
}

func TestMetricsHandlerExposesReloadMetrics(t *testing.T) {
	metrics := NewMetrics()
	metrics.ObserveReload(150*time.Millisecond, []string{"estoques"}, 3)

	body := scrape(t, metrics)
	if !strings.Contains(body, "inventory_stock_alerts 3") {
		t.Fatalf("expected alert gauge, got: %s", body)
	}
	if !strings.Contains(body, `inventory_reload_failures_total{collection="estoques"} 1`) {
		t.Fatalf("expected failure counter, got: %s", body)
	}
	if !strings.Contains(body, "inventory_reload_duration_seconds_count 1") {
		t.Fatalf("expected reload histogram, got: %s", body)
	}
}

func TestObserveAPICallLabelsOutcome(t *testing.T) {
	metrics := NewMetrics()
	metrics.ObserveAPICall("produto", http.MethodPost, nil, time.Millisecond)
	metrics.ObserveAPICall("produto", http.MethodPost, errors.New("boom"), time.Millisecond)

	body := scrape(t, metrics)
	if !strings.Contains(body, `inventory_api_requests_total{method="POST",outcome="ok",resource="produto"} 1`) {
		t.Fatalf("expected ok counter, got: %s", body)
	}
	if !strings.Contains(body, `inventory_api_requests_total{method="POST",outcome="error",resource="produto"} 1`) {
		t.Fatalf("expected error counter, got: %s", body)
	}
}

func TestMetricsMiddlewareRecordsRequest(t *testing.T) {
	metrics := NewMetrics()

	handler := metrics.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	routeCtx := chi.NewRouteContext()
	routeCtx.RoutePatterns = append(routeCtx.RoutePatterns, "/produtos")

	req := httptest.NewRequest(http.MethodGet, "/produtos", nil)
	ctx := context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx)
	req = req.WithContext(ctx)

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusTeapot {
		t.Fatalf("expected status %d, got %d", http.StatusTeapot, rr.Code)
	}

	body := scrape(t, metrics)
	if !strings.Contains(body, "console_http_requests_total{code=\"418\",route=\"/produtos\"} 1") {
		t.Fatalf("expected metrics to record request, got: %s", body)
	}
	if !strings.Contains(body, "console_http_request_duration_seconds_bucket{route=\"/produtos\"") {
		t.Fatalf("expected duration histogram to be present, got: %s", body)
	}
}

func TestNilMetricsAreSafe(t *testing.T) {
	var metrics *Metrics
	metrics.ObserveReload(time.Second, nil, 1)
	metrics.ObserveAPICall("produto", http.MethodGet, nil, time.Second)

	rr := httptest.NewRecorder()
	metrics.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 from nil metrics, got %d", rr.Code)
	}
}
