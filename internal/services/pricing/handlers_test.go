package pricing

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newTestMux(t *testing.T) (http.Handler, *StatsStore) {
	t.Helper()
	stats, _ := newTestStats(t)
	exp := newTestExperiment(t, 1)
	handlers := NewHandlers(exp, stats)
	mux := http.NewServeMux()
	handlers.RegisterPublic(mux)
	mux.HandleFunc("GET "+PathStats, handlers.ServeStats)
	return exp.Middleware(nil)(mux), stats
}

func TestPriceEndpointAssigns(t *testing.T) {
	handler, _ := newTestMux(t)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, PathPrice, nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var body priceResponse
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Price != "14.99" {
		t.Fatalf("price = %q", body.Price)
	}
	if len(rec.Result().Cookies()) != 1 {
		t.Fatal("expected assignment cookie")
	}
}

func TestClickUsesCookiePrice(t *testing.T) {
	handler, stats := newTestMux(t)

	req := httptest.NewRequest(http.MethodPost, PathClick, nil)
	req.AddCookie(&http.Cookie{Name: DefaultCookieName, Value: "19.99"})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body=%s", rec.Code, rec.Body.String())
	}
	var body eventResponse
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Price != "19.99" || body.Clicks != 1 {
		t.Fatalf("response = %+v", body)
	}

	snapshot, err := stats.Snapshot(req.Context())
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if snapshot["19.99"].Clicks != 1 {
		t.Fatalf("snapshot = %+v", snapshot)
	}
}

func TestConversionFallsBackToBody(t *testing.T) {
	handler, _ := newTestMux(t)

	req := httptest.NewRequest(http.MethodPost, PathConversion, strings.NewReader(`{"price":"9.99"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body=%s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"conversions":1`) || !strings.Contains(rec.Body.String(), `"price":"9.99"`) {
		t.Fatalf("body = %s", rec.Body.String())
	}
}

func TestClickRejectsUnknownBodyPrice(t *testing.T) {
	handler, _ := newTestMux(t)

	req := httptest.NewRequest(http.MethodPost, PathClick, strings.NewReader(`{"price":"0.50"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "PRICE_UNKNOWN") {
		t.Fatalf("body = %s", rec.Body.String())
	}
}

func TestStatsEndpointReportsAllPrices(t *testing.T) {
	handler, _ := newTestMux(t)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, PathStats, nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var body struct {
		Stats  Stats  `json:"stats"`
		Report Report `json:"report"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Stats) != 3 || len(body.Report.Rows) != 3 {
		t.Fatalf("body = %+v", body)
	}
}

func TestTrackingRejectsGet(t *testing.T) {
	handler, _ := newTestMux(t)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, PathClick, nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestEventWithoutPriceIsRejected(t *testing.T) {
	handler, stats := newTestMux(t)

	for _, path := range []string{PathClick, PathConversion, PathClick, PathConversion, PathClick} {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, path, nil))
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("%s status = %d body=%s", path, rec.Code, rec.Body.String())
		}
		if !strings.Contains(rec.Body.String(), "PRICE_UNKNOWN") {
			t.Fatalf("%s body = %s", path, rec.Body.String())
		}
	}

	snapshot, err := stats.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	for price, stat := range snapshot {
		if stat.Clicks != 0 || stat.Conversions != 0 {
			t.Fatalf("%s counted = %+v", price, stat)
		}
	}
}
