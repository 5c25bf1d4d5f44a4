package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"equityorder/internal/equity/service"
	"equityorder/pkg/middleware"
)

type recordingService struct {
	mu     sync.Mutex
	prices []decimal.Decimal
	err    error
}

func (s *recordingService) Buy(_ string, _ int64, price decimal.Decimal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prices = append(s.prices, price)
	return s.err
}

func newTestRouter(svc service.OrderService) chi.Router {
	order := service.NewEquityOrder(svc, "CS", decimal.RequireFromString("10.00"), 5, nil)
	tracker := service.NewTracker()
	tracker.Watch(order)

	r := chi.NewRouter()
	NewEquityHandler(order, tracker, nil).Routes(r)
	return r
}

func postTick(t *testing.T, r http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/ticks", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func getOrder(t *testing.T, r http.Handler) OrderResponse {
	t.Helper()
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/order", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /api/order status = %d", rec.Code)
	}
	var resp OrderResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode order: %v", err)
	}
	return resp
}

func TestReceiveTickValidation(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantField string
	}{
		{"malformed json", `{"symbol":`, ""},
		{"missing symbol", `{"price":"9.99"}`, "symbol"},
		{"missing price", `{"symbol":"CS"}`, "price"},
		{"negative price", `{"symbol":"CS","price":"-1"}`, "price"},
		{"long symbol", `{"symbol":"` + strings.Repeat("X", 33) + `","price":"1"}`, "symbol"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &recordingService{}
			rec := postTick(t, newTestRouter(svc), tt.body)

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", rec.Code)
			}
			var resp middleware.ErrorResponse
			if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
				t.Fatalf("decode error body: %v", err)
			}
			if resp.Field != tt.wantField {
				t.Errorf("field = %q, want %q (error %q)", resp.Field, tt.wantField, resp.Error)
			}
			if len(svc.prices) != 0 {
				t.Errorf("invalid tick reached the order service")
			}
		})
	}
}

func TestReceiveTickAcceptsIgnoredAndFiringTicks(t *testing.T) {
	svc := &recordingService{}
	r := newTestRouter(svc)

	for _, body := range []string{
		`{"symbol":"NOTCS","price":"1"}`,
		`{"symbol":"CS","price":"10.00"}`,
		`{"symbol":"CS","price":9.99}`,
		`{"symbol":"CS","price":"9.50"}`,
	} {
		rec := postTick(t, r, body)
		if rec.Code != http.StatusAccepted {
			t.Fatalf("%s: status = %d, want 202", body, rec.Code)
		}
	}

	if len(svc.prices) != 1 || !svc.prices[0].Equal(decimal.RequireFromString("9.99")) {
		t.Fatalf("buy prices = %v, want [9.99]", svc.prices)
	}

	got := getOrder(t, r)
	if got.Symbol != "CS" || got.Quantity != 5 || !got.Threshold.Equal(decimal.NewFromInt(10)) {
		t.Errorf("order = %+v", got)
	}
	if got.Outcome.Status != string(service.OutcomePlaced) || got.Outcome.Price == nil || !got.Outcome.Price.Equal(decimal.RequireFromString("9.99")) {
		t.Errorf("outcome = %+v", got.Outcome)
	}
}

func TestGetOrderReportsPendingAndErrored(t *testing.T) {
	svc := &recordingService{err: errors.New("insufficient balance")}
	r := newTestRouter(svc)

	if got := getOrder(t, r).Outcome; got.Status != string(service.OutcomePending) || got.Price != nil {
		t.Errorf("outcome before any tick = %+v", got)
	}

	postTick(t, r, `{"symbol":"CS","price":"9.00"}`)

	got := getOrder(t, r).Outcome
	if got.Status != string(service.OutcomeErrored) || got.Error != "insufficient balance" {
		t.Errorf("outcome after failed buy = %+v", got)
	}
}
