package service

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/adshao/go-binance/v2"
	"github.com/adshao/go-binance/v2/common"
	"github.com/shopspring/decimal"
	"go.uber.org/zap/zaptest"
)

func newTestService(t *testing.T, h http.HandlerFunc) *SpotOrderService {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewSpotOrderService(Options{
		APIKey:    "test-key",
		SecretKey: "test-secret",
		BaseURL:   srv.URL,
		Timeout:   2 * time.Second,
	}, zaptest.NewLogger(t))
}

func orderResponse(status, executed string) string {
	return fmt.Sprintf(`{"symbol":"BTCUSDT","orderId":28,"clientOrderId":"6gCrw2kRUAF9CvJDGP16IP","transactTime":1507725176595,`+
		`"price":"9.99","origQty":"5","executedQty":%q,"cummulativeQuoteQty":"0","status":%q,"timeInForce":"IOC","type":"LIMIT","side":"BUY"}`,
		executed, status)
}

func TestBuySendsLimitIOCOrder(t *testing.T) {
	var form map[string]string
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/v3/order" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if err := r.ParseForm(); err != nil {
			t.Errorf("parse form: %v", err)
			return
		}
		form = map[string]string{}
		for _, k := range []string{"symbol", "side", "type", "timeInForce", "quantity", "price"} {
			form[k] = r.Form.Get(k)
		}
		if r.Header.Get("X-MBX-APIKEY") != "test-key" {
			t.Errorf("missing api key header")
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, orderResponse("FILLED", "5"))
	})

	if err := svc.Buy("BTCUSDT", 5, decimal.RequireFromString("9.99")); err != nil {
		t.Fatalf("Buy returned %v", err)
	}

	want := map[string]string{
		"symbol":      "BTCUSDT",
		"side":        "BUY",
		"type":        "LIMIT",
		"timeInForce": "IOC",
		"quantity":    "5",
		"price":       "9.99",
	}
	for k, v := range want {
		if form[k] != v {
			t.Errorf("%s = %q, want %q", k, form[k], v)
		}
	}
}

func TestBuyReturnsAPIError(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"code":-2010,"msg":"Account has insufficient balance for requested action."}`)
	})

	err := svc.Buy("BTCUSDT", 5, decimal.RequireFromString("9.99"))
	if err == nil {
		t.Fatal("expected an error")
	}
	var apiErr *common.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error %v is not a *common.APIError", err)
	}
	if apiErr.Code != -2010 {
		t.Errorf("code = %d, want -2010", apiErr.Code)
	}
}

func TestBuyNotFilled(t *testing.T) {
	tests := []struct {
		status   string
		executed string
		wantErr  bool
	}{
		{"FILLED", "5", false},
		{"PARTIALLY_FILLED", "2", false},
		{"EXPIRED", "2", false},
		{"EXPIRED", "0.00000000", true},
		{"REJECTED", "0", true},
	}
	for _, tt := range tests {
		t.Run(tt.status+"_"+tt.executed, func(t *testing.T) {
			svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				fmt.Fprint(w, orderResponse(tt.status, tt.executed))
			})

			err := svc.Buy("BTCUSDT", 5, decimal.RequireFromString("9.99"))
			if got := errors.Is(err, ErrOrderNotFilled); got != tt.wantErr {
				t.Errorf("errors.Is(%v, ErrOrderNotFilled) = %v, want %v", err, got, tt.wantErr)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error %v", err)
			}
		})
	}
}

func TestNewSpotOrderServiceBaseURL(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		want string
	}{
		{"testnet", Options{Testnet: true}, testnetBaseURL},
		{"explicit url wins", Options{Testnet: true, BaseURL: "http://127.0.0.1:9"}, "http://127.0.0.1:9"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewSpotOrderService(tt.opts, nil)
			if svc.client.BaseURL != tt.want {
				t.Errorf("BaseURL = %q, want %q", svc.client.BaseURL, tt.want)
			}
		})
	}

	before := binance.UseTestnet
	NewSpotOrderService(Options{Testnet: !before}, nil)
	if binance.UseTestnet != before {
		t.Error("constructor changed the go-binance testnet global")
	}
}
