// internal/binance/service/order_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/adshao/go-binance/v2"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"equityorder/internal/metrics"
)

// ErrOrderNotFilled is returned when Binance accepted the request but the
// IOC order expired or was rejected without any execution.
var ErrOrderNotFilled = errors.New("binance: order not filled")

// testnetBaseURL is the spot testnet REST endpoint.
const testnetBaseURL = "https://testnet.binance.vision"

const (
	createOrderEndpoint = "create_order"
	serverTimeEndpoint  = "server_time"
)

type Options struct {
	APIKey    string
	SecretKey string
	BaseURL   string // overrides Testnet when set
	Testnet   bool
	Timeout   time.Duration
}

// SpotOrderService places spot LIMIT IOC buys at the tick price.
type SpotOrderService struct {
	client  *binance.Client
	timeout time.Duration
	logger  *zap.Logger
}

func NewSpotOrderService(opts Options, logger *zap.Logger) *SpotOrderService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 5 * time.Second
	}
	// the base URL is set per client; binance.UseTestnet is a package global
	client := binance.NewClient(opts.APIKey, opts.SecretKey)
	switch {
	case opts.BaseURL != "":
		client.BaseURL = opts.BaseURL
	case opts.Testnet:
		client.BaseURL = testnetBaseURL
	}
	client.HTTPClient = &http.Client{Timeout: opts.Timeout}

	return &SpotOrderService{
		client:  client,
		timeout: opts.Timeout,
		logger:  logger,
	}
}

// Buy sends one order and waits for Binance to answer.
func (s *SpotOrderService) Buy(symbol string, quantity int64, price decimal.Decimal) error {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	s.logger.Info("SpotOrderService: placing buy",
		zap.String("symbol", symbol),
		zap.Int64("quantity", quantity),
		zap.String("price", price.String()),
	)

	start := time.Now()
	resp, err := s.client.NewCreateOrderService().
		Symbol(symbol).
		Side(binance.SideTypeBuy).
		Type(binance.OrderTypeLimit).
		TimeInForce(binance.TimeInForceTypeIOC).
		Quantity(strconv.FormatInt(quantity, 10)).
		Price(price.String()).
		NewOrderRespType(binance.NewOrderRespTypeRESULT).
		Do(ctx)
	metrics.BinanceAPIRequestDuration.WithLabelValues(createOrderEndpoint).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.BinanceAPIRequestsTotal.WithLabelValues(createOrderEndpoint, "error").Inc()
		s.logger.Error("SpotOrderService: Binance Spot API error", zap.String("symbol", symbol), zap.Error(err))
		return fmt.Errorf("Binance Spot API error: %w", err)
	}
	metrics.BinanceAPIRequestsTotal.WithLabelValues(createOrderEndpoint, "ok").Inc()

	if notFilled(resp) {
		s.logger.Warn("SpotOrderService: order not filled",
			zap.String("symbol", symbol),
			zap.Int64("order_id", resp.OrderID),
			zap.String("status", string(resp.Status)),
		)
		return fmt.Errorf("order %d %s: %w", resp.OrderID, resp.Status, ErrOrderNotFilled)
	}

	s.logger.Info("SpotOrderService: buy executed",
		zap.String("symbol", symbol),
		zap.Int64("order_id", resp.OrderID),
		zap.String("status", string(resp.Status)),
		zap.String("executed_qty", resp.ExecutedQuantity),
	)
	return nil
}

func notFilled(resp *binance.CreateOrderResponse) bool {
	switch resp.Status {
	case binance.OrderStatusTypeExpired, binance.OrderStatusTypeRejected:
	default:
		return false
	}
	executed, err := decimal.NewFromString(resp.ExecutedQuantity)
	return err != nil || executed.IsZero()
}
