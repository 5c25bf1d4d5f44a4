package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"equityorder/internal/metrics"
)

// SyncTime aligns signed request timestamps with the Binance server clock,
// so the one order the service sends is not rejected with -1021.
func (s *SpotOrderService) SyncTime(ctx context.Context) error {
	start := time.Now()
	offset, err := s.client.NewSetServerTimeService().Do(ctx)
	metrics.BinanceAPIRequestDuration.WithLabelValues(serverTimeEndpoint).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.BinanceAPIRequestsTotal.WithLabelValues(serverTimeEndpoint, "error").Inc()
		return fmt.Errorf("failed to get server time: %w", err)
	}
	metrics.BinanceAPIRequestsTotal.WithLabelValues(serverTimeEndpoint, "ok").Inc()

	s.logger.Info("SpotOrderService: time offset updated", zap.Int64("offset_ms", offset))
	return nil
}
