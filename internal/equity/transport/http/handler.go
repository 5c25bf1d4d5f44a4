// internal/equity/transport/http/handler.go
package http

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"equityorder/internal/equity/service"
	"equityorder/internal/metrics"
	"equityorder/pkg/middleware"
)

type TickRequest struct {
	Symbol string          `json:"symbol" validate:"required,max=32"`
	Price  decimal.Decimal `json:"price"`
}

type TickResponse struct {
	Status string `json:"status"`
}

type OrderResponse struct {
	Symbol    string          `json:"symbol"`
	Threshold decimal.Decimal `json:"threshold"`
	Quantity  int64           `json:"quantity"`
	Outcome   OutcomeResponse `json:"outcome"`
}

type OutcomeResponse struct {
	Status string           `json:"status"`
	Price  *decimal.Decimal `json:"price,omitempty"`
	Error  string           `json:"error,omitempty"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterStructValidation(func(sl validator.StructLevel) {
		req := sl.Current().Interface().(TickRequest)
		if !req.Price.IsPositive() {
			sl.ReportError(req.Price, "Price", "price", "positive", "")
		}
	}, TickRequest{})
	return v
}

type Handler struct {
	Order   *service.EquityOrder
	Tracker *service.Tracker
	Logger  *zap.Logger
}

func NewEquityHandler(order *service.EquityOrder, tracker *service.Tracker, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		Order:   order,
		Tracker: tracker,
		Logger:  logger,
	}
}

func (h *Handler) Routes(r chi.Router) {
	r.With(middleware.RequireJSON).Post("/api/ticks", h.ReceiveTick)
	r.Get("/api/order", h.GetOrder)
}

// ReceiveTick hands one price update to the order. The answer is the same
// whether the tick was ignored or fired the order.
func (h *Handler) ReceiveTick(w http.ResponseWriter, r *http.Request) {
	var req TickRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, middleware.ErrorResponse{Error: "invalid JSON format: " + err.Error()})
		return
	}

	if err := validate.Struct(req); err != nil {
		verrs, ok := err.(validator.ValidationErrors)
		if !ok || len(verrs) == 0 {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrorResponse{Error: err.Error()})
			return
		}
		fe := verrs[0]
		field := strings.ToLower(fe.Field())
		msg := field + " is invalid"
		switch fe.Tag() {
		case "required":
			msg = field + " is required"
		case "positive":
			msg = field + " must be positive"
		}
		h.Logger.Debug("EquityHandler: rejected tick", zap.String("field", field), zap.String("tag", fe.Tag()))
		middleware.WriteError(w, http.StatusBadRequest, middleware.ErrorResponse{Error: msg, Field: field})
		return
	}

	metrics.TicksReceivedTotal.Inc()
	h.Order.ReceiveTick(req.Symbol, req.Price)

	middleware.WriteJSON(w, http.StatusAccepted, TickResponse{Status: "accepted"})
}

// GetOrder reports the order parameters and what happened to it so far.
func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	snap := h.Tracker.Snapshot()
	outcome := OutcomeResponse{Status: string(snap.Status)}
	if snap.Status != service.OutcomePending {
		price := snap.Price
		outcome.Price = &price
	}
	if snap.Err != nil {
		outcome.Error = snap.Err.Error()
	}

	middleware.WriteJSON(w, http.StatusOK, OrderResponse{
		Symbol:    h.Order.Symbol(),
		Threshold: h.Order.Threshold(),
		Quantity:  h.Order.Quantity(),
		Outcome:   outcome,
	})
}
