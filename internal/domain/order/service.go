package order

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/xenking/cybershop/internal/payment"
)

// Sentinel errors for order validation.
var (
	ErrMissingFields = errors.New("fill in all required fields")
	ErrEmptyCart     = errors.New("cart is empty")
)

// InvalidQuantityError indicates a line item with a non-positive quantity.
type InvalidQuantityError struct {
	ProductID int64
}

func (e *InvalidQuantityError) Error() string {
	return fmt.Sprintf("quantity must be greater than 0 for product %d", e.ProductID)
}

// CreateOrderRequest holds the input for creating an order.
type CreateOrderRequest struct {
	CustomerName    string
	CustomerEmail   string
	CustomerPhone   string
	DeliveryAddress string
	Items           []Item
}

// CreateOrderResult holds the output of a successfully created order.
type CreateOrderResult struct {
	OrderID     int64
	TotalAmount int64
	// PaymentURL is the payment redirect, empty when no provider is
	// configured or payment creation failed.
	PaymentURL string
}

// Service encapsulates order creation and lookup business logic.
type Service struct {
	orders   Repository
	payments payment.Provider // nil when no provider is configured
}

// NewService creates an order Service. payments may be nil to run without a
// payment provider.
func NewService(orders Repository, payments payment.Provider) *Service {
	return &Service{
		orders:   orders,
		payments: payments,
	}
}

// CreateOrder validates the customer details and cart, computes the total in
// integer minor units, persists the order with its items, and requests a
// payment redirect when a provider is configured.
//
// Payment creation is best-effort: the order is already persisted when it
// runs, and a provider failure only means the response has no redirect.
func (s *Service) CreateOrder(ctx context.Context, req CreateOrderRequest) (*CreateOrderResult, error) {
	o := &Order{
		CustomerName:    strings.TrimSpace(req.CustomerName),
		CustomerEmail:   strings.TrimSpace(req.CustomerEmail),
		CustomerPhone:   strings.TrimSpace(req.CustomerPhone),
		DeliveryAddress: strings.TrimSpace(req.DeliveryAddress),
		Status:          StatusPending,
		Items:           req.Items,
	}

	if o.CustomerName == "" || o.CustomerEmail == "" || o.CustomerPhone == "" || o.DeliveryAddress == "" {
		return nil, ErrMissingFields
	}
	if len(req.Items) == 0 {
		return nil, ErrEmptyCart
	}

	var total int64
	for _, item := range req.Items {
		if item.Quantity <= 0 {
			return nil, &InvalidQuantityError{ProductID: item.ProductID}
		}
		total += item.ProductPrice * int64(item.Quantity)
	}
	o.TotalAmount = total

	id, err := s.orders.Create(ctx, o)
	if err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	result := &CreateOrderResult{
		OrderID:     id,
		TotalAmount: total,
	}

	if s.payments != nil {
		result.PaymentURL = s.createPayment(ctx, id, total)
	}

	return result, nil
}

// createPayment asks the provider for a redirect and records the payment id.
// All failures are logged and swallowed.
func (s *Service) createPayment(ctx context.Context, orderID, total int64) string {
	lg := zctx.From(ctx)

	redirect, err := s.payments.CreatePayment(ctx, payment.Request{
		OrderID:     orderID,
		Amount:      total,
		Description: fmt.Sprintf("Order #%d", orderID),
	})
	if err != nil {
		lg.Warn("Payment creation failed", zap.Int64("order_id", orderID), zap.Error(err))
		return ""
	}

	if err := s.orders.SetPaymentID(ctx, orderID, redirect.PaymentID); err != nil {
		lg.Warn("Recording payment id failed",
			zap.Int64("order_id", orderID),
			zap.String("payment_id", redirect.PaymentID),
			zap.Error(err),
		)
	}

	return redirect.ConfirmationURL
}

// GetOrder returns one order with its items.
func (s *Service) GetOrder(ctx context.Context, id int64) (*Order, error) {
	o, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return o, nil
}

// ListOrders returns up to limit recent orders, newest first.
func (s *Service) ListOrders(ctx context.Context, limit int) ([]Order, error) {
	orders, err := s.orders.List(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return orders, nil
}
