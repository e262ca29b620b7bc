package order

import (
	"context"
	"time"

	"github.com/go-faster/errors"
)

// ErrNotFound is returned when a requested order does not exist.
var ErrNotFound = errors.New("order not found")

// StatusPending is the initial status of every created order.
const StatusPending = "pending"

// Order represents a customer order with its delivery details and line items.
// TotalAmount is in minor currency units.
type Order struct {
	ID              int64
	CustomerName    string
	CustomerEmail   string
	CustomerPhone   string
	DeliveryAddress string
	TotalAmount     int64
	Status          string
	PaymentID       string
	CreatedAt       time.Time
	Items           []Item
}

// Item is a single line item of an order. The product name and price are
// denormalized at order time so later catalog edits do not rewrite history.
type Item struct {
	ProductID    int64
	ProductName  string
	ProductPrice int64
	Quantity     int
}

// Repository defines persistence operations for orders.
type Repository interface {
	// Create persists the order with its items and returns the assigned id.
	Create(ctx context.Context, o *Order) (int64, error)
	// GetByID returns one order with its items, or ErrNotFound.
	GetByID(ctx context.Context, id int64) (*Order, error)
	// List returns up to limit orders, newest first, without items.
	List(ctx context.Context, limit int) ([]Order, error)
	// SetPaymentID records the provider payment id on an existing order.
	SetPaymentID(ctx context.Context, id int64, paymentID string) error
}
