// Package payment integrates the order API with an external payment provider.
// Payment creation is best-effort: an order stays valid when the provider is
// unavailable, the customer just gets no redirect.
package payment

import "context"

// Request describes the payment to create for an order. Amount is in minor
// currency units.
type Request struct {
	OrderID     int64
	Amount      int64
	Description string
}

// Redirect is the provider's answer: where to send the customer to pay, and
// the provider-side payment identifier to remember on the order.
type Redirect struct {
	PaymentID       string
	ConfirmationURL string
}

// Provider creates a hosted payment and returns its redirect.
type Provider interface {
	CreatePayment(ctx context.Context, req Request) (*Redirect, error)
}
