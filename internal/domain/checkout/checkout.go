// Package checkout drives the checkout form through its submission lifecycle:
// Idle -> Submitting -> Succeeded or Failed, with exactly one state active at
// a time and at most one submission in flight.
package checkout

import (
	"context"
	"strings"

	"github.com/go-faster/errors"

	"github.com/xenking/cybershop/internal/domain/cart"
)

// Status enumerates the checkout lifecycle states.
type Status int

const (
	// StatusIdle means the form is editable and no submission is running.
	StatusIdle Status = iota
	// StatusSubmitting means the order-creation call is in flight.
	StatusSubmitting
	// StatusSucceeded means the order was created; the cart has been cleared
	// and the form reset.
	StatusSucceeded
	// StatusFailed means the last submission was rejected or unreachable; the
	// cart and form are untouched so the user can correct and resubmit.
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusSubmitting:
		return "submitting"
	case StatusSucceeded:
		return "succeeded"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Form holds the customer details collected before submission. All four
// fields are required; validity is checked on the trimmed values.
type Form struct {
	CustomerName    string
	CustomerEmail   string
	CustomerPhone   string
	DeliveryAddress string
}

func (f Form) trimmed() Form {
	return Form{
		CustomerName:    strings.TrimSpace(f.CustomerName),
		CustomerEmail:   strings.TrimSpace(f.CustomerEmail),
		CustomerPhone:   strings.TrimSpace(f.CustomerPhone),
		DeliveryAddress: strings.TrimSpace(f.DeliveryAddress),
	}
}

func (f Form) missingFields() []string {
	var missing []string
	if f.CustomerName == "" {
		missing = append(missing, "customer_name")
	}
	if f.CustomerEmail == "" {
		missing = append(missing, "customer_email")
	}
	if f.CustomerPhone == "" {
		missing = append(missing, "customer_phone")
	}
	if f.DeliveryAddress == "" {
		missing = append(missing, "delivery_address")
	}
	return missing
}

// CreateResult is the outcome of a successful order-creation call.
type CreateResult struct {
	OrderID int64
	// PaymentURL is the optional payment redirect. When non-empty the caller
	// navigates there instead of showing the success message, never both.
	PaymentURL string
}

// OrderCreator is the external order-creation collaborator. Implementations
// send exactly one request per call and never retry on their own.
type OrderCreator interface {
	CreateOrder(ctx context.Context, form Form, lines []cart.Line) (*CreateResult, error)
}

// RejectedError reports that the collaborator answered with an explicit
// rejection (or an unparseable response). Message may be empty.
type RejectedError struct {
	Message string
}

func (e *RejectedError) Error() string {
	if e.Message == "" {
		return "order rejected"
	}
	return "order rejected: " + e.Message
}

// ErrSubmissionInFlight is returned by Submit while a previous submission has
// not resolved yet. The call is ignored: no request is sent, no state changes.
var ErrSubmissionInFlight = errors.New("submission already in flight")

// ValidationError reports required checkout fields that are empty after
// trimming. Surfaced locally; the network is never contacted.
type ValidationError struct {
	Missing []string
}

func (e *ValidationError) Error() string {
	return "required fields missing: " + strings.Join(e.Missing, ", ")
}

// Failure messages surfaced through the Failed state.
const (
	// ConnectionFailureMessage is used when the collaborator is unreachable.
	ConnectionFailureMessage = "connection error"
	// GenericFailureMessage is used when a rejection carries no message.
	GenericFailureMessage = "failed to create order"
)

// Flow owns the checkout form state and the submission lifecycle for one
// storefront session.
//
// Flow is not safe for concurrent use: like the cart it belongs to, it is
// driven from a single event loop. Submit is the one blocking boundary; the
// StatusSubmitting guard makes a re-entrant call a no-op.
type Flow struct {
	creator OrderCreator
	cart    *cart.Store

	form        Form
	status      Status
	orderID     int64
	paymentURL  string
	failMessage string
}

// NewFlow returns an idle Flow submitting the given cart through creator.
func NewFlow(creator OrderCreator, cartStore *cart.Store) *Flow {
	return &Flow{
		creator: creator,
		cart:    cartStore,
	}
}

// Status returns the current lifecycle state.
func (f *Flow) Status() Status { return f.status }

// Form returns the current form values.
func (f *Flow) Form() Form { return f.form }

// SetForm stores edited form values. Editing after a failed submission
// returns the flow to the editable Idle state; the input itself is retained
// across failures. Edits while a submission is in flight are ignored.
func (f *Flow) SetForm(form Form) {
	if f.status == StatusSubmitting {
		return
	}
	f.form = form
	if f.status == StatusFailed {
		f.status = StatusIdle
	}
}

// OrderID returns the created order identifier once the flow has succeeded.
func (f *Flow) OrderID() int64 { return f.orderID }

// PaymentURL returns the payment redirect of a succeeded submission, or an
// empty string when the order needs no redirect.
func (f *Flow) PaymentURL() string { return f.paymentURL }

// FailureMessage returns the message carried by the Failed state.
func (f *Flow) FailureMessage() string { return f.failMessage }

// Submit validates the form and performs the order-creation call.
//
// Local validation failures keep the flow Idle and return a *ValidationError
// without touching the network. On success the cart is cleared, the form is
// reset and the flow moves to Succeeded. On rejection or transport failure
// the flow moves to Failed with cart and form untouched; the returned error
// describes the cause. Resubmitting from Failed is allowed and is the only
// retry mechanism.
func (f *Flow) Submit(ctx context.Context) error {
	if f.status == StatusSubmitting {
		return ErrSubmissionInFlight
	}
	if f.status == StatusSucceeded {
		// The success screen was left without a dismiss. The form is already
		// reset, so this behaves like a fresh Idle submission.
		f.Dismiss()
	}

	form := f.form.trimmed()
	if missing := form.missingFields(); len(missing) > 0 {
		f.status = StatusIdle
		return &ValidationError{Missing: missing}
	}

	lines := f.cart.Snapshot()
	f.status = StatusSubmitting

	res, err := f.creator.CreateOrder(ctx, form, lines)
	if err != nil {
		var rejected *RejectedError
		if errors.As(err, &rejected) {
			msg := rejected.Message
			if msg == "" {
				msg = GenericFailureMessage
			}
			f.fail(msg)
		} else {
			f.fail(ConnectionFailureMessage)
		}
		return err
	}

	// Confirmed success: clear the cart, then reset the form, then surface
	// the terminal state. This is the only path that empties the cart.
	f.cart.Clear()
	f.form = Form{}
	f.orderID = res.OrderID
	f.paymentURL = res.PaymentURL
	f.status = StatusSucceeded
	return nil
}

// Dismiss returns a Succeeded or Failed flow to Idle. Dismissing an Idle or
// Submitting flow changes nothing.
func (f *Flow) Dismiss() {
	if f.status != StatusSucceeded && f.status != StatusFailed {
		return
	}
	f.status = StatusIdle
	f.orderID = 0
	f.paymentURL = ""
	f.failMessage = ""
}

func (f *Flow) fail(message string) {
	f.status = StatusFailed
	f.failMessage = message
}
