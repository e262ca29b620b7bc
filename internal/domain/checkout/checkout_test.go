package checkout

import (
	"context"
	"testing"

	"github.com/go-faster/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xenking/cybershop/internal/domain/cart"
	"github.com/xenking/cybershop/internal/domain/product"
)

// --- Mock implementations ---

type mockCreator struct {
	result *CreateResult
	err    error

	calls     int
	lastForm  Form
	lastLines []cart.Line
	onCreate  func() // runs inside CreateOrder, before returning
}

func (m *mockCreator) CreateOrder(_ context.Context, form Form, lines []cart.Line) (*CreateResult, error) {
	m.calls++
	m.lastForm = form
	m.lastLines = lines
	if m.onCreate != nil {
		m.onCreate()
	}
	if m.err != nil {
		return nil, m.err
	}
	return m.result, nil
}

// --- Helpers ---

func validForm() Form {
	return Form{
		CustomerName:    "Ivan Ivanov",
		CustomerEmail:   "ivan@example.com",
		CustomerPhone:   "+7 (900) 123-45-67",
		DeliveryAddress: "Moscow, Gamer st. 1",
	}
}

func newFilledCart() *cart.Store {
	s := cart.New()
	s.AddItem(product.Product{ID: 1, Name: "Neon Gaming Headset", Price: 8990})
	return s
}

// --- Tests ---

func TestSubmit_MissingFieldsNeverReachNetwork(t *testing.T) {
	tests := []struct {
		name    string
		form    Form
		missing []string
	}{
		{
			name:    "all empty",
			form:    Form{},
			missing: []string{"customer_name", "customer_email", "customer_phone", "delivery_address"},
		},
		{
			name: "one empty",
			form: Form{
				CustomerName:  "Ivan",
				CustomerEmail: "ivan@example.com",
				CustomerPhone: "+7 900 123-45-67",
			},
			missing: []string{"delivery_address"},
		},
		{
			name: "whitespace only counts as empty",
			form: Form{
				CustomerName:    "   ",
				CustomerEmail:   "ivan@example.com",
				CustomerPhone:   "+7 900 123-45-67",
				DeliveryAddress: "Moscow",
			},
			missing: []string{"customer_name"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			creator := &mockCreator{}
			store := newFilledCart()
			flow := NewFlow(creator, store)
			flow.SetForm(tt.form)

			err := flow.Submit(context.Background())

			var vErr *ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, tt.missing, vErr.Missing)
			assert.Equal(t, StatusIdle, flow.Status())
			assert.Zero(t, creator.calls, "validation failures must not contact the network")
			assert.Equal(t, 1, store.Len(), "cart must be untouched")
		})
	}
}

func TestSubmit_Success(t *testing.T) {
	creator := &mockCreator{result: &CreateResult{OrderID: 42}}
	store := newFilledCart()
	flow := NewFlow(creator, store)
	flow.SetForm(validForm())

	err := flow.Submit(context.Background())

	require.NoError(t, err)
	assert.Equal(t, StatusSucceeded, flow.Status())
	assert.Equal(t, int64(42), flow.OrderID())
	assert.Empty(t, flow.PaymentURL())
	assert.Equal(t, 0, store.Len(), "cart is cleared on confirmed success")
	assert.Equal(t, Form{}, flow.Form(), "form is reset on confirmed success")
	assert.Equal(t, 1, creator.calls)
}

func TestSubmit_SendsSnapshotAndTrimmedForm(t *testing.T) {
	creator := &mockCreator{result: &CreateResult{OrderID: 7}}
	store := cart.New()
	store.AddItem(product.Product{ID: 1, Name: "Neon Gaming Headset", Price: 8990})
	store.AddItem(product.Product{ID: 1, Name: "Neon Gaming Headset", Price: 8990})
	store.AddItem(product.Product{ID: 3, Name: "Cyber Gaming Mouse", Price: 6990})

	flow := NewFlow(creator, store)
	flow.SetForm(Form{
		CustomerName:    "  Ivan Ivanov ",
		CustomerEmail:   " ivan@example.com",
		CustomerPhone:   "+7 900 123-45-67 ",
		DeliveryAddress: " Moscow ",
	})

	require.NoError(t, flow.Submit(context.Background()))

	assert.Equal(t, "Ivan Ivanov", creator.lastForm.CustomerName)
	assert.Equal(t, "ivan@example.com", creator.lastForm.CustomerEmail)
	require.Len(t, creator.lastLines, 2)
	assert.Equal(t, int64(1), creator.lastLines[0].Product.ID)
	assert.Equal(t, 2, creator.lastLines[0].Quantity)
	assert.Equal(t, int64(3), creator.lastLines[1].Product.ID)
}

func TestSubmit_SuccessWithPaymentRedirect(t *testing.T) {
	creator := &mockCreator{result: &CreateResult{
		OrderID:    42,
		PaymentURL: "https://pay.example/42",
	}}
	store := newFilledCart()
	flow := NewFlow(creator, store)
	flow.SetForm(validForm())

	require.NoError(t, flow.Submit(context.Background()))

	assert.Equal(t, StatusSucceeded, flow.Status())
	assert.Equal(t, "https://pay.example/42", flow.PaymentURL())
	assert.Equal(t, 0, store.Len())
	assert.Equal(t, Form{}, flow.Form())
}

func TestSubmit_Rejected(t *testing.T) {
	creator := &mockCreator{err: &RejectedError{Message: "out of stock"}}
	store := newFilledCart()
	flow := NewFlow(creator, store)
	form := validForm()
	flow.SetForm(form)

	err := flow.Submit(context.Background())

	require.Error(t, err)
	assert.Equal(t, StatusFailed, flow.Status())
	assert.Equal(t, "out of stock", flow.FailureMessage())
	assert.Equal(t, 1, store.Len(), "cart must survive a rejection")
	assert.Equal(t, form, flow.Form(), "form input is retained across failed attempts")
}

func TestSubmit_RejectedWithoutMessageUsesFallback(t *testing.T) {
	creator := &mockCreator{err: &RejectedError{}}
	flow := NewFlow(creator, newFilledCart())
	flow.SetForm(validForm())

	require.Error(t, flow.Submit(context.Background()))
	assert.Equal(t, StatusFailed, flow.Status())
	assert.Equal(t, GenericFailureMessage, flow.FailureMessage())
}

func TestSubmit_TransportFailure(t *testing.T) {
	creator := &mockCreator{err: errors.New("dial tcp: connection refused")}
	store := newFilledCart()
	flow := NewFlow(creator, store)
	flow.SetForm(validForm())

	err := flow.Submit(context.Background())

	require.Error(t, err)
	assert.Equal(t, StatusFailed, flow.Status())
	assert.Equal(t, ConnectionFailureMessage, flow.FailureMessage())
	assert.Equal(t, 1, store.Len())
}

func TestSubmit_ReentrantCallIgnored(t *testing.T) {
	store := newFilledCart()
	creator := &mockCreator{result: &CreateResult{OrderID: 42}}
	flow := NewFlow(creator, store)
	flow.SetForm(validForm())

	var reentrantErr error
	creator.onCreate = func() {
		// A second submit while the first is still in flight.
		reentrantErr = flow.Submit(context.Background())
	}

	require.NoError(t, flow.Submit(context.Background()))

	require.ErrorIs(t, reentrantErr, ErrSubmissionInFlight)
	assert.Equal(t, 1, creator.calls, "no duplicate request may be sent")
	assert.Equal(t, StatusSucceeded, flow.Status())
}

func TestSubmit_ResubmitFromFailed(t *testing.T) {
	creator := &mockCreator{err: &RejectedError{Message: "out of stock"}}
	store := newFilledCart()
	flow := NewFlow(creator, store)
	flow.SetForm(validForm())

	require.Error(t, flow.Submit(context.Background()))
	require.Equal(t, StatusFailed, flow.Status())

	// User-initiated retry with the retained input.
	creator.err = nil
	creator.result = &CreateResult{OrderID: 43}

	require.NoError(t, flow.Submit(context.Background()))
	assert.Equal(t, StatusSucceeded, flow.Status())
	assert.Equal(t, int64(43), flow.OrderID())
	assert.Equal(t, 2, creator.calls)
}

func TestSetForm_EditingAfterFailureReturnsToIdle(t *testing.T) {
	creator := &mockCreator{err: &RejectedError{Message: "out of stock"}}
	flow := NewFlow(creator, newFilledCart())
	flow.SetForm(validForm())

	require.Error(t, flow.Submit(context.Background()))
	require.Equal(t, StatusFailed, flow.Status())

	edited := validForm()
	edited.DeliveryAddress = "Moscow, Gamer st. 2"
	flow.SetForm(edited)

	assert.Equal(t, StatusIdle, flow.Status())
	assert.Equal(t, edited, flow.Form())
}

func TestDismiss(t *testing.T) {
	creator := &mockCreator{result: &CreateResult{OrderID: 42, PaymentURL: "https://pay.example/42"}}
	flow := NewFlow(creator, newFilledCart())
	flow.SetForm(validForm())

	require.NoError(t, flow.Submit(context.Background()))
	require.Equal(t, StatusSucceeded, flow.Status())

	flow.Dismiss()

	assert.Equal(t, StatusIdle, flow.Status())
	assert.Zero(t, flow.OrderID())
	assert.Empty(t, flow.PaymentURL())

	// Dismissing an idle flow changes nothing.
	flow.Dismiss()
	assert.Equal(t, StatusIdle, flow.Status())
}

func TestStatus_String(t *testing.T) {
	assert.Equal(t, "idle", StatusIdle.String())
	assert.Equal(t, "submitting", StatusSubmitting.String())
	assert.Equal(t, "succeeded", StatusSucceeded.String())
	assert.Equal(t, "failed", StatusFailed.String())
	assert.Equal(t, "unknown", Status(99).String())
}
