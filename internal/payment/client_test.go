package payment

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type providerRequest struct {
	Amount struct {
		Value    string `json:"value"`
		Currency string `json:"currency"`
	} `json:"amount"`
	Confirmation struct {
		Type      string `json:"type"`
		ReturnURL string `json:"return_url"`
	} `json:"confirmation"`
	Capture     bool   `json:"capture"`
	Description string `json:"description"`
}

func testConfig(apiURL string) Config {
	return Config{
		APIURL:    apiURL,
		ShopID:    "shop-1",
		SecretKey: "secret",
		ReturnURL: "https://shop.example/success",
		Currency:  "RUB",
	}
}

func TestCreatePayment(t *testing.T) {
	var (
		got            providerRequest
		idempotenceKey string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		require.True(t, ok)
		assert.Equal(t, "shop-1", user)
		assert.Equal(t, "secret", pass)

		idempotenceKey = r.Header.Get("Idempotence-Key")

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(body, &got))

		io.WriteString(w, `{"id":"pay-123","confirmation":{"type":"redirect","confirmation_url":"https://pay.example/123"}}`)
	}))
	defer srv.Close()

	c := NewClient(testConfig(srv.URL), srv.Client())
	redirect, err := c.CreatePayment(context.Background(), Request{
		OrderID:     42,
		Amount:      899000,
		Description: "Order #42",
	})

	require.NoError(t, err)
	assert.Equal(t, "pay-123", redirect.PaymentID)
	assert.Equal(t, "https://pay.example/123", redirect.ConfirmationURL)

	assert.Equal(t, "8990.00", got.Amount.Value, "minor units formatted as a decimal string")
	assert.Equal(t, "RUB", got.Amount.Currency)
	assert.Equal(t, "redirect", got.Confirmation.Type)
	assert.Equal(t, "https://shop.example/success?order_id=42", got.Confirmation.ReturnURL)
	assert.True(t, got.Capture)
	assert.Equal(t, "Order #42", got.Description)

	_, err = uuid.Parse(idempotenceKey)
	assert.NoError(t, err, "idempotence key must be a UUID")
}

func TestCreatePayment_ProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		io.WriteString(w, `{"type":"error","code":"invalid_credentials"}`)
	}))
	defer srv.Close()

	c := NewClient(testConfig(srv.URL), srv.Client())
	_, err := c.CreatePayment(context.Background(), Request{OrderID: 42, Amount: 100})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "provider status 401")
}

func TestCreatePayment_MissingConfirmationURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		io.WriteString(w, `{"id":"pay-123","confirmation":{"type":"redirect"}}`)
	}))
	defer srv.Close()

	c := NewClient(testConfig(srv.URL), srv.Client())
	_, err := c.CreatePayment(context.Background(), Request{OrderID: 42, Amount: 100})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "confirmation URL missing")
}
