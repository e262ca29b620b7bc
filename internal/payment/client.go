package payment

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Compile-time check ensuring Client satisfies the Provider port.
var _ Provider = (*Client)(nil)

// maxResponseSize bounds how much of a provider response is read.
const maxResponseSize = 1 << 20

// Config holds the provider account and endpoint settings.
type Config struct {
	// APIURL is the payment-creation endpoint.
	APIURL string
	// ShopID and SecretKey authenticate the shop via HTTP basic auth.
	ShopID    string
	SecretKey string
	// ReturnURL is where the provider sends the customer back after payment;
	// the order id is appended as a query parameter.
	ReturnURL string
	// Currency is the ISO 4217 code used for payment amounts.
	Currency string
}

// Client creates redirect payments over the provider's HTTP API.
type Client struct {
	cfg  Config
	http *http.Client
}

// NewClient returns a Client for the given provider account. When httpClient
// is nil the default client is used.
func NewClient(cfg Config, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		cfg:  cfg,
		http: httpClient,
	}
}

// CreatePayment creates a capture-on-success redirect payment for req. Every
// call carries a fresh idempotence key: a retried order submission is a new
// order with a new payment.
func (c *Client) CreatePayment(ctx context.Context, req Request) (*Redirect, error) {
	body := c.encodePayment(req)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.APIURL, bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(err, "build request")
	}
	httpReq.SetBasicAuth(c.cfg.ShopID, c.cfg.SecretKey)
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Idempotence-Key", uuid.New().String())

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, errors.Wrap(err, "create payment")
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, errors.Wrap(err, "read response")
	}

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("provider status %d", resp.StatusCode)
	}

	redirect, err := decodeRedirect(data)
	if err != nil {
		return nil, errors.Wrap(err, "decode response")
	}
	return redirect, nil
}

// encodePayment renders the provider request. The amount value is the minor
// unit total formatted as a two-decimal string.
func (c *Client) encodePayment(req Request) []byte {
	value := decimal.NewFromInt(req.Amount).
		Div(decimal.NewFromInt(100)).
		StringFixed(2)

	var e jx.Encoder
	e.ObjStart()
	e.FieldStart("amount")
	e.ObjStart()
	e.FieldStart("value")
	e.Str(value)
	e.FieldStart("currency")
	e.Str(c.cfg.Currency)
	e.ObjEnd()
	e.FieldStart("confirmation")
	e.ObjStart()
	e.FieldStart("type")
	e.Str("redirect")
	e.FieldStart("return_url")
	e.Str(fmt.Sprintf("%s?order_id=%d", c.cfg.ReturnURL, req.OrderID))
	e.ObjEnd()
	e.FieldStart("capture")
	e.Bool(true)
	e.FieldStart("description")
	e.Str(req.Description)
	e.ObjEnd()
	return e.Bytes()
}

func decodeRedirect(data []byte) (*Redirect, error) {
	var r Redirect

	d := jx.DecodeBytes(data)
	err := d.Obj(func(d *jx.Decoder, key string) error {
		switch key {
		case "id":
			v, err := d.Str()
			if err != nil {
				return err
			}
			r.PaymentID = v
		case "confirmation":
			return d.Obj(func(d *jx.Decoder, key string) error {
				if key != "confirmation_url" {
					return d.Skip()
				}
				v, err := d.Str()
				if err != nil {
					return err
				}
				r.ConfirmationURL = v
				return nil
			})
		default:
			return d.Skip()
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if r.ConfirmationURL == "" {
		return nil, errors.New("confirmation URL missing")
	}
	return &r, nil
}
