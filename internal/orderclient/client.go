// Package orderclient implements the storefront's order-creation collaborator
// over HTTP. It sends exactly one request per submission and never retries:
// retrying is a user decision made in the checkout flow.
package orderclient

import (
	"bytes"
	"context"
	"io"
	"net/http"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"

	"github.com/xenking/cybershop/internal/domain/cart"
	"github.com/xenking/cybershop/internal/domain/checkout"
)

// Compile-time check ensuring Client satisfies the checkout port.
var _ checkout.OrderCreator = (*Client)(nil)

// maxResponseSize bounds how much of an order-creation response is read.
const maxResponseSize = 1 << 20

// Client submits orders to a remote order-creation endpoint.
type Client struct {
	endpoint string
	http     *http.Client
}

// New returns a Client for the given endpoint URL. When httpClient is nil the
// default client is used; no extra timeout is layered on top of the transport.
func New(endpoint string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		endpoint: endpoint,
		http:     httpClient,
	}
}

// CreateOrder POSTs the customer details and cart lines to the endpoint.
//
// A response with success=true yields a CreateResult. A response with
// success=false (or one that cannot be parsed) yields a *checkout.RejectedError
// carrying the server's message, if any. Transport-level failures are returned
// as plain errors and are indistinguishable from each other to the caller.
func (c *Client) CreateOrder(ctx context.Context, form checkout.Form, lines []cart.Line) (*checkout.CreateResult, error) {
	body := encodeOrderRequest(form, lines)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(err, "build request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "send order")
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, errors.Wrap(err, "read response")
	}

	return decodeOrderResponse(data)
}

// encodeOrderRequest renders the wire request: the four customer fields plus
// the ordered cart_items sequence with id, name, price and quantity only.
func encodeOrderRequest(form checkout.Form, lines []cart.Line) []byte {
	var e jx.Encoder
	e.ObjStart()
	e.FieldStart("customer_name")
	e.Str(form.CustomerName)
	e.FieldStart("customer_email")
	e.Str(form.CustomerEmail)
	e.FieldStart("customer_phone")
	e.Str(form.CustomerPhone)
	e.FieldStart("delivery_address")
	e.Str(form.DeliveryAddress)
	e.FieldStart("cart_items")
	e.ArrStart()
	for _, ln := range lines {
		e.ObjStart()
		e.FieldStart("id")
		e.Int64(ln.Product.ID)
		e.FieldStart("name")
		e.Str(ln.Product.Name)
		e.FieldStart("price")
		e.Int64(ln.Product.Price)
		e.FieldStart("quantity")
		e.Int(ln.Quantity)
		e.ObjEnd()
	}
	e.ArrEnd()
	e.ObjEnd()
	return e.Bytes()
}

// decodeOrderResponse parses the wire response. Any body that cannot be
// parsed is treated the same as an explicit rejection without a message.
func decodeOrderResponse(data []byte) (*checkout.CreateResult, error) {
	var (
		success    bool
		orderID    int64
		paymentURL string
		serverErr  string
	)

	d := jx.DecodeBytes(data)
	err := d.Obj(func(d *jx.Decoder, key string) error {
		switch key {
		case "success":
			v, err := d.Bool()
			if err != nil {
				return err
			}
			success = v
		case "order_id":
			v, err := d.Int64()
			if err != nil {
				return err
			}
			orderID = v
		case "payment_url":
			if d.Next() == jx.Null {
				return d.Null()
			}
			v, err := d.Str()
			if err != nil {
				return err
			}
			paymentURL = v
		case "error":
			if d.Next() == jx.Null {
				return d.Null()
			}
			v, err := d.Str()
			if err != nil {
				return err
			}
			serverErr = v
		default:
			return d.Skip()
		}
		return nil
	})
	if err != nil {
		return nil, &checkout.RejectedError{}
	}

	if !success {
		return nil, &checkout.RejectedError{Message: serverErr}
	}

	return &checkout.CreateResult{
		OrderID:    orderID,
		PaymentURL: paymentURL,
	}, nil
}
