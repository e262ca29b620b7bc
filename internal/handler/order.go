package handler

import (
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"

	"github.com/xenking/cybershop/internal/domain/order"
)

// maxRequestSize bounds how much of an order-creation body is read.
const maxRequestSize = 1 << 20

// CreateOrder decodes the wire request, delegates to the order service, and
// answers with the success/failure wire shape the storefront core expects.
func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(io.LimitReader(r.Body, maxRequestSize))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "failed to read request body")
		return
	}

	req, err := decodeCreateOrderRequest(data)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.orders.CreateOrder(r.Context(), *req)
	if err != nil {
		h.writeCreateOrderError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, func(e *jx.Encoder) {
		e.ObjStart()
		e.FieldStart("success")
		e.Bool(true)
		e.FieldStart("order_id")
		e.Int64(result.OrderID)
		e.FieldStart("total_amount")
		e.Int64(result.TotalAmount)
		if result.PaymentURL != "" {
			e.FieldStart("payment_url")
			e.Str(result.PaymentURL)
		}
		e.FieldStart("message")
		e.Str("order created")
		e.ObjEnd()
	})
}

// writeCreateOrderError maps domain errors to wire failure responses.
func (h *Handler) writeCreateOrderError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, order.ErrMissingFields), errors.Is(err, order.ErrEmptyCart):
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	var iqErr *order.InvalidQuantityError
	if errors.As(err, &iqErr) {
		writeError(w, r, http.StatusUnprocessableEntity, iqErr.Error())
		return
	}

	writeInternalError(w, r, err)
}

// GetOrder returns one order with its items.
func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid order id")
		return
	}

	o, err := h.orders.GetOrder(r.Context(), id)
	if err != nil {
		if errors.Is(err, order.ErrNotFound) {
			writeError(w, r, http.StatusNotFound, "order not found")
			return
		}
		writeInternalError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, func(e *jx.Encoder) {
		e.ObjStart()
		e.FieldStart("id")
		e.Int64(o.ID)
		e.FieldStart("customer_name")
		e.Str(o.CustomerName)
		e.FieldStart("customer_email")
		e.Str(o.CustomerEmail)
		e.FieldStart("customer_phone")
		e.Str(o.CustomerPhone)
		e.FieldStart("delivery_address")
		e.Str(o.DeliveryAddress)
		e.FieldStart("total_amount")
		e.Int64(o.TotalAmount)
		e.FieldStart("status")
		e.Str(o.Status)
		e.FieldStart("created_at")
		e.Str(o.CreatedAt.Format(time.RFC3339))
		e.FieldStart("items")
		e.ArrStart()
		for _, item := range o.Items {
			e.ObjStart()
			e.FieldStart("product_id")
			e.Int64(item.ProductID)
			e.FieldStart("product_name")
			e.Str(item.ProductName)
			e.FieldStart("product_price")
			e.Int64(item.ProductPrice)
			e.FieldStart("quantity")
			e.Int(item.Quantity)
			e.ObjEnd()
		}
		e.ArrEnd()
		e.ObjEnd()
	})
}

// ListOrders returns the most recent orders, newest first.
func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.ListOrders(r.Context(), listOrdersLimit)
	if err != nil {
		writeInternalError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, func(e *jx.Encoder) {
		e.ObjStart()
		e.FieldStart("orders")
		e.ArrStart()
		for _, o := range orders {
			e.ObjStart()
			e.FieldStart("id")
			e.Int64(o.ID)
			e.FieldStart("customer_name")
			e.Str(o.CustomerName)
			e.FieldStart("total_amount")
			e.Int64(o.TotalAmount)
			e.FieldStart("status")
			e.Str(o.Status)
			e.FieldStart("created_at")
			e.Str(o.CreatedAt.Format(time.RFC3339))
			e.ObjEnd()
		}
		e.ArrEnd()
		e.ObjEnd()
	})
}

// decodeCreateOrderRequest parses the wire order-creation request. Unknown
// fields are skipped so presentation layers can send extra payload.
func decodeCreateOrderRequest(data []byte) (*order.CreateOrderRequest, error) {
	var req order.CreateOrderRequest

	d := jx.DecodeBytes(data)
	err := d.Obj(func(d *jx.Decoder, key string) error {
		switch key {
		case "customer_name":
			v, err := d.Str()
			if err != nil {
				return err
			}
			req.CustomerName = v
		case "customer_email":
			v, err := d.Str()
			if err != nil {
				return err
			}
			req.CustomerEmail = v
		case "customer_phone":
			v, err := d.Str()
			if err != nil {
				return err
			}
			req.CustomerPhone = v
		case "delivery_address":
			v, err := d.Str()
			if err != nil {
				return err
			}
			req.DeliveryAddress = v
		case "cart_items":
			return d.Arr(func(d *jx.Decoder) error {
				item, err := decodeCartItem(d)
				if err != nil {
					return err
				}
				req.Items = append(req.Items, *item)
				return nil
			})
		default:
			return d.Skip()
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "decode order request")
	}

	return &req, nil
}

func decodeCartItem(d *jx.Decoder) (*order.Item, error) {
	var item order.Item

	err := d.Obj(func(d *jx.Decoder, key string) error {
		switch key {
		case "id":
			v, err := d.Int64()
			if err != nil {
				return err
			}
			item.ProductID = v
		case "name":
			v, err := d.Str()
			if err != nil {
				return err
			}
			item.ProductName = v
		case "price":
			v, err := d.Int64()
			if err != nil {
				return err
			}
			item.ProductPrice = v
		case "quantity":
			v, err := d.Int()
			if err != nil {
				return err
			}
			item.Quantity = v
		default:
			return d.Skip()
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &item, nil
}
