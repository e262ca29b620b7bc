// Package handler exposes the storefront API over HTTP: the order-creation
// endpoint the checkout flow submits to, order lookups, and catalog reads.
package handler

import (
	"net/http"

	"github.com/xenking/cybershop/internal/domain/order"
	"github.com/xenking/cybershop/internal/domain/product"
)

// listOrdersLimit caps how many orders the order list endpoint returns.
const listOrdersLimit = 50

// Handler serves the storefront API, delegating business logic to the order
// service and the product repository.
type Handler struct {
	products product.Repository
	orders   *order.Service
}

// NewHandler constructs a Handler with the required domain dependencies.
func NewHandler(products product.Repository, orders *order.Service) *Handler {
	return &Handler{
		products: products,
		orders:   orders,
	}
}

// Register mounts the API routes on mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/products", h.ListProducts)
	mux.HandleFunc("GET /api/categories", h.ListCategories)
	mux.HandleFunc("POST /api/orders", h.CreateOrder)
	mux.HandleFunc("GET /api/orders", h.ListOrders)
	mux.HandleFunc("GET /api/orders/{id}", h.GetOrder)
}
