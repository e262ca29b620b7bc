package handler

import (
	"net/http"

	"github.com/go-faster/jx"

	"github.com/xenking/cybershop/internal/domain/product"
)

// ListProducts returns the catalog, optionally filtered with ?category=.
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	var (
		products []product.Product
		err      error
	)
	if category := r.URL.Query().Get("category"); category != "" {
		products, err = h.products.ListByCategory(r.Context(), category)
	} else {
		products, err = h.products.List(r.Context())
	}
	if err != nil {
		writeInternalError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, func(e *jx.Encoder) {
		e.ObjStart()
		e.FieldStart("products")
		e.ArrStart()
		for _, p := range products {
			encodeProduct(e, p)
		}
		e.ArrEnd()
		e.ObjEnd()
	})
}

// ListCategories returns the fixed category labels.
func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.products.Categories(r.Context())
	if err != nil {
		writeInternalError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, func(e *jx.Encoder) {
		e.ObjStart()
		e.FieldStart("categories")
		e.ArrStart()
		for _, c := range categories {
			e.Str(c)
		}
		e.ArrEnd()
		e.ObjEnd()
	})
}

func encodeProduct(e *jx.Encoder, p product.Product) {
	e.ObjStart()
	e.FieldStart("id")
	e.Int64(p.ID)
	e.FieldStart("name")
	e.Str(p.Name)
	e.FieldStart("price")
	e.Int64(p.Price)
	e.FieldStart("category")
	e.Str(p.Category)
	e.FieldStart("image")
	e.Str(p.Image)
	e.FieldStart("featured")
	e.Bool(p.Featured)
	e.ObjEnd()
}
