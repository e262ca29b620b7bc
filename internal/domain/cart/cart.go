// Package cart implements the in-memory shopping cart for a single storefront
// session. Lines keep the order in which each product was first added, and the
// derived totals are recomputed from the lines on every read, so they can never
// go stale relative to a mutation.
package cart

import "github.com/xenking/cybershop/internal/domain/product"

// Line is one product-and-quantity pair in the cart. Quantity is always >= 1:
// a line that would reach zero is removed instead of kept.
type Line struct {
	Product  product.Product
	Quantity int
}

// Totals holds the derived cart aggregates: the sum of line quantities and the
// sum of quantity times unit price, in minor currency units.
type Totals struct {
	Items int
	Price int64
}

// Store owns the mapping from product to requested quantity for one session.
//
// Store is not safe for concurrent use. The storefront drives all mutations
// from a single event loop, one user action at a time.
type Store struct {
	lines []Line
	index map[int64]int // product ID -> position in lines
}

// New returns an empty cart.
func New() *Store {
	return &Store{
		index: make(map[int64]int),
	}
}

// AddItem increments the quantity of the line for p by one, appending a new
// line with quantity 1 when the product is not in the cart yet. Adding the
// same product twice yields one line with quantity 2, never two lines.
func (s *Store) AddItem(p product.Product) {
	if i, ok := s.index[p.ID]; ok {
		s.lines[i].Quantity++
		return
	}
	s.index[p.ID] = len(s.lines)
	s.lines = append(s.lines, Line{Product: p, Quantity: 1})
}

// RemoveItem deletes the line for productID. Removing an absent product is a
// no-op, not an error.
func (s *Store) RemoveItem(productID int64) {
	i, ok := s.index[productID]
	if !ok {
		return
	}
	s.removeAt(i)
}

// SetQuantity adjusts the line for productID by delta, clamping at zero.
// Reaching zero removes the line. SetQuantity never creates a line: adjusting
// an absent product is a no-op regardless of delta, callers use AddItem to
// put a product into the cart.
func (s *Store) SetQuantity(productID int64, delta int) {
	i, ok := s.index[productID]
	if !ok {
		return
	}
	q := s.lines[i].Quantity + delta
	if q <= 0 {
		s.removeAt(i)
		return
	}
	s.lines[i].Quantity = q
}

// Clear removes all lines. Called only once a checkout has been confirmed.
func (s *Store) Clear() {
	s.lines = s.lines[:0]
	clear(s.index)
}

// Totals recomputes the aggregates over the current lines.
func (s *Store) Totals() Totals {
	var t Totals
	for _, ln := range s.lines {
		t.Items += ln.Quantity
		t.Price += ln.Product.Price * int64(ln.Quantity)
	}
	return t
}

// Len returns the number of lines in the cart.
func (s *Store) Len() int {
	return len(s.lines)
}

// Snapshot returns a copy of the current lines in insertion order. Mutating
// the returned slice does not affect the cart.
func (s *Store) Snapshot() []Line {
	out := make([]Line, len(s.lines))
	copy(out, s.lines)
	return out
}

// removeAt deletes the line at position i and reindexes the lines after it.
func (s *Store) removeAt(i int) {
	delete(s.index, s.lines[i].Product.ID)
	s.lines = append(s.lines[:i], s.lines[i+1:]...)
	for j := i; j < len(s.lines); j++ {
		s.index[s.lines[j].Product.ID] = j
	}
}
