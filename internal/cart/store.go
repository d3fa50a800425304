// Package cart holds the in-session shopping cart.
package cart

import (
	"sync"

	"shoes-store/internal/model"
)

// MaxQuantity is the largest quantity a single cart line may hold.
const MaxQuantity = 10

// Store is the authoritative list of cart lines for one browsing session.
// Lines are unique by (productId, selectedSize).
type Store struct {
	mu    sync.Mutex
	lines []model.CartLine
}

// NewStore returns an empty cart.
func NewStore() *Store {
	return &Store{}
}

// ValidateQuantity checks that q is within [1, MaxQuantity].
// Range enforcement is the caller's job; the store itself does not clamp.
func ValidateQuantity(q int) error {
	if q < 1 || q > MaxQuantity {
		return model.ErrInvalidQuantity
	}
	return nil
}

// AddItem merges quantity into the line for (product, size), or appends a new
// line priced at the product's current discounted price. A quantity below 1
// counts as 1.
func (s *Store) AddItem(product model.Product, size, quantity int) {
	if quantity < 1 {
		quantity = 1
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.indexOf(product.ID, size); i >= 0 {
		s.lines[i].Quantity += quantity
		return
	}

	s.lines = append(s.lines, model.CartLine{
		ProductID:    product.ID,
		Name:         product.Name,
		Image:        product.Image,
		SelectedSize: size,
		Quantity:     quantity,
		UnitPrice:    product.DiscountedPrice,
	})
}

// UpdateQuantity replaces the quantity on the matching line. It reports
// whether a line matched; a miss is a no-op.
func (s *Store) UpdateQuantity(productID, size, newQuantity int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(productID, size)
	if i < 0 {
		return false
	}
	s.lines[i].Quantity = newQuantity
	return true
}

// RemoveItem deletes the matching line. It reports whether a line was removed.
func (s *Store) RemoveItem(productID, size int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(productID, size)
	if i < 0 {
		return false
	}
	s.lines = append(s.lines[:i], s.lines[i+1:]...)
	return true
}

// Quantity returns the quantity held for (productID, size), or 0.
func (s *Store) Quantity(productID, size int) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.indexOf(productID, size); i >= 0 {
		return s.lines[i].Quantity
	}
	return 0
}

// Subtotal is the sum of unitPrice × quantity over all lines.
func (s *Store) Subtotal() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	return subtotal(s.lines)
}

// Lines returns a copy of the current lines in insertion order.
func (s *Store) Lines() []model.CartLine {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.CartLine, len(s.lines))
	copy(out, s.lines)
	return out
}

// Len returns the number of distinct lines.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.lines)
}

// ItemCount returns the total quantity across all lines.
func (s *Store) ItemCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for _, l := range s.lines {
		n += l.Quantity
	}
	return n
}

// IsEmpty reports whether the cart has no lines.
func (s *Store) IsEmpty() bool {
	return s.Len() == 0
}

// Clear removes every line.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lines = nil
}

// View returns a consistent snapshot for rendering.
func (s *Store) View() model.CartView {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := make([]model.CartLine, len(s.lines))
	copy(items, s.lines)

	count := 0
	for _, l := range s.lines {
		count += l.Quantity
	}

	return model.CartView{
		Items:     items,
		ItemCount: count,
		Subtotal:  subtotal(s.lines),
	}
}

func (s *Store) indexOf(productID, size int) int {
	for i, l := range s.lines {
		if l.ProductID == productID && l.SelectedSize == size {
			return i
		}
	}
	return -1
}

func subtotal(lines []model.CartLine) int64 {
	var total int64
	for _, l := range lines {
		total += l.UnitPrice * int64(l.Quantity)
	}
	return total
}
