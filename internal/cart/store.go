package cart

import (
	"sync"

	"github.com/shopspring/decimal"
)

// Store holds the line items of one shopper's cart in insertion order.
// Every method is a single serialized transition; nothing here can fail.
type Store struct {
	mu          sync.Mutex
	items       []LineItem
	checkingOut bool
}

func NewStore() *Store {
	return &Store{items: []LineItem{}}
}

// AddItem bumps the quantity of the line matching the candidate's key, or
// appends a new line with quantity 1. It returns the resulting line.
func (s *Store) AddItem(c Candidate) LineItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.indexOf(c.Key()); i > -1 {
		s.items[i].Quantity++
		return s.items[i]
	}

	it := LineItem{
		ProductID: c.ProductID,
		Name:      c.Name,
		UnitPrice: c.UnitPrice,
		ImageRef:  c.ImageRef,
		Color:     c.Color,
		Size:      c.Size,
		Quantity:  1,
	}
	s.items = append(s.items, it)
	return it
}

// RemoveItem deletes the line for k. Missing keys are ignored.
func (s *Store) RemoveItem(k Key) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.removeLocked(k)
}

// UpdateQuantity replaces the quantity of the line for k. A quantity of zero or
// less removes the line. Missing keys are ignored; update never creates a line.
func (s *Store) UpdateQuantity(k Key, quantity int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if quantity <= 0 {
		return s.removeLocked(k)
	}

	i := s.indexOf(k)
	if i < 0 {
		return false
	}
	changed := s.items[i].Quantity != quantity
	s.items[i].Quantity = quantity
	return changed
}

// Clear empties the cart and reports whether it held anything.
func (s *Store) Clear() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	changed := len(s.items) > 0
	s.items = []LineItem{}
	return changed
}

// BeginCheckout claims the cart for one order submission. It returns false
// while another checkout holds the claim.
func (s *Store) BeginCheckout() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.checkingOut {
		return false
	}
	s.checkingOut = true
	return true
}

// EndCheckout releases the claim taken by BeginCheckout.
func (s *Store) EndCheckout() {
	s.mu.Lock()
	s.checkingOut = false
	s.mu.Unlock()
}

// Settle takes the submitted quantities out of the cart. Lines added or
// topped up after the submission was taken keep the difference; lines that
// drop to zero or below are removed.
func (s *Store) Settle(submitted []LineItem) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, sub := range submitted {
		i := s.indexOf(sub.Key())
		if i < 0 {
			continue
		}
		s.items[i].Quantity -= sub.Quantity
		if s.items[i].Quantity <= 0 {
			s.items = append(s.items[:i], s.items[i+1:]...)
		}
	}
}

// Items returns a copy of the lines in insertion order.
func (s *Store) Items() []LineItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.copyLocked()
}

func (s *Store) ItemCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return itemCount(s.items)
}

func (s *Store) Subtotal() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return subtotal(s.items)
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// Snapshot reads items, count and subtotal under one lock.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		Items:     s.copyLocked(),
		ItemCount: itemCount(s.items),
		Subtotal:  subtotal(s.items),
	}
}

func (s *Store) indexOf(k Key) int {
	for i := range s.items {
		if s.items[i].Key() == k {
			return i
		}
	}
	return -1
}

func (s *Store) removeLocked(k Key) bool {
	i := s.indexOf(k)
	if i < 0 {
		return false
	}
	s.items = append(s.items[:i], s.items[i+1:]...)
	return true
}

func (s *Store) copyLocked() []LineItem {
	out := make([]LineItem, len(s.items))
	copy(out, s.items)
	return out
}

func itemCount(items []LineItem) int {
	n := 0
	for _, it := range items {
		n += it.Quantity
	}
	return n
}

func subtotal(items []LineItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.LineTotal())
	}
	return total
}
