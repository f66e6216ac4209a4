package inventory

import (
	"fmt"
	"strings"
	"sync"

	"github.com/shopspring/decimal"
)

const idPrefix = "SW"

// Store owns the sweets and the id counter. Every method takes the lock for
// its whole duration, so each call is atomic with respect to the others.
type Store struct {
	mu     sync.RWMutex
	m      map[string]*Item
	order  []string
	nextID int
	ledger ledger
}

func NewStore() *Store {
	return &Store{
		m:      make(map[string]*Item),
		nextID: 1,
		ledger: newLedger(maxLedgerEntries),
	}
}

// Add validates and stores a new sweet, returning its id. Ids are SW001,
// SW002, ... and are never handed out twice.
func (s *Store) Add(name, category string, price decimal.Decimal, quantity int) (string, error) {
	name = strings.TrimSpace(name)
	category = strings.TrimSpace(category)

	switch {
	case name == "":
		return "", invalid("name", "sweet name cannot be empty")
	case category == "":
		return "", invalid("category", "sweet category cannot be empty")
	case !price.IsPositive():
		return "", invalid("price", "sweet price must be positive")
	case quantity < 0:
		return "", invalid("quantity", "sweet quantity cannot be negative")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id := fmt.Sprintf("%s%03d", idPrefix, s.nextID)
	s.nextID++

	s.m[id] = &Item{
		ID:       id,
		Name:     name,
		Category: category,
		Price:    price,
		Quantity: quantity,
	}
	s.order = append(s.order, id)

	return id, nil
}

func (s *Store) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.m[id]; !ok {
		return false
	}
	delete(s.m, id)

	for i, v := range s.order {
		if v == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true
}

func (s *Store) GetByID(id string) (Item, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	it, ok := s.m[id]
	if !ok {
		return Item{}, false
	}
	return *it, true
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.m)
}

// ListAll returns every sweet in insertion order.
func (s *Store) ListAll() []Item {
	return s.filter(func(Item) bool { return true })
}

// SearchByName matches a case-insensitive substring of the name. An empty
// query matches nothing.
func (s *Store) SearchByName(query string) []Item {
	if query == "" {
		return []Item{}
	}
	q := strings.ToLower(query)
	return s.filter(func(it Item) bool {
		return strings.Contains(strings.ToLower(it.Name), q)
	})
}

// SearchByCategory matches the whole category, ignoring case. An empty query
// matches nothing.
func (s *Store) SearchByCategory(query string) []Item {
	if query == "" {
		return []Item{}
	}
	return s.filter(func(it Item) bool {
		return strings.EqualFold(it.Category, query)
	})
}

func (s *Store) SearchByPriceRange(lo, hi decimal.Decimal) ([]Item, error) {
	if lo.IsNegative() || hi.IsNegative() {
		return nil, invalid("price", "prices cannot be negative")
	}
	if lo.GreaterThan(hi) {
		return nil, invalid("price", "minimum price cannot be greater than maximum price")
	}

	return s.filter(func(it Item) bool {
		return it.Price.GreaterThanOrEqual(lo) && it.Price.LessThanOrEqual(hi)
	}), nil
}

func (s *Store) LowStock(threshold int) []Item {
	return s.filter(func(it Item) bool { return it.Quantity <= threshold })
}

func (s *Store) TotalInventoryValue() decimal.Decimal {
	s.mu.RLock()
	defer s.mu.RUnlock()

	total := decimal.Zero
	for _, id := range s.order {
		total = total.Add(s.m[id].Value())
	}
	return total
}

// Purchase takes quantity units out of stock. A failed purchase leaves the
// sweet untouched.
func (s *Store) Purchase(id string, quantity int) (PurchaseReceipt, error) {
	if quantity <= 0 {
		return PurchaseReceipt{}, invalid("quantity", "purchase quantity must be positive")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	it, ok := s.m[id]
	if !ok {
		return PurchaseReceipt{}, &NotFoundError{ID: id}
	}
	if it.Quantity < quantity {
		return PurchaseReceipt{}, &InsufficientStockError{
			ID:        id,
			Available: it.Quantity,
			Requested: quantity,
		}
	}

	prev := it.Quantity
	it.Quantity -= quantity
	total := it.Price.Mul(decimal.NewFromInt(int64(quantity)))

	s.ledger.record(Transaction{
		Kind:          KindPurchase,
		SweetID:       id,
		SweetName:     it.Name,
		Quantity:      quantity,
		UnitPrice:     it.Price,
		TotalCost:     &total,
		PreviousStock: prev,
		NewStock:      it.Quantity,
	})

	return PurchaseReceipt{
		SweetID:           id,
		SweetName:         it.Name,
		QuantityPurchased: quantity,
		UnitPrice:         it.Price,
		TotalCost:         total,
		RemainingStock:    it.Quantity,
	}, nil
}

func (s *Store) Restock(id string, quantity int) (RestockReceipt, error) {
	if quantity <= 0 {
		return RestockReceipt{}, invalid("quantity", "restock quantity must be positive")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	it, ok := s.m[id]
	if !ok {
		return RestockReceipt{}, &NotFoundError{ID: id}
	}

	prev := it.Quantity
	it.Quantity += quantity

	s.ledger.record(Transaction{
		Kind:          KindRestock,
		SweetID:       id,
		SweetName:     it.Name,
		Quantity:      quantity,
		UnitPrice:     it.Price,
		PreviousStock: prev,
		NewStock:      it.Quantity,
	})

	return RestockReceipt{
		SweetID:       id,
		SweetName:     it.Name,
		QuantityAdded: quantity,
		PreviousStock: prev,
		NewStock:      it.Quantity,
	}, nil
}

// Transactions returns the recorded purchases and restocks, oldest first.
func (s *Store) Transactions() []Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ledger.snapshot()
}

func (s *Store) filter(keep func(Item) bool) []Item {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Item, 0, len(s.order))
	for _, id := range s.order {
		it := *s.m[id]
		if keep(it) {
			out = append(out, it)
		}
	}
	return out
}
