package catalog

import "fmt"

// Store is the loaded catalog. It is never modified after Load returns, so
// it can be shared between goroutines without locking.
type Store struct {
	items []Item
	byID  map[string]int
	index *skuIndex
}

func newStore(items []Item) *Store {
	s := &Store{
		items: items,
		byID:  make(map[string]int, len(items)),
	}
	for i, it := range items {
		s.byID[it.SKU] = i
	}
	s.index = buildSKUIndex(items)
	return s
}

// New builds a store from items that were validated elsewhere, e.g. in
// tests. SKUs must be unique and non-empty.
func New(items []Item) (*Store, error) {
	seen := make(map[string]struct{}, len(items))
	for _, it := range items {
		if it.SKU == "" {
			return nil, ErrEmptySKU
		}
		if _, dup := seen[it.SKU]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateSKU, it.SKU)
		}
		seen[it.SKU] = struct{}{}
	}
	cp := make([]Item, len(items))
	copy(cp, items)
	return newStore(cp), nil
}

// All returns the items in load order. The order is the ranking tie-break.
func (s *Store) All() []Item {
	if s == nil {
		return nil
	}
	out := make([]Item, len(s.items))
	copy(out, s.items)
	return out
}

// FindByID looks an item up by SKU.
func (s *Store) FindByID(sku string) (Item, bool) {
	if s == nil {
		return Item{}, false
	}
	i, ok := s.byID[sku]
	if !ok {
		return Item{}, false
	}
	return s.items[i], true
}

func (s *Store) Len() int {
	if s == nil {
		return 0
	}
	return len(s.items)
}
