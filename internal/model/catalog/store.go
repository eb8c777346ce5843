package catalog

import (
	"context"
	"strings"
)

// Store exposes the read-only catalog query surface.
type Store interface {
	List(ctx context.Context, limit, offset int) ([]Product, error)
	FindByID(ctx context.Context, id int) (Product, bool, error)
	Search(ctx context.Context, filter SearchFilter) ([]Product, error)
	FindByBrand(ctx context.Context, brand string, limit int) ([]Product, error)
	CountByBrand(ctx context.Context) (int, map[string]int, error)
}

// MemoryStore implements Store over a fixed slice, used when no database
// is configured and in tests.
type MemoryStore struct {
	items []Product
}

// NewMemoryStore returns a MemoryStore preloaded with the supplied products.
func NewMemoryStore(items []Product) *MemoryStore {
	return &MemoryStore{items: append([]Product(nil), items...)}
}

func (s *MemoryStore) List(_ context.Context, limit, offset int) ([]Product, error) {
	if offset >= len(s.items) {
		return []Product{}, nil
	}
	end := offset + limit
	if end > len(s.items) {
		end = len(s.items)
	}
	return append([]Product(nil), s.items[offset:end]...), nil
}

func (s *MemoryStore) FindByID(_ context.Context, id int) (Product, bool, error) {
	for _, item := range s.items {
		if item.ID == id {
			return item, true, nil
		}
	}
	return Product{}, false, nil
}

func (s *MemoryStore) Search(_ context.Context, filter SearchFilter) ([]Product, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = 10
	}

	results := make([]Product, 0, limit)
	for _, item := range s.items {
		if matchesFilter(item, filter) {
			results = append(results, item)
			if len(results) == limit {
				break
			}
		}
	}
	return results, nil
}

func (s *MemoryStore) FindByBrand(_ context.Context, brand string, limit int) ([]Product, error) {
	if limit <= 0 {
		limit = 10
	}
	results := make([]Product, 0, limit)
	for _, item := range s.items {
		if item.Brand != nil && containsFold(item.Brand.Name, brand) {
			results = append(results, item)
			if len(results) == limit {
				break
			}
		}
	}
	return results, nil
}

func (s *MemoryStore) CountByBrand(_ context.Context) (int, map[string]int, error) {
	counts := make(map[string]int)
	for _, item := range s.items {
		if item.Brand != nil {
			counts[strings.ToLower(item.Brand.Name)]++
		}
	}
	return len(s.items), counts, nil
}

func matchesFilter(item Product, filter SearchFilter) bool {
	if q := strings.TrimSpace(filter.Query); q != "" {
		hit := containsFold(item.Name, q) || containsFold(item.Description, q) ||
			(item.Brand != nil && containsFold(item.Brand.Name, q)) ||
			(item.Category != nil && containsFold(item.Category.Name, q))
		if !hit {
			return false
		}
	}
	if filter.Brand != "" && (item.Brand == nil || !containsFold(item.Brand.Name, filter.Brand)) {
		return false
	}
	if filter.Model != "" && !containsFold(item.Name, filter.Model) && !containsFold(item.Description, filter.Model) {
		return false
	}
	if filter.Category != "" && (item.Category == nil || !containsFold(item.Category.Name, filter.Category)) {
		return false
	}
	for _, pair := range filter.Attributes {
		if !hasAttribute(item, pair) {
			return false
		}
	}
	return true
}

func hasAttribute(item Product, pair AttributePair) bool {
	for _, attr := range item.Attributes {
		if containsFold(attr.Name, pair.Name) && containsFold(attr.Value, pair.Value) {
			return true
		}
	}
	return false
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(strings.TrimSpace(substr)))
}
