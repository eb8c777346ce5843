package catalog

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/MIGUELNINOSILVA/makers/internal/model/catalog"
)

// Service answers the read-only catalog queries the chat agent and the
// storefront rely on.
type Service struct {
	store catalog.Store
}

// NewService wraps a catalog store.
func NewService(store catalog.Store) *Service {
	return &Service{store: store}
}

// BrandProduct is the flattened per-brand view, with a one-line summary of
// the key characteristics.
type BrandProduct struct {
	ID              int                        `json:"id"`
	Name            string                     `json:"name"`
	Description     string                     `json:"description"`
	Price           float64                    `json:"price"`
	SKU             string                     `json:"sku"`
	Stock           int                        `json:"stock"`
	Brand           string                     `json:"brand,omitempty"`
	Category        string                     `json:"category,omitempty"`
	Characteristics []catalog.ProductAttribute `json:"characteristics"`
	Summary         string                     `json:"summary"`
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]catalog.Product, error) {
	return s.store.List(ctx, limit, offset)
}

func (s *Service) Get(ctx context.Context, id int) (catalog.Product, bool, error) {
	return s.store.FindByID(ctx, id)
}

func (s *Service) Search(ctx context.Context, filter catalog.SearchFilter) ([]catalog.Product, error) {
	return s.store.Search(ctx, filter)
}

// ByBrand returns the brand's products with characteristics and summaries.
func (s *Service) ByBrand(ctx context.Context, brand string) ([]BrandProduct, error) {
	products, err := s.store.FindByBrand(ctx, brand, 10)
	if err != nil {
		return nil, err
	}

	formatted := make([]BrandProduct, 0, len(products))
	for _, product := range products {
		entry := BrandProduct{
			ID:              product.ID,
			Name:            product.Name,
			Description:     product.Description,
			Price:           product.Price,
			SKU:             product.SKU,
			Stock:           product.StockQuantity,
			Characteristics: product.Attributes,
			Summary:         SummarizeAttributes(product.Attributes),
		}
		if entry.Characteristics == nil {
			entry.Characteristics = []catalog.ProductAttribute{}
		}
		if product.Brand != nil {
			entry.Brand = product.Brand.Name
		}
		if product.Category != nil {
			entry.Category = product.Category.Name
		}
		formatted = append(formatted, entry)
	}
	return formatted, nil
}

// InventorySummary reports the total product count plus a `<brand>_count`
// entry per brand, the shape the agent consumes for stock questions.
func (s *Service) InventorySummary(ctx context.Context) (map[string]int, error) {
	total, counts, err := s.store.CountByBrand(ctx)
	if err != nil {
		return nil, err
	}

	summary := map[string]int{"total_products": total}
	for brand, count := range counts {
		summary[fmt.Sprintf("%s_count", strings.ToLower(brand))] = count
	}
	return summary, nil
}

var keyAttributePatterns = []struct {
	label   string
	pattern *regexp.Regexp
}{
	{"Processor", regexp.MustCompile(`(?i)processor|cpu`)},
	{"RAM", regexp.MustCompile(`(?i)ram|memory`)},
	{"Storage", regexp.MustCompile(`(?i)storage|disk|ssd|hdd`)},
	{"Screen", regexp.MustCompile(`(?i)screen|display`)},
}

// SummarizeAttributes condenses the key hardware characteristics into one
// human-readable line.
func SummarizeAttributes(attrs []catalog.ProductAttribute) string {
	var parts []string
	for _, key := range keyAttributePatterns {
		for _, attr := range attrs {
			if key.pattern.MatchString(attr.Name) {
				parts = append(parts, fmt.Sprintf("%s: %s", key.label, attr.Value))
				break
			}
		}
	}
	if len(parts) == 0 {
		return "Detailed specifications available."
	}
	return strings.Join(parts, ", ")
}

// ParseAttributePairs decodes the `Name:Value,Name:Value` query format.
// Malformed fragments are skipped.
func ParseAttributePairs(raw string) []catalog.AttributePair {
	if strings.TrimSpace(raw) == "" {
		return nil
	}

	var pairs []catalog.AttributePair
	for _, fragment := range strings.Split(raw, ",") {
		name, value, ok := strings.Cut(fragment, ":")
		name, value = strings.TrimSpace(name), strings.TrimSpace(value)
		if ok && name != "" && value != "" {
			pairs = append(pairs, catalog.AttributePair{Name: name, Value: value})
		}
	}
	return pairs
}
