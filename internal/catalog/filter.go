package catalog

import (
	"strings"

	"github.com/adsarees/storefront/internal/domain"
)

// Filter is the shopper facing filter state. Zero values disable a predicate,
// "all" disables Category and MaterialType.
type Filter struct {
	Search       string   `json:"search"`
	Category     string   `json:"category"`
	MaterialType string   `json:"materialType"`
	MinPrice     float64  `json:"minPrice"`
	MaxPrice     float64  `json:"maxPrice"` // 0 means unbounded
	Colors       []string `json:"colors"`
	Materials    []string `json:"materials"`
}

func isAll(v string) bool {
	v = strings.TrimSpace(v)
	return v == "" || strings.EqualFold(v, "all")
}

// Match reports whether p satisfies every active predicate
func (f Filter) Match(p *domain.Product) bool {
	if q := strings.ToLower(strings.TrimSpace(f.Search)); q != "" {
		if !strings.Contains(strings.ToLower(p.Name), q) &&
			!strings.Contains(strings.ToLower(p.Description), q) {
			return false
		}
	}
	if !isAll(f.Category) && !strings.EqualFold(p.Category, strings.TrimSpace(f.Category)) {
		return false
	}
	if !isAll(f.MaterialType) && !strings.EqualFold(p.MaterialType, strings.TrimSpace(f.MaterialType)) {
		return false
	}
	if p.Price < f.MinPrice {
		return false
	}
	if f.MaxPrice > 0 && p.Price > f.MaxPrice {
		return false
	}
	// every selected color must be present
	for _, c := range f.Colors {
		if strings.TrimSpace(c) == "" {
			continue
		}
		if !p.HasColor(strings.TrimSpace(c)) {
			return false
		}
	}
	if len(f.Materials) > 0 {
		found := false
		for _, m := range f.Materials {
			if strings.EqualFold(strings.TrimSpace(m), p.Material) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// Apply returns the products matching f, keeping input order
func Apply(products []domain.Product, f Filter) []domain.Product {
	result := make([]domain.Product, 0, len(products))
	for i := range products {
		if f.Match(&products[i]) {
			result = append(result, products[i])
		}
	}
	return result
}

// ActiveOnly drops products hidden from shoppers
func ActiveOnly(products []domain.Product) []domain.Product {
	result := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if p.Active {
			result = append(result, p)
		}
	}
	return result
}
