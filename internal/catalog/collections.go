package catalog

import (
	"math"

	"github.com/adsarees/storefront/internal/domain"
)

const (
	RelatedLimit    = 4
	DefaultDiscount = 20
)

// Featured returns the featured products in input order
func Featured(products []domain.Product) []domain.Product {
	result := make([]domain.Product, 0)
	for _, p := range products {
		if p.Featured {
			result = append(result, p)
		}
	}
	return result
}

// Related returns up to limit products of the same category, excluding p
func Related(p *domain.Product, all []domain.Product, limit int) []domain.Product {
	result := make([]domain.Product, 0, limit)
	for _, item := range all {
		if len(result) >= limit {
			break
		}
		if item.ID == p.ID || item.Category != p.Category {
			continue
		}
		result = append(result, item)
	}
	return result
}

// DiscountedProduct is a product priced for the discounts page
type DiscountedProduct struct {
	domain.Product
	OriginalPrice float64 `json:"original_price"`
	Percent       int     `json:"discount_percent"`
}

// Discounted applies percent off every product, rounding to whole rupees,
// then keeps those whose discounted price falls within [minPrice, maxPrice].
// A zero maxPrice means unbounded.
func Discounted(products []domain.Product, percent int, minPrice, maxPrice float64) []DiscountedProduct {
	if percent <= 0 || percent >= 100 {
		percent = DefaultDiscount
	}
	result := make([]DiscountedProduct, 0, len(products))
	for _, p := range products {
		d := DiscountedProduct{Product: p.Clone(), OriginalPrice: p.Price, Percent: percent}
		d.Price = math.Round(p.Price * float64(100-percent) / 100)
		if d.Price < minPrice || (maxPrice > 0 && d.Price > maxPrice) {
			continue
		}
		result = append(result, d)
	}
	return result
}
