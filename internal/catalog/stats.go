package catalog

import (
	"math"

	"github.com/adsarees/storefront/internal/domain"
	"github.com/montanaflynn/stats"
)

// Summary is the back office dashboard
type Summary struct {
	Total          int            `json:"total"`
	Featured       int            `json:"featured"`
	Active         int            `json:"active"`
	MinPrice       float64        `json:"min_price"`
	MaxPrice       float64        `json:"max_price"`
	AvgPrice       float64        `json:"avg_price"`
	MedianPrice    float64        `json:"median_price"`
	CategoryCounts map[string]int `json:"category_counts"`
	MaterialCounts map[string]int `json:"material_counts"`
}

// Stats summarises the collection, price figures are 0 for an empty set
func Stats(products []domain.Product) Summary {
	s := Summary{
		Total:          len(products),
		CategoryCounts: make(map[string]int),
		MaterialCounts: make(map[string]int),
	}
	prices := make(stats.Float64Data, 0, len(products))
	for _, p := range products {
		if p.Featured {
			s.Featured++
		}
		if p.Active {
			s.Active++
		}
		s.CategoryCounts[p.Category]++
		if p.MaterialType != "" {
			s.MaterialCounts[p.MaterialType]++
		}
		prices = append(prices, p.Price)
	}
	if len(prices) == 0 {
		return s
	}
	s.MinPrice, _ = prices.Min()
	s.MaxPrice, _ = prices.Max()
	mean, _ := prices.Mean()
	s.AvgPrice = math.Round(mean)
	s.MedianPrice, _ = prices.Median()
	return s
}
