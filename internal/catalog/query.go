package catalog

import (
	"net/url"
	"strings"

	"github.com/spf13/cast"

	"github.com/adsarees/storefront/pkg/common"
)

// FilterFromQuery reads the filter state from request parameters. Colors and
// materials accept repeated parameters, comma separated values or both.
func FilterFromQuery(q url.Values) Filter {
	return Filter{
		Search:       strings.TrimSpace(q.Get("search")),
		Category:     strings.TrimSpace(q.Get("category")),
		MaterialType: strings.TrimSpace(firstOf(q, "materialType", "material_type")),
		MinPrice:     nonNegative(firstOf(q, "minPrice", "min_price")),
		MaxPrice:     nonNegative(firstOf(q, "maxPrice", "max_price")),
		Colors:       listParam(q, "color", "colors"),
		Materials:    listParam(q, "material", "materials"),
	}
}

func firstOf(q url.Values, names ...string) string {
	for _, name := range names {
		if v := q.Get(name); v != "" {
			return v
		}
	}
	return ""
}

func nonNegative(s string) float64 {
	v, err := cast.ToFloat64E(strings.TrimSpace(s))
	if err != nil || v < 0 {
		return 0
	}
	return v
}

func listParam(q url.Values, names ...string) []string {
	var result []string
	for _, name := range names {
		for _, raw := range q[name] {
			for _, item := range common.SplitTrim(raw, ",") {
				if !common.InSlice(item, result) {
					result = append(result, item)
				}
			}
		}
	}
	return result
}
