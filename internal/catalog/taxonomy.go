package catalog

import "strings"

// Category is one entry of the closed category enumeration
type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

var Categories = []Category{
	{ID: "kanchipuram", Name: "Kanchipuram Silk"},
	{ID: "banarasi", Name: "Banarasi Silk"},
	{ID: "mysore", Name: "Mysore Silk"},
	{ID: "pochampally", Name: "Pochampally Ikat"},
	{ID: "dharmavaram", Name: "Dharmavaram"},
	{ID: "patola", Name: "Patola"},
	{ID: "gadwal", Name: "Gadwal"},
	{ID: "tussar", Name: "Tussar Silk"},
	{ID: "handloom", Name: "Handloom Cotton"},
	{ID: "kerala", Name: "Kerala Cotton"},
	{ID: "linen", Name: "Linen"},
	{ID: "party", Name: "Party Wear"},
}

var Colors = []string{
	"maroon", "gold", "teal", "silver", "purple", "blue", "red", "yellow",
	"green", "black", "beige", "multicolor", "cream", "grey", "pink",
}

// Material types
const (
	MaterialSilk      = "silk"
	MaterialCotton    = "cotton"
	MaterialLinen     = "linen"
	MaterialSynthetic = "synthetic"
	MaterialBlended   = "blended"
)

var MaterialTypes = []string{MaterialSilk, MaterialCotton, MaterialLinen, MaterialSynthetic, MaterialBlended}

// materialTypeOf maps the free text material names used by the shop
var materialTypeOf = map[string]string{
	"pure silk":     MaterialSilk,
	"mysore silk":   MaterialSilk,
	"banarasi silk": MaterialSilk,
	"ikat silk":     MaterialSilk,
	"patola silk":   MaterialSilk,
	"tussar silk":   MaterialSilk,
	"pure cotton":   MaterialCotton,
	"cotton":        MaterialCotton,
	"cotton-silk":   MaterialBlended,
	"pure linen":    MaterialLinen,
	"synthetic":     MaterialSynthetic,
}

// Materials lists the known material names in display order
var Materials = []string{
	"Pure Silk", "Mysore Silk", "Banarasi Silk", "Ikat Silk", "Patola Silk",
	"Cotton-Silk", "Tussar Silk", "Pure Cotton", "Cotton", "Pure Linen", "Synthetic",
}

// MaterialTypeOf returns the coarse material type of a material name.
// Unknown names fall back to keyword matching, then to "".
func MaterialTypeOf(material string) string {
	key := strings.ToLower(strings.TrimSpace(material))
	if t, ok := materialTypeOf[key]; ok {
		return t
	}
	switch {
	case strings.Contains(key, "silk") && strings.Contains(key, "cotton"):
		return MaterialBlended
	case strings.Contains(key, "silk"):
		return MaterialSilk
	case strings.Contains(key, "cotton"):
		return MaterialCotton
	case strings.Contains(key, "linen"):
		return MaterialLinen
	case strings.Contains(key, "synthetic"), strings.Contains(key, "polyester"), strings.Contains(key, "georgette"):
		return MaterialSynthetic
	}
	return ""
}

func IsCategory(id string) bool {
	for _, c := range Categories {
		if c.ID == id {
			return true
		}
	}
	return false
}

func CategoryName(id string) string {
	for _, c := range Categories {
		if c.ID == id {
			return c.Name
		}
	}
	return id
}
