package domain

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// Product is a saree listed in the storefront catalog
type Product struct {
	ID               string         `gorm:"primaryKey;size:64" json:"id" form:"id"`
	Name             string         `gorm:"index;size:200" json:"name" form:"name"`
	Description      string         `gorm:"size:1000" json:"description" form:"description"`
	Details          string         `json:"details" form:"details"`
	Category         string         `gorm:"index;size:64" json:"category" form:"category"`
	SubCategory      string         `gorm:"size:64" json:"sub_category" form:"sub_category"`
	Price            float64        `json:"price" form:"price"`
	DiscountPrice    *float64       `json:"discount_price,omitempty" form:"discount_price"`
	CostPrice        *float64       `json:"cost_price,omitempty" form:"cost_price"`
	Stock            *int           `json:"stock,omitempty" form:"stock"`
	Sku              string         `gorm:"size:64" json:"sku" form:"sku"`
	Material         string         `gorm:"size:64" json:"material" form:"material"`
	MaterialType     string         `gorm:"index;size:32" json:"material_type" form:"material_type"`
	Image            string         `gorm:"size:1024" json:"image" form:"image"` // primary image
	Sizes            []string       `gorm:"serializer:json" json:"sizes,omitempty"`
	Tags             []string       `gorm:"serializer:json" json:"tags,omitempty"`
	WeightGrams      *float64       `json:"weight_grams,omitempty" form:"weight_grams"`
	Origin           string         `json:"origin" form:"origin"`
	CareInstructions string         `json:"care_instructions" form:"care_instructions"`
	Featured         bool           `gorm:"index" json:"is_featured" form:"is_featured"`
	Active           bool           `gorm:"index" json:"is_active" form:"is_active"`
	DateAdded        string         `gorm:"size:10" json:"date_added" form:"date_added"`     // YYYY-MM-DD
	LastUpdated      string         `gorm:"size:10" json:"last_updated" form:"last_updated"` // YYYY-MM-DD
	Colors           []string       `gorm:"-" json:"colors"`
	Images           []string       `gorm:"-" json:"images"`
	ColorRows        []ProductColor `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"-"`
	ImageRows        []ProductImage `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
}

// TableName Specify table name
func (Product) TableName() string {
	return "sarees"
}

// ProductColor one color tag of a product, Sort keeps the tag order
type ProductColor struct {
	ID        int64  `gorm:"primaryKey;autoIncrement" json:"-"`
	ProductID string `gorm:"index;size:64" json:"product_id"`
	Color     string `gorm:"size:32" json:"color"`
	Sort      int    `json:"sort"`
}

func (ProductColor) TableName() string {
	return "saree_colors"
}

// ProductImage one image reference of a product
type ProductImage struct {
	ID        int64  `gorm:"primaryKey;autoIncrement" json:"-"`
	ProductID string `gorm:"index;size:64" json:"product_id"`
	ImagePath string `gorm:"size:1024" json:"image_path"`
	IsPrimary bool   `json:"is_primary"`
	Sort      int    `json:"sort"`
}

func (ProductImage) TableName() string {
	return "saree_images"
}

// SyncMedia keeps Image and Images consistent: the primary image is always
// the first entry of Images.
func (p *Product) SyncMedia() {
	images := make([]string, 0, len(p.Images)+1)
	seen := make(map[string]bool)
	for _, img := range p.Images {
		img = strings.TrimSpace(img)
		if img == "" || seen[img] {
			continue
		}
		seen[img] = true
		images = append(images, img)
	}
	primary := strings.TrimSpace(p.Image)
	if primary != "" && !seen[primary] {
		images = append([]string{primary}, images...)
	}
	if primary == "" && len(images) > 0 {
		primary = images[0]
	}
	p.Image = primary
	p.Images = images
}

// HasColor reports whether the product carries the color tag, ignoring case
func (p *Product) HasColor(color string) bool {
	for _, c := range p.Colors {
		if strings.EqualFold(c, color) {
			return true
		}
	}
	return false
}

// BeforeSave rebuilds the child rows from Colors and Images
func (p *Product) BeforeSave(tx *gorm.DB) error {
	p.SyncMedia()
	p.ColorRows = make([]ProductColor, 0, len(p.Colors))
	for i, c := range p.Colors {
		p.ColorRows = append(p.ColorRows, ProductColor{ProductID: p.ID, Color: c, Sort: i})
	}
	p.ImageRows = make([]ProductImage, 0, len(p.Images))
	for i, img := range p.Images {
		p.ImageRows = append(p.ImageRows, ProductImage{ProductID: p.ID, ImagePath: img, IsPrimary: img == p.Image, Sort: i})
	}
	return nil
}

// AfterFind flattens preloaded child rows back into Colors and Images
func (p *Product) AfterFind(tx *gorm.DB) error {
	if len(p.ColorRows) > 0 {
		p.Colors = make([]string, 0, len(p.ColorRows))
		for _, r := range p.ColorRows {
			p.Colors = append(p.Colors, r.Color)
		}
	}
	if len(p.ImageRows) > 0 {
		p.Images = make([]string, 0, len(p.ImageRows))
		for _, r := range p.ImageRows {
			p.Images = append(p.Images, r.ImagePath)
			if r.IsPrimary {
				p.Image = r.ImagePath
			}
		}
	}
	if p.Colors == nil {
		p.Colors = []string{}
	}
	if p.Images == nil {
		p.Images = []string{}
	}
	return nil
}

// Clone returns a deep copy, snapshots hand out copies so callers cannot
// mutate the stored collection
func (p Product) Clone() Product {
	c := p
	c.Colors = append([]string{}, p.Colors...)
	c.Images = append([]string{}, p.Images...)
	c.Sizes = append([]string(nil), p.Sizes...)
	c.Tags = append([]string(nil), p.Tags...)
	c.ColorRows = nil
	c.ImageRows = nil
	if p.DiscountPrice != nil {
		v := *p.DiscountPrice
		c.DiscountPrice = &v
	}
	if p.CostPrice != nil {
		v := *p.CostPrice
		c.CostPrice = &v
	}
	if p.Stock != nil {
		v := *p.Stock
		c.Stock = &v
	}
	if p.WeightGrams != nil {
		v := *p.WeightGrams
		c.WeightGrams = &v
	}
	return c
}
