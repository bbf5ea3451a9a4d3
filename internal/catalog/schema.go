package catalog

import (
	"fmt"
	"math"
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/adsarees/storefront/internal/domain"
	"github.com/adsarees/storefront/pkg/common"
	"github.com/go-playground/validator/v10"
)

var productCodeRegexp = regexp.MustCompile(`^ADSAR-\d{4}-\d{3}$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	_ = v.RegisterValidation("product_code", func(fl validator.FieldLevel) bool {
		return productCodeRegexp.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("category", func(fl validator.FieldLevel) bool {
		return IsCategory(fl.Field().String())
	})
	_ = v.RegisterValidation("finite", func(fl validator.FieldLevel) bool {
		switch fl.Field().Kind() {
		case reflect.Float32, reflect.Float64:
			f := fl.Field().Float()
			return !math.IsInf(f, 0) && !math.IsNaN(f)
		}
		return true
	})
	return v
}

// FieldError is one failed rule
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors lists every failed rule of one record
type ValidationErrors []FieldError

func (ve ValidationErrors) Error() string {
	msgs := make([]string, 0, len(ve))
	for _, e := range ve {
		msgs = append(msgs, e.Message)
	}
	return strings.Join(msgs, "; ")
}

func describe(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "min":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("%s must have at least %s item(s)", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "product_code":
		return field + " must match ADSAR-YYYY-NNN"
	case "datetime":
		return field + " must be a YYYY-MM-DD date"
	case "finite":
		return field + " must be a finite number"
	case "category":
		return fmt.Sprintf("%s %q is not a known category", field, fe.Value())
	}
	return fmt.Sprintf("%s failed %s", field, fe.Tag())
}

// Validate checks v against its validate tags
func Validate(v interface{}) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	result := make(ValidationErrors, 0, len(verrs))
	for _, fe := range verrs {
		result = append(result, FieldError{Field: fe.Field(), Message: describe(fe)})
	}
	return result
}

// ProductForm is the admin create/edit payload
type ProductForm struct {
	ID               string   `json:"id"`
	Name             string   `json:"name" validate:"required,max=200"`
	Price            float64  `json:"price" validate:"finite,gt=0"`
	DiscountPrice    *float64 `json:"discount_price" validate:"omitempty,finite,gte=0"`
	CostPrice        *float64 `json:"cost_price" validate:"omitempty,finite,gte=0"`
	Stock            *int     `json:"stock" validate:"omitempty,gte=0"`
	Sku              string   `json:"sku"`
	Description      string   `json:"description" validate:"required,max=1000"`
	Details          string   `json:"details"`
	Category         string   `json:"category" validate:"required,category"`
	SubCategory      string   `json:"sub_category"`
	Material         string   `json:"material" validate:"required"`
	MaterialType     string   `json:"material_type"`
	Image            string   `json:"image"`
	Images           []string `json:"images" validate:"dive,required"`
	Colors           []string `json:"colors" validate:"dive,required"`
	Sizes            []string `json:"sizes"`
	Tags             []string `json:"tags"`
	WeightGrams      *float64 `json:"weight_grams" validate:"omitempty,finite,gte=0"`
	Origin           string   `json:"origin"`
	CareInstructions string   `json:"care_instructions"`
	Featured         bool     `json:"is_featured"`
	Active           *bool    `json:"is_active"`
	DateAdded        string   `json:"date_added" validate:"omitempty,datetime=2006-01-02"`
}

// Normalize trims text fields and lower-cases tags
func (f *ProductForm) Normalize() {
	f.ID = strings.TrimSpace(f.ID)
	f.Name = strings.TrimSpace(f.Name)
	f.Description = strings.TrimSpace(f.Description)
	f.Category = strings.ToLower(strings.TrimSpace(f.Category))
	f.Material = strings.TrimSpace(f.Material)
	f.Colors = normalizeList(f.Colors, true)
	f.Images = normalizeList(f.Images, false)
	f.Sizes = normalizeList(f.Sizes, false)
	f.Tags = normalizeList(f.Tags, false)
}

func normalizeList(items []string, lower bool) []string {
	result := make([]string, 0, len(items))
	for _, s := range items {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if lower {
			s = strings.ToLower(s)
		}
		result = append(result, s)
	}
	return result
}

// ToProduct builds the record to persist. A missing id gets a new time
// based one and a blank material type is derived from the material.
func (f *ProductForm) ToProduct(now time.Time) *domain.Product {
	p := &domain.Product{
		ID:               f.ID,
		Name:             f.Name,
		Description:      f.Description,
		Details:          f.Details,
		Category:         f.Category,
		SubCategory:      f.SubCategory,
		Price:            f.Price,
		DiscountPrice:    f.DiscountPrice,
		CostPrice:        f.CostPrice,
		Stock:            f.Stock,
		Sku:              f.Sku,
		Material:         f.Material,
		MaterialType:     f.MaterialType,
		Image:            strings.TrimSpace(f.Image),
		Images:           f.Images,
		Colors:           f.Colors,
		Sizes:            f.Sizes,
		Tags:             f.Tags,
		WeightGrams:      f.WeightGrams,
		Origin:           f.Origin,
		CareInstructions: f.CareInstructions,
		Featured:         f.Featured,
		Active:           true,
		DateAdded:        f.DateAdded,
		LastUpdated:      common.Today(now),
	}
	if p.ID == "" {
		p.ID = common.NewProductID()
	}
	if f.Active != nil {
		p.Active = *f.Active
	}
	if p.MaterialType == "" {
		p.MaterialType = MaterialTypeOf(p.Material)
	}
	if p.DateAdded == "" {
		p.DateAdded = common.Today(now)
	}
	if p.Colors == nil {
		p.Colors = []string{}
	}
	p.SyncMedia()
	return p
}

// ImportRecord is one row of a bulk import file
type ImportRecord struct {
	ProductID        string   `json:"product_id" mapstructure:"product_id" validate:"required,product_code"`
	Name             string   `json:"name" mapstructure:"name" validate:"required,min=3,max=100"`
	Description      string   `json:"description" mapstructure:"description" validate:"max=1000"`
	Category         string   `json:"category" mapstructure:"category" validate:"required"`
	SubCategory      string   `json:"sub_category" mapstructure:"sub_category" validate:"required"`
	Price            float64  `json:"price" mapstructure:"price" validate:"finite,gt=0"`
	DiscountPrice    *float64 `json:"discount_price" mapstructure:"discount_price" validate:"omitempty,finite,gte=0"`
	CostPrice        *float64 `json:"cost_price" mapstructure:"cost_price" validate:"omitempty,finite,gte=0"`
	StockQuantity    *int     `json:"stock_quantity" mapstructure:"stock_quantity" validate:"omitempty,gte=0"`
	Sku              string   `json:"sku" mapstructure:"sku"`
	Colors           []string `json:"colors" mapstructure:"colors" validate:"min=1,dive,required"`
	Sizes            []string `json:"sizes" mapstructure:"sizes"`
	Material         string   `json:"material" mapstructure:"material" validate:"required"`
	WeightGrams      *float64 `json:"weight_grams" mapstructure:"weight_grams" validate:"omitempty,finite,gte=0"`
	Origin           string   `json:"origin" mapstructure:"origin"`
	CareInstructions string   `json:"care_instructions" mapstructure:"care_instructions"`
	Tags             []string `json:"tags" mapstructure:"tags"`
	Images           []string `json:"images" mapstructure:"images" validate:"min=1,dive,required"`
	IsFeatured       bool     `json:"is_featured" mapstructure:"is_featured"`
	IsActive         *bool    `json:"is_active" mapstructure:"is_active" validate:"required"`
	DateAdded        string   `json:"date_added" mapstructure:"date_added" validate:"required,datetime=2006-01-02"`
	LastUpdated      string   `json:"last_updated" mapstructure:"last_updated" validate:"omitempty,datetime=2006-01-02"`
}

// ToProduct maps a validated import row onto the catalog record
func (r *ImportRecord) ToProduct() *domain.Product {
	p := &domain.Product{
		ID:               r.ProductID,
		Name:             r.Name,
		Description:      r.Description,
		Category:         strings.ToLower(r.Category),
		SubCategory:      r.SubCategory,
		Price:            r.Price,
		DiscountPrice:    r.DiscountPrice,
		CostPrice:        r.CostPrice,
		Stock:            r.StockQuantity,
		Sku:              r.Sku,
		Material:         r.Material,
		MaterialType:     MaterialTypeOf(r.Material),
		Colors:           normalizeList(r.Colors, true),
		Sizes:            r.Sizes,
		Tags:             r.Tags,
		Images:           r.Images,
		WeightGrams:      r.WeightGrams,
		Origin:           r.Origin,
		CareInstructions: r.CareInstructions,
		Featured:         r.IsFeatured,
		DateAdded:        r.DateAdded,
		LastUpdated:      r.LastUpdated,
	}
	if r.IsActive != nil {
		p.Active = *r.IsActive
	}
	p.SyncMedia()
	return p
}
