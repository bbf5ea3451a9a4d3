package catalog

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validForm() ProductForm {
	return ProductForm{
		Name:        "Kanchipuram Pure Silk Saree",
		Price:       15999,
		Description: "Traditional silk",
		Category:    "kanchipuram",
		Material:    "Pure Silk",
		Colors:      []string{"Maroon", " gold "},
		Images:      []string{"/uploads/1.jpg"},
	}
}

func fields(err error) []string {
	var names []string
	if ve, ok := err.(ValidationErrors); ok {
		for _, fe := range ve {
			names = append(names, fe.Field)
		}
	}
	return names
}

func TestProductFormRequiresFields(t *testing.T) {
	f := validForm()
	require.NoError(t, Validate(&f))

	err := Validate(&ProductForm{})
	require.Error(t, err)
	assert.ElementsMatch(t, []string{"name", "price", "description", "category", "material"}, fields(err))
}

func TestProductFormRejectsNonPositivePrice(t *testing.T) {
	for _, price := range []float64{0, -1, -15999} {
		f := validForm()
		f.Price = price
		err := Validate(&f)
		require.Error(t, err)
		assert.Equal(t, []string{"price"}, fields(err))
		assert.Contains(t, err.Error(), "price must be greater than 0")
	}
}

func TestNumbersMustBeFinite(t *testing.T) {
	f := validForm()
	f.Price = math.Inf(1)
	err := Validate(&f)
	assert.Equal(t, []string{"price"}, fields(err))
	assert.Contains(t, err.Error(), "price must be a finite number")

	f = validForm()
	nan, inf := math.NaN(), math.Inf(1)
	f.DiscountPrice = &inf
	f.WeightGrams = &nan
	assert.ElementsMatch(t, []string{"discount_price", "weight_grams"}, fields(Validate(&f)))

	r := validRecord()
	r.CostPrice = &inf
	assert.Equal(t, []string{"cost_price"}, fields(Validate(&r)))
}

func TestProductFormRejectsUnknownCategory(t *testing.T) {
	f := validForm()
	f.Category = "silk-house"
	assert.Equal(t, []string{"category"}, fields(Validate(&f)))
}

func TestProductFormToProduct(t *testing.T) {
	now := time.Date(2024, 3, 9, 10, 0, 0, 0, time.UTC)
	f := validForm()
	f.Normalize()
	p := f.ToProduct(now)

	assert.NotEmpty(t, p.ID)
	assert.Equal(t, "silk", p.MaterialType)
	assert.Equal(t, []string{"maroon", "gold"}, p.Colors)
	assert.Equal(t, "/uploads/1.jpg", p.Image)
	assert.True(t, p.Active)
	assert.Equal(t, "2024-03-09", p.DateAdded)

	inactive := false
	f.ID = "42"
	f.Active = &inactive
	p = f.ToProduct(now)
	assert.Equal(t, "42", p.ID)
	assert.False(t, p.Active)
}

func validRecord() ImportRecord {
	active := true
	return ImportRecord{
		ProductID:   "ADSAR-2024-001",
		Name:        "Mysore Silk Saree",
		Description: "Lightweight silk",
		Category:    "mysore",
		SubCategory: "silk",
		Price:       8999,
		Colors:      []string{"teal"},
		Material:    "Mysore Silk",
		Images:      []string{"https://example.com/a.jpg"},
		IsActive:    &active,
		DateAdded:   "2024-01-15",
	}
}

func TestImportRecordSchema(t *testing.T) {
	r := validRecord()
	require.NoError(t, Validate(&r))

	r.ProductID = "ADSAR-24-1"
	assert.Equal(t, []string{"product_id"}, fields(Validate(&r)))

	r = validRecord()
	r.Name = "ab"
	r.Colors = nil
	r.Images = []string{}
	r.DateAdded = "15/01/2024"
	assert.ElementsMatch(t, []string{"name", "colors", "images", "date_added"}, fields(Validate(&r)))

	r = validRecord()
	r.IsActive = nil
	stock := -1
	r.StockQuantity = &stock
	assert.ElementsMatch(t, []string{"is_active", "stock_quantity"}, fields(Validate(&r)))

	inactive := false
	r = validRecord()
	r.IsActive = &inactive
	require.NoError(t, Validate(&r))
	p := r.ToProduct()
	assert.Equal(t, "ADSAR-2024-001", p.ID)
	assert.False(t, p.Active)
	assert.Equal(t, "silk", p.MaterialType)
}
