package importer

import (
	"fmt"
	"io"
	"strings"

	"github.com/360EntSecGroup-Skylar/excelize"
	"github.com/gocarina/gocsv"
	"github.com/pkg/errors"
	"github.com/spf13/cast"

	"github.com/adsarees/storefront/internal/domain"
)

// ExportRow is one product in the import column layout, so an export can be
// edited and imported again
type ExportRow struct {
	ProductID        string `csv:"product_id"`
	Name             string `csv:"name"`
	Description      string `csv:"description"`
	Category         string `csv:"category"`
	SubCategory      string `csv:"sub_category"`
	Price            string `csv:"price"`
	DiscountPrice    string `csv:"discount_price"`
	CostPrice        string `csv:"cost_price"`
	StockQuantity    string `csv:"stock_quantity"`
	Sku              string `csv:"sku"`
	Colors           string `csv:"colors"`
	Sizes            string `csv:"sizes"`
	Material         string `csv:"material"`
	WeightGrams      string `csv:"weight_grams"`
	Origin           string `csv:"origin"`
	CareInstructions string `csv:"care_instructions"`
	Tags             string `csv:"tags"`
	Images           string `csv:"images"`
	IsFeatured       string `csv:"is_featured"`
	IsActive         string `csv:"is_active"`
	DateAdded        string `csv:"date_added"`
	LastUpdated      string `csv:"last_updated"`
}

var exportColumns = []string{
	"product_id", "name", "description", "category", "sub_category", "price",
	"discount_price", "cost_price", "stock_quantity", "sku", "colors", "sizes",
	"material", "weight_grams", "origin", "care_instructions", "tags", "images",
	"is_featured", "is_active", "date_added", "last_updated",
}

func optional[T float64 | int](v *T) string {
	if v == nil {
		return ""
	}
	return cast.ToString(*v)
}

func toExportRow(p *domain.Product) *ExportRow {
	return &ExportRow{
		ProductID:        p.ID,
		Name:             p.Name,
		Description:      p.Description,
		Category:         p.Category,
		SubCategory:      p.SubCategory,
		Price:            cast.ToString(p.Price),
		DiscountPrice:    optional(p.DiscountPrice),
		CostPrice:        optional(p.CostPrice),
		StockQuantity:    optional(p.Stock),
		Sku:              p.Sku,
		Colors:           strings.Join(p.Colors, ","),
		Sizes:            strings.Join(p.Sizes, ","),
		Material:         p.Material,
		WeightGrams:      optional(p.WeightGrams),
		Origin:           p.Origin,
		CareInstructions: p.CareInstructions,
		Tags:             strings.Join(p.Tags, ","),
		Images:           strings.Join(p.Images, ","),
		IsFeatured:       cast.ToString(p.Featured),
		IsActive:         cast.ToString(p.Active),
		DateAdded:        p.DateAdded,
		LastUpdated:      p.LastUpdated,
	}
}

func (r *ExportRow) values() []string {
	return []string{
		r.ProductID, r.Name, r.Description, r.Category, r.SubCategory, r.Price,
		r.DiscountPrice, r.CostPrice, r.StockQuantity, r.Sku, r.Colors, r.Sizes,
		r.Material, r.WeightGrams, r.Origin, r.CareInstructions, r.Tags, r.Images,
		r.IsFeatured, r.IsActive, r.DateAdded, r.LastUpdated,
	}
}

// WriteCSV writes products with a header row
func WriteCSV(w io.Writer, products []domain.Product) error {
	rows := make([]*ExportRow, 0, len(products))
	for i := range products {
		rows = append(rows, toExportRow(&products[i]))
	}
	return errors.Wrap(gocsv.Marshal(rows, w), "write csv")
}

// WriteXLSX writes products to the first sheet of a new workbook
func WriteXLSX(w io.Writer, products []domain.Product) error {
	book := excelize.NewFile()
	sheet := book.GetSheetName(1)
	for col, name := range exportColumns {
		book.SetCellValue(sheet, cellName(col, 1), name)
	}
	for i := range products {
		for col, v := range toExportRow(&products[i]).values() {
			book.SetCellValue(sheet, cellName(col, i+2), v)
		}
	}
	buf, err := book.WriteToBuffer()
	if err != nil {
		return errors.Wrap(err, "write xlsx")
	}
	_, err = buf.WriteTo(w)
	return errors.Wrap(err, "write xlsx")
}

// cellName converts a 0-based column and 1-based row to an A1 reference
func cellName(col, row int) string {
	name := ""
	for col >= 0 {
		name = string(rune('A'+col%26)) + name
		col = col/26 - 1
	}
	return fmt.Sprintf("%s%d", name, row)
}
