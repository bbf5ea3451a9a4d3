package adminapi

import (
	"bytes"
	"fmt"
	"net/http"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/adsarees/storefront/internal/catalog"
	"github.com/adsarees/storefront/internal/domain"
	"github.com/adsarees/storefront/internal/importer"
	"github.com/adsarees/storefront/internal/notify"
	"github.com/adsarees/storefront/internal/webserver"
	"github.com/adsarees/storefront/pkg/metrics"
)

const maxImportSize = 10 << 20

// registerProductRoutes registers saree CRUD, toggles, import and export
func registerProductRoutes() {
	webserver.ApiGET("/sarees", listProducts)
	webserver.ApiGET("/sarees/export", exportProducts)
	webserver.ApiGET("/sarees/:id", getProduct)
	webserver.ApiPOST("/sarees", createProduct)
	webserver.ApiPOST("/sarees/import", importProducts)
	webserver.ApiPUT("/sarees/:id", updateProduct)
	webserver.ApiDELETE("/sarees/:id", deleteProduct)
	webserver.ApiPOST("/sarees/:id/featured", toggleProductFeatured)
	webserver.ApiPOST("/sarees/:id/active", toggleProductActive)
}

// whitelist of sortable fields
var productSorters = map[string]func(a, b *domain.Product) bool{
	"id":         func(a, b *domain.Product) bool { return a.ID < b.ID },
	"name":       func(a, b *domain.Product) bool { return strings.ToLower(a.Name) < strings.ToLower(b.Name) },
	"price":      func(a, b *domain.Product) bool { return a.Price < b.Price },
	"created_at": func(a, b *domain.Product) bool { return a.CreatedAt.Before(b.CreatedAt) },
	"updated_at": func(a, b *domain.Product) bool { return a.UpdatedAt.Before(b.UpdatedAt) },
}

func listProducts(c echo.Context) error {
	page, pageSize := parsePagination(c)

	items, err := GetStore(c).Products.List(c.Request().Context())
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query sarees", err.Error())
	}

	// admins see inactive products too, status narrows the list
	switch strings.ToLower(c.QueryParam("status")) {
	case "active":
		items = catalog.ActiveOnly(items)
	case "inactive":
		kept := items[:0]
		for _, p := range items {
			if !p.Active {
				kept = append(kept, p)
			}
		}
		items = kept
	case "featured":
		items = catalog.Featured(items)
	}
	items = catalog.Apply(items, catalog.FilterFromQuery(c.QueryParams()))

	if less, ok := productSorters[c.QueryParam("sort")]; ok {
		desc := strings.EqualFold(c.QueryParam("order"), "desc")
		sort.SliceStable(items, func(i, j int) bool {
			if desc {
				return less(&items[j], &items[i])
			}
			return less(&items[i], &items[j])
		})
	}

	start, end := catalog.PageBounds(len(items), page, pageSize)
	return paged(c, items[start:end], int64(len(items)), page, pageSize)
}

func getProduct(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid saree ID", nil)
	}
	p, err := GetStore(c).Products.Get(c.Request().Context(), id)
	if err != nil {
		return storeFail(c, err, "SAREE_NOT_FOUND", "Saree")
	}
	return ok(c, p)
}

func bindProductForm(c echo.Context) (*catalog.ProductForm, error) {
	var form catalog.ProductForm
	if err := c.Bind(&form); err != nil {
		return nil, fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse saree parameters", err.Error())
	}
	form.Normalize()
	if err := catalog.Validate(&form); err != nil {
		return nil, handleValidationError(c, err)
	}
	return &form, nil
}

func createProduct(c echo.Context) error {
	form, err := bindProductForm(c)
	if form == nil {
		return err
	}
	p := form.ToProduct(time.Now())
	if err := GetStore(c).Products.Create(c.Request().Context(), p); err != nil {
		return storeFail(c, err, "SAREE_NOT_FOUND", "Saree")
	}

	metrics.ProductsCreated.Inc()
	GetAppContext(c).Bus().Publish(notify.TopicProductCreated, p)
	catalogChanged(c)
	audit(c, domain.OptCreate, "created saree "+p.ID)
	return created(c, p)
}

func updateProduct(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid saree ID", nil)
	}
	store := GetStore(c)
	ctx := c.Request().Context()
	current, err := store.Products.Get(ctx, id)
	if err != nil {
		return storeFail(c, err, "SAREE_NOT_FOUND", "Saree")
	}

	form, err := bindProductForm(c)
	if form == nil {
		return err
	}
	form.ID = id
	if form.DateAdded == "" {
		form.DateAdded = current.DateAdded
	}
	p := form.ToProduct(time.Now())
	if form.Active == nil {
		p.Active = current.Active
	}
	if err := store.Products.Save(ctx, p); err != nil {
		return storeFail(c, err, "SAREE_NOT_FOUND", "Saree")
	}

	catalogChanged(c)
	audit(c, domain.OptUpdate, "updated saree "+id)
	return ok(c, p)
}

func deleteProduct(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid saree ID", nil)
	}
	if err := GetStore(c).Products.Delete(c.Request().Context(), id); err != nil {
		return storeFail(c, err, "SAREE_NOT_FOUND", "Saree")
	}
	catalogChanged(c)
	audit(c, domain.OptDelete, "deleted saree "+id)
	return ok(c, map[string]interface{}{"id": id})
}

func toggleProductFeatured(c echo.Context) error {
	return toggleProduct(c, "featured")
}

func toggleProductActive(c echo.Context) error {
	return toggleProduct(c, "active")
}

func toggleProduct(c echo.Context, flag string) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid saree ID", nil)
	}
	repo := GetStore(c).Products
	ctx := c.Request().Context()
	var p *domain.Product
	if flag == "featured" {
		p, err = repo.ToggleFeatured(ctx, id)
	} else {
		p, err = repo.ToggleActive(ctx, id)
	}
	if err != nil {
		return storeFail(c, err, "SAREE_NOT_FOUND", "Saree")
	}
	catalogChanged(c)
	audit(c, domain.OptToggle, fmt.Sprintf("toggled %s of saree %s", flag, id))
	return ok(c, p)
}

func importProducts(c echo.Context) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return fail(c, http.StatusBadRequest, "NO_FILE", "Upload a CSV or XLSX file in the file field", nil)
	}
	if fh.Size > maxImportSize {
		return fail(c, http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", "Import files are limited to 10MB", nil)
	}
	src, err := fh.Open()
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_FILE", "Unable to read the uploaded file", err.Error())
	}
	defer src.Close()

	bus := GetAppContext(c).Bus()
	im := importer.New(GetStore(c).Products)
	im.OnCreated = func(p *domain.Product) {
		metrics.ProductsCreated.Inc()
		bus.Publish(notify.TopicProductCreated, p)
	}
	result, err := im.ImportFile(c.Request().Context(), fh.Filename, src)
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_FILE", "Unable to parse the import file", err.Error())
	}

	if result.Imported > 0 {
		catalogChanged(c)
	}
	audit(c, domain.OptImport, fmt.Sprintf("imported %s: %d ok, %d failed", fh.Filename, result.Imported, result.Failed))
	return ok(c, result)
}

func exportProducts(c echo.Context) error {
	items, err := GetStore(c).Products.List(c.Request().Context())
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query sarees", err.Error())
	}

	format := strings.ToLower(c.QueryParam("format"))
	stamp := time.Now().Format("20060102_150405")
	var buf bytes.Buffer
	var contentType, filename string
	switch format {
	case "xlsx":
		err = importer.WriteXLSX(&buf, items)
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
		filename = fmt.Sprintf("sarees_%s.xlsx", stamp)
	case "", "csv":
		err = importer.WriteCSV(&buf, items)
		contentType = "text/csv; charset=utf-8"
		filename = fmt.Sprintf("sarees_%s.csv", stamp)
	default:
		return fail(c, http.StatusBadRequest, "INVALID_FORMAT", "format must be csv or xlsx", nil)
	}
	if err != nil {
		return fail(c, http.StatusInternalServerError, "EXPORT_FAILED", "Failed to export sarees", err.Error())
	}

	c.Response().Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filepath.Base(filename)))
	return c.Blob(http.StatusOK, contentType, buf.Bytes())
}
