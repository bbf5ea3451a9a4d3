package storefront

import (
	"bytes"
	"net/http"
	"strconv"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/spf13/cast"
	"go.uber.org/zap"

	"github.com/adsarees/storefront/internal/app"
	"github.com/adsarees/storefront/internal/catalog"
	"github.com/adsarees/storefront/internal/domain"
	"github.com/adsarees/storefront/internal/notify"
	"github.com/adsarees/storefront/internal/repository"
	"github.com/adsarees/storefront/pkg/metrics"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	defaultLimit = 20
	maxLimit     = 100

	// HeaderTotalCount carries the number of matches before paging
	HeaderTotalCount = "X-Total-Count"
	// HeaderHasMore is "true" when a larger window would show more products
	HeaderHasMore = "X-Has-More"
)

// listPage is the cached form of one catalog listing
type listPage struct {
	Total   int              `json:"total"`
	HasMore bool             `json:"has_more"`
	Items   []domain.Product `json:"items"`
}

func activeProducts(c echo.Context) ([]domain.Product, error) {
	items, err := store(c).Products.List(c.Request().Context())
	if err != nil {
		return nil, err
	}
	return catalog.ActiveOnly(items), nil
}

// listSarees returns active products matching the filter. visible selects
// the growing grid window, otherwise page and limit apply.
func listSarees(c echo.Context) error {
	appCtx := appContext(c)
	ctx := c.Request().Context()
	key := app.CacheKeyPrefix + "sarees?" + c.QueryParams().Encode()

	if data, ok := appCtx.Cache().Get(ctx, key); ok {
		var page listPage
		if err := json.Unmarshal(data, &page); err == nil {
			return writePage(c, &page)
		}
	}

	items, err := activeProducts(c)
	if err != nil {
		return serverError(c, err)
	}
	page := buildPage(catalog.Apply(items, catalog.FilterFromQuery(c.QueryParams())), c)

	if data, err := json.Marshal(page); err == nil {
		ttl := time.Duration(appCtx.Config().Cache.TTLSeconds) * time.Second
		if err := appCtx.Cache().Set(ctx, key, data, ttl); err != nil {
			zap.L().Warn("storefront: cache set failed", zap.Error(err))
		}
	}
	return writePage(c, page)
}

func buildPage(matched []domain.Product, c echo.Context) *listPage {
	page := &listPage{Total: len(matched)}
	if v := c.QueryParam("visible"); v != "" {
		w := catalog.WindowOf(cast.ToInt(v))
		page.Items = w.Slice(matched)
		page.HasMore = w.HasMore(len(matched))
		return page
	}

	p, _ := strconv.Atoi(c.QueryParam("page"))
	if p < 1 {
		p = 1
	}
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	start, end := catalog.PageBounds(len(matched), p, limit)
	page.Items = matched[start:end]
	page.HasMore = end < len(matched)
	return page
}

func writePage(c echo.Context, page *listPage) error {
	h := c.Response().Header()
	h.Set(HeaderTotalCount, strconv.Itoa(page.Total))
	h.Set(HeaderHasMore, strconv.FormatBool(page.HasMore))
	if page.Items == nil {
		page.Items = []domain.Product{}
	}
	return c.JSON(http.StatusOK, page.Items)
}

func featuredSarees(c echo.Context) error {
	items, err := activeProducts(c)
	if err != nil {
		return serverError(c, err)
	}
	return c.JSON(http.StatusOK, catalog.Featured(items))
}

// discountedSarees prices every active product at percent off, defaulting to 20
func discountedSarees(c echo.Context) error {
	items, err := activeProducts(c)
	if err != nil {
		return serverError(c, err)
	}
	q := c.QueryParams()
	percent := cast.ToInt(q.Get("percent"))
	minPrice := cast.ToFloat64(firstOf(q.Get("minPrice"), q.Get("min_price")))
	maxPrice := cast.ToFloat64(firstOf(q.Get("maxPrice"), q.Get("max_price")))
	return c.JSON(http.StatusOK, catalog.Discounted(items, percent, minPrice, maxPrice))
}

func firstOf(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func findSaree(c echo.Context) (*domain.Product, error) {
	p, err := store(c).Products.Get(c.Request().Context(), idParam(c))
	if err != nil {
		return nil, err
	}
	if !p.Active {
		return nil, repository.ErrNotFound
	}
	return p, nil
}

// lookupFailed writes the 404 or 500 for a failed findSaree
func lookupFailed(c echo.Context, err error) error {
	if repository.IsNotFound(err) {
		return errorJSON(c, http.StatusNotFound, notFoundMessage)
	}
	return serverError(c, err)
}

func getSaree(c echo.Context) error {
	p, err := findSaree(c)
	if err != nil {
		return lookupFailed(c, err)
	}
	return c.JSON(http.StatusOK, p)
}

func relatedSarees(c echo.Context) error {
	p, err := findSaree(c)
	if err != nil {
		return lookupFailed(c, err)
	}
	items, err := activeProducts(c)
	if err != nil {
		return serverError(c, err)
	}
	limit := cast.ToInt(c.QueryParam("limit"))
	if limit <= 0 {
		limit = catalog.RelatedLimit
	}
	return c.JSON(http.StatusOK, catalog.Related(p, items, limit))
}

func whatsAppLink(c echo.Context) error {
	p, err := findSaree(c)
	if err != nil {
		return lookupFailed(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{
		"whatsappURL": notify.ProductLink(p, appContext(c).Config()),
	})
}

// whatsAppQR renders the deep link as a scannable PNG
func whatsAppQR(c echo.Context) error {
	p, err := findSaree(c)
	if err != nil {
		return lookupFailed(c, err)
	}
	png, err := notify.QRCode(notify.ProductLink(p, appContext(c).Config()), cast.ToInt(c.QueryParam("size")))
	if err != nil {
		return serverError(c, err)
	}
	c.Response().Header().Set(echo.HeaderCacheControl, "public, max-age=300")
	return c.Stream(http.StatusOK, "image/png", bytes.NewReader(png))
}

// imageRef accepts an image as a bare path or as {"path", "is_primary"}
type imageRef struct {
	Path      string `json:"path"`
	IsPrimary bool   `json:"is_primary"`
}

func (r *imageRef) UnmarshalJSON(data []byte) error {
	var path string
	if err := json.Unmarshal(data, &path); err == nil {
		r.Path = path
		return nil
	}
	type plain imageRef
	var v plain
	if err := json.Unmarshal(data, &v); err != nil {
		return errors.New("image must be a path or an object with a path")
	}
	*r = imageRef(v)
	return nil
}

type createPayload struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Price        float64    `json:"price"`
	Description  string     `json:"description"`
	Category     string     `json:"category"`
	Material     string     `json:"material"`
	MaterialType string     `json:"materialType"`
	Colors       []string   `json:"colors"`
	Images       []imageRef `json:"images"`
	Featured     bool       `json:"is_featured"`
}

func (p *createPayload) form() *catalog.ProductForm {
	f := &catalog.ProductForm{
		ID:           p.ID,
		Name:         p.Name,
		Price:        p.Price,
		Description:  p.Description,
		Category:     p.Category,
		Material:     firstOf(p.Material, p.MaterialType),
		MaterialType: strings.ToLower(strings.TrimSpace(p.MaterialType)),
		Colors:       p.Colors,
		Featured:     p.Featured,
	}
	for _, img := range p.Images {
		if img.IsPrimary && f.Image == "" {
			f.Image = img.Path
		}
		f.Images = append(f.Images, img.Path)
	}
	return f
}

// createSaree validates and stores a product, then notifies the owner
func createSaree(c echo.Context) error {
	var payload createPayload
	if err := c.Bind(&payload); err != nil {
		return errorJSON(c, http.StatusBadRequest, "Invalid request body")
	}
	form := payload.form()
	form.Normalize()
	if err := catalog.Validate(form); err != nil {
		return errorJSON(c, http.StatusBadRequest, err.Error())
	}

	appCtx := appContext(c)
	p := form.ToProduct(time.Now())
	if err := store(c).Products.Create(c.Request().Context(), p); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return errorJSON(c, http.StatusBadRequest, "Saree "+p.ID+" already exists")
		}
		return serverError(c, err)
	}

	metrics.ProductsCreated.Inc()
	appCtx.Bus().Publish(notify.TopicProductCreated, p)
	appCtx.Bus().Publish(notify.TopicCatalogChanged)
	appCtx.Audit(c.Request().Context(), "storefront", c.RealIP(), domain.OptCreate, "created saree "+p.ID)
	return c.JSON(http.StatusCreated, map[string]string{
		"message": "Saree created successfully",
		"id":      p.ID,
	})
}
