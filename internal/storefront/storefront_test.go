package storefront

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adsarees/storefront/config"
	"github.com/adsarees/storefront/internal/app"
	"github.com/adsarees/storefront/internal/catalog"
	"github.com/adsarees/storefront/internal/domain"
	"github.com/adsarees/storefront/internal/notify"
	"github.com/adsarees/storefront/internal/webserver"
)

func newTestServer(t *testing.T) (http.Handler, *app.Application) {
	t.Helper()
	cfg := *config.DefaultAppConfig
	cfg.System.Workdir = t.TempDir()
	cfg.System.SiteURL = "https://shop.example"
	cfg.Database.Type = "sqlite"
	cfg.Database.Name = "test.db"
	cfg.Logger.FileEnable = false
	cfg.Backup.Enabled = false
	cfg.Admin.Password = "secret"
	cfg.InitDirs()

	a := app.NewApplication(&cfg)
	a.Init(&cfg)
	t.Cleanup(a.Release)

	webserver.Init(a)
	Init()
	return webserver.Handler(), a
}

func do(h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeProducts(t *testing.T, rec *httptest.ResponseRecorder) []domain.Product {
	t.Helper()
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var items []domain.Product
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &items))
	return items
}

func TestListSareesPagesAndFilters(t *testing.T) {
	h, _ := newTestServer(t)

	rec := do(h, http.MethodGet, "/api/sarees", "")
	items := decodeProducts(t, rec)
	assert.Len(t, items, len(domain.DefaultProducts()))
	assert.Equal(t, "12", rec.Header().Get(HeaderTotalCount))
	assert.Equal(t, "false", rec.Header().Get(HeaderHasMore))

	rec = do(h, http.MethodGet, "/api/sarees?page=2&limit=5", "")
	items = decodeProducts(t, rec)
	assert.Len(t, items, 5)

	rec = do(h, http.MethodGet, "/api/sarees?page=9223372036854775807&limit=20", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decodeProducts(t, rec))
	assert.Equal(t, "false", rec.Header().Get(HeaderHasMore))

	rec = do(h, http.MethodGet, "/api/sarees?visible=3", "")
	items = decodeProducts(t, rec)
	assert.Len(t, items, catalog.InitialVisible)
	assert.Equal(t, "true", rec.Header().Get(HeaderHasMore))

	items = decodeProducts(t, do(h, http.MethodGet, "/api/sarees?colors=maroon,gold", ""))
	ids := make([]string, 0, len(items))
	for _, p := range items {
		ids = append(ids, p.ID)
	}
	assert.ElementsMatch(t, []string{"1", "5"}, ids)

	items = decodeProducts(t, do(h, http.MethodGet, "/api/sarees?color=red&color=gold", ""))
	assert.Empty(t, items)

	items = decodeProducts(t, do(h, http.MethodGet, "/api/sarees?category=kanchipuram&maxPrice=20000", ""))
	require.Len(t, items, 1)
	assert.Equal(t, "Kanchipuram Pure Silk Saree", items[0].Name)
}

func TestInactiveProductsAreHidden(t *testing.T) {
	h, a := newTestServer(t)
	_, err := a.Store().Products.ToggleActive(context.Background(), "2")
	require.NoError(t, err)
	a.Bus().Publish(notify.TopicCatalogChanged)

	items := decodeProducts(t, do(h, http.MethodGet, "/api/sarees", ""))
	assert.Len(t, items, 11)

	rec := do(h, http.MethodGet, "/api/sarees/2", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"Saree not found"}`, rec.Body.String())
}

func TestGetSareeAndRelated(t *testing.T) {
	h, _ := newTestServer(t)

	rec := do(h, http.MethodGet, "/api/sarees/3", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var p domain.Product
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &p))
	assert.Equal(t, "Banarasi Silk Saree", p.Name)
	assert.Equal(t, []string{"purple", "gold"}, p.Colors)

	rec = do(h, http.MethodGet, "/api/sarees/missing", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"Saree not found"}`, rec.Body.String())

	related := decodeProducts(t, do(h, http.MethodGet, "/api/sarees/3/related", ""))
	for _, r := range related {
		assert.NotEqual(t, "3", r.ID)
		assert.Equal(t, "banarasi", r.Category)
	}
}

func TestFeaturedAndDiscounts(t *testing.T) {
	h, _ := newTestServer(t)

	featured := decodeProducts(t, do(h, http.MethodGet, "/api/sarees/featured", ""))
	require.NotEmpty(t, featured)
	for _, p := range featured {
		assert.True(t, p.Featured)
	}

	rec := do(h, http.MethodGet, "/api/sarees/discounts?percent=50&minPrice=7000", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var discounted []catalog.DiscountedProduct
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &discounted))
	require.NotEmpty(t, discounted)
	byID := make(map[string]catalog.DiscountedProduct)
	for _, d := range discounted {
		assert.GreaterOrEqual(t, d.Price, 7000.0)
		assert.Equal(t, 50, d.Percent)
		byID[d.ID] = d
	}
	require.Contains(t, byID, "1")
	assert.Equal(t, 8000.0, byID["1"].Price)
	assert.Equal(t, 15999.0, byID["1"].OriginalPrice)
}

func TestWhatsAppLinkAndQR(t *testing.T) {
	h, _ := newTestServer(t)

	rec := do(h, http.MethodGet, "/api/sarees/1/whatsapp-link", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, strings.HasPrefix(body["whatsappURL"], "https://wa.me/919688484344?text="))
	assert.Contains(t, body["whatsappURL"], "shop.example%2Fsaree%2F1")

	rec = do(h, http.MethodGet, "/api/sarees/1/whatsapp-qr?size=128", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.Equal(t, "\x89PNG", rec.Body.String()[:4])

	rec = do(h, http.MethodGet, "/api/sarees/nope/whatsapp-link", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateSareeFlushesListCache(t *testing.T) {
	h, _ := newTestServer(t)

	// prime the cache
	assert.Equal(t, "12", do(h, http.MethodGet, "/api/sarees", "").Header().Get(HeaderTotalCount))

	body := `{
		"id": "ADSAR-2024-100",
		"name": "Chanderi Silk Saree",
		"price": 5499,
		"description": "Sheer chanderi weave",
		"category": "party",
		"materialType": "silk",
		"colors": ["Pink", "gold"],
		"images": [{"path": "/uploads/a.jpg", "is_primary": false}, {"path": "/uploads/b.jpg", "is_primary": true}]
	}`
	rec := do(h, http.MethodPost, "/api/sarees", body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), "Saree created successfully")

	rec = do(h, http.MethodGet, "/api/sarees", "")
	assert.Equal(t, "13", rec.Header().Get(HeaderTotalCount))

	rec = do(h, http.MethodGet, "/api/sarees/ADSAR-2024-100", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var p domain.Product
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &p))
	assert.Equal(t, []string{"pink", "gold"}, p.Colors)
	assert.Equal(t, "/uploads/b.jpg", p.Image)
	assert.Equal(t, "silk", p.MaterialType)

	rec = do(h, http.MethodPost, "/api/sarees", body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateSareeRejectsInvalidInput(t *testing.T) {
	h, a := newTestServer(t)

	rec := do(h, http.MethodPost, "/api/sarees", `{"name":"Free","price":0,"description":"x","category":"party","material":"Silk","images":["a.jpg"]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"error"`)

	rec = do(h, http.MethodPost, "/api/sarees", `{"name":"Odd","price":10,"description":"x","category":"sarong","material":"Silk"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(h, http.MethodPost, "/api/sarees", `{"name":"Odd","images":[42]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	items, err := a.Store().Products.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, items, 12)
}

func TestBannersAndTaxonomy(t *testing.T) {
	h, a := newTestServer(t)
	_, err := a.Store().Banners.Toggle(context.Background(), "banner2")
	require.NoError(t, err)

	rec := do(h, http.MethodGet, "/api/banners", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var banners []domain.Banner
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &banners))
	require.Len(t, banners, 3)
	assert.Equal(t, []string{"banner1", "banner3", "banner4"}, []string{banners[0].ID, banners[1].ID, banners[2].ID})

	rec = do(h, http.MethodGet, "/api/catalog/taxonomy", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "kanchipuram")
}
