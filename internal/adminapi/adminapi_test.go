package adminapi

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adsarees/storefront/config"
	"github.com/adsarees/storefront/internal/app"
	"github.com/adsarees/storefront/internal/auth"
	"github.com/adsarees/storefront/internal/domain"
	"github.com/adsarees/storefront/internal/webserver"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type testServer struct {
	t     *testing.T
	h     http.Handler
	app   *app.Application
	token string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	cfg := *config.DefaultAppConfig
	cfg.System.Workdir = t.TempDir()
	cfg.Database.Type = "sqlite"
	cfg.Database.Name = "test.db"
	cfg.Logger.FileEnable = false
	cfg.Backup.Keep = 2
	cfg.Admin.Password = "secret"
	cfg.InitDirs()

	a := app.NewApplication(&cfg)
	a.Init(&cfg)
	t.Cleanup(a.Release)

	webserver.Init(a)
	Init()

	token, _, err := auth.IssueToken(cfg.Web.Secret, "admin", time.Hour, time.Now())
	require.NoError(t, err)
	return &testServer{t: t, h: webserver.Handler(), app: a, token: token}
}

func (s *testServer) send(req *http.Request, authed bool) *httptest.ResponseRecorder {
	if authed {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}
	rec := httptest.NewRecorder()
	s.h.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) do(method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	return s.send(req, true)
}

func (s *testServer) upload(target, field, filename string, content []byte, fields map[string]string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(s.t, w.WriteField(k, v))
	}
	part, err := w.CreateFormFile(field, filename)
	require.NoError(s.t, err)
	_, err = part.Write(content)
	require.NoError(s.t, err)
	require.NoError(s.t, w.Close())

	req := httptest.NewRequest(http.MethodPost, target, &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return s.send(req, true)
}

type envelope struct {
	Data    jsoniter.RawMessage `json:"data"`
	Meta    *Meta               `json:"meta"`
	Error   string              `json:"error"`
	Message string              `json:"message"`
	Details jsoniter.RawMessage `json:"details"`
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, status int, data interface{}) envelope {
	t.Helper()
	require.Equal(t, status, rec.Code, rec.Body.String())
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	if data != nil {
		require.NoError(t, json.Unmarshal(env.Data, data))
	}
	return env
}

func TestAdminRoutesRequireToken(t *testing.T) {
	s := newTestServer(t)
	rec := s.send(httptest.NewRequest(http.MethodGet, "/api/admin/sarees", nil), false)
	env := decode(t, rec, http.StatusUnauthorized, nil)
	assert.Equal(t, "UNAUTHORIZED", env.Error)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/sarees", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rec = s.send(req, false)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLoginIssuesUsableToken(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest(http.MethodPost, "/api/admin/login", strings.NewReader(`{"username":"admin","password":"secret"}`))
	req.Header.Set("Content-Type", "application/json")
	var result loginResult
	decode(t, s.send(req, false), http.StatusOK, &result)
	assert.True(t, result.Success)
	assert.Equal(t, auth.RoleAdmin, result.Role)
	require.NotEmpty(t, result.Token)

	s.token = result.Token
	var session map[string]interface{}
	decode(t, s.do(http.MethodGet, "/api/admin/session", ""), http.StatusOK, &session)
	assert.Equal(t, "admin", session["username"])
}

func TestLoginLocksOnFourthFailure(t *testing.T) {
	s := newTestServer(t)
	login := func(password string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/admin/login",
			strings.NewReader(`{"username":"admin","password":"`+password+`"}`))
		req.Header.Set("Content-Type", "application/json")
		return s.send(req, false)
	}

	for i := 3; i >= 1; i-- {
		env := decode(t, login("wrong"), http.StatusUnauthorized, nil)
		assert.Equal(t, "INVALID_CREDENTIALS", env.Error)
		var details map[string]int
		require.NoError(t, json.Unmarshal(env.Details, &details))
		assert.Equal(t, i, details["remaining_attempts"])
	}
	env := decode(t, login("wrong"), http.StatusLocked, nil)
	assert.Equal(t, "ACCOUNT_LOCKED", env.Error)

	// the right password is refused while locked
	decode(t, login("secret"), http.StatusLocked, nil)

	var unlocked map[string]interface{}
	decode(t, s.do(http.MethodPost, "/api/admin/lockouts/admin/unlock", ""), http.StatusOK, &unlocked)
	assert.Equal(t, true, unlocked["was_locked"])
	decode(t, login("secret"), http.StatusOK, nil)

	var logs []domain.SysOprLog
	decode(t, s.do(http.MethodGet, "/api/admin/logs?action=login_locked", ""), http.StatusOK, &logs)
	assert.Len(t, logs, 2)
}

const newSaree = `{
	"id": "ADSAR-2024-200",
	"name": "Kota Doria Saree",
	"price": 3299,
	"description": "Light checked weave",
	"category": "handloom",
	"material": "Cotton",
	"colors": ["Yellow"],
	"images": ["/uploads/kota.jpg"]
}`

func TestProductLifecycle(t *testing.T) {
	s := newTestServer(t)

	var created domain.Product
	decode(t, s.do(http.MethodPost, "/api/admin/sarees", newSaree), http.StatusCreated, &created)
	assert.Equal(t, "cotton", created.MaterialType)
	assert.Equal(t, []string{"yellow"}, created.Colors)
	assert.True(t, created.Active)

	env := decode(t, s.do(http.MethodPost, "/api/admin/sarees", newSaree), http.StatusConflict, nil)
	assert.Equal(t, "ALREADY_EXISTS", env.Error)

	update := strings.Replace(newSaree, `"price": 3299`, `"price": 3499, "is_featured": true`, 1)
	var updated domain.Product
	decode(t, s.do(http.MethodPut, "/api/admin/sarees/ADSAR-2024-200", update), http.StatusOK, &updated)
	assert.Equal(t, 3499.0, updated.Price)
	assert.True(t, updated.Featured)
	assert.Equal(t, created.DateAdded, updated.DateAdded)

	var toggled domain.Product
	decode(t, s.do(http.MethodPost, "/api/admin/sarees/ADSAR-2024-200/featured", ""), http.StatusOK, &toggled)
	assert.False(t, toggled.Featured)
	decode(t, s.do(http.MethodPost, "/api/admin/sarees/ADSAR-2024-200/active", ""), http.StatusOK, &toggled)
	assert.False(t, toggled.Active)

	var inactive []domain.Product
	env = decode(t, s.do(http.MethodGet, "/api/admin/sarees?status=inactive", ""), http.StatusOK, &inactive)
	require.Len(t, inactive, 1)
	assert.Equal(t, int64(1), env.Meta.Total)

	decode(t, s.do(http.MethodDelete, "/api/admin/sarees/ADSAR-2024-200", ""), http.StatusOK, nil)
	decode(t, s.do(http.MethodGet, "/api/admin/sarees/ADSAR-2024-200", ""), http.StatusNotFound, nil)
	decode(t, s.do(http.MethodDelete, "/api/admin/sarees/ADSAR-2024-200", ""), http.StatusNotFound, nil)

	var all []domain.Product
	env = decode(t, s.do(http.MethodGet, "/api/admin/sarees", ""), http.StatusOK, &all)
	assert.Equal(t, int64(len(domain.DefaultProducts())), env.Meta.Total)
}

func TestCreateProductValidation(t *testing.T) {
	s := newTestServer(t)

	zeroPrice := strings.Replace(newSaree, `"price": 3299`, `"price": 0`, 1)
	env := decode(t, s.do(http.MethodPost, "/api/admin/sarees", zeroPrice), http.StatusBadRequest, nil)
	assert.Equal(t, "VALIDATION_ERROR", env.Error)
	assert.Contains(t, string(env.Details), "price")

	badCategory := strings.Replace(newSaree, `"handloom"`, `"sarong"`, 1)
	decode(t, s.do(http.MethodPost, "/api/admin/sarees", badCategory), http.StatusBadRequest, nil)

	decode(t, s.do(http.MethodGet, "/api/admin/sarees/ADSAR-2024-200", ""), http.StatusNotFound, nil)
}

func TestListProductsPagingAndSort(t *testing.T) {
	s := newTestServer(t)

	var items []domain.Product
	env := decode(t, s.do(http.MethodGet, "/api/admin/sarees?page=2&pageSize=5&sort=price&order=desc", ""), http.StatusOK, &items)
	require.Len(t, items, 5)
	assert.Equal(t, 2, env.Meta.Page)
	assert.Equal(t, 5, env.Meta.PageSize)
	for i := 1; i < len(items); i++ {
		assert.GreaterOrEqual(t, items[i-1].Price, items[i].Price)
	}

	env = decode(t, s.do(http.MethodGet, "/api/admin/sarees?page=9223372036854775807", ""), http.StatusOK, &items)
	assert.Empty(t, items)
	assert.Equal(t, int64(len(domain.DefaultProducts())), env.Meta.Total)

	decode(t, s.do(http.MethodGet, "/api/admin/sarees?search=silk&category=mysore", ""), http.StatusOK, &items)
	require.Len(t, items, 1)
	assert.Equal(t, "2", items[0].ID)
}

func TestImportAndExport(t *testing.T) {
	s := newTestServer(t)
	csv := "product_id,name,description,category,sub_category,price,colors,material,images,is_active,date_added\n" +
		`ADSAR-2024-301,Ilkal Saree,Tope teni pallu,handloom,cotton,2499,"red, green",Cotton,/uploads/ilkal.jpg,true,2024-03-01` + "\n" +
		`BAD-1,X,,handloom,cotton,-5,red,Cotton,/uploads/x.jpg,true,2024-03-01` + "\n"

	var result struct {
		Imported int `json:"imported"`
		Failed   int `json:"failed"`
		Errors   []struct {
			Row int    `json:"row"`
			ID  string `json:"id"`
		} `json:"errors"`
	}
	decode(t, s.upload("/api/admin/sarees/import", "file", "sarees.csv", []byte(csv), nil), http.StatusOK, &result)
	assert.Equal(t, 1, result.Imported)
	assert.Equal(t, 1, result.Failed)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, 3, result.Errors[0].Row)

	var p domain.Product
	decode(t, s.do(http.MethodGet, "/api/admin/sarees/ADSAR-2024-301", ""), http.StatusOK, &p)
	assert.Equal(t, []string{"red", "green"}, p.Colors)

	rec := s.upload("/api/admin/sarees/import", "file", "sarees.pdf", []byte("%PDF"), nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(http.MethodGet, "/api/admin/sarees/export?format=csv", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), ".csv")
	assert.Contains(t, rec.Body.String(), "ADSAR-2024-301")

	rec = s.do(http.MethodGet, "/api/admin/sarees/export?format=xlsx", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "PK", rec.Body.String()[:2])

	decode(t, s.do(http.MethodGet, "/api/admin/sarees/export?format=pdf", ""), http.StatusBadRequest, nil)
}

func TestBannerManagement(t *testing.T) {
	s := newTestServer(t)

	var b domain.Banner
	decode(t, s.do(http.MethodPost, "/api/admin/banners", `{"image_url":"/uploads/diwali.jpg","title":"Diwali"}`), http.StatusCreated, &b)
	assert.True(t, strings.HasPrefix(b.ID, "banner-"))
	assert.True(t, b.IsActive)

	decode(t, s.do(http.MethodPost, "/api/admin/banners", `{"title":"no image"}`), http.StatusBadRequest, nil)
	env := decode(t, s.do(http.MethodPost, "/api/admin/banners", `{"image_url":"/uploads/a.jpg","title":"  "}`), http.StatusBadRequest, nil)
	assert.Equal(t, "VALIDATION_ERROR", env.Error)
	assert.Contains(t, env.Message, "title")

	var toggled domain.Banner
	decode(t, s.do(http.MethodPost, "/api/admin/banners/"+b.ID+"/toggle", ""), http.StatusOK, &toggled)
	assert.False(t, toggled.IsActive)
	decode(t, s.do(http.MethodPost, "/api/admin/banners/"+b.ID+"/toggle", ""), http.StatusOK, &toggled)
	assert.True(t, toggled.IsActive)

	var updated domain.Banner
	decode(t, s.do(http.MethodPut, "/api/admin/banners/"+b.ID, `{"image_url":"/uploads/diwali2.jpg","title":"Diwali Sale","link":"/discounts"}`), http.StatusOK, &updated)
	assert.Equal(t, "Diwali Sale", updated.Title)
	assert.True(t, updated.IsActive)

	var banners []domain.Banner
	decode(t, s.do(http.MethodGet, "/api/admin/banners", ""), http.StatusOK, &banners)
	assert.Len(t, banners, 5)
	assert.Equal(t, b.ID, banners[len(banners)-1].ID)

	decode(t, s.do(http.MethodDelete, "/api/admin/banners/"+b.ID, ""), http.StatusOK, nil)
	decode(t, s.do(http.MethodDelete, "/api/admin/banners/"+b.ID, ""), http.StatusNotFound, nil)
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: 128, G: uint8(y), B: 32, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestUploads(t *testing.T) {
	s := newTestServer(t)

	var plain map[string]string
	decode(t, s.upload("/api/admin/uploads", "image", "my photo.png", pngBytes(t, 40, 60), nil), http.StatusCreated, &plain)
	assert.True(t, strings.HasPrefix(plain["url"], "/uploads/"))
	assert.True(t, strings.HasSuffix(plain["url"], "-my_photo.png"))

	rec := s.send(httptest.NewRequest(http.MethodGet, plain["url"], nil), false)
	assert.Equal(t, http.StatusOK, rec.Code)

	var processed struct {
		URL       string `json:"url"`
		Rendition struct {
			Variants map[string]string `json:"variants"`
		} `json:"rendition"`
	}
	decode(t, s.upload("/api/admin/uploads", "image", "front.png", pngBytes(t, 80, 120),
		map[string]string{"product_id": "1", "name": "primary"}), http.StatusCreated, &processed)
	assert.Equal(t, "/uploads/sarees/1/primary-original.jpg", processed.URL)
	assert.Equal(t, "/uploads/sarees/1/primary-300x400.jpg", processed.Rendition.Variants["300x400"])

	decode(t, s.upload("/api/admin/uploads", "image", "notes.txt", []byte("hello"), nil), http.StatusBadRequest, nil)
	decode(t, s.upload("/api/admin/uploads", "image", "broken.png", []byte("hello"),
		map[string]string{"product_id": "1"}), http.StatusBadRequest, nil)
}

func TestDashboardAndSystemInfo(t *testing.T) {
	s := newTestServer(t)

	var stats dashboardStats
	decode(t, s.do(http.MethodGet, "/api/admin/dashboard", ""), http.StatusOK, &stats)
	assert.Equal(t, len(domain.DefaultProducts()), stats.Total)
	assert.Equal(t, 4, stats.ActiveBanners)
	assert.Positive(t, stats.MaxPrice)

	s.app.SchedCatalogGaugeTask()
	var points []map[string]float64
	decode(t, s.do(http.MethodGet, "/api/admin/dashboard/metrics/catalog_products", ""), http.StatusOK, &points)
	require.NotEmpty(t, points)
	assert.Equal(t, float64(len(domain.DefaultProducts())), points[len(points)-1]["value"])
	decode(t, s.do(http.MethodGet, "/api/admin/dashboard/metrics/nope", ""), http.StatusNotFound, nil)

	var info ServerInfo
	decode(t, s.do(http.MethodGet, "/api/admin/system/info", ""), http.StatusOK, &info)
	assert.Equal(t, "sqlite", info.DatabaseType)
	assert.Equal(t, "sql", info.StoreDriver)
	counts := make(map[string]int64)
	for _, tbl := range info.Tables {
		counts[tbl.Name] = tbl.RowCount
	}
	assert.Equal(t, int64(len(domain.DefaultProducts())), counts["sarees"])
	assert.Equal(t, int64(4), counts["banners"])
}

func TestJobsAndBackup(t *testing.T) {
	s := newTestServer(t)

	var jobs []app.JobInfo
	decode(t, s.do(http.MethodGet, "/api/admin/jobs", ""), http.StatusOK, &jobs)
	names := make([]string, 0, len(jobs))
	for _, j := range jobs {
		names = append(names, j.Name)
	}
	assert.Contains(t, names, "backup")
	assert.Contains(t, names, "purge_oplogs")

	assert.Equal(t, http.StatusNoContent, s.do(http.MethodPost, "/api/admin/jobs/catalog_gauges/run", "").Code)
	decode(t, s.do(http.MethodPost, "/api/admin/jobs/nope/run", ""), http.StatusNotFound, nil)

	var result app.BackupResult
	decode(t, s.do(http.MethodPost, "/api/admin/backup", ""), http.StatusOK, &result)
	assert.True(t, strings.HasPrefix(result.Name, "backup-"))
	assert.Len(t, result.Files, 3)

	var logs []domain.SysOprLog
	decode(t, s.do(http.MethodGet, "/api/admin/logs?action=backup&since=2020-01-01", ""), http.StatusOK, &logs)
	require.Len(t, logs, 1)
	assert.Equal(t, "admin", logs[0].OprName)

	decode(t, s.do(http.MethodGet, "/api/admin/logs?since=not-a-date", ""), http.StatusBadRequest, nil)
}

func TestWhatsAppPreview(t *testing.T) {
	s := newTestServer(t)

	var preview struct {
		URL   string `json:"whatsappURL"`
		QRPNG []byte `json:"qr_png"`
	}
	decode(t, s.do(http.MethodGet, "/api/admin/sarees/1/whatsapp", ""), http.StatusOK, &preview)
	assert.True(t, strings.HasPrefix(preview.URL, "https://wa.me/919688484344?text="))
	assert.Equal(t, []byte("\x89PNG"), preview.QRPNG[:4])

	var status map[string]interface{}
	decode(t, s.do(http.MethodGet, "/api/admin/whatsapp/status", ""), http.StatusOK, &status)
	assert.Equal(t, false, status["notifications"])

	decode(t, s.do(http.MethodPost, "/api/admin/whatsapp/send", `{"body":"hello"}`), http.StatusServiceUnavailable, nil)
}
