package adminapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/adsarees/storefront/internal/domain"
	"github.com/adsarees/storefront/internal/webserver"
	"github.com/adsarees/storefront/pkg/common"
)

type bannerForm struct {
	ImageUrl string `json:"image_url" form:"image_url" validate:"required,max=2048"`
	Title    string `json:"title" form:"title" validate:"required,max=200"`
	Link     string `json:"link" form:"link" validate:"max=512"`
	IsActive *bool  `json:"is_active" form:"is_active"`
}

// registerBannerRoutes registers banner management routes
func registerBannerRoutes() {
	webserver.ApiGET("/banners", listBanners)
	webserver.ApiPOST("/banners", createBanner)
	webserver.ApiPUT("/banners/:id", updateBanner)
	webserver.ApiDELETE("/banners/:id", deleteBanner)
	webserver.ApiPOST("/banners/:id/toggle", toggleBanner)
}

func listBanners(c echo.Context) error {
	items, err := GetStore(c).Banners.List(c.Request().Context())
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query banners", err.Error())
	}
	return paged(c, items, int64(len(items)), 1, len(items))
}

func bindBannerForm(c echo.Context) (*bannerForm, error) {
	var form bannerForm
	if err := c.Bind(&form); err != nil {
		return nil, fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse banner parameters", err.Error())
	}
	form.ImageUrl = strings.TrimSpace(form.ImageUrl)
	form.Title = strings.TrimSpace(form.Title)
	form.Link = strings.TrimSpace(form.Link)
	if err := c.Validate(&form); err != nil {
		return nil, fail(c, http.StatusBadRequest, "VALIDATION_ERROR", "Banner image and title are required", err.Error())
	}
	return &form, nil
}

func createBanner(c echo.Context) error {
	form, err := bindBannerForm(c)
	if form == nil {
		return err
	}
	b := &domain.Banner{
		ID:       common.NewBannerID(time.Now()),
		ImageUrl: form.ImageUrl,
		Title:    form.Title,
		Link:     form.Link,
		IsActive: true,
	}
	if form.IsActive != nil {
		b.IsActive = *form.IsActive
	}
	if err := GetStore(c).Banners.Save(c.Request().Context(), b); err != nil {
		return storeFail(c, err, "BANNER_NOT_FOUND", "Banner")
	}
	catalogChanged(c)
	audit(c, domain.OptCreate, "created banner "+b.ID)
	return created(c, b)
}

func updateBanner(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid banner ID", nil)
	}
	repo := GetStore(c).Banners
	ctx := c.Request().Context()
	b, err := repo.Get(ctx, id)
	if err != nil {
		return storeFail(c, err, "BANNER_NOT_FOUND", "Banner")
	}
	form, err := bindBannerForm(c)
	if form == nil {
		return err
	}
	b.ImageUrl = form.ImageUrl
	b.Title = form.Title
	b.Link = form.Link
	if form.IsActive != nil {
		b.IsActive = *form.IsActive
	}
	if err := repo.Save(ctx, b); err != nil {
		return storeFail(c, err, "BANNER_NOT_FOUND", "Banner")
	}
	catalogChanged(c)
	audit(c, domain.OptUpdate, "updated banner "+id)
	return ok(c, b)
}

func deleteBanner(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid banner ID", nil)
	}
	if err := GetStore(c).Banners.Delete(c.Request().Context(), id); err != nil {
		return storeFail(c, err, "BANNER_NOT_FOUND", "Banner")
	}
	catalogChanged(c)
	audit(c, domain.OptDelete, "deleted banner "+id)
	return ok(c, map[string]interface{}{"id": id})
}

func toggleBanner(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid banner ID", nil)
	}
	b, err := GetStore(c).Banners.Toggle(c.Request().Context(), id)
	if err != nil {
		return storeFail(c, err, "BANNER_NOT_FOUND", "Banner")
	}
	catalogChanged(c)
	audit(c, domain.OptToggle, "toggled banner "+id)
	return ok(c, b)
}
