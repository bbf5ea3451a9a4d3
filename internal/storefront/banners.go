package storefront

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/adsarees/storefront/internal/catalog"
)

func activeBanners(c echo.Context) error {
	items, err := store(c).Banners.Active(c.Request().Context())
	if err != nil {
		return serverError(c, err)
	}
	return c.JSON(http.StatusOK, items)
}

// taxonomy lists the filter options of the catalog page
func taxonomy(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"categories":     catalog.Categories,
		"colors":         catalog.Colors,
		"materials":      catalog.Materials,
		"material_types": catalog.MaterialTypes,
	})
}
