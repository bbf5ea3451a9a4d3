package adminapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/adsarees/storefront/internal/app"
	"github.com/adsarees/storefront/internal/catalog"
	"github.com/adsarees/storefront/internal/webserver"
	"github.com/adsarees/storefront/pkg/metrics"
)

type dashboardStats struct {
	catalog.Summary
	Banners       int `json:"banners"`
	ActiveBanners int `json:"active_banners"`
}

func registerDashboardRoutes() {
	webserver.ApiGET("/dashboard", getDashboard)
	webserver.ApiGET("/dashboard/metrics/:name", getDashboardSeries)
}

func getDashboard(c echo.Context) error {
	store := GetStore(c)
	ctx := c.Request().Context()
	products, err := store.Products.List(ctx)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query sarees", err.Error())
	}
	banners, err := store.Banners.List(ctx)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query banners", err.Error())
	}
	result := dashboardStats{Summary: catalog.Stats(products), Banners: len(banners)}
	for _, b := range banners {
		if b.IsActive {
			result.ActiveBanners++
		}
	}
	return ok(c, result)
}

var dashboardGauges = map[string]bool{
	app.GaugeSystemCPU:       true,
	app.GaugeSystemMem:       true,
	app.GaugeProcessCPU:      true,
	app.GaugeProcessMem:      true,
	app.GaugeCatalogProducts: true,
	app.GaugeCatalogActive:   true,
	app.GaugeCatalogFeatured: true,
	app.GaugeCatalogBanners:  true,
}

// getDashboardSeries returns the samples of one gauge, hours defaults to 24
func getDashboardSeries(c echo.Context) error {
	name := c.Param("name")
	if !dashboardGauges[name] {
		return fail(c, http.StatusNotFound, "METRIC_NOT_FOUND", "Unknown metric", name)
	}
	hours, err := strconv.Atoi(c.QueryParam("hours"))
	if err != nil || hours <= 0 || hours > 168 {
		hours = 24
	}
	points, err := metrics.Series(name, time.Now().Add(-time.Duration(hours)*time.Hour))
	if err != nil {
		return fail(c, http.StatusInternalServerError, "METRICS_ERROR", "Failed to read metric", err.Error())
	}
	return ok(c, points)
}
