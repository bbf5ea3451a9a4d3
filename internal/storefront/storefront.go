// Package storefront serves the shopper facing catalog API. Responses are
// bare JSON documents, failures are {"error": message}.
package storefront

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/adsarees/storefront/internal/app"
	"github.com/adsarees/storefront/internal/repository"
	"github.com/adsarees/storefront/internal/webserver"
)

const notFoundMessage = "Saree not found"

// Init registers the shopper routes on the global web server
func Init() {
	webserver.PublicGET("/sarees", listSarees)
	webserver.PublicGET("/sarees/featured", featuredSarees)
	webserver.PublicGET("/sarees/discounts", discountedSarees)
	webserver.PublicGET("/sarees/:id", getSaree)
	webserver.PublicGET("/sarees/:id/related", relatedSarees)
	webserver.PublicGET("/sarees/:id/whatsapp-link", whatsAppLink)
	webserver.PublicGET("/sarees/:id/whatsapp-qr", whatsAppQR)
	webserver.PublicPOST("/sarees", createSaree)
	webserver.PublicGET("/banners", activeBanners)
	webserver.PublicGET("/catalog/taxonomy", taxonomy)
}

func appContext(c echo.Context) app.AppContext {
	return webserver.GetAppContext(c)
}

func store(c echo.Context) *repository.Store {
	return appContext(c).Store()
}

func errorJSON(c echo.Context, status int, msg string) error {
	return c.JSON(status, map[string]string{"error": msg})
}

func serverError(c echo.Context, err error) error {
	zap.L().Error("storefront: request failed", zap.String("path", c.Path()), zap.Error(err))
	return errorJSON(c, http.StatusInternalServerError, err.Error())
}

func idParam(c echo.Context) string {
	return strings.TrimSpace(c.Param("id"))
}
