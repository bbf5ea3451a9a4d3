package adminapi

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/adsarees/storefront/internal/app"
	"github.com/adsarees/storefront/internal/catalog"
	"github.com/adsarees/storefront/internal/notify"
	"github.com/adsarees/storefront/internal/repository"
	"github.com/adsarees/storefront/internal/webserver"
)

const (
	defaultPageSize = 20
	maxPageSize     = 500
)

// Response is the success envelope of the back office API
type Response struct {
	Data interface{} `json:"data"`
	Meta *Meta       `json:"meta,omitempty"`
}

type Meta struct {
	Total    int64 `json:"total"`
	Page     int   `json:"page"`
	PageSize int   `json:"page_size"`
}

// ErrorResponse is the failure envelope
type ErrorResponse struct {
	Error   string      `json:"error"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// Init registers every back office route on the global web server
func Init() {
	registerAuthRoutes()
	registerProductRoutes()
	registerBannerRoutes()
	registerUploadRoutes()
	registerDashboardRoutes()
	registerLogRoutes()
	registerJobRoutes()
	registerSystemRoutes()
	registerWhatsAppRoutes()
}

func ok(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, Response{Data: data})
}

func created(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusCreated, Response{Data: data})
}

func paged(c echo.Context, data interface{}, total int64, page, pageSize int) error {
	return c.JSON(http.StatusOK, Response{
		Data: data,
		Meta: &Meta{Total: total, Page: page, PageSize: pageSize},
	})
}

func fail(c echo.Context, status int, code, message string, details interface{}) error {
	return c.JSON(status, ErrorResponse{Error: code, Message: message, Details: details})
}

// parsePagination reads page and pageSize, perPage and limit are accepted as aliases
func parsePagination(c echo.Context) (int, int) {
	page, err := strconv.Atoi(c.QueryParam("page"))
	if err != nil || page < 1 {
		page = 1
	}
	pageSize := defaultPageSize
	for _, name := range []string{"pageSize", "perPage", "limit"} {
		if v, err := strconv.Atoi(c.QueryParam(name)); err == nil && v > 0 {
			pageSize = v
			break
		}
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return page, pageSize
}

func parseIDParam(c echo.Context, name string) (string, error) {
	id := strings.TrimSpace(c.Param(name))
	if id == "" || len(id) > 64 || strings.ContainsAny(id, "/\\") {
		return "", errors.New("invalid id")
	}
	return id, nil
}

func GetAppContext(c echo.Context) app.AppContext {
	return webserver.GetAppContext(c)
}

func GetDB(c echo.Context) *gorm.DB {
	return GetAppContext(c).DB().WithContext(c.Request().Context())
}

func GetStore(c echo.Context) *repository.Store {
	return GetAppContext(c).Store()
}

func handleValidationError(c echo.Context, err error) error {
	var ve catalog.ValidationErrors
	if errors.As(err, &ve) {
		return fail(c, http.StatusBadRequest, "VALIDATION_ERROR", ve.Error(), ve)
	}
	return fail(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error(), nil)
}

// storeFail maps a repository error onto the envelope
func storeFail(c echo.Context, err error, notFoundCode, what string) error {
	switch {
	case repository.IsNotFound(err):
		return fail(c, http.StatusNotFound, notFoundCode, what+" not found", nil)
	case errors.Is(err, repository.ErrConflict):
		return fail(c, http.StatusConflict, "ALREADY_EXISTS", what+" already exists", nil)
	default:
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to access "+strings.ToLower(what), err.Error())
	}
}

// operator is the admin username of the request
func operator(c echo.Context) string {
	if claims := webserver.GetClaims(c); claims != nil {
		return claims.Username
	}
	return "anonymous"
}

func audit(c echo.Context, action, desc string) {
	GetAppContext(c).Audit(c.Request().Context(), operator(c), c.RealIP(), action, desc)
}

// catalogChanged lets cached shopper responses expire
func catalogChanged(c echo.Context) {
	GetAppContext(c).Bus().Publish(notify.TopicCatalogChanged)
}
