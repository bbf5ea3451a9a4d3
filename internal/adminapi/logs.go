package adminapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/labstack/echo/v4"

	"github.com/adsarees/storefront/internal/repository"
	"github.com/adsarees/storefront/internal/webserver"
)

func registerLogRoutes() {
	webserver.ApiGET("/logs", listOprLogs)
}

// listOprLogs pages the operation log, newest first. since accepts any
// common date layout.
func listOprLogs(c echo.Context) error {
	page, pageSize := parsePagination(c)
	filter := repository.OprLogFilter{
		Action:   strings.TrimSpace(c.QueryParam("action")),
		Operator: strings.TrimSpace(c.QueryParam("operator")),
	}
	if v := strings.TrimSpace(c.QueryParam("since")); v != "" {
		loc, err := time.LoadLocation(GetAppContext(c).Config().System.Location)
		if err != nil {
			loc = time.Local
		}
		since, err := dateparse.ParseIn(v, loc)
		if err != nil {
			return fail(c, http.StatusBadRequest, "INVALID_DATE", "Unable to parse since", v)
		}
		filter.Since = since
	}

	rows, total, err := GetAppContext(c).OprLogs().List(c.Request().Context(), filter, page, pageSize)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query operation logs", err.Error())
	}
	return paged(c, rows, total, page, pageSize)
}
