package adminapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/adsarees/storefront/internal/domain"
	"github.com/adsarees/storefront/internal/webserver"
)

func registerJobRoutes() {
	webserver.ApiGET("/jobs", listJobs)
	webserver.ApiPOST("/jobs/:name/run", runJob)
	webserver.ApiPOST("/backup", runBackup)
}

func listJobs(c echo.Context) error {
	jobs := GetAppContext(c).Jobs()
	return paged(c, jobs, int64(len(jobs)), 1, len(jobs))
}

// runJob triggers a scheduled job immediately
func runJob(c echo.Context) error {
	name := c.Param("name")
	if err := GetAppContext(c).RunJob(name); err != nil {
		return fail(c, http.StatusNotFound, "JOB_NOT_FOUND", "Job not found", name)
	}
	audit(c, domain.OptUpdate, "triggered job "+name)
	return c.NoContent(http.StatusNoContent)
}

// runBackup writes a backup set synchronously
func runBackup(c echo.Context) error {
	result, err := GetAppContext(c).RunBackup(c.Request().Context())
	if err != nil {
		zap.L().Error("adminapi: backup failed", zap.Error(err))
		return fail(c, http.StatusInternalServerError, "BACKUP_FAILED", "Backup failed", err.Error())
	}
	audit(c, domain.OptBackup, "backup "+result.Name)
	return ok(c, result)
}
