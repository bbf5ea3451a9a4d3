package adminapi

import (
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/adsarees/storefront/internal/domain"
	"github.com/adsarees/storefront/internal/webserver"
)

const maxUploadSize = 5 << 20

var imageExts = map[string]bool{".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".webp": true}

func registerUploadRoutes() {
	webserver.ApiPOST("/uploads", uploadImage)
}

// uploadImage stores one image. With product_id the image is re-encoded
// into the catalog renditions, otherwise the file is kept as uploaded.
func uploadImage(c echo.Context) error {
	fh, err := c.FormFile("image")
	if err != nil {
		fh, err = c.FormFile("file")
	}
	if err != nil {
		return fail(c, http.StatusBadRequest, "NO_FILE", "Upload an image in the image field", nil)
	}
	if fh.Size > maxUploadSize {
		return fail(c, http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", "Images are limited to 5MB", nil)
	}
	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if !imageExts[ext] {
		return fail(c, http.StatusBadRequest, "INVALID_FILE_TYPE", "Only image files are allowed", ext)
	}
	src, err := fh.Open()
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_FILE", "Unable to read the uploaded file", err.Error())
	}
	defer src.Close()

	images := GetAppContext(c).Images()
	productID := strings.TrimSpace(c.FormValue("product_id"))
	if productID == "" {
		url, err := images.SaveUpload(fh.Filename, src, time.Now())
		if err != nil {
			zap.L().Error("adminapi: save upload failed", zap.String("file", fh.Filename), zap.Error(err))
			return fail(c, http.StatusInternalServerError, "UPLOAD_FAILED", "Failed to store the image", err.Error())
		}
		audit(c, domain.OptUpload, "uploaded "+url)
		return created(c, map[string]interface{}{"url": url})
	}

	base := strings.TrimSpace(c.FormValue("name"))
	if base == "" {
		base = strings.TrimSuffix(fh.Filename, filepath.Ext(fh.Filename))
	}
	rendition, err := images.Process(productID, base, src)
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_IMAGE", "Unable to process the image", err.Error())
	}
	audit(c, domain.OptUpload, "processed image "+rendition.Original+" for saree "+productID)
	return created(c, map[string]interface{}{
		"url":       rendition.Original,
		"rendition": rendition,
	})
}
