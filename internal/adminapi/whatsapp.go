package adminapi

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/adsarees/storefront/internal/notify"
	"github.com/adsarees/storefront/internal/webserver"
)

type whatsAppSendPayload struct {
	Body string `json:"body" validate:"required,max=1600"`
}

func registerWhatsAppRoutes() {
	webserver.ApiGET("/whatsapp/status", getWhatsAppStatus)
	webserver.ApiPOST("/whatsapp/send", postWhatsAppSend)
	webserver.ApiGET("/sarees/:id/whatsapp", getProductWhatsApp)
}

// getWhatsAppStatus reports the inquiry phone and whether owner
// notifications can be delivered
func getWhatsAppStatus(c echo.Context) error {
	cfg := GetAppContext(c).Config()
	return ok(c, map[string]interface{}{
		"phone":          cfg.WhatsApp.Phone,
		"notifications":  cfg.Twilio.Enabled(),
		"security_email": cfg.Alert.Enabled(),
	})
}

// postWhatsAppSend sends a message to the owner number, used to verify
// the messaging credentials
func postWhatsAppSend(c echo.Context) error {
	var payload whatsAppSendPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse message", nil)
	}
	payload.Body = strings.TrimSpace(payload.Body)
	if err := c.Validate(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "VALIDATION_ERROR", "Message body is required", nil)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 15*time.Second)
	defer cancel()
	sender := notify.NewTwilioSender(GetAppContext(c).Config().Twilio)
	if err := sender.Send(ctx, payload.Body); err != nil {
		if errors.Is(err, notify.ErrNotConfigured) {
			return fail(c, http.StatusServiceUnavailable, "WA_NOT_CONFIGURED", "WhatsApp messaging is not configured", nil)
		}
		zap.L().Error("adminapi: whatsapp send failed", zap.Error(err))
		return fail(c, http.StatusBadGateway, "WA_SEND_FAILED", "Failed to send message", err.Error())
	}
	return ok(c, map[string]interface{}{"sent": true})
}

// getProductWhatsApp previews the shopper deep link with an inline QR code
func getProductWhatsApp(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid saree ID", nil)
	}
	p, err := GetStore(c).Products.Get(c.Request().Context(), id)
	if err != nil {
		return storeFail(c, err, "SAREE_NOT_FOUND", "Saree")
	}
	cfg := GetAppContext(c).Config()
	size, _ := strconv.Atoi(c.QueryParam("size"))
	link := notify.ProductLink(p, cfg)
	png, err := notify.QRCode(link, size)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "QR_FAILED", "Failed to render QR code", err.Error())
	}
	return ok(c, map[string]interface{}{
		"whatsappURL": link,
		"message":     notify.InquiryMessage(p, notify.BaseURL(cfg)),
		"qr_png":      png,
	})
}
