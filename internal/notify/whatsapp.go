package notify

import (
	"math"
	"net/url"
	"strings"

	"github.com/adsarees/storefront/config"
	"github.com/adsarees/storefront/internal/domain"
	"github.com/adsarees/storefront/pkg/common"
	"github.com/pkg/errors"
	"github.com/skip2/go-qrcode"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var pricePrinter = message.NewPrinter(language.English)

// FormatPrice renders a rupee amount with thousands grouping, whole amounts
// without decimals
func FormatPrice(v float64) string {
	if v == math.Trunc(v) {
		return pricePrinter.Sprintf("%d", int64(v))
	}
	return pricePrinter.Sprintf("%.2f", v)
}

var uriComponentReplacer = strings.NewReplacer(
	"+", "%20", "%21", "!", "%27", "'", "%28", "(", "%29", ")", "%2A", "*",
)

// encodeURIComponent escapes s like the browser function of the same name:
// spaces become %20 and !'()* stay literal
func encodeURIComponent(s string) string {
	return uriComponentReplacer.Replace(url.QueryEscape(s))
}

// InquiryMessage is the text a shopper sends about a product
func InquiryMessage(p *domain.Product, siteURL string) string {
	var sb strings.Builder
	sb.WriteString("Hi, I am interested in your product:\n\n")
	sb.WriteString("Saree Name: " + p.Name + "\n")
	sb.WriteString("Price: ₹" + FormatPrice(p.Price) + "\n")
	if strings.TrimSpace(p.Description) != "" {
		sb.WriteString("Details: " + p.Description + "\n")
	}
	sb.WriteString("Product Link: " + ProductURL(siteURL, p.ID) + "\n\n")
	sb.WriteString("Please provide more information.")
	return sb.String()
}

// ProductURL is the public detail page of a product
func ProductURL(siteURL, id string) string {
	return strings.TrimRight(siteURL, "/") + "/saree/" + url.PathEscape(id)
}

// WhatsAppLink builds the wa.me deep link with the prefilled inquiry
func WhatsAppLink(p *domain.Product, phone, siteURL string) string {
	phone = strings.TrimLeft(strings.TrimSpace(phone), "+")
	return "https://wa.me/" + phone + "?text=" + encodeURIComponent(InquiryMessage(p, siteURL))
}

// ProductCreatedMessage is the owner notification for a new product
func ProductCreatedMessage(p *domain.Product) string {
	return "🛍 New Saree Added: " + p.Name + "\n" +
		"💰 Price: ₹" + FormatPrice(p.Price) + "\n" +
		"📂 Category: " + common.IfEmptyStr(p.Category, common.NA)
}

// BaseURL is the origin of shared product links, the product base URL falls
// back to the site URL
func BaseURL(cfg *config.AppConfig) string {
	return common.IfEmptyStr(cfg.WhatsApp.ProductBaseURL, cfg.System.SiteURL)
}

// ProductLink builds the deep link from configuration
func ProductLink(p *domain.Product, cfg *config.AppConfig) string {
	return WhatsAppLink(p, cfg.WhatsApp.Phone, BaseURL(cfg))
}

// QRCode renders content as a PNG of size x size pixels
func QRCode(content string, size int) ([]byte, error) {
	if size < 64 || size > 1024 {
		size = 256
	}
	png, err := qrcode.Encode(content, qrcode.Medium, size)
	if err != nil {
		return nil, errors.Wrap(err, "encode qr code")
	}
	return png, nil
}
