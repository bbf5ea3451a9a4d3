package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/adsarees/storefront/config"
	"github.com/guonaihong/gout"
	"github.com/pkg/errors"
)

// MessageSender delivers a text to the shop owner
type MessageSender interface {
	Send(ctx context.Context, body string) error
}

// TwilioSender posts messages to the Twilio Messages REST API
type TwilioSender struct {
	cfg     config.TwilioConfig
	timeout time.Duration
}

func NewTwilioSender(cfg config.TwilioConfig) *TwilioSender {
	return &TwilioSender{cfg: cfg, timeout: 10 * time.Second}
}

type twilioResponse struct {
	Sid     string `json:"sid"`
	Status  string `json:"status"`
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// ErrNotConfigured is returned when credentials or numbers are missing
var ErrNotConfigured = errors.New("messaging not configured")

func (s *TwilioSender) Send(ctx context.Context, body string) error {
	if !s.cfg.Enabled() {
		return ErrNotConfigured
	}
	var rsp twilioResponse
	var code int
	api := fmt.Sprintf("%s/Accounts/%s/Messages.json", s.cfg.ApiBase, s.cfg.AccountSid)
	err := gout.POST(api).
		WithContext(ctx).
		SetTimeout(s.timeout).
		SetBasicAuth(s.cfg.AccountSid, s.cfg.AuthToken).
		SetWWWForm(gout.H{
			"From": s.cfg.From,
			"To":   s.cfg.To,
			"Body": body,
		}).
		BindJSON(&rsp).
		Code(&code).
		Do()
	if err != nil {
		return errors.Wrap(err, "twilio request")
	}
	if code >= 300 {
		return errors.Errorf("twilio status %d: %s", code, rsp.Message)
	}
	return nil
}
