package notify

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/adsarees/storefront/config"
	"github.com/adsarees/storefront/internal/domain"
	"github.com/asaskevich/EventBus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"
)

func TestWhatsAppLink(t *testing.T) {
	p := &domain.Product{ID: "1", Name: "Kanchipuram Pure Silk Saree", Price: 15999, Description: "Rich zari work"}
	link := WhatsAppLink(p, "+919688484344", "https://shop.example/")

	require.True(t, strings.HasPrefix(link, "https://wa.me/919688484344?text="))
	assert.NotContains(t, link, "+")

	u, err := url.Parse(link)
	require.NoError(t, err)
	want := "Hi, I am interested in your product:\n\n" +
		"Saree Name: Kanchipuram Pure Silk Saree\n" +
		"Price: ₹15,999\n" +
		"Details: Rich zari work\n" +
		"Product Link: https://shop.example/saree/1\n\n" +
		"Please provide more information."
	assert.Equal(t, want, u.Query().Get("text"))
}

func TestEncodeURIComponent(t *testing.T) {
	cases := map[string]string{
		"Silk & Zari (red)!": "Silk%20%26%20Zari%20(red)!",
		"it's 50% off*":      "it's%2050%25%20off*",
		"a+b=c/d?e#f":        "a%2Bb%3Dc%2Fd%3Fe%23f",
		"₹1,299 ~-_.":        "%E2%82%B91%2C299%20~-_.",
	}
	for in, want := range cases {
		got := encodeURIComponent(in)
		assert.Equal(t, want, got, in)
		decoded, err := url.QueryUnescape(got)
		require.NoError(t, err)
		assert.Equal(t, in, decoded)
	}
}

func TestInquiryMessageOmitsEmptyDetails(t *testing.T) {
	msg := InquiryMessage(&domain.Product{ID: "7", Name: "Gadwal", Price: 6999}, "https://shop.example")
	assert.NotContains(t, msg, "Details:")
	assert.Contains(t, msg, "Product Link: https://shop.example/saree/7\n\n")
}

func TestProductCreatedMessage(t *testing.T) {
	msg := ProductCreatedMessage(&domain.Product{Name: "Linen Saree", Price: 4599})
	assert.Equal(t, "🛍 New Saree Added: Linen Saree\n💰 Price: ₹4,599\n📂 Category: N/A", msg)

	msg = ProductCreatedMessage(&domain.Product{Name: "Linen Saree", Price: 4599.5, Category: "linen"})
	assert.Contains(t, msg, "₹4,599.50")
	assert.True(t, strings.HasSuffix(msg, "Category: linen"))
}

func TestTwilioSender(t *testing.T) {
	var got url.Values
	var user, pass string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/Accounts/AC1/Messages.json", r.URL.Path)
		user, pass, _ = r.BasicAuth()
		require.NoError(t, r.ParseForm())
		got = r.PostForm
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"sid":"SM1","status":"queued"}`))
	}))
	defer srv.Close()

	s := NewTwilioSender(config.TwilioConfig{
		AccountSid: "AC1", AuthToken: "tok",
		From: "whatsapp:+1415", To: "whatsapp:+91968",
		ApiBase: srv.URL,
	})
	require.NoError(t, s.Send(context.Background(), "hello"))
	assert.Equal(t, "AC1", user)
	assert.Equal(t, "tok", pass)
	assert.Equal(t, "whatsapp:+1415", got.Get("From"))
	assert.Equal(t, "whatsapp:+91968", got.Get("To"))
	assert.Equal(t, "hello", got.Get("Body"))
}

func TestTwilioSenderErrors(t *testing.T) {
	assert.ErrorIs(t, NewTwilioSender(config.TwilioConfig{}).Send(context.Background(), "x"), ErrNotConfigured)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"code":20003,"message":"Authenticate"}`))
	}))
	defer srv.Close()
	s := NewTwilioSender(config.TwilioConfig{AccountSid: "AC1", AuthToken: "bad", From: "a", To: "b", ApiBase: srv.URL})
	err := s.Send(context.Background(), "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Authenticate")
}

func TestMailerLockoutAlert(t *testing.T) {
	m := NewMailer(config.AlertConfig{SmtpHost: "smtp.example", SmtpPort: 587, Email: "shop@example.com", Recipient: "sec@example.com"})
	var sent *gomail.Message
	m.send = func(msg *gomail.Message) error {
		sent = msg
		return nil
	}
	require.NoError(t, m.SendLockoutAlert("admin", 3))
	require.NotNil(t, sent)
	assert.Equal(t, []string{lockoutSubject}, sent.GetHeader("Subject"))
	assert.Equal(t, []string{"sec@example.com"}, sent.GetHeader("To"))

	assert.ErrorIs(t, NewMailer(config.AlertConfig{}).SendLockoutAlert("admin", 3), ErrNotConfigured)
}

type fakeSender struct {
	mu     sync.Mutex
	bodies []string
	err    error
}

func (f *fakeSender) Send(ctx context.Context, body string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.bodies = append(f.bodies, body)
	return f.err
}

type fakeAlerts struct {
	mu    sync.Mutex
	users []string
}

func (f *fakeAlerts) SendLockoutAlert(username string, attempts int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users = append(f.users, username)
	return nil
}

func TestDispatcher(t *testing.T) {
	bus := EventBus.New()
	sender := &fakeSender{}
	alerts := &fakeAlerts{}
	d, err := NewDispatcher(bus, sender, alerts, 2)
	require.NoError(t, err)
	require.NoError(t, d.Start())

	bus.Publish(TopicProductCreated, &domain.Product{ID: "1", Name: "Mysore Silk Saree", Price: 8999, Category: "mysore"})
	bus.Publish(TopicAdminLocked, LockEvent{Username: "admin", Attempts: 3})
	d.Wait()

	require.Len(t, sender.bodies, 1)
	assert.Contains(t, sender.bodies[0], "New Saree Added: Mysore Silk Saree")
	assert.Equal(t, []string{"admin"}, alerts.users)

	d.Close()
	bus.Publish(TopicProductCreated, &domain.Product{ID: "2"})
	assert.Len(t, sender.bodies, 1)
}

func TestDispatcherSwallowsSendErrors(t *testing.T) {
	bus := EventBus.New()
	sender := &fakeSender{err: assert.AnError}
	d, err := NewDispatcher(bus, sender, nil, 1)
	require.NoError(t, err)
	require.NoError(t, d.Start())
	defer d.Close()

	bus.Publish(TopicProductCreated, &domain.Product{ID: "1"})
	bus.Publish(TopicAdminLocked, LockEvent{Username: "admin"})
	d.Wait()
	assert.Len(t, sender.bodies, 1)
}

func TestProductLinkFallsBackToSiteURL(t *testing.T) {
	cfg := *config.DefaultAppConfig
	cfg.System.SiteURL = "https://sarees.example"
	p := &domain.Product{ID: "42", Name: "Banarasi", Price: 8999}

	u, err := url.Parse(ProductLink(p, &cfg))
	require.NoError(t, err)
	assert.Contains(t, u.Query().Get("text"), "Product Link: https://sarees.example/saree/42")

	cfg.WhatsApp.ProductBaseURL = "https://m.sarees.example"
	u, err = url.Parse(ProductLink(p, &cfg))
	require.NoError(t, err)
	assert.Contains(t, u.Query().Get("text"), "Product Link: https://m.sarees.example/saree/42")
}

func TestQRCodeIsPNG(t *testing.T) {
	png, err := QRCode("https://wa.me/919688484344?text=hi", 0)
	require.NoError(t, err)
	assert.Equal(t, []byte("\x89PNG"), png[:4])
}
