package notify

import (
	"context"
	"sync"
	"time"

	"github.com/adsarees/storefront/internal/domain"
	"github.com/adsarees/storefront/pkg/metrics"
	"github.com/asaskevich/EventBus"
	"github.com/panjf2000/ants/v2"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Event bus topics
const (
	TopicProductCreated = "product:created"
	TopicAdminLocked    = "admin:locked"
	// TopicCatalogChanged carries no payload, it fires after any product or banner write
	TopicCatalogChanged = "catalog:changed"
)

// LockEvent is published once when a username becomes locked
type LockEvent struct {
	Username string
	Attempts int
	RemoteIP string
}

// AlertSender delivers security alerts
type AlertSender interface {
	SendLockoutAlert(username string, attempts int) error
}

// Dispatcher turns bus events into outbound messages. Sends run on a worker
// pool, failures are logged and never retried.
type Dispatcher struct {
	bus     EventBus.Bus
	pool    *ants.Pool
	sender  MessageSender
	alerts  AlertSender
	timeout time.Duration
	wg      sync.WaitGroup
}

func NewDispatcher(bus EventBus.Bus, sender MessageSender, alerts AlertSender, workers int) (*Dispatcher, error) {
	if workers <= 0 {
		workers = 4
	}
	pool, err := ants.NewPool(workers, ants.WithPanicHandler(func(v interface{}) {
		zap.S().Errorf("notify: worker panic %v", v)
	}))
	if err != nil {
		return nil, errors.Wrap(err, "create notify pool")
	}
	return &Dispatcher{
		bus:     bus,
		pool:    pool,
		sender:  sender,
		alerts:  alerts,
		timeout: 15 * time.Second,
	}, nil
}

// Start subscribes the dispatcher to its topics
func (d *Dispatcher) Start() error {
	if err := d.bus.Subscribe(TopicProductCreated, d.onProductCreated); err != nil {
		return errors.Wrap(err, "subscribe "+TopicProductCreated)
	}
	if err := d.bus.Subscribe(TopicAdminLocked, d.onAdminLocked); err != nil {
		return errors.Wrap(err, "subscribe "+TopicAdminLocked)
	}
	return nil
}

func (d *Dispatcher) submit(task func()) {
	d.wg.Add(1)
	err := d.pool.Submit(func() {
		defer d.wg.Done()
		task()
	})
	if err != nil {
		d.wg.Done()
		zap.L().Error("notify: submit failed", zap.Error(err))
	}
}

func (d *Dispatcher) onProductCreated(p *domain.Product) {
	if d.sender == nil || p == nil {
		return
	}
	body := ProductCreatedMessage(p)
	id := p.ID
	d.submit(func() {
		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		defer cancel()
		err := d.sender.Send(ctx, body)
		switch {
		case errors.Is(err, ErrNotConfigured):
			zap.L().Info("notify: messaging not configured, skipping product alert", zap.String("id", id))
			metrics.Notifications.WithLabelValues("whatsapp", "skipped").Inc()
		case err != nil:
			zap.L().Error("notify: product alert failed", zap.String("id", id), zap.Error(err))
			metrics.Notifications.WithLabelValues("whatsapp", "failed").Inc()
		default:
			zap.L().Info("notify: product alert sent", zap.String("id", id))
			metrics.Notifications.WithLabelValues("whatsapp", "sent").Inc()
		}
	})
}

func (d *Dispatcher) onAdminLocked(ev LockEvent) {
	if d.alerts == nil {
		return
	}
	d.submit(func() {
		err := d.alerts.SendLockoutAlert(ev.Username, ev.Attempts)
		switch {
		case errors.Is(err, ErrNotConfigured):
			zap.L().Info("notify: alert mail not configured", zap.String("username", ev.Username))
			metrics.Notifications.WithLabelValues("email", "skipped").Inc()
		case err != nil:
			zap.L().Error("notify: lockout alert failed", zap.String("username", ev.Username), zap.Error(err))
			metrics.Notifications.WithLabelValues("email", "failed").Inc()
		default:
			zap.L().Info("notify: lockout alert sent", zap.String("username", ev.Username))
			metrics.Notifications.WithLabelValues("email", "sent").Inc()
		}
	})
}

// Wait blocks until queued sends finish
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// Close unsubscribes, drains pending sends and releases the pool
func (d *Dispatcher) Close() {
	_ = d.bus.Unsubscribe(TopicProductCreated, d.onProductCreated)
	_ = d.bus.Unsubscribe(TopicAdminLocked, d.onAdminLocked)
	d.Wait()
	d.pool.Release()
}
