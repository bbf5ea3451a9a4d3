package metrics

import (
	"path"
	"sync"
	"time"

	"github.com/nakabonne/tstorage"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "storefront"

// Registry holds the domain counters, the web server gathers it next to the
// request metrics
var Registry = prometheus.NewRegistry()

var (
	ProductsCreated = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "products_created_total",
		Help:      "Products created through the API or import",
	})
	LoginFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "admin_login_failures_total",
		Help:      "Rejected admin login attempts",
	})
	AdminLockouts = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "admin_lockouts_total",
		Help:      "Usernames locked after repeated failures",
	})
	ImportRows = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "import_rows_total",
		Help:      "Bulk import rows by result",
	}, []string{"result"})
	Notifications = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notifications_total",
		Help:      "Outbound notifications by channel and result",
	}, []string{"channel", "result"})
)

func init() {
	Registry.MustRegister(ProductsCreated, LoginFailures, AdminLockouts, ImportRows, Notifications)
}

// Point is one sample of a gauge series
type Point struct {
	Timestamp int64   `json:"timestamp"`
	Value     float64 `json:"value"`
}

var (
	mu      sync.RWMutex
	storage tstorage.Storage
)

// InitMetrics opens the gauge time series under <workdir>/data/metrics
func InitMetrics(workdir string) error {
	mu.Lock()
	defer mu.Unlock()
	if storage != nil {
		return nil
	}
	s, err := tstorage.NewStorage(
		tstorage.WithDataPath(path.Join(workdir, "data", "metrics")),
		tstorage.WithTimestampPrecision(tstorage.Seconds),
		tstorage.WithPartitionDuration(6*time.Hour),
		tstorage.WithRetention(7*24*time.Hour),
	)
	if err != nil {
		return errors.Wrap(err, "open metrics storage")
	}
	storage = s
	return nil
}

// SetGauge records the current value of a gauge, a no-op before InitMetrics
func SetGauge(name string, value int64) {
	mu.RLock()
	defer mu.RUnlock()
	if storage == nil {
		return
	}
	_ = storage.InsertRows([]tstorage.Row{{
		Metric:    name,
		DataPoint: tstorage.DataPoint{Timestamp: time.Now().Unix(), Value: float64(value)},
	}})
}

// Series returns the samples of a gauge recorded since the given time
func Series(name string, since time.Time) ([]Point, error) {
	mu.RLock()
	defer mu.RUnlock()
	result := make([]Point, 0)
	if storage == nil {
		return result, nil
	}
	points, err := storage.Select(name, nil, since.Unix(), time.Now().Unix()+1)
	if errors.Is(err, tstorage.ErrNoDataPoints) {
		return result, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "select "+name)
	}
	for _, p := range points {
		result = append(result, Point{Timestamp: p.Timestamp, Value: p.Value})
	}
	return result, nil
}

// Close flushes and releases the gauge storage
func Close() error {
	mu.Lock()
	defer mu.Unlock()
	if storage == nil {
		return nil
	}
	err := storage.Close()
	storage = nil
	return err
}
