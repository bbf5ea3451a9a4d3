package app

import (
	"context"
	"os"
	"sort"
	"time"

	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/mem"
	"github.com/shirou/gopsutil/v4/process"
	"go.uber.org/zap"

	"github.com/adsarees/storefront/pkg/metrics"
)

// Gauge series written by the monitor jobs
const (
	GaugeSystemCPU       = "system_cpuuse"
	GaugeSystemMem       = "system_memuse"
	GaugeProcessCPU      = "storefront_cpuuse"
	GaugeProcessMem      = "storefront_memuse"
	GaugeCatalogProducts = "catalog_products"
	GaugeCatalogActive   = "catalog_active"
	GaugeCatalogFeatured = "catalog_featured"
	GaugeCatalogBanners  = "catalog_banners"
)

// operation logs are kept for one year
const oprLogRetention = 365 * 24 * time.Hour

var cronParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// JobInfo describes one scheduled job
type JobInfo struct {
	Name string    `json:"name"`
	Spec string    `json:"spec"`
	Next time.Time `json:"next"`
	Prev time.Time `json:"prev"`
}

type jobEntry struct {
	id   cron.EntryID
	spec string
	fn   func()
}

func (a *Application) addJob(name, spec string, fn func()) {
	id, err := a.sched.AddFunc(spec, fn)
	if err != nil {
		zap.S().Errorf("init job error %s", err.Error())
		return
	}
	a.jobsMu.Lock()
	a.jobs[name] = &jobEntry{id: id, spec: spec, fn: fn}
	a.jobsMu.Unlock()
}

// Jobs lists the scheduled jobs ordered by name
func (a *Application) Jobs() []JobInfo {
	a.jobsMu.Lock()
	defer a.jobsMu.Unlock()
	result := make([]JobInfo, 0, len(a.jobs))
	for name, job := range a.jobs {
		e := a.sched.Entry(job.id)
		result = append(result, JobInfo{Name: name, Spec: job.spec, Next: e.Next, Prev: e.Prev})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result
}

// RunJob runs a scheduled job once in the background
func (a *Application) RunJob(name string) error {
	a.jobsMu.Lock()
	job, ok := a.jobs[name]
	a.jobsMu.Unlock()
	if !ok {
		return errors.Errorf("job %s not found", name)
	}
	go job.fn()
	return nil
}

func (a *Application) initJob() {
	loc, err := time.LoadLocation(a.appConfig.System.Location)
	if err != nil {
		loc = time.Local
	}
	a.sched = cron.New(cron.WithLocation(loc), cron.WithParser(cronParser))

	a.jobs = make(map[string]*jobEntry)

	a.addJob("monitor", "@every 30s", func() {
		go a.SchedSystemMonitorTask()
		go a.SchedProcessMonitorTask()
	})
	a.addJob("catalog_gauges", "@every 5m", a.SchedCatalogGaugeTask)
	a.addJob("purge_oplogs", "@daily", a.SchedClearExpireData)

	a.scheduleBackup()

	a.sched.Start()
}

// SchedSystemMonitorTask system monitor
func (a *Application) SchedSystemMonitorTask() {
	defer func() {
		if err := recover(); err != nil {
			zap.S().Error(err)
		}
	}()

	_cpuuse, err := cpu.Percent(0, false)
	if err == nil && len(_cpuuse) > 0 {
		metrics.SetGauge(GaugeSystemCPU, int64(_cpuuse[0]*100)) // Store as percentage * 100
	}

	_meminfo, err := mem.VirtualMemory()
	if err == nil {
		metrics.SetGauge(GaugeSystemMem, int64(_meminfo.Used/1024/1024)) //nolint:gosec // G115: memory MB value fits in int64
	}
}

// SchedProcessMonitorTask app process monitor
func (a *Application) SchedProcessMonitorTask() {
	defer func() {
		if err := recover(); err != nil {
			zap.S().Error(err)
		}
	}()

	p, err := process.NewProcess(int32(os.Getpid())) //nolint:gosec // G115: PID is always within int32 range
	if err != nil {
		return
	}

	cpuuse, err := p.CPUPercent()
	if err == nil {
		metrics.SetGauge(GaugeProcessCPU, int64(cpuuse*100)) // Store as percentage * 100
	}

	meminfo, err := p.MemoryInfo()
	if err == nil {
		metrics.SetGauge(GaugeProcessMem, int64(meminfo.RSS/1024/1024)) //nolint:gosec // G115: memory MB value fits in int64
	}
}

// SchedCatalogGaugeTask samples catalog sizes for the dashboard charts
func (a *Application) SchedCatalogGaugeTask() {
	defer func() {
		if err := recover(); err != nil {
			zap.S().Error(err)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	products, err := a.store.Products.List(ctx)
	if err != nil {
		zap.L().Warn("catalog gauge: list products failed", zap.Error(err))
		return
	}
	var active, featured int64
	for _, p := range products {
		if p.Active {
			active++
		}
		if p.Featured {
			featured++
		}
	}
	metrics.SetGauge(GaugeCatalogProducts, int64(len(products)))
	metrics.SetGauge(GaugeCatalogActive, active)
	metrics.SetGauge(GaugeCatalogFeatured, featured)

	banners, err := a.store.Banners.Active(ctx)
	if err == nil {
		metrics.SetGauge(GaugeCatalogBanners, int64(len(banners)))
	}
}

// SchedClearExpireData purges operation logs past their retention
func (a *Application) SchedClearExpireData() {
	defer func() {
		if err := recover(); err != nil {
			zap.S().Error(err)
		}
	}()

	n, err := a.oprLogs.DeleteOlderThan(context.Background(), time.Now().Add(-oprLogRetention))
	if err != nil {
		zap.L().Error("purge operation logs failed", zap.Error(err))
		return
	}
	if n > 0 {
		zap.L().Info("purged operation logs", zap.Int64("rows", n))
	}
}
