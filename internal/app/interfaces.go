package app

import (
	"context"

	"github.com/asaskevich/EventBus"
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"

	"github.com/adsarees/storefront/config"
	"github.com/adsarees/storefront/internal/auth"
	"github.com/adsarees/storefront/internal/cache"
	"github.com/adsarees/storefront/internal/imaging"
	"github.com/adsarees/storefront/internal/repository"
)

// DBProvider provides database access
type DBProvider interface {
	DB() *gorm.DB
}

// ConfigProvider provides application configuration
type ConfigProvider interface {
	Config() *config.AppConfig
}

// StoreProvider provides the catalog persistence adapter and the audit log
type StoreProvider interface {
	Store() *repository.Store
	OprLogs() repository.OprLogRepository
}

// SchedulerProvider provides task scheduling capability
type SchedulerProvider interface {
	Scheduler() *cron.Cron
	Jobs() []JobInfo
	// RunJob starts a named job outside its schedule
	RunJob(name string) error
}

// EventProvider provides the in-process event bus
type EventProvider interface {
	Bus() EventBus.Bus
}

// GateProvider provides the admin login gate
type GateProvider interface {
	Gate() *auth.Gate
}

// ImageProvider provides upload storage and image processing
type ImageProvider interface {
	Images() *imaging.Processor
}

// CacheProvider provides the shopper response cache
type CacheProvider interface {
	Cache() cache.Cache
}

// AppContext combines all provider interfaces for full application context
// Handlers should depend on specific providers or this combined interface
type AppContext interface {
	DBProvider
	ConfigProvider
	StoreProvider
	SchedulerProvider
	EventProvider
	GateProvider
	ImageProvider
	CacheProvider

	// Application lifecycle methods
	MigrateDB(track bool) error
	InitDb()
	DropAll()
	// Audit records a back office operation, failures are logged only
	Audit(ctx context.Context, operator, ip, action, desc string)
	// RunBackup writes a backup set immediately and prunes old sets
	RunBackup(ctx context.Context) (*BackupResult, error)
}
