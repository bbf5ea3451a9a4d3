package app

import (
	"context"
	"os"
	"runtime/debug"
	"strings"
	"sync"
	"time"
	_ "time/tzdata"

	"github.com/asaskevich/EventBus"
	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
	"gorm.io/gorm"

	"github.com/adsarees/storefront/config"
	"github.com/adsarees/storefront/internal/auth"
	"github.com/adsarees/storefront/internal/cache"
	"github.com/adsarees/storefront/internal/domain"
	"github.com/adsarees/storefront/internal/imaging"
	"github.com/adsarees/storefront/internal/notify"
	"github.com/adsarees/storefront/internal/repository"
	"github.com/adsarees/storefront/pkg/metrics"
)

type Application struct {
	appConfig  *config.AppConfig
	gormDB     *gorm.DB
	store      *repository.Store
	oprLogs    repository.OprLogRepository
	sched      *cron.Cron
	bus        EventBus.Bus
	dispatcher *notify.Dispatcher
	gate       *auth.Gate
	images     *imaging.Processor
	cache      cache.Cache
	closers    []func() error
	backupMu   sync.Mutex
	jobs       map[string]*jobEntry
	jobsMu     sync.Mutex
}

// Ensure Application implements all interfaces
var (
	_ DBProvider        = (*Application)(nil)
	_ ConfigProvider    = (*Application)(nil)
	_ StoreProvider     = (*Application)(nil)
	_ SchedulerProvider = (*Application)(nil)
	_ EventProvider     = (*Application)(nil)
	_ GateProvider      = (*Application)(nil)
	_ ImageProvider     = (*Application)(nil)
	_ CacheProvider     = (*Application)(nil)
	_ AppContext        = (*Application)(nil)
)

func NewApplication(appConfig *config.AppConfig) *Application {
	return &Application{appConfig: appConfig}
}

func (a *Application) Config() *config.AppConfig {
	return a.appConfig
}

func (a *Application) DB() *gorm.DB {
	return a.gormDB
}

// OverrideDB replaces the application's database handle (used in tests).
func (a *Application) OverrideDB(db *gorm.DB) {
	a.gormDB = db
}

func (a *Application) Store() *repository.Store {
	return a.store
}

func (a *Application) OprLogs() repository.OprLogRepository {
	return a.oprLogs
}

// Scheduler returns the cron scheduler
func (a *Application) Scheduler() *cron.Cron {
	return a.sched
}

func (a *Application) Bus() EventBus.Bus {
	return a.bus
}

func (a *Application) Gate() *auth.Gate {
	return a.gate
}

func (a *Application) Images() *imaging.Processor {
	return a.images
}

func (a *Application) Cache() cache.Cache {
	return a.cache
}

func (a *Application) Init(cfg *config.AppConfig) {
	loc, err := time.LoadLocation(cfg.System.Location)
	if err != nil {
		zap.S().Error("timezone config error")
	} else {
		time.Local = loc
	}

	initLogger(cfg.Logger)

	// Initialize metrics with workdir convention
	err = metrics.InitMetrics(cfg.System.Workdir)
	if err != nil {
		zap.S().Warn("Failed to initialize metrics:", err)
	}

	// Initialize database connection
	if cfg.Database.Type == "" {
		cfg.Database.Type = "postgres"
	}
	a.gormDB = getDatabase(cfg)
	zap.S().Infof("Database connection successful, type: %s", cfg.Database.Type)

	if err := a.Bootstrap(); err != nil {
		panic(err)
	}
}

func initLogger(cfg config.LogConfig) {
	var zapConfig zap.Config
	if cfg.Mode == "production" {
		zapConfig = zap.NewProductionConfig()
	} else {
		zapConfig = zap.NewDevelopmentConfig()
	}

	var logger *zap.Logger
	var err error
	if cfg.FileEnable {
		lumberJackLogger := &lumberjack.Logger{
			Filename:   cfg.Filename,
			MaxSize:    64,
			MaxBackups: 7,
			MaxAge:     7,
			Compress:   false,
		}

		core := zapcore.NewTee(
			zapcore.NewCore(
				zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
				zapcore.AddSync(lumberJackLogger),
				zapConfig.Level,
			),
			zapcore.NewCore(
				zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
				zapcore.AddSync(os.Stdout),
				zapConfig.Level,
			),
		)
		logger = zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1))
	} else {
		zapConfig.OutputPaths = []string{"stdout"}
		logger, err = zapConfig.Build(zap.AddCaller(), zap.AddCallerSkip(1))
		if err != nil {
			panic(err)
		}
	}

	zap.ReplaceGlobals(logger)
}

// Bootstrap wires everything that depends on an open database: schema, the
// catalog store, seed data, the event bus with its notification dispatcher,
// the login gate and the cron jobs
func (a *Application) Bootstrap() error {
	cfg := a.appConfig

	// Ensure database schema is migrated before seeding
	if err := a.MigrateDB(false); err != nil {
		zap.S().Errorf("database migration failed: %v", err)
	}
	a.oprLogs = repository.NewGormOprLogRepository(a.gormDB)

	switch strings.ToLower(cfg.Storage.Driver) {
	case "snapshot":
		store, err := repository.OpenSnapshotStore(cfg.GetSnapshotPath())
		if err != nil {
			return errors.Wrap(err, "open snapshot store")
		}
		a.store = store
	default:
		a.store = repository.NewGormStore(a.gormDB)
		a.checkProducts()
		a.checkBanners()
	}
	zap.L().Info("catalog store ready", zap.String("driver", a.store.Driver))

	a.bus = EventBus.New()
	dispatcher, err := notify.NewDispatcher(a.bus,
		notify.NewTwilioSender(cfg.Twilio), notify.NewMailer(cfg.Alert), 4)
	if err != nil {
		return err
	}
	if err := dispatcher.Start(); err != nil {
		return err
	}
	a.dispatcher = dispatcher
	if cfg.Admin.Password == "" {
		zap.L().Warn("admin password is not configured, back office login is disabled")
	}
	a.gate = auth.NewGate(cfg.Admin, a.bus)
	a.images = imaging.NewProcessor(cfg.GetUploadDir())
	a.cache = a.openCache()
	if err := a.bus.Subscribe(notify.TopicCatalogChanged, a.flushCatalogCache); err != nil {
		return err
	}

	a.initJob()
	return nil
}

func (a *Application) openCache() cache.Cache {
	cfg := a.appConfig.Cache
	memory := func() cache.Cache {
		return cache.NewMemoryCache(cfg.MaxEntries, time.Duration(cfg.TTLSeconds)*time.Second)
	}
	url := cfg.RedisURL
	if url == "" {
		return memory()
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	rc, err := cache.NewRedisCache(ctx, url)
	if err != nil {
		zap.L().Warn("redis cache unavailable, using memory cache", zap.Error(err))
		return memory()
	}
	a.closers = append(a.closers, rc.Close)
	zap.L().Info("redis cache connected")
	return rc
}

// CacheKeyPrefix prefixes every cached shopper response
const CacheKeyPrefix = "storefront:"

func (a *Application) flushCatalogCache() {
	if err := a.cache.Flush(context.Background(), CacheKeyPrefix); err != nil {
		zap.L().Warn("flush response cache failed", zap.Error(err))
	}
}

func (a *Application) MigrateDB(track bool) (err error) {
	defer func() {
		if err1 := recover(); err1 != nil {
			if os.Getenv("GO_DEGUB_TRACE") != "" {
				debug.PrintStack()
			}
			err2, ok := err1.(error)
			if ok {
				err = err2
				zap.S().Error(err2.Error())
			}
		}
	}()
	if track {
		if err := a.gormDB.Debug().Migrator().AutoMigrate(domain.Tables...); err != nil {
			zap.S().Error(err)
		}
	} else {
		if err := a.gormDB.Migrator().AutoMigrate(domain.Tables...); err != nil {
			zap.S().Error(err)
		}
	}
	return nil
}

func (a *Application) DropAll() {
	_ = a.gormDB.Migrator().DropTable(domain.Tables...)
}

func (a *Application) InitDb() {
	_ = a.gormDB.Migrator().DropTable(domain.Tables...)
	err := a.gormDB.Migrator().AutoMigrate(domain.Tables...)
	if err != nil {
		zap.S().Error(err)
	}
}

func (a *Application) Audit(ctx context.Context, operator, ip, action, desc string) {
	if a.oprLogs == nil {
		return
	}
	err := a.oprLogs.Create(ctx, &domain.SysOprLog{
		OprName:   operator,
		OprIp:     ip,
		OptAction: action,
		OptDesc:   desc,
	})
	if err != nil {
		zap.L().Error("failed to write operation log", zap.String("action", action), zap.Error(err))
	}
}

// Release releases application resources
func (a *Application) Release() {
	if a.sched != nil {
		a.sched.Stop()
	}
	if a.dispatcher != nil {
		a.dispatcher.Close()
	}
	if a.store != nil {
		_ = a.store.Close()
	}
	for _, closeFn := range a.closers {
		_ = closeFn()
	}
	if a.gormDB != nil {
		if sqlDB, err := a.gormDB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}

	_ = metrics.Close()
	_ = zap.L().Sync()
}
