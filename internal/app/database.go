package app

import (
	"context"
	"fmt"
	"os"
	"path"
	"strings"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/adsarees/storefront/config"
)

// getDatabase opens the configured database, postgres by default and sqlite for
// development deployments. It panics when the connection cannot be established.
func getDatabase(cfg *config.AppConfig) *gorm.DB {
	dbcfg := cfg.Database
	level := logger.Warn
	if dbcfg.Debug {
		level = logger.Info
	}
	gormConfig := &gorm.Config{
		Logger: &gormLogger{level: level, slowThreshold: 200 * time.Millisecond},
	}

	var dialector gorm.Dialector
	switch strings.ToLower(dbcfg.Type) {
	case "sqlite", "sqlite3":
		file := cfg.GetSqlitePath()
		if file != ":memory:" {
			_ = os.MkdirAll(path.Dir(file), 0o755)
		}
		dialector = sqlite.Open(fmt.Sprintf("file:%s?_foreign_keys=on&_busy_timeout=5000", file))
	default:
		dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable TimeZone=%s",
			dbcfg.Host, dbcfg.Port, dbcfg.User, dbcfg.Passwd, dbcfg.Name, cfg.System.Location)
		dialector = postgres.Open(dsn)
	}

	db, err := gorm.Open(dialector, gormConfig)
	if err != nil {
		zap.L().Error("database connect failed", zap.String("type", dbcfg.Type), zap.Error(err))
		panic(err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		panic(err)
	}
	if strings.HasPrefix(strings.ToLower(dbcfg.Type), "sqlite") {
		// sqlite allows a single writer
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(dbcfg.MaxConn)
		sqlDB.SetMaxIdleConns(dbcfg.IdleConn)
		sqlDB.SetConnMaxLifetime(time.Hour)
	}
	return db
}

// gormLogger sends gorm output to zap. Missing rows are expected lookups and
// are not logged.
type gormLogger struct {
	level         logger.LogLevel
	slowThreshold time.Duration
}

func (l *gormLogger) LogMode(level logger.LogLevel) logger.Interface {
	n := *l
	n.level = level
	return &n
}

func (l *gormLogger) Info(_ context.Context, msg string, args ...interface{}) {
	if l.level >= logger.Info {
		zap.S().Infof("gorm: "+msg, args...)
	}
}

func (l *gormLogger) Warn(_ context.Context, msg string, args ...interface{}) {
	if l.level >= logger.Warn {
		zap.S().Warnf("gorm: "+msg, args...)
	}
}

func (l *gormLogger) Error(_ context.Context, msg string, args ...interface{}) {
	if l.level >= logger.Error {
		zap.S().Errorf("gorm: "+msg, args...)
	}
}

func (l *gormLogger) Trace(_ context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.level <= logger.Silent {
		return
	}
	elapsed := time.Since(begin)
	switch {
	case err != nil && l.level >= logger.Error && !errors.Is(err, gorm.ErrRecordNotFound):
		sql, rows := fc()
		zap.L().Error("gorm: query failed", zap.Error(err),
			zap.String("sql", sql), zap.Int64("rows", rows), zap.Duration("elapsed", elapsed))
	case l.slowThreshold > 0 && elapsed > l.slowThreshold && l.level >= logger.Warn:
		sql, rows := fc()
		zap.L().Warn("gorm: slow query",
			zap.String("sql", sql), zap.Int64("rows", rows), zap.Duration("elapsed", elapsed))
	case l.level >= logger.Info:
		sql, rows := fc()
		zap.L().Debug("gorm: query",
			zap.String("sql", sql), zap.Int64("rows", rows), zap.Duration("elapsed", elapsed))
	}
}
