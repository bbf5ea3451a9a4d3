package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/gorm"

	"github.com/adsarees/storefront/config"
	"github.com/adsarees/storefront/internal/domain"
	"github.com/adsarees/storefront/internal/repository"
)

func testConfig(t *testing.T, driver string) *config.AppConfig {
	t.Helper()
	cfg := *config.DefaultAppConfig
	cfg.System.Workdir = t.TempDir()
	cfg.Database.Type = "sqlite"
	cfg.Database.Name = "test.db"
	cfg.Storage.Driver = driver
	cfg.Logger.FileEnable = false
	cfg.Backup.Keep = 2
	cfg.Admin.Password = "secret"
	cfg.InitDirs()
	return &cfg
}

func newTestApp(t *testing.T, driver string) *Application {
	t.Helper()
	cfg := testConfig(t, driver)
	a := NewApplication(cfg)
	a.OverrideDB(getDatabase(cfg))
	require.NoError(t, a.Bootstrap())
	t.Cleanup(a.Release)
	return a
}

func TestGormLogsThroughZap(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	t.Cleanup(zap.ReplaceGlobals(zap.New(core)))

	db := getDatabase(testConfig(t, "sql"))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	require.NoError(t, db.AutoMigrate(&domain.Banner{}))

	var b domain.Banner
	err := db.First(&b, "id = ?", "missing").Error
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.Zero(t, logs.FilterMessage("gorm: query failed").Len())

	require.Error(t, db.Exec("SELECT * FROM no_such_table").Error)
	failed := logs.FilterMessage("gorm: query failed").All()
	require.Len(t, failed, 1)
	assert.Equal(t, zapcore.ErrorLevel, failed[0].Level)
	assert.Contains(t, failed[0].ContextMap()["sql"], "no_such_table")
}

func TestBootstrapSeedsEmptyDatabase(t *testing.T) {
	for _, driver := range []string{"sql", "snapshot"} {
		t.Run(driver, func(t *testing.T) {
			a := newTestApp(t, driver)
			ctx := context.Background()

			products, err := a.Store().Products.List(ctx)
			require.NoError(t, err)
			assert.Len(t, products, len(domain.DefaultProducts()))

			banners, err := a.Store().Banners.Active(ctx)
			require.NoError(t, err)
			require.Len(t, banners, 4)
			assert.Equal(t, "banner1", banners[0].ID)

			p, err := a.Store().Products.Get(ctx, "1")
			require.NoError(t, err)
			assert.NotEmpty(t, p.Colors)
			assert.NotEmpty(t, p.Images)
		})
	}
}

func TestSeedDoesNotDuplicate(t *testing.T) {
	a := newTestApp(t, "sql")
	ctx := context.Background()
	require.NoError(t, a.Store().Products.Delete(ctx, "1"))

	a.checkProducts()
	a.checkBanners()

	products, err := a.Store().Products.List(ctx)
	require.NoError(t, err)
	assert.Len(t, products, len(domain.DefaultProducts())-1)
	_, err = a.Store().Products.Get(ctx, "1")
	assert.True(t, repository.IsNotFound(err))
}

func TestAuditAndPurge(t *testing.T) {
	a := newTestApp(t, "sql")
	ctx := context.Background()

	a.Audit(ctx, "admin", "127.0.0.1", domain.OptLogin, "login ok")
	old := &domain.SysOprLog{OprName: "admin", OptAction: domain.OptDelete, OptTime: time.Now().Add(-400 * 24 * time.Hour)}
	require.NoError(t, a.OprLogs().Create(ctx, old))

	a.SchedClearExpireData()

	rows, total, err := a.OprLogs().List(ctx, repository.OprLogFilter{}, 1, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, rows, 1)
	assert.Equal(t, domain.OptLogin, rows[0].OptAction)
}

func TestBackupStamp(t *testing.T) {
	ts := time.Date(2024, 1, 2, 3, 4, 5, 678e6, time.UTC)
	assert.Equal(t, "2024-01-02T03-04-05-678Z", backupStamp(ts))
}

func TestRunBackupWritesAndPrunes(t *testing.T) {
	a := newTestApp(t, "sql")
	ctx := context.Background()
	uploads := a.Config().GetUploadDir()
	require.NoError(t, os.MkdirAll(filepath.Join(uploads, "sarees", "1"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(uploads, "sarees", "1", "primary-original.jpg"), []byte("jpg"), 0o644))

	var last *BackupResult
	for i := 0; i < 3; i++ {
		r, err := a.RunBackup(ctx)
		require.NoError(t, err)
		last = r
		time.Sleep(5 * time.Millisecond)
	}
	require.Len(t, last.Files, 3)

	entries, err := os.ReadDir(a.Config().GetBackupDir())
	require.NoError(t, err)
	assert.Len(t, entries, 2)

	data, err := os.ReadFile(filepath.Join(last.Dir, last.Files[0]))
	require.NoError(t, err)
	var export catalogExport
	require.NoError(t, jsoniter.Unmarshal(data, &export))
	assert.Len(t, export.Products, len(domain.DefaultProducts()))
	assert.Len(t, export.Banners, 4)

	copied := filepath.Join(last.Dir, last.Files[2], "sarees", "1", "primary-original.jpg")
	_, err = os.Stat(copied)
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(last.Dir, last.Files[1]))
	assert.NoError(t, err)
}

func TestPruneBackupsKeepsNewest(t *testing.T) {
	root := t.TempDir()
	for _, name := range []string{"backup-2024-01-01T00-00-00-000Z", "backup-2024-01-03T00-00-00-000Z", "backup-2024-01-02T00-00-00-000Z", "other"} {
		require.NoError(t, os.Mkdir(filepath.Join(root, name), 0o755))
	}
	removed, err := pruneBackups(root, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"backup-2024-01-01T00-00-00-000Z", "backup-2024-01-02T00-00-00-000Z"}, removed)
	_, err = os.Stat(filepath.Join(root, "other"))
	assert.NoError(t, err)
}
