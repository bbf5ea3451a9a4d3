package app

import (
	"context"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/adsarees/storefront/internal/domain"
)

const backupPrefix = "backup-"

// BackupResult describes one backup set on disk
type BackupResult struct {
	Name      string    `json:"name"`
	Dir       string    `json:"dir"`
	Files     []string  `json:"files"`
	Pruned    []string  `json:"pruned,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type catalogExport struct {
	ExportedAt time.Time        `json:"exported_at"`
	Driver     string           `json:"driver"`
	Products   []domain.Product `json:"products"`
	Banners    []domain.Banner  `json:"banners"`
}

// backupStamp renders t as an ISO-8601 UTC timestamp safe for file names
func backupStamp(t time.Time) string {
	return strings.NewReplacer(":", "-", ".", "-").Replace(t.UTC().Format("2006-01-02T15:04:05.000Z"))
}

// RunBackup writes backups/backup-<stamp>/ holding a JSON export of the
// catalog, a copy of the sqlite database when one is in use and a copy of the
// uploads directory, then prunes sets beyond backup.keep
func (a *Application) RunBackup(ctx context.Context) (*BackupResult, error) {
	a.backupMu.Lock()
	defer a.backupMu.Unlock()

	now := time.Now()
	stamp := backupStamp(now)
	root := a.appConfig.GetBackupDir()
	dir := filepath.Join(root, backupPrefix+stamp)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(err, "create backup dir")
	}
	result := &BackupResult{Name: backupPrefix + stamp, Dir: dir, Files: []string{}, CreatedAt: now}

	exportFile := filepath.Join(dir, "sarees-"+stamp+".json")
	if err := a.exportCatalog(ctx, exportFile); err != nil {
		return nil, err
	}
	result.Files = append(result.Files, filepath.Base(exportFile))

	if a.gormDB != nil && a.gormDB.Dialector.Name() == "sqlite" && a.appConfig.GetSqlitePath() != ":memory:" {
		dbFile := filepath.Join(dir, "sarees-"+stamp+".db")
		if err := a.gormDB.WithContext(ctx).Exec("VACUUM INTO ?", dbFile).Error; err != nil {
			return nil, errors.Wrap(err, "copy sqlite database")
		}
		result.Files = append(result.Files, filepath.Base(dbFile))
	}

	uploads := a.appConfig.GetUploadDir()
	if st, err := os.Stat(uploads); err == nil && st.IsDir() {
		dest := filepath.Join(dir, "uploads-"+stamp)
		if err := copyDir(uploads, dest); err != nil {
			return nil, errors.Wrap(err, "copy uploads")
		}
		result.Files = append(result.Files, filepath.Base(dest))
	} else {
		zap.L().Info("backup: no uploads directory found", zap.String("dir", uploads))
	}

	pruned, err := pruneBackups(root, a.appConfig.Backup.Keep)
	if err != nil {
		zap.L().Warn("backup: prune failed", zap.Error(err))
	}
	result.Pruned = pruned

	zap.L().Info("backup: completed", zap.String("dir", dir), zap.Strings("files", result.Files))
	return result, nil
}

func (a *Application) exportCatalog(ctx context.Context, file string) error {
	products, err := a.store.Products.List(ctx)
	if err != nil {
		return err
	}
	banners, err := a.store.Banners.List(ctx)
	if err != nil {
		return err
	}
	data, err := jsoniter.ConfigCompatibleWithStandardLibrary.MarshalIndent(catalogExport{
		ExportedAt: time.Now(),
		Driver:     a.store.Driver,
		Products:   products,
		Banners:    banners,
	}, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encode catalog export")
	}
	return errors.Wrap(os.WriteFile(file, data, 0o644), "write catalog export")
}

// pruneBackups removes the oldest backup sets so at most keep remain
func pruneBackups(root string, keep int) ([]string, error) {
	if keep <= 0 {
		return nil, nil
	}
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, err
	}
	var sets []string
	for _, e := range entries {
		if e.IsDir() && strings.HasPrefix(e.Name(), backupPrefix) {
			sets = append(sets, e.Name())
		}
	}
	if len(sets) <= keep {
		return nil, nil
	}
	// stamps sort lexically in time order
	sort.Strings(sets)
	var removed []string
	for _, name := range sets[:len(sets)-keep] {
		if err := os.RemoveAll(filepath.Join(root, name)); err != nil {
			return removed, err
		}
		removed = append(removed, name)
	}
	return removed, nil
}

func copyDir(src, dst string) error {
	return filepath.WalkDir(src, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, p)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		if d.IsDir() {
			return os.MkdirAll(target, 0o755)
		}
		if !d.Type().IsRegular() {
			return nil
		}
		return copyFile(p, target)
	})
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
