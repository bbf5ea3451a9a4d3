package app

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// scheduleBackup registers the backup job on the configured cron spec
func (a *Application) scheduleBackup() {
	cfg := a.appConfig.Backup
	if !cfg.Enabled {
		zap.L().Info("backup job disabled")
		return
	}
	spec := cfg.Cron
	if spec == "" {
		spec = "@daily"
	}
	if _, err := cronParser.Parse(spec); err != nil {
		zap.L().Error("invalid backup cron spec, falling back to @daily", zap.String("spec", spec), zap.Error(err))
		spec = "@daily"
	}
	a.addJob("backup", spec, a.SchedBackupTask)
	zap.L().Info("backup job scheduled", zap.String("spec", spec), zap.Int("keep", cfg.Keep))
}

// SchedBackupTask backup job runner
func (a *Application) SchedBackupTask() {
	defer func() {
		if err := recover(); err != nil {
			zap.S().Error(err)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()
	if _, err := a.RunBackup(ctx); err != nil {
		zap.L().Error("scheduled backup failed", zap.Error(err))
	}
}
