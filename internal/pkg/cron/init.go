package cron

import (
	"fmt"
	log "log/slog"
)

// InitCron 注册归属修复、计数同步与图片清理任务后启动引擎，表达式非法时拒绝启动
func InitCron(mgr *Manager) error {
	if err := mgr.RegisterJobs(); err != nil {
		return fmt.Errorf("register cron jobs: %w", err)
	}
	mgr.Start()
	log.Info("Cron Jobs started",
		"ownership_repair", mgr.cfg.OwnershipRepair,
		"counter_sync", mgr.cfg.CounterSync,
		"image_cleanup", mgr.cfg.ImageCleanup)
	return nil
}
