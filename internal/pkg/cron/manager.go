package cron

import (
	"Memoria/internal/api/config"
	"Memoria/internal/job"
	log "log/slog"

	"github.com/robfig/cron/v3"
)

type Manager struct {
	engine             *cron.Cron
	cfg                config.JobsConfig
	ownershipRepairJob *job.OwnershipRepairJob
	counterSyncJob     *job.CounterSyncJob
	imageCleanupJob    *job.ImageCleanupJob
}

func NewCronManager(
	cfg config.JobsConfig,
	ownershipRepairJob *job.OwnershipRepairJob,
	counterSyncJob *job.CounterSyncJob,
	imageCleanupJob *job.ImageCleanupJob,
) *Manager {
	return &Manager{
		engine:             cron.New(cron.WithSeconds()),
		cfg:                cfg,
		ownershipRepairJob: ownershipRepairJob,
		counterSyncJob:     counterSyncJob,
		imageCleanupJob:    imageCleanupJob,
	}
}

// RegisterJobs 注册定时任务
func (s *Manager) RegisterJobs() error {
	if _, err := s.engine.AddJob(s.cfg.OwnershipRepair, s.ownershipRepairJob); err != nil {
		return err
	}
	if _, err := s.engine.AddJob(s.cfg.CounterSync, s.counterSyncJob); err != nil {
		return err
	}
	if _, err := s.engine.AddJob(s.cfg.ImageCleanup, s.imageCleanupJob); err != nil {
		return err
	}
	return nil
}

func (s *Manager) Start() {
	log.Info("Cron 定时任务引擎启动")
	s.engine.Start()
}

func (s *Manager) Stop() {
	log.Info("Cron 定时任务引擎停止")
	<-s.engine.Stop().Done()
}
