package cron

import (
	"Memoria/internal/api/config"
	"Memoria/internal/job"
	"testing"
)

func TestRegisterJobs(t *testing.T) {
	cfg := config.JobsConfig{OwnershipRepair: "0 */5 * * * *", CounterSync: "0 0 * * * *", ImageCleanup: "0 30 3 * * *"}
	mgr := NewCronManager(cfg, &job.OwnershipRepairJob{}, &job.CounterSyncJob{}, &job.ImageCleanupJob{})
	if err := mgr.RegisterJobs(); err != nil {
		t.Fatalf("register: %v", err)
	}
	if n := len(mgr.engine.Entries()); n != 3 {
		t.Fatalf("entries = %d", n)
	}
}

func TestRegisterJobsRejectsBadCronExpr(t *testing.T) {
	cfg := config.JobsConfig{OwnershipRepair: "every five minutes", CounterSync: "0 0 * * * *", ImageCleanup: "0 30 3 * * *"}
	mgr := NewCronManager(cfg, &job.OwnershipRepairJob{}, &job.CounterSyncJob{}, &job.ImageCleanupJob{})
	if err := mgr.RegisterJobs(); err == nil {
		t.Fatalf("expected parse error")
	}
}
