package job

import (
	"Memoria/internal/pkg/consts"
	"Memoria/internal/pkg/logger"
	"Memoria/internal/pkg/redis"
	"Memoria/internal/repository"
	"context"
	log "log/slog"
	"time"

	"github.com/google/uuid"
)

// CounterSyncJob 以子列表长度校准 post_count / comment_count 缓存
type CounterSyncJob struct {
	groupRepo repository.GroupRepo
	postRepo  repository.PostRepo
}

func NewCounterSyncJob(groupRepo repository.GroupRepo, postRepo repository.PostRepo) *CounterSyncJob {
	return &CounterSyncJob{
		groupRepo: groupRepo,
		postRepo:  postRepo,
	}
}

func (s *CounterSyncJob) Run() {
	traceID := logger.JobTracePrefix + "counter-" + uuid.NewString()
	ctx := context.WithValue(context.Background(), logger.TraceIDKey, traceID)

	ok, err := redis.TryLock(ctx, consts.CounterSyncLock, traceID, 10*time.Minute, 1)
	if err != nil || !ok {
		return
	}
	defer redis.UnLock(ctx, consts.CounterSyncLock, traceID)

	s.Sync(ctx)
}

func (s *CounterSyncJob) Sync(ctx context.Context) {
	groups, err := s.groupRepo.SyncPostCounts(ctx)
	if err != nil {
		log.ErrorContext(ctx, "sync group post counts error", "err", err)
	}

	posts, err := s.postRepo.SyncCommentCounts(ctx)
	if err != nil {
		log.ErrorContext(ctx, "sync post comment counts error", "err", err)
	}

	log.InfoContext(ctx, "sync counters finished", "groups_fixed", groups, "posts_fixed", posts)
}
