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

// ObjectRemover 删除对象存储中的文件
type ObjectRemover interface {
	Delete(ctx context.Context, objectName string) error
}

// ImageCleanupJob 清理上传后超时仍未被分组或帖子引用的图片
type ImageCleanupJob struct {
	pendingRepo repository.PendingImageRepo
	refRepo     repository.ImageRefRepo
	remover     ObjectRemover
	ttl         time.Duration
}

func NewImageCleanupJob(
	pendingRepo repository.PendingImageRepo,
	refRepo repository.ImageRefRepo,
	remover ObjectRemover,
	ttl time.Duration,
) *ImageCleanupJob {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &ImageCleanupJob{
		pendingRepo: pendingRepo,
		refRepo:     refRepo,
		remover:     remover,
		ttl:         ttl,
	}
}

func (s *ImageCleanupJob) Run() {
	traceID := logger.JobTracePrefix + "image-" + uuid.NewString()
	ctx := context.WithValue(context.Background(), logger.TraceIDKey, traceID)

	ok, err := redis.TryLock(ctx, consts.ImageCleanupLock, traceID, 10*time.Minute, 1)
	if err != nil || !ok {
		return
	}
	defer redis.UnLock(ctx, consts.ImageCleanupLock, traceID)

	s.Cleanup(ctx, time.Now())
}

// Cleanup 已被引用的只移出登记表，过期未引用的连同对象一起删除，返回删除的对象数
func (s *ImageCleanupJob) Cleanup(ctx context.Context, now time.Time) int {
	images, err := s.pendingRepo.Pending(ctx)
	if err != nil {
		log.ErrorContext(ctx, "list pending images error", "err", err)
		return 0
	}

	count := 0
	for _, img := range images {
		used, err := s.refRepo.Referenced(ctx, img.URL)
		if err != nil {
			log.ErrorContext(ctx, "check image reference error", "objectName", img.ObjectName, "err", err)
			continue
		}
		if used {
			if err = s.pendingRepo.Forget(ctx, img.ObjectName); err != nil {
				log.ErrorContext(ctx, "forget pending image error", "objectName", img.ObjectName, "err", err)
			}
			continue
		}
		if now.Sub(time.Unix(img.CreatedAt, 0)) <= s.ttl {
			continue
		}

		if err = s.remover.Delete(ctx, img.ObjectName); err != nil {
			log.ErrorContext(ctx, "delete expired image error", "objectName", img.ObjectName, "err", err)
			continue
		}
		if err = s.pendingRepo.Forget(ctx, img.ObjectName); err != nil {
			log.ErrorContext(ctx, "forget pending image error", "objectName", img.ObjectName, "err", err)
		}
		count++
		log.InfoContext(ctx, "cleanup expired image", "objectName", img.ObjectName, "mime", img.MimeType)
	}

	if count > 0 {
		log.InfoContext(ctx, "image cleanup job finished", "cleaned_count", count)
	}
	return count
}
