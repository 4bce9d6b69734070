package job

import (
	"Memoria/internal/model"
	"Memoria/internal/pkg/consts"
	"Memoria/internal/pkg/logger"
	"Memoria/internal/pkg/redis"
	"Memoria/internal/repository"
	"context"
	"errors"
	log "log/slog"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"
)

// OwnershipRepairJob 重放孤儿账本：账本中的每条关系都表示子实体不应挂在该父实体下
type OwnershipRepairJob struct {
	groupRepo   repository.GroupRepo
	postRepo    repository.PostRepo
	commentRepo repository.CommentRepo
	linkRepo    repository.CommentLinkRepo
	orphanRepo  repository.OrphanRepo
}

func NewOwnershipRepairJob(
	groupRepo repository.GroupRepo,
	postRepo repository.PostRepo,
	commentRepo repository.CommentRepo,
	linkRepo repository.CommentLinkRepo,
	orphanRepo repository.OrphanRepo,
) *OwnershipRepairJob {
	return &OwnershipRepairJob{
		groupRepo:   groupRepo,
		postRepo:    postRepo,
		commentRepo: commentRepo,
		linkRepo:    linkRepo,
		orphanRepo:  orphanRepo,
	}
}

func (s *OwnershipRepairJob) Run() {
	traceID := logger.JobTracePrefix + "ownership-" + uuid.NewString()
	ctx := context.WithValue(context.Background(), logger.TraceIDKey, traceID)

	ok, err := redis.TryLock(ctx, consts.OwnershipRepairLock, traceID, 4*time.Minute, 1)
	if err != nil || !ok {
		return
	}
	defer redis.UnLock(ctx, consts.OwnershipRepairLock, traceID)

	s.Repair(ctx)
}

// Repair 返回成功收敛的条数
func (s *OwnershipRepairJob) Repair(ctx context.Context) int {
	links, err := s.orphanRepo.Pending(ctx)
	if err != nil {
		log.ErrorContext(ctx, "list orphan ledger error", "err", err)
		return 0
	}
	if len(links) == 0 {
		return 0
	}

	log.InfoContext(ctx, "start repairing ownership", "count", len(links))

	successCount := 0
	for _, link := range links {
		var err error
		switch link.Kind {
		case model.OrphanKindPost:
			err = s.repairPost(ctx, link)
		case model.OrphanKindComment:
			err = s.repairComment(ctx, link)
		}
		if err != nil {
			log.ErrorContext(ctx, "repair ownership error", "orphan", link.String(), "err", err)
			continue
		}

		if err = s.orphanRepo.Resolve(ctx, link); err != nil {
			log.ErrorContext(ctx, "resolve orphan error", "orphan", link.String(), "err", err)
			continue
		}
		successCount++
	}

	log.InfoContext(ctx, "repair ownership finished",
		"total_count", len(links),
		"success_count", successCount)
	return successCount
}

func (s *OwnershipRepairJob) repairPost(ctx context.Context, link model.OrphanLink) error {
	post, err := s.postRepo.GetPost(ctx, link.ChildID)
	switch {
	case err == nil:
		if err = s.postRepo.DeletePost(ctx, link.ChildID); err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
			return err
		}
		if len(post.Comments) > 0 {
			if _, err = s.commentRepo.DeleteComments(ctx, post.Comments); err != nil {
				return err
			}
			if err = s.linkRepo.DeleteLinks(ctx, post.Comments); err != nil {
				return err
			}
		}
	case !errors.Is(err, mongo.ErrNoDocuments):
		return err
	}

	if err = s.groupRepo.RemovePost(ctx, link.ParentID, link.ChildID); err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
		return err
	}
	return nil
}

func (s *OwnershipRepairJob) repairComment(ctx context.Context, link model.OrphanLink) error {
	if err := s.commentRepo.DeleteComment(ctx, link.ChildID); err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
		return err
	}
	if err := s.postRepo.RemoveComment(ctx, link.ParentID, link.ChildID); err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
		return err
	}
	return s.linkRepo.DeleteLink(ctx, link.ChildID)
}
