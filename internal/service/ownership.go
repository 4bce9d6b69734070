package service

import (
	"Memoria/internal/model"
	"Memoria/internal/repository"
	"context"
	log "log/slog"
)

// ownershipGuard 父子两步写入的补偿。补偿本身失败时把关系记入孤儿账本，由修复任务收尾
type ownershipGuard struct {
	orphanRepo repository.OrphanRepo
}

// compensate 子实体已落库但挂到父实体失败，回滚子实体
func (g *ownershipGuard) compensate(ctx context.Context, link model.OrphanLink, cause error, rollback func(context.Context) error) {
	log.ErrorContext(ctx, "append child to parent failed, rolling back",
		"kind", link.Kind, "child", link.ChildID, "parent", link.ParentID, "err", cause)

	if err := rollback(context.WithoutCancel(ctx)); err != nil {
		log.ErrorContext(ctx, "rollback child failed", "kind", link.Kind, "child", link.ChildID, "err", err)
		g.record(ctx, link)
	}
}

// detach 子实体已删除但从父实体列表移除失败
func (g *ownershipGuard) detach(ctx context.Context, link model.OrphanLink, cause error) {
	log.ErrorContext(ctx, "remove child from parent failed",
		"kind", link.Kind, "child", link.ChildID, "parent", link.ParentID, "err", cause)
	g.record(ctx, link)
}

func (g *ownershipGuard) record(ctx context.Context, link model.OrphanLink) {
	if err := g.orphanRepo.Record(context.WithoutCancel(ctx), link); err != nil {
		log.ErrorContext(ctx, "record orphan failed, manual repair needed", "orphan", link.String(), "err", err)
	}
}
