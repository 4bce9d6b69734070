package repository

import (
	"Memoria/internal/model"
	"Memoria/internal/pkg/consts"
	"context"
	log "log/slog"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

// OrphanRepo 记录父子两步写入失败后遗留的归属关系
type OrphanRepo interface {
	Record(ctx context.Context, link model.OrphanLink) error
	Pending(ctx context.Context) ([]model.OrphanLink, error)
	Resolve(ctx context.Context, link model.OrphanLink) error
}

type orphanRepoImpl struct {
	rdb *redis.Client
}

func NewOrphanRepo(rdb *redis.Client) OrphanRepo {
	return &orphanRepoImpl{rdb: rdb}
}

func (s *orphanRepoImpl) Record(ctx context.Context, link model.OrphanLink) error {
	err := s.rdb.SAdd(ctx, consts.OwnershipOrphanKey, link.String()).Err()
	return errors.Wrapf(err, "record orphan %s", link)
}

func (s *orphanRepoImpl) Pending(ctx context.Context) ([]model.OrphanLink, error) {
	members, err := s.rdb.SMembers(ctx, consts.OwnershipOrphanKey).Result()
	if err != nil {
		return nil, errors.Wrap(err, "list orphans")
	}

	links := make([]model.OrphanLink, 0, len(members))
	for _, m := range members {
		link, err := model.ParseOrphanLink(m)
		if err != nil {
			log.WarnContext(ctx, "drop malformed orphan entry", "entry", m, "err", err)
			_ = s.rdb.SRem(ctx, consts.OwnershipOrphanKey, m).Err()
			continue
		}
		links = append(links, link)
	}
	return links, nil
}

func (s *orphanRepoImpl) Resolve(ctx context.Context, link model.OrphanLink) error {
	err := s.rdb.SRem(ctx, consts.OwnershipOrphanKey, link.String()).Err()
	return errors.Wrapf(err, "resolve orphan %s", link)
}
