package service

import (
	"Memoria/internal/api/dto"
	"Memoria/internal/model"
	"Memoria/internal/repository"
	"context"
	"errors"
	log "log/slog"
	"time"

	"github.com/jinzhu/copier"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/sync/errgroup"
)

type GroupService interface {
	CreateGroup(ctx context.Context, req *dto.GroupCreateDTO) (*dto.GroupDTO, error)
	GetGroup(ctx context.Context, groupID uint64, password string) (*dto.GroupDTO, error)
	UpdateGroup(ctx context.Context, groupID uint64, req *dto.GroupUpdateDTO) (*dto.GroupDTO, error)
	DeleteGroup(ctx context.Context, groupID uint64, password string) error
	ListGroups(ctx context.Context, query *dto.ListQueryDTO) (*dto.PageDTO[*dto.GroupDTO], error)
	VerifyPassword(ctx context.Context, groupID uint64, password string) error
	LikeGroup(ctx context.Context, groupID uint64) (*dto.LikeDTO, error)
	IsPublic(ctx context.Context, groupID uint64) (*dto.VisibilityDTO, error)
}

type groupServiceImpl struct {
	groupRepo   repository.GroupRepo
	postRepo    repository.PostRepo
	commentRepo repository.CommentRepo
	linkRepo    repository.CommentLinkRepo
	counterRepo repository.CounterRepo
	gate        *AccessGate
}

func NewGroupService(
	groupRepo repository.GroupRepo,
	postRepo repository.PostRepo,
	commentRepo repository.CommentRepo,
	linkRepo repository.CommentLinkRepo,
	counterRepo repository.CounterRepo,
	gate *AccessGate,
) GroupService {
	return &groupServiceImpl{
		groupRepo:   groupRepo,
		postRepo:    postRepo,
		commentRepo: commentRepo,
		linkRepo:    linkRepo,
		counterRepo: counterRepo,
		gate:        gate,
	}
}

// CreateGroup 先分配编号、计算摘要，再落库
func (s *groupServiceImpl) CreateGroup(ctx context.Context, req *dto.GroupCreateDTO) (*dto.GroupDTO, error) {
	group := &model.Group{}
	if err := copier.Copy(group, req); err != nil {
		return nil, err
	}
	group.IsPublic = req.IsPublic == nil || *req.IsPublic
	group.Posts = []uint64{}

	group.Stage(req.Password)
	if err := s.gate.Seal(group); err != nil {
		return nil, err
	}

	id, err := s.counterRepo.Next(ctx, model.SeqGroup)
	if err != nil {
		return nil, err
	}
	group.GroupID = id

	now := time.Now()
	group.CreatedAt = now
	group.UpdatedAt = now

	if err = s.groupRepo.CreateGroup(ctx, group); err != nil {
		return nil, err
	}
	return toGroupDTO(group), nil
}

func (s *groupServiceImpl) GetGroup(ctx context.Context, groupID uint64, password string) (*dto.GroupDTO, error) {
	group, err := s.findGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if err = s.gate.Read(group.IsPublic, group.Digest, password); err != nil {
		return nil, err
	}
	return toGroupDTO(group), nil
}

// UpdateGroup 以库中摘要校验密码，只合并白名单字段
func (s *groupServiceImpl) UpdateGroup(ctx context.Context, groupID uint64, req *dto.GroupUpdateDTO) (*dto.GroupDTO, error) {
	group, err := s.findGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if err = s.gate.Require(group.Digest, req.Password); err != nil {
		return nil, err
	}

	patch := req.Patch()
	if patch.Empty() {
		return toGroupDTO(group), nil
	}
	if err = s.groupRepo.UpdateGroup(ctx, groupID, patch); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrGroupNotFound
		}
		return nil, err
	}

	patch.Apply(group)
	group.UpdatedAt = time.Now()
	return toGroupDTO(group), nil
}

// DeleteGroup 删除分组并级联清理其下记忆与评论，级联失败只记日志
func (s *groupServiceImpl) DeleteGroup(ctx context.Context, groupID uint64, password string) error {
	group, err := s.findGroup(ctx, groupID)
	if err != nil {
		return err
	}
	if err = s.gate.Require(group.Digest, password); err != nil {
		return err
	}

	if err = s.groupRepo.DeleteGroup(ctx, groupID); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrGroupNotFound
		}
		return err
	}

	if err = s.cascade(context.WithoutCancel(ctx), groupID); err != nil {
		log.ErrorContext(ctx, "cascade delete group failed", "group_id", groupID, "err", err)
	}
	return nil
}

func (s *groupServiceImpl) cascade(ctx context.Context, groupID uint64) error {
	posts, err := s.postRepo.GetPostsByGroup(ctx, groupID)
	if err != nil {
		return err
	}
	if len(posts) == 0 {
		return nil
	}

	postIDs := make([]uint64, 0, len(posts))
	commentIDs := make([]uint64, 0)
	for _, p := range posts {
		postIDs = append(postIDs, p.PostID)
		commentIDs = append(commentIDs, p.Comments...)
	}

	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		_, err := s.postRepo.DeletePosts(egCtx, postIDs)
		return err
	})
	eg.Go(func() error {
		if _, err := s.commentRepo.DeleteComments(egCtx, commentIDs); err != nil {
			return err
		}
		return s.linkRepo.DeleteLinks(egCtx, commentIDs)
	})
	if err = eg.Wait(); err != nil {
		return err
	}

	log.InfoContext(ctx, "group cascade deleted", "group_id", groupID, "posts", len(postIDs), "comments", len(commentIDs))
	return nil
}

func (s *groupServiceImpl) ListGroups(ctx context.Context, query *dto.ListQueryDTO) (*dto.PageDTO[*dto.GroupDTO], error) {
	q := normalizeQuery(query, groupSorts)

	groups, total, err := s.groupRepo.ListGroups(ctx, q.options())
	if err != nil {
		return nil, err
	}

	items := make([]*dto.GroupDTO, 0, len(groups))
	for _, g := range groups {
		item := toGroupDTO(g)
		item.Posts = nil
		items = append(items, item)
	}
	return newPage(q, total, items), nil
}

func (s *groupServiceImpl) VerifyPassword(ctx context.Context, groupID uint64, password string) error {
	group, err := s.findGroup(ctx, groupID)
	if err != nil {
		return err
	}
	return s.gate.Require(group.Digest, password)
}

func (s *groupServiceImpl) LikeGroup(ctx context.Context, groupID uint64) (*dto.LikeDTO, error) {
	likes, err := s.groupRepo.IncrLikes(ctx, groupID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrGroupNotFound
		}
		return nil, err
	}
	return &dto.LikeDTO{LikeCount: likes}, nil
}

func (s *groupServiceImpl) IsPublic(ctx context.Context, groupID uint64) (*dto.VisibilityDTO, error) {
	group, err := s.findGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	return &dto.VisibilityDTO{ID: group.GroupID, IsPublic: group.IsPublic}, nil
}

func (s *groupServiceImpl) findGroup(ctx context.Context, groupID uint64) (*model.Group, error) {
	group, err := s.groupRepo.GetGroup(ctx, groupID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrGroupNotFound
		}
		return nil, err
	}
	return group, nil
}

func toGroupDTO(group *model.Group) *dto.GroupDTO {
	res := &dto.GroupDTO{}
	_ = copier.Copy(res, group)
	res.PostCount = int64(len(group.Posts))
	return res
}
