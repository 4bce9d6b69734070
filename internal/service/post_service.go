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
)

type PostService interface {
	CreatePost(ctx context.Context, groupID uint64, req *dto.PostCreateDTO) (*dto.PostDTO, error)
	GetPost(ctx context.Context, postID uint64) (*dto.PostDTO, error)
	UpdatePost(ctx context.Context, postID uint64, req *dto.PostUpdateDTO) (*dto.PostDTO, error)
	DeletePost(ctx context.Context, postID uint64, password string) error
	ListPosts(ctx context.Context, groupID uint64, query *dto.ListQueryDTO) (*dto.PageDTO[*dto.PostDTO], error)
	VerifyPassword(ctx context.Context, postID uint64, password string) error
	LikePost(ctx context.Context, postID uint64) (*dto.LikeDTO, error)
	IsPublic(ctx context.Context, postID uint64) (*dto.VisibilityDTO, error)
}

type postServiceImpl struct {
	groupRepo   repository.GroupRepo
	postRepo    repository.PostRepo
	commentRepo repository.CommentRepo
	linkRepo    repository.CommentLinkRepo
	counterRepo repository.CounterRepo
	gate        *AccessGate
	guard       *ownershipGuard
}

func NewPostService(
	groupRepo repository.GroupRepo,
	postRepo repository.PostRepo,
	commentRepo repository.CommentRepo,
	linkRepo repository.CommentLinkRepo,
	counterRepo repository.CounterRepo,
	orphanRepo repository.OrphanRepo,
	gate *AccessGate,
) PostService {
	return &postServiceImpl{
		groupRepo:   groupRepo,
		postRepo:    postRepo,
		commentRepo: commentRepo,
		linkRepo:    linkRepo,
		counterRepo: counterRepo,
		gate:        gate,
		guard:       &ownershipGuard{orphanRepo: orphanRepo},
	}
}

// CreatePost 先写记忆再挂到分组，挂载失败时回滚记忆
func (s *postServiceImpl) CreatePost(ctx context.Context, groupID uint64, req *dto.PostCreateDTO) (*dto.PostDTO, error) {
	if _, err := s.groupRepo.GetGroup(ctx, groupID); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrGroupNotFound
		}
		return nil, err
	}

	post := &model.Post{}
	if err := copier.Copy(post, req); err != nil {
		return nil, err
	}
	post.GroupID = groupID
	post.IsPublic = req.IsPublic == nil || *req.IsPublic
	post.Tags = model.NormalizeTags(req.Tags)
	post.Comments = []uint64{}

	post.Stage(req.Password)
	if err := s.gate.Seal(post); err != nil {
		return nil, err
	}

	id, err := s.counterRepo.Next(ctx, model.SeqPost)
	if err != nil {
		return nil, err
	}
	post.PostID = id

	now := time.Now()
	post.CreatedAt = now
	post.UpdatedAt = now

	if err = s.postRepo.CreatePost(ctx, post); err != nil {
		return nil, err
	}

	if err = s.groupRepo.AddPost(ctx, groupID, post.PostID); err != nil {
		link := model.OrphanLink{Kind: model.OrphanKindPost, ChildID: post.PostID, ParentID: groupID}
		s.guard.compensate(ctx, link, err, func(c context.Context) error {
			return s.postRepo.DeletePost(c, post.PostID)
		})
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrGroupNotFound
		}
		return nil, err
	}
	return toPostDTO(post), nil
}

// GetPost 记忆详情不设门禁
func (s *postServiceImpl) GetPost(ctx context.Context, postID uint64) (*dto.PostDTO, error) {
	post, err := s.findPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	return toPostDTO(post), nil
}

func (s *postServiceImpl) UpdatePost(ctx context.Context, postID uint64, req *dto.PostUpdateDTO) (*dto.PostDTO, error) {
	post, err := s.findPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	if err = s.gate.Require(post.Digest, req.Password); err != nil {
		return nil, err
	}

	patch := req.Patch()
	if patch.Empty() {
		return toPostDTO(post), nil
	}
	if err = s.postRepo.UpdatePost(ctx, postID, patch); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}

	patch.Apply(post)
	post.UpdatedAt = time.Now()
	return toPostDTO(post), nil
}

// DeletePost 删除记忆，从分组列表移除并清理其评论
func (s *postServiceImpl) DeletePost(ctx context.Context, postID uint64, password string) error {
	post, err := s.findPost(ctx, postID)
	if err != nil {
		return err
	}
	if err = s.gate.Require(post.Digest, password); err != nil {
		return err
	}

	if err = s.postRepo.DeletePost(ctx, postID); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrPostNotFound
		}
		return err
	}

	if err = s.groupRepo.RemovePost(ctx, post.GroupID, postID); err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
		s.guard.detach(ctx, model.OrphanLink{Kind: model.OrphanKindPost, ChildID: postID, ParentID: post.GroupID}, err)
	}

	if len(post.Comments) > 0 {
		bgCtx := context.WithoutCancel(ctx)
		if _, err = s.commentRepo.DeleteComments(bgCtx, post.Comments); err != nil {
			log.ErrorContext(ctx, "cascade delete comments failed", "post_id", postID, "err", err)
		} else if err = s.linkRepo.DeleteLinks(bgCtx, post.Comments); err != nil {
			log.ErrorContext(ctx, "cascade delete comment links failed", "post_id", postID, "err", err)
		}
	}
	return nil
}

// ListPosts 在分组的 posts 列表范围内分页
func (s *postServiceImpl) ListPosts(ctx context.Context, groupID uint64, query *dto.ListQueryDTO) (*dto.PageDTO[*dto.PostDTO], error) {
	group, err := s.groupRepo.GetGroup(ctx, groupID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrGroupNotFound
		}
		return nil, err
	}

	q := normalizeQuery(query, postSorts)
	posts, total, err := s.postRepo.ListPosts(ctx, q.scopedOptions(group.Posts))
	if err != nil {
		return nil, err
	}

	items := make([]*dto.PostDTO, 0, len(posts))
	for _, p := range posts {
		items = append(items, toPostDTO(p))
	}
	return newPage(q, total, items), nil
}

func (s *postServiceImpl) VerifyPassword(ctx context.Context, postID uint64, password string) error {
	post, err := s.findPost(ctx, postID)
	if err != nil {
		return err
	}
	return s.gate.Require(post.Digest, password)
}

func (s *postServiceImpl) LikePost(ctx context.Context, postID uint64) (*dto.LikeDTO, error) {
	likes, err := s.postRepo.IncrLikes(ctx, postID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	return &dto.LikeDTO{LikeCount: likes}, nil
}

func (s *postServiceImpl) IsPublic(ctx context.Context, postID uint64) (*dto.VisibilityDTO, error) {
	post, err := s.findPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	return &dto.VisibilityDTO{ID: post.PostID, IsPublic: post.IsPublic}, nil
}

func (s *postServiceImpl) findPost(ctx context.Context, postID uint64) (*model.Post, error) {
	post, err := s.postRepo.GetPost(ctx, postID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	return post, nil
}

func toPostDTO(post *model.Post) *dto.PostDTO {
	res := &dto.PostDTO{}
	_ = copier.Copy(res, post)
	if res.Tags == nil {
		res.Tags = []string{}
	}
	res.CommentCount = int64(len(post.Comments))
	return res
}
