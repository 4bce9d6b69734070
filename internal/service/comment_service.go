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

type CommentService interface {
	CreateComment(ctx context.Context, postID uint64, req *dto.CommentCreateDTO) (*dto.CommentDTO, error)
	GetComment(ctx context.Context, commentID uint64) (*dto.CommentDTO, error)
	UpdateComment(ctx context.Context, commentID uint64, req *dto.CommentUpdateDTO) (*dto.CommentDTO, error)
	DeleteComment(ctx context.Context, commentID uint64, password string) error
	ListComments(ctx context.Context, postID uint64, query *dto.ListQueryDTO) (*dto.PageDTO[*dto.CommentDTO], error)
}

type commentServiceImpl struct {
	postRepo    repository.PostRepo
	commentRepo repository.CommentRepo
	linkRepo    repository.CommentLinkRepo
	counterRepo repository.CounterRepo
	gate        *AccessGate
	guard       *ownershipGuard
}

func NewCommentService(
	postRepo repository.PostRepo,
	commentRepo repository.CommentRepo,
	linkRepo repository.CommentLinkRepo,
	counterRepo repository.CounterRepo,
	orphanRepo repository.OrphanRepo,
	gate *AccessGate,
) CommentService {
	return &commentServiceImpl{
		postRepo:    postRepo,
		commentRepo: commentRepo,
		linkRepo:    linkRepo,
		counterRepo: counterRepo,
		gate:        gate,
		guard:       &ownershipGuard{orphanRepo: orphanRepo},
	}
}

// CreateComment 写评论、写关系索引、挂到记忆，任一步失败都回滚前面的写入
func (s *commentServiceImpl) CreateComment(ctx context.Context, postID uint64, req *dto.CommentCreateDTO) (*dto.CommentDTO, error) {
	if _, err := s.postRepo.GetPost(ctx, postID); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}

	comment := &model.Comment{
		Nickname: req.Nickname,
		Content:  req.Content,
	}
	comment.Stage(req.Password)
	if err := s.gate.Seal(comment); err != nil {
		return nil, err
	}

	id, err := s.counterRepo.Next(ctx, model.SeqComment)
	if err != nil {
		return nil, err
	}
	comment.CommentID = id

	now := time.Now()
	comment.CreatedAt = now
	comment.UpdatedAt = now

	if err = s.commentRepo.CreateComment(ctx, comment); err != nil {
		return nil, err
	}

	link := model.OrphanLink{Kind: model.OrphanKindComment, ChildID: id, ParentID: postID}
	rollback := func(c context.Context) error {
		if err := s.commentRepo.DeleteComment(c, id); err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
			return err
		}
		return s.linkRepo.DeleteLink(c, id)
	}

	if err = s.linkRepo.SaveLink(ctx, id, postID); err != nil {
		s.guard.compensate(ctx, link, err, rollback)
		return nil, err
	}
	if err = s.postRepo.AddComment(ctx, postID, id); err != nil {
		s.guard.compensate(ctx, link, err, rollback)
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	return toCommentDTO(comment, postID), nil
}

// GetComment 评论详情不设门禁
func (s *commentServiceImpl) GetComment(ctx context.Context, commentID uint64) (*dto.CommentDTO, error) {
	comment, err := s.findComment(ctx, commentID)
	if err != nil {
		return nil, err
	}
	postID, err := s.ownerOf(ctx, commentID)
	if err != nil {
		return nil, err
	}
	return toCommentDTO(comment, postID), nil
}

func (s *commentServiceImpl) UpdateComment(ctx context.Context, commentID uint64, req *dto.CommentUpdateDTO) (*dto.CommentDTO, error) {
	comment, err := s.findComment(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if err = s.gate.Require(comment.Digest, req.Password); err != nil {
		return nil, err
	}

	postID, err := s.ownerOf(ctx, commentID)
	if err != nil {
		return nil, err
	}

	patch := req.Patch()
	if patch.Empty() {
		return toCommentDTO(comment, postID), nil
	}
	if err = s.commentRepo.UpdateComment(ctx, commentID, patch); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrCommentNotFound
		}
		return nil, err
	}

	patch.Apply(comment)
	comment.UpdatedAt = time.Now()
	return toCommentDTO(comment, postID), nil
}

// DeleteComment 删除评论后从所属记忆的 comments 列表移除
func (s *commentServiceImpl) DeleteComment(ctx context.Context, commentID uint64, password string) error {
	comment, err := s.findComment(ctx, commentID)
	if err != nil {
		return err
	}
	if err = s.gate.Require(comment.Digest, password); err != nil {
		return err
	}

	postID, err := s.ownerOf(ctx, commentID)
	if err != nil {
		return err
	}

	if err = s.commentRepo.DeleteComment(ctx, commentID); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrCommentNotFound
		}
		return err
	}

	if postID != 0 {
		err = s.postRepo.RemoveComment(ctx, postID, commentID)
		if err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
			s.guard.detach(ctx, model.OrphanLink{Kind: model.OrphanKindComment, ChildID: commentID, ParentID: postID}, err)
		}
	}
	if err = s.linkRepo.DeleteLink(context.WithoutCancel(ctx), commentID); err != nil {
		log.WarnContext(ctx, "delete comment link failed", "comment_id", commentID, "err", err)
	}
	return nil
}

// ListComments 在记忆的 comments 列表范围内分页，新评论在前
func (s *commentServiceImpl) ListComments(ctx context.Context, postID uint64, query *dto.ListQueryDTO) (*dto.PageDTO[*dto.CommentDTO], error) {
	post, err := s.postRepo.GetPost(ctx, postID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}

	q := normalizeQuery(query, nil)
	opts := q.options()
	comments, total, err := s.commentRepo.ListComments(ctx, post.Comments, opts.Skip, opts.Limit)
	if err != nil {
		return nil, err
	}

	items := make([]*dto.CommentDTO, 0, len(comments))
	for _, c := range comments {
		items = append(items, toCommentDTO(c, postID))
	}
	return newPage(q, total, items), nil
}

// ownerOf 优先查关系索引，缺失时回退到扫描 comments 列表并补写索引。找不到归属返回 0
func (s *commentServiceImpl) ownerOf(ctx context.Context, commentID uint64) (uint64, error) {
	link, err := s.linkRepo.GetLink(ctx, commentID)
	if err == nil {
		return link.PostID, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return 0, err
	}

	post, err := s.postRepo.GetPostByComment(ctx, commentID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			log.WarnContext(ctx, "comment has no owning post", "comment_id", commentID)
			return 0, nil
		}
		return 0, err
	}
	if err = s.linkRepo.SaveLink(ctx, commentID, post.PostID); err != nil {
		log.WarnContext(ctx, "backfill comment link failed", "comment_id", commentID, "err", err)
	}
	return post.PostID, nil
}

func (s *commentServiceImpl) findComment(ctx context.Context, commentID uint64) (*model.Comment, error) {
	comment, err := s.commentRepo.GetComment(ctx, commentID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrCommentNotFound
		}
		return nil, err
	}
	return comment, nil
}

func toCommentDTO(comment *model.Comment, postID uint64) *dto.CommentDTO {
	res := &dto.CommentDTO{}
	_ = copier.Copy(res, comment)
	res.PostID = postID
	return res
}
