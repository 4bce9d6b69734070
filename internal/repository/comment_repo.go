package repository

import (
	"Memoria/internal/model"
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	CommentCollection     = "comments"
	CommentLinkCollection = "comment_links"
)

type CommentRepo interface {
	CreateComment(ctx context.Context, comment *model.Comment) error
	GetComment(ctx context.Context, commentID uint64) (*model.Comment, error)
	UpdateComment(ctx context.Context, commentID uint64, patch *model.CommentPatch) error
	DeleteComment(ctx context.Context, commentID uint64) error
	DeleteComments(ctx context.Context, commentIDs []uint64) (int64, error)
	ListComments(ctx context.Context, commentIDs []uint64, skip, limit int64) ([]*model.Comment, int64, error)
}

type commentRepoImpl struct {
	col *mongo.Collection
}

func NewCommentRepo(db *mongo.Database) CommentRepo {
	return &commentRepoImpl{
		col: db.Collection(CommentCollection),
	}
}

func (s *commentRepoImpl) CreateComment(ctx context.Context, comment *model.Comment) error {
	res, err := s.col.InsertOne(ctx, comment)
	if err != nil {
		return errors.Wrapf(err, "insert comment %d", comment.CommentID)
	}
	if id, ok := objectID(res.InsertedID); ok {
		comment.ID = id
	}
	return nil
}

func (s *commentRepoImpl) GetComment(ctx context.Context, commentID uint64) (*model.Comment, error) {
	var comment model.Comment
	if err := s.col.FindOne(ctx, bson.M{"comment_id": commentID}).Decode(&comment); err != nil {
		return nil, err
	}
	return &comment, nil
}

func (s *commentRepoImpl) UpdateComment(ctx context.Context, commentID uint64, patch *model.CommentPatch) error {
	set := bson.M{"updated_at": time.Now()}
	if patch.Nickname != nil {
		set["nickname"] = *patch.Nickname
	}
	if patch.Content != nil {
		set["content"] = *patch.Content
	}

	res, err := s.col.UpdateOne(ctx, bson.M{"comment_id": commentID}, bson.M{"$set": set})
	if err != nil {
		return errors.Wrapf(err, "update comment %d", commentID)
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (s *commentRepoImpl) DeleteComment(ctx context.Context, commentID uint64) error {
	res, err := s.col.DeleteOne(ctx, bson.M{"comment_id": commentID})
	if err != nil {
		return errors.Wrapf(err, "delete comment %d", commentID)
	}
	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (s *commentRepoImpl) DeleteComments(ctx context.Context, commentIDs []uint64) (int64, error) {
	if len(commentIDs) == 0 {
		return 0, nil
	}
	res, err := s.col.DeleteMany(ctx, bson.M{"comment_id": bson.M{"$in": commentIDs}})
	if err != nil {
		return 0, errors.Wrap(err, "delete comments")
	}
	return res.DeletedCount, nil
}

// ListComments 在给定 commentId 范围内分页，新评论在前
func (s *commentRepoImpl) ListComments(ctx context.Context, commentIDs []uint64, skip, limit int64) ([]*model.Comment, int64, error) {
	comments := make([]*model.Comment, 0)
	if len(commentIDs) == 0 {
		return comments, 0, nil
	}

	filter := bson.M{"comment_id": bson.M{"$in": commentIDs}}
	total, err := s.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, errors.Wrap(err, "count comments")
	}
	if skip >= total {
		return comments, total, nil
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "comment_id", Value: -1}}).
		SetSkip(skip).
		SetLimit(limit).
		SetProjection(bson.M{"password_hash": 0})

	cursor, err := s.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, errors.Wrap(err, "find comments")
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	if err = cursor.All(ctx, &comments); err != nil {
		return nil, 0, errors.Wrap(err, "decode comments")
	}
	return comments, total, nil
}

// CommentLinkRepo commentId -> postId 关系索引
type CommentLinkRepo interface {
	SaveLink(ctx context.Context, commentID, postID uint64) error
	GetLink(ctx context.Context, commentID uint64) (*model.CommentLink, error)
	DeleteLink(ctx context.Context, commentID uint64) error
	DeleteLinks(ctx context.Context, commentIDs []uint64) error
}

type commentLinkRepoImpl struct {
	col *mongo.Collection
}

func NewCommentLinkRepo(db *mongo.Database) CommentLinkRepo {
	return &commentLinkRepoImpl{
		col: db.Collection(CommentLinkCollection),
	}
}

func (s *commentLinkRepoImpl) SaveLink(ctx context.Context, commentID, postID uint64) error {
	update := bson.M{
		"$set":         bson.M{"post_id": postID},
		"$setOnInsert": bson.M{"created_at": time.Now()},
	}
	_, err := s.col.UpdateOne(ctx, bson.M{"_id": commentID}, update, options.Update().SetUpsert(true))
	if err != nil {
		return errors.Wrapf(err, "link comment %d to post %d", commentID, postID)
	}
	return nil
}

func (s *commentLinkRepoImpl) GetLink(ctx context.Context, commentID uint64) (*model.CommentLink, error) {
	var link model.CommentLink
	if err := s.col.FindOne(ctx, bson.M{"_id": commentID}).Decode(&link); err != nil {
		return nil, err
	}
	return &link, nil
}

func (s *commentLinkRepoImpl) DeleteLink(ctx context.Context, commentID uint64) error {
	_, err := s.col.DeleteOne(ctx, bson.M{"_id": commentID})
	return errors.Wrapf(err, "unlink comment %d", commentID)
}

func (s *commentLinkRepoImpl) DeleteLinks(ctx context.Context, commentIDs []uint64) error {
	if len(commentIDs) == 0 {
		return nil
	}
	_, err := s.col.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": commentIDs}})
	return errors.Wrap(err, "unlink comments")
}
