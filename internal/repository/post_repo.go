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

const PostCollection = "posts"

type PostRepo interface {
	CreatePost(ctx context.Context, post *model.Post) error
	GetPost(ctx context.Context, postID uint64) (*model.Post, error)
	GetPostByComment(ctx context.Context, commentID uint64) (*model.Post, error)
	GetPostsByGroup(ctx context.Context, groupID uint64) ([]*model.Post, error)
	UpdatePost(ctx context.Context, postID uint64, patch *model.PostPatch) error
	DeletePost(ctx context.Context, postID uint64) error
	DeletePosts(ctx context.Context, postIDs []uint64) (int64, error)
	ListPosts(ctx context.Context, opts *ListOptions) ([]*model.Post, int64, error)
	AddComment(ctx context.Context, postID, commentID uint64) error
	RemoveComment(ctx context.Context, postID, commentID uint64) error
	IncrLikes(ctx context.Context, postID uint64) (int64, error)
	SyncCommentCounts(ctx context.Context) (int64, error)
}

type postRepoImpl struct {
	col *mongo.Collection
}

func NewPostRepo(db *mongo.Database) PostRepo {
	return &postRepoImpl{
		col: db.Collection(PostCollection),
	}
}

func (s *postRepoImpl) CreatePost(ctx context.Context, post *model.Post) error {
	if post.Comments == nil {
		post.Comments = []uint64{}
	}
	if post.Tags == nil {
		post.Tags = []string{}
	}
	res, err := s.col.InsertOne(ctx, post)
	if err != nil {
		return errors.Wrapf(err, "insert post %d", post.PostID)
	}
	if id, ok := objectID(res.InsertedID); ok {
		post.ID = id
	}
	return nil
}

func (s *postRepoImpl) GetPost(ctx context.Context, postID uint64) (*model.Post, error) {
	var post model.Post
	if err := s.col.FindOne(ctx, bson.M{"post_id": postID}).Decode(&post); err != nil {
		return nil, err
	}
	return &post, nil
}

// GetPostByComment 扫描 comments 列表反查归属，仅在关系索引缺失时使用
func (s *postRepoImpl) GetPostByComment(ctx context.Context, commentID uint64) (*model.Post, error) {
	var post model.Post
	if err := s.col.FindOne(ctx, bson.M{"comments": commentID}).Decode(&post); err != nil {
		return nil, err
	}
	return &post, nil
}

func (s *postRepoImpl) GetPostsByGroup(ctx context.Context, groupID uint64) ([]*model.Post, error) {
	opts := options.Find().SetProjection(bson.M{"post_id": 1, "group_id": 1, "comments": 1})
	cursor, err := s.col.Find(ctx, bson.M{"group_id": groupID}, opts)
	if err != nil {
		return nil, errors.Wrapf(err, "find posts of group %d", groupID)
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	posts := make([]*model.Post, 0)
	if err = cursor.All(ctx, &posts); err != nil {
		return nil, errors.Wrapf(err, "decode posts of group %d", groupID)
	}
	return posts, nil
}

// UpdatePost 只 $set 白名单字段，groupId、密码与评论列表不受影响
func (s *postRepoImpl) UpdatePost(ctx context.Context, postID uint64, patch *model.PostPatch) error {
	set := bson.M{"updated_at": time.Now()}
	if patch.Nickname != nil {
		set["nickname"] = *patch.Nickname
	}
	if patch.Title != nil {
		set["title"] = *patch.Title
	}
	if patch.Content != nil {
		set["content"] = *patch.Content
	}
	if patch.ImageURL != nil {
		set["image_url"] = *patch.ImageURL
	}
	if patch.Tags != nil {
		set["tags"] = model.NormalizeTags(*patch.Tags)
	}
	if patch.Location != nil {
		set["location"] = *patch.Location
	}
	if patch.Moment != nil {
		set["moment"] = *patch.Moment
	}
	if patch.IsPublic != nil {
		set["is_public"] = *patch.IsPublic
	}

	res, err := s.col.UpdateOne(ctx, bson.M{"post_id": postID}, bson.M{"$set": set})
	if err != nil {
		return errors.Wrapf(err, "update post %d", postID)
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (s *postRepoImpl) DeletePost(ctx context.Context, postID uint64) error {
	res, err := s.col.DeleteOne(ctx, bson.M{"post_id": postID})
	if err != nil {
		return errors.Wrapf(err, "delete post %d", postID)
	}
	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (s *postRepoImpl) DeletePosts(ctx context.Context, postIDs []uint64) (int64, error) {
	if len(postIDs) == 0 {
		return 0, nil
	}
	res, err := s.col.DeleteMany(ctx, bson.M{"post_id": bson.M{"$in": postIDs}})
	if err != nil {
		return 0, errors.Wrap(err, "delete posts")
	}
	return res.DeletedCount, nil
}

// postDerived 列表排序用的评论数
func postDerived() bson.D {
	return bson.D{{Key: SortCommentTotal, Value: sizeOf("comments")}}
}

func (s *postRepoImpl) ListPosts(ctx context.Context, opts *ListOptions) ([]*model.Post, int64, error) {
	match := buildMatch(opts, "post_id", "title")
	return aggregatePage[model.Post](ctx, s.col, match, postDerived(), "post_id", opts)
}

// AddComment 原子地追加 commentId，已存在时不重复追加
func (s *postRepoImpl) AddComment(ctx context.Context, postID, commentID uint64) error {
	filter := bson.M{"post_id": postID, "comments": bson.M{"$ne": commentID}}
	update := bson.M{
		"$push": bson.M{"comments": commentID},
		"$inc":  bson.M{"comment_count": 1},
	}
	res, err := s.col.UpdateOne(ctx, filter, update)
	if err != nil {
		return errors.Wrapf(err, "append comment %d to post %d", commentID, postID)
	}
	if res.MatchedCount == 0 {
		return s.mustExist(ctx, postID)
	}
	return nil
}

func (s *postRepoImpl) RemoveComment(ctx context.Context, postID, commentID uint64) error {
	filter := bson.M{"post_id": postID, "comments": commentID}
	update := bson.M{
		"$pull": bson.M{"comments": commentID},
		"$inc":  bson.M{"comment_count": -1},
	}
	res, err := s.col.UpdateOne(ctx, filter, update)
	if err != nil {
		return errors.Wrapf(err, "remove comment %d from post %d", commentID, postID)
	}
	if res.MatchedCount == 0 {
		return s.mustExist(ctx, postID)
	}
	return nil
}

func (s *postRepoImpl) IncrLikes(ctx context.Context, postID uint64) (int64, error) {
	opts := options.FindOneAndUpdate().
		SetReturnDocument(options.After).
		SetProjection(bson.M{"like_count": 1})

	var post model.Post
	err := s.col.FindOneAndUpdate(ctx, bson.M{"post_id": postID}, bson.M{"$inc": bson.M{"like_count": 1}}, opts).Decode(&post)
	if err != nil {
		return 0, err
	}
	return post.LikeCount, nil
}

// SyncCommentCounts 以 comments 列表长度校准缓存的 comment_count
func (s *postRepoImpl) SyncCommentCounts(ctx context.Context) (int64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$set", Value: bson.D{{Key: "comment_count", Value: sizeOf("comments")}}}},
	}
	filter := bson.M{"$expr": bson.M{"$ne": bson.A{"$comment_count", sizeOf("comments")}}}
	res, err := s.col.UpdateMany(ctx, filter, pipeline)
	if err != nil {
		return 0, errors.Wrap(err, "sync post comment counts")
	}
	return res.ModifiedCount, nil
}

func (s *postRepoImpl) mustExist(ctx context.Context, postID uint64) error {
	n, err := s.col.CountDocuments(ctx, bson.M{"post_id": postID}, options.Count().SetLimit(1))
	if err != nil {
		return errors.Wrapf(err, "check post %d", postID)
	}
	if n == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}
