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

const GroupCollection = "groups"

type GroupRepo interface {
	CreateGroup(ctx context.Context, group *model.Group) error
	GetGroup(ctx context.Context, groupID uint64) (*model.Group, error)
	UpdateGroup(ctx context.Context, groupID uint64, patch *model.GroupPatch) error
	DeleteGroup(ctx context.Context, groupID uint64) error
	ListGroups(ctx context.Context, opts *ListOptions) ([]*model.Group, int64, error)
	AddPost(ctx context.Context, groupID, postID uint64) error
	RemovePost(ctx context.Context, groupID, postID uint64) error
	IncrLikes(ctx context.Context, groupID uint64) (int64, error)
	SyncPostCounts(ctx context.Context) (int64, error)
}

type groupRepoImpl struct {
	col *mongo.Collection
}

func NewGroupRepo(db *mongo.Database) GroupRepo {
	return &groupRepoImpl{
		col: db.Collection(GroupCollection),
	}
}

func (s *groupRepoImpl) CreateGroup(ctx context.Context, group *model.Group) error {
	if group.Posts == nil {
		group.Posts = []uint64{}
	}
	res, err := s.col.InsertOne(ctx, group)
	if err != nil {
		return errors.Wrapf(err, "insert group %d", group.GroupID)
	}
	if id, ok := objectID(res.InsertedID); ok {
		group.ID = id
	}
	return nil
}

func (s *groupRepoImpl) GetGroup(ctx context.Context, groupID uint64) (*model.Group, error) {
	var group model.Group
	if err := s.col.FindOne(ctx, bson.M{"group_id": groupID}).Decode(&group); err != nil {
		return nil, err
	}
	return &group, nil
}

// UpdateGroup 只 $set 白名单字段，posts 列表与计数不受影响
func (s *groupRepoImpl) UpdateGroup(ctx context.Context, groupID uint64, patch *model.GroupPatch) error {
	set := bson.M{"updated_at": time.Now()}
	if patch.Name != nil {
		set["name"] = *patch.Name
	}
	if patch.Introduction != nil {
		set["introduction"] = *patch.Introduction
	}
	if patch.ImageURL != nil {
		set["image_url"] = *patch.ImageURL
	}
	if patch.IsPublic != nil {
		set["is_public"] = *patch.IsPublic
	}

	res, err := s.col.UpdateOne(ctx, bson.M{"group_id": groupID}, bson.M{"$set": set})
	if err != nil {
		return errors.Wrapf(err, "update group %d", groupID)
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (s *groupRepoImpl) DeleteGroup(ctx context.Context, groupID uint64) error {
	res, err := s.col.DeleteOne(ctx, bson.M{"group_id": groupID})
	if err != nil {
		return errors.Wrapf(err, "delete group %d", groupID)
	}
	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// groupDerived 列表排序用的帖子数
func groupDerived() bson.D {
	return bson.D{{Key: SortPostTotal, Value: sizeOf("posts")}}
}

func (s *groupRepoImpl) ListGroups(ctx context.Context, opts *ListOptions) ([]*model.Group, int64, error) {
	match := buildMatch(opts, "group_id", "name")
	return aggregatePage[model.Group](ctx, s.col, match, groupDerived(), "group_id", opts)
}

// AddPost 原子地追加 postId，已存在时不重复追加
func (s *groupRepoImpl) AddPost(ctx context.Context, groupID, postID uint64) error {
	filter := bson.M{"group_id": groupID, "posts": bson.M{"$ne": postID}}
	update := bson.M{
		"$push": bson.M{"posts": postID},
		"$inc":  bson.M{"post_count": 1},
		"$set":  bson.M{"updated_at": time.Now()},
	}
	res, err := s.col.UpdateOne(ctx, filter, update)
	if err != nil {
		return errors.Wrapf(err, "append post %d to group %d", postID, groupID)
	}
	if res.MatchedCount == 0 {
		return s.mustExist(ctx, groupID)
	}
	return nil
}

// RemovePost 从列表移除 postId，不存在时视为成功
func (s *groupRepoImpl) RemovePost(ctx context.Context, groupID, postID uint64) error {
	filter := bson.M{"group_id": groupID, "posts": postID}
	update := bson.M{
		"$pull": bson.M{"posts": postID},
		"$inc":  bson.M{"post_count": -1},
		"$set":  bson.M{"updated_at": time.Now()},
	}
	res, err := s.col.UpdateOne(ctx, filter, update)
	if err != nil {
		return errors.Wrapf(err, "remove post %d from group %d", postID, groupID)
	}
	if res.MatchedCount == 0 {
		return s.mustExist(ctx, groupID)
	}
	return nil
}

func (s *groupRepoImpl) IncrLikes(ctx context.Context, groupID uint64) (int64, error) {
	opts := options.FindOneAndUpdate().
		SetReturnDocument(options.After).
		SetProjection(bson.M{"like_count": 1})

	var group model.Group
	err := s.col.FindOneAndUpdate(ctx, bson.M{"group_id": groupID}, bson.M{"$inc": bson.M{"like_count": 1}}, opts).Decode(&group)
	if err != nil {
		return 0, err
	}
	return group.LikeCount, nil
}

// SyncPostCounts 以 posts 列表长度校准缓存的 post_count
func (s *groupRepoImpl) SyncPostCounts(ctx context.Context) (int64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$set", Value: bson.D{{Key: "post_count", Value: sizeOf("posts")}}}},
	}
	filter := bson.M{"$expr": bson.M{"$ne": bson.A{"$post_count", sizeOf("posts")}}}
	res, err := s.col.UpdateMany(ctx, filter, pipeline)
	if err != nil {
		return 0, errors.Wrap(err, "sync group post counts")
	}
	return res.ModifiedCount, nil
}

func (s *groupRepoImpl) mustExist(ctx context.Context, groupID uint64) error {
	n, err := s.col.CountDocuments(ctx, bson.M{"group_id": groupID}, options.Count().SetLimit(1))
	if err != nil {
		return errors.Wrapf(err, "check group %d", groupID)
	}
	if n == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}
