package repository

import (
	"Memoria/internal/model"
	"Memoria/internal/pkg/consts"
	"context"
	log "log/slog"

	"github.com/goccy/go-json"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// PendingImageRepo 待确认图片登记表，key 为对象名
type PendingImageRepo interface {
	Track(ctx context.Context, img model.PendingImage) error
	Pending(ctx context.Context) ([]model.PendingImage, error)
	Forget(ctx context.Context, objectName string) error
}

type pendingImageRepoImpl struct {
	rdb *redis.Client
}

func NewPendingImageRepo(rdb *redis.Client) PendingImageRepo {
	return &pendingImageRepoImpl{rdb: rdb}
}

func (s *pendingImageRepoImpl) Track(ctx context.Context, img model.PendingImage) error {
	val, err := json.Marshal(img)
	if err != nil {
		return err
	}
	err = s.rdb.HSet(ctx, consts.ImagePendingKey, img.ObjectName, val).Err()
	return errors.Wrapf(err, "track image %s", img.ObjectName)
}

func (s *pendingImageRepoImpl) Pending(ctx context.Context) ([]model.PendingImage, error) {
	all, err := s.rdb.HGetAll(ctx, consts.ImagePendingKey).Result()
	if err != nil {
		return nil, errors.Wrap(err, "list pending images")
	}

	images := make([]model.PendingImage, 0, len(all))
	for name, val := range all {
		var img model.PendingImage
		if err = json.Unmarshal([]byte(val), &img); err != nil {
			log.WarnContext(ctx, "invalid pending image meta", "objectName", name, "err", err)
			continue
		}
		img.ObjectName = name
		images = append(images, img)
	}
	return images, nil
}

func (s *pendingImageRepoImpl) Forget(ctx context.Context, objectName string) error {
	err := s.rdb.HDel(ctx, consts.ImagePendingKey, objectName).Err()
	return errors.Wrapf(err, "forget image %s", objectName)
}

// ImageRefRepo 查询图片 URL 是否已被分组或帖子引用
type ImageRefRepo interface {
	Referenced(ctx context.Context, url string) (bool, error)
}

type imageRefRepoImpl struct {
	groups *mongo.Collection
	posts  *mongo.Collection
}

func NewImageRefRepo(db *mongo.Database) ImageRefRepo {
	return &imageRefRepoImpl{
		groups: db.Collection(GroupCollection),
		posts:  db.Collection(PostCollection),
	}
}

func (s *imageRefRepoImpl) Referenced(ctx context.Context, url string) (bool, error) {
	filter := bson.M{"image_url": url}
	opts := options.Count().SetLimit(1)
	for _, col := range []*mongo.Collection{s.groups, s.posts} {
		n, err := col.CountDocuments(ctx, filter, opts)
		if err != nil {
			return false, errors.Wrapf(err, "count %s image refs", col.Name())
		}
		if n > 0 {
			return true, nil
		}
	}
	return false, nil
}
