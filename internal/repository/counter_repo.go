package repository

import (
	"Memoria/internal/model"
	"context"
	"fmt"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const CounterCollection = "counters"

// CounterRepo 每个集合一个计数文档，$inc 保证并发下编号不重复
type CounterRepo interface {
	Next(ctx context.Context, name string) (uint64, error)
	// SeedFromMax 把计数器抬到集合中已有的最大编号，计数器只增不减
	SeedFromMax(ctx context.Context, name, collection, field string) (uint64, error)
}

type counterRepoImpl struct {
	db  *mongo.Database
	col *mongo.Collection
}

func NewCounterRepo(db *mongo.Database) CounterRepo {
	return &counterRepoImpl{
		db:  db,
		col: db.Collection(CounterCollection),
	}
}

// nextUpdate 自增 1，文档不存在时由 upsert 从 0 开始
func nextUpdate() bson.M {
	return bson.M{"$inc": bson.M{"seq": 1}}
}

// seedUpdate 只会把计数器调大
func seedUpdate(maxID uint64) bson.M {
	return bson.M{"$max": bson.M{"seq": maxID}}
}

func (s *counterRepoImpl) Next(ctx context.Context, name string) (uint64, error) {
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var counter model.Counter
	err := s.col.FindOneAndUpdate(ctx, bson.M{"_id": name}, nextUpdate(), opts).Decode(&counter)
	if mongo.IsDuplicateKeyError(err) {
		// 两个 upsert 同时创建计数文档，失败的一方重试即可命中已存在的文档
		err = s.col.FindOneAndUpdate(ctx, bson.M{"_id": name}, nextUpdate(), opts).Decode(&counter)
	}
	if err != nil {
		return 0, errors.Wrapf(err, "next %s id", name)
	}
	return counter.Seq, nil
}

func (s *counterRepoImpl) SeedFromMax(ctx context.Context, name, collection, field string) (uint64, error) {
	opts := options.FindOne().
		SetSort(bson.D{{Key: field, Value: -1}}).
		SetProjection(bson.M{field: 1})

	var doc bson.M
	var maxID uint64
	err := s.db.Collection(collection).FindOne(ctx, bson.M{}, opts).Decode(&doc)
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
	case err != nil:
		return 0, errors.Wrapf(err, "find max %s.%s", collection, field)
	default:
		maxID, err = toUint64(doc[field])
		if err != nil {
			return 0, errors.WithMessagef(err, "max %s.%s", collection, field)
		}
	}

	_, err = s.col.UpdateOne(ctx, bson.M{"_id": name}, seedUpdate(maxID), options.Update().SetUpsert(true))
	if err != nil {
		return 0, errors.Wrapf(err, "seed %s counter", name)
	}
	return maxID, nil
}

func toUint64(v interface{}) (uint64, error) {
	switch n := v.(type) {
	case nil:
		return 0, nil
	case int32:
		return uint64(n), nil
	case int64:
		return uint64(n), nil
	case float64:
		return uint64(n), nil
	default:
		return 0, fmt.Errorf("unexpected id type %T", v)
	}
}
