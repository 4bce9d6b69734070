package repository

import (
	"context"
	"regexp"
	"strings"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// 列表排序字段
const (
	SortCreatedAt    = "created_at"
	SortLikeCount    = "like_count"
	SortBadgeCount   = "badge_count"
	SortPostTotal    = "post_total"
	SortCommentTotal = "comment_total"
)

// ListOptions 列表查询条件，由 service 层的列表引擎生成
type ListOptions struct {
	// Scoped 为 true 时仅在 Scope 内查找，Scope 为空则结果为空
	Scoped   bool
	Scope    []uint64
	Keyword  string
	IsPublic *bool
	SortKey  string
	Skip     int64
	Limit    int64
}

// buildMatch 范围 + 关键字(忽略大小写的子串) + 可见性
func buildMatch(opts *ListOptions, idField, keywordField string) bson.M {
	match := bson.M{}
	if opts.Scoped {
		scope := opts.Scope
		if scope == nil {
			scope = []uint64{}
		}
		match[idField] = bson.M{"$in": scope}
	}
	if kw := strings.TrimSpace(opts.Keyword); kw != "" {
		match[keywordField] = primitive.Regex{Pattern: regexp.QuoteMeta(kw), Options: "i"}
	}
	if opts.IsPublic != nil {
		match["is_public"] = *opts.IsPublic
	}
	return match
}

// sizeOf 列表长度，缺失字段按空列表计
func sizeOf(field string) bson.D {
	return bson.D{{Key: "$size", Value: bson.D{{Key: "$ifNull", Value: bson.A{"$" + field, bson.A{}}}}}}
}

// pagePipeline match → 派生字段 → 降序排序(编号兜底) → skip/limit → 去掉密码摘要
func pagePipeline(match bson.M, derived bson.D, idField string, opts *ListOptions) mongo.Pipeline {
	sortKey := opts.SortKey
	if sortKey == "" {
		sortKey = SortCreatedAt
	}

	return mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$addFields", Value: derived}},
		{{Key: "$sort", Value: bson.D{{Key: sortKey, Value: -1}, {Key: idField, Value: -1}}}},
		{{Key: "$skip", Value: opts.Skip}},
		{{Key: "$limit", Value: opts.Limit}},
		{{Key: "$project", Value: bson.D{{Key: "password_hash", Value: 0}}}},
	}
}

// aggregatePage 计数后按排序字段降序分页，结果不含密码摘要
func aggregatePage[T any](ctx context.Context, col *mongo.Collection, match bson.M, derived bson.D, idField string, opts *ListOptions) ([]*T, int64, error) {
	total, err := col.CountDocuments(ctx, match)
	if err != nil {
		return nil, 0, errors.Wrap(err, "count "+col.Name())
	}

	items := make([]*T, 0)
	if total == 0 || opts.Skip >= total {
		return items, total, nil
	}

	cursor, err := col.Aggregate(ctx, pagePipeline(match, derived, idField, opts))
	if err != nil {
		return nil, 0, errors.Wrap(err, "aggregate "+col.Name())
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	if err = cursor.All(ctx, &items); err != nil {
		return nil, 0, errors.Wrap(err, "decode "+col.Name())
	}
	return items, total, nil
}
