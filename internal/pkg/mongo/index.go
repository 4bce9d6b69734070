package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type collectionIndexes struct {
	collection string
	models     []mongo.IndexModel
}

func unique(field string) mongo.IndexModel {
	return mongo.IndexModel{
		Keys:    bson.D{{Key: field, Value: 1}},
		Options: options.Index().SetUnique(true),
	}
}

func plain(field string) mongo.IndexModel {
	return mongo.IndexModel{Keys: bson.D{{Key: field, Value: 1}}}
}

// EnsureIndexes 对外编号唯一，posts 按 group_id、comments 字段可查
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	all := []collectionIndexes{
		{collection: "groups", models: []mongo.IndexModel{unique("group_id"), plain("created_at"), plain("image_url")}},
		{collection: "posts", models: []mongo.IndexModel{unique("post_id"), plain("group_id"), plain("comments"), plain("image_url")}},
		{collection: "comments", models: []mongo.IndexModel{unique("comment_id")}},
		{collection: "comment_links", models: []mongo.IndexModel{plain("post_id")}},
	}

	for _, ci := range all {
		if _, err := db.Collection(ci.collection).Indexes().CreateMany(ctx, ci.models); err != nil {
			return fmt.Errorf("create indexes on %s: %w", ci.collection, err)
		}
	}
	return nil
}
