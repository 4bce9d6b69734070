package repository

import "go.mongodb.org/mongo-driver/bson/primitive"

func objectID(v interface{}) (primitive.ObjectID, bool) {
	id, ok := v.(primitive.ObjectID)
	return id, ok
}
