package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Group 记忆分组，posts 为其拥有的 postId 列表
type Group struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	GroupID      uint64             `bson:"group_id"`
	Name         string             `bson:"name"`
	Introduction string             `bson:"introduction"`
	ImageURL     string             `bson:"image_url"`
	IsPublic     bool               `bson:"is_public"`
	Credential   `bson:",inline"`
	LikeCount    int64     `bson:"like_count"`
	BadgeCount   int64     `bson:"badge_count"`
	PostCount    int64     `bson:"post_count"`
	Posts        []uint64  `bson:"posts"`
	CreatedAt    time.Time `bson:"created_at"`
	UpdatedAt    time.Time `bson:"updated_at"`
}

// GroupPatch 可修改字段白名单，nil 表示不修改
type GroupPatch struct {
	Name         *string
	Introduction *string
	ImageURL     *string
	IsPublic     *bool
}

// Apply 合并到内存实体
func (p *GroupPatch) Apply(g *Group) {
	if p.Name != nil {
		g.Name = *p.Name
	}
	if p.Introduction != nil {
		g.Introduction = *p.Introduction
	}
	if p.ImageURL != nil {
		g.ImageURL = *p.ImageURL
	}
	if p.IsPublic != nil {
		g.IsPublic = *p.IsPublic
	}
}

func (p *GroupPatch) Empty() bool {
	return p.Name == nil && p.Introduction == nil && p.ImageURL == nil && p.IsPublic == nil
}
