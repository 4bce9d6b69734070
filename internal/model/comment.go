package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Comment 评论不保存所属帖子，归属关系见 CommentLink
type Comment struct {
	ID         primitive.ObjectID `bson:"_id,omitempty"`
	CommentID  uint64             `bson:"comment_id"`
	Nickname   string             `bson:"nickname"`
	Content    string             `bson:"content"`
	Credential `bson:",inline"`
	CreatedAt  time.Time `bson:"created_at"`
	UpdatedAt  time.Time `bson:"updated_at"`
}

type CommentPatch struct {
	Nickname *string
	Content  *string
}

func (p *CommentPatch) Apply(c *Comment) {
	if p.Nickname != nil {
		c.Nickname = *p.Nickname
	}
	if p.Content != nil {
		c.Content = *p.Content
	}
}

func (p *CommentPatch) Empty() bool {
	return p.Nickname == nil && p.Content == nil
}

// CommentLink commentId -> postId 关系索引
type CommentLink struct {
	CommentID uint64    `bson:"_id"`
	PostID    uint64    `bson:"post_id"`
	CreatedAt time.Time `bson:"created_at"`
}
