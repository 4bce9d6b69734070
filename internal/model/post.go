package model

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MomentLayout 追忆时刻只保留日期
const MomentLayout = "2006-01-02"

// Post 记忆。comments 列表是评论归属的权威来源，CommentCount 只是缓存
type Post struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	PostID       uint64             `bson:"post_id"`
	GroupID      uint64             `bson:"group_id"`
	Nickname     string             `bson:"nickname"`
	Title        string             `bson:"title"`
	Content      string             `bson:"content"`
	ImageURL     string             `bson:"image_url"`
	Tags         []string           `bson:"tags"`
	Location     string             `bson:"location"`
	Moment       string             `bson:"moment"`
	IsPublic     bool               `bson:"is_public"`
	Credential   `bson:",inline"`
	LikeCount    int64     `bson:"like_count"`
	CommentCount int64     `bson:"comment_count"`
	Comments     []uint64  `bson:"comments"`
	CreatedAt    time.Time `bson:"created_at"`
	UpdatedAt    time.Time `bson:"updated_at"`
}

// PostPatch 可修改字段白名单，groupId 与密码不在其中
type PostPatch struct {
	Nickname *string
	Title    *string
	Content  *string
	ImageURL *string
	Tags     *[]string
	Location *string
	Moment   *string
	IsPublic *bool
}

func (p *PostPatch) Apply(post *Post) {
	if p.Nickname != nil {
		post.Nickname = *p.Nickname
	}
	if p.Title != nil {
		post.Title = *p.Title
	}
	if p.Content != nil {
		post.Content = *p.Content
	}
	if p.ImageURL != nil {
		post.ImageURL = *p.ImageURL
	}
	if p.Tags != nil {
		post.Tags = NormalizeTags(*p.Tags)
	}
	if p.Location != nil {
		post.Location = *p.Location
	}
	if p.Moment != nil {
		post.Moment = *p.Moment
	}
	if p.IsPublic != nil {
		post.IsPublic = *p.IsPublic
	}
}

func (p *PostPatch) Empty() bool {
	return p.Nickname == nil && p.Title == nil && p.Content == nil && p.ImageURL == nil &&
		p.Tags == nil && p.Location == nil && p.Moment == nil && p.IsPublic == nil
}

// NormalizeTags 去空白、去重并保持原有顺序
func NormalizeTags(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	res := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		res = append(res, tag)
	}
	return res
}
