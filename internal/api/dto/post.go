package dto

import (
	"Memoria/internal/model"
	"time"
)

// PostDTO 记忆，commentCount 取自评论列表长度
type PostDTO struct {
	PostID       uint64    `json:"postId"`
	GroupID      uint64    `json:"groupId"`
	Nickname     string    `json:"nickname"`
	Title        string    `json:"title"`
	Content      string    `json:"content"`
	ImageURL     string    `json:"imageUrl"`
	Tags         []string  `json:"tags"`
	Location     string    `json:"location"`
	Moment       string    `json:"moment"`
	IsPublic     bool      `json:"isPublic"`
	LikeCount    int64     `json:"likeCount"`
	CommentCount int64     `json:"commentCount"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

type PostCreateDTO struct {
	Nickname string   `json:"nickname" form:"nickname" validate:"required,max=20"`
	Title    string   `json:"title" form:"title" validate:"required,max=60"`
	Content  string   `json:"content" form:"content" validate:"required,max=600"`
	Password string   `json:"password" form:"password" validate:"required,bcryptlen"`
	ImageURL string   `json:"imageUrl" form:"imageUrl" validate:"omitempty,max=512"`
	Tags     []string `json:"tags" form:"tags" validate:"max=20,dive,max=20"`
	Location string   `json:"location" form:"location" validate:"max=100"`
	Moment   string   `json:"moment" form:"moment" validate:"omitempty,moment"`
	IsPublic *bool    `json:"isPublic" form:"isPublic"`
}

type PostUpdateDTO struct {
	Password string    `json:"password"`
	Nickname *string   `json:"nickname" validate:"omitnil,min=1,max=20"`
	Title    *string   `json:"title" validate:"omitnil,min=1,max=60"`
	Content  *string   `json:"content" validate:"omitnil,min=1,max=600"`
	ImageURL *string   `json:"imageUrl" validate:"omitnil,max=512"`
	Tags     *[]string `json:"tags" validate:"omitnil,max=20"`
	Location *string   `json:"location" validate:"omitnil,max=100"`
	Moment   *string   `json:"moment" validate:"omitnil,moment"`
	IsPublic *bool     `json:"isPublic"`
}

func (d *PostUpdateDTO) Patch() *model.PostPatch {
	return &model.PostPatch{
		Nickname: d.Nickname,
		Title:    d.Title,
		Content:  d.Content,
		ImageURL: d.ImageURL,
		Tags:     d.Tags,
		Location: d.Location,
		Moment:   d.Moment,
		IsPublic: d.IsPublic,
	}
}
