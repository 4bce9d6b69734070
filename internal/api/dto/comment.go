package dto

import (
	"Memoria/internal/model"
	"time"
)

type CommentDTO struct {
	CommentID uint64    `json:"commentId"`
	PostID    uint64    `json:"postId"`
	Nickname  string    `json:"nickname"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type CommentCreateDTO struct {
	Nickname string `json:"nickname" validate:"required,max=20"`
	Content  string `json:"content" validate:"required,max=600"`
	Password string `json:"password" validate:"required,bcryptlen"`
}

type CommentUpdateDTO struct {
	Password string  `json:"password"`
	Nickname *string `json:"nickname" validate:"omitnil,min=1,max=20"`
	Content  *string `json:"content" validate:"omitnil,min=1,max=600"`
}

func (d *CommentUpdateDTO) Patch() *model.CommentPatch {
	return &model.CommentPatch{
		Nickname: d.Nickname,
		Content:  d.Content,
	}
}
