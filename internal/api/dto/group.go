package dto

import (
	"Memoria/internal/model"
	"time"
)

// GroupDTO 分组，不含密码摘要
type GroupDTO struct {
	GroupID      uint64    `json:"groupId"`
	Name         string    `json:"name"`
	Introduction string    `json:"introduction"`
	ImageURL     string    `json:"imageUrl"`
	IsPublic     bool      `json:"isPublic"`
	LikeCount    int64     `json:"likeCount"`
	BadgeCount   int64     `json:"badgeCount"`
	PostCount    int64     `json:"postCount"`
	Posts        []uint64  `json:"posts,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// GroupCreateDTO 创建分组，支持 JSON 与 multipart 表单
type GroupCreateDTO struct {
	Name         string `json:"name" form:"name" validate:"required,max=20"`
	Password     string `json:"password" form:"password" validate:"required,bcryptlen"`
	ImageURL     string `json:"imageUrl" form:"imageUrl" validate:"omitempty,max=512"`
	IsPublic     *bool  `json:"isPublic" form:"isPublic"`
	Introduction string `json:"introduction" form:"introduction" validate:"max=60"`
}

// GroupUpdateDTO 修改分组，Password 仅用于校验，不会写入
type GroupUpdateDTO struct {
	Password     string  `json:"password"`
	Name         *string `json:"name" validate:"omitnil,min=1,max=20"`
	Introduction *string `json:"introduction" validate:"omitnil,max=60"`
	ImageURL     *string `json:"imageUrl" validate:"omitnil,max=512"`
	IsPublic     *bool   `json:"isPublic"`
}

func (d *GroupUpdateDTO) Patch() *model.GroupPatch {
	return &model.GroupPatch{
		Name:         d.Name,
		Introduction: d.Introduction,
		ImageURL:     d.ImageURL,
		IsPublic:     d.IsPublic,
	}
}
