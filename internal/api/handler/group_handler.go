package handler

import (
	"Memoria/internal/api/dto"
	"Memoria/internal/pkg/response"
	"Memoria/internal/service"

	"github.com/gin-gonic/gin"
)

type GroupHandler struct {
	groupSvc service.GroupService
	imageSvc service.ImageService
}

func NewGroupHandler(groupSvc service.GroupService, imageSvc service.ImageService) *GroupHandler {
	return &GroupHandler{
		groupSvc: groupSvc,
		imageSvc: imageSvc,
	}
}

// CreateGroup 支持 JSON 或带 image 文件的 multipart 表单
func (s *GroupHandler) CreateGroup(c *gin.Context) {
	var req dto.GroupCreateDTO
	if !bindBody(c, &req, c.ShouldBind) {
		return
	}

	imageURL, ok := uploadOptionalImage(c, s.imageSvc)
	if !ok {
		return
	}
	if imageURL != "" {
		req.ImageURL = imageURL
	}

	group, err := s.groupSvc.CreateGroup(c.Request.Context(), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessCreated(c, group)
}

func (s *GroupHandler) ListGroups(c *gin.Context) {
	var query dto.ListQueryDTO
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	page, err := s.groupSvc.ListGroups(c.Request.Context(), &query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, page)
}

// GetGroup 非公开分组需携带 password
func (s *GroupHandler) GetGroup(c *gin.Context) {
	groupID, ok := parseID(c, "groupId", service.ErrGroupNotFound)
	if !ok {
		return
	}

	group, err := s.groupSvc.GetGroup(c.Request.Context(), groupID, readPassword(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, group)
}

func (s *GroupHandler) UpdateGroup(c *gin.Context) {
	groupID, ok := parseID(c, "groupId", service.ErrGroupNotFound)
	if !ok {
		return
	}

	var req dto.GroupUpdateDTO
	if !bindBody(c, &req, c.ShouldBindJSON) {
		return
	}

	group, err := s.groupSvc.UpdateGroup(c.Request.Context(), groupID, &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, group)
}

func (s *GroupHandler) DeleteGroup(c *gin.Context) {
	groupID, ok := parseID(c, "groupId", service.ErrGroupNotFound)
	if !ok {
		return
	}

	if err := s.groupSvc.DeleteGroup(c.Request.Context(), groupID, readPassword(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *GroupHandler) VerifyPassword(c *gin.Context) {
	groupID, ok := parseID(c, "groupId", service.ErrGroupNotFound)
	if !ok {
		return
	}

	if err := s.groupSvc.VerifyPassword(c.Request.Context(), groupID, readPassword(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *GroupHandler) LikeGroup(c *gin.Context) {
	groupID, ok := parseID(c, "groupId", service.ErrGroupNotFound)
	if !ok {
		return
	}

	res, err := s.groupSvc.LikeGroup(c.Request.Context(), groupID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

func (s *GroupHandler) IsPublic(c *gin.Context) {
	groupID, ok := parseID(c, "groupId", service.ErrGroupNotFound)
	if !ok {
		return
	}

	res, err := s.groupSvc.IsPublic(c.Request.Context(), groupID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}
