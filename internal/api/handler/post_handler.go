package handler

import (
	"Memoria/internal/api/dto"
	"Memoria/internal/pkg/response"
	"Memoria/internal/service"

	"github.com/gin-gonic/gin"
)

type PostHandler struct {
	postSvc  service.PostService
	imageSvc service.ImageService
}

func NewPostHandler(postSvc service.PostService, imageSvc service.ImageService) *PostHandler {
	return &PostHandler{
		postSvc:  postSvc,
		imageSvc: imageSvc,
	}
}

func (s *PostHandler) CreatePost(c *gin.Context) {
	groupID, ok := parseID(c, "groupId", service.ErrGroupNotFound)
	if !ok {
		return
	}

	var req dto.PostCreateDTO
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

	post, err := s.postSvc.CreatePost(c.Request.Context(), groupID, &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessCreated(c, post)
}

// ListPosts 分组内的记忆列表
func (s *PostHandler) ListPosts(c *gin.Context) {
	groupID, ok := parseID(c, "groupId", service.ErrGroupNotFound)
	if !ok {
		return
	}

	var query dto.ListQueryDTO
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	page, err := s.postSvc.ListPosts(c.Request.Context(), groupID, &query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, page)
}

func (s *PostHandler) GetPost(c *gin.Context) {
	postID, ok := parseID(c, "postId", service.ErrPostNotFound)
	if !ok {
		return
	}

	post, err := s.postSvc.GetPost(c.Request.Context(), postID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, post)
}

func (s *PostHandler) UpdatePost(c *gin.Context) {
	postID, ok := parseID(c, "postId", service.ErrPostNotFound)
	if !ok {
		return
	}

	var req dto.PostUpdateDTO
	if !bindBody(c, &req, c.ShouldBindJSON) {
		return
	}

	post, err := s.postSvc.UpdatePost(c.Request.Context(), postID, &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, post)
}

func (s *PostHandler) DeletePost(c *gin.Context) {
	postID, ok := parseID(c, "postId", service.ErrPostNotFound)
	if !ok {
		return
	}

	if err := s.postSvc.DeletePost(c.Request.Context(), postID, readPassword(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *PostHandler) VerifyPassword(c *gin.Context) {
	postID, ok := parseID(c, "postId", service.ErrPostNotFound)
	if !ok {
		return
	}

	if err := s.postSvc.VerifyPassword(c.Request.Context(), postID, readPassword(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *PostHandler) LikePost(c *gin.Context) {
	postID, ok := parseID(c, "postId", service.ErrPostNotFound)
	if !ok {
		return
	}

	res, err := s.postSvc.LikePost(c.Request.Context(), postID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

func (s *PostHandler) IsPublic(c *gin.Context) {
	postID, ok := parseID(c, "postId", service.ErrPostNotFound)
	if !ok {
		return
	}

	res, err := s.postSvc.IsPublic(c.Request.Context(), postID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}
