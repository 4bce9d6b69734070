package handler

import (
	"Memoria/internal/api/dto"
	"Memoria/internal/pkg/response"
	"Memoria/internal/service"

	"github.com/gin-gonic/gin"
)

type CommentHandler struct {
	commentSvc service.CommentService
}

func NewCommentHandler(commentSvc service.CommentService) *CommentHandler {
	return &CommentHandler{
		commentSvc: commentSvc,
	}
}

func (s *CommentHandler) CreateComment(c *gin.Context) {
	postID, ok := parseID(c, "postId", service.ErrPostNotFound)
	if !ok {
		return
	}

	var req dto.CommentCreateDTO
	if !bindBody(c, &req, c.ShouldBindJSON) {
		return
	}

	comment, err := s.commentSvc.CreateComment(c.Request.Context(), postID, &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessCreated(c, comment)
}

func (s *CommentHandler) ListComments(c *gin.Context) {
	postID, ok := parseID(c, "postId", service.ErrPostNotFound)
	if !ok {
		return
	}

	var query dto.ListQueryDTO
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	page, err := s.commentSvc.ListComments(c.Request.Context(), postID, &query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, page)
}

func (s *CommentHandler) GetComment(c *gin.Context) {
	commentID, ok := parseID(c, "commentId", service.ErrCommentNotFound)
	if !ok {
		return
	}

	comment, err := s.commentSvc.GetComment(c.Request.Context(), commentID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, comment)
}

func (s *CommentHandler) UpdateComment(c *gin.Context) {
	commentID, ok := parseID(c, "commentId", service.ErrCommentNotFound)
	if !ok {
		return
	}

	var req dto.CommentUpdateDTO
	if !bindBody(c, &req, c.ShouldBindJSON) {
		return
	}

	comment, err := s.commentSvc.UpdateComment(c.Request.Context(), commentID, &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, comment)
}

func (s *CommentHandler) DeleteComment(c *gin.Context) {
	commentID, ok := parseID(c, "commentId", service.ErrCommentNotFound)
	if !ok {
		return
	}

	if err := s.commentSvc.DeleteComment(c.Request.Context(), commentID, readPassword(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}
