package handler

import (
	"Memoria/internal/pkg/response"
	"Memoria/internal/service"

	"github.com/gin-gonic/gin"
)

type ImageHandler struct {
	imageSvc service.ImageService
}

func NewImageHandler(imageSvc service.ImageService) *ImageHandler {
	return &ImageHandler{
		imageSvc: imageSvc,
	}
}

// Upload 上传单张图片，表单字段 image
func (s *ImageHandler) Upload(c *gin.Context) {
	file, err := c.FormFile("image")
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	res, err := s.imageSvc.UploadImage(c.Request.Context(), file)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}
