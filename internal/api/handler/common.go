package handler

import (
	"Memoria/internal/api/dto"
	"Memoria/internal/pkg/response"
	"Memoria/internal/pkg/util"
	"Memoria/internal/service"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// parseID 路径编号非法按不存在处理
func parseID(c *gin.Context, name string, notFound error) (uint64, bool) {
	id, ok := util.ParseID(c.Param(name))
	if !ok {
		response.Error(c, notFound)
		return 0, false
	}
	return id, true
}

// bindBody 绑定失败 400，字段规则不满足 422
func bindBody(c *gin.Context, obj any, bind func(any) error) bool {
	if err := bind(obj); err != nil {
		response.Error(c, service.ErrParamInvalid)
		return false
	}
	if err := util.ValidateDTO(obj); err != nil {
		response.Error(c, err)
		return false
	}
	return true
}

// readPassword 依次从 query、JSON 请求体读取门禁密码
func readPassword(c *gin.Context) string {
	if pw := c.Query("password"); pw != "" {
		return pw
	}
	if c.Request.Body == nil || c.Request.ContentLength == 0 {
		return ""
	}
	var req dto.PasswordDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		return ""
	}
	return req.Password
}

// uploadOptionalImage multipart 请求中带 image 文件时先上传，返回其 URL
func uploadOptionalImage(c *gin.Context, imageSvc service.ImageService) (string, bool) {
	if c.ContentType() != gin.MIMEMultipartPOSTForm {
		return "", true
	}
	file, err := c.FormFile("image")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return "", true
		}
		response.Error(c, service.ErrParamInvalid)
		return "", false
	}

	res, err := imageSvc.UploadImage(c.Request.Context(), file)
	if err != nil {
		response.Error(c, err)
		return "", false
	}
	return res.ImageURL, true
}
