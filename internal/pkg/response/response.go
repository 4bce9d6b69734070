package response

import (
	"Memoria/internal/api/dto"
	"Memoria/internal/pkg/util"
	"Memoria/internal/service"
	"errors"
	log "log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
)

const (
	Ok                  = 200
	Created             = 201
	BadRequest          = 400
	Forbidden           = 403
	NotFound            = 404
	UnprocessableEntity = 422
	InternalServerError = 500
)

// Success 成功返回封装
func Success(ctx *gin.Context, data interface{}) {
	ctx.JSON(http.StatusOK, dto.Response{
		Code:    Ok,
		Message: "success",
		Data:    data,
	})
}

// SuccessCreated 创建成功
func SuccessCreated(ctx *gin.Context, data interface{}) {
	ctx.JSON(http.StatusCreated, dto.Response{
		Code:    Created,
		Message: "success",
		Data:    data,
	})
}

// Fail 失败返回封装，HTTP 状态码与 code 一致
func Fail(c *gin.Context, code int, message string) {
	c.JSON(code, dto.Response{
		Code:    code,
		Message: message,
		Data:    nil,
	})
}

// Error 处理错误
func Error(c *gin.Context, err error) {
	var fieldErr *util.ValidationError
	if errors.As(err, &fieldErr) {
		Fail(c, UnprocessableEntity, fieldErr.Error())
		return
	}

	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		Fail(c, BadRequest, "参数错误")
		return
	}

	var unmarshalTypeError *json.UnmarshalTypeError
	if errors.As(err, &unmarshalTypeError) {
		Fail(c, BadRequest, "Json错误")
		return
	}

	for sentinel, code := range service.ErrorMap {
		if errors.Is(err, sentinel) {
			if code >= InternalServerError {
				log.ErrorContext(c.Request.Context(), "Error", "err", err)
			}
			Fail(c, code, sentinel.Error())
			return
		}
	}

	log.ErrorContext(c.Request.Context(), "Error", "err", err)
	Fail(c, InternalServerError, err.Error())
}
