package service

import (
	"errors"
)

const (
	BadRequest          = 400
	Forbidden           = 403
	NotFound            = 404
	UnprocessableEntity = 422
	InternalServerError = 500
)

var (
	ErrParamInvalid      = errors.New("参数错误")
	ErrPasswordRequired  = errors.New("请输入密码")
	ErrPasswordIncorrect = errors.New("密码错误")
	ErrGroupNotFound     = errors.New("分组不存在")
	ErrPostNotFound      = errors.New("记忆不存在")
	ErrCommentNotFound   = errors.New("评论不存在")
	ErrValidation        = errors.New("参数校验失败")
	ErrFileNotSupported  = errors.New("不支持的文件类型")
	ErrFileTooLarge      = errors.New("文件过大")
	ErrFileNotExist      = errors.New("文件不存在")
	UnExpectedError      = errors.New("系统异常，请稍后重试")
)

var ErrorMap = map[error]int{
	ErrParamInvalid:      BadRequest,
	ErrPasswordRequired:  BadRequest,
	ErrPasswordIncorrect: Forbidden,
	ErrGroupNotFound:     NotFound,
	ErrPostNotFound:      NotFound,
	ErrCommentNotFound:   NotFound,
	ErrValidation:        UnprocessableEntity,
	ErrFileNotSupported:  BadRequest,
	ErrFileTooLarge:      BadRequest,
	ErrFileNotExist:      BadRequest,
	UnExpectedError:      InternalServerError,
}
