package api

import "Memoria/internal/api/handler"

// HandlersGroup 封装了所有已初始化的 Handler 实例
type HandlersGroup struct {
	GroupHandler   *handler.GroupHandler
	PostHandler    *handler.PostHandler
	CommentHandler *handler.CommentHandler
	ImageHandler   *handler.ImageHandler
}
