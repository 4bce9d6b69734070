package middleware

import (
	"Memoria/internal/pkg/response"
	"Memoria/internal/service"
	log "log/slog"

	"github.com/gin-gonic/gin"
)

// RecoveryMiddleware panic 统一返回 500 信封，不向客户端暴露堆栈
func RecoveryMiddleware() gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(nil, func(c *gin.Context, recovered any) {
		log.ErrorContext(c.Request.Context(), "panic recovered", "path", c.Request.URL.Path, "panic", recovered)
		response.Error(c, service.UnExpectedError)
		c.Abort()
	})
}
