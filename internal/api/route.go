package api

import (
	"Memoria/internal/api/middleware"
	"Memoria/internal/pkg/logger"
	"net/http"

	"github.com/gin-gonic/gin"
)

func SetupRouter(group *HandlersGroup) *gin.Engine {
	r := gin.New()
	_ = r.SetTrustedProxies([]string{"localhost"})

	// Recovery & TraceId & Logger & CORS
	r.Use(middleware.RecoveryMiddleware())
	r.Use(middleware.TraceMiddleware())
	r.Use(middleware.AuditMiddleware())
	r.Use(middleware.CORSMiddleware())
	logger.SetupGin(r)

	apiGroup := r.Group("/api")
	{
		apiGroup.GET("/ping", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"code":    200,
				"message": "pong",
				"data":    nil,
			})
		})

		apiGroup.POST("/image", group.ImageHandler.Upload)

		groupGroup := apiGroup.Group("/groups")
		{
			groupGroup.POST("", group.GroupHandler.CreateGroup)
			groupGroup.GET("", group.GroupHandler.ListGroups)
			groupGroup.GET("/:groupId", group.GroupHandler.GetGroup)
			groupGroup.PUT("/:groupId", group.GroupHandler.UpdateGroup)
			groupGroup.DELETE("/:groupId", group.GroupHandler.DeleteGroup)
			groupGroup.POST("/:groupId/verify-password", group.GroupHandler.VerifyPassword)
			groupGroup.POST("/:groupId/like", group.GroupHandler.LikeGroup)
			groupGroup.GET("/:groupId/is-public", group.GroupHandler.IsPublic)

			groupGroup.POST("/:groupId/posts", group.PostHandler.CreatePost)
			groupGroup.GET("/:groupId/posts", group.PostHandler.ListPosts)
		}

		postGroup := apiGroup.Group("/posts")
		{
			postGroup.GET("/:postId", group.PostHandler.GetPost)
			postGroup.PUT("/:postId", group.PostHandler.UpdatePost)
			postGroup.DELETE("/:postId", group.PostHandler.DeletePost)
			postGroup.POST("/:postId/verify-password", group.PostHandler.VerifyPassword)
			postGroup.POST("/:postId/like", group.PostHandler.LikePost)
			postGroup.GET("/:postId/is-public", group.PostHandler.IsPublic)

			postGroup.POST("/:postId/comments", group.CommentHandler.CreateComment)
			postGroup.GET("/:postId/comments", group.CommentHandler.ListComments)
		}

		commentGroup := apiGroup.Group("/comments")
		{
			commentGroup.GET("/:commentId", group.CommentHandler.GetComment)
			commentGroup.PUT("/:commentId", group.CommentHandler.UpdateComment)
			commentGroup.DELETE("/:commentId", group.CommentHandler.DeleteComment)
		}
	}

	return r
}
