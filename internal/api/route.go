package api

import (
	"Chatter/internal/api/config"
	"Chatter/internal/api/middleware"
	"Chatter/internal/pkg/logger"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func SetupRouter(cfg *config.Config, rdb redis.Cmdable, group *HandlersGroup) *gin.Engine {
	r := gin.New()
	_ = r.SetTrustedProxies([]string{"localhost"})
	r.MaxMultipartMemory = cfg.Publish.MaxCoverBytes

	// TraceId & Logger & CORS
	r.Use(middleware.TraceMiddleware())
	r.Use(middleware.AuditMiddleware())
	r.Use(middleware.CORSMiddleware())
	logger.SetupGin(r, cfg.Logstash)

	auth := middleware.AuthMiddleware(cfg.JWT.Secret, rdb)

	apiGroup := r.Group("/api")
	{
		apiGroup.GET("/ping", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"Code":    200,
				"Message": "pong",
				"Data":    nil,
			})
		})

		postGroup := apiGroup.Group("/posts")
		postGroup.Use(auth)
		{
			postGroup.POST("", group.PublishHandler.CreatePost)
			postGroup.PUT("/:post_id", group.PublishHandler.UpdatePost)
		}

		draftGroup := apiGroup.Group("/drafts")
		draftGroup.Use(auth)
		{
			draftGroup.POST("/:session_id/media", group.MediaHandler.UploadInlineImage)
			draftGroup.DELETE("/:session_id", group.MediaHandler.DiscardSession)
		}

		editorGroup := apiGroup.Group("/editor")
		editorGroup.Use(auth)
		{
			editorGroup.POST("/toggle", group.EditorHandler.Toggle)
		}
	}

	return r
}
