package api

import "Chatter/internal/api/handler"

// HandlersGroup 封装了所有已初始化的 Handler 实例
type HandlersGroup struct {
	PublishHandler *handler.PublishHandler
	MediaHandler   *handler.MediaHandler
	EditorHandler  *handler.EditorHandler
}
