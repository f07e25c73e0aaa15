package handler

import (
	"Chatter/internal/api/dto"
	"Chatter/internal/pkg/response"
	"Chatter/internal/service"

	"github.com/gin-gonic/gin"
)

type EditorHandler struct {
	editorSvc service.EditorService
}

func NewEditorHandler(editorSvc service.EditorService) *EditorHandler {
	return &EditorHandler{editorSvc: editorSvc}
}

// Toggle 富文本与轻量标记互转，失败时 data 为原状态
func (s *EditorHandler) Toggle(c *gin.Context) {
	var req dto.EditorStateDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err)
		return
	}

	state, err := s.editorSvc.Toggle(c.Request.Context(), &req)
	if err != nil {
		code, ok := service.CodeOf(err)
		if !ok {
			code = response.InternalServerError
		}
		response.FailWithData(c, code, err.Error(), state)
		return
	}
	response.Success(c, state)
}
