package service

import (
	"Chatter/internal/api/dto"
	"Chatter/internal/pkg/content"
	"context"
)

type EditorService interface {
	Toggle(ctx context.Context, state *dto.EditorStateDTO) (*dto.EditorStateDTO, error)
}

type editorServiceImpl struct {
	converter content.Converter
}

func NewEditorService(converter content.Converter) EditorService {
	return &editorServiceImpl{converter: converter}
}

// Toggle 切换编辑模式，失败时原样返回之前的状态
func (s *editorServiceImpl) Toggle(ctx context.Context, state *dto.EditorStateDTO) (*dto.EditorStateDTO, error) {
	editor, err := content.NewEditor(s.converter, state.Mode, state.Body)
	if err != nil {
		return state, ErrParamInvalid
	}
	if err = editor.Toggle(ctx); err != nil {
		return state, newPipelineError(ErrConversion, "", err)
	}
	return &dto.EditorStateDTO{Mode: editor.Mode(), Body: editor.Body()}, nil
}
