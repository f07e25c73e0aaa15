package service

import (
	"Chatter/internal/api/dto"
	"Chatter/internal/pkg/util"
	"context"
	"fmt"
)

// DraftValidator 草稿校验契约，返回空表示通过
type DraftValidator interface {
	Validate(ctx context.Context, draft *dto.DraftDTO) []FieldError
}

type defaultDraftValidator struct {
	maxCoverBytes int64
}

// NewDraftValidator 默认规则：标题 ≥5、正文 ≥50、至少一个标签，新建必须有封面
func NewDraftValidator(maxCoverBytes int64) DraftValidator {
	return &defaultDraftValidator{maxCoverBytes: maxCoverBytes}
}

func (s *defaultDraftValidator) Validate(_ context.Context, draft *dto.DraftDTO) []FieldError {
	if draft == nil {
		return []FieldError{{Field: "draft", Message: "草稿不能为空"}}
	}

	var fields []FieldError
	for _, v := range util.ValidateFields(draft) {
		fields = append(fields, FieldError{Field: v.Field, Message: v.Message()})
	}

	creating := draft.PostID == 0
	switch {
	case draft.Cover != nil:
		if int64(len(draft.Cover.Data)) > s.maxCoverBytes {
			fields = append(fields, FieldError{
				Field:   "cover",
				Message: fmt.Sprintf("封面不能超过 %d MB", s.maxCoverBytes>>20),
			})
		} else if contentType, _ := util.GetSafeContentType(draft.Cover.Data); !util.IsImage(contentType) {
			fields = append(fields, FieldError{Field: "cover", Message: "封面必须是图片"})
		}
	case creating && draft.CoverURL == "":
		fields = append(fields, FieldError{Field: "cover", Message: "请选择封面"})
	}

	return fields
}
