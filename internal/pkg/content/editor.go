package content

import (
	"context"
	"fmt"
)

// Editor 编辑模式状态机，只有 RICH 与 LITE 两个状态
type Editor struct {
	conv Converter
	mode Mode
	body string
}

func NewEditor(conv Converter, mode Mode, body string) (*Editor, error) {
	if !mode.Valid() {
		return nil, fmt.Errorf("unknown editor mode %q", mode)
	}
	return &Editor{conv: conv, mode: mode, body: body}, nil
}

func (e *Editor) Mode() Mode {
	return e.mode
}

func (e *Editor) Body() string {
	return e.body
}

// Toggle 将正文转换到另一种表示并切换状态
// 转换失败时状态与正文保持不变
func (e *Editor) Toggle(ctx context.Context) error {
	target := e.mode.Other()
	converted, err := Convert(ctx, e.conv, e.body, e.mode, target)
	if err != nil {
		return err
	}
	e.mode, e.body = target, converted
	return nil
}
