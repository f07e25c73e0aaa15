package content

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/util"
)

// Mode 正文的编辑表示
type Mode string

const (
	// ModeRich 结构化富文本(HTML)，也是持久化的规范形式
	ModeRich Mode = "RICH"
	// ModeLite 轻量标记(markdown)
	ModeLite Mode = "LITE"
)

func (m Mode) Valid() bool {
	return m == ModeRich || m == ModeLite
}

// Other 返回切换后的目标表示
func (m Mode) Other() Mode {
	if m == ModeLite {
		return ModeRich
	}
	return ModeLite
}

// ErrMalformed 输入无法被解析为对应表示
var ErrMalformed = errors.New("malformed content")

// Converter 富文本与轻量标记之间的双向转换
// 不保证往返无损，只保证内嵌资源引用原样保留。
type Converter interface {
	ToMarkupLite(ctx context.Context, rich string) (string, error)
	ToRich(ctx context.Context, lite string) (string, error)
}

// Convert 将 body 从 from 表示转换为 to 表示，同表示直接返回
func Convert(ctx context.Context, conv Converter, body string, from, to Mode) (string, error) {
	if from == to {
		return body, nil
	}
	if to == ModeRich {
		return conv.ToRich(ctx, body)
	}
	return conv.ToMarkupLite(ctx, body)
}

type localConverter struct {
	md goldmark.Markdown
}

// NewLocalConverter 进程内转换器：goquery 解析 HTML 生成 markdown，goldmark 渲染 markdown
func NewLocalConverter() Converter {
	return &localConverter{
		md: goldmark.New(
			goldmark.WithExtensions(extension.Strikethrough),
			goldmark.WithRendererOptions(
				html.WithUnsafe(),
				renderer.WithNodeRenderers(util.Prioritized(assetImageRenderer{}, 500)),
			),
		),
	}
}

// assetImageRenderer 替换默认的图片渲染：地址只做 HTML 转义，不做 URL 编码
// 默认渲染会把空格、非 ASCII 字符编码成 %XX，资源引用就变了
type assetImageRenderer struct{}

func (r assetImageRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(ast.KindImage, r.renderImage)
}

func (r assetImageRenderer) renderImage(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	n := node.(*ast.Image)
	_, _ = w.WriteString(`<img src="`)
	_, _ = w.Write(util.EscapeHTML(n.Destination))
	_, _ = w.WriteString(`" alt="`)
	_, _ = w.Write(util.EscapeHTML(plainText(source, n)))
	_ = w.WriteByte('"')
	if n.Title != nil {
		_, _ = w.WriteString(` title="`)
		_, _ = w.Write(util.EscapeHTML(n.Title))
		_ = w.WriteByte('"')
	}
	_, _ = w.WriteString(">")
	return ast.WalkSkipChildren, nil
}

// plainText alt 只保留文字，忽略强调等行内标记
func plainText(source []byte, n ast.Node) []byte {
	var b bytes.Buffer
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch t := c.(type) {
		case *ast.Text:
			b.Write(t.Segment.Value(source))
		case *ast.String:
			b.Write(t.Value)
		default:
			b.Write(plainText(source, c))
		}
	}
	return b.Bytes()
}

func (s *localConverter) ToMarkupLite(ctx context.Context, rich string) (string, error) {
	if err := checkWellFormed(rich); err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return htmlToMarkdown(rich)
}

func (s *localConverter) ToRich(ctx context.Context, lite string) (string, error) {
	if err := checkWellFormed(lite); err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := s.md.Convert([]byte(lite), &buf); err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return strings.TrimSpace(buf.String()), nil
}

// checkWellFormed 两种表示都是文本，非法 UTF-8 与 NUL 视为畸形
func checkWellFormed(body string) error {
	if !utf8.ValidString(body) {
		return fmt.Errorf("%w: invalid utf-8", ErrMalformed)
	}
	if strings.IndexByte(body, 0) >= 0 {
		return fmt.Errorf("%w: unexpected NUL byte", ErrMalformed)
	}
	return nil
}
