package content

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
)

// markdownParser 与 ToRich 使用相同的语法，图片地址按渲染时的含义解析
var markdownParser = goldmark.New(goldmark.WithExtensions(extension.Strikethrough)).Parser()

// ExtractAssets 提取正文中内嵌图片引用的外部资源 URL
// 同时识别富文本 <img src> 与 markdown 图片语法，两种表示下结果一致。
// 对空串或畸形输入不报错，尽力返回已识别部分。
func ExtractAssets(body string) AssetSet {
	assets := NewAssetSet()
	if strings.TrimSpace(body) == "" {
		return assets
	}

	if doc, err := goquery.NewDocumentFromReader(strings.NewReader(body)); err == nil {
		doc.Find("img").Each(func(_ int, sel *goquery.Selection) {
			if src, ok := sel.Attr("src"); ok && isExternalAsset(src) {
				assets.Add(strings.TrimSpace(src))
			}
		})
	}

	// 代码块与代码片段里的图片语法只是文字，AST 中不会出现 Image 节点
	src := []byte(body)
	doc := markdownParser.Parse(text.NewReader(src))
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if img, ok := n.(*ast.Image); ok && entering {
			if ref := string(img.Destination); isExternalAsset(ref) {
				assets.Add(strings.TrimSpace(ref))
			}
		}
		return ast.WalkContinue, nil
	})

	return assets
}

// isExternalAsset 只认可 http(s) 绝对地址，data: 之类的内联数据不属于托管资源
func isExternalAsset(ref string) bool {
	ref = strings.ToLower(strings.TrimSpace(ref))
	return strings.HasPrefix(ref, "https://") || strings.HasPrefix(ref, "http://")
}
