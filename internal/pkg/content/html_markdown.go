package content

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

const blockSelector = "p,div,section,article,h1,h2,h3,h4,h5,h6,ul,ol,blockquote,pre,hr,figure"

var (
	// reSafeDestination goldmark 渲染时不会再转义的 URL，才可以写成 ![alt](url)
	reSafeDestination = regexp.MustCompile(`^(?:[A-Za-z0-9\-._~:/?#&=]|%[0-9A-Fa-f]{2})+$`)
	reSpaces          = regexp.MustCompile(`\s+`)
	reQuillIndent     = regexp.MustCompile(`ql-indent-(\d+)`)
	mdEscaper         = strings.NewReplacer(
		`\`, `\\`,
		"*", `\*`,
		"_", `\_`,
		"`", "\\`",
		"[", `\[`,
		"]", `\]`,
		"<", `\<`,
		"#", `\#`,
	)
)

// htmlToMarkdown 把编辑器产出的 HTML 转成 markdown
func htmlToMarkdown(rich string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rich))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	w := &mdWriter{}
	w.blocks(doc.Find("body").Contents())
	return strings.Join(w.out, "\n\n"), nil
}

type mdWriter struct {
	out []string
}

func (w *mdWriter) block(s string) {
	s = strings.TrimSpace(s)
	if s != "" {
		w.out = append(w.out, s)
	}
}

func (w *mdWriter) blocks(sel *goquery.Selection) {
	var pending strings.Builder
	flush := func() {
		w.block(pending.String())
		pending.Reset()
	}

	sel.Each(func(_ int, node *goquery.Selection) {
		name := goquery.NodeName(node)
		switch name {
		case "p", "div", "section", "article", "figure":
			flush()
			if node.Children().Filter(blockSelector).Length() > 0 {
				w.blocks(node.Contents())
				return
			}
			w.block(w.inline(node.Contents()))
		case "h1", "h2", "h3", "h4", "h5", "h6":
			flush()
			level, _ := strconv.Atoi(name[1:])
			w.block(strings.Repeat("#", level) + " " + strings.TrimSpace(w.inline(node.Contents())))
		case "ul", "ol":
			flush()
			w.block(w.list(node, 0))
		case "blockquote":
			flush()
			sub := &mdWriter{}
			sub.blocks(node.Contents())
			lines := strings.Split(strings.Join(sub.out, "\n\n"), "\n")
			for i, line := range lines {
				lines[i] = strings.TrimRight("> "+line, " ")
			}
			w.block(strings.Join(lines, "\n"))
		case "pre":
			flush()
			w.block("```\n" + strings.TrimRight(node.Text(), "\n") + "\n```")
			// 代码块里的图片不会被 Text() 保留，单独补在后面
			node.Find("img").Each(func(_ int, img *goquery.Selection) {
				w.block(imageMarkdown(img))
			})
		case "hr":
			flush()
			w.block("---")
		case "#comment", "script", "style", "head":
		default:
			pending.WriteString(w.inline(node))
		}
	})
	flush()
}

func (w *mdWriter) list(node *goquery.Selection, depth int) string {
	ordered := goquery.NodeName(node) == "ol"
	var lines []string
	idx := 1
	node.ChildrenFiltered("li").Each(func(_ int, li *goquery.Selection) {
		level := depth
		if class, ok := li.Attr("class"); ok {
			if m := reQuillIndent.FindStringSubmatch(class); m != nil {
				n, _ := strconv.Atoi(m[1])
				level += n
			}
		}
		marker := "- "
		if ordered {
			marker = strconv.Itoa(idx) + ". "
			idx++
		}
		text := strings.TrimSpace(w.inline(li.Contents().Not("ul,ol")))
		lines = append(lines, strings.Repeat("    ", level)+marker+text)
		li.ChildrenFiltered("ul,ol").Each(func(_ int, sub *goquery.Selection) {
			lines = append(lines, w.list(sub, level+1))
		})
	})
	return strings.Join(lines, "\n")
}

func (w *mdWriter) inline(sel *goquery.Selection) string {
	var b strings.Builder
	sel.Each(func(_ int, node *goquery.Selection) {
		n := node.Get(0)
		switch n.Type {
		case html.TextNode:
			b.WriteString(mdEscaper.Replace(reSpaces.ReplaceAllString(n.Data, " ")))
		case html.ElementNode:
			b.WriteString(w.element(node))
		}
	})
	return b.String()
}

func (w *mdWriter) element(node *goquery.Selection) string {
	switch goquery.NodeName(node) {
	case "strong", "b":
		return wrapInline("**", w.inline(node.Contents()))
	case "em", "i":
		return wrapInline("*", w.inline(node.Contents()))
	case "s", "strike", "del":
		return wrapInline("~~", w.inline(node.Contents()))
	case "code":
		var b strings.Builder
		if code := node.Text(); code != "" {
			b.WriteString("`" + code + "`")
		}
		// 与代码块相同，图片补在代码片段后面
		node.Find("img").Each(func(_ int, img *goquery.Selection) {
			b.WriteString(imageMarkdown(img))
		})
		return b.String()
	case "br":
		return "  \n"
	case "a":
		text := w.inline(node.Contents())
		href, _ := node.Attr("href")
		if href == "" {
			return text
		}
		return "[" + text + "](" + markdownDestination(href) + ")"
	case "img":
		return imageMarkdown(node)
	case "script", "style":
		return ""
	default:
		return w.inline(node.Contents())
	}
}

// wrapInline 标记必须紧贴文字，首尾空白挪到标记外
func wrapInline(marker, s string) string {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return s
	}
	lead := s[:strings.Index(s, trimmed)]
	trail := s[len(lead)+len(trimmed):]
	return lead + marker + trimmed + marker + trail
}

func markdownDestination(href string) string {
	if reSafeDestination.MatchString(href) {
		return href
	}
	return "<" + strings.NewReplacer("<", "%3C", ">", "%3E", "\n", "").Replace(href) + ">"
}

// imageMarkdown 图片地址必须原样保留：能安全写成 markdown 的用 ![]()，否则保留原始 <img>
func imageMarkdown(img *goquery.Selection) string {
	src, _ := img.Attr("src")
	if src == "" {
		return ""
	}
	alt, _ := img.Attr("alt")
	if reSafeDestination.MatchString(src) && !strings.ContainsAny(alt, "[]\\\n") {
		return "![" + alt + "](" + src + ")"
	}
	return `<img src="` + html.EscapeString(src) + `" alt="` + html.EscapeString(alt) + `">`
}
