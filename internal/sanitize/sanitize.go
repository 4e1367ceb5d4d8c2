// Package sanitize 以白名单方式清洗富文本 HTML，供职位描述等字段写入前使用。
package sanitize

import (
	"net/url"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var allowedTags = map[string]bool{
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"p": true, "div": true, "blockquote": true, "pre": true, "code": true,
	"a": true, "img": true,
	"ul": true, "ol": true, "li": true,
	"b": true, "i": true, "em": true, "strong": true, "u": true, "strike": true,
	"table": true, "thead": true, "tbody": true, "tr": true, "th": true, "td": true,
	"hr": true, "br": true,
}

// 各标签允许保留的属性。
var allowedAttrs = map[string]map[string]bool{
	"a":   {"href": true, "name": true, "target": true},
	"img": {"src": true, "alt": true},
}

var voidTags = map[string]bool{"br": true, "hr": true, "img": true}

var allowedSchemes = map[string]bool{"": true, "http": true, "https": true, "mailto": true}

// HTML 清洗输入片段：script/style 子树整体丢弃，
// 白名单外的元素只保留其子内容，链接协议限于 http/https/mailto 与相对路径。
func HTML(input string) string {
	if input == "" {
		return ""
	}

	ctx := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(input), ctx)
	if err != nil {
		return ""
	}

	var b strings.Builder
	for _, n := range nodes {
		writeNode(&b, n)
	}
	return b.String()
}

func writeNode(b *strings.Builder, n *html.Node) {
	switch n.Type {
	case html.TextNode:
		b.WriteString(html.EscapeString(n.Data))
	case html.ElementNode:
		name := strings.ToLower(n.Data)
		if name == "script" || name == "style" {
			return
		}
		if !allowedTags[name] {
			writeChildren(b, n)
			return
		}

		b.WriteByte('<')
		b.WriteString(name)
		for _, attr := range n.Attr {
			key := strings.ToLower(attr.Key)
			if !allowedAttrs[name][key] {
				continue
			}
			if (key == "href" || key == "src") && !safeURL(attr.Val) {
				continue
			}
			b.WriteByte(' ')
			b.WriteString(key)
			b.WriteString(`="`)
			b.WriteString(html.EscapeString(attr.Val))
			b.WriteByte('"')
		}
		b.WriteByte('>')
		if voidTags[name] {
			return
		}
		writeChildren(b, n)
		b.WriteString("</")
		b.WriteString(name)
		b.WriteByte('>')
	}
}

func writeChildren(b *strings.Builder, n *html.Node) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		writeNode(b, c)
	}
}

func safeURL(raw string) bool {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return false
	}
	return allowedSchemes[strings.ToLower(u.Scheme)]
}
