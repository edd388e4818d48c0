// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package render

import (
	"html/template"
	"io"

	"github.com/taibuivan/confkb/internal/content"
)

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>{{.CSS}}</style>
</head>
<body>
<article>
<h1 class="article-title">{{.Title}}</h1>
{{- if .TOC}}
<nav class="toc"><ul>
{{- range .TOC}}
<li class="toc-level-{{.Level}}"><a href="#{{.ID}}">{{.Text}}</a></li>
{{- end}}
</ul></nav>
{{- end}}
{{.Body}}
</article>
</body>
</html>
`))

type pageData struct {
	Title string
	CSS   template.CSS
	TOC   []TocItem
	Body  template.HTML
}

// WritePage writes a standalone HTML page for an article body.
// The body goes through the Sanitizer; the title is escaped by the template.
func WritePage(w io.Writer, title string, blocks []content.Block, sanitizer *Sanitizer) error {
	return pageTemplate.Execute(w, pageData{
		Title: title,
		CSS:   template.CSS(HighlightCSS()),
		TOC:   TableOfContents(blocks),
		Body:  sanitizer.Sanitize(Document(blocks)),
	})
}
