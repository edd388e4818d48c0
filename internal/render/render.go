// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package render turns article content into HTML.

Rendering is pure: the same blocks always produce the same markup, and
nothing is mutated. Every block element carries the block id as its HTML id
so table-of-contents links can target it.

Output is built from escaped text and fixed markup; callers serving it to
browsers additionally pass whole documents through [Sanitizer].
*/
package render

import (
	"html"
	"html/template"
	"strconv"
	"strings"

	"github.com/taibuivan/confkb/internal/content"
)

// Block renders one block.
func Block(b content.Block) template.HTML {
	return template.HTML(content.Match[string](b, blockRenderer{}))
}

// Document renders blocks top to bottom, one element per line.
func Document(blocks []content.Block) template.HTML {
	parts := make([]string, 0, len(blocks))
	for _, b := range blocks {
		parts = append(parts, content.Match[string](b, blockRenderer{}))
	}
	return template.HTML(strings.Join(parts, "\n"))
}

// RichText renders inline text. Plain text is escaped verbatim; each styled
// segment is wrapped in a span carrying its [StyleClasses].
func RichText(r content.RichText) template.HTML {
	return template.HTML(richText(r))
}

func richText(r content.RichText) string {
	if !r.IsSegmented() {
		return html.EscapeString(r.PlainText())
	}

	var b strings.Builder
	for _, segment := range r.SegmentList() {
		classes := StyleClasses(segment.Styles)
		if classes == "" {
			b.WriteString(html.EscapeString(segment.Text))
			continue
		}
		b.WriteString(`<span class="`)
		b.WriteString(classes)
		b.WriteString(`">`)
		b.WriteString(html.EscapeString(segment.Text))
		b.WriteString(`</span>`)
	}
	return b.String()
}

// StyleClasses maps a style to its CSS classes in a fixed order:
// font-bold italic underline line-through inline-code text-COLOR bg-COLOR.
// A nil or empty style yields "".
func StyleClasses(s *content.TextStyle) string {
	if s.IsZero() {
		return ""
	}

	classes := make([]string, 0, 7)
	if s.Bold {
		classes = append(classes, "font-bold")
	}
	if s.Italic {
		classes = append(classes, "italic")
	}
	if s.Underline {
		classes = append(classes, "underline")
	}
	if s.Strikethrough {
		classes = append(classes, "line-through")
	}
	if s.Code {
		classes = append(classes, "inline-code")
	}
	if !s.Color.IsDefault() && s.Color.IsValid() {
		classes = append(classes, "text-"+string(s.Color))
	}
	if !s.BackgroundColor.IsDefault() && s.BackgroundColor.IsValid() {
		classes = append(classes, "bg-"+string(s.BackgroundColor))
	}
	return strings.Join(classes, " ")
}

// # Block Markup

type blockRenderer struct{}

func (blockRenderer) Heading(b content.Heading) string {
	level := b.Level
	if level < 1 || level > 3 {
		level = 1
	}
	tag := "h" + strconv.Itoa(level)
	return "<" + tag + idAttr(b.ID) + ` class="block-heading">` + richText(b.Content) + "</" + tag + ">"
}

func (blockRenderer) Paragraph(b content.Paragraph) string {
	return "<p" + idAttr(b.ID) + ` class="block-paragraph">` + richText(b.Content) + "</p>"
}

func (blockRenderer) Code(b content.Code) string {
	var out strings.Builder
	out.WriteString("<div" + idAttr(b.ID) + ` class="block-code">`)
	if b.Language != "" {
		out.WriteString(`<div class="code-language">` + html.EscapeString(b.Language) + `</div>`)
	}
	out.WriteString(`<pre class="chroma"><code`)
	if token := languageToken(b.Language); token != "" {
		out.WriteString(` class="language-` + token + `"`)
	}
	out.WriteString(">")
	out.WriteString(Highlight(b.Language, b.Content))
	out.WriteString("</code></pre></div>")
	return out.String()
}

func (blockRenderer) List(b content.List) string {
	tag := "ul"
	if b.ListType == content.ListNumbered {
		tag = "ol"
	}
	listType := b.ListType
	if !listType.IsValid() {
		listType = content.ListBullet
	}

	var out strings.Builder
	out.WriteString("<" + tag + idAttr(b.ID) + ` class="block-list list-` + string(listType) + `">`)
	for _, item := range b.Items {
		out.WriteString("<li>")
		if listType == content.ListCheckbox {
			out.WriteString(`<span class="checkbox"></span>`)
		}
		out.WriteString(richText(item))
		out.WriteString("</li>")
	}
	out.WriteString("</" + tag + ">")
	return out.String()
}

func (blockRenderer) Callout(b content.Callout) string {
	variant := b.Variant
	if !variant.IsValid() {
		variant = content.CalloutInfo
	}
	return "<div" + idAttr(b.ID) + ` class="block-callout callout-` + string(variant) + `">` +
		`<div class="callout-content">` + richText(b.Content) + `</div></div>`
}

func (blockRenderer) Image(b content.Image) string {
	if b.URL == "" {
		return "<figure" + idAttr(b.ID) + ` class="block-image block-empty"></figure>`
	}

	var out strings.Builder
	out.WriteString("<figure" + idAttr(b.ID) + ` class="block-image">`)
	out.WriteString(`<img src="` + html.EscapeString(b.URL) + `" alt="` + html.EscapeString(b.Alt) + `" loading="lazy">`)
	if b.Caption != "" {
		out.WriteString("<figcaption>" + html.EscapeString(b.Caption) + "</figcaption>")
	}
	out.WriteString("</figure>")
	return out.String()
}

func (blockRenderer) Video(b content.Video) string {
	if b.URL == "" {
		return "<div" + idAttr(b.ID) + ` class="block-video block-empty"></div>`
	}
	player, ok := playerURL(b.Platform, b.URL)
	if !ok {
		// The sanitizer only keeps player URLs as an iframe src.
		url := html.EscapeString(b.URL)
		return "<div" + idAttr(b.ID) + ` class="block-video block-video-link"><a href="` + url + `">` + url + "</a></div>"
	}
	return "<div" + idAttr(b.ID) + ` class="block-video">` +
		`<iframe src="` + html.EscapeString(player) + `" title="Video" frameborder="0" ` +
		`allow="accelerometer; autoplay; clipboard-write; encrypted-media; gyroscope; picture-in-picture" allowfullscreen></iframe></div>`
}

func (blockRenderer) Unsupported(b content.Unsupported) string {
	return "<div" + idAttr(b.ID) + ` class="block-unsupported">Unsupported block: ` + html.EscapeString(b.Type) + "</div>"
}

func idAttr(id string) string {
	if id == "" {
		return ""
	}
	return ` id="` + html.EscapeString(id) + `"`
}

// languageToken reduces a free-form language hint to a safe class suffix.
func languageToken(language string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		case r >= 'A' && r <= 'Z':
			return r + ('a' - 'A')
		}
		return -1
	}, language)
}
