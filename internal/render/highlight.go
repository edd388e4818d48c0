// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package render

import (
	"bytes"
	"html"
	"strings"

	"github.com/alecthomas/chroma"
	chromahtml "github.com/alecthomas/chroma/formatters/html"
	"github.com/alecthomas/chroma/lexers"
	"github.com/alecthomas/chroma/styles"
)

// chromaOptions emit class names instead of inline styles and skip chroma's
// own <pre> wrapper, which the code block markup already provides.
var chromaOptions = []chromahtml.Option{
	chromahtml.WithClasses(true),
	chromahtml.WithPreWrapper(nopPreWrapper{}),
}

type nopPreWrapper struct{}

var _ chromahtml.PreWrapper = nopPreWrapper{}

func (nopPreWrapper) Start(code bool, styleAttr string) string { return "" }
func (nopPreWrapper) End(code bool) string { return "" }

// Highlight returns code as class-annotated HTML spans.
//
// The lexer is chosen by language name, then by content analysis, then the
// plain-text fallback. On tokeniser failure the code is returned escaped.
func Highlight(language, code string) string {
	var lexer chroma.Lexer
	if language != "" {
		lexer = lexers.Get(strings.ToLower(language))
	}
	if lexer == nil {
		lexer = lexers.Analyse(code)
	}
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return html.EscapeString(code)
	}

	var out bytes.Buffer
	if err := chromahtml.New(chromaOptions...).Format(&out, styles.Monokai, iterator); err != nil {
		return html.EscapeString(code)
	}
	return out.String()
}

// HighlightCSS returns the stylesheet for the classes [Highlight] emits.
func HighlightCSS() string {
	var out bytes.Buffer
	if err := chromahtml.New(chromaOptions...).WriteCSS(&out, styles.Monokai); err != nil {
		return ""
	}
	return out.String()
}
