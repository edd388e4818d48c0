// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package content defines the block document stored in an article's content column.

An article body is an ordered list of blocks. Each block is one of a closed set
of variants (heading, paragraph, code, list, callout, image, video) and carries
an id that is unique within the article and doubles as the HTML anchor used by
the table of contents.

Consumers dispatch over variants with [Match] and a [Visitor]; adding a variant
adds a Visitor method, so every consumer fails to compile until it handles it.
*/
package content

// # Enumerations

// BlockType is the JSON discriminant of a block.
type BlockType string

const (
	TypeHeading   BlockType = "heading"
	TypeParagraph BlockType = "paragraph"
	TypeCode      BlockType = "code"
	TypeList      BlockType = "list"
	TypeCallout   BlockType = "callout"
	TypeImage     BlockType = "image"
	TypeVideo     BlockType = "video"
)

// BlockTypes lists every supported variant in menu order.
var BlockTypes = []BlockType{
	TypeParagraph, TypeHeading, TypeCode, TypeList, TypeCallout, TypeImage, TypeVideo,
}

// IsValid reports whether t names a supported variant.
func (t BlockType) IsValid() bool {
	switch t {
	case TypeHeading, TypeParagraph, TypeCode, TypeList, TypeCallout, TypeImage, TypeVideo:
		return true
	}
	return false
}

// ListType selects list markers.
type ListType string

const (
	ListBullet   ListType = "bullet"
	ListNumbered ListType = "numbered"
	ListCheckbox ListType = "checkbox"
)

// IsValid reports whether l is a known list type.
func (l ListType) IsValid() bool {
	return l == ListBullet || l == ListNumbered || l == ListCheckbox
}

// CalloutVariant selects the callout tone.
type CalloutVariant string

const (
	CalloutInfo    CalloutVariant = "info"
	CalloutWarning CalloutVariant = "warning"
	CalloutError   CalloutVariant = "error"
	CalloutSuccess CalloutVariant = "success"
)

// IsValid reports whether v is a known callout variant.
func (v CalloutVariant) IsValid() bool {
	return v == CalloutInfo || v == CalloutWarning || v == CalloutError || v == CalloutSuccess
}

// Platform is the video host of a video block.
type Platform string

const (
	PlatformYouTube Platform = "youtube"
	PlatformVimeo   Platform = "vimeo"
)

// IsValid reports whether p is a supported video host.
func (p Platform) IsValid() bool {
	return p == PlatformYouTube || p == PlatformVimeo
}

// Color is a palette entry for text or background color.
type Color string

const (
	ColorDefault Color = "default"
	ColorGray    Color = "gray"
	ColorBrown   Color = "brown"
	ColorOrange  Color = "orange"
	ColorYellow  Color = "yellow"
	ColorGreen   Color = "green"
	ColorBlue    Color = "blue"
	ColorPurple  Color = "purple"
	ColorPink    Color = "pink"
	ColorRed     Color = "red"
)

// Palette lists every color in display order.
var Palette = []Color{
	ColorDefault, ColorGray, ColorBrown, ColorOrange, ColorYellow,
	ColorGreen, ColorBlue, ColorPurple, ColorPink, ColorRed,
}

// IsValid reports whether c is in the palette. The empty string means
// "unset" and is also accepted.
func (c Color) IsValid() bool {
	if c == "" {
		return true
	}
	for _, p := range Palette {
		if c == p {
			return true
		}
	}
	return false
}

// IsDefault reports whether c leaves the inherited color untouched.
func (c Color) IsDefault() bool {
	return c == "" || c == ColorDefault
}
