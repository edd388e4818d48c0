// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package content

import (
	"encoding/json"
	"fmt"
)

// Block is one structural unit of an article.
//
// The set of implementations is closed: the unexported marker method keeps
// other packages from adding variants. Dispatch with [Match].
type Block interface {
	// BlockID returns the id unique within the article.
	BlockID() string
	// Kind returns the JSON discriminant. [Unsupported] returns whatever type it was stored with.
	Kind() BlockType

	isBlock()
}

// # Variants

// Heading is a section title. Level is 1, 2 or 3.
type Heading struct {
	ID      string   `json:"id"`
	Level   int      `json:"level"`
	Content RichText `json:"content"`
}

// Paragraph is a run of body text.
type Paragraph struct {
	ID      string   `json:"id"`
	Content RichText `json:"content"`
}

// Code is a source listing. Content is unstyled; Language is a free-form lexer hint.
type Code struct {
	ID       string `json:"id"`
	Language string `json:"language"`
	Content  string `json:"content"`
}

// List is a bullet, numbered or checkbox list.
type List struct {
	ID       string     `json:"id"`
	ListType ListType   `json:"listType"`
	Items    []RichText `json:"items"`
}

// Callout is a highlighted note.
type Callout struct {
	ID      string         `json:"id"`
	Variant CalloutVariant `json:"variant"`
	Content RichText       `json:"content"`
}

// Image references an externally hosted picture.
type Image struct {
	ID      string `json:"id"`
	URL     string `json:"url"`
	Alt     string `json:"alt"`
	Caption string `json:"caption,omitempty"`
}

// Video embeds a talk recording from a supported platform.
type Video struct {
	ID       string   `json:"id"`
	URL      string   `json:"url"`
	Platform Platform `json:"platform"`
}

// Unsupported keeps a block whose type is not known to this build.
//
// Raw is the original JSON object; it is written back unchanged so unknown
// blocks survive a load/save cycle.
type Unsupported struct {
	ID   string
	Type string
	Raw  json.RawMessage
}

func (b Heading) BlockID() string { return b.ID }
func (b Paragraph) BlockID() string { return b.ID }
func (b Code) BlockID() string { return b.ID }
func (b List) BlockID() string { return b.ID }
func (b Callout) BlockID() string { return b.ID }
func (b Image) BlockID() string { return b.ID }
func (b Video) BlockID() string { return b.ID }
func (b Unsupported) BlockID() string { return b.ID }

func (Heading) Kind() BlockType { return TypeHeading }
func (Paragraph) Kind() BlockType { return TypeParagraph }
func (Code) Kind() BlockType { return TypeCode }
func (List) Kind() BlockType { return TypeList }
func (Callout) Kind() BlockType { return TypeCallout }
func (Image) Kind() BlockType { return TypeImage }
func (Video) Kind() BlockType { return TypeVideo }
func (b Unsupported) Kind() BlockType { return BlockType(b.Type) }

func (Heading) isBlock() {}
func (Paragraph) isBlock() {}
func (Code) isBlock() {}
func (List) isBlock() {}
func (Callout) isBlock() {}
func (Image) isBlock() {}
func (Video) isBlock() {}
func (Unsupported) isBlock() {}

// MarshalJSON on each variant writes the "type" discriminant, so a Block
// encodes correctly wherever it appears.

func (b Heading) MarshalJSON() ([]byte, error) { return EncodeBlock(b) }
func (b Paragraph) MarshalJSON() ([]byte, error) { return EncodeBlock(b) }
func (b Code) MarshalJSON() ([]byte, error) { return EncodeBlock(b) }
func (b List) MarshalJSON() ([]byte, error) { return EncodeBlock(b) }
func (b Callout) MarshalJSON() ([]byte, error) { return EncodeBlock(b) }
func (b Image) MarshalJSON() ([]byte, error) { return EncodeBlock(b) }
func (b Video) MarshalJSON() ([]byte, error) { return EncodeBlock(b) }
func (b Unsupported) MarshalJSON() ([]byte, error) { return EncodeBlock(b) }

// # Exhaustive Dispatch

// Visitor has one method per block variant.
type Visitor[T any] interface {
	Heading(Heading) T
	Paragraph(Paragraph) T
	Code(Code) T
	List(List) T
	Callout(Callout) T
	Image(Image) T
	Video(Video) T
	Unsupported(Unsupported) T
}

// Match calls the Visitor method for b's variant.
//
// Panics on a nil block, which no decoder or constructor in this package produces.
func Match[T any](b Block, v Visitor[T]) T {
	switch block := b.(type) {
	case Heading:
		return v.Heading(block)
	case Paragraph:
		return v.Paragraph(block)
	case Code:
		return v.Code(block)
	case List:
		return v.List(block)
	case Callout:
		return v.Callout(block)
	case Image:
		return v.Image(block)
	case Video:
		return v.Video(block)
	case Unsupported:
		return v.Unsupported(block)
	default:
		panic(fmt.Sprintf("content: unexpected block %T", b))
	}
}
