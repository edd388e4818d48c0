// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package content

import (
	"encoding/json"
	"fmt"
)

// ArticleContent is the document stored in an article's content column.
// Block order is render order.
type ArticleContent struct {
	Blocks []Block
}

type wireContent struct {
	Blocks []json.RawMessage `json:"blocks"`
}

// MarshalJSON encodes {"blocks":[...]}. A nil list encodes as [].
func (c ArticleContent) MarshalJSON() ([]byte, error) {
	blocks := make([]json.RawMessage, len(c.Blocks))
	for i, b := range c.Blocks {
		raw, err := EncodeBlock(b)
		if err != nil {
			return nil, fmt.Errorf("content: block %d: %w", i, err)
		}
		blocks[i] = raw
	}
	return json.Marshal(wireContent{Blocks: blocks})
}

// UnmarshalJSON decodes {"blocks":[...]}, keeping unknown block types as [Unsupported].
func (c *ArticleContent) UnmarshalJSON(data []byte) error {
	var wire wireContent
	if err := json.Unmarshal(data, &wire); err != nil {
		return fmt.Errorf("content: %w", err)
	}

	blocks := make([]Block, 0, len(wire.Blocks))
	for i, raw := range wire.Blocks {
		b, err := DecodeBlock(raw)
		if err != nil {
			return fmt.Errorf("content: block %d: %w", i, err)
		}
		blocks = append(blocks, b)
	}

	c.Blocks = blocks
	return nil
}

// Parse decodes stored content JSON. Empty input yields an empty document.
func Parse(data []byte) (ArticleContent, error) {
	var c ArticleContent
	if len(data) == 0 {
		return ArticleContent{Blocks: []Block{}}, nil
	}
	if err := json.Unmarshal(data, &c); err != nil {
		return ArticleContent{}, err
	}
	return c, nil
}

// # Block Codec

type envelope struct {
	ID   string `json:"id"`
	Type string `json:"type"`
}

// DecodeBlock decodes one block object by its "type" discriminant.
//
// An unknown or missing type yields [Unsupported]. A known type with
// malformed fields is an error.
func DecodeBlock(raw json.RawMessage) (Block, error) {
	var head envelope
	if err := json.Unmarshal(raw, &head); err != nil {
		return nil, err
	}

	switch BlockType(head.Type) {
	case TypeHeading:
		return decodeAs[Heading](raw)
	case TypeParagraph:
		return decodeAs[Paragraph](raw)
	case TypeCode:
		return decodeAs[Code](raw)
	case TypeList:
		return decodeAs[List](raw)
	case TypeCallout:
		return decodeAs[Callout](raw)
	case TypeImage:
		return decodeAs[Image](raw)
	case TypeVideo:
		return decodeAs[Video](raw)
	default:
		kept := make(json.RawMessage, len(raw))
		copy(kept, raw)
		return Unsupported{ID: head.ID, Type: head.Type, Raw: kept}, nil
	}
}

func decodeAs[B Block](raw json.RawMessage) (Block, error) {
	var b B
	if err := json.Unmarshal(raw, &b); err != nil {
		return nil, err
	}
	return b, nil
}

// EncodeBlock encodes b with its "type" discriminant first.
func EncodeBlock(b Block) (json.RawMessage, error) {
	return Match[encoded](b, encoder{})()
}

// encoded defers the error so one visitor can return both values.
type encoded func() (json.RawMessage, error)

type encoder struct{}

func (encoder) Heading(b Heading) encoded {
	type body Heading
	return flatten(TypeHeading, body(b))
}

func (encoder) Paragraph(b Paragraph) encoded {
	type body Paragraph
	return flatten(TypeParagraph, body(b))
}

func (encoder) Code(b Code) encoded {
	type body Code
	return flatten(TypeCode, body(b))
}

func (encoder) List(b List) encoded {
	type body List
	if b.Items == nil {
		b.Items = []RichText{}
	}
	return flatten(TypeList, body(b))
}

func (encoder) Callout(b Callout) encoded {
	type body Callout
	return flatten(TypeCallout, body(b))
}

func (encoder) Image(b Image) encoded {
	type body Image
	return flatten(TypeImage, body(b))
}

func (encoder) Video(b Video) encoded {
	type body Video
	return flatten(TypeVideo, body(b))
}

func (encoder) Unsupported(b Unsupported) encoded {
	return func() (json.RawMessage, error) {
		if len(b.Raw) > 0 {
			return b.Raw, nil
		}
		return json.Marshal(envelope{ID: b.ID, Type: b.Type})
	}
}

// flatten marshals fields with a leading "type" key by merging two objects.
func flatten[T any](kind BlockType, fields T) encoded {
	return func() (json.RawMessage, error) {
		body, err := json.Marshal(fields)
		if err != nil {
			return nil, err
		}
		head, err := json.Marshal(struct {
			Type BlockType `json:"type"`
		}{kind})
		if err != nil {
			return nil, err
		}
		if len(body) == 2 {
			return head, nil
		}
		// {"type":"x"} + {"id":...} → {"type":"x","id":...}
		out := make([]byte, 0, len(head)+len(body))
		out = append(out, head[:len(head)-1]...)
		out = append(out, ',')
		out = append(out, body[1:]...)
		return out, nil
	}
}
