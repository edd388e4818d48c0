// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package content

import (
	"encoding/json"
	"fmt"
	"slices"
)

// DefaultCodeLanguage is the language of a freshly created code block.
const DefaultCodeLanguage = "javascript"

// NewBlock returns the default-valued block of the given kind.
//
//	heading   level 1, empty
//	paragraph empty
//	code      language "javascript", empty
//	list      bullet, one empty item
//	callout   info, empty
//	image     empty url/alt
//	video     empty url, youtube
func NewBlock(kind BlockType, id string) (Block, error) {
	switch kind {
	case TypeHeading:
		return Heading{ID: id, Level: 1}, nil
	case TypeParagraph:
		return Paragraph{ID: id}, nil
	case TypeCode:
		return Code{ID: id, Language: DefaultCodeLanguage}, nil
	case TypeList:
		return List{ID: id, ListType: ListBullet, Items: []RichText{Plain("")}}, nil
	case TypeCallout:
		return Callout{ID: id, Variant: CalloutInfo}, nil
	case TypeImage:
		return Image{ID: id}, nil
	case TypeVideo:
		return Video{ID: id, Platform: PlatformYouTube}, nil
	default:
		return nil, fmt.Errorf("content: unknown block type %q", kind)
	}
}

// # Copying

// Clone returns a deep copy of b.
func Clone(b Block) Block {
	return Match[Block](b, cloner{})
}

// WithID returns a deep copy of b carrying a different id.
func WithID(b Block, id string) Block {
	return Match[Block](Clone(b), reIDer{id: id})
}

// CloneAll deep-copies a block list. The result is never nil.
func CloneAll(blocks []Block) []Block {
	out := make([]Block, len(blocks))
	for i, b := range blocks {
		out[i] = Clone(b)
	}
	return out
}

type cloner struct{}

func (cloner) Heading(b Heading) Block {
	b.Content = b.Content.Clone()
	return b
}

func (cloner) Paragraph(b Paragraph) Block {
	b.Content = b.Content.Clone()
	return b
}

func (cloner) Code(b Code) Block { return b }

func (cloner) List(b List) Block {
	items := make([]RichText, len(b.Items))
	for i, item := range b.Items {
		items[i] = item.Clone()
	}
	b.Items = items
	return b
}

func (cloner) Callout(b Callout) Block {
	b.Content = b.Content.Clone()
	return b
}

func (cloner) Image(b Image) Block { return b }
func (cloner) Video(b Video) Block { return b }

func (cloner) Unsupported(b Unsupported) Block {
	b.Raw = slices.Clone(b.Raw)
	return b
}

type reIDer struct{ id string }

func (r reIDer) Heading(b Heading) Block {
	b.ID = r.id
	return b
}

func (r reIDer) Paragraph(b Paragraph) Block {
	b.ID = r.id
	return b
}

func (r reIDer) Code(b Code) Block {
	b.ID = r.id
	return b
}

func (r reIDer) List(b List) Block {
	b.ID = r.id
	return b
}

func (r reIDer) Callout(b Callout) Block {
	b.ID = r.id
	return b
}

func (r reIDer) Image(b Image) Block {
	b.ID = r.id
	return b
}

func (r reIDer) Video(b Video) Block {
	b.ID = r.id
	return b
}

// Unsupported rewrites the id inside the preserved JSON as well.
func (r reIDer) Unsupported(b Unsupported) Block {
	b.ID = r.id
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(b.Raw, &fields); err == nil && fields != nil {
		fields["id"], _ = json.Marshal(r.id)
		if raw, err := json.Marshal(fields); err == nil {
			b.Raw = raw
		}
	}
	return b
}

// # Partial Updates

// BlockPatch carries optional field updates for a block.
//
// Only fields meaningful for the target variant are applied; the rest are
// ignored. The variant itself never changes. nil means "leave unchanged".
type BlockPatch struct {
	Level    *int
	Content  *RichText // heading, paragraph, callout
	Language *string   // code
	Code     *string   // code body
	ListType *ListType
	Items    []RichText // list; nil leaves items unchanged
	Variant  *CalloutVariant
	URL      *string // image, video
	Alt      *string
	Caption  *string
	Platform *Platform
}

// Apply returns a copy of b with the relevant patch fields merged in.
func (p BlockPatch) Apply(b Block) Block {
	return Match[Block](Clone(b), patcher{p})
}

type patcher struct{ p BlockPatch }

func (x patcher) Heading(b Heading) Block {
	if x.p.Level != nil {
		b.Level = *x.p.Level
	}
	if x.p.Content != nil {
		b.Content = x.p.Content.Clone()
	}
	return b
}

func (x patcher) Paragraph(b Paragraph) Block {
	if x.p.Content != nil {
		b.Content = x.p.Content.Clone()
	}
	return b
}

func (x patcher) Code(b Code) Block {
	if x.p.Language != nil {
		b.Language = *x.p.Language
	}
	if x.p.Code != nil {
		b.Content = *x.p.Code
	}
	return b
}

func (x patcher) List(b List) Block {
	if x.p.ListType != nil {
		b.ListType = *x.p.ListType
	}
	if x.p.Items != nil {
		b.Items = make([]RichText, len(x.p.Items))
		for i, item := range x.p.Items {
			b.Items[i] = item.Clone()
		}
	}
	return b
}

func (x patcher) Callout(b Callout) Block {
	if x.p.Variant != nil {
		b.Variant = *x.p.Variant
	}
	if x.p.Content != nil {
		b.Content = x.p.Content.Clone()
	}
	return b
}

func (x patcher) Image(b Image) Block {
	if x.p.URL != nil {
		b.URL = *x.p.URL
	}
	if x.p.Alt != nil {
		b.Alt = *x.p.Alt
	}
	if x.p.Caption != nil {
		b.Caption = *x.p.Caption
	}
	return b
}

func (x patcher) Video(b Video) Block {
	if x.p.URL != nil {
		b.URL = *x.p.URL
	}
	if x.p.Platform != nil {
		b.Platform = *x.p.Platform
	}
	return b
}

func (patcher) Unsupported(b Unsupported) Block { return b }
