// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package content

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// TextStyle holds presentation flags for a [TextSegment].
type TextStyle struct {
	Bold            bool  `json:"bold,omitempty"`
	Italic          bool  `json:"italic,omitempty"`
	Underline       bool  `json:"underline,omitempty"`
	Strikethrough   bool  `json:"strikethrough,omitempty"`
	Code            bool  `json:"code,omitempty"`
	Color           Color `json:"color,omitempty"`
	BackgroundColor Color `json:"backgroundColor,omitempty"`
}

// IsZero reports whether the style changes nothing.
func (s *TextStyle) IsZero() bool {
	return s == nil || (!s.Bold && !s.Italic && !s.Underline && !s.Strikethrough && !s.Code &&
		s.Color.IsDefault() && s.BackgroundColor.IsDefault())
}

// TextSegment is a run of text sharing one style.
type TextSegment struct {
	Text   string     `json:"text"`
	Styles *TextStyle `json:"styles,omitempty"`
}

// RichText is either a plain string or an ordered list of styled segments.
//
// The zero value is an empty plain string. On the wire the plain form is a
// JSON string and the segmented form is a JSON array, and each decodes back
// into the form it came from.
type RichText struct {
	plain     string
	segments  []TextSegment
	segmented bool
}

// Plain returns a RichText holding s verbatim.
func Plain(s string) RichText {
	return RichText{plain: s}
}

// Segments returns a RichText made of the given segments.
func Segments(segments ...TextSegment) RichText {
	if segments == nil {
		segments = []TextSegment{}
	}
	return RichText{segments: segments, segmented: true}
}

// IsSegmented reports whether r is in segment form.
func (r RichText) IsSegmented() bool {
	return r.segmented
}

// PlainText returns the string of a plain RichText, or "" for segmented text.
func (r RichText) PlainText() string {
	return r.plain
}

// SegmentList returns the segments of a segmented RichText, or nil.
func (r RichText) SegmentList() []TextSegment {
	return r.segments
}

// Text returns the visible string: the plain value, or all segment texts concatenated.
func (r RichText) Text() string {
	if !r.segmented {
		return r.plain
	}
	var b strings.Builder
	for _, s := range r.segments {
		b.WriteString(s.Text)
	}
	return b.String()
}

// IsEmpty reports whether the visible string is empty.
func (r RichText) IsEmpty() bool {
	return r.Text() == ""
}

// Clone returns a deep copy.
func (r RichText) Clone() RichText {
	if !r.segmented {
		return r
	}
	out := make([]TextSegment, len(r.segments))
	for i, s := range r.segments {
		out[i] = TextSegment{Text: s.Text}
		if s.Styles != nil {
			style := *s.Styles
			out[i].Styles = &style
		}
	}
	return RichText{segments: out, segmented: true}
}

// MarshalJSON encodes plain text as a string and segments as an array.
func (r RichText) MarshalJSON() ([]byte, error) {
	if !r.segmented {
		return json.Marshal(r.plain)
	}
	if r.segments == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(r.segments)
}

// UnmarshalJSON accepts a string, an array of segments, or null (empty plain text).
func (r *RichText) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	switch {
	case len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")):
		*r = RichText{}
		return nil
	case trimmed[0] == '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*r = Plain(s)
		return nil
	case trimmed[0] == '[':
		var segments []TextSegment
		if err := json.Unmarshal(trimmed, &segments); err != nil {
			return err
		}
		*r = Segments(segments...)
		return nil
	default:
		return fmt.Errorf("content: rich text must be a string or an array of segments")
	}
}
