// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package content_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/confkb/internal/content"
	"github.com/taibuivan/confkb/pkg/pointer"
)

const storedDocument = `{"blocks":[
	{"id":"h1","type":"heading","level":2,"content":"Why goroutines"},
	{"id":"p1","type":"paragraph","content":[
		{"text":"Channels are "},
		{"text":"typed","styles":{"bold":true,"color":"red"}},
		{"text":" pipes","styles":{}}
	]},
	{"id":"c1","type":"code","language":"go","content":"go func() {}()"},
	{"id":"l1","type":"list","listType":"checkbox","items":["one",[{"text":"two","styles":{"italic":true}}]]},
	{"id":"n1","type":"callout","variant":"warning","content":"Careful"},
	{"id":"i1","type":"image","url":"https://img.example/a.png","alt":"diagram","caption":"Figure 1"},
	{"id":"v1","type":"video","url":"https://youtu.be/dQw4w9WgXcQ","platform":"youtube"},
	{"id":"x1","type":"table","rows":[["a","b"]]}
]}`

/*
TestArticleContent_RoundTrip verifies decode → encode → decode yields the same document.
*/
func TestArticleContent_RoundTrip(t *testing.T) {
	var first content.ArticleContent
	require.NoError(t, json.Unmarshal([]byte(storedDocument), &first))
	require.Len(t, first.Blocks, 8)

	encoded, err := json.Marshal(first)
	require.NoError(t, err)

	var second content.ArticleContent
	require.NoError(t, json.Unmarshal(encoded, &second))

	reencoded, err := json.Marshal(second)
	require.NoError(t, err)

	assert.JSONEq(t, string(encoded), string(reencoded))
	assert.JSONEq(t, storedDocument, string(encoded))

	for i := range first.Blocks {
		if _, ok := first.Blocks[i].(content.Unsupported); ok {
			continue
		}
		assert.Equal(t, first.Blocks[i], second.Blocks[i], "block %d", i)
	}
}

/*
TestDecodeBlock_Variants checks each discriminant maps to its variant.
*/
func TestDecodeBlock_Variants(t *testing.T) {
	var doc content.ArticleContent
	require.NoError(t, json.Unmarshal([]byte(storedDocument), &doc))

	heading, ok := doc.Blocks[0].(content.Heading)
	require.True(t, ok)
	assert.Equal(t, 2, heading.Level)
	assert.False(t, heading.Content.IsSegmented())
	assert.Equal(t, "Why goroutines", heading.Content.Text())

	paragraph, ok := doc.Blocks[1].(content.Paragraph)
	require.True(t, ok)
	assert.True(t, paragraph.Content.IsSegmented())
	assert.Equal(t, "Channels are typed pipes", paragraph.Content.Text())
	assert.True(t, paragraph.Content.SegmentList()[1].Styles.Bold)
	assert.Equal(t, content.ColorRed, paragraph.Content.SegmentList()[1].Styles.Color)

	list, ok := doc.Blocks[3].(content.List)
	require.True(t, ok)
	assert.Equal(t, content.ListCheckbox, list.ListType)
	assert.False(t, list.Items[0].IsSegmented())
	assert.True(t, list.Items[1].IsSegmented())

	unsupported, ok := doc.Blocks[7].(content.Unsupported)
	require.True(t, ok)
	assert.Equal(t, "x1", unsupported.BlockID())
	assert.Equal(t, content.BlockType("table"), unsupported.Kind())
}

/*
TestDecodeBlock_Malformed verifies known types with bad fields are errors.
*/
func TestDecodeBlock_Malformed(t *testing.T) {
	_, err := content.DecodeBlock(json.RawMessage(`{"id":"h","type":"heading","level":"big"}`))
	assert.Error(t, err)

	_, err = content.DecodeBlock(json.RawMessage(`{"id":"p","type":"paragraph","content":42}`))
	assert.Error(t, err)

	_, err = content.Parse([]byte(`{"blocks":{}}`))
	assert.Error(t, err)
}

/*
TestParse_Empty verifies empty storage decodes to an empty document.
*/
func TestParse_Empty(t *testing.T) {
	doc, err := content.Parse(nil)
	require.NoError(t, err)
	assert.Empty(t, doc.Blocks)

	doc, err = content.Parse([]byte(`{"blocks":null}`))
	require.NoError(t, err)
	assert.NotNil(t, doc.Blocks)

	out, err := json.Marshal(content.ArticleContent{})
	require.NoError(t, err)
	assert.JSONEq(t, `{"blocks":[]}`, string(out))
}

/*
TestRichText_JSON checks both wire forms and null.
*/
func TestRichText_JSON(t *testing.T) {
	out, err := json.Marshal(content.Plain("hi"))
	require.NoError(t, err)
	assert.Equal(t, `"hi"`, string(out))

	out, err = json.Marshal(content.Segments())
	require.NoError(t, err)
	assert.Equal(t, `[]`, string(out))

	var r content.RichText
	require.NoError(t, json.Unmarshal([]byte(`null`), &r))
	assert.Equal(t, content.Plain(""), r)

	assert.Error(t, json.Unmarshal([]byte(`{"text":"x"}`), &r))
}

/*
TestBlockMarshal_IncludesType verifies a variant marshalled on its own keeps its discriminant.
*/
func TestBlockMarshal_IncludesType(t *testing.T) {
	out, err := json.Marshal(content.Code{ID: "c", Language: "sql", Content: "SELECT 1"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"code","id":"c","language":"sql","content":"SELECT 1"}`, string(out))

	out, err = json.Marshal([]content.Block{content.Image{ID: "i", URL: "u", Alt: "a"}})
	require.NoError(t, err)
	assert.JSONEq(t, `[{"type":"image","id":"i","url":"u","alt":"a"}]`, string(out))
}

/*
TestNewBlock_Defaults checks the default value of every variant.
*/
func TestNewBlock_Defaults(t *testing.T) {
	tests := []struct {
		kind content.BlockType
		want content.Block
	}{
		{content.TypeHeading, content.Heading{ID: "b", Level: 1}},
		{content.TypeParagraph, content.Paragraph{ID: "b"}},
		{content.TypeCode, content.Code{ID: "b", Language: "javascript"}},
		{content.TypeList, content.List{ID: "b", ListType: content.ListBullet, Items: []content.RichText{content.Plain("")}}},
		{content.TypeCallout, content.Callout{ID: "b", Variant: content.CalloutInfo}},
		{content.TypeImage, content.Image{ID: "b"}},
		{content.TypeVideo, content.Video{ID: "b", Platform: content.PlatformYouTube}},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			got, err := content.NewBlock(tt.kind, "b")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.kind, got.Kind())
			assert.True(t, tt.kind.IsValid())
		})
	}

	_, err := content.NewBlock("table", "b")
	assert.Error(t, err)
}

/*
TestWithID_DeepCopy verifies duplicates share no mutable state with the original.
*/
func TestWithID_DeepCopy(t *testing.T) {
	style := &content.TextStyle{Bold: true}
	original := content.List{
		ID:       "l1",
		ListType: content.ListNumbered,
		Items:    []content.RichText{content.Segments(content.TextSegment{Text: "a", Styles: style})},
	}

	dup := content.WithID(original, "l2").(content.List)
	assert.Equal(t, "l2", dup.ID)
	assert.Equal(t, original.Items, dup.Items)

	dup.Items[0].SegmentList()[0].Styles.Bold = false
	assert.True(t, style.Bold)

	unsupported := content.Unsupported{ID: "x", Type: "table", Raw: json.RawMessage(`{"id":"x","type":"table"}`)}
	moved := content.WithID(unsupported, "y").(content.Unsupported)
	assert.Equal(t, "y", moved.ID)
	assert.JSONEq(t, `{"id":"y","type":"table"}`, string(moved.Raw))
}

/*
TestBlockPatch_Apply verifies only fields relevant to the variant are merged.
*/
func TestBlockPatch_Apply(t *testing.T) {
	patch := content.BlockPatch{
		Level:    pointer.To(3),
		Content:  pointer.To(content.Plain("New title")),
		Language: pointer.To("go"),
		URL:      pointer.To("https://ignored"),
	}

	heading := patch.Apply(content.Heading{ID: "h", Level: 1})
	assert.Equal(t, content.Heading{ID: "h", Level: 3, Content: content.Plain("New title")}, heading)

	code := patch.Apply(content.Code{ID: "c", Language: "javascript", Content: "x"})
	assert.Equal(t, content.Code{ID: "c", Language: "go", Content: "x"}, code)

	paragraph := content.BlockPatch{Level: pointer.To(2)}.Apply(content.Paragraph{ID: "p", Content: content.Plain("keep")})
	assert.Equal(t, content.Paragraph{ID: "p", Content: content.Plain("keep")}, paragraph)
}

/*
TestValidate reports missing and duplicate ids and bad enum values.
*/
func TestValidate(t *testing.T) {
	doc := content.ArticleContent{Blocks: []content.Block{
		content.Paragraph{ID: "a"},
		content.Heading{ID: "a", Level: 1},
		content.Code{ID: ""},
		content.Heading{ID: "h4", Level: 4},
		content.Video{ID: "v", Platform: "twitch"},
		content.Paragraph{ID: "s", Content: content.Segments(content.TextSegment{Text: "x", Styles: &content.TextStyle{Color: "teal"}})},
		content.Unsupported{ID: "u", Type: "table"},
	}}

	errs := doc.Validate()
	require.Len(t, errs, 5)
	assert.Equal(t, "content.blocks[1].id", errs[0].Field)
	assert.Equal(t, "content.blocks[2].id", errs[1].Field)
	assert.Equal(t, "content.blocks[3]", errs[2].Field)
	assert.Equal(t, "content.blocks[4]", errs[3].Field)
	assert.Equal(t, "content.blocks[5]", errs[4].Field)

	valid := content.ArticleContent{Blocks: []content.Block{content.Paragraph{ID: "a"}}}
	assert.Empty(t, valid.Validate())
}

type kindCounter struct{ seen map[string]int }

func (k kindCounter) hit(kind string, result int) int {
	k.seen[kind]++
	return result
}

func (k kindCounter) Heading(content.Heading) int { return k.hit("heading", 1) }
func (k kindCounter) Paragraph(content.Paragraph) int { return k.hit("paragraph", 2) }
func (k kindCounter) Code(content.Code) int { return k.hit("code", 3) }
func (k kindCounter) List(content.List) int { return k.hit("list", 4) }
func (k kindCounter) Callout(content.Callout) int { return k.hit("callout", 5) }
func (k kindCounter) Image(content.Image) int { return k.hit("image", 6) }
func (k kindCounter) Video(content.Video) int { return k.hit("video", 7) }
func (k kindCounter) Unsupported(content.Unsupported) int { return k.hit("unsupported", 0) }

/*
TestMatch dispatches every variant to its own method.
*/
func TestMatch(t *testing.T) {
	var doc content.ArticleContent
	require.NoError(t, json.Unmarshal([]byte(storedDocument), &doc))

	counter := kindCounter{seen: map[string]int{}}
	var results []int
	for _, b := range doc.Blocks {
		results = append(results, content.Match[int](b, counter))
	}

	assert.Equal(t, []int{1, 2, 3, 4, 5, 6, 7, 0}, results)
	assert.Len(t, counter.seen, 8)
}
