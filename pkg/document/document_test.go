package document_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/tmscope/pkg/document"
	"github.com/walteh/tmscope/pkg/position"
	"github.com/walteh/tmscope/pkg/tagstream"
	"go.uber.org/multierr"
)

const yamlFixture = `
name: source.demo
scopes:
  1: source.demo
  3: string.quoted.double
lines:
  - text: 'x = "h'
    tags: [-1, 4, -3, 2]
  - text: 'i" y'
    tags: [2, -4, 2, -2]
probes:
  - {row: 0, column: 5}
  - {row: 1, column: 3}
`

const jsonFixture = `{
  "name": "source.json",
  "scopes": {"1": "source.json", "3": "meta.structure"},
  "lines": [
    {"text": "{}", "tags": [-1, -3, 2, -4, -2]}
  ],
  "tree": [
    {"kind": "document", "scope": "source.json", "start": {"row": 0, "column": 0}, "end": {"row": 0, "column": 2},
     "children": [{"kind": "object", "scope": "meta.structure", "start": {"row": 0, "column": 0}, "end": {"row": 0, "column": 2}}]}
  ]
}`

func testContext(t *testing.T) context.Context {
	return zerolog.New(zerolog.NewTestWriter(t)).WithContext(context.Background())
}

func demo() *document.Document {
	return document.New("source.demo", map[tagstream.ScopeID]string{
		1: "source.demo",
		3: "string.quoted.double",
	}, []document.Line{
		{Text: `x = "h`, Tags: []tagstream.Tag{-1, 4, -3, 2}},
		{Text: `i" y`, Tags: []tagstream.Tag{2, -4, 2, -2}},
		{Text: ``},
	})
}

func TestOpenScopesAreCarried(t *testing.T) {
	doc := demo()

	assert.Empty(t, doc.TagStreamForRow(0).OpenScopes)
	assert.Equal(t, []tagstream.ScopeID{1, 3}, doc.TagStreamForRow(1).OpenScopes)
	assert.Empty(t, doc.TagStreamForRow(2).OpenScopes)

	explicit := document.New("x", nil, []document.Line{
		{Text: "a", Tags: []tagstream.Tag{1}},
		{Text: "b", Tags: []tagstream.Tag{1}, OpenScopes: []tagstream.ScopeID{5}},
	})
	assert.Equal(t, []tagstream.ScopeID{5}, explicit.TagStreamForRow(1).OpenScopes)
}

func TestBounds(t *testing.T) {
	doc := demo()

	assert.Equal(t, 2, doc.LastRow())
	assert.Equal(t, position.NewPlace(2, 0), doc.EndPosition())
	assert.Equal(t, 6, doc.RowLength(0))
	assert.Equal(t, 0, doc.RowLength(9))
	assert.Empty(t, doc.TagStreamForRow(-1).Tags)
	assert.Empty(t, doc.TagStreamForRow(3).Tags)

	empty := document.New("empty", nil, nil)
	assert.Equal(t, -1, empty.LastRow())
	assert.Equal(t, position.Place{}, empty.EndPosition())
	assert.Equal(t, "", empty.TextInRange(position.NewRange(0, 0, 4, 4)))
}

func TestScopeName(t *testing.T) {
	doc := demo()
	assert.Equal(t, "string.quoted.double", doc.ScopeName(3))
	assert.Equal(t, "<unknown scope 9>", doc.ScopeName(9))
}

func TestTextInRange(t *testing.T) {
	doc := document.New("text", nil, []document.Line{
		{Text: "héllo", Tags: []tagstream.Tag{5}},
		{Text: "wörld", Tags: []tagstream.Tag{5}},
	})

	tests := []struct {
		name string
		r    position.Range
		want string
	}{
		{name: "within a row", r: position.NewRange(0, 1, 0, 4), want: "éll"},
		{name: "across rows", r: position.NewRange(0, 3, 1, 2), want: "lo\nwö"},
		{name: "whole document", r: position.NewRange(0, 0, 1, 5), want: "héllo\nwörld"},
		{name: "clipped", r: position.NewRange(-2, 0, 7, 7), want: "héllo\nwörld"},
		{name: "empty", r: position.NewRange(1, 2, 1, 2), want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, doc.TextInRange(tt.r))
		})
	}
}

func TestValidate(t *testing.T) {
	require.NoError(t, demo().Validate())

	bad := document.New("bad", map[tagstream.ScopeID]string{
		1: "source.bad",
		4: "even.id",
	}, []document.Line{
		{Text: "abc", Tags: []tagstream.Tag{-1, 2}},
		{Text: "d", Tags: []tagstream.Tag{1, -7, -8}},
	})

	err := bad.Validate()
	require.Error(t, err)

	errs := multierr.Errors(err)
	assert.Len(t, errs, 4, "errors: %v", errs)
	assert.ErrorContains(t, err, "scope id 4")
	assert.ErrorContains(t, err, "row 0: tokens cover 2 characters, text has 3")
	assert.ErrorContains(t, err, "row 1 tag 1: open(7) refers to unknown scope")
	assert.ErrorContains(t, err, "row 1 tag 2: close(7) refers to unknown scope")
}

func TestLoad(t *testing.T) {
	ctx := testContext(t)

	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "fixtures/demo.yaml", []byte(yamlFixture), 0o644))
	require.NoError(t, afero.WriteFile(fs, "fixtures/tree.json", []byte(jsonFixture), 0o644))
	require.NoError(t, afero.WriteFile(fs, "fixtures/broken.yaml", []byte("name: [\n"), 0o644))
	require.NoError(t, afero.WriteFile(fs, "fixtures/unknown.yaml", []byte("nme: x\n"), 0o644))

	t.Run("yaml", func(t *testing.T) {
		doc, err := document.Load(ctx, fs, "fixtures/demo.yaml")
		require.NoError(t, err)

		assert.Equal(t, "source.demo", doc.Name())
		assert.Equal(t, 1, doc.LastRow())
		assert.Equal(t, []tagstream.ScopeID{1, 3}, doc.TagStreamForRow(1).OpenScopes)
		assert.Equal(t, []position.Place{{Row: 0, Column: 5}, {Row: 1, Column: 3}}, doc.Probes())
		assert.False(t, doc.SupportsTree())
	})

	t.Run("json with tree", func(t *testing.T) {
		doc, err := document.Load(ctx, fs, "fixtures/tree.json")
		require.NoError(t, err)

		require.True(t, doc.SupportsTree())
		assert.Equal(t, []string{"source.json", "meta.structure"}, doc.ScopesAtPosition(position.NewPlace(0, 1)))
		assert.Equal(t, []string{"document", "object"}, doc.PathToPosition(position.NewPlace(0, 1)))
		assert.Equal(t, []string{}, doc.ScopesAtPosition(position.NewPlace(0, 2)), "range ends are exclusive")
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := document.Load(ctx, fs, "fixtures/nope.yaml")
		require.Error(t, err)
	})

	t.Run("malformed yaml", func(t *testing.T) {
		_, err := document.Load(ctx, fs, "fixtures/broken.yaml")
		require.ErrorContains(t, err, "decoding fixture")
	})

	t.Run("unknown field", func(t *testing.T) {
		_, err := document.Load(ctx, fs, "fixtures/unknown.yaml")
		require.ErrorContains(t, err, "decoding fixture")
	})
}

func TestTreeValidation(t *testing.T) {
	doc := document.New("tree", nil, []document.Line{{Text: "abcd", Tags: []tagstream.Tag{4}}}).
		WithTree(&document.Node{
			Kind:  "root",
			Range: position.NewRange(0, 0, 0, 4),
			Children: []*document.Node{
				{Kind: "escapes", Range: position.NewRange(0, 2, 0, 9)},
				{Kind: "reversed", Range: position.NewRange(0, 3, 0, 1)},
			},
		})

	err := doc.Validate()
	require.Error(t, err)
	assert.Len(t, multierr.Errors(err), 2)
}
