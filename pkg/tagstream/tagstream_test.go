package tagstream_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/walteh/tmscope/pkg/tagstream"
)

func TestTagClassification(t *testing.T) {
	tests := []struct {
		name    string
		tag     tagstream.Tag
		token   bool
		open    bool
		close   bool
		scopeID tagstream.ScopeID
	}{
		{name: "token", tag: 5, token: true},
		{name: "open scope one", tag: -1, open: true, scopeID: 1},
		{name: "close scope one", tag: -2, close: true, scopeID: 1},
		{name: "open scope seven", tag: -7, open: true, scopeID: 7},
		{name: "close scope seven", tag: -8, close: true, scopeID: 7},
		{name: "zero", tag: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.token, tt.tag.IsToken(), "IsToken")
			assert.Equal(t, tt.open, tt.tag.IsOpen(), "IsOpen")
			assert.Equal(t, tt.close, tt.tag.IsClose(), "IsClose")
			assert.Equal(t, tt.open || tt.close, tt.tag.IsMarker(), "IsMarker")
			assert.Equal(t, tt.scopeID, tt.tag.ScopeID(), "ScopeID")
		})
	}

	assert.Equal(t, tagstream.Tag(-3), tagstream.OpenTag(3))
	assert.Equal(t, tagstream.Tag(-4), tagstream.CloseTag(3))
}

func TestTagStreamColumns(t *testing.T) {
	s := tagstream.TagStream{Tags: []tagstream.Tag{-1, 5, -3, 2, -4, -2, 3}}

	assert.Equal(t, 10, s.Len())
	assert.Equal(t, 0, s.ColumnAt(0))
	assert.Equal(t, 5, s.ColumnAt(2))
	assert.Equal(t, 7, s.ColumnAt(5))
	assert.Equal(t, 10, s.ColumnAt(99))
}

func TestClosingScopes(t *testing.T) {
	s := tagstream.TagStream{
		OpenScopes: []tagstream.ScopeID{1},
		Tags:       []tagstream.Tag{4, -3, 2, -5, 1},
	}
	assert.Equal(t, []tagstream.ScopeID{1, 3, 5}, s.ClosingScopes())

	s = tagstream.TagStream{Tags: []tagstream.Tag{-2, -2, 3}}
	assert.Empty(t, s.ClosingScopes(), "unbalanced close markers are ignored")
}
