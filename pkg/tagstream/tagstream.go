// Package tagstream describes the flat token stream a TextMate-style tokenizer
// produces for one row, and the collaborators that serve those streams.
//
// A row is encoded as a sequence of signed integers:
//
//	 5   a token five characters wide
//	-1   open scope 1
//	-2   close scope 1
//
// Scope ids are positive and odd. The open marker of scope id is -id and its
// close marker is -(id+1), so the parity of a negative tag tells the two apart.
package tagstream

import (
	"fmt"

	"github.com/walteh/tmscope/pkg/position"
)

// Tag is one entry of a row's tag stream.
type Tag int

// ScopeID identifies a scope in a ScopeCatalog.
type ScopeID int

// IsToken reports whether the tag advances the column.
func (t Tag) IsToken() bool {
	return t > 0
}

// IsMarker reports whether the tag is a scope boundary.
func (t Tag) IsMarker() bool {
	return t < 0
}

// IsOpen reports whether the tag opens a scope.
func (t Tag) IsOpen() bool {
	return t < 0 && t%2 != 0
}

// IsClose reports whether the tag closes a scope.
func (t Tag) IsClose() bool {
	return t < 0 && t%2 == 0
}

// Width is the number of characters covered by the tag; markers have none.
func (t Tag) Width() int {
	if t > 0 {
		return int(t)
	}
	return 0
}

// ScopeID returns the scope a marker refers to. Tokens return 0.
func (t Tag) ScopeID() ScopeID {
	switch {
	case t.IsOpen():
		return ScopeID(-t)
	case t.IsClose():
		return ScopeID(-(t + 1))
	}
	return 0
}

func (t Tag) String() string {
	switch {
	case t.IsOpen():
		return fmt.Sprintf("open(%d)", t.ScopeID())
	case t.IsClose():
		return fmt.Sprintf("close(%d)", t.ScopeID())
	}
	return fmt.Sprintf("token(%d)", int(t))
}

// TagStream is the tokenized form of one row together with the scopes that
// were already open when the row started.
type TagStream struct {
	Tags       []Tag
	OpenScopes []ScopeID
}

// Len is the number of characters covered by the stream's tokens.
func (s TagStream) Len() int {
	n := 0
	for _, t := range s.Tags {
		n += t.Width()
	}
	return n
}

// ClosingScopes returns the stack left open after the last tag of the row,
// which is the OpenScopes of the row that follows. Unbalanced close markers
// are ignored.
func (s TagStream) ClosingScopes() []ScopeID {
	stack := make([]ScopeID, len(s.OpenScopes), len(s.OpenScopes)+len(s.Tags))
	copy(stack, s.OpenScopes)
	for _, t := range s.Tags {
		switch {
		case t.IsOpen():
			stack = append(stack, t.ScopeID())
		case t.IsClose():
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		}
	}
	return stack
}

// LineProvider serves tag streams for the rows of one document.
type LineProvider interface {
	// TagStreamForRow returns an empty stream for rows outside the document.
	TagStreamForRow(row int) TagStream
	LastRow() int
	EndPosition() position.Place
}

// ScopeCatalog names scope ids. Unknown ids map to a placeholder.
type ScopeCatalog interface {
	ScopeName(id ScopeID) string
}

// TreeProvider is the alternative for documents parsed into a syntax tree
// rather than tokenized into tag streams.
type TreeProvider interface {
	SupportsTree() bool
	ScopesAtPosition(p position.Place) []string
	PathToPosition(p position.Place) []string
}
