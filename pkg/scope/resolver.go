package scope

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/walteh/tmscope/pkg/position"
	"github.com/walteh/tmscope/pkg/tagstream"
)

// Options tune a resolution run.
type Options struct {
	// AdjustEndOfLine reopens scopes closed by trailing markers when the cursor
	// sits at the end of a row, so the row's last token is treated as
	// continuing into the next row.
	AdjustEndOfLine bool
}

// Cursor is the state of a left-to-right walk stopped at the cursor.
type Cursor struct {
	// Stack holds the open scopes at the cursor, outermost first.
	Stack []tagstream.ScopeID
	// Index is the tag that covers the cursor, or len(tags) when the cursor is
	// at or past the end of the row.
	Index int
	// Column is the column just after the tag at Index.
	Column int
}

// Result is the outcome of Resolve.
type Result struct {
	Stack     []tagstream.ScopeID
	Immediate position.Range
	Enclosing position.Range
	// Ambiguous is set when the end-of-line adjustment met an open marker
	// right before the end of the row and stopped.
	Ambiguous bool
}

// Resolve computes the scope stack at p together with the immediate and
// enclosing ranges. It has no failure mode: positions outside the document
// and malformed streams produce a best-effort result.
func Resolve(ctx context.Context, lines tagstream.LineProvider, p position.Place, opts Options) Result {
	logger := zerolog.Ctx(ctx)

	stream := lines.TagStreamForRow(p.Row)
	cur := ResolveStack(stream, p.Column)

	var res Result

	if opts.AdjustEndOfLine && cur.Index == len(stream.Tags) {
		cur, res.Ambiguous = AdjustEndOfLine(ctx, p.Row, stream, cur)
	}

	if cur.Index == len(stream.Tags) {
		cur.Index--
	}

	depth := len(cur.Stack)
	at := position.Place{Row: p.Row, Column: cur.Column}

	immStart, encStart := FindRangeStart(lines, depth, at, stream.Tags, cur.Index)
	immEnd, encEnd := FindRangeEnd(lines, depth, at, stream.Tags, cur.Index)

	res.Stack = cur.Stack
	res.Immediate = position.Range{Start: immStart, End: immEnd}
	res.Enclosing = position.Range{Start: encStart, End: encEnd}

	logger.Debug().
		Stringer("place", p).
		Int("depth", depth).
		Int("tag_index", cur.Index).
		Stringer("immediate", res.Immediate).
		Stringer("enclosing", res.Enclosing).
		Msg("resolved scope ranges")

	return res
}

// ResolveStack walks the row from the left, applying markers to the stack
// carried in from previous rows, until a token reaches past column.
func ResolveStack(stream tagstream.TagStream, column int) Cursor {
	stack := make([]tagstream.ScopeID, len(stream.OpenScopes), len(stream.OpenScopes)+len(stream.Tags))
	copy(stack, stream.OpenScopes)

	col := 0
	for i, tag := range stream.Tags {
		switch {
		case tag.IsOpen():
			stack = append(stack, tag.ScopeID())
		case tag.IsClose():
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		case tag.IsToken():
			col += tag.Width()
			if col > column {
				return Cursor{Stack: stack, Index: i, Column: col}
			}
		}
	}

	return Cursor{Stack: stack, Index: len(stream.Tags), Column: col}
}

// AdjustEndOfLine handles a cursor at the end of a row. Trailing close markers
// are undone by pushing their scope back onto the stack. A trailing open
// marker is a tokenizer state with no agreed reading; the walk stops there,
// drops what it reopened, and reports the state as ambiguous.
func AdjustEndOfLine(ctx context.Context, row int, stream tagstream.TagStream, cur Cursor) (Cursor, bool) {
	if cur.Index != len(stream.Tags) {
		return cur, false
	}

	depth := len(cur.Stack)

	i := len(stream.Tags) - 1
	for ; i >= 0; i-- {
		tag := stream.Tags[i]
		if tag.IsClose() {
			cur.Stack = append(cur.Stack, tag.ScopeID())
			continue
		}
		if tag.IsOpen() {
			zerolog.Ctx(ctx).Warn().
				Int("row", row).
				Int("tag_index", i).
				Stringer("tag", tag).
				Msg("open marker before end of row, keeping scope stack as is")
			cur.Stack = cur.Stack[:depth]
			cur.Index = i
			return cur, true
		}
		break
	}

	cur.Index = i
	return cur, false
}

// FindRangeStart walks backward from the tag at index. The first marker met
// is the immediate start; the first open marker that takes the depth below
// depth is the enclosing start. at.Column must be the column just after the
// tag at index.
func FindRangeStart(lines tagstream.LineProvider, depth int, at position.Place, tags []tagstream.Tag, index int) (immediate, enclosing position.Place) {
	startDepth := depth
	immediateSet := false
	row, column := at.Row, at.Column

	if index >= len(tags) {
		index = len(tags) - 1
	}

	for {
		for ; index >= 0; index-- {
			tag := tags[index]
			if tag.IsToken() {
				column -= tag.Width()
				continue
			}
			if !tag.IsMarker() {
				continue
			}

			here := position.Place{Row: row, Column: column}
			if !immediateSet {
				immediateSet = true
				immediate = here
			}

			if tag.IsClose() {
				depth++
			} else {
				depth--
				if depth < startDepth {
					return immediate, here
				}
			}
		}

		if row <= 0 {
			break
		}
		if last := lines.LastRow(); row > last {
			row = last + 1
		}
		row--
		if row < 0 {
			break
		}

		stream := lines.TagStreamForRow(row)
		tags = stream.Tags
		index = len(tags) - 1
		column = stream.Len()
	}

	if !immediateSet {
		immediate = position.Place{}
	}
	return immediate, position.Place{}
}

// FindRangeEnd is the forward mirror of FindRangeStart, starting after the tag
// at index.
func FindRangeEnd(lines tagstream.LineProvider, depth int, at position.Place, tags []tagstream.Tag, index int) (immediate, enclosing position.Place) {
	startDepth := depth
	immediateSet := false
	row, column := at.Row, at.Column

	index++
	if index < 0 {
		index = 0
	}

	lastRow := lines.LastRow()

	for {
		for ; index < len(tags); index++ {
			tag := tags[index]
			if tag.IsToken() {
				column += tag.Width()
				continue
			}
			if !tag.IsMarker() {
				continue
			}

			here := position.Place{Row: row, Column: column}
			if !immediateSet {
				immediateSet = true
				immediate = here
			}

			if tag.IsClose() {
				depth--
				if depth < startDepth {
					return immediate, here
				}
			} else {
				depth++
			}
		}

		if row >= lastRow {
			break
		}
		if row < 0 {
			row = 0
		} else {
			row++
		}

		tags = lines.TagStreamForRow(row).Tags
		index = 0
		column = 0
	}

	end := lines.EndPosition()
	if !immediateSet {
		immediate = end
	}
	return immediate, end
}
