package position

import (
	"fmt"
)

// Place is a zero-based (row, column) location in a document. Columns count
// characters from the start of the row.
type Place struct {
	Row    int `json:"row" yaml:"row"`
	Column int `json:"column" yaml:"column"`
}

// Range is a span between two places. Start is never after End for ranges
// produced by this module.
type Range struct {
	Start Place `json:"start" yaml:"start"`
	End   Place `json:"end" yaml:"end"`
}

func NewPlace(row, column int) Place {
	return Place{Row: row, Column: column}
}

func NewRange(startRow, startColumn, endRow, endColumn int) Range {
	return Range{
		Start: Place{Row: startRow, Column: startColumn},
		End:   Place{Row: endRow, Column: endColumn},
	}
}

// Compare orders two places in document order. It returns -1, 0 or 1.
func (p Place) Compare(other Place) int {
	switch {
	case p.Row < other.Row:
		return -1
	case p.Row > other.Row:
		return 1
	case p.Column < other.Column:
		return -1
	case p.Column > other.Column:
		return 1
	}
	return 0
}

func (p Place) Before(other Place) bool {
	return p.Compare(other) < 0
}

func (p Place) After(other Place) bool {
	return p.Compare(other) > 0
}

func (p Place) String() string {
	return fmt.Sprintf("%d:%d", p.Row, p.Column)
}

// IsEmpty reports whether the range has zero width.
func (r Range) IsEmpty() bool {
	return r.Start.Compare(r.End) == 0
}

// Contains reports whether other lies entirely within r. Touching edges count.
func (r Range) Contains(other Range) bool {
	return r.Start.Compare(other.Start) <= 0 && other.End.Compare(r.End) <= 0
}

// ContainsPlace reports whether the place lies within r, edges included.
func (r Range) ContainsPlace(p Place) bool {
	return r.Start.Compare(p) <= 0 && p.Compare(r.End) <= 0
}

// Normalized returns r with Start and End swapped if they are out of order.
func (r Range) Normalized() Range {
	if r.End.Before(r.Start) {
		return Range{Start: r.End, End: r.Start}
	}
	return r
}

func (r Range) String() string {
	return fmt.Sprintf("[%s-%s]", r.Start, r.End)
}

// Bounds describes the shape of a document for clipping: the character length
// of every row. A document with no rows behaves as a single empty row.
type Bounds interface {
	LastRow() int
	RowLength(row int) int
}

// Clip clamps a place into the document described by b.
func Clip(b Bounds, p Place) Place {
	last := b.LastRow()
	if last < 0 {
		return Place{}
	}
	if p.Row < 0 {
		return Place{}
	}
	if p.Row > last {
		return Place{Row: last, Column: b.RowLength(last)}
	}
	if p.Column < 0 {
		p.Column = 0
	}
	if l := b.RowLength(p.Row); p.Column > l {
		p.Column = l
	}
	return p
}

// ClipRange clamps both ends of the range into the document described by b.
func ClipRange(b Bounds, r Range) Range {
	return Range{Start: Clip(b, r.Start), End: Clip(b, r.End)}.Normalized()
}
