package document

import (
	"fmt"
	"strings"

	"github.com/apparentlymart/go-textseg/v13/textseg"
	"github.com/walteh/tmscope/pkg/position"
	"github.com/walteh/tmscope/pkg/tagstream"
)

// Line is one tokenized row. A nil OpenScopes is derived from the rows above.
type Line struct {
	Text       string
	Tags       []tagstream.Tag
	OpenScopes []tagstream.ScopeID
}

type row struct {
	text   string
	chars  [][]byte
	stream tagstream.TagStream
}

// Document is an in-memory tokenized document. It serves tag streams, scope
// names and text, and optionally a syntax tree.
type Document struct {
	name   string
	rows   []row
	scopes map[tagstream.ScopeID]string
	tree   []*Node
	probes []position.Place
}

var (
	_ tagstream.LineProvider = (*Document)(nil)
	_ tagstream.ScopeCatalog = (*Document)(nil)
	_ tagstream.TreeProvider = (*Document)(nil)
	_ position.Bounds        = (*Document)(nil)
)

// New builds a document from tokenized lines. Rows whose OpenScopes is nil
// inherit the scopes left open by the previous row.
func New(name string, scopes map[tagstream.ScopeID]string, lines []Line) *Document {
	doc := &Document{
		name:   name,
		rows:   make([]row, 0, len(lines)),
		scopes: make(map[tagstream.ScopeID]string, len(scopes)),
	}

	for id, scope := range scopes {
		doc.scopes[id] = scope
	}

	var carried []tagstream.ScopeID
	for _, line := range lines {
		open := line.OpenScopes
		if open == nil {
			open = carried
		}

		stream := tagstream.TagStream{
			Tags:       append([]tagstream.Tag(nil), line.Tags...),
			OpenScopes: append([]tagstream.ScopeID{}, open...),
		}

		doc.rows = append(doc.rows, row{
			text:   line.Text,
			chars:  splitCharacters(line.Text),
			stream: stream,
		})

		carried = stream.ClosingScopes()
	}

	return doc
}

// WithTree attaches a syntax tree, switching the document to tree queries.
func (d *Document) WithTree(nodes ...*Node) *Document {
	d.tree = nodes
	return d
}

// WithProbes records positions of interest carried by a fixture.
func (d *Document) WithProbes(probes ...position.Place) *Document {
	d.probes = probes
	return d
}

func (d *Document) Name() string {
	return d.name
}

func (d *Document) Probes() []position.Place {
	return d.probes
}

func (d *Document) TagStreamForRow(r int) tagstream.TagStream {
	if r < 0 || r >= len(d.rows) {
		return tagstream.TagStream{}
	}
	return d.rows[r].stream
}

func (d *Document) LastRow() int {
	return len(d.rows) - 1
}

func (d *Document) RowLength(r int) int {
	if r < 0 || r >= len(d.rows) {
		return 0
	}
	return len(d.rows[r].chars)
}

func (d *Document) EndPosition() position.Place {
	last := d.LastRow()
	if last < 0 {
		return position.Place{}
	}
	return position.Place{Row: last, Column: d.RowLength(last)}
}

func (d *Document) ScopeName(id tagstream.ScopeID) string {
	if name, ok := d.scopes[id]; ok {
		return name
	}
	return fmt.Sprintf("<unknown scope %d>", id)
}

func (d *Document) ClipRange(r position.Range) position.Range {
	return position.ClipRange(d, r)
}

// TextInRange returns the text covered by r after clipping, rows joined by
// newlines.
func (d *Document) TextInRange(r position.Range) string {
	if len(d.rows) == 0 {
		return ""
	}

	r = d.ClipRange(r)

	var b strings.Builder
	for i := r.Start.Row; i <= r.End.Row; i++ {
		chars := d.rows[i].chars

		from, to := 0, len(chars)
		if i == r.Start.Row {
			from = r.Start.Column
		}
		if i == r.End.Row {
			to = r.End.Column
		}

		for _, c := range chars[from:to] {
			b.Write(c)
		}
		if i < r.End.Row {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func splitCharacters(text string) [][]byte {
	if text == "" {
		return nil
	}
	chars, err := textseg.AllTokens([]byte(text), textseg.ScanGraphemeClusters)
	if err != nil {
		// one character per byte keeps the row usable
		chars = make([][]byte, len(text))
		for i := 0; i < len(text); i++ {
			chars[i] = []byte{text[i]}
		}
	}
	return chars
}
