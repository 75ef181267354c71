package document

import (
	"github.com/walteh/tmscope/pkg/position"
)

// Node is a syntax tree node for documents parsed into a tree instead of tag
// streams.
type Node struct {
	Kind     string
	Scope    string
	Range    position.Range
	Children []*Node
}

func (n *Node) covers(p position.Place) bool {
	if n.Range.IsEmpty() {
		return n.Range.Start.Compare(p) == 0
	}
	return n.Range.Start.Compare(p) <= 0 && p.Before(n.Range.End)
}

// path returns the chain of nodes covering p, outermost first. Among
// siblings the first covering node wins.
func (d *Document) path(p position.Place) []*Node {
	var out []*Node
	level := d.tree
	for {
		var next *Node
		for _, n := range level {
			if n.covers(p) {
				next = n
				break
			}
		}
		if next == nil {
			return out
		}
		out = append(out, next)
		level = next.Children
	}
}

func (d *Document) SupportsTree() bool {
	return len(d.tree) > 0
}

// ScopesAtPosition lists the scope names of the nodes covering p, outermost
// first. Nodes without a scope are left out.
func (d *Document) ScopesAtPosition(p position.Place) []string {
	scopes := []string{}
	for _, n := range d.path(p) {
		if n.Scope != "" {
			scopes = append(scopes, n.Scope)
		}
	}
	return scopes
}

// PathToPosition lists the kinds of the nodes covering p, outermost first.
func (d *Document) PathToPosition(p position.Place) []string {
	kinds := []string{}
	for _, n := range d.path(p) {
		kinds = append(kinds, n.Kind)
	}
	return kinds
}
