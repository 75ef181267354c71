package document

import (
	"github.com/walteh/tmscope/pkg/position"
	"gitlab.com/tozd/go/errors"
	"go.uber.org/multierr"
)

// Validate checks that the tag streams agree with the text and the scope
// catalog, and that tree nodes nest. Every problem found is reported.
func (d *Document) Validate() error {
	var err error

	for id := range d.scopes {
		if id <= 0 || id%2 == 0 {
			err = multierr.Append(err, errors.Errorf("scope id %d: must be positive and odd", id))
		}
	}

	for i, r := range d.rows {
		if got, want := r.stream.Len(), len(r.chars); got != want {
			err = multierr.Append(err, errors.Errorf("row %d: tokens cover %d characters, text has %d", i, got, want))
		}

		for j, tag := range r.stream.Tags {
			if !tag.IsMarker() {
				continue
			}
			if _, ok := d.scopes[tag.ScopeID()]; !ok {
				err = multierr.Append(err, errors.Errorf("row %d tag %d: %s refers to unknown scope", i, j, tag))
			}
		}

		for _, id := range r.stream.OpenScopes {
			if _, ok := d.scopes[id]; !ok {
				err = multierr.Append(err, errors.Errorf("row %d: open scope %d is unknown", i, id))
			}
		}
	}

	outer := position.Range{End: d.EndPosition()}
	for _, n := range d.tree {
		err = multierr.Append(err, validateNode(n, outer))
	}

	return err
}

func validateNode(n *Node, parent position.Range) error {
	if n == nil {
		return errors.Errorf("tree: nil node")
	}

	var err error
	if n.Range.End.Before(n.Range.Start) {
		err = multierr.Append(err, errors.Errorf("tree node %q: range %s is reversed", n.Kind, n.Range))
	} else if !parent.Contains(n.Range) {
		err = multierr.Append(err, errors.Errorf("tree node %q: range %s outside parent %s", n.Kind, n.Range, parent))
	}

	for _, c := range n.Children {
		err = multierr.Append(err, validateNode(c, n.Range))
	}
	return err
}
